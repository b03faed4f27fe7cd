package encoder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jittakal/chunker/pkg/chunk"
	"github.com/jittakal/chunker/pkg/encoder"
)

var _ encoder.Encoder = (*JSONLEncoder)(nil)

// ChunkRecord is the per-chunk row shared by the jsonl, avro and parquet encoders.
type ChunkRecord struct {
	BatchID   string    `json:"batch_id" parquet:"batch_id,dict"`
	Sequence  int64     `json:"sequence" parquet:"sequence"`
	Reason    string    `json:"reason" parquet:"reason,dict"`
	Index     int32     `json:"index" parquet:"chunk_index"`
	Chunk     string    `json:"chunk" parquet:"chunk"`
	FlushedAt time.Time `json:"flushed_at" parquet:"flushed_at,timestamp(microsecond)"`
}

// Records flattens a batch into one record per chunk, in chunk order.
func Records(batch chunk.Batch) []ChunkRecord {
	records := make([]ChunkRecord, len(batch.Chunks))
	for i, c := range batch.Chunks {
		records[i] = ChunkRecord{
			BatchID:   batch.ID,
			Sequence:  int64(batch.Sequence),
			Reason:    string(batch.Reason),
			Index:     int32(i),
			Chunk:     c,
			FlushedAt: batch.FlushedAt.UTC(),
		}
	}
	return records
}

// JSONLEncoder writes one JSON object per chunk, newline delimited.
type JSONLEncoder struct {
	compression string
}

// NewJSONLEncoder creates a jsonl encoder. Compression is one of none, gzip or zstd.
func NewJSONLEncoder(compression string) (*JSONLEncoder, error) {
	c := normalizeCompression(compression)
	if _, err := compressedWriter(&bytes.Buffer{}, c); err != nil {
		return nil, err
	}
	return &JSONLEncoder{compression: c}, nil
}

// Encode returns the batch as JSON lines.
func (e *JSONLEncoder) Encode(batch chunk.Batch) ([]byte, error) {
	var buf bytes.Buffer
	w, err := compressedWriter(&buf, e.compression)
	if err != nil {
		return nil, err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, record := range Records(batch) {
		if err := enc.Encode(record); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to encode chunk %d: %w", record.Index, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s writer: %w", e.compression, err)
	}
	return buf.Bytes(), nil
}

// Format returns the file format.
func (e *JSONLEncoder) Format() chunk.FileFormat {
	return chunk.FormatJSONL
}

// FileExtension returns the file extension.
func (e *JSONLEncoder) FileExtension() string {
	return ".jsonl" + compressionSuffix(e.compression)
}
