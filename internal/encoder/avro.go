package encoder

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	apperrors "github.com/jittakal/chunker/internal/errors"
	"github.com/jittakal/chunker/pkg/chunk"
	"github.com/jittakal/chunker/pkg/encoder"
	"github.com/klauspost/compress/gzip"
	"github.com/linkedin/goavro/v2"
)

// Ensure implementation satisfies interface at compile time.
var _ encoder.Encoder = (*AvroEncoder)(nil)

// AvroEncoder implements encoder.Encoder for Apache Avro OCF (Object Container File).
// Block compression uses the OCF codecs (null, deflate, snappy); gzip wraps the whole
// container instead.
type AvroEncoder struct {
	codec       *goavro.Codec
	compression string
}

// NewAvroEncoder creates a new Avro encoder with specified compression.
func NewAvroEncoder(compression string) (*AvroEncoder, error) {
	codec, err := goavro.NewCodec(avroSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to create avro codec: %w", err)
	}

	c := strings.ToLower(compression)
	switch c {
	case "", "none", "uncompressed":
		c = goavro.CompressionNullLabel
	case goavro.CompressionNullLabel, goavro.CompressionDeflateLabel, goavro.CompressionSnappyLabel, CompressionGzip:
	default:
		return nil, fmt.Errorf("unsupported avro compression: %s", compression)
	}

	return &AvroEncoder{
		codec:       codec,
		compression: c,
	}, nil
}

// avroSchema returns the Avro schema for chunk records.
func avroSchema() string {
	return `{
		"type": "record",
		"name": "ChunkRecord",
		"namespace": "io.chunker",
		"fields": [
			{"name": "batch_id", "type": "string"},
			{"name": "sequence", "type": "long"},
			{"name": "reason", "type": "string"},
			{"name": "chunk_index", "type": "int"},
			{"name": "chunk", "type": "string"},
			{"name": "flushed_at", "type": "string"}
		]
	}`
}

// Encode returns the batch as an Avro container, one record per chunk.
func (e *AvroEncoder) Encode(batch chunk.Batch) ([]byte, error) {
	if batch.IsEmpty() {
		return nil, &apperrors.EncodeError{Format: string(chunk.FormatAvro), BatchID: batch.ID, Err: apperrors.ErrEmptyBatch}
	}

	var buf bytes.Buffer
	var writer io.Writer = &buf
	blockCompression := e.compression

	var gzipWriter *gzip.Writer
	if e.compression == CompressionGzip {
		gzipWriter = gzip.NewWriter(&buf)
		writer = gzipWriter
		blockCompression = goavro.CompressionNullLabel
	}

	ocfWriter, err := goavro.NewOCFWriter(goavro.OCFConfig{
		W:               writer,
		Codec:           e.codec,
		CompressionName: blockCompression,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create OCF writer: %w", err)
	}

	records := Records(batch)
	values := make([]interface{}, len(records))
	for i, record := range records {
		values[i] = toAvroMap(record)
	}

	if err := ocfWriter.Append(values); err != nil {
		return nil, &apperrors.EncodeError{Format: string(chunk.FormatAvro), BatchID: batch.ID, Err: err}
	}

	if gzipWriter != nil {
		if err := gzipWriter.Close(); err != nil {
			return nil, fmt.Errorf("failed to close gzip writer: %w", err)
		}
	}

	return buf.Bytes(), nil
}

func toAvroMap(record ChunkRecord) map[string]interface{} {
	return map[string]interface{}{
		"batch_id":    record.BatchID,
		"sequence":    record.Sequence,
		"reason":      record.Reason,
		"chunk_index": record.Index,
		"chunk":       record.Chunk,
		"flushed_at":  record.FlushedAt.Format(time.RFC3339Nano),
	}
}

// Format returns the file format.
func (e *AvroEncoder) Format() chunk.FileFormat {
	return chunk.FormatAvro
}

// FileExtension returns the file extension.
func (e *AvroEncoder) FileExtension() string {
	if e.compression == CompressionGzip {
		return ".avro.gz"
	}
	return ".avro"
}
