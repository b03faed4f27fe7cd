package encoder

import (
	"bytes"
	"fmt"

	"github.com/jittakal/chunker/pkg/chunk"
	"github.com/jittakal/chunker/pkg/encoder"
)

var _ encoder.Encoder = (*RawEncoder)(nil)

// RawEncoder writes the chunk bytes back to back, reproducing the flushed text.
type RawEncoder struct {
	compression string
}

// NewRawEncoder creates a raw encoder. Compression is one of none, gzip or zstd.
func NewRawEncoder(compression string) (*RawEncoder, error) {
	c := normalizeCompression(compression)
	if _, err := compressedWriter(&bytes.Buffer{}, c); err != nil {
		return nil, err
	}
	return &RawEncoder{compression: c}, nil
}

// Encode returns the concatenated chunks.
func (e *RawEncoder) Encode(batch chunk.Batch) ([]byte, error) {
	var buf bytes.Buffer
	w, err := compressedWriter(&buf, e.compression)
	if err != nil {
		return nil, err
	}

	for _, c := range batch.Chunks {
		if _, err := w.Write([]byte(c)); err != nil {
			w.Close()
			return nil, fmt.Errorf("failed to write chunk: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s writer: %w", e.compression, err)
	}
	return buf.Bytes(), nil
}

// Format returns the file format.
func (e *RawEncoder) Format() chunk.FileFormat {
	return chunk.FormatRaw
}

// FileExtension returns the file extension.
func (e *RawEncoder) FileExtension() string {
	return ".txt" + compressionSuffix(e.compression)
}
