// Package encoder implements encoder factory for creating file format encoders.
package encoder

import (
	"fmt"

	apperrors "github.com/jittakal/chunker/internal/errors"
	"github.com/jittakal/chunker/pkg/chunk"
	"github.com/jittakal/chunker/pkg/encoder"
)

// Factory creates encoders based on format and configuration.
type Factory struct {
	format      chunk.FileFormat
	compression string
}

// NewFactory creates a new encoder factory.
func NewFactory(format chunk.FileFormat, compression string) *Factory {
	return &Factory{
		format:      format,
		compression: compression,
	}
}

// CreateEncoder creates an encoder based on the configured format.
func (f *Factory) CreateEncoder() (encoder.Encoder, error) {
	switch f.format {
	case chunk.FormatRaw:
		return NewRawEncoder(f.compression)
	case chunk.FormatJSONL:
		return NewJSONLEncoder(f.compression)
	case chunk.FormatParquet:
		return NewParquetEncoder(f.compression), nil
	case chunk.FormatAvro:
		return NewAvroEncoder(f.compression)
	default:
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnsupportedFormat, f.format)
	}
}

// SupportedFormats returns a list of supported file formats.
func SupportedFormats() []chunk.FileFormat {
	return []chunk.FileFormat{
		chunk.FormatRaw,
		chunk.FormatJSONL,
		chunk.FormatParquet,
		chunk.FormatAvro,
	}
}

// SupportedCompressions returns supported compression codecs for a given format.
func SupportedCompressions(format chunk.FileFormat) []string {
	switch format {
	case chunk.FormatRaw, chunk.FormatJSONL:
		return []string{CompressionNone, CompressionGzip, CompressionZstd}
	case chunk.FormatParquet:
		return []string{"uncompressed", "snappy", "gzip", "lz4", "zstd"}
	case chunk.FormatAvro:
		return []string{"null", "deflate", "snappy", "gzip"}
	default:
		return []string{}
	}
}

// DefaultCompression returns the default compression for a format.
func DefaultCompression(format chunk.FileFormat) string {
	switch format {
	case chunk.FormatParquet, chunk.FormatAvro:
		return "snappy"
	default:
		return CompressionNone
	}
}
