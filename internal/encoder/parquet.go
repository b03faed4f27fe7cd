package encoder

import (
	"bytes"
	"fmt"
	"strings"

	apperrors "github.com/jittakal/chunker/internal/errors"
	"github.com/jittakal/chunker/pkg/chunk"
	"github.com/jittakal/chunker/pkg/encoder"
	"github.com/parquet-go/parquet-go"
)

// Ensure implementation satisfies interface at compile time.
var _ encoder.Encoder = (*ParquetEncoder)(nil)

// ParquetEncoder implements encoder.Encoder for Apache Parquet, one row per chunk.
// Supports SNAPPY (default), GZIP, LZ4, ZSTD and uncompressed pages.
type ParquetEncoder struct {
	compressionName string
}

// NewParquetEncoder creates a new Parquet encoder with specified compression.
func NewParquetEncoder(compression string) *ParquetEncoder {
	return &ParquetEncoder{
		compressionName: compression,
	}
}

// compressionCodec converts string compression name to parquet WriterOption.
func compressionCodec(compression string) parquet.WriterOption {
	switch strings.ToLower(compression) {
	case "gzip":
		return parquet.Compression(&parquet.Gzip)
	case "lz4":
		return parquet.Compression(&parquet.Lz4Raw)
	case "zstd":
		return parquet.Compression(&parquet.Zstd)
	case "uncompressed", "none":
		return parquet.Compression(&parquet.Uncompressed)
	default:
		return parquet.Compression(&parquet.Snappy)
	}
}

// Encode returns the batch as a Parquet file.
func (e *ParquetEncoder) Encode(batch chunk.Batch) ([]byte, error) {
	if batch.IsEmpty() {
		return nil, &apperrors.EncodeError{Format: string(chunk.FormatParquet), BatchID: batch.ID, Err: apperrors.ErrEmptyBatch}
	}

	var buf bytes.Buffer
	writer := parquet.NewGenericWriter[ChunkRecord](
		&buf,
		compressionCodec(e.compressionName),
		parquet.CreatedBy("chunker", "1.0", "0"),
	)

	if _, err := writer.Write(Records(batch)); err != nil {
		writer.Close()
		return nil, &apperrors.EncodeError{Format: string(chunk.FormatParquet), BatchID: batch.ID, Err: err}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Format returns the file format.
func (e *ParquetEncoder) Format() chunk.FileFormat {
	return chunk.FormatParquet
}

// FileExtension returns the file extension.
func (e *ParquetEncoder) FileExtension() string {
	return ".parquet"
}
