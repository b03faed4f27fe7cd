// Package encoder defines interfaces for encoding batches to various file formats.
package encoder

import "github.com/jittakal/chunker/pkg/chunk"

// Encoder encodes a batch to a specific file format.
type Encoder interface {
	// Encode returns the encoded bytes for the batch.
	Encode(batch chunk.Batch) ([]byte, error)

	// Format returns the file format this encoder produces.
	Format() chunk.FileFormat

	// FileExtension returns the file extension (e.g., ".parquet", ".avro").
	FileExtension() string
}
