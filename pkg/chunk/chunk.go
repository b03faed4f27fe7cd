package chunk

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jittakal/chunker/pkg/chunker"
)

// Reason records what caused a batch to be flushed. It is the engine's flush reason,
// extended with ReasonShutdown for the pipeline's final drain.
type Reason = chunker.Reason

const (
	ReasonManual   = chunker.ReasonManual
	ReasonSize     = chunker.ReasonSize
	ReasonTime     = chunker.ReasonTime
	ReasonWatch    = chunker.ReasonWatch
	ReasonShutdown Reason = "shutdown"
)

// Batch is one flush worth of chunks.
type Batch struct {
	ID        string
	Reason    Reason
	Chunks    []string
	Size      int
	Sequence  uint64
	FlushedAt time.Time
}

// NewBatch builds a batch from flushed chunks, assigning a random ID and computing its size.
func NewBatch(reason Reason, sequence uint64, chunks []string, flushedAt time.Time) Batch {
	size := 0
	for _, c := range chunks {
		size += len(c)
	}
	return Batch{
		ID:        uuid.NewString(),
		Reason:    reason,
		Chunks:    chunks,
		Size:      size,
		Sequence:  sequence,
		FlushedAt: flushedAt,
	}
}

// IsEmpty reports whether the batch carries no chunks.
func (b Batch) IsEmpty() bool {
	return len(b.Chunks) == 0
}

// Content returns the chunks joined back into the flushed text.
func (b Batch) Content() string {
	return strings.Join(b.Chunks, "")
}

// Key returns a stable object name for the batch in the format "sequence-id".
func (b Batch) Key() string {
	return fmt.Sprintf("%08d-%s", b.Sequence, b.ID)
}

// FileFormat represents the encoding a sink writes batches in.
type FileFormat string

const (
	FormatRaw     FileFormat = "raw"
	FormatJSONL   FileFormat = "jsonl"
	FormatAvro    FileFormat = "avro"
	FormatParquet FileFormat = "parquet"
)

// ParseFormat converts a configuration string to a FileFormat.
func ParseFormat(s string) (FileFormat, error) {
	switch f := FileFormat(strings.ToLower(s)); f {
	case FormatRaw, FormatJSONL, FormatAvro, FormatParquet:
		return f, nil
	case "":
		return FormatRaw, nil
	default:
		return "", fmt.Errorf("unknown file format %q", s)
	}
}
