package encoder

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Stream compression applied by the raw and jsonl encoders.
const (
	CompressionNone = "none"
	CompressionGzip = "gzip"
	CompressionZstd = "zstd"
)

func normalizeCompression(name string) string {
	switch strings.ToLower(name) {
	case "", "none", "uncompressed", "null":
		return CompressionNone
	default:
		return strings.ToLower(name)
	}
}

// compressedWriter wraps buf so that everything written is compressed with the named codec.
func compressedWriter(buf *bytes.Buffer, compression string) (io.WriteCloser, error) {
	switch compression {
	case CompressionNone:
		return nopCloser{buf}, nil
	case CompressionGzip:
		return gzip.NewWriter(buf), nil
	case CompressionZstd:
		w, err := zstd.NewWriter(buf)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd writer: %w", err)
		}
		return w, nil
	default:
		return nil, fmt.Errorf("unsupported compression: %s", compression)
	}
}

func compressionSuffix(compression string) string {
	switch compression {
	case CompressionGzip:
		return ".gz"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

// Decompress reverses the stream compression applied by the raw and jsonl encoders.
func Decompress(data []byte, compression string) ([]byte, error) {
	switch normalizeCompression(compression) {
	case CompressionNone:
		return data, nil
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer r.Close()
		return io.ReadAll(r)
	case CompressionZstd:
		d, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		defer d.Close()
		return d.DecodeAll(data, nil)
	default:
		return nil, fmt.Errorf("unsupported compression: %s", compression)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }
