package sink

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jittakal/chunker/internal/config/dto"
	apperrors "github.com/jittakal/chunker/internal/errors"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		cfg      dto.SinkConfig
		wantType string
		wantErr  error
	}{
		{name: "console", cfg: dto.SinkConfig{Backend: "console"}, wantType: "*sink.ConsoleWriter"},
		{name: "default backend", cfg: dto.SinkConfig{}, wantType: "*sink.ConsoleWriter"},
		{
			name:     "file jsonl",
			cfg:      dto.SinkConfig{Backend: "file", Format: "jsonl", File: dto.FileConfig{BasePath: dir}},
			wantType: "*sink.ObjectWriter",
		},
		{
			name:     "file avro",
			cfg:      dto.SinkConfig{Backend: "file", Format: "avro", Avro: dto.AvroConfig{Codec: "deflate"}, File: dto.FileConfig{BasePath: dir}},
			wantType: "*sink.ObjectWriter",
		},
		{
			name:     "sqlite",
			cfg:      dto.SinkConfig{Backend: "sqlite", SQLite: dto.SQLiteConfig{Path: filepath.Join(dir, "c.db")}},
			wantType: "*sink.SQLiteWriter",
		},
		{name: "unknown backend", cfg: dto.SinkConfig{Backend: "ftp"}, wantErr: apperrors.ErrUnsupportedBackend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := New(context.Background(), tt.cfg, dto.KafkaConfig{}, zap.NewNop(), newMockMetricsCollector())
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("New() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer w.Close()

			if got := typeName(w); got != tt.wantType {
				t.Errorf("New() type = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func TestNew_InvalidFormat(t *testing.T) {
	cfg := dto.SinkConfig{Backend: "file", Format: "xml", File: dto.FileConfig{BasePath: t.TempDir()}}
	if _, err := New(context.Background(), cfg, dto.KafkaConfig{}, zap.NewNop(), nil); err == nil {
		t.Error("New() with unknown format should fail")
	}
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
