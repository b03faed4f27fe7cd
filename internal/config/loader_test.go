package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jittakal/chunker/internal/config/dto"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("expected non-nil loader")
	}
	if loader.v == nil {
		t.Fatal("expected non-nil viper instance")
	}
}

func TestLoader_LoadDefaults(t *testing.T) {
	config, err := NewLoader().Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.Application.Name != "chunker" {
		t.Errorf("Application.Name = %s, want chunker", config.Application.Name)
	}
	if config.Chunker.Size != 10 {
		t.Errorf("Chunker.Size = %d, want 10", config.Chunker.Size)
	}
	if config.Chunker.LineChar != "\n" {
		t.Errorf("Chunker.LineChar = %q, want newline", config.Chunker.LineChar)
	}
	if config.Chunker.Rollover.Size.Enabled || config.Chunker.Rollover.Time.Enabled {
		t.Error("rollover triggers should be disabled by default")
	}
	if config.Source.Type != "stdin" {
		t.Errorf("Source.Type = %s, want stdin", config.Source.Type)
	}
	if config.Sink.Backend != "console" || config.Sink.Format != "raw" {
		t.Errorf("Sink = %s/%s, want console/raw", config.Sink.Backend, config.Sink.Format)
	}
	if config.Retry.MaxAttempts != 5 {
		t.Errorf("Retry.MaxAttempts = %d, want 5", config.Retry.MaxAttempts)
	}
}

func TestLoader_LoadWithValidConfig(t *testing.T) {
	configFile := writeConfig(t, `
application:
  name: test-app
  version: 1.0.0

chunker:
  size: 5
  line_char: "\r\n"
  rollover:
    size:
      enabled: true
      threshold: 10
    time:
      enabled: true
      interval_ms: 250

source:
  type: file
  path: /tmp/input.txt

sink:
  backend: file
  format: parquet
  file:
    base_path: /tmp/test
`)

	config, err := NewLoader().Load(configFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if config.Application.Name != "test-app" {
		t.Errorf("Application.Name = %s, want test-app", config.Application.Name)
	}
	if config.Chunker.Size != 5 {
		t.Errorf("Chunker.Size = %d, want 5", config.Chunker.Size)
	}
	if config.Chunker.LineChar != "\r\n" {
		t.Errorf("Chunker.LineChar = %q, want CRLF", config.Chunker.LineChar)
	}
	if !config.Chunker.Rollover.Size.Enabled || config.Chunker.Rollover.Size.Threshold != 10 {
		t.Errorf("Rollover.Size = %+v", config.Chunker.Rollover.Size)
	}
	if got := config.Chunker.Rollover.Time.Interval().Milliseconds(); got != 250 {
		t.Errorf("Rollover.Time.Interval() = %dms, want 250ms", got)
	}
	if config.Sink.File.BasePath != "/tmp/test" {
		t.Errorf("Sink.File.BasePath = %s, want /tmp/test", config.Sink.File.BasePath)
	}
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("APP_CHUNKER_SIZE", "7")
	t.Setenv("CHUNKER_TEST_BASE", "/data/out")

	configFile := writeConfig(t, `
sink:
  backend: file
  file:
    base_path: ${CHUNKER_TEST_BASE}
`)

	config, err := NewLoader().Load(configFile)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if config.Chunker.Size != 7 {
		t.Errorf("Chunker.Size = %d, want 7 from environment", config.Chunker.Size)
	}
	if config.Sink.File.BasePath != "/data/out" {
		t.Errorf("Sink.File.BasePath = %s, want expanded /data/out", config.Sink.File.BasePath)
	}
}

func TestLoader_LoadWithMissingFile(t *testing.T) {
	config, err := NewLoader().Load("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("Load() error = %v, want defaults", err)
	}
	if config.Chunker.Size != 10 {
		t.Errorf("Chunker.Size = %d, want 10", config.Chunker.Size)
	}
}

func TestLoader_LoadInvalidConfig(t *testing.T) {
	configFile := writeConfig(t, `
sink:
  backend: s3
`)
	if _, err := NewLoader().Load(configFile); err == nil {
		t.Error("expected validation error for s3 sink without bucket")
	}
}

func validConfig() *dto.ApplicationConfig {
	return &dto.ApplicationConfig{
		Chunker: dto.ChunkerConfig{Size: 10},
		Source:  dto.SourceConfig{Type: "stdin"},
		Sink:    dto.SinkConfig{Backend: "console", Format: "raw"},
		Observability: dto.ObservabilityConfig{
			Metrics: dto.MetricsConfig{Enabled: true, Port: 9090},
			Health:  dto.HealthConfig{Enabled: true, Port: 8080},
		},
	}
}

func TestLoader_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *dto.ApplicationConfig)
		wantErr bool
	}{
		{name: "valid console config", mutate: func(c *dto.ApplicationConfig) {}},
		{name: "zero chunk size", mutate: func(c *dto.ApplicationConfig) { c.Chunker.Size = 0 }, wantErr: true},
		{
			name: "size rollover without threshold",
			mutate: func(c *dto.ApplicationConfig) {
				c.Chunker.Rollover.Size.Enabled = true
			},
			wantErr: true,
		},
		{
			name: "time rollover without interval",
			mutate: func(c *dto.ApplicationConfig) {
				c.Chunker.Rollover.Time.Enabled = true
			},
			wantErr: true,
		},
		{name: "file source without path", mutate: func(c *dto.ApplicationConfig) { c.Source.Type = "file" }, wantErr: true},
		{name: "unknown source", mutate: func(c *dto.ApplicationConfig) { c.Source.Type = "socket" }, wantErr: true},
		{name: "generator source", mutate: func(c *dto.ApplicationConfig) { c.Source.Type = "generator" }},
		{
			name: "valid s3",
			mutate: func(c *dto.ApplicationConfig) {
				c.Sink.Backend = "s3"
				c.Sink.S3 = dto.S3Config{Bucket: "b", Region: "us-east-1"}
			},
		},
		{name: "s3 missing bucket", mutate: func(c *dto.ApplicationConfig) { c.Sink.Backend = "s3" }, wantErr: true},
		{name: "azure missing account", mutate: func(c *dto.ApplicationConfig) { c.Sink.Backend = "azure" }, wantErr: true},
		{name: "gcs missing bucket", mutate: func(c *dto.ApplicationConfig) { c.Sink.Backend = "gcs" }, wantErr: true},
		{name: "sqlite missing path", mutate: func(c *dto.ApplicationConfig) { c.Sink.Backend = "sqlite" }, wantErr: true},
		{
			name: "valid kafka",
			mutate: func(c *dto.ApplicationConfig) {
				c.Sink.Backend = "kafka"
				c.Kafka.BootstrapServers = []string{"localhost:9092"}
				c.Kafka.Producer.Topic = "chunks"
			},
		},
		{name: "kafka missing topic", mutate: func(c *dto.ApplicationConfig) {
			c.Sink.Backend = "kafka"
			c.Kafka.BootstrapServers = []string{"localhost:9092"}
		}, wantErr: true},
		{name: "unknown backend", mutate: func(c *dto.ApplicationConfig) { c.Sink.Backend = "ftp" }, wantErr: true},
		{name: "unknown format", mutate: func(c *dto.ApplicationConfig) { c.Sink.Format = "csv" }, wantErr: true},
		{name: "invalid metrics port", mutate: func(c *dto.ApplicationConfig) { c.Observability.Metrics.Port = 0 }, wantErr: true},
		{name: "metrics disabled ignores port", mutate: func(c *dto.ApplicationConfig) {
			c.Observability.Metrics = dto.MetricsConfig{Enabled: false}
		}},
		{name: "invalid health port", mutate: func(c *dto.ApplicationConfig) { c.Observability.Health.Port = 70000 }, wantErr: true},
	}

	loader := NewLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := validConfig()
			tt.mutate(config)
			err := loader.Validate(config)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
