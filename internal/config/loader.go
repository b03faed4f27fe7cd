package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jittakal/chunker/internal/config/dto"
	"github.com/spf13/viper"
)

// Loader handles configuration loading and validation
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load loads configuration from file and environment variables
func (l *Loader) Load(path string) (*dto.ApplicationConfig, error) {
	l.setDefaults()

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Only expand values that contain a ${...} pattern
	for _, key := range l.v.AllKeys() {
		value := l.v.GetString(key)
		if strings.Contains(value, "${") {
			l.v.Set(key, os.ExpandEnv(value))
		}
	}

	var config dto.ApplicationConfig
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := l.Validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func (l *Loader) setDefaults() {
	// Application defaults
	l.v.SetDefault("application.name", "chunker")
	l.v.SetDefault("application.version", "1.0.0")
	l.v.SetDefault("application.environment", "development")

	// Chunker defaults
	l.v.SetDefault("chunker.size", 10)
	l.v.SetDefault("chunker.line_char", "\n")
	l.v.SetDefault("chunker.rollover.size.enabled", false)
	l.v.SetDefault("chunker.rollover.size.threshold", 4096)
	l.v.SetDefault("chunker.rollover.time.enabled", false)
	l.v.SetDefault("chunker.rollover.time.interval_ms", 1000)

	// Source defaults
	l.v.SetDefault("source.type", "stdin")
	l.v.SetDefault("source.max_line_bytes", 1024*1024)
	l.v.SetDefault("source.generator.interval_ms", 100)
	l.v.SetDefault("source.generator.count", 0)
	l.v.SetDefault("source.generator.kind", "sentence")

	// Sink defaults
	l.v.SetDefault("sink.backend", "console")
	l.v.SetDefault("sink.format", "raw")
	l.v.SetDefault("sink.compression", "none")
	l.v.SetDefault("sink.console.output", "stdout")
	l.v.SetDefault("sink.console.quote", true)
	l.v.SetDefault("sink.s3.use_path_style", false)
	l.v.SetDefault("sink.s3.sse_enabled", true)
	l.v.SetDefault("sink.sqlite.table", "chunks")
	l.v.SetDefault("sink.parquet.compression", "snappy")
	l.v.SetDefault("sink.avro.codec", "snappy")

	// Kafka defaults
	l.v.SetDefault("kafka.security_protocol", "PLAINTEXT")
	l.v.SetDefault("kafka.sasl_mechanism", "PLAIN")
	l.v.SetDefault("kafka.producer.client_id", "chunker")
	l.v.SetDefault("kafka.producer.event_source", "chunker")
	l.v.SetDefault("kafka.producer.event_type", "io.chunker.chunk")
	l.v.SetDefault("kafka.producer.compression", "snappy")
	l.v.SetDefault("kafka.producer.required_acks", "all")
	l.v.SetDefault("kafka.producer.max_message_bytes", 1000000)
	l.v.SetDefault("kafka.producer.timeout_ms", 10000)

	// Retry defaults
	l.v.SetDefault("retry.enabled", true)
	l.v.SetDefault("retry.max_attempts", 5)
	l.v.SetDefault("retry.initial_backoff_ms", 100)
	l.v.SetDefault("retry.max_backoff_ms", 30000)
	l.v.SetDefault("retry.backoff_multiplier", 2.0)
	l.v.SetDefault("retry.jitter", true)

	// Observability defaults
	l.v.SetDefault("observability.logging.level", "info")
	l.v.SetDefault("observability.logging.format", "json")
	l.v.SetDefault("observability.logging.output", "stderr")
	l.v.SetDefault("observability.metrics.enabled", true)
	l.v.SetDefault("observability.metrics.port", 9090)
	l.v.SetDefault("observability.metrics.path", "/metrics")
	l.v.SetDefault("observability.health.enabled", true)
	l.v.SetDefault("observability.health.port", 8080)
	l.v.SetDefault("observability.health.liveness_path", "/health/live")
	l.v.SetDefault("observability.health.readiness_path", "/health/ready")

	// Shutdown defaults
	l.v.SetDefault("shutdown.grace_period_seconds", 30)
}

// Validate validates the configuration
func (l *Loader) Validate(config *dto.ApplicationConfig) error {
	if err := config.Chunker.Validate(); err != nil {
		return err
	}

	// Source validation
	switch config.Source.Type {
	case "stdin", "generator":
	case "file":
		if config.Source.Path == "" {
			return errors.New("source.path is required for file source")
		}
	default:
		return fmt.Errorf("unsupported source type: %s", config.Source.Type)
	}

	// Sink validation
	switch config.Sink.Backend {
	case "console":
	case "file":
		if err := config.Sink.File.Validate(); err != nil {
			return fmt.Errorf("sink.file: %w", err)
		}
	case "s3":
		if err := config.Sink.S3.Validate(); err != nil {
			return fmt.Errorf("sink.s3: %w", err)
		}
	case "azure":
		if err := config.Sink.Azure.Validate(); err != nil {
			return fmt.Errorf("sink.azure: %w", err)
		}
	case "gcs":
		if err := config.Sink.GCS.Validate(); err != nil {
			return fmt.Errorf("sink.gcs: %w", err)
		}
	case "sqlite":
		if err := config.Sink.SQLite.Validate(); err != nil {
			return fmt.Errorf("sink.sqlite: %w", err)
		}
	case "kafka":
		if err := config.Kafka.Validate(); err != nil {
			return fmt.Errorf("kafka: %w", err)
		}
	default:
		return fmt.Errorf("unsupported sink backend: %s", config.Sink.Backend)
	}

	// Format validation
	switch config.Sink.Format {
	case "raw", "jsonl", "avro", "parquet":
	default:
		return fmt.Errorf("unsupported sink format: %s", config.Sink.Format)
	}

	// Port validation
	if config.Observability.Metrics.Enabled &&
		(config.Observability.Metrics.Port < 1 || config.Observability.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port: %d", config.Observability.Metrics.Port)
	}
	if config.Observability.Health.Enabled &&
		(config.Observability.Health.Port < 1 || config.Observability.Health.Port > 65535) {
		return fmt.Errorf("invalid health port: %d", config.Observability.Health.Port)
	}

	return nil
}
