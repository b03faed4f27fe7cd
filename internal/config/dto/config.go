package dto

import (
	"fmt"
	"time"
)

// ApplicationConfig is the root configuration structure
type ApplicationConfig struct {
	Application   ApplicationInfo     `mapstructure:"application"`
	Chunker       ChunkerConfig       `mapstructure:"chunker"`
	Source        SourceConfig        `mapstructure:"source"`
	Sink          SinkConfig          `mapstructure:"sink"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Retry         RetryConfig         `mapstructure:"retry"`
	Observability ObservabilityConfig `mapstructure:"observability"`
	Shutdown      ShutdownConfig      `mapstructure:"shutdown"`
}

// ApplicationInfo contains application metadata
type ApplicationInfo struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ChunkerConfig contains buffering engine settings
type ChunkerConfig struct {
	Size     int            `mapstructure:"size"`
	LineChar string         `mapstructure:"line_char"`
	Rollover RolloverConfig `mapstructure:"rollover"`
}

// RolloverConfig contains automatic flush triggers
type RolloverConfig struct {
	Size SizeRolloverConfig `mapstructure:"size"`
	Time TimeRolloverConfig `mapstructure:"time"`
}

// SizeRolloverConfig flushes once Threshold bytes are pending
type SizeRolloverConfig struct {
	Enabled   bool `mapstructure:"enabled"`
	Threshold int  `mapstructure:"threshold"`
}

// TimeRolloverConfig flushes every IntervalMS milliseconds
type TimeRolloverConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	IntervalMS int  `mapstructure:"interval_ms"`
}

// Interval returns the rollover interval as a duration.
func (c TimeRolloverConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// SourceConfig contains line source settings
type SourceConfig struct {
	Type         string          `mapstructure:"type"`
	Path         string          `mapstructure:"path"`
	MaxLineBytes int             `mapstructure:"max_line_bytes"`
	Generator    GeneratorConfig `mapstructure:"generator"`
}

// GeneratorConfig contains synthetic line generator settings
type GeneratorConfig struct {
	IntervalMS int    `mapstructure:"interval_ms"`
	Count      int    `mapstructure:"count"`
	Kind       string `mapstructure:"kind"`
}

// Interval returns the generation interval as a duration.
func (c GeneratorConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMS) * time.Millisecond
}

// SinkConfig contains sink backend configuration
type SinkConfig struct {
	Backend      string        `mapstructure:"backend"`
	Format       string        `mapstructure:"format"`
	Compression  string        `mapstructure:"compression"`
	PathTemplate string        `mapstructure:"path_template"`
	Console      ConsoleConfig `mapstructure:"console"`
	File         FileConfig    `mapstructure:"file"`
	S3           S3Config      `mapstructure:"s3"`
	Azure        AzureConfig   `mapstructure:"azure"`
	GCS          GCSConfig     `mapstructure:"gcs"`
	SQLite       SQLiteConfig  `mapstructure:"sqlite"`
	Parquet      ParquetConfig `mapstructure:"parquet"`
	Avro         AvroConfig    `mapstructure:"avro"`
}

// ConsoleConfig contains console sink configuration
type ConsoleConfig struct {
	Output string `mapstructure:"output"`
	Quote  bool   `mapstructure:"quote"`
}

// FileConfig contains local filesystem configuration
type FileConfig struct {
	BasePath string `mapstructure:"base_path"`
}

// S3Config contains AWS S3 configuration
type S3Config struct {
	Bucket       string `mapstructure:"bucket"`
	Region       string `mapstructure:"region"`
	BasePath     string `mapstructure:"base_path"`
	Endpoint     string `mapstructure:"endpoint"`
	UsePathStyle bool   `mapstructure:"use_path_style"`
	SSEEnabled   bool   `mapstructure:"sse_enabled"`
	SSEKMSKeyID  string `mapstructure:"sse_kms_key_id"`
}

// AzureConfig contains Azure Blob Storage configuration
type AzureConfig struct {
	AccountName string `mapstructure:"account_name"`
	AccountKey  string `mapstructure:"account_key"`
	Container   string `mapstructure:"container"`
	BasePath    string `mapstructure:"base_path"`
	Endpoint    string `mapstructure:"endpoint"`
}

// GCSConfig contains Google Cloud Storage configuration
type GCSConfig struct {
	Bucket               string `mapstructure:"bucket"`
	ProjectID            string `mapstructure:"project_id"`
	BasePath             string `mapstructure:"base_path"`
	CredentialsFile      string `mapstructure:"credentials_file"`
	CredentialsJSON      string `mapstructure:"credentials_json"`
	Endpoint             string `mapstructure:"endpoint"`
	UseDefaultCredential bool   `mapstructure:"use_default_credential"`
}

// SQLiteConfig contains SQLite sink configuration
type SQLiteConfig struct {
	Path  string `mapstructure:"path"`
	Table string `mapstructure:"table"`
}

// ParquetConfig contains Parquet format settings
type ParquetConfig struct {
	Compression string `mapstructure:"compression"`
}

// AvroConfig contains Avro format settings
type AvroConfig struct {
	Codec string `mapstructure:"codec"`
}

// KafkaConfig contains Kafka-related configuration
type KafkaConfig struct {
	BootstrapServers []string       `mapstructure:"bootstrap_servers"`
	SecurityProtocol string         `mapstructure:"security_protocol"`
	SASLMechanism    string         `mapstructure:"sasl_mechanism"`
	SASLUsername     string         `mapstructure:"sasl_username"`
	SASLPassword     string         `mapstructure:"sasl_password"`
	AWSRegion        string         `mapstructure:"aws_region"`
	Producer         ProducerConfig `mapstructure:"producer"`
}

// ProducerConfig contains Kafka producer configuration
type ProducerConfig struct {
	Topic           string `mapstructure:"topic"`
	ClientID        string `mapstructure:"client_id"`
	EventSource     string `mapstructure:"event_source"`
	EventType       string `mapstructure:"event_type"`
	Compression     string `mapstructure:"compression"`
	RequiredAcks    string `mapstructure:"required_acks"`
	MaxMessageBytes int    `mapstructure:"max_message_bytes"`
	TimeoutMS       int    `mapstructure:"timeout_ms"`
}

// RetryConfig contains retry settings
type RetryConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	MaxAttempts       int     `mapstructure:"max_attempts"`
	InitialBackoffMS  int     `mapstructure:"initial_backoff_ms"`
	MaxBackoffMS      int     `mapstructure:"max_backoff_ms"`
	BackoffMultiplier float64 `mapstructure:"backoff_multiplier"`
	Jitter            bool    `mapstructure:"jitter"`
}

// ObservabilityConfig contains observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Health  HealthConfig  `mapstructure:"health"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig contains metrics settings
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// HealthConfig contains health check settings
type HealthConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Port          int    `mapstructure:"port"`
	LivenessPath  string `mapstructure:"liveness_path"`
	ReadinessPath string `mapstructure:"readiness_path"`
}

// ShutdownConfig contains shutdown settings
type ShutdownConfig struct {
	GracePeriodSeconds int `mapstructure:"grace_period_seconds"`
}

// GracePeriod returns the shutdown grace period as a duration.
func (c ShutdownConfig) GracePeriod() time.Duration {
	return time.Duration(c.GracePeriodSeconds) * time.Second
}

// Validate validates the chunker configuration.
func (c *ChunkerConfig) Validate() error {
	if c.Size < 1 {
		return fmt.Errorf("chunker size must be positive, got %d", c.Size)
	}
	if c.Rollover.Size.Enabled && c.Rollover.Size.Threshold < 1 {
		return fmt.Errorf("chunker size rollover threshold must be positive, got %d", c.Rollover.Size.Threshold)
	}
	if c.Rollover.Time.Enabled && c.Rollover.Time.IntervalMS < 1 {
		return fmt.Errorf("chunker time rollover interval must be positive, got %d", c.Rollover.Time.IntervalMS)
	}
	return nil
}

// Validate validates S3 configuration.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("s3 bucket is required")
	}
	if c.Region == "" {
		return fmt.Errorf("s3 region is required")
	}
	return nil
}

// Validate validates Azure configuration.
func (c *AzureConfig) Validate() error {
	if c.AccountName == "" {
		return fmt.Errorf("azure account name is required")
	}
	if c.AccountKey == "" {
		return fmt.Errorf("azure account key is required")
	}
	if c.Container == "" {
		return fmt.Errorf("azure container is required")
	}
	return nil
}

// Validate validates GCS configuration.
func (c *GCSConfig) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("gcs bucket is required")
	}
	return nil
}

// Validate validates file configuration.
func (c *FileConfig) Validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("file base path is required")
	}
	return nil
}

// Validate validates SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("sqlite path is required")
	}
	return nil
}

// Validate validates Kafka producer configuration.
func (c *KafkaConfig) Validate() error {
	if len(c.BootstrapServers) == 0 {
		return fmt.Errorf("kafka bootstrap servers are required")
	}
	if c.Producer.Topic == "" {
		return fmt.Errorf("kafka producer topic is required")
	}
	return nil
}
