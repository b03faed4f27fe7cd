package sink

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jittakal/chunker/internal/config/dto"
	"github.com/jittakal/chunker/internal/encoder"
	apperrors "github.com/jittakal/chunker/internal/errors"
	"github.com/jittakal/chunker/internal/kafka"
	"github.com/jittakal/chunker/pkg/chunk"
	pkgencoder "github.com/jittakal/chunker/pkg/encoder"
	"github.com/jittakal/chunker/pkg/sink"
	"go.uber.org/zap"
)

// Metrics combines the collectors used by every backend.
type Metrics interface {
	MetricsCollector
	AddMessagesProduced(topic string, n int)
}

// New creates the writer for the configured backend.
func New(ctx context.Context, cfg dto.SinkConfig, kafkaCfg dto.KafkaConfig, logger *zap.Logger, metrics Metrics) (sink.Writer, error) {
	logger = logger.With(zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case "", "console":
		return NewConsoleWriter(consoleOutput(cfg.Console.Output), cfg.Console.Quote), nil
	case "sqlite":
		w, err := NewSQLiteWriter(SQLiteConfig{Path: cfg.SQLite.Path, Table: cfg.SQLite.Table}, logger, metrics)
		if err != nil {
			return nil, err
		}
		return w, nil
	case "kafka":
		p, err := kafka.NewProducer(kafkaCfg, logger, metrics)
		if err != nil {
			return nil, err
		}
		return p, nil
	}

	store, basePath, err := newObjectStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	enc, err := newEncoder(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	logger.Info("sink writer created",
		zap.String("format", string(enc.Format())),
		zap.String("base_path", basePath),
	)
	return NewObjectWriter(store, enc, NewRouter(basePath, cfg.PathTemplate), logger, metrics), nil
}

func newObjectStore(ctx context.Context, cfg dto.SinkConfig, logger *zap.Logger) (ObjectStore, string, error) {
	switch cfg.Backend {
	case "file":
		store, err := NewFileStore(FileConfig{BasePath: cfg.File.BasePath})
		return store, "", err
	case "s3":
		store, err := NewS3Store(ctx, S3Config{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
			SSEEnabled:   cfg.S3.SSEEnabled,
			SSEKMSKeyID:  cfg.S3.SSEKMSKeyID,
		}, logger)
		return store, cfg.S3.BasePath, err
	case "gcs":
		store, err := NewGCSStore(ctx, GCSConfig{
			Bucket:               cfg.GCS.Bucket,
			ProjectID:            cfg.GCS.ProjectID,
			CredentialsFile:      cfg.GCS.CredentialsFile,
			CredentialsJSON:      cfg.GCS.CredentialsJSON,
			Endpoint:             cfg.GCS.Endpoint,
			UseDefaultCredential: cfg.GCS.UseDefaultCredential,
		}, logger)
		return store, cfg.GCS.BasePath, err
	case "azure":
		store, err := NewAzureStore(AzureConfig{
			AccountName:   cfg.Azure.AccountName,
			AccountKey:    cfg.Azure.AccountKey,
			ContainerName: cfg.Azure.Container,
			Endpoint:      cfg.Azure.Endpoint,
		}, logger)
		return store, cfg.Azure.BasePath, err
	default:
		return nil, "", fmt.Errorf("%w: %s", apperrors.ErrUnsupportedBackend, cfg.Backend)
	}
}

// newEncoder picks the compression setting that applies to the configured format.
func newEncoder(cfg dto.SinkConfig) (pkgencoder.Encoder, error) {
	format, err := chunk.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	compression := cfg.Compression
	switch format {
	case chunk.FormatParquet:
		compression = cfg.Parquet.Compression
	case chunk.FormatAvro:
		compression = cfg.Avro.Codec
	}
	return encoder.NewFactory(format, compression).CreateEncoder()
}

func consoleOutput(name string) io.Writer {
	if name == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}
