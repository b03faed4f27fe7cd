package sink

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	apperrors "github.com/jittakal/chunker/internal/errors"
	"github.com/jittakal/chunker/pkg/chunk"
	"github.com/jittakal/chunker/pkg/sink"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"
)

var _ sink.Writer = (*SQLiteWriter)(nil)

// SQLiteConfig contains SQLite sink configuration.
type SQLiteConfig struct {
	Path  string
	Table string
}

// SQLiteWriter stores one row per chunk. All rows of a batch are inserted
// in a single transaction.
type SQLiteWriter struct {
	db      *sql.DB
	insert  string
	table   string
	logger  *zap.Logger
	metrics MetricsCollector

	mu     sync.Mutex
	closed bool
}

// NewSQLiteWriter opens (or creates) the database and its chunk table.
func NewSQLiteWriter(cfg SQLiteConfig, logger *zap.Logger, metrics MetricsCollector) (*SQLiteWriter, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if cfg.Table == "" {
		cfg.Table = "chunks"
	}
	if !validIdentifier(cfg.Table) {
		return nil, fmt.Errorf("invalid sqlite table name: %q", cfg.Table)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode=wal&_pragma=busy_timeout=5000", cfg.Path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db %s: %w", cfg.Path, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db %s: %w", cfg.Path, err)
	}

	createTableSQL := fmt.Sprintf(`
    CREATE TABLE IF NOT EXISTS %s (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        batch_id TEXT NOT NULL,
        sequence INTEGER NOT NULL,
        reason TEXT NOT NULL,
        chunk_index INTEGER NOT NULL,
        chunk TEXT NOT NULL,
        flushed_at TIMESTAMP NOT NULL
    );`, cfg.Table)
	if _, err = db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create %s table: %w", cfg.Table, err)
	}

	createIndexSQL := fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_batch ON %s (batch_id, chunk_index);`, cfg.Table, cfg.Table)
	if _, err = db.Exec(createIndexSQL); err != nil {
		logger.Warn("failed to create batch index", zap.String("table", cfg.Table), zap.Error(err))
	}

	logger.Info("SQLite sink created", zap.String("path", cfg.Path), zap.String("table", cfg.Table))

	return &SQLiteWriter{
		db: db,
		insert: fmt.Sprintf(
			`INSERT INTO %s (batch_id, sequence, reason, chunk_index, chunk, flushed_at) VALUES (?, ?, ?, ?, ?, ?)`,
			cfg.Table),
		table:   cfg.Table,
		logger:  logger,
		metrics: metrics,
	}, nil
}

// Write inserts the batch and returns its payload size in bytes.
func (w *SQLiteWriter) Write(ctx context.Context, batch chunk.Batch) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, apperrors.ErrWriterClosed
	}
	if batch.IsEmpty() {
		return 0, nil
	}

	startTime := time.Now()
	if err := w.insertBatch(ctx, batch); err != nil {
		if w.metrics != nil {
			w.metrics.IncSinkErrors("sqlite", "insert")
			w.metrics.IncBatchesWritten("sqlite", "rows", "failure")
		}
		return 0, &apperrors.SinkError{Backend: "sqlite", Operation: "insert", Path: w.table, Err: err}
	}

	size := int64(batch.Size)
	if w.metrics != nil {
		w.metrics.IncBatchesWritten("sqlite", "rows", "success")
		w.metrics.ObserveSinkWrite("sqlite", "rows", time.Since(startTime).Seconds(), size)
	}
	w.logger.Debug("inserted batch",
		zap.String("table", w.table),
		zap.String("batch_id", batch.ID),
		zap.Int("rows", len(batch.Chunks)),
	)
	return size, nil
}

func (w *SQLiteWriter) insertBatch(ctx context.Context, batch chunk.Batch) error {
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, w.insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	flushedAt := batch.FlushedAt.UTC().Format(time.RFC3339Nano)
	for i, c := range batch.Chunks {
		if _, err := stmt.ExecContext(ctx, batch.ID, int64(batch.Sequence), string(batch.Reason), i, c, flushedAt); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (w *SQLiteWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.db.Close()
}

// validIdentifier accepts names made of ASCII letters, digits and underscores
// that do not start with a digit.
func validIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
