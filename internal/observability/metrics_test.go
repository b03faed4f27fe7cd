package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)

	if metrics == nil {
		t.Fatal("NewMetrics returned nil")
	}
}

func TestMetrics_ObserveFlush(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	metrics.ObserveFlush("size", []string{"abcde", "fghij", "k"})
	metrics.ObserveFlush("size", []string{"lm"})
	metrics.ObserveFlush("time", []string{})

	if got := testutil.ToFloat64(metrics.Flushes.WithLabelValues("size")); got != 2 {
		t.Errorf("size flushes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.ChunksFlushed.WithLabelValues("size")); got != 4 {
		t.Errorf("size chunks = %v, want 4", got)
	}
	if got := testutil.ToFloat64(metrics.BytesFlushed.WithLabelValues("size")); got != 13 {
		t.Errorf("size bytes = %v, want 13", got)
	}
	if got := testutil.ToFloat64(metrics.EmptyFlushes.WithLabelValues("time")); got != 1 {
		t.Errorf("empty time flushes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.EmptyFlushes.WithLabelValues("size")); got != 0 {
		t.Errorf("empty size flushes = %v, want 0", got)
	}
}

func TestMetrics_PendingBytes(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	metrics.SetPendingBytes(42)
	if got := testutil.ToFloat64(metrics.PendingBytes); got != 42 {
		t.Errorf("pending bytes = %v, want 42", got)
	}
	metrics.SetPendingBytes(0)
	if got := testutil.ToFloat64(metrics.PendingBytes); got != 0 {
		t.Errorf("pending bytes = %v, want 0", got)
	}
}

func TestMetrics_Sink(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())

	metrics.IncBatchesWritten("file", "raw", "success")
	metrics.IncBatchesWritten("file", "raw", "success")
	metrics.IncBatchesWritten("s3", "avro", "failure")
	metrics.ObserveSinkWrite("file", "raw", 0.01, 512)
	metrics.IncSinkErrors("s3", "upload")
	metrics.IncSinkRetries("s3")
	metrics.AddMessagesProduced("chunks", 3)
	metrics.IncLinesRead("stdin")

	if got := testutil.ToFloat64(metrics.BatchesWritten.WithLabelValues("file", "raw", "success")); got != 2 {
		t.Errorf("file batches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.SinkErrors.WithLabelValues("s3", "upload")); got != 1 {
		t.Errorf("s3 upload errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(metrics.MessagesProduced.WithLabelValues("chunks")); got != 3 {
		t.Errorf("messages produced = %v, want 3", got)
	}
	if got := testutil.CollectAndCount(metrics.SinkWriteDuration); got != 1 {
		t.Errorf("write duration series = %d, want 1", got)
	}
}

func TestMetrics_Registry(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	metrics.ObserveFlush("manual", []string{"a"})

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{"chunker_flushes_total", "chunker_pending_bytes", "chunker_chunk_size_bytes"} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func BenchmarkMetrics_ObserveFlush(b *testing.B) {
	metrics := NewMetrics(prometheus.NewRegistry())
	chunks := []string{"abcdefghij", "klmnopqrst", "uvwxyz"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		metrics.ObserveFlush("size", chunks)
	}
}
