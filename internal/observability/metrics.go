package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Engine metrics
	Flushes        *prometheus.CounterVec
	ChunksFlushed  *prometheus.CounterVec
	BytesFlushed   *prometheus.CounterVec
	PendingBytes   prometheus.Gauge
	LinesRead      *prometheus.CounterVec
	EmptyFlushes   *prometheus.CounterVec
	ChunkSizeBytes prometheus.Histogram

	// Sink metrics
	BatchesWritten    *prometheus.CounterVec
	SinkWriteDuration *prometheus.HistogramVec
	BatchSize         *prometheus.HistogramVec
	SinkErrors        *prometheus.CounterVec
	SinkRetries       *prometheus.CounterVec
	MessagesProduced  *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(registry *prometheus.Registry) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		Flushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chunker_flushes_total",
				Help: "Total number of buffer flushes",
			},
			[]string{"reason"},
		),
		ChunksFlushed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chunker_chunks_flushed_total",
				Help: "Total number of chunks produced by flushes",
			},
			[]string{"reason"},
		),
		BytesFlushed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chunker_bytes_flushed_total",
				Help: "Total number of bytes released by flushes",
			},
			[]string{"reason"},
		),
		PendingBytes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "chunker_pending_bytes",
				Help: "Bytes currently buffered and not yet flushed",
			},
		),
		LinesRead: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chunker_lines_read_total",
				Help: "Total number of lines read from sources",
			},
			[]string{"source"},
		),
		EmptyFlushes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chunker_empty_flushes_total",
				Help: "Flushes that released no content and were not written",
			},
			[]string{"reason"},
		),
		ChunkSizeBytes: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "chunker_chunk_size_bytes",
				Help:    "Length of individual chunks",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10), // 1B to 256KB
			},
		),

		BatchesWritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sink_batches_written_total",
				Help: "Total number of batches written to the sink",
			},
			[]string{"backend", "format", "status"},
		),
		SinkWriteDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sink_write_duration_seconds",
				Help:    "Duration of sink writes including encoding",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"backend", "format"},
		),
		BatchSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sink_batch_size_bytes",
				Help:    "Size of encoded batches written to the sink",
				Buckets: prometheus.ExponentialBuckets(64, 4, 10), // 64B to 16MB
			},
			[]string{"backend", "format"},
		),
		SinkErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sink_errors_total",
				Help: "Total number of sink errors",
			},
			[]string{"backend", "error_type"},
		),
		SinkRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sink_retries_total",
				Help: "Total number of retried sink writes",
			},
			[]string{"backend"},
		),
		MessagesProduced: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kafka_messages_produced_total",
				Help: "Total number of chunk messages produced to Kafka",
			},
			[]string{"topic"},
		),
	}
}

// ObserveFlush records one flush and the chunks it produced.
func (m *Metrics) ObserveFlush(reason string, chunks []string) {
	m.Flushes.WithLabelValues(reason).Inc()
	size := 0
	for _, c := range chunks {
		size += len(c)
		m.ChunkSizeBytes.Observe(float64(len(c)))
	}
	m.ChunksFlushed.WithLabelValues(reason).Add(float64(len(chunks)))
	m.BytesFlushed.WithLabelValues(reason).Add(float64(size))
	if len(chunks) == 0 {
		m.EmptyFlushes.WithLabelValues(reason).Inc()
	}
}

// SetPendingBytes sets the pending bytes gauge.
func (m *Metrics) SetPendingBytes(n int) {
	m.PendingBytes.Set(float64(n))
}

// IncLinesRead increments lines read counter.
func (m *Metrics) IncLinesRead(source string) {
	m.LinesRead.WithLabelValues(source).Inc()
}

// IncBatchesWritten increments batches written counter.
func (m *Metrics) IncBatchesWritten(backend, format, status string) {
	m.BatchesWritten.WithLabelValues(backend, format, status).Inc()
}

// ObserveSinkWrite observes the duration and size of a successful sink write.
func (m *Metrics) ObserveSinkWrite(backend, format string, seconds float64, size int64) {
	m.SinkWriteDuration.WithLabelValues(backend, format).Observe(seconds)
	m.BatchSize.WithLabelValues(backend, format).Observe(float64(size))
}

// IncSinkErrors increments sink errors counter.
func (m *Metrics) IncSinkErrors(backend, errorType string) {
	m.SinkErrors.WithLabelValues(backend, errorType).Inc()
}

// IncSinkRetries increments sink retries counter.
func (m *Metrics) IncSinkRetries(backend string) {
	m.SinkRetries.WithLabelValues(backend).Inc()
}

// AddMessagesProduced adds to the produced messages counter.
func (m *Metrics) AddMessagesProduced(topic string, n int) {
	m.MessagesProduced.WithLabelValues(topic).Add(float64(n))
}
