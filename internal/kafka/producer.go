// Package kafka publishes flushed batches to Kafka as CloudEvents.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/IBM/sarama"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"
	"github.com/jittakal/chunker/internal/config/dto"
	apperrors "github.com/jittakal/chunker/internal/errors"
	"github.com/jittakal/chunker/pkg/chunk"
	"github.com/jittakal/chunker/pkg/sink"
	"go.uber.org/zap"
)

var _ sink.Writer = (*Producer)(nil)

// CloudEvent extension attribute names carried by every chunk event.
const (
	ExtBatchID    = "batchid"
	ExtSequence   = "sequence"
	ExtChunkIndex = "chunkindex"
	ExtReason     = "reason"
)

// MetricsCollector defines the metrics the producer reports.
type MetricsCollector interface {
	IncBatchesWritten(backend, format, status string)
	IncSinkErrors(backend, errorType string)
	AddMessagesProduced(topic string, n int)
}

// Producer publishes each chunk of a batch as one CloudEvent message.
// Messages of a batch share the batch ID as key and therefore land on the
// same partition in chunk order.
//
// When only some messages of a batch fail, the producer remembers the failed ones
// and a later Write of the same batch resends just those. Chunks resent this way
// arrive after the chunks that were delivered the first time.
type Producer struct {
	producer    sarama.SyncProducer
	topic       string
	eventSource string
	eventType   string
	logger      *zap.Logger
	metrics     MetricsCollector

	mu     sync.Mutex
	closed bool
	unsent *unsentBatch
}

// unsentBatch holds the messages of the last failed batch that were not acknowledged.
type unsentBatch struct {
	batchID string
	msgs    []*sarama.ProducerMessage
}

// NewProducer creates a Kafka producer from configuration.
func NewProducer(cfg dto.KafkaConfig, logger *zap.Logger, metrics MetricsCollector) (*Producer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	saramaConfig, err := newSaramaConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	producer, err := sarama.NewSyncProducer(cfg.BootstrapServers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Info("Kafka producer created successfully",
		zap.Strings("brokers", cfg.BootstrapServers),
		zap.String("securityProtocol", cfg.SecurityProtocol),
		zap.String("topic", cfg.Producer.Topic),
	)

	return NewProducerWithClient(producer, cfg.Producer, logger, metrics), nil
}

// NewProducerWithClient wraps an existing sarama.SyncProducer.
func NewProducerWithClient(
	producer sarama.SyncProducer,
	cfg dto.ProducerConfig,
	logger *zap.Logger,
	metrics MetricsCollector,
) *Producer {
	source := cfg.EventSource
	if source == "" {
		source = "chunker"
	}
	eventType := cfg.EventType
	if eventType == "" {
		eventType = "io.chunker.chunk"
	}
	return &Producer{
		producer:    producer,
		topic:       cfg.Topic,
		eventSource: source,
		eventType:   eventType,
		logger:      logger,
		metrics:     metrics,
	}
}

func newSaramaConfig(cfg dto.KafkaConfig, logger *zap.Logger) (*sarama.Config, error) {
	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.Compression = parseCompressionType(cfg.Producer.Compression)
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	acks, err := parseRequiredAcks(cfg.Producer.RequiredAcks)
	if err != nil {
		return nil, err
	}
	saramaConfig.Producer.RequiredAcks = acks

	if cfg.Producer.ClientID != "" {
		saramaConfig.ClientID = cfg.Producer.ClientID
	}
	if cfg.Producer.MaxMessageBytes > 0 {
		saramaConfig.Producer.MaxMessageBytes = cfg.Producer.MaxMessageBytes
	}
	if cfg.Producer.TimeoutMS > 0 {
		saramaConfig.Producer.Timeout = time.Duration(cfg.Producer.TimeoutMS) * time.Millisecond
	}

	if err := configureSecurity(saramaConfig, cfg, logger); err != nil {
		return nil, fmt.Errorf("failed to configure security: %w", err)
	}
	return saramaConfig, nil
}

// Write publishes every chunk of the batch and returns the payload size of the messages
// sent by this call. Retrying a batch after a partial failure sends only the messages
// that were not acknowledged.
func (p *Producer) Write(ctx context.Context, batch chunk.Batch) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, apperrors.ErrWriterClosed
	}
	if batch.IsEmpty() {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var msgs []*sarama.ProducerMessage
	if p.unsent != nil && p.unsent.batchID == batch.ID {
		msgs = p.unsent.msgs
	} else {
		var err error
		if msgs, err = p.messages(batch); err != nil {
			p.recordFailure("encode")
			return 0, fmt.Errorf("failed to build events for batch %s: %w", batch.ID, err)
		}
	}
	size := payloadSize(msgs)

	if err := p.producer.SendMessages(msgs); err != nil {
		p.recordFailure("publish")
		failed := failedMessages(err, msgs)
		p.unsent = &unsentBatch{batchID: batch.ID, msgs: failed}
		if delivered := len(msgs) - len(failed); delivered > 0 && p.metrics != nil {
			p.metrics.AddMessagesProduced(p.topic, delivered)
		}
		p.logger.Error("failed to publish batch",
			zap.String("topic", p.topic),
			zap.String("batch_id", batch.ID),
			zap.Int("failed_messages", len(failed)),
			zap.Int("total_messages", len(msgs)),
			zap.Error(err),
		)
		return 0, &apperrors.SinkError{Backend: "kafka", Operation: "publish", Path: p.topic, Err: publishError(err)}
	}
	p.unsent = nil

	p.logger.Info("Batch produced successfully",
		zap.String("topic", p.topic),
		zap.String("batch_id", batch.ID),
		zap.Uint64("sequence", batch.Sequence),
		zap.String("reason", string(batch.Reason)),
		zap.Int("messages", len(msgs)),
	)
	if p.metrics != nil {
		p.metrics.AddMessagesProduced(p.topic, len(msgs))
		p.metrics.IncBatchesWritten("kafka", "cloudevents", "success")
	}
	return size, nil
}

func (p *Producer) recordFailure(errorType string) {
	if p.metrics != nil {
		p.metrics.IncSinkErrors("kafka", errorType)
		p.metrics.IncBatchesWritten("kafka", "cloudevents", "failure")
	}
}

func (p *Producer) messages(batch chunk.Batch) ([]*sarama.ProducerMessage, error) {
	msgs := make([]*sarama.ProducerMessage, 0, len(batch.Chunks))
	for i, c := range batch.Chunks {
		event, err := p.newEvent(batch, i, c)
		if err != nil {
			return nil, err
		}
		eventBytes, err := json.Marshal(event)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal CloudEvent: %w", err)
		}

		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(batch.ID),
			Value: sarama.ByteEncoder(eventBytes),
			Headers: []sarama.RecordHeader{
				{Key: []byte("ce_specversion"), Value: []byte(event.SpecVersion())},
				{Key: []byte("ce_type"), Value: []byte(event.Type())},
				{Key: []byte("ce_source"), Value: []byte(event.Source())},
				{Key: []byte("ce_id"), Value: []byte(event.ID())},
			},
			Timestamp: batch.FlushedAt,
		})
	}
	return msgs, nil
}

func payloadSize(msgs []*sarama.ProducerMessage) int64 {
	var size int64
	for _, msg := range msgs {
		if msg.Value != nil {
			size += int64(msg.Value.Length())
		}
	}
	return size
}

// failedMessages returns fresh copies of the messages err reports as failed, in send
// order. Errors that are not per-message fail the whole set.
func failedMessages(err error, msgs []*sarama.ProducerMessage) []*sarama.ProducerMessage {
	var perrs sarama.ProducerErrors
	failed := make(map[*sarama.ProducerMessage]bool, len(msgs))
	if errors.As(err, &perrs) {
		for _, perr := range perrs {
			if perr != nil && perr.Msg != nil {
				failed[perr.Msg] = true
			}
		}
	}

	out := make([]*sarama.ProducerMessage, 0, len(msgs))
	for _, msg := range msgs {
		if len(failed) == 0 || failed[msg] {
			out = append(out, &sarama.ProducerMessage{
				Topic:     msg.Topic,
				Key:       msg.Key,
				Value:     msg.Value,
				Headers:   msg.Headers,
				Timestamp: msg.Timestamp,
			})
		}
	}
	return out
}

// publishError marks broker connectivity failures with ErrConnectionLost.
func publishError(err error) error {
	if isConnectionError(err) {
		return fmt.Errorf("%w: %w", apperrors.ErrConnectionLost, err)
	}
	return err
}

func isConnectionError(err error) bool {
	var perrs sarama.ProducerErrors
	if errors.As(err, &perrs) {
		for _, perr := range perrs {
			if perr != nil && isConnectionError(perr.Err) {
				return true
			}
		}
		return false
	}
	return errors.Is(err, sarama.ErrOutOfBrokers) || errors.Is(err, sarama.ErrNotConnected)
}

// newEvent builds the CloudEvent for chunk index i of batch.
func (p *Producer) newEvent(batch chunk.Batch, i int, c string) (cloudevents.Event, error) {
	event := cloudevents.NewEvent()
	event.SetID(uuid.NewString())
	event.SetSource(p.eventSource)
	event.SetType(p.eventType)
	event.SetTime(batch.FlushedAt)
	event.SetExtension(ExtBatchID, batch.ID)
	event.SetExtension(ExtSequence, strconv.FormatUint(batch.Sequence, 10))
	event.SetExtension(ExtChunkIndex, int32(i))
	event.SetExtension(ExtReason, string(batch.Reason))

	if err := event.SetData(cloudevents.TextPlain, c); err != nil {
		return event, fmt.Errorf("failed to set event data: %w", err)
	}
	if err := event.Validate(); err != nil {
		return event, fmt.Errorf("invalid CloudEvent: %w", err)
	}
	return event, nil
}

// Close closes the Kafka producer
func (p *Producer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
