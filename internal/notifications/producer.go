package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cinebook/internal/bookings"
	"cinebook/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher emits booking lifecycle events to Kafka for downstream
// notification delivery (email/SMS workers live outside this service).
type Publisher interface {
	PublishBookingEvent(ctx context.Context, event bookings.BookingEvent)
	HealthCheck(ctx context.Context) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka event producer
type ProducerConfig struct {
	Brokers         []string
	BookingTopic    string
	RetryMax        int
	TimeoutMs       int
	RequiredAcks    sarama.RequiredAcks
	CompressionType sarama.CompressionCodec
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig() *ProducerConfig {
	return &ProducerConfig{
		Brokers:         []string{"localhost:9092"},
		BookingTopic:    "booking-events",
		RetryMax:        3,
		TimeoutMs:       10000,
		RequiredAcks:    sarama.WaitForAll,
		CompressionType: sarama.CompressionSnappy,
	}
}

// kafkaPublisher publishes booking events through a sarama sync producer.
// Publishing is fire-and-forget from the caller's point of view: failures
// are logged and dropped, never surfaced into the booking flow.
type kafkaPublisher struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
	logger   *logger.Logger
}

// NewKafkaPublisher creates a Kafka-backed booking event publisher
func NewKafkaPublisher(config *ProducerConfig, log *logger.Logger) (Publisher, error) {
	if config == nil {
		config = DefaultProducerConfig()
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond

	// Hash partitioner keys events by booking so one booking's events
	// stay ordered within a partition.
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	return &kafkaPublisher{
		producer: producer,
		config:   config,
		logger:   log,
	}, nil
}

func (p *kafkaPublisher) PublishBookingEvent(ctx context.Context, event bookings.BookingEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorWithContext(ctx, "Failed to marshal booking event", err, map[string]interface{}{
			"event_type": event.Type,
			"booking_id": event.BookingID.String(),
		})
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.config.BookingTopic,
		Key:   sarama.StringEncoder(event.BookingID.String()),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.ErrorWithContext(ctx, "Failed to publish booking event", err, map[string]interface{}{
			"event_type": event.Type,
			"booking_id": event.BookingID.String(),
		})
		return
	}

	p.logger.InfoWithContext(ctx, "Booking event published", map[string]interface{}{
		"event_type": event.Type,
		"booking_id": event.BookingID.String(),
		"partition":  partition,
		"offset":     offset,
	})
}

func (p *kafkaPublisher) HealthCheck(ctx context.Context) error {
	// SyncProducer keeps broker connections alive; a closed producer is
	// the only local failure state observable without a round trip.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (p *kafkaPublisher) Close() error {
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	return nil
}

// noopPublisher drops all events. Used when Kafka is disabled.
type noopPublisher struct{}

// NewNoopPublisher returns a publisher that discards every event
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) PublishBookingEvent(context.Context, bookings.BookingEvent) {}
func (noopPublisher) HealthCheck(context.Context) error                         { return nil }
func (noopPublisher) Close() error                                              { return nil }
