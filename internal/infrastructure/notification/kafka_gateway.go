// Package notification delivers posted-document notifications to external
// collaborators over Kafka.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/profitmap/docflow/internal/domain/document"
	"github.com/profitmap/docflow/internal/infrastructure/config"
	"github.com/profitmap/docflow/internal/infrastructure/event"
	"github.com/twmb/franz-go/pkg/kgo"
)

// producer is the part of *kgo.Client the gateway uses
type producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

// KafkaGateway publishes PostedEvents to a Kafka topic. Records are keyed by
// document so notifications about one document stay ordered on one partition.
type KafkaGateway struct {
	client     producer
	topic      string
	timeout    time.Duration
	serializer *event.EventSerializer
}

// NewKafkaGateway creates a gateway with a durable producer: all in-sync replicas
// must acknowledge, batches are gzip-compressed and failed requests are retried
// with linear backoff.
func NewKafkaGateway(cfg config.NotificationConfig) (*KafkaGateway, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("at least one broker is required")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("topic is required")
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(cfg.ClientID),
		kgo.DefaultProduceTopic(cfg.Topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerBatchCompression(kgo.GzipCompression()),
		kgo.RetryBackoffFn(func(tries int) time.Duration {
			backoff := time.Duration(tries) * 100 * time.Millisecond
			if backoff > 10*time.Second {
				backoff = 10 * time.Second
			}
			return backoff
		}),
		kgo.RequestRetries(10),
		kgo.ProducerLinger(5*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	return newKafkaGateway(client, cfg.Topic, cfg.Timeout), nil
}

func newKafkaGateway(client producer, topic string, timeout time.Duration) *KafkaGateway {
	return &KafkaGateway{
		client:     client,
		topic:      topic,
		timeout:    timeout,
		serializer: event.NewDocumentEventSerializer(),
	}
}

// Notify publishes the event and waits for the broker acknowledgement
func (g *KafkaGateway) Notify(ctx context.Context, posted *document.PostedEvent) error {
	value, err := g.serializer.Serialize(posted)
	if err != nil {
		return err
	}

	record := &kgo.Record{
		Topic: g.topic,
		Key:   []byte("doc:" + posted.DocumentID.String()),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(posted.EventType())},
			{Key: "event_id", Value: []byte(posted.EventID().String())},
			{Key: "company_id", Value: []byte(posted.CompanyID().String())},
		},
		Timestamp: posted.OccurredAt(),
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if err := g.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to publish %s for %s: %w", posted.EventType(), posted.DocumentNumber, err)
	}
	return nil
}

// Close flushes and closes the producer
func (g *KafkaGateway) Close() {
	g.client.Close()
}

var _ document.NotificationGateway = (*KafkaGateway)(nil)
