// Package publisher sends encoded card transactions to Kafka.
package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/transfraud/internal/config"
	"github.com/Dan9191/transfraud/internal/metrics"
	"github.com/Dan9191/transfraud/internal/schema"
)

// Message header keys
const (
	HeaderContentType = "content-type"
	HeaderSchema      = "schema"
)

// messageWriter is the subset of *kafka.Writer the publisher uses
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher publishes records asynchronously. Publish returns once the
// message is queued; the broker outcome is only logged and counted.
type KafkaPublisher struct {
	writer  messageWriter
	codec   *schema.Codec
	metrics *metrics.Metrics
	log     *logrus.Entry
}

// NewKafkaPublisher creates a publisher writing to the transactions topic
func NewKafkaPublisher(cfg config.KafkaConfig, codec *schema.Codec, m *metrics.Metrics, log *logrus.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		codec:   codec,
		metrics: m,
		log:     log.WithFields(logrus.Fields{"component": "publisher", "topic": cfg.TransactionsTopic}),
	}
	p.writer = &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TransactionsTopic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchTimeout: 10 * time.Millisecond,
		Completion:   p.completion,
	}
	return p
}

// Publish encodes rec and queues it keyed by its transaction id
func (p *KafkaPublisher) Publish(ctx context.Context, rec *schema.CardTransaction) error {
	value, err := p.codec.Encode(rec)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(rec.TransactionID),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderContentType, Value: []byte(schema.ContentType)},
			{Key: HeaderSchema, Value: []byte(p.codec.Name())},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to send transaction %s: %w", rec.TransactionID, err)
	}
	return nil
}

// Close flushes queued messages and releases the writer
func (p *KafkaPublisher) Close() error {
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) completion(msgs []kafka.Message, err error) {
	if err != nil {
		for _, msg := range msgs {
			p.log.WithError(err).Errorf("Failed to send transaction %s", msg.Key)
		}
		p.metrics.PublishCompleted(metrics.ResultFailure, len(msgs))
		return
	}

	for _, msg := range msgs {
		p.log.Debugf("Transaction sent successfully: %s, partition %d, offset %d", msg.Key, msg.Partition, msg.Offset)
	}
	p.metrics.PublishCompleted(metrics.ResultSuccess, len(msgs))
}
