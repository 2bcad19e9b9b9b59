package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgemunganga/storefront-checkout/internal/platform/messaging"
	kafkaGo "github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkaGo.Message) error
	Close() error
}

type publisher struct {
	w messageWriter
}

// NewPublisher creates a Kafka-backed publisher. The topic is chosen per message.
func NewPublisher(brokers []string) messaging.Publisher {
	return &publisher{w: &kafkaGo.Writer{
		Addr:         kafkaGo.TCP(brokers...),
		Balancer:     &kafkaGo.Hash{},
		RequiredAcks: kafkaGo.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
	}}
}

func (p *publisher) PublishEvent(ctx context.Context, topic string, key string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.w.WriteMessages(ctx, kafkaGo.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now().UTC(),
	})
}

func (p *publisher) Close() error { return p.w.Close() }
