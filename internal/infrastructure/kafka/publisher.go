package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/staynest/auction-service/internal/domain"
)

// DefaultKafkaPublisher writes auction events to a single topic, keyed by
// auction ID so all events of one auction land on one partition in order.
type DefaultKafkaPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewDefaultKafkaPublisher(brokers []string, topic string) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
		topic: topic,
	}
}

func (k *DefaultKafkaPublisher) PublishAuctionEvent(ctx context.Context, event domain.AuctionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return k.writer.WriteMessages(ctx, kafka.Message{
		Topic: k.topic,
		Key:   []byte(event.AuctionID),
		Value: value,
		Time:  time.Now(),
	})
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

// LogPublisher is a fallback used when no broker is configured; events are
// still observable in the service log.
type LogPublisher struct{}

func (LogPublisher) PublishAuctionEvent(_ context.Context, event domain.AuctionEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	log.Printf("event %s: %s", event.Type, value)
	return nil
}
