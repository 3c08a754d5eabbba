package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"jobza_backend/internal/logger"

	"github.com/segmentio/kafka-go"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			WriteTimeout:           10 * time.Second,
			AllowAutoTopicCreation: true,
		},
	}
}

// PublishStatusChanged keys messages by user id so one account's events stay ordered.
func (p *KafkaPublisher) PublishStatusChanged(ctx context.Context, evt StatusChanged) error {
	// брокер не настроен - не роняем запрос
	if p == nil || p.writer == nil {
		logger.CtxWarn(ctx, "Kafka producer not ready, skip publish", "user_id", evt.UserID)
		return nil
	}

	if evt.Type == "" {
		evt.Type = TypeProfileStatusChanged
	}
	if evt.OccurredAt.IsZero() {
		evt.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", evt.Type, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(evt.UserID),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(evt.Type)},
		},
	})
}

func (p *KafkaPublisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
