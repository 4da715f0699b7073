package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"backoffice-service/internal/entity"
)

const (
	OrderCreated = "created"
	OrderUpdated = "updated"
	OrderDeleted = "deleted"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// KafkaPublisher writes order events keyed "order-<event>-<id>" with the
// order as JSON payload.
type KafkaPublisher struct {
	writer messageWriter
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) PublishOrderEvent(ctx context.Context, order *entity.Order, event string) error {
	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	// order-created-1 or order-deleted-1
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order-%s-%d", event, order.ID)),
		Value: orderJSON,
	}

	return p.writer.WriteMessages(ctx, msg)
}

// NopPublisher drops every event. It stands in when no brokers are
// configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, *entity.Order, string) error {
	return nil
}
