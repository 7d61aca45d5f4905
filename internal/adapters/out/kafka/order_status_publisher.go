// Package kafka publishes committed order status changes.
package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"takeout/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

const DefaultOrderChangedTopic = "order.status-changed"

// OrderStatusChanged is the message value. The key is the order number so
// every change of one order lands on the same partition.
type OrderStatusChanged struct {
	OrderID string    `json:"orderId"`
	Number  string    `json:"number"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Event   string    `json:"event"`
	Reason  string    `json:"reason,omitempty"`
	At      time.Time `json:"at"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type OrderStatusPublisher struct {
	writer messageWriter
}

// NewWriter builds a hash-balanced writer for a comma separated broker list.
func NewWriter(brokersCSV, topic string) *kafka.Writer {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	if topic == "" {
		topic = DefaultOrderChangedTopic
	}
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
}

func NewOrderStatusPublisher(writer messageWriter) *OrderStatusPublisher {
	return &OrderStatusPublisher{writer: writer}
}

func (p *OrderStatusPublisher) PublishStatusChanged(ctx context.Context, aggregate *order.Order, tr order.Transition) error {
	value, err := json.Marshal(OrderStatusChanged{
		OrderID: aggregate.ID().String(),
		Number:  aggregate.Number().String(),
		From:    tr.From.String(),
		To:      tr.To.String(),
		Event:   tr.Event.String(),
		Reason:  tr.Reason(),
		At:      tr.At.UTC(),
	})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(aggregate.Number().String()),
		Value: value,
		Time:  tr.At.UTC(),
	})
}

func (p *OrderStatusPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops every event. It is wired when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishStatusChanged(context.Context, *order.Order, order.Transition) error {
	return nil
}
