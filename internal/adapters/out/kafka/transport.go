// Package kafka publishes order events to a Kafka topic. The order id is the message
// key, so every event of one order lands in the same partition and keeps its order.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

const (
	// HeaderEventID carries the event id consumers deduplicate on.
	HeaderEventID = "event_id"

	// HeaderEventType carries the event type name.
	HeaderEventType = "event_type"
)

// messageWriter is the part of *kafka.Writer the transport needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Transport implements ports.EventTransport on top of a kafka-go writer.
type Transport struct {
	writer messageWriter
}

// NewTransport creates a transport writing to topic on the given brokers.
func NewTransport(brokers []string, topic string) (*Transport, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}

	return &Transport{writer: writer}, nil
}

func newTransport(writer messageWriter) *Transport {
	return &Transport{writer: writer}
}

// Publish writes one message and returns once the brokers acknowledged it.
func (t *Transport) Publish(ctx context.Context, event *outbox.Event) error {
	if event == nil {
		return errors.New("event is nil")
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.OrderID(), 10)),
		Value: event.Payload(),
		Time:  event.CreatedAt(),
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(event.EventID().String())},
			{Key: HeaderEventType, Value: []byte(event.EventType().String())},
		},
	}

	if err := t.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write event %s to kafka: %w", event.EventID(), err)
	}

	return nil
}

// Close flushes pending writes and releases the connections.
func (t *Transport) Close() error {
	return t.writer.Close()
}
