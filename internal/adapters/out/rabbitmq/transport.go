package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
)

var (
	// ErrNacked is returned when the broker refuses responsibility for a message.
	ErrNacked = errors.New("broker nacked the message")

	// ErrUnroutable is returned when no queue is bound for the routing key of a message.
	ErrUnroutable = errors.New("message is unroutable")
)

// Transport implements ports.EventTransport. Every event is published as a persistent,
// mandatory message whose MessageId is the event id; the routing key is order.<type>,
// for example order.created. Publish returns only after the broker confirmed the message.
//
// Publishes share one confirm-mode channel and run one at a time. A channel that failed
// or was closed by the broker is replaced on the next Publish.
type Transport struct {
	conn     Connection
	exchange string

	mu      sync.Mutex
	ch      Channel
	returns chan amqp.Return
}

// NewTransport opens a confirm-mode channel on conn and declares exchange.
func NewTransport(conn Connection, exchange string) (*Transport, error) {
	if conn == nil {
		return nil, errs.NewValueIsRequiredError("conn")
	}
	if exchange == "" {
		return nil, errs.NewValueIsRequiredError("exchange")
	}

	t := &Transport{conn: conn, exchange: exchange}
	if err := t.openChannel(); err != nil {
		return nil, err
	}
	return t, nil
}

// Publish sends the event and waits for the broker's confirmation.
func (t *Transport) Publish(ctx context.Context, event *outbox.Event) error {
	if event == nil {
		return errors.New("event is nil")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ch == nil || t.ch.IsClosed() {
		t.dropChannel()
		if err := t.openChannel(); err != nil {
			return err
		}
	}

	confirmation, err := t.ch.PublishWithDeferredConfirmWithContext(
		ctx, t.exchange, RoutingKey(event.EventType()), true, false, amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    event.EventID().String(),
			Type:         event.EventType().String(),
			Timestamp:    event.CreatedAt(),
			Headers:      amqp.Table{"order_id": event.OrderID()},
			Body:         event.Payload(),
		})
	if err != nil {
		t.dropChannel()
		return fmt.Errorf("failed to publish event %s: %w", event.EventID(), err)
	}

	acked, err := confirmation.WaitContext(ctx)
	if err != nil {
		// A late basic.return on this channel would be read as belonging to the next message.
		t.dropChannel()
		return fmt.Errorf("event %s was not confirmed: %w", event.EventID(), err)
	}
	if !acked {
		return fmt.Errorf("%w: event %s", ErrNacked, event.EventID())
	}

	// The broker sends basic.return before the ack of the same message.
	select {
	case ret, ok := <-t.returns:
		if ok {
			return fmt.Errorf("%w: event %s: %d %s", ErrUnroutable, event.EventID(), ret.ReplyCode, ret.ReplyText)
		}
	default:
	}

	return nil
}

// Close closes the channel and the underlying connection.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var chErr error
	if t.ch != nil {
		chErr = t.ch.Close()
		t.ch = nil
	}
	return errors.Join(chErr, t.conn.Close())
}

func (t *Transport) openChannel() error {
	ch, err := t.conn.Channel()
	if err != nil {
		return err
	}

	if err = ch.ExchangeDeclare(t.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", t.exchange, err)
	}
	if err = ch.Confirm(false); err != nil {
		_ = ch.Close()
		return fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	t.returns = ch.NotifyReturn(make(chan amqp.Return, 1))
	t.ch = ch
	return nil
}

func (t *Transport) dropChannel() {
	if t.ch != nil {
		_ = t.ch.Close()
	}
	t.ch = nil
	t.returns = nil
}

// RoutingKey returns the routing key for events of the given type.
func RoutingKey(eventType outbox.EventType) string {
	return "order." + strings.ToLower(eventType.String())
}
