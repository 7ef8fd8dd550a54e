package rabbitmq_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/rabbitmq"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/pkg/errs"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockConnection struct {
	mock.Mock
}

func (m *MockConnection) Channel() (rabbitmq.Channel, error) {
	args := m.Called()
	ch, _ := args.Get(0).(rabbitmq.Channel)
	return ch, args.Error(1)
}

func (m *MockConnection) Close() error {
	return m.Called().Error(0)
}

type MockChannel struct {
	mock.Mock
	returns chan amqp.Return
}

func (m *MockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	return m.Called(name, kind, durable, autoDelete, internal, noWait, args).Error(0)
}

func (m *MockChannel) Confirm(noWait bool) error {
	return m.Called(noWait).Error(0)
}

func (m *MockChannel) NotifyReturn(c chan amqp.Return) chan amqp.Return {
	m.returns = c
	return c
}

func (m *MockChannel) PublishWithDeferredConfirmWithContext(
	ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing,
) (rabbitmq.Confirmation, error) {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	confirmation, _ := args.Get(0).(rabbitmq.Confirmation)
	return confirmation, args.Error(1)
}

func (m *MockChannel) IsClosed() bool {
	return m.Called().Bool(0)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

// brokerAnswer is a confirmation that is already settled.
type brokerAnswer struct {
	acked bool
	err   error
}

func (a brokerAnswer) WaitContext(context.Context) (bool, error) {
	return a.acked, a.err
}

func newOpenChannel() *MockChannel {
	ch := new(MockChannel)
	ch.On("ExchangeDeclare", "order_events", "topic", true, false, false, false, amqp.Table(nil)).Return(nil)
	ch.On("Confirm", false).Return(nil)
	ch.On("IsClosed").Return(false).Maybe()
	ch.On("Close").Return(nil).Maybe()
	return ch
}

func createdEvent(t *testing.T) *outbox.Event {
	t.Helper()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	contact, err := order.NewContactDetails("Ada", "0123456789")
	require.NoError(t, err)
	item, err := order.NewItem(1, 1, kernel.MustNewMoneyFromString("4.00"), "")
	require.NoError(t, err)
	o, err := order.NewOrder(order.Pickup, contact, nil, "", []order.Item{item}, "user-1", at)
	require.NoError(t, err)
	require.NoError(t, o.AssignID(9))
	event, err := outbox.NewOrderCreatedEvent(o, at)
	require.NoError(t, err)
	return event
}

func TestNewTransport_Validation(t *testing.T) {
	_, err := rabbitmq.NewTransport(nil, "orders")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = rabbitmq.NewTransport(new(MockConnection), "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestNewTransport_ChannelUnavailable(t *testing.T) {
	conn := new(MockConnection)
	conn.On("Channel").Return(nil, errors.New("connection is closed"))

	_, err := rabbitmq.NewTransport(conn, "order_events")

	require.Error(t, err)
}

func TestNewTransport_ConfirmModeRejected(t *testing.T) {
	conn := new(MockConnection)
	ch := new(MockChannel)
	conn.On("Channel").Return(ch, nil)
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ch.On("Confirm", false).Return(errors.New("not supported"))
	ch.On("Close").Return(nil).Once()

	_, err := rabbitmq.NewTransport(conn, "order_events")

	require.Error(t, err)
	ch.AssertExpectations(t)
}

func TestTransport_Publish(t *testing.T) {
	event := createdEvent(t)
	conn := new(MockConnection)
	ch := newOpenChannel()
	conn.On("Channel").Return(ch, nil).Once()
	ch.On("PublishWithDeferredConfirmWithContext", mock.Anything, "order_events", "order.created", true, false,
		mock.MatchedBy(func(msg amqp.Publishing) bool {
			return msg.MessageId == event.EventID().String() &&
				msg.DeliveryMode == amqp.Persistent &&
				msg.Type == "Created" &&
				msg.Headers["order_id"] == int64(9) &&
				string(msg.Body) == string(event.Payload())
		})).Return(brokerAnswer{acked: true}, nil).Twice()

	transport, err := rabbitmq.NewTransport(conn, "order_events")
	require.NoError(t, err)

	require.NoError(t, transport.Publish(t.Context(), event))
	require.NoError(t, transport.Publish(t.Context(), event))

	conn.AssertNumberOfCalls(t, "Channel", 1)
	ch.AssertNumberOfCalls(t, "ExchangeDeclare", 1)
	ch.AssertNumberOfCalls(t, "Confirm", 1)
	ch.AssertExpectations(t)
}

func TestTransport_PublishNacked(t *testing.T) {
	conn := new(MockConnection)
	ch := newOpenChannel()
	conn.On("Channel").Return(ch, nil)
	ch.On("PublishWithDeferredConfirmWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(brokerAnswer{acked: false}, nil)

	transport, err := rabbitmq.NewTransport(conn, "order_events")
	require.NoError(t, err)

	err = transport.Publish(t.Context(), createdEvent(t))

	require.ErrorIs(t, err, rabbitmq.ErrNacked)
}

func TestTransport_PublishUnroutable(t *testing.T) {
	event := createdEvent(t)
	conn := new(MockConnection)
	ch := newOpenChannel()
	conn.On("Channel").Return(ch, nil)
	ch.On("PublishWithDeferredConfirmWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			ch.returns <- amqp.Return{ReplyCode: 312, ReplyText: "NO_ROUTE", MessageId: event.EventID().String()}
		}).
		Return(brokerAnswer{acked: true}, nil)

	transport, err := rabbitmq.NewTransport(conn, "order_events")
	require.NoError(t, err)

	err = transport.Publish(t.Context(), event)

	require.ErrorIs(t, err, rabbitmq.ErrUnroutable)
}

func TestTransport_PublishUnconfirmedReopensChannel(t *testing.T) {
	conn := new(MockConnection)
	first := newOpenChannel()
	second := newOpenChannel()
	conn.On("Channel").Return(first, nil).Once()
	conn.On("Channel").Return(second, nil).Once()
	first.On("PublishWithDeferredConfirmWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(brokerAnswer{err: context.DeadlineExceeded}, nil).Once()
	second.On("PublishWithDeferredConfirmWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(brokerAnswer{acked: true}, nil).Once()

	transport, err := rabbitmq.NewTransport(conn, "order_events")
	require.NoError(t, err)

	err = transport.Publish(t.Context(), createdEvent(t))
	require.ErrorIs(t, err, context.DeadlineExceeded)
	first.AssertCalled(t, "Close")

	require.NoError(t, transport.Publish(t.Context(), createdEvent(t)))
	conn.AssertNumberOfCalls(t, "Channel", 2)
	second.AssertNumberOfCalls(t, "Confirm", 1)
}

func TestTransport_PublishFailureReopensChannel(t *testing.T) {
	boom := errors.New("channel closed by broker")
	conn := new(MockConnection)
	first := newOpenChannel()
	second := newOpenChannel()
	conn.On("Channel").Return(first, nil).Once()
	conn.On("Channel").Return(second, nil).Once()
	first.On("PublishWithDeferredConfirmWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(nil, boom).Once()
	second.On("PublishWithDeferredConfirmWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(brokerAnswer{acked: true}, nil).Once()

	transport, err := rabbitmq.NewTransport(conn, "order_events")
	require.NoError(t, err)

	require.ErrorIs(t, transport.Publish(t.Context(), createdEvent(t)), boom)
	first.AssertCalled(t, "Close")

	require.NoError(t, transport.Publish(t.Context(), createdEvent(t)))
	second.AssertExpectations(t)
}

func TestTransport_PublishOnClosedChannelReopens(t *testing.T) {
	conn := new(MockConnection)
	first := new(MockChannel)
	first.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)
	first.On("Confirm", false).Return(nil)
	first.On("IsClosed").Return(true)
	first.On("Close").Return(nil)
	second := newOpenChannel()
	conn.On("Channel").Return(first, nil).Once()
	conn.On("Channel").Return(second, nil).Once()
	second.On("PublishWithDeferredConfirmWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything).Return(brokerAnswer{acked: true}, nil).Once()

	transport, err := rabbitmq.NewTransport(conn, "order_events")
	require.NoError(t, err)

	require.NoError(t, transport.Publish(t.Context(), createdEvent(t)))

	first.AssertNotCalled(t, "PublishWithDeferredConfirmWithContext", mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	second.AssertExpectations(t)
}

func TestTransport_Close(t *testing.T) {
	conn := new(MockConnection)
	ch := new(MockChannel)
	ch.On("ExchangeDeclare", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything).Return(nil)
	ch.On("Confirm", false).Return(nil)
	ch.On("Close").Return(nil).Once()
	conn.On("Channel").Return(ch, nil)
	conn.On("Close").Return(nil).Once()

	transport, err := rabbitmq.NewTransport(conn, "order_events")
	require.NoError(t, err)

	require.NoError(t, transport.Close())

	ch.AssertExpectations(t)
	conn.AssertExpectations(t)
}

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "order.created", rabbitmq.RoutingKey(outbox.Created))
	assert.Equal(t, "order.updated", rabbitmq.RoutingKey(outbox.Updated))
}
