package commands_test

import (
	"context"
	"sync"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) (order.Record, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(order.Record), args.Error(1)
}

func (m *MockOrderRepository) GetBasic(ctx context.Context, id int64) (order.Record, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(order.Record), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(
	ctx context.Context, id int64, state order.State, updatedBy string, expectedVersion []byte,
) (int64, error) {
	args := m.Called(ctx, id, state, updatedBy, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOrderRepository) SetDeliveryStaff(
	ctx context.Context, id int64, state order.State, updatedBy string, expectedVersion []byte,
) (int64, error) {
	args := m.Called(ctx, id, state, updatedBy, expectedVersion)
	return args.Get(0).(int64), args.Error(1)
}

type MockOutboxRepository struct{ mock.Mock }

func (m *MockOutboxRepository) Add(ctx context.Context, event *outbox.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockOutboxRepository) ListPending(ctx context.Context) ([]*outbox.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]*outbox.Event)
	return events, args.Error(1)
}

func (m *MockOutboxRepository) Delete(ctx context.Context, event *outbox.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockOrderUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockOutboxUoW struct{ mock.Mock }

func (m *MockOutboxUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOutboxUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOutboxUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOutboxUoW) OutboxRepository() ports.OutboxRepository {
	args := m.Called()
	return args.Get(0).(ports.OutboxRepository)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	args := m.Called()
	return args.Get(0).(commands.OutboxUoW)
}

type MockEventDispatcher struct{ mock.Mock }

func (m *MockEventDispatcher) Dispatch(ctx context.Context, event *outbox.Event) {
	m.Called(ctx, event)
}

type MockMenuCatalog struct{ mock.Mock }

func (m *MockMenuCatalog) GetItemsByIDs(ctx context.Context, ids []int64) ([]ports.MenuItem, error) {
	args := m.Called(ctx, ids)
	items, _ := args.Get(0).([]ports.MenuItem)
	return items, args.Error(1)
}

type MockAddressValidator struct{ mock.Mock }

func (m *MockAddressValidator) IsServiceable(ctx context.Context, address order.DeliveryAddress) (bool, error) {
	args := m.Called(ctx, address)
	return args.Bool(0), args.Error(1)
}

type MockEventTransport struct{ mock.Mock }

func (m *MockEventTransport) Publish(ctx context.Context, event *outbox.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// fakeMetrics counts calls from concurrent publishers.
type fakeMetrics struct {
	mu        sync.Mutex
	published map[outbox.EventType]int
	failed    map[outbox.EventType]int
	undeleted map[outbox.EventType]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{
		published: make(map[outbox.EventType]int),
		failed:    make(map[outbox.EventType]int),
		undeleted: make(map[outbox.EventType]int),
	}
}

func (f *fakeMetrics) EventPublished(t outbox.EventType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.published[t]++
}

func (f *fakeMetrics) EventFailed(t outbox.EventType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed[t]++
}

func (f *fakeMetrics) EventNotDeleted(t outbox.EventType) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.undeleted[t]++
}

func eventOfType(eventType outbox.EventType, orderID int64) any {
	return mock.MatchedBy(func(e *outbox.Event) bool {
		return e.EventType() == eventType && e.OrderID() == orderID
	})
}

func stateWithStatus(status order.Status) any {
	return mock.MatchedBy(func(s order.State) bool {
		return s.Status() == status
	})
}
