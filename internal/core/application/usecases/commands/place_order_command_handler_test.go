package commands_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func contactDetails(t *testing.T) order.ContactDetails {
	t.Helper()
	c, err := order.NewContactDetails("Ada", "0123456789")
	require.NoError(t, err)
	return c
}

func deliveryAddress(t *testing.T) *order.DeliveryAddress {
	t.Helper()
	a, err := order.NewDeliveryAddress("Main Street", 5, "Springfield", "12345", "USA")
	require.NoError(t, err)
	return &a
}

func menu() []ports.MenuItem {
	return []ports.MenuItem{
		{ID: 1, Name: "Margherita", Price: kernel.MustNewMoneyFromString("5.00"), Available: true},
		{ID: 2, Name: "Lemonade", Price: kernel.MustNewMoneyFromString("3.00"), Available: true},
	}
}

func assignOrderID(id int64) func(mock.Arguments) {
	return func(args mock.Arguments) {
		_ = args.Get(1).(*order.Order).AssignID(id)
	}
}

type placeOrderFixture struct {
	orders     *MockOrderRepository
	outbox     *MockOutboxRepository
	uow        *MockOrderUoW
	factory    *MockOrderUoWFactory
	catalog    *MockMenuCatalog
	validator  *MockAddressValidator
	dispatcher *MockEventDispatcher
	handler    commands.PlaceOrderCommandHandler
}

func newPlaceOrderFixture() *placeOrderFixture {
	f := &placeOrderFixture{
		orders:     new(MockOrderRepository),
		outbox:     new(MockOutboxRepository),
		uow:        new(MockOrderUoW),
		factory:    new(MockOrderUoWFactory),
		catalog:    new(MockMenuCatalog),
		validator:  new(MockAddressValidator),
		dispatcher: new(MockEventDispatcher),
	}
	f.handler = commands.NewPlaceOrderCommandHandler(
		f.factory, f.catalog, f.validator, f.dispatcher, kernel.FixedClock{At: now},
	)
	return f
}

func (f *placeOrderFixture) expectPersist(ctx any, orderID int64) {
	f.factory.On("Create").Return(f.uow).Once()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.uow.On("OrderRepository").Return(f.orders).Once(),
		f.orders.On("Create", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(assignOrderID(orderID)).
			Return(order.Record{ID: orderID, Version: versionV1}, nil).Once(),
		f.uow.On("OutboxRepository").Return(f.outbox).Once(),
		f.outbox.On("Add", mock.Anything, eventOfType(outbox.Created, orderID)).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.dispatcher.On("Dispatch", ctx, eventOfType(outbox.Created, orderID)).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)
}

func TestPlaceOrderCommandHandler_Handle_PickupTotal(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPlaceOrderCommand("user-1", order.Pickup, contactDetails(t), nil, "", []commands.PlaceOrderItem{
		{MenuItemID: 1, Quantity: 2},
		{MenuItemID: 2, Quantity: 1},
	})
	require.NoError(t, err)

	f := newPlaceOrderFixture()
	f.catalog.On("GetItemsByIDs", ctx, []int64{1, 2}).Return(menu(), nil).Once()
	f.expectPersist(ctx, 42)

	placed, err := f.handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, int64(42), placed.ID())
	assert.Equal(t, order.Pending, placed.Status())
	assert.Equal(t, "13.00", placed.TotalAmount().String())
	assert.Equal(t, now, placed.CreatedAt())
	f.validator.AssertNotCalled(t, "IsServiceable", mock.Anything, mock.Anything)
	f.orders.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
	f.uow.AssertExpectations(t)
	f.catalog.AssertExpectations(t)
	f.dispatcher.AssertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_DeliveryInServiceArea(t *testing.T) {
	ctx := t.Context()
	address := deliveryAddress(t)
	cmd, err := commands.NewPlaceOrderCommand("user-1", order.Delivery, contactDetails(t), address, "ring twice",
		[]commands.PlaceOrderItem{{MenuItemID: 1, Quantity: 1}, {MenuItemID: 1, Quantity: 3}})
	require.NoError(t, err)

	f := newPlaceOrderFixture()
	f.validator.On("IsServiceable", ctx, *address).Return(true, nil).Once()
	f.catalog.On("GetItemsByIDs", ctx, []int64{1}).Return(menu()[:1], nil).Once()
	f.expectPersist(ctx, 43)

	placed, err := f.handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Delivery, placed.Type())
	assert.Equal(t, "20.00", placed.TotalAmount().String())
	assert.Len(t, placed.Items(), 2)
	require.NotNil(t, placed.DeliveryAddress())
	f.validator.AssertExpectations(t)
	f.uow.AssertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_AddressNotServiceable(t *testing.T) {
	ctx := t.Context()
	address := deliveryAddress(t)
	cmd, err := commands.NewPlaceOrderCommand("user-1", order.Delivery, contactDetails(t), address, "",
		[]commands.PlaceOrderItem{{MenuItemID: 1, Quantity: 1}})
	require.NoError(t, err)

	f := newPlaceOrderFixture()
	f.validator.On("IsServiceable", ctx, *address).Return(false, nil).Once()

	_, err = f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Contains(t, err.Error(), "outside the service area")
	f.catalog.AssertNotCalled(t, "GetItemsByIDs", mock.Anything, mock.Anything)
	f.factory.AssertNotCalled(t, "Create")
}

func TestPlaceOrderCommandHandler_Handle_AddressValidatorError(t *testing.T) {
	ctx := t.Context()
	address := deliveryAddress(t)
	cmd, err := commands.NewPlaceOrderCommand("user-1", order.Delivery, contactDetails(t), address, "",
		[]commands.PlaceOrderItem{{MenuItemID: 1, Quantity: 1}})
	require.NoError(t, err)

	f := newPlaceOrderFixture()
	validatorErr := errors.New("geo service down")
	f.validator.On("IsServiceable", ctx, *address).Return(false, validatorErr).Once()

	_, err = f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, validatorErr)
	f.factory.AssertNotCalled(t, "Create")
}

func TestPlaceOrderCommandHandler_Handle_UnknownOrDeletedMenuItem(t *testing.T) {
	testCases := []struct {
		name string
		menu []ports.MenuItem
	}{
		{"missing item", menu()[:1]},
		{"deleted item", []ports.MenuItem{
			menu()[0],
			{ID: 2, Name: "Lemonade", Price: kernel.MustNewMoneyFromString("3.00"), Available: false},
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := t.Context()
			cmd, err := commands.NewPlaceOrderCommand("user-1", order.Pickup, contactDetails(t), nil, "",
				[]commands.PlaceOrderItem{{MenuItemID: 1, Quantity: 1}, {MenuItemID: 2, Quantity: 1}})
			require.NoError(t, err)

			f := newPlaceOrderFixture()
			f.catalog.On("GetItemsByIDs", ctx, []int64{1, 2}).Return(tc.menu, nil).Once()

			_, err = f.handler.Handle(ctx, cmd)

			require.ErrorIs(t, err, errs.ErrValueIsInvalid)
			assert.Contains(t, err.Error(), "menu item 2")
			f.factory.AssertNotCalled(t, "Create")
		})
	}
}

func TestPlaceOrderCommandHandler_Handle_CatalogError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPlaceOrderCommand("user-1", order.Pickup, contactDetails(t), nil, "",
		[]commands.PlaceOrderItem{{MenuItemID: 1, Quantity: 1}})
	require.NoError(t, err)

	f := newPlaceOrderFixture()
	catalogErr := errors.New("db down")
	f.catalog.On("GetItemsByIDs", ctx, []int64{1}).Return(nil, catalogErr).Once()

	_, err = f.handler.Handle(ctx, cmd)

	require.ErrorIs(t, err, catalogErr)
}

func TestPlaceOrderCommandHandler_Handle_CreateError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPlaceOrderCommand("user-1", order.Pickup, contactDetails(t), nil, "",
		[]commands.PlaceOrderItem{{MenuItemID: 1, Quantity: 1}})
	require.NoError(t, err)

	f := newPlaceOrderFixture()
	f.catalog.On("GetItemsByIDs", ctx, []int64{1}).Return(menu(), nil).Once()
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.orders).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.orders.On("Create", mock.Anything, mock.Anything).Return(order.Record{}, errors.New("insert failed")).Once()

	_, err = f.handler.Handle(ctx, cmd)

	require.EqualError(t, err, "insert failed")
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
	f.uow.AssertExpectations(t)
}

func TestPlaceOrderCommandHandler_Handle_OutboxError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewPlaceOrderCommand("user-1", order.Pickup, contactDetails(t), nil, "",
		[]commands.PlaceOrderItem{{MenuItemID: 1, Quantity: 1}})
	require.NoError(t, err)

	f := newPlaceOrderFixture()
	f.catalog.On("GetItemsByIDs", ctx, []int64{1}).Return(menu(), nil).Once()
	f.factory.On("Create").Return(f.uow).Once()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("OrderRepository").Return(f.orders).Once()
	f.uow.On("OutboxRepository").Return(f.outbox).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.orders.On("Create", mock.Anything, mock.Anything).
		Run(assignOrderID(5)).
		Return(order.Record{ID: 5}, nil).Once()
	f.outbox.On("Add", mock.Anything, mock.Anything).Return(errors.New("outbox full")).Once()

	_, err = f.handler.Handle(ctx, cmd)

	require.EqualError(t, err, "outbox full")
	f.uow.AssertNotCalled(t, "Commit", mock.Anything)
	f.uow.AssertExpectations(t)
}

func TestNewPlaceOrderCommand(t *testing.T) {
	items := []commands.PlaceOrderItem{{MenuItemID: 1, Quantity: 1}}

	t.Run("should require an actor", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand("", order.Pickup, contactDetails(t), nil, "", items)
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("should require an address for delivery", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand("user-1", order.Delivery, contactDetails(t), nil, "", items)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject an address for pickup", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand("user-1", order.Pickup, contactDetails(t), deliveryAddress(t), "", items)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should require items", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand("user-1", order.Pickup, contactDetails(t), nil, "", nil)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject non positive quantities", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand("user-1", order.Pickup, contactDetails(t), nil, "",
			[]commands.PlaceOrderItem{{MenuItemID: 1, Quantity: 1}, {MenuItemID: 2, Quantity: 0}})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "menu item 2")
	})

	t.Run("should reject unknown type", func(t *testing.T) {
		_, err := commands.NewPlaceOrderCommand("user-1", order.UnknownType, contactDetails(t), nil, "", items)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should deduplicate menu item ids", func(t *testing.T) {
		cmd, err := commands.NewPlaceOrderCommand("user-1", order.Pickup, contactDetails(t), nil, "",
			[]commands.PlaceOrderItem{
				{MenuItemID: 3, Quantity: 1},
				{MenuItemID: 1, Quantity: 1},
				{MenuItemID: 3, Quantity: 2},
			})
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 1}, cmd.MenuItemIDs())
		assert.Len(t, cmd.Items(), 3)
	})

	t.Run("zero value command is not constructed", func(t *testing.T) {
		require.ErrorIs(t, commands.PlaceOrderCommand{}.Validate(), commands.ErrPlaceOrderCommandIsNotConstructed)
	})
}
