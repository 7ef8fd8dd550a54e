package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// ErrAddressIsNotServiceable is the cause reported for addresses outside the service area.
var ErrAddressIsNotServiceable = errors.New("delivery address is outside the service area")

// PlaceOrderCommandHandler creates an order in Pending status together with its Created
// event.
//
// Steps:
//  1. delivery addresses must be serviceable
//  2. every menu item is resolved in one catalog call; a missing or deleted item fails
//     the whole placement
//  3. unit prices are taken from the catalog and summed into the total
//  4. order and event are written in one unit of work, then the event is dispatched
type PlaceOrderCommandHandler struct {
	uowFactory       OrderUoWFactory
	catalog          ports.MenuCatalog
	addressValidator ports.AddressValidator
	dispatcher       EventDispatcher
	clock            kernel.Clock
}

// NewPlaceOrderCommandHandler creates the handler. dispatcher may be nil.
func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.MenuCatalog,
	addressValidator ports.AddressValidator,
	dispatcher EventDispatcher,
	clock kernel.Clock,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory:       uowFactory,
		catalog:          catalog,
		addressValidator: addressValidator,
		dispatcher:       dispatcher,
		clock:            clock,
	}
}

// Handle returns the placed order with its assigned id.
func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if address := cmd.DeliveryAddress(); address != nil {
		ok, err := h.addressValidator.IsServiceable(ctx, *address)
		if err != nil {
			return nil, fmt.Errorf("validate delivery address: %w", err)
		}
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause("deliveryAddress", ErrAddressIsNotServiceable)
		}
	}

	items, err := h.resolveItems(ctx, cmd)
	if err != nil {
		return nil, err
	}

	now := h.clock.Now()
	placed, err := order.NewOrder(
		cmd.OrderType(),
		cmd.ContactDetails(),
		cmd.DeliveryAddress(),
		cmd.SpecialInstructions(),
		items,
		cmd.ActorID(),
		now,
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err = uow.OrderRepository().Create(ctx, placed); err != nil {
		return nil, err
	}

	event, err := outbox.NewOrderCreatedEvent(placed, now)
	if err != nil {
		return nil, err
	}

	if err = uow.OutboxRepository().Add(ctx, event); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	if h.dispatcher != nil {
		h.dispatcher.Dispatch(ctx, event)
	}

	return placed, nil
}

func (h PlaceOrderCommandHandler) resolveItems(ctx context.Context, cmd PlaceOrderCommand) ([]order.Item, error) {
	menu, err := h.catalog.GetItemsByIDs(ctx, cmd.MenuItemIDs())
	if err != nil {
		return nil, fmt.Errorf("load menu items: %w", err)
	}

	prices := make(map[int64]kernel.Money, len(menu))
	for _, m := range menu {
		if m.Available {
			prices[m.ID] = m.Price
		}
	}

	items := make([]order.Item, 0, len(cmd.Items()))
	for _, requested := range cmd.Items() {
		price, ok := prices[requested.MenuItemID]
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"menuItemId",
				fmt.Errorf("menu item %d does not exist or is no longer available", requested.MenuItemID),
			)
		}

		item, itemErr := order.NewItem(requested.MenuItemID, requested.Quantity, price, requested.SpecialInstructions)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return items, nil
}
