package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/outbox"
)

// MenuItem is the catalog view of a sellable item.
type MenuItem struct {
	ID        int64
	Name      string
	Price     kernel.Money
	Available bool
}

// MenuCatalog resolves menu item ids to prices and availability.
type MenuCatalog interface {
	// GetItemsByIDs returns the known items among ids. Unknown ids are simply absent
	// from the result.
	GetItemsByIDs(ctx context.Context, ids []int64) ([]MenuItem, error)
}

// AddressValidator decides whether a delivery address is inside the service area.
type AddressValidator interface {
	IsServiceable(ctx context.Context, address order.DeliveryAddress) (bool, error)
}

// EventTransport hands an outbox event to the message bus. Delivery is at least once:
// the same event may be published again after a crash, consumers dedupe on EventID.
type EventTransport interface {
	Publish(ctx context.Context, event *outbox.Event) error
}
