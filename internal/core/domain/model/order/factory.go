package order

import "fulfillment/internal/pkg/errs"

// Restore rebuilds the State variant matching a persisted Record.
//
// The stored status is not trusted: an unknown status, a type the status is not legal for,
// delivery staff on a pickup order or a fulfillment time on a non-terminal status all mean
// the record is corrupted, and Restore panics with *errs.IntegrityViolationError.
// FulfillmentTimeMinutes is taken from the record as stored and never recomputed.
func Restore(rec Record) State {
	if err := rec.Status.Validate(); err != nil {
		panic(errs.NewIntegrityViolationError("order %d: %v", rec.ID, err))
	}

	if rec.DeliveryStaffID != nil && rec.Type != Delivery {
		panic(errs.NewIntegrityViolationError("order %d: %s order carries delivery staff", rec.ID, rec.Type))
	}

	if rec.FulfillmentTimeMinutes != nil && !rec.Status.IsTerminal() {
		panic(errs.NewIntegrityViolationError(
			"order %d: fulfillment time stored for non-terminal status %s", rec.ID, rec.Status))
	}

	return newState(
		rec.Status,
		rec.Type,
		rec.CreatedAt,
		rec.LastUpdatedAt,
		rec.DeliveryStaffID,
		rec.FulfillmentTimeMinutes,
	)
}
