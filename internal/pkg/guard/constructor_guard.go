// Package guard detects domain and command objects that were created as zero values
// instead of through their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in structs whose invariants are established by a constructor.
// Its zero value fails validation, so a struct literal that skipped the constructor is caught
// the first time it is validated.
//
// Example:
//
//	type PlaceOrderCommand struct {
//	    actorID string
//	    guard   guard.ConstructorGuard
//	}
//
//	func NewPlaceOrderCommand(actorID string) (PlaceOrderCommand, error) {
//	    return PlaceOrderCommand{actorID: actorID, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c PlaceOrderCommand) Validate() error {
//	    return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that marks its owner as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard and validationError (or
// ErrDefaultConstructorGuard when validationError is nil) for a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
