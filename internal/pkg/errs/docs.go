// Package errs provides the error taxonomy shared by the order fulfillment service.
//
// Every error kind follows the same shape:
//   - a sentinel variable (ErrObjectNotFound, ErrValueIsInvalid, ...) to match with errors.Is
//   - a struct type carrying the details, matched with errors.As
//   - constructors with and without a cause
//
// Kinds and how callers treat them:
//   - ObjectNotFoundError: entity absent (NotFound)
//   - ValueIsInvalidError, ValueIsRequiredError, ValueIsOutOfRangeError: business rule
//     violated (BadRequest)
//   - ConcurrencyConflictError: a conditional write lost the race or the entity vanished;
//     also matches ErrObjectNotFound
//   - UnauthorizedError: the caller has no standing
//   - IntegrityViolationError: corrupted persisted state; only ever used as a panic value
//
// Anything else is treated as an internal failure.
package errs
