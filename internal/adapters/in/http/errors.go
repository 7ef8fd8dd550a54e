package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// statusOf maps the error taxonomy to HTTP status codes. A concurrency conflict is also
// NotFound-class, so it is checked first.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrConcurrencyConflict):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err. Internal errors are logged and reported without details.
func writeError(ctx echo.Context, err error) error {
	code := statusOf(err)
	if code == http.StatusInternalServerError {
		ctx.Logger().Errorf("%s %s: %v", ctx.Request().Method, ctx.Path(), err)
		return ctx.JSON(code, Error{Code: code, Message: http.StatusText(code)})
	}
	return ctx.JSON(code, Error{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: message})
}
