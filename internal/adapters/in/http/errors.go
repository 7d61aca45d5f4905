package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"takeout/internal/core/application/usecases/commands"
	"takeout/internal/core/domain/model/order"
	"takeout/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps the error families of the core onto HTTP statuses.
func statusFor(err error) int {
	var httpErr *echo.HTTPError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, errs.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, commands.ErrChargeFailed),
		errors.Is(err, commands.ErrRefundFailed):
		return http.StatusBadGateway
	case errors.Is(err, commands.ErrAddressMissing),
		errors.Is(err, commands.ErrCartEmpty),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		return http.StatusBadRequest
	case errors.Is(err, commands.ErrNumberExhausted):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error, code int) string {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprint(httpErr.Message)
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			fields = append(fields, fe.Field()+" failed "+fe.Tag())
		}
		return "invalid request: " + strings.Join(fields, ", ")
	}
	if code == http.StatusInternalServerError {
		return http.StatusText(code)
	}
	return err.Error()
}

func newErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusFor(err)
		ctx := c.Request().Context()
		if code >= http.StatusInternalServerError {
			logger.ErrorContext(ctx, "request failed",
				"method", c.Request().Method, "route", c.Path(), "status", code, "error", err)
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, Error{Code: code, Message: messageFor(err, code)})
		}
		if writeErr != nil {
			logger.ErrorContext(ctx, "failed to write error response", "error", writeErr)
		}
	}
}
