// Package handler contains the echo HTTP handlers of the API.  Handlers
// bind and validate the request, call a service and translate its errors
// into status codes; they hold no business rules of their own.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/JoyalGJ/PG-Management/internal/repository"
	"github.com/JoyalGJ/PG-Management/internal/service"
	"github.com/JoyalGJ/PG-Management/internal/validator"
)

// parseID reads an unsigned numeric path parameter.  Zero is never a
// valid row id and is rejected along with malformed values.
func parseID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// bind decodes the body into dst and runs the validate tags.  On failure
// the 400 response has already been written and handled is true.
func bind(c echo.Context, dst any) (handled bool, err error) {
	if err := c.Bind(dst); err != nil { // malformed JSON or wrong types
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(dst); err != nil { // validate tags on the request struct
		return true, respondError(c, nil, err)
	}
	return false, nil
}

// parseDate parses an optional YYYY-MM-DD value.  Empty yields nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// respondError maps an error to a JSON response:
// validation errors to 400, repository.ErrNotFound to 404,
// repository.ErrConflict to 409 and anything else to 500.
func respondError(c echo.Context, log *zap.Logger, err error) error {
	var fields validator.FieldErrors
	switch {
	case errors.As(err, &fields):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request", "fields": fields})
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	if log != nil {
		log.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err))
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"}) // storage details stay in the log
}
