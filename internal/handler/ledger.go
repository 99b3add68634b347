package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/JoyalGJ/PG-Management/internal/ledger"
	"github.com/JoyalGJ/PG-Management/internal/service"
)

// LedgerHandler serves the bulk rent ledger.
type LedgerHandler struct {
	Ledger *service.LedgerService
	Log    *zap.Logger
}

// NewLedgerHandler constructs a LedgerHandler and panics if the service is nil.
func NewLedgerHandler(ledgerSvc *service.LedgerService, log *zap.Logger) *LedgerHandler {
	if ledgerSvc == nil {
		panic("nil service passed to NewLedgerHandler")
	}
	return &LedgerHandler{Ledger: ledgerSvc, Log: log}
}

// filtersFromQuery reads tenant_id, room, month, cutoff and
// include_inactive into ledger filters.
func filtersFromQuery(c echo.Context) (ledger.Filters, error) {
	var f ledger.Filters
	if v := c.QueryParam("tenant_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, errors.New("tenant_id must be numeric")
		}
		f = f.WithTenant(id)
	}
	if v := c.QueryParam("room"); v != "" {
		f = f.WithRoom(v)
	}
	if v := c.QueryParam("month"); v != "" {
		m, err := ledger.ParseMonth(v)
		if err != nil {
			return f, err
		}
		f = f.WithMonth(m)
	}
	if v := c.QueryParam("cutoff"); v != "" {
		m, err := ledger.ParseMonth(v)
		if err != nil {
			return f, err
		}
		f = f.WithCutoff(m)
	}
	if v := c.QueryParam("include_inactive"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, errors.New("include_inactive must be a boolean")
		}
		f = f.WithInactive(b)
	}
	return f, nil
}

// Rows handles GET /v1/ledger.
func (h *LedgerHandler) Rows(c echo.Context) error {
	f, err := filtersFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ledger filter: " + err.Error()})
	}
	rows, err := h.Ledger.Ledger(c.Request().Context(), f)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, rows)
}

// Summary handles GET /v1/ledger/summary with the same filters as Rows.
func (h *LedgerHandler) Summary(c echo.Context) error {
	f, err := filtersFromQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ledger filter: " + err.Error()})
	}
	sums, err := h.Ledger.Summary(c.Request().Context(), f)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, sums)
}
