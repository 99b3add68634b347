package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/JoyalGJ/PG-Management/internal/ledger"
	"github.com/JoyalGJ/PG-Management/internal/repository"
	"github.com/JoyalGJ/PG-Management/internal/service"
)

// TenantHandler serves /v1/tenants.
type TenantHandler struct {
	Tenants *service.TenantService // lifecycle operations
	Ledger  *service.LedgerService // per tenant due rows
	Log     *zap.Logger
}

// NewTenantHandler constructs a TenantHandler and panics if a service is nil.
func NewTenantHandler(tenants *service.TenantService, ledgerSvc *service.LedgerService, log *zap.Logger) *TenantHandler {
	if tenants == nil || ledgerSvc == nil {
		panic("nil service passed to NewTenantHandler")
	}
	return &TenantHandler{Tenants: tenants, Ledger: ledgerSvc, Log: log}
}

type registerTenantRequest struct {
	Name          string `json:"name" validate:"required,max=100"`
	Contact       string `json:"contact" validate:"max=50"`
	RoomNumber    string `json:"room_number" validate:"required,max=20"`
	DepositAmount int64  `json:"deposit_amount" validate:"gte=0"`
	JoinDate      string `json:"join_date" validate:"omitempty,date"` // YYYY-MM-DD, defaults to today
}

type editTenantRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=100"`
	Contact       *string `json:"contact" validate:"omitempty,max=50"`
	RoomNumber    *string `json:"room_number" validate:"omitempty,min=1,max=20"` // a new room is a transfer
	DepositAmount *int64  `json:"deposit_amount" validate:"omitempty,gte=0"`
	JoinDate      *string `json:"join_date" validate:"omitempty,date"`
}

type reactivateRequest struct {
	RoomNumber string `json:"room_number" validate:"required,max=20"`
	JoinDate   string `json:"join_date" validate:"omitempty,date"`
}

// List handles GET /v1/tenants.  ?active=true hides removed tenants and
// ?room=101 narrows to one room.
func (h *TenantHandler) List(c echo.Context) error {
	f := repository.TenantFilter{RoomNumber: c.QueryParam("room")}
	if v := c.QueryParam("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "active must be a boolean"})
		}
		f.ActiveOnly = active
	}
	tenants, err := h.Tenants.List(c.Request().Context(), f)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, tenants)
}

// Register handles POST /v1/tenants.
func (h *TenantHandler) Register(c echo.Context) error {
	var body registerTenantRequest
	if handled, err := bind(c, &body); handled {
		return err
	}
	joinDate, _ := parseDate(body.JoinDate) // format checked by the validate tag
	t, err := h.Tenants.Register(c.Request().Context(), service.RegisterTenantInput{
		Name:          body.Name,
		Contact:       body.Contact,
		RoomNumber:    body.RoomNumber,
		DepositAmount: body.DepositAmount,
		JoinDate:      joinDate,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// Get handles GET /v1/tenants/:id.
func (h *TenantHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Tenants.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Edit handles PUT/PATCH /v1/tenants/:id.
func (h *TenantHandler) Edit(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body editTenantRequest
	if handled, err := bind(c, &body); handled {
		return err
	}
	in := service.EditTenantInput{
		Name:          body.Name,
		Contact:       body.Contact,
		RoomNumber:    body.RoomNumber,
		DepositAmount: body.DepositAmount,
	}
	if body.JoinDate != nil {
		in.JoinDate, _ = parseDate(*body.JoinDate)
	}
	t, err := h.Tenants.Edit(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Remove handles DELETE /v1/tenants/:id.  The tenant is kept as inactive.
func (h *TenantHandler) Remove(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Tenants.Remove(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Reactivate handles POST /v1/tenants/:id/reactivate.
func (h *TenantHandler) Reactivate(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body reactivateRequest
	if handled, err := bind(c, &body); handled {
		return err
	}
	joinDate, _ := parseDate(body.JoinDate)
	t, err := h.Tenants.Reactivate(c.Request().Context(), id, service.ReactivateInput{
		RoomNumber: body.RoomNumber,
		JoinDate:   joinDate,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, t)
}

// LedgerRows handles GET /v1/tenants/:id/ledger?cutoff=YYYY-MM.
func (h *TenantHandler) LedgerRows(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var cutoff ledger.Month
	if v := c.QueryParam("cutoff"); v != "" {
		m, err := ledger.ParseMonth(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		cutoff = m
	}
	rows, err := h.Ledger.TenantLedger(c.Request().Context(), id, cutoff)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, rows)
}
