package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/JoyalGJ/PG-Management/internal/service"
)

// MaintenanceHandler serves /v1/maintenance.
type MaintenanceHandler struct {
	Requests *service.MaintenanceService
	Log      *zap.Logger
}

// NewMaintenanceHandler constructs a MaintenanceHandler and panics if the service is nil.
func NewMaintenanceHandler(requests *service.MaintenanceService, log *zap.Logger) *MaintenanceHandler {
	if requests == nil {
		panic("nil service passed to NewMaintenanceHandler")
	}
	return &MaintenanceHandler{Requests: requests, Log: log}
}

type openMaintenanceRequest struct {
	RoomNumber string `json:"room_number" validate:"required,max=20"`
	Issue      string `json:"issue" validate:"required,max=500"`
}

// List handles GET /v1/maintenance?status=Open|Resolved, newest first.
func (h *MaintenanceHandler) List(c echo.Context) error {
	reqs, err := h.Requests.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, reqs)
}

// Open handles POST /v1/maintenance.
func (h *MaintenanceHandler) Open(c echo.Context) error {
	var body openMaintenanceRequest
	if handled, err := bind(c, &body); handled {
		return err
	}
	m, err := h.Requests.Open(c.Request().Context(), body.RoomNumber, body.Issue)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, m)
}

// Resolve handles POST /v1/maintenance/:id/resolve.
func (h *MaintenanceHandler) Resolve(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	m, err := h.Requests.Resolve(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, m)
}
