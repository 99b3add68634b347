package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/JoyalGJ/PG-Management/internal/service"
)

// RoomHandler serves /v1/rooms.
type RoomHandler struct {
	Rooms *service.RoomService // room catalogue operations
	Log   *zap.Logger          // logs unexpected failures
}

// NewRoomHandler constructs a RoomHandler and panics if the service is nil.
func NewRoomHandler(rooms *service.RoomService, log *zap.Logger) *RoomHandler {
	if rooms == nil {
		panic("nil service passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, Log: log}
}

type createRoomRequest struct {
	RoomNumber  string `json:"room_number" validate:"required,max=20"`
	MonthlyRent *int64 `json:"monthly_rent" validate:"required,gte=0"`
	Capacity    *int   `json:"capacity" validate:"omitempty,gte=1"` // defaults to 2
}

type updateRoomRequest struct {
	MonthlyRent *int64 `json:"monthly_rent" validate:"omitempty,gte=0"`
	Capacity    *int   `json:"capacity" validate:"omitempty,gte=1"`
}

// List handles GET /v1/rooms.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Rooms.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, rooms)
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var body createRoomRequest
	if handled, err := bind(c, &body); handled {
		return err
	}
	rm, err := h.Rooms.Create(c.Request().Context(), service.CreateRoomInput{
		RoomNumber:  body.RoomNumber,
		MonthlyRent: *body.MonthlyRent, // required by the validate tag
		Capacity:    body.Capacity,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusCreated, rm)
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	rm, err := h.Rooms.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, rm)
}

// Update handles PUT/PATCH /v1/rooms/:id.  Only the fields present in
// the body change.
func (h *RoomHandler) Update(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var body updateRoomRequest
	if handled, err := bind(c, &body); handled {
		return err
	}
	rm, err := h.Rooms.Update(c.Request().Context(), id, service.UpdateRoomInput{
		MonthlyRent: body.MonthlyRent,
		Capacity:    body.Capacity,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, rm)
}

// Delete handles DELETE /v1/rooms/:id.  Rooms that still have occupants
// are refused with 409.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, h.Log, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Reconcile handles POST /v1/rooms/reconcile and rebuilds occupancy
// counters from the tenant rows.
func (h *RoomHandler) Reconcile(c echo.Context) error {
	n, err := h.Rooms.Reconcile(c.Request().Context())
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms_updated": n})
}
