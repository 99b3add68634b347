package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/JoyalGJ/PG-Management/internal/service"
)

// PaymentHandler serves /v1/payments.
type PaymentHandler struct {
	Payments *service.PaymentService
	Log      *zap.Logger
}

// NewPaymentHandler constructs a PaymentHandler and panics if the service is nil.
func NewPaymentHandler(payments *service.PaymentService, log *zap.Logger) *PaymentHandler {
	if payments == nil {
		panic("nil service passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments, Log: log}
}

type markPaidRequest struct {
	TenantID uint64 `json:"tenant_id" validate:"required"`
	Month    string `json:"month" validate:"required,month"`
	Amount   *int64 `json:"amount" validate:"omitempty,gte=0"` // defaults to the per person rent
	PaidDate string `json:"paid_date" validate:"omitempty,date"`
}

// List handles GET /v1/payments?tenant_id=&month=.
func (h *PaymentHandler) List(c echo.Context) error {
	var tenantID uint64
	if v := c.QueryParam("tenant_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant_id"})
		}
		tenantID = id
	}
	payments, err := h.Payments.List(c.Request().Context(), tenantID, c.QueryParam("month"))
	if err != nil {
		return respondError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, payments)
}

// MarkPaid handles POST /v1/payments.  It answers 201 for a new record
// and 200 with the stored record when the month was already paid.
func (h *PaymentHandler) MarkPaid(c echo.Context) error {
	var body markPaidRequest
	if handled, err := bind(c, &body); handled {
		return err
	}
	paidDate, _ := parseDate(body.PaidDate)
	p, created, err := h.Payments.MarkPaid(c.Request().Context(), service.MarkPaidInput{
		TenantID: body.TenantID,
		Month:    body.Month,
		Amount:   body.Amount,
		PaidDate: paidDate,
	})
	if err != nil {
		return respondError(c, h.Log, err)
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, echo.Map{"payment": p, "created": created})
}
