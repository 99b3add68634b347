package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/JoyalGJ/PG-Management/internal/ledger"
	"github.com/JoyalGJ/PG-Management/internal/model"
	"github.com/JoyalGJ/PG-Management/internal/queue"
	"github.com/JoyalGJ/PG-Management/internal/repository"
)

// PaymentService records rent payments.
type PaymentService struct {
	rooms    *repository.RoomRepo
	tenants  *repository.TenantRepo
	payments *repository.PaymentRepo
	events   EventPublisher
	log      *zap.Logger
	now      ledger.Clock
}

// NewPaymentService wires a PaymentService.  A nil publisher drops
// events, a nil logger discards logs and a nil clock means time.Now.
func NewPaymentService(rooms *repository.RoomRepo, tenants *repository.TenantRepo, payments *repository.PaymentRepo,
	events EventPublisher, log *zap.Logger, now ledger.Clock) *PaymentService {
	if rooms == nil || tenants == nil || payments == nil {
		panic("nil repository passed to NewPaymentService")
	}
	if events == nil {
		events = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if now == nil {
		now = time.Now
	}
	return &PaymentService{rooms: rooms, tenants: tenants, payments: payments, events: events, log: log, now: now}
}

// MarkPaidInput identifies the month being paid.  Amount defaults to the
// room's per person rent and PaidDate to now.
type MarkPaidInput struct {
	TenantID uint64
	Month    string
	Amount   *int64
	PaidDate *time.Time
}

// MarkPaid records the payment of one month for one tenant.  The call is
// idempotent: when the month is already paid the stored record is
// returned with created false and nothing is written.
func (s *PaymentService) MarkPaid(ctx context.Context, in MarkPaidInput) (*model.Payment, bool, error) {
	if in.TenantID == 0 {
		return nil, false, invalidf("tenant_id is required")
	}
	m, err := ledger.ParseMonth(in.Month)
	if err != nil {
		return nil, false, invalidf("%v", err)
	}
	if in.Amount != nil && *in.Amount < 0 {
		return nil, false, invalidf("amount must not be negative")
	}

	existing, err := s.payments.GetByTenantAndMonth(ctx, in.TenantID, m.String())
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, repository.ErrNotFound):
		return nil, false, err
	}

	t, err := s.tenants.GetByID(ctx, in.TenantID)
	if err != nil {
		return nil, false, err
	}
	p := &model.Payment{
		TenantID:   t.ID,
		RoomNumber: t.RoomNumber,
		Month:      m.String(),
		PaidDate:   s.now().UTC(),
	}
	if in.PaidDate != nil && !in.PaidDate.IsZero() {
		p.PaidDate = in.PaidDate.UTC()
	}
	if in.Amount != nil {
		p.Amount = *in.Amount
	} else {
		rm, err := s.rooms.GetByNumber(ctx, t.RoomNumber)
		if err != nil {
			return nil, false, err
		}
		p.Amount = rm.PerPersonRent()
	}

	if err := s.payments.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrPaymentExists) {
			// Lost a race with a concurrent request for the same month.
			existing, gerr := s.payments.GetByTenantAndMonth(ctx, in.TenantID, m.String())
			if gerr != nil {
				return nil, false, gerr
			}
			return existing, false, nil
		}
		return nil, false, err
	}

	ev := queue.RentPaidEvent{
		PaymentID:  p.ID,
		TenantID:   t.ID,
		TenantName: t.Name,
		RoomNumber: p.RoomNumber,
		Month:      p.Month,
		Amount:     p.Amount,
		PaidDate:   p.PaidDate.Format(time.RFC3339),
	}
	if err := s.events.PublishRentPaid(ctx, ev); err != nil {
		s.log.Warn("publish rent.paid failed", zap.Uint64("payment_id", p.ID), zap.Error(err))
	}
	return p, true, nil
}

// List returns payments, optionally for one tenant and one month.
func (s *PaymentService) List(ctx context.Context, tenantID uint64, month string) ([]model.Payment, error) {
	f := repository.PaymentFilter{TenantID: tenantID}
	if month != "" {
		m, err := ledger.ParseMonth(month)
		if err != nil {
			return nil, invalidf("%v", err)
		}
		f.Month = m.String()
	}
	return s.payments.List(ctx, f)
}
