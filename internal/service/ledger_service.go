package service

import (
	"context"

	"github.com/JoyalGJ/PG-Management/internal/ledger"
	"github.com/JoyalGJ/PG-Management/internal/model"
	"github.com/JoyalGJ/PG-Management/internal/repository"
)

// LedgerService loads tenants, rooms and payments and hands them to the
// ledger calculator.  Storage errors are returned as is; only missing
// data inside a successful read degrades to empty rows.
type LedgerService struct {
	rooms    *repository.RoomRepo
	tenants  *repository.TenantRepo
	payments *repository.PaymentRepo
	calc     *ledger.Calculator
}

// NewLedgerService wires a LedgerService around calc.
func NewLedgerService(rooms *repository.RoomRepo, tenants *repository.TenantRepo, payments *repository.PaymentRepo, calc *ledger.Calculator) *LedgerService {
	if rooms == nil || tenants == nil || payments == nil {
		panic("nil repository passed to NewLedgerService")
	}
	if calc == nil {
		calc = ledger.NewCalculator(nil)
	}
	return &LedgerService{rooms: rooms, tenants: tenants, payments: payments, calc: calc}
}

// TenantLedger returns the due rows of one tenant through cutoff (the
// current month when zero).  Tenants carry no leave date, so a removed
// tenant is billed like an active one up to cutoff; pass an earlier
// cutoff to settle a tenant who has left.
func (s *LedgerService) TenantLedger(ctx context.Context, tenantID uint64, cutoff ledger.Month) ([]model.BillingRow, error) {
	t, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.List(ctx, repository.PaymentFilter{TenantID: tenantID})
	if err != nil {
		return nil, err
	}
	return s.calc.ComputeDueRows(*t, ledger.NewRoomCatalog(rooms), ledger.IndexPayments(payments), cutoff), nil
}

// Ledger returns the rows of every tenant selected by f.
func (s *LedgerService) Ledger(ctx context.Context, f ledger.Filters) ([]model.BillingRow, error) {
	tenants, err := s.tenants.List(ctx, repository.TenantFilter{
		ActiveOnly: !f.IncludeInactive(),
		RoomNumber: f.RoomNumber(),
	})
	if err != nil {
		return nil, err
	}
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.List(ctx, repository.PaymentFilter{TenantID: f.TenantID()})
	if err != nil {
		return nil, err
	}
	return s.calc.ComputeLedger(tenants, rooms, payments, f), nil
}

// Summary groups the rows selected by f per month.
func (s *LedgerService) Summary(ctx context.Context, f ledger.Filters) ([]model.MonthSummary, error) {
	rows, err := s.Ledger(ctx, f)
	if err != nil {
		return nil, err
	}
	return ledger.Summarize(rows), nil
}

// CurrentMonth is the month the calculator considers current.
func (s *LedgerService) CurrentMonth() ledger.Month { return s.calc.CurrentMonth() }
