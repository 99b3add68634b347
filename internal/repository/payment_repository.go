package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/JoyalGJ/PG-Management/internal/model"
)

// PaymentRepo provides data access to the rent_payments table.  The
// table carries a unique key on (tenant_id, month) so a month can only
// be marked paid once per tenant no matter how often the request is
// retried.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the provided database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// PaymentFilter narrows List.  The zero value lists every payment.
type PaymentFilter struct {
	TenantID uint64 // only payments by this tenant
	Month    string // only payments for this "YYYY-MM" month
}

const paymentColumns = `id, tenant_id, room_number, month, amount, paid_date`

func scanPayment(s scanner) (*model.Payment, error) {
	var p model.Payment
	if err := s.Scan(&p.ID, &p.TenantID, &p.RoomNumber, &p.Month, &p.Amount, &p.PaidDate); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a payment and sets its ID.  It returns ErrPaymentExists
// when the tenant already has a payment for the month.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO rent_payments (tenant_id, room_number, month, amount, paid_date) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.TenantID, p.RoomNumber, p.Month, p.Amount, p.PaidDate.UTC())
	if err != nil {
		if isDuplicateKey(err) {
			return ErrPaymentExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByTenantAndMonth returns the payment a tenant made for month, or
// ErrPaymentNotFound.
func (r *PaymentRepo) GetByTenantAndMonth(ctx context.Context, tenantID uint64, month string) (*model.Payment, error) {
	const q = `SELECT ` + paymentColumns + ` FROM rent_payments WHERE tenant_id = ? AND month = ?`
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, tenantID, month))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}
	return p, nil
}

// List returns payments matching f ordered by month, then id.
func (r *PaymentRepo) List(ctx context.Context, f PaymentFilter) ([]model.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM rent_payments WHERE 1 = 1`
	var args []any
	if f.TenantID != 0 {
		q += ` AND tenant_id = ?`
		args = append(args, f.TenantID)
	}
	if f.Month != "" {
		q += ` AND month = ?`
		args = append(args, f.Month)
	}
	q += ` ORDER BY month, id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
