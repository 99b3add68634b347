package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/JoyalGJ/PG-Management/internal/model"
)

// TenantRepo provides data access to the tenants table.  Rows are never
// deleted; "remove" is an update of is_active.
type TenantRepo struct {
	db *sql.DB
}

// NewTenantRepo returns a new TenantRepo bound to the provided database.
func NewTenantRepo(db *sql.DB) *TenantRepo { return &TenantRepo{db: db} }

// TenantFilter narrows List.  The zero value lists every tenant.
type TenantFilter struct {
	ActiveOnly bool   // skip soft deleted tenants
	RoomNumber string // only tenants assigned to this room
}

const tenantColumns = `id, name, contact, room_number, deposit_amount, join_date, is_active`

func scanTenant(s scanner) (*model.Tenant, error) {
	var (
		t    model.Tenant
		join sql.NullTime
	)
	if err := s.Scan(&t.ID, &t.Name, &t.Contact, &t.RoomNumber, &t.DepositAmount, &join, &t.IsActive); err != nil {
		return nil, err
	}
	if join.Valid {
		jd := join.Time
		t.JoinDate = &jd
	}
	return &t, nil
}

func joinDateArg(jd *time.Time) any {
	if jd == nil || jd.IsZero() {
		return nil
	}
	return jd.UTC().Format("2006-01-02")
}

// CreateTx inserts a tenant within tx and sets its ID.
func (r *TenantRepo) CreateTx(ctx context.Context, tx *sql.Tx, t *model.Tenant) error {
	const q = `INSERT INTO tenants (name, contact, room_number, deposit_amount, join_date, is_active)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, t.Name, t.Contact, t.RoomNumber, t.DepositAmount, joinDateArg(t.JoinDate), t.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID retrieves a tenant.  It returns ErrTenantNotFound when no row
// matches.
func (r *TenantRepo) GetByID(ctx context.Context, id uint64) (*model.Tenant, error) {
	return r.getOne(ctx, r.db, `SELECT `+tenantColumns+` FROM tenants WHERE id = ?`, id)
}

// LockByIDTx retrieves a tenant and holds its row lock for the rest of tx.
func (r *TenantRepo) LockByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Tenant, error) {
	return r.getOne(ctx, tx, `SELECT `+tenantColumns+` FROM tenants WHERE id = ? FOR UPDATE`, id)
}

func (r *TenantRepo) getOne(ctx context.Context, q dbtx, query string, id uint64) (*model.Tenant, error) {
	t, err := scanTenant(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return t, nil
}

// List returns tenants matching f ordered by id.
func (r *TenantRepo) List(ctx context.Context, f TenantFilter) ([]model.Tenant, error) {
	q := `SELECT ` + tenantColumns + ` FROM tenants WHERE 1 = 1`
	var args []any
	if f.ActiveOnly {
		q += ` AND is_active = 1`
	}
	if f.RoomNumber != "" {
		q += ` AND room_number = ?`
		args = append(args, f.RoomNumber)
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Tenant{}
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTx overwrites every mutable column of a tenant within tx.
func (r *TenantRepo) UpdateTx(ctx context.Context, tx *sql.Tx, t *model.Tenant) error {
	const q = `UPDATE tenants
	           SET name = ?, contact = ?, room_number = ?, deposit_amount = ?, join_date = ?, is_active = ?
	           WHERE id = ?`
	// RowsAffected is not checked: MySQL reports zero for a no-op update
	// and callers hold the row lock, so the row exists.
	_, err := tx.ExecContext(ctx, q, t.Name, t.Contact, t.RoomNumber, t.DepositAmount, joinDateArg(t.JoinDate), t.IsActive, t.ID)
	return err
}

// CountActiveInRoomTx counts active tenants assigned to roomNumber.
func (r *TenantRepo) CountActiveInRoomTx(ctx context.Context, tx *sql.Tx, roomNumber string) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tenants WHERE room_number = ? AND is_active = 1`, roomNumber).Scan(&n)
	return n, err
}
