package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/JoyalGJ/PG-Management/internal/model"
)

// MaintenanceRepo provides data access to the maintenance_requests table.
type MaintenanceRepo struct {
	db *sql.DB
}

// NewMaintenanceRepo returns a new MaintenanceRepo bound to the provided database.
func NewMaintenanceRepo(db *sql.DB) *MaintenanceRepo { return &MaintenanceRepo{db: db} }

const maintenanceColumns = `id, room_number, issue, status, created_at`

func scanMaintenance(s scanner) (*model.MaintenanceRequest, error) {
	var m model.MaintenanceRequest
	if err := s.Scan(&m.ID, &m.RoomNumber, &m.Issue, &m.Status, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a request with status Open and reads it back so that
// the generated created_at is populated.
func (r *MaintenanceRepo) Create(ctx context.Context, m *model.MaintenanceRequest) error {
	const q = `INSERT INTO maintenance_requests (room_number, issue, status) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, m.RoomNumber, m.Issue, model.MaintenanceOpen)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*m = *created
	return nil
}

// GetByID retrieves a request or returns ErrMaintenanceNotFound.
func (r *MaintenanceRepo) GetByID(ctx context.Context, id uint64) (*model.MaintenanceRequest, error) {
	const q = `SELECT ` + maintenanceColumns + ` FROM maintenance_requests WHERE id = ?`
	m, err := scanMaintenance(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMaintenanceNotFound
		}
		return nil, err
	}
	return m, nil
}

// List returns requests newest first, optionally only those with status.
func (r *MaintenanceRepo) List(ctx context.Context, status string) ([]model.MaintenanceRequest, error) {
	q := `SELECT ` + maintenanceColumns + ` FROM maintenance_requests`
	var args []any
	if status != "" {
		q += ` WHERE status = ?`
		args = append(args, status)
	}
	q += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.MaintenanceRequest{}
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Resolve marks a request Resolved and returns the updated row.
// Resolving an already resolved request is not an error.
func (r *MaintenanceRepo) Resolve(ctx context.Context, id uint64) (*model.MaintenanceRequest, error) {
	if _, err := r.db.ExecContext(ctx, `UPDATE maintenance_requests SET status = ? WHERE id = ?`, model.MaintenanceResolved, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}
