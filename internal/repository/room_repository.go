package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/JoyalGJ/PG-Management/internal/model"
)

// RoomRepo provides data access to the rooms table.  Occupancy counters
// are only ever changed with relative updates inside a transaction that
// already holds the row lock (see LockByNumbersTx).
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the provided database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying handle so services can open transactions.
func (r *RoomRepo) DB() *sql.DB { return r.db }

const roomColumns = `id, room_number, monthly_rent, capacity, occupied`

func scanRoom(s scanner) (*model.Room, error) {
	var rm model.Room
	if err := s.Scan(&rm.ID, &rm.RoomNumber, &rm.MonthlyRent, &rm.Capacity, &rm.Occupied); err != nil {
		return nil, err
	}
	return &rm, nil
}

// Create inserts a new room with zero occupants and sets its ID.  A
// duplicate room number yields ErrRoomExists.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	const q = `INSERT INTO rooms (room_number, monthly_rent, capacity, occupied) VALUES (?, ?, ?, 0)`
	res, err := r.db.ExecContext(ctx, q, rm.RoomNumber, rm.MonthlyRent, rm.Capacity)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrRoomExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	rm.Occupied = 0
	return nil
}

// GetByID retrieves a room by primary key.  It returns ErrRoomNotFound
// when no row matches.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	return r.getOne(ctx, r.db, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
}

// GetByNumber retrieves a room by its room number.
func (r *RoomRepo) GetByNumber(ctx context.Context, roomNumber string) (*model.Room, error) {
	return r.getOne(ctx, r.db, `SELECT `+roomColumns+` FROM rooms WHERE room_number = ?`, roomNumber)
}

// LockByIDTx loads a room and takes its row lock for the rest of tx.
func (r *RoomRepo) LockByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Room, error) {
	return r.getOne(ctx, tx, `SELECT `+roomColumns+` FROM rooms WHERE id = ? FOR UPDATE`, id)
}

func (r *RoomRepo) getOne(ctx context.Context, q dbtx, query string, arg any) (*model.Room, error) {
	rm, err := scanRoom(q.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return rm, nil
}

// List returns every room ordered by room number.  The table is small
// and read in full; there is no pagination.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY room_number`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rm)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// LockByNumbersTx loads the named rooms and takes their row locks for the
// rest of tx.  Rows are locked in room number order so two transactions
// touching the same pair of rooms cannot deadlock.  Missing rooms are
// simply absent from the returned map.
func (r *RoomRepo) LockByNumbersTx(ctx context.Context, tx *sql.Tx, roomNumbers ...string) (map[string]*model.Room, error) {
	out := make(map[string]*model.Room, len(roomNumbers))
	if len(roomNumbers) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(roomNumbers)), ",")
	args := make([]any, 0, len(roomNumbers))
	for _, n := range roomNumbers {
		args = append(args, n)
	}
	q := `SELECT ` + roomColumns + ` FROM rooms WHERE room_number IN (` + placeholders + `) ORDER BY room_number FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out[rm.RoomNumber] = rm
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// AdjustOccupancyTx adds delta to a room's occupied counter.  The update
// is refused with ErrRoomFull when it would push the counter above the
// room's capacity, and with ErrConflict when it would go negative.
func (r *RoomRepo) AdjustOccupancyTx(ctx context.Context, tx *sql.Tx, roomNumber string, delta int) error {
	const q = `UPDATE rooms SET occupied = occupied + ?
	           WHERE room_number = ? AND occupied + ? >= 0 AND occupied + ? <= capacity`
	res, err := tx.ExecContext(ctx, q, delta, roomNumber, delta, delta)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if delta > 0 {
			return ErrRoomFull
		}
		return ErrConflict
	}
	return nil
}

// UpdateTx overwrites the rent and capacity of a room.  Room numbers are
// immutable because tenants and payments refer to them.
func (r *RoomRepo) UpdateTx(ctx context.Context, tx *sql.Tx, rm *model.Room) error {
	const q = `UPDATE rooms SET monthly_rent = ?, capacity = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, rm.MonthlyRent, rm.Capacity, rm.ID)
	return err
}

// DeleteTx removes a room.  Callers must check for occupants first.
func (r *RoomRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// ReconcileOccupancy recomputes every room's occupied counter from the
// number of active tenants assigned to it and returns the number of
// rooms whose counter changed.
func (r *RoomRepo) ReconcileOccupancy(ctx context.Context) (int64, error) {
	const q = `UPDATE rooms r
	           SET r.occupied = (SELECT COUNT(*) FROM tenants t WHERE t.room_number = r.room_number AND t.is_active = 1)`
	res, err := r.db.ExecContext(ctx, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
