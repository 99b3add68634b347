// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios. ErrNotFound signals that a referenced row does not exist,
// while ErrConflict signals that an operation cannot proceed because of
// existing state (a duplicate key, a full room, a room that still has
// occupants).
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup matches no row. Handlers should
// translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write cannot be performed because of
// conflicting state. Handlers should translate this into an HTTP 409
// response.
var ErrConflict = errors.New("conflict")

// Entity specific variants.  They match both their own value and the
// generic sentinel with errors.Is.
var (
	ErrRoomNotFound        = fmt.Errorf("room %w", ErrNotFound)
	ErrTenantNotFound      = fmt.Errorf("tenant %w", ErrNotFound)
	ErrPaymentNotFound     = fmt.Errorf("payment %w", ErrNotFound)
	ErrMaintenanceNotFound = fmt.Errorf("maintenance request %w", ErrNotFound)

	ErrRoomExists    = fmt.Errorf("room number already exists: %w", ErrConflict)
	ErrPaymentExists = fmt.Errorf("payment already recorded for this month: %w", ErrConflict)
	ErrRoomFull      = fmt.Errorf("room is at capacity: %w", ErrConflict)
	ErrRoomOccupied  = fmt.Errorf("room still has occupants: %w", ErrConflict)
)

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a unique key violation.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}

// dbtx is satisfied by both *sql.DB and *sql.Tx so that the same query
// code can run inside or outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// WithTx runs fn inside a transaction. The transaction is committed when
// fn returns nil and rolled back otherwise, so a failure part way through
// fn leaves no partial writes behind.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	committed = true
	return nil
}
