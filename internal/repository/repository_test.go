package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoyalGJ/PG-Management/internal/model"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

var (
	roomCols    = []string{"id", "room_number", "monthly_rent", "capacity", "occupied"}
	tenantCols  = []string{"id", "name", "contact", "room_number", "deposit_amount", "join_date", "is_active"}
	paymentCols = []string{"id", "tenant_id", "room_number", "month", "amount", "paid_date"}
	maintCols   = []string{"id", "room_number", "issue", "status", "created_at"}
)

func TestRoomCreate_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectExec(`INSERT INTO rooms`).
		WithArgs("101", int64(9000), 3).
		WillReturnResult(sqlmock.NewResult(11, 1))

	rm := &model.Room{RoomNumber: "101", MonthlyRent: 9000, Capacity: 3, Occupied: 5}
	require.NoError(t, repo.Create(context.Background(), rm))
	assert.Equal(t, uint64(11), rm.ID)
	assert.Equal(t, 0, rm.Occupied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomCreate_DuplicateNumber(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectExec(`INSERT INTO rooms`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '101'"})

	err := repo.Create(context.Background(), &model.Room{RoomNumber: "101", MonthlyRent: 1, Capacity: 1})
	assert.ErrorIs(t, err, ErrRoomExists)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomGetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectQuery(`SELECT .* FROM rooms WHERE id = \?`).
		WithArgs(uint64(4)).
		WillReturnRows(sqlmock.NewRows(roomCols))

	_, err := repo.GetByID(context.Background(), 4)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomList_PropagatesErrors(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	boom := errors.New("connection reset")
	mock.ExpectQuery(`SELECT .* FROM rooms ORDER BY room_number`).WillReturnError(boom)

	rooms, err := repo.List(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Nil(t, rooms)
}

func TestRoomList_Success(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectQuery(`SELECT .* FROM rooms ORDER BY room_number`).
		WillReturnRows(sqlmock.NewRows(roomCols).
			AddRow(1, "101", 9000, 3, 2).
			AddRow(2, "102", 5000, 2, 0))

	rooms, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "101", rooms[0].RoomNumber)
	assert.Equal(t, 2, rooms[0].Occupied)
	assert.Equal(t, int64(5000), rooms[1].MonthlyRent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomLockByNumbersTx(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .* FROM rooms WHERE room_number IN \(\?,\?\) ORDER BY room_number FOR UPDATE`).
		WithArgs("101", "202").
		WillReturnRows(sqlmock.NewRows(roomCols).AddRow(1, "101", 9000, 3, 1))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	rooms, err := repo.LockByNumbersTx(context.Background(), tx, "101", "202")
	require.NoError(t, err)
	assert.Contains(t, rooms, "101")
	assert.NotContains(t, rooms, "202")
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomAdjustOccupancyTx(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE rooms SET occupied = occupied \+ \?`).
		WithArgs(1, "101", 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE rooms SET occupied = occupied \+ \?`).
		WithArgs(1, "101", 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`UPDATE rooms SET occupied = occupied \+ \?`).
		WithArgs(-1, "102", -1, -1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := context.Background()
	assert.NoError(t, repo.AdjustOccupancyTx(ctx, tx, "101", 1))
	assert.ErrorIs(t, repo.AdjustOccupancyTx(ctx, tx, "101", 1), ErrRoomFull)
	err = repo.AdjustOccupancyTx(ctx, tx, "102", -1)
	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrRoomFull)
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRoomReconcileOccupancy(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewRoomRepo(db)

	mock.ExpectExec(`UPDATE rooms r\s+SET r.occupied = \(SELECT COUNT\(\*\) FROM tenants`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.ReconcileOccupancy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantList_Filters(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTenantRepo(db)

	join := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM tenants WHERE 1 = 1 AND is_active = 1 AND room_number = \? ORDER BY id`).
		WithArgs("101").
		WillReturnRows(sqlmock.NewRows(tenantCols).
			AddRow(1, "Asha", "555-0100", "101", 5000, join, true).
			AddRow(2, "Ravi", "", "101", 0, nil, true))

	tenants, err := repo.List(context.Background(), TenantFilter{ActiveOnly: true, RoomNumber: "101"})
	require.NoError(t, err)
	require.Len(t, tenants, 2)
	require.NotNil(t, tenants[0].JoinDate)
	assert.True(t, join.Equal(*tenants[0].JoinDate))
	assert.Nil(t, tenants[1].JoinDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantCreateTx_FormatsJoinDate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTenantRepo(db)

	join := time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO tenants`).
		WithArgs("Asha", "555-0100", "101", int64(5000), "2024-03-02", true).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectCommit()

	tn := &model.Tenant{Name: "Asha", Contact: "555-0100", RoomNumber: "101", DepositAmount: 5000, JoinDate: &join, IsActive: true}
	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		return repo.CreateTx(context.Background(), tx, tn)
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(42), tn.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTenantGetByID_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTenantRepo(db)

	mock.ExpectQuery(`SELECT .* FROM tenants WHERE id = \?`).
		WithArgs(uint64(9)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 9)
	assert.ErrorIs(t, err, ErrTenantNotFound)
}

func TestPaymentCreate_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPaymentRepo(db)

	mock.ExpectExec(`INSERT INTO rent_payments`).
		WithArgs(uint64(1), "101", "2024-02", int64(3000), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062})

	err := repo.Create(context.Background(), &model.Payment{TenantID: 1, RoomNumber: "101", Month: "2024-02", Amount: 3000, PaidDate: time.Now()})
	assert.ErrorIs(t, err, ErrPaymentExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentCreate_OtherErrorsPropagate(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPaymentRepo(db)

	mock.ExpectExec(`INSERT INTO rent_payments`).
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "foreign key"})

	err := repo.Create(context.Background(), &model.Payment{TenantID: 1, Month: "2024-02"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestPaymentList_Filters(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPaymentRepo(db)

	paid := time.Date(2024, time.February, 3, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .* FROM rent_payments WHERE 1 = 1 AND tenant_id = \? AND month = \? ORDER BY month, id`).
		WithArgs(uint64(1), "2024-02").
		WillReturnRows(sqlmock.NewRows(paymentCols).AddRow(5, 1, "101", "2024-02", 3000, paid))

	payments, err := repo.List(context.Background(), PaymentFilter{TenantID: 1, Month: "2024-02"})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, uint64(5), payments[0].ID)
	assert.True(t, paid.Equal(payments[0].PaidDate))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentGetByTenantAndMonth_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPaymentRepo(db)

	mock.ExpectQuery(`SELECT .* FROM rent_payments WHERE tenant_id = \? AND month = \?`).
		WithArgs(uint64(1), "2024-02").
		WillReturnRows(sqlmock.NewRows(paymentCols))

	_, err := repo.GetByTenantAndMonth(context.Background(), 1, "2024-02")
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestMaintenanceCreateAndResolve(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMaintenanceRepo(db)
	created := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO maintenance_requests`).
		WithArgs("101", "Leaking tap", model.MaintenanceOpen).
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectQuery(`SELECT .* FROM maintenance_requests WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(maintCols).AddRow(3, "101", "Leaking tap", model.MaintenanceOpen, created))
	mock.ExpectExec(`UPDATE maintenance_requests SET status = \? WHERE id = \?`).
		WithArgs(model.MaintenanceResolved, uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT .* FROM maintenance_requests WHERE id = \?`).
		WithArgs(uint64(3)).
		WillReturnRows(sqlmock.NewRows(maintCols).AddRow(3, "101", "Leaking tap", model.MaintenanceResolved, created))

	ctx := context.Background()
	m := &model.MaintenanceRequest{RoomNumber: "101", Issue: "Leaking tap"}
	require.NoError(t, repo.Create(ctx, m))
	assert.Equal(t, uint64(3), m.ID)
	assert.Equal(t, model.MaintenanceOpen, m.Status)

	resolved, err := repo.Resolve(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, model.MaintenanceResolved, resolved.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMaintenanceList_StatusFilter(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMaintenanceRepo(db)

	mock.ExpectQuery(`SELECT .* FROM maintenance_requests WHERE status = \? ORDER BY created_at DESC, id DESC`).
		WithArgs(model.MaintenanceOpen).
		WillReturnRows(sqlmock.NewRows(maintCols))

	list, err := repo.List(context.Background(), model.MaintenanceOpen)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE rooms`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	boom := errors.New("boom")
	err := WithTx(context.Background(), db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`UPDATE rooms SET occupied = 1`); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
