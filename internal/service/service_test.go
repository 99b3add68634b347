package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/JoyalGJ/PG-Management/internal/queue"
	"github.com/JoyalGJ/PG-Management/internal/repository"
)

var (
	roomCols    = []string{"id", "room_number", "monthly_rent", "capacity", "occupied"}
	tenantCols  = []string{"id", "name", "contact", "room_number", "deposit_amount", "join_date", "is_active"}
	paymentCols = []string{"id", "tenant_id", "room_number", "month", "amount", "paid_date"}
	maintCols   = []string{"id", "room_number", "issue", "status", "created_at"}
)

// fixed returns a clock stuck at the given UTC date.
func fixed(y int, m time.Month, d int) func() time.Time {
	return func() time.Time { return time.Date(y, m, d, 9, 30, 0, 0, time.UTC) }
}

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

type repos struct {
	db          *sql.DB
	mock        sqlmock.Sqlmock
	rooms       *repository.RoomRepo
	tenants     *repository.TenantRepo
	payments    *repository.PaymentRepo
	maintenance *repository.MaintenanceRepo
}

func setup(t *testing.T) repos {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return repos{
		db:          db,
		mock:        mock,
		rooms:       repository.NewRoomRepo(db),
		tenants:     repository.NewTenantRepo(db),
		payments:    repository.NewPaymentRepo(db),
		maintenance: repository.NewMaintenanceRepo(db),
	}
}

// recorder is an EventPublisher that keeps what it was given.
type recorder struct {
	mu    sync.Mutex
	rent  []queue.RentPaidEvent
	maint []queue.MaintenanceOpenedEvent
	err   error
}

func (r *recorder) PublishRentPaid(_ context.Context, ev queue.RentPaidEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rent = append(r.rent, ev)
	return r.err
}

func (r *recorder) PublishMaintenanceOpened(_ context.Context, ev queue.MaintenanceOpenedEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.maint = append(r.maint, ev)
	return r.err
}

var errBoom = errors.New("boom")
