package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/JoyalGJ/PG-Management/internal/ledger"
	"github.com/JoyalGJ/PG-Management/internal/model"
	"github.com/JoyalGJ/PG-Management/internal/repository"
)

// TenantService runs the tenant lifecycle.  Every operation that moves a
// tenant into or out of a room updates the room counters and the tenant
// row in one transaction, holding the room row locks until commit.
type TenantService struct {
	db      *sql.DB
	rooms   *repository.RoomRepo
	tenants *repository.TenantRepo
	now     ledger.Clock
}

// NewTenantService wires a TenantService.  now supplies the default join
// date; nil means time.Now.
func NewTenantService(rooms *repository.RoomRepo, tenants *repository.TenantRepo, now ledger.Clock) *TenantService {
	if rooms == nil || tenants == nil {
		panic("nil repository passed to NewTenantService")
	}
	if now == nil {
		now = time.Now
	}
	return &TenantService{db: rooms.DB(), rooms: rooms, tenants: tenants, now: now}
}

// RegisterTenantInput describes a new tenant.  JoinDate defaults to today.
type RegisterTenantInput struct {
	Name          string
	Contact       string
	RoomNumber    string
	DepositAmount int64
	JoinDate      *time.Time
}

// EditTenantInput carries the fields to change; nil fields are kept.  A
// different RoomNumber is a transfer.
type EditTenantInput struct {
	Name          *string
	Contact       *string
	RoomNumber    *string
	DepositAmount *int64
	JoinDate      *time.Time
}

// ReactivateInput is the new assignment of a returning tenant.
type ReactivateInput struct {
	RoomNumber string
	JoinDate   *time.Time
}

func (s *TenantService) today() time.Time {
	t := s.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// List returns tenants matching f.
func (s *TenantService) List(ctx context.Context, f repository.TenantFilter) ([]model.Tenant, error) {
	return s.tenants.List(ctx, f)
}

// Get returns one tenant.
func (s *TenantService) Get(ctx context.Context, id uint64) (*model.Tenant, error) {
	return s.tenants.GetByID(ctx, id)
}

// Register creates an active tenant and takes one place in its room.
func (s *TenantService) Register(ctx context.Context, in RegisterTenantInput) (*model.Tenant, error) {
	t := &model.Tenant{
		Name:          strings.TrimSpace(in.Name),
		Contact:       strings.TrimSpace(in.Contact),
		RoomNumber:    strings.TrimSpace(in.RoomNumber),
		DepositAmount: in.DepositAmount,
		JoinDate:      in.JoinDate,
		IsActive:      true,
	}
	if t.Name == "" {
		return nil, invalidf("name is required")
	}
	if t.RoomNumber == "" {
		return nil, invalidf("room_number is required")
	}
	if t.DepositAmount < 0 {
		return nil, invalidf("deposit_amount must not be negative")
	}
	if t.JoinDate == nil || t.JoinDate.IsZero() {
		jd := s.today()
		t.JoinDate = &jd
	}
	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.occupy(ctx, tx, t.RoomNumber); err != nil {
			return err
		}
		return s.tenants.CreateTx(ctx, tx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Edit updates a tenant's details.  Changing the room of an active
// tenant releases a place in the old room and takes one in the new room
// atomically: either both counters and the tenant row change, or none.
func (s *TenantService) Edit(ctx context.Context, id uint64, in EditTenantInput) (*model.Tenant, error) {
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return nil, invalidf("name must not be empty")
	}
	if in.RoomNumber != nil && strings.TrimSpace(*in.RoomNumber) == "" {
		return nil, invalidf("room_number must not be empty")
	}
	if in.DepositAmount != nil && *in.DepositAmount < 0 {
		return nil, invalidf("deposit_amount must not be negative")
	}
	var out *model.Tenant
	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := s.tenants.LockByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if in.Name != nil {
			t.Name = strings.TrimSpace(*in.Name)
		}
		if in.Contact != nil {
			t.Contact = strings.TrimSpace(*in.Contact)
		}
		if in.DepositAmount != nil {
			t.DepositAmount = *in.DepositAmount
		}
		if in.JoinDate != nil && !in.JoinDate.IsZero() {
			t.JoinDate = in.JoinDate
		}
		if in.RoomNumber != nil {
			if to := strings.TrimSpace(*in.RoomNumber); to != t.RoomNumber {
				if err := s.transfer(ctx, tx, t, to); err != nil {
					return err
				}
			}
		}
		if err := s.tenants.UpdateTx(ctx, tx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Remove soft deletes a tenant and frees its place.  Removing an
// inactive tenant is a no-op.
func (s *TenantService) Remove(ctx context.Context, id uint64) (*model.Tenant, error) {
	var out *model.Tenant
	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := s.tenants.LockByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		out = t
		if !t.IsActive {
			return nil
		}
		if err := s.release(ctx, tx, t.RoomNumber); err != nil {
			return err
		}
		t.IsActive = false
		return s.tenants.UpdateTx(ctx, tx, t)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Reactivate brings a removed tenant back with a new join date and room.
// Reactivating an active tenant is a conflict.
func (s *TenantService) Reactivate(ctx context.Context, id uint64, in ReactivateInput) (*model.Tenant, error) {
	room := strings.TrimSpace(in.RoomNumber)
	if room == "" {
		return nil, invalidf("room_number is required")
	}
	joinDate := in.JoinDate
	if joinDate == nil || joinDate.IsZero() {
		jd := s.today()
		joinDate = &jd
	}
	var out *model.Tenant
	err := repository.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := s.tenants.LockByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if t.IsActive {
			return fmt.Errorf("tenant %d is already active: %w", id, repository.ErrConflict)
		}
		if err := s.occupy(ctx, tx, room); err != nil {
			return err
		}
		t.IsActive = true
		t.RoomNumber = room
		t.JoinDate = joinDate
		if err := s.tenants.UpdateTx(ctx, tx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// occupy locks room and takes one place in it.
func (s *TenantService) occupy(ctx context.Context, tx *sql.Tx, room string) error {
	locked, err := s.rooms.LockByNumbersTx(ctx, tx, room)
	if err != nil {
		return err
	}
	rm, ok := locked[room]
	if !ok {
		return repository.ErrRoomNotFound
	}
	if rm.Vacancies() == 0 {
		return roomFull(rm)
	}
	return s.rooms.AdjustOccupancyTx(ctx, tx, room, +1)
}

func roomFull(rm *model.Room) error {
	return fmt.Errorf("room %s has %d of %d places taken: %w", rm.RoomNumber, rm.Occupied, rm.Capacity, repository.ErrRoomFull)
}

// release locks room and gives back one place.  A room that no longer
// exists, or whose counter already reads zero, is left alone; Reconcile
// repairs drifted counters.
func (s *TenantService) release(ctx context.Context, tx *sql.Tx, room string) error {
	locked, err := s.rooms.LockByNumbersTx(ctx, tx, room)
	if err != nil {
		return err
	}
	if rm, ok := locked[room]; !ok || rm.Occupied == 0 {
		return nil
	}
	return s.rooms.AdjustOccupancyTx(ctx, tx, room, -1)
}

// transfer moves t to room to.  Inactive tenants hold no place, so only
// the target room's existence is checked for them.
func (s *TenantService) transfer(ctx context.Context, tx *sql.Tx, t *model.Tenant, to string) error {
	from := t.RoomNumber
	locked, err := s.rooms.LockByNumbersTx(ctx, tx, from, to)
	if err != nil {
		return err
	}
	target, ok := locked[to]
	if !ok {
		return repository.ErrRoomNotFound
	}
	if t.IsActive {
		if target.Vacancies() == 0 {
			return roomFull(target)
		}
		if rm, ok := locked[from]; ok && rm.Occupied > 0 {
			if err := s.rooms.AdjustOccupancyTx(ctx, tx, from, -1); err != nil {
				return err
			}
		}
		if err := s.rooms.AdjustOccupancyTx(ctx, tx, to, +1); err != nil {
			return err
		}
	}
	t.RoomNumber = to
	return nil
}
