package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/JoyalGJ/PG-Management/internal/model"
	"github.com/JoyalGJ/PG-Management/internal/repository"
)

// RoomService manages the room catalogue.
type RoomService struct {
	rooms   *repository.RoomRepo
	tenants *repository.TenantRepo
}

// NewRoomService wires a RoomService.
func NewRoomService(rooms *repository.RoomRepo, tenants *repository.TenantRepo) *RoomService {
	if rooms == nil || tenants == nil {
		panic("nil repository passed to NewRoomService")
	}
	return &RoomService{rooms: rooms, tenants: tenants}
}

// CreateRoomInput describes a new room.  Capacity defaults to
// model.DefaultRoomCapacity.
type CreateRoomInput struct {
	RoomNumber  string
	MonthlyRent int64
	Capacity    *int
}

// UpdateRoomInput carries the fields to change; nil fields are kept.
type UpdateRoomInput struct {
	MonthlyRent *int64
	Capacity    *int
}

// Create adds a room with no occupants.
func (s *RoomService) Create(ctx context.Context, in CreateRoomInput) (*model.Room, error) {
	rm := &model.Room{
		RoomNumber:  strings.TrimSpace(in.RoomNumber),
		MonthlyRent: in.MonthlyRent,
		Capacity:    model.DefaultRoomCapacity,
	}
	if in.Capacity != nil {
		rm.Capacity = *in.Capacity
	}
	if rm.RoomNumber == "" {
		return nil, invalidf("room_number is required")
	}
	if rm.MonthlyRent < 0 {
		return nil, invalidf("monthly_rent must not be negative")
	}
	if rm.Capacity < 1 {
		return nil, invalidf("capacity must be at least 1")
	}
	if err := s.rooms.Create(ctx, rm); err != nil {
		return nil, err
	}
	return rm, nil
}

// List returns every room ordered by room number.
func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	return s.rooms.List(ctx)
}

// Get returns one room.
func (s *RoomService) Get(ctx context.Context, id uint64) (*model.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

// Update changes rent and capacity.  Capacity may not drop below the
// current number of occupants.
func (s *RoomService) Update(ctx context.Context, id uint64, in UpdateRoomInput) (*model.Room, error) {
	if in.MonthlyRent != nil && *in.MonthlyRent < 0 {
		return nil, invalidf("monthly_rent must not be negative")
	}
	if in.Capacity != nil && *in.Capacity < 1 {
		return nil, invalidf("capacity must be at least 1")
	}
	var out *model.Room
	err := repository.WithTx(ctx, s.rooms.DB(), func(tx *sql.Tx) error {
		rm, err := s.rooms.LockByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if in.MonthlyRent != nil {
			rm.MonthlyRent = *in.MonthlyRent
		}
		if in.Capacity != nil {
			if *in.Capacity < rm.Occupied {
				return fmt.Errorf("capacity %d is below current occupancy %d: %w", *in.Capacity, rm.Occupied, repository.ErrConflict)
			}
			rm.Capacity = *in.Capacity
		}
		if err := s.rooms.UpdateTx(ctx, tx, rm); err != nil {
			return err
		}
		out = rm
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an empty room.  A room with occupants, by counter or by
// active tenant rows, is refused with repository.ErrRoomOccupied.
func (s *RoomService) Delete(ctx context.Context, id uint64) error {
	return repository.WithTx(ctx, s.rooms.DB(), func(tx *sql.Tx) error {
		rm, err := s.rooms.LockByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		active, err := s.tenants.CountActiveInRoomTx(ctx, tx, rm.RoomNumber)
		if err != nil {
			return err
		}
		if rm.Occupied > 0 || active > 0 {
			return repository.ErrRoomOccupied
		}
		return s.rooms.DeleteTx(ctx, tx, id)
	})
}

// Reconcile rebuilds every occupancy counter from the active tenant rows
// and reports how many rooms changed.
func (s *RoomService) Reconcile(ctx context.Context) (int64, error) {
	return s.rooms.ReconcileOccupancy(ctx)
}
