package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JoyalGJ/PG-Management/internal/model"
	"github.com/JoyalGJ/PG-Management/internal/queue"
	"github.com/JoyalGJ/PG-Management/internal/repository"
)

// MaintenanceService tracks maintenance tickets.
type MaintenanceService struct {
	rooms    *repository.RoomRepo
	requests *repository.MaintenanceRepo
	events   EventPublisher
	log      *zap.Logger
}

// NewMaintenanceService wires a MaintenanceService.
func NewMaintenanceService(rooms *repository.RoomRepo, requests *repository.MaintenanceRepo, events EventPublisher, log *zap.Logger) *MaintenanceService {
	if rooms == nil || requests == nil {
		panic("nil repository passed to NewMaintenanceService")
	}
	if events == nil {
		events = NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &MaintenanceService{rooms: rooms, requests: requests, events: events, log: log}
}

// Open files a new request for an existing room.
func (s *MaintenanceService) Open(ctx context.Context, roomNumber, issue string) (*model.MaintenanceRequest, error) {
	roomNumber, issue = strings.TrimSpace(roomNumber), strings.TrimSpace(issue)
	if roomNumber == "" {
		return nil, invalidf("room_number is required")
	}
	if issue == "" {
		return nil, invalidf("issue is required")
	}
	if _, err := s.rooms.GetByNumber(ctx, roomNumber); err != nil {
		return nil, err
	}
	m := &model.MaintenanceRequest{RoomNumber: roomNumber, Issue: issue}
	if err := s.requests.Create(ctx, m); err != nil {
		return nil, err
	}
	ev := queue.MaintenanceOpenedEvent{
		RequestID:  m.ID,
		RoomNumber: m.RoomNumber,
		Issue:      m.Issue,
		CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339),
	}
	if err := s.events.PublishMaintenanceOpened(ctx, ev); err != nil {
		s.log.Warn("publish maintenance.opened failed", zap.Uint64("request_id", m.ID), zap.Error(err))
	}
	return m, nil
}

// List returns requests newest first.  status, when set, must be Open or
// Resolved.
func (s *MaintenanceService) List(ctx context.Context, status string) ([]model.MaintenanceRequest, error) {
	switch status {
	case "", model.MaintenanceOpen, model.MaintenanceResolved:
	default:
		return nil, invalidf("status must be %s or %s", model.MaintenanceOpen, model.MaintenanceResolved)
	}
	return s.requests.List(ctx, status)
}

// Resolve closes a request.  Resolving twice is harmless.
func (s *MaintenanceService) Resolve(ctx context.Context, id uint64) (*model.MaintenanceRequest, error) {
	return s.requests.Resolve(ctx, id)
}
