package service

import (
	"context"

	"github.com/JoyalGJ/PG-Management/internal/queue"
)

// EventPublisher delivers domain events after a write has committed.
// Publish failures never undo the write.
type EventPublisher interface {
	PublishRentPaid(ctx context.Context, ev queue.RentPaidEvent) error
	PublishMaintenanceOpened(ctx context.Context, ev queue.MaintenanceOpenedEvent) error
}

// NopPublisher drops every event.  Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishRentPaid(context.Context, queue.RentPaidEvent) error { return nil }

func (NopPublisher) PublishMaintenanceOpened(context.Context, queue.MaintenanceOpenedEvent) error {
	return nil
}
