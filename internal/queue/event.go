// Package queue defines the domain events exchanged over RabbitMQ, the
// publisher used by the services and the background consumer that
// writes them to the activity log.
package queue

// Queue names.  Each event type goes to its own durable queue through the
// default exchange.
const (
	RentPaidQueue          = "rent.paid"
	MaintenanceOpenedQueue = "maintenance.opened"
)

// RentPaidEvent is published after a month has been marked paid.  It
// carries enough detail for consumers to log or notify without querying
// the database.
type RentPaidEvent struct {
	PaymentID  uint64 `json:"payment_id"`
	TenantID   uint64 `json:"tenant_id"`
	TenantName string `json:"tenant_name"`
	RoomNumber string `json:"room_number"`
	Month      string `json:"month"`
	Amount     int64  `json:"amount"`
	PaidDate   string `json:"paid_date"`
}

// MaintenanceOpenedEvent is published when a maintenance request is filed.
type MaintenanceOpenedEvent struct {
	RequestID  uint64 `json:"request_id"`
	RoomNumber string `json:"room_number"`
	Issue      string `json:"issue"`
	CreatedAt  string `json:"created_at"`
}
