package model

import "time"

// Maintenance request statuses.
const (
	MaintenanceOpen     = "Open"
	MaintenanceResolved = "Resolved"
)

// MaintenanceRequest is an issue reported against a room.
//
// Fields:
//  ID         – primary key identifier.
//  RoomNumber – room the issue was reported for.
//  Issue      – free text description.
//  Status     – Open or Resolved.
//  CreatedAt  – creation timestamp.
type MaintenanceRequest struct {
	ID         uint64    `json:"id"`          // maintenance_requests.id
	RoomNumber string    `json:"room_number"` // maintenance_requests.room_number
	Issue      string    `json:"issue"`       // maintenance_requests.issue
	Status     string    `json:"status"`      // maintenance_requests.status
	CreatedAt  time.Time `json:"created_at"`  // maintenance_requests.created_at
}
