package model

import "time"

// Tenant is a person leasing space in a room.  Tenants are never
// physically removed: "remove" flips IsActive to false and a later
// reactivation sets it back together with a new join date and room.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – display name.
//  Contact       – free form phone number or e-mail.
//  RoomNumber    – room the tenant is assigned to (rooms.room_number).
//  DepositAmount – security deposit held, in whole currency units.
//  JoinDate      – date the tenant moved in; nil when never recorded.
//  IsActive      – false once the tenant has been soft deleted.
type Tenant struct {
	ID            uint64     `json:"id"`             // tenants.id
	Name          string     `json:"name"`           // tenants.name
	Contact       string     `json:"contact"`        // tenants.contact
	RoomNumber    string     `json:"room_number"`    // tenants.room_number
	DepositAmount int64      `json:"deposit_amount"` // tenants.deposit_amount
	JoinDate      *time.Time `json:"join_date"`      // tenants.join_date (nullable)
	IsActive      bool       `json:"is_active"`      // tenants.is_active
}
