package model

import "time"

// Payment records one month of rent paid by a tenant.  Rows are append
// only and (TenantID, Month) is unique.
//
// Fields:
//  ID         – primary key identifier.
//  TenantID   – tenant who paid.
//  RoomNumber – room the tenant occupied when paying.
//  Month      – billing period key in "YYYY-MM" form.
//  Amount     – amount received in whole currency units.
//  PaidDate   – when the payment was recorded.
type Payment struct {
	ID         uint64    `json:"id"`          // rent_payments.id
	TenantID   uint64    `json:"tenant_id"`   // rent_payments.tenant_id
	RoomNumber string    `json:"room_number"` // rent_payments.room_number
	Month      string    `json:"month"`       // rent_payments.month
	Amount     int64     `json:"amount"`      // rent_payments.amount
	PaidDate   time.Time `json:"paid_date"`   // rent_payments.paid_date
}
