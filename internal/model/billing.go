package model

import "time"

// Billing row statuses.
const (
	BillingPaid    = "Paid"
	BillingOverdue = "Overdue"
	BillingPending = "Pending"
)

// BillingRow is one month of rent owed by one tenant.  Rows are derived
// on every request from tenants, rooms and payments and never stored.
type BillingRow struct {
	TenantID    uint64    `json:"tenant_id"`
	TenantName  string    `json:"tenant_name"`
	RoomNumber  string    `json:"room_number"`
	Month       string    `json:"month"`
	DueAmount   int64     `json:"due_amount"`
	DueDate     time.Time `json:"due_date"`
	Payment     *Payment  `json:"payment"`
	DaysOverdue int       `json:"days_overdue"`
	Status      string    `json:"status"`
}

// MonthSummary totals the billing rows of a single month.
type MonthSummary struct {
	Month       string   `json:"month"`
	PaidCount   int      `json:"paid_count"`
	DueCount    int      `json:"due_count"`
	Collected   int64    `json:"collected"`
	Outstanding int64    `json:"outstanding"`
	PaidTenants []uint64 `json:"paid_tenants"`
	DueTenants  []uint64 `json:"due_tenants"`
}
