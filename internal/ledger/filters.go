package ledger

import "github.com/JoyalGJ/PG-Management/internal/model"

// Filters narrows a bulk ledger computation.  The zero value selects
// every active tenant up to the current month.  Filters is immutable:
// every With method returns a modified copy and leaves the receiver as
// it was, so a caller can derive several views from one base value.
type Filters struct {
	tenantID        uint64
	roomNumber      string
	month           Month
	cutoff          Month
	includeInactive bool
}

// WithTenant restricts the ledger to a single tenant id.
func (f Filters) WithTenant(id uint64) Filters { f.tenantID = id; return f }

// WithRoom restricts the ledger to tenants assigned to roomNumber.
func (f Filters) WithRoom(roomNumber string) Filters { f.roomNumber = roomNumber; return f }

// WithMonth keeps only rows for exactly m.
func (f Filters) WithMonth(m Month) Filters { f.month = m; return f }

// WithCutoff sets the last month to bill.
func (f Filters) WithCutoff(m Month) Filters { f.cutoff = m; return f }

// WithInactive includes soft deleted tenants.
func (f Filters) WithInactive(include bool) Filters { f.includeInactive = include; return f }

// Reset returns the zero Filters.
func (f Filters) Reset() Filters { return Filters{} }

// TenantID returns the tenant filter, zero when unset.
func (f Filters) TenantID() uint64 { return f.tenantID }

// RoomNumber returns the room filter, empty when unset.
func (f Filters) RoomNumber() string { return f.roomNumber }

// Month returns the exact month filter, zero when unset.
func (f Filters) Month() Month { return f.month }

// IncludeInactive reports whether soft deleted tenants are billed.
func (f Filters) IncludeInactive() bool { return f.includeInactive }

// Cutoff returns the last month to bill.  When no cutoff was set but an
// exact month was, the month doubles as the cutoff so that future months
// can be previewed.  A zero result means "current month".
func (f Filters) Cutoff() Month {
	if f.cutoff.IsZero() && !f.month.IsZero() {
		return f.month
	}
	return f.cutoff
}

func (f Filters) matchTenant(t model.Tenant) bool {
	if !f.includeInactive && !t.IsActive {
		return false
	}
	if f.tenantID != 0 && t.ID != f.tenantID {
		return false
	}
	if f.roomNumber != "" && t.RoomNumber != f.roomNumber {
		return false
	}
	return true
}
