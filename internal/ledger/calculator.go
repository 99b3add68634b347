// Package ledger derives the rent owed by tenants from their join date,
// the room they occupy and the payments recorded so far.  Everything in
// this package is pure: the only implicit input is the current time,
// which comes from an injectable Clock.
package ledger

import (
	"time"

	"github.com/samber/lo"

	"github.com/JoyalGJ/PG-Management/internal/model"
)

// Clock returns the current time.
type Clock func() time.Time

// RoomCatalog looks rooms up by room number.
type RoomCatalog map[string]model.Room

// NewRoomCatalog indexes rooms by room number.
func NewRoomCatalog(rooms []model.Room) RoomCatalog {
	return lo.KeyBy(rooms, func(r model.Room) string { return r.RoomNumber })
}

type paymentKey struct {
	tenantID uint64
	month    string
}

// PaymentIndex looks payments up by tenant and month.
type PaymentIndex map[paymentKey]model.Payment

// IndexPayments indexes payments by (tenant, month).  When the same
// pair appears more than once the first record wins.
func IndexPayments(payments []model.Payment) PaymentIndex {
	idx := make(PaymentIndex, len(payments))
	for _, p := range payments {
		k := paymentKey{tenantID: p.TenantID, month: p.Month}
		if _, dup := idx[k]; !dup {
			idx[k] = p
		}
	}
	return idx
}

// Lookup returns the payment for tenantID in m, if any.
func (idx PaymentIndex) Lookup(tenantID uint64, m Month) (model.Payment, bool) {
	p, ok := idx[paymentKey{tenantID: tenantID, month: m.String()}]
	return p, ok
}

// Calculator computes billing rows.
type Calculator struct {
	now Clock
}

// NewCalculator returns a Calculator reading the time from now, or from
// time.Now when now is nil.
func NewCalculator(now Clock) *Calculator {
	if now == nil {
		now = time.Now
	}
	return &Calculator{now: now}
}

// Today returns midnight UTC of the clock's current calendar day.
func (c *Calculator) Today() time.Time {
	t := c.now()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// CurrentMonth returns the month of Today.
func (c *Calculator) CurrentMonth() Month { return MonthOf(c.Today()) }

// ComputeDueRows lists the months tenant owes rent for, from the first
// due month through cutoff, in chronological order.  A zero cutoff means
// the current month.  A tenant without a join date, or whose room is not
// in rooms, yields no rows.
//
// The due amount always uses the room's current rent and capacity, not
// the values in force during the billed month.
func (c *Calculator) ComputeDueRows(tenant model.Tenant, rooms RoomCatalog, payments PaymentIndex, cutoff Month) []model.BillingRow {
	rows := []model.BillingRow{}
	if tenant.JoinDate == nil || tenant.JoinDate.IsZero() {
		return rows
	}
	room, ok := rooms[tenant.RoomNumber]
	if !ok {
		return rows
	}
	today := c.Today()
	if cutoff.IsZero() {
		cutoff = MonthOf(today)
	}
	for _, m := range Range(FirstDueMonth(*tenant.JoinDate), cutoff) {
		due := DueDate(m)
		row := model.BillingRow{
			TenantID:   tenant.ID,
			TenantName: tenant.Name,
			RoomNumber: tenant.RoomNumber,
			Month:      m.String(),
			DueAmount:  room.PerPersonRent(),
			DueDate:    due,
			Status:     model.BillingPending,
		}
		if p, paid := payments.Lookup(tenant.ID, m); paid {
			row.Payment = &p
			row.Status = model.BillingPaid
		} else if days := DaysOverdue(due, today); days > 0 {
			row.DaysOverdue = days
			row.Status = model.BillingOverdue
		}
		rows = append(rows, row)
	}
	return rows
}

// ComputeLedger applies ComputeDueRows to every tenant selected by f and
// concatenates the rows in tenant order, then month order.  Rows are not
// re-sorted by due date.
func (c *Calculator) ComputeLedger(tenants []model.Tenant, rooms []model.Room, payments []model.Payment, f Filters) []model.BillingRow {
	catalog := NewRoomCatalog(rooms)
	idx := IndexPayments(payments)
	month := f.Month()

	out := []model.BillingRow{}
	for _, t := range lo.Filter(tenants, func(t model.Tenant, _ int) bool { return f.matchTenant(t) }) {
		rows := c.ComputeDueRows(t, catalog, idx, f.Cutoff())
		if !month.IsZero() {
			key := month.String()
			rows = lo.Filter(rows, func(r model.BillingRow, _ int) bool { return r.Month == key })
		}
		out = append(out, rows...)
	}
	return out
}
