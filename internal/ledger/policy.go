package ledger

import "time"

// FirstDueOffset is the number of months between the join month and the
// first month rent is owed.  Rent is first owed for the month following
// the join month, so a tenant joining on 2024-01-15 first owes 2024-02.
// Set to 0 to bill the join month itself.
const FirstDueOffset = 1

// DueDayOfMonth is the fixed calendar day rent falls due in each month.
// It does not follow the tenant's join day.
const DueDayOfMonth = 5

// FirstDueMonth returns the first billing period for a tenant who joined
// on joinDate.
func FirstDueMonth(joinDate time.Time) Month {
	return MonthOf(joinDate).AddMonths(FirstDueOffset)
}

// DueDate returns the date rent for m falls due, at midnight UTC.
func DueDate(m Month) time.Time {
	return time.Date(m.Year, m.Month, DueDayOfMonth, 0, 0, 0, 0, time.UTC)
}

// DaysOverdue counts whole calendar days from due to today.  It is zero
// unless today is after due.  Business days are not considered.
func DaysOverdue(due, today time.Time) int {
	if !today.After(due) {
		return 0
	}
	return int(today.Sub(due).Hours() / 24)
}
