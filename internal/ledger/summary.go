package ledger

import (
	"sort"

	"github.com/samber/lo"

	"github.com/JoyalGJ/PG-Management/internal/model"
)

// Summarize totals rows per month, oldest month first.
func Summarize(rows []model.BillingRow) []model.MonthSummary {
	groups := lo.GroupBy(rows, func(r model.BillingRow) string { return r.Month })
	months := lo.Keys(groups)
	sort.Strings(months)

	out := make([]model.MonthSummary, 0, len(months))
	for _, m := range months {
		s := model.MonthSummary{Month: m, PaidTenants: []uint64{}, DueTenants: []uint64{}}
		for _, r := range groups[m] {
			if r.Payment != nil {
				s.PaidCount++
				s.Collected += r.Payment.Amount
				s.PaidTenants = append(s.PaidTenants, r.TenantID)
				continue
			}
			s.DueCount++
			s.Outstanding += r.DueAmount
			s.DueTenants = append(s.DueTenants, r.TenantID)
		}
		out = append(out, s)
	}
	return out
}
