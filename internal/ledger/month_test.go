package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMonth(t *testing.T) {
	m, err := ParseMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, Month{Year: 2024, Month: time.February}, m)
	assert.Equal(t, "2024-02", m.String())

	for _, bad := range []string{"", "2024-13", "2024/02", "24-02", "2024-02-01"} {
		_, err := ParseMonth(bad)
		assert.Error(t, err, bad)
	}
}

func TestAddMonthsCrossesYears(t *testing.T) {
	m := Month{Year: 2023, Month: time.November}
	assert.Equal(t, Month{Year: 2024, Month: time.February}, m.AddMonths(3))
	assert.Equal(t, Month{Year: 2022, Month: time.December}, m.AddMonths(-11))
	assert.Equal(t, m, m.AddMonths(0))
}

func TestMonthOfDayOverflow(t *testing.T) {
	// Jan 31 plus one month must land in February, never March.
	jan31 := time.Date(2024, time.January, 31, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, Month{Year: 2024, Month: time.February}, MonthOf(jan31).AddMonths(1))
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), MonthOf(jan31).AddMonths(1).FirstDay())

	aug31 := time.Date(2023, time.August, 31, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, Month{Year: 2023, Month: time.September}, FirstDueMonth(aug31))
}

func TestMonthsBetweenMatchesRange(t *testing.T) {
	cases := []struct {
		from, to Month
	}{
		{Month{2024, time.February}, Month{2024, time.April}},
		{Month{2023, time.December}, Month{2024, time.January}},
		{Month{2020, time.January}, Month{2024, time.December}},
		{Month{2024, time.May}, Month{2024, time.May}},
		{Month{2024, time.June}, Month{2024, time.May}},
		{Month{2025, time.January}, Month{2024, time.January}},
	}
	for _, tc := range cases {
		want := (tc.to.Year*12 + int(tc.to.Month)) - (tc.from.Year*12 + int(tc.from.Month)) + 1
		if want < 0 {
			want = 0
		}
		assert.Equal(t, want, MonthsBetween(tc.from, tc.to), "%s..%s", tc.from, tc.to)
		assert.Len(t, Range(tc.from, tc.to), want, "%s..%s", tc.from, tc.to)
	}
}

func TestRangeIsChronological(t *testing.T) {
	got := Range(Month{2023, time.November}, Month{2024, time.February})
	keys := make([]string, 0, len(got))
	for _, m := range got {
		keys = append(keys, m.String())
	}
	assert.Equal(t, []string{"2023-11", "2023-12", "2024-01", "2024-02"}, keys)
}

func TestMonthTextRoundTrip(t *testing.T) {
	var m Month
	require.NoError(t, m.UnmarshalText([]byte("2025-07")))
	b, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2025-07", string(b))
	assert.Error(t, m.UnmarshalText([]byte("July")))
}

func TestDaysOverdue(t *testing.T) {
	due := DueDate(Month{2024, time.March})
	assert.Equal(t, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), due)
	assert.Equal(t, 0, DaysOverdue(due, due))
	assert.Equal(t, 0, DaysOverdue(due, due.AddDate(0, 0, -3)))
	assert.Equal(t, 1, DaysOverdue(due, due.AddDate(0, 0, 1)))
	assert.Equal(t, 27, DaysOverdue(due, time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)))
}
