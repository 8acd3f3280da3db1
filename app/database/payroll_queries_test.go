package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestDefaultPayrollPeriod(t *testing.T) {
	start, end := DefaultPayrollPeriod(2024, 5)
	assert.Equal(t, d(2024, 4, 25), start)
	assert.Equal(t, d(2024, 5, 24), end)

	// January rolls back into the previous year.
	start, end = DefaultPayrollPeriod(2024, 1)
	assert.Equal(t, d(2023, 12, 25), start)
	assert.Equal(t, d(2024, 1, 24), end)
}

func TestDefaultPeriodMonth(t *testing.T) {
	cases := []struct {
		date        time.Time
		year, month int
	}{
		{d(2024, 5, 10), 2024, 5},
		{d(2024, 5, 24), 2024, 5},
		// The 25th starts the next month's run.
		{d(2024, 5, 25), 2024, 6},
		{d(2024, 12, 26), 2025, 1},
		{d(2024, 1, 10), 2024, 1},
	}
	for _, c := range cases {
		y, m := defaultPeriodMonth(c.date)
		assert.Equal(t, c.year, y, "year for %s", c.date.Format("2006-01-02"))
		assert.Equal(t, c.month, m, "month for %s", c.date.Format("2006-01-02"))
	}
}
