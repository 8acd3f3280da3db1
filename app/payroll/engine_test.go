package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anchor-backoffice/app/models"
)

func ts(y int, m time.Month, day, h, min int) time.Time {
	return time.Date(y, m, day, h, min, 0, 0, time.UTC)
}

func strP(s string) *string { return &s }

func baseInputs() Inputs {
	return Inputs{
		PeriodStart: d(2024, 4, 25),
		PeriodEnd:   d(2024, 5, 24),
		Location:    time.UTC,
		Employees: []models.Employee{
			{ID: "emp-1", FirstName: "Holly", LastName: "Ward", Department: "bar",
				DateOfBirth: timePtr(d(2002, 3, 1))},
			{ID: "emp-2", FirstName: "Sam", LastName: "Price", Department: "kitchen",
				DateOfBirth: timePtr(d(1995, 7, 20))},
		},
		Bands: []models.AgeBand{
			{ID: "b-adult", Name: "18+", MinAge: 18, IsActive: true},
		},
		BandRates: []models.AgeBandRate{
			{ID: "r-adult", BandID: "b-adult", HourlyRate: 11.50, EffectiveFrom: d(2023, 4, 1)},
		},
	}
}

func TestReconcileScenarioAgeBandVariance(t *testing.T) {
	in := baseInputs()
	in.Shifts = []models.Shift{{
		ID: "sh-1", EmployeeID: "emp-1", Date: d(2024, 5, 10),
		StartTime: "09:00", EndTime: "17:00", BreakMinutes: 30,
		Department: "bar", Status: models.ShiftScheduled,
	}}
	out := ts(2024, 5, 10, 17, 5)
	in.Sessions = []models.ClockSession{{
		ID: "cs-1", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
		ClockIn: ts(2024, 5, 10, 8, 58), ClockOut: &out,
	}}

	res := Reconcile(in)
	require.Len(t, res.Rows, 1)
	row := res.Rows[0]

	require.NotNil(t, row.PlannedHours)
	assert.Equal(t, 7.5, *row.PlannedHours)
	require.NotNil(t, row.ActualHours)
	assert.Equal(t, 8.12, *row.ActualHours) // 08:58 to 17:05
	require.NotNil(t, row.HourlyRate)
	assert.Equal(t, 11.50, *row.HourlyRate)
	assert.Equal(t, string(RateSourceAgeBand), row.RateSource)
	require.NotNil(t, row.TotalPay)
	assert.Equal(t, 93.38, *row.TotalPay)
	assert.Equal(t, FlagVariance, row.Flags)
	assert.Equal(t, "Holly Ward", row.EmployeeName)
	assert.Equal(t, "08:58", row.ActualStart)
	assert.Equal(t, "17:05", row.ActualEnd)
	require.NotNil(t, row.SessionID)
	assert.Equal(t, "cs-1", *row.SessionID)
}

func TestReconcileLinkedSessionPreferredOverCloser(t *testing.T) {
	in := baseInputs()
	in.Shifts = []models.Shift{{
		ID: "sh-1", EmployeeID: "emp-1", Date: d(2024, 5, 10),
		StartTime: "09:00", EndTime: "17:00", Status: models.ShiftScheduled,
	}}
	linkedOut := ts(2024, 5, 10, 21, 0)
	in.Sessions = []models.ClockSession{
		// Unlinked and bang on time.
		{ID: "cs-near", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
			ClockIn: ts(2024, 5, 10, 9, 0)},
		// Explicitly linked but hours later.
		{ID: "cs-linked", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
			ClockIn: ts(2024, 5, 10, 13, 0), ClockOut: &linkedOut,
			LinkedShiftID: strP("sh-1")},
	}

	res := Reconcile(in)
	require.Len(t, res.Rows, 2)

	require.NotNil(t, res.Rows[0].SessionID)
	assert.Equal(t, "cs-linked", *res.Rows[0].SessionID)
	require.NotNil(t, res.Rows[1].SessionID)
	assert.Equal(t, "cs-near", *res.Rows[1].SessionID)
	assert.Contains(t, res.Rows[1].Flags, FlagUnscheduled)
}

func TestReconcileClosestClockInWins(t *testing.T) {
	in := baseInputs()
	in.Shifts = []models.Shift{{
		ID: "sh-1", EmployeeID: "emp-1", Date: d(2024, 5, 10),
		StartTime: "09:00", EndTime: "17:00", Status: models.ShiftScheduled,
	}}
	in.Sessions = []models.ClockSession{
		{ID: "cs-late", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
			ClockIn: ts(2024, 5, 10, 11, 30)},
		{ID: "cs-near", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
			ClockIn: ts(2024, 5, 10, 8, 55)},
	}

	res := Reconcile(in)
	require.Len(t, res.Rows, 2)
	require.NotNil(t, res.Rows[0].SessionID)
	assert.Equal(t, "cs-near", *res.Rows[0].SessionID)
}

func TestReconcileNoSessionDoubleCounted(t *testing.T) {
	in := baseInputs()
	in.Shifts = []models.Shift{
		{ID: "sh-am", EmployeeID: "emp-1", Date: d(2024, 5, 10),
			StartTime: "09:00", EndTime: "13:00", Status: models.ShiftScheduled},
		{ID: "sh-pm", EmployeeID: "emp-1", Date: d(2024, 5, 10),
			StartTime: "17:00", EndTime: "23:00", Status: models.ShiftScheduled},
	}
	out := ts(2024, 5, 10, 13, 2)
	in.Sessions = []models.ClockSession{{
		ID: "cs-1", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
		ClockIn: ts(2024, 5, 10, 8, 57), ClockOut: &out,
	}}

	res := Reconcile(in)
	require.Len(t, res.Rows, 2)

	seen := map[string]int{}
	for _, r := range res.Rows {
		if r.SessionID != nil {
			seen[*r.SessionID]++
		}
	}
	assert.Equal(t, map[string]int{"cs-1": 1}, seen)

	// The morning shift got the session, the evening shift stands alone.
	assert.NotNil(t, res.Rows[0].SessionID)
	assert.Nil(t, res.Rows[1].SessionID)
	assert.Nil(t, res.Rows[1].ActualHours)
	assert.Nil(t, res.Rows[1].TotalPay)
}

func TestReconcileEverySessionAppearsExactlyOnce(t *testing.T) {
	in := baseInputs()
	in.Shifts = []models.Shift{
		{ID: "sh-1", EmployeeID: "emp-1", Date: d(2024, 5, 10),
			StartTime: "09:00", EndTime: "17:00", Status: models.ShiftScheduled},
		{ID: "sh-2", EmployeeID: "emp-2", Date: d(2024, 5, 10),
			StartTime: "12:00", EndTime: "22:00", Status: models.ShiftScheduled},
	}
	out1 := ts(2024, 5, 10, 17, 1)
	out2 := ts(2024, 5, 10, 22, 4)
	out3 := ts(2024, 5, 11, 15, 0)
	in.Sessions = []models.ClockSession{
		{ID: "cs-1", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
			ClockIn: ts(2024, 5, 10, 9, 2), ClockOut: &out1},
		{ID: "cs-2", EmployeeID: "emp-2", WorkDate: d(2024, 5, 10),
			ClockIn: ts(2024, 5, 10, 11, 58), ClockOut: &out2, LinkedShiftID: strP("sh-2")},
		{ID: "cs-3", EmployeeID: "emp-1", WorkDate: d(2024, 5, 11),
			ClockIn: ts(2024, 5, 11, 10, 0), ClockOut: &out3},
	}

	res := Reconcile(in)

	sessionRows := map[string]int{}
	shiftRows := map[string]int{}
	for _, r := range res.Rows {
		if r.SessionID != nil {
			sessionRows[*r.SessionID]++
		}
		if r.ShiftID != nil {
			shiftRows[*r.ShiftID]++
		}
	}
	assert.Len(t, sessionRows, len(in.Sessions), "every session must appear")
	for id, n := range sessionRows {
		assert.Equal(t, 1, n, "session %s appeared %d times", id, n)
	}
	for id, n := range shiftRows {
		assert.Equal(t, 1, n, "shift %s appeared %d times", id, n)
	}
}

func TestReconcileUnmatchedSessionFlag(t *testing.T) {
	in := baseInputs()
	in.Shifts = []models.Shift{{
		ID: "sh-cancelled", EmployeeID: "emp-1", Date: d(2024, 5, 10),
		StartTime: "09:00", EndTime: "17:00", Status: models.ShiftCancelled,
	}}
	out := ts(2024, 5, 10, 17, 0)
	in.Sessions = []models.ClockSession{{
		ID: "cs-1", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
		ClockIn: ts(2024, 5, 10, 9, 0), ClockOut: &out,
		LinkedShiftID: strP("sh-cancelled"),
	}}

	res := Reconcile(in)
	require.Len(t, res.Rows, 1, "cancelled shift produces no shift row, session survives")
	row := res.Rows[0]
	assert.Nil(t, row.ShiftID)
	assert.Nil(t, row.PlannedHours)
	assert.Contains(t, row.Flags, FlagUnmatchedSession)
	require.NotNil(t, row.ActualHours)
	assert.Equal(t, 8.0, *row.ActualHours)
}

func TestReconcileLinkToOtherEmployeesShiftNotClaimed(t *testing.T) {
	in := baseInputs()
	in.Shifts = []models.Shift{{
		ID: "sh-emp2", EmployeeID: "emp-2", Date: d(2024, 5, 10),
		StartTime: "09:00", EndTime: "17:00", Department: "kitchen",
		Status: models.ShiftScheduled,
	}}
	out := ts(2024, 5, 10, 17, 0)
	in.Sessions = []models.ClockSession{{
		ID: "cs-emp1", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
		ClockIn: ts(2024, 5, 10, 9, 0), ClockOut: &out,
		LinkedShiftID: strP("sh-emp2"),
	}}

	res := Reconcile(in)
	require.Len(t, res.Rows, 2, "shift stays unmatched, session becomes an orphan")

	var shiftRow, orphanRow *Row
	for i := range res.Rows {
		if res.Rows[i].ShiftID != nil {
			shiftRow = &res.Rows[i]
		} else {
			orphanRow = &res.Rows[i]
		}
	}

	require.NotNil(t, shiftRow)
	assert.Equal(t, "emp-2", shiftRow.EmployeeID)
	assert.Nil(t, shiftRow.SessionID, "another employee's session is never attached")
	assert.Nil(t, shiftRow.ActualHours)

	require.NotNil(t, orphanRow)
	assert.Equal(t, "emp-1", orphanRow.EmployeeID)
	assert.Contains(t, orphanRow.Flags, FlagUnmatchedSession)
	require.NotNil(t, orphanRow.ActualHours)
	assert.Equal(t, 8.0, *orphanRow.ActualHours)
	require.NotNil(t, orphanRow.TotalPay)
	assert.Equal(t, 92.0, *orphanRow.TotalPay, "paid at emp-1's own rate")
}

func TestReconcileSalariedExcludedEntirely(t *testing.T) {
	in := baseInputs()
	in.PaySettings = []models.PaySettings{
		{EmployeeID: "emp-1", PayType: models.PaySalaried},
	}
	in.Shifts = []models.Shift{{
		ID: "sh-1", EmployeeID: "emp-1", Date: d(2024, 5, 10),
		StartTime: "09:00", EndTime: "17:00", Status: models.ShiftScheduled,
	}}
	in.Sessions = []models.ClockSession{{
		ID: "cs-1", EmployeeID: "emp-1", WorkDate: d(2024, 5, 11),
		ClockIn: ts(2024, 5, 11, 9, 0),
	}}

	res := Reconcile(in)
	assert.Empty(t, res.Rows)
	assert.Empty(t, res.Summaries)
}

func TestReconcileOpenSessionYieldsNilActual(t *testing.T) {
	in := baseInputs()
	in.Shifts = []models.Shift{{
		ID: "sh-1", EmployeeID: "emp-1", Date: d(2024, 5, 10),
		StartTime: "09:00", EndTime: "17:00", Status: models.ShiftScheduled,
	}}
	in.Sessions = []models.ClockSession{{
		ID: "cs-open", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
		ClockIn: ts(2024, 5, 10, 9, 1),
	}}

	res := Reconcile(in)
	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	require.NotNil(t, row.SessionID)
	assert.Nil(t, row.ActualHours, "open session must not produce partial hours")
	assert.Nil(t, row.TotalPay)
	assert.Equal(t, "09:01", row.ActualStart)
	assert.Equal(t, "", row.ActualEnd)
	assert.NotContains(t, row.Flags, FlagVariance)
}

func TestReconcileVarianceBoundary(t *testing.T) {
	run := func(clockOut time.Time) Row {
		in := baseInputs()
		in.Shifts = []models.Shift{{
			ID: "sh-1", EmployeeID: "emp-1", Date: d(2024, 5, 10),
			StartTime: "08:00", EndTime: "16:00", Status: models.ShiftScheduled,
		}}
		in.Sessions = []models.ClockSession{{
			ID: "cs-1", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
			ClockIn: ts(2024, 5, 10, 8, 0), ClockOut: &clockOut,
		}}
		res := Reconcile(in)
		require.Len(t, res.Rows, 1)
		return res.Rows[0]
	}

	// Planned 8.0, actual 7.5: gap of exactly 0.5 does not flag.
	row := run(ts(2024, 5, 10, 15, 30))
	assert.NotContains(t, row.Flags, FlagVariance)

	// Planned 8.0, actual 7.4: gap 0.6 flags.
	row = run(ts(2024, 5, 10, 15, 24))
	assert.Contains(t, row.Flags, FlagVariance)

	// Planned 8.0, actual 7.6: gap 0.4 does not flag.
	row = run(ts(2024, 5, 10, 15, 36))
	assert.NotContains(t, row.Flags, FlagVariance)
}

func TestVarianceExceededThreshold(t *testing.T) {
	assert.False(t, varianceExceeded(8.0, 7.5))
	assert.True(t, varianceExceeded(8.0, 7.499999))
	assert.True(t, varianceExceeded(8.0, 8.500001))
	assert.False(t, varianceExceeded(8.0, 8.5))
}

func TestReconcileFlagOrderAndSick(t *testing.T) {
	in := baseInputs()
	in.Shifts = []models.Shift{{
		ID: "sh-1", EmployeeID: "emp-1", Date: d(2024, 5, 10),
		StartTime: "09:00", EndTime: "17:00", Status: models.ShiftSick,
	}}
	out := ts(2024, 5, 10, 11, 0)
	in.Sessions = []models.ClockSession{{
		ID: "cs-1", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
		ClockIn: ts(2024, 5, 10, 9, 0), ClockOut: &out, AutoClosed: true,
	}}

	res := Reconcile(in)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "sick,auto_close,variance", res.Rows[0].Flags)
}

func TestReconcileOvernightPlannedHours(t *testing.T) {
	in := baseInputs()
	in.Shifts = []models.Shift{{
		ID: "sh-1", EmployeeID: "emp-1", Date: d(2024, 5, 10),
		StartTime: "22:00", EndTime: "02:00", IsOvernight: true,
		Status: models.ShiftScheduled,
	}}

	res := Reconcile(in)
	require.Len(t, res.Rows, 1)
	require.NotNil(t, res.Rows[0].PlannedHours)
	assert.Equal(t, 4.0, *res.Rows[0].PlannedHours)
}

func TestReconcileNotesAttached(t *testing.T) {
	in := baseInputs()
	in.Shifts = []models.Shift{{
		ID: "sh-1", EmployeeID: "emp-1", Date: d(2024, 5, 10),
		StartTime: "09:00", EndTime: "17:00", Status: models.ShiftScheduled,
	}}
	in.Notes = map[string]string{"sh-1": "agreed late start with manager"}

	res := Reconcile(in)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "agreed late start with manager", res.Rows[0].Note)
}

func TestReconcileSummaries(t *testing.T) {
	in := baseInputs()
	in.Overrides = []models.RateOverride{
		{ID: "o1", EmployeeID: "emp-2", HourlyRate: 13, EffectiveFrom: d(2024, 1, 1)},
	}
	in.Shifts = []models.Shift{
		{ID: "sh-1", EmployeeID: "emp-2", Date: d(2024, 5, 10),
			StartTime: "09:00", EndTime: "17:00", Status: models.ShiftScheduled},
		{ID: "sh-2", EmployeeID: "emp-2", Date: d(2024, 5, 11),
			StartTime: "09:00", EndTime: "17:00", Status: models.ShiftScheduled},
	}
	out := ts(2024, 5, 10, 17, 0)
	in.Sessions = []models.ClockSession{{
		ID: "cs-1", EmployeeID: "emp-2", WorkDate: d(2024, 5, 10),
		ClockIn: ts(2024, 5, 10, 9, 0), ClockOut: &out,
	}}

	res := Reconcile(in)
	require.Len(t, res.Summaries, 1)
	s := res.Summaries[0]
	assert.Equal(t, "emp-2", s.EmployeeID)
	assert.Equal(t, "Sam Price", s.EmployeeName)
	assert.Equal(t, 16.0, s.PlannedHours)
	assert.Equal(t, 8.0, s.ActualHours, "second shift's nil actual sums as zero")
	assert.Equal(t, 104.0, s.TotalPay)
	require.NotNil(t, s.HourlyRate)
	assert.Equal(t, 13.0, *s.HourlyRate)
}

func TestReconcileDeterministicAcrossInputOrder(t *testing.T) {
	in := baseInputs()
	out1 := ts(2024, 5, 10, 17, 0)
	out2 := ts(2024, 5, 11, 23, 0)
	in.Shifts = []models.Shift{
		{ID: "sh-1", EmployeeID: "emp-1", Date: d(2024, 5, 10),
			StartTime: "09:00", EndTime: "17:00", Status: models.ShiftScheduled},
		{ID: "sh-2", EmployeeID: "emp-2", Date: d(2024, 5, 11),
			StartTime: "17:00", EndTime: "23:00", Status: models.ShiftScheduled},
		{ID: "sh-3", EmployeeID: "emp-1", Date: d(2024, 5, 11),
			StartTime: "09:00", EndTime: "13:00", Status: models.ShiftScheduled},
	}
	in.Sessions = []models.ClockSession{
		{ID: "cs-1", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
			ClockIn: ts(2024, 5, 10, 9, 3), ClockOut: &out1},
		{ID: "cs-2", EmployeeID: "emp-2", WorkDate: d(2024, 5, 11),
			ClockIn: ts(2024, 5, 11, 16, 55), ClockOut: &out2},
		{ID: "cs-3", EmployeeID: "emp-1", WorkDate: d(2024, 5, 12),
			ClockIn: ts(2024, 5, 12, 12, 0)},
	}

	first := Reconcile(in)
	second := Reconcile(in)
	assert.Equal(t, first, second, "re-running with unchanged inputs must reproduce identical output")

	// Reverse every input slice; output must not change.
	reversed := in
	reversed.Shifts = []models.Shift{in.Shifts[2], in.Shifts[1], in.Shifts[0]}
	reversed.Sessions = []models.ClockSession{in.Sessions[2], in.Sessions[1], in.Sessions[0]}
	reversed.Employees = []models.Employee{in.Employees[1], in.Employees[0]}
	third := Reconcile(reversed)
	assert.Equal(t, first, third)
}

func TestReconcileOrphanOpenSession(t *testing.T) {
	in := baseInputs()
	in.Sessions = []models.ClockSession{{
		ID: "cs-open", EmployeeID: "emp-1", WorkDate: d(2024, 5, 10),
		ClockIn: ts(2024, 5, 10, 18, 0), IsUnscheduled: true,
	}}

	res := Reconcile(in)
	require.Len(t, res.Rows, 1)
	row := res.Rows[0]
	assert.Nil(t, row.ShiftID)
	assert.Nil(t, row.PlannedHours)
	assert.Nil(t, row.ActualHours)
	assert.Nil(t, row.TotalPay)
	assert.Equal(t, FlagUnscheduled, row.Flags)
	assert.Equal(t, "bar", row.Department, "orphan rows fall back to the employee's department")
}
