package payroll

import (
	"time"

	"anchor-backoffice/app/models"
)

// Inputs is everything one reconciliation run needs, batch-fetched up front.
// Reconcile never touches the database; it is a pure function of these
// collections and produces identical output for identical inputs.
type Inputs struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	// Location is the single civil timezone shift wall-clock times are
	// anchored to, used for the closest-match heuristic and HH:MM rendering.
	Location *time.Location

	Shifts      []models.Shift
	Sessions    []models.ClockSession
	Employees   []models.Employee
	PaySettings []models.PaySettings
	Overrides   []models.RateOverride
	Bands       []models.AgeBand
	BandRates   []models.AgeBandRate
	// Notes maps shift id to the latest reconciliation note for that shift.
	Notes map[string]string
}

// Row is one reconciled unit of work: a shift with its matched session, an
// unmatched shift, or an orphan session. Nullable fields stay nil rather
// than becoming zero; a nil TotalPay means "could not compute", not free
// labour.
type Row struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	Date         string   `json:"date"`
	Department   string   `json:"department,omitempty"`
	PlannedHours *float64 `json:"planned_hours"`
	ActualHours  *float64 `json:"actual_hours"`
	HourlyRate   *float64 `json:"hourly_rate"`
	RateSource   string   `json:"rate_source,omitempty"`
	TotalPay     *float64 `json:"total_pay"`
	Flags        string   `json:"flags,omitempty"`
	PlannedStart string   `json:"planned_start,omitempty"`
	PlannedEnd   string   `json:"planned_end,omitempty"`
	ActualStart  string   `json:"actual_start,omitempty"`
	ActualEnd    string   `json:"actual_end,omitempty"`
	ShiftID      *string  `json:"shift_id"`
	SessionID    *string  `json:"session_id"`
	Note         string   `json:"note,omitempty"`
}

// EmployeeSummary aggregates one employee's rows for the month. Nil hours
// and pay count as zero in the sums. HourlyRate is the first-seen row's
// rate, a known simplification for employees paid at more than one rate
// within a month.
type EmployeeSummary struct {
	EmployeeID   string   `json:"employee_id"`
	EmployeeName string   `json:"employee_name"`
	PlannedHours float64  `json:"planned_hours"`
	ActualHours  float64  `json:"actual_hours"`
	TotalPay     float64  `json:"total_pay"`
	HourlyRate   *float64 `json:"hourly_rate"`
}

// Result is the full output of one reconciliation run.
type Result struct {
	Rows      []Row             `json:"rows"`
	Summaries []EmployeeSummary `json:"employee_summaries"`
}

// Flag values, in the deterministic order they are emitted.
const (
	FlagSick             = "sick"
	FlagUnscheduled      = "unscheduled"
	FlagUnmatchedSession = "unmatched_session"
	FlagAutoClose        = "auto_close"
	FlagVariance         = "variance"
)

// varianceThresholdHours is the planned-vs-actual gap above which a row is
// flagged. The boundary itself does not flag.
const varianceThresholdHours = 0.5

type sourceKind int

const (
	shiftMatched sourceKind = iota
	shiftUnmatched
	sessionOrphan
)

// rowSource is the tagged variant a row is assembled from: a shift with its
// session, a shift alone, or a session alone. orphanFlag is set only for
// sessionOrphan.
type rowSource struct {
	kind       sourceKind
	shift      *models.Shift
	session    *models.ClockSession
	orphanFlag string
}
