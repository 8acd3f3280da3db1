package payroll

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"anchor-backoffice/app/models"
)

// Reconcile merges scheduled shifts and actual clock sessions for one pay
// period into one row per unit of work, with the applicable hourly rate,
// computed pay and anomaly flags, plus per-employee summaries.
//
// Matching is 1:1 per run: each session is consumed by at most one row and
// each shift pairs with at most one session. Sessions left over after the
// shift pass are emitted as orphan rows so worked time is never dropped,
// even when the scheduling data is inconsistent.
func Reconcile(in Inputs) Result {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	rates := NewRateTables(in.PaySettings, in.Overrides, in.Bands, in.BandRates, in.Employees)

	names := make(map[string]string, len(in.Employees))
	departments := make(map[string]string, len(in.Employees))
	for _, e := range in.Employees {
		names[e.ID] = e.FullName()
		departments[e.ID] = e.Department
	}

	shifts := make([]models.Shift, len(in.Shifts))
	copy(shifts, in.Shifts)
	sort.Slice(shifts, func(i, j int) bool {
		a, b := shifts[i], shifts[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		if a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return a.ID < b.ID
	})

	sessions := make([]models.ClockSession, len(in.Sessions))
	copy(sessions, in.Sessions)
	sort.Slice(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		if !a.WorkDate.Equal(b.WorkDate) {
			return a.WorkDate.Before(b.WorkDate)
		}
		if a.EmployeeID != b.EmployeeID {
			return a.EmployeeID < b.EmployeeID
		}
		if !a.ClockIn.Equal(b.ClockIn) {
			return a.ClockIn.Before(b.ClockIn)
		}
		return a.ID < b.ID
	})

	// Partition sessions by explicit shift link and by employee+date for
	// the unlinked fallback. Lists keep the sorted (clock-in, id) order, so
	// tie-breaks are deterministic regardless of fetch order.
	linked := make(map[string][]*models.ClockSession)
	unlinked := make(map[string][]*models.ClockSession)
	for i := range sessions {
		s := &sessions[i]
		if s.LinkedShiftID != nil && *s.LinkedShiftID != "" {
			linked[*s.LinkedShiftID] = append(linked[*s.LinkedShiftID], s)
		} else {
			k := dayKey(s.EmployeeID, s.WorkDate)
			unlinked[k] = append(unlinked[k], s)
		}
	}

	// Used-session tracking is local to this invocation; concurrent runs
	// never share it.
	used := make(map[string]bool)

	var sources []rowSource

	for i := range shifts {
		sh := &shifts[i]
		if sh.Status == models.ShiftCancelled {
			continue
		}
		if rates.Salaried(sh.EmployeeID) {
			continue
		}

		sess := claimLinked(linked[sh.ID], sh, used)
		if sess == nil {
			sess = claimClosest(unlinked[dayKey(sh.EmployeeID, sh.Date)], sh, loc, used)
		}
		if sess != nil {
			used[sess.ID] = true
			sources = append(sources, rowSource{kind: shiftMatched, shift: sh, session: sess})
		} else {
			sources = append(sources, rowSource{kind: shiftUnmatched, shift: sh})
		}
	}

	// Orphan pass: anything still unconsumed is emitted on its own so no
	// worked time disappears.
	for i := range sessions {
		s := &sessions[i]
		if used[s.ID] || rates.Salaried(s.EmployeeID) {
			continue
		}
		flag := FlagUnscheduled
		if s.LinkedShiftID != nil && *s.LinkedShiftID != "" {
			flag = FlagUnmatchedSession
		}
		sources = append(sources, rowSource{kind: sessionOrphan, session: s, orphanFlag: flag})
	}

	rows := make([]Row, 0, len(sources))
	for _, src := range sources {
		rows = append(rows, buildRow(src, rates, names, departments, in.Notes, loc))
	}

	return Result{Rows: rows, Summaries: summarize(rows, names)}
}

// buildRow assembles one output row from a tagged source. All "not found"
// conditions become nil fields and flags, never errors.
func buildRow(src rowSource, rates *RateTables, names, departments map[string]string,
	notes map[string]string, loc *time.Location) Row {

	var row Row
	var flags []string

	switch src.kind {
	case shiftMatched, shiftUnmatched:
		sh := src.shift
		row.EmployeeID = sh.EmployeeID
		row.Date = sh.Date.Format("2006-01-02")
		row.Department = sh.Department
		row.ShiftID = strPtr(sh.ID)
		row.PlannedStart = sh.StartTime
		row.PlannedEnd = sh.EndTime
		row.PlannedHours = plannedHours(sh)
		if notes != nil {
			row.Note = notes[sh.ID]
		}
		if sh.Status == models.ShiftSick {
			flags = append(flags, FlagSick)
		}
		if src.kind == shiftMatched {
			attachSession(&row, src.session, loc)
			if src.session.AutoClosed {
				flags = append(flags, FlagAutoClose)
			}
		}
		if row.PlannedHours != nil && row.ActualHours != nil &&
			varianceExceeded(*row.PlannedHours, *row.ActualHours) {
			flags = append(flags, FlagVariance)
		}

	case sessionOrphan:
		s := src.session
		row.EmployeeID = s.EmployeeID
		row.Date = s.WorkDate.Format("2006-01-02")
		row.Department = departments[s.EmployeeID]
		attachSession(&row, s, loc)
		flags = append(flags, src.orphanFlag)
		if s.AutoClosed {
			flags = append(flags, FlagAutoClose)
		}
	}

	row.EmployeeName = names[row.EmployeeID]
	if r := rates.Resolve(row.EmployeeID, rowDate(src)); r != nil {
		row.HourlyRate = &r.Rate
		row.RateSource = string(r.Source)
	}
	if row.ActualHours != nil && row.HourlyRate != nil {
		pay := round2(*row.ActualHours * *row.HourlyRate)
		row.TotalPay = &pay
	}
	row.Flags = strings.Join(flags, ",")
	return row
}

// attachSession fills the session-derived fields. An open session (no
// clock-out) yields nil actual hours, not zero or a partial figure.
func attachSession(row *Row, s *models.ClockSession, loc *time.Location) {
	row.SessionID = strPtr(s.ID)
	row.ActualStart = s.ClockIn.In(loc).Format("15:04")
	if s.ClockOut != nil {
		row.ActualEnd = s.ClockOut.In(loc).Format("15:04")
		h := round2(s.ClockOut.Sub(s.ClockIn).Hours())
		row.ActualHours = &h
	}
}

// plannedHours applies the duration formula: end - start - unpaid break,
// with the overnight flag meaning the end time wraps past midnight.
func plannedHours(sh *models.Shift) *float64 {
	start, okS := parseClock(sh.StartTime)
	end, okE := parseClock(sh.EndTime)
	if !okS || !okE {
		return nil
	}
	if sh.IsOvernight {
		end += 24 * 60
	}
	minutes := end - start - sh.BreakMinutes
	if minutes < 0 {
		minutes = 0
	}
	h := round2(float64(minutes) / 60)
	return &h
}

// claimLinked returns the first unconsumed session explicitly linked to the
// shift, or nil. A link pointing at another employee's shift is inconsistent
// data; the session is left for the orphan pass rather than paid under the
// wrong employee.
func claimLinked(candidates []*models.ClockSession, sh *models.Shift, used map[string]bool) *models.ClockSession {
	for _, s := range candidates {
		if s.EmployeeID != sh.EmployeeID {
			continue
		}
		if !used[s.ID] {
			return s
		}
	}
	return nil
}

// claimClosest picks the unconsumed same-employee-same-date session whose
// clock-in is nearest the shift's scheduled start. Ties go to the first
// candidate scanned; consumed candidates are skipped, not removed.
func claimClosest(candidates []*models.ClockSession, sh *models.Shift,
	loc *time.Location, used map[string]bool) *models.ClockSession {

	startMin, ok := parseClock(sh.StartTime)
	if !ok {
		return nil
	}
	sched := time.Date(sh.Date.Year(), sh.Date.Month(), sh.Date.Day(),
		startMin/60, startMin%60, 0, 0, loc)

	var best *models.ClockSession
	var bestDiff time.Duration
	for _, s := range candidates {
		if used[s.ID] {
			continue
		}
		diff := s.ClockIn.Sub(sched)
		if diff < 0 {
			diff = -diff
		}
		if best == nil || diff < bestDiff {
			best = s
			bestDiff = diff
		}
	}
	return best
}

// summarize aggregates rows per employee in first-appearance order. Nil
// hours and pay sum as zero; the summary rate is the first-seen row's rate.
func summarize(rows []Row, names map[string]string) []EmployeeSummary {
	index := make(map[string]int)
	var out []EmployeeSummary

	for _, r := range rows {
		i, ok := index[r.EmployeeID]
		if !ok {
			i = len(out)
			index[r.EmployeeID] = i
			out = append(out, EmployeeSummary{
				EmployeeID:   r.EmployeeID,
				EmployeeName: names[r.EmployeeID],
				HourlyRate:   r.HourlyRate,
			})
		}
		s := &out[i]
		if r.PlannedHours != nil {
			s.PlannedHours = round2(s.PlannedHours + *r.PlannedHours)
		}
		if r.ActualHours != nil {
			s.ActualHours = round2(s.ActualHours + *r.ActualHours)
		}
		if r.TotalPay != nil {
			s.TotalPay = round2(s.TotalPay + *r.TotalPay)
		}
	}
	return out
}

func rowDate(src rowSource) time.Time {
	if src.shift != nil {
		return src.shift.Date
	}
	return src.session.WorkDate
}

// parseClock parses a "15:04" wall-clock string into minutes since midnight.
func parseClock(v string) (int, bool) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// varianceExceeded reports whether the planned/actual gap is strictly over
// the threshold; a gap of exactly 0.5 hours does not flag.
func varianceExceeded(planned, actual float64) bool {
	return math.Abs(planned-actual) > varianceThresholdHours
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func strPtr(s string) *string { return &s }
