package payroll

import (
	"sort"
	"time"

	"anchor-backoffice/app/models"
)

// RateSource identifies which tier resolved an hourly rate.
type RateSource string

const (
	RateSourceOverride RateSource = "override"
	RateSourceAgeBand  RateSource = "age_band"
)

// ResolvedRate is the outcome of a successful rate lookup.
type ResolvedRate struct {
	Rate   float64
	Source RateSource
}

// RateTables holds the pre-sorted in-memory rate data for one reconciliation
// run, so resolving a rate per row never hits the database.
type RateTables struct {
	salaried  map[string]bool
	overrides map[string][]models.RateOverride // per employee, effective_from desc
	bands     []models.AgeBand                 // active only, min_age asc
	bandRates map[string][]models.AgeBandRate  // per band, effective_from desc
	dob       map[string]time.Time
}

// NewRateTables indexes and sorts the raw rate collections. Override and
// band-rate lists are sorted most-recent-first so resolution is a linear
// scan for the first entry at or before the shift date.
func NewRateTables(settings []models.PaySettings, overrides []models.RateOverride,
	bands []models.AgeBand, bandRates []models.AgeBandRate, employees []models.Employee) *RateTables {

	t := &RateTables{
		salaried:  make(map[string]bool),
		overrides: make(map[string][]models.RateOverride),
		bandRates: make(map[string][]models.AgeBandRate),
		dob:       make(map[string]time.Time),
	}

	for _, s := range settings {
		if s.PayType == models.PaySalaried {
			t.salaried[s.EmployeeID] = true
		}
	}

	for _, o := range overrides {
		t.overrides[o.EmployeeID] = append(t.overrides[o.EmployeeID], o)
	}
	for id := range t.overrides {
		list := t.overrides[id]
		sort.Slice(list, func(i, j int) bool {
			if !list[i].EffectiveFrom.Equal(list[j].EffectiveFrom) {
				return list[i].EffectiveFrom.After(list[j].EffectiveFrom)
			}
			return list[i].ID < list[j].ID
		})
	}

	for _, b := range bands {
		if b.IsActive && b.DeletedAt == nil {
			t.bands = append(t.bands, b)
		}
	}
	sort.Slice(t.bands, func(i, j int) bool {
		if t.bands[i].MinAge != t.bands[j].MinAge {
			return t.bands[i].MinAge < t.bands[j].MinAge
		}
		return t.bands[i].ID < t.bands[j].ID
	})

	for _, r := range bandRates {
		t.bandRates[r.BandID] = append(t.bandRates[r.BandID], r)
	}
	for id := range t.bandRates {
		list := t.bandRates[id]
		sort.Slice(list, func(i, j int) bool {
			if !list[i].EffectiveFrom.Equal(list[j].EffectiveFrom) {
				return list[i].EffectiveFrom.After(list[j].EffectiveFrom)
			}
			return list[i].ID < list[j].ID
		})
	}

	for _, e := range employees {
		if e.DateOfBirth != nil {
			t.dob[e.ID] = *e.DateOfBirth
		}
	}

	return t
}

// Salaried reports whether the employee is excluded from hourly payroll.
func (t *RateTables) Salaried(employeeID string) bool {
	return t.salaried[employeeID]
}

// Resolve returns the hourly rate applicable to an employee on a given date,
// or nil when none can be determined. Precedence: the most recent employee
// override at or before the date, then the employee's age band's most recent
// rate. Salaried employees and employees with no override and no usable
// date of birth resolve to nil — never zero.
func (t *RateTables) Resolve(employeeID string, day time.Time) *ResolvedRate {
	if t.salaried[employeeID] {
		return nil
	}
	day = dateOnly(day)

	for _, o := range t.overrides[employeeID] {
		if !dateOnly(o.EffectiveFrom).After(day) {
			return &ResolvedRate{Rate: o.HourlyRate, Source: RateSourceOverride}
		}
	}

	dob, ok := t.dob[employeeID]
	if !ok {
		return nil
	}
	age := ageOn(dob, day)

	for _, b := range t.bands {
		if age < b.MinAge {
			continue
		}
		if b.MaxAge != nil && age > *b.MaxAge {
			continue
		}
		for _, r := range t.bandRates[b.ID] {
			if !dateOnly(r.EffectiveFrom).After(day) {
				return &ResolvedRate{Rate: r.HourlyRate, Source: RateSourceAgeBand}
			}
		}
		// First matching band wins; a band with no effective rate yields
		// no rate rather than falling through to another band.
		return nil
	}
	return nil
}

// ageOn computes age in whole years on a given date: calendar year
// difference, minus one if the birthday has not yet occurred that year.
func ageOn(dob, day time.Time) int {
	dob, day = dateOnly(dob), dateOnly(day)
	age := day.Year() - dob.Year()
	anniversary := time.Date(day.Year(), dob.Month(), dob.Day(), 0, 0, 0, 0, time.UTC)
	if day.Before(anniversary) {
		age--
	}
	return age
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
