package payroll

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anchor-backoffice/app/models"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func timePtr(t time.Time) *time.Time { return &t }

func TestResolveSalariedReturnsNil(t *testing.T) {
	rt := NewRateTables(
		[]models.PaySettings{{EmployeeID: "emp-1", PayType: models.PaySalaried}},
		[]models.RateOverride{{ID: "o1", EmployeeID: "emp-1", HourlyRate: 15, EffectiveFrom: d(2020, 1, 1)}},
		nil, nil, nil,
	)
	assert.Nil(t, rt.Resolve("emp-1", d(2024, 5, 1)))
}

func TestResolveOverrideBeatsAgeBand(t *testing.T) {
	rt := NewRateTables(
		nil,
		[]models.RateOverride{{ID: "o1", EmployeeID: "emp-1", HourlyRate: 14.25, EffectiveFrom: d(2023, 1, 1)}},
		[]models.AgeBand{{ID: "b1", Name: "adult", MinAge: 18, IsActive: true}},
		[]models.AgeBandRate{{ID: "r1", BandID: "b1", HourlyRate: 11.50, EffectiveFrom: d(2023, 1, 1)}},
		[]models.Employee{{ID: "emp-1", DateOfBirth: timePtr(d(2000, 6, 1))}},
	)

	got := rt.Resolve("emp-1", d(2024, 3, 15))
	require.NotNil(t, got)
	assert.Equal(t, 14.25, got.Rate)
	assert.Equal(t, RateSourceOverride, got.Source)
}

func TestResolveTemporalOverrideSelection(t *testing.T) {
	rt := NewRateTables(
		nil,
		[]models.RateOverride{
			{ID: "o1", EmployeeID: "emp-1", HourlyRate: 10, EffectiveFrom: d(2024, 1, 1)},
			{ID: "o2", EmployeeID: "emp-1", HourlyRate: 12, EffectiveFrom: d(2024, 6, 1)},
		},
		nil, nil, nil,
	)

	early := rt.Resolve("emp-1", d(2024, 3, 15))
	require.NotNil(t, early)
	assert.Equal(t, 10.0, early.Rate)
	assert.Equal(t, RateSourceOverride, early.Source)

	late := rt.Resolve("emp-1", d(2024, 7, 1))
	require.NotNil(t, late)
	assert.Equal(t, 12.0, late.Rate)

	// Effective on the shift date itself counts.
	onDay := rt.Resolve("emp-1", d(2024, 6, 1))
	require.NotNil(t, onDay)
	assert.Equal(t, 12.0, onDay.Rate)

	// Before any override exists there is no rate at all.
	assert.Nil(t, rt.Resolve("emp-1", d(2023, 12, 31)))
}

func TestResolveNoDOBMeansNoBandRate(t *testing.T) {
	rt := NewRateTables(
		nil, nil,
		[]models.AgeBand{{ID: "b1", Name: "adult", MinAge: 18, IsActive: true}},
		[]models.AgeBandRate{{ID: "r1", BandID: "b1", HourlyRate: 11.50, EffectiveFrom: d(2023, 1, 1)}},
		[]models.Employee{{ID: "emp-1"}}, // no date of birth
	)
	assert.Nil(t, rt.Resolve("emp-1", d(2024, 5, 1)))
}

func TestResolveAgeBandSelection(t *testing.T) {
	bands := []models.AgeBand{
		{ID: "b-young", Name: "under 18", MinAge: 0, MaxAge: intPtr(17), IsActive: true},
		{ID: "b-youth", Name: "18-20", MinAge: 18, MaxAge: intPtr(20), IsActive: true},
		{ID: "b-adult", Name: "21+", MinAge: 21, IsActive: true},
	}
	bandRates := []models.AgeBandRate{
		{ID: "r1", BandID: "b-young", HourlyRate: 6.40, EffectiveFrom: d(2023, 4, 1)},
		{ID: "r2", BandID: "b-youth", HourlyRate: 8.60, EffectiveFrom: d(2023, 4, 1)},
		{ID: "r3", BandID: "b-adult", HourlyRate: 11.44, EffectiveFrom: d(2023, 4, 1)},
		{ID: "r4", BandID: "b-adult", HourlyRate: 11.50, EffectiveFrom: d(2024, 4, 1)},
	}
	employees := []models.Employee{
		{ID: "emp-17", DateOfBirth: timePtr(d(2007, 1, 10))},
		{ID: "emp-20", DateOfBirth: timePtr(d(2004, 1, 10))},
		{ID: "emp-22", DateOfBirth: timePtr(d(2002, 1, 10))},
	}
	rt := NewRateTables(nil, nil, bands, bandRates, employees)

	day := d(2024, 5, 1)

	got := rt.Resolve("emp-17", day)
	require.NotNil(t, got)
	assert.Equal(t, 6.40, got.Rate)
	assert.Equal(t, RateSourceAgeBand, got.Source)

	// max_age is inclusive.
	got = rt.Resolve("emp-20", day)
	require.NotNil(t, got)
	assert.Equal(t, 8.60, got.Rate)

	// Open-ended band, most recent effective rate.
	got = rt.Resolve("emp-22", day)
	require.NotNil(t, got)
	assert.Equal(t, 11.50, got.Rate)

	// Same employee before the 2024 uprating.
	got = rt.Resolve("emp-22", d(2024, 3, 31))
	require.NotNil(t, got)
	assert.Equal(t, 11.44, got.Rate)
}

func TestResolveMatchedBandWithoutRateDoesNotFallThrough(t *testing.T) {
	// Two bands both match age 22 (bad configuration). The first in
	// min_age/id order wins, and if it has no effective rate the result is
	// nil rather than the other band's rate.
	bands := []models.AgeBand{
		{ID: "b-a", Name: "a", MinAge: 18, IsActive: true},
		{ID: "b-b", Name: "b", MinAge: 18, IsActive: true},
	}
	bandRates := []models.AgeBandRate{
		{ID: "r1", BandID: "b-b", HourlyRate: 9.99, EffectiveFrom: d(2020, 1, 1)},
	}
	rt := NewRateTables(nil, nil, bands, bandRates,
		[]models.Employee{{ID: "emp-1", DateOfBirth: timePtr(d(2000, 1, 1))}})

	assert.Nil(t, rt.Resolve("emp-1", d(2024, 5, 1)))
}

func TestResolveInactiveBandIgnored(t *testing.T) {
	bands := []models.AgeBand{
		{ID: "b-old", Name: "retired config", MinAge: 18, IsActive: false},
		{ID: "b-new", Name: "adult", MinAge: 18, IsActive: true},
	}
	bandRates := []models.AgeBandRate{
		{ID: "r1", BandID: "b-old", HourlyRate: 7.00, EffectiveFrom: d(2020, 1, 1)},
		{ID: "r2", BandID: "b-new", HourlyRate: 11.00, EffectiveFrom: d(2020, 1, 1)},
	}
	rt := NewRateTables(nil, nil, bands, bandRates,
		[]models.Employee{{ID: "emp-1", DateOfBirth: timePtr(d(1990, 1, 1))}})

	got := rt.Resolve("emp-1", d(2024, 5, 1))
	require.NotNil(t, got)
	assert.Equal(t, 11.00, got.Rate)
}

func TestAgeOn(t *testing.T) {
	dob := d(2002, 3, 15)
	assert.Equal(t, 21, ageOn(dob, d(2024, 3, 14)))
	assert.Equal(t, 22, ageOn(dob, d(2024, 3, 15))) // birthday itself counts
	assert.Equal(t, 22, ageOn(dob, d(2024, 12, 31)))
}
