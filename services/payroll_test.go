package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demiirawo/cc-academy/models"
)

// June 2025: Mondays fall on the 2nd, 9th, 16th, 23rd and 30th.
var june2025 = time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func profile(salary float64, frequency string) *models.StaffProfile {
	return &models.StaffProfile{
		BaseSalary:   &salary,
		BaseCurrency: "GBP",
		PayFrequency: frequency,
	}
}

func mondayPattern(interval string, start *time.Time) models.RecurringShiftPattern {
	p := models.RecurringShiftPattern{
		DaysOfWeek:         "1",
		StartTime:          "09:00",
		EndTime:            "17:00",
		StartDate:          start,
		RecurrenceInterval: interval,
	}
	p.ID = uuid.New()
	return p
}

func TestMonthlySalaryConversions(t *testing.T) {
	cases := []struct {
		frequency string
		base      float64
		want      float64
	}{
		{models.PayFrequencyMonthly, 2400, 2400},
		{models.PayFrequencyAnnually, 36000, 3000},
		{models.PayFrequencyWeekly, 500, 500 * 4.33},
		{models.PayFrequencyBiWeekly, 1000, 1000 * 2.17},
	}

	for _, tc := range cases {
		t.Run(tc.frequency, func(t *testing.T) {
			preview := BuildPayPreview(PayPreviewInput{
				Profile: profile(tc.base, tc.frequency),
				Today:   june2025,
			})
			require.NotNil(t, preview)
			assert.InDelta(t, tc.want, preview.MonthlyBaseSalary, 1e-9)
			assert.InDelta(t, tc.want/20, preview.DailyRate, 1e-9)
		})
	}
}

func TestNoPreviewWithoutBaseSalary(t *testing.T) {
	assert.Nil(t, BuildPayPreview(PayPreviewInput{Today: june2025}))

	noSalary := &models.StaffProfile{PayFrequency: models.PayFrequencyMonthly}
	assert.Nil(t, BuildPayPreview(PayPreviewInput{Profile: noSalary, Today: june2025}))

	zero := 0.0
	noSalary.BaseSalary = &zero
	assert.Nil(t, BuildPayPreview(PayPreviewInput{Profile: noSalary, Today: june2025}))
}

func TestHolidayOvertimeWorkedExample(t *testing.T) {
	// 2400 monthly, every Monday, one holiday on a Monday:
	// daily rate 120, premium 1.5x => 180 bonus, 2580 total.
	preview := BuildPayPreview(PayPreviewInput{
		Profile:  profile(2400, models.PayFrequencyMonthly),
		Patterns: []models.RecurringShiftPattern{mondayPattern(models.RecurrenceWeekly, nil)},
		Holidays: []Holiday{{Date: date(2025, time.June, 9), Name: "Spring Holiday"}},
		Today:    june2025,
	})
	require.NotNil(t, preview)

	assert.Equal(t, 1, preview.HolidayOvertimeDays)
	assert.InDelta(t, 180, preview.HolidayOvertimeBonus, 1e-9)
	assert.InDelta(t, 2580, preview.TotalPay, 1e-9)
	require.Len(t, preview.HolidayShifts, 1)
	assert.Equal(t, "Spring Holiday", preview.HolidayShifts[0].HolidayName)
	assert.Equal(t, date(2025, time.June, 9), preview.HolidayShifts[0].Date)
}

func TestHolidayCountedOnceForScheduleAndPattern(t *testing.T) {
	// Concrete shift and a pattern occurrence on the same holiday Monday
	// must contribute a single overtime day.
	preview := BuildPayPreview(PayPreviewInput{
		Profile:  profile(2400, models.PayFrequencyMonthly),
		Patterns: []models.RecurringShiftPattern{mondayPattern(models.RecurrenceWeekly, nil)},
		Schedules: []models.StaffSchedule{{
			StartDatetime: time.Date(2025, time.June, 9, 9, 0, 0, 0, time.UTC),
			EndDatetime:   time.Date(2025, time.June, 9, 17, 0, 0, 0, time.UTC),
		}},
		Holidays: []Holiday{{Date: date(2025, time.June, 9), Name: "Spring Holiday"}},
		Today:    june2025,
	})
	require.NotNil(t, preview)

	assert.Equal(t, 1, preview.HolidayOvertimeDays)
}

func TestExceptionSuppressesOnlyItsOwnPattern(t *testing.T) {
	a := mondayPattern(models.RecurrenceWeekly, nil)
	b := mondayPattern(models.RecurrenceWeekly, nil)

	input := PayPreviewInput{
		Profile:  profile(2400, models.PayFrequencyMonthly),
		Patterns: []models.RecurringShiftPattern{a, b},
		Exceptions: []models.ShiftPatternException{{
			PatternID:     a.ID,
			ExceptionDate: date(2025, time.June, 9),
		}},
		Holidays: []Holiday{{Date: date(2025, time.June, 9), Name: "Spring Holiday"}},
		Today:    june2025,
	}

	// Pattern b still covers the date.
	preview := BuildPayPreview(input)
	require.NotNil(t, preview)
	assert.Equal(t, 1, preview.HolidayOvertimeDays)

	// Suppressing both patterns removes the day entirely.
	input.Exceptions = append(input.Exceptions, models.ShiftPatternException{
		PatternID:     b.ID,
		ExceptionDate: date(2025, time.June, 9),
	})
	preview = BuildPayPreview(input)
	require.NotNil(t, preview)
	assert.Equal(t, 0, preview.HolidayOvertimeDays)
}

func TestExceptionDoesNotSuppressConcreteSchedule(t *testing.T) {
	p := mondayPattern(models.RecurrenceWeekly, nil)

	preview := BuildPayPreview(PayPreviewInput{
		Profile:  profile(2400, models.PayFrequencyMonthly),
		Patterns: []models.RecurringShiftPattern{p},
		Exceptions: []models.ShiftPatternException{{
			PatternID:     p.ID,
			ExceptionDate: date(2025, time.June, 9),
		}},
		Schedules: []models.StaffSchedule{{
			StartDatetime: time.Date(2025, time.June, 9, 9, 0, 0, 0, time.UTC),
			EndDatetime:   time.Date(2025, time.June, 9, 17, 0, 0, 0, time.UTC),
		}},
		Holidays: []Holiday{{Date: date(2025, time.June, 9), Name: "Spring Holiday"}},
		Today:    june2025,
	})
	require.NotNil(t, preview)

	assert.Equal(t, 1, preview.HolidayOvertimeDays)
}

func TestBiweeklyIntervalUsesWeekOffsetFromStart(t *testing.T) {
	start := date(2025, time.June, 2)
	p := mondayPattern(models.RecurrenceBiweekly, &start)

	preview := BuildPayPreview(PayPreviewInput{
		Profile:  profile(2400, models.PayFrequencyMonthly),
		Patterns: []models.RecurringShiftPattern{p},
		Holidays: []Holiday{
			{Date: date(2025, time.June, 9), Name: "Off-week Monday"},
			{Date: date(2025, time.June, 16), Name: "On-week Monday"},
		},
		Today: june2025,
	})
	require.NotNil(t, preview)

	// Week offsets from 2 June: the 9th is offset 1 (skipped), the 16th
	// offset 2 (worked).
	require.Len(t, preview.HolidayShifts, 1)
	assert.Equal(t, date(2025, time.June, 16), preview.HolidayShifts[0].Date)
}

func TestMonthlyIntervalIsFourWeekApproximation(t *testing.T) {
	start := date(2025, time.June, 2)
	p := mondayPattern(models.RecurrenceMonthly, &start)

	preview := BuildPayPreview(PayPreviewInput{
		Profile:  profile(2400, models.PayFrequencyMonthly),
		Patterns: []models.RecurringShiftPattern{p},
		Holidays: []Holiday{
			{Date: date(2025, time.June, 2), Name: "Offset 0"},
			{Date: date(2025, time.June, 16), Name: "Offset 2"},
			{Date: date(2025, time.June, 30), Name: "Offset 4"},
		},
		Today: june2025,
	})
	require.NotNil(t, preview)

	require.Len(t, preview.HolidayShifts, 2)
	assert.Equal(t, date(2025, time.June, 2), preview.HolidayShifts[0].Date)
	assert.Equal(t, date(2025, time.June, 30), preview.HolidayShifts[1].Date)
}

func TestPatternWindowBounds(t *testing.T) {
	start := date(2025, time.June, 10)
	end := date(2025, time.June, 20)
	p := mondayPattern(models.RecurrenceWeekly, &start)
	p.EndDate = &end

	preview := BuildPayPreview(PayPreviewInput{
		Profile:  profile(2400, models.PayFrequencyMonthly),
		Patterns: []models.RecurringShiftPattern{p},
		Holidays: []Holiday{
			{Date: date(2025, time.June, 9), Name: "Before window"},
			{Date: date(2025, time.June, 16), Name: "Inside window"},
			{Date: date(2025, time.June, 23), Name: "After window"},
		},
		Today: june2025,
	})
	require.NotNil(t, preview)

	require.Len(t, preview.HolidayShifts, 1)
	assert.Equal(t, date(2025, time.June, 16), preview.HolidayShifts[0].Date)
}

func TestUnnamedHolidayGetsDefaultName(t *testing.T) {
	preview := BuildPayPreview(PayPreviewInput{
		Profile:  profile(2400, models.PayFrequencyMonthly),
		Patterns: []models.RecurringShiftPattern{mondayPattern(models.RecurrenceWeekly, nil)},
		Holidays: []Holiday{{Date: date(2025, time.June, 9)}},
		Today:    june2025,
	})
	require.NotNil(t, preview)

	require.Len(t, preview.HolidayShifts, 1)
	assert.Equal(t, "Public Holiday", preview.HolidayShifts[0].HolidayName)
}

func TestTotalPayIdentity(t *testing.T) {
	preview := BuildPayPreview(PayPreviewInput{
		Profile:  profile(2400, models.PayFrequencyMonthly),
		Patterns: []models.RecurringShiftPattern{mondayPattern(models.RecurrenceWeekly, nil)},
		Holidays: []Holiday{{Date: date(2025, time.June, 9), Name: "Spring Holiday"}},
		PayRecords: []models.PayRecord{
			{RecordType: models.PayRecordBonus, Amount: 150.25, PayDate: date(2025, time.June, 15)},
			{RecordType: models.PayRecordBonus, Amount: 49.75, PayDate: date(2025, time.June, 28)},
			{RecordType: models.PayRecordDeduction, Amount: 77.10, PayDate: date(2025, time.June, 20)},
			// Other record types and other months never enter the sums.
			{RecordType: models.PayRecordExpense, Amount: 500, PayDate: date(2025, time.June, 20)},
			{RecordType: models.PayRecordOvertime, Amount: 90, PayDate: date(2025, time.June, 20)},
			{RecordType: models.PayRecordBonus, Amount: 1000, PayDate: date(2025, time.May, 31)},
		},
		Today: june2025,
	})
	require.NotNil(t, preview)

	assert.InDelta(t, 200, preview.Bonuses, 1e-9)
	assert.InDelta(t, 77.10, preview.Deductions, 1e-9)
	assert.Equal(t,
		preview.MonthlyBaseSalary+preview.Bonuses+preview.HolidayOvertimeBonus-preview.Deductions,
		preview.TotalPay)
}

func TestNoDataDegradesToZeroOvertime(t *testing.T) {
	preview := BuildPayPreview(PayPreviewInput{
		Profile: profile(2400, models.PayFrequencyMonthly),
		Today:   june2025,
	})
	require.NotNil(t, preview)

	assert.Equal(t, 0, preview.HolidayOvertimeDays)
	assert.Zero(t, preview.HolidayOvertimeBonus)
	assert.InDelta(t, 2400, preview.TotalPay, 1e-9)
	assert.Empty(t, preview.HolidayShifts)
}
