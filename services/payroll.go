package services

import (
	"time"

	"github.com/demiirawo/cc-academy/models"
	"github.com/google/uuid"
)

// Salary-to-monthly conversion factors (spec'd product behaviour: weekly
// and bi-weekly use flat week-per-month averages, not calendar maths).
const (
	weeksPerMonth       = 4.33
	fortnightsPerMonth  = 2.17
	workingDaysPerMonth = 20
	holidayOvertimeRate = 1.5
)

const dateLayout = "2006-01-02"

// Holiday is one public-holiday entry from the lookup service
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
}

// HolidayShift records a worked public holiday that earned the premium
type HolidayShift struct {
	Date        time.Time `json:"date"`
	HolidayName string    `json:"holiday_name"`
}

// PayPreview is the estimated pay breakdown for the reference month.
// All figures are unrounded; formatting happens at the presentation edge.
type PayPreview struct {
	Month                string         `json:"month"`
	Currency             string         `json:"currency"`
	MonthlyBaseSalary    float64        `json:"monthly_base_salary"`
	DailyRate            float64        `json:"daily_rate"`
	Bonuses              float64        `json:"bonuses"`
	Deductions           float64        `json:"deductions"`
	HolidayOvertimeDays  int            `json:"holiday_overtime_days"`
	HolidayOvertimeBonus float64        `json:"holiday_overtime_bonus"`
	HolidayShifts        []HolidayShift `json:"holiday_shifts"`
	TotalPay             float64        `json:"total_pay"`
}

// PayPreviewInput carries the already-fetched rows the calculator works on.
// Today fixes the reference month, so callers (and tests) control time.
type PayPreviewInput struct {
	Profile    *models.StaffProfile
	Patterns   []models.RecurringShiftPattern
	Exceptions []models.ShiftPatternException
	Schedules  []models.StaffSchedule
	Holidays   []Holiday
	PayRecords []models.PayRecord
	Today      time.Time
}

// BuildPayPreview computes the pay estimate for the month containing
// in.Today. It returns nil when no preview is available (no profile or no
// usable base salary); absent patterns, exceptions or holidays degrade to
// zero holiday-overtime days rather than erroring.
//
// Recurrence intervals are evaluated as weeks-since-start offsets: biweekly
// fires on even offsets and "monthly" on offsets divisible by 4. Monthly
// cadence therefore drifts against calendar months; that approximation is
// long-standing product behaviour and is kept on purpose.
func BuildPayPreview(in PayPreviewInput) *PayPreview {
	if in.Profile == nil || in.Profile.BaseSalary == nil || *in.Profile.BaseSalary <= 0 {
		return nil
	}

	monthlyBase := monthlySalary(*in.Profile.BaseSalary, in.Profile.PayFrequency)
	dailyRate := monthlyBase / workingDaysPerMonth

	year, month := in.Today.Year(), in.Today.Month()
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := monthStart.AddDate(0, 1, -1).Day()

	// Exceptions suppress a single pattern's occurrence on a single date
	suppressed := make(map[uuid.UUID]map[string]bool)
	for _, ex := range in.Exceptions {
		key := ex.ExceptionDate.Format(dateLayout)
		if suppressed[ex.PatternID] == nil {
			suppressed[ex.PatternID] = make(map[string]bool)
		}
		suppressed[ex.PatternID][key] = true
	}

	// Concrete schedule entries take precedence and are never suppressed
	worked := make(map[string]bool)
	for _, s := range in.Schedules {
		if s.StartDatetime.Year() == year && s.StartDatetime.Month() == month {
			worked[s.StartDatetime.Format(dateLayout)] = true
		}
	}

	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		key := date.Format(dateLayout)
		if worked[key] {
			continue
		}
		for _, p := range in.Patterns {
			if patternOccursOn(&p, date) && !suppressed[p.ID][key] {
				worked[key] = true
				break
			}
		}
	}

	holidayNames := make(map[string]string)
	for _, h := range in.Holidays {
		name := h.Name
		if name == "" {
			name = "Public Holiday"
		}
		holidayNames[h.Date.Format(dateLayout)] = name
	}

	var shifts []HolidayShift
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		key := date.Format(dateLayout)
		if !worked[key] {
			continue
		}
		if name, ok := holidayNames[key]; ok {
			shifts = append(shifts, HolidayShift{Date: date, HolidayName: name})
		}
	}

	overtimeBonus := float64(len(shifts)) * dailyRate * holidayOvertimeRate

	var bonuses, deductions float64
	for _, r := range in.PayRecords {
		if r.PayDate.Year() != year || r.PayDate.Month() != month {
			continue
		}
		switch r.RecordType {
		case models.PayRecordBonus:
			bonuses += r.Amount
		case models.PayRecordDeduction:
			deductions += r.Amount
		}
	}

	return &PayPreview{
		Month:                monthStart.Format("2006-01"),
		Currency:             in.Profile.BaseCurrency,
		MonthlyBaseSalary:    monthlyBase,
		DailyRate:            dailyRate,
		Bonuses:              bonuses,
		Deductions:           deductions,
		HolidayOvertimeDays:  len(shifts),
		HolidayOvertimeBonus: overtimeBonus,
		HolidayShifts:        shifts,
		TotalPay:             monthlyBase + bonuses + overtimeBonus - deductions,
	}
}

// monthlySalary normalises a base salary figure to a monthly amount
func monthlySalary(base float64, frequency string) float64 {
	switch frequency {
	case models.PayFrequencyAnnually:
		return base / 12
	case models.PayFrequencyWeekly:
		return base * weeksPerMonth
	case models.PayFrequencyBiWeekly:
		return base * fortnightsPerMonth
	default:
		return base
	}
}

// patternOccursOn reports whether the pattern generates a virtual shift on
// the given date, before exception filtering.
func patternOccursOn(p *models.RecurringShiftPattern, date time.Time) bool {
	if !p.WeekdaySet()[date.Weekday()] {
		return false
	}
	if p.StartDate != nil && date.Before(dateOnly(*p.StartDate)) {
		return false
	}
	if p.EndDate != nil && date.After(dateOnly(*p.EndDate)) {
		return false
	}
	return intervalMatches(p, date)
}

func intervalMatches(p *models.RecurringShiftPattern, date time.Time) bool {
	if p.RecurrenceInterval == models.RecurrenceWeekly || p.StartDate == nil {
		// Patterns without a start date have no offset anchor; they
		// behave as weekly.
		return true
	}

	weeks := int(date.Sub(dateOnly(*p.StartDate)).Hours() / 24 / 7)
	switch p.RecurrenceInterval {
	case models.RecurrenceBiweekly:
		return weeks%2 == 0
	case models.RecurrenceMonthly:
		return weeks%4 == 0
	default:
		return true
	}
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
