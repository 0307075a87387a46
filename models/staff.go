package models

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pay frequencies accepted on a staff profile
const (
	PayFrequencyWeekly   = "weekly"
	PayFrequencyBiWeekly = "bi-weekly"
	PayFrequencyMonthly  = "monthly"
	PayFrequencyAnnually = "annually"
)

// Pay record types
const (
	PayRecordSalary    = "salary"
	PayRecordBonus     = "bonus"
	PayRecordOvertime  = "overtime"
	PayRecordExpense   = "expense"
	PayRecordDeduction = "deduction"
)

// Recurrence intervals for shift patterns
const (
	RecurrenceWeekly   = "weekly"
	RecurrenceBiweekly = "biweekly"
	RecurrenceMonthly  = "monthly"
)

// StaffProfile represents staff_profiles table (the HR record backing
// the pay preview). One row per user.
type StaffProfile struct {
	TenantModel
	UserID                 uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	BaseSalary             *float64  `gorm:"type:decimal(12,2);check:base_salary >= 0" json:"base_salary,omitempty"`
	BaseCurrency           string    `gorm:"type:varchar(3);not null;default:'GBP'" json:"base_currency"`
	PayFrequency           string    `gorm:"type:varchar(20);not null;default:'monthly'" json:"pay_frequency"`
	AnnualHolidayAllowance int       `gorm:"not null;default:28" json:"annual_holiday_allowance"`
	BankAccount            *string   `gorm:"type:varchar(50)" json:"bank_account,omitempty"`
	TaxReference           *string   `gorm:"type:varchar(30)" json:"tax_reference,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for StaffProfile
func (StaffProfile) TableName() string {
	return "staff_profiles"
}

// RecurringShiftPattern represents recurring_shift_patterns table.
// DaysOfWeek is a comma-separated set of weekday numbers (0=Sunday..6).
type RecurringShiftPattern struct {
	TenantModel
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	DaysOfWeek         string     `gorm:"type:varchar(20);not null" json:"days_of_week"`
	StartTime          string     `gorm:"type:time;not null" json:"start_time"`
	EndTime            string     `gorm:"type:time;not null" json:"end_time"`
	StartDate          *time.Time `gorm:"type:date" json:"start_date,omitempty"`
	EndDate            *time.Time `gorm:"type:date" json:"end_date,omitempty"`
	RecurrenceInterval string     `gorm:"type:varchar(20);not null;default:'weekly'" json:"recurrence_interval"`
	Label              *string    `gorm:"type:varchar(100)" json:"label,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for RecurringShiftPattern
func (RecurringShiftPattern) TableName() string {
	return "recurring_shift_patterns"
}

// WeekdaySet parses DaysOfWeek into a lookup set. Malformed entries are
// skipped rather than failing the whole pattern.
func (p *RecurringShiftPattern) WeekdaySet() map[time.Weekday]bool {
	set := make(map[time.Weekday]bool)
	for _, part := range strings.Split(p.DaysOfWeek, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 || n > 6 {
			continue
		}
		set[time.Weekday(n)] = true
	}
	return set
}

// ShiftPatternException represents shift_pattern_exceptions table.
// An exception suppresses one pattern's occurrence on one date; it never
// affects concrete schedule entries.
type ShiftPatternException struct {
	BaseModel
	PatternID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_pattern_date" json:"pattern_id"`
	ExceptionDate time.Time `gorm:"type:date;not null;uniqueIndex:idx_pattern_date" json:"exception_date"`
	Reason        *string   `gorm:"type:varchar(200)" json:"reason,omitempty"`

	Pattern RecurringShiftPattern `gorm:"foreignKey:PatternID" json:"pattern,omitempty"`
}

// TableName specifies the table name for ShiftPatternException
func (ShiftPatternException) TableName() string {
	return "shift_pattern_exceptions"
}

// StaffSchedule represents staff_schedules table (concrete shift
// instances: overrides or additions on top of patterns)
type StaffSchedule struct {
	TenantModel
	UserID        uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	StartDatetime time.Time `gorm:"not null" json:"start_datetime"`
	EndDatetime   time.Time `gorm:"not null" json:"end_datetime"`
	Notes         *string   `gorm:"type:text" json:"notes,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for StaffSchedule
func (StaffSchedule) TableName() string {
	return "staff_schedules"
}

// PayRecord represents pay_records table
type PayRecord struct {
	TenantModel
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	RecordType  string    `gorm:"type:varchar(20);not null" json:"record_type"`
	Amount      float64   `gorm:"type:decimal(12,2);not null" json:"amount"`
	PayDate     time.Time `gorm:"type:date;not null" json:"pay_date"`
	Description *string   `gorm:"type:varchar(300)" json:"description,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for PayRecord
func (PayRecord) TableName() string {
	return "pay_records"
}
