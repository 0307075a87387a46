package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdaySet(t *testing.T) {
	p := RecurringShiftPattern{DaysOfWeek: "1, 3,5"}

	set := p.WeekdaySet()

	assert.Len(t, set, 3)
	assert.True(t, set[time.Monday])
	assert.True(t, set[time.Wednesday])
	assert.True(t, set[time.Friday])
	assert.False(t, set[time.Sunday])
}

func TestWeekdaySetSkipsMalformedEntries(t *testing.T) {
	p := RecurringShiftPattern{DaysOfWeek: "0,monday,7,-1,6,"}

	set := p.WeekdaySet()

	assert.Len(t, set, 2)
	assert.True(t, set[time.Sunday])
	assert.True(t, set[time.Saturday])
}

func TestWeekdaySetEmpty(t *testing.T) {
	p := RecurringShiftPattern{DaysOfWeek: ""}
	assert.Empty(t, p.WeekdaySet())
}
