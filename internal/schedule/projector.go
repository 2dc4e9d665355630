// Package schedule projects recurring weekly availability onto concrete
// calendar dates inside the booking horizon.
package schedule

import (
	"fmt"
	"time"

	"github.com/mentorify/mentorify-api/internal/models"
)

// DefaultHorizonDays is the booking window offered to mentees.
const DefaultHorizonDays = 30

// Clock abstracts wall time so date projection is testable.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// fixedClock is used in tests and by WithNow.
type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// At returns a Clock frozen at t.
func At(t time.Time) Clock { return fixedClock{t: t} }

// Projector turns weekday names into bookable calendar dates.
type Projector struct {
	clock Clock
}

// NewProjector creates a Projector using the given clock.
func NewProjector(clock Clock) *Projector {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Projector{clock: clock}
}

// Today returns the current date truncated to midnight in the clock's location.
func (p *Projector) Today() time.Time {
	now := p.clock.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// ProjectDates returns every date from today (inclusive) through
// today+horizonDays whose weekday name matches weekday, in ascending order.
// Stepping uses AddDate so a DST transition inside the horizon cannot skip
// or duplicate a weekday.
func (p *Projector) ProjectDates(weekday string, horizonDays int) ([]time.Time, error) {
	if !models.IsWeekdayName(weekday) {
		return nil, fmt.Errorf("unknown weekday %q", weekday)
	}
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	var dates []time.Time
	d := p.Today()
	end := d.AddDate(0, 0, horizonDays)
	for !d.After(end) {
		if d.Weekday().String() == weekday {
			dates = append(dates, d)
		}
		d = d.AddDate(0, 0, 1)
	}
	return dates, nil
}

// InHorizon reports whether date falls inside [today, today+horizonDays].
func (p *Projector) InHorizon(date time.Time, horizonDays int) bool {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}
	today := p.Today()
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, today.Location())
	return !day.Before(today) && !day.After(today.AddDate(0, 0, horizonDays))
}
