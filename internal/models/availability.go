package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// slotTimeLayout is the wall-clock format used across the platform ("9:00 AM").
const slotTimeLayout = "3:04 PM"

// WeekdayNames are the seven canonical weekday names accepted in availability
// payloads, in calendar order.
var WeekdayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

var weekdaySet = func() map[string]bool {
	m := make(map[string]bool, len(WeekdayNames))
	for _, d := range WeekdayNames {
		m[d] = true
	}
	return m
}()

// IsWeekdayName reports whether s is one of the seven canonical weekday names.
func IsWeekdayName(s string) bool {
	return weekdaySet[s]
}

// Slot is a single bookable time range within a weekday.
type Slot struct {
	ID        uuid.UUID `json:"id"`
	StartTime string    `json:"startTime"`
	EndTime   string    `json:"endTime"`
	IsBooked  bool      `json:"isBooked"`
}

// Key returns the slot identity used when reconciling schedule updates.
// A slot keeps its booked flag across updates only if (day,start,end) is unchanged.
func (s Slot) Key(day string) string {
	return day + "|" + s.StartTime + "|" + s.EndTime
}

// Range returns the display form of the slot ("9:00 AM - 10:00 AM").
func (s Slot) Range() string {
	return s.StartTime + " - " + s.EndTime
}

// DaySlots groups the ordered slots published for one weekday.
type DaySlots struct {
	Day   string `json:"day"`
	Slots []Slot `json:"slots"`
}

// Availability is a mentor's recurring weekly schedule.
type Availability struct {
	MentorID      uuid.UUID  `json:"mentorId"`
	AvailableDays []string   `json:"availableDays"`
	SlotsPerDay   []DaySlots `json:"slotsPerDay"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// FindSlot returns the slot published for day with the given time range,
// or nil if no such slot exists.
func (a *Availability) FindSlot(day, startTime, endTime string) *Slot {
	for i := range a.SlotsPerDay {
		if a.SlotsPerDay[i].Day != day {
			continue
		}
		for j := range a.SlotsPerDay[i].Slots {
			s := &a.SlotsPerDay[i].Slots[j]
			if s.StartTime == startTime && s.EndTime == endTime {
				return s
			}
		}
	}
	return nil
}

// HasDay reports whether day is one of the mentor's available days.
func (a *Availability) HasDay(day string) bool {
	for _, d := range a.AvailableDays {
		if d == day {
			return true
		}
	}
	return false
}

// ParseSlotTime parses a wall-clock time like "9:00 AM" and returns minutes
// since midnight.
func ParseSlotTime(s string) (int, error) {
	t, err := time.Parse(slotTimeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected format like \"9:00 AM\"", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// SetAvailabilityRequest is the payload for both set-availability and
// update-availability.
type SetAvailabilityRequest struct {
	AvailableDays []string   `json:"availableDays" binding:"required,min=1,max=7"`
	SlotsPerDay   []DaySlots `json:"slotsPerDay" binding:"required,min=1"`
}

// AvailabilityResponse wraps an availability document.
type AvailabilityResponse struct {
	Success      bool          `json:"success"`
	Availability *Availability `json:"availability,omitempty"`
	Error        string        `json:"error,omitempty"`
}

// MentorAvailabilityResponse is the mentee-facing availability payload.
type MentorAvailabilityResponse struct {
	MentorAvailability *Availability `json:"mentorAvailability"`
}

// NormalizeSchedule validates a schedule payload and returns the deduplicated
// day list in calendar order together with the per-day slots sorted by start
// time. It enforces the boundary invariants:
//   - every day is a canonical weekday name, listed at most once
//   - every available day has exactly one slotsPerDay entry with at least one slot
//   - every slot has start < end
//   - slots within a day do not overlap
func NormalizeSchedule(days []string, slotsPerDay []DaySlots) ([]string, []DaySlots, error) {
	seen := make(map[string]bool, len(days))
	for _, d := range days {
		if !IsWeekdayName(d) {
			return nil, nil, fmt.Errorf("unknown weekday %q", d)
		}
		seen[d] = true
	}

	byDay := make(map[string]DaySlots, len(slotsPerDay))
	for _, ds := range slotsPerDay {
		if !seen[ds.Day] {
			return nil, nil, fmt.Errorf("slots given for %q which is not an available day", ds.Day)
		}
		if _, dup := byDay[ds.Day]; dup {
			return nil, nil, fmt.Errorf("duplicate slot list for %q", ds.Day)
		}
		if len(ds.Slots) == 0 {
			return nil, nil, fmt.Errorf("no slots given for %q", ds.Day)
		}
		sorted, err := sortAndCheckSlots(ds.Day, ds.Slots)
		if err != nil {
			return nil, nil, err
		}
		byDay[ds.Day] = DaySlots{Day: ds.Day, Slots: sorted}
	}

	normDays := make([]string, 0, len(seen))
	normSlots := make([]DaySlots, 0, len(seen))
	for _, d := range WeekdayNames {
		if !seen[d] {
			continue
		}
		ds, ok := byDay[d]
		if !ok {
			return nil, nil, fmt.Errorf("no slots given for %q", d)
		}
		normDays = append(normDays, d)
		normSlots = append(normSlots, ds)
	}

	return normDays, normSlots, nil
}

func sortAndCheckSlots(day string, slots []Slot) ([]Slot, error) {
	type timed struct {
		slot       Slot
		start, end int
	}

	timedSlots := make([]timed, 0, len(slots))
	for _, s := range slots {
		start, err := ParseSlotTime(s.StartTime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		end, err := ParseSlotTime(s.EndTime)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		if start >= end {
			return nil, fmt.Errorf("%s: slot %s must start before it ends", day, s.Range())
		}
		timedSlots = append(timedSlots, timed{slot: s, start: start, end: end})
	}

	sort.SliceStable(timedSlots, func(i, j int) bool {
		return timedSlots[i].start < timedSlots[j].start
	})

	for i := 1; i < len(timedSlots); i++ {
		if timedSlots[i].start < timedSlots[i-1].end {
			return nil, fmt.Errorf("%s: slots %s and %s overlap",
				day, timedSlots[i-1].slot.Range(), timedSlots[i].slot.Range())
		}
	}

	sorted := make([]Slot, len(timedSlots))
	for i, ts := range timedSlots {
		sorted[i] = ts.slot
	}
	return sorted, nil
}
