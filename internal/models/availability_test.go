package models_test

import (
	"testing"

	"github.com/mentorify/mentorify-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlotTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		wantErr  bool
	}{
		{
			name:     "morning time",
			input:    "9:00 AM",
			expected: 9 * 60,
		},
		{
			name:     "afternoon time",
			input:    "2:30 PM",
			expected: 14*60 + 30,
		},
		{
			name:     "midnight",
			input:    "12:00 AM",
			expected: 0,
		},
		{
			name:     "noon",
			input:    "12:00 PM",
			expected: 12 * 60,
		},
		{
			name:    "24h format rejected",
			input:   "14:30",
			wantErr: true,
		},
		{
			name:    "garbage rejected",
			input:   "soonish",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := models.ParseSlotTime(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeSchedule_SortsDaysAndSlots(t *testing.T) {
	days := []string{"Friday", "Monday"}
	slots := []models.DaySlots{
		{Day: "Friday", Slots: []models.Slot{
			{StartTime: "3:00 PM", EndTime: "4:00 PM"},
			{StartTime: "9:00 AM", EndTime: "10:00 AM"},
		}},
		{Day: "Monday", Slots: []models.Slot{
			{StartTime: "11:00 AM", EndTime: "12:00 PM"},
		}},
	}

	normDays, normSlots, err := models.NormalizeSchedule(days, slots)
	require.NoError(t, err)

	assert.Equal(t, []string{"Monday", "Friday"}, normDays)
	require.Len(t, normSlots, 2)
	assert.Equal(t, "Monday", normSlots[0].Day)
	assert.Equal(t, "Friday", normSlots[1].Day)
	// Friday slots come back sorted by start time
	assert.Equal(t, "9:00 AM", normSlots[1].Slots[0].StartTime)
	assert.Equal(t, "3:00 PM", normSlots[1].Slots[1].StartTime)
}

func TestNormalizeSchedule_Rejections(t *testing.T) {
	oneSlot := []models.Slot{{StartTime: "9:00 AM", EndTime: "10:00 AM"}}

	tests := []struct {
		name  string
		days  []string
		slots []models.DaySlots
	}{
		{
			name:  "unknown weekday",
			days:  []string{"Funday"},
			slots: []models.DaySlots{{Day: "Funday", Slots: oneSlot}},
		},
		{
			name:  "slots for a day not listed as available",
			days:  []string{"Monday"},
			slots: []models.DaySlots{{Day: "Tuesday", Slots: oneSlot}},
		},
		{
			name: "duplicate slot list for a day",
			days: []string{"Monday"},
			slots: []models.DaySlots{
				{Day: "Monday", Slots: oneSlot},
				{Day: "Monday", Slots: oneSlot},
			},
		},
		{
			name:  "available day with no slots",
			days:  []string{"Monday", "Tuesday"},
			slots: []models.DaySlots{{Day: "Monday", Slots: oneSlot}},
		},
		{
			name:  "empty slot list",
			days:  []string{"Monday"},
			slots: []models.DaySlots{{Day: "Monday", Slots: []models.Slot{}}},
		},
		{
			name: "slot ends before it starts",
			days: []string{"Monday"},
			slots: []models.DaySlots{{Day: "Monday", Slots: []models.Slot{
				{StartTime: "3:00 PM", EndTime: "2:00 PM"},
			}}},
		},
		{
			name: "zero length slot",
			days: []string{"Monday"},
			slots: []models.DaySlots{{Day: "Monday", Slots: []models.Slot{
				{StartTime: "2:00 PM", EndTime: "2:00 PM"},
			}}},
		},
		{
			name: "overlapping slots",
			days: []string{"Monday"},
			slots: []models.DaySlots{{Day: "Monday", Slots: []models.Slot{
				{StartTime: "9:00 AM", EndTime: "10:30 AM"},
				{StartTime: "10:00 AM", EndTime: "11:00 AM"},
			}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := models.NormalizeSchedule(tt.days, tt.slots)
			assert.Error(t, err)
		})
	}
}

func TestNormalizeSchedule_AdjacentSlotsAllowed(t *testing.T) {
	days := []string{"Wednesday"}
	slots := []models.DaySlots{{Day: "Wednesday", Slots: []models.Slot{
		{StartTime: "9:00 AM", EndTime: "10:00 AM"},
		{StartTime: "10:00 AM", EndTime: "11:00 AM"},
	}}}

	_, _, err := models.NormalizeSchedule(days, slots)
	assert.NoError(t, err)
}

func TestAvailability_FindSlot(t *testing.T) {
	avail := &models.Availability{
		AvailableDays: []string{"Monday"},
		SlotsPerDay: []models.DaySlots{{Day: "Monday", Slots: []models.Slot{
			{StartTime: "9:00 AM", EndTime: "10:00 AM", IsBooked: true},
			{StartTime: "10:00 AM", EndTime: "11:00 AM"},
		}}},
	}

	slot := avail.FindSlot("Monday", "9:00 AM", "10:00 AM")
	require.NotNil(t, slot)
	assert.True(t, slot.IsBooked)

	assert.Nil(t, avail.FindSlot("Monday", "9:00 AM", "11:00 AM"))
	assert.Nil(t, avail.FindSlot("Tuesday", "9:00 AM", "10:00 AM"))
}

func TestSlot_KeyAndRange(t *testing.T) {
	s := models.Slot{StartTime: "9:00 AM", EndTime: "10:00 AM"}
	assert.Equal(t, "Monday|9:00 AM|10:00 AM", s.Key("Monday"))
	assert.Equal(t, "9:00 AM - 10:00 AM", s.Range())
}
