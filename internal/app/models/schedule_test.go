package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScheduleSlotOverlaps(t *testing.T) {
	base := &ScheduleSlot{DayOfWeek: 1, StartMinute: 540, EndMinute: 660} // Mon 09:00-11:00

	tests := []struct {
		name    string
		other   *ScheduleSlot
		overlap bool
	}{
		{"identical", &ScheduleSlot{DayOfWeek: 1, StartMinute: 540, EndMinute: 660}, true},
		{"contained", &ScheduleSlot{DayOfWeek: 1, StartMinute: 570, EndMinute: 630}, true},
		{"partial before", &ScheduleSlot{DayOfWeek: 1, StartMinute: 480, EndMinute: 570}, true},
		{"partial after", &ScheduleSlot{DayOfWeek: 1, StartMinute: 630, EndMinute: 720}, true},
		{"back to back before", &ScheduleSlot{DayOfWeek: 1, StartMinute: 480, EndMinute: 540}, false},
		{"back to back after", &ScheduleSlot{DayOfWeek: 1, StartMinute: 660, EndMinute: 720}, false},
		{"different day", &ScheduleSlot{DayOfWeek: 2, StartMinute: 540, EndMinute: 660}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.overlap, base.Overlaps(tc.other))
			assert.Equal(t, tc.overlap, tc.other.Overlaps(base))
		})
	}
}
