package timetable

import (
	"fmt"
	"strings"
	"time"

	"schedulectl/pkg/schedule"
)

// SlotsPerDay is the number of lesson periods in a call table
const SlotsPerDay = 6

// TimeSlot is the start and end of one lesson period, in minutes since midnight
type TimeSlot struct {
	Start int
	End   int
}

// CallTable holds the lesson periods of a regular day and of the shortened rest day
type CallTable struct {
	RestDay time.Weekday
	Regular [SlotsPerDay]TimeSlot
	Rest    [SlotsPerDay]TimeSlot
}

// DefaultCallTable returns the bell schedule used when none is configured.
func DefaultCallTable() CallTable {
	return CallTable{
		RestDay: time.Saturday,
		Regular: [SlotsPerDay]TimeSlot{
			mustSlot("08:30-10:00"), mustSlot("10:10-11:40"), mustSlot("12:10-13:40"),
			mustSlot("13:50-15:20"), mustSlot("15:30-17:00"), mustSlot("17:10-18:40"),
		},
		Rest: [SlotsPerDay]TimeSlot{
			mustSlot("08:30-09:50"), mustSlot("10:00-11:20"), mustSlot("11:30-12:50"),
			mustSlot("13:00-14:20"), mustSlot("14:30-15:50"), mustSlot("16:00-17:20"),
		},
	}
}

// ParseTimeSlot reads a period written as "08:30-10:00".
func ParseTimeSlot(s string) (TimeSlot, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return TimeSlot{}, fmt.Errorf("invalid time slot %q: expected HH:MM-HH:MM", s)
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return TimeSlot{}, fmt.Errorf("invalid time slot %q: %w", s, err)
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return TimeSlot{}, fmt.Errorf("invalid time slot %q: %w", s, err)
	}
	if end < start {
		return TimeSlot{}, fmt.Errorf("invalid time slot %q: ends before it starts", s)
	}
	return TimeSlot{Start: start, End: end}, nil
}

func mustSlot(s string) TimeSlot {
	slot, err := ParseTimeSlot(s)
	if err != nil {
		panic(err)
	}
	return slot
}

func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func (s TimeSlot) String() string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", s.Start/60, s.Start%60, s.End/60, s.End%60)
}

// Slots returns the periods that apply on the given weekday.
func (c CallTable) Slots(day time.Weekday) [SlotsPerDay]TimeSlot {
	if day == c.RestDay {
		return c.Rest
	}
	return c.Regular
}

// Finished reports whether the last lesson of the day is over at now.
// Days without lessons, or whose last lesson has no period, count as finished.
func Finished(day schedule.DaySchedule, now time.Time, calls CallTable) bool {
	last, ok := day.LastLessonNumber()
	if !ok || last < 1 || last > SlotsPerDay {
		return true
	}
	minutes := now.Hour()*60 + now.Minute()
	return minutes >= calls.Slots(now.Weekday())[last-1].End
}

// ActiveDay picks the index of the day to show at now. It never fails: an empty
// schedule yields 0.
func ActiveDay(days []schedule.DaySchedule, now time.Time, calls CallTable) int {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	for i, d := range days {
		date, ok := d.Date(loc)
		if !ok || !date.Equal(today) {
			continue
		}
		if !Finished(d, now, calls) {
			return i
		}
		for j := i + 1; j < len(days); j++ {
			if days[j].HasLessons() {
				return j
			}
		}
		return i
	}

	best := -1
	var bestDate time.Time
	for i, d := range days {
		if !d.HasLessons() {
			continue
		}
		date, ok := d.Date(loc)
		if !ok || !date.After(today) {
			continue
		}
		if best < 0 || date.Before(bestDate) {
			best, bestDate = i, date
		}
	}
	if best >= 0 {
		return best
	}

	for i, d := range days {
		if d.HasLessons() {
			return i
		}
	}
	return 0
}
