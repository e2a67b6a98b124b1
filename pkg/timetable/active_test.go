package timetable

import (
	"testing"
	"time"

	"schedulectl/pkg/schedule"
)

func day(label string, lessonNumbers ...string) schedule.DaySchedule {
	d := schedule.DaySchedule{DayLabel: label}
	for _, n := range lessonNumbers {
		d.Lessons = append(d.Lessons, schedule.Lesson{
			LessonNumber: n,
			Subgroups:    []schedule.Subgroup{{Subject: "Алгебра", Room: "101"}},
		})
	}
	return d
}

func at(year int, month time.Month, dayOfMonth, hour, minute int) time.Time {
	return time.Date(year, month, dayOfMonth, hour, minute, 0, 0, time.UTC)
}

func TestActiveDay(t *testing.T) {
	week := []schedule.DaySchedule{
		day("Понедельник, 14.10.2024", "1", "2", "3"),
		day("Вторник, 15.10.2024"),
		day("Среда, 16.10.2024", "2"),
		day("Суббота, 19.10.2024", "1", "2", "3"),
	}

	tests := []struct {
		name string
		days []schedule.DaySchedule
		now  time.Time
		want int
	}{
		{"today in progress", week, at(2024, 10, 14, 12, 0), 0},
		{"today finished moves to next day with lessons", week, at(2024, 10, 14, 19, 0), 2},
		{"finished exactly at the end of the last lesson", week, at(2024, 10, 14, 13, 40), 2},
		{"one minute before the end", week, at(2024, 10, 14, 13, 39), 0},
		{"today without lessons counts as finished", week, at(2024, 10, 15, 8, 0), 2},
		{"weekend picks the nearest future day", week, at(2024, 10, 13, 10, 0), 0},
		{"gap day picks the next teaching day", week, at(2024, 10, 17, 10, 0), 3},
		{"past schedule falls back to the first day with lessons", week, at(2024, 10, 25, 10, 0), 0},
		{"finished with nothing after stays on today", week, at(2024, 10, 19, 20, 0), 3},
		{"empty schedule", nil, at(2024, 10, 14, 10, 0), 0},
		{"no lessons at all", []schedule.DaySchedule{day("Понедельник, 14.10.2024"), day("Вторник, 15.10.2024")}, at(2024, 10, 13, 10, 0), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ActiveDay(tt.days, tt.now, DefaultCallTable()); got != tt.want {
				t.Errorf("ActiveDay() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestActiveDay_EarliestFutureDate(t *testing.T) {
	days := []schedule.DaySchedule{
		day("Среда, 16.10.2024", "1"),
		day("Вторник, 15.10.2024", "1"),
		day("без даты", "1"),
		day("Понедельник, 14.10.2024"),
	}

	if got := ActiveDay(days, at(2024, 10, 13, 10, 0), DefaultCallTable()); got != 1 {
		t.Errorf("expected the earliest future day (index 1), got %d", got)
	}
}

func TestFinished_RestDayCallTable(t *testing.T) {
	saturday := day("Суббота, 19.10.2024", "1", "2", "3")
	calls := DefaultCallTable()

	// third period ends 12:50 on the rest day and 13:40 otherwise
	if !Finished(saturday, at(2024, 10, 19, 13, 0), calls) {
		t.Errorf("expected saturday to be finished at 13:00 with the rest day call table")
	}
	if Finished(saturday, at(2024, 10, 18, 13, 0), calls) {
		t.Errorf("expected the regular call table on a friday")
	}
}

func TestFinished_LessonOutsideCallTable(t *testing.T) {
	late := day("Понедельник, 14.10.2024", "7")
	if !Finished(late, at(2024, 10, 14, 8, 0), DefaultCallTable()) {
		t.Errorf("expected a day whose last lesson has no period to count as finished")
	}
}

func TestParseTimeSlot(t *testing.T) {
	slot, err := ParseTimeSlot("08:30-10:00")
	if err != nil {
		t.Fatalf("ParseTimeSlot failed: %v", err)
	}
	if slot.Start != 510 || slot.End != 600 {
		t.Errorf("unexpected slot %+v", slot)
	}
	if slot.String() != "08:30-10:00" {
		t.Errorf("unexpected slot string %q", slot.String())
	}

	for _, bad := range []string{"", "08:30", "10:00-08:30", "8h-9h"} {
		if _, err := ParseTimeSlot(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}
