package exporter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"schedulectl/pkg/schedule"
	"schedulectl/pkg/timetable"
)

// GenerateICS creates an ICS file from a schedule and writes it to the provided writer.
// Days without a date, lessons without a period and empty subgroups are left out.
func GenerateICS(s schedule.Schedule, calls timetable.CallTable, loc *time.Location, w io.Writer) error {
	if loc == nil {
		loc = time.Local
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//schedulectl//timetable export//RU")

	now := time.Now()
	for _, day := range s.Days {
		date, ok := day.Date(loc)
		if !ok {
			continue
		}
		slots := calls.Slots(date.Weekday())

		for _, lesson := range day.Lessons {
			n, ok := lesson.Number()
			if !ok || n < 1 || n > timetable.SlotsPerDay {
				continue // Skip lessons without a bell period
			}
			slot := slots[n-1]
			start := atMinute(date, slot.Start, loc)
			end := atMinute(date, slot.End, loc)

			for i, sub := range lesson.Subgroups {
				if sub.Subject == "" {
					continue
				}

				event := cal.AddEvent(eventUID(s.SubjectID, day.DatePart(), lesson.LessonNumber, i))
				event.SetCreatedTime(now)
				event.SetDtStampTime(now)
				event.SetModifiedAt(now)
				event.SetStartAt(start)
				event.SetEndAt(end)
				event.SetSummary(sub.Subject)
				if sub.Room != "" {
					event.SetLocation(sub.Room)
				}
				event.SetDescription(describe(s.SubjectID, lesson.LessonNumber, sub))
			}
		}
	}

	return cal.SerializeTo(w)
}

// atMinute returns the wall-clock time on the day of date, minute counted from midnight
func atMinute(date time.Time, minute int, loc *time.Location) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minute/60, minute%60, 0, 0, loc)
}

// eventUID is stable across exports so that calendar apps update events instead of duplicating them
func eventUID(subjectID, date, lesson string, subgroup int) string {
	name := fmt.Sprintf("%s|%s|%s|%d", subjectID, date, lesson, subgroup)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String() + "@schedulectl"
}

func describe(subjectID, lesson string, sub schedule.Subgroup) string {
	description := fmt.Sprintf("Group: %s\nLesson: %s", subjectID, lesson)
	if sub.Number != nil {
		description += "\nSubgroup: " + strconv.Itoa(*sub.Number)
	}
	return description
}
