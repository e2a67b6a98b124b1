package schedule

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the date format embedded in timetable day headers, e.g. "14.10.2024"
const DateLayout = "02.01.2006"

// LabelSeparator joins the day name and the date inside a DayLabel
const LabelSeparator = ", "

// Subgroup represents one parallel class held in a shared time slot
type Subgroup struct {
	Subject string `json:"subject"`
	Room    string `json:"room"`
	Number  *int   `json:"number,omitempty"` // Subgroup ordinal from a "1." / "2." marker
}

// Lesson is a single numbered row of a day
type Lesson struct {
	LessonNumber string     `json:"lessonNumber"` // 1-based data row ordinal within its table
	Subgroups    []Subgroup `json:"subgroups"`
}

// DaySchedule holds the lessons of one day column
type DaySchedule struct {
	DayLabel string   `json:"dayLabel"` // "Понедельник, 14.10.2024"
	Lessons  []Lesson `json:"lessons"`
}

// Schedule is the full timetable extracted for a group or teacher
type Schedule struct {
	SubjectID string        `json:"subjectId"`
	Days      []DaySchedule `json:"days"`
}

// IntPtr is a small helper for building subgroup ordinals.
func IntPtr(v int) *int {
	return &v
}

// Number returns the numeric value of the lesson number.
func (l Lesson) Number() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(l.LessonNumber))
	if err != nil {
		return 0, false
	}
	return n, true
}

// DatePart returns the date portion of the label, i.e. the text after the last separator.
func (d DaySchedule) DatePart() string {
	idx := strings.LastIndex(d.DayLabel, LabelSeparator)
	if idx < 0 {
		return strings.TrimSpace(d.DayLabel)
	}
	return strings.TrimSpace(d.DayLabel[idx+len(LabelSeparator):])
}

// DayName returns the label without its date portion.
func (d DaySchedule) DayName() string {
	idx := strings.LastIndex(d.DayLabel, LabelSeparator)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(d.DayLabel[:idx])
}

// Date parses the date portion of the label in the given location.
func (d DaySchedule) Date(loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, d.DatePart(), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// LastLessonNumber returns the highest numeric lesson number of the day.
// ok is false when the day has no numbered lessons.
func (d DaySchedule) LastLessonNumber() (int, bool) {
	last, found := 0, false
	for _, l := range d.Lessons {
		n, ok := l.Number()
		if !ok {
			continue
		}
		if !found || n > last {
			last, found = n, true
		}
	}
	return last, found
}

// HasLessons reports whether the day has at least one lesson.
func (d DaySchedule) HasLessons() bool {
	return len(d.Lessons) > 0
}
