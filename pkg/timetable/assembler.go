package timetable

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"schedulectl/pkg/schedule"
)

var dateRe = regexp.MustCompile(`\d{2}\.\d{2}\.\d{4}`)

// headerRows is the number of leading rows that carry no lessons (day names and column captions)
const headerRows = 2

// Assemble builds the schedule of a subject out of the tables found for it.
// Days of every table are concatenated in the given order.
func Assemble(subjectID string, tables []Table) (schedule.Schedule, error) {
	result := schedule.Schedule{SubjectID: subjectID}

	for i, table := range tables {
		days, err := assembleTable(table)
		if err != nil {
			return schedule.Schedule{}, fmt.Errorf("table %d: %w", i+1, err)
		}
		result.Days = append(result.Days, days...)
	}

	return result, nil
}

// dayBuilder owns the lessons of one day column while a table is being read
type dayBuilder struct {
	day   schedule.DaySchedule
	index map[string]int // lesson number -> position in day.Lessons
}

func newDayBuilder(label string) *dayBuilder {
	return &dayBuilder{
		day:   schedule.DaySchedule{DayLabel: label},
		index: make(map[string]int),
	}
}

// addLesson appends a lesson, or extends the subgroups of the lesson with the same number.
func (b *dayBuilder) addLesson(number string, subgroups []schedule.Subgroup) {
	if len(subgroups) == 0 {
		return
	}
	if pos, ok := b.index[number]; ok {
		b.day.Lessons[pos].Subgroups = append(b.day.Lessons[pos].Subgroups, subgroups...)
		return
	}
	b.index[number] = len(b.day.Lessons)
	b.day.Lessons = append(b.day.Lessons, schedule.Lesson{
		LessonNumber: number,
		Subgroups:    subgroups,
	})
}

func assembleTable(table Table) ([]schedule.DaySchedule, error) {
	if len(table.Rows) < headerRows {
		return nil, fmt.Errorf("%w: expected at least %d rows, got %d", schedule.ErrMalformedTable, headerRows, len(table.Rows))
	}

	// The first header cell labels the lesson column, not a day
	header := table.Rows[0]
	var builders []*dayBuilder
	for i := 1; i < len(header); i++ {
		builders = append(builders, newDayBuilder(DayLabel(header[i].Text)))
	}

	for i, row := range table.Rows[headerRows:] {
		number := strconv.Itoa(i + 1)

		flat := ExpandRow(row)
		if len(flat) > 0 {
			flat = flat[1:]
		}

		for d, b := range builders {
			subject := cellAt(flat, 2*d)
			room := cellAt(flat, 2*d+1)
			if IsEmptyCell(subject) && IsEmptyCell(room) {
				continue
			}
			b.addLesson(number, SplitSubgroups(subject, room))
		}
	}

	days := make([]schedule.DaySchedule, 0, len(builders))
	for _, b := range builders {
		days = append(days, b.day)
	}
	return days, nil
}

func cellAt(cells []string, i int) string {
	if i < len(cells) {
		return strings.TrimSpace(cells[i])
	}
	return ""
}

// DayLabel turns a header cell like "ПОНЕДЕЛЬНИК 14.10.2024" into "Понедельник, 14.10.2024".
// Headers without a date are returned normalized but otherwise unchanged.
func DayLabel(header string) string {
	header = NormalizeText(header)
	date := dateRe.FindString(header)
	if date == "" {
		return header
	}

	name := strings.Replace(header, date, " ", 1)
	name = strings.Trim(strings.Join(strings.Fields(name), " "), " ,.-–—()")
	if name == "" {
		return date
	}

	// Casers keep state, so one is made per call
	name = cases.Title(language.Russian).String(name)
	return name + schedule.LabelSeparator + date
}
