// Package render draws schedules for the terminal.
package render

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"schedulectl/pkg/schedule"
	"schedulectl/pkg/timetable"
)

// DefaultAccent is the color used when the user did not pick one
const DefaultAccent = "99"

// Renderer holds the styles and the bell schedule used to print days
type Renderer struct {
	Calls    timetable.CallTable
	Location *time.Location

	titleStyle  lipgloss.Style
	activeStyle lipgloss.Style
	timeStyle   lipgloss.Style
	roomStyle   lipgloss.Style
	mutedStyle  lipgloss.Style
}

// New returns a renderer using the given accent color.
func New(accent string, calls timetable.CallTable) *Renderer {
	if accent == "" {
		accent = DefaultAccent
	}
	a := lipgloss.Color(accent)
	return &Renderer{
		Calls:       calls,
		Location:    time.Local,
		titleStyle:  lipgloss.NewStyle().Bold(true),
		activeStyle: lipgloss.NewStyle().Foreground(a).Bold(true).Border(lipgloss.RoundedBorder(), false, false, true, false).BorderForeground(a),
		timeStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		roomStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("86")),
		mutedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

// Day renders one day. The active day gets the accent header.
func (r *Renderer) Day(d schedule.DaySchedule, active bool) string {
	var b strings.Builder

	title := d.DayLabel
	if active {
		b.WriteString(r.activeStyle.Render("▶ " + title))
	} else {
		b.WriteString(r.titleStyle.Render(title))
	}
	b.WriteString("\n")

	if !d.HasLessons() {
		b.WriteString(r.mutedStyle.Render("  No lessons"))
		b.WriteString("\n")
		return b.String()
	}

	var slots *[timetable.SlotsPerDay]timetable.TimeSlot
	if date, ok := d.Date(r.location()); ok {
		s := r.Calls.Slots(date.Weekday())
		slots = &s
	}

	for _, lesson := range d.Lessons {
		period := ""
		if n, ok := lesson.Number(); ok && slots != nil && n >= 1 && n <= timetable.SlotsPerDay {
			period = slots[n-1].String()
		}
		fmt.Fprintf(&b, "  %s  %s\n", lesson.LessonNumber, r.timeStyle.Render(fmt.Sprintf("%-11s", period)))

		for _, sub := range lesson.Subgroups {
			b.WriteString("     ")
			b.WriteString(r.subgroup(sub))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Schedule renders all days of a schedule, highlighting the one at index active.
func (r *Renderer) Schedule(s schedule.Schedule, active int) string {
	var parts []string
	for i, d := range s.Days {
		parts = append(parts, r.Day(d, i == active))
	}
	if len(parts) == 0 {
		return r.mutedStyle.Render(fmt.Sprintf("No days found for %s", s.SubjectID)) + "\n"
	}
	return strings.Join(parts, "\n")
}

// Subgroup formats a subgroup as "1. Математика (101)".
func Subgroup(sub schedule.Subgroup) string {
	var b strings.Builder
	if sub.Number != nil {
		b.WriteString(strconv.Itoa(*sub.Number))
		b.WriteString(". ")
	}
	if sub.Subject == "" {
		b.WriteString("—")
		return b.String()
	}
	b.WriteString(sub.Subject)
	if sub.Room != "" {
		b.WriteString(" (")
		b.WriteString(sub.Room)
		b.WriteString(")")
	}
	return b.String()
}

func (r *Renderer) subgroup(sub schedule.Subgroup) string {
	if sub.Subject == "" {
		return r.mutedStyle.Render(Subgroup(sub))
	}
	line := Subgroup(schedule.Subgroup{Subject: sub.Subject, Number: sub.Number})
	if sub.Room == "" {
		return line
	}
	return line + " " + r.roomStyle.Render("("+sub.Room+")")
}

func (r *Renderer) location() *time.Location {
	if r.Location == nil {
		return time.Local
	}
	return r.Location
}
