package timetable

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Cell is a single table cell as found in the source markup
type Cell struct {
	Text string
	Span int // Logical columns covered by the cell, 1 unless merged
}

// Row is an ordered list of cells
type Row []Cell

// Table is a source-agnostic view of one timetable
type Table struct {
	Rows []Row
}

var spaceReplacer = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\u2007", " ")

// NormalizeText turns non-breaking spaces into plain ones, collapses whitespace and
// returns the NFC form of the result.
func NormalizeText(s string) string {
	s = spaceReplacer.Replace(s)
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// ParseSpan reads a colspan-like attribute. Anything absent, non-numeric or below 1 counts as 1.
func ParseSpan(attr string) int {
	n, err := strconv.Atoi(strings.TrimSpace(attr))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// ExpandRow flattens a row, repeating each cell's text once per column it spans.
func ExpandRow(cells []Cell) []string {
	var out []string
	for _, c := range cells {
		span := c.Span
		if span < 1 {
			span = 1
		}
		for i := 0; i < span; i++ {
			out = append(out, c.Text)
		}
	}
	return out
}
