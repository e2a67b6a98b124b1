package timetable

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"schedulectl/pkg/schedule"
)

// DefaultLabels are the captions placed in front of a group name or a teacher name
var DefaultLabels = []string{"Группа", "Преподаватель"}

// nonAnchors never carry a subject caption even when their text matches
const nonAnchors = "select, option, script, style, noscript, template"

// anchorTemplates are the accepted spellings of "<label> - <subject>"
var anchorTemplates = []string{"%s - %s", "%s-%s", "%s %s"}

// Locator finds the timetables that belong to a subject inside a document
type Locator struct {
	Labels []string
	Log    *zap.Logger
}

// NewLocator returns a locator using the default labels and a no-op logger.
func NewLocator() *Locator {
	return &Locator{Labels: DefaultLabels, Log: zap.NewNop()}
}

func (l *Locator) logger() *zap.Logger {
	if l.Log == nil {
		return zap.NewNop()
	}
	return l.Log
}

// ParseHTML extracts the schedule of subjectID from an HTML timetable page.
func ParseHTML(r io.Reader, subjectID string) (schedule.Schedule, error) {
	return NewLocator().ParseHTML(r, subjectID)
}

// ParseHTML extracts the schedule of subjectID from an HTML timetable page.
func (l *Locator) ParseHTML(r io.Reader, subjectID string) (schedule.Schedule, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to parse document: %w", err)
	}

	tables, err := l.LocateHTML(doc, subjectID)
	if err != nil {
		return schedule.Schedule{}, err
	}

	return Assemble(subjectID, tables)
}

// LocateHTML returns one table per anchor that could be resolved, in document order.
func (l *Locator) LocateHTML(doc *goquery.Document, subjectID string) ([]Table, error) {
	phrases := l.phrases(subjectID)

	matched := make(map[*html.Node]bool)
	matches := func(sel *goquery.Selection) bool {
		n := sel.Get(0)
		if m, ok := matched[n]; ok {
			return m
		}
		m := containsPhrase(elementText(sel), phrases)
		matched[n] = m
		return m
	}

	anchors := doc.Find("body *").Not(nonAnchors).FilterFunction(func(_ int, sel *goquery.Selection) bool {
		if !matches(sel) {
			return false
		}
		// Only the innermost element carrying the phrase counts as the anchor
		deeper := sel.Children().FilterFunction(func(_ int, child *goquery.Selection) bool {
			return matches(child)
		})
		return deeper.Length() == 0
	})

	if anchors.Length() == 0 {
		return nil, fmt.Errorf("%w: %q", schedule.ErrSubjectNotFound, subjectID)
	}

	var tables []Table
	anchors.Each(func(i int, anchor *goquery.Selection) {
		table := resolveTable(anchor)
		if table == nil {
			l.logger().Debug("anchor without table skipped",
				zap.String("subject", subjectID),
				zap.Int("anchor", i+1))
			return
		}
		tables = append(tables, extractTable(table))
	})

	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: %q", schedule.ErrTableNotFound, subjectID)
	}

	return tables, nil
}

// resolveTable looks for the table following an anchor: among its next siblings, then inside its
// parent, then among the parent's next siblings.
func resolveTable(anchor *goquery.Selection) *goquery.Selection {
	if t := anchor.NextAllFiltered("table").First(); t.Length() > 0 {
		return t
	}

	parent := anchor.Parent()
	if parent.Length() == 0 {
		return nil
	}
	if t := parent.Find("table").First(); t.Length() > 0 {
		return t
	}

	var found *goquery.Selection
	parent.NextAll().EachWithBreak(func(_ int, sib *goquery.Selection) bool {
		if sib.Is("table") {
			found = sib
			return false
		}
		if t := sib.Find("table").First(); t.Length() > 0 {
			found = t
			return false
		}
		return true
	})
	return found
}

// extractTable reads the rows that belong to this table, leaving nested tables alone.
func extractTable(table *goquery.Selection) Table {
	var out Table
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		if !tr.Closest("table").IsSelection(table) {
			return
		}
		var row Row
		tr.ChildrenFiltered("td, th").Each(func(_ int, cell *goquery.Selection) {
			span, _ := cell.Attr("colspan")
			row = append(row, Cell{
				Text: elementText(cell),
				Span: ParseSpan(span),
			})
		})
		out.Rows = append(out.Rows, row)
	})
	return out
}

// elementText returns the normalized text of a selection, treating <br> and block
// boundaries as spaces so that "Математика<br>Иванов" does not run together.
func elementText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return NormalizeText(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style":
			return
		case "br":
			b.WriteByte(' ')
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if n.Type == html.ElementNode {
		b.WriteByte(' ')
	}
}

// phrases builds the lower-cased anchor spellings for every label.
func (l *Locator) phrases(subjectID string) []string {
	labels := l.Labels
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	subjectID = NormalizeText(subjectID)

	var out []string
	for _, label := range labels {
		for _, tmpl := range anchorTemplates {
			out = append(out, strings.ToLower(fmt.Sprintf(tmpl, label, subjectID)))
		}
	}
	return out
}

// containsPhrase reports whether text holds one of the phrases as a whole word sequence,
// so that "ИС-21" does not match inside "ИС-211".
func containsPhrase(text string, phrases []string) bool {
	text = strings.ToLower(text)
	for _, p := range phrases {
		for from := 0; from <= len(text)-len(p); {
			idx := strings.Index(text[from:], p)
			if idx < 0 {
				break
			}
			start, end := from+idx, from+idx+len(p)
			if isBoundary(text, start, end) {
				return true
			}
			from = start + 1
		}
	}
	return false
}

func isBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
