package timetable

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"
	"go.uber.org/zap"

	"schedulectl/pkg/schedule"
)

// ParseDocx extracts the schedule of subjectID from a .docx timetable.
func ParseDocx(r io.ReaderAt, size int64, subjectID string) (schedule.Schedule, error) {
	return NewLocator().ParseDocx(r, size, subjectID)
}

// ParseDocx extracts the schedule of subjectID from a .docx timetable.
func (l *Locator) ParseDocx(r io.ReaderAt, size int64, subjectID string) (schedule.Schedule, error) {
	doc, err := docx.Parse(r, size)
	if err != nil {
		return schedule.Schedule{}, fmt.Errorf("failed to parse docx: %w", err)
	}

	tables, err := l.LocateDocx(doc, subjectID)
	if err != nil {
		return schedule.Schedule{}, err
	}

	return Assemble(subjectID, tables)
}

// LocateDocx finds caption paragraphs for the subject and takes the first table after each.
// Body items are flat, so the table search only runs forward through the siblings.
func (l *Locator) LocateDocx(doc *docx.Docx, subjectID string) ([]Table, error) {
	phrases := l.phrases(subjectID)
	items := doc.Document.Body.Items

	var tables []Table
	anchors := 0
	for i, it := range items {
		p, ok := it.(*docx.Paragraph)
		if !ok || !containsPhrase(NormalizeText(p.String()), phrases) {
			continue
		}
		anchors++

		table := nextDocxTable(items[i+1:])
		if table == nil {
			l.logger().Debug("anchor without table skipped",
				zap.String("subject", subjectID),
				zap.Int("anchor", anchors))
			continue
		}
		tables = append(tables, docxTable(table))
	}

	if anchors == 0 {
		return nil, fmt.Errorf("%w: %q", schedule.ErrSubjectNotFound, subjectID)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: %q", schedule.ErrTableNotFound, subjectID)
	}
	return tables, nil
}

func nextDocxTable(items []interface{}) *docx.Table {
	for _, it := range items {
		if t, ok := it.(*docx.Table); ok {
			return t
		}
	}
	return nil
}

func docxTable(t *docx.Table) Table {
	var out Table
	for _, tr := range t.TableRows {
		var row Row
		for _, tc := range tr.TableCells {
			var parts []string
			for _, p := range tc.Paragraphs {
				parts = append(parts, p.String())
			}
			span := 1
			if tc.TableCellProperties != nil && tc.TableCellProperties.GridSpan != nil {
				span = tc.TableCellProperties.GridSpan.Val
			}
			row = append(row, Cell{
				Text: NormalizeText(strings.Join(parts, " ")),
				Span: span,
			})
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
