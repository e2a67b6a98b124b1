package scraper

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// FetchSubjects retrieves all the available groups and teachers from the main page
func (c *Client) FetchSubjects(ctx context.Context) ([]Subject, error) {
	resp, err := c.Get(ctx, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return ParseSubjects(resp.Body)
}

// ParseSubjects reads the subject pickers of the main page.
func ParseSubjects(r io.Reader) ([]Subject, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse subject list: %w", err)
	}

	var subjects []Subject

	// The subjects are stored as <option> tags inside <select id="group"> and <select id="teacher">
	pickers := []struct {
		selector string
		kind     SubjectKind
	}{
		{"select#group option", KindGroup},
		{"select#teacher option", KindTeacher},
	}
	for _, p := range pickers {
		doc.Find(p.selector).Each(func(i int, sel *goquery.Selection) {
			name := strings.TrimSpace(sel.Text())
			val, exists := sel.Attr("value")
			val = strings.TrimSpace(val)
			if !exists || val == "" || name == "" {
				return
			}
			subjects = append(subjects, Subject{
				Name: name,
				Kind: p.kind,
				ID:   val,
			})
		})
	}

	return subjects, nil
}
