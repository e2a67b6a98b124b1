package scraper

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestScraperIntegration_FetchSubjects actually connects to the timetable web server.
// If this test fails, it means the college changed their HTML structure or the server is down.
func TestScraperIntegration_FetchSubjects(t *testing.T) {
	baseURL := os.Getenv("SCHEDULECTL_TEST_BASE_URL")
	if testing.Short() || baseURL == "" {
		t.Skip("SCHEDULECTL_TEST_BASE_URL not set, skipping integration test")
	}
	client := NewClient(WithBaseURL(baseURL))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	subjects, err := client.FetchSubjects(ctx)
	if err != nil {
		t.Fatalf("Failed to fetch subjects: %v", err)
	}
	if len(subjects) == 0 {
		t.Fatalf("Expected to find groups or teachers, but got 0")
	}
}

// TestScraperIntegration_FetchSchedule fetches the schedule of a known group.
func TestScraperIntegration_FetchSchedule(t *testing.T) {
	baseURL := os.Getenv("SCHEDULECTL_TEST_BASE_URL")
	subject := os.Getenv("SCHEDULECTL_TEST_SUBJECT")
	if testing.Short() || baseURL == "" || subject == "" {
		t.Skip("SCHEDULECTL_TEST_BASE_URL or SCHEDULECTL_TEST_SUBJECT not set, skipping integration test")
	}
	client := NewClient(WithBaseURL(baseURL))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := client.Refresh(ctx, subject)
	if err != nil {
		t.Fatalf("Failed to fetch schedule: %v", err)
	}

	// An empty week is legitimate out of season, but every day needs a label
	for _, d := range s.Days {
		if d.DayLabel == "" {
			t.Errorf("Parsed day is missing its label: %+v", d)
		}
	}
}
