package cache

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"schedulectl/pkg/schedule"
)

func testSchedule(subject string) schedule.Schedule {
	return schedule.Schedule{
		SubjectID: subject,
		Days: []schedule.DaySchedule{{
			DayLabel: "Понедельник, 14.10.2024",
			Lessons: []schedule.Lesson{{
				LessonNumber: "1",
				Subgroups: []schedule.Subgroup{
					{Subject: "Алгебра", Room: "101", Number: schedule.IntPtr(1)},
					{Number: schedule.IntPtr(2)},
				},
			}},
		}},
	}
}

func TestDiskReadWrite(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "schedulectl-cache-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	ctx := context.Background()
	c := NewDisk(12*time.Hour, nil)

	// 1. Read non-existent cache
	if _, ok := c.Get(ctx, "ИС-21"); ok {
		t.Errorf("expected Get to miss for non-existent cache, but got a hit")
	}

	// 2. Write cache
	want := testSchedule("ИС-21")
	if err := c.Put(ctx, want); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	// Verify file was created under an escaped name
	matches, _ := filepath.Glob(filepath.Join(tempDir, ".schedulectl_cache", "*.json"))
	if len(matches) != 1 {
		t.Errorf("expected exactly one cache file, found %v", matches)
	}

	// 3. Read existing valid cache
	got, ok := c.Get(ctx, "ИС-21")
	if !ok {
		t.Fatalf("expected Get to hit for existing cache, but it missed")
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("loaded schedule does not match written one.\nGot: %+v\nExpected: %+v", got, want)
	}

	// Teacher names with slashes must not escape the cache directory
	if err := c.Put(ctx, testSchedule("Иванов И.И./Петров")); err != nil {
		t.Fatalf("Put with slash in subject failed: %v", err)
	}
	if _, ok := c.Get(ctx, "Иванов И.И./Петров"); !ok {
		t.Errorf("expected hit for subject with a slash")
	}
}

func TestDiskExpiration(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "schedulectl-cache-exp-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	ctx := context.Background()
	c := NewDisk(12*time.Hour, nil)

	// Write the entry a day in the past
	c.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }
	if err := c.Put(ctx, testSchedule("ИС-21")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	c.now = time.Now

	if _, ok := c.Get(ctx, "ИС-21"); ok {
		t.Errorf("expected Get to reject expired cache (24h old, limit is 12h), but it incorrectly succeeded")
	}
}

func TestDiskCorruptEntry(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "schedulectl-cache-bad-test")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	t.Setenv("HOME", tempDir)
	t.Setenv("USERPROFILE", tempDir)

	path, err := getCachePath("ИС-21")
	if err != nil {
		t.Fatalf("getCachePath failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("{broken"), 0644); err != nil {
		t.Fatalf("failed to write corrupt entry: %v", err)
	}

	if _, ok := NewDisk(time.Hour, nil).Get(context.Background(), "ИС-21"); ok {
		t.Errorf("expected corrupt entry to be treated as a miss")
	}
}

func TestNop(t *testing.T) {
	var c Cache = Nop{}
	if err := c.Put(context.Background(), testSchedule("x")); err != nil {
		t.Errorf("Nop.Put returned error: %v", err)
	}
	if _, ok := c.Get(context.Background(), "x"); ok {
		t.Errorf("Nop.Get should never hit")
	}
}
