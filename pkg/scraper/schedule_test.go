package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"schedulectl/pkg/schedule"
)

const groupPage = `<html><body>
<h2>Группа - ИС-21</h2>
<table>
<tr><td>Пара</td><td colspan="2">ПОНЕДЕЛЬНИК 14.10.2024</td></tr>
<tr><td></td><td>Дисциплина</td><td>Ауд.</td></tr>
<tr><td>1</td><td>Математика</td><td>101</td></tr>
</table>
</body></html>`

const indexPage = `<html><body>
<select id="group">
  <option value="">Выберите группу</option>
  <option value="ИС-21">ИС-21</option>
  <option value="ИС-22">ИС-22</option>
</select>
<select id="teacher">
  <option value="Иванов И.И.">Иванов И.И.</option>
</select>
</body></html>`

type memoryCache struct {
	entries map[string]schedule.Schedule
	puts    int
}

func (m *memoryCache) Get(_ context.Context, id string) (schedule.Schedule, bool) {
	s, ok := m.entries[id]
	return s, ok
}

func (m *memoryCache) Put(_ context.Context, s schedule.Schedule) error {
	m.puts++
	m.entries[s.SubjectID] = s
	return nil
}

func newTestClient(url string, opts ...Option) *Client {
	c := NewClient(append([]Option{WithBaseURL(url), WithRateLimit(100, time.Millisecond)}, opts...)...)
	c.retryDelay = time.Millisecond
	return c
}

func TestFetchSchedule(t *testing.T) {
	var requested string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Query().Get("group")
		fmt.Fprint(w, groupPage)
	}))
	defer server.Close()

	mem := &memoryCache{entries: map[string]schedule.Schedule{}}
	client := newTestClient(server.URL, WithCache(mem))

	s, err := client.FetchSchedule(context.Background(), "ИС-21")
	if err != nil {
		t.Fatalf("FetchSchedule failed: %v", err)
	}
	if requested != "ИС-21" {
		t.Errorf("expected the subject in the query, got %q", requested)
	}
	if len(s.Days) != 1 || s.Days[0].DayLabel != "Понедельник, 14.10.2024" {
		t.Fatalf("unexpected days: %+v", s.Days)
	}
	if got := s.Days[0].Lessons[0].Subgroups[0]; got.Subject != "Математика" || got.Room != "101" {
		t.Errorf("unexpected subgroup: %+v", got)
	}
	if mem.puts != 1 {
		t.Errorf("expected the schedule to be cached once, got %d", mem.puts)
	}
}

func TestFetchSchedule_FromCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		fmt.Fprint(w, groupPage)
	}))
	defer server.Close()

	cached := schedule.Schedule{SubjectID: "ИС-21"}
	mem := &memoryCache{entries: map[string]schedule.Schedule{"ИС-21": cached}}
	client := newTestClient(server.URL, WithCache(mem))

	if _, err := client.FetchSchedule(context.Background(), "ИС-21"); err != nil {
		t.Fatalf("FetchSchedule failed: %v", err)
	}
	if atomic.LoadInt32(&hits) != 0 {
		t.Errorf("expected no request on a cache hit, got %d", hits)
	}

	if _, err := client.Refresh(context.Background(), "ИС-21"); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected Refresh to bypass the cache, got %d requests", hits)
	}
}

func TestFetchSchedule_SubjectNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, groupPage)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.FetchSchedule(context.Background(), "ПК-11")
	if !errors.Is(err, schedule.ErrSubjectNotFound) {
		t.Errorf("expected ErrSubjectNotFound, got %v", err)
	}
}

func TestGet_RetriesTransientErrors(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	resp, err := client.Get(context.Background(), "/")
	if err != nil {
		t.Fatalf("expected success on the third attempt, got %v", err)
	}
	resp.Body.Close()
	if atomic.LoadInt32(&hits) != 3 {
		t.Errorf("expected 3 attempts, got %d", hits)
	}
}

func TestGet_GivesUp(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.Get(context.Background(), "/")
	if err == nil || !strings.Contains(err.Error(), "failed after 3 attempts") {
		t.Fatalf("expected a give-up error, got %v", err)
	}
	if atomic.LoadInt32(&hits) != maxAttempts {
		t.Errorf("expected %d attempts, got %d", maxAttempts, hits)
	}
}

func TestGet_NoRetryOnClientError(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	if _, err := client.Get(context.Background(), "/missing"); err == nil {
		t.Fatalf("expected an error on 404")
	}
	if atomic.LoadInt32(&hits) != 1 {
		t.Errorf("expected a single attempt, got %d", hits)
	}
}

func TestGet_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(server.URL)
	if _, err := client.Get(ctx, "/"); err == nil {
		t.Errorf("expected an error with a canceled context")
	}
}
