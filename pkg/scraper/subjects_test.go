package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestParseSubjects(t *testing.T) {
	subjects, err := ParseSubjects(strings.NewReader(indexPage))
	if err != nil {
		t.Fatalf("ParseSubjects failed: %v", err)
	}

	want := []Subject{
		{Name: "ИС-21", Kind: KindGroup, ID: "ИС-21"},
		{Name: "ИС-22", Kind: KindGroup, ID: "ИС-22"},
		{Name: "Иванов И.И.", Kind: KindTeacher, ID: "Иванов И.И."},
	}
	if !reflect.DeepEqual(subjects, want) {
		t.Errorf("ParseSubjects()\nGot: %+v\nExpected: %+v", subjects, want)
	}
}

func TestFetchSubjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, indexPage)
	}))
	defer server.Close()

	subjects, err := newTestClient(server.URL).FetchSubjects(context.Background())
	if err != nil {
		t.Fatalf("FetchSubjects failed: %v", err)
	}
	if len(subjects) != 3 {
		t.Errorf("expected 3 subjects, got %d", len(subjects))
	}
}
