package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"schedulectl/pkg/schedule"
)

const savedPage = `<html><body>
<p>Группа - ИС-21</p>
<table>
<tr><td>Пара</td><td colspan="2">ВТОРНИК 15.10.2024</td></tr>
<tr><td></td><td>Дисциплина</td><td>Ауд.</td></tr>
<tr><td>1</td><td>1.Информатика 2.Физика</td><td>305 210</td></tr>
</table>
</body></html>`

func TestParseCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	if err := os.WriteFile(path, []byte(savedPage), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"parse", path, "--subject", "ИС-21"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("parse command failed: %v", err)
	}

	s, err := schedule.Unmarshal(bytes.TrimSpace(out.Bytes()))
	if err != nil {
		t.Fatalf("output is not a schedule: %v\n%s", err, out.String())
	}
	if s.SubjectID != "ИС-21" || len(s.Days) != 1 {
		t.Fatalf("unexpected schedule: %+v", s)
	}
	subgroups := s.Days[0].Lessons[0].Subgroups
	if len(subgroups) != 2 || subgroups[1].Subject != "Физика" || subgroups[1].Room != "210" {
		t.Errorf("unexpected subgroups: %+v", subgroups)
	}
}

func TestParseCommand_UnsupportedType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.pdf")
	if err := os.WriteFile(path, []byte("%PDF"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	rootCmd.SetArgs([]string{"parse", path, "--subject", "ИС-21"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err == nil {
		t.Errorf("expected an error for a pdf document")
	}
}
