package audit

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwc-ai/hr-agent/internal/interview"
)

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening audit file: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("reading audit file: %v", err)
	}
	return rows
}

func TestAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")
	log := NewLog(path)

	entry := Entry{
		CandidateName:    "Jane Doe",
		Email:            "jane@corp.example",
		MatchingKeywords: []string{"python", "docker"},
		ScreeningResult:  "Shortlisted",
		Timestamp:        time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC),
	}

	if err := log.Append(entry); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := log.Append(entry); err != nil {
		t.Fatalf("second append: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "candidate_name" {
		t.Errorf("header row = %v", rows[0])
	}
	if rows[1][3] != "python; docker" {
		t.Errorf("keywords column = %q", rows[1][3])
	}
	if rows[1][5] != "2026-03-01 10:30:00" {
		t.Errorf("timestamp column = %q", rows[1][5])
	}
}

func TestInterviewSinkDuplicatesOnRepeatSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.csv")
	sink := NewInterviewSink(NewLog(path))

	ev := &interview.Evaluation{
		CandidateName:  "John Smith",
		Recommendation: interview.RecommendMaybe,
		CompletedAt:    time.Now(),
	}

	if err := sink.SaveEvaluation(context.Background(), ev); err != nil {
		t.Fatalf("first save: %v", err)
	}
	if err := sink.SaveEvaluation(context.Background(), ev); err != nil {
		t.Fatalf("second save: %v", err)
	}

	rows := readRows(t, path)
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	for _, row := range rows[1:] {
		if row[4] != string(interview.RecommendMaybe) {
			t.Errorf("result column = %q", row[4])
		}
	}
}
