// Package audit keeps an append-only CSV trail of screening and interview
// outcomes. The file is a flat export for recruiters, not a source of truth.
package audit

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

var header = []string{
	"candidate_name",
	"email",
	"phone",
	"matching_keywords",
	"screening_result",
	"timestamp",
}

// Entry is one row of the audit trail.
type Entry struct {
	CandidateName    string
	Email            string
	Phone            string
	MatchingKeywords []string
	ScreeningResult  string
	Timestamp        time.Time
}

// Log appends entries to a CSV file, writing the header when the file is new.
type Log struct {
	mu   sync.Mutex
	path string
}

// NewLog creates a log writing to path. The file itself is created lazily on
// the first append.
func NewLog(path string) *Log {
	return &Log{path: path}
}

// Path returns the location of the CSV file.
func (l *Log) Path() string {
	return l.path
}

// Append writes one row. Repeated appends for the same candidate produce
// repeated rows.
func (l *Log) Append(entry Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	needsHeader := false
	if info, err := os.Stat(l.path); os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		needsHeader = true
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("writing audit header: %w", err)
		}
	}

	ts := entry.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	row := []string{
		entry.CandidateName,
		entry.Email,
		entry.Phone,
		strings.Join(entry.MatchingKeywords, "; "),
		entry.ScreeningResult,
		ts.Format("2006-01-02 15:04:05"),
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("writing audit row: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing audit log: %w", err)
	}
	return nil
}
