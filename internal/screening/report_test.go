package screening

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

func TestWriteReport(t *testing.T) {
	batch := &Batch{
		Cutoff: 0.5,
		Results: []Result{
			{Filename: "a.pdf", CandidateName: "Jane Doe", Email: "jane@corp.io", Score: 0.82, Status: StatusShortlisted},
			{Filename: "b.pdf", CandidateName: "John Smith", Score: 0.31, Status: StatusNotShortlisted},
		},
	}

	path := filepath.Join(t.TempDir(), "report.xlsx")
	if err := WriteReport(batch, path); err != nil {
		t.Fatalf("WriteReport: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening report: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Screening")
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[1][1] != "Jane Doe" {
		t.Errorf("first candidate = %q", rows[1][1])
	}
	if rows[2][6] != StatusNotShortlisted {
		t.Errorf("second status = %q", rows[2][6])
	}
}
