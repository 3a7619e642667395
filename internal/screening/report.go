package screening

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteReport exports the ranked screening results as an Excel workbook.
func WriteReport(batch *Batch, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Screening"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("creating report sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("dropping default sheet: %w", err)
	}

	headers := []string{"Rank", "Candidate", "Email", "Phone", "File", "Score", "Status"}
	for col, title := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("addressing header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, res := range batch.Results {
		row := i + 2
		values := []any{
			i + 1,
			res.CandidateName,
			res.Email,
			res.Phone,
			res.Filename,
			fmt.Sprintf("%.4f", res.Score),
			res.Status,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("addressing result cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("writing result row %d: %w", row, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}
