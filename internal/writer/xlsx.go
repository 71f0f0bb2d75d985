package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/dvloznov/txnscan/internal/domain"
)

// SheetName is the worksheet the XLSX export writes to.
const SheetName = "Transactions"

// XLSXWriter writes flagged transactions to a single-sheet workbook.
// Outlier rows are highlighted.
type XLSXWriter struct{}

// WriteToFile writes flagged records to an .xlsx file at the given path.
func (w *XLSXWriter) WriteToFile(path string, flagged []domain.FlaggedRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	if err := w.Write(f, flagged); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file %q: %w", path, err)
	}
	return nil
}

// Write encodes flagged records as an XLSX workbook to out.
func (w *XLSXWriter) Write(out io.Writer, flagged []domain.FlaggedRecord) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, name := range Columns {
		if err := setCell(book, col+1, 1, name); err != nil {
			return err
		}
	}

	highlight, err := book.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, f := range flagged {
		r := i + 2
		values := []interface{}{f.Type, f.Amount, f.ID, f.Currency, int(f.Anomaly)}
		for col, v := range values {
			if err := setCell(book, col+1, r, v); err != nil {
				return err
			}
		}
		if f.Anomaly == domain.Outlier {
			first, _ := excelize.CoordinatesToCellName(1, r)
			last, _ := excelize.CoordinatesToCellName(len(Columns), r)
			if err := book.SetCellStyle(SheetName, first, last, highlight); err != nil {
				return fmt.Errorf("failed to style row %d: %w", r, err)
			}
		}
	}

	if err := book.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setCell(book *excelize.File, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("invalid cell (%d,%d): %w", col, row, err)
	}
	if err := book.SetCellValue(SheetName, cell, v); err != nil {
		return fmt.Errorf("failed to set %s: %w", cell, err)
	}
	return nil
}
