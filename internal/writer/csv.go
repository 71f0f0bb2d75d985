package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/dvloznov/txnscan/internal/domain"
)

// Columns is the header row shared by every tabular export.
var Columns = []string{"Type", "Amount", "ID", "Currency", "Anomaly"}

// CSVWriter writes flagged transactions as CSV.
type CSVWriter struct {
	// Source, when set, is written as a leading "# Source" comment row.
	Source string
}

// WriteToFile writes flagged records to a CSV file at the given path.
func (w *CSVWriter) WriteToFile(path string, flagged []domain.FlaggedRecord) error {
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

// Write writes flagged records in CSV format to out.
func (w *CSVWriter) Write(out io.Writer, flagged []domain.FlaggedRecord) error {
	writer := csv.NewWriter(out)

	if w.Source != "" {
		if err := writer.Write([]string{"# Source", w.Source}); err != nil {
			return fmt.Errorf("failed to write CSV metadata: %w", err)
		}
	}

	if err := writer.Write(Columns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, f := range flagged {
		if err := writer.Write(row(f)); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func row(f domain.FlaggedRecord) []string {
	return []string{
		f.Type,
		strconv.FormatFloat(f.Amount, 'f', -1, 64),
		f.ID,
		f.Currency,
		strconv.Itoa(int(f.Anomaly)),
	}
}
