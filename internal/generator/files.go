package generator

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	LogFileName = "transactions_fixed.log"
	PDFFileName = "transactions.pdf"
)

// WriteFiles writes the log and its PDF rendering into dir, creating it if
// needed, and returns both paths.
func (l *Log) WriteFiles(dir string, opts PDFOptions) (logPath, pdfPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", fmt.Errorf("WriteFiles: create dir: %w", err)
	}

	logPath = filepath.Join(dir, LogFileName)
	if err := writeFile(logPath, func(f *os.File) error { return l.WriteLog(f) }); err != nil {
		return "", "", err
	}

	pdfPath = filepath.Join(dir, PDFFileName)
	if err := writeFile(pdfPath, func(f *os.File) error { return l.WritePDF(f, opts) }); err != nil {
		return "", "", err
	}

	return logPath, pdfPath, nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("WriteFiles: create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("WriteFiles: close %s: %w", path, err)
	}
	return nil
}
