package generator

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/dvloznov/txnscan/internal/money"
)

const (
	// DefaultCount is the number of well-formed lines generated before the
	// anomaly catalogue is mixed in.
	DefaultCount = 38
	// DefaultMaxLines caps the final log.
	DefaultMaxLines = 50

	headerLayout = "2006-01-02 15:04:05"

	minAmount        = 100.0
	maxAmount        = 80000.0
	groupProbability = 0.3
)

var (
	types      = []string{"CREDIT", "DEBIT"}
	currencies = []string{"$", "₹", "€", "£"}
	idPrefixes = []string{"AB", "XY", "INR", "HH", "EURO", "TX", "CN", "US"}
)

// anomalyCatalogue holds hand-written lines that exercise the edge cases of
// the line parser. Some parse into odd records, others do not parse at all.
var anomalyCatalogue = []string{
	"TXN:DEBIT  | AMT:$250000.00 | ID:BIGTXN1",
	"TXN:CREDIT | AMT:-₹5000.00 | ID:NEG001",
	"TXN:DEBIT  | AMT:$0.00 | ID:ZERO001",
	"TXN:CREDIT | AMT:¤1234.56 | ID:UNKN01",
	"TXN:DEBIT  | AMT:$1500.00 | ID:OR'1'='1';--",
	"TXN:CREDIT | AMT:$250.00 | ID:<script>alert(1)</script>",
	"TXN:DEBIT  | AMT:$10000.00 | ID:DUP100",
	"TXN:CREDIT | AMT:$12000.00 | ID:DUP100",
	"MALFORMED ENTRY - AMT:$1000 ID:",
	"TXN:CREDIT | AMT:500USD | ID:SUF01",
	"TXN:DEBIT  | AMT:$0.05 | ID:FRAC01",
	"TXN:CREDIT | ID:MISSINGAMT",
}

// AnomalyCatalogue returns a copy of the injected anomaly lines.
func AnomalyCatalogue() []string {
	return append([]string(nil), anomalyCatalogue...)
}

// Config controls a generation run.
type Config struct {
	// Seed for the random source. Zero picks a random seed.
	Seed     int64
	Count    int
	MaxLines int
	// Now stamps the header. Defaults to time.Now.
	Now func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Count <= 0 {
		c.Count = DefaultCount
	}
	if c.MaxLines <= 0 {
		c.MaxLines = DefaultMaxLines
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Log is a generated transaction log.
type Log struct {
	GeneratedAt time.Time
	Lines       []string
}

// Generate builds Count well-formed lines, inserts every catalogue line at a
// random position, and truncates the result to MaxLines.
func Generate(cfg Config) *Log {
	cfg = cfg.withDefaults()
	f := gofakeit.New(cfg.Seed)

	lines := make([]string, 0, cfg.Count+len(anomalyCatalogue))
	for i := 0; i < cfg.Count; i++ {
		lines = append(lines, normalLine(f))
	}

	for _, a := range anomalyCatalogue {
		pos := f.Number(0, len(lines))
		lines = append(lines, "")
		copy(lines[pos+1:], lines[pos:])
		lines[pos] = a
	}

	if len(lines) > cfg.MaxLines {
		lines = lines[:cfg.MaxLines]
	}

	return &Log{GeneratedAt: cfg.Now(), Lines: lines}
}

func normalLine(f *gofakeit.Faker) string {
	typ := f.RandomString(types)
	cur := f.RandomString(currencies)
	amount := money.Round2(f.Float64Range(minAmount, maxAmount))
	id := fmt.Sprintf("%s%d", f.RandomString(idPrefixes), f.Number(10, 999))

	var amt string
	if f.Float64() < groupProbability {
		amt = money.Grouped(amount)
	} else {
		amt = money.Fixed2(amount)
	}

	return fmt.Sprintf("TXN:%-6s | AMT:%s%s | ID:%s", typ, cur, amt, id)
}

// Header is the first line of the log file.
func (l *Log) Header() string {
	return "# Transaction Log generated: " + l.GeneratedAt.Format(headerLayout)
}

// Text returns the header followed by every line, newline-terminated.
func (l *Log) Text() string {
	var b strings.Builder
	b.WriteString(l.Header())
	b.WriteByte('\n')
	for _, line := range l.Lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteLog writes the log in its plain text form.
func (l *Log) WriteLog(w io.Writer) error {
	if _, err := io.WriteString(w, l.Text()); err != nil {
		return fmt.Errorf("WriteLog: %w", err)
	}
	return nil
}
