package pipeline

import (
	"github.com/dvloznov/txnscan/internal/domain"
	"github.com/dvloznov/txnscan/internal/summary"
)

// Notices returned in Result.Message when there is nothing to analyze.
const (
	NoInputNotice        = "⚠️ No valid input text found."
	NoTransactionsNotice = "⚠️ No valid transactions found in this file."
)

// Input is one analysis request. A file, when named, wins over pasted text.
type Input struct {
	Filename string
	Data     []byte
	Text     string
}

// HasFile reports whether a file was supplied.
func (in Input) HasFile() bool {
	return in.Filename != ""
}

// Result is the outcome of one analysis run. When Message is set the run
// stopped early and the remaining fields are empty.
type Result struct {
	RunID    string                 `json:"run_id"`
	Source   string                 `json:"source,omitempty"`
	Message  string                 `json:"message,omitempty"`
	Records  []domain.Record        `json:"-"`
	Flagged  []domain.FlaggedRecord `json:"transactions"`
	Summary  *summary.Summary       `json:"summary,omitempty"`
	Markdown string                 `json:"markdown,omitempty"`
	Chart    []byte                 `json:"-"`
}

// Outliers counts the records labeled as outliers.
func (r *Result) Outliers() int {
	n := 0
	for _, f := range r.Flagged {
		if f.Anomaly == domain.Outlier {
			n++
		}
	}
	return n
}
