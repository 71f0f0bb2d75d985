package summary

import (
	"errors"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dvloznov/txnscan/internal/domain"
)

// ErrNoData is returned when there is nothing to summarize.
var ErrNoData = errors.New("summary: no transactions to summarize")

// TypeSummary holds the aggregate for one transaction type.
type TypeSummary struct {
	Type  string  `json:"type"`
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
}

// Summary is the per-type breakdown plus the grand total across all types.
type Summary struct {
	Types []TypeSummary `json:"types"`
	Total float64       `json:"total"`
	Count int           `json:"count"`
}

// Aggregate groups records by type and computes count, sum and mean of the
// amount for each group. Groups are ordered by type name.
func Aggregate(records []domain.Record) (*Summary, error) {
	if len(records) == 0 {
		return nil, ErrNoData
	}

	groups := make(map[string][]float64)
	for _, r := range records {
		groups[r.Type] = append(groups[r.Type], r.Amount)
	}

	types := make([]string, 0, len(groups))
	for t := range groups {
		types = append(types, t)
	}
	sort.Strings(types)

	s := &Summary{
		Types: make([]TypeSummary, 0, len(types)),
		Total: floats.Sum(domain.Amounts(records)),
		Count: len(records),
	}
	for _, t := range types {
		amounts := groups[t]
		s.Types = append(s.Types, TypeSummary{
			Type:  t,
			Count: len(amounts),
			Sum:   floats.Sum(amounts),
			Mean:  stat.Mean(amounts, nil),
		})
	}

	return s, nil
}

// ByType returns the aggregate for a single type, if present.
func (s *Summary) ByType(t string) (TypeSummary, bool) {
	for _, ts := range s.Types {
		if ts.Type == t {
			return ts, true
		}
	}
	return TypeSummary{}, false
}
