package anomaly

import (
	"fmt"

	"github.com/dvloznov/txnscan/internal/domain"
)

// Flag labels each value as normal or outlier. A fresh forest is fitted on
// every call. Fewer than two values are not meaningfully scoreable: an empty
// input yields an empty result and a single value comes back Unscored.
func Flag(values []float64, cfg Config) ([]domain.AnomalyLabel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	labels := make([]domain.AnomalyLabel, len(values))
	if len(values) < 2 {
		for i := range labels {
			labels[i] = domain.Unscored
		}
		return labels, nil
	}

	forest, err := Fit(values, cfg)
	if err != nil {
		return nil, fmt.Errorf("anomaly: fit: %w", err)
	}

	for i, score := range forest.ScoreSamples(values) {
		if score < forest.Threshold() {
			labels[i] = domain.Outlier
		} else {
			labels[i] = domain.Normal
		}
	}
	return labels, nil
}

// FlagRecords labels the amount of each record.
func FlagRecords(records []domain.Record, cfg Config) ([]domain.FlaggedRecord, error) {
	labels, err := Flag(domain.Amounts(records), cfg)
	if err != nil {
		return nil, err
	}

	out := make([]domain.FlaggedRecord, len(records))
	for i, r := range records {
		out[i] = domain.FlaggedRecord{Record: r, Anomaly: labels[i]}
	}
	return out, nil
}

// Outliers filters the flagged records down to the ones labeled Outlier.
func Outliers(flagged []domain.FlaggedRecord) []domain.FlaggedRecord {
	var out []domain.FlaggedRecord
	for _, f := range flagged {
		if f.Anomaly == domain.Outlier {
			out = append(out, f)
		}
	}
	return out
}
