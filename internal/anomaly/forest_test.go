package anomaly

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dvloznov/txnscan/internal/domain"
)

func sampleAmounts() []float64 {
	values := make([]float64, 0, 21)
	for i := 1; i <= 20; i++ {
		values = append(values, float64(i*100))
	}
	return append(values, 1_000_000)
}

func TestFlag_Deterministic(t *testing.T) {
	values := sampleAmounts()

	first, err := Flag(values, DefaultConfig())
	require.NoError(t, err)
	second, err := Flag(values, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestFit_ScoresAreReproducible(t *testing.T) {
	values := sampleAmounts()

	a, err := Fit(values, DefaultConfig())
	require.NoError(t, err)
	b, err := Fit(values, DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, a.ScoreSamples(values), b.ScoreSamples(values))
	assert.Equal(t, a.Threshold(), b.Threshold())
}

func TestFlag_ExtremeValueIsOutlier(t *testing.T) {
	values := sampleAmounts()

	labels, err := Flag(values, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, labels, len(values))

	assert.Equal(t, domain.Outlier, labels[len(labels)-1])

	outliers := 0
	for _, l := range labels {
		assert.NotEqual(t, domain.Unscored, l)
		if l == domain.Outlier {
			outliers++
		}
	}
	// contamination 0.15 of 21 samples
	assert.LessOrEqual(t, outliers, 4)
}

func TestFit_ExtremeValueScoresLowest(t *testing.T) {
	values := sampleAmounts()
	f, err := Fit(values, DefaultConfig())
	require.NoError(t, err)

	scores := f.ScoreSamples(values)
	extreme := scores[len(scores)-1]
	for _, s := range scores[:len(scores)-1] {
		assert.Less(t, extreme, s)
	}
	assert.True(t, f.IsOutlier(1_000_000))
}

func TestFlag_ConstantValuesAreNormal(t *testing.T) {
	labels, err := Flag([]float64{5, 5, 5, 5, 5}, DefaultConfig())
	require.NoError(t, err)
	for _, l := range labels {
		assert.Equal(t, domain.Normal, l)
	}
}

func TestFlag_DegenerateInputs(t *testing.T) {
	labels, err := Flag(nil, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, labels)

	labels, err = Flag([]float64{250000}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []domain.AnomalyLabel{domain.Unscored}, labels)
}

func TestFit_TooFewSamples(t *testing.T) {
	_, err := Fit([]float64{1}, DefaultConfig())
	if !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(c *Config) {}, false},
		{"zero contamination", func(c *Config) { c.Contamination = 0 }, true},
		{"contamination above half", func(c *Config) { c.Contamination = 0.6 }, true},
		{"no trees", func(c *Config) { c.Trees = 0 }, true},
		{"tiny subsample", func(c *Config) { c.MaxSamples = 1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, percentile(sorted, 0))
	assert.InDelta(t, 1.6, percentile(sorted, 0.15), 1e-9)
	assert.Equal(t, 3.0, percentile(sorted, 0.5))
	assert.Equal(t, 5.0, percentile(sorted, 1))
	assert.Equal(t, 7.0, percentile([]float64{7}, 0.15))
}

func TestFlag_SmallSample(t *testing.T) {
	labels, err := Flag([]float64{100, 120, 110, 130, 250000}, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, domain.Outlier, labels[4])
	for _, l := range labels[:4] {
		assert.Equal(t, domain.Normal, l)
	}
}

func TestAveragePathLength(t *testing.T) {
	assert.Equal(t, 0.0, averagePathLength(0))
	assert.Equal(t, 0.0, averagePathLength(1))
	assert.Equal(t, 1.0, averagePathLength(2))
	assert.InDelta(t, 10.24, averagePathLength(256), 0.01)
}

func TestFlagRecords(t *testing.T) {
	records := make([]domain.Record, 0, 21)
	for i, v := range sampleAmounts() {
		records = append(records, domain.Record{Type: "DEBIT", Amount: v, ID: string(rune('A' + i))})
	}

	flagged, err := FlagRecords(records, DefaultConfig())
	require.NoError(t, err)
	require.Len(t, flagged, len(records))
	assert.Equal(t, records[0], flagged[0].Record)

	out := Outliers(flagged)
	require.NotEmpty(t, out)
	assert.Contains(t, out, flagged[len(flagged)-1])
}
