// Package anomaly flags outlying transaction amounts with an isolation forest
// fitted on the amount column alone.
package anomaly

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const eulerGamma = 0.5772156649015329

// Config holds the isolation forest parameters.
type Config struct {
	// Contamination is the expected proportion of outliers, in (0, 0.5].
	Contamination float64
	// RandomSeed makes tree construction reproducible.
	RandomSeed int64
	// Trees is the number of isolation trees.
	Trees int
	// MaxSamples caps the subsample drawn for each tree.
	MaxSamples int
}

// DefaultConfig returns the parameters used by the extractor.
func DefaultConfig() Config {
	return Config{
		Contamination: 0.15,
		RandomSeed:    42,
		Trees:         100,
		MaxSamples:    256,
	}
}

// Validate checks that the parameters are usable.
func (c Config) Validate() error {
	if c.Contamination <= 0 || c.Contamination > 0.5 {
		return fmt.Errorf("anomaly: contamination must be in (0, 0.5], got %v", c.Contamination)
	}
	if c.Trees < 1 {
		return fmt.Errorf("anomaly: trees must be positive, got %d", c.Trees)
	}
	if c.MaxSamples < 2 {
		return fmt.Errorf("anomaly: max samples must be at least 2, got %d", c.MaxSamples)
	}
	return nil
}

// ErrTooFewSamples is returned by Fit when fewer than two values are given.
var ErrTooFewSamples = errors.New("anomaly: at least two samples are required")

type node struct {
	leaf  bool
	size  int
	split float64
	left  *node
	right *node
}

// Forest is a fitted isolation forest over one feature.
type Forest struct {
	trees      []*node
	sampleSize int
	threshold  float64
}

// Fit builds the forest and derives the outlier threshold from the
// training scores.
func Fit(values []float64, cfg Config) (*Forest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(values) < 2 {
		return nil, ErrTooFewSamples
	}

	rng := rand.New(rand.NewSource(cfg.RandomSeed))

	sampleSize := cfg.MaxSamples
	if len(values) < sampleSize {
		sampleSize = len(values)
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sampleSize))))

	f := &Forest{
		trees:      make([]*node, cfg.Trees),
		sampleSize: sampleSize,
	}
	sample := make([]float64, sampleSize)
	for i := range f.trees {
		perm := rng.Perm(len(values))
		for j := 0; j < sampleSize; j++ {
			sample[j] = values[perm[j]]
		}
		f.trees[i] = grow(rng, append([]float64(nil), sample...), 0, maxDepth)
	}

	scores := f.ScoreSamples(values)
	sort.Float64s(scores)
	f.threshold = percentile(scores, cfg.Contamination)

	return f, nil
}

func grow(rng *rand.Rand, xs []float64, depth, maxDepth int) *node {
	if depth >= maxDepth || len(xs) <= 1 {
		return &node{leaf: true, size: len(xs)}
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	if lo == hi {
		return &node{leaf: true, size: len(xs)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right []float64
	for _, x := range xs {
		if x < split {
			left = append(left, x)
		} else {
			right = append(right, x)
		}
	}

	return &node{
		size:  len(xs),
		split: split,
		left:  grow(rng, left, depth+1, maxDepth),
		right: grow(rng, right, depth+1, maxDepth),
	}
}

// percentile interpolates linearly between the closest ranks of sorted at
// fraction p. Unlike stat.LinInterp it stays above the minimum for small
// samples, so the lowest score can fall under the threshold.
func percentile(sorted []float64, p float64) float64 {
	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	return sorted[lo] + (h-float64(lo))*(sorted[lo+1]-sorted[lo])
}

// averagePathLength is c(n), the mean path length of an unsuccessful search
// in a binary search tree of n points.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	default:
		fn := float64(n)
		return 2*(math.Log(fn-1)+eulerGamma) - 2*(fn-1)/fn
	}
}

func pathLength(n *node, x float64, depth int) float64 {
	for !n.leaf {
		if x < n.split {
			n = n.left
		} else {
			n = n.right
		}
		depth++
	}
	return float64(depth) + averagePathLength(n.size)
}

// ScoreSamples returns the negated anomaly score of each value: values near
// -1 are isolated quickly, values near -0.5 or above look normal.
func (f *Forest) ScoreSamples(values []float64) []float64 {
	norm := averagePathLength(f.sampleSize)
	depths := make([]float64, len(f.trees))
	scores := make([]float64, len(values))
	for i, x := range values {
		for j, t := range f.trees {
			depths[j] = pathLength(t, x, 0)
		}
		scores[i] = -math.Pow(2, -stat.Mean(depths, nil)/norm)
	}
	return scores
}

// Threshold is the score below which a value is labeled an outlier.
func (f *Forest) Threshold() float64 {
	return f.threshold
}

// IsOutlier reports whether x scores below the fitted threshold.
func (f *Forest) IsOutlier(x float64) bool {
	return f.ScoreSamples([]float64{x})[0] < f.threshold
}
