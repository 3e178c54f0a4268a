package reporting

import (
	"math"
	"sort"

	"wallet-credit-score/internal/domain"
)

// computeScoreStats summarizes scores. An empty slice yields zero stats.
func computeScoreStats(scores []domain.WalletScore) ScoreStats {
	n := len(scores)
	if n == 0 {
		return ScoreStats{}
	}

	values := make([]float64, n)
	for i, s := range scores {
		values[i] = s.Score
	}
	sort.Float64s(values)

	mean := computeMean(values)
	return ScoreStats{
		Mean:   mean,
		Median: computePercentile(values, 0.50),
		P10:    computePercentile(values, 0.10),
		P90:    computePercentile(values, 0.90),
		Min:    values[0],
		Max:    values[n-1],
		Stddev: computeStddev(values, mean),
	}
}

// computeMean calculates arithmetic mean of values.
func computeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// computeStddev calculates sample standard deviation (n-1 denominator).
func computeStddev(values []float64, mean float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(n-1))
}

// computePercentile uses linear interpolation.
// sorted must be pre-sorted ASC.
// p is percentile (0.10 = 10th percentile).
func computePercentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sorted[0]
	}

	idx := p * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}
