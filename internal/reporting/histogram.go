package reporting

import "wallet-credit-score/internal/domain"

// BuildHistogram counts scores into the fixed distribution buckets.
// All buckets are returned, including empty ones.
func BuildHistogram(scores []domain.WalletScore) []HistogramBucket {
	buckets := make([]HistogramBucket, domain.ScoreBuckets)
	for i := range buckets {
		lo := domain.ScoreMin + float64(i)*domain.BucketWidth
		buckets[i] = HistogramBucket{
			Label: domain.BucketLabel(i),
			Lo:    lo,
			Hi:    lo + domain.BucketWidth,
		}
	}
	for _, s := range scores {
		buckets[domain.BucketIndex(s.Score)].Count++
	}
	return buckets
}

// maxCount returns the largest bucket count.
func maxCount(buckets []HistogramBucket) int {
	m := 0
	for _, b := range buckets {
		if b.Count > m {
			m = b.Count
		}
	}
	return m
}
