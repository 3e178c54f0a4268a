package domain

import (
	"fmt"
	"time"
)

// Published score range and distribution buckets.
const (
	ScoreMin     = 0.0
	ScoreMax     = 1000.0
	ScoreBuckets = 10
	BucketWidth  = (ScoreMax - ScoreMin) / ScoreBuckets
)

// WalletScore is the published credit score of one wallet within one run.
type WalletScore struct {
	Wallet string
	Score  float64 // in [ScoreMin, ScoreMax], relative to the batch
	Rank   int     // 1 = highest score; ties ordered by wallet ASC
	Band   string  // distribution bucket label, e.g. "300-400"
}

// BucketIndex returns the distribution bucket of score.
// Buckets are half-open [lo, lo+100) except the last, which includes ScoreMax.
// Out-of-range scores are clamped to the first or last bucket.
func BucketIndex(score float64) int {
	idx := int((score - ScoreMin) / BucketWidth)
	if idx < 0 {
		return 0
	}
	if idx >= ScoreBuckets {
		return ScoreBuckets - 1
	}
	return idx
}

// BucketLabel returns the label of bucket idx, e.g. "300-400".
func BucketLabel(idx int) string {
	lo := ScoreMin + float64(idx)*BucketWidth
	return fmt.Sprintf("%.0f-%.0f", lo, lo+BucketWidth)
}

// FeatureWeight is one entry of the scoring policy.
type FeatureWeight struct {
	Feature string
	Weight  float64
}

// ScoreRun describes one execution of the scoring pipeline.
// Corresponds to score_runs table.
type ScoreRun struct {
	RunID            string
	GeneratedAt      time.Time
	DataVersion      string // SHA256 over sorted transaction ids
	WeightsVersion   string // SHA256 over the weight policy
	TransactionCount int
	WalletCount      int
	MissingAmounts   int
	MalformedAmounts int
}

// RunOutput is everything one run produced. Sinks must treat it as read-only.
type RunOutput struct {
	Run             ScoreRun
	Features        *FeatureTable
	Scores          []WalletScore // sorted by Rank
	Weights         []FeatureWeight
	SkippedFeatures []string // weighted features absent from the batch
}
