package reporting

import (
	"time"

	"wallet-credit-score/internal/domain"
)

// Report represents the score report of one run.
type Report struct {
	// Metadata
	RunID          string
	GeneratedAt    time.Time
	DataVersion    string
	WeightsVersion string

	Summary      DataSummary
	Distribution ScoreStats
	Histogram    []HistogramBucket

	// Top and Bottom list the highest and lowest ranked wallets
	Top    []domain.WalletScore
	Bottom []domain.WalletScore

	// Weights is empty when the report is rebuilt from stored scores
	Weights         []WeightRow
	SkippedFeatures []string
}

// DataSummary describes the scored batch.
type DataSummary struct {
	Transactions     int
	Wallets          int
	MissingAmounts   int
	MalformedAmounts int
}

// ScoreStats summarizes the score distribution.
type ScoreStats struct {
	Mean   float64
	Median float64
	P10    float64
	P90    float64
	Min    float64
	Max    float64
	Stddev float64 // sample standard deviation, 0 for fewer than 2 wallets
}

// HistogramBucket is one bar of the score distribution.
type HistogramBucket struct {
	Label string // e.g. "300-400"
	Lo    float64
	Hi    float64
	Count int
}

// WeightRow is one entry of the applied weight policy.
type WeightRow struct {
	Feature string
	Weight  float64
	Applied bool // false if the feature was not a column of the batch
}
