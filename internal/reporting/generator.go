package reporting

import (
	"context"
	"fmt"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// DefaultTopN is the number of wallets listed at each end of the ranking.
const DefaultTopN = 10

// BuildReport assembles the report of a finished run.
// topN <= 0 selects DefaultTopN.
func BuildReport(out *domain.RunOutput, topN int) *Report {
	r := newReport(&out.Run, out.Scores, topN)

	skipped := make(map[string]struct{}, len(out.SkippedFeatures))
	for _, f := range out.SkippedFeatures {
		skipped[f] = struct{}{}
	}
	r.Weights = make([]WeightRow, len(out.Weights))
	for i, w := range out.Weights {
		_, isSkipped := skipped[w.Feature]
		r.Weights[i] = WeightRow{Feature: w.Feature, Weight: w.Weight, Applied: !isSkipped}
	}
	r.SkippedFeatures = append([]string(nil), out.SkippedFeatures...)

	return r
}

// Generator rebuilds reports of stored runs.
type Generator struct {
	runStore   storage.ScoreRunStore
	scoreStore storage.WalletScoreStore
	topN       int
}

// NewGenerator creates a new report generator.
func NewGenerator(runStore storage.ScoreRunStore, scoreStore storage.WalletScoreStore) *Generator {
	return &Generator{
		runStore:   runStore,
		scoreStore: scoreStore,
		topN:       DefaultTopN,
	}
}

// WithTopN sets the number of wallets listed at each end of the ranking.
func (g *Generator) WithTopN(n int) *Generator {
	g.topN = n
	return g
}

// Generate produces the report of a stored run.
// An empty runID selects the latest run.
func (g *Generator) Generate(ctx context.Context, runID string) (*Report, error) {
	var (
		run *domain.ScoreRun
		err error
	)
	if runID == "" {
		run, err = g.runStore.GetLatest(ctx)
	} else {
		run, err = g.runStore.GetByID(ctx, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("load run: %w", err)
	}

	scores, err := g.scoreStore.GetByRun(ctx, run.RunID)
	if err != nil {
		return nil, fmt.Errorf("load scores: %w", err)
	}

	return newReport(run, scores, g.topN), nil
}

func newReport(run *domain.ScoreRun, scores []domain.WalletScore, topN int) *Report {
	if topN <= 0 {
		topN = DefaultTopN
	}

	return &Report{
		RunID:          run.RunID,
		GeneratedAt:    run.GeneratedAt,
		DataVersion:    run.DataVersion,
		WeightsVersion: run.WeightsVersion,
		Summary: DataSummary{
			Transactions:     run.TransactionCount,
			Wallets:          run.WalletCount,
			MissingAmounts:   run.MissingAmounts,
			MalformedAmounts: run.MalformedAmounts,
		},
		Distribution: computeScoreStats(scores),
		Histogram:    BuildHistogram(scores),
		Top:          head(scores, topN),
		Bottom:       tail(scores, topN),
	}
}

// head returns a copy of the first n rows.
func head(scores []domain.WalletScore, n int) []domain.WalletScore {
	if n > len(scores) {
		n = len(scores)
	}
	return append([]domain.WalletScore(nil), scores[:n]...)
}

// tail returns a copy of the last n rows, lowest score first.
func tail(scores []domain.WalletScore, n int) []domain.WalletScore {
	if n > len(scores) {
		n = len(scores)
	}
	out := make([]domain.WalletScore, n)
	for i := 0; i < n; i++ {
		out[i] = scores[len(scores)-1-i]
	}
	return out
}
