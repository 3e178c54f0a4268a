package sink

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/reporting"
)

// Output file names.
const (
	ScoresFile   = "wallet_scores.csv"
	FeaturesFile = "wallet_features.csv"
	ChartFile    = "score_distribution.svg"
	ReportFile   = "SCORE_REPORT.md"
)

// FileSink writes the score table, feature table, distribution chart and
// report of a run into a directory.
type FileSink struct {
	dir  string
	topN int
}

// NewFileSink creates a sink writing into dir. The directory is created on publish.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir, topN: reporting.DefaultTopN}
}

// WithTopN sets the number of wallets listed at each end of the report ranking.
func (s *FileSink) WithTopN(n int) *FileSink {
	s.topN = n
	return s
}

// Name returns the sink name.
func (s *FileSink) Name() string { return "file" }

// Dir returns the output directory.
func (s *FileSink) Dir() string { return s.dir }

// Publish renders every artifact in memory, then writes them.
func (s *FileSink) Publish(ctx context.Context, out *domain.RunOutput) error {
	var scores, features bytes.Buffer
	if err := reporting.RenderScoresCSV(&scores, out.Scores); err != nil {
		return fmt.Errorf("render scores: %w", err)
	}
	table := out.Features
	if table == nil {
		table = domain.NewFeatureTable()
	}
	if err := reporting.RenderFeaturesCSV(&features, table); err != nil {
		return fmt.Errorf("render features: %w", err)
	}

	report := reporting.BuildReport(out, s.topN)
	chart := reporting.RenderHistogramSVG(report.Histogram)
	markdown := reporting.RenderMarkdown(report)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name string
		data []byte
	}{
		{ScoresFile, scores.Bytes()},
		{FeaturesFile, features.Bytes()},
		{ChartFile, []byte(chart)},
		{ReportFile, []byte(markdown)},
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(s.dir, f.name), f.data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", f.name, err)
		}
	}
	return nil
}
