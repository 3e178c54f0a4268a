// Package pipeline runs one scoring pass: load, aggregate, score, publish.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/features"
	"wallet-credit-score/internal/idhash"
	"wallet-credit-score/internal/ingestion"
	"wallet-credit-score/internal/observability"
	"wallet-credit-score/internal/scoring"
	"wallet-credit-score/internal/sink"
)

// ErrNoSource is returned by Run when the pipeline has no source.
var ErrNoSource = errors.New("pipeline: no transaction source")

// Pipeline scores one transaction batch and hands the result to its sinks.
type Pipeline struct {
	source     ingestion.Source
	aggregator *features.Aggregator
	combiner   *scoring.Combiner
	sinks      []sink.Sink
	metrics    *observability.Metrics // optional
	log        zerolog.Logger
	clock      func() time.Time
	newRunID   func() string
}

// New creates a pipeline reading from source and scoring with weights.
// The weights must already be valid.
func New(source ingestion.Source, weights scoring.Weights) *Pipeline {
	return &Pipeline{
		source:     source,
		aggregator: features.NewAggregator(),
		combiner:   scoring.NewCombiner(weights),
		log:        zerolog.Nop(),
		clock:      func() time.Time { return time.Now().UTC() },
		newRunID:   uuid.NewString,
	}
}

// WithSinks appends output sinks.
func (p *Pipeline) WithSinks(sinks ...sink.Sink) *Pipeline {
	p.sinks = append(p.sinks, sinks...)
	return p
}

// WithMetrics sets the metrics recorder.
func (p *Pipeline) WithMetrics(m *observability.Metrics) *Pipeline {
	p.metrics = m
	return p
}

// WithLogger sets the logger for the pipeline and its stages.
func (p *Pipeline) WithLogger(l zerolog.Logger) *Pipeline {
	p.log = l.With().Str("component", "pipeline").Logger()
	p.aggregator = p.aggregator.WithLogger(l)
	p.combiner = p.combiner.WithLogger(l)
	return p
}

// WithClock sets a custom clock function for deterministic output.
func (p *Pipeline) WithClock(clock func() time.Time) *Pipeline {
	p.clock = clock
	return p
}

// WithRunIDFunc sets the run id generator. Defaults to random UUIDs.
func (p *Pipeline) WithRunIDFunc(fn func() string) *Pipeline {
	p.newRunID = fn
	return p
}

// Run executes one scoring pass.
// The output is returned even when a sink fails, together with the sink error.
func (p *Pipeline) Run(ctx context.Context) (*domain.RunOutput, error) {
	start := p.clock()
	out, err := p.run(ctx)

	if p.metrics != nil {
		stats := observability.RunStats{
			Duration:   p.clock().Sub(start),
			FinishedAt: p.clock(),
			Err:        err,
		}
		if out != nil {
			stats.Transactions = out.Run.TransactionCount
			stats.MissingAmounts = out.Run.MissingAmounts
			stats.MalformedAmounts = out.Run.MalformedAmounts
			stats.SkippedFeatures = len(out.SkippedFeatures)
			stats.Scores = make([]float64, len(out.Scores))
			for i, s := range out.Scores {
				stats.Scores[i] = s.Score
			}
		}
		p.metrics.RecordRun(stats)
	}

	return out, err
}

func (p *Pipeline) run(ctx context.Context) (*domain.RunOutput, error) {
	if p.source == nil {
		return nil, ErrNoSource
	}

	// 1. Load
	txs, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 2. Aggregate
	table, stats := p.aggregator.Aggregate(txs)
	if stats.MissingAmounts+stats.MalformedAmounts > 0 {
		p.log.Warn().
			Int("missing", stats.MissingAmounts).
			Int("malformed", stats.MalformedAmounts).
			Msg("amounts counted as zero")
	}

	// 3. Score
	res := p.combiner.Combine(table)
	scores := scoring.Rank(res)
	if len(res.Skipped) > 0 {
		p.log.Info().Strs("features", res.Skipped).Msg("weighted features absent from batch")
	}

	weights := p.combiner.Weights()
	out := &domain.RunOutput{
		Run: domain.ScoreRun{
			RunID:            p.newRunID(),
			GeneratedAt:      p.clock(),
			DataVersion:      idhash.ComputeDataVersion(txs),
			WeightsVersion:   weights.Version(),
			TransactionCount: stats.Transactions,
			WalletCount:      table.Len(),
			MissingAmounts:   stats.MissingAmounts,
			MalformedAmounts: stats.MalformedAmounts,
		},
		Features:        table,
		Scores:          scores,
		Weights:         []domain.FeatureWeight(weights),
		SkippedFeatures: res.Skipped,
	}

	p.log.Info().
		Str("run_id", out.Run.RunID).
		Int("transactions", out.Run.TransactionCount).
		Int("wallets", out.Run.WalletCount).
		Msg("scoring complete")

	// 4. Publish
	if err := p.publish(ctx, out); err != nil {
		return out, err
	}
	return out, nil
}

// publish runs every sink concurrently and waits for all of them.
// A failing sink does not cancel the others; all failures are joined.
func (p *Pipeline) publish(ctx context.Context, out *domain.RunOutput) error {
	if len(p.sinks) == 0 {
		return nil
	}

	errs := make([]error, len(p.sinks))
	var g errgroup.Group
	for i, s := range p.sinks {
		g.Go(func() error {
			start := time.Now()
			err := s.Publish(ctx, out)
			if p.metrics != nil {
				p.metrics.RecordSink(s.Name(), time.Since(start), err)
			}
			if err != nil {
				p.log.Error().Err(err).Str("sink", s.Name()).Msg("publish failed")
				errs[i] = fmt.Errorf("sink %s: %w", s.Name(), err)
				return errs[i]
			}
			p.log.Debug().Str("sink", s.Name()).Msg("published")
			return nil
		})
	}
	if err := g.Wait(); err == nil {
		return nil
	}
	return errors.Join(errs...)
}
