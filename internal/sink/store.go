package sink

import (
	"context"
	"fmt"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/storage"
)

// StoreSink persists the run record, the score table and optionally the
// feature vectors.
type StoreSink struct {
	name     string
	runs     storage.ScoreRunStore
	scores   storage.WalletScoreStore
	features storage.FeatureStore
}

// NewStoreSink creates a sink over the given stores.
// runs and features may be nil; a nil runs store is used for analytical
// stores that keep no run table.
func NewStoreSink(runs storage.ScoreRunStore, scores storage.WalletScoreStore, features storage.FeatureStore) *StoreSink {
	return &StoreSink{name: "store", runs: runs, scores: scores, features: features}
}

// Named sets the sink name used in logs and metrics.
func (s *StoreSink) Named(name string) *StoreSink {
	s.name = name
	return s
}

// Name returns the sink name.
func (s *StoreSink) Name() string { return s.name }

// Publish writes the run first so score rows can reference it.
func (s *StoreSink) Publish(ctx context.Context, out *domain.RunOutput) error {
	run := out.Run
	if s.runs != nil {
		if err := s.runs.Insert(ctx, &run); err != nil {
			return fmt.Errorf("insert run: %w", err)
		}
	}

	if err := s.scores.InsertBulk(ctx, run.RunID, out.Scores); err != nil {
		return fmt.Errorf("insert scores: %w", err)
	}

	if s.features != nil && out.Features != nil {
		wallets := out.Features.Wallets()
		vectors := make([]*domain.FeatureVector, len(wallets))
		for i, w := range wallets {
			vectors[i] = out.Features.Vectors[w]
		}
		if err := s.features.InsertBulk(ctx, run.RunID, vectors); err != nil {
			return fmt.Errorf("insert features: %w", err)
		}
	}

	return nil
}
