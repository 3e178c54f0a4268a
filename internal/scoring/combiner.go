// Package scoring turns a feature table into per-wallet credit scores.
package scoring

import (
	"sort"

	"github.com/rs/zerolog"

	"wallet-credit-score/internal/domain"
)

// Result holds the intermediate and final values of one scoring pass.
// All slices are indexed in Wallets order.
type Result struct {
	Wallets    []string
	Normalized map[string][]float64 // feature → values in [0,1]
	Raw        []float64            // weighted sums before rescale
	Scores     []float64            // final values in [0,1000]
	Applied    []domain.FeatureWeight
	Skipped    []string // weighted features that are not columns of the table
}

// Combiner applies a weight policy to feature tables.
type Combiner struct {
	weights Weights
	log     zerolog.Logger
}

// NewCombiner creates a combiner for the given policy.
// The policy is copied; later changes to w do not affect the combiner.
func NewCombiner(w Weights) *Combiner {
	cp := make(Weights, len(w))
	copy(cp, w)
	return &Combiner{weights: cp, log: zerolog.Nop()}
}

// WithLogger sets the logger.
func (c *Combiner) WithLogger(l zerolog.Logger) *Combiner {
	c.log = l.With().Str("component", "scoring").Logger()
	return c
}

// Weights returns a copy of the policy.
func (c *Combiner) Weights() Weights {
	cp := make(Weights, len(c.weights))
	copy(cp, c.weights)
	return cp
}

// Combine normalizes each weighted column to [0,1], sums the weighted
// columns per wallet and rescales the sums to [0,1000].
func (c *Combiner) Combine(table *domain.FeatureTable) *Result {
	wallets := table.Wallets()
	res := &Result{
		Wallets:    wallets,
		Normalized: make(map[string][]float64),
		Raw:        make([]float64, len(wallets)),
	}

	for _, fw := range c.weights {
		column, ok := table.Column(fw.Feature)
		if !ok {
			res.Skipped = append(res.Skipped, fw.Feature)
			c.log.Debug().Str("feature", fw.Feature).Msg("weighted feature not present, skipped")
			continue
		}
		norm := MinMax(column, UnitRange)
		res.Normalized[fw.Feature] = norm
		res.Applied = append(res.Applied, fw)

		for i, v := range norm {
			res.Raw[i] += fw.Weight * v
		}
	}

	res.Scores = MinMax(res.Raw, ScoreRange)
	return res
}

// Score returns the published score table, sorted by score DESC then wallet ASC.
// An empty table yields an empty, non-nil slice.
func (c *Combiner) Score(table *domain.FeatureTable) []domain.WalletScore {
	return Rank(c.Combine(table))
}

// Rank builds ranked score rows from a scoring result.
func Rank(res *Result) []domain.WalletScore {
	rows := make([]domain.WalletScore, len(res.Wallets))
	for i, w := range res.Wallets {
		rows[i] = domain.WalletScore{Wallet: w, Score: res.Scores[i]}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].Wallet < rows[j].Wallet
	})

	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Band = domain.BucketLabel(domain.BucketIndex(rows[i].Score))
	}
	return rows
}
