// Package features derives per-wallet behavioral feature vectors from a
// batch of lending-protocol transactions.
package features

import (
	"errors"

	"github.com/rs/zerolog"

	"wallet-credit-score/internal/domain"
)

// Stats describes one aggregation pass.
type Stats struct {
	Transactions     int
	Wallets          int
	ActionKinds      int
	MissingAmounts   int // absent amount, counted as 0
	MalformedAmounts int // non-numeric amount, counted as 0
}

// Aggregator computes the feature table of a transaction batch.
// It holds no state between calls; Aggregate is a pure function of its input.
type Aggregator struct {
	log zerolog.Logger
}

// NewAggregator creates a new feature aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{log: zerolog.Nop()}
}

// WithLogger sets the logger used for per-record diagnostics.
func (a *Aggregator) WithLogger(l zerolog.Logger) *Aggregator {
	a.log = l.With().Str("component", "features").Logger()
	return a
}

// Aggregate groups txs by wallet and computes one feature vector per wallet.
// Amounts that are absent or not numeric count as 0 and are reported in Stats.
// An empty batch yields an empty table.
func (a *Aggregator) Aggregate(txs []domain.Transaction) (*domain.FeatureTable, Stats) {
	stats := Stats{Transactions: len(txs)}
	table := domain.NewFeatureTable()
	if len(txs) == 0 {
		table.ActionKinds = []string{}
		return table, stats
	}

	accs := make(map[string]*walletAccumulator)
	for _, tx := range txs {
		amount, err := ParseAmount(tx.ActionData.Amount)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingAmount):
				stats.MissingAmounts++
			default:
				stats.MalformedAmounts++
			}
			a.log.Debug().
				Str("tx_hash", tx.TxHash).
				Str("wallet", tx.UserWallet).
				Str("amount", tx.ActionData.Amount).
				Err(err).
				Msg("amount coerced to 0")
		}

		acc, ok := accs[tx.UserWallet]
		if !ok {
			acc = newWalletAccumulator()
			accs[tx.UserWallet] = acc
		}
		acc.add(tx, amount)
	}

	for wallet, acc := range accs {
		table.Vectors[wallet] = acc.vector(wallet)
	}
	table.ActionKinds = unionKinds(accs)

	stats.Wallets = len(table.Vectors)
	stats.ActionKinds = len(table.ActionKinds)
	return table, stats
}
