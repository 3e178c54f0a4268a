package features

import (
	"sort"

	"wallet-credit-score/internal/domain"
)

// walletAccumulator collects per-wallet state in a single pass over the batch.
type walletAccumulator struct {
	count        int
	sum          float64
	assets       map[string]struct{}
	minTs        int64
	maxTs        int64
	liquidations int
	actions      map[string]int
}

func newWalletAccumulator() *walletAccumulator {
	return &walletAccumulator{
		assets:  make(map[string]struct{}),
		actions: make(map[string]int),
	}
}

// add folds one transaction with its parsed amount into the accumulator.
func (acc *walletAccumulator) add(tx domain.Transaction, amount float64) {
	if acc.count == 0 || tx.Timestamp < acc.minTs {
		acc.minTs = tx.Timestamp
	}
	if acc.count == 0 || tx.Timestamp > acc.maxTs {
		acc.maxTs = tx.Timestamp
	}
	acc.count++
	acc.sum += amount

	if tx.ActionData.AssetSymbol != "" {
		acc.assets[tx.ActionData.AssetSymbol] = struct{}{}
	}
	if tx.Action == domain.ActionLiquidationCall {
		acc.liquidations++
	}
	acc.actions[tx.Action]++
}

// vector builds the feature vector for wallet from the accumulated state.
func (acc *walletAccumulator) vector(wallet string) *domain.FeatureVector {
	return &domain.FeatureVector{
		Wallet:               wallet,
		TotalTransactions:    acc.count,
		TotalVolume:          acc.sum,
		AvgTransactionVolume: computeMean(acc.sum, acc.count),
		UniqueAssets:         len(acc.assets),
		TransactionFrequency: computeFrequency(acc.minTs, acc.maxTs, acc.count),
		LiquidationEvents:    acc.liquidations,
		ActionCounts:         copyCounts(acc.actions),
		FirstSeen:            acc.minTs,
		LastSeen:             acc.maxTs,
	}
}

// computeMean calculates sum / count, 0 for an empty group.
func computeMean(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

// computeFrequency calculates the activity span divided by the transaction count.
// Lower values mean denser activity. A single transaction has no span and yields 0.
func computeFrequency(minTs, maxTs int64, count int) float64 {
	if count <= 1 {
		return 0
	}
	return float64(maxTs-minTs) / float64(count)
}

// unionKinds returns the sorted union of action kinds across all accumulators.
func unionKinds(accs map[string]*walletAccumulator) []string {
	seen := make(map[string]struct{})
	for _, acc := range accs {
		for kind := range acc.actions {
			seen[kind] = struct{}{}
		}
	}
	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

func copyCounts(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
