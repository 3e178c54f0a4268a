package domain

import "sort"

// Scalar feature column names.
const (
	FeatureTotalTransactions    = "total_transactions"
	FeatureTotalVolume          = "total_volume"
	FeatureAvgTransactionVolume = "avg_transaction_volume"
	FeatureUniqueAssets         = "unique_assets"
	FeatureTransactionFrequency = "transaction_frequency"
	FeatureLiquidationEvents    = "liquidation_events"
)

// ScalarFeatures lists the scalar columns in output order.
var ScalarFeatures = []string{
	FeatureTotalTransactions,
	FeatureTotalVolume,
	FeatureAvgTransactionVolume,
	FeatureUniqueAssets,
	FeatureTransactionFrequency,
	FeatureLiquidationEvents,
}

// IsScalarFeature reports whether name is one of the scalar feature columns.
func IsScalarFeature(name string) bool {
	for _, f := range ScalarFeatures {
		if f == name {
			return true
		}
	}
	return false
}

// FeatureVector is the behavioral profile of one wallet derived from its transactions.
type FeatureVector struct {
	Wallet               string
	TotalTransactions    int
	TotalVolume          float64
	AvgTransactionVolume float64
	UniqueAssets         int
	TransactionFrequency float64 // (last - first) seconds / count, 0 for a single transaction
	LiquidationEvents    int

	// ActionCounts is a sparse histogram over action kinds.
	// Kinds the wallet never performed are absent and read as 0.
	ActionCounts map[string]int

	FirstSeen int64 // Unix seconds
	LastSeen  int64 // Unix seconds
}

// ActionCount returns the number of transactions of the given kind, 0 if none.
func (v *FeatureVector) ActionCount(kind string) int {
	if v == nil || v.ActionCounts == nil {
		return 0
	}
	return v.ActionCounts[kind]
}

// Scalar returns the value of a scalar feature column.
// The second result is false if name is not a scalar feature.
func (v *FeatureVector) Scalar(name string) (float64, bool) {
	switch name {
	case FeatureTotalTransactions:
		return float64(v.TotalTransactions), true
	case FeatureTotalVolume:
		return v.TotalVolume, true
	case FeatureAvgTransactionVolume:
		return v.AvgTransactionVolume, true
	case FeatureUniqueAssets:
		return float64(v.UniqueAssets), true
	case FeatureTransactionFrequency:
		return v.TransactionFrequency, true
	case FeatureLiquidationEvents:
		return float64(v.LiquidationEvents), true
	default:
		return 0, false
	}
}

// FeatureTable is the per-wallet feature set of one batch.
type FeatureTable struct {
	Vectors map[string]*FeatureVector // keyed by wallet address

	// ActionKinds is the sorted union of action kinds observed anywhere in the batch.
	// Each kind is a column of the table.
	ActionKinds []string
}

// NewFeatureTable creates an empty feature table.
func NewFeatureTable() *FeatureTable {
	return &FeatureTable{
		Vectors: make(map[string]*FeatureVector),
	}
}

// Len returns the number of wallets.
func (t *FeatureTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Vectors)
}

// Wallets returns wallet addresses sorted ASC.
// All column-oriented accessors use this order.
func (t *FeatureTable) Wallets() []string {
	if t == nil {
		return nil
	}
	wallets := make([]string, 0, len(t.Vectors))
	for w := range t.Vectors {
		wallets = append(wallets, w)
	}
	sort.Strings(wallets)
	return wallets
}

// Columns returns all column names: scalar features first, then action kinds.
func (t *FeatureTable) Columns() []string {
	cols := make([]string, 0, len(ScalarFeatures)+len(t.ActionKinds))
	cols = append(cols, ScalarFeatures...)
	for _, k := range t.ActionKinds {
		if !IsScalarFeature(k) {
			cols = append(cols, k)
		}
	}
	return cols
}

// HasColumn reports whether feature is a column of this table.
// Scalar features are always present; an action kind is present only if
// at least one wallet in the batch performed it.
func (t *FeatureTable) HasColumn(feature string) bool {
	if IsScalarFeature(feature) {
		return true
	}
	if t == nil {
		return false
	}
	i := sort.SearchStrings(t.ActionKinds, feature)
	return i < len(t.ActionKinds) && t.ActionKinds[i] == feature
}

// Value returns the value of feature for wallet.
// Scalar names take precedence over an action kind with the same name.
// Unknown wallets and absent action counts read as 0.
func (t *FeatureTable) Value(wallet, feature string) float64 {
	v, ok := t.Vectors[wallet]
	if !ok {
		return 0
	}
	if s, ok := v.Scalar(feature); ok {
		return s
	}
	return float64(v.ActionCount(feature))
}

// Column returns the values of feature for every wallet, in Wallets() order.
// The second result is false if feature is not a column of this table.
func (t *FeatureTable) Column(feature string) ([]float64, bool) {
	if !t.HasColumn(feature) {
		return nil, false
	}
	wallets := t.Wallets()
	values := make([]float64, len(wallets))
	for i, w := range wallets {
		values[i] = t.Value(w, feature)
	}
	return values, true
}
