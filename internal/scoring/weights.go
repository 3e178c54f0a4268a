package scoring

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/idhash"
)

// ErrInvalidWeights is returned when a weight policy cannot be used for scoring.
var ErrInvalidWeights = errors.New("invalid weights")

// Weights is an ordered scoring policy: feature column name → signed weight.
// Order is preserved so that reports and the weights version are reproducible.
type Weights []domain.FeatureWeight

// DefaultWeights returns the built-in policy.
// Activity, volume and asset diversity are rewarded, liquidations are penalized.
// transaction_frequency is seconds per transaction, so its negative weight
// penalizes wallets with long gaps between transactions.
func DefaultWeights() Weights {
	return Weights{
		{Feature: domain.FeatureTotalTransactions, Weight: 0.15},
		{Feature: domain.FeatureTotalVolume, Weight: 0.20},
		{Feature: domain.FeatureAvgTransactionVolume, Weight: 0.15},
		{Feature: domain.FeatureUniqueAssets, Weight: 0.10},
		{Feature: domain.FeatureTransactionFrequency, Weight: -0.10},
		{Feature: domain.ActionLiquidationCall, Weight: -0.30},
		{Feature: domain.ActionDeposit, Weight: 0.10},
		{Feature: domain.ActionBorrow, Weight: 0.05},
		{Feature: domain.ActionRepay, Weight: 0.10},
		{Feature: domain.ActionRedeemUnderlying, Weight: 0.05},
	}
}

// Validate checks that the policy is non-empty, every feature is named once
// and every weight is finite.
func (w Weights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("%w: no features", ErrInvalidWeights)
	}
	seen := make(map[string]struct{}, len(w))
	for i, fw := range w {
		name := strings.TrimSpace(fw.Feature)
		if name == "" {
			return fmt.Errorf("%w: entry %d has no feature name", ErrInvalidWeights, i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("%w: feature %q listed twice", ErrInvalidWeights, name)
		}
		seen[name] = struct{}{}
		if math.IsNaN(fw.Weight) || math.IsInf(fw.Weight, 0) {
			return fmt.Errorf("%w: feature %q has non-finite weight", ErrInvalidWeights, name)
		}
	}
	return nil
}

// Version returns a stable hash of the policy.
func (w Weights) Version() string {
	return idhash.ComputeWeightsVersion(w)
}

// Get returns the weight of feature, false if the policy does not name it.
func (w Weights) Get(feature string) (float64, bool) {
	for _, fw := range w {
		if fw.Feature == feature {
			return fw.Weight, true
		}
	}
	return 0, false
}

// weightsFile is the YAML layout of a weights file:
//
//	weights:
//	  - feature: total_volume
//	    weight: 0.2
type weightsFile struct {
	Weights []weightEntry `yaml:"weights"`
}

type weightEntry struct {
	Feature string   `yaml:"feature"`
	Weight  *float64 `yaml:"weight"`
}

// ParseWeights decodes and validates a YAML weights document.
func ParseWeights(data []byte) (Weights, error) {
	var f weightsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWeights, err)
	}

	w := make(Weights, 0, len(f.Weights))
	for i, e := range f.Weights {
		if e.Weight == nil {
			return nil, fmt.Errorf("%w: entry %d (%q) has no weight", ErrInvalidWeights, i, e.Feature)
		}
		w = append(w, domain.FeatureWeight{
			Feature: strings.TrimSpace(e.Feature),
			Weight:  *e.Weight,
		})
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// LoadWeights reads a YAML weights file.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights file: %w", err)
	}
	return ParseWeights(data)
}

// Marshal encodes the policy in the layout ParseWeights reads.
func (w Weights) Marshal() ([]byte, error) {
	f := weightsFile{Weights: make([]weightEntry, len(w))}
	for i, fw := range w {
		weight := fw.Weight
		f.Weights[i] = weightEntry{Feature: fw.Feature, Weight: &weight}
	}
	return yaml.Marshal(f)
}
