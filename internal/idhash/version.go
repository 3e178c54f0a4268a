package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"

	"wallet-credit-score/internal/domain"
)

// ComputeDataVersion computes a SHA256 fingerprint of a transaction batch.
// The fingerprint depends on the multiset of transaction ids, not on input order.
func ComputeDataVersion(txs []domain.Transaction) string {
	ids := make([]string, len(txs))
	for i, tx := range txs {
		ids[i] = ComputeTransactionID(tx)
	}
	sort.Strings(ids)

	h := sha256.New()
	for _, id := range ids {
		h.Write([]byte(id))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ComputeWeightsVersion computes a SHA256 fingerprint of a weight policy.
// Entry order is significant because it fixes the summation order.
func ComputeWeightsVersion(weights []domain.FeatureWeight) string {
	h := sha256.New()
	for _, w := range weights {
		fmt.Fprintf(h, "%s|%s\n", w.Feature, strconv.FormatFloat(w.Weight, 'g', -1, 64))
	}
	return hex.EncodeToString(h.Sum(nil))
}
