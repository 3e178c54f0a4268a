package ingestion

import (
	"errors"
	"fmt"
	"sort"

	"wallet-credit-score/internal/domain"
	"wallet-credit-score/internal/idhash"
)

// ErrInvalidOrdering is returned when transactions are not properly ordered.
var ErrInvalidOrdering = errors.New("transactions are not in deterministic order")

// ErrUnidentifiedDuplicate is returned when a record without tx hash or log id
// repeats in a batch.
var ErrUnidentifiedDuplicate = errors.New("repeated record has no tx hash or log id")

// orderedTransaction pairs a transaction with its identity for sorting.
type orderedTransaction struct {
	id string
	tx domain.Transaction
}

// SortTransactions orders txs by (timestamp ASC, block_number ASC, tx_id ASC).
// tx_id breaks ties so the order does not depend on input order.
func SortTransactions(txs []domain.Transaction) {
	keyed := make([]orderedTransaction, len(txs))
	for i, tx := range txs {
		keyed[i] = orderedTransaction{id: idhash.ComputeTransactionID(tx), tx: tx}
	}
	sort.Slice(keyed, func(i, j int) bool {
		return compareTransactions(keyed[i], keyed[j]) < 0
	})
	for i := range keyed {
		txs[i] = keyed[i].tx
	}
}

// ValidateTransactionOrdering checks if txs are strictly ordered.
// Returns ErrInvalidOrdering if not, including when two records share an identity.
func ValidateTransactionOrdering(txs []domain.Transaction) error {
	for i := 1; i < len(txs); i++ {
		a := orderedTransaction{id: idhash.ComputeTransactionID(txs[i-1]), tx: txs[i-1]}
		b := orderedTransaction{id: idhash.ComputeTransactionID(txs[i]), tx: txs[i]}
		if compareTransactions(a, b) >= 0 {
			return ErrInvalidOrdering
		}
	}
	return nil
}

// compareTransactions returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
//
// Order: (timestamp ASC, block_number ASC, tx_id ASC)
func compareTransactions(a, b orderedTransaction) int {
	if a.tx.Timestamp != b.tx.Timestamp {
		if a.tx.Timestamp < b.tx.Timestamp {
			return -1
		}
		return 1
	}
	if a.tx.BlockNumber != b.tx.BlockNumber {
		if a.tx.BlockNumber < b.tx.BlockNumber {
			return -1
		}
		return 1
	}
	if a.id != b.id {
		if a.id < b.id {
			return -1
		}
		return 1
	}
	return 0
}

// Dedupe drops records identical to one that already appeared earlier in txs.
// Returns the kept records in input order and the number dropped.
// A repeated record with neither a tx hash nor a log id cannot be told apart
// from a second genuine event, so it fails with ErrUnidentifiedDuplicate.
func Dedupe(txs []domain.Transaction) ([]domain.Transaction, int, error) {
	seen := make(map[string]struct{}, len(txs))
	kept := make([]domain.Transaction, 0, len(txs))
	for i, tx := range txs {
		id := idhash.ComputeTransactionID(tx)
		if _, dup := seen[id]; dup {
			if tx.TxHash == "" && tx.LogID == "" {
				return nil, 0, fmt.Errorf("record %d (wallet %s): %w", i, tx.UserWallet, ErrUnidentifiedDuplicate)
			}
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, tx)
	}
	return kept, len(txs) - len(kept), nil
}
