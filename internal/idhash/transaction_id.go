package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"strconv"

	"wallet-credit-score/internal/domain"
)

// ComputeTransactionID computes a deterministic transaction id using SHA256.
// Every field of the record is hashed as a length-prefixed value, so wallets
// and hashes may contain any byte without two records sharing an id.
// Two records get the same id only if they are identical.
// Returns hex-encoded hash (64 characters).
func ComputeTransactionID(tx domain.Transaction) string {
	h := sha256.New()
	writeField(h, tx.UserWallet)
	writeField(h, tx.Network)
	writeField(h, tx.Protocol)
	writeField(h, tx.TxHash)
	writeField(h, tx.LogID)
	writeField(h, tx.Action)
	writeField(h, strconv.FormatInt(tx.Timestamp, 10))
	writeField(h, strconv.FormatInt(tx.BlockNumber, 10))
	writeField(h, tx.ActionData.Type)
	writeField(h, tx.ActionData.Amount)
	writeField(h, tx.ActionData.AssetSymbol)
	writeField(h, tx.ActionData.AssetPriceUSD)
	writeField(h, tx.ActionData.PoolID)
	writeField(h, tx.ActionData.UserID)
	return hex.EncodeToString(h.Sum(nil))
}

// writeField writes "<len>:<value>" to h.
func writeField(h hash.Hash, v string) {
	h.Write([]byte(strconv.Itoa(len(v))))
	h.Write([]byte{':'})
	h.Write([]byte(v))
}
