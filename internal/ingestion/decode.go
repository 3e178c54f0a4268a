package ingestion

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"wallet-credit-score/internal/domain"
)

// wireTransaction is one record of the transactions export.
// Numeric fields are kept raw because exports disagree on whether
// they are JSON numbers or strings.
type wireTransaction struct {
	UserWallet  string          `json:"userWallet"`
	Network     string          `json:"network"`
	Protocol    string          `json:"protocol"`
	TxHash      string          `json:"txHash"`
	LogID       string          `json:"logId"`
	Timestamp   json.RawMessage `json:"timestamp"`
	BlockNumber json.RawMessage `json:"blockNumber"`
	Action      string          `json:"action"`
	ActionData  json.RawMessage `json:"actionData"`
}

// wireActionData is kept fully raw: none of its fields is a grouping key,
// so a value of the wrong shape degrades to text instead of failing the batch.
type wireActionData struct {
	Type          json.RawMessage `json:"type"`
	Amount        json.RawMessage `json:"amount"`
	AssetSymbol   json.RawMessage `json:"assetSymbol"`
	AssetPriceUSD json.RawMessage `json:"assetPriceUSD"`
	PoolID        json.RawMessage `json:"poolId"`
	UserID        json.RawMessage `json:"userId"`
}

// DecodeTransactions reads transactions from r.
// The input is either a single JSON array of records or JSON Lines
// (one record per line). Decoding stops at the first invalid record.
func DecodeTransactions(r io.Reader) ([]domain.Transaction, error) {
	br := bufio.NewReader(r)

	first, err := peekNonSpace(br)
	if err == io.EOF {
		return []domain.Transaction{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	dec := json.NewDecoder(br)
	dec.UseNumber()

	if first == '[' {
		return decodeArray(dec)
	}
	return decodeStream(dec)
}

// decodeArray streams the elements of a top-level JSON array.
func decodeArray(dec *json.Decoder) ([]domain.Transaction, error) {
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read array start: %w", err)
	}

	txs := []domain.Transaction{}
	for i := 0; dec.More(); i++ {
		var w wireTransaction
		if err := dec.Decode(&w); err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		tx, err := w.toDomain(i)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read array end: %w", err)
	}
	return txs, nil
}

// decodeStream reads concatenated JSON objects until EOF.
func decodeStream(dec *json.Decoder) ([]domain.Transaction, error) {
	txs := []domain.Transaction{}
	for i := 0; ; i++ {
		var w wireTransaction
		err := dec.Decode(&w)
		if errors.Is(err, io.EOF) {
			return txs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode record %d: %w", i, err)
		}
		tx, err := w.toDomain(i)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
}

func (w *wireTransaction) toDomain(index int) (domain.Transaction, error) {
	invalid := func(field, reason string) error {
		return &ValidationError{Index: index, TxHash: w.TxHash, Field: field, Reason: reason}
	}

	if strings.TrimSpace(w.UserWallet) == "" {
		return domain.Transaction{}, invalid("userWallet", "missing")
	}
	if strings.TrimSpace(w.Action) == "" {
		return domain.Transaction{}, invalid("action", "missing")
	}

	ts, present, err := parseSeconds(w.Timestamp)
	if !present {
		return domain.Transaction{}, invalid("timestamp", "missing")
	}
	if err != nil {
		return domain.Transaction{}, invalid("timestamp", err.Error())
	}

	block, _, err := parseInteger(w.BlockNumber)
	if err != nil {
		return domain.Transaction{}, invalid("blockNumber", err.Error())
	}

	tx := domain.Transaction{
		UserWallet:  w.UserWallet,
		Network:     w.Network,
		Protocol:    w.Protocol,
		TxHash:      w.TxHash,
		LogID:       w.LogID,
		Timestamp:   ts,
		BlockNumber: block,
		Action:      w.Action,
	}

	// A non-object actionData is treated as absent.
	var ad wireActionData
	if err := json.Unmarshal(w.ActionData, &ad); err == nil {
		tx.ActionData = domain.ActionData{
			Type:          rawText(ad.Type),
			Amount:        rawText(ad.Amount),
			AssetSymbol:   rawText(ad.AssetSymbol),
			AssetPriceUSD: rawText(ad.AssetPriceUSD),
			PoolID:        rawText(ad.PoolID),
			UserID:        rawText(ad.UserID),
		}
	}

	return tx, nil
}

// parseInteger reads a JSON number or numeric string as int64.
// present is false for an absent or null value.
func parseInteger(raw json.RawMessage) (v int64, present bool, err error) {
	s := rawText(raw)
	if s == "" {
		return 0, false, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true, nil
	}
	// Exports occasionally carry integral floats such as 1629178166.0
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int64(f)) {
		return 0, true, fmt.Errorf("not an integer: %q", s)
	}
	return int64(f), true, nil
}

// parseSeconds reads a Unix timestamp in seconds.
// Fractional values are truncated toward the earlier second.
func parseSeconds(raw json.RawMessage) (v int64, present bool, err error) {
	s := rawText(raw)
	if s == "" {
		return 0, false, nil
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, true, fmt.Errorf("not a number of seconds: %q", s)
	}
	return int64(math.Floor(f)), true, nil
}

// rawText returns the text of a JSON string or the literal of any other
// scalar. null and absent values yield "".
func rawText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return strings.TrimSpace(s)
		}
	}
	return string(raw)
}

// peekNonSpace returns the first non-whitespace byte without consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.Peek(1)
		if err != nil {
			return 0, err
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			if _, err := br.ReadByte(); err != nil {
				return 0, err
			}
		case 0xEF:
			// UTF-8 byte order mark
			bom, err := br.Peek(3)
			if err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
				if _, err := br.Discard(3); err != nil {
					return 0, err
				}
				continue
			}
			return b[0], nil
		default:
			return b[0], nil
		}
	}
}
