package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"wallet-credit-score/internal/domain"
)

// Score table column names, matching the published wallet_scores.csv.
const (
	ColumnWallet = "userWallet"
	ColumnScore  = "credit_score"
)

// RenderScoresCSV writes the score table in rank order.
// The header is written even when scores is empty.
func RenderScoresCSV(w io.Writer, scores []domain.WalletScore) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{ColumnWallet, ColumnScore}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, s := range scores {
		if err := cw.Write([]string{s.Wallet, formatFloat(s.Score)}); err != nil {
			return fmt.Errorf("write row %s: %w", s.Wallet, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// RenderFeaturesCSV writes the feature table, one row per wallet in wallet order.
// Columns: userWallet, scalar features, action kinds, first_seen, last_seen.
func RenderFeaturesCSV(w io.Writer, table *domain.FeatureTable) error {
	cw := csv.NewWriter(w)

	columns := table.Columns()
	header := make([]string, 0, len(columns)+3)
	header = append(header, ColumnWallet)
	header = append(header, columns...)
	header = append(header, "first_seen", "last_seen")
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for _, wallet := range table.Wallets() {
		v := table.Vectors[wallet]
		row[0] = wallet
		for i, col := range columns {
			row[i+1] = formatFloat(table.Value(wallet, col))
		}
		row[len(row)-2] = strconv.FormatInt(v.FirstSeen, 10)
		row[len(row)-1] = strconv.FormatInt(v.LastSeen, 10)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %s: %w", wallet, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatFloat renders the shortest representation that round-trips.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
