package reporting

import (
	"fmt"
	"io"
	"text/tabwriter"

	"wallet-credit-score/internal/domain"
)

// RenderConsole prints the first n ranked wallets as an aligned table.
// n <= 0 prints every row.
func RenderConsole(w io.Writer, scores []domain.WalletScore, n int) error {
	if n <= 0 || n > len(scores) {
		n = len(scores)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tWALLET\tSCORE\tBAND")
	for _, s := range scores[:n] {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\n", s.Rank, s.Wallet, s.Score, s.Band)
	}
	if n < len(scores) {
		fmt.Fprintf(tw, "...\t%d more\t\t\n", len(scores)-n)
	}
	return tw.Flush()
}
