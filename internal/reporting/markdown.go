package reporting

import (
	"fmt"
	"strings"
	"time"

	"wallet-credit-score/internal/domain"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Wallet Credit Score Report\n\n")
	sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", r.RunID))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Data version: `%s`\n\n", r.DataVersion))
	sb.WriteString(fmt.Sprintf("Weights version: `%s`\n\n", r.WeightsVersion))

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Transactions | %d |\n", r.Summary.Transactions))
	sb.WriteString(fmt.Sprintf("| Wallets | %d |\n", r.Summary.Wallets))
	sb.WriteString(fmt.Sprintf("| Missing Amounts | %d |\n", r.Summary.MissingAmounts))
	sb.WriteString(fmt.Sprintf("| Malformed Amounts | %d |\n", r.Summary.MalformedAmounts))
	sb.WriteString("\n")

	if r.Summary.Wallets == 0 {
		sb.WriteString("No wallets were scored.\n")
		return sb.String()
	}

	// Score Distribution
	d := r.Distribution
	sb.WriteString("## Score Distribution\n\n")
	sb.WriteString("| Mean | Median | P10 | P90 | Min | Max | Stddev |\n")
	sb.WriteString("|------|--------|-----|-----|-----|-----|--------|\n")
	sb.WriteString(fmt.Sprintf("| %.2f | %.2f | %.2f | %.2f | %.2f | %.2f | %.2f |\n\n",
		d.Mean, d.Median, d.P10, d.P90, d.Min, d.Max, d.Stddev))

	sb.WriteString("| Range | Wallets | |\n")
	sb.WriteString("|-------|---------|---|\n")
	peak := maxCount(r.Histogram)
	for _, b := range r.Histogram {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s |\n", b.Label, b.Count, bar(b.Count, peak, 40)))
	}
	sb.WriteString("\n")

	// Rankings
	writeScoreTable(&sb, "Top Wallets", r.Top)
	writeScoreTable(&sb, "Bottom Wallets", r.Bottom)

	// Weights
	if len(r.Weights) > 0 {
		sb.WriteString("## Weights\n\n")
		sb.WriteString("| Feature | Weight | Applied |\n")
		sb.WriteString("|---------|--------|---------|\n")
		for _, w := range r.Weights {
			applied := "yes"
			if !w.Applied {
				applied = "no (not in data)"
			}
			sb.WriteString(fmt.Sprintf("| %s | %+.2f | %s |\n", w.Feature, w.Weight, applied))
		}
		sb.WriteString("\n")

		for _, w := range r.Weights {
			if w.Feature == domain.FeatureTransactionFrequency && w.Applied {
				sb.WriteString("Note: `transaction_frequency` is seconds of activity span per transaction. ")
				sb.WriteString("Higher values mean sparser activity, so a negative weight penalizes infrequent wallets.\n\n")
				break
			}
		}
	}

	if len(r.SkippedFeatures) > 0 {
		sb.WriteString(fmt.Sprintf("Skipped features: %s\n", strings.Join(r.SkippedFeatures, ", ")))
	}

	return sb.String()
}

func writeScoreTable(sb *strings.Builder, title string, rows []domain.WalletScore) {
	sb.WriteString(fmt.Sprintf("## %s\n\n", title))
	sb.WriteString("| Rank | Wallet | Score | Band |\n")
	sb.WriteString("|------|--------|-------|------|\n")
	for _, s := range rows {
		sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %s |\n", s.Rank, s.Wallet, s.Score, s.Band))
	}
	sb.WriteString("\n")
}

// bar renders count as a proportional run of block characters.
func bar(count, peak, width int) string {
	if peak == 0 || count == 0 {
		return ""
	}
	n := count * width / peak
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
