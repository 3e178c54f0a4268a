package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wallet-credit-score/internal/reporting"
	pgstore "wallet-credit-score/internal/storage/postgres"
)

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Rebuild the report of a stored run",
		Long: `Rebuild the Markdown report of a run stored in Postgres.

Examples:
  creditscore report                       latest run to stdout
  creditscore report --run-id <id> --outfile SCORE_REPORT.md --svg chart.svg`,
		Args: cobra.NoArgs,
		RunE: a.runReport,
	}
	cmd.Flags().String("run-id", "", "Run to report (default latest)")
	cmd.Flags().String("outfile", "", "Markdown output path (default stdout)")
	cmd.Flags().String("svg", "", "Also write the score histogram to this path")
	cmd.Flags().Int("top", 0, "Wallets listed at each end of the ranking (default $CREDITSCORE_TOP_N)")
	return cmd
}

func (a *app) runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if a.cfg.PostgresDSN == "" {
		return errNoPostgres
	}

	pool, err := pgstore.NewPool(ctx, a.cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	runID, _ := cmd.Flags().GetString("run-id")
	gen := reporting.NewGenerator(pgstore.NewScoreRunStore(pool), pgstore.NewWalletScoreStore(pool)).
		WithTopN(intFlag(cmd, "top", a.cfg.TopN))

	r, err := gen.Generate(ctx, runID)
	if err != nil {
		return err
	}

	md := reporting.RenderMarkdown(r)
	if outfile, _ := cmd.Flags().GetString("outfile"); outfile != "" {
		if err := os.WriteFile(outfile, []byte(md), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		a.log.Info().Str("path", outfile).Str("run_id", r.RunID).Msg("report written")
	} else {
		fmt.Fprint(cmd.OutOrStdout(), md)
	}

	if svgPath, _ := cmd.Flags().GetString("svg"); svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(reporting.RenderHistogramSVG(r.Histogram)), 0o644); err != nil {
			return fmt.Errorf("write chart: %w", err)
		}
	}
	return nil
}
