package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"wallet-credit-score/internal/ingestion"
	"wallet-credit-score/internal/logging"
	"wallet-credit-score/internal/observability"
	"wallet-credit-score/internal/pipeline"
	"wallet-credit-score/internal/reporting"
	"wallet-credit-score/internal/scoring"
	"wallet-credit-score/internal/sink"
	pgstore "wallet-credit-score/internal/storage/postgres"
)

func newScoreCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score every wallet of a transaction batch",
		Long: `Load a transaction batch, compute per-wallet features, score them and
publish the result.

Outputs:
  <out>/wallet_scores.csv        userWallet,credit_score
  <out>/wallet_features.csv      feature table
  <out>/score_distribution.svg   score histogram
  <out>/SCORE_REPORT.md          run report

Scores are also stored in Postgres and ClickHouse and published to Kafka
when the corresponding settings are present.

Examples:
  creditscore score --input user-wallet-transactions.json --out output
  creditscore score --from-store --weights weights.yaml`,
		Args: cobra.NoArgs,
		RunE: a.runScore,
	}

	cmd.Flags().String("input", "", "Transaction export, JSON array or JSON Lines (default $CREDITSCORE_INPUT)")
	cmd.Flags().Bool("from-store", false, "Read transactions from Postgres instead of a file")
	cmd.Flags().String("out", "", "Output directory (default $CREDITSCORE_OUTPUT_DIR)")
	cmd.Flags().Bool("no-files", false, "Do not write output files")
	cmd.Flags().String("weights", "", "YAML weights file (default built-in weights)")
	cmd.Flags().Int("top", 0, "Wallets printed and listed in the report (default $CREDITSCORE_TOP_N)")
	return cmd
}

func (a *app) runScore(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := a.cfg

	inputPath := stringFlag(cmd, "input", cfg.InputPath)
	outDir := stringFlag(cmd, "out", cfg.OutputDir)
	weightsPath := stringFlag(cmd, "weights", cfg.WeightsPath)
	topN := intFlag(cmd, "top", cfg.TopN)
	fromStore, _ := cmd.Flags().GetBool("from-store")
	noFiles, _ := cmd.Flags().GetBool("no-files")

	weights, err := loadWeights(weightsPath)
	if err != nil {
		return err
	}

	b, err := openBackends(ctx, cfg, logging.Component(a.log, "storage"))
	if err != nil {
		return err
	}
	defer b.Close()

	var src ingestion.Source
	if fromStore {
		if b.pg == nil {
			return errNoPostgres
		}
		src = ingestion.NewStoreSource(pgstore.NewTransactionStore(b.pg))
	} else {
		src = ingestion.NewFileSource(inputPath)
	}

	var sinks []sink.Sink
	if !noFiles {
		sinks = append(sinks, sink.NewFileSink(outDir).WithTopN(topN))
	}
	sinks = append(sinks, b.storeSinks()...)
	if cfg.KafkaEnabled() {
		ks, err := sink.NewKafkaSink(cfg.KafkaBrokers, cfg.KafkaTopic, nil)
		if err != nil {
			return err
		}
		defer ks.Close()
		sinks = append(sinks, ks)
	}

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics("", reg)

	p := pipeline.New(src, weights).
		WithSinks(sinks...).
		WithMetrics(metrics).
		WithLogger(a.log)

	out, runErr := p.Run(ctx)
	if out != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Run %s: %d transactions, %d wallets\n\n",
			out.Run.RunID, out.Run.TransactionCount, out.Run.WalletCount)
		if err := reporting.RenderConsole(cmd.OutOrStdout(), out.Scores, topN); err != nil {
			return err
		}
		if !noFiles {
			fmt.Fprintf(cmd.OutOrStdout(), "\nOutput written to %s\n", outDir)
		}
	}

	if cfg.PushgatewayURL != "" {
		if err := observability.Push(ctx, cfg.PushgatewayURL, "creditscore", reg); err != nil {
			a.log.Warn().Err(err).Msg("metrics push failed")
		}
	}

	return runErr
}

// loadWeights reads path, or returns the built-in policy if path is empty.
func loadWeights(path string) (scoring.Weights, error) {
	if path == "" {
		return scoring.DefaultWeights(), nil
	}
	return scoring.LoadWeights(path)
}
