package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wallet-credit-score/internal/ingestion"
	pgstore "wallet-credit-score/internal/storage/postgres"
)

func newIngestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load a transaction export into Postgres",
		Long: `Validate a transaction export and store it in the Postgres transactions
table. The batch is rejected as a whole if any record is already stored.

Example:
  creditscore ingest --input user-wallet-transactions.json`,
		Args: cobra.NoArgs,
		RunE: a.runIngest,
	}
	cmd.Flags().String("input", "", "Transaction export, JSON array or JSON Lines (default $CREDITSCORE_INPUT)")
	return cmd
}

func (a *app) runIngest(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if a.cfg.PostgresDSN == "" {
		return errNoPostgres
	}

	pool, err := pgstore.NewPool(ctx, a.cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	path := stringFlag(cmd, "input", a.cfg.InputPath)
	mgr := ingestion.NewManager(ingestion.ManagerOptions{
		Source: ingestion.NewFileSource(path),
		Store:  pgstore.NewTransactionStore(pool),
		Logger: &a.log,
	})

	res, err := mgr.Ingest(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d of %d records from %s (%d duplicates dropped)\n",
		res.Ingested, res.Loaded, path, res.Dropped)
	return nil
}
