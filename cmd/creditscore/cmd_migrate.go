package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"wallet-credit-score/internal/logging"
	chstore "wallet-credit-score/internal/storage/clickhouse"
	"wallet-credit-score/internal/storage/migrations"
	pgstore "wallet-credit-score/internal/storage/postgres"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long: `Apply the embedded schema migrations to every configured database
(POSTGRES_DSN, CLICKHOUSE_DSN). Applied versions are recorded in
schema_migrations and skipped on later runs.`,
		Args: cobra.NoArgs,
		RunE: a.runMigrate,
	}
}

func (a *app) runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	log := logging.Component(a.log, "migrate")
	if a.cfg.PostgresDSN == "" && a.cfg.ClickHouseDSN == "" {
		return errors.New("set POSTGRES_DSN and/or CLICKHOUSE_DSN")
	}

	if a.cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, a.cfg.PostgresDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		applied, err := migrations.RunPostgresMigrations(ctx, pool)
		if err != nil {
			return err
		}
		log.Info().Strs("versions", applied).Msg("postgres migrations applied")
		printApplied(cmd, "postgres", applied)
	}

	if a.cfg.ClickHouseDSN != "" {
		conn, err := chstore.NewConnCreatingDatabase(ctx, a.cfg.ClickHouseDSN)
		if err != nil {
			return fmt.Errorf("connect clickhouse: %w", err)
		}
		defer conn.Close()

		applied, err := migrations.RunClickhouseMigrations(ctx, conn)
		if err != nil {
			return err
		}

		log.Info().Strs("versions", applied).Msg("clickhouse migrations applied")
		printApplied(cmd, "clickhouse", applied)
	}

	return nil
}

func printApplied(cmd *cobra.Command, db string, versions []string) {
	if len(versions) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: up to date\n", db)
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: applied %s\n", db, strings.Join(versions, ", "))
}
