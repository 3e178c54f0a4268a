// Command creditscore scores lending-protocol wallets from their transaction history.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"wallet-credit-score/internal/config"
	"wallet-credit-score/internal/logging"
)

const version = "v1.0.0"

// app carries state shared by all subcommands, filled in by the root pre-run hook.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	rootCmd := &cobra.Command{
		Use:     "creditscore",
		Short:   "Wallet credit scoring for lending-protocol transactions",
		Version: version,
		Long: `creditscore aggregates per-wallet behavior from a lending-protocol
transaction export and assigns every wallet a relative credit score in [0, 1000].

Configuration is read from the environment (and a .env file if present);
flags override environment values.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
			}
			if cmd.Flags().Changed("log-format") {
				cfg.LogFormat, _ = cmd.Flags().GetString("log-format")
			}

			l, err := logging.New(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = l
			return nil
		},
	}

	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", config.DefaultLogFormat, "Log format (console|json)")

	rootCmd.AddCommand(
		newScoreCmd(a),
		newIngestCmd(a),
		newMigrateCmd(a),
		newWeightsCmd(a),
		newReportCmd(a),
	)
	return rootCmd
}

// stringFlag returns the flag value if it was set, otherwise fallback.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetString(name)
	return v
}

// intFlag returns the flag value if it was set, otherwise fallback.
func intFlag(cmd *cobra.Command, name string, fallback int) int {
	if !cmd.Flags().Changed(name) {
		return fallback
	}
	v, _ := cmd.Flags().GetInt(name)
	return v
}
