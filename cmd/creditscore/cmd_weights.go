package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wallet-credit-score/internal/scoring"
)

func newWeightsCmd(a *app) *cobra.Command {
	weightsCmd := &cobra.Command{
		Use:   "weights",
		Short: "Inspect and validate weight policies",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the weight policy as YAML",
		Long:  "Print the weight policy in effect (built-in, $CREDITSCORE_WEIGHTS or --weights) with its version hash.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := loadWeights(stringFlag(cmd, "weights", a.cfg.WeightsPath))
			if err != nil {
				return err
			}
			data, err := w.Marshal()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# version: %s\n%s", w.Version(), data)
			return nil
		},
	}
	showCmd.Flags().String("weights", "", "YAML weights file")

	validateCmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a YAML weights file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := scoring.LoadWeights(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d weights, version %s\n", args[0], len(w), w.Version())
			return nil
		},
	}

	weightsCmd.AddCommand(showCmd, validateCmd)
	return weightsCmd
}
