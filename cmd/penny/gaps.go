package main

import (
	"github.com/spf13/cobra"

	"github.com/KeyComponentMFG/every-penny/internal/cli"
)

func gapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gaps",
		Short: "Print the discrepancy report from the last reconcile",
		Long: `Print every gap the last reconcile found: calculated platform balance
vs reported, platform payouts vs bank deposits, and computed ledger
balance vs each statement's printed closing balance.

Gaps are reported, never corrected. Run reconcile first.`,
		RunE: runGaps,
	}
}

func runGaps(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, _, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	gaps, err := store.GetGaps(ctx)
	if err != nil {
		return err
	}
	if len(gaps) == 0 {
		cmd.Println(cli.SubtleStyle.Render("no stored gap reports; run 'penny reconcile' first"))
		return nil
	}

	cmd.Println(cli.RenderGaps(gaps))

	findings, err := store.GetFindings(ctx)
	if err != nil {
		return err
	}
	cmd.Println(cli.RenderIntegrity(findings))
	return nil
}
