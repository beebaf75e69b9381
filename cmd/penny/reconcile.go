package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KeyComponentMFG/every-penny/internal/cli"
	"github.com/KeyComponentMFG/every-penny/internal/common"
	"github.com/KeyComponentMFG/every-penny/internal/engine"
	"github.com/KeyComponentMFG/every-penny/internal/model"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match debits to receipts and report every discrepancy",
		Long: `Run the full reconciliation: merge statements, categorize every
transaction, match each business debit to an order receipt, rebuild the
running ledger, and compare independent totals against each other.

Results are stored for the ledger and gaps commands and printed here.`,
		RunE: runReconcile,
	}
	cmd.Flags().Bool("matches", true, "Print per-category match results")
	cmd.Flags().Bool("summary", true, "Print the platform statement summary")
	return cmd
}

func runReconcile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, cfg, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	in, err := loadInputs(cfg)
	if err != nil {
		return err
	}
	if !hasSources(in) {
		return fmt.Errorf("%s: %w", cfg.DataDir, common.ErrNoSources)
	}

	state, err := engine.Recompute(cfg, in)
	if err != nil {
		return err
	}

	if err := persistDerived(ctx, store, state); err != nil {
		return err
	}

	if show, _ := cmd.Flags().GetBool("summary"); show && len(in.PlatformRows) > 0 {
		cmd.Println(cli.RenderPlatformSummary(state.PlatformSummary))
	}
	if show, _ := cmd.Flags().GetBool("matches"); show {
		cmd.Println(cli.RenderMatches(state.Matches))
	}
	cmd.Println(cli.RenderIntegrity(state.Integrity))
	cmd.Println(cli.RenderGaps(state.Gaps))

	matched, missing := 0, 0
	for _, cm := range state.Matches {
		matched += len(cm.Matched)
		missing += len(cm.Missing)
	}
	cmd.Println(cli.BoldStyle.Render(fmt.Sprintf(
		"%d transactions, %d receipts matched, %d debits missing receipts",
		len(state.Transactions), matched, missing)))

	return nil
}

func persistDerived(ctx context.Context, store storer, state *engine.DerivedState) error {
	if _, err := store.SaveTransactions(ctx, state.Transactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	if err := store.ReplaceFindings(ctx, state.Integrity); err != nil {
		return fmt.Errorf("failed to save integrity findings: %w", err)
	}
	if err := store.ReplaceGaps(ctx, state.Gaps); err != nil {
		return fmt.Errorf("failed to save gap reports: %w", err)
	}

	var missing []model.MissingReceipt
	for _, cm := range state.Matches {
		missing = append(missing, cm.Missing...)
	}
	if err := store.ReplaceMissingReceipts(ctx, missing); err != nil {
		return fmt.Errorf("failed to save missing receipts: %w", err)
	}
	return nil
}
