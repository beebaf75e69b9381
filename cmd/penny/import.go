package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/KeyComponentMFG/every-penny/internal/common"
	"github.com/KeyComponentMFG/every-penny/internal/engine"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import statements, receipts, and platform exports",
		Long: `Import every input file under the data directory into the local database.

Official statements under statements/ own the months they cover;
downloads/ rows only fill months no statement covers. Re-running import
is safe: rows already stored are skipped.`,
		RunE: runImport,
	}
	cmd.Flags().Bool("dry-run", false, "Parse and report without saving")
	return cmd
}

func runImport(cmd *cobra.Command, _ []string) error {
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
	if len(state.Integrity) > 0 {
		common.LogWarn("receipt integrity findings detected", common.Fields{
			"count": len(state.Integrity),
		})
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		fmt.Printf("would import %d transactions and %d receipts\n",
			len(state.Transactions), len(in.Receipts))
		return nil
	}

	bar := progressbar.NewOptions(2,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Importing..."),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40))

	inserted, err := store.SaveTransactions(ctx, state.Transactions)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}
	_ = bar.Add(1)

	if len(in.Receipts) > 0 {
		if err := store.SaveReceipts(ctx, in.Receipts); err != nil {
			return fmt.Errorf("failed to save receipts: %w", err)
		}
	}
	_ = bar.Add(1)
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	slog.Info("import complete",
		"transactions_new", inserted,
		"transactions_total", len(state.Transactions),
		"receipts", len(in.Receipts))
	return nil
}
