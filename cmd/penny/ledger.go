package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KeyComponentMFG/every-penny/internal/cli"
	"github.com/KeyComponentMFG/every-penny/internal/ledger"
	"github.com/KeyComponentMFG/every-penny/internal/model"
	"github.com/KeyComponentMFG/every-penny/internal/money"
)

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Print the running-balance ledger",
		Long: `Print every stored transaction in chronological order with a running
balance, deposits ahead of debits on the same day.`,
		RunE: runLedger,
	}
	cmd.Flags().String("month", "", "Limit to one month (format: 2006-01)")
	return cmd
}

func runLedger(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, _, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txns, err := store.GetTransactions(ctx)
	if err != nil {
		return err
	}

	rows := ledger.Build(txns)

	if month, _ := cmd.Flags().GetString("month"); month != "" {
		filtered := make([]model.LedgerRow, 0, len(rows))
		for _, row := range rows {
			if row.Transaction.MonthKey() == month {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}

	cmd.Println(cli.RenderLedger(rows))

	deposits, debits := ledger.Totals(txns)
	cmd.Println(cli.BoldStyle.Render(fmt.Sprintf(
		"deposits %s   debits %s   final balance %s",
		money.Format(deposits), money.Format(debits), money.Format(ledger.FinalBalance(rows)))))
	return nil
}
