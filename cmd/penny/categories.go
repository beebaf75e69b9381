package main

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/KeyComponentMFG/every-penny/internal/cli"
	"github.com/KeyComponentMFG/every-penny/internal/common"
	"github.com/KeyComponentMFG/every-penny/internal/model"
	"github.com/KeyComponentMFG/every-penny/internal/money"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories [category]",
		Short: "Summarize spending by category",
		Long: `With no argument, print per-category totals. With a category name,
list that category's transactions.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCategories,
	}
	return cmd
}

func runCategories(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, _, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if len(args) == 1 {
		txns, err := store.GetTransactionsByCategory(ctx, args[0])
		if errors.Is(err, common.ErrNotFound) {
			cmd.Printf("no transactions in category %q\n", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		cmd.Println(cli.TitleStyle.Render(args[0]))
		total := 0.0
		for _, txn := range txns {
			cmd.Printf("  %s  %-40s %12s\n",
				txn.Date.Format("01/02/2006"), txn.Description, money.Format(txn.Amount))
			total += txn.Amount
		}
		cmd.Println(cli.BoldStyle.Render(fmt.Sprintf("  %d transactions, total %s",
			len(txns), money.Format(money.Round2(total)))))
		return nil
	}

	txns, err := store.GetTransactions(ctx)
	if err != nil {
		return err
	}

	type catTotal struct {
		name     string
		deposits float64
		debits   float64
		count    int
	}
	byName := make(map[string]*catTotal)
	for _, txn := range txns {
		name := txn.Category
		if name == "" {
			name = "(uncategorized)"
		}
		ct, ok := byName[name]
		if !ok {
			ct = &catTotal{name: name}
			byName[name] = ct
		}
		ct.count++
		if txn.Kind == model.KindDeposit {
			ct.deposits += txn.Amount
		} else {
			ct.debits += txn.Amount
		}
	}

	totals := make([]*catTotal, 0, len(byName))
	for _, ct := range byName {
		totals = append(totals, ct)
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].debits+totals[i].deposits > totals[j].debits+totals[j].deposits
	})

	cmd.Println(cli.TitleStyle.Render("Spending by Category"))
	for _, ct := range totals {
		line := fmt.Sprintf("  %-24s %4d txns  deposits %12s  debits %12s",
			ct.name, ct.count,
			money.Format(money.Round2(ct.deposits)),
			money.Format(money.Round2(ct.debits)))
		cmd.Println(line)
	}
	return nil
}
