// Package storage provides the data persistence layer for reconciliation
// runs.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/KeyComponentMFG/every-penny/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidReceipt     = errors.New("invalid receipt")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	for i := range transactions {
		txn := &transactions[i]
		if txn.Date.IsZero() {
			return fmt.Errorf("%w at index %d: missing date", ErrInvalidTransaction, i)
		}
		if txn.Amount < 0 {
			return fmt.Errorf("%w at index %d: negative amount", ErrInvalidTransaction, i)
		}
		if txn.Kind != model.KindDeposit && txn.Kind != model.KindDebit {
			return fmt.Errorf("%w at index %d: unknown kind %q", ErrInvalidTransaction, i, txn.Kind)
		}
	}
	return nil
}

func validateReceipts(receipts []model.Receipt) error {
	if receipts == nil {
		return fmt.Errorf("%w: receipts", ErrNilParameter)
	}
	for i := range receipts {
		if strings.TrimSpace(receipts[i].Source) == "" {
			return fmt.Errorf("%w at index %d: missing source", ErrInvalidReceipt, i)
		}
	}
	return nil
}
