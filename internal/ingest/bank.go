package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/KeyComponentMFG/every-penny/internal/model"
)

// BankStatement is the result of parsing one bank export: its transactions
// plus the set of months ("2006-01") the file covers. Coverage drives the
// priority/convenience merge: a month covered by an official statement
// never takes rows from a CSV download.
type BankStatement struct {
	Transactions  []model.Transaction
	CoveredMonths map[string]bool
	SourceFile    string
}

// Bank CSV exports put the posted date last and leave merchant names with
// embedded commas inconsistently quoted, so the date is peeled off the end
// before the rest of the line goes through the csv reader.
var postedDateRegex = regexp.MustCompile(`,\s*"?(\d{2}/\d{2}/\d{4})"?\s*$`)

// ParseBankCSV reads a convenience-source CSV export with columns
// Account Number, Credit, Debit, Description, Posted Date. Rows with no
// usable amount or date are skipped rather than failing the whole file.
func ParseBankCSV(reader io.Reader, sourceFile string) (*BankStatement, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank CSV %s: %w", sourceFile, err)
	}

	stmt := &BankStatement{
		CoveredMonths: make(map[string]bool),
		SourceFile:    sourceFile,
	}

	lines := strings.Split(strings.TrimPrefix(string(raw), "\uFEFF"), "\n")
	if len(lines) < 2 {
		return stmt, nil
	}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		dateLoc := postedDateRegex.FindStringSubmatchIndex(line)
		if dateLoc == nil {
			continue
		}
		postedDate := line[dateLoc[2]:dateLoc[3]]

		fields, err := csv.NewReader(strings.NewReader(line[:dateLoc[0]])).Read()
		if err != nil || len(fields) < 4 {
			continue
		}

		credit := strings.TrimSpace(fields[1])
		debit := strings.TrimSpace(fields[2])
		rawDesc := strings.Trim(strings.TrimSpace(strings.Join(fields[3:], ",")), `"`)

		var amount float64
		var kind model.TxnKind
		switch {
		case credit != "":
			amount, err = strconv.ParseFloat(strings.ReplaceAll(credit, ",", ""), 64)
			kind = model.KindDeposit
		case debit != "":
			amount, err = strconv.ParseFloat(strings.ReplaceAll(debit, ",", ""), 64)
			kind = model.KindDebit
		default:
			continue
		}
		if err != nil {
			continue
		}

		date, err := time.Parse("01/02/2006", postedDate)
		if err != nil {
			continue
		}

		txn := model.Transaction{
			Date:           date,
			Description:    shortDescription(rawDesc),
			RawDescription: rawDesc,
			Amount:         amount,
			Kind:           kind,
			SourceFile:     sourceFile,
		}
		stmt.Transactions = append(stmt.Transactions, txn)
		stmt.CoveredMonths[txn.MonthKey()] = true
	}

	return stmt, nil
}

// merchantPrefixes are noise the card network prepends to descriptions.
var merchantPrefixes = []string{
	"POS PURCHASE ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
}

// shortDescription reduces a raw statement description to a stable
// merchant label. Raw descriptions keep full fidelity for dedup keys; the
// short form is what reports and category rules see.
func shortDescription(raw string) string {
	desc := strings.TrimSpace(raw)
	upper := strings.ToUpper(desc)
	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(upper, prefix) {
			desc = strings.TrimSpace(desc[len(prefix):])
			break
		}
	}
	if len(desc) > 50 {
		desc = strings.TrimSpace(desc[:50])
	}
	return desc
}
