package ingest

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"github.com/KeyComponentMFG/every-penny/internal/model"
)

var (
	// SGML-style exports carry no closing tag, so match the value itself.
	ofxSeverityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)\b`)
	ofxOpenTagRegex  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in bank-exported OFX files:
// mixed-case severity values and SGML-style tags missing their closing
// bracket.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = ofxSeverityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return ofxOpenTagRegex.ReplaceAllString(content, "$1>")
}

// ParseBankOFX reads an OFX/QFX download as a convenience source. Like the
// CSV path it reports covered months so the priority merge can decide
// which rows to keep.
func ParseBankOFX(reader io.Reader, sourceFile string) (*BankStatement, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file %s: %w", sourceFile, err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file %s: %w", sourceFile, err)
	}

	stmt := &BankStatement{
		CoveredMonths: make(map[string]bool),
		SourceFile:    sourceFile,
	}

	for _, msg := range resp.Bank {
		bankStmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || bankStmt.BankTranList == nil {
			continue
		}
		for _, ofxTx := range bankStmt.BankTranList.Transactions {
			txn := convertOFXTransaction(ofxTx, sourceFile)
			stmt.Transactions = append(stmt.Transactions, txn)
			stmt.CoveredMonths[txn.MonthKey()] = true
		}
	}

	slog.Debug("parsed OFX file",
		"source_file", sourceFile,
		"transactions", len(stmt.Transactions),
		"covered_months", len(stmt.CoveredMonths))

	return stmt, nil
}

// convertOFXTransaction maps an OFX transaction to ours. OFX uses signed
// amounts: deposits positive, debits negative.
func convertOFXTransaction(ofxTx ofxgo.Transaction, sourceFile string) model.Transaction {
	amount, _ := ofxTx.TrnAmt.Float64()
	kind := model.KindDeposit
	if amount < 0 {
		amount = -amount
		kind = model.KindDebit
	}

	rawDesc := string(ofxTx.Name)
	if ofxTx.Payee != nil && ofxTx.Payee.Name != "" {
		rawDesc = string(ofxTx.Payee.Name)
	} else if ofxTx.Memo != "" && strings.TrimSpace(rawDesc) == "" {
		rawDesc = string(ofxTx.Memo)
	}
	rawDesc = strings.TrimSpace(rawDesc)

	return model.Transaction{
		Date:           ofxTx.DtPosted.Time,
		Description:    shortDescription(rawDesc),
		RawDescription: rawDesc,
		Amount:         amount,
		Kind:           kind,
		SourceFile:     sourceFile,
	}
}
