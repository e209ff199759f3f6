// Package ofx reads OFX/QFX bank and credit card statements into
// statement lines ready for classification.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/Veraticus/finsense/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// Payment methods assigned from the statement kind.
const (
	PaymentBankAccount = "Bank Account"
	PaymentCreditCard  = "Credit Card"
)

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

var merchantPrefixes = []string{
	"POS PURCHASE ",
	"PURCHASE AUTHORIZED ON ",
	"DEBIT CARD PURCHASE ",
	"ACH DEBIT ",
	"CHECK CARD ",
	"VISA PURCHASE ",
	"MC PURCHASE ",
	"DEBIT PURCHASE ",
}

var genericDescriptions = map[string]bool{
	"DEBIT":           true,
	"CREDIT":          true,
	"PURCHASE":        true,
	"PAYMENT":         true,
	"POS TRANSACTION": true,
	"CARD PURCHASE":   true,
}

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case.
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// Some SGML exports drop the closing bracket of bare opening tags.
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

// ParseFile parses an OFX/QFX file and returns its statement lines in file order.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) ([]model.StatementLine, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var lines []model.StatementLine
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		bankStmts++
		for _, ofxTx := range stmt.BankTranList.Transactions {
			lines = append(lines, p.convertTransaction(ofxTx, string(stmt.BankAcctFrom.AcctID), PaymentBankAccount))
		}
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok || stmt.BankTranList == nil {
			continue
		}
		ccStmts++
		for _, ofxTx := range stmt.BankTranList.Transactions {
			lines = append(lines, p.convertTransaction(ofxTx, string(stmt.CCAcctFrom.AcctID), PaymentCreditCard))
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(lines),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return lines, nil
}

// convertTransaction converts an OFX transaction to a statement line.
// OFX reports debits as negative; spending is flipped to positive.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, accountID, paymentMethod string) model.StatementLine {
	amount, err := decimal.NewFromString(ofxTx.TrnAmt.Rat.FloatString(2))
	if err != nil {
		slog.Warn("unreadable OFX amount", "fitid", ofxTx.FiTID, "error", err)
		amount = decimal.Zero
	}

	description := strings.TrimSpace(string(ofxTx.Name))
	if memo := strings.TrimSpace(string(ofxTx.Memo)); memo != "" {
		description = strings.TrimSpace(description + " " + memo)
	}

	posted := ofxTx.DtPosted.Time.UTC()
	return model.StatementLine{
		ID:            string(ofxTx.FiTID),
		Date:          time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC),
		Vendor:        p.extractMerchantName(ofxTx),
		Description:   description,
		Amount:        amount.Neg(),
		PaymentMethod: paymentMethod,
		AccountID:     accountID,
	}
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && genericDescriptions[strings.ToUpper(strings.TrimSpace(name))] {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	for _, prefix := range merchantPrefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Drop a leading "MM/DD " stamp.
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}
