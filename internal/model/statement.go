package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementLine is a bank or card statement entry before classification.
// Amount is positive for money spent and negative for money received.
type StatementLine struct {
	Date          time.Time
	Amount        decimal.Decimal
	ID            string
	Vendor        string
	Description   string
	PaymentMethod string
	AccountID     string
}
