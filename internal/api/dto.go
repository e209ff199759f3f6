package api

import (
	"fmt"
	"time"

	"github.com/Veraticus/finsense/internal/common"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionResponse is the wire form of a transaction. Amounts are
// fixed two-place decimal strings.
type TransactionResponse struct {
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
	ID                  string               `json:"id"`
	Amount              string               `json:"amount"`
	Date                string               `json:"date"`
	Vendor              string               `json:"vendor"`
	Category            string               `json:"category"`
	Status              model.Status         `json:"status"`
	Explanation         string               `json:"explanation"`
	DecisionSource      model.DecisionSource `json:"decision_source"`
	ThresholdLabel      string               `json:"threshold_label"`
	PaymentMethod       string               `json:"payment_method,omitempty"`
	OriginalDescription string               `json:"original_description,omitempty"`
	Original            model.Classification `json:"original"`
	Confidence          float64              `json:"confidence"`
}

// TransactionFromDomain converts a transaction, labelling its confidence
// band under policy.
func TransactionFromDomain(txn model.Transaction, policy engine.Policy) TransactionResponse {
	return TransactionResponse{
		ID:                  txn.ID,
		Date:                txn.Date.Format(model.DateLayout),
		Vendor:              txn.Vendor,
		Amount:              txn.Amount.StringFixed(2),
		Category:            txn.Category,
		Confidence:          txn.Confidence,
		Status:              txn.Status,
		Explanation:         txn.Explanation,
		DecisionSource:      txn.DecisionSource,
		ThresholdLabel:      policy.Describe(txn.Confidence),
		PaymentMethod:       txn.PaymentMethod,
		OriginalDescription: txn.OriginalDescription,
		Original:            txn.Original,
		CreatedAt:           txn.CreatedAt,
		UpdatedAt:           txn.UpdatedAt,
	}
}

// ListResponse is returned by the list endpoint.
type ListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Counts       model.StatusCounts    `json:"counts"`
	Total        int                   `json:"total"`
}

// SummaryResponse reports the status partition and the active policy.
type SummaryResponse struct {
	Counts        model.StatusCounts `json:"counts"`
	Total         int                `json:"total"`
	HighThreshold float64            `json:"high_threshold"`
	LowThreshold  float64            `json:"low_threshold"`
}

// IngestRequest is a classified transaction submitted for ingestion.
type IngestRequest struct {
	Amount              decimal.Decimal      `json:"amount"`
	ID                  string               `json:"id,omitempty"`
	Date                string               `json:"date"`
	Vendor              string               `json:"vendor"`
	Category            string               `json:"category"`
	Explanation         string               `json:"explanation"`
	Source              model.DecisionSource `json:"decision_source,omitempty"`
	PaymentMethod       string               `json:"payment_method,omitempty"`
	OriginalDescription string               `json:"original_description,omitempty"`
	Confidence          float64              `json:"confidence"`
}

// ToClassified parses the request into an ingest input.
func (r IngestRequest) ToClassified() (model.Classified, error) {
	date, err := time.Parse(model.DateLayout, r.Date)
	if err != nil {
		return model.Classified{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", common.ErrInvalidInput, r.Date)
	}

	return model.Classified{
		ID:                  r.ID,
		Date:                date,
		Vendor:              r.Vendor,
		Amount:              r.Amount,
		Category:            r.Category,
		Confidence:          r.Confidence,
		Explanation:         r.Explanation,
		Source:              r.Source,
		PaymentMethod:       r.PaymentMethod,
		OriginalDescription: r.OriginalDescription,
	}, nil
}

// RecategorizeRequest names the new category.
type RecategorizeRequest struct {
	Category string `json:"category"`
}

// ResetAllResponse reports how many transactions were restored.
type ResetAllResponse struct {
	Reset int `json:"reset"`
}

// DemoResponse reports the freshly loaded demo set.
type DemoResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Counts       model.StatusCounts    `json:"counts"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
