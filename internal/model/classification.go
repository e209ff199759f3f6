// Package model defines the core domain models used throughout the application.
package model

import "time"

// Status is the review state of a transaction.
type Status string

// Status constants.
const (
	StatusAutoApproved Status = "auto-approved"
	StatusNeedsReview  Status = "needs-review"
	StatusManual       Status = "manual"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusAutoApproved, StatusNeedsReview, StatusManual}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAutoApproved, StatusNeedsReview, StatusManual:
		return true
	}
	return false
}

// DecisionSource records why the current category and status hold.
type DecisionSource string

// Decision source constants.
const (
	SourceModel          DecisionSource = "Model"
	SourceRule           DecisionSource = "Rule"
	SourceManualOverride DecisionSource = "ManualOverride"
)

// Valid reports whether d is one of the known decision sources.
func (d DecisionSource) Valid() bool {
	switch d {
	case SourceModel, SourceRule, SourceManualOverride:
		return true
	}
	return false
}

// Classification is the category assignment delivered by the upstream classifier.
// It is kept on every transaction so a reset can restore it.
type Classification struct {
	Category   string         `json:"category"`
	Source     DecisionSource `json:"source"`
	Confidence float64        `json:"confidence"`
}

// Action names a mutation recorded in the decision history.
type Action string

// Action constants.
const (
	ActionIngest       Action = "ingest"
	ActionApprove      Action = "approve"
	ActionRecategorize Action = "recategorize"
	ActionReset        Action = "reset"
)

// DecisionEvent is one audit trail entry.
type DecisionEvent struct {
	At            time.Time      `json:"at"`
	TransactionID string         `json:"transaction_id"`
	Action        Action         `json:"action"`
	FromStatus    Status         `json:"from_status,omitempty"`
	ToStatus      Status         `json:"to_status"`
	FromCategory  string         `json:"from_category,omitempty"`
	ToCategory    string         `json:"to_category"`
	Source        DecisionSource `json:"source"`
	ID            int64          `json:"id,omitempty"`
}

// Snapshot is the unit of persistence: the complete transaction set plus
// the events produced by the mutation that led to it.
type Snapshot struct {
	Transactions []Transaction
	Events       []DecisionEvent
}

// SessionFlags are presentation bookkeeping persisted next to the ledger.
type SessionFlags struct {
	ReviewCompleted bool `json:"review_completed"`
	BannerShown     bool `json:"banner_shown"`
}
