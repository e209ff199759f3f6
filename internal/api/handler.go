// Package api serves the decision workflow over HTTP.
package api

import (
	"context"
	"net/http"

	"github.com/Veraticus/finsense/internal/demo"
	"github.com/Veraticus/finsense/internal/engine"
	"github.com/Veraticus/finsense/internal/model"
	"github.com/go-chi/chi/v5"
)

// Engine is the workflow surface the handlers drive.
type Engine interface {
	Ingest(ctx context.Context, in model.Classified) (model.Transaction, error)
	IngestBatch(ctx context.Context, batch []model.Classified) ([]model.Transaction, error)
	Approve(ctx context.Context, id string) (model.Transaction, error)
	Recategorize(ctx context.Context, id, category string) (model.Transaction, error)
	Reset(ctx context.Context, id string) (model.Transaction, error)
	ResetAll(ctx context.Context) (int, error)
	Clear(ctx context.Context) (int, error)
	Get(ctx context.Context, id string) (model.Transaction, error)
	List(ctx context.Context, filter model.Filter) []model.Transaction
	CountByStatus(ctx context.Context) model.StatusCounts
	Policy() engine.Policy
}

// Catalog lists categories and decision history.
type Catalog interface {
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetHistory(ctx context.Context, transactionID string) ([]model.DecisionEvent, error)
}

// Session reads and updates the review session flags.
type Session interface {
	Get(ctx context.Context) (model.SessionFlags, error)
	Update(ctx context.Context, flags model.SessionFlags) error
	Complete(ctx context.Context) (model.SessionFlags, error)
}

// Handler serves the transaction, category and session endpoints.
type Handler struct {
	engine  Engine
	catalog Catalog
	session Session
	flags   demo.FlagSaver
}

// NewHandler creates a Handler. flags is used to clear the session when the
// demo dataset is reloaded.
func NewHandler(eng Engine, catalog Catalog, session Session, flags demo.FlagSaver) *Handler {
	return &Handler{engine: eng, catalog: catalog, session: session, flags: flags}
}

func (h *Handler) respond(w http.ResponseWriter, status int, txn model.Transaction) {
	writeJSON(w, status, TransactionFromDomain(txn, h.engine.Policy()))
}

func (h *Handler) convert(txns []model.Transaction) []TransactionResponse {
	policy := h.engine.Policy()
	out := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, TransactionFromDomain(txn, policy))
	}
	return out
}

// List returns transactions matching the status, vendor, category and q
// query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.Filter{
		Status:   model.Status(q.Get("status")),
		Vendor:   q.Get("vendor"),
		Category: q.Get("category"),
		Search:   q.Get("q"),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		writeError(w, http.StatusBadRequest, "invalid status filter", string(filter.Status))
		return
	}

	txns := h.engine.List(r.Context(), filter)
	writeJSON(w, http.StatusOK, ListResponse{
		Transactions: h.convert(txns),
		Counts:       h.engine.CountByStatus(r.Context()),
		Total:        len(txns),
	})
}

// Summary returns the status partition.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	counts := h.engine.CountByStatus(r.Context())
	policy := h.engine.Policy()
	writeJSON(w, http.StatusOK, SummaryResponse{
		Counts:        counts,
		Total:         counts.Total(),
		HighThreshold: policy.HighThreshold,
		LowThreshold:  policy.LowThreshold,
	})
}

// Get returns one transaction.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	txn, err := h.engine.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to get transaction", err)
		return
	}
	h.respond(w, http.StatusOK, txn)
}

// Ingest adds one classified transaction.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	in, err := req.ToClassified()
	if err != nil {
		writeDomainError(w, r, "failed to ingest transaction", err)
		return
	}

	txn, err := h.engine.Ingest(r.Context(), in)
	if err != nil {
		writeDomainError(w, r, "failed to ingest transaction", err)
		return
	}
	h.respond(w, http.StatusCreated, txn)
}

// IngestBatch adds a list of classified transactions, all or nothing.
func (h *Handler) IngestBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []IngestRequest
	if err := decodeJSON(r, &reqs); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	batch := make([]model.Classified, 0, len(reqs))
	for _, req := range reqs {
		in, err := req.ToClassified()
		if err != nil {
			writeDomainError(w, r, "failed to ingest batch", err)
			return
		}
		batch = append(batch, in)
	}

	created, err := h.engine.IngestBatch(r.Context(), batch)
	if err != nil {
		writeDomainError(w, r, "failed to ingest batch", err)
		return
	}
	writeJSON(w, http.StatusCreated, h.convert(created))
}

// Approve accepts the current category of a needs-review transaction.
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	txn, err := h.engine.Approve(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to approve transaction", err)
		return
	}
	h.respond(w, http.StatusOK, txn)
}

// Recategorize moves a transaction to another category.
func (h *Handler) Recategorize(w http.ResponseWriter, r *http.Request) {
	var req RecategorizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	txn, err := h.engine.Recategorize(r.Context(), chi.URLParam(r, "id"), req.Category)
	if err != nil {
		writeDomainError(w, r, "failed to recategorize transaction", err)
		return
	}
	h.respond(w, http.StatusOK, txn)
}

// Reset restores a transaction's original classification.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	txn, err := h.engine.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, "failed to reset transaction", err)
		return
	}
	h.respond(w, http.StatusOK, txn)
}

// ResetAll restores every transaction.
func (h *Handler) ResetAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.engine.ResetAll(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to reset transactions", err)
		return
	}
	writeJSON(w, http.StatusOK, ResetAllResponse{Reset: n})
}

// History returns the decision trail of one transaction.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.engine.Get(r.Context(), id); err != nil {
		writeDomainError(w, r, "failed to get history", err)
		return
	}

	events, err := h.catalog.GetHistory(r.Context(), id)
	if err != nil {
		writeDomainError(w, r, "failed to get history", err)
		return
	}
	if events == nil {
		events = []model.DecisionEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Categories lists the active categories.
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.catalog.GetCategories(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to list categories", err)
		return
	}
	if cats == nil {
		cats = []model.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// GetFlags returns the session flags.
func (h *Handler) GetFlags(w http.ResponseWriter, r *http.Request) {
	flags, err := h.session.Get(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to get session flags", err)
		return
	}
	writeJSON(w, http.StatusOK, flags)
}

// PutFlags replaces the session flags.
func (h *Handler) PutFlags(w http.ResponseWriter, r *http.Request) {
	var flags model.SessionFlags
	if err := decodeJSON(r, &flags); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.session.Update(r.Context(), flags); err != nil {
		writeDomainError(w, r, "failed to update session flags", err)
		return
	}
	writeJSON(w, http.StatusOK, flags)
}

// Complete marks the review finished.
func (h *Handler) Complete(w http.ResponseWriter, r *http.Request) {
	flags, err := h.session.Complete(r.Context())
	if err != nil {
		writeDomainError(w, r, "failed to complete review", err)
		return
	}
	writeJSON(w, http.StatusOK, flags)
}

// ResetDemo replaces the ledger with the demo dataset.
func (h *Handler) ResetDemo(w http.ResponseWriter, r *http.Request) {
	created, err := demo.Load(r.Context(), h.engine, h.flags)
	if err != nil {
		writeDomainError(w, r, "failed to load demo data", err)
		return
	}
	writeJSON(w, http.StatusOK, DemoResponse{
		Transactions: h.convert(created),
		Counts:       h.engine.CountByStatus(r.Context()),
	})
}
