// internal/api/handler/api/transactions.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/openfolio/openfolio/internal/api/response"
	"github.com/openfolio/openfolio/internal/app"
	"github.com/openfolio/openfolio/internal/core"
)

// TransactionsHandler handles transaction API requests.
type TransactionsHandler struct {
	svc *app.Service
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(svc *app.Service) *TransactionsHandler {
	return &TransactionsHandler{svc: svc}
}

// CreateRequest is the request body for recording a transaction. Price,
// name, and date are assigned server-side at submission time.
type CreateRequest struct {
	PortfolioID string               `json:"portfolio"`
	Type        core.TransactionType `json:"transaction_type"`
	Symbol      string               `json:"symbol"`
	Quantity    decimal.Decimal      `json:"quantity"`
}

// List returns the transactions of the portfolio given by the `portfolio`
// query parameter, date ascending.
func (h *TransactionsHandler) List(w http.ResponseWriter, r *http.Request) {
	portfolioID := r.URL.Query().Get("portfolio")
	if portfolioID == "" {
		response.Error(w, core.WrapError(core.ErrValidation,
			errors.New("portfolio query parameter is required")))
		return
	}

	txs, err := h.svc.ListTransactions(r.Context(), portfolioID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"transactions": txs,
		"count":        len(txs),
	})
}

// Create records a new transaction priced at the current quote.
func (h *TransactionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, core.WrapError(core.ErrValidation, err))
		return
	}

	tx, err := h.svc.CreateTransaction(r.Context(), req.PortfolioID, req.Type, req.Symbol, req.Quantity)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, tx)
}

// Get returns one transaction by ID.
func (h *TransactionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, tx)
}

// Delete removes a transaction.
func (h *TransactionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteTransaction(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"deleted": true,
	})
}
