// internal/api/handler/api/accounts.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/openfolio/openfolio/internal/api/response"
	"github.com/openfolio/openfolio/internal/app"
	"github.com/openfolio/openfolio/internal/core"
)

// AccountsHandler handles account API requests.
type AccountsHandler struct {
	svc *app.Service
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(svc *app.Service) *AccountsHandler {
	return &AccountsHandler{svc: svc}
}

// List returns all accounts.
func (h *AccountsHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.svc.ListAccounts(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// Create registers a new account.
func (h *AccountsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var account core.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		response.Error(w, core.WrapError(core.ErrValidation, err))
		return
	}

	if err := h.svc.CreateAccount(r.Context(), &account); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, account)
}

// Get returns one account by ID.
func (h *AccountsHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.svc.GetAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

// Update replaces an account's mutable fields.
func (h *AccountsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var account core.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		response.Error(w, core.WrapError(core.ErrValidation, err))
		return
	}
	account.ID = r.PathValue("id")

	if err := h.svc.UpdateAccount(r.Context(), &account); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, account)
}

// Delete removes an account.
func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteAccount(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"deleted": true,
	})
}
