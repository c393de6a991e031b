// internal/api/handler/api/strategies.go
package api

import (
	"encoding/json"
	"net/http"

	"github.com/openfolio/openfolio/internal/api/response"
	"github.com/openfolio/openfolio/internal/app"
	"github.com/openfolio/openfolio/internal/core"
)

// StrategiesHandler handles strategy API requests.
type StrategiesHandler struct {
	svc *app.Service
}

// NewStrategiesHandler creates a new strategies handler.
func NewStrategiesHandler(svc *app.Service) *StrategiesHandler {
	return &StrategiesHandler{svc: svc}
}

// List returns the strategies of the account given by the `account` query
// parameter.
func (h *StrategiesHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account")
	if accountID == "" {
		response.Error(w, core.WrapError(core.ErrValidation, errMissingAccount))
		return
	}

	strategies, err := h.svc.ListStrategies(r.Context(), accountID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"strategies": strategies,
		"count":      len(strategies),
	})
}

// Create registers a new strategy.
func (h *StrategiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var strategy core.Strategy
	if err := json.NewDecoder(r.Body).Decode(&strategy); err != nil {
		response.Error(w, core.WrapError(core.ErrValidation, err))
		return
	}

	if err := h.svc.CreateStrategy(r.Context(), &strategy); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, strategy)
}

// Get returns one strategy by ID.
func (h *StrategiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	strategy, err := h.svc.GetStrategy(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, strategy)
}

// Update replaces a strategy's mutable fields.
func (h *StrategiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	var strategy core.Strategy
	if err := json.NewDecoder(r.Body).Decode(&strategy); err != nil {
		response.Error(w, core.WrapError(core.ErrValidation, err))
		return
	}
	strategy.ID = r.PathValue("id")

	if err := h.svc.UpdateStrategy(r.Context(), &strategy); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, strategy)
}

// Delete removes a strategy.
func (h *StrategiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeleteStrategy(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"deleted": true,
	})
}
