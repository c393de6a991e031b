// internal/api/handler/api/portfolios.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/openfolio/openfolio/internal/api/response"
	"github.com/openfolio/openfolio/internal/app"
	"github.com/openfolio/openfolio/internal/core"
)

var errMissingAccount = errors.New("account query parameter is required")

// PortfoliosHandler handles portfolio API requests.
type PortfoliosHandler struct {
	svc *app.Service
}

// NewPortfoliosHandler creates a new portfolios handler.
func NewPortfoliosHandler(svc *app.Service) *PortfoliosHandler {
	return &PortfoliosHandler{svc: svc}
}

// List returns the portfolios of the account given by the `account` query
// parameter.
func (h *PortfoliosHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account")
	if accountID == "" {
		response.Error(w, core.WrapError(core.ErrValidation, errMissingAccount))
		return
	}

	portfolios, err := h.svc.ListPortfolios(r.Context(), accountID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"portfolios": portfolios,
		"count":      len(portfolios),
	})
}

// Create registers a new portfolio.
func (h *PortfoliosHandler) Create(w http.ResponseWriter, r *http.Request) {
	var pf core.Portfolio
	if err := json.NewDecoder(r.Body).Decode(&pf); err != nil {
		response.Error(w, core.WrapError(core.ErrValidation, err))
		return
	}

	if err := h.svc.CreatePortfolio(r.Context(), &pf); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, pf)
}

// Get returns one portfolio by ID.
func (h *PortfoliosHandler) Get(w http.ResponseWriter, r *http.Request) {
	pf, err := h.svc.GetPortfolio(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, pf)
}

// Update replaces a portfolio's mutable fields.
func (h *PortfoliosHandler) Update(w http.ResponseWriter, r *http.Request) {
	var pf core.Portfolio
	if err := json.NewDecoder(r.Body).Decode(&pf); err != nil {
		response.Error(w, core.WrapError(core.ErrValidation, err))
		return
	}
	pf.ID = r.PathValue("id")

	if err := h.svc.UpdatePortfolio(r.Context(), &pf); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, pf)
}

// Delete removes a portfolio.
func (h *PortfoliosHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.svc.DeletePortfolio(r.Context(), id); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"deleted": true,
	})
}

// Performance returns the single-portfolio performance report.
func (h *PortfoliosHandler) Performance(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.ComputePortfolioPerformance(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}

// Recommendation returns the recommendation report for a portfolio.
func (h *PortfoliosHandler) Recommendation(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.ComputeRecommendation(r.Context(), r.PathValue("id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, rec)
}
