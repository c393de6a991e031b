// internal/api/handler/api/performance.go
package api

import (
	"errors"
	"net/http"

	"github.com/openfolio/openfolio/internal/api/response"
	"github.com/openfolio/openfolio/internal/app"
	"github.com/openfolio/openfolio/internal/core"
)

// PerformanceHandler serves account-wide performance reports.
type PerformanceHandler struct {
	svc *app.Service
}

// NewPerformanceHandler creates a new performance handler.
func NewPerformanceHandler(svc *app.Service) *PerformanceHandler {
	return &PerformanceHandler{svc: svc}
}

// Get aggregates every portfolio of the account given by the `account`
// query parameter into one report.
func (h *PerformanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account")
	if accountID == "" {
		response.Error(w, core.WrapError(core.ErrValidation,
			errors.New("account query parameter is required")))
		return
	}

	report, err := h.svc.ComputePerformance(r.Context(), accountID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, report)
}
