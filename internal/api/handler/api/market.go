// internal/api/handler/api/market.go
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/openfolio/openfolio/internal/api/response"
	"github.com/openfolio/openfolio/internal/app"
	"github.com/openfolio/openfolio/internal/core"
)

// MarketHandler exposes the quote provider passthroughs.
type MarketHandler struct {
	svc *app.Service
}

// NewMarketHandler creates a new market handler.
func NewMarketHandler(svc *app.Service) *MarketHandler {
	return &MarketHandler{svc: svc}
}

// History returns daily closes for `symbol` between `start` and `end`
// (YYYY-MM-DD). End defaults to today, start to 30 days before end.
func (h *MarketHandler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	symbol := q.Get("symbol")
	if symbol == "" {
		response.Error(w, core.WrapError(core.ErrValidation,
			errors.New("symbol query parameter is required")))
		return
	}

	end := time.Now()
	if v := q.Get("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Error(w, core.WrapError(core.ErrValidation, err))
			return
		}
		end = t
	}

	start := end.AddDate(0, 0, -30)
	if v := q.Get("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.Error(w, core.WrapError(core.ErrValidation, err))
			return
		}
		start = t
	}

	closes, err := h.svc.MarketHistory(r.Context(), symbol, start, end)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"symbol":  symbol,
		"history": closes,
	})
}

// Info returns static info for `symbol`.
func (h *MarketHandler) Info(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	if symbol == "" {
		response.Error(w, core.WrapError(core.ErrValidation,
			errors.New("symbol query parameter is required")))
		return
	}

	info, err := h.svc.MarketInfo(r.Context(), symbol)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, info)
}
