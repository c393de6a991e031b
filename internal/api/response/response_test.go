// internal/api/response/response_test.go
package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openfolio/openfolio/internal/core"
)

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"hello": "world"}

	JSON(w, http.StatusOK, data)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected application/json content type")
	}

	var resp SuccessResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Data == nil {
		t.Error("expected data in response")
	}
	if resp.Meta.Timestamp.IsZero() {
		t.Error("expected timestamp in meta")
	}
}

func TestError_StatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"not found", core.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"quote unavailable", core.ErrQuoteUnavailable, http.StatusNotFound, "QUOTE_UNAVAILABLE"},
		{"validation", core.WrapError(core.ErrValidation, errors.New("bad symbol")), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"incomplete strategy", core.ErrStrategyIncomplete, http.StatusBadRequest, "STRATEGY_INCOMPLETE"},
		{"unauthorized", core.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHORIZED"},
		{"provider failure", core.ErrProviderFailed, http.StatusBadGateway, "PROVIDER_FAILED"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			Error(w, tt.err)

			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, w.Code)
			}

			var resp ErrorResponse
			json.Unmarshal(w.Body.Bytes(), &resp)
			if resp.Error.Code != tt.wantErr {
				t.Errorf("expected %s, got %s", tt.wantErr, resp.Error.Code)
			}
		})
	}
}

func TestError_IncludesCause(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, core.WrapError(core.ErrValidation, errors.New("quantity is negative")))

	var resp ErrorResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Cause != "quantity is negative" {
		t.Errorf("expected cause to round-trip, got %q", resp.Error.Cause)
	}
}

func TestErrorStatus_Explicit(t *testing.T) {
	w := httptest.NewRecorder()

	ErrorStatus(w, http.StatusTeapot, core.ErrValidation)

	if w.Code != http.StatusTeapot {
		t.Errorf("expected explicit status to win, got %d", w.Code)
	}
}
