// internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openfolio/openfolio/internal/app"
	"github.com/openfolio/openfolio/internal/chatbot"
	"github.com/openfolio/openfolio/internal/core"
	"github.com/openfolio/openfolio/internal/metrics"
	"github.com/openfolio/openfolio/internal/quote"
	"github.com/openfolio/openfolio/internal/storage"
)

type stubQuotes struct {
	prices map[string]decimal.Decimal
}

func (s *stubQuotes) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	p, ok := s.prices[symbol]
	if !ok {
		return decimal.Zero, core.ErrQuoteUnavailable
	}
	return p, nil
}

func (s *stubQuotes) History(ctx context.Context, symbol string, start, end time.Time) ([]quote.Close, error) {
	p, ok := s.prices[symbol]
	if !ok {
		return nil, core.ErrQuoteUnavailable
	}
	return []quote.Close{
		{Date: start, Price: p},
		{Date: end, Price: p},
	}, nil
}

func (s *stubQuotes) Info(ctx context.Context, symbol string) (quote.AssetInfo, error) {
	if _, ok := s.prices[symbol]; !ok {
		return quote.AssetInfo{}, core.ErrQuoteUnavailable
	}
	return quote.AssetInfo{Symbol: symbol, ShortName: symbol + " Corp", AssetType: "stocks"}, nil
}

func (s *stubQuotes) News(ctx context.Context, symbol string) ([]quote.Headline, error) {
	return nil, nil
}

func newTestServer(t *testing.T, apiKey string) (*Server, *stubQuotes) {
	t.Helper()
	quotes := &stubQuotes{prices: map[string]decimal.Decimal{
		"AAPL":  decimal.NewFromInt(150),
		"^GSPC": decimal.NewFromInt(5000),
		"^DJI":  decimal.NewFromInt(40000),
		"^IXIC": decimal.NewFromInt(16000),
	}}
	svc := app.NewService(storage.NewMemoryStore(), quotes, zap.NewNop())
	bot := chatbot.New(quotes, nil, zap.NewNop())

	srv := NewServer(Config{
		Host:        "localhost",
		Port:        0,
		APIKey:      apiKey,
		MetricsPath: "/metrics",
	}, svc, bot, metrics.NewRegistry(), zap.NewNop())

	return srv, quotes
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp struct {
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response %q: %v", w.Body.String(), err)
	}
	return resp.Data
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t, "")

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestServer_Metrics(t *testing.T) {
	srv, _ := newTestServer(t, "")

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestServer_APIAuth_Required(t *testing.T) {
	srv, _ := newTestServer(t, "test-key")

	req := httptest.NewRequest("GET", "/api/accounts", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without key, got %d", w.Code)
	}
}

func TestServer_APIAuth_ValidKey(t *testing.T) {
	srv, _ := newTestServer(t, "test-key")

	req := httptest.NewRequest("GET", "/api/accounts", nil)
	req.Header.Set("X-API-Key", "test-key")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 with key, got %d", w.Code)
	}
}

func TestServer_HealthSkipsAuth(t *testing.T) {
	srv, _ := newTestServer(t, "test-key")

	req := httptest.NewRequest("GET", "/api/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("expected health to skip auth, got %d", w.Code)
	}
}

// Walks the whole account → strategy → portfolio → transaction →
// performance → recommendation flow over HTTP.
func TestServer_EndToEnd(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := doJSON(t, srv, "POST", "/api/accounts", map[string]any{
		"username": "ada",
		"email":    "ada@example.com",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("creating account: %d %s", w.Code, w.Body.String())
	}
	accountID := dataField(t, w)["id"].(string)

	w = doJSON(t, srv, "POST", "/api/strategies", map[string]any{
		"account_id":     accountID,
		"name":           "growth",
		"risk_tolerance": "high",
		"target_return":  "1000",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("creating strategy: %d %s", w.Code, w.Body.String())
	}
	strategyID := dataField(t, w)["id"].(string)

	w = doJSON(t, srv, "POST", "/api/portfolios", map[string]any{
		"account_id":  accountID,
		"strategy_id": strategyID,
		"name":        "main",
		"currency":    "USD",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("creating portfolio: %d %s", w.Code, w.Body.String())
	}
	portfolioID := dataField(t, w)["id"].(string)

	w = doJSON(t, srv, "POST", "/api/transactions", map[string]any{
		"portfolio":        portfolioID,
		"transaction_type": "buy",
		"symbol":           "AAPL",
		"quantity":         "10",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("creating transaction: %d %s", w.Code, w.Body.String())
	}
	tx := dataField(t, w)
	if tx["name"] != "AAPL Corp" {
		t.Errorf("expected server-side name, got %v", tx["name"])
	}
	if tx["price_per_unit"] != "150" {
		t.Errorf("expected submission-time price 150, got %v", tx["price_per_unit"])
	}

	w = doJSON(t, srv, "GET", "/api/performance?account="+accountID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("performance: %d %s", w.Code, w.Body.String())
	}
	report := dataField(t, w)
	if _, ok := report["total_gain_loss"]; !ok {
		t.Error("expected total_gain_loss in report")
	}

	w = doJSON(t, srv, "GET", fmt.Sprintf("/api/portfolios/%s/recommendation", portfolioID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("recommendation: %d %s", w.Code, w.Body.String())
	}
	rec := dataField(t, w)
	if rec["recommendation"] == "" {
		t.Error("expected a recommendation text")
	}
	if _, ok := rec["stocks_analysis"]; !ok {
		t.Error("expected stocks_analysis in recommendation")
	}
}

func TestServer_TransactionWithoutQuoteFails(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := doJSON(t, srv, "POST", "/api/accounts", map[string]any{"username": "bo"})
	accountID := dataField(t, w)["id"].(string)

	w = doJSON(t, srv, "POST", "/api/portfolios", map[string]any{
		"account_id": accountID,
		"name":       "main",
		"currency":   "USD",
	})
	portfolioID := dataField(t, w)["id"].(string)

	w = doJSON(t, srv, "POST", "/api/transactions", map[string]any{
		"portfolio":        portfolioID,
		"transaction_type": "buy",
		"symbol":           "GHOST",
		"quantity":         "1",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unpriceable symbol, got %d %s", w.Code, w.Body.String())
	}

	var resp struct {
		Error struct {
			Cause string `json:"cause"`
		} `json:"error"`
	}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Error.Cause != "unable to fetch stock price for symbol: GHOST" {
		t.Errorf("expected cause naming the symbol, got %q", resp.Error.Cause)
	}
}

func TestServer_Chatbot(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := doJSON(t, srv, "POST", "/api/chatbot", map[string]any{
		"prompt": "how do I manage my portfolio?",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("chatbot: %d %s", w.Code, w.Body.String())
	}
	if dataField(t, w)["response"] != "To manage your portfolio, please go to Portfolio Management." {
		t.Errorf("unexpected chatbot reply: %v", dataField(t, w)["response"])
	}
}

func TestServer_UnknownEntityIs404(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := doJSON(t, srv, "GET", "/api/accounts/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestServer_MarketInfo(t *testing.T) {
	srv, _ := newTestServer(t, "")

	w := doJSON(t, srv, "GET", "/api/market/info?symbol=AAPL", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("market info: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, "GET", "/api/market/info?symbol=GHOST", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown symbol, got %d", w.Code)
	}
}
