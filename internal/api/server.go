// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	handler "github.com/openfolio/openfolio/internal/api/handler/api"
	"github.com/openfolio/openfolio/internal/api/middleware"
	"github.com/openfolio/openfolio/internal/app"
	"github.com/openfolio/openfolio/internal/metrics"
)

// Server is the HTTP front end.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration.
type Config struct {
	Host        string
	Port        int
	APIKey      string
	MetricsPath string // empty disables the metrics endpoint
}

// NewServer creates the HTTP server and registers all routes. The metrics
// registry and chatbot may be nil.
func NewServer(cfg Config, svc *app.Service, bot handler.Responder, reg *metrics.Registry, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}

	s.setupRoutes(cfg, svc, bot, reg)

	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes(cfg Config, svc *app.Service, bot handler.Responder, reg *metrics.Registry) {
	api := http.NewServeMux()

	accounts := handler.NewAccountsHandler(svc)
	api.HandleFunc("GET /api/accounts", accounts.List)
	api.HandleFunc("POST /api/accounts", accounts.Create)
	api.HandleFunc("GET /api/accounts/{id}", accounts.Get)
	api.HandleFunc("PUT /api/accounts/{id}", accounts.Update)
	api.HandleFunc("DELETE /api/accounts/{id}", accounts.Delete)

	strategies := handler.NewStrategiesHandler(svc)
	api.HandleFunc("GET /api/strategies", strategies.List)
	api.HandleFunc("POST /api/strategies", strategies.Create)
	api.HandleFunc("GET /api/strategies/{id}", strategies.Get)
	api.HandleFunc("PUT /api/strategies/{id}", strategies.Update)
	api.HandleFunc("DELETE /api/strategies/{id}", strategies.Delete)

	portfolios := handler.NewPortfoliosHandler(svc)
	api.HandleFunc("GET /api/portfolios", portfolios.List)
	api.HandleFunc("POST /api/portfolios", portfolios.Create)
	api.HandleFunc("GET /api/portfolios/{id}", portfolios.Get)
	api.HandleFunc("PUT /api/portfolios/{id}", portfolios.Update)
	api.HandleFunc("DELETE /api/portfolios/{id}", portfolios.Delete)
	api.HandleFunc("GET /api/portfolios/{id}/performance", portfolios.Performance)
	api.HandleFunc("GET /api/portfolios/{id}/recommendation", portfolios.Recommendation)

	transactions := handler.NewTransactionsHandler(svc)
	api.HandleFunc("GET /api/transactions", transactions.List)
	api.HandleFunc("POST /api/transactions", transactions.Create)
	api.HandleFunc("GET /api/transactions/{id}", transactions.Get)
	api.HandleFunc("DELETE /api/transactions/{id}", transactions.Delete)

	performance := handler.NewPerformanceHandler(svc)
	api.HandleFunc("GET /api/performance", performance.Get)

	market := handler.NewMarketHandler(svc)
	api.HandleFunc("GET /api/market/history", market.History)
	api.HandleFunc("GET /api/market/info", market.Info)

	if bot != nil {
		chatbot := handler.NewChatbotHandler(bot, reg)
		api.HandleFunc("POST /api/chatbot", chatbot.Prompt)
	}

	var protected http.Handler = api
	protected = middleware.APIKeyAuth(cfg.APIKey)(protected)
	if reg != nil {
		protected = metrics.HTTPMiddleware(reg)(protected)
	}
	s.mux.Handle("/api/", protected)

	// Health and metrics stay outside the auth chain.
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	if reg != nil && cfg.MetricsPath != "" {
		s.mux.Handle("GET "+cfg.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routing tree, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
