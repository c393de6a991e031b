// Package app wires storage, the quote provider, and the performance engine
// into the operations the API layer exposes.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openfolio/openfolio/internal/core"
	"github.com/openfolio/openfolio/internal/metrics"
	"github.com/openfolio/openfolio/internal/portfolio"
	"github.com/openfolio/openfolio/internal/quote"
	"github.com/openfolio/openfolio/internal/storage"
	"github.com/openfolio/openfolio/internal/storage/archive"
)

// weekAvgDays is the lookback window for the per-symbol average price.
const weekAvgDays = 7

// Service implements the application operations over the injected
// collaborators. All quote-provider failures inside report computation
// degrade per symbol; only transaction pricing treats them as fatal.
type Service struct {
	store   storage.Store
	quotes  quote.Provider
	logger  *zap.Logger
	metrics *metrics.Registry    // nil disables recording
	snap    *archive.Snapshotter // nil disables report archiving
	now     func() time.Time
}

// Option configures optional Service collaborators.
type Option func(*Service)

// WithMetrics attaches a metrics registry.
func WithMetrics(reg *metrics.Registry) Option {
	return func(s *Service) { s.metrics = reg }
}

// WithSnapshotter enables archiving of computed performance reports.
func WithSnapshotter(snap *archive.Snapshotter) Option {
	return func(s *Service) { s.snap = snap }
}

// NewService creates a Service.
func NewService(store storage.Store, quotes quote.Provider, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		quotes: quotes,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// --- Accounts ---

// CreateAccount validates and persists a new account.
func (s *Service) CreateAccount(ctx context.Context, a *core.Account) error {
	if a.Username == "" {
		return core.WrapError(core.ErrValidation, fmt.Errorf("username is required"))
	}
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt
	return s.store.CreateAccount(ctx, a)
}

func (s *Service) GetAccount(ctx context.Context, id string) (*core.Account, error) {
	return s.store.GetAccount(ctx, id)
}

func (s *Service) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.store.ListAccounts(ctx)
}

func (s *Service) UpdateAccount(ctx context.Context, a *core.Account) error {
	if a.Username == "" {
		return core.WrapError(core.ErrValidation, fmt.Errorf("username is required"))
	}
	a.UpdatedAt = s.now()
	return s.store.UpdateAccount(ctx, a)
}

func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	return s.store.DeleteAccount(ctx, id)
}

// --- Strategies ---

// CreateStrategy validates and persists a new strategy for an account.
func (s *Service) CreateStrategy(ctx context.Context, st *core.Strategy) error {
	if err := st.Validate(); err != nil {
		return err
	}
	if _, err := s.store.GetAccount(ctx, st.AccountID); err != nil {
		return err
	}
	st.CreatedAt = s.now()
	st.UpdatedAt = st.CreatedAt
	return s.store.CreateStrategy(ctx, st)
}

func (s *Service) GetStrategy(ctx context.Context, id string) (*core.Strategy, error) {
	return s.store.GetStrategy(ctx, id)
}

func (s *Service) ListStrategies(ctx context.Context, accountID string) ([]core.Strategy, error) {
	return s.store.ListStrategiesByAccount(ctx, accountID)
}

func (s *Service) UpdateStrategy(ctx context.Context, st *core.Strategy) error {
	if err := st.Validate(); err != nil {
		return err
	}
	st.UpdatedAt = s.now()
	return s.store.UpdateStrategy(ctx, st)
}

func (s *Service) DeleteStrategy(ctx context.Context, id string) error {
	return s.store.DeleteStrategy(ctx, id)
}

// --- Portfolios ---

// CreatePortfolio validates and persists a new portfolio. The referenced
// account and strategy must exist.
func (s *Service) CreatePortfolio(ctx context.Context, p *core.Portfolio) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if _, err := s.store.GetAccount(ctx, p.AccountID); err != nil {
		return err
	}
	if p.StrategyID != "" {
		if _, err := s.store.GetStrategy(ctx, p.StrategyID); err != nil {
			return err
		}
	}
	p.CreatedAt = s.now()
	p.UpdatedAt = p.CreatedAt
	return s.store.CreatePortfolio(ctx, p)
}

func (s *Service) GetPortfolio(ctx context.Context, id string) (*core.Portfolio, error) {
	return s.store.GetPortfolio(ctx, id)
}

func (s *Service) ListPortfolios(ctx context.Context, accountID string) ([]core.Portfolio, error) {
	return s.store.ListPortfoliosByAccount(ctx, accountID)
}

func (s *Service) UpdatePortfolio(ctx context.Context, p *core.Portfolio) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.UpdatedAt = s.now()
	return s.store.UpdatePortfolio(ctx, p)
}

func (s *Service) DeletePortfolio(ctx context.Context, id string) error {
	return s.store.DeletePortfolio(ctx, id)
}

// --- Transactions ---

// CreateTransaction records a buy, sell, or dividend. The transaction is
// priced at submission time from the quote provider; a missing quote is a
// hard validation failure naming the symbol and nothing is written.
func (s *Service) CreateTransaction(ctx context.Context, portfolioID string, txType core.TransactionType, symbol string, quantity decimal.Decimal) (*core.Transaction, error) {
	if _, err := s.store.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}

	tx := &core.Transaction{
		PortfolioID: portfolioID,
		Type:        txType,
		Symbol:      symbol,
		Quantity:    quantity,
		Date:        s.now(),
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	price, err := s.quotes.CurrentPrice(ctx, symbol)
	if err != nil {
		s.recordQuote("price", "error")
		return nil, core.WrapError(core.ErrValidation,
			fmt.Errorf("unable to fetch stock price for symbol: %s", symbol))
	}
	s.recordQuote("price", "ok")
	tx.PricePerUnit = price
	tx.DeriveTotalCost()

	tx.Name = symbol
	if info, err := s.quotes.Info(ctx, symbol); err == nil && info.ShortName != "" && info.ShortName != "unknown" {
		tx.Name = info.ShortName
	}

	if err := s.store.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordTransaction(string(txType))
	}
	return tx, nil
}

func (s *Service) GetTransaction(ctx context.Context, id string) (*core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *Service) ListTransactions(ctx context.Context, portfolioID string) ([]core.Transaction, error) {
	return s.store.ListTransactionsByPortfolio(ctx, portfolioID)
}

func (s *Service) DeleteTransaction(ctx context.Context, id string) error {
	return s.store.DeleteTransaction(ctx, id)
}

// --- Reports ---

// ComputePerformance aggregates every portfolio of the account into one
// performance report. Symbols whose current price is unavailable are left
// out of the unrealized map; the report still succeeds.
func (s *Service) ComputePerformance(ctx context.Context, accountID string) (*portfolio.PerformanceReport, error) {
	start := s.now()

	if _, err := s.store.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	portfolios, err := s.store.ListPortfoliosByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(portfolios))
	for _, p := range portfolios {
		ids = append(ids, p.ID)
	}

	txs, err := s.store.ListTransactionsByPortfolios(ctx, ids)
	if err != nil {
		return nil, err
	}

	report := portfolio.Aggregate(txs, s.priceLookup(ctx), s.assetTypeLookup(ctx))

	if s.metrics != nil {
		s.metrics.RecordReport("performance", time.Since(start).Seconds())
	}
	s.archiveSnapshot(ctx, accountID, report)

	return report, nil
}

// ComputePortfolioPerformance aggregates a single portfolio.
func (s *Service) ComputePortfolioPerformance(ctx context.Context, portfolioID string) (*portfolio.PerformanceReport, error) {
	start := s.now()

	if _, err := s.store.GetPortfolio(ctx, portfolioID); err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactionsByPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	report := portfolio.Aggregate(txs, s.priceLookup(ctx), s.assetTypeLookup(ctx))

	if s.metrics != nil {
		s.metrics.RecordReport("portfolio", time.Since(start).Seconds())
	}
	return report, nil
}

// ComputeRecommendation builds the recommendation report for one portfolio.
// The portfolio's strategy must exist and carry a risk tolerance.
func (s *Service) ComputeRecommendation(ctx context.Context, portfolioID string) (*portfolio.RecommendationReport, error) {
	p, err := s.store.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return nil, err
	}
	if p.StrategyID == "" {
		return nil, core.WrapError(core.ErrStrategyIncomplete,
			fmt.Errorf("portfolio %s has no strategy", portfolioID))
	}
	strategy, err := s.store.GetStrategy(ctx, p.StrategyID)
	if err != nil {
		return nil, err
	}

	report, err := s.ComputePortfolioPerformance(ctx, portfolioID)
	if err != nil {
		return nil, err
	}

	market := make(map[string]portfolio.SymbolMarket)
	for symbol, net := range report.AssetsByAsset {
		if !net.IsPositive() {
			continue
		}
		market[symbol] = s.symbolMarket(ctx, symbol)
	}

	rec, err := portfolio.Recommend(report, strategy, market)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordRecommendation()
	}
	return rec, nil
}

// symbolMarket fetches the market context for one held symbol. Each field
// degrades independently: a nil price means the provider had nothing.
func (s *Service) symbolMarket(ctx context.Context, symbol string) portfolio.SymbolMarket {
	var m portfolio.SymbolMarket

	if price, err := s.quotes.CurrentPrice(ctx, symbol); err == nil {
		m.CurrentPrice = &price
		s.recordQuote("price", "ok")
	} else {
		s.recordQuote("price", "error")
		s.logger.Debug("current price unavailable", zap.String("symbol", symbol), zap.Error(err))
	}

	end := s.now()
	closes, err := s.quotes.History(ctx, symbol, end.AddDate(0, 0, -weekAvgDays), end)
	if err == nil && len(closes) > 0 {
		s.recordQuote("history", "ok")
		prices := make([]decimal.Decimal, len(closes))
		for i, c := range closes {
			prices[i] = c.Price
		}
		avg := decimal.Avg(prices[0], prices[1:]...)
		m.WeekAvgPrice = &avg
	} else if err != nil {
		s.recordQuote("history", "error")
		s.logger.Debug("price history unavailable", zap.String("symbol", symbol), zap.Error(err))
	}

	headlines, err := s.quotes.News(ctx, symbol)
	if err != nil {
		s.recordQuote("news", "error")
		s.logger.Debug("news unavailable", zap.String("symbol", symbol), zap.Error(err))
	} else {
		s.recordQuote("news", "ok")
		for _, h := range headlines {
			m.Headlines = append(m.Headlines, portfolio.Headline{
				Title:     h.Title,
				Publisher: h.Publisher,
				Link:      h.Link,
			})
		}
	}

	return m
}

// --- Market passthroughs ---

// MarketHistory returns daily closes for a symbol.
func (s *Service) MarketHistory(ctx context.Context, symbol string, start, end time.Time) ([]quote.Close, error) {
	closes, err := s.quotes.History(ctx, symbol, start, end)
	if err != nil {
		s.recordQuote("history", "error")
		return nil, err
	}
	s.recordQuote("history", "ok")
	return closes, nil
}

// MarketInfo returns static info for a symbol.
func (s *Service) MarketInfo(ctx context.Context, symbol string) (quote.AssetInfo, error) {
	info, err := s.quotes.Info(ctx, symbol)
	if err != nil {
		s.recordQuote("info", "error")
		return quote.AssetInfo{}, err
	}
	s.recordQuote("info", "ok")
	return info, nil
}

// --- internals ---

func (s *Service) priceLookup(ctx context.Context) portfolio.PriceLookup {
	return func(symbol string) (decimal.Decimal, bool) {
		price, err := s.quotes.CurrentPrice(ctx, symbol)
		if err != nil {
			s.recordQuote("price", "error")
			s.logger.Debug("current price unavailable", zap.String("symbol", symbol), zap.Error(err))
			return decimal.Zero, false
		}
		s.recordQuote("price", "ok")
		return price, true
	}
}

func (s *Service) assetTypeLookup(ctx context.Context) portfolio.AssetTypeLookup {
	return func(symbol string) string {
		info, err := s.quotes.Info(ctx, symbol)
		if err != nil {
			s.recordQuote("info", "error")
			return ""
		}
		s.recordQuote("info", "ok")
		return info.AssetType
	}
}

func (s *Service) archiveSnapshot(ctx context.Context, accountID string, report *portfolio.PerformanceReport) {
	if s.snap == nil {
		return
	}
	key, err := s.snap.Snapshot(ctx, accountID, report)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordSnapshot("error")
		}
		s.logger.Warn("archiving report snapshot failed",
			zap.String("account_id", accountID),
			zap.Error(err))
		return
	}
	if s.metrics != nil {
		s.metrics.RecordSnapshot("ok")
	}
	s.logger.Debug("report snapshot archived", zap.String("key", key))
}

func (s *Service) recordQuote(operation, status string) {
	if s.metrics != nil {
		s.metrics.RecordQuoteRequest(operation, status)
	}
}
