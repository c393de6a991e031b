// Package storage defines the repository interfaces for the persisted
// entities and an in-memory implementation.
package storage

import (
	"context"

	"github.com/openfolio/openfolio/internal/core"
)

// AccountStore persists accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, a *core.Account) error
	GetAccount(ctx context.Context, id string) (*core.Account, error)
	ListAccounts(ctx context.Context) ([]core.Account, error)
	UpdateAccount(ctx context.Context, a *core.Account) error
	DeleteAccount(ctx context.Context, id string) error
}

// StrategyStore persists strategies.
type StrategyStore interface {
	CreateStrategy(ctx context.Context, s *core.Strategy) error
	GetStrategy(ctx context.Context, id string) (*core.Strategy, error)
	ListStrategiesByAccount(ctx context.Context, accountID string) ([]core.Strategy, error)
	UpdateStrategy(ctx context.Context, s *core.Strategy) error
	DeleteStrategy(ctx context.Context, id string) error
}

// PortfolioStore persists portfolios.
type PortfolioStore interface {
	CreatePortfolio(ctx context.Context, p *core.Portfolio) error
	GetPortfolio(ctx context.Context, id string) (*core.Portfolio, error)
	ListPortfoliosByAccount(ctx context.Context, accountID string) ([]core.Portfolio, error)
	UpdatePortfolio(ctx context.Context, p *core.Portfolio) error
	DeletePortfolio(ctx context.Context, id string) error
}

// TransactionStore persists transactions. List methods return transactions
// ordered by date ascending, insertion order preserved for equal dates.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t *core.Transaction) error
	GetTransaction(ctx context.Context, id string) (*core.Transaction, error)
	ListTransactionsByPortfolio(ctx context.Context, portfolioID string) ([]core.Transaction, error)
	ListTransactionsByPortfolios(ctx context.Context, portfolioIDs []string) ([]core.Transaction, error)
	DeleteTransaction(ctx context.Context, id string) error
}

// Store is the full repository surface the service layer depends on.
type Store interface {
	AccountStore
	StrategyStore
	PortfolioStore
	TransactionStore
	Close() error
}
