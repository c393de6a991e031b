package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/openfolio/openfolio/internal/core"
)

// MemoryStore is an in-memory Store. It backs tests and ephemeral runs;
// transaction insertion order is preserved so equal-timestamp tie-breaks
// behave like the SQLite store.
type MemoryStore struct {
	mu           sync.RWMutex
	accounts     map[string]core.Account
	strategies   map[string]core.Strategy
	portfolios   map[string]core.Portfolio
	transactions []core.Transaction
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts:   make(map[string]core.Account),
		strategies: make(map[string]core.Strategy),
		portfolios: make(map[string]core.Portfolio),
	}
}

// Close implements Store.
func (m *MemoryStore) Close() error { return nil }

// --- accounts ---

func (m *MemoryStore) CreateAccount(ctx context.Context, a *core.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	m.accounts[a.ID] = *a
	return nil
}

func (m *MemoryStore) GetAccount(ctx context.Context, id string) (*core.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.accounts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &a, nil
}

func (m *MemoryStore) ListAccounts(ctx context.Context) ([]core.Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.Account, 0, len(m.accounts))
	for _, a := range m.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (m *MemoryStore) UpdateAccount(ctx context.Context, a *core.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[a.ID]; !ok {
		return core.ErrNotFound
	}
	m.accounts[a.ID] = *a
	return nil
}

func (m *MemoryStore) DeleteAccount(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.accounts, id)
	return nil
}

// --- strategies ---

func (m *MemoryStore) CreateStrategy(ctx context.Context, s *core.Strategy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	m.strategies[s.ID] = *s
	return nil
}

func (m *MemoryStore) GetStrategy(ctx context.Context, id string) (*core.Strategy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.strategies[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &s, nil
}

func (m *MemoryStore) ListStrategiesByAccount(ctx context.Context, accountID string) ([]core.Strategy, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Strategy
	for _, s := range m.strategies {
		if s.AccountID == accountID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryStore) UpdateStrategy(ctx context.Context, s *core.Strategy) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.strategies[s.ID]; !ok {
		return core.ErrNotFound
	}
	m.strategies[s.ID] = *s
	return nil
}

func (m *MemoryStore) DeleteStrategy(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.strategies[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.strategies, id)
	return nil
}

// --- portfolios ---

func (m *MemoryStore) CreatePortfolio(ctx context.Context, p *core.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	m.portfolios[p.ID] = *p
	return nil
}

func (m *MemoryStore) GetPortfolio(ctx context.Context, id string) (*core.Portfolio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.portfolios[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return &p, nil
}

func (m *MemoryStore) ListPortfoliosByAccount(ctx context.Context, accountID string) ([]core.Portfolio, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []core.Portfolio
	for _, p := range m.portfolios {
		if p.AccountID == accountID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryStore) UpdatePortfolio(ctx context.Context, p *core.Portfolio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.portfolios[p.ID]; !ok {
		return core.ErrNotFound
	}
	m.portfolios[p.ID] = *p
	return nil
}

func (m *MemoryStore) DeletePortfolio(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.portfolios[id]; !ok {
		return core.ErrNotFound
	}
	delete(m.portfolios, id)
	return nil
}

// --- transactions ---

func (m *MemoryStore) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	m.transactions = append(m.transactions, *t)
	return nil
}

func (m *MemoryStore) GetTransaction(ctx context.Context, id string) (*core.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			t := m.transactions[i]
			return &t, nil
		}
	}
	return nil, core.ErrNotFound
}

func (m *MemoryStore) ListTransactionsByPortfolio(ctx context.Context, portfolioID string) ([]core.Transaction, error) {
	return m.ListTransactionsByPortfolios(ctx, []string{portfolioID})
}

func (m *MemoryStore) ListTransactionsByPortfolios(ctx context.Context, portfolioIDs []string) ([]core.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[string]struct{}, len(portfolioIDs))
	for _, id := range portfolioIDs {
		wanted[id] = struct{}{}
	}

	var out []core.Transaction
	for _, t := range m.transactions {
		if _, ok := wanted[t.PortfolioID]; ok {
			out = append(out, t)
		}
	}
	sortTransactions(out)
	return out, nil
}

func (m *MemoryStore) DeleteTransaction(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions {
		if m.transactions[i].ID == id {
			m.transactions = append(m.transactions[:i], m.transactions[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}
