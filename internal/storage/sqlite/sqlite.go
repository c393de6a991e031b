// Package sqlite implements the storage.Store interfaces over SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openfolio/openfolio/internal/core"
)

// Store implements storage.Store backed by a SQLite database. Quantities and
// prices are stored as TEXT so decimal values round-trip exactly.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// Open creates the database file if needed, establishes the connection, and
// bootstraps the schema.
func Open(dsn string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dsn == "" {
		dsn = "./data/openfolio.db"
	}

	if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
		return nil, core.WrapError(core.ErrStorageFailed,
			fmt.Errorf("creating data directory: %w", err))
	}

	// WAL mode for better read concurrency under the single-writer model.
	db, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, logger: logger}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}

	logger.Info("sqlite store ready", zap.String("dsn", dsn))
	return s, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS strategies (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		name TEXT NOT NULL,
		risk_tolerance TEXT NOT NULL,
		investment_type TEXT NOT NULL,
		target_return TEXT NOT NULL,
		investment_horizon INTEGER NOT NULL,
		diversification_level INTEGER NOT NULL,
		automated_trading INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS portfolios (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		strategy_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		currency TEXT NOT NULL DEFAULT 'USD',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		portfolio_id TEXT NOT NULL,
		transaction_type TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		symbol TEXT NOT NULL,
		quantity TEXT NOT NULL,
		price_per_unit TEXT NOT NULL,
		total_cost TEXT NOT NULL,
		transaction_date TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_strategies_account ON strategies (account_id);
	CREATE INDEX IF NOT EXISTS idx_portfolios_account ON portfolios (account_id);
	CREATE INDEX IF NOT EXISTS idx_transactions_portfolio_date ON transactions (portfolio_id, transaction_date);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// --- accounts ---

func (s *Store) CreateAccount(ctx context.Context, a *core.Account) error {
	if a.ID == "" {
		a.ID = newID()
	}
	const q = `INSERT INTO accounts (id, username, email, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q, a.ID, a.Username, a.Email, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	return nil
}

func (s *Store) GetAccount(ctx context.Context, id string) (*core.Account, error) {
	const q = `SELECT id, username, email, created_at, updated_at FROM accounts WHERE id = ?`
	var a core.Account
	err := s.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Username, &a.Email, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	return &a, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]core.Account, error) {
	const q = `SELECT id, username, email, created_at, updated_at FROM accounts ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	defer rows.Close()

	var out []core.Account
	for rows.Next() {
		var a core.Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, core.WrapError(core.ErrStorageFailed, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) UpdateAccount(ctx context.Context, a *core.Account) error {
	const q = `UPDATE accounts SET username = ?, email = ?, updated_at = ? WHERE id = ?`
	return s.execExpectingRow(ctx, q, a.Username, a.Email, a.UpdatedAt, a.ID)
}

func (s *Store) DeleteAccount(ctx context.Context, id string) error {
	return s.execExpectingRow(ctx, `DELETE FROM accounts WHERE id = ?`, id)
}

// --- strategies ---

func (s *Store) CreateStrategy(ctx context.Context, st *core.Strategy) error {
	if st.ID == "" {
		st.ID = newID()
	}
	const q = `INSERT INTO strategies
		(id, account_id, name, risk_tolerance, investment_type, target_return,
		 investment_horizon, diversification_level, automated_trading, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		st.ID, st.AccountID, st.Name, string(st.RiskTolerance), string(st.InvestmentType),
		st.TargetReturn.String(), st.InvestmentHorizon, st.DiversificationLevel,
		boolToInt(st.AutomatedTrading), st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	return nil
}

func (s *Store) GetStrategy(ctx context.Context, id string) (*core.Strategy, error) {
	const q = `SELECT id, account_id, name, risk_tolerance, investment_type, target_return,
		investment_horizon, diversification_level, automated_trading, created_at, updated_at
		FROM strategies WHERE id = ?`
	st, err := scanStrategy(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	return st, nil
}

func (s *Store) ListStrategiesByAccount(ctx context.Context, accountID string) ([]core.Strategy, error) {
	const q = `SELECT id, account_id, name, risk_tolerance, investment_type, target_return,
		investment_horizon, diversification_level, automated_trading, created_at, updated_at
		FROM strategies WHERE account_id = ? ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	defer rows.Close()

	var out []core.Strategy
	for rows.Next() {
		st, err := scanStrategy(rows)
		if err != nil {
			return nil, core.WrapError(core.ErrStorageFailed, err)
		}
		out = append(out, *st)
	}
	return out, rows.Err()
}

func (s *Store) UpdateStrategy(ctx context.Context, st *core.Strategy) error {
	const q = `UPDATE strategies SET name = ?, risk_tolerance = ?, investment_type = ?,
		target_return = ?, investment_horizon = ?, diversification_level = ?,
		automated_trading = ?, updated_at = ? WHERE id = ?`
	return s.execExpectingRow(ctx, q,
		st.Name, string(st.RiskTolerance), string(st.InvestmentType), st.TargetReturn.String(),
		st.InvestmentHorizon, st.DiversificationLevel, boolToInt(st.AutomatedTrading),
		st.UpdatedAt, st.ID)
}

func (s *Store) DeleteStrategy(ctx context.Context, id string) error {
	return s.execExpectingRow(ctx, `DELETE FROM strategies WHERE id = ?`, id)
}

// --- portfolios ---

func (s *Store) CreatePortfolio(ctx context.Context, p *core.Portfolio) error {
	if p.ID == "" {
		p.ID = newID()
	}
	const q = `INSERT INTO portfolios
		(id, account_id, strategy_id, name, description, currency, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		p.ID, p.AccountID, p.StrategyID, p.Name, p.Description, p.Currency, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	return nil
}

func (s *Store) GetPortfolio(ctx context.Context, id string) (*core.Portfolio, error) {
	const q = `SELECT id, account_id, strategy_id, name, description, currency, created_at, updated_at
		FROM portfolios WHERE id = ?`
	var p core.Portfolio
	err := s.db.QueryRowContext(ctx, q, id).Scan(
		&p.ID, &p.AccountID, &p.StrategyID, &p.Name, &p.Description, &p.Currency, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	return &p, nil
}

func (s *Store) ListPortfoliosByAccount(ctx context.Context, accountID string) ([]core.Portfolio, error) {
	const q = `SELECT id, account_id, strategy_id, name, description, currency, created_at, updated_at
		FROM portfolios WHERE account_id = ? ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, q, accountID)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	defer rows.Close()

	var out []core.Portfolio
	for rows.Next() {
		var p core.Portfolio
		if err := rows.Scan(&p.ID, &p.AccountID, &p.StrategyID, &p.Name, &p.Description,
			&p.Currency, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, core.WrapError(core.ErrStorageFailed, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePortfolio(ctx context.Context, p *core.Portfolio) error {
	const q = `UPDATE portfolios SET strategy_id = ?, name = ?, description = ?,
		currency = ?, updated_at = ? WHERE id = ?`
	return s.execExpectingRow(ctx, q,
		p.StrategyID, p.Name, p.Description, p.Currency, p.UpdatedAt, p.ID)
}

func (s *Store) DeletePortfolio(ctx context.Context, id string) error {
	return s.execExpectingRow(ctx, `DELETE FROM portfolios WHERE id = ?`, id)
}

// --- transactions ---

func (s *Store) CreateTransaction(ctx context.Context, t *core.Transaction) error {
	if t.ID == "" {
		t.ID = newID()
	}
	const q = `INSERT INTO transactions
		(id, portfolio_id, transaction_type, name, symbol, quantity, price_per_unit, total_cost, transaction_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, q,
		t.ID, t.PortfolioID, string(t.Type), t.Name, t.Symbol,
		t.Quantity.String(), t.PricePerUnit.String(), t.TotalCost.String(), t.Date)
	if err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id string) (*core.Transaction, error) {
	const q = `SELECT id, portfolio_id, transaction_type, name, symbol, quantity, price_per_unit,
		total_cost, transaction_date FROM transactions WHERE id = ?`
	t, err := scanTransaction(s.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	return t, nil
}

func (s *Store) ListTransactionsByPortfolio(ctx context.Context, portfolioID string) ([]core.Transaction, error) {
	return s.ListTransactionsByPortfolios(ctx, []string{portfolioID})
}

// ListTransactionsByPortfolios returns transactions across portfolios,
// ordered by date ascending; rowid breaks date ties by insertion order.
func (s *Store) ListTransactionsByPortfolios(ctx context.Context, portfolioIDs []string) ([]core.Transaction, error) {
	if len(portfolioIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(portfolioIDs)), ",")
	q := fmt.Sprintf(`SELECT id, portfolio_id, transaction_type, name, symbol, quantity,
		price_per_unit, total_cost, transaction_date
		FROM transactions WHERE portfolio_id IN (%s)
		ORDER BY transaction_date ASC, rowid ASC`, placeholders)

	args := make([]any, len(portfolioIDs))
	for i, id := range portfolioIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	defer rows.Close()

	var out []core.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, core.WrapError(core.ErrStorageFailed, err)
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.execExpectingRow(ctx, `DELETE FROM transactions WHERE id = ?`, id)
}

// --- helpers ---

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStrategy(row rowScanner) (*core.Strategy, error) {
	var st core.Strategy
	var risk, invest, target string
	var automated int
	if err := row.Scan(&st.ID, &st.AccountID, &st.Name, &risk, &invest, &target,
		&st.InvestmentHorizon, &st.DiversificationLevel, &automated,
		&st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, err
	}
	st.RiskTolerance = core.RiskTolerance(risk)
	st.InvestmentType = core.InvestmentType(invest)
	st.AutomatedTrading = automated != 0

	var err error
	if st.TargetReturn, err = decimal.NewFromString(target); err != nil {
		return nil, fmt.Errorf("corrupt target_return %q: %w", target, err)
	}
	return &st, nil
}

func scanTransaction(row rowScanner) (*core.Transaction, error) {
	var t core.Transaction
	var txType, qty, price, total string
	if err := row.Scan(&t.ID, &t.PortfolioID, &txType, &t.Name, &t.Symbol,
		&qty, &price, &total, &t.Date); err != nil {
		return nil, err
	}
	t.Type = core.TransactionType(txType)

	var err error
	if t.Quantity, err = decimal.NewFromString(qty); err != nil {
		return nil, fmt.Errorf("corrupt quantity %q: %w", qty, err)
	}
	if t.PricePerUnit, err = decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("corrupt price_per_unit %q: %w", price, err)
	}
	if t.TotalCost, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("corrupt total_cost %q: %w", total, err)
	}
	return &t, nil
}

func (s *Store) execExpectingRow(ctx context.Context, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
