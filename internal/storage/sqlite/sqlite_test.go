package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/openfolio/openfolio/internal/core"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := Open(dbPath, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_AccountCRUD(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	a := &core.Account{Username: "alice", Email: "alice@example.com", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.CreateAccount(ctx, a))
	require.NotEmpty(t, a.ID)

	got, err := store.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)

	got.Email = "new@example.com"
	require.NoError(t, store.UpdateAccount(ctx, got))

	updated, err := store.GetAccount(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)

	require.NoError(t, store.DeleteAccount(ctx, a.ID))
	_, err = store.GetAccount(ctx, a.ID)
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestStore_StrategyDecimalRoundTrip(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	s := &core.Strategy{
		AccountID:            "acct-1",
		Name:                 "Balanced Income",
		RiskTolerance:        core.RiskMedium,
		InvestmentType:       core.InvestMixed,
		TargetReturn:         decimal.RequireFromString("7.53"),
		InvestmentHorizon:    10,
		DiversificationLevel: 6,
		AutomatedTrading:     true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	require.NoError(t, store.CreateStrategy(ctx, s))

	got, err := store.GetStrategy(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, got.TargetReturn.Equal(decimal.RequireFromString("7.53")),
		"target_return round-trip: %s", got.TargetReturn)
	assert.Equal(t, core.RiskMedium, got.RiskTolerance)
	assert.True(t, got.AutomatedTrading)
}

func TestStore_TransactionOrdering(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	mk := func(symbol string, date time.Time) *core.Transaction {
		tx := &core.Transaction{
			PortfolioID:  "pf-1",
			Type:         core.TransactionBuy,
			Symbol:       symbol,
			Quantity:     decimal.NewFromInt(1),
			PricePerUnit: decimal.NewFromInt(100),
			Date:         date,
		}
		tx.DeriveTotalCost()
		return tx
	}

	// Inserted out of date order, plus two sharing a timestamp.
	require.NoError(t, store.CreateTransaction(ctx, mk("SECOND", base.AddDate(0, 0, 1))))
	require.NoError(t, store.CreateTransaction(ctx, mk("FIRST", base)))
	require.NoError(t, store.CreateTransaction(ctx, mk("TIE-A", base.AddDate(0, 0, 2))))
	require.NoError(t, store.CreateTransaction(ctx, mk("TIE-B", base.AddDate(0, 0, 2))))

	txs, err := store.ListTransactionsByPortfolio(ctx, "pf-1")
	require.NoError(t, err)
	require.Len(t, txs, 4)

	symbols := []string{txs[0].Symbol, txs[1].Symbol, txs[2].Symbol, txs[3].Symbol}
	// Date ascending, insertion order on the tie.
	assert.Equal(t, []string{"FIRST", "SECOND", "TIE-A", "TIE-B"}, symbols)
}

func TestStore_TransactionDecimalExactness(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	tx := &core.Transaction{
		PortfolioID:  "pf-1",
		Type:         core.TransactionBuy,
		Symbol:       "BTC-USD",
		Quantity:     decimal.RequireFromString("0.12345678"),
		PricePerUnit: decimal.RequireFromString("30123.45678901"),
		Date:         time.Now().UTC(),
	}
	tx.DeriveTotalCost()
	require.NoError(t, store.CreateTransaction(ctx, tx))

	got, err := store.GetTransaction(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(tx.Quantity))
	assert.True(t, got.PricePerUnit.Equal(tx.PricePerUnit))
	assert.True(t, got.TotalCost.Equal(tx.TotalCost))
}

func TestStore_ListTransactionsAcrossPortfolios(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, pf := range []string{"pf-1", "pf-2", "pf-3"} {
		tx := &core.Transaction{
			PortfolioID:  pf,
			Type:         core.TransactionBuy,
			Symbol:       "AAPL",
			Quantity:     decimal.NewFromInt(1),
			PricePerUnit: decimal.NewFromInt(100),
			Date:         now.Add(time.Duration(i) * time.Hour),
		}
		tx.DeriveTotalCost()
		require.NoError(t, store.CreateTransaction(ctx, tx))
	}

	txs, err := store.ListTransactionsByPortfolios(ctx, []string{"pf-1", "pf-3"})
	require.NoError(t, err)
	assert.Len(t, txs, 2)

	none, err := store.ListTransactionsByPortfolios(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_UpdateMissingRowIsNotFound(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	err := store.DeletePortfolio(ctx, "missing")
	assert.True(t, errors.Is(err, core.ErrNotFound))
}
