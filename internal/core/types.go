package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a portfolio transaction.
type TransactionType string

const (
	TransactionBuy      TransactionType = "buy"
	TransactionSell     TransactionType = "sell"
	TransactionDividend TransactionType = "dividend"
)

// IsValid reports whether the transaction type is one of the known values.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionBuy, TransactionSell, TransactionDividend:
		return true
	}
	return false
}

// RiskTolerance is a strategy's appetite for volatility.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// IsValid reports whether the risk tolerance is one of the known levels.
func (r RiskTolerance) IsValid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// InvestmentType classifies the asset mix a strategy targets.
type InvestmentType string

const (
	InvestStocks      InvestmentType = "stocks"
	InvestBonds       InvestmentType = "bonds"
	InvestCrypto      InvestmentType = "crypto"
	InvestRealEstate  InvestmentType = "real_estate"
	InvestIndexFunds  InvestmentType = "index_funds"
	InvestETFs        InvestmentType = "etfs"
	InvestCommodities InvestmentType = "commodities"
	InvestMixed       InvestmentType = "mixed"
)

// SupportedCurrencies are the currency codes a portfolio may use.
var SupportedCurrencies = []string{"USD", "EUR", "CAD", "GBP"}

// IsSupportedCurrency reports whether code is an accepted portfolio currency.
func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// Account is the owner of strategies and portfolios.
type Account struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Strategy drives the recommendation engine. TargetReturn is a percentage.
type Strategy struct {
	ID                   string          `json:"id"`
	AccountID            string          `json:"account_id"`
	Name                 string          `json:"name"`
	RiskTolerance        RiskTolerance   `json:"risk_tolerance"`
	InvestmentType       InvestmentType  `json:"investment_type"`
	TargetReturn         decimal.Decimal `json:"target_return"`
	InvestmentHorizon    int             `json:"investment_horizon"`
	DiversificationLevel int             `json:"diversification_level"`
	AutomatedTrading     bool            `json:"automated_trading"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}

// Validate checks the fields the recommendation engine depends on.
// A strategy without a risk tolerance never gets a guessed default.
func (s *Strategy) Validate() error {
	if !s.RiskTolerance.IsValid() {
		return WrapError(ErrStrategyIncomplete, nil)
	}
	return nil
}

// Portfolio groups transactions under one strategy and currency.
type Portfolio struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	StrategyID  string    `json:"strategy_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks portfolio invariants before a write.
func (p *Portfolio) Validate() error {
	if p.Name == "" {
		return WrapError(ErrValidation, nil)
	}
	if !IsSupportedCurrency(p.Currency) {
		return WrapError(ErrValidation, nil)
	}
	return nil
}

// Transaction is a single buy, sell, or dividend event. TotalCost is always
// derived as Quantity * PricePerUnit at write time; it is never client-supplied.
type Transaction struct {
	ID           string          `json:"id"`
	PortfolioID  string          `json:"portfolio"`
	Type         TransactionType `json:"transaction_type"`
	Name         string          `json:"name"`
	Symbol       string          `json:"symbol"`
	Quantity     decimal.Decimal `json:"quantity"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Date         time.Time       `json:"transaction_date"`
}

// Validate checks transaction invariants before a write.
func (t *Transaction) Validate() error {
	if !t.Type.IsValid() {
		return WrapError(ErrValidation, nil)
	}
	if t.Symbol == "" {
		return WrapError(ErrValidation, nil)
	}
	if t.Quantity.IsNegative() || t.PricePerUnit.IsNegative() {
		return WrapError(ErrValidation, nil)
	}
	return nil
}

// DeriveTotalCost recomputes TotalCost from quantity and unit price.
func (t *Transaction) DeriveTotalCost() {
	t.TotalCost = t.Quantity.Mul(t.PricePerUnit)
}
