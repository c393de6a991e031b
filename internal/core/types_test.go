package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestTransactionType_IsValid(t *testing.T) {
	valid := []TransactionType{TransactionBuy, TransactionSell, TransactionDividend}
	for _, tt := range valid {
		if !tt.IsValid() {
			t.Errorf("expected %s to be valid", tt)
		}
	}
	if TransactionType("short").IsValid() {
		t.Error("unknown type should be invalid")
	}
}

func TestIsSupportedCurrency(t *testing.T) {
	for _, c := range []string{"USD", "EUR", "CAD", "GBP"} {
		if !IsSupportedCurrency(c) {
			t.Errorf("expected %s to be supported", c)
		}
	}
	if IsSupportedCurrency("JPY") {
		t.Error("JPY should not be supported")
	}
}

func TestStrategy_Validate(t *testing.T) {
	s := &Strategy{Name: "Aggressive Growth", RiskTolerance: RiskHigh}
	if err := s.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	missing := &Strategy{Name: "No Risk Set"}
	if !errors.Is(missing.Validate(), ErrStrategyIncomplete) {
		t.Error("expected ErrStrategyIncomplete for missing risk tolerance")
	}
}

func TestPortfolio_Validate(t *testing.T) {
	tests := []struct {
		name    string
		p       Portfolio
		wantErr bool
	}{
		{"valid", Portfolio{Name: "Retirement", Currency: "USD"}, false},
		{"missing name", Portfolio{Currency: "USD"}, true},
		{"bad currency", Portfolio{Name: "Retirement", Currency: "JPY"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransaction_Validate(t *testing.T) {
	tx := Transaction{
		Type:         TransactionBuy,
		Symbol:       "AAPL",
		Quantity:     decimal.NewFromInt(10),
		PricePerUnit: decimal.NewFromInt(100),
	}
	if err := tx.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	bad := tx
	bad.Quantity = decimal.NewFromInt(-1)
	if bad.Validate() == nil {
		t.Error("negative quantity should fail validation")
	}
}

func TestTransaction_DeriveTotalCost(t *testing.T) {
	tx := Transaction{
		Quantity:     decimal.RequireFromString("2.5"),
		PricePerUnit: decimal.RequireFromString("100.40"),
	}
	tx.DeriveTotalCost()
	if !tx.TotalCost.Equal(decimal.RequireFromString("251")) {
		t.Errorf("expected total cost 251, got %s", tx.TotalCost)
	}
}
