package portfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfolio/openfolio/internal/core"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func reportWithRealized(realized string, positions map[string]string) *PerformanceReport {
	r := &PerformanceReport{
		TotalGainLoss: GainLoss{Realized: decimal.RequireFromString(realized)},
		AssetsByAsset: make(map[string]decimal.Decimal),
	}
	for symbol, qty := range positions {
		r.AssetsByAsset[symbol] = decimal.RequireFromString(qty)
	}
	return r
}

func strategyWith(risk core.RiskTolerance, target string) *core.Strategy {
	return &core.Strategy{
		Name:          "test",
		RiskTolerance: risk,
		TargetReturn:  decimal.RequireFromString(target),
	}
}

func TestRecommend_UnderperformingByRiskTolerance(t *testing.T) {
	tests := []struct {
		risk core.RiskTolerance
		want string
	}{
		{core.RiskHigh, "aggressive, riskier stocks"},
		{core.RiskMedium, "growth and defensive stocks"},
		{core.RiskLow, "dividend-paying stocks"},
	}

	for _, tt := range tests {
		t.Run(string(tt.risk), func(t *testing.T) {
			rec, err := Recommend(reportWithRealized("1", nil), strategyWith(tt.risk, "7.5"), nil)
			require.NoError(t, err)
			assert.Contains(t, rec.Recommendation, "underperforming")
			assert.Contains(t, rec.Recommendation, tt.want)
		})
	}
}

func TestRecommend_OnTrack(t *testing.T) {
	rec, err := Recommend(reportWithRealized("10", nil), strategyWith(core.RiskMedium, "7.5"), nil)
	require.NoError(t, err)
	assert.Contains(t, rec.Recommendation, "on track")
	assert.True(t, rec.RealizedGain.Equal(decimal.NewFromInt(10)))
	assert.True(t, rec.TargetReturn.Equal(decimal.RequireFromString("7.5")))
}

func TestRecommend_MissingRiskTolerance(t *testing.T) {
	_, err := Recommend(reportWithRealized("1", nil), &core.Strategy{Name: "incomplete"}, nil)
	assert.True(t, errors.Is(err, core.ErrStrategyIncomplete))

	_, err = Recommend(reportWithRealized("1", nil), nil, nil)
	assert.True(t, errors.Is(err, core.ErrStrategyIncomplete))
}

func TestRecommend_TrendClassification(t *testing.T) {
	tests := []struct {
		name    string
		market  SymbolMarket
		wantSub string
	}{
		{"bullish", SymbolMarket{CurrentPrice: dec("110"), WeekAvgPrice: dec("100")}, "Bullish"},
		{"bearish", SymbolMarket{CurrentPrice: dec("90"), WeekAvgPrice: dec("100")}, "Bearish"},
		{"flat is bearish", SymbolMarket{CurrentPrice: dec("100"), WeekAvgPrice: dec("100")}, "Bearish"},
		{"no current price", SymbolMarket{WeekAvgPrice: dec("100")}, "Insufficient data"},
		{"no average", SymbolMarket{CurrentPrice: dec("100")}, "Insufficient data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analyzeSymbol("AAPL", tt.market)
			assert.Contains(t, a.QuantitativeAssessment, tt.wantSub)
		})
	}
}

func TestRecommend_NewsHeuristic(t *testing.T) {
	tests := []struct {
		name      string
		headlines []Headline
		wantSub   string
	}{
		{"negative keyword", []Headline{{Title: "Analyst DOWNGRADE hits shares"}}, "potential concerns"},
		{"loss substring", []Headline{{Title: "Quarterly loss widens"}}, "potential concerns"},
		{"positive", []Headline{{Title: "Record revenue growth"}}, "appears positive"},
		{"no news", nil, "No recent news"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := analyzeSymbol("AAPL", SymbolMarket{Headlines: tt.headlines})
			assert.Contains(t, a.QualitativeAssessment, tt.wantSub)
		})
	}
}

func TestRecommend_HeadlinesTruncatedToTwo(t *testing.T) {
	headlines := []Headline{
		{Title: "first"}, {Title: "second"}, {Title: "third"},
	}
	a := analyzeSymbol("AAPL", SymbolMarket{Headlines: headlines})

	require.Len(t, a.News, 2)
	assert.Equal(t, "first", a.News[0].Title)
	assert.Equal(t, "second", a.News[1].Title)
}

func TestRecommend_OnlyHeldSymbolsAnalyzed(t *testing.T) {
	report := reportWithRealized("0", map[string]string{
		"AAPL": "3",
		"MSFT": "0",
		"TSLA": "-2",
	})

	rec, err := Recommend(report, strategyWith(core.RiskLow, "5"), map[string]SymbolMarket{
		"AAPL": {CurrentPrice: dec("110"), WeekAvgPrice: dec("100")},
	})
	require.NoError(t, err)

	require.Len(t, rec.StocksAnalysis, 1)
	assert.Equal(t, "AAPL", rec.StocksAnalysis[0].Symbol)
}

func TestRecommend_CarriesPerformanceFields(t *testing.T) {
	txs := []core.Transaction{
		tx(core.TransactionBuy, "AAPL", "10", "100", day(2024, time.January, 5)),
		tx(core.TransactionSell, "AAPL", "4", "120", day(2024, time.February, 5)),
	}
	report := Aggregate(txs, fixedPrices(map[string]string{"AAPL": "130"}),
		fixedTypes(map[string]string{"AAPL": "stocks"}))

	rec, err := Recommend(report, strategyWith(core.RiskMedium, "5"), nil)
	require.NoError(t, err)

	assert.True(t, rec.TotalGainLoss.Realized.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, report.AssetsByMonth, rec.AssetsByMonth)
	assert.Len(t, rec.LatestTransactions, 2)
}
