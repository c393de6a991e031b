package portfolio

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/openfolio/openfolio/internal/core"
)

// maxHeadlinesShown caps the number of headlines exposed per symbol.
const maxHeadlinesShown = 2

// negativeKeywords is the fixed set scanned, case-insensitively, against
// headline titles.
var negativeKeywords = []string{"downgrade", "warning", "risk", "loss"}

// SymbolMarket carries the market context for one symbol. Nil price fields
// mean the quote provider had no data.
type SymbolMarket struct {
	CurrentPrice *decimal.Decimal
	WeekAvgPrice *decimal.Decimal
	Headlines    []Headline
}

// Recommend compares the realized gain against the strategy's target return
// and analyzes each held symbol's trend and recent news.
//
// The strategy must carry a risk tolerance; there is no guessed default.
func Recommend(report *PerformanceReport, strategy *core.Strategy, market map[string]SymbolMarket) (*RecommendationReport, error) {
	if strategy == nil {
		return nil, core.ErrStrategyIncomplete
	}
	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	realized := report.TotalGainLoss.Realized

	var overall string
	if realized.LessThan(strategy.TargetReturn) {
		switch strategy.RiskTolerance {
		case core.RiskHigh:
			overall = "Your portfolio is underperforming. " +
				"Given your high risk tolerance, consider increasing exposure to aggressive, riskier stocks."
		case core.RiskMedium:
			overall = "Your portfolio is underperforming. " +
				"Consider rebalancing with a mix of growth and defensive stocks."
		default:
			overall = "Your portfolio is underperforming. " +
				"Focus on stable, dividend-paying stocks to reduce volatility."
		}
	} else {
		overall = "Your portfolio is on track with your strategy. Consider rebalancing periodically."
	}

	symbols := make([]string, 0, len(report.AssetsByAsset))
	for symbol, net := range report.AssetsByAsset {
		if net.IsPositive() {
			symbols = append(symbols, symbol)
		}
	}
	sort.Strings(symbols)

	analysis := make([]StockAnalysis, 0, len(symbols))
	for _, symbol := range symbols {
		analysis = append(analysis, analyzeSymbol(symbol, market[symbol]))
	}

	return &RecommendationReport{
		PerformanceReport: *report,
		Recommendation:    overall,
		RealizedGain:      realized,
		TargetReturn:      strategy.TargetReturn,
		StocksAnalysis:    analysis,
	}, nil
}

// analyzeSymbol classifies the trend from current vs week-average price and
// scans headlines for the negative-keyword set.
func analyzeSymbol(symbol string, m SymbolMarket) StockAnalysis {
	a := StockAnalysis{
		Symbol:               symbol,
		CurrentPrice:         m.CurrentPrice,
		AveragePriceLastWeek: m.WeekAvgPrice,
		News:                 []Headline{},
	}

	switch {
	case m.CurrentPrice == nil || m.WeekAvgPrice == nil:
		a.QuantitativeAssessment = "Insufficient data to determine trend."
	case m.CurrentPrice.GreaterThan(*m.WeekAvgPrice):
		a.QuantitativeAssessment = "Bullish trend observed."
	default:
		a.QuantitativeAssessment = "Bearish trend observed."
	}

	switch {
	case hasNegativeNews(m.Headlines):
		a.QualitativeAssessment = "Recent news signals potential concerns."
	case len(m.Headlines) > 0:
		a.QualitativeAssessment = "Recent news appears positive."
	default:
		a.QualitativeAssessment = "No recent news to analyze."
	}

	if len(m.Headlines) > maxHeadlinesShown {
		a.News = m.Headlines[:maxHeadlinesShown]
	} else if len(m.Headlines) > 0 {
		a.News = m.Headlines
	}

	return a
}

func hasNegativeNews(headlines []Headline) bool {
	for _, h := range headlines {
		title := strings.ToLower(h.Title)
		for _, kw := range negativeKeywords {
			if strings.Contains(title, kw) {
				return true
			}
		}
	}
	return false
}
