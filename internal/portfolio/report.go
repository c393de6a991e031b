package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfolio/openfolio/internal/core"
)

// AssetTypeUnknown is the sentinel used when the quote provider has no
// asset type for a symbol.
const AssetTypeUnknown = "unknown"

// GainLoss splits total gain into locked-in and paper components.
type GainLoss struct {
	Realized   decimal.Decimal `json:"realized"`
	Unrealized decimal.Decimal `json:"unrealized"`
}

// TransactionSummary is the projection of a transaction exposed in the
// latest-activity list.
type TransactionSummary struct {
	Type         core.TransactionType `json:"transaction_type"`
	Name         string               `json:"name"`
	Symbol       string               `json:"symbol"`
	Quantity     decimal.Decimal      `json:"quantity"`
	PricePerUnit decimal.Decimal      `json:"price_per_unit"`
	TotalCost    decimal.Decimal      `json:"total_cost"`
	Date         time.Time            `json:"transaction_date"`
}

// PerformanceReport is the derived, non-persisted view of a transaction set.
//
// AssetsByAsset holds net positions (buys minus sells) and may contain zero
// or negative entries; negative means the symbol sold more than it tracked.
// UnrealizedByAsset only has entries for symbols whose current price was
// available: a missing key means "no data", never "zero gain".
type PerformanceReport struct {
	TotalGainLoss      GainLoss                   `json:"total_gain_loss"`
	AssetsByMonth      map[string]decimal.Decimal `json:"assets_by_month"`
	AssetsByAsset      map[string]decimal.Decimal `json:"assets_by_asset"`
	UnrealizedByAsset  map[string]decimal.Decimal `json:"unrealized_by_asset"`
	InvestmentTypes    map[string]int             `json:"investment_types"`
	LatestTransactions []TransactionSummary       `json:"latest_transactions"`
	FlaggedSymbols     []string                   `json:"flagged_symbols,omitempty"`

	// OpenLots is kept out of API responses; archived snapshots persist it.
	OpenLots map[string][]Lot `json:"-"`
}

// Headline is a news item from the quote provider.
type Headline struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher,omitempty"`
	Link      string `json:"link,omitempty"`
}

// StockAnalysis is the per-symbol trend and news heuristic output.
// Price fields are pointers so an unavailable quote serializes as null
// rather than a zero indistinguishable from a real price.
type StockAnalysis struct {
	Symbol                 string           `json:"symbol"`
	CurrentPrice           *decimal.Decimal `json:"current_price"`
	AveragePriceLastWeek   *decimal.Decimal `json:"average_price_last_week"`
	QuantitativeAssessment string           `json:"quantitative_assessment"`
	News                   []Headline       `json:"news"`
	QualitativeAssessment  string           `json:"qualitative_assessment"`
}

// RecommendationReport merges the performance report with the strategy
// comparison and per-symbol analysis.
type RecommendationReport struct {
	PerformanceReport
	Recommendation string          `json:"recommendation"`
	RealizedGain   decimal.Decimal `json:"realized_gain"`
	TargetReturn   decimal.Decimal `json:"target_return"`
	StocksAnalysis []StockAnalysis `json:"stocks_analysis"`
}
