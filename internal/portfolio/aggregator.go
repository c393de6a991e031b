package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/openfolio/openfolio/internal/core"
)

// latestTransactionsLimit caps the latest-activity list.
const latestTransactionsLimit = 5

// PriceLookup resolves a symbol to its current price. The second return
// value is false when no price is available; the aggregator then leaves the
// symbol out of the unrealized map instead of writing a misleading zero.
type PriceLookup func(symbol string) (decimal.Decimal, bool)

// AssetTypeLookup resolves a symbol to its asset type ("stocks", "etfs", ...).
// Implementations return AssetTypeUnknown when the provider has nothing.
type AssetTypeLookup func(symbol string) string

// Aggregate runs the lot matcher per symbol across the whole transaction set
// and assembles the performance report.
//
// Prices for different symbols are fetched at slightly different instants by
// the lookup; the report is not a single point-in-time valuation and makes
// no consistency claim across symbols.
func Aggregate(txs []core.Transaction, price PriceLookup, assetType AssetTypeLookup) *PerformanceReport {
	report := &PerformanceReport{
		AssetsByMonth:      make(map[string]decimal.Decimal),
		AssetsByAsset:      make(map[string]decimal.Decimal),
		UnrealizedByAsset:  make(map[string]decimal.Decimal),
		InvestmentTypes:    make(map[string]int),
		LatestTransactions: []TransactionSummary{},
		OpenLots:           make(map[string][]Lot),
	}

	bySymbol := make(map[string][]core.Transaction)
	for _, tx := range txs {
		bySymbol[tx.Symbol] = append(bySymbol[tx.Symbol], tx)
	}

	symbols := make([]string, 0, len(bySymbol))
	for s := range bySymbol {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	realized := decimal.Zero
	unrealized := decimal.Zero

	for _, symbol := range symbols {
		res := matchLots(bySymbol[symbol])
		realized = realized.Add(res.realized)
		for month, gain := range res.monthly {
			report.AssetsByMonth[month] = report.AssetsByMonth[month].Add(gain)
		}

		report.AssetsByAsset[symbol] = netPosition(bySymbol[symbol])
		report.OpenLots[symbol] = res.remaining

		if res.overdraft.IsPositive() {
			report.FlaggedSymbols = append(report.FlaggedSymbols, symbol)
		}

		if len(res.remaining) > 0 {
			if current, ok := price(symbol); ok {
				gain := decimal.Zero
				for _, lot := range res.remaining {
					gain = gain.Add(lot.Quantity.Mul(current.Sub(lot.UnitCost)))
				}
				report.UnrealizedByAsset[symbol] = gain
				unrealized = unrealized.Add(gain)
			}
		}
	}

	report.TotalGainLoss = GainLoss{Realized: realized, Unrealized: unrealized}

	// Type breakdown counts only symbols still held.
	for _, symbol := range symbols {
		if report.AssetsByAsset[symbol].IsPositive() {
			t := assetType(symbol)
			if t == "" {
				t = AssetTypeUnknown
			}
			report.InvestmentTypes[t]++
		}
	}

	report.LatestTransactions = latestTransactions(txs, latestTransactionsLimit)

	return report
}

// netPosition is the running sum of buys minus sells for one symbol.
// Dividends do not move the position.
func netPosition(txs []core.Transaction) decimal.Decimal {
	net := decimal.Zero
	for _, tx := range txs {
		switch tx.Type {
		case core.TransactionBuy:
			net = net.Add(tx.Quantity)
		case core.TransactionSell:
			net = net.Sub(tx.Quantity)
		}
	}
	return net
}

// latestTransactions returns the most recent transactions newest first,
// ties broken by reverse insertion order.
func latestTransactions(txs []core.Transaction, limit int) []TransactionSummary {
	// Reversing before the stable sort makes later-inserted transactions win
	// ties once sorted by descending date.
	reversed := make([]core.Transaction, len(txs))
	for i, tx := range txs {
		reversed[len(txs)-1-i] = tx
	}
	sort.SliceStable(reversed, func(i, j int) bool {
		return reversed[i].Date.After(reversed[j].Date)
	})

	if len(reversed) > limit {
		reversed = reversed[:limit]
	}

	summaries := make([]TransactionSummary, len(reversed))
	for i, tx := range reversed {
		summaries[i] = TransactionSummary{
			Type:         tx.Type,
			Name:         tx.Name,
			Symbol:       tx.Symbol,
			Quantity:     tx.Quantity,
			PricePerUnit: tx.PricePerUnit,
			TotalCost:    tx.TotalCost,
			Date:         tx.Date,
		}
	}
	return summaries
}
