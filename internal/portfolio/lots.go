// Package portfolio implements the performance engine: FIFO lot matching,
// cross-symbol aggregation, and the rule-based recommendation step.
package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/openfolio/openfolio/internal/core"
)

// MonthKey is the format used for monthly realized-gain attribution.
const MonthKey = "2006-01"

// Lot is a tranche of a symbol acquired by one buy transaction, tracked
// until fully sold. Lots for a symbol form a FIFO queue, oldest first.
type Lot struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// matchResult is the outcome of running the lot matcher over one symbol's
// transaction stream.
type matchResult struct {
	realized  decimal.Decimal
	monthly   map[string]decimal.Decimal
	remaining []Lot
	overdraft decimal.Decimal
}

// matchLots consumes a single symbol's transactions in time order and
// separates realized gain from the open lots left behind.
//
// Buys append a lot. Sells consume from the front of the queue; the realized
// gain of each matched slice is quantity * (sell price - lot unit cost) and
// is attributed to the calendar month of the sell, never the matched buy.
// Dividends have no lot effect and contribute nothing here.
//
// A sell that outruns the queue is a data inconsistency, not a fault: the
// unmatched remainder contributes zero realized gain and is accumulated in
// the overdraft so callers can flag the symbol.
func matchLots(txs []core.Transaction) matchResult {
	ordered := make([]core.Transaction, len(txs))
	copy(ordered, txs)
	// Stable sort keeps insertion order as the tie-break for equal timestamps.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	res := matchResult{
		realized: decimal.Zero,
		monthly:  make(map[string]decimal.Decimal),
	}
	var queue []Lot

	for _, tx := range ordered {
		switch tx.Type {
		case core.TransactionBuy:
			queue = append(queue, Lot{
				Symbol:   tx.Symbol,
				Quantity: tx.Quantity,
				UnitCost: tx.PricePerUnit,
			})

		case core.TransactionSell:
			remaining := tx.Quantity
			month := tx.Date.Format(MonthKey)
			for remaining.IsPositive() && len(queue) > 0 {
				lot := &queue[0]
				matched := decimal.Min(lot.Quantity, remaining)
				gain := matched.Mul(tx.PricePerUnit.Sub(lot.UnitCost))
				res.realized = res.realized.Add(gain)
				res.monthly[month] = res.monthly[month].Add(gain)

				lot.Quantity = lot.Quantity.Sub(matched)
				remaining = remaining.Sub(matched)
				if lot.Quantity.IsZero() {
					queue = queue[1:]
				}
			}
			if remaining.IsPositive() {
				res.overdraft = res.overdraft.Add(remaining)
			}

		case core.TransactionDividend:
			// No lot effect; dividend income is out of scope for gain.
		}
	}

	res.remaining = queue
	return res
}
