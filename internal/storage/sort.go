package storage

import (
	"sort"

	"github.com/openfolio/openfolio/internal/core"
)

// sortTransactions orders by date ascending, keeping insertion order for
// equal dates. The engine relies on this tie-break.
func sortTransactions(txs []core.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
}
