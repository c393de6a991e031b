// Package quote abstracts the external market-data feed. Implementations
// are fallible and possibly slow; callers degrade per symbol instead of
// failing a whole report.
package quote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Close is one historical daily close.
type Close struct {
	Date  time.Time       `json:"date"`
	Price decimal.Decimal `json:"close"`
}

// AssetInfo is the static description of a symbol. Fields the provider
// cannot supply are left as "unknown".
type AssetInfo struct {
	Symbol    string `json:"symbol"`
	ShortName string `json:"shortName"`
	LongName  string `json:"longName"`
	Currency  string `json:"currency"`
	AssetType string `json:"asset_type"`
}

// Headline is one recent news item for a symbol.
type Headline struct {
	Title     string `json:"title"`
	Publisher string `json:"publisher,omitempty"`
	Link      string `json:"link,omitempty"`
}

// Provider is the synchronous request interface to the market-data feed.
// A missing quote surfaces as core.ErrQuoteUnavailable; transport faults as
// core.ErrProviderFailed. No retries are attempted at this layer.
type Provider interface {
	// CurrentPrice returns the latest price for the symbol.
	CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error)

	// History returns daily closes for the date range, oldest first.
	History(ctx context.Context, symbol string, start, end time.Time) ([]Close, error)

	// Info returns static info for the symbol.
	Info(ctx context.Context, symbol string) (AssetInfo, error)

	// News returns recent headlines, provider order preserved. An empty
	// slice means no news, not an error.
	News(ctx context.Context, symbol string) ([]Headline, error)
}
