// Package yahoo implements the quote provider against the public Yahoo
// Finance chart and search APIs.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/shopspring/decimal"

	"github.com/openfolio/openfolio/internal/core"
	"github.com/openfolio/openfolio/internal/quote"
)

const (
	defaultChartURL  = "https://query1.finance.yahoo.com/v8/finance/chart"
	defaultSearchURL = "https://query1.finance.yahoo.com/v1/finance/search"
)

// validSymbol matches symbols like AAPL, BTC-USD, 0700.HK and indexes like ^GSPC.
var validSymbol = regexp.MustCompile(`^\^?[A-Za-z0-9-]{1,12}(\.[A-Za-z]{1,4})?$`)

func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if !validSymbol.MatchString(symbol) {
		return fmt.Errorf("invalid symbol format: %s", symbol)
	}
	return nil
}

// Yahoo fetches quotes, history, asset info, and news from Yahoo Finance.
type Yahoo struct {
	client    *http.Client
	chartURL  string
	searchURL string
}

// Option configures the provider.
type Option func(*Yahoo)

// WithBaseURLs overrides the API endpoints, used by tests.
func WithBaseURLs(chartURL, searchURL string) Option {
	return func(y *Yahoo) {
		y.chartURL = chartURL
		y.searchURL = searchURL
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(y *Yahoo) {
		y.client = c
	}
}

// New creates a Yahoo provider with a 10 second request timeout.
func New(opts ...Option) *Yahoo {
	y := &Yahoo{
		client:    &http.Client{Timeout: 10 * time.Second},
		chartURL:  defaultChartURL,
		searchURL: defaultSearchURL,
	}
	for _, opt := range opts {
		opt(y)
	}
	return y
}

// CurrentPrice returns the latest regular-market price.
func (y *Yahoo) CurrentPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	r, err := y.fetchChart(ctx, symbol, "interval=1d&range=1d")
	if err != nil {
		return decimal.Zero, err
	}
	if r.Meta.RegularMarketPrice == 0 {
		return decimal.Zero, core.WrapError(core.ErrQuoteUnavailable,
			fmt.Errorf("no market price for %s", symbol))
	}
	return decimal.NewFromFloat(r.Meta.RegularMarketPrice), nil
}

// History returns daily closes for the range, oldest first. Days with
// missing data are skipped.
func (y *Yahoo) History(ctx context.Context, symbol string, start, end time.Time) ([]quote.Close, error) {
	params := fmt.Sprintf("interval=1d&period1=%d&period2=%d", start.Unix(), end.Unix())
	r, err := y.fetchChart(ctx, symbol, params)
	if err != nil {
		return nil, err
	}

	if len(r.Indicators.Quote) == 0 {
		return nil, core.WrapError(core.ErrQuoteUnavailable,
			fmt.Errorf("no history for %s", symbol))
	}

	quotes := r.Indicators.Quote[0]
	closes := make([]quote.Close, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(quotes.Close) || quotes.Close[i] == nil {
			continue
		}
		closes = append(closes, quote.Close{
			Date:  time.Unix(int64(ts), 0),
			Price: decimal.NewFromFloat(*quotes.Close[i]),
		})
	}

	if len(closes) == 0 {
		return nil, core.WrapError(core.ErrQuoteUnavailable,
			fmt.Errorf("no history for %s", symbol))
	}
	return closes, nil
}

// Info returns the chart metadata mapped to static asset info.
func (y *Yahoo) Info(ctx context.Context, symbol string) (quote.AssetInfo, error) {
	r, err := y.fetchChart(ctx, symbol, "interval=1d&range=1d")
	if err != nil {
		return quote.AssetInfo{}, err
	}

	info := quote.AssetInfo{
		Symbol:    symbol,
		ShortName: orUnknown(r.Meta.ShortName),
		LongName:  orUnknown(r.Meta.LongName),
		Currency:  orUnknown(r.Meta.Currency),
		AssetType: assetType(r.Meta.InstrumentType),
	}
	return info, nil
}

// News returns recent headlines from the search API, provider order kept.
func (y *Yahoo) News(ctx context.Context, symbol string) ([]quote.Headline, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}

	u := fmt.Sprintf("%s?q=%s&newsCount=10&quotesCount=0", y.searchURL, url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrProviderFailed,
			fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}

	headlines := make([]quote.Headline, 0, len(result.News))
	for _, n := range result.News {
		headlines = append(headlines, quote.Headline{
			Title:     n.Title,
			Publisher: n.Publisher,
			Link:      n.Link,
		})
	}
	return headlines, nil
}

func (y *Yahoo) fetchChart(ctx context.Context, symbol, params string) (*chartResult, error) {
	if err := validateSymbol(symbol); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}

	u := fmt.Sprintf("%s/%s?%s", y.chartURL, url.PathEscape(symbol), params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, core.WrapError(core.ErrQuoteUnavailable,
			fmt.Errorf("symbol %s not found", symbol))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.WrapError(core.ErrProviderFailed,
			fmt.Errorf("unexpected status: %d", resp.StatusCode))
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, core.WrapError(core.ErrProviderFailed, err)
	}

	if result.Chart.Error != nil {
		return nil, core.WrapError(core.ErrQuoteUnavailable,
			fmt.Errorf("yahoo error: %s", result.Chart.Error.Description))
	}
	if len(result.Chart.Result) == 0 {
		return nil, core.WrapError(core.ErrQuoteUnavailable,
			fmt.Errorf("no data for symbol: %s", symbol))
	}

	return &result.Chart.Result[0], nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

// assetType maps Yahoo instrument types onto the strategy investment types.
func assetType(instrumentType string) string {
	switch instrumentType {
	case "EQUITY":
		return string(core.InvestStocks)
	case "ETF":
		return string(core.InvestETFs)
	case "MUTUALFUND":
		return string(core.InvestIndexFunds)
	case "CRYPTOCURRENCY":
		return string(core.InvestCrypto)
	case "COMMODITY", "FUTURE":
		return string(core.InvestCommodities)
	case "":
		return "unknown"
	default:
		return string(core.InvestMixed)
	}
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Meta       chartMeta  `json:"meta"`
	Timestamp  []int      `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type chartMeta struct {
	Symbol             string  `json:"symbol"`
	Currency           string  `json:"currency"`
	InstrumentType     string  `json:"instrumentType"`
	ShortName          string  `json:"shortName"`
	LongName           string  `json:"longName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	RegularMarketTime  int     `json:"regularMarketTime"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int     `json:"volume"`
}

type searchResponse struct {
	News []struct {
		Title     string `json:"title"`
		Publisher string `json:"publisher"`
		Link      string `json:"link"`
	} `json:"news"`
}
