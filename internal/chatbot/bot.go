// Package chatbot answers user prompts with a keyword rule table, backed by
// the market data provider for index analysis. An optional LLM provider
// handles prompts no rule matches.
package chatbot

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/openfolio/openfolio/internal/llm"
	"github.com/openfolio/openfolio/internal/quote"
)

const (
	// HandlerRules reports that the keyword rule table produced the answer.
	HandlerRules = "rules"
	// HandlerLLM reports that the LLM fallback produced the answer.
	HandlerLLM = "llm"
	// HandlerFallback reports that no handler understood the prompt.
	HandlerFallback = "fallback"

	fallbackReply = "I'm sorry, I don't understand the question."
	identityReply = "I am a financial assistant designed to help you with stock market insights and portfolio management."

	marketLookbackDays = 28

	llmSystemPrompt = "You are a financial assistant for a portfolio tracking application. " +
		"Answer briefly and factually. Do not give personalized investment advice."
)

// marketIndex pairs a display label with its quote symbol.
type marketIndex struct {
	Label  string
	Symbol string
}

// Order matters: replies list the indexes in this order.
var marketIndexes = []marketIndex{
	{Label: "S&P 500", Symbol: "^GSPC"},
	{Label: "Dow Jones", Symbol: "^DJI"},
	{Label: "NASDAQ", Symbol: "^IXIC"},
}

// Bot answers chat prompts.
type Bot struct {
	quotes quote.Provider
	llm    llm.Provider // nil when the fallback is not configured
	logger *zap.Logger
	now    func() time.Time
}

// New creates a Bot. The llm provider may be nil.
func New(quotes quote.Provider, llmProvider llm.Provider, logger *zap.Logger) *Bot {
	return &Bot{
		quotes: quotes,
		llm:    llmProvider,
		logger: logger,
		now:    time.Now,
	}
}

// Respond answers a prompt. It returns the reply text along with the name of
// the handler that produced it.
func (b *Bot) Respond(ctx context.Context, prompt string) (string, string) {
	lowered := strings.ToLower(prompt)
	var messages []string

	if strings.Contains(lowered, "market") || strings.Contains(lowered, "index") ||
		strings.Contains(lowered, "insight") || strings.Contains(lowered, "analysis") {
		messages = append(messages, b.marketAnalysis(ctx)...)
	}

	if strings.Contains(lowered, "portfolio") && strings.Contains(lowered, "manage") {
		messages = append(messages, "To manage your portfolio, please go to Portfolio Management.")
	}

	if strings.Contains(lowered, "strategy") && strings.Contains(lowered, "manage") {
		messages = append(messages, "To manage your strategy, please go to Strategy Management.")
	}

	if strings.Contains(lowered, "what are you") {
		messages = append(messages, identityReply)
	}

	if len(messages) > 0 {
		return strings.Join(messages, "\n\n"), HandlerRules
	}

	if b.llm != nil {
		reply, err := b.llm.Complete(ctx, llmSystemPrompt, prompt)
		if err == nil && strings.TrimSpace(reply) != "" {
			return reply, HandlerLLM
		}
		if err != nil {
			b.logger.Warn("llm fallback failed",
				zap.String("provider", b.llm.Name()),
				zap.Error(err))
		}
	}

	return fallbackReply, HandlerFallback
}

// marketAnalysis summarizes the major indexes over the lookback window. The
// first message lists per-index moves; a second message with the average
// change is added when at least one index had usable data.
func (b *Bot) marketAnalysis(ctx context.Context) []string {
	end := b.now()
	start := end.AddDate(0, 0, -marketLookbackDays)

	lines := make([]string, 0, len(marketIndexes))
	var validChanges []decimal.Decimal

	for _, idx := range marketIndexes {
		closes, err := b.quotes.History(ctx, idx.Symbol, start, end)
		if err != nil {
			b.logger.Warn("index history unavailable",
				zap.String("symbol", idx.Symbol),
				zap.Error(err))
			lines = append(lines, idx.Label+": Data not available.")
			continue
		}
		if len(closes) < 2 {
			lines = append(lines, idx.Label+": Insufficient historical data.")
			continue
		}

		first := closes[0].Price
		last := closes[len(closes)-1].Price
		if first.IsZero() {
			lines = append(lines, idx.Label+" has insufficient data to compute percentage change.")
			continue
		}

		changePct := last.Sub(first).Div(first).Mul(decimal.NewFromInt(100))
		validChanges = append(validChanges, changePct)

		direction := "up"
		if changePct.IsNegative() {
			direction = "down"
		}
		lines = append(lines, idx.Label+" is "+direction+" "+changePct.Abs().StringFixed(2)+
			"% over the last 28 days.")
	}

	messages := []string{strings.Join(lines, "\n")}

	if len(validChanges) > 0 {
		avg := decimal.Avg(validChanges[0], validChanges[1:]...)
		overall := "good"
		if avg.IsNegative() {
			overall = "bad"
		}
		messages = append(messages,
			"Overall, the market appears "+overall+" with an average change of "+avg.StringFixed(2)+"%.")
	}

	return messages
}
