// Package llm abstracts the optional language-model backends the chatbot
// can fall back to when no keyword rule matches.
package llm

import "context"

// Provider completes a single user prompt. The chatbot never maintains a
// conversation; each prompt stands alone.
type Provider interface {
	Name() string
	Complete(ctx context.Context, systemPrompt, prompt string) (string, error)
}
