// internal/api/handler/api/chatbot.go
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/openfolio/openfolio/internal/api/response"
	"github.com/openfolio/openfolio/internal/core"
	"github.com/openfolio/openfolio/internal/metrics"
)

// Responder answers chat prompts. Implemented by chatbot.Bot.
type Responder interface {
	Respond(ctx context.Context, prompt string) (reply string, handler string)
}

// ChatbotHandler handles chatbot prompts.
type ChatbotHandler struct {
	bot     Responder
	metrics *metrics.Registry // nil disables recording
}

// NewChatbotHandler creates a new chatbot handler.
func NewChatbotHandler(bot Responder, reg *metrics.Registry) *ChatbotHandler {
	return &ChatbotHandler{bot: bot, metrics: reg}
}

// PromptRequest is the request body for a chatbot prompt.
type PromptRequest struct {
	Prompt string `json:"prompt"`
}

// Prompt answers one prompt.
func (h *ChatbotHandler) Prompt(w http.ResponseWriter, r *http.Request) {
	var req PromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, core.WrapError(core.ErrValidation, err))
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		response.Error(w, core.WrapError(core.ErrValidation,
			errors.New("prompt is required")))
		return
	}

	reply, handler := h.bot.Respond(r.Context(), req.Prompt)
	if h.metrics != nil {
		h.metrics.RecordChatbotPrompt(handler)
	}

	response.JSON(w, http.StatusOK, map[string]any{
		"response": reply,
	})
}
