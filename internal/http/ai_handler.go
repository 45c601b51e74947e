package http

import (
	"context"
	"encoding/json"
	"net/http"
)

// Chat answers storefront customer questions.
type Chat interface {
	Chat(ctx context.Context, message string, extra map[string]any) (string, error)
}

type AIHandler struct {
	chat Chat
}

func NewAIHandler(chat Chat) *AIHandler {
	return &AIHandler{chat: chat}
}

type ChatRequestDTO struct {
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	reply, err := h.chat.Chat(r.Context(), req.Message, req.Context)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"reply": reply})
}
