package handler

import (
	"errors"
	"net/http"

	"github.com/liftlab/liftlab/internal/ctxkeys"
	"github.com/liftlab/liftlab/internal/model"
	"github.com/liftlab/liftlab/internal/service"
)

// ChatHandler serves the AI trainer conversation. Anonymous requests are
// allowed; their history lives only in the local cache.
type ChatHandler struct {
	chatService *service.ChatService
}

func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	messages := h.chatService.History(r.Context(), userID)
	respondJSON(w, http.StatusOK, map[string][]model.Message{"messages": messages})
}

func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	userID := ctxkeys.UserID(r.Context())

	userMsg, trainerMsg, err := h.chatService.Send(r.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to send message")
		return
	}

	respondJSON(w, http.StatusOK, map[string]model.Message{
		"message": userMsg,
		"reply":   trainerMsg,
	})
}

func (h *ChatHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	messages := h.chatService.ClearHistory(r.Context(), userID)
	respondJSON(w, http.StatusOK, map[string][]model.Message{"messages": messages})
}
