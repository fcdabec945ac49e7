package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hoangnt/moneytalk/internal/middleware"
	"github.com/hoangnt/moneytalk/internal/models"
	"github.com/hoangnt/moneytalk/internal/service"
)

type chatRequest struct {
	Text string `json:"text"`
}

type chatHistoryResponse struct {
	Messages []models.Message `json:"messages"`
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	username := middleware.GetUsername(r.Context())
	messages, err := s.chat.History(r.Context(), username, middleware.GetName(r.Context()))
	if err != nil {
		slog.Error("failed to load chat history", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	writeJSON(w, http.StatusOK, chatHistoryResponse{Messages: messages})
}

func (s *Server) handleChatSend(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := middleware.GetUsername(r.Context())
	messages, err := s.chat.Send(r.Context(), username, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyText):
			writeError(w, http.StatusBadRequest, "message text is required")
		case errors.Is(err, service.ErrBusy):
			writeError(w, http.StatusTooManyRequests, "a message is already being processed")
		default:
			slog.Error("failed to process message", "username", username, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to process message")
		}
		return
	}
	writeJSON(w, http.StatusOK, chatHistoryResponse{Messages: messages})
}
