package handlers

import (
	"errors"
	"net/http"

	"github.com/momna763/Target-Lock/internal/chat"
)

// PostChat godoc
// @Summary Ask the assistant
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param message body ChatRequest true "User message"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/chat [post]
func (s *Server) PostChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	question, answer, err := s.chat.Reply(r.Context(), identity(r).UserID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) || errors.Is(err, chat.ErrMessageTooLong) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.internalError(w, r, "assistant unavailable", err)
		return
	}
	s.respond(w, r, http.StatusOK, ChatResponse{Message: question, Reply: answer})
}

// GetChatHistory godoc
// @Summary Recent conversation
// @Tags chat
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.ChatMessage
// @Failure 500 {object} ErrorResponse
// @Router /api/chat/history [get]
func (s *Server) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.chat.History(r.Context(), identity(r).UserID)
	if err != nil {
		s.internalError(w, r, "could not load chat history", err)
		return
	}
	s.respond(w, r, http.StatusOK, history)
}
