package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/d3vsino/myfittrackbackend/chat"
	"github.com/d3vsino/myfittrackbackend/database"
	"github.com/d3vsino/myfittrackbackend/logger"
	"github.com/d3vsino/myfittrackbackend/models"
)

type ChatTurnRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type ChatTurnResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

// ChatTurn runs one assistant exchange: resolve or create the session, build
// the prompt from the profile and prior history, call the model, then append
// both turn halves. The turn is appended only after a successful reply, so a
// failed upstream call leaves the session history untouched.
func ChatTurn(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req ChatTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "No message provided")
		return
	}

	var sessionID *uuid.UUID
	if req.SessionID != "" {
		id, err := uuid.Parse(req.SessionID)
		if err != nil {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		sessionID = &id
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	session, err := chat.ResolveOrCreate(database.DB, userID, sessionID, req.Message)
	if err != nil {
		if errors.Is(err, chat.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "Session not found")
			return
		}
		logger.Error("Failed to resolve session", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Failed to resolve session")
		return
	}

	history, err := chat.History(database.DB, session.ID)
	if err != nil {
		logger.Error("Failed to fetch history", "error", err, "session_id", session.ID)
		writeError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}

	messages := chat.BuildContext(user, history, req.Message, cfg.Chat.HistoryWindow)

	reply, err := llmClient.Chat(r.Context(), messages)
	if err != nil {
		logger.Error("Chat completion failed", "error", err, "session_id", session.ID)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "AI error", Detail: err.Error()})
		return
	}

	if err := chat.AppendTurn(database.DB, session.ID, req.Message, reply); err != nil {
		logger.Error("Failed to record turn", "error", err, "session_id", session.ID)
		writeError(w, http.StatusInternalServerError, "Failed to record messages")
		return
	}

	logger.Info("Chat turn completed", "user_id", userID, "session_id", session.ID, "history_len", len(history))
	writeJSON(w, http.StatusOK, ChatTurnResponse{
		Reply:     reply,
		SessionID: session.ID.String(),
	})
}

// ChatHistoryList returns all of the caller's sessions, newest first, with
// their ordered messages.
func ChatHistoryList(w http.ResponseWriter, r *http.Request) {
	userID, err := getUserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sessions, err := chat.ListSessions(database.DB, userID)
	if err != nil {
		logger.Error("Failed to list sessions", "error", err, "user_id", userID)
		writeError(w, http.StatusInternalServerError, "Failed to fetch chat history")
		return
	}

	writeJSON(w, http.StatusOK, sessions)
}
