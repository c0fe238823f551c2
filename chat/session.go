// Package chat owns assistant conversations: session lookup and creation,
// ordered message history, and assembly of the model prompt.
package chat

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d3vsino/myfittrackbackend/models"
)

// ErrSessionNotFound is returned when a session ID does not resolve to a
// session owned by the requesting user. It is terminal for the request; a
// bad ID never falls back to creating a session.
var ErrSessionNotFound = errors.New("session not found")

// ResolveOrCreate returns the session to append the turn to. With a session
// ID it must match an existing session owned by userID; without one a new
// session is created, titled with the first message.
func ResolveOrCreate(db *gorm.DB, userID uint, sessionID *uuid.UUID, firstMessage string) (models.ChatSession, error) {
	if sessionID != nil {
		var session models.ChatSession
		err := db.Where("id = ? AND user_id = ?", *sessionID, userID).First(&session).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ChatSession{}, ErrSessionNotFound
		}
		if err != nil {
			return models.ChatSession{}, fmt.Errorf("resolve session: %w", err)
		}
		return session, nil
	}

	session := models.ChatSession{
		UserID: userID,
		Title:  firstMessage,
	}
	if err := db.Create(&session).Error; err != nil {
		return models.ChatSession{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// AppendTurn records the user message and the assistant reply as one logical
// append: both rows are written in a single transaction, so a failure leaves
// neither persisted. The assistant timestamp is strictly after the user
// timestamp, which keeps retrieval order user-then-assistant.
func AppendTurn(db *gorm.DB, sessionID uuid.UUID, userText, assistantText string) error {
	now := time.Now().UTC()
	return db.Transaction(func(tx *gorm.DB) error {
		userMsg := models.ChatMessage{
			SessionID: sessionID,
			IsUser:    true,
			Message:   userText,
			Timestamp: now,
		}
		if err := tx.Create(&userMsg).Error; err != nil {
			return fmt.Errorf("append user message: %w", err)
		}

		assistantMsg := models.ChatMessage{
			SessionID: sessionID,
			IsUser:    false,
			Message:   assistantText,
			Timestamp: now.Add(time.Millisecond),
		}
		if err := tx.Create(&assistantMsg).Error; err != nil {
			return fmt.Errorf("append assistant message: %w", err)
		}
		return nil
	})
}

// History returns the session's prior messages oldest first. The in-flight
// turn is not part of history; it is appended only after the model replies.
func History(db *gorm.DB, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := db.Where("session_id = ?", sessionID).
		Order("timestamp asc, id asc").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}
	return messages, nil
}

// ListSessions returns the user's sessions newest-created first, each with
// its ordered message list attached.
func ListSessions(db *gorm.DB, userID uint) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := db.Where("user_id = ?", userID).
		Order("created_at desc").
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp asc, id asc")
		}).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
