package chat

import (
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d3vsino/myfittrackbackend/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.ChatSession{}, &models.ChatMessage{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestResolveOrCreateNewSession(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	session, err := ResolveOrCreate(db, 1, nil, "how much protein do I need?")
	if err != nil {
		t.Fatalf("resolve or create: %v", err)
	}
	if session.ID == uuid.Nil {
		t.Fatal("expected a session id to be assigned")
	}
	if session.UserID != 1 {
		t.Fatalf("expected user 1, got %d", session.UserID)
	}
	if session.Title != "how much protein do I need?" {
		t.Fatalf("expected title from first message, got %q", session.Title)
	}
}

func TestResolveOrCreateSameIDReturnsSameSession(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	created, err := ResolveOrCreate(db, 1, nil, "first message")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	first, err := ResolveOrCreate(db, 1, &created.ID, "later turn")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	second, err := ResolveOrCreate(db, 1, &created.ID, "another turn")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}

	if first.ID != created.ID || second.ID != created.ID {
		t.Fatalf("resolves returned different sessions: %v, %v, %v", created.ID, first.ID, second.ID)
	}
	if first.Title != created.Title || second.Title != created.Title {
		t.Fatalf("resolved titles diverge: %q, %q, %q", created.Title, first.Title, second.Title)
	}
}

func TestResolveOrCreateRejectsForeignAndUnknownSessions(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	owned, err := ResolveOrCreate(db, 2, nil, "owner's chat")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	// A session owned by another user is not resolvable, and must not fall
	// back to creating a new one.
	if _, err := ResolveOrCreate(db, 1, &owned.ID, "hello"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for foreign session, got %v", err)
	}

	missing := uuid.New()
	if _, err := ResolveOrCreate(db, 1, &missing, "hello"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound for unknown id, got %v", err)
	}

	var count int64
	db.Model(&models.ChatSession{}).Count(&count)
	if count != 1 {
		t.Fatalf("failed resolves must not create sessions, got %d", count)
	}
}

func TestAppendTurnOrdersUserBeforeAssistant(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	session, err := ResolveOrCreate(db, 1, nil, "what should I eat?")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := AppendTurn(db, session.ID, "what should I eat?", "Plenty of protein."); err != nil {
		t.Fatalf("append turn: %v", err)
	}

	history, err := History(db, session.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if !history[0].IsUser || history[0].Message != "what should I eat?" {
		t.Fatalf("expected user message first, got %+v", history[0])
	}
	if history[1].IsUser || history[1].Message != "Plenty of protein." {
		t.Fatalf("expected assistant message second, got %+v", history[1])
	}
	if !history[0].Timestamp.Before(history[1].Timestamp) {
		t.Fatalf("user timestamp %v not strictly before assistant %v", history[0].Timestamp, history[1].Timestamp)
	}
}

func TestHistoryIsAppendOnly(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	session, err := ResolveOrCreate(db, 1, nil, "turn one")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	if err := AppendTurn(db, session.ID, "turn one", "reply one"); err != nil {
		t.Fatalf("first append: %v", err)
	}
	before, err := History(db, session.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	if err := AppendTurn(db, session.ID, "turn two", "reply two"); err != nil {
		t.Fatalf("second append: %v", err)
	}
	after, err := History(db, session.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}

	if len(after) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(after))
	}
	for i := range before {
		if after[i] != before[i] {
			t.Fatalf("existing message %d changed: %+v vs %+v", i, after[i], before[i])
		}
	}
	for i := 1; i < len(after); i++ {
		if after[i].Timestamp.Before(after[i-1].Timestamp) {
			t.Fatalf("history out of order at %d", i)
		}
	}
}

func TestAppendTurnRollsBackBothMessagesOnFailure(t *testing.T) {
	db := newTestDB(t)

	session, err := ResolveOrCreate(db, 1, nil, "doomed turn")
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	// Fail the assistant insert; the user insert in the same transaction
	// must roll back with it.
	const callbackName = "fail_assistant_insert"
	err = db.Callback().Create().After("gorm:create").Register(callbackName, func(tx *gorm.DB) {
		if msg, ok := tx.Statement.Dest.(*models.ChatMessage); ok && !msg.IsUser {
			tx.AddError(errors.New("assistant insert failed"))
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if err := AppendTurn(db, session.ID, "user half", "assistant half"); err == nil {
		t.Fatal("expected append to fail")
	}

	if err := db.Callback().Create().Remove(callbackName); err != nil {
		t.Fatalf("remove callback: %v", err)
	}

	history, err := History(db, session.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history after rollback, got %d messages", len(history))
	}
}

func TestListSessionsNewestFirstWithOrderedMessages(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	older := models.ChatSession{UserID: 1, Title: "older", CreatedAt: base}
	newer := models.ChatSession{UserID: 1, Title: "newer", CreatedAt: base.Add(time.Hour)}
	other := models.ChatSession{UserID: 2, Title: "someone else", CreatedAt: base.Add(2 * time.Hour)}
	for _, s := range []*models.ChatSession{&older, &newer, &other} {
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("create session %q: %v", s.Title, err)
		}
	}

	if err := AppendTurn(db, older.ID, "hi", "hello"); err != nil {
		t.Fatalf("append turn: %v", err)
	}

	sessions, err := ListSessions(db, 1)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions for user 1, got %d", len(sessions))
	}
	if sessions[0].Title != "newer" || sessions[1].Title != "older" {
		t.Fatalf("expected newest-first order, got %q then %q", sessions[0].Title, sessions[1].Title)
	}

	msgs := sessions[1].Messages
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages attached, got %d", len(msgs))
	}
	if !msgs[0].IsUser || msgs[1].IsUser {
		t.Fatalf("attached messages out of order: %+v", msgs)
	}
}
