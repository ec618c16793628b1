package conversation

import (
	"errors"
	"strings"
	"testing"
)

func TestCreateSeedsWelcomeMessage(t *testing.T) {
	s := NewStore(nil)
	conv := s.Create()

	if conv.Title != DefaultTitle {
		t.Fatalf("expected default title, got %q", conv.Title)
	}
	if len(conv.Messages) != 1 || conv.Messages[0].Content != WelcomeContent {
		t.Fatalf("expected welcome message, got %+v", conv.Messages)
	}
	if conv.Cart == nil || conv.Cart.Len() != 0 {
		t.Fatal("expected empty cart")
	}
	if s.ActiveID() != conv.ID {
		t.Fatal("new conversation should become active")
	}
}

func TestDeriveTitleTruncatesFirstUserMessage(t *testing.T) {
	long := strings.Repeat("a", 45)
	msgs := []Message{
		{Role: RoleAssistant, Content: WelcomeContent},
		{Role: RoleUser, Content: long},
	}

	title := DeriveTitle(msgs)
	if title != strings.Repeat("a", 30)+"..." {
		t.Fatalf("unexpected title %q", title)
	}

	short := []Message{{Role: RoleUser, Content: "hi there"}}
	if got := DeriveTitle(short); got != "hi there" {
		t.Fatalf("short titles must not be truncated, got %q", got)
	}
}

func TestDeriveHistoryBoundAndFormat(t *testing.T) {
	var msgs []Message
	for i := 0; i < 15; i++ {
		msgs = append(msgs, Message{Role: RoleUser, Content: string(rune('a' + i))})
	}
	msgs = append(msgs, Message{Role: RoleAssistant, IsLoading: true})

	history := DeriveHistory(msgs)
	if len(history) != 10 {
		t.Fatalf("expected history capped at 10, got %d", len(history))
	}
	if history[0] != "user: f" {
		t.Fatalf("expected oldest retained entry 'user: f', got %q", history[0])
	}
	for _, entry := range history {
		if !strings.HasPrefix(entry, "user: ") {
			t.Fatalf("unexpected entry format %q", entry)
		}
	}
}

func TestAppendUserTurnAtomicAndGuarded(t *testing.T) {
	s := NewStore(nil)
	conv := s.Create()

	user, placeholder, err := s.AppendUserTurn(conv.ID, "order pizza")
	if err != nil {
		t.Fatalf("append turn: %v", err)
	}
	if user.Role != RoleUser || user.Content != "order pizza" {
		t.Fatalf("unexpected user message %+v", user)
	}
	if placeholder.Role != RoleAssistant || !placeholder.IsLoading {
		t.Fatalf("unexpected placeholder %+v", placeholder)
	}

	msgs := s.Messages(conv.ID)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}

	if _, _, err := s.AppendUserTurn(conv.ID, "another"); !errors.Is(err, ErrTurnInFlight) {
		t.Fatalf("expected ErrTurnInFlight, got %v", err)
	}
}

func TestResolvePlaceholderByID(t *testing.T) {
	s := NewStore(nil)
	conv := s.Create()
	_, placeholder, err := s.AppendUserTurn(conv.ID, "hello")
	if err != nil {
		t.Fatalf("append turn: %v", err)
	}

	// A concurrent append must not break id-based resolution.
	if err := s.AppendAssistant(conv.ID, Message{Content: "follow-up", Type: TypeFollowUp}); err != nil {
		t.Fatalf("append assistant: %v", err)
	}

	final := Message{Content: "resolved", Type: TypeGeneral}
	if err := s.ResolvePlaceholder(conv.ID, placeholder.ID, final); err != nil {
		t.Fatalf("resolve placeholder: %v", err)
	}

	var resolved *Message
	for _, msg := range s.Messages(conv.ID) {
		if msg.ID == placeholder.ID {
			m := msg
			resolved = &m
		}
	}
	if resolved == nil {
		t.Fatal("placeholder message missing")
	}
	if resolved.IsLoading || resolved.Content != "resolved" {
		t.Fatalf("placeholder not resolved: %+v", resolved)
	}

	// Turn guard must be released.
	if _, _, err := s.AppendUserTurn(conv.ID, "next"); err != nil {
		t.Fatalf("expected next turn to be accepted, got %v", err)
	}
}

func TestResolvePlaceholderUnknownID(t *testing.T) {
	s := NewStore(nil)
	conv := s.Create()
	if _, _, err := s.AppendUserTurn(conv.ID, "hello"); err != nil {
		t.Fatalf("append turn: %v", err)
	}

	err := s.ResolvePlaceholder(conv.ID, "missing", Message{Content: "x"})
	if !errors.Is(err, ErrNoPlaceholder) {
		t.Fatalf("expected ErrNoPlaceholder, got %v", err)
	}

	// Even on a failed resolution the guard is released so the
	// conversation cannot deadlock.
	if _, _, err := s.AppendUserTurn(conv.ID, "next"); err != nil {
		t.Fatalf("expected turn accepted after failed resolution, got %v", err)
	}
}

func TestDeleteActivePromotesMostRecent(t *testing.T) {
	s := NewStore(nil)
	first := s.Create()
	second := s.Create()

	// second is active and more recent
	if s.ActiveID() != second.ID {
		t.Fatal("expected second conversation active")
	}

	active := s.Delete(second.ID)
	if active.ID != first.ID {
		t.Fatalf("expected first conversation promoted, got %s", active.ID)
	}

	// deleting the last conversation creates a fresh one
	fresh := s.Delete(first.ID)
	if fresh == nil || fresh.ID == first.ID {
		t.Fatal("expected a fresh conversation after deleting the last one")
	}
	if len(s.List()) != 1 {
		t.Fatalf("expected exactly one conversation, got %d", len(s.List()))
	}
}

func TestDeleteUnknownIDOnEmptyStoreCreatesFresh(t *testing.T) {
	s := NewStore(nil)

	active := s.Delete("does-not-exist")
	if active == nil {
		t.Fatal("expected an active conversation, got nil")
	}
	if s.ActiveID() != active.ID {
		t.Fatalf("expected %s active, got %s", active.ID, s.ActiveID())
	}
	if len(active.Messages) == 0 {
		t.Fatal("expected the fresh conversation seeded with a welcome message")
	}
}

func TestDeleteNonActiveKeepsActive(t *testing.T) {
	s := NewStore(nil)
	first := s.Create()
	second := s.Create()

	active := s.Delete(first.ID)
	if active == nil || active.ID != second.ID {
		t.Fatalf("expected %s to stay active, got %+v", second.ID, active)
	}
}

func TestDeleteAllStartsFresh(t *testing.T) {
	s := NewStore(nil)
	s.Create()
	s.Create()

	fresh := s.DeleteAll()
	if fresh == nil {
		t.Fatal("expected a fresh conversation")
	}
	if got := len(s.List()); got != 1 {
		t.Fatalf("expected 1 conversation, got %d", got)
	}
}

func TestListMostRecentFirst(t *testing.T) {
	s := NewStore(nil)
	a := s.Create()
	b := s.Create()

	if _, _, err := s.AppendUserTurn(a.ID, "bump"); err != nil {
		t.Fatalf("append turn: %v", err)
	}

	list := s.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 conversations, got %d", len(list))
	}
	if list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("expected most recently updated first, got %s then %s", list[0].ID, list[1].ID)
	}
}
