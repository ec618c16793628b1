package conversation

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/errandboy/server/internal/cart"
	logx "github.com/errandboy/server/pkg/logger"
	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned for unknown conversation ids.
	ErrNotFound = errors.New("conversation not found")
	// ErrTurnInFlight is returned when a new user turn arrives while the
	// previous one is still being processed.
	ErrTurnInFlight = errors.New("a turn is already being processed")
	// ErrNoPlaceholder is returned when resolving a message id that is not a
	// pending placeholder.
	ErrNoPlaceholder = errors.New("placeholder message not found")
)

// Store owns every conversation transcript and cart in memory and mirrors
// each mutation to the Repository as a best-effort, non-blocking side
// channel. Mirror failures are logged, never surfaced.
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*Conversation
	active        string
	repo          Repository
	now           func() time.Time
}

func NewStore(repo Repository) *Store {
	return &Store{
		conversations: make(map[string]*Conversation),
		repo:          repo,
		now:           time.Now,
	}
}

// LoadPersisted restores previously mirrored conversations, selecting the
// most recently updated one as active. Load failures degrade to an empty
// store; the chat must come up regardless.
func (s *Store) LoadPersisted(ctx context.Context) {
	if s.repo == nil {
		return
	}
	records, err := s.repo.LoadAll(ctx)
	if err != nil {
		logx.Warn().Err(err).Msg("could not load persisted conversations, starting empty")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		ledger := cart.NewLedger()
		ledger.Restore(rec.Cart)
		conv := &Conversation{
			ID:          rec.ID,
			Title:       rec.Title,
			Preview:     rec.Preview,
			Messages:    rec.Messages,
			History:     rec.History,
			Cart:        ledger,
			LastUpdated: rec.LastUpdated,
		}
		s.conversations[conv.ID] = conv
		if s.active == "" || conv.LastUpdated.After(s.conversations[s.active].LastUpdated) {
			s.active = conv.ID
		}
	}
}

// Create seeds a new conversation with the welcome message and an empty
// cart, and makes it the active conversation.
func (s *Store) Create() *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked()
}

func (s *Store) createLocked() *Conversation {
	welcome := Message{
		ID:      "welcome",
		Role:    RoleAssistant,
		Content: WelcomeContent,
		Type:    TypeGeneral,
	}
	conv := &Conversation{
		ID:          uuid.NewString(),
		Title:       DefaultTitle,
		Preview:     welcome.Content,
		Messages:    []Message{welcome},
		History:     DeriveHistory([]Message{welcome}),
		Cart:        cart.NewLedger(),
		LastUpdated: s.now(),
	}
	s.conversations[conv.ID] = conv
	s.active = conv.ID
	s.mirror(conv)
	return conv
}

// Get returns the conversation for id.
func (s *Store) Get(id string) (*Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return conv, nil
}

// List returns every conversation, most recently updated first.
func (s *Store) List() []*Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		out = append(out, conv)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastUpdated.After(out[j].LastUpdated)
	})
	return out
}

// ActiveID returns the id of the active conversation, creating one when the
// store is empty.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == "" {
		return s.createLocked().ID
	}
	return s.active
}

// AppendUserTurn appends the user message and an isLoading assistant
// placeholder in one atomic step, so both are visible to any reader before
// classification begins. Rejects the turn while another is in flight.
func (s *Store) AppendUserTurn(id, text string) (user Message, placeholder Message, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return Message{}, Message{}, ErrNotFound
	}
	if conv.processing {
		return Message{}, Message{}, ErrTurnInFlight
	}

	user = Message{ID: uuid.NewString(), Role: RoleUser, Content: text}
	placeholder = Message{ID: uuid.NewString(), Role: RoleAssistant, IsLoading: true}

	conv.Messages = append(conv.Messages, user, placeholder)
	conv.processing = true
	s.refreshLocked(conv)
	return user, placeholder, nil
}

// ResolvePlaceholder replaces the placeholder message by id with its final
// content and ends the in-flight turn. Matching is by id, not position, so
// it is safe even if the message list has been appended to in the interim.
func (s *Store) ResolvePlaceholder(id, messageID string, final Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return ErrNotFound
	}

	for i := range conv.Messages {
		if conv.Messages[i].ID != messageID {
			continue
		}
		final.ID = messageID
		final.Role = RoleAssistant
		final.IsLoading = false
		conv.Messages[i] = final
		conv.processing = false
		s.refreshLocked(conv)
		return nil
	}
	conv.processing = false
	return ErrNoPlaceholder
}

// AppendAssistant appends an assistant message against the latest message
// list. Used by the deferred follow-up scheduler, which must never replace
// the transcript with a stale captured copy.
func (s *Store) AppendAssistant(id string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return ErrNotFound
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.Role = RoleAssistant
	conv.Messages = append(conv.Messages, msg)
	s.refreshLocked(conv)
	return nil
}

// History returns the bounded textual history for context-passing.
func (s *Store) History(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil
	}
	return append([]string(nil), conv.History...)
}

// Messages returns a snapshot of the transcript.
func (s *Store) Messages(id string) []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return nil
	}
	out := make([]Message, len(conv.Messages))
	copy(out, conv.Messages)
	return out
}

// Touch recomputes derivations and re-mirrors after an out-of-band cart
// mutation (checkout, UI cart actions).
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if conv, ok := s.conversations[id]; ok {
		s.refreshLocked(conv)
	}
}

// Delete removes a conversation. When the active conversation is deleted,
// the most recently updated remaining one becomes active; with none left a
// fresh conversation is created. Returns the new active conversation.
func (s *Store) Delete(id string) *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, id)
	if s.repo != nil {
		go func() {
			if err := s.repo.Delete(context.Background(), id); err != nil {
				logx.Warn().Err(err).Str("conversation_id", id).Msg("failed to delete persisted conversation")
			}
		}()
	}

	if s.active != id {
		if active, ok := s.conversations[s.active]; ok {
			return active
		}
		// No usable active conversation (fresh boot or dangling id); fall
		// through and promote or create one.
	}

	remaining := make([]*Conversation, 0, len(s.conversations))
	for _, conv := range s.conversations {
		remaining = append(remaining, conv)
	}
	if len(remaining) == 0 {
		return s.createLocked()
	}
	sort.Slice(remaining, func(i, j int) bool {
		return remaining[i].LastUpdated.After(remaining[j].LastUpdated)
	})
	s.active = remaining[0].ID
	return remaining[0]
}

// DeleteAll removes every conversation and starts a fresh one.
func (s *Store) DeleteAll() *Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conversations = make(map[string]*Conversation)
	s.active = ""
	if s.repo != nil {
		go func() {
			if err := s.repo.DeleteAll(context.Background()); err != nil {
				logx.Warn().Err(err).Msg("failed to clear persisted conversations")
			}
		}()
	}
	return s.createLocked()
}

// refreshLocked recomputes the derived fields and mirrors the record.
// Derivations are pure functions of the message list; they are recomputed on
// every mutation, never edited in place.
func (s *Store) refreshLocked(conv *Conversation) {
	conv.Title = DeriveTitle(conv.Messages)
	conv.Preview = DerivePreview(conv.Messages, conv.Preview)
	conv.History = DeriveHistory(conv.Messages)
	conv.LastUpdated = s.now()
	s.mirror(conv)
}

func (s *Store) mirror(conv *Conversation) {
	if s.repo == nil {
		return
	}
	rec := conv.record()
	go func() {
		if err := s.repo.Save(context.Background(), rec); err != nil {
			logx.Warn().Err(err).Str("conversation_id", rec.ID).Msg("failed to mirror conversation")
		}
	}()
}
