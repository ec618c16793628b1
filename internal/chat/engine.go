// Package chat routes each user turn to exactly one intent handler and
// resolves the assistant placeholder with the handler's reply. Handlers own
// their deterministic fallbacks, so a model failure produces a helpful
// message instead of a stuck placeholder.
package chat

import (
	"context"

	"github.com/errandboy/server/internal/cart"
	"github.com/errandboy/server/internal/conversation"
	"github.com/errandboy/server/internal/nlu"
	logx "github.com/errandboy/server/pkg/logger"
)

// FallbackContent resolves turns no handler is bound to.
const FallbackContent = "I'm not sure how to help with that yet."

// Turn carries one user message plus the conversation context a handler
// needs to act on it.
type Turn struct {
	ConversationID string
	Query          string
	History        []string
	Cart           *cart.Ledger
}

// Handler produces the final assistant message for a turn. Role, ID and
// IsLoading on the returned message are overwritten during placeholder
// resolution.
type Handler interface {
	Handle(ctx context.Context, turn Turn) (conversation.Message, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(ctx context.Context, turn Turn) (conversation.Message, error)

func (f HandlerFunc) Handle(ctx context.Context, turn Turn) (conversation.Message, error) {
	return f(ctx, turn)
}

// Engine is the per-turn pipeline: append user message and placeholder,
// classify, dispatch to one handler, resolve the placeholder. The
// placeholder is resolved on every path, including classification and
// handler failures.
type Engine struct {
	store      *conversation.Store
	classifier nlu.Classifier
	handlers   map[nlu.Intent]Handler
	followUp   Handler
}

func NewEngine(store *conversation.Store, classifier nlu.Classifier) *Engine {
	return &Engine{
		store:      store,
		classifier: classifier,
		handlers:   make(map[nlu.Intent]Handler),
	}
}

// Bind registers the handler for an intent, replacing any previous binding.
func (e *Engine) Bind(intent nlu.Intent, h Handler) {
	e.handlers[intent] = h
}

// BindFollowUp registers the handler for replies to a pending follow-up
// question. It takes priority over intent classification for such turns.
func (e *Engine) BindFollowUp(h Handler) {
	e.followUp = h
}

// HandleTurn runs one full user turn and returns the resolved assistant
// message.
func (e *Engine) HandleTurn(ctx context.Context, conversationID, text string) (conversation.Message, error) {
	user, placeholder, err := e.store.AppendUserTurn(conversationID, text)
	if err != nil {
		return conversation.Message{}, err
	}

	turn := Turn{
		ConversationID: conversationID,
		Query:          text,
		History:        e.store.History(conversationID),
	}
	if conv, err := e.store.Get(conversationID); err == nil {
		turn.Cart = conv.Cart
	}

	final := e.dispatch(ctx, turn, user.ID)

	if err := e.store.ResolvePlaceholder(conversationID, placeholder.ID, final); err != nil {
		return conversation.Message{}, err
	}
	final.ID = placeholder.ID
	final.Role = conversation.RoleAssistant
	return final, nil
}

func (e *Engine) dispatch(ctx context.Context, turn Turn, userMessageID string) conversation.Message {
	if e.followUp != nil && e.pendingFollowUp(turn.ConversationID, userMessageID) {
		return e.run(ctx, e.followUp, turn)
	}

	intent, err := e.classifier.Classify(ctx, turn.Query, turn.History)
	if err != nil {
		logx.Warn().Err(err).Str("conversation_id", turn.ConversationID).Msg("intent classification failed")
		intent = nlu.IntentUnknown
	}

	handler, ok := e.handlers[intent]
	if !ok {
		return conversation.Message{Content: FallbackContent, Type: conversation.TypeGeneral}
	}
	return e.run(ctx, handler, turn)
}

func (e *Engine) run(ctx context.Context, h Handler, turn Turn) conversation.Message {
	msg, err := h.Handle(ctx, turn)
	if err != nil {
		logx.Error().Err(err).Str("conversation_id", turn.ConversationID).Msg("turn handler failed")
		return conversation.Message{
			Content: "Something went wrong while handling your request. Please try again.",
			Type:    conversation.TypeError,
		}
	}
	return msg
}

// pendingFollowUp reports whether the assistant's last resolved message
// before this turn was a follow-up question, in which case the user's reply
// carries quote details rather than a fresh intent.
func (e *Engine) pendingFollowUp(conversationID, userMessageID string) bool {
	messages := e.store.Messages(conversationID)

	// Walk back past this turn's own user message and placeholder.
	end := len(messages)
	for i, msg := range messages {
		if msg.ID == userMessageID {
			end = i
			break
		}
	}

	for i := end - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.IsLoading || msg.Role != conversation.RoleAssistant {
			continue
		}
		return msg.Type == conversation.TypeFollowUp
	}
	return false
}
