package chat

import (
	"context"

	"github.com/errandboy/server/internal/conversation"
	logx "github.com/errandboy/server/pkg/logger"
)

const quoteFailureContent = "Sorry, I couldn't generate a quote from your details. " +
	"Please try to provide more information or clarify your request."

// FollowUpResponder handles the user's reply to a pending follow-up
// question. The service type is recovered from the transcript: the most
// recent service_request message that carried matched services.
type FollowUpResponder struct {
	store *conversation.Store
}

func NewFollowUpResponder(store *conversation.Store) *FollowUpResponder {
	return &FollowUpResponder{store: store}
}

func (f *FollowUpResponder) Handle(ctx context.Context, turn Turn) (conversation.Message, error) {
	serviceType := f.lastServiceType(turn.ConversationID)
	if serviceType == "" {
		logx.Warn().Str("conversation_id", turn.ConversationID).Msg("no service request found for follow-up reply")
		return conversation.Message{Content: quoteFailureContent, Type: conversation.TypeError}, nil
	}

	quote, ok := QuoteFromInput(serviceType, turn.Query)
	if !ok {
		return conversation.Message{Content: quote, Type: conversation.TypeError}, nil
	}
	return conversation.Message{Content: quote, Type: conversation.TypeQuote}, nil
}

func (f *FollowUpResponder) lastServiceType(conversationID string) string {
	messages := f.store.Messages(conversationID)
	for i := len(messages) - 1; i >= 0; i-- {
		msg := messages[i]
		if msg.Type == conversation.TypeServiceRequest && len(msg.Services) > 0 {
			return msg.Services[0].Type
		}
	}
	return ""
}

var _ Handler = (*FollowUpResponder)(nil)
