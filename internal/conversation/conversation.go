package conversation

import (
	"time"

	"github.com/errandboy/server/internal/cart"
	"github.com/errandboy/server/internal/catalog"
	"github.com/errandboy/server/internal/nlu"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type MessageType string

const (
	TypeFoodOrder      MessageType = "food_order"
	TypeProductSearch  MessageType = "product_search"
	TypeServiceRequest MessageType = "service_request"
	TypeFollowUp       MessageType = "follow_up"
	TypeGeneral        MessageType = "general"
	TypeQuote          MessageType = "quote"
	TypeError          MessageType = "error"
	TypeAboutUs        MessageType = "about_us"
)

// Message is one transcript entry. A message is immutable once rendered,
// except for the isLoading placeholder transition: the single in-flight
// assistant placeholder is looked up by id and replaced atomically.
type Message struct {
	ID        string              `json:"id"`
	Role      Role                `json:"role"`
	Content   string              `json:"content"`
	IsLoading bool                `json:"is_loading,omitempty"`
	Type      MessageType         `json:"message_type,omitempty"`
	Products  []catalog.Product   `json:"products,omitempty"`
	Services  []catalog.Service   `json:"services,omitempty"`
	FoodOrder *nlu.ParsedFoodOrder `json:"food_order,omitempty"`
}

// Conversation holds one transcript and its cart. Title, Preview and
// History are derived from Messages and recomputed on every mutation,
// never hand-edited.
type Conversation struct {
	ID          string
	Title       string
	Preview     string
	Messages    []Message
	History     []string
	Cart        *cart.Ledger
	LastUpdated time.Time

	processing bool // one turn in flight at a time
}

// Record is the serializable form of a Conversation, mirrored to the
// persistence layer after every mutation.
type Record struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Messages    []Message       `json:"messages"`
	LastUpdated time.Time       `json:"last_updated"`
	Preview     string          `json:"preview"`
	Cart        []cart.LineItem `json:"cart"`
	History     []string        `json:"history"`
}

const (
	// DefaultTitle is used until the user has sent a first message.
	DefaultTitle = "New Conversation"
	// maxTitleLen bounds the derived conversation title.
	maxTitleLen = 30
	// maxHistoryEntries caps the context payload sent to the classifier and
	// extractors on every turn.
	maxHistoryEntries = 10
)

// WelcomeContent seeds every new conversation.
const WelcomeContent = "Hi there! How can I help you today? You can:\n" +
	"• Order food (e.g., 'I want 2 plates of rice with chicken')\n" +
	"• Search for products\n" +
	"• Ask about our cleaning and laundry services\n" +
	"• Browse categories"

// DeriveTitle returns the first non-empty user message truncated to 30
// characters, with an ellipsis when truncated, or the default title.
func DeriveTitle(messages []Message) string {
	for _, msg := range messages {
		if msg.Role != RoleUser {
			continue
		}
		content := msg.Content
		if len([]rune(content)) == 0 {
			continue
		}
		runes := []rune(content)
		if len(runes) > maxTitleLen {
			return string(runes[:maxTitleLen]) + "..."
		}
		return content
	}
	return DefaultTitle
}

// DeriveHistory maps every non-loading message to "{role}: {content}" and
// keeps only the last 10 entries.
func DeriveHistory(messages []Message) []string {
	history := make([]string, 0, len(messages))
	for _, msg := range messages {
		if msg.IsLoading {
			continue
		}
		history = append(history, string(msg.Role)+": "+msg.Content)
	}
	if len(history) > maxHistoryEntries {
		history = history[len(history)-maxHistoryEntries:]
	}
	return history
}

// DerivePreview returns the content of the last non-loading message.
func DerivePreview(messages []Message, fallback string) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if !messages[i].IsLoading {
			return messages[i].Content
		}
	}
	return fallback
}

// LastResolved returns the most recent non-loading message, if any.
func LastResolved(messages []Message) (Message, bool) {
	for i := len(messages) - 1; i >= 0; i-- {
		if !messages[i].IsLoading {
			return messages[i], true
		}
	}
	return Message{}, false
}

func (c *Conversation) record() *Record {
	msgs := make([]Message, len(c.Messages))
	copy(msgs, c.Messages)
	return &Record{
		ID:          c.ID,
		Title:       c.Title,
		Messages:    msgs,
		LastUpdated: c.LastUpdated,
		Preview:     c.Preview,
		Cart:        c.Cart.Snapshot(),
		History:     append([]string(nil), c.History...),
	}
}
