package chat

import (
	"context"
	"time"

	"github.com/errandboy/server/internal/catalog"
	"github.com/errandboy/server/internal/conversation"
	logx "github.com/errandboy/server/pkg/logger"
)

// followUpDelay gives the user a moment to read the service description
// before the quote checklist arrives.
const followUpDelay = 3 * time.Second

const cleaningFollowUpPrompt = `📝 To give you a personalized quote, please tell me:
- How many **bedrooms** and **bathrooms** do you have?
- Would you like a **regular** or **deep clean**?
- Any extras? (e.g., **fridge**, **oven**, **balcony**, **laundry**)`

const laundryFollowUpPrompt = `🧺 To generate an accurate quote, please tell me:
- Roughly how many **kgs** or **bags** of laundry?
- Do you need **express** delivery?`

// ServiceQuoteFlow handles the support intent: it answers with the matched
// service description and, for quotable services, schedules a deferred
// follow-up question asking for the details a quote needs. The follow-up is
// appended against the latest conversation state, never a captured copy.
type ServiceQuoteFlow struct {
	search ServiceSearcher
	store  *conversation.Store

	// schedule is swappable so tests can fire the follow-up synchronously.
	schedule func(d time.Duration, f func())
}

// ServiceSearcher matches offered services for a query.
type ServiceSearcher interface {
	Search(ctx context.Context, query string) (*catalog.ServiceResults, error)
}

func NewServiceQuoteFlow(search ServiceSearcher, store *conversation.Store) *ServiceQuoteFlow {
	return &ServiceQuoteFlow{
		search: search,
		store:  store,
		schedule: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

func (f *ServiceQuoteFlow) Handle(ctx context.Context, turn Turn) (conversation.Message, error) {
	results, err := f.search.Search(ctx, turn.Query)
	if err != nil {
		logx.Error().Err(err).Msg("service search failed")
		return conversation.Message{
			Content: "Something went wrong while finding a service. Please try again.",
			Type:    conversation.TypeServiceRequest,
		}, nil
	}

	if prompt := followUpPromptFor(results.Services); prompt != "" {
		conversationID := turn.ConversationID
		f.schedule(followUpDelay, func() {
			err := f.store.AppendAssistant(conversationID, conversation.Message{
				Content: prompt,
				Type:    conversation.TypeFollowUp,
			})
			if err != nil {
				logx.Warn().Err(err).Str("conversation_id", conversationID).Msg("could not append follow-up question")
			}
		})
	}

	return conversation.Message{
		Content:  results.AIResponse,
		Services: results.Services,
		Type:     conversation.TypeServiceRequest,
	}, nil
}

func followUpPromptFor(services []catalog.Service) string {
	if len(services) == 0 {
		return ""
	}
	switch services[0].Type {
	case catalog.ServiceCleaning:
		return cleaningFollowUpPrompt
	case catalog.ServiceLaundry:
		return laundryFollowUpPrompt
	default:
		return ""
	}
}

var _ Handler = (*ServiceQuoteFlow)(nil)
