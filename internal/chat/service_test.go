package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/errandboy/server/internal/catalog"
	"github.com/errandboy/server/internal/conversation"
)

type failingProductSearch struct{}

func (failingProductSearch) Search(ctx context.Context, query string) (*catalog.ProductResults, error) {
	return nil, errors.New("catalog unavailable")
}

type failingServiceSearch struct{}

func (failingServiceSearch) Search(ctx context.Context, query string) (*catalog.ServiceResults, error) {
	return nil, errors.New("catalog unavailable")
}

// fireImmediately replaces the deferred scheduler so tests observe the
// follow-up synchronously.
func fireImmediately(flow *ServiceQuoteFlow) {
	flow.schedule = func(d time.Duration, f func()) { f() }
}

func TestServiceRequestSchedulesCleaningFollowUp(t *testing.T) {
	store := conversation.NewStore(nil)
	conv := store.Create()

	flow := NewServiceQuoteFlow(catalog.NewServiceSearch(), store)
	fireImmediately(flow)

	msg, err := flow.Handle(context.Background(), Turn{ConversationID: conv.ID, Query: "I need home cleaning"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if msg.Type != conversation.TypeServiceRequest {
		t.Fatalf("unexpected type %q", msg.Type)
	}
	if len(msg.Services) != 1 || msg.Services[0].Type != catalog.ServiceCleaning {
		t.Fatalf("expected cleaning service matched, got %+v", msg.Services)
	}
	if !strings.Contains(msg.Content, "Home Cleaning") {
		t.Fatalf("expected service details in reply, got %q", msg.Content)
	}

	messages := store.Messages(conv.ID)
	last := messages[len(messages)-1]
	if last.Type != conversation.TypeFollowUp {
		t.Fatalf("expected follow-up appended, got %+v", last)
	}
	if !strings.Contains(last.Content, "bedrooms") {
		t.Fatalf("expected cleaning checklist, got %q", last.Content)
	}
}

func TestServiceRequestSchedulesLaundryFollowUp(t *testing.T) {
	store := conversation.NewStore(nil)
	conv := store.Create()

	flow := NewServiceQuoteFlow(catalog.NewServiceSearch(), store)
	fireImmediately(flow)

	if _, err := flow.Handle(context.Background(), Turn{ConversationID: conv.ID, Query: "do you do laundry pickup?"}); err != nil {
		t.Fatalf("handle: %v", err)
	}

	messages := store.Messages(conv.ID)
	last := messages[len(messages)-1]
	if last.Type != conversation.TypeFollowUp || !strings.Contains(last.Content, "kgs") {
		t.Fatalf("expected laundry checklist, got %+v", last)
	}
}

func TestServiceRequestNoMatchNoFollowUp(t *testing.T) {
	store := conversation.NewStore(nil)
	conv := store.Create()

	flow := NewServiceQuoteFlow(catalog.NewServiceSearch(), store)
	fireImmediately(flow)

	before := len(store.Messages(conv.ID))
	msg, err := flow.Handle(context.Background(), Turn{ConversationID: conv.ID, Query: "can you walk my dog?"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(msg.Services) != 0 {
		t.Fatalf("expected no services, got %+v", msg.Services)
	}
	if !strings.Contains(msg.Content, "couldn't find a matching service") {
		t.Fatalf("unexpected reply %q", msg.Content)
	}
	if got := len(store.Messages(conv.ID)); got != before {
		t.Fatalf("no follow-up expected, message count went %d -> %d", before, got)
	}
}

func TestServiceSearchFailureRepliesWithRetryMessage(t *testing.T) {
	store := conversation.NewStore(nil)
	conv := store.Create()

	flow := NewServiceQuoteFlow(failingServiceSearch{}, store)
	scheduled := 0
	flow.schedule = func(d time.Duration, f func()) { scheduled++ }

	msg, err := flow.Handle(context.Background(), Turn{ConversationID: conv.ID, Query: "I need cleaning"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if msg.Type != conversation.TypeServiceRequest {
		t.Fatalf("unexpected type %q", msg.Type)
	}
	if !strings.Contains(msg.Content, "Something went wrong while finding a service") {
		t.Fatalf("expected retry message, got %q", msg.Content)
	}
	if scheduled != 0 {
		t.Fatalf("no follow-up may be scheduled on failure, got %d", scheduled)
	}
}

func TestFollowUpResponderGeneratesQuote(t *testing.T) {
	store := conversation.NewStore(nil)
	conv := store.Create()

	err := store.AppendAssistant(conv.ID, conversation.Message{
		Content:  "here's our cleaning service",
		Type:     conversation.TypeServiceRequest,
		Services: []catalog.Service{{Name: "Home Cleaning", Type: catalog.ServiceCleaning}},
	})
	if err != nil {
		t.Fatalf("append service message: %v", err)
	}

	responder := NewFollowUpResponder(store)
	msg, err := responder.Handle(context.Background(), Turn{ConversationID: conv.ID, Query: "2 bedrooms and 1 bathroom"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if msg.Type != conversation.TypeQuote {
		t.Fatalf("expected quote message, got %+v", msg)
	}
	// 2*30 + 1*20 = 80
	if !strings.Contains(msg.Content, "$80") {
		t.Fatalf("expected $80 quote, got %q", msg.Content)
	}
}

func TestFollowUpResponderWithoutServiceContext(t *testing.T) {
	store := conversation.NewStore(nil)
	conv := store.Create()

	responder := NewFollowUpResponder(store)
	msg, err := responder.Handle(context.Background(), Turn{ConversationID: conv.ID, Query: "3 bedrooms"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if msg.Type != conversation.TypeError {
		t.Fatalf("expected error message, got %+v", msg)
	}
	if !strings.Contains(msg.Content, "couldn't generate a quote") {
		t.Fatalf("unexpected content %q", msg.Content)
	}
}

func TestProductSearchFlowResults(t *testing.T) {
	flow := NewProductSearchFlow(catalog.NewProductSearch())

	msg, err := flow.Handle(context.Background(), Turn{Query: "headphones"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if msg.Type != conversation.TypeProductSearch {
		t.Fatalf("unexpected type %q", msg.Type)
	}
	if len(msg.Products) == 0 {
		t.Fatal("expected at least one product match")
	}
	if !strings.Contains(msg.Content, `"headphones"`) {
		t.Fatalf("expected query echoed, got %q", msg.Content)
	}
}

func TestProductSearchFailureRepliesWithRetryMessage(t *testing.T) {
	flow := NewProductSearchFlow(failingProductSearch{})

	msg, err := flow.Handle(context.Background(), Turn{Query: "headphones"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if msg.Type != conversation.TypeProductSearch {
		t.Fatalf("unexpected type %q", msg.Type)
	}
	if !strings.Contains(msg.Content, "Something went wrong while searching for products") {
		t.Fatalf("expected retry message, got %q", msg.Content)
	}
	if len(msg.Products) != 0 {
		t.Fatalf("no products expected on failure, got %d", len(msg.Products))
	}
}

func TestProductSearchFlowNoResults(t *testing.T) {
	flow := NewProductSearchFlow(catalog.NewProductSearch())

	msg, err := flow.Handle(context.Background(), Turn{Query: "submarine"})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(msg.Products) != 0 {
		t.Fatalf("expected no matches, got %d", len(msg.Products))
	}
	if !strings.Contains(msg.Content, "couldn't find any products") {
		t.Fatalf("unexpected content %q", msg.Content)
	}
}
