package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/errandboy/server/internal/chat"
	"github.com/errandboy/server/internal/conversation"
	"github.com/errandboy/server/internal/nlu"
	"github.com/errandboy/server/internal/order"
	"github.com/errandboy/server/internal/payment"
	"github.com/gin-gonic/gin"
)

type stubClassifier struct{ intent nlu.Intent }

func (s *stubClassifier) Classify(ctx context.Context, query string, history []string) (nlu.Intent, error) {
	return s.intent, nil
}

type stubOrderStore struct{ created int }

func (s *stubOrderStore) Create(ctx context.Context, o *order.Order) error {
	s.created++
	return nil
}

func (s *stubOrderStore) ListByCustomer(ctx context.Context, customerID string) ([]order.Order, error) {
	return []order.Order{}, nil
}

func (s *stubOrderStore) UpdateStatus(ctx context.Context, orderID string, status order.Status) error {
	return nil
}

func (s *stubOrderStore) UpdatePaymentStatus(ctx context.Context, orderID string, status order.PaymentStatus, reference string) error {
	return nil
}

type stubGateway struct{ verification *payment.Verification }

func (s *stubGateway) Verify(ctx context.Context, reference string) (*payment.Verification, error) {
	return s.verification, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *conversation.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conversations := conversation.NewStore(nil)
	engine := chat.NewEngine(conversations, &stubClassifier{intent: nlu.IntentUnknown})
	checkout := order.NewCheckoutService(conversations, &stubOrderStore{})
	gateway := &stubGateway{verification: &payment.Verification{Success: true}}

	srv := New(Config{Port: "0"}, engine, conversations, checkout, &stubOrderStore{}, gateway)
	return srv.Router(), conversations
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListConversations(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/conversations", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/conversations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var payload struct {
		Conversations []struct {
			ID    string `json:"id"`
			Title string `json:"title"`
		} `json:"conversations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(payload.Conversations))
	}
}

func TestChatResolvesWithFallbackForUnknownIntent(t *testing.T) {
	router, conversations := newTestRouter(t)
	conv := conversations.Create()

	rec := doJSON(t, router, http.MethodPost, "/api/chat", `{"conversation_id":"`+conv.ID+`","query":"hi there"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Message.Content != chat.FallbackContent {
		t.Fatalf("expected fallback content, got %q", payload.Message.Content)
	}
}

func TestChatRequiresQuery(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/chat", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetCartUnknownConversation(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/conversations/nope/cart", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCheckoutEmptyCartRejected(t *testing.T) {
	router, conversations := newTestRouter(t)
	conv := conversations.Create()

	rec := doJSON(t, router, http.MethodPost, "/api/checkout", `{"conversation_id":"`+conv.ID+`","customer":{"customer_id":"c1"}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestVerifyPayment(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/verify", `{"reference":"ref-123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var verification payment.Verification
	if err := json.Unmarshal(rec.Body.Bytes(), &verification); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !verification.Success {
		t.Fatal("expected success true")
	}

	rec = doJSON(t, router, http.MethodPost, "/api/verify", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing reference, got %d", rec.Code)
	}
}

func TestOrdersRequireCustomerID(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/orders", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/orders?customer_id=c1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
