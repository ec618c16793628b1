package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/errandboy/server/internal/conversation"
	errx "github.com/errandboy/server/internal/core/error"
	logx "github.com/errandboy/server/pkg/logger"
)

// ErrEmptyCart rejects a checkout before any store call is made.
var ErrEmptyCart = errors.New("cart is empty")

// CheckoutService places orders from a conversation's cart. The cart is
// cleared only after the store accepts the order; a store failure leaves the
// cart untouched so the user can retry.
type CheckoutService struct {
	conversations *conversation.Store
	orders        Store
}

func NewCheckoutService(conversations *conversation.Store, orders Store) *CheckoutService {
	return &CheckoutService{conversations: conversations, orders: orders}
}

// Checkout assembles, persists and confirms an order for the conversation's
// cart. Exactly one confirmation message is appended on success.
func (s *CheckoutService) Checkout(ctx context.Context, conversationID string, customer Customer) (*Order, error) {
	conv, err := s.conversations.Get(conversationID)
	if err != nil {
		return nil, err
	}

	snapshot := conv.Cart.Snapshot()
	if len(snapshot) == 0 {
		return nil, ErrEmptyCart
	}

	placed := Assemble(snapshot, customer)
	if err := s.orders.Create(ctx, placed); err != nil {
		logx.Error().Err(err).Str("order_id", placed.ID).Msg("order creation failed")
		return nil, errx.WrapCheckout(err)
	}

	conv.Cart.Clear()
	s.conversations.Touch(conversationID)

	confirmation := conversation.Message{
		Content: fmt.Sprintf(
			"✅ Your order %s has been placed successfully! Total: $%.2f. Estimated delivery: %s.",
			placed.ID, placed.Total, placed.EstimatedDelivery.Format("Jan 2, 2006"),
		),
		Type: conversation.TypeGeneral,
	}
	if err := s.conversations.AppendAssistant(conversationID, confirmation); err != nil {
		logx.Warn().Err(err).Str("order_id", placed.ID).Msg("could not append order confirmation")
	}

	logx.Info().Str("order_id", placed.ID).Float64("total", placed.Total).Msg("order placed")
	return placed, nil
}
