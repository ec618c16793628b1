package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/errandboy/server/internal/cart"
	"github.com/errandboy/server/internal/catalog"
	"github.com/errandboy/server/internal/conversation"
	"github.com/errandboy/server/internal/nlu"
	logx "github.com/errandboy/server/pkg/logger"
)

// FoodOrderFlow handles the food_order intent in two phases: a modification
// check against the existing cart first, then new-order parsing. A turn is
// either a modification or a new order, never both.
type FoodOrderFlow struct {
	detector  nlu.FoodOrderDetector
	mods      nlu.ModificationDetector
	parser    nlu.FoodOrderParser
	responder nlu.FoodResponder
}

func NewFoodOrderFlow(detector nlu.FoodOrderDetector, mods nlu.ModificationDetector, parser nlu.FoodOrderParser, responder nlu.FoodResponder) *FoodOrderFlow {
	return &FoodOrderFlow{detector: detector, mods: mods, parser: parser, responder: responder}
}

func (f *FoodOrderFlow) Handle(ctx context.Context, turn Turn) (conversation.Message, error) {
	mod, err := f.mods.Detect(ctx, turn.Query)
	if err != nil {
		logx.Warn().Err(err).Msg("modification detection failed, treating as new order")
		mod = nlu.EmptyModification()
	}
	repriceItems(mod.Items)

	if mod.IsModification && mod.Action != nlu.ActionNone {
		return f.handleModification(turn, mod), nil
	}
	return f.handleNewOrder(ctx, turn)
}

func (f *FoodOrderFlow) handleModification(turn Turn, mod *nlu.Modification) conversation.Message {
	var content string

	switch mod.Action {
	case nlu.ActionRemove:
		removed, requested := 0, 0
		for _, item := range mod.Items {
			requested += item.Quantity
			removed += turn.Cart.RemoveByNameMatch(item.Name, item.Quantity)
		}
		content = RemovalResponse(mod.Items, removed, requested)
	case nlu.ActionAdd:
		turn.Cart.AddItems(foodLineItems(mod.Items))
		content = AdditionResponse(mod.Items)
	}

	return conversation.Message{
		Content: content,
		Type:    conversation.TypeFoodOrder,
	}
}

func (f *FoodOrderFlow) handleNewOrder(ctx context.Context, turn Turn) (conversation.Message, error) {
	isFood, err := f.detector.IsFoodOrder(ctx, turn.Query)
	if err != nil {
		logx.Warn().Err(err).Msg("food order detection failed, using keyword fallback")
		isFood = nlu.KeywordFoodOrderFallback(turn.Query)
	}
	if !isFood {
		return conversation.Message{Content: FallbackContent, Type: conversation.TypeGeneral}, nil
	}

	order, err := f.parser.Parse(ctx, turn.Query, turn.History)
	if err != nil {
		logx.Warn().Err(err).Msg("food order parsing failed, using fallback order")
		order = nlu.FallbackParsedOrder()
	}
	repriceItems(order.Items)
	order.TotalEstimatedPrice = orderTotal(order.Items)

	content, err := f.responder.Generate(ctx, order, turn.History)
	if err != nil {
		logx.Warn().Err(err).Msg("food response generation failed, using template")
		content = fallbackOrderResponse(order)
	}

	if order.IsComplete && len(order.Items) > 0 {
		turn.Cart.AddItems(foodLineItems(order.Items))
		content += "\n\nGreat! I've added your order to the cart so you can continue shopping."
	}

	return conversation.Message{
		Content:   content,
		Type:      conversation.TypeFoodOrder,
		FoodOrder: order,
	}, nil
}

// repriceItems overwrites extractor-supplied prices with the trusted menu
// price for every name the menu knows. Unknown names keep the extracted
// price.
func repriceItems(items []nlu.FoodOrderItem) {
	for i := range items {
		if menuItem, ok := catalog.LookupMenu(items[i].Name); ok {
			items[i].UnitPrice = menuItem.UnitPrice
		}
	}
}

func orderTotal(items []nlu.FoodOrderItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// foodLineItems expands extracted order items into cart line items, one per
// physical unit. Customizations and notes become zero-price customization
// entries.
func foodLineItems(items []nlu.FoodOrderItem) []cart.LineItem {
	var out []cart.LineItem
	for _, item := range items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}

		var customizations []cart.Customization
		for _, c := range item.Customizations {
			customizations = append(customizations, cart.Customization{Name: "Special Instructions", Option: c})
		}
		if item.Notes != "" {
			customizations = append(customizations, cart.Customization{Name: "Notes", Option: item.Notes})
		}

		line := cart.LineItem{
			ProductID:      "food-" + strings.ReplaceAll(strings.ToLower(name), " ", "-"),
			Name:           capitalize(name),
			UnitPrice:      item.UnitPrice,
			Category:       "Food",
			IsCustomFood:   true,
			Customizations: customizations,
		}
		for i := 0; i < item.Quantity; i++ {
			out = append(out, line)
		}
	}
	return out
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func itemsList(items []nlu.FoodOrderItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%d %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}

// RemovalResponse renders the deterministic reply for a removal request,
// honest about partial results: it never claims a full removal when fewer
// items matched than were asked for.
func RemovalResponse(items []nlu.FoodOrderItem, removed, requested int) string {
	list := itemsList(items)
	switch {
	case removed == 0:
		return fmt.Sprintf("I couldn't remove %s because those items are not in your cart. Would you like me to show you what's currently in your cart?", list)
	case removed < requested:
		return fmt.Sprintf("You asked me to remove %s, but I only found %d matching item(s) in your cart and removed those. Is there anything else you'd like to modify?", list, removed)
	default:
		return fmt.Sprintf("Perfect! I've removed %s from your order. Is there anything else you'd like to modify?", list)
	}
}

// AdditionResponse renders the deterministic reply for an addition request.
func AdditionResponse(items []nlu.FoodOrderItem) string {
	return fmt.Sprintf("Great! I've added %s to your order. Anything else you'd like to add?", itemsList(items))
}

// fallbackOrderResponse covers responder failures with templated replies
// keyed off the parsed order state.
func fallbackOrderResponse(order *nlu.ParsedFoodOrder) string {
	if len(order.Items) == 0 {
		return "What would you like to order today? We have rice, chicken, pizza, burgers, and various drinks available."
	}
	if order.NeedsConfirmation {
		return fmt.Sprintf("I understand you want %s. Could you please confirm the details?", order.OrderSummary)
	}
	if order.IsComplete {
		return fmt.Sprintf("Perfect! I've prepared your order: %s. Total: $%.2f. I'll add this to your cart so you can continue shopping.", order.OrderSummary, order.TotalEstimatedPrice)
	}
	return fmt.Sprintf("I have %s. Would that be all?", order.OrderSummary)
}

var _ Handler = (*FoodOrderFlow)(nil)
