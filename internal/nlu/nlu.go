// Package nlu defines the contracts for the externally supplied language
// understanding: intent classification and food-order extraction. The core
// treats every result as an untrusted payload and validates it before use;
// each contract has a documented deterministic fallback so a model failure
// never propagates past the flow boundary.
package nlu

import (
	"context"
	"strings"
)

// Intent is one of the five classifier output labels driving handler
// dispatch.
type Intent string

const (
	IntentFoodOrder     Intent = "food_order"
	IntentProductSearch Intent = "product_search"
	IntentSupport       Intent = "support"
	IntentGeneral       Intent = "general"
	IntentUnknown       Intent = "unknown"
)

// ParseIntent normalises a raw label into a known Intent. Anything
// unrecognised degrades to IntentUnknown.
func ParseIntent(v string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(v))) {
	case IntentFoodOrder:
		return IntentFoodOrder
	case IntentProductSearch:
		return IntentProductSearch
	case IntentSupport:
		return IntentSupport
	case IntentGeneral:
		return IntentGeneral
	default:
		return IntentUnknown
	}
}

// Classifier labels a user message given the bounded conversation history.
// Implementations must degrade to IntentUnknown on any parse failure; the
// core never receives a raw classification exception.
type Classifier interface {
	Classify(ctx context.Context, query string, history []string) (Intent, error)
}

// FoodOrderItem is one extracted order line. UnitPrice is advisory: it is
// overwritten from the trusted menu whenever the name matches a known key.
type FoodOrderItem struct {
	Name           string   `json:"name"`
	Quantity       int      `json:"quantity"`
	UnitPrice      float64  `json:"base_price"`
	Customizations []string `json:"customizations,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// ParsedFoodOrder is the structured result of parsing a food order from
// free text. It is ephemeral: produced per user turn, consumed immediately
// into cart line items or a clarification message.
type ParsedFoodOrder struct {
	Items               []FoodOrderItem `json:"items"`
	IsComplete          bool            `json:"is_complete"`
	NeedsConfirmation   bool            `json:"needs_confirmation"`
	TotalEstimatedPrice float64         `json:"total_estimated_price"`
	OrderSummary        string          `json:"order_summary"`
}

type ModificationAction string

const (
	ActionAdd    ModificationAction = "add"
	ActionRemove ModificationAction = "remove"
	ActionNone   ModificationAction = "none"
)

// Modification is the result of asking whether the input modifies an
// existing order. When Action is not ActionNone, new-order parsing is
// skipped entirely for the turn.
type Modification struct {
	IsModification bool               `json:"is_modification"`
	Action         ModificationAction `json:"action"`
	Items          []FoodOrderItem    `json:"items"`
}

type FoodOrderDetector interface {
	IsFoodOrder(ctx context.Context, query string) (bool, error)
}

type ModificationDetector interface {
	Detect(ctx context.Context, query string) (*Modification, error)
}

type FoodOrderParser interface {
	Parse(ctx context.Context, query string, history []string) (*ParsedFoodOrder, error)
}

type FoodResponder interface {
	Generate(ctx context.Context, order *ParsedFoodOrder, history []string) (string, error)
}

// NormalizeItems clamps extracted quantities to at least one unit and drops
// nameless entries the model sometimes emits.
func NormalizeItems(items []FoodOrderItem) []FoodOrderItem {
	out := items[:0]
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.Name == "" {
			continue
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		out = append(out, item)
	}
	return out
}

// EmptyModification is the deterministic fallback for a failed or
// malformed modification detection.
func EmptyModification() *Modification {
	return &Modification{IsModification: false, Action: ActionNone, Items: []FoodOrderItem{}}
}

// FallbackParsedOrder is the conservative result for a failed parse: no
// items, confirmation required, a clarification request as summary.
func FallbackParsedOrder() *ParsedFoodOrder {
	return &ParsedFoodOrder{
		Items:             []FoodOrderItem{},
		IsComplete:        false,
		NeedsConfirmation: true,
		OrderSummary:      "I couldn't understand your order. Could you please clarify what you'd like to order?",
	}
}

// foodKeywords backs the keyword fallback for food-order detection when the
// detector itself is unavailable.
var foodKeywords = []string{
	"order", "want", "like", "get", "plates", "bottles",
	"rice", "chicken", "pizza", "burger", "drink", "pepsi", "coke",
	"food", "meal", "hungry", "lunch", "dinner", "breakfast", "eat",
}

// KeywordFoodOrderFallback is the deterministic detection fallback: a plain
// keyword scan over the query.
func KeywordFoodOrderFallback(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range foodKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
