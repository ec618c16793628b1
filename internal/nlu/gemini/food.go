package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/errandboy/server/internal/catalog"
	"github.com/errandboy/server/internal/nlu"
)

const detectFoodOrderPrompt = `Analyze this message and determine if the user is trying to order food/drinks or make a food-related request.

Look for:
- Mentions of food items, dishes, or drinks
- Ordering language like "I want", "I'd like", "Can I get", "Order", etc.
- Quantities like "2 plates", "3 bottles", numbers
- Food-related words like "eat", "hungry", "meal", "lunch", "dinner"

Return only "true" or "false" (no other text).

User message: %q`

const detectModificationPrompt = `Analyze this message to determine if the user wants to modify an existing food order.

Look for:
- Removal language: "remove", "delete", "take away", "cancel", "no more"
- Addition language: "add", "more", "extra", "another", "also get"
- Quantities: numbers like "1", "2", "3", etc.
- Food items being modified

Return a JSON object with this structure:
{
  "is_modification": boolean,
  "action": "add" | "remove" | "none",
  "items": [
    {
      "name": "item name",
      "quantity": number,
      "base_price": 0,
      "customizations": [],
      "notes": ""
    }
  ]
}

User message: %q

Return only valid JSON, no other text.`

const parseFoodOrderPrompt = `You are a food ordering assistant. Parse this food order and extract structured information.

Available menu items: %s

%s

Current user message: %q

Extract and return a JSON object with this exact structure:
{
  "items": [
    {
      "name": "item name (from menu)",
      "quantity": number,
      "base_price": price_from_menu,
      "customizations": ["any modifications mentioned"],
      "notes": "additional notes"
    }
  ],
  "is_complete": boolean (true if order seems complete),
  "needs_confirmation": boolean (true if you need to confirm details),
  "total_estimated_price": total_price,
  "order_summary": "human readable summary of the order"
}

Rules:
- Match items to the closest menu item
- If quantity not specified, assume 1
- Calculate total price (quantity x base_price for each item)
- Set is_complete to true if the order seems finished
- Set needs_confirmation to true if you need clarification
- Include customizations like "with stew on top", "no ice", etc.

Return only valid JSON, no other text.`

const foodResponsePrompt = `You are a friendly food ordering assistant. Generate an appropriate response based on this parsed order.

%s

Parsed order: %s

Guidelines:
- If is_complete is true, confirm the order and mention adding to cart
- If needs_confirmation is true, ask for clarification
- If the items array is empty, ask what they'd like to order
- Be conversational and friendly
- Mention the total price if the order is complete
- Ask "Would that be all?" if the order seems complete but not confirmed
- Keep responses concise but helpful

Generate a natural, conversational response (no JSON, just text).`

func historyContext(history []string) string {
	if len(history) == 0 {
		return ""
	}
	return "Previous conversation: " + strings.Join(history, " ")
}

// FoodExtractor implements the food-order extraction contracts (detector,
// modification detector, parser, responder) over one Gemini chat model.
type FoodExtractor struct {
	model     model.BaseChatModel
	modelName string
}

func NewFoodExtractor(cms *ChatModels) *FoodExtractor {
	return &FoodExtractor{model: cms.Extractor, modelName: cms.ExtractorModelName}
}

func (f *FoodExtractor) generate(ctx context.Context, prompt string) (string, error) {
	out, err := f.model.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		return "", err
	}
	logUsage(f.modelName, out)
	return out.Content, nil
}

func (f *FoodExtractor) IsFoodOrder(ctx context.Context, query string) (bool, error) {
	raw, err := f.generate(ctx, fmt.Sprintf(detectFoodOrderPrompt, query))
	if err != nil {
		return false, fmt.Errorf("detect food order: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(raw), "true"), nil
}

func (f *FoodExtractor) Detect(ctx context.Context, query string) (*nlu.Modification, error) {
	raw, err := f.generate(ctx, fmt.Sprintf(detectModificationPrompt, query))
	if err != nil {
		return nil, fmt.Errorf("detect modification: %w", err)
	}

	var mod nlu.Modification
	if err := decodeJSONPayload(raw, &mod); err != nil {
		return nil, fmt.Errorf("detect modification: %w", err)
	}

	switch mod.Action {
	case nlu.ActionAdd, nlu.ActionRemove, nlu.ActionNone:
	default:
		mod.Action = nlu.ActionNone
		mod.IsModification = false
	}
	mod.Items = nlu.NormalizeItems(mod.Items)
	return &mod, nil
}

func (f *FoodExtractor) Parse(ctx context.Context, query string, history []string) (*nlu.ParsedFoodOrder, error) {
	menuItems := strings.Join(catalog.MenuItemNames(), ", ")
	raw, err := f.generate(ctx, fmt.Sprintf(parseFoodOrderPrompt, menuItems, historyContext(history), query))
	if err != nil {
		return nil, fmt.Errorf("parse food order: %w", err)
	}

	var order nlu.ParsedFoodOrder
	if err := decodeJSONPayload(raw, &order); err != nil {
		return nil, fmt.Errorf("parse food order: %w", err)
	}
	order.Items = nlu.NormalizeItems(order.Items)
	return &order, nil
}

func (f *FoodExtractor) Generate(ctx context.Context, order *nlu.ParsedFoodOrder, history []string) (string, error) {
	encoded, err := json.Marshal(order)
	if err != nil {
		return "", fmt.Errorf("encode parsed order: %w", err)
	}
	raw, err := f.generate(ctx, fmt.Sprintf(foodResponsePrompt, historyContext(history), string(encoded)))
	if err != nil {
		return "", fmt.Errorf("generate food response: %w", err)
	}
	return strings.TrimSpace(raw), nil
}

var (
	_ nlu.FoodOrderDetector    = (*FoodExtractor)(nil)
	_ nlu.ModificationDetector = (*FoodExtractor)(nil)
	_ nlu.FoodOrderParser      = (*FoodExtractor)(nil)
	_ nlu.FoodResponder        = (*FoodExtractor)(nil)
)
