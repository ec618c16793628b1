package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/errandboy/server/internal/nlu"
	logx "github.com/errandboy/server/pkg/logger"
)

const classifierSystemPrompt = `You are an intent classification assistant for a conversational shopping AI.

Your task is to analyze a customer's message and determine the primary intent behind it.

You MUST return one of the following intent labels:

- "food_order": The user is ordering or modifying a food order (e.g., "I'd like a pepperoni pizza", "remove fries from my order").
- "product_search": The user is searching for a non-food product (e.g., clothes, shoes, electronics, etc.).
- "support": The user is asking for help, support, a home service, or has questions about returns, delivery, or issues.
- "general": The user is making small talk, chatting, or asking something general (e.g., "hello", "who are you?").
- "unknown": You are not confident about the intent or the message is unclear.

Only return a JSON object like this:

{ "intent": "product_search" }

Do not explain or add anything else. Be strict and return only one intent.`

// IntentClassifier implements nlu.Classifier over a Gemini chat model.
// Parse failures degrade to IntentUnknown; only transport errors surface,
// and the router maps those to the same fallback.
type IntentClassifier struct {
	model     model.BaseChatModel
	modelName string
}

func NewIntentClassifier(cms *ChatModels) *IntentClassifier {
	return &IntentClassifier{model: cms.Classifier, modelName: cms.ClassifierModelName}
}

func (c *IntentClassifier) Classify(ctx context.Context, query string, history []string) (nlu.Intent, error) {
	historyText := "No previous messages."
	if len(history) > 0 {
		historyText = strings.Join(history, " ")
	}

	userPrompt := fmt.Sprintf("user message: %q\nconversation history: %s", query, historyText)
	out, err := c.model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage(userPrompt),
	})
	if err != nil {
		return nlu.IntentUnknown, fmt.Errorf("classify intent: %w", err)
	}
	logUsage(c.modelName, out)

	var payload struct {
		Intent string `json:"intent"`
	}
	if err := decodeJSONPayload(out.Content, &payload); err != nil {
		logx.Warn().Err(err).Str("model", c.modelName).Msg("unparseable classifier payload, degrading to unknown")
		return nlu.IntentUnknown, nil
	}
	return nlu.ParseIntent(payload.Intent), nil
}

var _ nlu.Classifier = (*IntentClassifier)(nil)
