package main

import (
	"context"
	"log"
	"time"

	"github.com/errandboy/server/internal/catalog"
	"github.com/errandboy/server/internal/chat"
	"github.com/errandboy/server/internal/conversation"
	"github.com/errandboy/server/internal/core"
	"github.com/errandboy/server/internal/httpserver"
	"github.com/errandboy/server/internal/nlu"
	"github.com/errandboy/server/internal/nlu/gemini"
	"github.com/errandboy/server/internal/order"
	"github.com/errandboy/server/internal/payment"
	logx "github.com/errandboy/server/pkg/logger"
	pkgredis "github.com/errandboy/server/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig defines all configurable parameters for the server, sourced
// from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis    pkgredis.Config
	Database order.Config
	Server   httpserver.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Model configs
	Classifier gemini.ClassifierModelConfig
	Extractor  gemini.ExtractorModelConfig

	// Payments
	Paystack payment.Config

	// Conversation persistence
	ConversationTTL string `envconfig:"CONVERSATION_TTL" default:"720h"`
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.ParseEnvironment(cfg.Environment)})

	ttl, err := time.ParseDuration(cfg.ConversationTTL)
	if err != nil {
		log.Fatalf("Invalid CONVERSATION_TTL '%s': %v", cfg.ConversationTTL, err)
	}

	rdb, err := cfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	orderStore, err := order.NewGormStore(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialise order store: %v", err)
	}

	chatModels, err := gemini.NewChatModels(ctx, gemini.ChatModelConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Classifier: &cfg.Classifier,
		Extractor:  &cfg.Extractor,
	})
	if err != nil {
		log.Fatalf("Failed to initialise chat models: %v", err)
	}

	conversations := conversation.NewStore(conversation.NewRedisRepository(rdb, ttl))
	conversations.LoadPersisted(ctx)

	extractor := gemini.NewFoodExtractor(chatModels)

	engine := chat.NewEngine(conversations, gemini.NewIntentClassifier(chatModels))
	engine.Bind(nlu.IntentFoodOrder, chat.NewFoodOrderFlow(extractor, extractor, extractor, extractor))
	engine.Bind(nlu.IntentProductSearch, chat.NewProductSearchFlow(catalog.NewProductSearch()))
	engine.Bind(nlu.IntentSupport, chat.NewServiceQuoteFlow(catalog.NewServiceSearch(), conversations))
	engine.BindFollowUp(chat.NewFollowUpResponder(conversations))

	checkout := order.NewCheckoutService(conversations, orderStore)
	gateway := payment.NewPaystack(cfg.Paystack)

	server := httpserver.New(cfg.Server, engine, conversations, checkout, orderStore, gateway)

	logx.Info().Str("port", cfg.Server.Port).Msg("server starting")
	if err := server.Run(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
