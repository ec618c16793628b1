// Package gemini provides the Gemini-backed implementations of the nlu
// contracts. The core only sees the interfaces in internal/nlu; this
// package is wired in at the composition root.
package gemini

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	logx "github.com/errandboy/server/pkg/logger"
	"google.golang.org/genai"
)

// ClassifierModelConfig configures the intent classification model.
type ClassifierModelConfig struct {
	Model       string  `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"CLASSIFIER_MAX_TOKENS" default:"256"`
	Temperature float32 `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.1"`
}

// ExtractorModelConfig configures the food-order extraction models
// (detector, modification detector, parser, responder share one model).
type ExtractorModelConfig struct {
	Model       string  `envconfig:"EXTRACTOR_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"EXTRACTOR_MAX_TOKENS" default:"2000"`
	Temperature float32 `envconfig:"EXTRACTOR_TEMPERATURE" default:"0.2"`
}

// ChatModelConfig holds the configuration for chat model creation.
type ChatModelConfig struct {
	APIKey     string
	BaseURL    string
	Classifier *ClassifierModelConfig
	Extractor  *ExtractorModelConfig
}

// ChatModels holds the classifier and extractor chat models.
type ChatModels struct {
	Classifier          *gemini.ChatModel
	Extractor           *gemini.ChatModel
	ClassifierModelName string
	ExtractorModelName  string
}

// NewChatModels creates both chat models over one shared Gemini client.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	classifierModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Classifier.Model,
		Temperature: &config.Classifier.Temperature,
		MaxTokens:   &config.Classifier.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	extractorModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Extractor.Model,
		Temperature: &config.Extractor.Temperature,
		MaxTokens:   &config.Extractor.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating extractor model")
		return nil, fmt.Errorf("error creating extractor model: %w", err)
	}

	return &ChatModels{
		Classifier:          classifierModel,
		Extractor:           extractorModel,
		ClassifierModelName: config.Classifier.Model,
		ExtractorModelName:  config.Extractor.Model,
	}, nil
}
