package service

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/smartchef/backend/config"
)

// NewTextGenerator builds the provider selected by cfg.Provider.
func NewTextGenerator(cfg config.LLMConfig, logger *zap.Logger) (TextGenerator, error) {
	switch cfg.Provider {
	case "", "chat":
		return NewLLMService(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, logger), nil
	case "openai":
		return NewOpenAIService(cfg.APIKey, cfg.BaseURL, cfg.Model, &http.Client{Timeout: cfg.Timeout}, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// GenerateOptionsFromConfig maps LLM settings onto generation options.
func GenerateOptionsFromConfig(cfg config.LLMConfig) GenerateOptions {
	return GenerateOptions{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		MaxRetries:  cfg.MaxRetries,
		Backoff:     cfg.RetryBackoff,
	}
}

// NewImageStore builds the upload store selected by cfg.Provider.
func NewImageStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (ImageStore, error) {
	switch cfg.Provider {
	case "", "local":
		store, err := NewLocalImageStore(cfg.LocalPath, logger)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "s3":
		s3Config, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3ImageStore(s3Config, cfg.PresignTTL, logger), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.Provider)
	}
}
