package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	knownProviders = map[string]bool{"chat": true, "openai": true}
	knownDrivers   = map[string]bool{"sqlite": true, "postgres": true}
	knownStorage   = map[string]bool{"local": true, "s3": true}
)

// ValidateConfig checks every setting and reports all problems at once.
func ValidateConfig(cfg *Config) error {
	var errs []ValidationError
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		add("server.port", "must be between 1 and 65535")
	}
	if cfg.Server.MaxUploadBytes <= 0 {
		add("server.max_upload_bytes", "must be positive")
	}
	if !knownProviders[cfg.LLM.Provider] {
		add("llm.provider", fmt.Sprintf("unknown provider %q", cfg.LLM.Provider))
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		add("llm.temperature", "must be between 0 and 2")
	}
	if cfg.LLM.MaxRetries < 0 {
		add("llm.max_retries", "must not be negative")
	}
	if cfg.LLM.RetryBackoff < 0 {
		add("llm.retry_backoff", "must not be negative")
	}
	if cfg.Catalog.Path == "" {
		add("catalog.path", "is required")
	}
	if !knownDrivers[cfg.Database.Driver] {
		add("database.driver", fmt.Sprintf("unknown driver %q", cfg.Database.Driver))
	}
	if !knownStorage[cfg.Storage.Provider] {
		add("storage.provider", fmt.Sprintf("unknown provider %q", cfg.Storage.Provider))
	}
	if cfg.RateLimit.Enabled && (cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0) {
		add("rate_limit", "requests and window must be positive when enabled")
	}

	if cfg.IsProduction() {
		if cfg.LLM.APIKey == "" {
			add("llm.api_key", "is required in production")
		}
		if cfg.Storage.Provider == "s3" && cfg.Storage.S3Bucket == "" {
			add("storage.s3_bucket", "is required when storage.provider is s3")
		}
		if cfg.Database.Driver == "postgres" && cfg.Database.Password == "" {
			add("database.password", "is required for postgres in production")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
}
