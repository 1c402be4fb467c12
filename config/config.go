// Package config loads SmartChef configuration from defaults, an optional
// config file, the environment and Docker secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. SMARTCHEF_SERVER_PORT.
const EnvPrefix = "SMARTCHEF"

// Config holds all configuration for the application
type Config struct {
	App         AppConfig         `mapstructure:"app"`
	Server      ServerConfig      `mapstructure:"server"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Detector    DetectorConfig    `mapstructure:"detector"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"`
	RecipeStore RecipeStoreConfig `mapstructure:"recipe_store"`
}

// AppConfig contains application-level settings
type AppConfig struct {
	Name        string      `mapstructure:"name"`
	Environment Environment `mapstructure:"environment"`
	LogLevel    string      `mapstructure:"log_level"`
	LogFormat   string      `mapstructure:"log_format"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	MaxUploadBytes  int64         `mapstructure:"max_upload_bytes"`
}

// LLMConfig selects and tunes the text generation provider
type LLMConfig struct {
	// Provider is "chat" for any chat-completions compatible endpoint or "openai".
	Provider     string        `mapstructure:"provider"`
	BaseURL      string        `mapstructure:"base_url"`
	APIKey       string        `mapstructure:"api_key"`
	APIKeyFile   string        `mapstructure:"api_key_file"`
	Model        string        `mapstructure:"model"`
	Temperature  float64       `mapstructure:"temperature"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// DetectorConfig points at the object detection sidecar
type DetectorConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Timeout         time.Duration `mapstructure:"timeout"`
	FoodClassesPath string        `mapstructure:"food_classes_path"`
}

// CatalogConfig locates the recipe catalog CSV
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// StorageConfig decides where uploaded images end up
type StorageConfig struct {
	Provider      string `mapstructure:"provider"`
	LocalPath     string `mapstructure:"local_path"`
	S3Bucket      string `mapstructure:"s3_bucket"`
	AWSRegion     string `mapstructure:"aws_region"`
	PublicBaseURL string `mapstructure:"public_base_url"`

	// PresignTTL, when positive, makes S3 uploads return presigned GET URLs.
	PresignTTL time.Duration `mapstructure:"presign_ttl"`
}

// DatabaseConfig contains scan history database settings
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Path     string `mapstructure:"path"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// RedisConfig contains Redis settings; URL wins over host/port when set
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig bounds requests per client on the expensive endpoints
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// RecipeStoreConfig controls how long generated recipes stay retrievable
type RecipeStoreConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresDSN builds the connection string used by the postgres driver.
func (d DatabaseConfig) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// LoadConfig reads configuration using the default search paths.
func LoadConfig() (*Config, error) {
	return Load("")
}

// Load reads configuration from configPath (or config.yaml in the usual
// places when empty), applies SMARTCHEF_* environment overrides and
// validates the result.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/smartchef")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// ENV / CI take precedence so deployments behave like the rest of the stack.
	if os.Getenv("ENV") != "" || os.Getenv("CI") == "true" {
		cfg.App.Environment = GetEnvironment()
	}
	// viper reads comma separated env lists as a single element
	cfg.Server.AllowedOrigins = splitList(cfg.Server.AllowedOrigins)

	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = loadAPIKey(cfg.LLM.APIKeyFile)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "smartchef")
	v.SetDefault("app.environment", string(Development))
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.log_format", "json")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.allowed_origins", []string{
		"https://smartchefapp.tech",
		"https://shayunariful.github.io",
		"*",
	})
	v.SetDefault("server.max_upload_bytes", 10<<20)

	v.SetDefault("llm.provider", "chat")
	v.SetDefault("llm.base_url", "https://api.deepseek.com/v1/chat/completions")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.api_key_file", "")
	v.SetDefault("llm.model", "deepseek-chat")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_retries", 1)
	v.SetDefault("llm.retry_backoff", "300ms")
	v.SetDefault("llm.timeout", "30s")

	v.SetDefault("detector.endpoint", "http://localhost:8500/detect")
	v.SetDefault("detector.timeout", "15s")
	v.SetDefault("detector.food_classes_path", "")

	v.SetDefault("catalog.path", "data/recipes.csv")

	v.SetDefault("storage.provider", "local")
	v.SetDefault("storage.local_path", "uploads")
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.aws_region", "us-east-1")
	v.SetDefault("storage.public_base_url", "")
	v.SetDefault("storage.presign_ttl", "0s")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "smartchef.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "smartchef")
	v.SetDefault("database.ssl_mode", "disable")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 30)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("recipe_store.ttl", "24h")
}

// loadAPIKey falls back to an explicit key file and then the llm_api_key Docker secret.
func loadAPIKey(keyFile string) string {
	if keyFile != "" {
		if data, err := os.ReadFile(keyFile); err == nil {
			return strings.TrimSpace(string(data))
		}
	}
	return readSecret("llm_api_key")
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
