// Package config loads server configuration from the environment, an
// optional .env file and an optional config file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "BUDGETWISE"

// Store backends.
const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Config holds application configuration.
type Config struct {
	Env       string
	Server    ServerConfig
	Store     StoreConfig
	Auth      AuthConfig
	Assistant AssistantConfig
	Alerts    AlertsConfig
}

// ServerConfig holds listener settings.
type ServerConfig struct {
	Port           int
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	Backend          string
	SQLitePath       string `mapstructure:"sqlite_path"`
	FirestoreProject string `mapstructure:"firestore_project"`
}

// AuthConfig controls request authentication.
type AuthConfig struct {
	// SkipAuth replaces token verification with a fixed local identity and
	// enables the impersonation header.
	SkipAuth bool `mapstructure:"skip_auth"`
}

// AssistantConfig configures the text-generation client.
type AssistantConfig struct {
	APIKey      string `mapstructure:"api_key"`
	BaseURL     string `mapstructure:"base_url"`
	Model       string
	Temperature float64
	MaxTokens   int `mapstructure:"max_tokens"`
	Timeout     time.Duration
}

// AlertsConfig configures budget alert delivery. Alerts are only logged
// when AMQPURL is empty.
type AlertsConfig struct {
	AMQPURL  string `mapstructure:"amqp_url"`
	Exchange string
}

// IsLocal reports whether the process runs in local development mode.
func (c Config) IsLocal() bool {
	return c.Env == "local"
}

// Load reads configuration. Environment variables use the BUDGETWISE_
// prefix with dots replaced by underscores (store.backend is
// BUDGETWISE_STORE_BACKEND). A handful of platform variables are honoured
// without the prefix.
func Load() (Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("env", "production")
	v.SetDefault("server.port", 8111)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:1234", "http://127.0.0.1:1234"})
	v.SetDefault("store.backend", BackendMemory)
	v.SetDefault("store.sqlite_path", "data/budgetwise.db")
	v.SetDefault("store.firestore_project", "")
	v.SetDefault("auth.skip_auth", false)
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.base_url", "https://api.deepseek.com/v1")
	v.SetDefault("assistant.model", "deepseek-chat")
	v.SetDefault("assistant.temperature", 0.7)
	v.SetDefault("assistant.max_tokens", 2000)
	v.SetDefault("assistant.timeout", 30*time.Second)
	v.SetDefault("alerts.amqp_url", "")
	v.SetDefault("alerts.exchange", "budget-alerts")

	v.SetConfigType("yaml")
	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	aliases := map[string][]string{
		"env":                     {"ENV"},
		"server.port":             {"PORT"},
		"store.firestore_project": {"GOOGLE_CLOUD_PROJECT"},
		"auth.skip_auth":          {"SKIP_AUTH"},
		"assistant.api_key":       {"DEEPSEEK_API_KEY"},
		"assistant.base_url":      {"DEEPSEEK_BASE_URL"},
		"assistant.model":         {"DEEPSEEK_MODEL"},
		"alerts.amqp_url":         {"AMQP_URL"},
	}
	for key, names := range aliases {
		prefixed := envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(append([]string{key, prefixed}, names...)...); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}

	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			errs = append(errs, errors.New("store.sqlite_path is required for the sqlite backend"))
		}
	case BackendFirestore:
		if c.Store.FirestoreProject == "" {
			errs = append(errs, errors.New("store.firestore_project is required for the firestore backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.backend must be one of memory, sqlite, firestore (got %q)", c.Store.Backend))
	}

	if c.Assistant.Timeout <= 0 {
		errs = append(errs, errors.New("assistant.timeout must be positive"))
	}
	if c.Assistant.MaxTokens <= 0 {
		errs = append(errs, errors.New("assistant.max_tokens must be positive"))
	}

	if c.Alerts.AMQPURL != "" {
		u, err := url.Parse(c.Alerts.AMQPURL)
		if err != nil || (u.Scheme != "amqp" && u.Scheme != "amqps") {
			errs = append(errs, errors.New("alerts.amqp_url must be an amqp:// or amqps:// URL"))
		}
		if c.Alerts.Exchange == "" {
			errs = append(errs, errors.New("alerts.exchange is required when alerts.amqp_url is set"))
		}
	}

	return errors.Join(errs...)
}
