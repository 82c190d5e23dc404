package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/spendora/internal/common"
	"github.com/Veraticus/spendora/internal/events"
	"github.com/Veraticus/spendora/internal/llm"
	"github.com/Veraticus/spendora/internal/model"
	"github.com/Veraticus/spendora/internal/storage"
)

// apiKeyEnv maps providers to the conventional environment variable that
// holds their key.
var apiKeyEnv = map[string]string{
	"openai":    "OPENAI_API_KEY",
	"anthropic": "ANTHROPIC_API_KEY",
	"gemini":    "GEMINI_API_KEY",
}

// Settings is the fully resolved runtime configuration.
type Settings struct {
	Database        storage.Config
	LLM             llm.Config
	Events          events.Config
	Vocabulary      model.Vocabulary
	ServerAddress   string
	LogLevel        string
	LogFormat       string
	ClassifyTimeout time.Duration
}

// SetDefaults registers default values for every known key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("llm.provider", "none")
	v.SetDefault("llm.timeout", 10*time.Second)
	v.SetDefault("llm.rate_limit", 60)
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 150)
	v.SetDefault("categories.vocabulary", []string(model.DefaultVocabulary()))
	v.SetDefault("server.address", ":8080")
	v.SetDefault("events.exchange", "spendora.feedback")
	v.SetDefault("events.routing_key", events.FeedbackRecordedType)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load resolves Settings from v. Defaults must already be registered.
func Load(v *viper.Viper) (Settings, error) {
	vocab, err := model.NewVocabulary(v.GetStringSlice("categories.vocabulary"))
	if err != nil {
		return Settings{}, fmt.Errorf("%w: categories.vocabulary: %w", common.ErrInvalidConfig, err)
	}

	timeout := v.GetDuration("llm.timeout")
	if timeout <= 0 {
		return Settings{}, fmt.Errorf("%w: llm.timeout must be positive", common.ErrInvalidConfig)
	}

	llmCfg, err := loadLLM(v)
	if err != nil {
		return Settings{}, err
	}

	return Settings{
		Database: storage.Config{
			Driver: v.GetString("database.driver"),
			Path:   ExpandPath(v.GetString("database.path")),
			DSN:    v.GetString("database.dsn"),
		},
		LLM: llmCfg,
		Events: events.Config{
			URL:        v.GetString("events.amqp_url"),
			Exchange:   v.GetString("events.exchange"),
			RoutingKey: v.GetString("events.routing_key"),
			Queue:      v.GetString("events.queue"),
		},
		Vocabulary:      vocab,
		ServerAddress:   v.GetString("server.address"),
		LogLevel:        v.GetString("logging.level"),
		LogFormat:       v.GetString("logging.format"),
		ClassifyTimeout: timeout,
	}, nil
}

func loadLLM(v *viper.Viper) (llm.Config, error) {
	provider := strings.ToLower(strings.TrimSpace(v.GetString("llm.provider")))
	cfg := llm.Config{
		Provider:    provider,
		Model:       v.GetString("llm.model"),
		BaseURL:     v.GetString("llm.base_url"),
		APIKey:      v.GetString("llm.api_key"),
		RateLimit:   v.GetInt("llm.rate_limit"),
		Temperature: v.GetFloat64("llm.temperature"),
		MaxTokens:   v.GetInt("llm.max_tokens"),
	}

	if provider == "" || provider == "none" {
		return cfg, nil
	}

	env, known := apiKeyEnv[provider]
	if !known {
		return llm.Config{}, fmt.Errorf("%w: llm.provider %q", common.ErrInvalidConfig, provider)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(env)
	}
	if cfg.APIKey == "" {
		return llm.Config{}, fmt.Errorf("%w: %s API key not found in llm.api_key or %s", common.ErrMissingConfig, provider, env)
	}

	return cfg, nil
}
