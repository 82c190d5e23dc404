package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spendora/internal/common"
	"github.com/Veraticus/spendora/internal/model"
)

func newViper(t *testing.T, values map[string]any) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	for key, value := range values {
		v.Set(key, value)
	}
	return v
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", "/home/tester")

	settings, err := Load(newViper(t, nil))
	require.NoError(t, err)

	assert.Equal(t, "sqlite", settings.Database.Driver)
	assert.Equal(t, "/home/tester/.local/share/spendora/spendora.db", settings.Database.Path)
	assert.Equal(t, "none", settings.LLM.Provider)
	assert.Empty(t, settings.LLM.APIKey)
	assert.Equal(t, 60, settings.LLM.RateLimit)
	assert.Equal(t, 150, settings.LLM.MaxTokens)
	assert.Equal(t, 10*time.Second, settings.ClassifyTimeout)
	assert.Equal(t, model.DefaultVocabulary(), settings.Vocabulary)
	assert.Equal(t, ":8080", settings.ServerAddress)
	assert.Empty(t, settings.Events.URL)
	assert.Equal(t, "spendora.feedback", settings.Events.Exchange)
	assert.Equal(t, "info", settings.LogLevel)
	assert.Equal(t, "console", settings.LogFormat)
}

func TestLoadCustomVocabulary(t *testing.T) {
	settings, err := Load(newViper(t, map[string]any{
		"categories.vocabulary": []string{"Groceries", "Rent", "groceries"},
	}))
	require.NoError(t, err)
	assert.Equal(t, model.Vocabulary{"Groceries", "Rent", model.Uncategorized}, settings.Vocabulary)

	_, err = Load(newViper(t, map[string]any{
		"categories.vocabulary": []string{" "},
	}))
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}

func TestLoadLLMKeys(t *testing.T) {
	tests := []struct {
		values  map[string]any
		env     map[string]string
		wantErr error
		name    string
		wantKey string
	}{
		{
			name:    "key from config",
			values:  map[string]any{"llm.provider": "openai", "llm.api_key": "sk-config"},
			wantKey: "sk-config",
		},
		{
			name:    "key from provider env",
			values:  map[string]any{"llm.provider": "Anthropic"},
			env:     map[string]string{"ANTHROPIC_API_KEY": "sk-env"},
			wantKey: "sk-env",
		},
		{
			name:    "missing key",
			values:  map[string]any{"llm.provider": "gemini"},
			env:     map[string]string{"GEMINI_API_KEY": ""},
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "unknown provider",
			values:  map[string]any{"llm.provider": "oracle"},
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "non-positive timeout",
			values:  map[string]any{"llm.timeout": "0s"},
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			settings, err := Load(newViper(t, tt.values))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKey, settings.LLM.APIKey)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SPENDORA_TEST_DIR", "/data")

	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{"~", home},
		{"~/db/spendora.db", filepath.Join(home, "db/spendora.db")},
		{"$SPENDORA_TEST_DIR/spendora.db", "/data/spendora.db"},
		{"/abs/path.db", "/abs/path.db"},
		{"relative~/x", "relative~/x"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}
