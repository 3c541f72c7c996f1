package llm

import (
	"fmt"
	"os"
	"strings"

	"github.com/lexalign/lexalign/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	provider := strings.ToLower(config.Provider)

	switch provider {
	case "openai":
		return NewOpenAIProvider(config)

	case "":
		// No provider configured - return nil (review disabled)
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config. The API key is
// never persisted in config files; it comes from the environment.
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	config := DefaultConfig()
	config.Provider = modelConfig.Provider
	if modelConfig.Model != "" {
		config.Model = modelConfig.Model
	}
	config.BaseURL = modelConfig.BaseURL
	if modelConfig.RequestsPerSecond > 0 {
		config.RequestsPerSecond = modelConfig.RequestsPerSecond
	}
	if modelConfig.Burst > 0 {
		config.Burst = modelConfig.Burst
	}

	config.APIKey = modelConfig.APIKey
	if config.APIKey == "" {
		config.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return config
}
