package config

import (
	"os"
	"time"
)

// ScoringModeMock selects the deterministic in-process oracle
const ScoringModeMock = "mock"

// AIConfig holds scoring-oracle configuration
type AIConfig struct {
	APIKey  string        `json:"-"` // Never serialize
	BaseURL string        `json:"baseUrl"`
	Model   string        `json:"model"`
	Timeout time.Duration `json:"timeout"`
	Mode    string        `json:"mode"` // "" (real oracle) or "mock"
}

// DefaultAIConfig returns the scoring configuration from the environment
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		Model:   os.Getenv("LLM_MODEL"),
		Timeout: time.Duration(getEnvInt("LLM_TIMEOUT_MS", 60000)) * time.Millisecond,
		Mode:    os.Getenv("SCORING_MODE"),
	}
}

// IsMock returns true if the mock oracle should be used
func (c *AIConfig) IsMock() bool {
	return c.Mode == ScoringModeMock
}

// ResponsesEndpoint returns the full endpoint of the Responses API
func (c *AIConfig) ResponsesEndpoint() string {
	return c.BaseURL + "/responses"
}
