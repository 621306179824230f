package agui

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/viant/afs"
	"github.com/viant/agui/service/meta"
)

// Config is a serialisable representation of the backend configuration. It
// can be populated from YAML, environment variables, or both; the zero value
// is completed by DefaultConfig.
type Config struct {
	Server ServerConfig `json:"server" yaml:"server" envPrefix:"SERVER_"`
	Model  ModelConfig  `json:"model" yaml:"model" envPrefix:"MODEL_"`
	Agent  AgentConfig  `json:"agent" yaml:"agent" envPrefix:"AGENT_"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr           string   `json:"addr" yaml:"addr" env:"ADDR"`
	AllowedOrigins []string `json:"allowedOrigins" yaml:"allowedOrigins" env:"ALLOWED_ORIGINS"`
}

// ModelConfig selects the OpenAI-compatible inference backend.
type ModelConfig struct {
	Name            string `json:"name" yaml:"name" env:"NAME"`
	BaseURL         string `json:"baseURL" yaml:"baseURL" env:"BASE_URL"`
	APIKey          string `json:"apiKey" yaml:"apiKey" env:"API_KEY"`
	APIKeySecretURL string `json:"apiKeySecretURL" yaml:"apiKeySecretURL" env:"API_KEY_SECRET_URL"`
}

// AgentConfig tunes the agent loop.
type AgentConfig struct {
	InstructionsURL string `json:"instructionsURL" yaml:"instructionsURL" env:"INSTRUCTIONS_URL"`
	MaxSteps        int    `json:"maxSteps" yaml:"maxSteps" env:"MAX_STEPS"`
}

// DefaultConfig returns a Config targeting a local OpenAI-compatible server;
// local inference servers usually accept any api key.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8001"},
		Model: ModelConfig{
			Name:    "llama4-scout",
			BaseURL: "http://localhost:8000/v1",
			APIKey:  "not-needed",
		},
		Agent: AgentConfig{MaxSteps: 8},
	}
}

// NewConfigFromEnv builds the default configuration overridden by AGUI_*
// environment variables.
func NewConfigFromEnv() (*Config, error) {
	ret := DefaultConfig()
	if err := env.ParseWithOptions(ret, env.Options{Prefix: "AGUI_"}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return ret, nil
}

// NewConfigFromURL loads configuration from a YAML document; ${env.KEY}
// references inside the document are expanded before decoding.
func NewConfigFromURL(ctx context.Context, URL string) (*Config, error) {
	ret := DefaultConfig()
	if err := meta.New(afs.New(), "").Load(ctx, URL, ret); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", URL, err)
	}
	return ret, nil
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr was empty")
	}
	if c.Model.Name == "" {
		return fmt.Errorf("model.name was empty")
	}
	if c.Agent.MaxSteps <= 0 {
		return fmt.Errorf("agent.maxSteps must be > 0")
	}
	return nil
}
