package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

type Config struct {
	// Backend selection and credentials
	Backend BackendConfig `json:"backend"`

	// Per-run defaults, overridable from the CLI
	Run RunConfig `json:"run"`

	// Cost estimation knobs
	Pricing PricingConfig `json:"pricing"`

	// Where run history is stored
	DataDir string `json:"data_dir"`
}

type BackendConfig struct {
	Kind    string `json:"kind"` // "anthropic" or "gateway"
	Model   string `json:"model"`
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
}

type RunConfig struct {
	MaxTurns       int     `json:"max_turns"`
	MaxTokens      int     `json:"max_tokens"`
	Temperature    float64 `json:"temperature"`
	PermissionMode string  `json:"permission_mode"`
	SystemPrompt   string  `json:"system_prompt,omitempty"`
	Streaming      bool    `json:"streaming"`
}

type PricingConfig struct {
	TokensPerBlock int     `json:"tokens_per_block"`
	PricePerMTok   float64 `json:"price_per_mtok"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Kind:  "anthropic",
			Model: "sonnet",
		},
		Run: RunConfig{
			MaxTurns:       100,
			MaxTokens:      4096,
			PermissionMode: "default",
		},
		Pricing: PricingConfig{
			TokensPerBlock: 160,
			PricePerMTok:   3.0,
		},
		DataDir: ".shannon",
	}
}

func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) DataPath(parts ...string) string {
	elems := append([]string{c.DataDir}, parts...)
	return filepath.Join(elems...)
}

func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
