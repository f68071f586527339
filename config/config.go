// Package config loads Quill settings and provider credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/quillcms/quill/core"
)

const (
	settingsFile    = "config.yaml"
	credentialsFile = "credentials.yaml"

	defaultAnthropicModel = "claude-3-5-sonnet-latest"
	defaultOpenAIModel    = "gpt-4o"
)

// Settings holds the persisted configuration. Secrets are never stored
// here; API keys come from the environment or the credentials file.
type Settings struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url,omitempty"`
	MaxTokens int    `yaml:"max_tokens,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`
	StorePath string `yaml:"store_path,omitempty"`
}

// DefaultDir returns the config directory: a project-local .quill if
// present, else ~/.config/quill.
func DefaultDir() string {
	cwd, _ := os.Getwd()
	local := filepath.Join(cwd, ".quill")
	if info, err := os.Stat(local); err == nil && info.IsDir() {
		return local
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "quill")
}

// Load reads settings from dir, applying defaults for anything unset and
// environment overrides (QUILL_PROVIDER, QUILL_MODEL) last. A missing
// file yields defaults, not an error.
func Load(dir string) (*Settings, error) {
	s := &Settings{}

	data, err := os.ReadFile(filepath.Join(dir, settingsFile))
	switch {
	case os.IsNotExist(err):
		// fall through to defaults
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if v := os.Getenv("QUILL_PROVIDER"); v != "" {
		s.Provider = v
	}
	if v := os.Getenv("QUILL_MODEL"); v != "" {
		s.Model = v
	}

	if s.Provider == "" {
		s.Provider = core.KindAnthropic.String()
	}
	if s.Model == "" {
		switch core.ProviderKind(s.Provider) {
		case core.KindOpenAI:
			s.Model = defaultOpenAIModel
		default:
			s.Model = defaultAnthropicModel
		}
	}
	if s.OutputDir == "" {
		s.OutputDir = "generated"
	}
	if s.StorePath == "" {
		s.StorePath = filepath.Join(dir, "quill.db")
	}
	return s, nil
}

// Save writes the settings to dir, creating it if needed.
func (s *Settings) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, settingsFile), data, 0644)
}

// APIKey resolves the key for the configured provider: provider-specific
// env var, then QUILL_API_KEY, then the credentials file in dir. Empty
// when nothing is configured; the invocation core turns that into a
// precondition failure.
func (s *Settings) APIKey(dir string) string {
	switch core.ProviderKind(s.Provider) {
	case core.KindAnthropic:
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			return v
		}
	case core.KindOpenAI:
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			return v
		}
	}
	if v := os.Getenv("QUILL_API_KEY"); v != "" {
		return v
	}

	creds, err := loadCredentials(dir)
	if err != nil {
		return ""
	}
	return creds[s.Provider]
}

// ProviderConfig resolves the read-only per-invocation snapshot.
func (s *Settings) ProviderConfig(dir string) core.ProviderConfig {
	return core.ProviderConfig{
		Kind:      core.ProviderKind(s.Provider),
		BaseURL:   s.BaseURL,
		ModelID:   s.Model,
		APIKey:    s.APIKey(dir),
		MaxTokens: s.MaxTokens,
	}
}

// SaveAPIKey stores a provider key in the credentials file with
// owner-only permissions.
func SaveAPIKey(dir, provider, key string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	creds, err := loadCredentials(dir)
	if err != nil {
		return err
	}
	if creds == nil {
		creds = map[string]string{}
	}
	creds[provider] = key

	data, err := yaml.Marshal(creds)
	if err != nil {
		return fmt.Errorf("failed to encode credentials: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, credentialsFile), data, 0600)
}

func loadCredentials(dir string) (map[string]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials: %w", err)
	}
	var creds map[string]string
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse credentials: %w", err)
	}
	return creds, nil
}
