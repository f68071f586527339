package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/quillcms/quill/core"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"QUILL_PROVIDER", "QUILL_MODEL", "QUILL_API_KEY", "ANTHROPIC_API_KEY", "OPENAI_API_KEY"} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	s, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s.Provider != "anthropic" {
		t.Errorf("Provider = %q, want anthropic", s.Provider)
	}
	if s.Model != defaultAnthropicModel {
		t.Errorf("Model = %q, want %q", s.Model, defaultAnthropicModel)
	}
	if s.StorePath != filepath.Join(dir, "quill.db") {
		t.Errorf("StorePath = %q, want under config dir", s.StorePath)
	}
	if s.OutputDir != "generated" {
		t.Errorf("OutputDir = %q, want generated", s.OutputDir)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	s := &Settings{Provider: "openai", Model: "gpt-test", BaseURL: "http://localhost:9999", MaxTokens: 2048}
	if err := s.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Provider != "openai" || got.Model != "gpt-test" || got.BaseURL != "http://localhost:9999" || got.MaxTokens != 2048 {
		t.Errorf("got %+v, want saved values", got)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	s := &Settings{Provider: "anthropic", Model: "claude-x"}
	if err := s.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("QUILL_PROVIDER", "openai")
	t.Setenv("QUILL_MODEL", "gpt-override")

	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Provider != "openai" || got.Model != "gpt-override" {
		t.Errorf("got %+v, want env overrides applied", got)
	}
}

func TestAPIKeyResolutionOrder(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	s := &Settings{Provider: "anthropic"}

	if got := s.APIKey(dir); got != "" {
		t.Errorf("APIKey = %q, want empty with nothing configured", got)
	}

	if err := SaveAPIKey(dir, "anthropic", "file-key"); err != nil {
		t.Fatalf("SaveAPIKey failed: %v", err)
	}
	if got := s.APIKey(dir); got != "file-key" {
		t.Errorf("APIKey = %q, want file-key", got)
	}

	t.Setenv("QUILL_API_KEY", "generic-key")
	if got := s.APIKey(dir); got != "generic-key" {
		t.Errorf("APIKey = %q, want generic env over file", got)
	}

	t.Setenv("ANTHROPIC_API_KEY", "provider-key")
	if got := s.APIKey(dir); got != "provider-key" {
		t.Errorf("APIKey = %q, want provider env first", got)
	}
}

func TestSaveAPIKeyPermissions(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	if err := SaveAPIKey(dir, "openai", "sk-test"); err != nil {
		t.Fatalf("SaveAPIKey failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, credentialsFile))
	if err != nil {
		t.Fatalf("stat credentials: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("credentials mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestProviderConfig(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("OPENAI_API_KEY", "sk-env")

	s := &Settings{Provider: "openai", Model: "gpt-test", BaseURL: "http://localhost", MaxTokens: 1024}
	cfg := s.ProviderConfig(dir)

	want := core.ProviderConfig{
		Kind:      core.KindOpenAI,
		BaseURL:   "http://localhost",
		ModelID:   "gpt-test",
		APIKey:    "sk-env",
		MaxTokens: 1024,
	}
	if cfg != want {
		t.Errorf("ProviderConfig = %+v, want %+v", cfg, want)
	}
}
