package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	want := map[string]int{"24h": 1, "week": 7, "month": 30, "year": 365}
	for label, days := range want {
		if cfg.Periods[label] != days {
			t.Errorf("expected period %s=%d, got %d", label, days, cfg.Periods[label])
		}
	}

	if len(cfg.Locales) != 2 {
		t.Fatalf("expected 2 locales, got %d", len(cfg.Locales))
	}
	if cfg.Locales[0].FallbackLabel != "Nac" || cfg.Locales[1].FallbackLabel != "Intl" {
		t.Errorf("unexpected fallback labels: %+v", cfg.Locales)
	}

	th := cfg.Thresholds
	if th.Climate.Positive != 4.5 || th.Climate.Negative != 2.9 {
		t.Errorf("unexpected climate thresholds: %+v", th.Climate)
	}
	if th.Item.Good != 0.65 || th.Item.Bad != 0.4 {
		t.Errorf("unexpected item thresholds: %+v", th.Item)
	}
	if th.Summary.Positive != 0.6 || th.Summary.Negative != 0.3 {
		t.Errorf("unexpected summary thresholds: %+v", th.Summary)
	}

	if cfg.Lexicon.NegativeCeiling != 0.2 || cfg.Lexicon.PositiveFloor != 0.85 {
		t.Errorf("unexpected lexicon bounds: %+v", cfg.Lexicon)
	}
	if len(cfg.Lexicon.Positive) == 0 || len(cfg.Lexicon.Negative) == 0 {
		t.Error("expected lexicon lists to be populated")
	}
	if len(cfg.StopWords) == 0 {
		t.Error("expected stop words to be populated")
	}

	if cfg.Translation.Timeout != 10*time.Second {
		t.Errorf("expected 10s translation timeout, got %s", cfg.Translation.Timeout)
	}
	if cfg.Feed.Timeout != 20*time.Second {
		t.Errorf("expected 20s feed timeout, got %s", cfg.Feed.Timeout)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
translation:
  provider: openai
thresholds:
  climate:
    positive: 5.0
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Translation.Provider != "openai" {
		t.Errorf("expected provider 'openai', got %q", cfg.Translation.Provider)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Thresholds.Climate.Positive != 5.0 {
		t.Errorf("expected overridden positive threshold, got %v", cfg.Thresholds.Climate.Positive)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Thresholds.Climate.Negative != 2.9 {
		t.Errorf("expected default negative threshold, got %v", cfg.Thresholds.Climate.Negative)
	}
	if cfg.Translation.OllamaURL != "http://localhost:11434" {
		t.Errorf("expected default ollama_url, got %q", cfg.Translation.OllamaURL)
	}
}

func TestParseReplacesLists(t *testing.T) {
	data := []byte(`
periods:
  hoy: 1
lexicon:
  negative: [escándalo]
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Periods) != 1 || cfg.Periods["hoy"] != 1 {
		t.Errorf("expected periods to be replaced, got %v", cfg.Periods)
	}
	if len(cfg.Lexicon.Negative) != 1 || cfg.Lexicon.Negative[0] != "escándalo" {
		t.Errorf("expected negative lexicon to be replaced, got %v", cfg.Lexicon.Negative)
	}
	if len(cfg.Lexicon.Positive) == 0 {
		t.Error("expected default positive lexicon to remain")
	}
}

func TestParseRejectsInvertedThresholds(t *testing.T) {
	data := []byte(`
thresholds:
  climate:
    positive: 2.0
    negative: 3.0
`)
	if _, err := parse(data); err == nil {
		t.Error("expected error for inverted climate thresholds")
	}
}

func TestParseRejectsBadPeriod(t *testing.T) {
	if _, err := parse([]byte("periods:\n  never: 0\n")); err == nil {
		t.Error("expected error for zero-day period")
	}
}

func TestParseInvalidYAML(t *testing.T) {
	if _, err := parse([]byte("periods: [unclosed")); err == nil {
		t.Error("expected YAML error")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if len(cfg.Locales) == 0 {
		t.Error("expected locales to be populated from file")
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Translation.Provider != "google" {
		t.Errorf("expected default provider, got %q", cfg.Translation.Provider)
	}
}

func TestResolveConfigPathExplicitMissing(t *testing.T) {
	if _, err := ResolveConfigPath(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("REPMONITOR_TEST_ENV_KEY=from-file\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("REPMONITOR_TEST_ENV_KEY", "")
	os.Unsetenv("REPMONITOR_TEST_ENV_KEY")

	LoadEnv(path)
	if got := os.Getenv("REPMONITOR_TEST_ENV_KEY"); got != "from-file" {
		t.Errorf("expected value from env file, got %q", got)
	}
}

func TestGetDataDir(t *testing.T) {
	cfg := &Config{}
	defaultDir := cfg.GetDataDir()
	if defaultDir == "" {
		t.Error("expected non-empty default data dir")
	}

	cfg.Output.DataDir = "/custom/path"
	if cfg.GetDataDir() != "/custom/path" {
		t.Errorf("expected '/custom/path', got %q", cfg.GetDataDir())
	}
}
