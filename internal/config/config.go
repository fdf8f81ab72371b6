package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/subosito/gotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

type Config struct {
	Periods     map[string]int `yaml:"periods"`
	Locales     []Locale       `yaml:"locales"`
	Feed        Feed           `yaml:"feed"`
	Translation Translation    `yaml:"translation"`
	Lexicon     Lexicon        `yaml:"lexicon"`
	StopWords   []string       `yaml:"stop_words"`
	Thresholds  Thresholds     `yaml:"thresholds"`
	Collect     Collect        `yaml:"collect"`
	Output      Output         `yaml:"output"`
	Server      Server         `yaml:"server"`
	Logging     Logging        `yaml:"logging"`
}

// Locale is one feed context. Domestic locales query the topic as typed;
// international locales query its English translation.
type Locale struct {
	Bucket        string `yaml:"bucket"`
	Language      string `yaml:"language"`
	Country       string `yaml:"country"`
	CEID          string `yaml:"ceid"`
	FallbackLabel string `yaml:"fallback_label"`
}

type Feed struct {
	Provider      string        `yaml:"provider"`
	BaseURL       string        `yaml:"base_url"`
	NewsAPIURL    string        `yaml:"newsapi_url"`
	NewsAPIKeyEnv string        `yaml:"newsapi_key_env"`
	Timeout       time.Duration `yaml:"timeout"`
}

type Translation struct {
	Provider      string        `yaml:"provider"`
	GoogleURL     string        `yaml:"google_url"`
	Timeout       time.Duration `yaml:"timeout"`
	Cache         bool          `yaml:"cache"`
	Model         string        `yaml:"model"`
	OllamaURL     string        `yaml:"ollama_url"`
	OpenAIModel   string        `yaml:"openai_model"`
	OpenAIBaseURL string        `yaml:"openai_base_url"`
	APIKeyEnv     string        `yaml:"api_key_env"`
	MaxTokens     int           `yaml:"max_tokens"`
}

type Lexicon struct {
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
	// Clamp bounds applied when a term matches.
	NegativeCeiling float64 `yaml:"negative_ceiling"`
	PositiveFloor   float64 `yaml:"positive_floor"`
}

type Thresholds struct {
	Climate ClimateThresholds `yaml:"climate"`
	Item    ItemThresholds    `yaml:"item"`
	Summary SummaryThresholds `yaml:"summary"`
}

type ClimateThresholds struct {
	Positive float64 `yaml:"positive"`
	Negative float64 `yaml:"negative"`
}

type ItemThresholds struct {
	Good float64 `yaml:"good"`
	Bad  float64 `yaml:"bad"`
}

type SummaryThresholds struct {
	Positive float64 `yaml:"positive"`
	Negative float64 `yaml:"negative"`
}

type Collect struct {
	Concurrency int `yaml:"concurrency"`
	MaxPerFeed  int `yaml:"max_per_feed"`
	MinLength   int `yaml:"min_length"`
}

type Output struct {
	DataDir string `yaml:"data_dir"`
}

type Server struct {
	Port int `yaml:"port"`
}

type Logging struct {
	Level string `yaml:"level"`
}

// ConfigDir returns the XDG config directory for repmonitor.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "repmonitor")
}

// DataDir returns the XDG data directory for repmonitor.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "repmonitor")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/repmonitor/config.yaml > ./config.yaml.
// With no file anywhere it returns "" and the embedded defaults apply.
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", nil
}

// Load reads and parses a config YAML file. An empty path yields the
// embedded defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return parse(DefaultConfigYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return parse(data)
}

// LoadEnv loads KEY=value pairs from path into the process environment
// without overriding variables that are already set.
func LoadEnv(path string) {
	if path == "" {
		return
	}
	if err := gotenv.Load(path); err != nil {
		slog.Warn("no env file loaded, using OS environment", "path", path, "err", err)
	}
}

// parse parses YAML bytes into a Config. The embedded defaults are decoded
// first so a user file only needs the keys it changes; lists given in the
// user file replace the default lists.
func parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(DefaultConfigYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing default config: %w", err)
	}

	user := &Config{}
	if err := yaml.Unmarshal(data, user); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	// yaml.v3 merges maps key by key; a user-supplied periods map replaces ours.
	if len(user.Periods) > 0 {
		cfg.Periods = user.Periods
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would make the pipeline misbehave.
func (c *Config) Validate() error {
	if len(c.Periods) == 0 {
		return fmt.Errorf("config: at least one period is required")
	}
	for label, days := range c.Periods {
		if days <= 0 {
			return fmt.Errorf("config: period %q must be a positive number of days", label)
		}
	}
	if len(c.Locales) == 0 {
		return fmt.Errorf("config: at least one locale is required")
	}
	ct := c.Thresholds.Climate
	if ct.Negative >= ct.Positive {
		return fmt.Errorf("config: climate negative threshold %.2f must be below positive %.2f", ct.Negative, ct.Positive)
	}
	it := c.Thresholds.Item
	if it.Bad > it.Good {
		return fmt.Errorf("config: item bad threshold %.2f must not exceed good %.2f", it.Bad, it.Good)
	}
	if c.Collect.Concurrency < 1 {
		c.Collect.Concurrency = 1
	}
	return nil
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
