// Package config loads client settings from file, environment and .env.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"postpilot/api"
)

type Config struct {
	APIBaseURL    string      `mapstructure:"api_base_url" yaml:"api_base_url" json:"api_base_url"`
	Timeout       string      `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
	AutoPublish   bool        `mapstructure:"auto_publish" yaml:"auto_publish" json:"auto_publish"`
	DownloadDir   string      `mapstructure:"download_dir" yaml:"download_dir" json:"download_dir"`
	LogFile       string      `mapstructure:"log_file" yaml:"log_file" json:"log_file"`
	Debug         bool        `mapstructure:"debug" yaml:"debug" json:"debug"`
	TrendingLimit int         `mapstructure:"trending_limit" yaml:"trending_limit" json:"trending_limit"`
	Cache         CacheConfig `mapstructure:"cache" yaml:"cache" json:"cache"`
	UI            UIConfig    `mapstructure:"ui" yaml:"ui" json:"ui"`
}

type CacheConfig struct {
	TTL  string `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
	Size int    `mapstructure:"size" yaml:"size" json:"size"`
}

type UIConfig struct {
	Color string `mapstructure:"color" yaml:"color" json:"color"` // auto, always, never
}

func defaults() *Config {
	return &Config{
		APIBaseURL:    api.DefaultBaseURL,
		Timeout:       "120s",
		DownloadDir:   ".",
		LogFile:       filepath.Join(homeDir(), "postpilot.log"),
		TrendingLimit: 10,
		Cache: CacheConfig{
			TTL:  "5m",
			Size: 32,
		},
		UI: UIConfig{
			Color: "auto",
		},
	}
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".postpilot"
	}
	return filepath.Join(home, ".postpilot")
}

// DiscoverPath picks the config file: flag, then $POSTPILOT_CONFIG, then
// ~/.postpilot/config.yaml.
func DiscoverPath(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if envPath := os.Getenv("POSTPILOT_CONFIG"); envPath != "" {
		return envPath
	}
	return filepath.Join(homeDir(), "config.yaml")
}

// Load reads a YAML file without environment overrides. A missing file
// yields defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return defaults(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadWithEnv layers POSTPILOT_* environment variables (and a local .env)
// over the config file.
func LoadWithEnv(path string) (*Config, error) {
	// .env is optional; existing environment variables win.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("POSTPILOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{
		"api_base_url", "timeout", "auto_publish", "download_dir", "log_file",
		"debug", "trending_limit", "cache.ttl", "cache.size", "ui.color",
	} {
		_ = v.BindEnv(key)
	}

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = os.Getenv("VITE_API_BASE_URL")
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	d := defaults()
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = d.APIBaseURL
	}
	if cfg.Timeout == "" {
		cfg.Timeout = d.Timeout
	}
	if cfg.DownloadDir == "" {
		cfg.DownloadDir = d.DownloadDir
	}
	if cfg.LogFile == "" {
		cfg.LogFile = d.LogFile
	}
	if cfg.TrendingLimit == 0 {
		cfg.TrendingLimit = d.TrendingLimit
	}
	if cfg.Cache.TTL == "" {
		cfg.Cache.TTL = d.Cache.TTL
	}
	if cfg.Cache.Size == 0 {
		cfg.Cache.Size = d.Cache.Size
	}
	if cfg.UI.Color == "" {
		cfg.UI = d.UI
	}
}

// TimeoutDuration returns the request timeout, falling back to the default.
func (c *Config) TimeoutDuration() time.Duration {
	return parseDuration(c.Timeout, 120*time.Second)
}

// CacheTTL returns how long trending topics stay cached.
func (c *Config) CacheTTL() time.Duration {
	return parseDuration(c.Cache.TTL, 5*time.Minute)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
