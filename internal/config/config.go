package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	appName = "gfare"

	DefaultAmadeusBaseURL   = "https://test.api.amadeus.com"
	DefaultSearchTimeoutSec = 20
	DefaultListenAddr       = ":8080"
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "text"
)

type Config struct {
	AmadeusClientID     string   `json:"amadeus_client_id,omitempty"`
	AmadeusClientSecret string   `json:"amadeus_client_secret,omitempty"`
	AmadeusBaseURL      string   `json:"amadeus_base_url,omitempty"`
	SearchTimeoutSec    int      `json:"search_timeout_seconds,omitempty"`
	BrandingFile        string   `json:"branding_file,omitempty"`
	ListenAddr          string   `json:"listen_addr,omitempty"`
	AllowedOrigins      []string `json:"allowed_origins,omitempty"`
	LogLevel            string   `json:"log_level,omitempty"`
	LogFormat           string   `json:"log_format,omitempty"`
	LogFile             string   `json:"log_file,omitempty"`
}

func (c Config) SearchTimeout() time.Duration {
	return time.Duration(c.SearchTimeoutSec) * time.Second
}

func ConfigDir() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

func StateDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if env := os.Getenv("GFARE_STATE_DIR"); env != "" {
		return env, nil
	}
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", appName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

func defaults() Config {
	return Config{
		AmadeusBaseURL:   DefaultAmadeusBaseURL,
		SearchTimeoutSec: DefaultSearchTimeoutSec,
		ListenAddr:       DefaultListenAddr,
		LogLevel:         DefaultLogLevel,
		LogFormat:        DefaultLogFormat,
	}
}

// Load reads the config file, if any, and applies environment overrides and
// defaults. A missing file is not an error.
func Load() (Config, error) {
	cfg, err := LoadFile()
	if err != nil {
		return defaults(), err
	}
	applyEnv(&cfg)
	fillDefaults(&cfg)
	return cfg, nil
}

// LoadFile returns exactly what the config file holds, without environment
// overrides or defaults. Commands that rewrite the file start from it.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func fillDefaults(cfg *Config) {
	d := defaults()
	if strings.TrimSpace(cfg.AmadeusBaseURL) == "" {
		cfg.AmadeusBaseURL = d.AmadeusBaseURL
	}
	if cfg.SearchTimeoutSec <= 0 {
		cfg.SearchTimeoutSec = d.SearchTimeoutSec
	}
	if strings.TrimSpace(cfg.ListenAddr) == "" {
		cfg.ListenAddr = d.ListenAddr
	}
	if strings.TrimSpace(cfg.LogLevel) == "" {
		cfg.LogLevel = d.LogLevel
	}
	if strings.TrimSpace(cfg.LogFormat) == "" {
		cfg.LogFormat = d.LogFormat
	}
}

func Save(cfg Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, "config.json")
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return os.WriteFile(path, b, 0o600)
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("AMADEUS_CLIENT_ID"); v != "" {
		cfg.AmadeusClientID = v
	}
	if v := os.Getenv("AMADEUS_CLIENT_SECRET"); v != "" {
		cfg.AmadeusClientSecret = v
	}
	if v := os.Getenv("GFARE_AMADEUS_BASE_URL"); v != "" {
		cfg.AmadeusBaseURL = v
	}
	if v := os.Getenv("GFARE_SEARCH_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SearchTimeoutSec = n
		}
	}
	if v := os.Getenv("GFARE_BRANDING_FILE"); v != "" {
		cfg.BrandingFile = v
	}
	if v := os.Getenv("GFARE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("GFARE_ALLOWED_ORIGINS"); v != "" {
		cfg.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("GFARE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GFARE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("GFARE_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
