package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agisilaos/gfare/internal/config"
	"github.com/agisilaos/gfare/internal/logger"
)

var configKeys = []string{
	"amadeus_client_id",
	"amadeus_client_secret",
	"amadeus_base_url",
	"search_timeout_seconds",
	"branding_file",
	"listen_addr",
	"allowed_origins",
	"log_level",
	"log_format",
	"log_file",
}

func configGet(cfg config.Config, key string) (string, bool) {
	switch key {
	case "amadeus_client_id":
		return cfg.AmadeusClientID, true
	case "amadeus_client_secret":
		if cfg.AmadeusClientSecret == "" {
			return "", true
		}
		return "***", true
	case "amadeus_base_url":
		return cfg.AmadeusBaseURL, true
	case "search_timeout_seconds":
		return strconv.Itoa(cfg.SearchTimeoutSec), true
	case "branding_file":
		return cfg.BrandingFile, true
	case "listen_addr":
		return cfg.ListenAddr, true
	case "allowed_origins":
		return strings.Join(cfg.AllowedOrigins, ","), true
	case "log_level":
		return cfg.LogLevel, true
	case "log_format":
		return cfg.LogFormat, true
	case "log_file":
		return cfg.LogFile, true
	default:
		return "", false
	}
}

func configSet(cfg *config.Config, key, value string) error {
	switch key {
	case "amadeus_client_id":
		cfg.AmadeusClientID = value
	case "amadeus_client_secret":
		cfg.AmadeusClientSecret = value
	case "amadeus_base_url":
		if err := validateBaseURL(value); err != nil {
			return err
		}
		cfg.AmadeusBaseURL = strings.TrimRight(value, "/")
	case "search_timeout_seconds":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("search_timeout_seconds must be positive integer")
		}
		cfg.SearchTimeoutSec = n
	case "branding_file":
		cfg.BrandingFile = value
	case "listen_addr":
		cfg.ListenAddr = value
	case "allowed_origins":
		cfg.AllowedOrigins = nil
		for _, o := range strings.Split(value, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	case "log_level":
		if _, err := logger.ParseLevel(value); err != nil {
			return err
		}
		cfg.LogLevel = strings.ToLower(value)
	case "log_format":
		v := strings.ToLower(value)
		if v != "text" && v != "json" {
			return fmt.Errorf("log_format must be text or json")
		}
		cfg.LogFormat = v
	case "log_file":
		cfg.LogFile = value
	default:
		return unknownKeyError(key)
	}
	return nil
}

func unknownKeyError(key string) error {
	if s := suggestKey(key); s != "" {
		return fmt.Errorf("unknown key %q (did you mean %q?)", key, s)
	}
	return fmt.Errorf("unknown key %q", key)
}
