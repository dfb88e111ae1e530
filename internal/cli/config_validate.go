package cli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/agisilaos/gfare/internal/config"
	"github.com/agisilaos/gfare/internal/logger"
	"github.com/agisilaos/gfare/internal/pricing"
)

var (
	errCredentialsMissing = errors.New("amadeus credentials missing")
	errInvalidBaseURL     = errors.New("invalid amadeus base url")
)

func validateCredentials(cfg config.Config) error {
	missing := []string{}
	if strings.TrimSpace(cfg.AmadeusClientID) == "" {
		missing = append(missing, "amadeus_client_id")
	}
	if strings.TrimSpace(cfg.AmadeusClientSecret) == "" {
		missing = append(missing, "amadeus_client_secret")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errCredentialsMissing, strings.Join(missing, ", "))
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("%w: %q", errInvalidBaseURL, raw)
	}
	return nil
}

// configReadinessChecks covers what can be verified without calling Amadeus.
func configReadinessChecks(cfg config.Config) []pricing.Check {
	checks := make([]pricing.Check, 0, 5)
	add := func(name, status, message string) {
		checks = append(checks, pricing.Check{Name: name, Status: status, Message: message})
	}

	if dir, err := config.ConfigDir(); err != nil {
		add("paths.config", pricing.CheckFail, err.Error())
	} else if err := ensureWritableDir(dir); err != nil {
		add("paths.config", pricing.CheckFail, err.Error())
	} else {
		add("paths.config", pricing.CheckOK, dir)
	}

	if err := validateBaseURL(cfg.AmadeusBaseURL); err != nil {
		add("amadeus.base_url", pricing.CheckFail, err.Error())
	} else if strings.Contains(cfg.AmadeusBaseURL, "test.api.amadeus.com") {
		add("amadeus.base_url", pricing.CheckWarn, "using the Amadeus test environment; prices may be cached or incomplete")
	} else {
		add("amadeus.base_url", pricing.CheckOK, cfg.AmadeusBaseURL)
	}

	if strings.TrimSpace(cfg.BrandingFile) == "" {
		add("branding", pricing.CheckOK, "built-in branding")
	} else if _, err := os.Stat(cfg.BrandingFile); err != nil {
		add("branding", pricing.CheckWarn, fmt.Sprintf("%s unreadable, using built-in branding: %v", cfg.BrandingFile, err))
	} else if _, err := config.LoadBranding(cfg.BrandingFile); err != nil {
		add("branding", pricing.CheckFail, err.Error())
	} else {
		add("branding", pricing.CheckOK, cfg.BrandingFile)
	}

	if _, err := logger.ParseLevel(cfg.LogLevel); err != nil {
		add("logging", pricing.CheckFail, err.Error())
	} else if f := strings.ToLower(cfg.LogFormat); f != "" && f != "text" && f != "json" {
		add("logging", pricing.CheckFail, fmt.Sprintf("unknown log format %q (expected text|json)", cfg.LogFormat))
	} else {
		add("logging", pricing.CheckOK, fmt.Sprintf("level=%s format=%s", cfg.LogLevel, cfg.LogFormat))
	}
	return checks
}

func ensureWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	probe := filepath.Join(dir, ".gfare-write-test")
	if err := os.WriteFile(probe, []byte("ok\n"), 0o600); err != nil {
		return err
	}
	return os.Remove(probe)
}
