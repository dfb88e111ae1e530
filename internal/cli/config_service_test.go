package cli

import (
	"os"
	"strings"
	"testing"

	"github.com/agisilaos/gfare/internal/config"
)

func TestConfigSetValidation(t *testing.T) {
	cfg := config.Config{}
	if err := configSet(&cfg, "search_timeout_seconds", "-1"); err == nil {
		t.Fatalf("expected invalid search_timeout_seconds error")
	}
	if err := configSet(&cfg, "search_timeout_seconds", "30"); err != nil {
		t.Fatalf("expected valid timeout: %v", err)
	}
	if cfg.SearchTimeoutSec != 30 {
		t.Fatalf("expected timeout set")
	}
	if err := configSet(&cfg, "log_level", "chatty"); err == nil {
		t.Fatalf("expected invalid log level error")
	}
	if err := configSet(&cfg, "log_format", "JSON"); err != nil || cfg.LogFormat != "json" {
		t.Fatalf("expected normalized log format, got %q err=%v", cfg.LogFormat, err)
	}
	if err := configSet(&cfg, "allowed_origins", "https://a.example, https://b.example,"); err != nil {
		t.Fatalf("allowed_origins: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("expected two origins, got %v", cfg.AllowedOrigins)
	}
}

func TestConfigGetMasksSecret(t *testing.T) {
	cfg := config.Config{AmadeusClientSecret: "secret"}
	v, ok := configGet(cfg, "amadeus_client_secret")
	if !ok {
		t.Fatalf("expected key to exist")
	}
	if v != "***" {
		t.Fatalf("expected masked secret, got %q", v)
	}
}

func TestConfigUnknownKeySuggests(t *testing.T) {
	err := configSet(&config.Config{}, "log_levle", "info")
	if err == nil || !strings.Contains(err.Error(), `did you mean "log_level"`) {
		t.Fatalf("expected suggestion, got %v", err)
	}
	if got := suggestKey("amadeus_base"); got != "amadeus_base_url" {
		t.Fatalf("expected prefix suggestion, got %q", got)
	}
	if got := suggestKey("colour"); got != "" {
		t.Fatalf("expected no suggestion, got %q", got)
	}
	if err := unknownKeyError("colour"); strings.Contains(err.Error(), "did you mean") {
		t.Fatalf("unexpected suggestion: %v", err)
	}
}

func TestConfigSetPersists(t *testing.T) {
	isolateEnv(t)
	if _, _, code, err := runCLI(t, "config", "set", "listen_addr", "127.0.0.1:9090"); code != ExitSuccess {
		t.Fatalf("config set: code=%d err=%v", code, err)
	}
	stdout, _, _, _ := runCLI(t, "config", "get", "listen_addr")
	if strings.TrimSpace(stdout) != "127.0.0.1:9090" {
		t.Fatalf("expected persisted listen_addr, got %q", stdout)
	}
}

func TestConfigWritesKeepEnvironmentOutOfFile(t *testing.T) {
	isolateEnv(t)
	t.Setenv("AMADEUS_CLIENT_ID", "env-only-id")
	t.Setenv("AMADEUS_CLIENT_SECRET", "env-only-secret")

	if _, _, code, err := runCLI(t, "config", "set", "log_level", "debug"); code != ExitSuccess {
		t.Fatalf("config set: code=%d err=%v", code, err)
	}
	if _, _, code, err := runCLI(t, "auth", "login", "--base-url", "https://api.amadeus.com"); code != ExitSuccess {
		t.Fatalf("auth login: code=%d err=%v", code, err)
	}

	path, err := config.ConfigPath()
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	written := string(b)
	for _, leaked := range []string{"env-only-id", "env-only-secret", "search_timeout_seconds", "listen_addr"} {
		if strings.Contains(written, leaked) {
			t.Fatalf("config file should not contain %q:\n%s", leaked, written)
		}
	}
	if !strings.Contains(written, `"log_level": "debug"`) || !strings.Contains(written, `"amadeus_base_url": "https://api.amadeus.com"`) {
		t.Fatalf("expected only the written keys, got:\n%s", written)
	}
}
