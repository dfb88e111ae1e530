package cli

import (
	"log/slog"

	"github.com/agisilaos/gfare/internal/config"
	"github.com/agisilaos/gfare/internal/logger"
	"github.com/agisilaos/gfare/internal/model"
	"github.com/agisilaos/gfare/internal/pricing"
	"github.com/agisilaos/gfare/internal/provider"
)

// runtime is the wiring shared by commands that talk to Amadeus.
type runtime struct {
	cfg      config.Config
	branding model.Branding
	logger   *slog.Logger
	tokens   *provider.TokenManager
	client   *provider.AmadeusClient
	service  *pricing.Service
	cleanup  func() error
}

// bootstrap loads config and builds the pricing service. One-shot commands
// log warnings only unless --verbose; long-running ones use log_level.
func (a App) bootstrap(g *globalFlags, longRunning bool) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, wrapExitError(ExitGenericFailure, err)
	}

	level := "warn"
	if longRunning {
		level = cfg.LogLevel
	}
	if g.Verbose {
		level = "debug"
	}
	cleanup, err := logger.Setup(logger.Config{Level: level, Format: cfg.LogFormat, File: cfg.LogFile, Output: a.stderr()})
	if err != nil {
		return nil, newExitError(ExitGenericFailure, "logger: %v", err)
	}
	log := logger.L()

	branding, err := config.LoadBranding(cfg.BrandingFile)
	if err != nil {
		log.Warn("config.branding.invalid", "path", cfg.BrandingFile, "error", err)
	}

	tokens := &provider.TokenManager{
		ClientID:     cfg.AmadeusClientID,
		ClientSecret: cfg.AmadeusClientSecret,
		BaseURL:      cfg.AmadeusBaseURL,
		Timeout:      cfg.SearchTimeout(),
		Logger:       log,
	}
	client := &provider.AmadeusClient{
		BaseURL: cfg.AmadeusBaseURL,
		Tokens:  tokens,
		Gate:    provider.NewGate(provider.DefaultGateCapacity),
		Timeout: cfg.SearchTimeout(),
		Logger:  log,
	}
	return &runtime{
		cfg:      cfg,
		branding: branding,
		logger:   log,
		tokens:   tokens,
		client:   client,
		service:  &pricing.Service{Client: client, Tokens: tokens, Branding: branding, Logger: log},
		cleanup:  cleanup,
	}, nil
}

func (r *runtime) close() {
	if r != nil && r.cleanup != nil {
		_ = r.cleanup()
	}
}
