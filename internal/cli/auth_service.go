package cli

import (
	"strings"

	"github.com/agisilaos/gfare/internal/config"
)

func authStatus(cfg config.Config) map[string]any {
	return map[string]any{
		"amadeus_client_id":     strings.TrimSpace(cfg.AmadeusClientID) != "",
		"amadeus_client_secret": strings.TrimSpace(cfg.AmadeusClientSecret) != "",
		"amadeus_base_url":      cfg.AmadeusBaseURL,
		"ready":                 validateCredentials(cfg) == nil,
	}
}

func applyAuthLogin(cfg *config.Config, clientID, clientSecret, baseURL string) error {
	if baseURL != "" {
		if err := validateBaseURL(baseURL); err != nil {
			return err
		}
		cfg.AmadeusBaseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	}
	if clientID != "" {
		cfg.AmadeusClientID = strings.TrimSpace(clientID)
	}
	if clientSecret != "" {
		cfg.AmadeusClientSecret = strings.TrimSpace(clientSecret)
	}
	return nil
}
