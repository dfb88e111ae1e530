package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agisilaos/gfare/internal/model"
)

type brandingFile struct {
	Company model.Branding `yaml:"company"`
}

// LoadBranding reads the company block of a YAML branding file. An empty
// path or a missing file yields the built-in branding; absent fields are
// filled from it.
func LoadBranding(path string) (model.Branding, error) {
	def := model.DefaultBranding()
	if strings.TrimSpace(path) == "" {
		return def, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return def, nil
		}
		return def, err
	}
	var f brandingFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return def, fmt.Errorf("parse branding %s: %w", path, err)
	}
	out := f.Company
	if strings.TrimSpace(out.Name) == "" {
		out.Name = def.Name
	}
	if strings.TrimSpace(out.Hotline) == "" {
		out.Hotline = def.Hotline
	}
	if strings.TrimSpace(out.Email) == "" {
		out.Email = def.Email
	}
	return out, nil
}
