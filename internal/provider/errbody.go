package provider

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

const maxDetailLen = 200

// Amadeus reports failures either as an {"errors":[...]} array on the API
// endpoints or as an OAuth-style object on the token endpoint.
var errorDetailPaths = []string{
	"$.errors[0].detail",
	"$.errors[0].title",
	"$.error_description",
	"$.error",
}

// summarizeBody extracts a short human-readable reason from an upstream
// error payload. Non-JSON bodies are returned trimmed and truncated.
func summarizeBody(body []byte) string {
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return ""
	}
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return truncate(raw)
	}
	for _, path := range errorDetailPaths {
		v, err := jsonpath.Get(path, doc)
		if err != nil || v == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return truncate(s)
		}
	}
	return truncate(raw)
}

func truncate(s string) string {
	if len(s) <= maxDetailLen {
		return s
	}
	return s[:maxDetailLen] + "..."
}
