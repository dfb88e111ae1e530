package provider

import (
	"fmt"
	"strconv"
	"strings"
)

const unknownDuration = "Unknown duration"

// FormatDuration renders an Amadeus itinerary duration such as PT1H35M as
// "1 hour 35 minutes". Zero and negative components are omitted; when nothing
// is left the result is "Unknown duration". Only the hour and minute
// designators are read.
func FormatDuration(iso string) (string, error) {
	hours, minutes, err := parseDuration(iso)
	if err != nil {
		return "", err
	}
	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if minutes > 0 {
		parts = append(parts, plural(minutes, "minute"))
	}
	if len(parts) == 0 {
		return unknownDuration, nil
	}
	return strings.Join(parts, " "), nil
}

func parseDuration(iso string) (int, int, error) {
	rest := strings.TrimPrefix(strings.TrimSpace(iso), "PT")
	var hours, minutes int
	if h, after, ok := strings.Cut(rest, "H"); ok {
		n, err := strconv.Atoi(h)
		if err != nil {
			return 0, 0, fmt.Errorf("duration %q: bad hour component", iso)
		}
		hours = max(n, 0)
		rest = after
	}
	if m, _, ok := strings.Cut(rest, "M"); ok {
		n, err := strconv.Atoi(m)
		if err != nil {
			return 0, 0, fmt.Errorf("duration %q: bad minute component", iso)
		}
		minutes = max(n, 0)
	}
	return hours, minutes, nil
}

func plural(n int, unit string) string {
	if n > 1 {
		return fmt.Sprintf("%d %ss", n, unit)
	}
	return fmt.Sprintf("%d %s", n, unit)
}
