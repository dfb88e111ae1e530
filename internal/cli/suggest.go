package cli

import "github.com/spf13/cobra"

const suggestionDistance = 2

// suggestKey matches a mistyped config key with cobra's command-name
// matcher: edit distance up to suggestionDistance, or a prefix.
func suggestKey(key string) string {
	keys := &cobra.Command{Use: "keys", SuggestionsMinimumDistance: suggestionDistance}
	for _, k := range configKeys {
		keys.AddCommand(&cobra.Command{Use: k, Run: func(*cobra.Command, []string) {}})
	}
	if s := keys.SuggestionsFor(key); len(s) > 0 {
		return s[0]
	}
	return ""
}
