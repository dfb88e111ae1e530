package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func writeMaybeJSON(w io.Writer, g *globalFlags, v map[string]any) error {
	if g.JSON {
		return writeJSON(w, v)
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, fmt.Sprint(v[k]))
	}
	writePlainKV(w, pairs...)
	return nil
}

func writeJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func writePlainKV(w io.Writer, pairs ...string) {
	if len(pairs)%2 != 0 {
		fmt.Fprintln(w, strings.Join(pairs, "\t"))
		return
	}
	out := make([]string, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		out = append(out, fmt.Sprintf("%s=%s", pairs[i], pairs[i+1]))
	}
	fmt.Fprintln(w, strings.Join(out, "\t"))
}

// statusStyler colors check statuses. The renderer drops colors on its own
// when w is not a terminal.
type statusStyler struct {
	ok, warn, fail lipgloss.Style
	plain          bool
}

func newStatusStyler(w io.Writer, noColor bool) statusStyler {
	r := lipgloss.NewRenderer(w)
	return statusStyler{
		ok:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		warn:  r.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		fail:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		plain: noColor,
	}
}

func (s statusStyler) render(status string) string {
	label := strings.ToUpper(status)
	if s.plain {
		return label
	}
	switch status {
	case "ok":
		return s.ok.Render(label)
	case "warn":
		return s.warn.Render(label)
	case "fail":
		return s.fail.Render(label)
	default:
		return label
	}
}
