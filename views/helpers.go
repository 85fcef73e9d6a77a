package views

import (
	"net/url"
	"strings"

	"github.com/dustin/go-humanize"
)

// FormatCount renders a counter with thousands separators.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}

// periodClass returns CSS classes for a period link, with active variant.
func periodClass(active bool) string {
	base := "period"
	if active {
		base += " period-active"
	}
	return base
}

// periodHref links to the dashboard with a period preset.
func periodHref(key string) string {
	return "?" + url.Values{"period": {key}}.Encode()
}

// joinMissing formats metric names for the partial-data notice.
func joinMissing(names []string) string {
	return strings.Join(names, ", ")
}
