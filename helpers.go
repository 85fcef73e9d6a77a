package netlifystats

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/netlifystats/netlify"
)

// parsePeriod maps a period preset to its lookback in days and the
// resolution that suits it.
func parsePeriod(period string) (days int, res netlify.Resolution, ok bool) {
	switch period {
	case "day":
		return 1, netlify.ResolutionHour, true
	case "week":
		return 7, netlify.ResolutionDay, true
	case "month":
		return netlify.DefaultLookbackDays, netlify.ResolutionDay, true
	default:
		return 0, "", false
	}
}

// parseWindow builds the query window from request parameters. Explicit
// from/to win over a period preset. Only from and to are checked; an
// inverted range is sent as is. The returned key names the active
// preset, or is empty for a custom range.
func parseWindow(q url.Values, cfg SiteConfig, now time.Time) (netlify.TimeWindow, string, error) {
	w := netlify.TimeWindow{
		Timezone:   cfg.Timezone,
		Resolution: cfg.Resolution,
	}
	active := "month"

	if p := q.Get("period"); p != "" {
		days, res, ok := parsePeriod(p)
		if !ok {
			return w, "", fmt.Errorf("invalid period %q", p)
		}
		w.From = now.AddDate(0, 0, -days).UnixMilli()
		w.To = now.UnixMilli()
		w.Resolution = res
		active = p
	}

	for _, f := range []struct {
		name string
		dst  *int64
	}{
		{"from", &w.From},
		{"to", &w.To},
	} {
		v := strings.TrimSpace(q.Get(f.name))
		if v == "" {
			continue
		}
		ms, err := strconv.ParseInt(v, 10, 64)
		if err != nil || ms < 0 {
			return w, "", fmt.Errorf("invalid %s %q: want epoch milliseconds", f.name, v)
		}
		*f.dst = ms
		active = ""
	}

	// The API validates timezone and resolution.
	if tz := q.Get("timezone"); tz != "" {
		w.Timezone = tz
	}
	if r := q.Get("resolution"); r != "" {
		w.Resolution = netlify.Resolution(r)
	}

	return w.Resolve(now), active, nil
}

// formatPeriod renders a window as "2006-01-02 to 2006-01-02" in loc.
func formatPeriod(w netlify.TimeWindow, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	const layout = "2006-01-02"
	return w.Start().In(loc).Format(layout) + " to " + w.End().In(loc).Format(layout)
}
