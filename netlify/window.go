package netlify

import "time"

// Resolution is the bucket size requested from the API.
type Resolution string

const (
	ResolutionDay  Resolution = "day"
	ResolutionHour Resolution = "hour"
)

// Window defaults.
const (
	DefaultLookbackDays = 30
	DefaultTimezone     = "America/Los_Angeles"
	DefaultResolution   = ResolutionDay
)

// TimeWindow is the query range sent with every metric request. From and To
// are Unix epoch milliseconds; zero means unset.
type TimeWindow struct {
	From       int64      `url:"from"`
	To         int64      `url:"to"`
	Timezone   string     `url:"timezone"`
	Resolution Resolution `url:"resolution"`
}

// Resolve fills unset fields. To defaults to now and From to thirty days
// before now. Both are anchored to now, so a caller-supplied To does not move
// the default From.
func (w TimeWindow) Resolve(now time.Time) TimeWindow {
	if w.To == 0 {
		w.To = now.UnixMilli()
	}
	if w.From == 0 {
		w.From = now.AddDate(0, 0, -DefaultLookbackDays).UnixMilli()
	}
	if w.Timezone == "" {
		w.Timezone = DefaultTimezone
	}
	if w.Resolution == "" {
		w.Resolution = DefaultResolution
	}
	return w
}

// Start returns From as a time.
func (w TimeWindow) Start() time.Time {
	return time.UnixMilli(w.From)
}

// End returns To as a time.
func (w TimeWindow) End() time.Time {
	return time.UnixMilli(w.To)
}
