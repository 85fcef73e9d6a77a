// Package dashboard turns raw analytics payloads into totals and chart series.
package dashboard

import (
	"encoding/json"
	"math"
	"time"

	"github.com/eringen/netlifystats/netlify"
)

// Summary is the shaped view of a fetch result. Every *Labels/*Data pair
// has equal length and index-wise correspondence.
type Summary struct {
	TotalPageviews int64             `json:"total_pageviews"`
	TotalVisitors  int64             `json:"total_visitors"`
	TotalBandwidth string            `json:"total_bandwidth"`
	TopCountries   []json.RawMessage `json:"top_countries"`
	PageviewLabels []string          `json:"pageview_labels"`
	PageviewData   []int64           `json:"pageview_data"`
	VisitorLabels  []string          `json:"visitor_labels"`
	VisitorData    []int64           `json:"visitor_data"`
	RawData        netlify.Result    `json:"raw_data"`
}

// Shaper converts fetch results into a Summary.
type Shaper struct {
	// Location is the zone bucket timestamps are converted to before they
	// are labelled. Nil means the process's local zone.
	Location *time.Location
}

// Shape shapes r with bucket labels in the local zone.
func Shape(r netlify.Result) Summary {
	return Shaper{}.Shape(r)
}

// Shape never fails: missing, failed or malformed metrics yield zero totals
// and empty series.
func (s Shaper) Shape(r netlify.Result) Summary {
	if r == nil {
		r = netlify.Result{}
	}
	out := Summary{
		TopCountries: []json.RawMessage{},
		RawData:      r,
	}

	out.PageviewLabels, out.PageviewData = s.series(r, netlify.Pageviews)
	out.TotalPageviews = sum(out.PageviewData)

	out.VisitorLabels, out.VisitorData = s.series(r, netlify.Visitors)
	out.TotalVisitors = sum(out.VisitorData)

	out.TotalBandwidth = formatTotalBandwidth(siteBandwidth(r))

	if res, ok := r[netlify.TopCountries]; ok && res.Usable() && len(res.Data) > 0 {
		out.TopCountries = res.Data
	}
	return out
}

// series extracts the [timestamp_ms, count] pairs of a time-series metric.
// Points that are not arrays of at least two numbers are skipped.
func (s Shaper) series(r netlify.Result, m netlify.Metric) ([]string, []int64) {
	labels, values := []string{}, []int64{}
	res, ok := r[m]
	if !ok || !res.Usable() {
		return labels, values
	}
	for _, raw := range res.Data {
		ts, count, ok := parsePoint(raw)
		if !ok {
			continue
		}
		labels = append(labels, s.bucketDate(ts))
		values = append(values, count)
	}
	return labels, values
}

// bucketDate labels a bucket with its calendar date in s.Location. The
// requested window timezone is not consulted.
func (s Shaper) bucketDate(ms int64) string {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return time.UnixMilli(ms).In(loc).Format("2006-01-02")
}

func parsePoint(raw json.RawMessage) (ts, count int64, ok bool) {
	var pair []json.Number
	if err := json.Unmarshal(raw, &pair); err != nil || len(pair) < 2 {
		return 0, 0, false
	}
	if ts, ok = ParseCount(pair[0]); !ok {
		return 0, 0, false
	}
	if count, ok = ParseCount(pair[1]); !ok {
		return 0, 0, false
	}
	return ts, count, true
}

// siteBandwidth sums siteBandwidth over the bandwidth entries. Entries
// without the field count as zero; entries that are not objects are skipped.
func siteBandwidth(r netlify.Result) int64 {
	res, ok := r[netlify.Bandwidth]
	if !ok || !res.Usable() {
		return 0
	}
	var total int64
	for _, raw := range res.Data {
		var entry struct {
			SiteBandwidth json.Number `json:"siteBandwidth"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if n, ok := ParseCount(entry.SiteBandwidth); ok {
			total += n
		}
	}
	return total
}

// ParseCount reads an API counter. Fractional values are truncated;
// non-finite values and values outside the int64 range are rejected.
func ParseCount(n json.Number) (int64, bool) {
	if i, err := n.Int64(); err == nil {
		return i, true
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

func sum(vals []int64) int64 {
	var total int64
	for _, v := range vals {
		total += v
	}
	return total
}
