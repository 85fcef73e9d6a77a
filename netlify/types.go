// Package netlify fetches site analytics from the Netlify analytics API.
package netlify

import (
	"bytes"
	"encoding/json"
)

// Metric names an analytics series served under /{site_id}/{metric}.
type Metric string

const (
	Pageviews    Metric = "pageviews"
	Visitors     Metric = "visitors"
	Bandwidth    Metric = "bandwidth"
	TopCountries Metric = "ranking/countries"

	// Served by the API but not queried by the dashboard.
	TopNotFound Metric = "ranking/not_found"
	TopPages    Metric = "ranking/pages"
	TopSources  Metric = "ranking/sources"
)

// TrackedMetrics lists the metrics Fetch queries, in request order.
var TrackedMetrics = []Metric{Pageviews, Visitors, Bandwidth, TopCountries}

// dropsTrailingBucket reports whether the newest bucket of m is still
// accumulating and must be left out of the result.
func (m Metric) dropsTrailingBucket() bool {
	return m == Pageviews || m == Visitors
}

// MetricResult is the decoded body of one metric response.
//
// Data holds the raw data points: [timestamp_ms, count] pairs for time
// series, objects for bandwidth and rankings. Error holds the response's
// "error" field, if any. Every other top-level field is kept verbatim in
// Fields so the result can be re-encoded for raw display.
type MetricResult struct {
	Data   []json.RawMessage
	Error  json.RawMessage
	Fields map[string]json.RawMessage
}

// HasData reports whether the response carried a "data" array.
func (r MetricResult) HasData() bool {
	return r.Data != nil
}

// Failed reports whether the response carried a truthy error marker.
func (r MetricResult) Failed() bool {
	switch string(bytes.TrimSpace(r.Error)) {
	case "", "null", "false", "0", `""`, "{}", "[]":
		return false
	}
	return true
}

// Usable reports whether the data points can be shaped.
func (r MetricResult) Usable() bool {
	return r.HasData() && !r.Failed()
}

// UnmarshalJSON splits a response object into data, error and the remaining
// fields. A "data" member that is not an array stays in Fields and leaves
// Data nil.
func (r *MetricResult) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*r = MetricResult{}
	if raw, ok := fields["data"]; ok {
		var data []json.RawMessage
		if err := json.Unmarshal(raw, &data); err == nil && data != nil {
			r.Data = data
			delete(fields, "data")
		}
	}
	if raw, ok := fields["error"]; ok {
		r.Error = raw
		delete(fields, "error")
	}
	if len(fields) > 0 {
		r.Fields = fields
	}
	return nil
}

// MarshalJSON re-assembles the response object.
func (r MetricResult) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+2)
	for k, v := range r.Fields {
		out[k] = v
	}
	if r.Data != nil {
		out["data"] = r.Data
	}
	if r.Error != nil {
		out["error"] = r.Error
	}
	return json.Marshal(out)
}

// Result maps each successfully fetched metric to its payload. A metric that
// failed is absent; a Result with zero to four entries is always valid.
type Result map[Metric]MetricResult

// Missing returns the tracked metrics absent from r, in request order.
func (r Result) Missing() []Metric {
	var missing []Metric
	for _, m := range TrackedMetrics {
		if _, ok := r[m]; !ok {
			missing = append(missing, m)
		}
	}
	return missing
}
