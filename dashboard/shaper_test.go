package dashboard

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/eringen/netlifystats/netlify"
)

func mustResult(t *testing.T, body string) netlify.MetricResult {
	t.Helper()
	var r netlify.MetricResult
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("Unmarshal(%s) failed: %v", body, err)
	}
	return r
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1, "1 B"},
		{350, "350 B"},
		{1023, "1023 B"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{2048, "2.00 KB"},
		{1048576, "1.00 MB"},
		{5 * 1024 * 1024 / 2, "2.50 MB"},
		{1073741824, "1.00 GB"},
		{3 * 1073741824, "3.00 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestShapeEmptyResult(t *testing.T) {
	for _, in := range []netlify.Result{nil, {}} {
		s := Shape(in)
		if s.TotalPageviews != 0 || s.TotalVisitors != 0 {
			t.Errorf("totals = %d/%d, want 0/0", s.TotalPageviews, s.TotalVisitors)
		}
		if s.TotalBandwidth != "0 B" {
			t.Errorf("TotalBandwidth = %q, want %q", s.TotalBandwidth, "0 B")
		}
		if len(s.PageviewLabels) != 0 || len(s.PageviewData) != 0 {
			t.Errorf("pageview series should be empty, got %v %v", s.PageviewLabels, s.PageviewData)
		}
		if len(s.VisitorLabels) != 0 || len(s.VisitorData) != 0 {
			t.Errorf("visitor series should be empty, got %v %v", s.VisitorLabels, s.VisitorData)
		}
		if len(s.TopCountries) != 0 {
			t.Errorf("TopCountries = %v, want empty", s.TopCountries)
		}
		if s.RawData == nil {
			t.Error("RawData should never be nil")
		}
	}
}

func TestShapeEmptySeriesEncodeAsArrays(t *testing.T) {
	b, err := json.Marshal(Shape(nil))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	for _, key := range []string{"pageview_labels", "pageview_data", "visitor_labels", "visitor_data", "top_countries"} {
		if !strings.Contains(string(b), `"`+key+`":[]`) {
			t.Errorf("%s should encode as [] in %s", key, b)
		}
	}
}

func TestShapeTimeSeries(t *testing.T) {
	r := netlify.Result{
		netlify.Pageviews: mustResult(t, `{"data":[[1700000000000,5],[1700086400000,7]]}`),
		netlify.Visitors:  mustResult(t, `{"data":[[1700000000000,3],[1700086400000,1]]}`),
	}
	s := Shaper{Location: time.UTC}.Shape(r)

	wantLabels := []string{"2023-11-14", "2023-11-15"}
	if !reflect.DeepEqual(s.PageviewLabels, wantLabels) {
		t.Errorf("PageviewLabels = %v, want %v", s.PageviewLabels, wantLabels)
	}
	if !reflect.DeepEqual(s.PageviewData, []int64{5, 7}) {
		t.Errorf("PageviewData = %v, want [5 7]", s.PageviewData)
	}
	if s.TotalPageviews != 12 {
		t.Errorf("TotalPageviews = %d, want 12", s.TotalPageviews)
	}
	if !reflect.DeepEqual(s.VisitorData, []int64{3, 1}) {
		t.Errorf("VisitorData = %v, want [3 1]", s.VisitorData)
	}
	if s.TotalVisitors != 4 {
		t.Errorf("TotalVisitors = %d, want 4", s.TotalVisitors)
	}
}

func TestShapeLabelsUseLocalZoneByDefault(t *testing.T) {
	const ts = 1700000000000
	r := netlify.Result{netlify.Pageviews: mustResult(t, `{"data":[[1700000000000,1]]}`)}

	want := time.UnixMilli(ts).In(time.Local).Format("2006-01-02")
	if got := Shape(r).PageviewLabels[0]; got != want {
		t.Errorf("label = %q, want %q", got, want)
	}

	tokyo := time.FixedZone("JST", 9*60*60)
	if got := (Shaper{Location: tokyo}).Shape(r).PageviewLabels[0]; got != "2023-11-15" {
		t.Errorf("label in JST = %q, want %q", got, "2023-11-15")
	}
}

func TestShapeSkipsMalformedPoints(t *testing.T) {
	r := netlify.Result{
		netlify.Pageviews: mustResult(t, `{"data":[[1700000000000],[1700000000000,4],"junk",[1700086400000,null],[],[1700086400000,6.0]]}`),
	}
	s := Shaper{Location: time.UTC}.Shape(r)

	if !reflect.DeepEqual(s.PageviewData, []int64{4, 6}) {
		t.Errorf("PageviewData = %v, want [4 6]", s.PageviewData)
	}
	if len(s.PageviewLabels) != len(s.PageviewData) {
		t.Errorf("labels/data length mismatch: %d vs %d", len(s.PageviewLabels), len(s.PageviewData))
	}
}

func TestShapeIgnoresErroredMetrics(t *testing.T) {
	r := netlify.Result{
		netlify.Pageviews:    mustResult(t, `{"data":[[1700000000000,5]],"error":"rate limited"}`),
		netlify.Bandwidth:    mustResult(t, `{"data":[{"siteBandwidth":4096}],"error":true}`),
		netlify.TopCountries: mustResult(t, `{"data":[{"resource":"US","count":1}],"error":"nope"}`),
	}
	s := Shape(r)
	if len(s.PageviewData) != 0 || s.TotalPageviews != 0 {
		t.Errorf("errored pageviews should shape to empty, got %v", s.PageviewData)
	}
	if s.TotalBandwidth != "0 B" {
		t.Errorf("TotalBandwidth = %q, want %q", s.TotalBandwidth, "0 B")
	}
	if len(s.TopCountries) != 0 {
		t.Errorf("TopCountries = %v, want empty", s.TopCountries)
	}
}

func TestShapeBandwidth(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"two entries", `{"data":[{"siteBandwidth":100},{"siteBandwidth":250}]}`, "350 B"},
		{"kilobytes", `{"data":[{"siteBandwidth":1024},{"siteBandwidth":512}]}`, "1.50 KB"},
		{"missing field counts as zero", `{"data":[{"siteBandwidth":2048},{"other":1}]}`, "2.00 KB"},
		{"non-object entries skipped", `{"data":[[1,2],{"siteBandwidth":1073741824}]}`, "1.00 GB"},
		{"empty data", `{"data":[]}`, "0 B"},
		{"no data field", `{"total":99}`, "0 B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Shape(netlify.Result{netlify.Bandwidth: mustResult(t, tt.body)})
			if s.TotalBandwidth != tt.want {
				t.Errorf("TotalBandwidth = %q, want %q", s.TotalBandwidth, tt.want)
			}
		})
	}
}

func TestShapeTopCountriesPassThrough(t *testing.T) {
	body := `{"data":[{"resource":"US","count":10,"extra":{"a":1}},{"resource":"DE","count":4}]}`
	s := Shape(netlify.Result{netlify.TopCountries: mustResult(t, body)})
	if len(s.TopCountries) != 2 {
		t.Fatalf("TopCountries len = %d, want 2", len(s.TopCountries))
	}
	if got := string(s.TopCountries[0]); got != `{"resource":"US","count":10,"extra":{"a":1}}` {
		t.Errorf("first row = %s, want it unchanged", got)
	}
}

func TestShapeKeepsRawData(t *testing.T) {
	r := netlify.Result{netlify.Visitors: mustResult(t, `{"data":[[1700000000000,1]]}`)}
	s := Shape(r)
	if _, ok := s.RawData[netlify.Visitors]; !ok || len(s.RawData) != 1 {
		t.Errorf("RawData = %v, want the input result", s.RawData)
	}
}

// End to end: the trailing bucket is dropped by the fetcher before shaping.
func TestFetchThenShapeDropsTrailingBucket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/pageviews"):
			io.WriteString(w, `{"data":[[1700000000000,5],[1700086400000,7],[1700172800000,9]]}`)
		case strings.HasSuffix(r.URL.Path, "/bandwidth"):
			io.WriteString(w, `{"data":[{"siteBandwidth":100},{"siteBandwidth":250}]}`)
		default:
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c, err := netlify.NewClient(netlify.Config{BaseURL: srv.URL, SiteID: "s", Token: "t"},
		netlify.WithLogger(zerolog.Nop()))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	s := Shape(c.Fetch(context.Background(), netlify.TimeWindow{}))

	if !reflect.DeepEqual(s.PageviewData, []int64{5, 7}) {
		t.Errorf("PageviewData = %v, want [5 7]", s.PageviewData)
	}
	if s.TotalPageviews != 12 {
		t.Errorf("TotalPageviews = %d, want 12", s.TotalPageviews)
	}
	if s.TotalBandwidth != "350 B" {
		t.Errorf("TotalBandwidth = %q, want %q", s.TotalBandwidth, "350 B")
	}
	if s.TotalVisitors != 0 || len(s.VisitorData) != 0 {
		t.Errorf("failed visitors should shape to zero, got %d %v", s.TotalVisitors, s.VisitorData)
	}
}

func TestParseCount(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"42", 42, true},
		{"-3", -3, true},
		{"7.9", 7, true},
		{"9223372036854775807", 9223372036854775807, true},
		{"9.3e18", 0, false},
		{"-9.3e18", 0, false},
		{"1e400", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseCount(json.Number(tt.in))
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseCount(%q) = %d, %v, want %d, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestShapeSkipsOutOfRangeCounts(t *testing.T) {
	r := netlify.Result{
		netlify.Pageviews: mustResult(t, `{"data":[[1700000000000,1e300],[1700086400000,4]]}`),
	}
	s := Shaper{Location: time.UTC}.Shape(r)
	if !reflect.DeepEqual(s.PageviewData, []int64{4}) {
		t.Errorf("PageviewData = %v, want [4]", s.PageviewData)
	}
}
