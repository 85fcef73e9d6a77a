package views

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func renderString(t *testing.T, render func(*bytes.Buffer) error) string {
	t.Helper()
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return buf.String()
}

func sampleViewModel() DashboardViewModel {
	return DashboardViewModel{
		Title:          "Site <Stats>",
		SiteID:         "abc-123",
		Period:         "2024-02-14 to 2024-03-15",
		ActivePeriod:   "week",
		Timezone:       "UTC",
		Resolution:     "day",
		TotalPageviews: 12345,
		TotalVisitors:  678,
		TotalBandwidth: "1.50 KB",
		Pageviews: ChartViewModel{
			ID:     "pageviews-chart",
			Title:  "Pageviews",
			Labels: []string{"2024-03-01", "2024-03-02"},
			Values: []int64{5, 7},
		},
		Visitors:  ChartViewModel{ID: "visitors-chart", Title: "Visitors"},
		Countries: []CountryRowViewModel{{Name: "US", Count: 1200}, {Name: "DE", Count: 4}},
		RawJSON:   `{"pageviews":{"data":[["<script>"]]}}`,
	}
}

func TestDashboardRendersSummary(t *testing.T) {
	out := renderString(t, func(b *bytes.Buffer) error {
		return Dashboard(sampleViewModel()).Render(context.Background(), b)
	})

	for _, want := range []string{
		"<!doctype html>",
		"Site &lt;Stats&gt;",
		"12,345",
		"678",
		"1.50 KB",
		"2024-02-14 to 2024-03-15",
		`<td>US</td><td>1,200</td>`,
		`id="pageviews-chart"`,
		"No data for this period.",
		`id="chart-data"`,
		`class="period period-active" href="?period=week"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard output missing %q", want)
		}
	}
	if strings.Contains(out, `["<script>"]`) {
		t.Error("raw JSON must be escaped")
	}
	if strings.Contains(out, "Some metrics could not be loaded") {
		t.Error("notice should only show when metrics are missing")
	}
}

func TestDashboardShowsMissingMetrics(t *testing.T) {
	vm := sampleViewModel()
	vm.Missing = []string{"visitors", "bandwidth"}
	out := renderString(t, func(b *bytes.Buffer) error {
		return DashboardContent(vm).Render(context.Background(), b)
	})
	if !strings.Contains(out, "Some metrics could not be loaded: visitors, bandwidth") {
		t.Errorf("missing-metrics notice not rendered: %s", out)
	}
	if strings.Contains(out, "<!doctype html>") {
		t.Error("DashboardContent must not render the document shell")
	}
}

func TestCountryTableEmpty(t *testing.T) {
	out := renderString(t, func(b *bytes.Buffer) error {
		return CountryTable(nil).Render(context.Background(), b)
	})
	if !strings.Contains(out, "No country data") {
		t.Errorf("empty table message missing: %s", out)
	}
	if strings.Contains(out, "<table>") {
		t.Error("no table should render without rows")
	}
}

func TestStatusPages(t *testing.T) {
	notFound := renderString(t, func(b *bytes.Buffer) error {
		return NotFound().Render(context.Background(), b)
	})
	if !strings.Contains(notFound, "404") {
		t.Errorf("NotFound output = %s", notFound)
	}
	serverError := renderString(t, func(b *bytes.Buffer) error {
		return ServerError().Render(context.Background(), b)
	})
	if !strings.Contains(serverError, "500") {
		t.Errorf("ServerError output = %s", serverError)
	}
}

type failingWriter struct{ writes int }

func (f *failingWriter) Write(p []byte) (int, error) {
	f.writes++
	return 0, context.DeadlineExceeded
}

func TestRenderStopsAtFirstWriteError(t *testing.T) {
	w := &failingWriter{}
	err := Dashboard(sampleViewModel()).Render(context.Background(), w)
	if err == nil {
		t.Fatal("expected a write error")
	}
	if w.writes != 1 {
		t.Errorf("writes = %d, want 1", w.writes)
	}
}
