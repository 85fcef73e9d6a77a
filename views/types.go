// Package views renders the dashboard pages as templ components.
// View models mirror the dashboard types so this package has no
// dependency on the fetching and shaping code.
package views

// DashboardViewModel is everything the dashboard page displays.
type DashboardViewModel struct {
	Title        string
	SiteID       string
	Period       string // "2024-02-14 to 2024-03-15"
	ActivePeriod string // "day", "week", "month" or "" for a custom range
	Timezone     string
	Resolution   string

	TotalPageviews int64
	TotalVisitors  int64
	TotalBandwidth string

	Pageviews ChartViewModel
	Visitors  ChartViewModel
	Countries []CountryRowViewModel

	Missing []string // metrics that could not be fetched
	RawJSON string   // indented fetch result
}

// ChartViewModel is one time series. Labels and Values have equal length.
type ChartViewModel struct {
	ID     string
	Title  string
	Labels []string
	Values []int64
}

// CountryRowViewModel is one row of the country ranking.
type CountryRowViewModel struct {
	Name  string
	Count int64
}

// PeriodLink is a preset shown in the period switcher.
type PeriodLink struct {
	Key   string
	Label string
}

// PeriodLinks lists the presets in display order.
var PeriodLinks = []PeriodLink{
	{Key: "day", Label: "24 hours"},
	{Key: "week", Label: "7 days"},
	{Key: "month", Label: "30 days"},
}
