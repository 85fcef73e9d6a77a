package netlifystats

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/netlifystats/dashboard"
	"github.com/eringen/netlifystats/netlify"
	"github.com/eringen/netlifystats/views"
)

func (a *App) handleDashboard(c echo.Context) error {
	w, active, err := parseWindow(c.QueryParams(), a.Config, a.now())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result := a.Client.Fetch(c.Request().Context(), w)
	summary := a.shaper.Shape(result)
	return Render(c, views.Dashboard(a.dashboardViewModel(w, active, summary, result)))
}

func (a *App) handleSummary(c echo.Context) error {
	w, _, err := parseWindow(c.QueryParams(), a.Config, a.now())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	result := a.Client.Fetch(c.Request().Context(), w)
	return c.JSON(http.StatusOK, a.shaper.Shape(result))
}

func handleRootRedirect(c echo.Context) error {
	return c.Redirect(http.StatusMovedPermanently, "/analytics/")
}

func handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		// Logged by the request logger.
		_ = RenderStatus(c, code, views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func (a *App) dashboardViewModel(w netlify.TimeWindow, active string, s dashboard.Summary, r netlify.Result) views.DashboardViewModel {
	vm := views.DashboardViewModel{
		Title:          a.Config.Name,
		SiteID:         a.Config.SiteID,
		Period:         formatPeriod(w, a.shaper.Location),
		ActivePeriod:   active,
		Timezone:       w.Timezone,
		Resolution:     string(w.Resolution),
		TotalPageviews: s.TotalPageviews,
		TotalVisitors:  s.TotalVisitors,
		TotalBandwidth: s.TotalBandwidth,
		Pageviews: views.ChartViewModel{
			ID:     "pageviews-chart",
			Title:  "Pageviews",
			Labels: s.PageviewLabels,
			Values: s.PageviewData,
		},
		Visitors: views.ChartViewModel{
			ID:     "visitors-chart",
			Title:  "Unique visitors",
			Labels: s.VisitorLabels,
			Values: s.VisitorData,
		},
		Countries: countryRows(s.TopCountries),
		RawJSON:   indentJSON(r),
	}
	for _, m := range r.Missing() {
		vm.Missing = append(vm.Missing, string(m))
	}
	return vm
}

// countryRows decodes ranking entries, either {"resource":..,"count":..}
// objects or [name, count] pairs. Entries in neither form are skipped.
func countryRows(entries []json.RawMessage) []views.CountryRowViewModel {
	rows := make([]views.CountryRowViewModel, 0, len(entries))
	for _, raw := range entries {
		var obj struct {
			Resource string      `json:"resource"`
			Count    json.Number `json:"count"`
		}
		if err := json.Unmarshal(raw, &obj); err == nil {
			rows = append(rows, views.CountryRowViewModel{Name: countryName(obj.Resource), Count: toCount(obj.Count)})
			continue
		}
		var pair []json.RawMessage
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) < 2 {
			continue
		}
		var name string
		var count json.Number
		if json.Unmarshal(pair[0], &name) != nil || json.Unmarshal(pair[1], &count) != nil {
			continue
		}
		rows = append(rows, views.CountryRowViewModel{Name: countryName(name), Count: toCount(count)})
	}
	return rows
}

func countryName(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func toCount(n json.Number) int64 {
	c, _ := dashboard.ParseCount(n)
	return c
}

func indentJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return string(b)
	}
	return out.String()
}
