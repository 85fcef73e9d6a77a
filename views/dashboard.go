package views

import "github.com/a-h/templ"

// Page wraps body in the HTML document shell.
func Page(title string, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="/public/dashboard.css"></head><body><main class="container">`)
		h.render(body)
		h.raw(`</main></body></html>`)
	})
}

// Dashboard renders the full analytics page.
func Dashboard(vm DashboardViewModel) templ.Component {
	return Page(vm.Title, DashboardContent(vm))
}

// DashboardContent renders the page body without the document shell.
func DashboardContent(vm DashboardViewModel) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<header class="header"><h1>`)
		h.text(vm.Title)
		h.raw(`</h1><p class="meta">`)
		if vm.SiteID != "" {
			h.raw(`Site <code>`)
			h.text(vm.SiteID)
			h.raw(`</code> &middot; `)
		}
		h.text(vm.Period)
		h.raw(` &middot; `)
		h.text(vm.Timezone)
		h.raw(` &middot; per `)
		h.text(vm.Resolution)
		h.raw(`</p>`)
		h.render(periodNav(vm.ActivePeriod))
		h.raw(`</header>`)

		if len(vm.Missing) > 0 {
			h.raw(`<div class="notice" role="status">Some metrics could not be loaded: `)
			h.text(joinMissing(vm.Missing))
			h.raw(`</div>`)
		}

		h.raw(`<section class="cards">`)
		h.render(statCard("Pageviews", FormatCount(vm.TotalPageviews)))
		h.render(statCard("Visitors", FormatCount(vm.TotalVisitors)))
		h.render(statCard("Bandwidth", vm.TotalBandwidth))
		h.raw(`</section>`)

		h.raw(`<section class="charts">`)
		h.render(BarChart(vm.Pageviews))
		h.render(BarChart(vm.Visitors))
		h.raw(`</section>`)

		h.render(CountryTable(vm.Countries))

		h.raw(`<details class="raw"><summary>Raw data</summary><pre>`)
		h.text(vm.RawJSON)
		h.raw(`</pre></details>`)

		h.render(templ.JSONScript("chart-data", map[string]ChartViewModel{
			"pageviews": vm.Pageviews,
			"visitors":  vm.Visitors,
		}))
	})
}

func periodNav(active string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<nav class="periods">`)
		for _, p := range PeriodLinks {
			h.rawf(`<a class="%s" href="%s">`, periodClass(p.Key == active), templ.EscapeString(periodHref(p.Key)))
			h.text(p.Label)
			h.raw(`</a>`)
		}
		h.raw(`</nav>`)
	})
}

func statCard(label, value string) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<div class="card"><span class="card-label">`)
		h.text(label)
		h.raw(`</span><strong class="card-value">`)
		h.text(value)
		h.raw(`</strong></div>`)
	})
}

// CountryTable renders the country ranking in API order.
func CountryTable(rows []CountryRowViewModel) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<section class="countries"><h2>Top countries</h2>`)
		if len(rows) == 0 {
			h.raw(`<p class="empty">No country data for this period.</p></section>`)
			return
		}
		h.raw(`<table><thead><tr><th>#</th><th>Country</th><th>Pageviews</th></tr></thead><tbody>`)
		for i, r := range rows {
			h.rawf(`<tr><td>%d</td><td>`, i+1)
			h.text(r.Name)
			h.raw(`</td><td>`)
			h.text(FormatCount(r.Count))
			h.raw(`</td></tr>`)
		}
		h.raw(`</tbody></table></section>`)
	})
}

// NotFound renders the 404 page.
func NotFound() templ.Component {
	return Page("Not found", component(func(h *htmlWriter) {
		h.raw(`<section class="status"><h1>404</h1><p>This page does not exist.</p>`)
		h.raw(`<p><a href="/analytics/">Back to the dashboard</a></p></section>`)
	}))
}

// ServerError renders the 500 page.
func ServerError() templ.Component {
	return Page("Server error", component(func(h *htmlWriter) {
		h.raw(`<section class="status"><h1>500</h1><p>Something went wrong while rendering this page.</p></section>`)
	}))
}
