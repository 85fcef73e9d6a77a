package views

import "github.com/a-h/templ"

// SVG geometry of a bar chart, in viewBox units.
const (
	chartWidth   = 640.0
	chartHeight  = 200.0
	axisHeight   = 20.0
	barFillRatio = 0.8
)

type bar struct {
	X, Y, W, H float64
	Label      string
	Value      int64
}

// layoutBars scales values against the largest one. Bars are anchored to
// the bottom of the plot area; non-positive values get zero height.
func layoutBars(labels []string, values []int64) []bar {
	n := min(len(labels), len(values))
	if n == 0 {
		return nil
	}
	var peak int64
	for _, v := range values[:n] {
		peak = max(peak, v)
	}
	slot := chartWidth / float64(n)
	w := slot * barFillRatio
	bars := make([]bar, n)
	for i := 0; i < n; i++ {
		h := 0.0
		if peak > 0 && values[i] > 0 {
			h = float64(values[i]) / float64(peak) * chartHeight
		}
		bars[i] = bar{
			X:     float64(i)*slot + (slot-w)/2,
			Y:     chartHeight - h,
			W:     w,
			H:     h,
			Label: labels[i],
			Value: values[i],
		}
	}
	return bars
}

// BarChart renders a time series as an inline SVG bar chart. Each bar
// carries a <title> tooltip; the first and last dates label the axis.
func BarChart(c ChartViewModel) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<figure class="chart"><figcaption>`)
		h.text(c.Title)
		h.raw(`</figcaption>`)

		bars := layoutBars(c.Labels, c.Values)
		if len(bars) == 0 {
			h.raw(`<p class="empty">No data for this period.</p></figure>`)
			return
		}

		h.rawf(`<svg id="%s" viewBox="0 0 %.0f %.0f" role="img" preserveAspectRatio="none">`,
			templ.EscapeString(c.ID), chartWidth, chartHeight+axisHeight)
		for _, b := range bars {
			h.rawf(`<rect class="bar" x="%.2f" y="%.2f" width="%.2f" height="%.2f"><title>`, b.X, b.Y, b.W, b.H)
			h.text(b.Label + ": " + FormatCount(b.Value))
			h.raw(`</title></rect>`)
		}
		first, last := bars[0], bars[len(bars)-1]
		h.rawf(`<text class="axis" x="0" y="%.0f" text-anchor="start">`, chartHeight+axisHeight-4)
		h.text(first.Label)
		h.raw(`</text>`)
		if len(bars) > 1 {
			h.rawf(`<text class="axis" x="%.0f" y="%.0f" text-anchor="end">`, chartWidth, chartHeight+axisHeight-4)
			h.text(last.Label)
			h.raw(`</text>`)
		}
		h.raw(`</svg></figure>`)
	})
}
