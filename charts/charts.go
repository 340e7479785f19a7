// Package charts renders the weekly calories chart on the insights page.
// A Chart.js renderer is used when the library is reachable; otherwise plain
// CSS bars are drawn.
package charts

import (
	"bytes"
	"fmt"
	"html/template"
	"math"
)

// DefaultScriptURL is where the Chart.js bundle is fetched from.
const DefaultScriptURL = "https://cdn.jsdelivr.net/npm/chart.js"

const maxBarHeight = 160

var labels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

var palette = []string{
	"rgba(138,99,255,0.95)", // lavender
	"rgba(138,99,255,0.95)",
	"rgba(31,182,167,0.95)", // teal
	"rgba(138,99,255,0.95)",
	"rgba(255,111,145,0.95)", // rose
	"rgba(31,182,167,0.95)",
	"rgba(138,99,255,0.95)",
}

// Color cycles through the bar palette.
func Color(i int) string {
	return palette[i%len(palette)]
}

type Renderer interface {
	Name() string
	WeeklyCalories(values [7]int) template.HTML
}

var chartJSTmpl = template.Must(template.New("chartjs").Parse(`<canvas id="ins-cal-chart" height="160"></canvas>
<script src="{{.URL}}"></script>
<script>
(function () {
  var el = document.getElementById("ins-cal-chart");
  if (!window.Chart || !el) { return; }
  new Chart(el.getContext("2d"), {{.Config}});
})();
</script>`))

// ChartJS draws a bar chart client-side with Chart.js.
type ChartJS struct {
	ScriptURL string
}

func (ChartJS) Name() string { return "chartjs" }

func (c ChartJS) WeeklyCalories(values [7]int) template.HTML {
	colors := make([]string, len(values))
	for i := range values {
		colors[i] = Color(i)
	}
	config := map[string]any{
		"type": "bar",
		"data": map[string]any{
			"labels": labels,
			"datasets": []map[string]any{{
				"label":           "Calories Burned",
				"data":            values,
				"backgroundColor": colors,
			}},
		},
		"options": map[string]any{
			"plugins": map[string]any{"legend": map[string]any{"display": false}},
			"scales":  map[string]any{"y": map[string]any{"beginAtZero": true}},
		},
	}
	return execute(chartJSTmpl, struct {
		URL    string
		Config any
	}{c.ScriptURL, config})
}

var barsTmpl = template.Must(template.New("bars").Parse(`<div class="bar-chart">
{{- range .}}<div class="bar" title="{{.Label}}: {{.Value}} kcal" style="{{.Style}}"></div>{{end -}}
</div>`))

// Bars is the fallback renderer: one CSS bar per day.
type Bars struct{}

func (Bars) Name() string { return "bars" }

func (Bars) WeeklyCalories(values [7]int) template.HTML {
	type bar struct {
		Label string
		Value int
		Style template.CSS
	}
	heights := BarHeights(values)
	bars := make([]bar, len(values))
	for i, v := range values {
		bars[i] = bar{
			Label: labels[i],
			Value: v,
			Style: template.CSS(fmt.Sprintf("height:%dpx;background:%s", heights[i], Color(i))),
		}
	}
	return execute(barsTmpl, bars)
}

// BarHeights scales values to pixel heights, never shorter than 20px.
func BarHeights(values [7]int) [7]int {
	peak := 0
	for _, v := range values {
		if v > peak {
			peak = v
		}
	}
	var out [7]int
	for i, v := range values {
		h := 20
		if peak > 0 {
			h = int(math.Max(20, math.Round(float64(v)/float64(peak)*maxBarHeight)))
		}
		out[i] = h
	}
	return out
}

func execute(t *template.Template, data any) template.HTML {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return template.HTML(template.HTMLEscapeString(err.Error()))
	}
	return template.HTML(buf.String())
}
