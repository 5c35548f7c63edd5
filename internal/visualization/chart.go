// Package visualization renders simulation results as SVG charts and serves
// them over a local HTTP server.
package visualization

import (
	"fmt"
	"html"
	"strings"

	"github.com/nvandessel/knowsim/internal/results"
)

const (
	chartWidth  = 800
	chartHeight = 400
	marginLeft  = 50
	marginRight = 20
	marginTop   = 20
	marginBot   = 40
)

// seriesColors cycles over the plotted runs.
var seriesColors = []string{
	"steelblue",
	"tomato",
	"mediumseagreen",
	"goldenrod",
	"mediumorchid",
	"slategray",
}

// RenderRateChart produces an SVG line chart of per-tick success rates,
// one polyline per run. The y axis is the success rate in [0,1]; the x axis
// is the tick number, scaled to the longest series.
func RenderRateChart(runs []results.Run) string {
	plotW := chartWidth - marginLeft - marginRight
	plotH := chartHeight - marginTop - marginBot

	maxTicks := 1
	for _, run := range runs {
		if len(run.Rates) > maxTicks {
			maxTicks = len(run.Rates)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" font-family="Helvetica" font-size="12">`+"\n",
		chartWidth, chartHeight)
	b.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	// Axes and horizontal gridlines at 0, 0.25, 0.5, 0.75, 1.
	for i := 0; i <= 4; i++ {
		frac := float64(i) / 4
		y := float64(marginTop) + (1-frac)*float64(plotH)
		fmt.Fprintf(&b, `<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#ddd"/>`+"\n",
			marginLeft, y, chartWidth-marginRight, y)
		fmt.Fprintf(&b, `<text x="%d" y="%.1f" text-anchor="end">%.2f</text>`+"\n",
			marginLeft-6, y+4, frac)
	}
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
		marginLeft, marginTop, marginLeft, chartHeight-marginBot)
	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
		marginLeft, chartHeight-marginBot, chartWidth-marginRight, chartHeight-marginBot)
	fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle">tick</text>`+"\n",
		marginLeft+plotW/2, chartHeight-8)

	for i, run := range runs {
		if len(run.Rates) == 0 {
			continue
		}
		color := seriesColors[i%len(seriesColors)]

		var points strings.Builder
		for tick, rate := range run.Rates {
			x := float64(marginLeft)
			if maxTicks > 1 {
				x += float64(tick) / float64(maxTicks-1) * float64(plotW)
			}
			y := float64(marginTop) + (1-rate)*float64(plotH)
			fmt.Fprintf(&points, "%.1f,%.1f ", x, y)
		}
		fmt.Fprintf(&b, `<polyline points="%s" fill="none" stroke="%s" stroke-width="1.5"/>`+"\n",
			strings.TrimSpace(points.String()), color)

		// Legend entry.
		ly := marginTop + 16*i
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="10" height="10" fill="%s"/>`+"\n",
			chartWidth-marginRight-160, ly, color)
		fmt.Fprintf(&b, `<text x="%d" y="%d">%s</text>`+"\n",
			chartWidth-marginRight-145, ly+9, html.EscapeString(legendLabel(run)))
	}

	b.WriteString("</svg>\n")
	return b.String()
}

func legendLabel(run results.Run) string {
	return fmt.Sprintf("%s (a=%d f=%d)", run.Cohort, run.Agents, run.Facts)
}

// RenderFrequencyChart produces an SVG bar chart of a fact-frequency
// distribution, e.g. the skewed sampling weights over the fact space.
func RenderFrequencyChart(freqs []float64) string {
	plotW := chartWidth - marginLeft - marginRight
	plotH := chartHeight - marginTop - marginBot

	maxFreq := 0.0
	for _, f := range freqs {
		if f > maxFreq {
			maxFreq = f
		}
	}
	if maxFreq == 0 {
		maxFreq = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" font-family="Helvetica" font-size="12">`+"\n",
		chartWidth, chartHeight)
	b.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")

	barW := float64(plotW) / float64(max(len(freqs), 1))
	for i, f := range freqs {
		h := f / maxFreq * float64(plotH)
		x := float64(marginLeft) + float64(i)*barW
		y := float64(marginTop) + float64(plotH) - h
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="steelblue"/>`+"\n",
			x, y, barW*0.9, h)
	}

	fmt.Fprintf(&b, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n",
		marginLeft, chartHeight-marginBot, chartWidth-marginRight, chartHeight-marginBot)
	fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="middle">fact</text>`+"\n",
		marginLeft+plotW/2, chartHeight-8)

	b.WriteString("</svg>\n")
	return b.String()
}
