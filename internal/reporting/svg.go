package reporting

import (
	"fmt"
	"html"
	"strings"

	"wallet-credit-score/internal/domain"
)

// ChartTitle is the title of the score distribution chart.
const ChartTitle = "Wallet Credit Score Distribution"

// Chart geometry in SVG user units.
const (
	svgWidth   = 800
	svgHeight  = 480
	plotLeft   = 70
	plotRight  = 770
	plotTop    = 50
	plotBottom = 410
	yTicks     = 5
)

// RenderHistogramSVG renders the score histogram as a standalone SVG bar chart
// with x ticks every bucket boundary and a count axis.
func RenderHistogramSVG(buckets []HistogramBucket) string {
	var sb strings.Builder

	plotW := float64(plotRight - plotLeft)
	plotH := float64(plotBottom - plotTop)
	span := domain.ScoreMax - domain.ScoreMin

	peak := maxCount(buckets)
	yMax := niceCeil(peak)

	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`+"\n",
		svgWidth, svgHeight, svgWidth, svgHeight))
	sb.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`+"\n", svgWidth, svgHeight))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="30" text-anchor="middle" font-size="18">%s</text>`+"\n",
		svgWidth/2, html.EscapeString(ChartTitle)))

	// Horizontal grid and count labels
	for i := 0; i <= yTicks; i++ {
		v := yMax * i / yTicks
		y := float64(plotBottom) - plotH*float64(i)/yTicks
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#ddd"/>`+"\n", plotLeft, y, plotRight, y))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" text-anchor="end" font-size="12">%d</text>`+"\n", plotLeft-8, y+4, v))
	}

	// Bars
	for _, b := range buckets {
		x0 := float64(plotLeft) + plotW*(b.Lo-domain.ScoreMin)/span
		x1 := float64(plotLeft) + plotW*(b.Hi-domain.ScoreMin)/span
		h := 0.0
		if yMax > 0 {
			h = plotH * float64(b.Count) / float64(yMax)
		}
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#4c72b0" stroke="black"><title>%s: %d</title></rect>`+"\n",
			x0, float64(plotBottom)-h, x1-x0, h, b.Label, b.Count))
	}

	// Axes
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n", plotLeft, plotBottom, plotRight, plotBottom))
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="black"/>`+"\n", plotLeft, plotTop, plotLeft, plotBottom))

	// X ticks every bucket width
	for i := 0; i <= domain.ScoreBuckets; i++ {
		v := domain.ScoreMin + float64(i)*domain.BucketWidth
		x := float64(plotLeft) + plotW*(v-domain.ScoreMin)/span
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%d" x2="%.1f" y2="%d" stroke="black"/>`+"\n", x, plotBottom, x, plotBottom+5))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" text-anchor="middle" font-size="12">%.0f</text>`+"\n", x, plotBottom+20, v))
	}

	sb.WriteString(fmt.Sprintf(`<text x="%d" y="%d" text-anchor="middle" font-size="14">Credit Score</text>`+"\n",
		(plotLeft+plotRight)/2, svgHeight-20))
	sb.WriteString(fmt.Sprintf(`<text x="20" y="%d" text-anchor="middle" font-size="14" transform="rotate(-90 20 %d)">Number of Wallets</text>`+"\n",
		(plotTop+plotBottom)/2, (plotTop+plotBottom)/2))

	sb.WriteString("</svg>\n")
	return sb.String()
}

// niceCeil rounds n up to a multiple of yTicks so axis labels are integers.
func niceCeil(n int) int {
	if n <= 0 {
		return yTicks
	}
	if r := n % yTicks; r != 0 {
		return n + yTicks - r
	}
	return n
}
