package highscore

import (
	"bytes"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	chartBackground = drawing.ColorFromHex("ffdce6")
	chartLine       = drawing.ColorFromHex("ff96b4")
	chartTop        = drawing.ColorFromHex("ffd700")
	chartText       = drawing.ColorFromHex("000000")
)

// RenderChart draws the recent scores of l as a PNG line chart, with the top
// score as a flat reference line.
func RenderChart(l Ledger) ([]byte, error) {
	if len(l.RecentScores) == 0 {
		return renderNoScores()
	}

	n := len(l.RecentScores)
	xValues := make([]float64, n)
	yValues := make([]float64, n)
	for i, sc := range l.RecentScores {
		xValues[i] = float64(i + 1)
		yValues[i] = float64(sc.Score)
	}

	recent := chart.ContinuousSeries{
		Name:    "Recent scores",
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: chartLine,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    chartLine,
		},
	}
	top := chart.ContinuousSeries{
		Name:    "Top score",
		XValues: []float64{0, float64(n + 1)},
		YValues: []float64{float64(l.TopScore), float64(l.TopScore)},
		Style: chart.Style{
			StrokeColor:     chartTop,
			StrokeWidth:     1,
			StrokeDashArray: []float64{5, 5},
		},
	}

	yMax := math.Max(1, float64(l.TopScore))
	for _, y := range yValues {
		yMax = math.Max(yMax, y)
	}

	graph := chart.Chart{
		Width:  800,
		Height: 400,
		Background: chart.Style{
			FillColor: chartBackground,
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		XAxis: chart.XAxis{
			Name:  "Round",
			Style: chart.Style{FontColor: chartText},
			Range: &chart.ContinuousRange{Min: 0, Max: float64(n + 1)},
		},
		YAxis: chart.YAxis{
			Name:  "Score",
			Style: chart.Style{FontColor: chartText},
			Range: &chart.ContinuousRange{Min: 0, Max: math.Ceil(yMax * 1.1)},
		},
		Series: []chart.Series{recent, top},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderNoScores draws an empty axis with a message; go-chart refuses to render
// a chart without at least one visible series, so a flat baseline is drawn.
func renderNoScores() ([]byte, error) {
	const msg = "No scores recorded yet"

	baseline := chart.ContinuousSeries{
		Name:    "Top score",
		XValues: []float64{0, 1},
		YValues: []float64{0, 0},
		Style: chart.Style{
			StrokeColor: chartTop,
			StrokeWidth: 1,
		},
	}

	graph := chart.Chart{
		Width:  400,
		Height: 200,
		Background: chart.Style{
			FillColor: chartBackground,
		},
		Canvas: chart.Style{
			FillColor: chartBackground,
		},
		XAxis:  chart.XAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		YAxis:  chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Series: []chart.Series{baseline},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(chartText)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				x := (cb.Width() - tb.Width()) / 2
				y := (cb.Height() + tb.Height()) / 2
				r.Text(msg, x, y)
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
