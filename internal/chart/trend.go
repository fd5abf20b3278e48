// Package chart renders the score trend as a PNG.
package chart

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	Width  = 640
	Height = 320

	placeholderWidth  = 400
	placeholderHeight = 200
	placeholderText   = "No rounds yet"

	// vertical padding around the score range, in strokes
	padding = 5
)

type Palette struct {
	Background drawing.Color
	Line       drawing.Color
	Dot        drawing.Color
	Text       drawing.Color
}

var DefaultPalette = Palette{
	Background: drawing.ColorFromHex("ffffff"),
	Line:       drawing.ColorFromHex("15803d"),
	Dot:        drawing.ColorFromHex("ca8a04"),
	Text:       drawing.ColorFromHex("334155"),
}

// Trend draws totals oldest first. Lower scores are drawn higher. An empty
// series gets a placeholder image instead of an error.
func Trend(totals []int, palette Palette) ([]byte, error) {
	if len(totals) == 0 {
		return placeholder(palette)
	}

	xValues := make([]float64, len(totals))
	yValues := make([]float64, len(totals))
	ticks := make([]chart.Tick, len(totals))
	for i, total := range totals {
		xValues[i] = float64(i + 1)
		yValues[i] = float64(total)
		ticks[i] = chart.Tick{Value: float64(i + 1), Label: strconv.Itoa(i + 1)}
	}

	// Explicit ranges keep a single round (zero spread) renderable.
	low := float64(slices.Min(totals) - padding)
	high := float64(slices.Max(totals) + padding)

	graph := chart.Chart{
		Width:  Width,
		Height: Height,
		Background: chart.Style{
			FillColor: palette.Background,
		},
		Canvas: chart.Style{
			FillColor: palette.Background,
		},
		XAxis: chart.XAxis{
			Name:  "Round",
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0.5, Max: float64(len(totals)) + 0.5},
			Style: chart.Style{FontColor: palette.Text},
		},
		YAxis: chart.YAxis{
			Name: "Strokes",
			Range: &chart.ContinuousRange{
				Min:        low,
				Max:        high,
				Descending: true,
			},
			ValueFormatter: func(v any) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
			Style: chart.Style{FontColor: palette.Text},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Total",
				XValues: xValues,
				YValues: yValues,
				Style: chart.Style{
					StrokeColor: palette.Line,
					StrokeWidth: 2,
					DotWidth:    4,
					DotColor:    palette.Dot,
				},
			},
		},
	}

	buffer := bytes.NewBuffer([]byte{})
	err := graph.Render(chart.PNG, buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to render trend: %w", err)
	}

	return buffer.Bytes(), nil
}

// placeholder draws directly on the renderer: a chart without series
// refuses to render.
func placeholder(palette Palette) ([]byte, error) {
	r, err := chart.PNG(placeholderWidth, placeholderHeight)
	if err != nil {
		return nil, err
	}

	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, err
	}

	r.SetFillColor(palette.Background)
	r.MoveTo(0, 0)
	r.LineTo(placeholderWidth, 0)
	r.LineTo(placeholderWidth, placeholderHeight)
	r.LineTo(0, placeholderHeight)
	r.Close()
	r.Fill()

	r.SetFont(font)
	r.SetFontColor(palette.Text)
	r.SetFontSize(14.0)
	tb := r.MeasureText(placeholderText)
	r.Text(placeholderText, (placeholderWidth-tb.Width())/2, (placeholderHeight+tb.Height())/2)

	buffer := bytes.NewBuffer([]byte{})
	err = r.Save(buffer)
	if err != nil {
		return nil, fmt.Errorf("failed to render placeholder: %w", err)
	}

	return buffer.Bytes(), nil
}
