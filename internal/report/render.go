package report

import (
	"bytes"
	"errors"

	"github.com/wcharczuk/go-chart/v2"
)

// RenderPNG renders a series as a PNG bar chart.
func RenderPNG(s Series, title string) ([]byte, error) {
	if len(s.Values) == 0 {
		return nil, errors.New("empty series")
	}

	bars := make([]chart.Value, len(s.Values))
	for i := range s.Values {
		bars[i] = chart.Value{Label: s.Labels[i], Value: s.Values[i]}
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    900,
		Height:   450,
		BarWidth: 860 / (len(bars) + 1),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
