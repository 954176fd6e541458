package artifacts

import (
	"bytes"
	"context"
	"os"

	"github.com/wcharczuk/go-chart/v2"

	"vendex/logger"
	"vendex/models"
)

// PopularityChart renders snack popularity as a bar chart PNG at a fixed
// path, overwriting the previous one.
type PopularityChart struct {
	path  string
	title string
}

func NewPopularityChart(path string) *PopularityChart {
	return &PopularityChart{path: path, title: "Most Popular Snacks"}
}

func (c *PopularityChart) Path() string { return c.path }

func (c *PopularityChart) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

func (c *PopularityChart) Render(ctx context.Context, ranking []models.Count) error {
	if len(ranking) == 0 {
		return &Error{Op: "chart render", Err: ErrNoData}
	}
	if err := ctx.Err(); err != nil {
		return &Error{Op: "chart render", Err: err}
	}

	bars := make([]chart.Value, 0, len(ranking))
	maxCount := 1
	for _, r := range ranking {
		bars = append(bars, chart.Value{Label: r.Label, Value: float64(r.Count)})
		if r.Count > maxCount {
			maxCount = r.Count
		}
	}

	graph := chart.BarChart{
		Title:      c.title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 20}},
		Width:      1000,
		Height:     600,
		BarWidth:   60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxCount)},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return &Error{Op: "chart render", Err: err}
	}
	if err := writeFile(c.path, buf.Bytes()); err != nil {
		return &Error{Op: "chart render", Err: err}
	}
	logger.Log.Infow("popularity chart rendered", "path", c.path, "bars", len(bars))
	return nil
}
