// Package reports ranks the update ledger and keeps the popularity chart in
// step with it. Rankings are recomputed from the full ledger on every call.
package reports

import (
	"context"

	"vendex/artifacts"
	"vendex/logger"
	"vendex/models"
)

// ChartSize is the number of snacks shown on the popularity chart.
const ChartSize = 10

type UpdateSource interface {
	AllUpdates(ctx context.Context) []models.Update
}

type Service struct {
	updates UpdateSource
}

func NewService(updates UpdateSource) *Service {
	return &Service{updates: updates}
}

// PopularityRanking counts updates per info text.
func (s *Service) PopularityRanking(ctx context.Context) []models.Count {
	return rank(s.updates.AllUpdates(ctx), func(u models.Update) string { return u.Info })
}

func (s *Service) VendorActivityRanking(ctx context.Context) []models.Count {
	return rank(s.updates.AllUpdates(ctx), func(u models.Update) string { return u.Vendor })
}

func (s *Service) MachineActivityRanking(ctx context.Context) []models.Count {
	return rank(s.updates.AllUpdates(ctx), func(u models.Update) string { return u.Machine })
}

// Top returns at most the first n rows of ranking.
func Top(ranking []models.Count, n int) []models.Count {
	if n < 0 {
		n = 0
	}
	if len(ranking) > n {
		return ranking[:n]
	}
	return ranking
}

// rank groups updates by key and orders the groups by count, largest first.
// Equal counts keep the order in which the key first appeared.
func rank(updates []models.Update, key func(models.Update) string) []models.Count {
	index := make(map[string]int)
	counts := make([]models.Count, 0)
	for _, u := range updates {
		k := key(u)
		if i, ok := index[k]; ok {
			counts[i].Count++
			continue
		}
		index[k] = len(counts)
		counts = append(counts, models.Count{Label: k, Count: 1})
	}

	// insertion sort is stable and the rankings are short
	for i := 1; i < len(counts); i++ {
		for j := i; j > 0 && counts[j].Count > counts[j-1].Count; j-- {
			counts[j], counts[j-1] = counts[j-1], counts[j]
		}
	}
	return counts
}

// ChartRefresher regenerates the popularity chart from the current ledger.
type ChartRefresher struct {
	reports  *Service
	renderer artifacts.ChartRenderer
}

func NewChartRefresher(reports *Service, renderer artifacts.ChartRenderer) *ChartRefresher {
	return &ChartRefresher{reports: reports, renderer: renderer}
}

func (c *ChartRefresher) Refresh(ctx context.Context) error {
	top := Top(c.reports.PopularityRanking(ctx), ChartSize)
	if err := c.renderer.Render(ctx, top); err != nil {
		logger.Log.Warnw("popularity chart not refreshed", "error", err)
		return err
	}
	return nil
}

// EnsureChart renders the chart only when none has been produced yet.
func (c *ChartRefresher) EnsureChart(ctx context.Context) error {
	if c.renderer.Exists() {
		return nil
	}
	return c.Refresh(ctx)
}

// ChartPath is where the rendered chart can be read from.
func (c *ChartRefresher) ChartPath() string {
	return c.renderer.Path()
}
