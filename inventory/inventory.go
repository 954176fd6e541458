// Package inventory answers stock and expiry questions about the snack
// catalogue and validates stock mutations before they reach the store.
package inventory

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"vendex/db"
	"vendex/logger"
	"vendex/models"
)

const DefaultCategory = "General"

type SnackStore interface {
	ListSnacks(ctx context.Context) []models.Snack
	CreateSnack(ctx context.Context, sn models.Snack) (int64, error)
	SetSnackStock(ctx context.Context, id int64, stock int) error
	DeleteSnack(ctx context.Context, id int64) (name string, found bool, err error)
}

// SnackForm is the raw admin input for a new snack.
type SnackForm struct {
	Name     string
	Expiry   string
	Stock    string
	Price    string
	Category string
}

// Summary is a snapshot of the catalogue computed from a single read.
type Summary struct {
	Items      int `json:"items"`
	TotalStock int `json:"total_stock"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
	Expiring   int `json:"expiring"`
}

type Service struct {
	store SnackStore
	now   func() time.Time
}

func NewService(store SnackStore) *Service {
	return &Service{store: store, now: time.Now}
}

// WithClock replaces the time source. Used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) ListSnacks(ctx context.Context) []models.Snack {
	return s.store.ListSnacks(ctx)
}

// ExpiringSoon returns the snacks whose expiry is at most thresholdDays
// away, already expired ones included, soonest first.
func (s *Service) ExpiringSoon(ctx context.Context, thresholdDays int) []models.SnackExpiry {
	return expiringWithin(s.withDaysLeft(s.store.ListSnacks(ctx)), thresholdDays)
}

// WithDaysLeft returns every snack with a parseable expiry date annotated
// with its days left, in name order.
func (s *Service) WithDaysLeft(ctx context.Context) []models.SnackExpiry {
	return s.withDaysLeft(s.store.ListSnacks(ctx))
}

func (s *Service) TotalStock(ctx context.Context) int {
	return totalStock(s.store.ListSnacks(ctx))
}

func (s *Service) LowStockCount(ctx context.Context, threshold int) int {
	return lowStock(s.store.ListSnacks(ctx), threshold)
}

func (s *Service) OutOfStockCount(ctx context.Context) int {
	return outOfStock(s.store.ListSnacks(ctx))
}

func (s *Service) Summary(ctx context.Context, expiringDays, lowThreshold int) Summary {
	snacks := s.store.ListSnacks(ctx)
	return Summary{
		Items:      len(snacks),
		TotalStock: totalStock(snacks),
		LowStock:   lowStock(snacks, lowThreshold),
		OutOfStock: outOfStock(snacks),
		Expiring:   len(expiringWithin(s.withDaysLeft(snacks), expiringDays)),
	}
}

func (s *Service) AddSnack(ctx context.Context, form SnackForm) (int64, error) {
	name := strings.TrimSpace(form.Name)
	expiry := strings.TrimSpace(form.Expiry)
	if name == "" || expiry == "" {
		return 0, models.Invalid("SnackNameExpiryRequired")
	}
	if _, err := time.Parse(db.DateLayout, expiry); err != nil {
		return 0, models.Invalid("InvalidExpiryDate")
	}
	stock, err := parseStock(form.Stock)
	if err != nil {
		return 0, err
	}

	price := 0.0
	if p := strings.TrimSpace(form.Price); p != "" {
		price, err = strconv.ParseFloat(p, 64)
		if err != nil || price < 0 {
			return 0, models.Invalid("InvalidPrice")
		}
	}
	category := strings.TrimSpace(form.Category)
	if category == "" {
		category = DefaultCategory
	}

	id, err := s.store.CreateSnack(ctx, models.Snack{
		Name:       name,
		Stock:      stock,
		ExpiryDate: expiry,
		Price:      price,
		Category:   category,
	})
	if err != nil {
		return 0, err
	}
	logger.Log.Infow("snack added", "snack_id", id, "name", name, "stock", stock, "expiry", expiry)
	return id, nil
}

// UpdateStock overwrites the stock of snack id. An id that matches no snack
// is silently ignored.
func (s *Service) UpdateStock(ctx context.Context, id int64, newStock string) error {
	stock, err := parseStock(newStock)
	if err != nil {
		return err
	}
	if err := s.store.SetSnackStock(ctx, id, stock); err != nil {
		return err
	}
	logger.Log.Infow("stock updated", "snack_id", id, "stock", stock)
	return nil
}

func (s *Service) DeleteSnack(ctx context.Context, id int64) (string, error) {
	name, found, err := s.store.DeleteSnack(ctx, id)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("snack %d: %w", id, models.ErrNotFound)
	}
	logger.Log.Infow("snack deleted", "snack_id", id, "name", name)
	return name, nil
}

func parseStock(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, models.Invalid("StockRequired")
	}
	stock, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.Invalid("StockNotNumber")
	}
	if stock < 0 {
		return 0, models.Invalid("StockNegative")
	}
	return stock, nil
}

func (s *Service) withDaysLeft(snacks []models.Snack) []models.SnackExpiry {
	now := s.now()
	out := make([]models.SnackExpiry, 0, len(snacks))
	for _, sn := range snacks {
		days, ok := DaysLeft(sn.ExpiryDate, now)
		if !ok {
			logger.Log.Warnw("skipping snack with unparseable expiry", "snack_id", sn.ID, "expiry", sn.ExpiryDate)
			continue
		}
		out = append(out, models.SnackExpiry{Snack: sn, DaysLeft: days})
	}
	return out
}

// DaysLeft is the number of calendar days from the date of now to expiry,
// both taken in now's location.
func DaysLeft(expiry string, now time.Time) (int, bool) {
	exp, err := time.ParseInLocation(db.DateLayout, expiry, now.Location())
	if err != nil {
		return 0, false
	}
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	// Round absorbs the hour lost or gained across a DST change.
	return int(exp.Sub(today).Round(24*time.Hour) / (24 * time.Hour)), true
}

func expiringWithin(items []models.SnackExpiry, days int) []models.SnackExpiry {
	out := make([]models.SnackExpiry, 0, len(items))
	for _, it := range items {
		if it.DaysLeft <= days {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DaysLeft != out[j].DaysLeft {
			return out[i].DaysLeft < out[j].DaysLeft
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func totalStock(snacks []models.Snack) int {
	total := 0
	for _, sn := range snacks {
		total += sn.Stock
	}
	return total
}

func lowStock(snacks []models.Snack, threshold int) int {
	n := 0
	for _, sn := range snacks {
		if sn.Stock < threshold {
			n++
		}
	}
	return n
}

func outOfStock(snacks []models.Snack) int {
	n := 0
	for _, sn := range snacks {
		if sn.Stock == 0 {
			n++
		}
	}
	return n
}
