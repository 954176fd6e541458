// Package ledger records vendor updates. The ledger is append-only.
package ledger

import (
	"context"
	"strings"
	"time"

	"vendex/db"
	"vendex/logger"
	"vendex/models"
)

const (
	DefaultVendorLimit = 10
	DefaultAdminLimit  = 50
)

type UpdateStore interface {
	CreateUpdate(ctx context.Context, u models.Update) (int64, error)
	UpdatesByVendor(ctx context.Context, vendor string, limit int) []models.Update
	RecentUpdates(ctx context.Context, limit int) []models.Update
}

// Refresher is notified after every committed update.
type Refresher interface {
	Refresh(ctx context.Context) error
}

type Service struct {
	store     UpdateStore
	refresher Refresher
	now       func() time.Time
}

// NewService returns a ledger. refresher may be nil.
func NewService(store UpdateStore, refresher Refresher) *Service {
	return &Service{store: store, refresher: refresher, now: time.Now}
}

// RecordUpdate appends an update on behalf of vendor. The popularity chart
// is refreshed after the insert has committed; a refresh failure is reported
// in the outcome and never undoes the insert.
func (s *Service) RecordUpdate(ctx context.Context, vendor, machine, info string, typ models.UpdateType) (models.Outcome, error) {
	machine = strings.TrimSpace(machine)
	info = strings.TrimSpace(info)
	if machine == "" || info == "" {
		return models.Outcome{}, models.Invalid("MachineInfoRequired")
	}
	if typ == "" {
		typ = models.UpdateRestock
	}
	if !typ.Valid() {
		return models.Outcome{}, models.Invalid("InvalidUpdateType")
	}

	id, err := s.store.CreateUpdate(ctx, models.Update{
		Vendor:  vendor,
		Machine: machine,
		Info:    info,
		Time:    s.now().Format(db.TimeLayout),
		Type:    typ,
	})
	if err != nil {
		return models.Outcome{}, err
	}
	logger.Log.Infow("update recorded", "update_id", id, "vendor", vendor, "machine", machine, "type", typ)

	out := models.Outcome{ID: id, Name: machine}
	if s.refresher != nil {
		out.ArtifactErr = s.refresher.Refresh(ctx)
	}
	return out, nil
}

// RecentForVendor returns the newest updates by vendor. limit <= 0 means
// DefaultVendorLimit.
func (s *Service) RecentForVendor(ctx context.Context, vendor string, limit int) []models.Update {
	if limit <= 0 {
		limit = DefaultVendorLimit
	}
	return s.store.UpdatesByVendor(ctx, vendor, limit)
}

// All returns the newest updates of every vendor. limit <= 0 means
// DefaultAdminLimit.
func (s *Service) All(ctx context.Context, limit int) []models.Update {
	if limit <= 0 {
		limit = DefaultAdminLimit
	}
	return s.store.RecentUpdates(ctx, limit)
}
