// Package machines manages the vending machine registry and the QR code
// that goes with each machine.
package machines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"vendex/artifacts"
	"vendex/logger"
	"vendex/models"
)

type MachineStore interface {
	CreateMachine(ctx context.Context, name, location string, status models.MachineStatus) (int64, error)
	MachineByID(ctx context.Context, id int64) (models.Machine, bool)
	ListMachines(ctx context.Context) []models.Machine
	DeleteMachine(ctx context.Context, id int64) (name string, found bool, err error)
}

type Service struct {
	store MachineStore
	qr    artifacts.QRGenerator
}

func NewService(store MachineStore, qr artifacts.QRGenerator) *Service {
	return &Service{store: store, qr: qr}
}

// AddMachine registers an active machine and generates its QR code. A QR
// failure is reported in the outcome; the machine stays registered.
func (s *Service) AddMachine(ctx context.Context, name, location string) (models.Outcome, error) {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)
	if name == "" || location == "" {
		return models.Outcome{}, models.Invalid("MachineNameLocationRequired")
	}

	id, err := s.store.CreateMachine(ctx, name, location, models.MachineActive)
	if err != nil {
		return models.Outcome{}, err
	}
	logger.Log.Infow("machine added", "machine_id", id, "name", name, "location", location)

	out := models.Outcome{ID: id, Name: name}
	if err := s.qr.Generate(ctx, models.Machine{ID: id, Name: name, Location: location, Status: models.MachineActive}); err != nil {
		logger.Log.Warnw("qr code not generated", "machine_id", id, "error", err)
		out.ArtifactErr = err
	}
	return out, nil
}

// DeleteMachine removes the machine and its QR code. Updates that name the
// machine are kept.
func (s *Service) DeleteMachine(ctx context.Context, id int64) (models.Outcome, error) {
	name, found, err := s.store.DeleteMachine(ctx, id)
	if err != nil {
		return models.Outcome{}, err
	}
	if !found {
		return models.Outcome{}, fmt.Errorf("machine %d: %w", id, models.ErrNotFound)
	}
	logger.Log.Infow("machine deleted", "machine_id", id, "name", name)

	out := models.Outcome{ID: id, Name: name}
	if err := s.qr.Remove(ctx, id); err != nil {
		logger.Log.Warnw("qr code not removed", "machine_id", id, "error", err)
		out.ArtifactErr = err
	}
	return out, nil
}

func (s *Service) ListMachines(ctx context.Context) []models.Machine {
	return s.store.ListMachines(ctx)
}

func (s *Service) GetMachine(ctx context.Context, id int64) (models.Machine, bool) {
	return s.store.MachineByID(ctx, id)
}

// QRPath is the file holding the QR code of machine id.
func (s *Service) QRPath(id int64) string {
	return s.qr.Path(id)
}

// RegenerateQR rebuilds the QR code of every machine and returns how many
// were written.
func (s *Service) RegenerateQR(ctx context.Context) (int, error) {
	var errs []error
	generated := 0
	for _, m := range s.store.ListMachines(ctx) {
		if err := s.qr.Generate(ctx, m); err != nil {
			errs = append(errs, fmt.Errorf("machine %d: %w", m.ID, err))
			continue
		}
		generated++
	}
	logger.Log.Infow("qr codes regenerated", "generated", generated, "failed", len(errs))
	return generated, errors.Join(errs...)
}
