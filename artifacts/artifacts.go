// Package artifacts produces the files derived from stored data: one QR code
// per machine and the popularity bar chart.
package artifacts

//go:generate mockgen -source=artifacts.go -destination=mock_artifacts.go -package=artifacts

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"vendex/models"
)

// ErrNoData is returned by a chart renderer given an empty ranking.
var ErrNoData = errors.New("no data to chart")

// Error wraps a failed artifact operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("artifact %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type QRGenerator interface {
	Generate(ctx context.Context, machine models.Machine) error
	Remove(ctx context.Context, id int64) error
	Path(id int64) string
}

type ChartRenderer interface {
	Render(ctx context.Context, ranking []models.Count) error
	Exists() bool
	Path() string
}

// writeFile replaces path atomically so readers never see a partial image.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
