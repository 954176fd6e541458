package artifacts

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"

	"vendex/logger"
	"vendex/models"
)

const qrSize = 300

// QRFiles stores machine QR codes as PNG files under a directory. Each code
// links to the public machine view.
type QRFiles struct {
	dir     string
	baseURL string
}

func NewQRFiles(dir, baseURL string) *QRFiles {
	return &QRFiles{dir: dir, baseURL: baseURL}
}

func (q *QRFiles) Path(id int64) string {
	return filepath.Join(q.dir, fmt.Sprintf("machine_%d.png", id))
}

// URL is the address encoded in the QR code of machine id.
func (q *QRFiles) URL(id int64) string {
	return fmt.Sprintf("%s/machine_view/%d", q.baseURL, id)
}

func (q *QRFiles) Generate(ctx context.Context, machine models.Machine) error {
	if err := ctx.Err(); err != nil {
		return &Error{Op: "qr generate", Err: err}
	}
	code, err := qr.Encode(q.URL(machine.ID), qr.H, qr.Auto)
	if err != nil {
		return &Error{Op: "qr generate", Err: err}
	}
	code, err = barcode.Scale(code, qrSize, qrSize)
	if err != nil {
		return &Error{Op: "qr generate", Err: err}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return &Error{Op: "qr generate", Err: err}
	}
	path := q.Path(machine.ID)
	if err := writeFile(path, buf.Bytes()); err != nil {
		return &Error{Op: "qr generate", Err: err}
	}
	logger.Log.Infow("qr code generated", "machine_id", machine.ID, "machine", machine.Name, "path", path)
	return nil
}

// Remove deletes the QR code of machine id. A missing file is not an error.
func (q *QRFiles) Remove(ctx context.Context, id int64) error {
	err := os.Remove(q.Path(id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &Error{Op: "qr remove", Err: err}
	}
	return nil
}
