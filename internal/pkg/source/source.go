package source

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/meddlesome/hoymiles-mea-tou/internal/pkg/model"
)

var (
	ErrNoReadings  = errors.New("no readings")
	errUnsupported = errors.New("unsupported readings document")
)

// payload is the Hoymiles station data response; the readings are the first data list.
type payload struct {
	Data []struct {
		DataList []model.IntervalReading `json:"data_list"`
	} `json:"data"`
}

// Parse reads either a Hoymiles payload or a bare array of readings.
func Parse(r io.Reader) ([]model.IntervalReading, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, ErrNoReadings
	}

	switch b[0] {
	case '[':
		var readings []model.IntervalReading
		if err := json.Unmarshal(b, &readings); err != nil {
			return nil, fmt.Errorf("decode readings: %w", err)
		}
		return readings, nil
	case '{':
		var p payload
		if err := json.Unmarshal(b, &p); err != nil {
			return nil, fmt.Errorf("decode payload: %w", err)
		}
		if len(p.Data) == 0 {
			return nil, ErrNoReadings
		}
		return p.Data[0].DataList, nil
	default:
		return nil, errUnsupported
	}
}

// Dir loads one file per day named YYYY-MM-DD.json.
type Dir struct {
	path string
}

func NewDir(path string) *Dir {
	return &Dir{path: path}
}

func (d *Dir) Path(date civil.Date) string {
	return filepath.Join(d.path, date.String()+".json")
}

// Load returns the readings of one day. A missing file is ErrNoReadings.
func (d *Dir) Load(ctx context.Context, date civil.Date) ([]model.IntervalReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := d.Path(date)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", date, ErrNoReadings)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	readings, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	zap.L().Debug("loaded readings", zap.String("file", path), zap.Int("count", len(readings)))
	return readings, nil
}
