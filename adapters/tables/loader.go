package tables

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gochance/domain/weighted"
	"gochance/internal"
	"gochance/internal/errors"
	"gochance/internal/validation"
	"gochance/ports"
)

// Loader reads probability tables from YAML, JSON, XLSX and CSV files
type Loader struct {
	logger *internal.Logger
}

var _ ports.TableSource = (*Loader)(nil)

// NewLoader creates a table loader
func NewLoader(logger *internal.Logger) *Loader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Loader{logger: logger}
}

// Load reads the table at path, picking the decoder from the file extension,
// and checks that every required field is present.
func (l *Loader) Load(ctx context.Context, path string) (*weighted.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NotFound("table file " + path)
	}

	start := time.Now()
	ext := strings.ToLower(filepath.Ext(path))

	var (
		table *weighted.Table
		err   error
	)
	switch ext {
	case ".yaml", ".yml", ".json":
		table, err = readDocument(path)
	case ".xlsx":
		table, err = readWorkbook(path)
	case ".csv":
		table, err = readCSV(path)
	default:
		return nil, errors.InvalidInput("unsupported table format: " + ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read table %s", path)
	}

	if table.Name == "" && ext != ".yaml" && ext != ".yml" && ext != ".json" {
		table.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	if err := validation.Struct(table); err != nil {
		return nil, errors.Wrapf(err, "table %s is incomplete", path)
	}
	if _, err := table.Kind(); err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}

	l.logger.Info("loaded table %q from %s: %d entries in %.2fms",
		table.Name, path, len(table.Entries), float64(time.Since(start).Nanoseconds())/1e6)
	return table, nil
}
