// Package ingest turns uploaded rate-shopping exports into engine datasets.
package ingest

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/spektr-org/ratelens/engine"
)

var (
	// ErrUnsupportedFormat is returned for anything but .csv and .xlsx.
	ErrUnsupportedFormat = eris.New("unsupported file format")
	// ErrNoRows is returned when a file has no data rows.
	ErrNoRows = eris.New("file has no data rows")
)

// Supported reports whether a file name has an extension Load accepts.
func Supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".xlsx":
		return true
	}
	return false
}

// Loader reads files into datasets.
type Loader struct {
	log *zap.Logger
}

// NewLoader creates a loader. A nil logger disables logging.
func NewLoader(log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{log: log}
}

// Load reads r as the format implied by name's extension.
// Extra options are passed through to engine.NewDataset.
func (l *Loader) Load(name string, r io.Reader, opts ...engine.Option) (*engine.Dataset, error) {
	var (
		table *Table
		err   error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		table, err = ReadCSV(r)
	case ".xlsx":
		table, err = ReadXLSX(r)
	default:
		return nil, eris.Wrapf(ErrUnsupportedFormat, "ingest: %s", name)
	}
	if err != nil {
		return nil, err
	}

	records, cols := table.Records()
	if missing := cols.Missing(); len(missing) > 0 {
		l.log.Warn("⚠️ columns missing, dependent answers disabled",
			zap.String("file", name),
			zap.Strings("missing", missing),
		)
	}

	base := []engine.Option{
		engine.WithSource(filepath.Base(name)),
		engine.WithColumns(cols),
		engine.WithLogger(l.log),
	}
	ds := engine.NewDataset(records, append(base, opts...)...)
	if cols.Has(engine.ColCategory) {
		if _, blank := engine.Partition(ds.View(), engine.ByCategory); blank.Len() > 0 {
			l.log.Warn("⚠️ rows without a category left out of category aggregates",
				zap.String("file", name),
				zap.Int("rows", blank.Len()),
			)
		}
	}
	l.log.Info("📥 dataset loaded",
		zap.String("file", name),
		zap.Int("rows", ds.Len()),
		zap.Int("suppliers", ds.Summary().UniqueSuppliers),
	)
	return ds, nil
}

// LoadFile opens path and loads it.
func (l *Loader) LoadFile(path string, opts ...engine.Option) (*engine.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()
	return l.Load(path, f, opts...)
}
