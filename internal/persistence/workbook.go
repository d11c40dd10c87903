package persistence

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/Katsud0n0/city-nexus-connect/internal/config"
)

// Workbook persists each collection as one sheet file under the data
// directory: a header row of field names followed by one row per record.
// Every load decodes the whole sheet and every save re-encodes the whole
// sheet in memory before a single atomic rename, so a failed save leaves the
// previous blob untouched.
//
// A single RWMutex serializes load-modify-save cycles across all sheets.
// Without it two concurrent HTTP handlers could interleave their cycles and
// silently clobber each other's rows (last write wins on the full blob).
type Workbook struct {
	mu     sync.RWMutex
	dir    string
	logger *zap.Logger
}

// NewWorkbook opens the workbook directory, creating it when missing.
func NewWorkbook(cfg config.StoreConfig, logger *zap.Logger) (*Workbook, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create workbook dir: %w", err)
	}
	logger.Info("workbook opened", zap.String("dir", cfg.DataDir))
	return &Workbook{dir: cfg.DataDir, logger: logger}, nil
}

// EnsureSheet initializes an empty sheet (header row only) when the file does
// not exist yet.
func (w *Workbook) EnsureSheet(name string, header []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := w.path(name)
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat sheet %s: %w", name, err)
	}
	return w.write(name, header, nil)
}

// LoadSheet returns all data rows of the named sheet. A missing sheet file
// decodes to the empty collection.
func (w *Workbook) LoadSheet(name string) ([][]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.read(name)
}

// UpdateSheet runs fn against the current rows of the sheet under the write
// lock and persists the rows fn returns. When fn fails nothing is written.
func (w *Workbook) UpdateSheet(name string, header []string, fn func(rows [][]string) ([][]string, error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	rows, err := w.read(name)
	if err != nil {
		return err
	}
	next, err := fn(rows)
	if err != nil {
		return err
	}
	return w.write(name, header, next)
}

// Ping verifies the workbook directory is still reachable.
func (w *Workbook) Ping() error {
	_, err := os.Stat(w.dir)
	return err
}

func (w *Workbook) path(name string) string {
	return filepath.Join(w.dir, name)
}

func (w *Workbook) read(name string) ([][]string, error) {
	data, err := os.ReadFile(w.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sheet %s: %w", name, err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode sheet %s: %w", name, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	rows := records[1:]
	for _, row := range rows {
		for i, cell := range row {
			row[i] = unescapeCell(cell)
		}
	}
	return rows, nil
}

// csv.Reader folds the CRLF pair inside a quoted field down to a bare LF, so
// carriage returns must not reach the encoder verbatim. Cells escape CR as
// `\r` and double the backslash to keep the escaped text unambiguous.
func escapeCell(s string) string {
	if !strings.ContainsAny(s, "\\\r") {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "\r", `\r`)
}

func unescapeCell(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func (w *Workbook) write(name string, header []string, rows [][]string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("encode sheet %s: %w", name, err)
	}
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = escapeCell(cell)
		}
		if err := writer.Write(encoded); err != nil {
			return fmt.Errorf("encode sheet %s: %w", name, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("encode sheet %s: %w", name, err)
	}

	path := w.path(name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write sheet %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace sheet %s: %w", name, err)
	}
	return nil
}
