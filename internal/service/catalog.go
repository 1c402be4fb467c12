package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/smartchef/backend/internal/metrics"
	"github.com/smartchef/backend/internal/types"
)

// ErrCatalogHeader means the catalog lacks the title or ingredients column.
var ErrCatalogHeader = errors.New("catalog header missing required columns")

var catalogHeader = []string{"title", "ingredients", "steps", "tags"}

// DefaultCatalog seeds a missing catalog file.
var DefaultCatalog = []types.CatalogEntry{
	{
		Title:       "Spinach Tomato Omelette",
		Ingredients: []string{"egg", "spinach", "tomato", "salt", "oil"},
		Steps:       "Beat eggs; Saute veg; Add eggs; Fold.",
		Tags:        "breakfast",
	},
	{
		Title:       "Tomato Pasta",
		Ingredients: []string{"pasta", "tomato", "garlic", "olive oil", "salt"},
		Steps:       "Boil pasta; Make sauce; Toss.",
		Tags:        "dinner",
	},
}

// CSVCatalog reads the recipe catalog from a CSV file on every Load.
type CSVCatalog struct {
	path    string
	mu      sync.Mutex
	logger  *zap.Logger
	metrics *metrics.Collector
}

// NewCSVCatalog creates a catalog backed by the file at path.
func NewCSVCatalog(path string, logger *zap.Logger, m *metrics.Collector) *CSVCatalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CSVCatalog{path: path, logger: logger.Named("catalog"), metrics: m}
}

// Path returns the catalog file location.
func (c *CSVCatalog) Path() string {
	return c.path
}

// EnsureSeeded writes DefaultCatalog when the file does not exist yet.
func (c *CSVCatalog) EnsureSeeded() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := os.Stat(c.path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat catalog: %w", err)
	}

	c.logger.Info("seeding recipe catalog", zap.String("path", c.path))
	return c.writeAll(DefaultCatalog)
}

// Load parses the catalog. Rows without a title or ingredients are skipped.
func (c *CSVCatalog) Load(ctx context.Context) ([]types.CatalogEntry, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	entries, skipped, err := ParseCatalog(ctx, f)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Warn("skipped malformed catalog rows", zap.Int("count", skipped), zap.String("path", c.path))
		c.metrics.AddCatalogSkipped(skipped)
	}
	return entries, nil
}

// Append adds entries to the end of the catalog, creating it if needed.
// The file is replaced atomically so concurrent readers never see a partial write.
func (c *CSVCatalog) Append(ctx context.Context, entries ...types.CatalogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var existing []types.CatalogEntry
	if f, err := os.Open(c.path); err == nil {
		existing, _, err = ParseCatalog(ctx, f)
		f.Close()
		if err != nil {
			return err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	return c.writeAll(append(existing, entries...))
}

func (c *CSVCatalog) writeAll(entries []types.CatalogEntry) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp catalog: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(catalogHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write catalog header: %w", err)
	}
	for _, e := range entries {
		row := []string{e.Title, strings.Join(e.Ingredients, ","), e.Steps, e.Tags}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("failed to write catalog row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp catalog: %w", err)
	}
	if err := os.Rename(tmp.Name(), c.path); err != nil {
		return fmt.Errorf("failed to replace catalog: %w", err)
	}
	return nil
}

// ParseCatalog reads CSV rows with a header. It returns the parsed entries
// and how many rows were skipped.
func ParseCatalog(ctx context.Context, r io.Reader) ([]types.CatalogEntry, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, fmt.Errorf("%w: empty file", ErrCatalogHeader)
		}
		return nil, 0, fmt.Errorf("failed to read catalog header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	titleIdx, okTitle := cols["title"]
	ingIdx, okIng := cols["ingredients"]
	if !okTitle || !okIng {
		return nil, 0, fmt.Errorf("%w: got %v", ErrCatalogHeader, header)
	}
	field := func(row []string, name string) string {
		if i, ok := cols[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var (
		entries []types.CatalogEntry
		skipped int
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				skipped++
				continue
			}
			return nil, 0, fmt.Errorf("failed to read catalog: %w", err)
		}
		if titleIdx >= len(row) || ingIdx >= len(row) {
			skipped++
			continue
		}

		ingredients := NormalizeItems(strings.Split(row[ingIdx], ","))
		title := strings.TrimSpace(row[titleIdx])
		if title == "" || len(ingredients) == 0 {
			skipped++
			continue
		}
		entries = append(entries, types.CatalogEntry{
			Title:       title,
			Ingredients: ingredients,
			Steps:       field(row, "steps"),
			Tags:        field(row, "tags"),
		})
	}
	return entries, skipped, nil
}
