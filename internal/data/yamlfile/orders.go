// Package yamlfile reads sales orders and customer catalogs from YAML files
// under the data directory.
package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/hay-kot/barcoder/internal/core/salesorder"
)

// orderFile is the on-disk layout of one order.
type orderFile struct {
	Header salesorder.Header       `yaml:"header"`
	Lines  []salesorder.DetailLine `yaml:"lines"`
}

// OrderStore implements salesorder.OrderSource over a directory tree of
// YAML files, one order per file.
type OrderStore struct {
	dir string
	log zerolog.Logger
}

var _ salesorder.OrderSource = (*OrderStore)(nil)

// NewOrderStore creates an order store rooted at dir.
func NewOrderStore(dir string, log zerolog.Logger) *OrderStore {
	return &OrderStore{dir: dir, log: log}
}

// ListOrders returns a summary of every readable order file. Files that
// fail to parse are logged and skipped.
func (s *OrderStore) ListOrders(ctx context.Context) ([]salesorder.OrderSummary, error) {
	paths, err := s.files()
	if err != nil {
		return nil, err
	}

	out := make([]salesorder.OrderSummary, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		of, err := readOrderFile(path)
		if err != nil {
			s.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable order file")
			continue
		}

		out = append(out, salesorder.OrderSummary{
			OrderNumber:    of.Header.OrderNumber,
			CustomerNumber: of.Header.CustomerNumber,
			CustomerName:   of.Header.CustomerName,
			OrderDate:      of.Header.OrderDate,
			Lines:          len(of.Lines),
		})
	}

	slices.SortFunc(out, func(a, b salesorder.OrderSummary) int {
		return strings.Compare(a.OrderNumber, b.OrderNumber)
	})
	return out, nil
}

// LoadOrder returns the order whose header carries orderNumber. Files named
// after the order are tried first.
func (s *OrderStore) LoadOrder(ctx context.Context, orderNumber string) (salesorder.Header, []salesorder.DetailLine, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return salesorder.Header{}, nil, fmt.Errorf("%w: empty order number", salesorder.ErrOrderNotFound)
	}

	paths, err := s.files()
	if err != nil {
		return salesorder.Header{}, nil, err
	}

	slices.SortStableFunc(paths, func(a, b string) int {
		am, bm := fileStem(a) == orderNumber, fileStem(b) == orderNumber
		switch {
		case am && !bm:
			return -1
		case bm && !am:
			return 1
		}
		return 0
	})

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return salesorder.Header{}, nil, err
		}

		of, err := readOrderFile(path)
		if err != nil {
			s.log.Debug().Err(err).Str("path", path).Msg("skipping unreadable order file")
			continue
		}
		if of.Header.OrderNumber == orderNumber {
			return of.Header, of.Lines, nil
		}
	}

	return salesorder.Header{}, nil, fmt.Errorf("%w: %s", salesorder.ErrOrderNotFound, orderNumber)
}

func (s *OrderStore) files() ([]string, error) {
	if _, err := os.Stat(s.dir); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(s.dir), "**/*.{yaml,yml}", doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob order files: %w", err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, filepath.Join(s.dir, filepath.FromSlash(m)))
	}
	slices.Sort(paths)
	return paths, nil
}

func readOrderFile(path string) (orderFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return orderFile{}, fmt.Errorf("read order file: %w", err)
	}

	var of orderFile
	if err := yaml.Unmarshal(data, &of); err != nil {
		return orderFile{}, fmt.Errorf("parse order file: %w", err)
	}

	if of.Header.OrderNumber == "" {
		of.Header.OrderNumber = fileStem(path)
	}
	return of, nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
