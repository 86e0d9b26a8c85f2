package yamlfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hay-kot/barcoder/internal/core/salesorder"
)

// catalogFile is the on-disk layout of one customer's catalog.
type catalogFile struct {
	CustomerNumber string                   `yaml:"customer_number"`
	Items          []salesorder.CatalogItem `yaml:"items"`
}

// CatalogStore implements salesorder.CatalogSource over
// <dir>/<customer>.yaml files.
type CatalogStore struct {
	dir string
}

var _ salesorder.CatalogSource = (*CatalogStore)(nil)

// NewCatalogStore creates a catalog store rooted at dir.
func NewCatalogStore(dir string) *CatalogStore {
	return &CatalogStore{dir: dir}
}

// LoadCatalog returns the catalog of customerNumber keyed by item code.
// Later entries for the same item code replace earlier ones.
func (s *CatalogStore) LoadCatalog(ctx context.Context, customerNumber string) (salesorder.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	customerNumber = strings.TrimSpace(customerNumber)
	if customerNumber == "" || strings.ContainsAny(customerNumber, `/\`) || customerNumber == ".." {
		return nil, fmt.Errorf("%w: invalid customer number %q", salesorder.ErrCatalogNotFound, customerNumber)
	}

	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(s.dir, customerNumber+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read catalog file: %w", err)
		}

		var cf catalogFile
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("parse catalog file %s: %w", path, err)
		}

		catalog := make(salesorder.Catalog, len(cf.Items))
		for _, item := range cf.Items {
			if item.ItemCode == "" {
				continue
			}
			catalog[item.ItemCode] = item
		}
		return catalog, nil
	}

	return nil, fmt.Errorf("%w: %s", salesorder.ErrCatalogNotFound, customerNumber)
}
