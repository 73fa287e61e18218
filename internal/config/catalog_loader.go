package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pifslicer-design/mpg-assistant/internal/core/catalog"
)

// CatalogFile is the on-disk bonus catalog. When Replace is false the
// listed entries override or extend the built-in ones by key.
type CatalogFile struct {
	Replace bool            `yaml:"replace"`
	Bonuses []catalog.Entry `yaml:"bonuses"`
}

func LoadCatalogFile(path string) (CatalogFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CatalogFile{}, fmt.Errorf("read bonus catalog: %w", err)
	}

	var f CatalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return CatalogFile{}, fmt.Errorf("parse bonus catalog: %w", err)
	}

	return f, nil
}

// LoadCatalog returns the bonus catalog for path. A missing file yields the
// built-in catalog; a malformed one is an error.
func LoadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	f, err := LoadCatalogFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return catalog.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return f.Build()
}

func (f CatalogFile) Build() (*catalog.Catalog, error) {
	if f.Replace {
		return catalog.New(f.Bonuses)
	}

	entries := catalog.Default().Entries()
	index := make(map[string]int, len(entries))
	for i, e := range entries {
		index[string(e.Kind)] = i
	}
	for _, e := range f.Bonuses {
		if i, ok := index[string(e.Kind)]; ok {
			entries[i] = e
			continue
		}
		index[string(e.Kind)] = len(entries)
		entries = append(entries, e)
	}
	return catalog.New(entries)
}
