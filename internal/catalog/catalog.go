// Package catalog supplies the list of learnable items. The core never
// discovers items itself; it receives the catalog once at session start.
package catalog

import (
	"errors"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ErrEmptyCatalog is returned when a source yields no items.
var ErrEmptyCatalog = errors.New("catalog: no items found")

// Provider lists the item ids available for drilling.
type Provider interface {
	ListItems() ([]string, error)
}

// FileProvider reads the catalog from a yaml file with a top-level "items"
// list.
type FileProvider struct {
	Path string
}

// ListItems implements Provider.
func (p FileProvider) ListItems() ([]string, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(p.Path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("catalog: loading %s: %w", p.Path, err)
	}
	items := k.Strings("items")
	if len(items) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]bool, len(items))
	unique := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		unique = append(unique, item)
	}
	return unique, nil
}
