// Package file provides filesystem adapters: a machine loader reading YAML or
// JSON descriptions from a directory, and a JSON session store.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/turing/internal/compiler"
	"github.com/aretw0/turing/pkg/domain"
)

// Extensions lists the recognised machine file extensions in lookup order.
var Extensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.DescriptionLoader over a directory of machine files.
// The machine name is the file name without its extension.
type Loader struct {
	dir    string
	parser *compiler.Parser
}

// NewLoader creates a loader rooted at dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir, parser: compiler.NewParser()}
}

// Load reads and decodes the machine called name.
func (l *Loader) Load(ctx context.Context, name string) (domain.Description, error) {
	if err := ctx.Err(); err != nil {
		return domain.Description{}, err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return domain.Description{}, fmt.Errorf("%w: %q", domain.ErrMachineNotFound, name)
	}

	for _, ext := range Extensions {
		path := filepath.Join(l.dir, name+ext)
		desc, err := l.parseFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Description{}, err
		}
		desc.Name = name
		return desc, nil
	}
	return domain.Description{}, fmt.Errorf("%w: %q", domain.ErrMachineNotFound, name)
}

// List returns the sorted machine names found in the directory.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list machines: %w", err)
	}

	seen := make(map[string]bool)
	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !isMachineFile(entry.Name()) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// LoadFile decodes a single machine file. When the file does not set a name,
// the base name without extension is used.
func LoadFile(path string) (domain.Description, error) {
	l := &Loader{parser: compiler.NewParser()}
	desc, err := l.parseFile(path)
	if err != nil {
		return domain.Description{}, err
	}
	if desc.Name == "" {
		desc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return desc, nil
}

// WriteFile encodes d as YAML at path, creating parent directories.
func WriteFile(path string, d domain.Description) error {
	data, err := compiler.Encode(d)
	if err != nil {
		return fmt.Errorf("failed to encode machine: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to ensure machine directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write machine file: %w", err)
	}
	return nil
}

func (l *Loader) parseFile(path string) (domain.Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Description{}, err
	}
	desc, err := l.parser.Parse(data)
	if err != nil {
		return domain.Description{}, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return desc, nil
}

func isMachineFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
