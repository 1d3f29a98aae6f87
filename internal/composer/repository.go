package composer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/sspmod/sspmod/internal/messages"
)

// ErrInstalledJSONMissing is returned when the local repository file does not exist.
var ErrInstalledJSONMissing = errors.New("installed.json not found")

// Repository is the local repository Composer writes after installing packages.
type Repository struct {
	path     string
	packages []*Package
}

// installedFile is the Composer 2 layout of installed.json.
type installedFile struct {
	Packages []installedPackage `json:"packages"`
}

type installedPackage struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Type        string          `json:"type"`
	Extra       json.RawMessage `json:"extra"`
	InstallPath json.RawMessage `json:"install-path"`
}

// LoadRepository reads and parses an installed.json file.
func LoadRepository(path string) (*Repository, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf(messages.ComposerInstalledMissingFmt, path, ErrInstalledJSONMissing)
		}
		return nil, fmt.Errorf(messages.ComposerReadInstalledFmt, path, err)
	}
	return ParseRepository(data, path)
}

// ParseRepository parses installed.json content in either the Composer 1 (top-level
// array) or Composer 2 ({"packages": [...]}) layout. source is used in error messages.
func ParseRepository(data []byte, source string) (*Repository, error) {
	var entries []installedPackage
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &entries); err != nil {
			return nil, fmt.Errorf(messages.ComposerInvalidInstalledFmt, source, err)
		}
	} else {
		var file installedFile
		if err := json.Unmarshal(trimmed, &file); err != nil {
			return nil, fmt.Errorf(messages.ComposerInvalidInstalledFmt, source, err)
		}
		entries = file.Packages
	}

	packages := make([]*Package, 0, len(entries))
	for i, entry := range entries {
		pkg, err := entry.toPackage()
		if err != nil {
			return nil, fmt.Errorf(messages.ComposerInvalidInstalledFmt, source, err)
		}
		if pkg == nil {
			return nil, fmt.Errorf(messages.ComposerInvalidInstalledFmt, source, fmt.Errorf(messages.ComposerPackageNameRequired, i))
		}
		packages = append(packages, pkg)
	}
	return &Repository{path: source, packages: packages}, nil
}

func (e installedPackage) toPackage() (*Package, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return nil, nil
	}
	pkg := NewPackage(name, e.Version, e.Type)

	extra, err := decodeExtra(e.Extra)
	if err != nil {
		return nil, fmt.Errorf("%s extra: %w", name, err)
	}
	pkg.Extra = extra

	switch raw := bytes.TrimSpace(e.InstallPath); {
	case len(raw) == 0:
	case bytes.Equal(raw, []byte("null")):
		pkg.Metapackage = true
	default:
		if err := json.Unmarshal(raw, &pkg.InstallPath); err != nil {
			return nil, fmt.Errorf("%s install-path: %w", name, err)
		}
	}
	return pkg, nil
}

// decodeExtra decodes the extra section. PHP encodes an empty map as [], so any
// non-object value is treated as empty.
func decodeExtra(raw json.RawMessage) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, nil
	}
	var extra map[string]any
	if err := json.Unmarshal(raw, &extra); err != nil {
		return nil, err
	}
	return extra, nil
}

// Path returns the file the repository was loaded from.
func (r *Repository) Path() string {
	return r.path
}

// FindPackage returns the first package whose canonical name matches name.
// Any version matches; when several versions are present the first in file order wins.
func (r *Repository) FindPackage(name string) (*Package, bool) {
	canonical := strings.ToLower(strings.TrimSpace(name))
	for _, pkg := range r.packages {
		if pkg.Name == canonical {
			return pkg, true
		}
	}
	return nil, false
}

// Packages returns all packages in file order.
func (r *Repository) Packages() []*Package {
	out := make([]*Package, len(r.packages))
	copy(out, r.packages)
	return out
}

// NewRepository builds an in-memory repository from already resolved packages.
func NewRepository(source string, packages ...*Package) *Repository {
	out := make([]*Package, len(packages))
	copy(out, packages)
	return &Repository{path: source, packages: out}
}
