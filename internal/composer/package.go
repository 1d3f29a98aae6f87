// Package composer reads the state Composer leaves on disk after dependency
// resolution: the project's composer.json and the local repository in
// <vendor-dir>/composer/installed.json.
package composer

import "strings"

// Package is a resolved dependency as recorded in installed.json.
type Package struct {
	// Name is the canonical, lowercase vendor/name.
	Name string
	// PrettyName is the case-preserving name as declared by the package.
	PrettyName string
	// Version is the pretty version string (for example "v2.1.0" or "dev-master").
	Version string
	// Type is the declared package type.
	Type string
	// Extra holds the package's "extra" metadata.
	Extra map[string]any
	// InstallPath is the raw install-path entry, relative to <vendor-dir>/composer.
	// Empty for Composer 1 repositories and for metapackages.
	InstallPath string
	// Metapackage reports that Composer recorded an explicit null install path.
	Metapackage bool
}

// NewPackage builds a Package from its pretty name, deriving the canonical name.
func NewPackage(prettyName string, version string, packageType string) *Package {
	return &Package{
		Name:       strings.ToLower(prettyName),
		PrettyName: prettyName,
		Version:    version,
		Type:       packageType,
	}
}

// String returns the pretty name, falling back to the canonical name.
func (p *Package) String() string {
	if p == nil {
		return ""
	}
	if p.PrettyName != "" {
		return p.PrettyName
	}
	return p.Name
}
