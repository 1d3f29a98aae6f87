package modules

import (
	"fmt"

	"github.com/sspmod/sspmod/internal/composer"
	"github.com/sspmod/sspmod/internal/messages"
)

// Repository queries the resolved dependency graph.
type Repository interface {
	FindPackage(name string) (*composer.Package, bool)
	Packages() []*composer.Package
}

// FindHost returns the package whose canonical name is name, in any version.
// When several versions are resolved at once the repository's first match is returned;
// which one that is remains unspecified.
func FindHost(repo Repository, name string) (*composer.Package, error) {
	pkg, ok := repo.FindPackage(name)
	if !ok || pkg == nil {
		return nil, fmt.Errorf(messages.ModuleHostNotFoundFmt, name, ErrHostPackageNotFound)
	}
	return pkg, nil
}

// FindModules returns the packages whose type is moduleType, in input order.
func FindModules(packages []*composer.Package, moduleType string) []*composer.Package {
	var out []*composer.Package
	for _, pkg := range packages {
		if pkg != nil && pkg.Type == moduleType {
			out = append(out, pkg)
		}
	}
	return out
}
