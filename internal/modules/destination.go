// Package modules copies SimpleSAMLphp module packages into the host package's
// modules directory and removes them again.
//
// A module package is named VENDOR/simplesamlphp-module-NAME and has type
// simplesamlphp-module. Its files are mirrored to <host>/modules/NAME, where NAME may
// be replaced by a mixed-case spelling from the package's extra metadata.
package modules

import (
	"fmt"
	"path/filepath"
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sspmod/sspmod/internal/composer"
	"github.com/sspmod/sspmod/internal/messages"
)

const (
	// HostPackageName is the canonical name of the package owning the modules directory.
	HostPackageName = "simplesamlphp/simplesamlphp"
	// ModuleType is the package type that marks a module package.
	ModuleType = "simplesamlphp-module"
	// MixedCaseNameKey is the extra-metadata key holding a mixed-case directory name.
	MixedCaseNameKey = "ssp-mixedcase-module-name"
	// ModulesDir is the host-relative directory modules are copied into.
	ModulesDir = "modules"
)

var (
	// $ anchors at the true end of the name, so a trailing newline is rejected.
	modulePackageNamePattern = regexp.MustCompile(`^.*/simplesamlphp-module-(.+)$`)
	moduleDirNamePattern     = regexp.MustCompile(`^[a-z0-9_.-]*$`)
)

// ModuleDirName derives the directory name for pkg from its pretty name and the
// optional mixed-case override. The override may only change letter case.
func ModuleDirName(pkg *composer.Package) (string, error) {
	name := pkg.String()
	matches := modulePackageNamePattern.FindStringSubmatch(name)
	if matches == nil {
		return "", fmt.Errorf(messages.ModuleMalformedNameFmt, name, ErrMalformedModuleName)
	}
	dirName := matches[1]

	if dirName == "" || !moduleDirNamePattern.MatchString(dirName) {
		return "", fmt.Errorf(messages.ModuleInvalidDirNameFmt, name, ErrInvalidModuleDirName)
	}
	if dirName[0] == '.' {
		return "", fmt.Errorf(messages.ModuleLeadingDotFmt, name, ErrLeadingDotNotAllowed)
	}

	raw, ok := pkg.Extra[MixedCaseNameKey]
	if !ok || raw == nil {
		return dirName, nil
	}
	override, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf(messages.ModuleOverrideTypeFmt, name, MixedCaseNameKey, ErrInvalidOverrideType)
	}
	if cases.Lower(language.Und).String(override) != dirName {
		return "", fmt.Errorf(messages.ModuleOverrideMismatchFmt, name, MixedCaseNameKey, ErrOverrideMismatch)
	}
	return override, nil
}

// DestinationFor returns <hostInstallPath>/modules/<dir> for pkg.
func DestinationFor(hostInstallPath string, pkg *composer.Package) (string, error) {
	return destinationIn(hostInstallPath, ModulesDir, pkg)
}

func destinationIn(hostInstallPath string, modulesDir string, pkg *composer.Package) (string, error) {
	dirName, err := ModuleDirName(pkg)
	if err != nil {
		return "", err
	}
	return filepath.Join(hostInstallPath, modulesDir, dirName), nil
}
