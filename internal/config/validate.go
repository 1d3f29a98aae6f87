package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sspmod/sspmod/internal/messages"
)

// packageNamePattern is Composer's rule for canonical vendor/name package names.
var packageNamePattern = regexp.MustCompile(`^[a-z0-9]([_.-]?[a-z0-9]+)*/[a-z0-9](([_.]|-{1,2})?[a-z0-9]+)*$`)

// Validate ensures the config is complete and consistent.
func (c *Config) Validate(path string) error {
	if strings.TrimSpace(c.Host.Package) == "" {
		return fmt.Errorf(messages.ConfigHostPackageRequiredFmt, path)
	}
	if !packageNamePattern.MatchString(c.Host.Package) {
		return fmt.Errorf(messages.ConfigHostPackageInvalidFmt, path, c.Host.Package)
	}

	if strings.TrimSpace(c.Host.ModulesDir) == "" {
		return fmt.Errorf(messages.ConfigModulesDirRequiredFmt, path)
	}
	if !filepath.IsLocal(c.Host.ModulesDir) || filepath.Clean(c.Host.ModulesDir) == "." {
		return fmt.Errorf(messages.ConfigModulesDirInvalidFmt, path, c.Host.ModulesDir)
	}

	if strings.TrimSpace(c.Modules.Type) == "" {
		return fmt.Errorf(messages.ConfigModuleTypeRequiredFmt, path)
	}

	if c.Composer.VendorDir != "" && strings.TrimSpace(c.Composer.VendorDir) == "" {
		return fmt.Errorf(messages.ConfigVendorDirInvalidFmt, path, c.Composer.VendorDir)
	}

	for _, f := range Fields() {
		if f.Type != FieldEnum {
			continue
		}
		value, _ := c.fieldValue(f.Key)
		if !isValidOption(f.Key, value) {
			return fmt.Errorf(messages.ConfigOptionInvalidFmt, path, f.Key, value, strings.Join(FieldOptionValues(f.Key), ", "))
		}
	}
	return nil
}

// fieldValue returns the current value of the catalog field key.
func (c *Config) fieldValue(key string) (string, bool) {
	switch key {
	case "host.package":
		return c.Host.Package, true
	case "host.modules_dir":
		return c.Host.ModulesDir, true
	case "modules.type":
		return c.Modules.Type, true
	case "composer.vendor_dir":
		return c.Composer.VendorDir, true
	case "sync.on_error":
		return c.Sync.OnError, true
	case "output.color":
		return c.Output.Color, true
	default:
		return "", false
	}
}
