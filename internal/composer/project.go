package composer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sspmod/sspmod/internal/messages"
)

const (
	// ManifestFile is the project manifest Composer reads.
	ManifestFile = "composer.json"
	// DefaultVendorDir is used when composer.json does not set config.vendor-dir.
	DefaultVendorDir = "vendor"
	// EnvVendorDir overrides config.vendor-dir, as it does for Composer itself.
	EnvVendorDir = "COMPOSER_VENDOR_DIR"
)

// ErrNoInstallPath is returned for packages that are not installed on disk (metapackages).
var ErrNoInstallPath = errors.New("package has no install path")

// Project is a Composer project rooted at the directory holding composer.json.
type Project struct {
	Root      string
	VendorDir string
}

type manifest struct {
	Config struct {
		VendorDir string `json:"vendor-dir"`
	} `json:"config"`
}

// LoadProject reads root/composer.json and resolves the vendor directory.
// vendorDir, when non-empty, takes precedence over COMPOSER_VENDOR_DIR and composer.json.
func LoadProject(root string, vendorDir string) (*Project, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf(messages.ComposerResolveInstallPathFmt, root, err)
	}

	dir := strings.TrimSpace(vendorDir)
	if dir == "" {
		dir = strings.TrimSpace(os.Getenv(EnvVendorDir))
	}
	if dir == "" {
		dir, err = manifestVendorDir(filepath.Join(absRoot, ManifestFile))
		if err != nil {
			return nil, err
		}
	}
	if dir == "" {
		dir = DefaultVendorDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(absRoot, dir)
	}
	return &Project{Root: absRoot, VendorDir: filepath.Clean(dir)}, nil
}

func manifestVendorDir(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf(messages.ComposerReadManifestFmt, path, err)
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf(messages.ComposerInvalidManifestFmt, path, err)
	}
	return strings.TrimSpace(m.Config.VendorDir), nil
}

// InstalledJSONPath returns the location of the local repository file.
func (p *Project) InstalledJSONPath() string {
	return filepath.Join(p.VendorDir, "composer", "installed.json")
}

// Repository loads the project's local repository.
func (p *Project) Repository() (*Repository, error) {
	return LoadRepository(p.InstalledJSONPath())
}

// InstallationManager resolves where packages live on disk.
func (p *Project) InstallationManager() *InstallationManager {
	return NewInstallationManager(p.VendorDir)
}

// InstallationManager maps packages to their install paths under a vendor directory.
type InstallationManager struct {
	vendorDir string
}

// NewInstallationManager returns a manager rooted at vendorDir.
func NewInstallationManager(vendorDir string) *InstallationManager {
	return &InstallationManager{vendorDir: vendorDir}
}

// InstallPath returns the absolute directory holding pkg's files.
// Composer 2 records install-path relative to <vendor-dir>/composer; Composer 1
// repositories fall back to <vendor-dir>/<pretty-name>.
func (m *InstallationManager) InstallPath(pkg *Package) (string, error) {
	if strings.TrimSpace(m.vendorDir) == "" {
		return "", errors.New(messages.ComposerVendorDirRequired)
	}
	if pkg.Metapackage {
		return "", fmt.Errorf(messages.ComposerNoInstallPathFmt, pkg, ErrNoInstallPath)
	}

	var path string
	switch {
	case pkg.InstallPath == "":
		path = filepath.Join(m.vendorDir, filepath.FromSlash(pkg.String()))
	case filepath.IsAbs(pkg.InstallPath):
		path = pkg.InstallPath
	default:
		path = filepath.Join(m.vendorDir, "composer", filepath.FromSlash(pkg.InstallPath))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf(messages.ComposerResolveInstallPathFmt, path, err)
	}
	return abs, nil
}
