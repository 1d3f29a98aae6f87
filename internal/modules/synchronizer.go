package modules

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/sspmod/sspmod/internal/composer"
	"github.com/sspmod/sspmod/internal/messages"
)

// Options configures a Synchronizer. Zero values select the defaults.
type Options struct {
	// Filesystem performs copies and deletes. Required.
	Filesystem Filesystem
	// Logger receives debug diagnostics. Nil discards them.
	Logger *log.Logger
	// HostPackage is the canonical name of the host package.
	HostPackage string
	// ModuleType is the package type treated as a module.
	ModuleType string
	// ModulesDir is the host-relative directory modules are copied into.
	ModulesDir string
	// ContinueOnError makes InstallAll attempt every module and join the failures.
	ContinueOnError bool
}

// Synchronizer keeps the host's modules directory in step with installed module packages.
// It holds no state between calls; every destination is recomputed.
type Synchronizer struct {
	fs              Filesystem
	logger          *log.Logger
	hostPackage     string
	moduleType      string
	modulesDir      string
	continueOnError bool
}

// New returns a Synchronizer for opts.
func New(opts Options) (*Synchronizer, error) {
	if opts.Filesystem == nil {
		return nil, errors.New(messages.ModuleFilesystemRequired)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Synchronizer{
		fs:              opts.Filesystem,
		logger:          logger,
		hostPackage:     defaultString(opts.HostPackage, HostPackageName),
		moduleType:      defaultString(opts.ModuleType, ModuleType),
		modulesDir:      defaultString(opts.ModulesDir, ModulesDir),
		continueOnError: opts.ContinueOnError,
	}, nil
}

// ModuleType returns the package type this Synchronizer acts on.
func (s *Synchronizer) ModuleType() string {
	return s.moduleType
}

// InstallHook installs ev.Package when it is a module package and ignores it otherwise.
func (s *Synchronizer) InstallHook(ev Event) error {
	if ev.Package == nil {
		return errors.New(messages.ModulePackageRequired)
	}
	if ev.Package.Type != s.moduleType {
		s.logger.Debug("skipping non-module package", "package", ev.Package.Name, "type", ev.Package.Type)
		return nil
	}
	return s.Install(ev, ev.Package)
}

// UninstallHook removes ev.Package when it is a module package and ignores it otherwise.
func (s *Synchronizer) UninstallHook(ev Event) error {
	if ev.Package == nil {
		return errors.New(messages.ModulePackageRequired)
	}
	if ev.Package.Type != s.moduleType {
		s.logger.Debug("skipping non-module package", "package", ev.Package.Name, "type", ev.Package.Type)
		return nil
	}
	return s.Uninstall(ev, ev.Package)
}

// Install mirrors pkg's files into its destination under the host's modules directory.
func (s *Synchronizer) Install(ev Event, pkg *composer.Package) error {
	if pkg == nil {
		return errors.New(messages.ModulePackageRequired)
	}
	ev.progress().Write(fmt.Sprintf(messages.ModuleCopyingFmt, pkg.Name, pkg.Version))

	hostPath, err := s.hostInstallPath(ev)
	if err != nil {
		return err
	}
	return s.install(ev, hostPath, pkg)
}

// Uninstall removes pkg's destination directory. Removing an absent directory succeeds.
func (s *Synchronizer) Uninstall(ev Event, pkg *composer.Package) error {
	if pkg == nil {
		return errors.New(messages.ModulePackageRequired)
	}
	ev.progress().Write(fmt.Sprintf(messages.ModuleDeletingFmt, pkg.Name, pkg.Version))

	dest, err := s.Destination(ev, pkg)
	if err != nil {
		return err
	}
	s.logger.Debug("removing module", "package", pkg.Name, "path", dest)
	if err := s.fs.RemoveTree(dest); err != nil {
		return fmt.Errorf(messages.ModuleRemoveFailedFmt, pkg, dest, err)
	}
	return nil
}

// InstallAll installs every module package in the repository, in repository order.
// It returns the modules found. Without ContinueOnError the first failure stops the batch;
// with it every module is attempted and the failures come back as a *BatchError.
func (s *Synchronizer) InstallAll(ev Event) ([]*composer.Package, error) {
	hostPath, err := s.hostInstallPath(ev)
	if err != nil {
		return nil, err
	}

	found := FindModules(ev.Repository.Packages(), s.moduleType)
	s.logger.Debug("installing modules", "count", len(found), "host", hostPath)

	var errs []error
	for _, pkg := range found {
		ev.progress().Write(fmt.Sprintf(messages.ModuleCopyingFmt, pkg.Name, pkg.Version))
		if err := s.install(ev, hostPath, pkg); err != nil {
			if !s.continueOnError {
				return found, err
			}
			ev.progress().WriteError("<error>" + err.Error() + "</error>")
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return found, &BatchError{Failures: errs, Total: len(found)}
	}
	return found, nil
}

// Destination locates the host package and returns pkg's destination directory.
func (s *Synchronizer) Destination(ev Event, pkg *composer.Package) (string, error) {
	hostPath, err := s.hostInstallPath(ev)
	if err != nil {
		return "", err
	}
	return destinationIn(hostPath, s.modulesDir, pkg)
}

func (s *Synchronizer) install(ev Event, hostPath string, pkg *composer.Package) error {
	dest, err := destinationIn(hostPath, s.modulesDir, pkg)
	if err != nil {
		return err
	}
	src, err := ev.Installer.InstallPath(pkg)
	if err != nil {
		return fmt.Errorf(messages.ModuleInstallPathFmt, pkg, err)
	}
	s.logger.Debug("mirroring module", "package", pkg.Name, "from", src, "to", dest)
	if err := s.fs.Mirror(src, dest); err != nil {
		return fmt.Errorf(messages.ModuleMirrorFailedFmt, pkg, dest, err)
	}
	return nil
}

func (s *Synchronizer) hostInstallPath(ev Event) (string, error) {
	if ev.Repository == nil {
		return "", errors.New(messages.ModuleRepositoryRequired)
	}
	if ev.Installer == nil {
		return "", errors.New(messages.ModuleInstallerRequired)
	}
	host, err := FindHost(ev.Repository, s.hostPackage)
	if err != nil {
		return "", err
	}
	path, err := ev.Installer.InstallPath(host)
	if err != nil {
		return "", fmt.Errorf(messages.ModuleHostInstallPathFmt, host, err)
	}
	s.logger.Debug("located host package", "package", host.Name, "version", host.Version, "path", path)
	return path, nil
}

func defaultString(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
