package modules

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sspmod/sspmod/internal/composer"
	"github.com/sspmod/sspmod/internal/fsutil"
	"github.com/sspmod/sspmod/internal/testutil"
)

type recordingProgress struct {
	lines  []string
	errors []string
}

func (p *recordingProgress) Write(msg string)      { p.lines = append(p.lines, msg) }
func (p *recordingProgress) WriteError(msg string) { p.errors = append(p.errors, msg) }

// pathResolver maps canonical package names to fixed install paths.
type pathResolver map[string]string

func (r pathResolver) InstallPath(pkg *composer.Package) (string, error) {
	path, ok := r[pkg.Name]
	if !ok {
		return "", errors.New("no install path for " + pkg.Name)
	}
	return path, nil
}

type memFixture struct {
	syncer   *fsutil.Syncer
	sync     *Synchronizer
	host     *composer.Package
	resolver pathResolver
	progress *recordingProgress
}

func newMemFixture(t *testing.T, opts Options) *memFixture {
	t.Helper()
	syncer := fsutil.NewSyncer(memfs.New())
	opts.Filesystem = syncer
	s, err := New(opts)
	require.NoError(t, err)
	return &memFixture{
		syncer:   syncer,
		sync:     s,
		host:     composer.NewPackage(HostPackageName, "v2.1.0", "project"),
		resolver: pathResolver{HostPackageName: "/app"},
		progress: &recordingProgress{},
	}
}

func (f *memFixture) addModule(t *testing.T, pkg *composer.Package, files map[string]string) {
	t.Helper()
	src := "/vendor/" + pkg.Name
	f.resolver[pkg.Name] = src
	for rel, content := range files {
		require.NoError(t, util.WriteFile(f.syncer.Filesystem(), src+"/"+rel, []byte(content), 0o644))
	}
}

func (f *memFixture) event(pkg *composer.Package, packages ...*composer.Package) Event {
	return Event{
		Package:    pkg,
		Repository: composer.NewRepository("installed.json", append([]*composer.Package{f.host}, packages...)...),
		Installer:  f.resolver,
		IO:         f.progress,
	}
}

func (f *memFixture) read(t *testing.T, path string) string {
	t.Helper()
	data, err := util.ReadFile(f.syncer.Filesystem(), path)
	require.NoError(t, err)
	return string(data)
}

func (f *memFixture) exists(t *testing.T, path string) bool {
	t.Helper()
	ok, err := f.syncer.Exists(path)
	require.NoError(t, err)
	return ok
}

func TestNewRequiresFilesystem(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	f := newMemFixture(t, Options{})
	assert.Equal(t, ModuleType, f.sync.ModuleType())
	assert.Equal(t, HostPackageName, f.sync.hostPackage)
	assert.Equal(t, ModulesDir, f.sync.modulesDir)
}

func TestInstallThenUninstall(t *testing.T) {
	f := newMemFixture(t, Options{})
	foo := composer.NewPackage("vendor/simplesamlphp-module-foo", "v1.2.3", ModuleType)
	f.addModule(t, foo, map[string]string{"bar.txt": "bar", "lib/Auth/Source/Foo.php": "<?php"})

	ev := f.event(foo, foo)
	require.NoError(t, f.sync.InstallHook(ev))
	assert.Equal(t, "bar", f.read(t, "/app/modules/foo/bar.txt"))
	assert.Equal(t, "<?php", f.read(t, "/app/modules/foo/lib/Auth/Source/Foo.php"))
	assert.Equal(t, []string{"  - Copying <info>vendor/simplesamlphp-module-foo</info> (<comment>v1.2.3</comment>) to modules"}, f.progress.lines)

	require.NoError(t, f.sync.UninstallHook(ev))
	assert.False(t, f.exists(t, "/app/modules/foo"))
	assert.True(t, f.exists(t, "/app/modules"))
	assert.Equal(t, "  - Deleting <info>vendor/simplesamlphp-module-foo</info> (<comment>v1.2.3</comment>) from modules", f.progress.lines[1])
}

func TestInstallUsesMixedCaseOverride(t *testing.T) {
	f := newMemFixture(t, Options{})
	foo := composer.NewPackage("vendor/simplesamlphp-module-foo", "v1.0.0", ModuleType)
	foo.Extra = map[string]any{MixedCaseNameKey: "Foo"}
	f.addModule(t, foo, map[string]string{"bar.txt": "bar"})

	require.NoError(t, f.sync.Install(f.event(foo, foo), foo))
	assert.Equal(t, "bar", f.read(t, "/app/modules/Foo/bar.txt"))
	assert.False(t, f.exists(t, "/app/modules/foo"))
}

func TestInstallReplacesStaleDestination(t *testing.T) {
	f := newMemFixture(t, Options{})
	foo := composer.NewPackage("vendor/simplesamlphp-module-foo", "v2.0.0", ModuleType)
	f.addModule(t, foo, map[string]string{"new.txt": "new"})
	require.NoError(t, util.WriteFile(f.syncer.Filesystem(), "/app/modules/foo/old.txt", []byte("old"), 0o644))

	require.NoError(t, f.sync.Install(f.event(foo, foo), foo))
	assert.Equal(t, "new", f.read(t, "/app/modules/foo/new.txt"))
	assert.False(t, f.exists(t, "/app/modules/foo/old.txt"))
}

func TestUninstallIsIdempotent(t *testing.T) {
	f := newMemFixture(t, Options{})
	foo := composer.NewPackage("vendor/simplesamlphp-module-foo", "v1.0.0", ModuleType)

	ev := f.event(foo, foo)
	require.NoError(t, f.sync.Uninstall(ev, foo))
	require.NoError(t, f.sync.Uninstall(ev, foo))
	assert.Len(t, f.progress.lines, 2)
}

func TestHooksSkipOtherPackageTypes(t *testing.T) {
	var logs bytes.Buffer
	f := newMemFixture(t, Options{Logger: log.NewWithOptions(&logs, log.Options{Level: log.DebugLevel})})
	lib := composer.NewPackage("acme/simplesamlphp-module-lib", "1.0.0", "library")

	// No host package in the repository: a skipped package never looks it up.
	ev := Event{Package: lib, Repository: composer.NewRepository("installed.json"), Installer: f.resolver, IO: f.progress}
	require.NoError(t, f.sync.InstallHook(ev))
	require.NoError(t, f.sync.UninstallHook(ev))
	assert.Empty(t, f.progress.lines)
	assert.Contains(t, logs.String(), "skipping non-module package")
}

func TestHooksRequirePackage(t *testing.T) {
	f := newMemFixture(t, Options{})
	require.Error(t, f.sync.InstallHook(Event{}))
	require.Error(t, f.sync.UninstallHook(Event{}))
}

func TestInstallHostNotFound(t *testing.T) {
	f := newMemFixture(t, Options{})
	foo := composer.NewPackage("vendor/simplesamlphp-module-foo", "v1.0.0", ModuleType)
	f.addModule(t, foo, map[string]string{"bar.txt": "bar"})
	ev := Event{Package: foo, Repository: composer.NewRepository("installed.json", foo), Installer: f.resolver, IO: f.progress}

	err := f.sync.InstallHook(ev)
	require.ErrorIs(t, err, ErrHostPackageNotFound)
	assert.False(t, f.exists(t, "/app/modules"))

	err = f.sync.UninstallHook(ev)
	require.ErrorIs(t, err, ErrHostPackageNotFound)
}

func TestInstallInvalidNameWritesNothing(t *testing.T) {
	f := newMemFixture(t, Options{})
	bad := composer.NewPackage("vendor/not-a-module", "v1.0.0", ModuleType)
	f.addModule(t, bad, map[string]string{"bar.txt": "bar"})

	err := f.sync.InstallHook(f.event(bad, bad))
	require.ErrorIs(t, err, ErrMalformedModuleName)
	assert.Contains(t, err.Error(), "vendor/not-a-module")
	assert.False(t, f.exists(t, "/app/modules"))
	require.Len(t, f.progress.lines, 1)
}

func TestInstallRequiresEventCollaborators(t *testing.T) {
	f := newMemFixture(t, Options{})
	foo := composer.NewPackage("vendor/simplesamlphp-module-foo", "v1.0.0", ModuleType)

	require.Error(t, f.sync.Install(Event{Installer: f.resolver}, foo))
	require.Error(t, f.sync.Install(Event{Repository: composer.NewRepository("x")}, foo))
	require.Error(t, f.sync.Install(f.event(nil), nil))
}

func TestInstallSourceMissing(t *testing.T) {
	f := newMemFixture(t, Options{})
	foo := composer.NewPackage("vendor/simplesamlphp-module-foo", "v1.0.0", ModuleType)
	f.resolver[foo.Name] = "/vendor/missing"

	err := f.sync.Install(f.event(foo, foo), foo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "copy module vendor/simplesamlphp-module-foo")
}

func TestInstallCustomModulesDir(t *testing.T) {
	f := newMemFixture(t, Options{ModulesDir: "extra-modules"})
	foo := composer.NewPackage("vendor/simplesamlphp-module-foo", "v1.0.0", ModuleType)
	f.addModule(t, foo, map[string]string{"bar.txt": "bar"})

	require.NoError(t, f.sync.Install(f.event(foo, foo), foo))
	assert.Equal(t, "bar", f.read(t, "/app/extra-modules/foo/bar.txt"))
}

func TestInstallAll(t *testing.T) {
	f := newMemFixture(t, Options{})
	a := composer.NewPackage("acme/simplesamlphp-module-a", "1.0.0", ModuleType)
	b := composer.NewPackage("acme/simplesamlphp-module-b", "2.0.0", ModuleType)
	lib := composer.NewPackage("acme/lib", "1.0.0", "library")
	f.addModule(t, a, map[string]string{"a.txt": "a"})
	f.addModule(t, b, map[string]string{"b.txt": "b"})

	found, err := f.sync.InstallAll(f.event(nil, a, lib, b))
	require.NoError(t, err)
	assert.Equal(t, []*composer.Package{a, b}, found)
	assert.Equal(t, "a", f.read(t, "/app/modules/a/a.txt"))
	assert.Equal(t, "b", f.read(t, "/app/modules/b/b.txt"))
	assert.Len(t, f.progress.lines, 2)
}

func TestInstallAllStopsOnFirstError(t *testing.T) {
	f := newMemFixture(t, Options{})
	bad := composer.NewPackage("acme/bad", "1.0.0", ModuleType)
	good := composer.NewPackage("acme/simplesamlphp-module-good", "1.0.0", ModuleType)
	f.addModule(t, bad, map[string]string{"x.txt": "x"})
	f.addModule(t, good, map[string]string{"g.txt": "g"})

	_, err := f.sync.InstallAll(f.event(nil, bad, good))
	require.ErrorIs(t, err, ErrMalformedModuleName)
	assert.False(t, f.exists(t, "/app/modules/good"))
}

func TestInstallAllContinueOnError(t *testing.T) {
	f := newMemFixture(t, Options{ContinueOnError: true})
	bad := composer.NewPackage("acme/bad", "1.0.0", ModuleType)
	dot := composer.NewPackage("acme/simplesamlphp-module-.dot", "1.0.0", ModuleType)
	good := composer.NewPackage("acme/simplesamlphp-module-good", "1.0.0", ModuleType)
	f.addModule(t, bad, map[string]string{"x.txt": "x"})
	f.addModule(t, good, map[string]string{"g.txt": "g"})

	found, err := f.sync.InstallAll(f.event(nil, bad, dot, good))
	require.Error(t, err)
	assert.Len(t, found, 3)
	assert.ErrorIs(t, err, ErrMalformedModuleName)
	assert.ErrorIs(t, err, ErrLeadingDotNotAllowed)
	var batch *BatchError
	require.ErrorAs(t, err, &batch)
	assert.Equal(t, 3, batch.Total)
	assert.Len(t, batch.Failures, 2)
	assert.Equal(t, "2 of 3 modules failed", batch.Summary())
	assert.Contains(t, err.Error(), "2 of 3 modules failed: unable to install module acme/bad")
	assert.Equal(t, "g", f.read(t, "/app/modules/good/g.txt"))
	assert.Len(t, f.progress.errors, 2)
}

func TestInstallAllHostNotFound(t *testing.T) {
	f := newMemFixture(t, Options{})
	ev := Event{Repository: composer.NewRepository("installed.json"), Installer: f.resolver}

	found, err := f.sync.InstallAll(ev)
	require.ErrorIs(t, err, ErrHostPackageNotFound)
	assert.Nil(t, found)
}

func TestInstallOnDiskWithComposerLayout(t *testing.T) {
	root := t.TempDir()
	vendor := filepath.Join(root, "vendor")
	testutil.WriteInstalledJSON(t, vendor, []testutil.InstalledPackage{
		{Name: "simplesamlphp/simplesamlphp", Version: "v2.1.0", Type: "project", InstallPath: testutil.StrPtr("../simplesamlphp/simplesamlphp")},
		{Name: "vendor/simplesamlphp-module-foo", Version: "v1.0.0", Type: ModuleType, InstallPath: testutil.StrPtr("../vendor/simplesamlphp-module-foo")},
	})
	testutil.WriteFiles(t, vendor, map[string]string{
		"simplesamlphp/simplesamlphp/modules/core/enable": "",
		"vendor/simplesamlphp-module-foo/bar.txt":         "bar",
	})

	project := &composer.Project{Root: root, VendorDir: vendor}
	repo, err := project.Repository()
	require.NoError(t, err)
	foo, ok := repo.FindPackage("vendor/simplesamlphp-module-foo")
	require.True(t, ok)

	s, err := New(Options{Filesystem: fsutil.NewOSSyncer()})
	require.NoError(t, err)
	ev := Event{Package: foo, Repository: repo, Installer: project.InstallationManager()}

	require.NoError(t, s.InstallHook(ev))
	dest := filepath.Join(vendor, "simplesamlphp", "simplesamlphp", "modules", "foo")
	data, err := os.ReadFile(filepath.Join(dest, "bar.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bar", string(data))

	require.NoError(t, s.UninstallHook(ev))
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(vendor, "simplesamlphp", "simplesamlphp", "modules", "core", "enable"))
	require.NoError(t, err)
}

func TestInstallOnDiskFromSymlinkedPathRepository(t *testing.T) {
	root := t.TempDir()
	vendor := filepath.Join(root, "vendor")
	testutil.WriteInstalledJSON(t, vendor, []testutil.InstalledPackage{
		{Name: "simplesamlphp/simplesamlphp", Version: "v2.1.0", Type: "project", InstallPath: testutil.StrPtr("../simplesamlphp/simplesamlphp")},
		{Name: "acme/simplesamlphp-module-foo", Version: "dev-main", Type: ModuleType, InstallPath: testutil.StrPtr("../acme/simplesamlphp-module-foo")},
	})
	testutil.WriteFiles(t, root, map[string]string{
		"vendor/simplesamlphp/simplesamlphp/modules/core/enable": "",
		"packages/foo/bar.txt":                                   "bar",
		"packages/foo/src/Auth.php":                              "<?php",
	})
	link := filepath.Join(vendor, "acme", "simplesamlphp-module-foo")
	require.NoError(t, os.MkdirAll(filepath.Dir(link), 0o755))
	require.NoError(t, os.Symlink("../../packages/foo", link))

	project := &composer.Project{Root: root, VendorDir: vendor}
	repo, err := project.Repository()
	require.NoError(t, err)
	foo, ok := repo.FindPackage("acme/simplesamlphp-module-foo")
	require.True(t, ok)

	s, err := New(Options{Filesystem: fsutil.NewOSSyncer()})
	require.NoError(t, err)
	ev := Event{Package: foo, Repository: repo, Installer: project.InstallationManager()}

	require.NoError(t, s.InstallHook(ev))
	dest := filepath.Join(vendor, "simplesamlphp", "simplesamlphp", "modules", "foo")
	info, err := os.Lstat(dest)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	data, err := os.ReadFile(filepath.Join(dest, "src", "Auth.php"))
	require.NoError(t, err)
	assert.Equal(t, "<?php", string(data))

	preview, err := s.Preview(ev, foo, DefaultDiffMaxLines)
	require.NoError(t, err)
	assert.True(t, preview.InSync())

	require.NoError(t, s.UninstallHook(ev))
	_, err = os.Stat(dest)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "packages", "foo", "bar.txt"))
	require.NoError(t, err)
}
