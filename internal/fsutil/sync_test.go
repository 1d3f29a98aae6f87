package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMemFiles(t *testing.T, fsys billy.Filesystem, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, util.WriteFile(fsys, path, []byte(content), 0o644))
	}
}

func readMemFile(t *testing.T, fsys billy.Filesystem, path string) string {
	t.Helper()
	data, err := util.ReadFile(fsys, path)
	require.NoError(t, err)
	return string(data)
}

func TestMirrorCreatesDestination(t *testing.T) {
	fsys := memfs.New()
	writeMemFiles(t, fsys, map[string]string{
		"/src/bar.txt":          "bar",
		"/src/lib/Auth/Foo.php": "<?php",
		"/src/templates/a.twig": "{{ a }}",
	})

	s := NewSyncer(fsys)
	require.NoError(t, s.Mirror("/src", "/app/modules/foo"))

	assert.Equal(t, "bar", readMemFile(t, fsys, "/app/modules/foo/bar.txt"))
	assert.Equal(t, "<?php", readMemFile(t, fsys, "/app/modules/foo/lib/Auth/Foo.php"))
	assert.Equal(t, "{{ a }}", readMemFile(t, fsys, "/app/modules/foo/templates/a.twig"))
}

func TestMirrorMakesExactCopy(t *testing.T) {
	fsys := memfs.New()
	writeMemFiles(t, fsys, map[string]string{
		"/src/keep.txt":      "new",
		"/src/dir/inner.txt": "inner",
		"/src/swap":          "now a file",
		"/dst/keep.txt":      "old",
		"/dst/stale.txt":     "stale",
		"/dst/gone/deep.txt": "deep",
		"/dst/swap/x.txt":    "was a dir",
		"/dst/dir/extra.txt": "extra",
	})

	s := NewSyncer(fsys)
	require.NoError(t, s.Mirror("/src", "/dst"))

	assert.Equal(t, "new", readMemFile(t, fsys, "/dst/keep.txt"))
	assert.Equal(t, "inner", readMemFile(t, fsys, "/dst/dir/inner.txt"))
	assert.Equal(t, "now a file", readMemFile(t, fsys, "/dst/swap"))

	for _, path := range []string{"/dst/stale.txt", "/dst/gone", "/dst/dir/extra.txt"} {
		exists, err := s.Exists(path)
		require.NoError(t, err)
		assert.False(t, exists, "%s should have been pruned", path)
	}

	changes, err := s.Compare("/src", "/dst")
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestMirrorReplacesFileDestination(t *testing.T) {
	fsys := memfs.New()
	writeMemFiles(t, fsys, map[string]string{
		"/src/a.txt": "a",
		"/dst":       "not a directory",
	})

	require.NoError(t, NewSyncer(fsys).Mirror("/src", "/dst"))
	assert.Equal(t, "a", readMemFile(t, fsys, "/dst/a.txt"))
}

func TestMirrorCopiesSymlinks(t *testing.T) {
	fsys := memfs.New()
	writeMemFiles(t, fsys, map[string]string{"/src/real.txt": "real"})
	require.NoError(t, fsys.Symlink("real.txt", "/src/link.txt"))

	s := NewSyncer(fsys)
	require.NoError(t, s.Mirror("/src", "/dst"))

	target, err := fsys.Readlink("/dst/link.txt")
	require.NoError(t, err)
	assert.Equal(t, "real.txt", target)

	// A second mirror over an identical link is a no-op.
	require.NoError(t, s.Mirror("/src", "/dst"))
}

func TestMirrorSourceErrors(t *testing.T) {
	fsys := memfs.New()
	writeMemFiles(t, fsys, map[string]string{"/file.txt": "x"})
	s := NewSyncer(fsys)

	err := s.Mirror("/missing", "/dst")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stat mirror source /missing")

	err = s.Mirror("/file.txt", "/dst")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not a directory")
}

func TestSyncerRequiresFilesystem(t *testing.T) {
	s := NewSyncer(nil)
	require.Error(t, s.Mirror("/a", "/b"))
	require.Error(t, s.RemoveTree("/a"))
	_, err := s.Compare("/a", "/b")
	require.Error(t, err)
}

func TestRemoveTreeIsIdempotent(t *testing.T) {
	fsys := memfs.New()
	writeMemFiles(t, fsys, map[string]string{"/app/modules/foo/a/b.txt": "b"})
	s := NewSyncer(fsys)

	require.NoError(t, s.RemoveTree("/app/modules/foo"))
	exists, err := s.Exists("/app/modules/foo")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.RemoveTree("/app/modules/foo"))
}

func TestOSSyncerMirrorAndRemove(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	dst := filepath.Join(root, "app", "modules", "foo")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "bin"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "bar.txt"), []byte("bar"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "bin", "run.sh"), []byte("#!/bin/sh\n"), 0o755))

	s := NewOSSyncer()
	require.NoError(t, s.Mirror(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "bar.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bar", string(data))

	info, err := os.Stat(filepath.Join(dst, "bin", "run.sh"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	require.NoError(t, s.RemoveTree(dst))
	_, err = os.Stat(dst)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, s.RemoveTree(dst))
}

func TestOSSyncerMirrorFollowsSymlinkedSource(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "packages", "foo")
	require.NoError(t, os.MkdirAll(filepath.Join(pkgDir, "lib"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "bar.txt"), []byte("bar"), 0o644))
	require.NoError(t, os.Symlink("../bar.txt", filepath.Join(pkgDir, "lib", "bar.txt")))

	src := filepath.Join(root, "vendor", "acme", "simplesamlphp-module-foo")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.Symlink("../../packages/foo", src))
	dst := filepath.Join(root, "vendor", "simplesamlphp", "simplesamlphp", "modules", "foo")

	s := NewOSSyncer()
	require.NoError(t, s.Mirror(src, dst))

	info, err := os.Lstat(dst)
	require.NoError(t, err)
	assert.True(t, info.IsDir(), "destination should be a real directory, got %v", info.Mode())

	data, err := os.ReadFile(filepath.Join(dst, "bar.txt"))
	require.NoError(t, err)
	assert.Equal(t, "bar", string(data))

	target, err := os.Readlink(filepath.Join(dst, "lib", "bar.txt"))
	require.NoError(t, err)
	assert.Equal(t, "../bar.txt", target)

	changes, err := s.Compare(src, dst)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestMirrorReplacesSymlinkedDestination(t *testing.T) {
	fsys := memfs.New()
	writeMemFiles(t, fsys, map[string]string{"/src/bar.txt": "bar"})
	require.NoError(t, fsys.Symlink("/src", "/dst"))

	s := NewSyncer(fsys)
	require.NoError(t, s.Mirror("/src", "/dst"))

	info, err := fsys.Lstat("/dst")
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, "bar", readMemFile(t, fsys, "/dst/bar.txt"))
}

func TestMirrorSymlinkLoop(t *testing.T) {
	fsys := memfs.New()
	require.NoError(t, fsys.Symlink("/b", "/a"))
	require.NoError(t, fsys.Symlink("/a", "/b"))

	err := NewSyncer(fsys).Mirror("/a", "/dst")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too many levels of symbolic links")
}
