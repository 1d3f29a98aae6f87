// Package fsutil mirrors and removes directory trees on a go-billy filesystem.
package fsutil

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/sspmod/sspmod/internal/messages"
)

const (
	dirPerm     = 0o755
	maxLinkHops = 40
)

// Syncer performs recursive mirror and delete operations. Paths are absolute.
type Syncer struct {
	fs billy.Filesystem
}

// NewSyncer returns a Syncer over fsys.
func NewSyncer(fsys billy.Filesystem) *Syncer {
	return &Syncer{fs: fsys}
}

// NewOSSyncer returns a Syncer over the host filesystem.
func NewOSSyncer() *Syncer {
	return NewSyncer(osfs.New(string(filepath.Separator)))
}

// Filesystem returns the underlying filesystem.
//
//nolint:ireturn // callers need the billy interface to read files back.
func (s *Syncer) Filesystem() billy.Filesystem {
	return s.fs
}

// Mirror makes dst an exact recursive copy of src. dst is created when absent;
// conflicting entries are overwritten and entries absent from src are deleted.
// A symlinked src is followed; links below it are copied as links.
// A failure midway leaves dst partially updated.
func (s *Syncer) Mirror(src string, dst string) error {
	if s.fs == nil {
		return errors.New(messages.FsutilFilesystemRequired)
	}
	root, err := s.resolveLinks(src)
	if err != nil {
		return fmt.Errorf(messages.FsutilStatSourceFmt, src, err)
	}
	info, err := s.fs.Lstat(root)
	if err != nil {
		return fmt.Errorf(messages.FsutilStatSourceFmt, src, err)
	}
	if !info.IsDir() {
		return fmt.Errorf(messages.FsutilSourceNotDirFmt, src)
	}

	if err := s.prune(root, dst); err != nil {
		return err
	}

	err = util.Walk(s.fs, root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		target := s.fs.Join(dst, rel)
		switch {
		case info.Mode()&fs.ModeSymlink != 0:
			return s.copyLink(path, target)
		case info.IsDir():
			if err := s.fs.MkdirAll(target, dirPermOf(info)); err != nil {
				return fmt.Errorf(messages.FsutilCreateDirFmt, target, err)
			}
			return nil
		default:
			return s.copyFile(path, target, info.Mode().Perm())
		}
	})
	if err != nil {
		return fmt.Errorf(messages.FsutilWalkFmt, src, err)
	}
	return nil
}

// RemoveTree deletes path and everything below it. A missing path is not an error.
func (s *Syncer) RemoveTree(path string) error {
	if s.fs == nil {
		return errors.New(messages.FsutilFilesystemRequired)
	}
	if err := util.RemoveAll(s.fs, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(messages.FsutilRemoveFmt, path, err)
	}
	return nil
}

// Exists reports whether path is present.
func (s *Syncer) Exists(path string) (bool, error) {
	_, err := s.fs.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// resolveLinks follows path while it names a symlink and returns the first
// path that does not. Relative targets resolve against the link's directory.
func (s *Syncer) resolveLinks(path string) (string, error) {
	for range maxLinkHops {
		info, err := s.fs.Lstat(path)
		if err != nil {
			return "", err
		}
		if info.Mode()&fs.ModeSymlink == 0 {
			return path, nil
		}
		target, err := s.fs.Readlink(path)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(path), target)
		}
		path = filepath.Clean(target)
	}
	return "", fmt.Errorf(messages.FsutilLinkLoopFmt, path)
}

// prune removes entries under dst that are missing from src or have a different kind.
func (s *Syncer) prune(src string, dst string) error {
	dstInfo, err := s.fs.Lstat(dst)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf(messages.FsutilRemoveFmt, dst, err)
	}
	if kindOf(dstInfo) != kindDir {
		return s.remove(dst)
	}

	entries, err := s.fs.ReadDir(dst)
	if err != nil {
		return fmt.Errorf(messages.FsutilReadDirFmt, dst, err)
	}
	for _, entry := range entries {
		dstPath := s.fs.Join(dst, entry.Name())
		srcPath := s.fs.Join(src, entry.Name())
		srcInfo, err := s.fs.Lstat(srcPath)
		if errors.Is(err, fs.ErrNotExist) {
			if err := s.remove(dstPath); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return fmt.Errorf(messages.FsutilStatSourceFmt, srcPath, err)
		}
		entryInfo, err := s.fs.Lstat(dstPath)
		if err != nil {
			return fmt.Errorf(messages.FsutilRemoveFmt, dstPath, err)
		}
		if kindOf(srcInfo) != kindOf(entryInfo) {
			if err := s.remove(dstPath); err != nil {
				return err
			}
			continue
		}
		if kindOf(entryInfo) == kindDir {
			if err := s.prune(srcPath, dstPath); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Syncer) remove(path string) error {
	if err := util.RemoveAll(s.fs, path); err != nil {
		return fmt.Errorf(messages.FsutilRemoveFmt, path, err)
	}
	return nil
}

func (s *Syncer) copyFile(src string, dst string, perm os.FileMode) (err error) {
	in, err := s.fs.Open(src)
	if err != nil {
		return fmt.Errorf(messages.FsutilCopyFileFmt, src, dst, err)
	}
	defer func() { _ = in.Close() }()

	out, err := s.fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf(messages.FsutilCopyFileFmt, src, dst, err)
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf(messages.FsutilCopyFileFmt, src, dst, closeErr)
		}
	}()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf(messages.FsutilCopyFileFmt, src, dst, err)
	}
	return nil
}

func (s *Syncer) copyLink(src string, dst string) error {
	target, err := s.fs.Readlink(src)
	if err != nil {
		return fmt.Errorf(messages.FsutilCopyLinkFmt, src, dst, err)
	}
	if current, err := s.fs.Readlink(dst); err == nil && current == target {
		return nil
	}
	if err := s.fs.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf(messages.FsutilCopyLinkFmt, src, dst, err)
	}
	if err := s.fs.Symlink(target, dst); err != nil {
		return fmt.Errorf(messages.FsutilCopyLinkFmt, src, dst, err)
	}
	return nil
}

type entryKind int

const (
	kindFile entryKind = iota
	kindDir
	kindLink
)

func kindOf(info os.FileInfo) entryKind {
	switch {
	case info.Mode()&fs.ModeSymlink != 0:
		return kindLink
	case info.IsDir():
		return kindDir
	default:
		return kindFile
	}
}

func dirPermOf(info os.FileInfo) os.FileMode {
	if perm := info.Mode().Perm(); perm != 0 {
		return perm
	}
	return dirPerm
}
