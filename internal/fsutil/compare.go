package fsutil

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-git/go-billy/v5/util"

	"github.com/sspmod/sspmod/internal/messages"
)

// ChangeKind classifies how a path differs between a mirror source and destination.
type ChangeKind string

const (
	// ChangeAdded marks a path that exists only in the source.
	ChangeAdded ChangeKind = "added"
	// ChangeRemoved marks a path that exists only in the destination.
	ChangeRemoved ChangeKind = "removed"
	// ChangeModified marks a path whose content, link target, or kind differs.
	ChangeModified ChangeKind = "modified"
)

// Change is one difference reported by Compare. Path is slash-separated and
// relative to the compared roots.
type Change struct {
	Path string
	Kind ChangeKind
	// Source and Dest hold file content for modified regular files.
	Source []byte
	Dest   []byte
}

// Compare reports what Mirror(src, dst) would change, sorted by path.
// A missing dst reports every source entry as added. A symlinked src is
// followed as Mirror follows it.
func (s *Syncer) Compare(src string, dst string) ([]Change, error) {
	if s.fs == nil {
		return nil, errors.New(messages.FsutilFilesystemRequired)
	}
	srcRoot, err := s.resolveLinks(src)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		srcRoot = src
	case err != nil:
		return nil, fmt.Errorf(messages.FsutilStatSourceFmt, src, err)
	}
	srcEntries, err := s.snapshot(srcRoot)
	if err != nil {
		return nil, err
	}
	dstEntries, err := s.snapshot(dst)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for rel, srcEntry := range srcEntries {
		dstEntry, ok := dstEntries[rel]
		if !ok {
			changes = append(changes, Change{Path: rel, Kind: ChangeAdded})
			continue
		}
		if srcEntry.kind != dstEntry.kind || srcEntry.link != dstEntry.link {
			changes = append(changes, Change{Path: rel, Kind: ChangeModified})
			continue
		}
		if srcEntry.kind != kindFile {
			continue
		}
		srcData, err := util.ReadFile(s.fs, srcEntry.path)
		if err != nil {
			return nil, fmt.Errorf(messages.FsutilReadFileFmt, srcEntry.path, err)
		}
		dstData, err := util.ReadFile(s.fs, dstEntry.path)
		if err != nil {
			return nil, fmt.Errorf(messages.FsutilReadFileFmt, dstEntry.path, err)
		}
		if !bytes.Equal(srcData, dstData) {
			changes = append(changes, Change{Path: rel, Kind: ChangeModified, Source: srcData, Dest: dstData})
		}
	}
	for rel := range dstEntries {
		if _, ok := srcEntries[rel]; !ok {
			changes = append(changes, Change{Path: rel, Kind: ChangeRemoved})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes, nil
}

type snapshotEntry struct {
	path string
	kind entryKind
	link string
}

// snapshot indexes every entry below root by slash-separated relative path.
// The root itself is not included; a missing root yields an empty index.
func (s *Syncer) snapshot(root string) (map[string]snapshotEntry, error) {
	entries := map[string]snapshotEntry{}
	if _, err := s.fs.Lstat(root); errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	err := util.Walk(s.fs, root, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		entry := snapshotEntry{path: path, kind: kindOf(info)}
		if entry.kind == kindLink {
			target, err := s.fs.Readlink(path)
			if err != nil {
				return err
			}
			entry.link = target
		}
		entries[filepath.ToSlash(rel)] = entry
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(messages.FsutilWalkFmt, root, err)
	}
	return entries, nil
}
