package modules

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aymanbagabas/go-udiff"

	"github.com/sspmod/sspmod/internal/composer"
	"github.com/sspmod/sspmod/internal/fsutil"
	"github.com/sspmod/sspmod/internal/messages"
)

// DefaultDiffMaxLines is the default maximum number of diff lines shown per file.
const DefaultDiffMaxLines = 40

// Preview describes how a module's destination differs from its installed package.
type Preview struct {
	Package     *composer.Package
	Source      string
	Destination string
	// Installed reports that the destination directory exists.
	Installed bool
	Files     []FileDiff
}

// InSync reports that the destination exists and matches the source exactly.
func (p *Preview) InSync() bool {
	return p.Installed && len(p.Files) == 0
}

// FileDiff is one differing path in a Preview.
type FileDiff struct {
	Path string
	Kind fsutil.ChangeKind
	// UnifiedDiff is set for modified text files. It runs from the module
	// directory's current content to the package's content.
	UnifiedDiff string
	Truncated   bool
	Binary      bool
}

// Preview compares pkg's installed files with its destination without writing anything.
func (s *Synchronizer) Preview(ev Event, pkg *composer.Package, maxLines int) (*Preview, error) {
	if pkg == nil {
		return nil, errors.New(messages.ModulePackageRequired)
	}
	dest, err := s.Destination(ev, pkg)
	if err != nil {
		return nil, err
	}
	src, err := ev.Installer.InstallPath(pkg)
	if err != nil {
		return nil, fmt.Errorf(messages.ModuleInstallPathFmt, pkg, err)
	}
	installed, err := s.fs.Exists(dest)
	if err != nil {
		return nil, fmt.Errorf(messages.ModuleCompareFailedFmt, pkg, dest, err)
	}
	changes, err := s.fs.Compare(src, dest)
	if err != nil {
		return nil, fmt.Errorf(messages.ModuleCompareFailedFmt, pkg, dest, err)
	}

	preview := &Preview{
		Package:     pkg,
		Source:      src,
		Destination: dest,
		Installed:   installed,
		Files:       make([]FileDiff, 0, len(changes)),
	}
	for _, change := range changes {
		preview.Files = append(preview.Files, buildFileDiff(change, maxLines))
	}
	return preview, nil
}

func buildFileDiff(change fsutil.Change, maxLines int) FileDiff {
	diff := FileDiff{Path: change.Path, Kind: change.Kind}
	if change.Kind != fsutil.ChangeModified || (change.Source == nil && change.Dest == nil) {
		return diff
	}
	if !isText(change.Source) || !isText(change.Dest) {
		diff.Binary = true
		return diff
	}
	diff.UnifiedDiff, diff.Truncated = renderTruncatedUnifiedDiff(
		change.Path+" (installed)",
		change.Path+" (package)",
		string(change.Dest),
		string(change.Source),
		maxLines,
	)
	return diff
}

func isText(data []byte) bool {
	return bytes.IndexByte(data, 0) < 0 && utf8.Valid(data)
}

func normalizeDiffMaxLines(value int) int {
	if value <= 0 {
		return DefaultDiffMaxLines
	}
	return value
}

func renderTruncatedUnifiedDiff(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	limit := normalizeDiffMaxLines(maxLines)
	lines := splitDiffLines(udiff.Unified(fromName, toName, fromContent, toContent))
	if len(lines) <= limit {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := append(lines[:limit:limit], fmt.Sprintf(messages.ModuleDiffTruncatedFmt, limit))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" || strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
