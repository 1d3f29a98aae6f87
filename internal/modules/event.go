package modules

import (
	"github.com/sspmod/sspmod/internal/composer"
	"github.com/sspmod/sspmod/internal/fsutil"
)

// InstallPathResolver maps a package to the directory holding its files.
type InstallPathResolver interface {
	InstallPath(pkg *composer.Package) (string, error)
}

// Filesystem performs the recursive copy and delete operations.
type Filesystem interface {
	Mirror(src string, dst string) error
	RemoveTree(path string) error
	Exists(path string) (bool, error)
	Compare(src string, dst string) ([]fsutil.Change, error)
}

// Progress receives human-readable progress lines. Lines may carry <info>,
// <comment>, and <error> tags for the console writer to style.
type Progress interface {
	Write(msg string)
	WriteError(msg string)
}

// Event is the context of one package operation.
type Event struct {
	// Package is the package being installed or removed. Unused by InstallAll.
	Package *composer.Package
	// Repository is the resolved dependency graph.
	Repository Repository
	// Installer resolves install paths.
	Installer InstallPathResolver
	// IO receives progress output. Nil discards it.
	IO Progress
}

func (e Event) progress() Progress {
	if e.IO == nil {
		return discardProgress{}
	}
	return e.IO
}

type discardProgress struct{}

func (discardProgress) Write(string)      {}
func (discardProgress) WriteError(string) {}
