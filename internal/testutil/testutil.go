// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// InstalledPackage describes one entry written by WriteInstalledJSON.
// InstallPath is written verbatim; use nil for a metapackage and "" to omit the key.
type InstalledPackage struct {
	Name        string
	Version     string
	Type        string
	Extra       map[string]any
	InstallPath *string
}

// StrPtr returns a pointer to v.
func StrPtr(v string) *string {
	return &v
}

// WriteFiles writes files (relative path to content) under dir, creating parents.
// t is the active test; dir is the root directory.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
	}
}

// WriteInstalledJSON writes a Composer 2 installed.json to vendorDir/composer.
// t is the active test; vendorDir is the project's vendor directory.
func WriteInstalledJSON(t *testing.T, vendorDir string, packages []InstalledPackage) string {
	t.Helper()
	entries := make([]map[string]any, 0, len(packages))
	for _, pkg := range packages {
		entry := map[string]any{
			"name":    pkg.Name,
			"version": pkg.Version,
			"type":    pkg.Type,
		}
		if pkg.Extra != nil {
			entry["extra"] = pkg.Extra
		}
		if pkg.InstallPath == nil {
			entry["install-path"] = nil
		} else if *pkg.InstallPath != "" {
			entry["install-path"] = *pkg.InstallPath
		}
		entries = append(entries, entry)
	}
	data, err := json.MarshalIndent(map[string]any{
		"packages":          entries,
		"dev":               true,
		"dev-package-names": []string{},
	}, "", "    ")
	if err != nil {
		t.Fatalf("marshal installed.json: %v", err)
	}
	dir := filepath.Join(vendorDir, "composer")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	path := filepath.Join(dir, "installed.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write installed.json: %v", err)
	}
	return path
}

// WithWorkingDir runs fn with dir as the current working directory and restores the previous directory.
// t is the active test; dir is the temporary working directory for fn.
func WithWorkingDir(t *testing.T, dir string, fn func()) {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() {
		if err := os.Chdir(cwd); err != nil {
			t.Fatalf("restore chdir: %v", err)
		}
	}()
	fn()
}
