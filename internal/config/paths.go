package config

import "path/filepath"

// FileName is the project config file name.
const FileName = ".sspmod.toml"

// Paths holds resolved paths for the config file.
type Paths struct {
	Root       string
	ConfigPath string
}

// DefaultPaths returns the default config paths for a project root.
func DefaultPaths(root string) Paths {
	return Paths{
		Root:       root,
		ConfigPath: filepath.Join(root, FileName),
	}
}
