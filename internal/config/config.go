// Package config loads the optional .sspmod.toml project configuration.
package config

// Sync error policies.
const (
	OnErrorAbort    = "abort"
	OnErrorContinue = "continue"
)

// Output color modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config is the full .sspmod.toml document.
type Config struct {
	Host     HostConfig     `toml:"host"`
	Modules  ModulesConfig  `toml:"modules"`
	Composer ComposerConfig `toml:"composer"`
	Sync     SyncConfig     `toml:"sync"`
	Output   OutputConfig   `toml:"output"`
}

// HostConfig identifies the package that owns the modules directory.
type HostConfig struct {
	Package    string `toml:"package"`
	ModulesDir string `toml:"modules_dir"`
}

// ModulesConfig selects which packages are modules.
type ModulesConfig struct {
	Type string `toml:"type"`
}

// ComposerConfig overrides Composer project discovery.
type ComposerConfig struct {
	// VendorDir replaces the vendor directory from composer.json when set.
	VendorDir string `toml:"vendor_dir"`
}

// SyncConfig controls batch installs.
type SyncConfig struct {
	OnError string `toml:"on_error"`
}

// OutputConfig controls console rendering.
type OutputConfig struct {
	Color string `toml:"color"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Host: HostConfig{
			Package:    "simplesamlphp/simplesamlphp",
			ModulesDir: "modules",
		},
		Modules: ModulesConfig{Type: "simplesamlphp-module"},
		Sync:    SyncConfig{OnError: OnErrorAbort},
		Output:  OutputConfig{Color: ColorAuto},
	}
}

// ContinueOnError reports whether sync should attempt every module.
func (c *Config) ContinueOnError() bool {
	return c.Sync.OnError == OnErrorContinue
}
