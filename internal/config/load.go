package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"github.com/sspmod/sspmod/internal/messages"
)

// ErrConfigValidation is a sentinel that wraps config validation failures
// (as opposed to TOML syntax or filesystem errors).
var ErrConfigValidation = errors.New("config validation failed")

// LoadProjectConfig returns the config for the project at root.
// override names an explicit config file and may start with ~. Without an override
// a missing <root>/.sspmod.toml yields DefaultConfig.
func LoadProjectConfig(root string, override string) (*Config, error) {
	if strings.TrimSpace(override) != "" {
		path, err := homedir.Expand(override)
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigReadFailedFmt, override, err)
		}
		return LoadConfig(path)
	}

	path := DefaultPaths(root).ConfigPath
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigReadFailedFmt, path, err)
	}
	return ParseConfig(data, path)
}

// LoadConfig reads the config file at path and validates it.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses and validates config TOML data from a source identifier.
// Keys absent from data keep their defaults. source is used in error messages.
func ParseConfig(data []byte, source string) (*Config, error) {
	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w "+messages.ConfigValidationGuidance, ErrConfigValidation, err)
	}
	if cfg.Composer.VendorDir != "" {
		expanded, err := homedir.Expand(cfg.Composer.VendorDir)
		if err != nil {
			return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
		}
		cfg.Composer.VendorDir = expanded
	}
	return cfg, nil
}

// decodeStrict re-decodes the TOML data with strict unknown-field rejection.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}
