package messages

// Config messages for configuration loading and validation.
const (
	// ConfigMissingFileFmt formats missing config file errors.
	ConfigMissingFileFmt      = "missing config file %s: %w"
	ConfigReadFailedFmt       = "failed to read config file %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s contains unrecognized keys: %v."
	ConfigValidationGuidance  = "See the README for the supported .sspmod.toml keys."

	ConfigHostPackageRequiredFmt = "%s: host.package is required"
	ConfigHostPackageInvalidFmt  = "%s: host.package %q must be a lowercase vendor/name package name"
	ConfigModulesDirRequiredFmt  = "%s: host.modules_dir is required"
	ConfigModulesDirInvalidFmt   = "%s: host.modules_dir %q must be a relative path inside the host package"
	ConfigModuleTypeRequiredFmt  = "%s: modules.type is required"
	ConfigVendorDirInvalidFmt    = "%s: composer.vendor_dir %q must not be blank"
	ConfigOptionInvalidFmt       = "%s: %s %q must be one of %s"
)
