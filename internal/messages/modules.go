package messages

// Module synchronization messages.
//
// The Module*Fmt error formats take the package display name first so every
// validation failure names the offending package.
const (
	// ModuleCopyingFmt is the progress line written before a module is mirrored.
	ModuleCopyingFmt = "  - Copying <info>%s</info> (<comment>%s</comment>) to modules"
	// ModuleDeletingFmt is the progress line written before a module is removed.
	ModuleDeletingFmt = "  - Deleting <info>%s</info> (<comment>%s</comment>) from modules"

	ModuleHostNotFoundFmt = "%s package not found in composer repository: %w"

	ModuleMalformedNameFmt    = "unable to install module %s, package name must be on the form \"VENDOR/simplesamlphp-module-MODULENAME\": %w"
	ModuleInvalidDirNameFmt   = "unable to install module %s, module name must only contain characters from a-z, 0-9, \"_\", \".\" and \"-\": %w"
	ModuleLeadingDotFmt       = "unable to install module %s, module name cannot start with \".\": %w"
	ModuleOverrideTypeFmt     = "unable to install module %s, %q must be a string: %w"
	ModuleOverrideMismatchFmt = "unable to install module %s, %q must match the package name except that it can contain uppercase letters: %w"
	ModuleHostInstallPathFmt  = "resolve install path of host package %s: %w"
	ModuleInstallPathFmt      = "resolve install path of module %s: %w"
	ModuleMirrorFailedFmt     = "copy module %s to %s: %w"
	ModuleRemoveFailedFmt     = "delete module %s from %s: %w"
	ModuleCompareFailedFmt    = "compare module %s with %s: %w"
	ModulePackageRequired     = "event has no package"
	ModuleRepositoryRequired  = "event has no repository"
	ModuleInstallerRequired   = "event has no install path resolver"
	ModuleFilesystemRequired  = "module synchronizer requires a filesystem"
	ModuleDiffTruncatedFmt    = "... (truncated to %d lines; rerun with --diff-lines <n> to see more)"
	ModuleBatchFailedFmt      = "%d of %d modules failed"
)
