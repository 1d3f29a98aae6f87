package messages

// System messages for composer metadata and filesystem operations.
const (
	// ComposerReadManifestFmt formats composer.json read errors.
	ComposerReadManifestFmt       = "read %s: %w"
	ComposerInvalidManifestFmt    = "invalid composer.json %s: %w"
	ComposerInstalledMissingFmt   = "%s does not exist; run composer install first: %w"
	ComposerReadInstalledFmt      = "read %s: %w"
	ComposerInvalidInstalledFmt   = "invalid installed.json %s: %w"
	ComposerPackageNameRequired   = "installed.json entry %d has no name"
	ComposerNoInstallPathFmt      = "package %s has no install path: %w"
	ComposerVendorDirRequired     = "vendor directory is required"
	ComposerResolveInstallPathFmt = "resolve install path %s: %w"

	// FsutilFilesystemRequired indicates a syncer was built without a filesystem.
	FsutilFilesystemRequired = "filesystem is required"
	FsutilStatSourceFmt      = "stat mirror source %s: %w"
	FsutilSourceNotDirFmt    = "mirror source %s is not a directory"
	FsutilCreateDirFmt       = "create directory %s: %w"
	FsutilCopyFileFmt        = "copy %s to %s: %w"
	FsutilCopyLinkFmt        = "copy symlink %s to %s: %w"
	FsutilRemoveFmt          = "remove %s: %w"
	FsutilReadDirFmt         = "read directory %s: %w"
	FsutilWalkFmt            = "walk %s: %w"
	FsutilReadFileFmt        = "read %s: %w"
	FsutilLinkLoopFmt        = "too many levels of symbolic links at %s"
)
