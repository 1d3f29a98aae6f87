package messages

// CLI messages for user-facing commands and prompts.
const (
	// RootUse is the CLI command name.
	RootUse = "sspmod"
	// RootShort is the short description for the root command.
	RootShort = "Install SimpleSAMLphp module packages into the host modules directory"
	RootLong  = "sspmod copies Composer packages of type simplesamlphp-module into the modules/\n" +
		"directory of the installed simplesamlphp/simplesamlphp package, and removes them again.\n\n" +
		"Wire it into composer.json scripts, for example:\n" +
		"  \"post-install-cmd\": \"sspmod sync\",\n" +
		"  \"post-update-cmd\": \"sspmod sync\""
	RootVersionFlag        = "Print version and exit"
	RootFlagWorkingDir     = "Use the given directory as the Composer project root"
	RootFlagConfig         = "Path to a .sspmod.toml config file (default <project>/.sspmod.toml)"
	RootFlagVerbose        = "Enable debug logging on stderr"
	RootFlagNoColor        = "Disable colored output"
	RootMissingComposerFmt = "no composer.json found in %s or any parent directory; run from a Composer project or pass --working-dir"
	RootResolvePathFmt     = "resolve path %s: %w"
	RootExpandPathFmt      = "expand path %s: %w"

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	// InstallUse is the install command usage.
	InstallUse   = "install <package>..."
	InstallShort = "Copy the named module packages into the host modules directory"

	// UninstallUse is the uninstall command usage.
	UninstallUse              = "uninstall <package>..."
	UninstallShort            = "Delete the named module packages from the host modules directory"
	UninstallFlagInteractive  = "Ask for confirmation before deleting each module directory"
	UninstallFlagYes          = "Assume yes for every confirmation"
	UninstallRequiresTerminal = "uninstall --interactive requires an interactive terminal; re-run with --yes to skip confirmation"
	UninstallConfirmFmt       = "Delete %s?"
	UninstallConfirmYes       = "Delete"
	UninstallConfirmNo        = "Keep"
	UninstallSkippedFmt       = "  - Skipping %s (not confirmed)\n"
	UninstallFallbackWarnFmt  = "package %s is not in the local repository; deriving its module directory from the name only"

	// SyncUse is the sync command name.
	SyncUse                 = "sync"
	SyncShort               = "Copy every installed module package into the host modules directory"
	SyncFlagContinueOnError = "Keep going after a module fails and report every failure at the end"
	SyncNoModules           = "No SimpleSAMLphp module packages installed."

	// ListUse is the list command name.
	ListUse               = "list"
	ListShort             = "List installed module packages and their sync status"
	ListHeaderPackage     = "package"
	ListHeaderVersion     = "version"
	ListHeaderDestination = "destination"
	ListHeaderStatus      = "status"
	ListStatusInSync      = "in sync"
	ListStatusMissing     = "missing"
	ListStatusDrifted     = "drifted"
	ListStatusInvalid     = "invalid"

	// DiffUse is the diff command usage.
	DiffUse            = "diff <package>"
	DiffShort          = "Preview what the next install would change for a module package"
	DiffFlagLines      = "Maximum number of diff lines shown per file"
	DiffInSyncFmt      = "%s is in sync with %s\n"
	DiffAddedFmt       = "+ %s\n"
	DiffRemovedFmt     = "- %s\n"
	DiffModifiedFmt    = "~ %s\n"
	DiffBinaryFmt      = "~ %s (binary content differs)\n"
	DiffDestMissingFmt = "%s is not installed yet (destination %s does not exist)\n"

	// ScriptUse is the deprecated script command usage.
	ScriptUse        = "script <name>"
	ScriptShort      = "Legacy Composer script entry point"
	ScriptDeprecated = "legacy Composer script hooks were removed; use install, uninstall, or sync"
	ScriptNotice     = "<error>This script is not longer available</error>. Please read <info>https://github.com/sgomez/simplesamlphp-base/blob/master/UPDATE.md</info>."

	// PackageNotFoundFmt indicates a package argument is not in the local repository.
	PackageNotFoundFmt = "package %s is not installed in %s"
	NotAModuleFmt      = "package %s has type %q, not %q; skipping"
)
