package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"github.com/sspmod/sspmod/internal/composer"
	"github.com/sspmod/sspmod/internal/config"
	"github.com/sspmod/sspmod/internal/console"
	"github.com/sspmod/sspmod/internal/fsutil"
	"github.com/sspmod/sspmod/internal/messages"
	"github.com/sspmod/sspmod/internal/modules"
	"github.com/sspmod/sspmod/internal/terminal"
)

var (
	getwd      = os.Getwd
	isTerminal = terminal.IsInteractive
	newSyncer  = fsutil.NewOSSyncer
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	workingDir string
	configPath string
	verbose    bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.Flags().BoolP("version", "V", false, messages.RootVersionFlag)

	persistent := cmd.PersistentFlags()
	persistent.StringVarP(&flags.workingDir, "working-dir", "d", "", messages.RootFlagWorkingDir)
	persistent.StringVar(&flags.configPath, "config", "", messages.RootFlagConfig)
	persistent.BoolVarP(&flags.verbose, "verbose", "v", false, messages.RootFlagVerbose)
	persistent.BoolVar(&flags.noColor, "no-color", false, messages.RootFlagNoColor)

	cmd.AddCommand(
		newInstallCmd(flags),
		newUninstallCmd(flags),
		newSyncCmd(flags),
		newListCmd(flags),
		newDiffCmd(flags),
		newScriptCmd(flags),
	)
	return cmd
}

// session is the per-invocation project state shared by the subcommands.
type session struct {
	root     string
	cfg      *config.Config
	project  *composer.Project
	repo     *composer.Repository
	sync     *modules.Synchronizer
	console  *console.Writer
	logger   *log.Logger
	useColor bool
}

// sessionOptions adjusts a session for one command.
type sessionOptions struct {
	continueOnError bool
}

// openSession resolves the project root, loads config and the local repository,
// and builds the synchronizer.
func (g *globalFlags) openSession(cmd *cobra.Command, opts sessionOptions) (*session, error) {
	logger := g.newLogger(cmd.ErrOrStderr())

	root, err := resolveProjectRoot(g.workingDir)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadProjectConfig(root, g.configPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded config", "root", root, "host", cfg.Host.Package, "modules_dir", cfg.Host.ModulesDir)

	project, err := composer.LoadProject(root, cfg.Composer.VendorDir)
	if err != nil {
		return nil, err
	}
	repo, err := project.Repository()
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded local repository", "path", repo.Path(), "packages", len(repo.Packages()))

	sync, err := modules.New(modules.Options{
		Filesystem:      newSyncer(),
		Logger:          logger,
		HostPackage:     cfg.Host.Package,
		ModuleType:      cfg.Modules.Type,
		ModulesDir:      cfg.Host.ModulesDir,
		ContinueOnError: opts.continueOnError || cfg.ContinueOnError(),
	})
	if err != nil {
		return nil, err
	}

	useColor := console.ColorEnabled(cfg.Output.Color, cmd.OutOrStdout(), g.noColor)
	return &session{
		root:     root,
		cfg:      cfg,
		project:  project,
		repo:     repo,
		sync:     sync,
		console:  console.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), useColor),
		logger:   logger,
		useColor: useColor,
	}, nil
}

func (g *globalFlags) newLogger(w io.Writer) *log.Logger {
	level := log.WarnLevel
	if g.verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{Level: level, Prefix: messages.RootUse})
}

// event builds the modules.Event for pkg.
func (s *session) event(pkg *composer.Package) modules.Event {
	return modules.Event{
		Package:    pkg,
		Repository: s.repo,
		Installer:  s.project.InstallationManager(),
		IO:         s.console,
	}
}

// lookup returns the installed package named name.
func (s *session) lookup(name string) (*composer.Package, error) {
	pkg, ok := s.repo.FindPackage(name)
	if !ok {
		return nil, fmt.Errorf(messages.PackageNotFoundFmt, name, s.repo.Path())
	}
	return pkg, nil
}

// resolveProjectRoot returns the Composer project root. An explicit working dir is
// used as given; otherwise the nearest ancestor of the cwd holding composer.json wins.
func resolveProjectRoot(workingDir string) (string, error) {
	if strings.TrimSpace(workingDir) != "" {
		expanded, err := homedir.Expand(workingDir)
		if err != nil {
			return "", fmt.Errorf(messages.RootExpandPathFmt, workingDir, err)
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return "", fmt.Errorf(messages.RootResolvePathFmt, expanded, err)
		}
		return abs, nil
	}

	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	root, found, err := findComposerRoot(cwd)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf(messages.RootMissingComposerFmt, cwd)
	}
	return root, nil
}

// findComposerRoot walks up from start to the first directory containing composer.json.
func findComposerRoot(start string) (string, bool, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, fmt.Errorf(messages.RootResolvePathFmt, start, err)
	}
	for {
		info, err := os.Stat(filepath.Join(dir, composer.ManifestFile))
		if err == nil && !info.IsDir() {
			return dir, true, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
