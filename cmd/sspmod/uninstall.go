package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sspmod/sspmod/internal/composer"
	"github.com/sspmod/sspmod/internal/messages"
)

// fallbackVersion stands in for the version of a package that is no longer installed.
const fallbackVersion = "unknown"

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// confirmFunc asks a yes/no question; tests replace it.
var confirmFunc = confirmWithForm

func newUninstallCmd(flags *globalFlags) *cobra.Command {
	var interactive bool
	var yes bool

	cmd := &cobra.Command{
		Use:   messages.UninstallUse,
		Short: messages.UninstallShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := interactive && !yes
			if prompt && !isTerminal() {
				return errors.New(messages.UninstallRequiresTerminal)
			}
			s, err := flags.openSession(cmd, sessionOptions{})
			if err != nil {
				return err
			}
			warnColor := color.New(color.FgYellow)
			for _, name := range args {
				pkg, ok := s.repo.FindPackage(name)
				if !ok {
					_, _ = warnColor.Fprintln(cmd.ErrOrStderr(), fmt.Sprintf(messages.UninstallFallbackWarnFmt, name))
					pkg = composer.NewPackage(name, fallbackVersion, s.sync.ModuleType())
				}
				if pkg.Type != s.sync.ModuleType() {
					_, _ = warnColor.Fprintln(cmd.ErrOrStderr(), fmt.Sprintf(messages.NotAModuleFmt, pkg, pkg.Type, s.sync.ModuleType()))
					continue
				}
				if prompt {
					dest, err := s.sync.Destination(s.event(pkg), pkg)
					if err != nil {
						return err
					}
					confirmed, err := confirmFunc(fmt.Sprintf(messages.UninstallConfirmFmt, dest))
					if err != nil {
						return err
					}
					if !confirmed {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), messages.UninstallSkippedFmt, pkg)
						continue
					}
				}
				if err := s.sync.UninstallHook(s.event(pkg)); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, messages.UninstallFlagInteractive)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, messages.UninstallFlagYes)

	return cmd
}

// confirmWithForm renders a huh confirmation on stderr. Esc and ctrl+c answer no.
func confirmWithForm(title string) (bool, error) {
	value := false
	keymap := huh.NewDefaultKeyMap()
	keymap.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Affirmative(messages.UninstallConfirmYes).
			Negative(messages.UninstallConfirmNo).
			Value(&value),
	)).WithKeyMap(keymap).WithProgramOptions(tea.WithOutput(os.Stderr))

	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value, nil
}
