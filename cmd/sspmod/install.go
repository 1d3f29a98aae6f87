package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sspmod/sspmod/internal/messages"
)

func newInstallCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.InstallUse,
		Short: messages.InstallShort,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.openSession(cmd, sessionOptions{})
			if err != nil {
				return err
			}
			warnColor := color.New(color.FgYellow)
			for _, name := range args {
				pkg, err := s.lookup(name)
				if err != nil {
					return err
				}
				if pkg.Type != s.sync.ModuleType() {
					_, _ = warnColor.Fprintln(cmd.ErrOrStderr(), fmt.Sprintf(messages.NotAModuleFmt, pkg, pkg.Type, s.sync.ModuleType()))
					continue
				}
				if err := s.sync.InstallHook(s.event(pkg)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
