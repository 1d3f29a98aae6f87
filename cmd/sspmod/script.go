package main

import (
	"github.com/spf13/cobra"

	"github.com/sspmod/sspmod/internal/console"
	"github.com/sspmod/sspmod/internal/messages"
)

// newScriptCmd keeps old composer.json script entries from failing the build.
// It only prints the removal notice.
func newScriptCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:    messages.ScriptUse,
		Short:  messages.ScriptShort,
		Long:   messages.ScriptDeprecated,
		Hidden: true,
		Args:   cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			useColor := console.ColorEnabled(console.ModeAuto, cmd.ErrOrStderr(), flags.noColor)
			console.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), useColor).WriteError(messages.ScriptNotice)
			return nil
		},
	}
}
