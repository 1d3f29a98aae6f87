package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sspmod/sspmod/internal/messages"
	"github.com/sspmod/sspmod/internal/modules"
)

func newSyncCmd(flags *globalFlags) *cobra.Command {
	var continueOnError bool

	cmd := &cobra.Command{
		Use:   messages.SyncUse,
		Short: messages.SyncShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.openSession(cmd, sessionOptions{continueOnError: continueOnError})
			if err != nil {
				return err
			}
			found, err := s.sync.InstallAll(s.event(nil))
			var batch *modules.BatchError
			if errors.As(err, &batch) {
				s.console.WriteError("<error>" + batch.Summary() + "</error>")
				return &SilentExitError{Code: 1}
			}
			if err != nil {
				return err
			}
			if len(found) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.SyncNoModules)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, messages.SyncFlagContinueOnError)

	return cmd
}
