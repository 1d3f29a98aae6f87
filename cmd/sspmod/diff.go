package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sspmod/sspmod/internal/fsutil"
	"github.com/sspmod/sspmod/internal/messages"
	"github.com/sspmod/sspmod/internal/modules"
)

func newDiffCmd(flags *globalFlags) *cobra.Command {
	diffLines := modules.DefaultDiffMaxLines

	cmd := &cobra.Command{
		Use:   messages.DiffUse,
		Short: messages.DiffShort,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.openSession(cmd, sessionOptions{})
			if err != nil {
				return err
			}
			pkg, err := s.lookup(args[0])
			if err != nil {
				return err
			}
			preview, err := s.sync.Preview(s.event(pkg), pkg, diffLines)
			if err != nil {
				return err
			}
			return writePreview(cmd.OutOrStdout(), preview)
		},
	}

	cmd.Flags().IntVar(&diffLines, "diff-lines", modules.DefaultDiffMaxLines, messages.DiffFlagLines)

	return cmd
}

func writePreview(out io.Writer, preview *modules.Preview) error {
	if preview.InSync() {
		_, err := fmt.Fprintf(out, messages.DiffInSyncFmt, preview.Package, preview.Destination)
		return err
	}
	if !preview.Installed {
		if _, err := fmt.Fprintf(out, messages.DiffDestMissingFmt, preview.Package, preview.Destination); err != nil {
			return err
		}
	}
	for _, file := range preview.Files {
		if err := writeFileDiff(out, file); err != nil {
			return err
		}
	}
	return nil
}

func writeFileDiff(out io.Writer, file modules.FileDiff) error {
	var err error
	switch {
	case file.Kind == fsutil.ChangeAdded:
		_, err = fmt.Fprintf(out, messages.DiffAddedFmt, file.Path)
	case file.Kind == fsutil.ChangeRemoved:
		_, err = fmt.Fprintf(out, messages.DiffRemovedFmt, file.Path)
	case file.Binary:
		_, err = fmt.Fprintf(out, messages.DiffBinaryFmt, file.Path)
	case file.UnifiedDiff != "":
		_, err = fmt.Fprint(out, file.UnifiedDiff)
	default:
		_, err = fmt.Fprintf(out, messages.DiffModifiedFmt, file.Path)
	}
	return err
}
