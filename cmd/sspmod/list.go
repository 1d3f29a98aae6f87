package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sspmod/sspmod/internal/composer"
	"github.com/sspmod/sspmod/internal/messages"
	"github.com/sspmod/sspmod/internal/modules"
)

func newListCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   messages.ListUse,
		Short: messages.ListShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.openSession(cmd, sessionOptions{})
			if err != nil {
				return err
			}
			found := modules.FindModules(s.repo.Packages(), s.sync.ModuleType())
			if len(found) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), messages.SyncNoModules)
				return nil
			}
			return writeModuleList(cmd.OutOrStdout(), s, found)
		},
	}
}

var listCellStyle = lipgloss.NewStyle().PaddingRight(2)

func writeModuleList(out io.Writer, s *session, found []*composer.Package) error {
	rows := make([][]string, 0, len(found))
	for _, pkg := range found {
		dest, status, err := moduleStatus(s, pkg)
		if err != nil {
			return err
		}
		rows = append(rows, []string{pkg.String(), pkg.Version, displayPath(s.root, dest), s.colorStatus(status)})
	}

	t := table.New().
		Headers(messages.ListHeaderPackage, messages.ListHeaderVersion, messages.ListHeaderDestination, messages.ListHeaderStatus).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		StyleFunc(func(int, int) lipgloss.Style { return listCellStyle })
	_, err := fmt.Fprintln(out, t.Render())
	return err
}

// moduleStatus classifies one module. Naming failures are reported as invalid
// rather than aborting the listing.
func moduleStatus(s *session, pkg *composer.Package) (string, string, error) {
	preview, err := s.sync.Preview(s.event(pkg), pkg, 1)
	switch {
	case modules.IsValidationError(err):
		s.logger.Debug("invalid module package", "package", pkg.Name, "err", err)
		return "-", messages.ListStatusInvalid, nil
	case err != nil:
		return "", "", err
	case !preview.Installed:
		return preview.Destination, messages.ListStatusMissing, nil
	case preview.InSync():
		return preview.Destination, messages.ListStatusInSync, nil
	default:
		return preview.Destination, messages.ListStatusDrifted, nil
	}
}

func (s *session) colorStatus(status string) string {
	if !s.useColor {
		return status
	}
	var c *color.Color
	switch status {
	case messages.ListStatusInSync:
		c = color.New(color.FgGreen)
	case messages.ListStatusMissing, messages.ListStatusDrifted:
		c = color.New(color.FgYellow)
	default:
		c = color.New(color.FgRed)
	}
	c.EnableColor()
	return c.Sprint(status)
}

// displayPath shows path relative to root when it lies inside it.
func displayPath(root string, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || !filepath.IsLocal(rel) {
		return path
	}
	return rel
}
