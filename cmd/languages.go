package cmd

import (
	"colorprobe/internal/discover"

	"github.com/spf13/cobra"
)

func newLanguagesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "list the languages, node types and span rules colors are discovered in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.loadSettings(cmd)
			if err != nil {
				return err
			}
			printer, err := a.printer(cmd, s)
			if err != nil {
				return err
			}
			return printer.Rules(discover.Rules())
		},
	}
}
