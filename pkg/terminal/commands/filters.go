package commands

import (
	"github.com/de-tools/salespulse/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

func NewFiltersCmd(reporter *export.Reporter) *cobra.Command {
	return &cobra.Command{
		Use:   "filters",
		Short: "List every filter and its options",
		RunE: func(cmd *cobra.Command, args []string) error {
			return reporter.Catalogue()
		},
	}
}
