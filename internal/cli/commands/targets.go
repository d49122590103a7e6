package commands

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewTargetsCommand creates the targets command.
func NewTargetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the configured database targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := ConfigFromContext(cmd.Context())
			if cfg == nil {
				return fmt.Errorf("no framesql.yaml found, run from a project directory or pass --config")
			}

			w := table.NewWriter()
			w.SetOutputMirror(cmd.OutOrStdout())
			w.SetStyle(table.StyleLight)
			w.AppendHeader(table.Row{"Name", "Type", "Database", "Host", "Default"})

			for _, name := range cfg.TargetNames() {
				t := cfg.Targets[name]
				isDefault := ""
				if name == cfg.DefaultTarget {
					isDefault = "*"
				}
				w.AppendRow(table.Row{name, t.Type, t.Database, t.Host, isDefault})
			}
			w.Render()
			return nil
		},
	}
}
