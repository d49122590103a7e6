package commands

import (
	"github.com/spf13/cobra"

	"github.com/framesql/framesql/pkg/adapter"
	"github.com/framesql/framesql/pkg/frame"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Index  []string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query <table or SQL>",
		Short: "Load a table or run a SELECT and print the result",
		Long: `Load a full table or run a SELECT statement against the selected target
and print the result.

A single-word argument is treated as a table name and expanded to
SELECT * FROM <table>; anything else runs as SQL.`,
		Example: `  # Load a whole table
  framesql query Item

  # Run a SELECT
  framesql query "SELECT * FROM Item WHERE Price > 10"

  # Pick a target and emit CSV
  framesql query Item -t prod --format csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := connectTarget(ctx, TargetFromContext(ctx))
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			f, err := db.LoadTable(ctx, args[0], adapter.LoadOptions{
				Scan: frame.ScanOptions{Index: opts.Index},
			})
			if err != nil {
				return err
			}
			return renderFrame(cmd.OutOrStdout(), f, opts.Format)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, csv")
	cmd.Flags().StringSliceVar(&opts.Index, "index", nil, "Columns to use as the row key")

	return cmd
}
