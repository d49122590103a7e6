package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/framesql/framesql/pkg/adapter"
	"github.com/framesql/framesql/pkg/frame"
)

// NewLoadCommand creates the load command.
func NewLoadCommand() *cobra.Command {
	var (
		policy string
		index  []string
	)

	cmd := &cobra.Command{
		Use:   "load <csv-file> <table>",
		Short: "Load a CSV file into a table",
		Long: `Read a CSV file into a frame and save it to a table on the selected
target. A missing table is created from the CSV header; every column is
loaded as text.`,
		Example: `  # Append rows
  framesql load items.csv Item

  # Recreate the table, keyed on ItemId
  framesql load items.csv Item --policy drop-replace --index ItemId`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			csvPath, table := args[0], args[1]

			file, err := os.Open(csvPath)
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", csvPath, err)
			}
			defer func() { _ = file.Close() }()

			f, err := frameFromCSV(file, index)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := connectTarget(ctx, TargetFromContext(ctx))
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			n, err := db.SaveFrame(ctx, f, table, adapter.SaveOptions{
				Policy: adapter.SavePolicy(policy),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loaded %d rows from %s into %s\n", n, csvPath, table)
			return nil
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "append", "Save policy: append, fail, replace, drop-replace")
	cmd.Flags().StringSliceVar(&index, "index", nil, "Columns to use as the row key")

	return cmd
}

func frameFromCSV(r io.Reader, index []string) (*frame.Frame, error) {
	f, err := frame.ReadCSV(r)
	if err != nil {
		return nil, err
	}
	if len(index) > 0 {
		if err := f.SetIndex(index...); err != nil {
			return nil, err
		}
	}
	return f, nil
}
