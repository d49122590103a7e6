package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/framesql/framesql/pkg/adapter"
	"github.com/framesql/framesql/pkg/frame"
)

// NewCopyCommand creates the copy command.
func NewCopyCommand() *cobra.Command {
	var (
		policy string
		index  []string
		upsert bool
	)

	cmd := &cobra.Command{
		Use:   "copy <source-target> <dest-target> <table>",
		Short: "Copy a table between two configured targets",
		Long: `Load a table from one configured target into a frame and save it to the
same table on another target. With --upsert the destination rows are
updated in place instead of appended, matching on the --index columns.`,
		Example: `  # Copy the Item table from dev to prod
  framesql copy dev prod Item

  # Refresh prod in place, matching on the primary key
  framesql copy dev prod Item --upsert --index ItemId`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceName, destName, tableName := args[0], args[1], args[2]
			if upsert && len(index) == 0 {
				return fmt.Errorf("--upsert needs --index to know which columns match existing rows")
			}

			ctx := cmd.Context()
			source, err := connectTarget(ctx, sourceName)
			if err != nil {
				return fmt.Errorf("source target %s: %w", sourceName, err)
			}
			defer func() { _ = source.Close() }()

			dest, err := connectTarget(ctx, destName)
			if err != nil {
				return fmt.Errorf("destination target %s: %w", destName, err)
			}
			defer func() { _ = dest.Close() }()

			f, err := source.LoadTable(ctx, tableName, adapter.LoadOptions{
				Scan: frame.ScanOptions{Index: index},
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if upsert {
				result, err := dest.Upsert(ctx, f, tableName, adapter.UpsertOptions{})
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Copied %s from %s to %s: %d updated, %d inserted\n",
					tableName, sourceName, destName, result.Updated, result.Inserted)
				return nil
			}

			n, err := dest.SaveFrame(ctx, f, tableName, adapter.SaveOptions{
				Policy: adapter.SavePolicy(policy),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Copied %d rows of %s from %s to %s\n", n, tableName, sourceName, destName)
			return nil
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "append", "Save policy: append, fail, replace, drop-replace")
	cmd.Flags().StringSliceVar(&index, "index", nil, "Columns to use as the row key")
	cmd.Flags().BoolVar(&upsert, "upsert", false, "Update matching destination rows instead of appending")

	return cmd
}
