package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewExecCommand creates the exec command.
func NewExecCommand() *cobra.Command {
	var paramPairs []string
	var inputFile string

	cmd := &cobra.Command{
		Use:   "exec [SQL]",
		Short: "Execute a statement that returns no rows",
		Long: `Execute an INSERT, UPDATE, DELETE or DDL statement against the selected
target and report the number of affected rows.

Named :param markers in the statement are bound from --param key=value
pairs.`,
		Example: `  # Plain statement
  framesql exec "DELETE FROM Item"

  # With bound parameters
  framesql exec "UPDATE Item SET Price = :price WHERE ItemId = :id" \
      --param price=9.99 --param id=3

  # From a file
  framesql exec --input migrate.sql`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt := ""
			switch {
			case inputFile != "":
				content, err := os.ReadFile(inputFile)
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", inputFile, err)
				}
				stmt = string(content)
			case len(args) == 1:
				stmt = args[0]
			default:
				return fmt.Errorf("a SQL argument or --input file is required")
			}

			params := make(map[string]any, len(paramPairs))
			for _, pair := range paramPairs {
				key, value, ok := strings.Cut(pair, "=")
				if !ok {
					return fmt.Errorf("invalid --param %q, expected key=value", pair)
				}
				params[key] = value
			}

			ctx := cmd.Context()
			db, err := connectTarget(ctx, TargetFromContext(ctx))
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			n, err := db.Exec(ctx, stmt, params)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", n)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&paramPairs, "param", nil, "Bind a named parameter as key=value (repeatable)")
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Read SQL from file")

	return cmd
}
