// Command framesql is the CLI for moving tabular data in and out of SQL
// databases.
package main

import (
	"os"

	"github.com/framesql/framesql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
