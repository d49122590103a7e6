// This file registers the DuckDB adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/framesql/framesql/pkg/adapters/duckdb"
package duckdb

import "github.com/framesql/framesql/pkg/adapter"

func init() {
	adapter.Register("duckdb", func() adapter.Database { return New() })
}
