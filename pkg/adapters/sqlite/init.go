// This file registers the SQLite adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/framesql/framesql/pkg/adapters/sqlite"
package sqlite

import "github.com/framesql/framesql/pkg/adapter"

func init() {
	adapter.Register("sqlite", func() adapter.Database { return New() })
}
