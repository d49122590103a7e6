// This file registers the PostgreSQL adapter with the adapter registry.
// Import this package with a blank identifier to register the adapter:
//
//	import _ "github.com/framesql/framesql/pkg/adapters/postgres"
package postgres

import "github.com/framesql/framesql/pkg/adapter"

func init() {
	adapter.Register("postgres", func() adapter.Database { return New() })
}
