// Package framesql is a convenience layer for moving tabular data between
// relational databases and an in-memory Frame using hand-written SQL.
//
// It is not an ORM. Applications that already know SQL get a thin, uniform
// surface to execute arbitrary statements, load query or table results into
// a Frame with type coercion and timezone handling, persist a Frame into a
// table with configurable existence policies, and drive update-or-insert
// (upsert) and database-native MERGE operations from a Frame's contents.
//
// The package tree is organized as follows:
//
//   - pkg/frame: the Frame tabular structure and its datetime/timezone
//     normalization helpers.
//   - pkg/statement: placeholder resolution, SQL statement builders and
//     the named-argument binder.
//   - pkg/dialect: the closed set of supported SQL dialects and their
//     capability flags.
//   - pkg/adapter: the DatabaseManager contract and its base implementation.
//   - pkg/adapters/{sqlite,postgres,duckdb}: concrete database managers.
//
// This root package holds the error taxonomy shared by all sub-packages.
// Every failure returned by a framesql operation matches exactly one of the
// exported sentinel errors via errors.Is, with the underlying driver or
// database error preserved in the wrap chain.
package framesql
