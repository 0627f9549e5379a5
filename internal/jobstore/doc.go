// Package jobstore persists draft job files in SQLite so authors can park
// work between editing sessions and see which drafts were handed to the
// reduction engine.
//
// A draft is the serialized job-file text plus a few summary columns. Names
// are unique: saving under an existing name replaces the content and keeps
// the identifier. Schema changes append a migration in schema.go; Open
// upgrades older databases in place and refuses ones written by a newer
// build.
package jobstore
