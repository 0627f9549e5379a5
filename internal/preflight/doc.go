// Package preflight provides readiness checks for the filesystem paths and
// external commands brookesia depends on.
//
// These checks run in two contexts:
//   - "brookesia run" calls RunAll before handing a job to the engine and
//     refuses to start when any check fails.
//   - "brookesia status" renders every result as a table.
package preflight
