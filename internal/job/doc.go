// Package job models a mechanism-reduction job: the main parameters, the
// monitored targets, the simulation cases and the operator pipeline.
//
// Every value created here starts from the shared default table in
// defaults.go, so a freshly created case and a case read back from a job
// file with missing fields converge on the same numbers. The package does
// no I/O; see package jobfile for the text form consumed by the reduction
// engine.
package job
