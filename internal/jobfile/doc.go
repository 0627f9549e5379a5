// Package jobfile reads and writes the line-oriented job description
// consumed by the reduction engine.
//
// A job file has three sections in fixed order: main parameters,
// simulation cases (each opened by a "#======> Case N" marker) and
// operators (each opened by a "#===========> Op: <name>" marker). Field
// lines are "key = value"; booleans are True/False and lists are
// comma-separated without brackets. Strings are written verbatim, so list
// items and free-text options must not contain commas.
package jobfile
