// Package engine hands a finished job to the external reduction engine.
//
// Submission writes the job file the engine reads, stages the detailed
// mechanism next to it when needed, and starts the engine command in the
// background. The process is not supervised: brookesia returns as soon as
// the engine is running and reports the request ID, input file and PID.
package engine
