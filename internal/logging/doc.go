// Package logging assembles structured slog loggers and formatting helpers used
// across brookesia commands.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so command code can automatically
// tag log lines with job names, store IDs, and correlation IDs. JobShape,
// CaseRef and StageRef describe a job as grouped attrs; the console handler
// prints the job name in the line prefix next to the component.
package logging
