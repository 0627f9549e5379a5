// Package services defines shared utilities consumed by the CLI commands and
// the engine handoff.
//
// Key responsibilities:
//   - Context helpers that stamp job names, store IDs, and correlation
//     identifiers for logging.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent process exit codes.
//
// Use these helpers when wiring new commands so operational behaviour (error
// handling, observability) stays uniform across the tool.
package services
