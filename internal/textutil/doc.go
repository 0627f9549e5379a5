// Package textutil provides small text helpers shared by the CLI and the
// engine handoff: archive names for condition files and human-readable
// labels for job-file tokens.
package textutil
