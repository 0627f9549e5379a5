// Package main hosts the brookesia CLI entrypoint and command graph.
//
// The Cobra-based command tree scaffolds job files, formats and validates
// them, renders the operator pipeline, parks drafts in the local store and
// hands finished jobs to the reduction engine. It centralizes configuration
// resolution and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
