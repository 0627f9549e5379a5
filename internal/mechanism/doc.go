// Package mechanism describes the kinetic mechanism a job reduces.
//
// The reduction engine owns the real chemistry. This package only knows
// what the job editor needs to size its inputs: species names, reaction
// count and which elemental sub-mechanisms exist. Summaries are small TOML
// files kept next to the mechanism files.
package mechanism
