// Package pipegraph draws a job's operator pipeline as a directed graph and
// renders it in Graphviz DOT.
//
// The detailed mechanism and every active case feed the first stage, stages
// chain in execution order, and the last stage produces the reduced
// mechanism. Vertex weights carry the execution order so rendering is
// deterministic.
package pipegraph
