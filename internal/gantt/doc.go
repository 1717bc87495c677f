// Package gantt is the Gantt scheduling and rendering engine.
//
// It projects task dates onto a pixel timeline, routes dependency arrows
// between visible task rows, aggregates per-resource daily utilization and
// computes the windowed index ranges a renderer needs to materialize. Every
// function is a pure transform over its inputs: there is no package state,
// no I/O and no goroutines, so callers may recompute on every scroll tick.
package gantt
