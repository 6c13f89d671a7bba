// Package driver runs the per-file pipeline: detect the input language, load
// textual IR into a fresh arena, run the configured passes and collect
// diagnostics. Files are independent, so each gets its own arena and they are
// processed in parallel.
package driver
