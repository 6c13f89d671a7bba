// Package fuzztests houses Go fuzz harnesses for the textual IR reader
// (source -> lexer -> parser -> builder). They guard against panics, hangs
// and broken span or arena invariants on arbitrary input.
package fuzztests
