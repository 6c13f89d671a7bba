// Package diag defines the diagnostic model shared by the text reader, the
// verifier and the driver.
//
// A Diagnostic carries a Severity, a compact Code with a stable string form
// (see codes.go), a short message, a primary source.Span and optional notes
// pointing at related spans. Producers emit through a Reporter, usually via
// ReportError/ReportWarning builders; BagReporter collects into a Bag that can
// be sorted and deduplicated before rendering.
//
// Package diag does no formatting or IO. Rendering lives in internal/diagfmt.
package diag
