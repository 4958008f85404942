// Package core holds the generation pipeline independent of any transport.
//
// A run flows through four stages:
//
//	schema text -> schema.Parse -> Builder.Build -> Append (optional) -> Filter (optional) -> Output
//
// [Service] wires the stages together. [Builder] resolves each column's
// generator from a [generator.Registry] and materializes the column.
// [Append] and [Filter] never modify their inputs; each returns a new table.
//
// The [Output] and [Loader] boundaries are injected, so callers (CLI, HTTP,
// TUI, tests) choose where tables come from and go to.
//
// # Errors
//
// Structural failures are fatal and surface before any output is written:
// [ErrSchema], [ErrRowLimit], [ErrDeleteTarget], [ErrAppendSchemaMismatch],
// and I/O errors from loaders and outputs (wrapped, so errors.Is still sees
// the cause). A malformed INT_RNG modifier is the only failure handled
// locally: the column falls back to a default range and a warning is logged.
//
// [MapError] translates any of these into a [UserMessage] with a support code.
package core
