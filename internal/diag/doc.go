// Package diag defines the diagnostic model shared by every compiler phase.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by the
//     stylesheet parser, the selector parser, the analyze pass (symbols, scoping)
//     and the driver (imports, I/O).
//   - Offer light-weight utilities (Reporter, Bag) so producers emit diagnostics
//     without coupling to storage or rendering.
//
// # Scope
//
// Package diag does not format or print anything. Rendering lives in
// internal/diagfmt; collection per stylesheet is owned by internal/meta and
// merging across stylesheets by internal/driver.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error. Fixed per Code by the producer.
//   - Code: numeric identifier with a stable string ID (CSS1001, SCP4001, ...).
//   - Message: short human text.
//   - Primary: the source.Span the finding points at.
//   - Word: the source text under Primary (a selector node, a symbol name).
//   - Notes: optional secondary spans, e.g. "previous declaration here".
//
// # Emitting
//
// Phases receive a Reporter. ReportError / ReportWarning return a ReportBuilder
// that accepts notes and a word before Emit. BagReporter appends into a Bag;
// the Bag is append-only during a pass and sorted only when the pass is done,
// so emission order stays the tree-walk order until then.
//
// Reporting never panics and never aborts the pass. Invariant violations in
// the compiler itself are panics and are not diagnostics.
package diag
