// Package vega defines the typed model for the Vega v5 scene-graph subset
// emitted by the compiler, plus validation and serialization.
//
// This package is the serialization boundary of the tool: every builder in
// pkg/compile produces these types, and the final merged [Spec] is marshaled
// once into deterministic JSON bytes.
//
// # Core Types
//
//   - [Spec]: the final artifact (data, scales, axes, marks, legends, signals)
//   - [Data]: a named data source with optional declarative transforms
//   - [Scale]: a domain→range mapping (linear, band, ordinal, sequential)
//   - [Mark]: a renderable primitive; group marks nest a facet and inner marks
//   - [Legend], [Signal]: legend chrome and reactive interaction state
//
// # Structural Guarantees
//
// [Validate] checks the invariants the external renderer relies on: exactly
// one data source named "table", unique data/scale names, and every
// domain.data and from.data reference resolving to a declared source.
//
// # Serialization
//
// Output is stable byte-for-byte for identical input: struct field order is
// fixed, map-backed rows marshal with sorted keys, and indentation is two
// spaces. [Marshal] returns bytes, [WriteFile] writes the spec JSON, and
// [WriteHTMLFile] emits the companion page that loads the Vega runtime.
package vega
