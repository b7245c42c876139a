// Package stats normalizes heterogeneous precomputed statistic records into
// canonical flat point lists.
//
// Upstream statistical computation produces inconsistent numeric layouts:
// single records or per-group lists, confidence-interval matrices stored
// row-wise (N×2) or column-wise (2×N), nested count arrays, per-group value
// arrays. Every shape detection and reshape happens once here; the layer
// builders in pkg/compile only ever see the canonical forms.
//
// # Normalization Policy
//
//   - Both a single record and a list of per-group records are accepted;
//     output is always a list with 1-based group identifiers assigned by
//     position.
//   - CI matrices are classified by shape and reshaped to two column arrays.
//     A CI source shorter than the regression line is linearly interpolated
//     (with end extrapolation) against the line's x-coordinates.
//   - Pairs with lower > upper are swapped before emission.
//   - Records missing required fields are skipped per group; the statistic
//     kind still contributes its remaining valid groups.
//   - An unclassifiable CI shape degrades to a CI-less group; the line still
//     renders, without a band.
//
// Skipped groups and degradations are reported as [Warning] values, never
// as errors: data-shape irregularities must not abort compilation.
package stats
