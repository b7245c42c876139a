// Package compile turns an analyzed plot context into a merged Vega spec.
//
// The package implements the middle of the pipeline: the chart-type
// dispatcher, one builder per geometry/statistic kind, the scale/axis
// synthesizer, the multi-layer merge engine, and the legend/interaction
// composer.
//
// # Fragments
//
// Each layer builder is pure: given the read-only context and options it
// returns a self-contained [Fragment] (data sources, scales, axes, marks).
// Builders never write to the primary "table" source; they reuse it by
// reference or introduce uniquely named auxiliary sources ("stats", "bins",
// "boxplot_boxes", ...). Fragments are never mutated after construction.
//
// # Merge Semantics
//
// [Merge] combines the ordered fragment list into one spec: the table source
// is emitted first and exactly once, marks are appended in layer order
// (painter's algorithm), and scales/data sources are deduplicated by name
// with the first declaration winning. This lets independently-authored
// fragments share the xscale/yscale pair deterministically while their
// statistic-specific sources coexist.
//
// # Legend Protocol
//
// [ComposeLegend] appends a legend iff a categorical color scale exists and
// the table actually holds more than one distinct color value. The
// interactive variant wires the clear/shift/clicked signals, the selected
// set data source, and rewrites every color-bound mark (recursively through
// group marks) with conditional dimming.
package compile
