// Package plot defines the input contract of the compiler: the analysis
// context produced by the upstream plotting library, the declared layers,
// and the recognized output parameters.
//
// # AnalysisContext
//
// [Context] carries the aesthetic mapping (ordered per-observation value
// sequences), the derived grouping state, the continuous-color options, the
// declared layers, and the precomputed statistic records consumed by
// pkg/stats. A context is constructed once per compile call and is read-only
// thereafter.
//
// # Grouping Analysis
//
// [Analyze] derives the grouping state from the raw aesthetics: color
// grouping is active iff the color aesthetic is present, non-empty, and has
// more than one distinct value after normalization to string form. A color
// aesthetic without variety is retained as constant metadata and never
// drives scale or legend construction.
//
// # Output Parameters
//
// [ParseOptions] enforces the upstream configuration contract: every
// recognized option is a string ("true"/"false" for switches, numeric
// strings for dimensions). Contract violations are the only fatal errors in
// the system.
package plot
