// Package analysis turns a monthly index series into a per-index analysis:
// summary statistics, trend classification, vegetation state, anomalies, a
// 0-10 score, and structured textual interpretations. Analyzers are pure
// functions of their inputs and never fail; thin or malformed series
// degrade to a sentinel no-data analysis.
package analysis
