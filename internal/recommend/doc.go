// Package recommend converts the per-index analyses and the trend report
// into a prioritized list of agronomic recommendations. The rule set is a
// declarative catalog: each rule is a predicate over the analysis records
// plus a fixed template, so tests iterate over rules directly and renderers
// never need to change when rules are added.
package recommend
