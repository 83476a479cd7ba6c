// Package report wires the pipeline stages in dependency order: series
// assembly, per-index analysis, temporal trends, recommendations, legal
// verification, asset resolution and the renderers. Each run owns a
// scratch directory that is removed on exit; cancellation is honored at
// stage boundaries so an abandoned run leaves no partial artifact.
package report
