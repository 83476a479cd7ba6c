// Package layers loads the authoritative restriction datasets the legal
// verifier consults: the water network, protected areas, indigenous
// reserves and páramos. Layers are GeoJSON feature collections in WGS84
// accompanied by a layers.toml sidecar declaring per-layer confidence and
// attribute field names. Loading happens once per process; a missing or
// unreadable layer degrades to an unavailable entry with a warning, never
// an error.
package layers
