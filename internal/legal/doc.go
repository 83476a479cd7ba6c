// Package legal computes the spatial relationship between a parcel polygon
// and the authoritative restriction layers, producing a structured
// compliance result. Geometry arrives in WGS84 and is reprojected to
// EPSG:3116 (MAGNA-SIRGAS, Bogotá zone) before any area or distance is
// measured. The verifier degrades gracefully: a missing layer becomes a
// warning and a lowered confidence, never an error.
package legal
