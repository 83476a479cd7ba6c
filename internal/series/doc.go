// Package series defines the in-memory values the report pipeline operates
// on: a parcel, its ordered monthly index records, and the bundle that
// carries both through the analyzers and renderers. Everything here is
// read-only once assembled; the pipeline never mutates a bundle.
package series
