// Package assets resolves satellite thumbnail handles to local files. A
// handle is either a filesystem path, used as-is, or an HTTP URL, which is
// downloaded once into a cache directory under a deterministic name.
// Downloads are bounded by a timeout and serialized across processes with
// a file lock. A handle that cannot be resolved yields an unavailable
// slot, never an error: renderers substitute a labeled placeholder.
package assets
