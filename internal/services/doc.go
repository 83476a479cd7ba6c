// Package services defines the error taxonomy shared by the pipeline
// stages and the mapping from classified errors to CLI exit codes.
package services
