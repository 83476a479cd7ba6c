package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoData marks an empty monthly series for the requested parcel.
	ErrNoData = errors.New("no data")
	// ErrValidation marks caller mistakes (unknown parcel, bad index name).
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrRenderer marks a drawing or encoding failure inside a renderer.
	ErrRenderer = errors.New("renderer failure")
	// ErrEncoderMissing marks an absent video encoder binary, detected at
	// renderer construction.
	ErrEncoderMissing = errors.New("encoder missing")
	// ErrExternalTool marks a failure of an invoked external binary.
	ErrExternalTool = errors.New("external tool error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later exit-code classification. The marker
// should be one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrRenderer
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Exit codes follow the CLI contract: 0 success, 1 no data / non-compliance,
// 2 renderer failure, 3 encoder missing.
const (
	ExitOK            = 0
	ExitNoData        = 1
	ExitRenderer      = 2
	ExitEncoderAbsent = 3
)

// ExitCode maps a pipeline error to the process exit code the CLI should
// report. nil maps to ExitOK.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrEncoderMissing):
		return ExitEncoderAbsent
	case errors.Is(err, ErrNoData):
		return ExitNoData
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration):
		return ExitNoData
	default:
		return ExitRenderer
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
