// Package deps verifies the external binaries the report pipeline relies
// on, chiefly the H.264 video encoder. Detection happens at renderer
// construction so a missing encoder fails fast instead of mid-render.
package deps

import (
	"fmt"
	"os/exec"
	"strings"

	"agrovista/internal/services"
)

// Requirement defines an external binary the pipeline may invoke.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// Default lists the external binaries used with the given encoder command.
func Default(encoderCommand string) []Requirement {
	return []Requirement{
		{
			Name:        "Video encoder",
			Command:     encoderCommand,
			Description: "Encodes timeline frames into H.264 MP4",
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// ResolveEncoder locates the configured video encoder on PATH. A missing
// binary maps to the encoder-absent exit code via services.ErrEncoderMissing.
func ResolveEncoder(command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", services.Wrap(services.ErrEncoderMissing, "deps", "resolve encoder",
			"encoder command not configured", nil)
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return "", services.Wrap(services.ErrEncoderMissing, "deps", "resolve encoder",
			fmt.Sprintf("binary %q not found on PATH", command), err)
	}
	return path, nil
}
