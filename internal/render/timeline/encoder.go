package timeline

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"agrovista/internal/services"
)

// fadeDuration brackets the timeline with 300 ms fades.
const fadeDuration = 0.3

type concatEntry struct {
	path     string
	duration float64
}

// writeConcatList writes the encoder's concat demuxer input. The final
// frame is listed twice because the demuxer ignores the last entry's
// duration.
func writeConcatList(path string, entries []concatEntry) error {
	var b strings.Builder
	for _, entry := range entries {
		fmt.Fprintf(&b, "file '%s'\n", entry.path)
		fmt.Fprintf(&b, "duration %.3f\n", entry.duration)
	}
	if len(entries) > 0 {
		fmt.Fprintf(&b, "file '%s'\n", entries[len(entries)-1].path)
	}
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// encoderArgs builds the H.264 command line: High profile level 4.2,
// CRF 18 with a 10 Mbps cap, veryslow preset, yuv420p, faststart.
func encoderArgs(listPath, outPath string, total float64) []string {
	fadeOutStart := total - fadeDuration
	if fadeOutStart < 0 {
		fadeOutStart = 0
	}
	filter := fmt.Sprintf("fps=24,fade=t=in:st=0:d=%.1f,fade=t=out:st=%.2f:d=%.1f",
		fadeDuration, fadeOutStart, fadeDuration)
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-vf", filter,
		"-c:v", "libx264",
		"-profile:v", "high",
		"-level:v", "4.2",
		"-crf", "18",
		"-maxrate", "10M",
		"-bufsize", "20M",
		"-preset", "veryslow",
		"-pix_fmt", "yuv420p",
		"-movflags", "+faststart",
		outPath,
	}
}

// encode invokes the external encoder. A failed or cancelled encode
// removes the partial output so the target is either complete or absent.
func (r *Renderer) encode(ctx context.Context, listPath, outPath string, total float64) error {
	cmd := exec.CommandContext(ctx, r.encoderPath, encoderArgs(listPath, outPath, total)...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(outPath)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return services.Wrap(services.ErrRenderer, "timeline", "encode", "encoder interrupted", ctxErr)
		}
		return services.Wrap(services.ErrExternalTool, "timeline", "encode",
			fmt.Sprintf("encoder failed: %s", outputTail(output)), err)
	}
	return nil
}

// outputTail keeps the last few lines of encoder output for diagnostics.
func outputTail(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) > 5 {
		lines = lines[len(lines)-5:]
	}
	return strings.Join(lines, " | ")
}
