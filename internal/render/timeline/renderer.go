package timeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"agrovista/internal/deps"
	"agrovista/internal/logging"
	"agrovista/internal/services"
)

// Renderer draws timeline frames and drives the external encoder.
type Renderer struct {
	encoderPath string
	timeout     time.Duration
	product     string
	tagline     string
	logger      *slog.Logger
}

// NewRenderer resolves the encoder binary up front; an absent encoder
// fails construction with services.ErrEncoderMissing.
func NewRenderer(encoderCommand string, timeout time.Duration, product, tagline string, logger *slog.Logger) (*Renderer, error) {
	encoderPath, err := deps.ResolveEncoder(encoderCommand)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		encoderPath: encoderPath,
		timeout:     timeout,
		product:     product,
		tagline:     tagline,
		logger:      logging.NewComponentLogger(logger, "timeline"),
	}, nil
}

// Render writes scene frames into workDir and encodes them into outPath.
// workDir is caller-owned scratch space; cancellation between scenes
// leaves the target file absent.
func (r *Renderer) Render(ctx context.Context, in Input, workDir, outPath string) error {
	scenes := buildScenes(in, r.product, r.tagline)

	entries := make([]concatEntry, 0, len(scenes))
	for i, s := range scenes {
		if err := ctx.Err(); err != nil {
			return services.Wrap(services.ErrRenderer, "timeline", "render frames",
				fmt.Sprintf("cancelled before scene %s", s.name), err)
		}
		f := newFrame()
		s.draw(f)
		framePath := filepath.Join(workDir, fmt.Sprintf("frame-%03d.png", i))
		if err := f.writePNG(framePath); err != nil {
			return services.Wrap(services.ErrRenderer, "timeline", "render frames", s.name, err)
		}
		entries = append(entries, concatEntry{path: framePath, duration: s.duration})
	}

	listPath := filepath.Join(workDir, "frames.txt")
	if err := writeConcatList(listPath, entries); err != nil {
		return services.Wrap(services.ErrRenderer, "timeline", "write concat list", listPath, err)
	}

	encodeCtx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		encodeCtx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	total := totalDuration(scenes)
	if err := r.encode(encodeCtx, listPath, outPath, total); err != nil {
		return err
	}

	r.logger.Info("timeline rendered",
		logging.String(logging.FieldParcel, in.Bundle.Parcel.ID),
		logging.String(logging.FieldIndex, string(in.Index)),
		logging.Int("scenes", len(scenes)),
		logging.Float64("seconds", total),
		logging.String("path", outPath))
	return nil
}
