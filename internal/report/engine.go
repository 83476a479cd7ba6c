package report

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"agrovista/internal/analysis"
	"agrovista/internal/assets"
	"agrovista/internal/catalog"
	"agrovista/internal/config"
	"agrovista/internal/fileutil"
	"agrovista/internal/layers"
	"agrovista/internal/legal"
	"agrovista/internal/logging"
	"agrovista/internal/recommend"
	"agrovista/internal/render/pdfreport"
	"agrovista/internal/render/timeline"
	"agrovista/internal/series"
	"agrovista/internal/services"
	"agrovista/internal/temporal"
	"agrovista/internal/textutil"
)

// Engine orchestrates report and video generation for one process. It is
// safe for concurrent use across distinct parcels.
type Engine struct {
	cfg      *config.Config
	store    *catalog.Store
	layers   *layers.Loader
	cache    *assets.Cache
	verifier *legal.Verifier
	logger   *slog.Logger
}

// NewEngine builds the engine on an opened catalog store.
func NewEngine(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		store:    store,
		layers:   layers.NewLoader(cfg.Paths.LayersDir, logger),
		cache:    assets.NewCache(cfg.Paths.CacheDir, time.Duration(cfg.Thumbnails.DownloadTimeoutSeconds)*time.Second, logger),
		verifier: legal.NewVerifier(logger),
		logger:   logging.NewComponentLogger(logger, "report"),
	}
}

// GenerateReport runs the full pipeline and writes the PDF to outPath, or
// to the default spot under the media directory when outPath is empty. The
// final path is returned.
func (e *Engine) GenerateReport(ctx context.Context, parcelID string, monthsBack int, outPath string) (string, error) {
	bundle, err := e.fetch(ctx, parcelID, monthsBack)
	if err != nil {
		return "", err
	}

	analyses, reports := e.analyze(*bundle)
	if err := ctx.Err(); err != nil {
		return "", services.Wrap(services.ErrRenderer, "report", "analyze", "cancelled", err)
	}

	recommendations := recommend.Generate(recommend.Input{
		NDVI:   analyses[series.NDVI],
		NDMI:   analyses[series.NDMI],
		SAVI:   analyses[series.SAVI],
		Trend:  reports[series.NDVI],
		Crop:   bundle.Parcel.Crop,
		Season: recommend.SeasonFor(lastRecordDate(*bundle)),
	})

	legalResult := e.verify(bundle.Parcel)
	if err := ctx.Err(); err != nil {
		return "", services.Wrap(services.ErrRenderer, "report", "verify", "cancelled", err)
	}

	scratch, cleanup, err := e.scratchDir()
	if err != nil {
		return "", err
	}
	defer cleanup()

	renderer := pdfreport.NewRenderer(e.cfg.Reports.ProductName, e.cfg.Reports.Tagline, e.logger)
	tempPath := filepath.Join(scratch, "report.pdf")
	input := pdfreport.Input{
		Bundle:          *bundle,
		Analyses:        analyses,
		Temporal:        reports,
		Recommendations: recommendations,
		Legal:           legalResult,
		Thumbnail:       e.thumbnailFunc(ctx, *bundle),
		GeneratedAt:     time.Now(),
	}
	if err := renderer.Render(ctx, input, tempPath); err != nil {
		return "", err
	}

	finalPath := outPath
	if finalPath == "" {
		finalPath = filepath.Join(e.cfg.Paths.MediaDir, "informes",
			fmt.Sprintf("%s_%s.pdf", textutil.SanitizeFileName(parcelID), time.Now().Format("20060102_150405")))
	}
	if err := e.publish(tempPath, finalPath); err != nil {
		return "", err
	}
	e.logger.Info("report complete",
		logging.String(logging.FieldParcel, parcelID),
		logging.String("path", finalPath))
	return finalPath, nil
}

// GenerateVideo renders the timeline MP4 for one index and writes it to
// outPath, or to the default spot under the media directory when outPath is
// empty. The final path is returned.
func (e *Engine) GenerateVideo(ctx context.Context, parcelID string, kind series.IndexKind, monthsBack int, outPath string) (string, error) {
	renderer, err := timeline.NewRenderer(
		e.cfg.Video.EncoderCommand,
		time.Duration(e.cfg.Video.TimeoutSeconds)*time.Second,
		e.cfg.Reports.ProductName,
		e.cfg.Reports.Tagline,
		e.logger)
	if err != nil {
		return "", err
	}

	bundle, err := e.fetch(ctx, parcelID, monthsBack)
	if err != nil {
		return "", err
	}

	result := analysis.New(kind, bundle.Parcel.Crop).Analyze(*bundle)
	input := timeline.Input{
		Bundle:              *bundle,
		Index:               kind,
		AnalysisText:        analysis.FlattenFragments(result.Plain),
		RecommendationsText: recommendationLines(*bundle, result),
		Thumbnail:           e.thumbnailFunc(ctx, *bundle),
	}

	scratch, cleanup, err := e.scratchDir()
	if err != nil {
		return "", err
	}
	defer cleanup()

	tempPath := filepath.Join(scratch, "timeline.mp4")
	if err := renderer.Render(ctx, input, scratch, tempPath); err != nil {
		return "", err
	}

	finalPath := outPath
	if finalPath == "" {
		finalPath = filepath.Join(e.cfg.Paths.MediaDir, "timeline_videos",
			fmt.Sprintf("%s_%s_%s.mp4", textutil.SanitizeFileName(parcelID), kind, time.Now().Format("20060102_150405")))
	}
	if err := e.publish(tempPath, finalPath); err != nil {
		return "", err
	}
	e.logger.Info("video complete",
		logging.String(logging.FieldParcel, parcelID),
		logging.String(logging.FieldIndex, string(kind)),
		logging.String("path", finalPath))
	return finalPath, nil
}

// VerifyParcel runs the legal verification alone.
func (e *Engine) VerifyParcel(ctx context.Context, parcelID string) (*legal.Result, error) {
	parcel, err := e.store.GetParcel(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	set, err := e.layers.Load()
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "report", "load layers", "", err)
	}
	return e.verifier.Verify(*parcel, set)
}

// Layers exposes the shared loader for the CLI's layer inspection.
func (e *Engine) Layers() (*layers.Set, error) {
	return e.layers.Load()
}

func (e *Engine) fetch(ctx context.Context, parcelID string, monthsBack int) (*series.Bundle, error) {
	if monthsBack <= 0 {
		monthsBack = e.cfg.Reports.DefaultMonthsBack
	}
	return e.store.FetchSeries(ctx, parcelID, monthsBack)
}

func (e *Engine) analyze(bundle series.Bundle) (map[series.IndexKind]analysis.Analysis, map[series.IndexKind]temporal.Report) {
	analyses := make(map[series.IndexKind]analysis.Analysis, 3)
	reports := make(map[series.IndexKind]temporal.Report, 3)
	for _, kind := range series.Kinds() {
		analyses[kind] = analysis.New(kind, bundle.Parcel.Crop).Analyze(bundle)
		reports[kind] = temporal.Analyze(bundle, kind)
	}
	return analyses, reports
}

// verify runs the legal check for the report annex. Verification problems
// do not block the report; the annex is simply omitted.
func (e *Engine) verify(parcel series.Parcel) *legal.Result {
	if parcel.GeometryGeoJSON == "" {
		e.logger.Warn("parcel has no geometry, skipping legal annex",
			logging.String(logging.FieldParcel, parcel.ID))
		return nil
	}
	set, err := e.layers.Load()
	if err != nil {
		e.logger.Warn("layer set unavailable, skipping legal annex", logging.Error(err))
		return nil
	}
	result, err := e.verifier.Verify(parcel, set)
	if err != nil {
		e.logger.Warn("legal verification failed, skipping annex",
			logging.String(logging.FieldParcel, parcel.ID),
			logging.Error(err))
		return nil
	}
	return result
}

func (e *Engine) thumbnailFunc(ctx context.Context, bundle series.Bundle) func(series.IndexKind, int, int) (string, bool) {
	byPeriod := make(map[[2]int]series.MonthlyRecord, len(bundle.Records))
	for _, rec := range bundle.Records {
		byPeriod[[2]int{rec.Year, rec.Month}] = rec
	}
	return func(kind series.IndexKind, year, month int) (string, bool) {
		rec, ok := byPeriod[[2]int{year, month}]
		if !ok {
			return "", false
		}
		handle, ok := rec.Thumbnails[kind]
		if !ok {
			return "", false
		}
		return e.cache.Resolve(ctx, bundle.Parcel.ID, kind, year, month, handle)
	}
}

// publish moves a finished artifact from the scratch dir to its final
// location, creating the parent directory for caller-supplied paths.
func (e *Engine) publish(tempPath, finalPath string) error {
	if dir := filepath.Dir(finalPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return services.Wrap(services.ErrRenderer, "report", "create output dir", dir, err)
		}
	}
	if err := fileutil.MoveFile(tempPath, finalPath); err != nil {
		return services.Wrap(services.ErrRenderer, "report", "store artifact", finalPath, err)
	}
	return nil
}

// scratchDir creates the per-run temp dir and its cleanup.
func (e *Engine) scratchDir() (string, func(), error) {
	dir := filepath.Join(os.TempDir(), "agrovista-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", nil, services.Wrap(services.ErrRenderer, "report", "create scratch dir", dir, err)
	}
	return dir, func() { _ = os.RemoveAll(dir) }, nil
}

func lastRecordDate(bundle series.Bundle) time.Time {
	if len(bundle.Records) == 0 {
		return time.Now()
	}
	last := bundle.Records[len(bundle.Records)-1]
	return time.Date(last.Year, time.Month(last.Month), 15, 0, 0, 0, 0, time.UTC)
}

// recommendationLines turns the top recommendations into the short bullet
// text the video scene shows.
func recommendationLines(bundle series.Bundle, a analysis.Analysis) string {
	in := recommend.Input{
		Crop:   bundle.Parcel.Crop,
		Season: recommend.SeasonFor(lastRecordDate(bundle)),
	}
	switch a.Index {
	case series.NDMI:
		in.NDMI = a
	case series.SAVI:
		in.SAVI = a
	default:
		in.NDVI = a
	}
	recs := recommend.Generate(in)
	var lines string
	for i, rec := range recs {
		if i == 3 {
			break
		}
		if i > 0 {
			lines += "\n"
		}
		lines += rec.Title
	}
	return lines
}
