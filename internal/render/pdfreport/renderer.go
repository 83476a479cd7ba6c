package pdfreport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-pdf/fpdf"

	"agrovista/internal/analysis"
	"agrovista/internal/logging"
	"agrovista/internal/recommend"
	"agrovista/internal/series"
	"agrovista/internal/services"
)

// Page geometry in millimetres.
const (
	pageMargin   = 14.0
	lineHeight   = 5.0
	thumbSizeMM  = 45.0
	chartWidthMM = 176.0
)

// Renderer produces the PDF report. Safe for concurrent use; each Render
// call builds its own document.
type Renderer struct {
	product string
	tagline string
	logger  *slog.Logger
}

// NewRenderer builds a renderer branded with the product name and tagline.
func NewRenderer(product, tagline string, logger *slog.Logger) *Renderer {
	return &Renderer{
		product: product,
		tagline: tagline,
		logger:  logging.NewComponentLogger(logger, "pdf"),
	}
}

// Render writes the full report for in to outPath. It fails only for the
// renderer's own I/O or drawing errors; missing content degrades inside
// the document.
func (r *Renderer) Render(ctx context.Context, in Input, outPath string) error {
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrRenderer, "pdf", "render", "cancelled before start", err)
	}

	d := newDocument(r, in)
	d.renderCover()
	d.headerOn = true
	d.renderMethodology()
	d.renderExecutiveSummary()
	d.renderParcelInfo()
	for _, kind := range series.Kinds() {
		if kind == series.SAVI && !in.Bundle.HasIndex(series.SAVI) {
			continue
		}
		d.renderIndexSection(kind)
	}
	d.renderTrends()
	d.renderRecommendations()
	d.renderMonthlyTable()
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrRenderer, "pdf", "render", "cancelled before gallery", err)
	}
	d.renderGallery()
	if in.Legal != nil {
		d.renderLegalAnnex()
	}
	d.renderCredits()

	if d.pdf.Err() {
		return services.Wrap(services.ErrRenderer, "pdf", "render", "document assembly failed", d.pdf.Error())
	}
	if err := d.pdf.OutputFileAndClose(outPath); err != nil {
		return services.Wrap(services.ErrRenderer, "pdf", "write output", outPath, err)
	}
	r.logger.Info("report rendered",
		logging.String(logging.FieldParcel, in.Bundle.Parcel.ID),
		logging.String("path", outPath),
		logging.Int("pages", d.pdf.PageCount()))
	return nil
}

type document struct {
	pdf      *fpdf.Fpdf
	tr       func(string) string
	in       Input
	product  string
	tagline  string
	logger   *slog.Logger
	headerOn bool
	chartSeq int
}

func newDocument(r *Renderer, in Input) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	d := &document{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		in:      in,
		product: r.product,
		tagline: r.tagline,
		logger:  r.logger,
	}

	pdf.SetTitle(fmt.Sprintf("%s - %s", r.product, in.Bundle.Parcel.Name), true)
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin+6)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		if !d.headerOn {
			return
		}
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(0, 6, d.tr(d.product), "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetXY(-pageMargin-80, pdf.GetY())
		pdf.CellFormat(80, 6, d.tr(in.Bundle.Parcel.Name), "", 1, "R", false, 0, "")
		pdf.SetDrawColor(200, 200, 200)
		pdf.Line(pageMargin, pdf.GetY()+1, 210-pageMargin, pdf.GetY()+1)
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		if pdf.PageNo() == 1 {
			return
		}
		pdf.SetY(-14)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(90, 6, d.tr(fmt.Sprintf("Generated %s", in.generatedAt().Format("2006-01-02"))), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	return d
}

func (d *document) renderCover() {
	pdf := d.pdf
	pdf.AddPage()

	pdf.SetFillColor(27, 94, 32)
	pdf.Rect(0, 0, 210, 70, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetXY(pageMargin, 24)
	pdf.CellFormat(0, 14, d.tr(d.product), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 13)
	pdf.SetX(pageMargin)
	pdf.CellFormat(0, 8, d.tr(d.tagline), "", 1, "L", false, 0, "")

	parcel := d.in.Bundle.Parcel
	pdf.SetTextColor(33, 33, 33)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetXY(pageMargin, 95)
	pdf.CellFormat(0, 10, d.tr(parcel.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetX(pageMargin)
	pdf.CellFormat(0, 8, d.tr(fmt.Sprintf("Parcel monitoring report · %s", d.orNotAvailable(d.in.Bundle.RangeLabel()))), "", 1, "L", false, 0, "")
	pdf.SetX(pageMargin)
	pdf.CellFormat(0, 8, d.tr(fmt.Sprintf("Crop: %s", d.orNotAvailable(parcel.Crop))), "", 1, "L", false, 0, "")
	pdf.SetX(pageMargin)
	pdf.CellFormat(0, 8, d.tr(fmt.Sprintf("Generated on %s", d.in.generatedAt().Format("January 2, 2006"))), "", 1, "L", false, 0, "")
}

func (d *document) renderMethodology() {
	d.pdf.AddPage()
	d.sectionTitle("Methodology")
	paragraphs := []string{
		"This report is built from monthly satellite observations of the parcel. Three spectral indices are tracked: NDVI (vegetation vigor), NDMI (canopy water content) and SAVI (vegetation vigor corrected for exposed soil, suited to young or sparse plantings).",
		"Each index ranges from -1 to 1. For every month the satellite scene closest to mid-month with acceptable cloud cover is selected, and the mean, minimum and maximum over the parcel are recorded together with climate measurements.",
		"Monthly values are classified against crop-adjusted thresholds, trends are estimated from consecutive month-to-month movements, and anomalous months are flagged when they deviate more than two standard deviations from the period mean.",
		"Recommendations are produced by a fixed agronomic rule catalog driven by the index states, the trend, and the season. They are advisory and do not replace an agronomist's field visit.",
	}
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(33, 33, 33)
	for _, p := range paragraphs {
		d.pdf.MultiCell(0, lineHeight, d.tr(p), "", "J", false)
		d.pdf.Ln(2)
	}
}

func (d *document) renderExecutiveSummary() {
	d.sectionTitle("Executive summary")

	var scoreSum float64
	var scored int
	for _, kind := range series.Kinds() {
		if a, ok := d.in.analysisFor(kind); ok {
			scoreSum += a.Score
			scored++
		}
	}
	if scored == 0 {
		d.notAvailable("executive summary (no valid index data)")
		return
	}

	d.pdf.SetFont("Helvetica", "B", 12)
	d.pdf.CellFormat(0, 7, d.tr(fmt.Sprintf("Overall parcel score: %.1f / 10", scoreSum/float64(scored))), "", 1, "L", false, 0, "")
	d.pdf.Ln(2)

	d.tableHeader([]string{"Index", "Score", "Condition", "Trend", "Mean"}, []float64{30, 25, 45, 50, 32})
	for _, kind := range series.Kinds() {
		a, present := d.in.Analyses[kind]
		if !present || !a.Valid {
			d.tableRow([]string{kind.Display(), "-", "Not available", "-", "-"}, []float64{30, 25, 45, 50, 32})
			continue
		}
		d.tableRow([]string{
			kind.Display(),
			fmt.Sprintf("%.1f", a.Score),
			analysis.RatingLabel(a.State),
			trendLabel(a.Trend.Direction),
			fmt.Sprintf("%.3f", a.Stats.Mean),
		}, []float64{30, 25, 45, 50, 32})
	}
	d.pdf.Ln(4)

	if a, ok := d.in.analysisFor(series.NDVI); ok {
		d.pdf.SetFont("Helvetica", "", 10)
		d.pdf.MultiCell(0, lineHeight, d.tr(analysis.FlattenFragments(a.Plain)), "", "L", false)
		d.pdf.Ln(2)
	}
}

func (d *document) renderParcelInfo() {
	d.sectionTitle("Parcel information")
	parcel := d.in.Bundle.Parcel
	start := "Not available"
	if !parcel.MonitoringStart.IsZero() {
		start = parcel.MonitoringStart.Format("January 2006")
	}
	rows := [][2]string{
		{"Name", parcel.Name},
		{"Owner", d.orNotAvailable(parcel.Owner)},
		{"Crop", d.orNotAvailable(parcel.Crop)},
		{"Area", fmt.Sprintf("%.2f ha", parcel.AreaHa)},
		{"Monitoring since", start},
		{"Period analyzed", d.orNotAvailable(d.in.Bundle.RangeLabel())},
		{"Months with data", fmt.Sprintf("%d", len(d.in.Bundle.Records))},
	}
	for _, row := range rows {
		d.keyValue(row[0], row[1])
	}
	d.pdf.Ln(3)
}

func (d *document) renderIndexSection(kind series.IndexKind) {
	d.pageBreakIfNeeded(70)
	d.sectionTitle(fmt.Sprintf("%s analysis", kind.Display()))

	a, present := d.in.Analyses[kind]
	if !present || !a.Valid {
		d.notAvailable(fmt.Sprintf("%s analysis", kind.Display()))
		return
	}

	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetTextColor(33, 33, 33)
	d.writeFragments(a.Technical)
	d.pdf.Ln(3)

	d.pdf.SetFont("Helvetica", "I", 10)
	d.pdf.SetTextColor(80, 80, 80)
	d.writeFragments(a.Plain)
	d.pdf.Ln(4)

	d.tableHeader([]string{"Mean", "Median", "Min", "Max", "Std dev", "CV"}, []float64{30, 30, 30, 30, 31, 31})
	d.tableRow([]string{
		fmt.Sprintf("%.3f", a.Stats.Mean),
		fmt.Sprintf("%.3f", a.Stats.Median),
		fmt.Sprintf("%.3f", a.Stats.Min),
		fmt.Sprintf("%.3f", a.Stats.Max),
		fmt.Sprintf("%.3f", a.Stats.StdDev),
		fmt.Sprintf("%.1f%%", a.Variability100()),
	}, []float64{30, 30, 30, 30, 31, 31})
	d.pdf.Ln(3)

	if len(a.Anomalies) > 0 {
		d.pdf.SetFont("Helvetica", "B", 10)
		d.pdf.CellFormat(0, 6, "Anomalous months", "", 1, "L", false, 0, "")
		d.pdf.SetFont("Helvetica", "", 10)
		for _, an := range a.Anomalies {
			kindWord := "drop"
			if an.Direction == analysis.AnomalySpike {
				kindWord = "spike"
			}
			d.bullet(fmt.Sprintf("%s: %s to %.3f (z = %.1f)", an.Period, kindWord, an.Value, an.ZScore))
		}
	}
	for _, warning := range a.Warnings {
		d.warningLine(warning)
	}
	d.pdf.Ln(3)
}

func (d *document) renderTrends() {
	d.pdf.AddPage()
	d.sectionTitle("Temporal trends")

	if png, err := evolutionChart(d.in.Bundle); err == nil {
		d.embedPNG(png, chartWidthMM)
	} else {
		d.logger.Warn("evolution chart unavailable", logging.Error(err))
		d.notAvailable("temporal evolution chart")
	}
	d.pdf.Ln(4)

	if png, err := comparativeChart(d.in.Analyses); err == nil {
		d.embedPNG(png, chartWidthMM)
	} else {
		d.logger.Warn("comparative chart unavailable", logging.Error(err))
		d.notAvailable("period averages chart")
	}
	d.pdf.Ln(4)

	for _, kind := range series.Kinds() {
		report, ok := d.in.Temporal[kind]
		if !ok || !report.Valid {
			continue
		}
		d.pageBreakIfNeeded(30)
		d.pdf.SetFont("Helvetica", "B", 10)
		d.pdf.CellFormat(0, 6, d.tr(fmt.Sprintf("%s trend", kind.Display())), "", 1, "L", false, 0, "")
		d.pdf.SetFont("Helvetica", "", 10)
		d.bullet(fmt.Sprintf("Direction %s, %+.1f%% across the period (R² %.2f, %s confidence)",
			trendLabel(report.Linear.Direction), report.Linear.PercentChange, report.Linear.R2, report.Linear.Confidence))
		d.bullet(fmt.Sprintf("Next-month projection %.3f ± %.3f", report.Projection.Value, report.Projection.Margin))
		if report.Seasonality.Detected {
			d.bullet(report.Seasonality.Description)
		}
		if report.InterAnnual.Available {
			d.bullet(fmt.Sprintf("Year over year change %+.1f%%", report.InterAnnual.DeltaPct))
		}
		d.pdf.Ln(2)
	}
}

func (d *document) renderRecommendations() {
	d.pdf.AddPage()
	d.sectionTitle("Recommendations")

	if len(d.in.Recommendations) == 0 {
		d.notAvailable("recommendations")
		return
	}

	for _, priority := range []recommend.Priority{recommend.PriorityHigh, recommend.PriorityMedium, recommend.PriorityLow} {
		group := filterByPriority(d.in.Recommendations, priority)
		if len(group) == 0 {
			continue
		}
		d.pageBreakIfNeeded(20)
		d.pdf.SetFont("Helvetica", "B", 12)
		d.pdf.SetTextColor(27, 94, 32)
		d.pdf.CellFormat(0, 8, d.tr(priorityHeading(priority)), "", 1, "L", false, 0, "")
		d.pdf.SetTextColor(33, 33, 33)
		for _, rec := range group {
			d.recommendationCard(rec)
		}
	}
}

func (d *document) recommendationCard(rec recommend.Recommendation) {
	d.pageBreakIfNeeded(55)
	pdf := d.pdf

	pdf.SetFillColor(232, 245, 233)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, d.tr(rec.Title), "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(0, 4.5, d.tr(analysis.SanitizeHTML(rec.Technical)), "LR", "L", false)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 4.5, d.tr(analysis.SanitizeHTML(rec.Plain)), "LR", "L", false)

	pdf.SetFont("Helvetica", "", 9)
	for _, action := range rec.Actions {
		pdf.MultiCell(0, 4.5, d.tr("  - "+action), "LR", "L", false)
	}

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(90, 90, 90)
	meta := fmt.Sprintf("Impact: %s   |   Cost: %s   |   Timeline: %s", rec.Impact, rec.Cost, rec.Horizon)
	pdf.CellFormat(0, 6, d.tr(meta), "1", 1, "L", false, 0, "")
	pdf.SetTextColor(33, 33, 33)
	pdf.Ln(3)
}

func (d *document) renderMonthlyTable() {
	d.pdf.AddPage()
	d.sectionTitle("Monthly data")

	if len(d.in.Bundle.Records) == 0 {
		d.notAvailable("monthly data")
		return
	}

	widths := []float64{34, 21, 21, 21, 22, 24, 19, 20}
	d.tableHeader([]string{"Period", "NDVI", "NDMI", "SAVI", "Temp C", "Precip mm", "Cloud", "Sensor"}, widths)
	for _, rec := range d.in.Bundle.Records {
		d.pageBreakIfNeeded(7)
		d.tableRow([]string{
			rec.PeriodLabel(),
			formatSample(rec.NDVI.Mean),
			formatSample(rec.NDMI.Mean),
			formatSample(rec.SAVI.Mean),
			formatFloat(rec.TemperatureC, "%.1f"),
			formatFloat(rec.PrecipitationMM, "%.0f"),
			formatCloud(rec.CloudCover),
			d.orDash(rec.Sensor),
		}, widths)
	}
}

func (d *document) renderGallery() {
	d.pdf.AddPage()
	d.sectionTitle("Satellite imagery")

	if len(d.in.Bundle.Records) == 0 {
		d.notAvailable("satellite imagery")
		return
	}

	contentWidth := 210 - 2*pageMargin
	colWidth := contentWidth / 3
	rowHeight := thumbSizeMM + 22

	for _, rec := range d.in.Bundle.Records {
		d.pageBreakIfNeeded(rowHeight + 8)
		d.pdf.SetFont("Helvetica", "B", 11)
		d.pdf.CellFormat(0, 7, d.tr(rec.PeriodLabel()), "", 1, "L", false, 0, "")

		top := d.pdf.GetY()
		for i, kind := range series.Kinds() {
			x := pageMargin + float64(i)*colWidth
			d.galleryCell(rec, kind, x, top, colWidth)
		}
		d.pdf.SetY(top + rowHeight)
	}
}

// galleryCell draws one fixed-size gallery slot: thumbnail, index label,
// value range and qualitative rating, stacked in that order.
func (d *document) galleryCell(rec series.MonthlyRecord, kind series.IndexKind, x, y, colWidth float64) {
	pdf := d.pdf
	imgX := x + (colWidth-thumbSizeMM)/2

	path, ok := d.resolveThumbnail(rec, kind)
	if ok {
		imageType, valid := detectImageType(path)
		if valid {
			pdf.ImageOptions(path, imgX, y, thumbSizeMM, thumbSizeMM, false,
				fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}, 0, "")
		} else {
			ok = false
		}
	}
	if !ok {
		pdf.SetDrawColor(200, 200, 200)
		pdf.SetFillColor(245, 245, 245)
		pdf.Rect(imgX, y, thumbSizeMM, thumbSizeMM, "FD")
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.SetXY(imgX, y+thumbSizeMM/2-3)
		pdf.CellFormat(thumbSizeMM, 6, "Not available", "", 0, "C", false, 0, "")
		pdf.SetTextColor(33, 33, 33)
	}

	textY := y + thumbSizeMM + 1
	pdf.SetXY(x, textY)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(colWidth, 5, kind.Display(), "", 2, "C", false, 0, "")

	sample := rec.Index(kind)
	pdf.SetFont("Helvetica", "", 8)
	if sample.Mean != nil {
		rangeText := fmt.Sprintf("mean %.3f", *sample.Mean)
		if sample.Min != nil && sample.Max != nil {
			rangeText = fmt.Sprintf("%.3f | %.3f - %.3f", *sample.Mean, *sample.Min, *sample.Max)
		}
		pdf.CellFormat(colWidth, 4.5, d.tr(rangeText), "", 2, "C", false, 0, "")
		state := analysis.ClassifyValue(kind, d.in.Bundle.Parcel.Crop, *sample.Mean)
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetTextColor(27, 94, 32)
		pdf.CellFormat(colWidth, 4.5, d.tr(analysis.RatingLabel(state)), "", 2, "C", false, 0, "")
		pdf.SetTextColor(33, 33, 33)
	} else {
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(colWidth, 4.5, "no measurement", "", 2, "C", false, 0, "")
		pdf.SetTextColor(33, 33, 33)
	}
}

func (d *document) resolveThumbnail(rec series.MonthlyRecord, kind series.IndexKind) (string, bool) {
	if d.in.Thumbnail == nil {
		return "", false
	}
	return d.in.Thumbnail(kind, rec.Year, rec.Month)
}

func (d *document) renderLegalAnnex() {
	result := d.in.Legal
	d.pdf.AddPage()
	d.sectionTitle("Land-use restrictions")

	status := "COMPLIANT"
	d.pdf.SetTextColor(27, 94, 32)
	if !result.Compliance {
		status = "NON-COMPLIANT"
		d.pdf.SetTextColor(198, 40, 40)
	}
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.CellFormat(0, 8, status, "", 1, "L", false, 0, "")
	d.pdf.SetTextColor(33, 33, 33)
	d.pdf.Ln(2)

	d.keyValue("Total area", fmt.Sprintf("%.2f ha", result.TotalAreaHa))
	d.keyValue("Restricted area", fmt.Sprintf("%.2f ha", result.RestrictedHa))
	if result.Cultivable.Determinable {
		d.keyValue("Cultivable area", fmt.Sprintf("%.2f ha", result.Cultivable.ValueHa))
	} else {
		d.keyValue("Cultivable area", fmt.Sprintf("indeterminable (%s)", result.Cultivable.Note))
	}
	d.pdf.Ln(3)

	if len(result.Findings) > 0 {
		d.pdf.SetFont("Helvetica", "B", 10)
		d.pdf.CellFormat(0, 6, "Findings", "", 1, "L", false, 0, "")
		d.pdf.SetFont("Helvetica", "", 9)
		for _, finding := range result.Findings {
			d.bullet(fmt.Sprintf("%s (%s)", finding.Description, finding.Citation))
		}
		d.pdf.Ln(2)
	}
	for _, warning := range result.Warnings {
		d.warningLine(warning)
	}
}

func (d *document) renderCredits() {
	d.pdf.AddPage()
	d.sectionTitle("Credits")
	d.pdf.SetFont("Helvetica", "", 10)
	lines := []string{
		fmt.Sprintf("%s · %s", d.product, d.tagline),
		fmt.Sprintf("Report generated on %s.", d.in.generatedAt().Format("January 2, 2006")),
		"Satellite imagery: Copernicus Sentinel-2 program, processed to surface reflectance.",
		"Restriction layers: national datasets as declared in the layer metadata, with per-layer confidence.",
		"This document is informative and does not constitute an agronomic or legal certification.",
	}
	for _, line := range lines {
		d.pdf.MultiCell(0, lineHeight, d.tr(line), "", "L", false)
		d.pdf.Ln(1)
	}
}
