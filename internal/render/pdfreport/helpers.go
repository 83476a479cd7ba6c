package pdfreport

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"agrovista/internal/analysis"
	"agrovista/internal/recommend"
)

var titleCaser = cases.Title(language.English)

func (d *document) sectionTitle(title string) {
	pdf := d.pdf
	d.pageBreakIfNeeded(16)
	pdf.SetFillColor(232, 245, 233)
	pdf.SetTextColor(27, 94, 32)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 9, d.tr("  "+title), "", 1, "L", true, 0, "")
	pdf.SetTextColor(33, 33, 33)
	pdf.Ln(3)
}

// notAvailable draws the labeled placeholder used wherever content is
// missing.
func (d *document) notAvailable(label string) {
	pdf := d.pdf
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(245, 245, 245)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.CellFormat(0, 10, d.tr(fmt.Sprintf("Not available: %s", label)), "1", 1, "C", true, 0, "")
	pdf.SetTextColor(33, 33, 33)
	pdf.Ln(3)
}

func (d *document) keyValue(key, value string) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(48, 6, d.tr(key), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, d.tr(value), "", 1, "L", false, 0, "")
}

func (d *document) bullet(text string) {
	pdf := d.pdf
	pdf.SetX(pageMargin + 4)
	pdf.MultiCell(0, 4.8, d.tr("- "+text), "", "L", false)
}

func (d *document) warningLine(text string) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(198, 40, 40)
	pdf.MultiCell(0, 4.8, d.tr("! "+text), "", "L", false)
	pdf.SetTextColor(33, 33, 33)
}

func (d *document) tableHeader(labels []string, widths []float64) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(27, 94, 32)
	pdf.SetTextColor(255, 255, 255)
	for i, label := range labels {
		pdf.CellFormat(widths[i], 7, d.tr(label), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetTextColor(33, 33, 33)
}

func (d *document) tableRow(values []string, widths []float64) {
	pdf := d.pdf
	pdf.SetFont("Helvetica", "", 9)
	for i, value := range values {
		pdf.CellFormat(widths[i], 6, d.tr(value), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
}

// pageBreakIfNeeded forces a new page when less than needed millimetres
// remain above the bottom margin.
func (d *document) pageBreakIfNeeded(needed float64) {
	_, pageHeight := d.pdf.GetPageSize()
	if d.pdf.GetY()+needed > pageHeight-pageMargin-8 {
		d.pdf.AddPage()
	}
}

// embedPNG registers the raster under a unique name and places it at the
// current position, advancing the cursor.
func (d *document) embedPNG(png []byte, widthMM float64) {
	d.chartSeq++
	name := fmt.Sprintf("chart-%d", d.chartSeq)
	info := d.pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	if info == nil || d.pdf.Err() {
		d.notAvailable("embedded chart")
		return
	}
	heightMM := widthMM * info.Height() / info.Width()
	d.pageBreakIfNeeded(heightMM + 4)
	x := (210 - widthMM) / 2
	d.pdf.ImageOptions(name, x, d.pdf.GetY(), widthMM, heightMM, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	d.pdf.SetY(d.pdf.GetY() + heightMM + 2)
}

// writeFragments emits styled interpretation fragments inline, honoring
// bold runs and explicit breaks.
func (d *document) writeFragments(fragments []analysis.Fragment) {
	pdf := d.pdf
	size := 10.0
	for _, fragment := range fragments {
		switch fragment.Kind {
		case analysis.FragmentBreak:
			pdf.Ln(lineHeight)
		case analysis.FragmentBold:
			pdf.SetFont("Helvetica", "B", size)
			pdf.Write(lineHeight, d.tr(analysis.SanitizeHTML(fragment.Text)))
			pdf.SetFont("Helvetica", "", size)
		default:
			pdf.SetFont("Helvetica", "", size)
			pdf.Write(lineHeight, d.tr(analysis.SanitizeHTML(fragment.Text)))
		}
	}
	pdf.Ln(lineHeight)
}

func (d *document) orNotAvailable(value string) string {
	if value == "" {
		return "Not available"
	}
	return value
}

func (d *document) orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func trendLabel(direction analysis.TrendDirection) string {
	switch direction {
	case analysis.TrendAscendingStrong:
		return "Improving strongly"
	case analysis.TrendAscending:
		return "Improving"
	case analysis.TrendDescendingStrong:
		return "Declining strongly"
	case analysis.TrendDescending:
		return "Declining"
	default:
		return "Stable"
	}
}

func priorityHeading(priority recommend.Priority) string {
	return titleCaser.String(priority.String()) + " priority"
}

func filterByPriority(recs []recommend.Recommendation, priority recommend.Priority) []recommend.Recommendation {
	var out []recommend.Recommendation
	for _, rec := range recs {
		if rec.Priority == priority {
			out = append(out, rec)
		}
	}
	return out
}

func formatSample(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.3f", *v)
}

func formatFloat(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}

func formatCloud(fraction *float64) string {
	if fraction == nil {
		return "-"
	}
	return fmt.Sprintf("%.0f%%", *fraction*100)
}

// detectImageType sniffs the on-disk format so a mislabeled thumbnail is
// either embedded correctly or rejected before it can poison the document.
func detectImageType(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	_, format, err := image.DecodeConfig(f)
	if err != nil {
		return "", false
	}
	switch format {
	case "png":
		return "PNG", true
	case "jpeg":
		return "JPG", true
	case "gif":
		return "GIF", true
	default:
		return "", false
	}
}
