package timeline

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"math"
	"os"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"

	"agrovista/internal/analysis"
	"agrovista/internal/series"
)

const (
	frameWidth  = 1920
	frameHeight = 1080

	// rasterScale keeps the monthly map inside 85-90% of the frame.
	rasterScale = 0.88

	leftColumnX  = 80.0
	rightColumnX = 1520.0
)

const notAvailable = "[N/A]"

// frame wraps a drawing context with the shadowed-text helpers every
// scene uses. There are no panel backgrounds; legibility comes from the
// shadow pass.
type frame struct {
	dc *gg.Context
}

func newFrame() *frame {
	dc := gg.NewContext(frameWidth, frameHeight)
	dc.SetRGB255(colorBackground.r, colorBackground.g, colorBackground.b)
	dc.Clear()
	return &frame{dc: dc}
}

// text draws one shadowed string anchored at (x, y).
func (f *frame) text(s string, x, y float64, bold bool, size float64, c rgb, ax, ay float64) {
	f.dc.SetFontFace(face(bold, size))
	f.dc.SetRGBA255(colorShadow.r, colorShadow.g, colorShadow.b, 180)
	f.dc.DrawStringAnchored(s, x+2, y+2, ax, ay)
	f.dc.SetRGB255(c.r, c.g, c.b)
	f.dc.DrawStringAnchored(s, x, y, ax, ay)
}

// wrapped draws a shadowed, wrapped paragraph centred on x.
func (f *frame) wrapped(s string, x, y, width float64, bold bool, size float64, c rgb) {
	f.dc.SetFontFace(face(bold, size))
	f.dc.SetRGBA255(colorShadow.r, colorShadow.g, colorShadow.b, 180)
	f.dc.DrawStringWrapped(s, x+2, y+2, 0.5, 0, width, 1.5, gg.AlignCenter)
	f.dc.SetRGB255(c.r, c.g, c.b)
	f.dc.DrawStringWrapped(s, x, y, 0.5, 0, width, 1.5, gg.AlignCenter)
}

// writePNG stores the frame without compression; the encoder consumes the
// files once and deletes them with the scratch directory.
func (f *frame) writePNG(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	encoder := png.Encoder{CompressionLevel: png.NoCompression}
	if err := encoder.Encode(out, f.dc.Image()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func coverScene(in Input, product string) func(*frame) {
	return func(f *frame) {
		f.text(product, frameWidth/2, 360, true, 96, colorText, 0.5, 0.5)
		f.text(fmt.Sprintf("%s evolution", in.Index.Display()), frameWidth/2, 500, true, 56, colorAccent, 0.5, 0.5)
		f.text(in.Bundle.Parcel.Name, frameWidth/2, 600, false, 44, colorText, 0.5, 0.5)
		rangeLabel := in.Bundle.RangeLabel()
		if rangeLabel == "" {
			rangeLabel = notAvailable
		}
		f.text(rangeLabel, frameWidth/2, 680, false, 36, colorMuted, 0.5, 0.5)
	}
}

func monthlyScene(in Input, mc monthlyContext) func(*frame) {
	return func(f *frame) {
		drawRaster(f, mc.rasterPath)
		drawLegend(f, in.Index)

		header := fmt.Sprintf("%s · %s", in.Index.Display(), mc.record.PeriodLabel())
		f.text(header, leftColumnX, 100, true, 54, colorText, 0, 0.5)

		if mc.mean != nil {
			f.text(fmt.Sprintf("Mean: %.3f", *mc.mean), leftColumnX, 940, true, 40, colorText, 0, 0.5)
			state := analysis.ClassifyValue(in.Index, in.Bundle.Parcel.Crop, *mc.mean)
			f.text(analysis.RatingLabel(state), leftColumnX, 1000, false, 34, colorAccent, 0, 0.5)
		} else {
			f.text("Mean: "+notAvailable, leftColumnX, 940, true, 40, colorWarning, 0, 0.5)
		}

		drawRightColumn(f, mc)
	}
}

func drawRightColumn(f *frame, mc monthlyContext) {
	y := 360.0
	step := 120.0

	f.text("Change", rightColumnX, y, true, 30, colorMuted, 0, 0.5)
	if mc.mean != nil && mc.previous != nil {
		delta := *mc.mean - *mc.previous
		c := colorAccent
		if delta < 0 {
			c = colorWarning
		}
		f.text(fmt.Sprintf("%+.3f", delta), rightColumnX, y+44, true, 40, c, 0, 0.5)
	} else {
		f.text(notAvailable, rightColumnX, y+44, true, 40, colorWarning, 0, 0.5)
	}

	y += step
	f.text("Image quality", rightColumnX, y, true, 30, colorMuted, 0, 0.5)
	f.text(cloudLabel(mc.record.CloudCover), rightColumnX, y+44, false, 34, colorText, 0, 0.5)

	y += step
	f.text("Climate", rightColumnX, y, true, 30, colorMuted, 0, 0.5)
	f.text(climateLine(mc.record), rightColumnX, y+44, false, 34, colorText, 0, 0.5)
}

func paragraphScene(title, body string) func(*frame) {
	return func(f *frame) {
		f.text(title, frameWidth/2, 220, true, 60, colorAccent, 0.5, 0.5)
		f.wrapped(body, frameWidth/2, 380, 1400, false, 40, colorText)
	}
}

func bulletScene(title string, bullets []string) func(*frame) {
	return func(f *frame) {
		f.text(title, frameWidth/2, 220, true, 60, colorAccent, 0.5, 0.5)
		y := 400.0
		for i, bullet := range bullets {
			f.text(fmt.Sprintf("%d.  %s", i+1, bullet), 320, y, false, 40, colorText, 0, 0.5)
			y += 110
		}
	}
}

func closingScene(product, tagline string) func(*frame) {
	return func(f *frame) {
		f.text(product, frameWidth/2, 480, true, 84, colorText, 0.5, 0.5)
		f.text(tagline, frameWidth/2, 590, false, 40, colorMuted, 0.5, 0.5)
	}
}

// drawRaster centres the monthly map at the fixed scale factor. A raster
// that cannot be decoded degrades to a labeled placeholder.
func drawRaster(f *frame, path string) {
	src, err := loadImage(path)
	if err != nil {
		f.dc.SetRGB255(40, 48, 42)
		f.dc.DrawRectangle(560, 220, 800, 640)
		f.dc.Fill()
		f.text("Raster "+notAvailable, frameWidth/2, 540, true, 44, colorWarning, 0.5, 0.5)
		return
	}

	bounds := src.Bounds()
	scale := rasterScale * math.Min(
		float64(frameWidth)/float64(bounds.Dx()),
		float64(frameHeight)/float64(bounds.Dy()))
	w := int(float64(bounds.Dx()) * scale)
	h := int(float64(bounds.Dy()) * scale)

	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, bounds, xdraw.Src, nil)
	f.dc.DrawImageAnchored(scaled, frameWidth/2, frameHeight/2, 0.5, 0.5)
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	return img, err
}

// drawLegend stacks the 5-step color ramp with labels on the left edge.
func drawLegend(f *frame, kind series.IndexKind) {
	ramp := rampFor(kind)
	y := 400.0
	for _, step := range ramp {
		f.dc.SetRGB255(step.color.r, step.color.g, step.color.b)
		f.dc.DrawRectangle(leftColumnX, y, 46, 46)
		f.dc.Fill()
		f.text(step.label, leftColumnX+62, y+23, false, 26, colorText, 0, 0.5)
		y += 58
	}
}

func cloudLabel(cover *float64) string {
	if cover == nil {
		return notAvailable
	}
	pct := *cover * 100
	switch {
	case *cover < 0.2:
		return fmt.Sprintf("good (%.0f%% cloud)", pct)
	case *cover < 0.5:
		return fmt.Sprintf("fair (%.0f%% cloud)", pct)
	default:
		return fmt.Sprintf("poor (%.0f%% cloud)", pct)
	}
}

func climateLine(rec series.MonthlyRecord) string {
	temp := notAvailable
	if rec.TemperatureC != nil {
		temp = fmt.Sprintf("%.1f C", *rec.TemperatureC)
	}
	precip := notAvailable
	if rec.PrecipitationMM != nil {
		precip = fmt.Sprintf("%.0f mm", *rec.PrecipitationMM)
	}
	return temp + " / " + precip
}
