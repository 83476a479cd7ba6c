package timeline

import "agrovista/internal/series"

// rgb is a plain 8-bit color triple for gg's SetRGB255.
type rgb struct{ r, g, b int }

var (
	colorBackground = rgb{16, 24, 18}
	colorText       = rgb{245, 245, 245}
	colorMuted      = rgb{176, 190, 180}
	colorAccent     = rgb{129, 199, 132}
	colorWarning    = rgb{255, 179, 0} // used for every "[N/A]" value
	colorShadow     = rgb{0, 0, 0}
)

// legendStep pairs one ramp color with its human-readable label.
type legendStep struct {
	label string
	color rgb
}

var vigorRamp = []legendStep{
	{"Very low", rgb{198, 40, 40}},
	{"Low", rgb{239, 108, 0}},
	{"Moderate", rgb{253, 216, 53}},
	{"Good", rgb{124, 179, 66}},
	{"Excellent", rgb{46, 125, 50}},
}

var moistureRamp = []legendStep{
	{"Very dry", rgb{198, 40, 40}},
	{"Dry", rgb{239, 108, 0}},
	{"Moderate", rgb{255, 213, 79}},
	{"Humid", rgb{79, 195, 247}},
	{"Very humid", rgb{21, 101, 192}},
}

// rampFor selects the 5-step legend for an index.
func rampFor(kind series.IndexKind) []legendStep {
	if kind == series.NDMI {
		return moistureRamp
	}
	return vigorRamp
}
