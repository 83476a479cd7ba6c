package timeline

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Faces are built lazily from the embedded Go fonts and cached per size.
// The cache is shared by all renders in the process.
var fontCache struct {
	sync.Mutex
	regular *opentype.Font
	bold    *opentype.Font
	faces   map[faceKey]font.Face
}

type faceKey struct {
	bold bool
	size float64
}

func face(bold bool, size float64) font.Face {
	fontCache.Lock()
	defer fontCache.Unlock()

	if fontCache.faces == nil {
		fontCache.faces = map[faceKey]font.Face{}
		fontCache.regular = mustParse(goregular.TTF)
		fontCache.bold = mustParse(gobold.TTF)
	}

	key := faceKey{bold: bold, size: size}
	if f, ok := fontCache.faces[key]; ok {
		return f
	}

	src := fontCache.regular
	if bold {
		src = fontCache.bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		panic(err)
	}
	fontCache.faces[key] = f
	return f
}

func mustParse(ttf []byte) *opentype.Font {
	f, err := opentype.Parse(ttf)
	if err != nil {
		panic(err)
	}
	return f
}
