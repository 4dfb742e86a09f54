package keycast

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
)

// Font is the interface for text measurement. Widths and heights are in pixels.
type Font interface {
	MeasureString(text string) (width, height float64)
	LineHeight() float64
}

// TextBlock holds text content, formatting, and cached layout state.
type TextBlock struct {
	Content string
	Font    Font
	Color   Color

	layoutDirty bool
	measuredW   float64
	measuredH   float64
}

// Invalidate forces the next Size call to re-measure the content.
func (tb *TextBlock) Invalidate() {
	tb.layoutDirty = true
}

// Size returns the measured size of the content in pixels.
func (tb *TextBlock) Size() (w, h float64) {
	tb.layout()
	return tb.measuredW, tb.measuredH
}

func (tb *TextBlock) layout() {
	if !tb.layoutDirty {
		return
	}
	tb.layoutDirty = false
	if tb.Font == nil || tb.Content == "" {
		tb.measuredW, tb.measuredH = 0, 0
		return
	}
	tb.measuredW, tb.measuredH = tb.Font.MeasureString(tb.Content)
}

// TextSize returns the size of a text node on the stage, in units: the
// measured pixel size multiplied by the node's own scale.
func TextSize(n *Node) (w, h float64) {
	if n.TextBlock == nil {
		return 0, 0
	}
	pw, ph := n.TextBlock.Size()
	return pw * n.ScaleX, ph * n.ScaleY
}

// --- TTFFont ---

// TTFFont wraps Ebitengine's text/v2 for TrueType font rendering.
type TTFFont struct {
	face *text.GoTextFace
	size float64
	lh   float64 // cached line height
}

// LoadTTFFont loads a TrueType font from raw TTF/OTF data at the given size.
func LoadTTFFont(ttfData []byte, size float64) (*TTFFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("keycast: failed to parse TTF data: %w", err)
	}

	face := &text.GoTextFace{
		Source: source,
		Size:   size,
	}

	m := face.Metrics()
	lh := m.HAscent + m.HDescent + m.HLineGap

	return &TTFFont{face: face, size: size, lh: lh}, nil
}

// MeasureString returns the width and height of the rendered text.
func (f *TTFFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *TTFFont) LineHeight() float64 {
	return f.lh
}

// Face returns the underlying GoTextFace for direct text/v2 rendering.
func (f *TTFFont) Face() *text.GoTextFace {
	return f.face
}

// --- Font set ---

// Fonts is the set of faces a keyboard clip uses. Sizes are in pixels at the
// default resolution.
type Fonts struct {
	KeyLabel      Font // labels of one or two characters
	KeyLabelSmall Font // longer labels such as "Shift"
	Title         Font
	Body          Font
	BodyBold      Font
	Detail        Font
	Error         Font
}

// Font sizes in pixels.
const (
	keyLabelSize      = 24
	keyLabelSmallSize = 18
	titleSize         = 44
	bodySize          = 20
	detailSize        = 18
	errorSize         = 48
)

// LoadFonts builds the default monospace font set from the Go fonts.
func LoadFonts() (*Fonts, error) {
	type face struct {
		dst  *Font
		data []byte
		size float64
	}
	fs := &Fonts{}
	faces := []face{
		{&fs.KeyLabel, gomonobold.TTF, keyLabelSize},
		{&fs.KeyLabelSmall, gomonobold.TTF, keyLabelSmallSize},
		{&fs.Title, gomonobold.TTF, titleSize},
		{&fs.Body, gomono.TTF, bodySize},
		{&fs.BodyBold, gomonobold.TTF, bodySize},
		{&fs.Detail, gomono.TTF, detailSize},
		{&fs.Error, gomono.TTF, errorSize},
	}
	for _, s := range faces {
		f, err := LoadTTFFont(s.data, s.size)
		if err != nil {
			return nil, err
		}
		*s.dst = f
	}
	return fs, nil
}
