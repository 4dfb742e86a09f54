package keycast

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when vertices are submitted.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorTransparent has every component at zero.
var ColorTransparent = Color{}

// WithAlpha returns c with its alpha component replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// ParseColor parses a CSS-style hex color ("#00FF88" or "#0F8") into an opaque Color.
func ParseColor(hex string) (Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("keycast: parse color %q: %w", hex, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: 1}, nil
}

// MustParseColor is like ParseColor but panics on malformed input. Intended for
// package-level palette constants.
func MustParseColor(hex string) Color {
	c, err := ParseColor(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// Vec2 is a 2D vector used for positions, offsets and sizes.
type Vec2 struct {
	X, Y float64
}

// Add returns v+o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Scale returns v scaled by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the midpoint of r.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// Union returns the smallest rectangle containing both r and o. A zero-sized
// receiver is treated as empty.
func (r Rect) Union(o Rect) Rect {
	if r.Width == 0 && r.Height == 0 {
		return o
	}
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.X+r.Width, o.X+o.Width)
	maxY := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Offset returns r translated by d.
func (r Rect) Offset(d Vec2) Rect {
	r.X += d.X
	r.Y += d.Y
	return r
}

// NodeType distinguishes rendering behavior for a Node.
type NodeType uint8

const (
	NodeTypeContainer NodeType = iota // group node with no visual output
	NodeTypeMesh                      // renders triangles via DrawTriangles
	NodeTypeText                      // renders text via a TTF face
)

// Stage geometry. Layout code works in units where a standard key is 1.0 tall;
// the stage maps FrameHeight units onto the screen height.
const (
	FrameHeight = 8.0
	UnitPx      = 90.0 // pixels per unit at the default 1280x720 resolution

	DefaultScreenWidth  = 1280
	DefaultScreenHeight = 720
)
