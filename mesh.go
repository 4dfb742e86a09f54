package keycast

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// cornerSegments is the number of arc segments used per rounded corner.
const cornerSegments = 6

// RectStyle describes a rounded rectangle centered on its node's origin.
// A zero StrokeWidth or a fully transparent color skips that part.
type RectStyle struct {
	Width, Height float64
	Radius        float64
	Fill          Color
	Stroke        Color
	StrokeWidth   float64
}

// NewRoundedRect creates a mesh node for a filled and optionally stroked
// rounded rectangle centered at (0, 0) in local space.
func NewRoundedRect(name string, style RectStyle) *Node {
	verts, inds := buildRoundedRect(style)
	n := NewMesh(name, verts, inds)
	n.UserData = style
	return n
}

// RectStyleOf returns the style a node was built with by NewRoundedRect.
func RectStyleOf(n *Node) (RectStyle, bool) {
	s, ok := n.UserData.(RectStyle)
	return s, ok
}

// buildRoundedRect generates fill triangles (fan) followed by stroke triangles
// (a strip between two offset outlines) so the stroke draws over the fill.
func buildRoundedRect(s RectStyle) ([]ebiten.Vertex, []uint16) {
	var verts []ebiten.Vertex
	var inds []uint16

	if s.Fill.A > 0 {
		outline := roundedRectOutline(s.Width, s.Height, s.Radius)
		verts, inds = appendPolygonFan(verts, inds, outline, s.Fill)
	}
	if s.StrokeWidth > 0 && s.Stroke.A > 0 {
		half := s.StrokeWidth / 2
		outer := roundedRectOutline(s.Width+s.StrokeWidth, s.Height+s.StrokeWidth, s.Radius+half)
		inner := roundedRectOutline(s.Width-s.StrokeWidth, s.Height-s.StrokeWidth, math.Max(s.Radius-half, 0))
		verts, inds = appendRing(verts, inds, outer, inner, s.Stroke)
	}
	return verts, inds
}

// roundedRectOutline returns the outline points of a w x h rounded rectangle
// centered at the origin, clockwise in screen space (Y down). Every corner
// contributes cornerSegments+1 points so outlines of equal segment count can be
// paired for stroking.
func roundedRectOutline(w, h, r float64) []Vec2 {
	r = math.Max(0, math.Min(r, math.Min(w, h)/2))
	hw, hh := w/2, h/2
	centers := [4]Vec2{
		{hw - r, -hh + r}, // top-right
		{hw - r, hh - r},  // bottom-right
		{-hw + r, hh - r}, // bottom-left
		{-hw + r, -hh + r},
	}
	startAngles := [4]float64{-math.Pi / 2, 0, math.Pi / 2, math.Pi}

	pts := make([]Vec2, 0, 4*(cornerSegments+1))
	for i, c := range centers {
		for seg := 0; seg <= cornerSegments; seg++ {
			a := startAngles[i] + float64(seg)/cornerSegments*(math.Pi/2)
			sin, cos := math.Sincos(a)
			pts = append(pts, Vec2{c.X + r*cos, c.Y + r*sin})
		}
	}
	return pts
}

// appendPolygonFan appends a fan-triangulated convex polygon.
// N vertices, 3*(N-2) indices.
func appendPolygonFan(verts []ebiten.Vertex, inds []uint16, points []Vec2, c Color) ([]ebiten.Vertex, []uint16) {
	if len(points) < 3 {
		return verts, inds
	}
	base := uint16(len(verts))
	for _, p := range points {
		verts = append(verts, solidVertex(p, c))
	}
	// Fan triangulation: vertex 0 is the hub.
	for i := 0; i < len(points)-2; i++ {
		inds = append(inds, base, base+uint16(i+1), base+uint16(i+2))
	}
	return verts, inds
}

// appendRing appends the band between two outlines with the same point count.
func appendRing(verts []ebiten.Vertex, inds []uint16, outer, inner []Vec2, c Color) ([]ebiten.Vertex, []uint16) {
	n := len(outer)
	if n != len(inner) || n < 3 {
		return verts, inds
	}
	base := uint16(len(verts))
	for i := 0; i < n; i++ {
		verts = append(verts, solidVertex(outer[i], c), solidVertex(inner[i], c))
	}
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		o0, i0 := base+uint16(2*i), base+uint16(2*i+1)
		o1, i1 := base+uint16(2*j), base+uint16(2*j+1)
		inds = append(inds, o0, o1, i0, i0, o1, i1)
	}
	return verts, inds
}

// solidVertex builds an untextured vertex mapped to the center of the white pixel.
func solidVertex(p Vec2, c Color) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(p.X),
		DstY:   float32(p.Y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(c.R),
		ColorG: float32(c.G),
		ColorB: float32(c.B),
		ColorA: float32(c.A),
	}
}

// transformVertices applies an affine transform and color tint to src vertices,
// writing premultiplied results into dst. dst must be at least len(src) in length.
//
// Matrix layout: [0]=a, [1]=b, [2]=c, [3]=d, [4]=tx, [5]=ty
// newX = a*x + c*y + tx, newY = b*x + d*y + ty
func transformVertices(src, dst []ebiten.Vertex, transform [6]float64, tint Color) {
	a, b, c, d, tx, ty := transform[0], transform[1], transform[2], transform[3], transform[4], transform[5]
	cr := float32(tint.R)
	cg := float32(tint.G)
	cb := float32(tint.B)
	ca := float32(tint.A)

	for i := range src {
		s := &src[i]
		ox := float64(s.DstX)
		oy := float64(s.DstY)
		alpha := s.ColorA * ca
		dst[i] = ebiten.Vertex{
			DstX:   float32(a*ox + c*oy + tx),
			DstY:   float32(b*ox + d*oy + ty),
			SrcX:   s.SrcX,
			SrcY:   s.SrcY,
			ColorR: s.ColorR * cr * alpha,
			ColorG: s.ColorG * cg * alpha,
			ColorB: s.ColorB * cb * alpha,
			ColorA: alpha,
		}
	}
}

// ensureTransformedVerts grows the node's transformedVerts buffer to fit
// len(n.Vertices), using a high-water-mark strategy (never shrinks).
func ensureTransformedVerts(n *Node) []ebiten.Vertex {
	need := len(n.Vertices)
	if cap(n.transformedVerts) < need {
		n.transformedVerts = make([]ebiten.Vertex, need)
	}
	n.transformedVerts = n.transformedVerts[:need]
	return n.transformedVerts
}

// --- White pixel singleton (no sync.Once; keycast is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image.
// Created on first draw so scene construction never touches the GPU.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.RGBA{R: 255, G: 255, B: 255, A: 255})
	}
	return whitePixelImage
}
