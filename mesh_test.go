package keycast

import (
	"math"
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// --- transformVertices ---

func TestTransformVerticesTranslation(t *testing.T) {
	src := []ebiten.Vertex{
		{DstX: 0, DstY: 0, ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	dst := make([]ebiten.Vertex, 1)
	transformVertices(src, dst, [6]float64{1, 0, 0, 1, 100, 200}, ColorWhite)

	if !approxEqual(float64(dst[0].DstX), 100, epsilon) || !approxEqual(float64(dst[0].DstY), 200, epsilon) {
		t.Errorf("translation: dst[0] = (%f,%f), want (100,200)", dst[0].DstX, dst[0].DstY)
	}
}

func TestTransformVerticesPremultipliesTint(t *testing.T) {
	src := []ebiten.Vertex{
		{ColorR: 1, ColorG: 0.5, ColorB: 0, ColorA: 0.5},
	}
	dst := make([]ebiten.Vertex, 1)
	transformVertices(src, dst, identityTransform, Color{1, 1, 1, 0.5})

	v := dst[0]
	if !approxEqual(float64(v.ColorA), 0.25, 1e-6) {
		t.Errorf("ColorA = %v, want 0.25", v.ColorA)
	}
	if !approxEqual(float64(v.ColorR), 0.25, 1e-6) || !approxEqual(float64(v.ColorG), 0.125, 1e-6) {
		t.Errorf("premultiplied RGB = (%v, %v), want (0.25, 0.125)", v.ColorR, v.ColorG)
	}
}

func TestEnsureTransformedVertsGrows(t *testing.T) {
	n := NewMesh("m", make([]ebiten.Vertex, 4), nil)
	buf := ensureTransformedVerts(n)
	if len(buf) != 4 {
		t.Fatalf("len = %d, want 4", len(buf))
	}
	n.Vertices = n.Vertices[:2]
	if buf := ensureTransformedVerts(n); len(buf) != 2 || cap(buf) < 4 {
		t.Errorf("len/cap = %d/%d, want 2/>=4", len(buf), cap(buf))
	}
}

// --- Rounded rectangles ---

const pointsPerOutline = 4 * (cornerSegments + 1)

func TestRoundedRectFillOnly(t *testing.T) {
	n := NewRoundedRect("fill", RectStyle{Width: 2, Height: 1, Radius: 0.1, Fill: ColorWhite})
	if len(n.Vertices) != pointsPerOutline {
		t.Errorf("vertices = %d, want %d", len(n.Vertices), pointsPerOutline)
	}
	if len(n.Indices) != 3*(pointsPerOutline-2) {
		t.Errorf("indices = %d, want %d", len(n.Indices), 3*(pointsPerOutline-2))
	}
}

func TestRoundedRectFillAndStroke(t *testing.T) {
	n := NewRoundedRect("both", RectStyle{
		Width: 2, Height: 1, Radius: 0.1,
		Fill: ColorWhite, Stroke: ColorWhite, StrokeWidth: 0.02,
	})
	wantVerts := pointsPerOutline + 2*pointsPerOutline
	wantInds := 3*(pointsPerOutline-2) + 6*pointsPerOutline
	if len(n.Vertices) != wantVerts || len(n.Indices) != wantInds {
		t.Errorf("vertices/indices = %d/%d, want %d/%d", len(n.Vertices), len(n.Indices), wantVerts, wantInds)
	}
	for _, i := range n.Indices {
		if int(i) >= len(n.Vertices) {
			t.Fatalf("index %d out of range", i)
		}
	}
}

func TestRoundedRectTransparentPartsSkipped(t *testing.T) {
	n := NewRoundedRect("border", RectStyle{Width: 2, Height: 1, Stroke: ColorWhite, StrokeWidth: 0.02})
	if len(n.Vertices) != 2*pointsPerOutline {
		t.Errorf("stroke-only vertices = %d, want %d", len(n.Vertices), 2*pointsPerOutline)
	}
	empty := NewRoundedRect("empty", RectStyle{Width: 2, Height: 1})
	if len(empty.Vertices) != 0 || len(empty.Indices) != 0 {
		t.Error("a rect with no fill and no stroke should have no geometry")
	}
}

func TestRoundedRectOutlineBounds(t *testing.T) {
	pts := roundedRectOutline(3, 1, 0.2)
	var minX, maxX, minY, maxY float64
	for _, p := range pts {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	if !approxEqual(minX, -1.5, 1e-9) || !approxEqual(maxX, 1.5, 1e-9) {
		t.Errorf("x range = [%v, %v], want [-1.5, 1.5]", minX, maxX)
	}
	if !approxEqual(minY, -0.5, 1e-9) || !approxEqual(maxY, 0.5, 1e-9) {
		t.Errorf("y range = [%v, %v], want [-0.5, 0.5]", minY, maxY)
	}
}

func TestRoundedRectRadiusClamped(t *testing.T) {
	// A radius larger than half the short side degenerates to a stadium.
	pts := roundedRectOutline(2, 1, 5)
	for _, p := range pts {
		if math.Abs(p.Y) > 0.5+1e-9 {
			t.Fatalf("point %v outside the rect", p)
		}
	}
}

func TestRectStyleOf(t *testing.T) {
	style := RectStyle{Width: 1, Height: 1, Fill: ColorWhite}
	n := NewRoundedRect("r", style)
	got, ok := RectStyleOf(n)
	if !ok || got != style {
		t.Errorf("RectStyleOf = %+v, %v; want %+v, true", got, ok, style)
	}
	if _, ok := RectStyleOf(NewContainer("c")); ok {
		t.Error("containers carry no rect style")
	}
}
