package keycast

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// drawStats counts what a single traversal submitted. Only logged in debug mode.
type drawStats struct {
	meshes    int
	texts     int
	triangles int
}

// traverse walks the node tree depth-first in child order, updating transforms
// and drawing visible meshes and text. Later siblings draw above earlier ones.
func traverse(dst *ebiten.Image, n *Node, parentTransform [6]float64, parentAlpha float64, parentRecomputed bool, stats *drawStats) {
	if !n.Visible {
		return
	}

	recompute := n.transformDirty || parentRecomputed
	if recompute {
		local := computeLocalTransform(n)
		n.worldTransform = multiplyAffine(parentTransform, local)
		n.worldAlpha = parentAlpha * n.Alpha
		n.transformDirty = false
	}

	// Transparent nodes still get their transforms updated above so
	// LocalToWorld stays valid while they are faded out.
	if n.worldAlpha > 0 {
		switch n.Type {
		case NodeTypeMesh:
			drawMesh(dst, n, stats)
		case NodeTypeText:
			drawText(dst, n, stats)
		}
	}

	for _, child := range n.children {
		traverse(dst, child, n.worldTransform, n.worldAlpha, recompute, stats)
	}
}

// drawMesh submits a mesh node with its world transform and tint.
func drawMesh(dst *ebiten.Image, n *Node, stats *drawStats) {
	if len(n.Vertices) == 0 || len(n.Indices) == 0 {
		return
	}
	verts := ensureTransformedVerts(n)
	tint := n.Color
	tint.A *= n.worldAlpha
	transformVertices(n.Vertices, verts, n.worldTransform, tint)

	var triOp ebiten.DrawTrianglesOptions
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	triOp.AntiAlias = true
	dst.DrawTriangles(verts, n.Indices, ensureWhitePixel(), &triOp)

	if stats != nil {
		stats.meshes++
		stats.triangles += len(n.Indices) / 3
	}
}

// drawText draws a text node with a TTF face. Nodes using other Font
// implementations (measurement-only fonts) draw nothing.
func drawText(dst *ebiten.Image, n *Node, stats *drawStats) {
	tb := n.TextBlock
	if tb == nil || tb.Content == "" {
		return
	}
	f, ok := tb.Font.(*TTFFont)
	if !ok {
		return
	}

	op := &text.DrawOptions{}
	m := n.worldTransform
	op.GeoM.SetElement(0, 0, m[0])
	op.GeoM.SetElement(1, 0, m[1])
	op.GeoM.SetElement(0, 1, m[2])
	op.GeoM.SetElement(1, 1, m[3])
	op.GeoM.SetElement(0, 2, m[4])
	op.GeoM.SetElement(1, 2, m[5])

	alpha := tb.Color.A * n.Color.A * n.worldAlpha
	op.ColorScale.Scale(
		float32(tb.Color.R*n.Color.R*alpha),
		float32(tb.Color.G*n.Color.G*alpha),
		float32(tb.Color.B*n.Color.B*alpha),
		float32(alpha),
	)
	op.Filter = ebiten.FilterLinear
	op.LineSpacing = f.LineHeight()
	text.Draw(dst, tb.Content, f.Face(), op)

	if stats != nil {
		stats.texts++
	}
}
