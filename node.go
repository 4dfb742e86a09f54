package keycast

import "github.com/hajimehoshi/ebiten/v2"

// nodeIDCounter is a plain counter; keycast is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// Node is the fundamental scene graph element. A single flat struct is used for
// all node types to avoid interface dispatch while drawing.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	X, Y   float64
	ScaleX float64
	ScaleY float64
	PivotX float64
	PivotY float64

	// Computed during traversal
	worldTransform [6]float64
	worldAlpha     float64
	transformDirty bool

	// Visibility
	Alpha   float64
	Visible bool

	// Tint applied on top of vertex or text color.
	Color Color

	// Mesh fields (NodeTypeMesh)
	Vertices []ebiten.Vertex
	Indices  []uint16

	// Text fields (NodeTypeText)
	TextBlock *TextBlock

	// Metadata
	UserData any

	transformedVerts []ebiten.Vertex // preallocated transform buffer
	disposed         bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.ScaleX = 1
	n.ScaleY = 1
	n.Alpha = 1
	n.Color = ColorWhite
	n.Visible = true
	n.transformDirty = true
}

// NewContainer creates a container node with no visual representation.
func NewContainer(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeContainer}
	nodeDefaults(n)
	return n
}

// NewMesh creates a mesh node that uses DrawTriangles for rendering. Vertex
// colors are multiplied by the node's Color and world alpha.
func NewMesh(name string, vertices []ebiten.Vertex, indices []uint16) *Node {
	n := &Node{
		Name:     name,
		Type:     NodeTypeMesh,
		Vertices: vertices,
		Indices:  indices,
	}
	nodeDefaults(n)
	return n
}

// NewText creates a text node with the given content and font. Text is laid
// out in pixels; callers place it on the stage with ScaleX/ScaleY = 1/UnitPx.
func NewText(name string, content string, font Font) *Node {
	n := &Node{
		Name: name,
		Type: NodeTypeText,
		TextBlock: &TextBlock{
			Content:     content,
			Font:        font,
			Color:       ColorWhite,
			layoutDirty: true,
		},
	}
	nodeDefaults(n)
	return n
}

// --- Tree manipulation ---

// AddChild appends child to this node's children, drawing it above its
// existing siblings. If child already has a parent, it is removed from that
// parent first. Panics if child is nil or child is an ancestor of this node.
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("keycast: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("keycast: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("keycast: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// moveChild moves child to index among n's children, shifting the siblings
// in between.
func (n *Node) moveChild(child *Node, index int) {
	old := -1
	for i, c := range n.children {
		if c == child {
			old = i
			break
		}
	}
	if old < 0 || old == index {
		return
	}
	if old < index {
		copy(n.children[old:], n.children[old+1:index+1])
	} else {
		copy(n.children[index+1:], n.children[index:old])
	}
	n.children[index] = child
}

// BringToFront moves the node to the end of its parent's children so it draws
// above every sibling. No-op for detached nodes.
func (n *Node) BringToFront() {
	if n.Parent == nil {
		return
	}
	n.Parent.moveChild(n, len(n.Parent.children)-1)
}

// SendToBack moves the node to the start of its parent's children so every
// sibling draws above it. No-op for detached nodes.
func (n *Node) SendToBack() {
	if n.Parent == nil {
		return
	}
	n.Parent.moveChild(n, 0)
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Vertices = nil
	n.Indices = nil
	n.transformedVerts = nil
	n.TextBlock = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
