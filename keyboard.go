package keycast

import (
	"fmt"
	"unicode/utf8"
)

// Keyboard geometry, in key units.
const (
	KeyHeight     = 1.0
	KeySpacing    = 0.12
	KeyboardScale = 0.8

	keyCornerRadius       = 0.08
	keyStrokeWidth        = 0.02
	highlightInset        = 0.1
	highlightCornerRadius = 0.06
	highlightLift         = 0.05
)

// Key palette.
var (
	alphaKeyFill     = MustParseColor("#4A4A4A")
	alphaKeyStroke   = MustParseColor("#6A6A6A")
	specialKeyFill   = MustParseColor("#2A2A2A")
	specialKeyStroke = MustParseColor("#4A4A4A")
	keyLabelColor    = MustParseColor("#E0E0E0")
	keyHighlightFill = ColorWhite.WithAlpha(0.1)
)

// KeyWidth returns the declared width of a key label in key units.
// Unknown labels are one unit wide.
func KeyWidth(label string) float64 {
	switch label {
	case "Space":
		return 6.0
	case "Enter":
		return 2.5
	case "Shift", "Caps Lock", "CapsLock":
		return 2.2
	case "Tab":
		return 1.5
	case "Control", "Option", "Alt", "Alt Gr", "AltGr":
		return 1.2
	default:
		return 1.0
	}
}

// RowWidth returns the total width of a row: declared key widths plus the
// fixed spacing between neighbouring keys.
func RowWidth(row []string) float64 {
	if len(row) == 0 {
		return 0
	}
	var w float64
	for _, label := range row {
		w += KeyWidth(label)
	}
	return w + KeySpacing*float64(len(row)-1)
}

// IsAlphaKey reports whether label is a single character listed in categories.
func IsAlphaKey(label string, categories map[string]string) bool {
	if utf8.RuneCountInString(label) != 1 {
		return false
	}
	_, ok := categories[label]
	return ok
}

// KeyDescriptor identifies one occurrence of a key label on the keyboard.
type KeyDescriptor struct {
	Label string
	Row   int
	Col   int
	Width float64
}

// ID returns the unique identifier label#row#col.
func (k KeyDescriptor) ID() string {
	return fmt.Sprintf("%s#%d#%d", k.Label, k.Row, k.Col)
}

// KeySlot is the visual instance of one KeyDescriptor. Node is a container
// positioned at the key center in keyboard space; Base, Highlight and Label
// are its children in draw order.
type KeySlot struct {
	Key   KeyDescriptor
	Alpha bool

	Node      *Node
	Base      *Node
	Highlight *Node
	Label     *Node
	Glow      *Node // set once the key has been pressed
}

// ID returns the slot's key identifier.
func (s *KeySlot) ID() string {
	return s.Key.ID()
}

// Center returns the slot's resting center in keyboard space.
func (s *KeySlot) Center() Vec2 {
	return Vec2{s.Node.X, s.Node.Y}
}

// LayoutIndex maps each key label to the identifiers of the slots carrying
// it, in row-major scan order.
type LayoutIndex struct {
	byLabel map[string][]string
}

func newLayoutIndex() *LayoutIndex {
	return &LayoutIndex{byLabel: make(map[string][]string)}
}

func (ix *LayoutIndex) add(label, id string) {
	ix.byLabel[label] = append(ix.byLabel[label], id)
}

// Lookup returns every slot id registered under label, first occurrence first.
func (ix *LayoutIndex) Lookup(label string) []string {
	return ix.byLabel[label]
}

// First resolves label to its first registered slot id.
func (ix *LayoutIndex) First(label string) (string, bool) {
	ids := ix.byLabel[label]
	if len(ids) == 0 {
		return "", false
	}
	return ids[0], true
}

// Len returns the number of distinct labels.
func (ix *LayoutIndex) Len() int {
	return len(ix.byLabel)
}

// Keyboard is the registry of laid-out key slots. It is built once by
// BuildKeyboard and handed to the reveal sequencer, which may decorate and
// move slots but never adds or removes them.
type Keyboard struct {
	Node  *Node
	slots map[string]*KeySlot
	order []string
}

// Slot returns the slot with the given id.
func (kb *Keyboard) Slot(id string) (*KeySlot, bool) {
	s, ok := kb.slots[id]
	return s, ok
}

// Slots returns every slot in row-major scan order.
func (kb *Keyboard) Slots() []*KeySlot {
	out := make([]*KeySlot, len(kb.order))
	for i, id := range kb.order {
		out[i] = kb.slots[id]
	}
	return out
}

// IDs returns every slot id in row-major scan order.
func (kb *Keyboard) IDs() []string {
	return append([]string(nil), kb.order...)
}

// Len returns the number of slots.
func (kb *Keyboard) Len() int {
	return len(kb.order)
}

// Scale returns the uniform scale applied to the assembled keyboard.
func (kb *Keyboard) Scale() float64 {
	return kb.Node.ScaleX
}

// ToStage converts a point in keyboard space to stage units.
func (kb *Keyboard) ToStage(p Vec2) Vec2 {
	return Vec2{kb.Node.X + p.X*kb.Node.ScaleX, kb.Node.Y + p.Y*kb.Node.ScaleY}
}

// FromStage converts a point in stage units to keyboard space.
func (kb *Keyboard) FromStage(p Vec2) Vec2 {
	return Vec2{(p.X - kb.Node.X) / kb.Node.ScaleX, (p.Y - kb.Node.Y) / kb.Node.ScaleY}
}

// BuildKeyboard lays out rows of key labels top to bottom. Each row is
// centered on the vertical axis on its own; once every row is placed, the
// whole keyboard is scaled by KeyboardScale and centered on the origin.
func BuildKeyboard(rows [][]string, categories map[string]string, fonts *Fonts) (*Keyboard, *LayoutIndex) {
	kb := &Keyboard{
		Node:  NewContainer("keyboard"),
		slots: make(map[string]*KeySlot),
	}
	ix := newLayoutIndex()

	bounds := Rect{}
	y := KeyHeight / 2
	for r, row := range rows {
		x := -RowWidth(row) / 2
		for c, label := range row {
			key := KeyDescriptor{Label: label, Row: r, Col: c, Width: KeyWidth(label)}
			slot := newKeySlot(key, IsAlphaKey(label, categories), fonts)
			slot.Node.SetPosition(x+key.Width/2, y)
			kb.Node.AddChild(slot.Node)

			id := key.ID()
			kb.slots[id] = slot
			kb.order = append(kb.order, id)
			ix.add(label, id)

			bounds = bounds.Union(Rect{X: x, Y: y - KeyHeight/2, Width: key.Width, Height: KeyHeight})
			x += key.Width + KeySpacing
		}
		y += KeyHeight + KeySpacing
	}

	// Scale and center once, after all rows are placed, so rows keep their
	// relative alignment.
	center := bounds.Center()
	kb.Node.SetScale(KeyboardScale, KeyboardScale)
	kb.Node.SetPosition(-center.X*KeyboardScale, -center.Y*KeyboardScale)
	return kb, ix
}

// newKeySlot builds the base shape, raised inner highlight and centered label
// for one key, grouped under a container at the origin.
func newKeySlot(key KeyDescriptor, alpha bool, fonts *Fonts) *KeySlot {
	fill, stroke := specialKeyFill, specialKeyStroke
	if alpha {
		fill, stroke = alphaKeyFill, alphaKeyStroke
	}

	id := key.ID()
	slot := &KeySlot{Key: key, Alpha: alpha, Node: NewContainer("key:" + id)}
	slot.Base = NewRoundedRect("key-base:"+id, RectStyle{
		Width:       key.Width,
		Height:      KeyHeight,
		Radius:      keyCornerRadius,
		Fill:        fill,
		Stroke:      stroke,
		StrokeWidth: keyStrokeWidth,
	})
	slot.Highlight = NewRoundedRect("key-highlight:"+id, RectStyle{
		Width:  key.Width - highlightInset,
		Height: KeyHeight - highlightInset,
		Radius: highlightCornerRadius,
		Fill:   keyHighlightFill,
	})
	slot.Highlight.SetPosition(0, -highlightLift)

	var font Font
	if fonts != nil {
		font = fonts.KeyLabel
		if utf8.RuneCountInString(key.Label) > 2 {
			font = fonts.KeyLabelSmall
		}
	}
	slot.Label = newCenteredText("key-label:"+id, key.Label, font, keyLabelColor)

	slot.Node.AddChild(slot.Base)
	slot.Node.AddChild(slot.Highlight)
	slot.Node.AddChild(slot.Label)
	return slot
}

// newCenteredText creates a stage-scaled text node whose origin is the center
// of its measured box.
func newCenteredText(name, content string, font Font, c Color) *Node {
	n := newStageText(name, content, font, c)
	w, h := n.TextBlock.Size()
	n.SetPivot(w/2, h/2)
	return n
}

// newStageText creates a text node sized in stage units with its origin at the
// top-left of its measured box.
func newStageText(name, content string, font Font, c Color) *Node {
	n := NewText(name, content, font)
	n.TextBlock.Color = c
	n.SetScale(1/UnitPx, 1/UnitPx)
	return n
}
