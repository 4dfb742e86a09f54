package keycast

import "fmt"

// Card geometry, in stage units.
const (
	CardWidth  = 12.0
	CardHeight = 8.0

	cardCornerRadius      = 0.2
	cardStrokeWidth       = 0.03
	cardBorderInset       = 0.3
	cardBorderRadius      = 0.15
	cardBorderStrokeWidth = 0.02
	cardTextMargin        = 2.0

	titleOffset    = 0.8 // card top to title center
	contentOffset  = 0.8 // title bottom to first entry
	entryGap       = 0.4
	wrappedLineGap = 0.1
)

// Card palette.
var (
	cardFill         = MustParseColor("#1A1A2E").WithAlpha(0.95)
	cardBorder       = MustParseColor("#004A2F")
	entryColor       = MustParseColor("#B0FFD1")
	entryDetailColor = MustParseColor("#90E0B1")
)

// ContentEntry is one line item of the info card. It is either a SingleLine
// or a WrappedLines pair, decided once when the card is assembled.
type ContentEntry interface {
	// Lines returns the entry's text nodes in reveal order.
	Lines() []*Node
	isContentEntry()
}

// SingleLine is an entry that fits the card on one line.
type SingleLine struct {
	Text string
	Node *Node
}

func (e *SingleLine) Lines() []*Node { return []*Node{e.Node} }
func (*SingleLine) isContentEntry() {}

// WrappedLines is an entry too wide for one line, split into a bold category
// line and an indented detail line.
type WrappedLines struct {
	CategoryLine string
	DetailLine   string
	Category     *Node
	Detail       *Node
}

func (e *WrappedLines) Lines() []*Node { return []*Node{e.Category, e.Detail} }
func (*WrappedLines) isContentEntry() {}

// FormatEntry returns the single-line rendering of a category and its detail.
func FormatEntry(category, detail string) string {
	return fmt.Sprintf("• %s: %s", category, detail)
}

// NewContentEntry builds the text nodes for one entry. The single-line form is
// kept when its width on the stage is within maxWidth; otherwise the entry is
// split into two lines.
func NewContentEntry(category, detail string, fonts *Fonts, maxWidth float64) ContentEntry {
	line := FormatEntry(category, detail)
	single := newStageText("entry", line, fonts.Body, entryColor)
	if w, _ := TextSize(single); w <= maxWidth {
		return &SingleLine{Text: line, Node: single}
	}

	e := &WrappedLines{
		CategoryLine: fmt.Sprintf("• %s:", category),
		DetailLine:   "  " + detail,
	}
	e.Category = newStageText("entry-category", e.CategoryLine, fonts.BodyBold, entryColor)
	e.Detail = newStageText("entry-detail", e.DetailLine, fonts.Detail, entryDetailColor)
	return e
}

// Card is the info panel revealed after the declutter step. Background holds
// the outer panel and inner border; Content holds every entry line. All parts
// start fully transparent.
type Card struct {
	Background *Node
	Outer      *Node
	Inner      *Node
	Title      *Node
	Content    *Node
	Entries    []ContentEntry
}

// Parts returns the card's top-level nodes in draw order.
func (c *Card) Parts() []*Node {
	return []*Node{c.Background, c.Title, c.Content}
}

// buildCard assembles the card for topic. Entries are created for labels, in
// topic order, that have both a category and a section detail. The title sits
// near the card top, the content block below it, and the whole group is
// recentered on the origin.
func buildCard(topic Topic, categories map[string]string, highlight Color, fonts *Fonts) *Card {
	c := &Card{
		Background: NewContainer("card"),
		Content:    NewContainer("card-content"),
	}
	c.Outer = NewRoundedRect("card-outer", RectStyle{
		Width:       CardWidth,
		Height:      CardHeight,
		Radius:      cardCornerRadius,
		Fill:        cardFill,
		Stroke:      highlight,
		StrokeWidth: cardStrokeWidth,
	})
	c.Inner = NewRoundedRect("card-inner", RectStyle{
		Width:       CardWidth - cardBorderInset,
		Height:      CardHeight - cardBorderInset,
		Radius:      cardBorderRadius,
		Stroke:      cardBorder,
		StrokeWidth: cardBorderStrokeWidth,
	})
	c.Background.AddChild(c.Outer)
	c.Background.AddChild(c.Inner)

	c.Title = newCenteredText("card-title", topic.Title, fonts.Title, highlight)
	c.Title.SetPosition(0, -CardHeight/2+titleOffset)
	_, th := TextSize(c.Title)

	var y, blockW float64
	for _, label := range topic.Keys {
		category, ok := categories[label]
		if !ok {
			continue
		}
		detail, ok := topic.Sections[label]
		if !ok {
			continue
		}
		entry := NewContentEntry(category, detail, fonts, CardWidth-cardTextMargin)
		if len(c.Entries) > 0 {
			y += entryGap
		}
		for i, line := range entry.Lines() {
			if i > 0 {
				y += wrappedLineGap
			}
			w, h := TextSize(line)
			line.SetPosition(0, y)
			line.SetAlpha(0)
			c.Content.AddChild(line)
			y += h
			blockW = max(blockW, w)
		}
		c.Entries = append(c.Entries, entry)
	}
	c.Content.SetPosition(-blockW/2, c.Title.Y+th/2+contentOffset)

	bounds := Rect{X: -CardWidth / 2, Y: -CardHeight / 2, Width: CardWidth, Height: CardHeight}
	bounds = bounds.Union(Rect{X: c.Title.X - TextWidth(c.Title)/2, Y: c.Title.Y - th/2, Width: TextWidth(c.Title), Height: th})
	if blockW > 0 {
		bounds = bounds.Union(Rect{X: c.Content.X, Y: c.Content.Y, Width: blockW, Height: y})
	}
	shift := bounds.Center().Scale(-1)
	for _, n := range c.Parts() {
		n.SetPosition(n.X+shift.X, n.Y+shift.Y)
		n.SetAlpha(0)
	}
	c.Content.SetAlpha(1)
	return c
}

// TextWidth returns the width of a text node on the stage, in units.
func TextWidth(n *Node) float64 {
	w, _ := TextSize(n)
	return w
}
