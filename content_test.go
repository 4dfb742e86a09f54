package keycast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usableWidth = CardWidth - cardTextMargin

func TestFormatEntry(t *testing.T) {
	assert.Equal(t, "• cat1: detail", FormatEntry("cat1", "detail"))
}

func TestNewContentEntrySingleLine(t *testing.T) {
	e := NewContentEntry("cat1", "detail", testFonts(), usableWidth)
	single, ok := e.(*SingleLine)
	require.True(t, ok, "short entries stay on one line, got %T", e)
	assert.Equal(t, "• cat1: detail", single.Text)
	assert.Equal(t, single.Text, single.Node.TextBlock.Content)
	assert.Len(t, e.Lines(), 1)
}

func TestNewContentEntryWrapped(t *testing.T) {
	detail := strings.Repeat("long detail ", 10)
	e := NewContentEntry("Movement", detail, testFonts(), usableWidth)
	wrapped, ok := e.(*WrappedLines)
	require.True(t, ok, "wide entries split, got %T", e)
	assert.Equal(t, "• Movement:", wrapped.CategoryLine)
	assert.Equal(t, "  "+detail, wrapped.DetailLine)
	assert.Equal(t, []*Node{wrapped.Category, wrapped.Detail}, e.Lines())
}

// An entry is split into exactly two lines when, and only when, its single
// line is wider than the limit.
func TestContentEntryWrapsOnlyWhenTooWide(t *testing.T) {
	fonts := testFonts()
	for n := 0; n <= 120; n++ {
		detail := strings.Repeat("x", n)
		line := newStageText("entry", FormatEntry("cat", detail), fonts.Body, entryColor)
		tooWide := TextWidth(line) > usableWidth

		e := NewContentEntry("cat", detail, fonts, usableWidth)
		if tooWide {
			assert.IsType(t, &WrappedLines{}, e, "detail length %d", n)
			assert.Len(t, e.Lines(), 2, "detail length %d", n)
		} else {
			assert.IsType(t, &SingleLine{}, e, "detail length %d", n)
			assert.Len(t, e.Lines(), 1, "detail length %d", n)
		}
	}
}

func TestBuildCardEntries(t *testing.T) {
	topic := Topic{
		Title: "Demo",
		Keys:  []string{"W", "Q", "E", "R"},
		Sections: map[string]string{
			"Q": "detail q",
			"W": "detail w",
			"R": "no category",
		},
	}
	categories := map[string]string{"Q": "cat1", "W": "cat2", "E": "cat3"}
	card := buildCard(topic, categories, MustParseColor(DefaultHighlightColor), testFonts())

	require.Len(t, card.Entries, 2, "only labels with a category and a section")
	first := card.Entries[0].(*SingleLine)
	second := card.Entries[1].(*SingleLine)
	assert.Equal(t, "• cat2: detail w", first.Text, "topic order")
	assert.Equal(t, "• cat1: detail q", second.Text)

	_, h := TextSize(first.Node)
	assert.InDelta(t, first.Node.Y+h+entryGap, second.Node.Y, 1e-9)
	assert.Equal(t, first.Node.X, second.Node.X, "entries are left aligned")

	assert.Equal(t, "Demo", card.Title.TextBlock.Content)
	assert.Equal(t, []*Node{card.Outer, card.Inner}, card.Background.Children())
}

func TestBuildCardWrappedSpacing(t *testing.T) {
	topic := Topic{
		Title:    "Demo",
		Keys:     []string{"Q"},
		Sections: map[string]string{"Q": strings.Repeat("very long detail ", 8)},
	}
	card := buildCard(topic, map[string]string{"Q": "cat1"}, ColorWhite, testFonts())

	require.Len(t, card.Entries, 1)
	wrapped, ok := card.Entries[0].(*WrappedLines)
	require.True(t, ok)
	_, h := TextSize(wrapped.Category)
	assert.InDelta(t, wrapped.Category.Y+h+wrappedLineGap, wrapped.Detail.Y, 1e-9)
}

func TestBuildCardStartsHidden(t *testing.T) {
	topic := Topic{Title: "Demo", Keys: []string{"Q"}, Sections: map[string]string{"Q": "d"}}
	card := buildCard(topic, map[string]string{"Q": "c"}, ColorWhite, testFonts())

	assert.Zero(t, card.Background.Alpha)
	assert.Zero(t, card.Title.Alpha)
	assert.Equal(t, 1.0, card.Content.Alpha, "content lines fade in one by one")
	for _, e := range card.Entries {
		for _, line := range e.Lines() {
			assert.Zero(t, line.Alpha)
		}
	}
}

func TestBuildCardIsCentered(t *testing.T) {
	topic := Topic{Title: "Demo", Keys: []string{"Q"}, Sections: map[string]string{"Q": "d"}}
	card := buildCard(topic, map[string]string{"Q": "c"}, ColorWhite, testFonts())

	// The card itself dominates the group, so its center is the origin.
	assert.InDelta(t, 0, card.Background.X, 1e-9)
	assert.InDelta(t, 0, card.Background.Y, 1e-9)

	// Title sits titleOffset below the card top, content below the title.
	assert.InDelta(t, -CardHeight/2+titleOffset, card.Title.Y, 1e-9)
	_, th := TextSize(card.Title)
	assert.InDelta(t, card.Title.Y+th/2+contentOffset, card.Content.Y, 1e-9)

	line := card.Entries[0].Lines()[0]
	assert.InDelta(t, 0, card.Content.X+TextWidth(line)/2, 1e-9, "content block is centered")
}

func TestBuildCardNoEntries(t *testing.T) {
	card := buildCard(Topic{Title: "Empty"}, nil, ColorWhite, testFonts())
	assert.Empty(t, card.Entries)
	assert.Zero(t, card.Content.NumChildren())
}
