package keycast

import (
	"testing"
)

// countingFont records how many times it was asked to measure.
type countingFont struct {
	monoFont
	calls int
}

func (f *countingFont) MeasureString(s string) (float64, float64) {
	f.calls++
	return f.monoFont.MeasureString(s)
}

func TestTextBlockSizeCached(t *testing.T) {
	f := &countingFont{monoFont: monoFont{advance: 10, lh: 20}}
	n := NewText("t", "abc", f)

	w, h := n.TextBlock.Size()
	if w != 30 || h != 20 {
		t.Errorf("Size = (%v, %v), want (30, 20)", w, h)
	}
	n.TextBlock.Size()
	if f.calls != 1 {
		t.Errorf("MeasureString calls = %d, want 1", f.calls)
	}

	n.TextBlock.Content = "abcde"
	n.TextBlock.Invalidate()
	if w, _ := n.TextBlock.Size(); w != 50 {
		t.Errorf("Size after Invalidate: w = %v, want 50", w)
	}
	if f.calls != 2 {
		t.Errorf("MeasureString calls = %d, want 2", f.calls)
	}
}

func TestTextBlockEmpty(t *testing.T) {
	n := NewText("t", "", monoFont{advance: 10, lh: 20})
	if w, h := n.TextBlock.Size(); w != 0 || h != 0 {
		t.Errorf("empty content Size = (%v, %v), want (0, 0)", w, h)
	}
	n = NewText("t", "abc", nil)
	if w, h := n.TextBlock.Size(); w != 0 || h != 0 {
		t.Errorf("nil font Size = (%v, %v), want (0, 0)", w, h)
	}
}

func TestTextSizeUsesStageScale(t *testing.T) {
	n := newStageText("t", "abcdefghi", monoFont{advance: 10, lh: 45}, Color{1, 1, 1, 1})
	w, h := TextSize(n)
	if !approxEqual(w, 1.0, epsilon) || !approxEqual(h, 0.5, epsilon) {
		t.Errorf("TextSize = (%v, %v), want (1, 0.5)", w, h)
	}
	if got := TextWidth(n); !approxEqual(got, 1.0, epsilon) {
		t.Errorf("TextWidth = %v, want 1", got)
	}
	if w, h := TextSize(NewContainer("c")); w != 0 || h != 0 {
		t.Errorf("TextSize of container = (%v, %v), want (0, 0)", w, h)
	}
}

func TestNewCenteredTextPivot(t *testing.T) {
	n := newCenteredText("t", "ab", monoFont{advance: 10, lh: 30}, Color{1, 1, 1, 1})
	if n.PivotX != 10 || n.PivotY != 15 {
		t.Errorf("pivot = (%v, %v), want (10, 15)", n.PivotX, n.PivotY)
	}
}

func TestLoadFonts(t *testing.T) {
	fonts, err := LoadFonts()
	if err != nil {
		t.Fatalf("LoadFonts: %v", err)
	}
	for name, f := range map[string]Font{
		"KeyLabel":      fonts.KeyLabel,
		"KeyLabelSmall": fonts.KeyLabelSmall,
		"Title":         fonts.Title,
		"Body":          fonts.Body,
		"BodyBold":      fonts.BodyBold,
		"Detail":        fonts.Detail,
		"Error":         fonts.Error,
	} {
		if f == nil {
			t.Errorf("%s font is nil", name)
			continue
		}
		if f.LineHeight() <= 0 {
			t.Errorf("%s line height = %v, want > 0", name, f.LineHeight())
		}
	}

	// Monospace: width grows linearly with rune count.
	w1, _ := fonts.Body.MeasureString("ab")
	w2, _ := fonts.Body.MeasureString("abcd")
	if w1 <= 0 || !approxEqual(w2, 2*w1, 1e-6) {
		t.Errorf("Body widths = %v, %v; want second twice the first", w1, w2)
	}
}

func TestLoadTTFFontRejectsGarbage(t *testing.T) {
	if _, err := LoadTTFFont([]byte("not a font"), 12); err == nil {
		t.Error("expected error for invalid font data")
	}
}

func TestLoadFontsSizes(t *testing.T) {
	fonts, err := LoadFonts()
	if err != nil {
		t.Fatalf("LoadFonts: %v", err)
	}
	tests := []struct {
		name string
		font Font
		want float64
	}{
		{"KeyLabel", fonts.KeyLabel, 24},
		{"KeyLabelSmall", fonts.KeyLabelSmall, 18},
		{"Title", fonts.Title, 44},
		{"Body", fonts.Body, 20},
		{"BodyBold", fonts.BodyBold, 20},
		{"Detail", fonts.Detail, 18},
		{"Error", fonts.Error, 48},
	}
	for _, tt := range tests {
		f, ok := tt.font.(*TTFFont)
		if !ok {
			t.Errorf("%s is %T, want *TTFFont", tt.name, tt.font)
			continue
		}
		if f.size != tt.want {
			t.Errorf("%s size = %v, want %v", tt.name, f.size, tt.want)
		}
	}
}
