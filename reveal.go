package keycast

import (
	"log/slog"
	"math/rand/v2"
)

// Topic is the subject of a clip: the keys to highlight, the card title and
// an optional detail line per key label.
type Topic struct {
	Title    string
	Keys     []string
	Sections map[string]string
}

// AnimationSettings controls reveal pacing and the highlight color.
type AnimationSettings struct {
	TypingSpeed    float64 // seconds between key presses
	HighlightColor Color
	Randomness     float64 // extra random delay per press, in seconds; >= 0
	SoundFile      string  // accepted but not played
}

// Reveal timing and motion. Durations are in seconds, distances in stage units.
const (
	pressDuration = 0.15
	pressScale    = 0.95

	glowFillAlpha   = 0.3
	glowStrokeWidth = 0.03

	declutterDuration = 0.8
	declutterScale    = 0.8

	revealDuration  = 1.5
	revealRise      = 0.3
	revealCardScale = 0.9

	keyRowGap          = 0.4
	keyRowMargin       = 2.0
	keyRowBottomOffset = 1.5

	typeShift         = 0.1
	typePauseFraction = 0.5

	holdDuration  = 3.0
	outroDuration = 0.8
	outroDrift    = 0.2
	outroScale    = 1.1
)

// Sequencer appends the reveal of a topic to a timeline. Stage is the
// container the keyboard lives in; the card is added to it. Frame is the
// visible area in stage units.
type Sequencer struct {
	Stage *Node
	Frame Vec2
	Fonts *Fonts

	// Rand drives the visiting order and press delays. Nil uses the
	// process-wide source.
	Rand *rand.Rand
}

// Reveal records the decisions RevealTopic made while building the timeline.
type Reveal struct {
	VisitOrder  []string  // labels in the order they are visited
	Pressed     []string  // slot ids pressed, one per visited label found
	Waits       []float64 // wait after each press
	Selected    []string  // slot ids in first-selection order
	Unselected  []string  // slot ids in scan order
	Targets     []Vec2    // final stage position of each selected key
	TargetScale float64   // scale of the selected keys in the final row
	Card        *Card
}

func (s *Sequencer) shuffle(labels []string) {
	if s.Rand != nil {
		s.Rand.Shuffle(len(labels), func(i, j int) { labels[i], labels[j] = labels[j], labels[i] })
		return
	}
	rand.Shuffle(len(labels), func(i, j int) { labels[i], labels[j] = labels[j], labels[i] })
}

func (s *Sequencer) uniform() float64 {
	if s.Rand != nil {
		return s.Rand.Float64()
	}
	return rand.Float64()
}

// RevealTopic appends the highlight pass, declutter, card reveal, typed
// content and outro for topic to tl. Labels missing from ix are skipped.
// Nodes are created now, hidden, and attached by the steps as they run.
func (s *Sequencer) RevealTopic(tl *Timeline, kb *Keyboard, ix *LayoutIndex, topic Topic, anim AnimationSettings, categories map[string]string) *Reveal {
	rv := &Reveal{}
	if anim.SoundFile != "" {
		slog.Debug("sound_file is set but audio is not rendered", "sound_file", anim.SoundFile)
	}

	rv.VisitOrder = append([]string(nil), topic.Keys...)
	if anim.Randomness > 0 {
		s.shuffle(rv.VisitOrder)
	}

	selected := make(map[string]bool)
	for _, label := range rv.VisitOrder {
		id, ok := ix.First(label)
		if !ok {
			slog.Debug("key not in layout, skipping", "label", label)
			continue
		}
		slot, _ := kb.Slot(id)
		s.press(tl, slot, anim.HighlightColor)

		wait := anim.TypingSpeed
		if anim.Randomness > 0 {
			wait += s.uniform() * anim.Randomness
		}
		tl.Wait("type "+label, wait)

		rv.Pressed = append(rv.Pressed, id)
		rv.Waits = append(rv.Waits, wait)
		if !selected[id] {
			selected[id] = true
			rv.Selected = append(rv.Selected, id)
		}
	}
	for _, id := range kb.IDs() {
		if !selected[id] {
			rv.Unselected = append(rv.Unselected, id)
		}
	}

	s.declutter(tl, kb, rv)

	rv.Card = buildCard(topic, categories, anim.HighlightColor, s.Fonts)
	s.Stage.AddChild(rv.Card.Background)
	rv.Card.Background.SendToBack()
	s.Stage.AddChild(rv.Card.Title)
	s.Stage.AddChild(rv.Card.Content)

	s.revealCard(tl, kb, rv)
	s.typeContent(tl, rv.Card, anim.TypingSpeed)
	s.outro(tl, kb, rv)
	return rv
}

// press attaches a glow to slot the first time it is pressed, then pulses the
// key while the glow fades in.
func (s *Sequencer) press(tl *Timeline, slot *KeySlot, highlight Color) {
	glow := slot.Glow
	if glow == nil {
		style, _ := RectStyleOf(slot.Base)
		style.Fill = highlight.WithAlpha(glowFillAlpha)
		style.Stroke = highlight
		style.StrokeWidth = glowStrokeWidth
		glow = NewRoundedRect("key-glow:"+slot.ID(), style)
		glow.SetAlpha(0)
		slot.Glow = glow
		tl.Do("glow "+slot.ID(), func() { slot.Node.AddChild(glow) })
	}
	tl.Play("press "+slot.ID(), pressDuration, Smooth,
		Pulse(slot.Node, pressScale),
		FadeTo(glow, 1),
	)
}

func (s *Sequencer) declutter(tl *Timeline, kb *Keyboard, rv *Reveal) {
	effects := make([]Effect, 0, len(rv.Unselected))
	for _, id := range rv.Unselected {
		slot, _ := kb.Slot(id)
		effects = append(effects, FadeOut(slot.Node, Vec2{}, declutterScale))
	}
	tl.Play("declutter", declutterDuration, Smooth, effects...)
	tl.Do("selected to front", func() { bringToFront(kb, rv.Selected) })
}

// bottomRow lays the selected keys out left to right, shrinking the row to
// fit the frame width, centered keyRowBottomOffset above the bottom edge.
// It returns stage positions and the row's scale factor.
func (s *Sequencer) bottomRow(kb *Keyboard, ids []string) ([]Vec2, float64) {
	widths := make([]float64, len(ids))
	var total float64
	for i, id := range ids {
		slot, _ := kb.Slot(id)
		widths[i] = slot.Key.Width * kb.Scale()
		total += widths[i]
	}
	if len(ids) > 1 {
		total += keyRowGap * float64(len(ids)-1)
	}

	factor := 1.0
	if limit := s.Frame.X - keyRowMargin; total > limit && total > 0 {
		factor = limit / total
	}

	y := s.Frame.Y/2 - keyRowBottomOffset
	x := -total * factor / 2
	out := make([]Vec2, len(ids))
	for i, w := range widths {
		out[i] = Vec2{x + w*factor/2, y}
		x += (w + keyRowGap) * factor
	}
	return out, factor
}

func (s *Sequencer) revealCard(tl *Timeline, kb *Keyboard, rv *Reveal) {
	rv.Targets, rv.TargetScale = s.bottomRow(kb, rv.Selected)

	rise := Vec2{0, -revealRise}
	effects := []Effect{
		FadeIn(rv.Card.Background, rise, revealCardScale),
		FadeIn(rv.Card.Title, rise, 1),
	}
	for i, id := range rv.Selected {
		slot, _ := kb.Slot(id)
		to := kb.FromStage(rv.Targets[i])
		effects = append(effects, MoveScale(slot.Node, to, Vec2{rv.TargetScale, rv.TargetScale}))
	}
	tl.Play("reveal card", revealDuration, Smooth, effects...)
	tl.Do("keys to front", func() {
		kb.Node.BringToFront()
		bringToFront(kb, rv.Selected)
	})
}

func (s *Sequencer) typeContent(tl *Timeline, card *Card, typingSpeed float64) {
	delay := typingSpeed * 2
	for _, entry := range card.Entries {
		for _, line := range entry.Lines() {
			tl.Play("type line", delay, Smooth, FadeIn(line, Vec2{typeShift, 0}, 1))
			tl.Wait("type pause", delay*typePauseFraction)
		}
	}
}

func (s *Sequencer) outro(tl *Timeline, kb *Keyboard, rv *Reveal) {
	drift := Vec2{0, outroDrift}
	var effects []Effect
	for _, n := range rv.Card.Parts() {
		effects = append(effects, FadeOut(n, drift, outroScale))
	}
	for _, id := range rv.Selected {
		slot, _ := kb.Slot(id)
		effects = append(effects, FadeOut(slot.Node, drift, outroScale))
	}
	tl.Wait("hold", holdDuration)
	tl.Play("outro", outroDuration, Smooth, effects...)
}

func bringToFront(kb *Keyboard, ids []string) {
	for _, id := range ids {
		if slot, ok := kb.Slot(id); ok {
			slot.Node.BringToFront()
		}
	}
}
