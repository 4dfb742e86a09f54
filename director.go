package keycast

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// Clip hold times, in seconds.
const (
	introHold = 1.0
	endHold   = 2.0
	errorHold = 1.0
)

var errorTextColor = MustParseColor("#FF4D4D")

// ClipOptions configures BuildClip.
type ClipOptions struct {
	Width, Height int
	Fonts         *Fonts
	Rand          *rand.Rand // nil uses the process-wide source
	Debug         bool
}

// Clip is a scene ready to play together with the pieces it was built from.
type Clip struct {
	Scene    *Scene
	Keyboard *Keyboard
	Index    *LayoutIndex
	Timeline *Timeline
	Reveal   *Reveal
}

// BuildClip lays out the configured keyboard, shows it for a moment, appends
// the topic reveal and a final hold, and starts the timeline.
func BuildClip(cfg *Config, opts ClipOptions) (*Clip, error) {
	if opts.Fonts == nil {
		return nil, errors.New("keycast: BuildClip requires fonts")
	}
	anim, err := cfg.AnimationSettings()
	if err != nil {
		return nil, err
	}

	scene := NewScene(opts.Width, opts.Height)
	scene.SetDebugMode(opts.Debug)

	layout := cfg.Layout()
	kb, ix := BuildKeyboard(layout.Rows, cfg.Categories, opts.Fonts)
	scene.Stage().AddChild(kb.Node)

	tl := &Timeline{}
	tl.Wait("show keyboard", introHold)
	seq := &Sequencer{
		Stage: scene.Stage(),
		Frame: scene.FrameSize(),
		Fonts: opts.Fonts,
		Rand:  opts.Rand,
	}
	rv := seq.RevealTopic(tl, kb, ix, cfg.Topic(), anim, cfg.Categories)
	tl.Wait("end", endHold)
	scene.Play(tl)

	return &Clip{Scene: scene, Keyboard: kb, Index: ix, Timeline: tl, Reveal: rv}, nil
}

// ErrorMessage returns the line shown on the error scene for err.
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, ErrConfigNotFound):
		return fmt.Sprintf("Error: %v.", err)
	case errors.Is(err, ErrConfigMalformed):
		return fmt.Sprintf("Error: invalid configuration. %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

// NewErrorScene builds a scene showing err in red at the center of the
// screen. Its timeline holds briefly so a recording captures it.
func NewErrorScene(err error, fonts *Fonts, width, height int) *Scene {
	scene := NewScene(width, height)
	var font Font
	if fonts != nil {
		font = fonts.Error
	}
	msg := newCenteredText("error", ErrorMessage(err), font, errorTextColor)
	if w := TextWidth(msg); w > 0 {
		if limit := scene.FrameSize().X - keyRowMargin; w > limit {
			s := limit / w / UnitPx
			msg.SetScale(s, s)
		}
	}
	scene.Stage().AddChild(msg)

	tl := &Timeline{}
	tl.Wait("error", errorHold)
	scene.Play(tl)
	return scene
}
