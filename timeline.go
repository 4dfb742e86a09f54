package keycast

import (
	"github.com/tanema/gween/ease"
)

// EffectKind selects how an Effect changes its target.
type EffectKind uint8

const (
	EffectFadeIn    EffectKind = iota // alpha 0 -> 1, arriving from Shift/Scale offsets
	EffectFadeOut                     // alpha -> 0, leaving toward Shift/Scale offsets
	EffectFadeTo                      // alpha -> Alpha
	EffectTransform                   // position -> To, scale -> ToScale
	EffectPulse                       // scale -> current*Scale and back
)

func (k EffectKind) String() string {
	switch k {
	case EffectFadeIn:
		return "fade-in"
	case EffectFadeOut:
		return "fade-out"
	case EffectFadeTo:
		return "fade-to"
	case EffectTransform:
		return "transform"
	case EffectPulse:
		return "pulse"
	default:
		return "unknown"
	}
}

// Effect describes a change to one node over the duration of its step. Start
// values are captured when the step begins, not when the effect is built.
type Effect struct {
	Kind   EffectKind
	Target *Node

	Shift   Vec2    // FadeIn: arrive moving by Shift. FadeOut: leave moving by Shift.
	Scale   float64 // FadeIn: start at rest*Scale. FadeOut/Pulse: end at start*Scale. 0 means 1.
	Alpha   float64 // FadeTo target
	To      Vec2    // Transform target position
	ToScale Vec2    // Transform target scale

	Ease ease.TweenFunc // nil means linear

	restX, restY, restSX, restSY float64
}

// FadeIn returns an effect that fades n in while moving by shift and growing
// from scale to its resting scale.
func FadeIn(n *Node, shift Vec2, scale float64) Effect {
	return Effect{Kind: EffectFadeIn, Target: n, Shift: shift, Scale: scale}
}

// FadeOut returns an effect that fades n out while moving by shift and
// scaling by scale.
func FadeOut(n *Node, shift Vec2, scale float64) Effect {
	return Effect{Kind: EffectFadeOut, Target: n, Shift: shift, Scale: scale}
}

// FadeTo returns an effect that animates n's alpha to a.
func FadeTo(n *Node, a float64) Effect {
	return Effect{Kind: EffectFadeTo, Target: n, Alpha: a}
}

// MoveScale returns an effect that moves n to pos and scales it to scale.
func MoveScale(n *Node, pos, scale Vec2) Effect {
	return Effect{Kind: EffectTransform, Target: n, To: pos, ToScale: scale}
}

// Pulse returns an effect that scales n by factor and back to where it started.
func Pulse(n *Node, factor float64) Effect {
	return Effect{Kind: EffectPulse, Target: n, Scale: factor}
}

func (e *Effect) scale() float64 {
	if e.Scale == 0 {
		return 1
	}
	return e.Scale
}

// start captures the target's resting state, applies any starting offsets and
// returns the tweens that drive the effect.
func (e *Effect) start(duration float32, fallback ease.TweenFunc) []*TweenGroup {
	n := e.Target
	fn := e.Ease
	if fn == nil {
		fn = fallback
	}
	e.restX, e.restY, e.restSX, e.restSY = n.X, n.Y, n.ScaleX, n.ScaleY

	switch e.Kind {
	case EffectFadeIn:
		s := e.scale()
		n.Alpha = 0
		n.X, n.Y = e.restX-e.Shift.X, e.restY-e.Shift.Y
		n.ScaleX, n.ScaleY = e.restSX*s, e.restSY*s
		n.MarkDirty()
		return []*TweenGroup{
			TweenAlpha(n, 1, duration, fn),
			TweenPosition(n, e.restX, e.restY, duration, fn),
			TweenScale(n, e.restSX, e.restSY, duration, fn),
		}
	case EffectFadeOut:
		s := e.scale()
		return []*TweenGroup{
			TweenAlpha(n, 0, duration, fn),
			TweenPosition(n, e.restX+e.Shift.X, e.restY+e.Shift.Y, duration, fn),
			TweenScale(n, e.restSX*s, e.restSY*s, duration, fn),
		}
	case EffectFadeTo:
		return []*TweenGroup{TweenAlpha(n, e.Alpha, duration, fn)}
	case EffectTransform:
		return []*TweenGroup{
			TweenPosition(n, e.To.X, e.To.Y, duration, fn),
			TweenScale(n, e.ToScale.X, e.ToScale.Y, duration, fn),
		}
	case EffectPulse:
		s := e.scale()
		return []*TweenGroup{TweenScale(n, e.restSX*s, e.restSY*s, duration, ThereAndBack(fn))}
	}
	return nil
}

// finish snaps the target to the effect's end state. Tween libraries land on
// the tween's end value, which is wrong for a there-and-back pulse.
func (e *Effect) finish() {
	n := e.Target
	switch e.Kind {
	case EffectFadeIn:
		n.Alpha = 1
		n.X, n.Y, n.ScaleX, n.ScaleY = e.restX, e.restY, e.restSX, e.restSY
	case EffectFadeOut:
		s := e.scale()
		n.Alpha = 0
		n.X, n.Y = e.restX+e.Shift.X, e.restY+e.Shift.Y
		n.ScaleX, n.ScaleY = e.restSX*s, e.restSY*s
	case EffectFadeTo:
		n.Alpha = e.Alpha
	case EffectTransform:
		n.X, n.Y = e.To.X, e.To.Y
		n.ScaleX, n.ScaleY = e.ToScale.X, e.ToScale.Y
	case EffectPulse:
		n.ScaleX, n.ScaleY = e.restSX, e.restSY
	}
	n.MarkDirty()
}

// StepKind identifies what a timeline step does.
type StepKind uint8

const (
	StepPlay StepKind = iota // run Effects together over Duration
	StepWait                 // hold for Duration
	StepCall                 // run Call instantly
)

// Step is one entry of a Timeline. Steps run strictly one after another.
type Step struct {
	Kind     StepKind
	Label    string
	Duration float64
	Effects  []Effect
	Ease     ease.TweenFunc // default easing for Effects without their own
	Call     func()
}

// Timeline is an ordered list of steps consumed by a Player.
type Timeline struct {
	Steps []Step
}

// Play appends a step that runs effects simultaneously over duration seconds.
func (tl *Timeline) Play(label string, duration float64, fn ease.TweenFunc, effects ...Effect) {
	tl.Steps = append(tl.Steps, Step{Kind: StepPlay, Label: label, Duration: duration, Ease: fn, Effects: effects})
}

// Wait appends a hold of duration seconds.
func (tl *Timeline) Wait(label string, duration float64) {
	tl.Steps = append(tl.Steps, Step{Kind: StepWait, Label: label, Duration: duration})
}

// Do appends an instantaneous step that runs fn when reached.
func (tl *Timeline) Do(label string, fn func()) {
	tl.Steps = append(tl.Steps, Step{Kind: StepCall, Label: label, Call: fn})
}

// Duration returns the total playing time in seconds.
func (tl *Timeline) Duration() float64 {
	var d float64
	for _, st := range tl.Steps {
		if st.Kind != StepCall {
			d += st.Duration
		}
	}
	return d
}

// Player consumes a Timeline frame by frame. It is single-threaded: each step
// finishes before the next starts, and leftover frame time carries over.
type Player struct {
	steps   []Step
	cursor  int
	elapsed float64
	started bool
	groups  []*TweenGroup
	done    bool

	// OnStep, when set, is called as each step starts.
	OnStep func(index int, st Step)
}

// NewPlayer returns a player positioned at the first step of tl.
func NewPlayer(tl *Timeline) *Player {
	p := &Player{}
	if tl != nil {
		p.steps = tl.Steps
	}
	p.done = len(p.steps) == 0
	return p
}

// Done reports whether every step has finished.
func (p *Player) Done() bool {
	return p.done
}

// Cursor returns the index of the step currently playing.
func (p *Player) Cursor() int {
	return p.cursor
}

// Update advances the timeline by dt seconds.
func (p *Player) Update(dt float64) {
	for !p.done {
		st := &p.steps[p.cursor]
		if !p.started {
			p.begin(st)
		}

		remaining := st.Duration - p.elapsed
		if st.Kind == StepCall || remaining <= 0 {
			p.end(st)
			continue
		}
		if dt < remaining {
			p.elapsed += dt
			for _, g := range p.groups {
				g.Update(float32(dt))
			}
			return
		}
		dt -= remaining
		p.end(st)
	}
}

func (p *Player) begin(st *Step) {
	p.started = true
	p.elapsed = 0
	p.groups = p.groups[:0]
	if p.OnStep != nil {
		p.OnStep(p.cursor, *st)
	}
	switch st.Kind {
	case StepCall:
		if st.Call != nil {
			st.Call()
		}
	case StepPlay:
		fn := st.Ease
		if fn == nil {
			fn = ease.Linear
		}
		for i := range st.Effects {
			p.groups = append(p.groups, st.Effects[i].start(float32(st.Duration), fn)...)
		}
	}
}

func (p *Player) end(st *Step) {
	if st.Kind == StepPlay {
		for i := range st.Effects {
			st.Effects[i].finish()
		}
	}
	p.groups = p.groups[:0]
	p.started = false
	p.cursor++
	if p.cursor >= len(p.steps) {
		p.done = true
	}
}
