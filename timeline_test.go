package keycast

import (
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

const tweenTolerance = 1e-4

func TestPlayerRunsStepsInOrder(t *testing.T) {
	var calls []string
	tl := &Timeline{}
	tl.Wait("a", 0.5)
	tl.Do("b", func() { calls = append(calls, "b") })
	tl.Wait("c", 0.5)

	var started []string
	p := NewPlayer(tl)
	p.OnStep = func(_ int, st Step) { started = append(started, st.Label) }

	p.Update(0.25)
	if len(calls) != 0 {
		t.Fatalf("call ran early: %v", calls)
	}
	p.Update(0.5)
	if len(calls) != 1 {
		t.Fatalf("call should run once the wait ends, calls = %v", calls)
	}
	if p.Cursor() != 2 {
		t.Errorf("Cursor = %d, want 2", p.Cursor())
	}
	p.Update(0.25)
	if !p.Done() {
		t.Error("player should be done")
	}

	want := []string{"a", "b", "c"}
	if len(started) != len(want) {
		t.Fatalf("started = %v, want %v", started, want)
	}
	for i := range want {
		if started[i] != want[i] {
			t.Errorf("started[%d] = %q, want %q", i, started[i], want[i])
		}
	}
}

func TestPlayerCarriesLeftoverTime(t *testing.T) {
	n := NewContainer("n")
	n.Alpha = 0
	tl := &Timeline{}
	tl.Wait("hold", 1)
	tl.Play("fade", 1, ease.Linear, FadeTo(n, 1))

	p := NewPlayer(tl)
	p.Update(1.5)

	if p.Cursor() != 1 {
		t.Fatalf("Cursor = %d, want 1", p.Cursor())
	}
	if math.Abs(n.Alpha-0.5) > tweenTolerance {
		t.Errorf("Alpha = %f, want 0.5 after 0.5s of the fade", n.Alpha)
	}
}

func TestPlayerEmptyTimeline(t *testing.T) {
	if !NewPlayer(&Timeline{}).Done() {
		t.Error("empty timeline should be done")
	}
	if !NewPlayer(nil).Done() {
		t.Error("nil timeline should be done")
	}
}

func TestZeroDurationPlaySnapsToEnd(t *testing.T) {
	n := NewContainer("n")
	tl := &Timeline{}
	tl.Play("instant", 0, nil, MoveScale(n, Vec2{3, 4}, Vec2{2, 2}))

	p := NewPlayer(tl)
	p.Update(0)

	if !p.Done() {
		t.Fatal("zero-duration step should finish immediately")
	}
	if n.X != 3 || n.Y != 4 || n.ScaleX != 2 || n.ScaleY != 2 {
		t.Errorf("node = (%v, %v) scale (%v, %v), want (3, 4) scale (2, 2)", n.X, n.Y, n.ScaleX, n.ScaleY)
	}
}

func TestTimelineDuration(t *testing.T) {
	tl := &Timeline{}
	tl.Wait("a", 1)
	tl.Do("b", func() {})
	tl.Play("c", 0.25, nil)
	if got := tl.Duration(); got != 1.25 {
		t.Errorf("Duration = %v, want 1.25", got)
	}
}

// --- Effects ---

func TestFadeInRestoresRestingTransform(t *testing.T) {
	n := NewContainer("card")
	n.SetPosition(1, 2)
	tl := &Timeline{}
	tl.Play("in", 1, ease.Linear, FadeIn(n, Vec2{0, -0.3}, 0.9))

	p := NewPlayer(tl)
	p.Update(0.0001)
	// Starts below its resting spot, shrunk and transparent.
	if n.Y < 2.29 || n.ScaleX > 0.91 || n.Alpha > 0.01 {
		t.Errorf("start = y %v scale %v alpha %v, want ~2.3, 0.9, 0", n.Y, n.ScaleX, n.Alpha)
	}

	p.Update(1)
	if n.X != 1 || n.Y != 2 || n.ScaleX != 1 || n.ScaleY != 1 || n.Alpha != 1 {
		t.Errorf("end = (%v, %v) scale (%v, %v) alpha %v, want resting state", n.X, n.Y, n.ScaleX, n.ScaleY, n.Alpha)
	}
}

func TestFadeOutShiftsAndScales(t *testing.T) {
	n := NewContainer("key")
	n.SetScale(0.5, 0.5)
	tl := &Timeline{}
	tl.Play("out", 0.8, Smooth, FadeOut(n, Vec2{0, 0.2}, 1.1))

	p := NewPlayer(tl)
	p.Update(0.8)

	if n.Alpha != 0 {
		t.Errorf("Alpha = %v, want 0", n.Alpha)
	}
	assertNear(t, "Y", n.Y, 0.2)
	assertNear(t, "ScaleX", n.ScaleX, 0.55)
}

func TestPulseReturnsToStartScale(t *testing.T) {
	n := NewContainer("key")
	tl := &Timeline{}
	tl.Play("press", 1, ease.Linear, Pulse(n, 0.95))

	p := NewPlayer(tl)
	p.Update(0.5)
	if math.Abs(n.ScaleX-0.95) > tweenTolerance {
		t.Errorf("ScaleX at midpoint = %v, want 0.95", n.ScaleX)
	}
	p.Update(0.5)
	if n.ScaleX != 1 || n.ScaleY != 1 {
		t.Errorf("Scale after pulse = (%v, %v), want (1, 1)", n.ScaleX, n.ScaleY)
	}
}

func TestEffectCapturesStartWhenStepBegins(t *testing.T) {
	n := NewContainer("key")
	tl := &Timeline{}
	tl.Do("move", func() { n.SetPosition(5, 0) })
	tl.Play("out", 1, ease.Linear, FadeOut(n, Vec2{1, 0}, 1))

	p := NewPlayer(tl)
	p.Update(1)

	// The fade starts from where the call step left the node.
	assertNear(t, "X", n.X, 6)
}

func TestEffectKindString(t *testing.T) {
	kinds := map[EffectKind]string{
		EffectFadeIn:    "fade-in",
		EffectFadeOut:   "fade-out",
		EffectFadeTo:    "fade-to",
		EffectTransform: "transform",
		EffectPulse:     "pulse",
		EffectKind(99):  "unknown",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("EffectKind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
