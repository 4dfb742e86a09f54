package keycast

import (
	"errors"
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is the top-level object that owns the node tree and the timeline
// player. Content is added under Stage, a container centered on the screen and
// scaled so FrameHeight units span the screen height.
type Scene struct {
	root  *Node
	stage *Node
	debug bool

	// ClearColor fills the screen before the tree is drawn.
	ClearColor Color

	width, height int

	player *Player
}

// NewScene creates a scene for a width x height pixel screen.
func NewScene(width, height int) *Scene {
	if width <= 0 {
		width = DefaultScreenWidth
	}
	if height <= 0 {
		height = DefaultScreenHeight
	}
	root := NewContainer("root")
	stage := NewContainer("stage")
	scale := float64(height) / FrameHeight
	stage.SetPosition(float64(width)/2, float64(height)/2)
	stage.SetScale(scale, scale)
	root.AddChild(stage)
	return &Scene{
		root:       root,
		stage:      stage,
		ClearColor: Color{0, 0, 0, 1},
		width:      width,
		height:     height,
		player:     NewPlayer(nil),
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// Stage returns the centered, unit-scaled container all content lives under.
func (s *Scene) Stage() *Node {
	return s.stage
}

// FrameSize returns the visible area in stage units.
func (s *Scene) FrameSize() Vec2 {
	return Vec2{X: FrameHeight * float64(s.width) / float64(s.height), Y: FrameHeight}
}

// ScreenSize returns the screen size in pixels.
func (s *Scene) ScreenSize() (int, int) {
	return s.width, s.height
}

// Play replaces the current timeline and starts it from the first step.
func (s *Scene) Play(tl *Timeline) {
	s.player = NewPlayer(tl)
	if s.debug {
		s.player.OnStep = func(i int, st Step) {
			slog.Debug("timeline step", "index", i, "label", st.Label, "duration", st.Duration)
		}
	}
}

// Done reports whether the timeline has finished.
func (s *Scene) Done() bool {
	return s.player.Done()
}

// Update advances the timeline by dt seconds.
func (s *Scene) Update(dt float64) {
	s.player.Update(dt)
}

// Draw clears the screen and draws the node tree front to back in tree order.
func (s *Scene) Draw(screen *ebiten.Image) {
	screen.Fill(s.ClearColor.toRGBA())

	var stats *drawStats
	var t0 time.Time
	if s.debug {
		stats = &drawStats{}
		t0 = time.Now()
	}

	traverse(screen, s.root, identityTransform, 1.0, false, stats)

	if s.debug {
		s.debugLog(*stats, time.Since(t0))
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, deep trees are reported, and per-frame draw stats and
// timeline steps are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}

// --- Running ---

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int

	// Recorder, when set, switches to recording: the scene advances exactly
	// 1/FPS seconds per frame, every frame is captured, and Run returns once
	// the timeline has finished and its last frame is written.
	Recorder *Recorder
	FPS      int

	// Changed signals that Rebuild should be called to replace the scene.
	// Loop replays the clip by rebuilding it whenever it finishes. The
	// replaced scene's tree is disposed.
	Changed <-chan struct{}
	Rebuild func() (*Scene, error)
	Loop    bool

	// WatchErrors carries errors from whatever feeds Changed. They are
	// logged and do not stop the loop.
	WatchErrors <-chan error
}

// DefaultFPS is the recording frame rate when RunConfig.FPS is zero.
const DefaultFPS = 30

type game struct {
	scene    *Scene
	cfg      RunConfig
	dt       float64
	pending  bool
	finished bool
	err      error
}

// Run opens a window and plays the scene until the window is closed or, when
// recording, until the timeline is done.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = scene.ScreenSize()
	}
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultFPS
	}
	g := &game{scene: scene, cfg: cfg}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Recorder != nil {
		// One Update per Draw so no frame is skipped or duplicated.
		ebiten.SetTPS(ebiten.SyncWithFPS)
		ebiten.SetVsyncEnabled(false)
		g.dt = 1 / float64(cfg.FPS)
	}

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return g.err
}

func (g *game) Update() error {
	if g.err != nil {
		return g.err
	}
	if g.finished {
		return ebiten.Termination
	}

	select {
	case <-g.cfg.Changed:
		g.rebuild("config changed")
	default:
	}
	select {
	case err := <-g.cfg.WatchErrors:
		slog.Warn("config watch error", "error", err)
	default:
	}
	if g.cfg.Loop && g.cfg.Recorder == nil && g.scene.Done() {
		g.rebuild("replay")
	}

	dt := g.dt
	if dt == 0 {
		dt = 1 / float64(ebiten.TPS())
	}
	g.scene.Update(dt)
	g.pending = true
	return nil
}

func (g *game) rebuild(reason string) {
	if g.cfg.Rebuild == nil {
		return
	}
	next, err := g.cfg.Rebuild()
	if err != nil {
		slog.Error("rebuild scene failed", "reason", reason, "error", err)
		return
	}
	slog.Info("scene rebuilt", "reason", reason)
	prev := g.scene
	g.scene = next
	if prev != next {
		prev.Root().Dispose()
	}
}

func (g *game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
	if g.cfg.Recorder == nil || !g.pending {
		return
	}
	g.pending = false
	if err := g.cfg.Recorder.Capture(screen); err != nil {
		g.err = err
		return
	}
	if g.scene.Done() {
		g.finished = true
	}
}

func (g *game) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
