// Package keycast renders short keyboard reveal clips with [Ebitengine].
//
// A clip is described by a configuration file: keyboard layouts, a category
// per single-character key, a topic (title, keys to press, a detail line per
// key) and animation pacing. keycast lays out the keyboard, presses the
// topic's keys one at a time, clears the rest away and reveals an info card
// whose lines are typed out before everything fades.
//
// # Quick start
//
//	cfg, err := keycast.LoadConfig("keyboard_config.json")
//	if err != nil { ... }
//	fonts, err := keycast.LoadFonts()
//	if err != nil { ... }
//	clip, err := keycast.BuildClip(cfg, keycast.ClipOptions{Fonts: fonts})
//	if err != nil { ... }
//	keycast.Run(clip.Scene, keycast.RunConfig{Title: "keycast"})
//
// Set [RunConfig.Recorder] to write every frame to disk as a PNG sequence
// instead of playing in real time.
//
// # Layout
//
// [BuildKeyboard] turns rows of key labels into a [Keyboard] of [KeySlot]s
// and a [LayoutIndex] from label to slot ids. Widths come from [KeyWidth];
// every row is centered on its own and the whole keyboard is scaled by
// [KeyboardScale] and centered once all rows are placed. Labels that appear
// more than once (two Shift keys) are indexed in row-major order and
// [LayoutIndex.First] picks the first.
//
// # Reveal
//
// [Sequencer.RevealTopic] appends the animation to a [Timeline] as an ordered
// list of steps. Each step either plays a set of [Effect]s together, waits,
// or runs a callback. A [Player] consumes the steps one after another on the
// game loop goroutine; effects capture their start values when their step
// begins.
//
// # Units
//
// Layout code works in units where a standard key is 1.0 tall, with Y
// growing downward. [Scene.Stage] maps [FrameHeight] units onto the screen
// height and puts the origin at the screen center. Text is measured in
// pixels and scaled by 1/[UnitPx] onto the stage.
//
// # Configuration
//
// [LoadConfig] accepts JSON or YAML. Documents are validated against an
// embedded JSON Schema; failures wrap [ErrConfigNotFound],
// [ErrConfigMalformed] or [ErrConfigInvalid]. An unknown selected layout
// falls back to the first declared one.
//
// [Ebitengine]: https://ebitengine.org
package keycast
