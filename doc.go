// Package fxcanvas is the interaction engine of a 2D particle-effect editor
// built on [Ebitengine].
//
// The editor places colored particle elements in a 3D world and edits them
// through a 2D canvas. It provides the projection between world space and
// the canvas for five view modes, grid snapping, shape generation, hit
// testing and selection, a drag/rotate/scale transform state machine, and a
// tick-quantized action recorder for animation playback.
//
// # Quick start
//
// [Run] opens a window and drives the editor with live mouse and keyboard
// input:
//
//	store := fxcanvas.NewMemoryStore()
//	layer := store.AddLayer("sparks", fxcanvas.ColorWhite)
//	ed := fxcanvas.NewEditor(fxcanvas.DefaultConfig(), store)
//	ed.SetActiveLayer(layer)
//	fxcanvas.Run(ed, fxcanvas.RunConfig{Title: "fxcanvas"})
//
// For full control, implement [ebiten.Game] yourself and call
// [Editor.Update], [Editor.Draw] and [Editor.Layout] directly.
//
// # Coordinates
//
// World positions are [Vec3] values. Each [ViewMode] projects two world
// axes onto the canvas (the view plane); the remaining axis is the depth,
// which edits in that view never change. One world unit spans ten pixels at
// zoom scale 1, and the world origin sits at the canvas center plus the pan
// offset.
//
// # Layers and elements
//
// Elements live in layers owned by a [LayerStore]. The editor never mutates
// a layer in place: every edit hands the store a full replacement array.
// Hidden layers can be selected but not edited; attempts raise a [Notice]
// instead of failing.
//
// # Recording
//
// While recording, edits append [ActionRecord] values stamped with the
// number of ticks since the previous action. Continuous gestures are
// throttled and a quiet period emits an idle record, so replaying the log
// reproduces the pacing of the original session.
//
// # Headless use
//
// Without a window, drive the editor through [Editor.PointerDown],
// [Editor.PointerMove] and [Editor.PointerUp], or queue synthetic input with
// [Editor.InjectDrag] and friends and call [Editor.Update] once per frame.
// [LoadScript] replays a JSON input script the same way.
//
// Events are delivered to callbacks registered with [Editor.On] and to an
// optional [EventSink]; the ecs subpackage bridges them into a [Donburi]
// world.
//
// [Ebitengine]: https://ebitengine.org
// [Donburi]: https://github.com/yohamta/donburi
package fxcanvas
