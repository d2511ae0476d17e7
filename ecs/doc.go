// Package ecs provides ECS adapters for fxcanvas editor events.
//
// The primary adapter is [NewDonburiSink], which bridges editor events
// (selection, element and transform changes, recorded actions, notices)
// into a [Donburi] world as typed events. Subscribe to [EditorEventType] in
// your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	editor.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
