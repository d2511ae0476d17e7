package ecs

import (
	"github.com/phanxgames/fxcanvas"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// EditorEventType is the Donburi event type for fxcanvas editor events.
var EditorEventType = events.NewEventType[fxcanvas.Event]()

// RecordEventType carries only recorded actions, for systems that replay
// or stream the action log.
var RecordEventType = events.NewEventType[fxcanvas.ActionRecord]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// published to EditorEventType, and recorded actions additionally to
// RecordEventType. Consume them with Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) fxcanvas.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event fxcanvas.Event) {
	EditorEventType.Publish(s.world, event)
	if event.Type == fxcanvas.EventRecordAppended && event.Record != nil {
		RecordEventType.Publish(s.world, *event.Record)
	}
}
