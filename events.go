package fxcanvas

// EventType identifies an editor event.
type EventType uint8

const (
	EventSelectionChanged EventType = iota
	EventElementsChanged
	EventTransformStart
	EventTransformUpdate
	EventTransformEnd
	EventRecordAppended
	EventNotice
	EventViewChanged
	EventLayerChanged
	numEventTypes
)

var eventTypeNames = [...]string{
	"selection_changed", "elements_changed", "transform_start", "transform_update",
	"transform_end", "record_appended", "notice", "view_changed", "layer_changed",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Notice is an advisory condition for the toast surface. The editor raises
// notices instead of failing interaction.
type Notice uint8

const (
	NoticeNone Notice = iota
	NoticeNoLayer
	NoticeLayerHidden
	NoticeViewModeDisabled
	NoticeRecordingStarted
	NoticeRecordingStopped
)

var noticeMessages = [...]string{
	"",
	"No layer selected",
	"Layer is hidden",
	"View mode is not enabled",
	"Recording started",
	"Recording stopped",
}

// Message returns the user-facing text for n.
func (n Notice) Message() string {
	if int(n) < len(noticeMessages) {
		return noticeMessages[n]
	}
	return ""
}

// Event is published on the editor's bus and forwarded to the EventSink.
type Event struct {
	Type       EventType
	LayerID    string
	ElementIDs []string
	// Notice is set for EventNotice.
	Notice Notice
	// Record is set for EventRecordAppended.
	Record *ActionRecord
	// Transform and Step are set for transform events.
	Transform TransformState
	Step      TransformStep
	View      ViewMode
}

// EventSink is the interface for optional external event consumers (the ECS
// bridge). When set on an Editor, every event is forwarded to it.
type EventSink interface {
	EmitEvent(event Event)
}

type eventHandler struct {
	id uint32
	fn func(Event)
}

type eventBus struct {
	byType [numEventTypes][]eventHandler
	any    []eventHandler
	nextID uint32
	sink   EventSink
}

// CallbackHandle allows removing a registered event callback.
type CallbackHandle struct {
	id    uint32
	bus   *eventBus
	event EventType
	any   bool
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.bus == nil {
		return
	}
	if h.any {
		h.bus.any = removeEventHandler(h.bus.any, h.id)
		return
	}
	if h.event < numEventTypes {
		h.bus.byType[h.event] = removeEventHandler(h.bus.byType[h.event], h.id)
	}
}

func removeEventHandler(s []eventHandler, id uint32) []eventHandler {
	for i := range s {
		if s[i].id == id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			return s[:len(s)-1]
		}
	}
	return s
}

func (b *eventBus) on(t EventType, fn func(Event)) CallbackHandle {
	b.nextID++
	b.byType[t] = append(b.byType[t], eventHandler{id: b.nextID, fn: fn})
	return CallbackHandle{id: b.nextID, bus: b, event: t}
}

func (b *eventBus) onAny(fn func(Event)) CallbackHandle {
	b.nextID++
	b.any = append(b.any, eventHandler{id: b.nextID, fn: fn})
	return CallbackHandle{id: b.nextID, bus: b, any: true}
}

func (b *eventBus) emit(e Event) {
	if e.Type < numEventTypes {
		for _, h := range b.byType[e.Type] {
			h.fn(e)
		}
	}
	for _, h := range b.any {
		h.fn(e)
	}
	if b.sink != nil {
		b.sink.EmitEvent(e)
	}
}
