package fxcanvas

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Recorder timing defaults.
const (
	DefaultTickDuration     = 50 * time.Millisecond // 20 ticks per second
	DefaultThrottleInterval = 16 * time.Millisecond // ~60Hz for continuous records
	DefaultIdleQuiet        = 300 * time.Millisecond
)

// ActionType names the semantic mutation an ActionRecord describes.
type ActionType string

const (
	ActionRotate          ActionType = "rotate"          // rotate gesture update
	ActionScale           ActionType = "scale"           // scale gesture update
	ActionMove            ActionType = "move"            // drag finished; total delta
	ActionMoveContinuous  ActionType = "move_continuous" // drag update; incremental delta
	ActionTransformUpdate ActionType = "transform_update"
	ActionTransformEnd    ActionType = "transform_end"
	ActionColor           ActionType = "color"
	ActionParticleCount   ActionType = "particle_count"
	ActionSelect          ActionType = "select"
	ActionSelectSingle    ActionType = "select_single"
	ActionSelectBox       ActionType = "select_box"
	ActionElementAdd      ActionType = "element_add"
	ActionElementDelete   ActionType = "element_delete"
	ActionIdle            ActionType = "idle"
)

// Continuous reports whether t is a high-frequency gesture update subject to
// throttling.
func (t ActionType) Continuous() bool {
	switch t {
	case ActionMoveContinuous, ActionRotate, ActionScale, ActionTransformUpdate:
		return true
	}
	return false
}

// ActionData is the type-dependent payload of an ActionRecord. Only the
// fields relevant to the record's type are set.
type ActionData struct {
	View      ViewMode        `json:"view"`
	Angle     float64         `json:"angle,omitempty"`
	Scale     float64         `json:"scale,omitempty"`
	Center    *Vec2           `json:"center,omitempty"`
	Delta     *Vec3           `json:"delta,omitempty"`
	Color     *Color          `json:"color,omitempty"`
	Count     int             `json:"count,omitempty"`
	PrevCount int             `json:"prevCount,omitempty"`
	GroupIDs  []string        `json:"groupIds,omitempty"`
	Box       *Rect           `json:"box,omitempty"`
	Additive  bool            `json:"additive,omitempty"`
	Positions map[string]Vec3 `json:"positions,omitempty"`

	// Counts and PrevCounts hold per-group particle counts of a
	// particle_count record. Count and PrevCount are set only when every
	// group shares the same value.
	Counts     map[string]int `json:"counts,omitempty"`
	PrevCounts map[string]int `json:"prevCounts,omitempty"`
}

// ActionRecord is one immutable entry in the action log.
type ActionRecord struct {
	ID         string     `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	Type       ActionType `json:"type"`
	ElementIDs []string   `json:"elementIds"`
	Data       ActionData `json:"data"`
	DelayTicks int        `json:"delayTicks"`
}

// DelayTicks returns the number of whole ticks between prev and now, rounded
// to nearest and never less than 1.
func DelayTicks(prev, now time.Time, tick time.Duration) int {
	if tick <= 0 {
		return 1
	}
	n := int(math.Round(float64(now.Sub(prev)) / float64(tick)))
	return max(1, n)
}

// Clock abstracts wall-clock time so recording can be driven
// deterministically.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the real wall clock.
var SystemClock Clock = systemClock{}

// RecordingSession is the recorder's gate and timing state.
type RecordingSession struct {
	IsRecording    bool
	LastActionTime time.Time
	// LastPositions holds the last recorded world position of every element
	// the log has seen, used to build idle and element-add context.
	LastPositions map[string]Vec3
	// AddElementDelay charges the computed delay to the first placement of a
	// placement sequence. When false that placement is charged one tick.
	AddElementDelay bool
}

// RecorderConfig holds recorder timing.
type RecorderConfig struct {
	TickDuration     time.Duration
	ThrottleInterval time.Duration
	IdleQuiet        time.Duration
	AddElementDelay  bool
}

// DefaultRecorderConfig returns the standard 20 ticks/second timing.
func DefaultRecorderConfig() RecorderConfig {
	return RecorderConfig{
		TickDuration:     DefaultTickDuration,
		ThrottleInterval: DefaultThrottleInterval,
		IdleQuiet:        DefaultIdleQuiet,
		AddElementDelay:  true,
	}
}

// Recorder is an append-only, time-ordered log of semantic mutations, gated
// by an explicit start/stop state. Nothing is recorded while stopped.
type Recorder struct {
	cfg     RecorderConfig
	clock   Clock
	session RecordingSession
	log     []ActionRecord

	lastContinuous time.Time
	lastIdle       time.Time
	pending        *ActionRecord
}

// NewRecorder creates a stopped recorder. A nil clock uses SystemClock.
func NewRecorder(cfg RecorderConfig, clock Clock) *Recorder {
	if clock == nil {
		clock = SystemClock
	}
	if cfg.TickDuration <= 0 {
		cfg.TickDuration = DefaultTickDuration
	}
	if cfg.IdleQuiet <= 0 {
		cfg.IdleQuiet = DefaultIdleQuiet
	}
	return &Recorder{
		cfg:   cfg,
		clock: clock,
		session: RecordingSession{
			LastPositions:   make(map[string]Vec3),
			AddElementDelay: cfg.AddElementDelay,
		},
	}
}

// Start resets the log and timers and begins recording. positions seeds the
// last known position map (typically the active layer's elements).
func (r *Recorder) Start(elems []Element) {
	now := r.clock.Now()
	r.log = nil
	r.pending = nil
	r.lastContinuous = time.Time{}
	r.lastIdle = now
	r.session.IsRecording = true
	r.session.LastActionTime = now
	r.session.LastPositions = positionsOf(elems)
}

// Stop freezes the log. Any throttled update still pending is committed.
func (r *Recorder) Stop() {
	if !r.session.IsRecording {
		return
	}
	r.flushPending(r.clock.Now())
	r.session.IsRecording = false
}

// Clear empties the log without changing the recording state.
func (r *Recorder) Clear() {
	r.log = nil
	r.pending = nil
	now := r.clock.Now()
	r.session.LastActionTime = now
	r.lastIdle = now
}

// IsRecording reports whether mutations are being captured.
func (r *Recorder) IsRecording() bool { return r.session.IsRecording }

// SetAddElementDelay sets the element-add delay policy.
func (r *Recorder) SetAddElementDelay(on bool) { r.session.AddElementDelay = on }

// Session returns a copy of the recording state.
func (r *Recorder) Session() RecordingSession {
	s := r.session
	s.LastPositions = make(map[string]Vec3, len(r.session.LastPositions))
	for k, v := range r.session.LastPositions {
		s.LastPositions[k] = v
	}
	return s
}

// Records returns a copy of the log.
func (r *Recorder) Records() []ActionRecord {
	return slices.Clone(r.log)
}

// Len returns the number of committed records.
func (r *Recorder) Len() int { return len(r.log) }

// Load replaces the log with records (restoring a saved session). The
// recorder is left stopped.
func (r *Recorder) Load(records []ActionRecord) {
	r.log = slices.Clone(records)
	r.pending = nil
	r.session.IsRecording = false
	r.session.LastPositions = make(map[string]Vec3)
	for _, rec := range r.log {
		r.applyPositions(rec)
	}
	if n := len(r.log); n > 0 {
		r.session.LastActionTime = r.log[n-1].Timestamp
	}
}

// Record mirrors one mutation into the log. It returns the committed record
// and true, or false when recording is stopped or the update was throttled
// (throttled updates are folded into the next committed record).
func (r *Recorder) Record(typ ActionType, ids []string, data ActionData) (ActionRecord, bool) {
	if !r.session.IsRecording {
		return ActionRecord{}, false
	}
	now := r.clock.Now()
	rec := ActionRecord{Type: typ, ElementIDs: slices.Clone(ids), Data: data}

	if typ.Continuous() {
		if r.cfg.ThrottleInterval > 0 && !r.lastContinuous.IsZero() && now.Sub(r.lastContinuous) < r.cfg.ThrottleInterval {
			r.fold(rec)
			return ActionRecord{}, false
		}
		if r.pending != nil && r.pending.Type == typ {
			rec = mergeContinuous(*r.pending, rec)
			r.pending = nil
		}
		r.flushPending(now)
		r.lastContinuous = now
		return r.commit(rec, now), true
	}

	r.flushPending(now)
	return r.commit(rec, now), true
}

// fold merges a throttled continuous update into the pending record.
func (r *Recorder) fold(rec ActionRecord) {
	if r.pending == nil || r.pending.Type != rec.Type {
		if r.pending != nil {
			r.flushPending(r.clock.Now())
		}
		r.pending = &rec
		return
	}
	merged := mergeContinuous(*r.pending, rec)
	r.pending = &merged
}

// mergeContinuous combines an earlier throttled update with a later one.
// Move deltas are incremental and add up; every other payload is absolute
// and the later one wins.
func mergeContinuous(earlier, later ActionRecord) ActionRecord {
	if later.Type == ActionMoveContinuous && earlier.Data.Delta != nil && later.Data.Delta != nil {
		d := earlier.Data.Delta.Add(*later.Data.Delta)
		later.Data.Delta = &d
	}
	if len(earlier.Data.Positions) > 0 {
		merged := make(map[string]Vec3, len(earlier.Data.Positions)+len(later.Data.Positions))
		for k, v := range earlier.Data.Positions {
			merged[k] = v
		}
		for k, v := range later.Data.Positions {
			merged[k] = v
		}
		later.Data.Positions = merged
	}
	return later
}

func (r *Recorder) flushPending(now time.Time) {
	if r.pending == nil {
		return
	}
	p := *r.pending
	r.pending = nil
	r.lastContinuous = now
	r.commit(p, now)
}

// commit stamps and appends rec.
func (r *Recorder) commit(rec ActionRecord, now time.Time) ActionRecord {
	last := r.session.LastActionTime
	if now.Before(last) {
		now = last
	}
	rec.ID = uuid.NewString()
	rec.Timestamp = now
	rec.DelayTicks = DelayTicks(last, now, r.cfg.TickDuration)

	if rec.Type == ActionElementAdd && !r.session.AddElementDelay && !r.inAddSequence() {
		rec.DelayTicks = 1
	}

	r.log = append(r.log, rec)
	r.session.LastActionTime = now
	r.applyPositions(rec)
	return rec
}

func (r *Recorder) inAddSequence() bool {
	n := len(r.log)
	return n > 0 && r.log[n-1].Type == ActionElementAdd
}

func (r *Recorder) applyPositions(rec ActionRecord) {
	if rec.Type == ActionElementDelete {
		for _, id := range rec.ElementIDs {
			delete(r.session.LastPositions, id)
		}
		return
	}
	for id, p := range rec.Data.Positions {
		r.session.LastPositions[id] = p
	}
}

// Tick appends an idle record when the quiet period has elapsed with no new
// record. elems is the active layer; the record references all of its ids
// and their current positions so a player can hold them. Idle records are
// themselves spaced at least one quiet period apart.
func (r *Recorder) Tick(elems []Element) (ActionRecord, bool) {
	if !r.session.IsRecording {
		return ActionRecord{}, false
	}
	now := r.clock.Now()
	if r.pending != nil && now.Sub(r.lastContinuous) >= r.cfg.ThrottleInterval {
		r.flushPending(now)
	}
	if now.Sub(r.session.LastActionTime) <= r.cfg.IdleQuiet || now.Sub(r.lastIdle) < r.cfg.IdleQuiet {
		return ActionRecord{}, false
	}
	r.lastIdle = now
	rec := ActionRecord{
		Type:       ActionIdle,
		ElementIDs: elementIDs(elems),
		Data:       ActionData{Positions: positionsOf(elems)},
	}
	return r.commit(rec, now), true
}

func positionsOf(elems []Element) map[string]Vec3 {
	m := make(map[string]Vec3, len(elems))
	for i := range elems {
		m[elems[i].ID] = elems[i].Position
	}
	return m
}
