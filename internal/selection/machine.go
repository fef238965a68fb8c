// Package selection turns raw pointer or touch movement over the day
// grid into a quantized time interval. The original client interleaved
// a long-press timer, pointer capture, and scroll suppression inside
// its event handlers; here the whole gesture is one explicit state
// machine with a single Transition entry point, driven identically by
// the pointer and touch front ends and testable with synthetic event
// sequences.
package selection

import (
	"errors"
	"time"
)

// State of the gesture recognizer.
type State int

const (
	// Idle: no gesture in progress.
	Idle State = iota
	// Pressed: contact is down, the long-press timer is running and the
	// pointer is not yet captured, so an ordinary scroll stays possible.
	Pressed
	// Selecting: the timer fired; the pointer is captured and movement
	// grows or shrinks the provisional interval.
	Selecting
	// Resizing: one edge of an existing interval follows the pointer.
	Resizing
	// Committing: contact ended with a non-empty interval; the
	// confirmation sheet owns the draft until Dismiss or Reset.
	Committing
	// Cancelled: the gesture was abandoned; next Press starts over.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pressed:
		return "pressed"
	case Selecting:
		return "selecting"
	case Resizing:
		return "resizing"
	case Committing:
		return "committing"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Edge identifies which handle of an existing interval is being dragged.
type Edge int

const (
	EdgeNone Edge = iota
	EdgeTop
	EdgeBottom
)

// Gesture tuning. LongPress and DeadZonePx mirror the production
// client: selection starts strictly after 350 ms without movement, and
// any earlier move past 6 px is a scroll intent.
const (
	SlotMinutes   = 15
	MinutesPerDay = 24 * 60
	LongPress     = 350 * time.Millisecond
	DeadZonePx    = 6.0
)

// ErrNoInterval is returned by Interval when no selection exists.
var ErrNoInterval = errors.New("selection: no interval")

// Interval is the transient product of a gesture: a quantized
// [StartMinutes, EndMinutes) span within one day. It is promoted to an
// event draft on commit and discarded otherwise.
type Interval struct {
	Day          time.Time
	StartMinutes int
	EndMinutes   int
}

// Start returns the interval's start as a wall-clock time within Day.
func (iv Interval) Start() time.Time {
	d := iv.Day
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()).
		Add(time.Duration(iv.StartMinutes) * time.Minute)
}

// End returns the interval's end as a wall-clock time within Day.
func (iv Interval) End() time.Time {
	d := iv.Day
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()).
		Add(time.Duration(iv.EndMinutes) * time.Minute)
}

// Quantize15 floors a minute-of-day value to the nearest quarter hour.
// Negative input clamps to zero.
func Quantize15(m int) int {
	if m < 0 {
		return 0
	}
	return m / SlotMinutes * SlotMinutes
}

// Event is one input to Transition.
type Event interface{ isEvent() }

// Press is pointer/touch down over the grid.
type Press struct {
	Y   float64
	Day time.Time
}

// PressResize is pointer/touch down on a handle of an existing
// interval; it starts moving one edge immediately.
type PressResize struct {
	Edge Edge
}

// TimerFired is delivery of the long-press timer.
type TimerFired struct{}

// Move is pointer/touch movement at vertical offset Y.
type Move struct {
	Y float64
}

// Release is pointer up / touch end.
type Release struct{}

// Cancel is pointer cancel / touch cancel.
type Cancel struct{}

// Leave is the pointer leaving the grid area.
type Leave struct{}

// Dismiss is the confirmation sheet closing without a save.
type Dismiss struct{}

// Reset returns the machine to Idle unconditionally (sheet saved, day
// changed, page switched).
type Reset struct{}

func (Press) isEvent()       {}
func (PressResize) isEvent() {}
func (TimerFired) isEvent()  {}
func (Move) isEvent()        {}
func (Release) isEvent()     {}
func (Cancel) isEvent()      {}
func (Leave) isEvent()       {}
func (Dismiss) isEvent()     {}
func (Reset) isEvent()       {}

// Effect tells the driver what side effect the transition requires.
// Timers and pointer capture live in the driver; the machine only
// decides.
type Effect int

const (
	EffectNone Effect = iota
	// EffectStartTimer: arm the long-press timer for LongPress.
	EffectStartTimer
	// EffectStopTimer: clear any pending long-press timer.
	EffectStopTimer
	// EffectCapture: capture the pointer and suppress vertical scroll.
	EffectCapture
	// EffectRelease: release capture and restore scrolling.
	EffectRelease
	// EffectCommit: open the confirmation sheet with Interval().
	EffectCommit
)

// Machine recognizes the interval-selection gesture. PxPerHour is the
// vertical scale used to map offsets to minutes; the zero value is not
// usable, construct with New.
type Machine struct {
	pxPerHour float64

	state    State
	day      time.Time
	anchor   int
	initialY float64
	edge     Edge
	interval *Interval
}

// New returns an Idle machine with the given vertical scale.
func New(pxPerHour float64) *Machine {
	if pxPerHour <= 0 {
		pxPerHour = 60
	}
	return &Machine{pxPerHour: pxPerHour}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Active reports whether movement is being consumed (scroll must be
// suppressed).
func (m *Machine) Active() bool {
	return m.state == Selecting || m.state == Resizing
}

// Interval returns the current provisional interval.
func (m *Machine) Interval() (Interval, error) {
	if m.interval == nil {
		return Interval{}, ErrNoInterval
	}
	return *m.interval, nil
}

// minutesAt converts a vertical pixel offset to a quantized
// minute-of-day, clamped to the day.
func (m *Machine) minutesAt(y float64) int {
	if y < 0 {
		y = 0
	}
	minutes := int(y * 60 / m.pxPerHour)
	if minutes > MinutesPerDay {
		minutes = MinutesPerDay
	}
	return Quantize15(minutes)
}

// Transition applies one event and returns the side effect the driver
// must perform. Unexpected events in a given state are ignored.
func (m *Machine) Transition(ev Event) Effect {
	switch ev := ev.(type) {
	case Press:
		return m.press(ev)
	case PressResize:
		return m.pressResize(ev)
	case TimerFired:
		return m.timerFired()
	case Move:
		return m.move(ev)
	case Release:
		return m.release()
	case Cancel, Leave:
		return m.abort(ev)
	case Dismiss:
		if m.state == Committing {
			m.clear(Cancelled)
		}
		return EffectNone
	case Reset:
		m.clear(Idle)
		return EffectStopTimer
	}
	return EffectNone
}

func (m *Machine) press(ev Press) Effect {
	if m.state != Idle && m.state != Cancelled {
		return EffectNone
	}
	m.state = Pressed
	m.day = ev.Day
	m.anchor = m.minutesAt(ev.Y)
	m.initialY = ev.Y
	m.edge = EdgeNone
	m.interval = nil
	return EffectStartTimer
}

func (m *Machine) pressResize(ev PressResize) Effect {
	// Resizing only makes sense with an interval on screen.
	if m.interval == nil || ev.Edge == EdgeNone {
		return EffectNone
	}
	m.state = Resizing
	m.edge = ev.Edge
	return EffectCapture
}

func (m *Machine) timerFired() Effect {
	if m.state != Pressed {
		return EffectNone
	}
	m.state = Selecting
	start := m.anchor
	m.interval = &Interval{
		Day:          m.day,
		StartMinutes: start,
		EndMinutes:   start + SlotMinutes,
	}
	return EffectCapture
}

func (m *Machine) move(ev Move) Effect {
	switch m.state {
	case Pressed:
		// Before the timer fires, movement past the dead zone means the
		// user is scrolling: give the gesture up without capturing.
		if abs(ev.Y-m.initialY) > DeadZonePx {
			m.clear(Idle)
			return EffectStopTimer
		}
		return EffectNone
	case Selecting:
		cur := m.minutesAt(ev.Y)
		start, end := m.anchor, cur
		if cur < m.anchor {
			start, end = cur, m.anchor
		}
		end += SlotMinutes
		if end > MinutesPerDay {
			end = MinutesPerDay
		}
		m.interval.StartMinutes = start
		m.interval.EndMinutes = end
		return EffectNone
	case Resizing:
		cur := m.minutesAt(ev.Y)
		switch m.edge {
		case EdgeTop:
			limit := m.interval.EndMinutes - SlotMinutes
			if cur > limit {
				cur = limit
			}
			if cur < 0 {
				cur = 0
			}
			m.interval.StartMinutes = cur
		case EdgeBottom:
			limit := m.interval.StartMinutes + SlotMinutes
			if cur < limit {
				cur = limit
			}
			if cur > MinutesPerDay {
				cur = MinutesPerDay
			}
			m.interval.EndMinutes = cur
		}
		return EffectNone
	}
	return EffectNone
}

func (m *Machine) release() Effect {
	switch m.state {
	case Pressed:
		// Tap without long press: nothing selected.
		m.clear(Idle)
		return EffectStopTimer
	case Selecting, Resizing:
		if m.interval == nil {
			m.clear(Cancelled)
			return EffectRelease
		}
		m.state = Committing
		m.edge = EdgeNone
		return EffectCommit
	}
	return EffectNone
}

func (m *Machine) abort(ev Event) Effect {
	switch m.state {
	case Pressed:
		m.clear(Idle)
		return EffectStopTimer
	case Selecting, Resizing:
		if _, isLeave := ev.(Leave); isLeave && m.state == Selecting {
			// The pointer is captured while selecting; leave events from
			// the underlying element are stale and ignored.
			return EffectNone
		}
		m.clear(Cancelled)
		return EffectRelease
	}
	return EffectNone
}

func (m *Machine) clear(s State) {
	m.state = s
	m.interval = nil
	m.edge = EdgeNone
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
