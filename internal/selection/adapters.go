package selection

import "time"

// The two front ends below normalise the pointer-event and touch-event
// vocabularies into the same machine events. iOS needs a separate
// non-passive touch path to suppress native scrolling, so both paths
// exist in production and must reach identical states from equivalent
// input; keeping them as thin translators over one Machine makes that a
// property of the type system rather than of copy-paste discipline.

// PointerAdapter feeds pointer events (down/move/up/cancel/leave) into
// the machine.
type PointerAdapter struct {
	M *Machine
}

func (a PointerAdapter) Down(y float64, day time.Time) Effect {
	return a.M.Transition(Press{Y: y, Day: day})
}

func (a PointerAdapter) DownOnHandle(edge Edge) Effect {
	return a.M.Transition(PressResize{Edge: edge})
}

func (a PointerAdapter) MoveTo(y float64) Effect {
	return a.M.Transition(Move{Y: y})
}

func (a PointerAdapter) Up() Effect {
	return a.M.Transition(Release{})
}

func (a PointerAdapter) CancelGesture() Effect {
	return a.M.Transition(Cancel{})
}

func (a PointerAdapter) LeaveArea() Effect {
	return a.M.Transition(Leave{})
}

// TouchAdapter feeds touch events into the machine. Multi-touch is
// ignored entirely: a second finger means pinch or system gesture, not
// selection. Touch has no leave notion, so only start/move/end/cancel
// are mapped.
type TouchAdapter struct {
	M *Machine
}

func (a TouchAdapter) Start(touches int, y float64, day time.Time) Effect {
	if touches != 1 {
		return EffectNone
	}
	return a.M.Transition(Press{Y: y, Day: day})
}

func (a TouchAdapter) StartOnHandle(touches int, edge Edge) Effect {
	if touches != 1 {
		return EffectNone
	}
	return a.M.Transition(PressResize{Edge: edge})
}

func (a TouchAdapter) MoveTo(y float64) Effect {
	return a.M.Transition(Move{Y: y})
}

func (a TouchAdapter) End() Effect {
	return a.M.Transition(Release{})
}

func (a TouchAdapter) CancelGesture() Effect {
	return a.M.Transition(Cancel{})
}
