package uploadflow

import "fmt"

// legalEdges lists the allowed transitions between state kinds.
var legalEdges = map[Kind][]Kind{
	KindIdle:               {KindSelecting},
	KindSelecting:          {KindValidating},
	KindValidating:         {KindValidating, KindValidated},
	KindValidated:          {KindRequestingLocation, KindUploading},
	KindRequestingLocation: {KindValidated},
	KindUploading:          {KindUploading, KindProcessing, KindError},
	KindProcessing:         {KindSuccess, KindError},
	KindError:              {KindValidating},
	KindSuccess:            {},
}

// Machine tracks the current upload state and rejects illegal transitions,
// including progress percentages that move backwards within one attempt.
type Machine struct {
	current State
}

// NewMachine returns a machine in the Idle state.
func NewMachine() *Machine {
	return &Machine{current: Idle{}}
}

// Current returns the active state.
func (m *Machine) Current() State {
	return m.current
}

// Transition moves the machine to next, or returns an error describing why
// the move is illegal. The machine is unchanged on error.
func (m *Machine) Transition(next State) error {
	from := m.current.Kind()
	to := next.Kind()

	allowed := false
	for _, k := range legalEdges[from] {
		if k == to {
			allowed = true
			break
		}
	}
	if !allowed {
		return fmt.Errorf("illegal transition %s -> %s", from, to)
	}

	if err := checkProgress(m.current, next); err != nil {
		return err
	}

	m.current = next
	return nil
}

// checkProgress enforces that progress percentages stay within 0-100 and are
// non-decreasing across same-kind ticks.
func checkProgress(current, next State) error {
	pct, ok := progressOf(next)
	if !ok {
		return nil
	}
	if pct < 0 || pct > 100 {
		return fmt.Errorf("progress %d out of range", pct)
	}
	if current.Kind() == next.Kind() {
		if prev, ok := progressOf(current); ok && pct < prev {
			return fmt.Errorf("progress moved backwards: %d -> %d", prev, pct)
		}
	}
	return nil
}

func progressOf(s State) (int, bool) {
	switch v := s.(type) {
	case Validating:
		return v.Progress, true
	case Uploading:
		return v.Progress, true
	default:
		return 0, false
	}
}

// Terminal reports whether the machine reached an end state. Error counts as
// terminal even though a retry may leave it again.
func (m *Machine) Terminal() bool {
	k := m.current.Kind()
	return k == KindSuccess || k == KindError
}
