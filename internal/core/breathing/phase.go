package breathing

// Phase is one step of the box breathing cycle.
type Phase int

const (
	PhaseIn Phase = iota
	PhaseHoldIn
	PhaseOut
	PhaseHoldOut
)

// PhaseCount is the number of phases in one cycle.
const PhaseCount = 4

// Next returns the phase that follows p.
func (p Phase) Next() Phase {
	return (p + 1) % PhaseCount
}

// Index is the zero based position of p within the cycle.
func (p Phase) Index() int {
	return int(p)
}

// Label is the instruction shown to the user.
func (p Phase) Label() string {
	switch p {
	case PhaseIn:
		return "Breathe In"
	case PhaseOut:
		return "Breathe Out"
	default:
		return "Hold"
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseIn:
		return "in"
	case PhaseHoldIn:
		return "hold_in"
	case PhaseOut:
		return "out"
	case PhaseHoldOut:
		return "hold_out"
	default:
		return "unknown"
	}
}
