package crowdsale

// Phase is the lifecycle stage of a sale
type Phase uint8

// phases
const (
	PhaseConfigured Phase = iota
	PhaseRunning
	PhaseStopped
)

func (p Phase) String() string {
	switch p {
	case PhaseConfigured:
		return "configured"
	case PhaseRunning:
		return "running"
	case PhaseStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
