package proc

// LoopMode controls track re-injection at playback boundaries.
type LoopMode int

const (
	LoopOff LoopMode = iota
	LoopSingle
	LoopQueue
)

func (m LoopMode) String() string {
	switch m {
	case LoopSingle:
		return "single"
	case LoopQueue:
		return "queue"
	default:
		return "off"
	}
}

// ParseLoopMode maps a user-facing name to a LoopMode; unknown names map to off.
func ParseLoopMode(s string) LoopMode {
	switch s {
	case "single":
		return LoopSingle
	case "queue":
		return LoopQueue
	default:
		return LoopOff
	}
}

// AutoplayMode controls what happens when the queue runs dry.
type AutoplayMode int

const (
	AutoplayOff AutoplayMode = iota
	AutoplayBasic
	AutoplayRelevant
	AutoplayExplorative
)

func (m AutoplayMode) String() string {
	switch m {
	case AutoplayBasic:
		return "basic"
	case AutoplayRelevant:
		return "relevant"
	case AutoplayExplorative:
		return "explorative"
	default:
		return "off"
	}
}

func ParseAutoplayMode(s string) AutoplayMode {
	switch s {
	case "basic":
		return AutoplayBasic
	case "relevant":
		return AutoplayRelevant
	case "explorative":
		return AutoplayExplorative
	default:
		return AutoplayOff
	}
}
