package client

// Phase discriminates a conversion State.
type Phase int

const (
	Idle Phase = iota
	Loading
	Succeeded
	Failed
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Succeeded:
		return "success"
	case Failed:
		return "error"
	default:
		return "unknown"
	}
}

// State is the outcome of one conversion attempt as seen by a caller.
// Results and Warnings are set only in Succeeded; Message only in Failed.
type State struct {
	Phase    Phase
	Results  []Result
	Warnings []string
	Message  string
}

// IdleState is the zero state before any request.
func IdleState() State {
	return State{Phase: Idle}
}

// LoadingState marks a request in flight.
func LoadingState() State {
	return State{Phase: Loading}
}

// StateOf folds a Response into a terminal State.
func StateOf(r Response) State {
	if !r.Success {
		msg := r.Error
		if msg == "" {
			msg = "Conversion failed."
		}
		return State{Phase: Failed, Message: msg}
	}
	return State{Phase: Succeeded, Results: r.All(), Warnings: r.Errors}
}

// Done reports whether the state is terminal.
func (s State) Done() bool {
	return s.Phase == Succeeded || s.Phase == Failed
}
