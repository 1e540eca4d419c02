package scoring

import "errors"

// GateState is the scoring state of one (judge, gala) pair.
type GateState string

const (
	GateOpen      GateState = "OPEN"
	GateLocked    GateState = "LOCKED"
	GateSubmitted GateState = "SUBMITTED"
)

var (
	ErrGalaLocked       = errors.New("gala locked")
	ErrAlreadySubmitted = errors.New("already submitted")
	ErrIncomplete       = errors.New("every question must be scored before submitting")
	ErrAlreadyLocked    = errors.New("gala already locked")
	ErrNotLocked        = errors.New("gala not locked")
)

// EvaluateGate resolves the state from the lock and submission registries. A lock wins.
func EvaluateGate(locked bool, submitted bool) GateState {
	switch {
	case locked:
		return GateLocked
	case submitted:
		return GateSubmitted
	default:
		return GateOpen
	}
}

// CheckMutation reports whether a judge may write notes or favorites in the given state.
func CheckMutation(state GateState) error {
	switch state {
	case GateLocked:
		return ErrGalaLocked
	case GateSubmitted:
		return ErrAlreadySubmitted
	}
	return nil
}

type CategoryCompletion struct {
	QuestionCount  int
	ParticipantIds []int
	NoteCounts     map[int]int
}

// Complete skips categories without questions or participants.
func (c CategoryCompletion) Complete() bool {
	if c.QuestionCount == 0 || len(c.ParticipantIds) == 0 {
		return true
	}
	for _, participantId := range c.ParticipantIds {
		if c.NoteCounts[participantId] < c.QuestionCount {
			return false
		}
	}
	return true
}

// Submit applies the OPEN → SUBMITTED transition. SUBMITTED is terminal.
func Submit(state GateState, categories []CategoryCompletion) (GateState, error) {
	if err := CheckMutation(state); err != nil {
		return state, err
	}
	for _, category := range categories {
		if !category.Complete() {
			return state, ErrIncomplete
		}
	}
	return GateSubmitted, nil
}

// Lock and Unlock act on the gala, independently of any judge's submission.
func Lock(locked bool) error {
	if locked {
		return ErrAlreadyLocked
	}
	return nil
}

func Unlock(locked bool) error {
	if !locked {
		return ErrNotLocked
	}
	return nil
}
