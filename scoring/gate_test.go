package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateGate(t *testing.T) {
	assert.Equal(t, GateOpen, EvaluateGate(false, false))
	assert.Equal(t, GateSubmitted, EvaluateGate(false, true))
	assert.Equal(t, GateLocked, EvaluateGate(true, false))
	assert.Equal(t, GateLocked, EvaluateGate(true, true))
}

func TestCheckMutation(t *testing.T) {
	assert.NoError(t, CheckMutation(GateOpen))
	assert.ErrorIs(t, CheckMutation(GateLocked), ErrGalaLocked)
	assert.ErrorIs(t, CheckMutation(GateSubmitted), ErrAlreadySubmitted)
}

func TestSubmitRequiresCompleteness(t *testing.T) {
	complete := CategoryCompletion{QuestionCount: 2, ParticipantIds: []int{1, 2}, NoteCounts: map[int]int{1: 2, 2: 2}}
	incomplete := CategoryCompletion{QuestionCount: 2, ParticipantIds: []int{1, 2}, NoteCounts: map[int]int{1: 2, 2: 1}}
	noQuestions := CategoryCompletion{QuestionCount: 0, ParticipantIds: []int{3}}
	noParticipants := CategoryCompletion{QuestionCount: 4}

	state, err := Submit(GateOpen, []CategoryCompletion{complete, noQuestions, noParticipants})
	assert.NoError(t, err)
	assert.Equal(t, GateSubmitted, state)

	state, err = Submit(GateOpen, []CategoryCompletion{complete, incomplete})
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Equal(t, GateOpen, state)
}

func TestSubmitIsTerminal(t *testing.T) {
	_, err := Submit(GateSubmitted, nil)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	_, err = Submit(GateLocked, nil)
	assert.ErrorIs(t, err, ErrGalaLocked)
}

func TestLockTransitions(t *testing.T) {
	assert.NoError(t, Lock(false))
	assert.ErrorIs(t, Lock(true), ErrAlreadyLocked)
	assert.NoError(t, Unlock(true))
	assert.ErrorIs(t, Unlock(false), ErrNotLocked)
}
