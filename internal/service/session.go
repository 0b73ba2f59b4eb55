package service

import (
	"time"
)

// Step represents the current step of a multi-field input session.
type Step string

const (
	StepIdle      Step = "idle"
	StepRoom      Step = "room"
	StepName      Step = "name"
	StepNumber    Step = "student_number"
	StepMonth     Step = "month"
	StepDay       Step = "day"
	StepStart     Step = "start_time"
	StepEnd       Step = "end_time"
	StepConfirm   Step = "confirm"
	StepComplete  Step = "complete"
	StepCancelled Step = "cancelled"
)

// Session holds the fields collected so far for a create or edit flow.
// EditID is empty for a create.
type Session struct {
	Step      Step
	Draft     Request
	EditID    string
	StartedAt time.Time
	UpdatedAt time.Time
}

// NewSession starts a collecting session at the room step.
func NewSession(editID string) *Session {
	now := time.Now()
	return &Session{
		Step:      StepRoom,
		EditID:    editID,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// transitions lists the allowed step changes. A validation failure keeps
// the session on the same step; cancel is reachable from every
// collecting step.
var transitions = map[Step][]Step{
	StepIdle:      {StepRoom},
	StepRoom:      {StepName, StepCancelled},
	StepName:      {StepNumber, StepCancelled},
	StepNumber:    {StepMonth, StepCancelled},
	StepMonth:     {StepDay, StepCancelled},
	StepDay:       {StepStart, StepCancelled},
	StepStart:     {StepEnd, StepCancelled},
	StepEnd:       {StepConfirm, StepCancelled},
	StepConfirm:   {StepComplete, StepCancelled},
	StepComplete:  {StepIdle},
	StepCancelled: {StepIdle},
}

// CanTransition checks if moving from one step to another is allowed.
func CanTransition(from, to Step) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Advance moves the session to the given step if the transition is
// allowed.
func (s *Session) Advance(to Step) bool {
	if !CanTransition(s.Step, to) {
		return false
	}
	s.Step = to
	s.UpdatedAt = time.Now()
	return true
}

// Done reports whether the session reached a terminal step.
func (s *Session) Done() bool {
	return s.Step == StepComplete || s.Step == StepCancelled
}
