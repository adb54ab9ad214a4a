// Package companion derives a non-verbal companion mood from lesson events.
package companion

import (
	"time"

	"github.com/abhisek/shibl/internal/lesson"
)

// DefaultCooldown is the minimum gap between two reaction-driven moods.
const DefaultCooldown = 1400 * time.Millisecond

// Clock returns the current time.
type Clock func() time.Time

// Machine holds the companion mood and the time of the last applied
// reaction event. It is not safe for concurrent use.
type Machine struct {
	cooldown       time.Duration
	now            Clock
	state          State
	lastReactionAt time.Time // zero until a reaction is applied
}

// NewMachine creates a machine in the idle state. A non-positive cooldown
// selects DefaultCooldown; a nil clock uses time.Now.
func NewMachine(cooldown time.Duration, clock Clock) *Machine {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	if clock == nil {
		clock = time.Now
	}
	return &Machine{cooldown: cooldown, now: clock, state: StateIdle}
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Mood returns the mood for the current state.
func (m *Machine) Mood() Mood {
	return MoodFor(m.state)
}

// HandleEvent applies ev and returns the resulting state.
//
// A reaction event arriving less than the cooldown after the last applied
// reaction moves the machine to cooldown instead, and does not refresh the
// reaction timestamp. Non-reaction events always apply.
func (m *Machine) HandleEvent(ev lesson.Event) State {
	now := m.now()
	reaction := ev.Type.IsReaction()

	if reaction && m.throttled(now) {
		m.state = StateCooldown
		return m.state
	}

	m.state = transition(ev.Type)
	if reaction {
		m.lastReactionAt = now
	}
	return m.state
}

// Reset returns to idle and forgets the last reaction, even mid-cooldown.
func (m *Machine) Reset() State {
	m.state = StateIdle
	m.lastReactionAt = time.Time{}
	return m.state
}

func (m *Machine) throttled(now time.Time) bool {
	if m.lastReactionAt.IsZero() {
		return false
	}
	return now.Sub(m.lastReactionAt) < m.cooldown
}

func transition(t lesson.EventType) State {
	switch t {
	case lesson.EventLessonStarted:
		return StateIntro
	case lesson.EventAnswerSubmitted, lesson.EventThinking:
		return StateThinking
	case lesson.EventAnswerCorrect:
		return StateHappy
	case lesson.EventLevelCompleted:
		return StateCelebrate
	case lesson.EventAnswerWrong:
		return StateSad
	default:
		return StateIdle
	}
}
