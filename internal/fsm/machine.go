// Package fsm is the timed, hp-gated state machine shared by the bosses.
package fsm

import (
	"math/rand"
	"time"
)

// State names a machine state.
type State string

// Idle is the decide-next state every timed state expires into.
const Idle State = "idle"

// Behavior is an attack state the idle state may choose.
type Behavior struct {
	State    State
	Duration time.Duration
	Weight   float64
	MinPhase int
}

// Machine tracks the current state and the boss phase.
type Machine struct {
	// Configuration
	idle       time.Duration
	behaviors  []Behavior
	thresholds []float64 // hp fractions, descending

	// Runtime state
	state     State
	enteredAt time.Duration
	duration  time.Duration
	phase     int
}

// NewMachine starts in Idle at phase 1.
func NewMachine(idle time.Duration, behaviors []Behavior, thresholds []float64, now time.Duration) *Machine {
	m := &Machine{
		idle:       idle,
		behaviors:  behaviors,
		thresholds: thresholds,
		phase:      1,
	}
	m.Enter(Idle, now)
	return m
}

func (m *Machine) State() State             { return m.state }
func (m *Machine) EnteredAt() time.Duration { return m.enteredAt }
func (m *Machine) Duration() time.Duration  { return m.duration }
func (m *Machine) Phase() int               { return m.phase }
func (m *Machine) MaxPhase() int            { return len(m.thresholds) + 1 }

// TimeInState is how long the current state has run.
func (m *Machine) TimeInState(now time.Duration) time.Duration {
	return now - m.enteredAt
}

// Progress is TimeInState / Duration clamped to [0, 1].
func (m *Machine) Progress(now time.Duration) float64 {
	if m.duration <= 0 {
		return 1
	}
	p := float64(m.TimeInState(now)) / float64(m.duration)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// Expired reports whether the current state's duration has elapsed.
func (m *Machine) Expired(now time.Duration) bool {
	return m.TimeInState(now) >= m.duration
}

// Enter switches state using the configured duration for s.
func (m *Machine) Enter(s State, now time.Duration) {
	d := m.idle
	if s != Idle {
		if b, ok := m.behavior(s); ok {
			d = b.Duration
		}
	}
	m.EnterFor(s, d, now)
}

// EnterFor switches state with an explicit duration.
func (m *Machine) EnterFor(s State, d time.Duration, now time.Duration) {
	m.state = s
	m.enteredAt = now
	m.duration = d
}

// Legal returns the behaviors unlocked at the current phase.
func (m *Machine) Legal() []Behavior {
	out := make([]Behavior, 0, len(m.behaviors))
	for _, b := range m.behaviors {
		if b.MinPhase <= m.phase && b.Weight > 0 {
			out = append(out, b)
		}
	}
	return out
}

// ChooseNext rolls a legal behavior by weight. It returns Idle when none is legal.
func (m *Machine) ChooseNext(rng *rand.Rand) State {
	legal := m.Legal()
	total := 0.0
	for _, b := range legal {
		total += b.Weight
	}
	if total <= 0 {
		return Idle
	}
	roll := rng.Float64() * total
	for _, b := range legal {
		roll -= b.Weight
		if roll < 0 {
			return b.State
		}
	}
	return legal[len(legal)-1].State
}

// Step advances the timed transitions: an expired attack state returns to
// Idle and an expired Idle chooses the next attack. It reports the state
// entered, if any.
func (m *Machine) Step(now time.Duration, rng *rand.Rand) (State, bool) {
	if !m.Expired(now) {
		return m.state, false
	}
	if m.state != Idle {
		m.Enter(Idle, now)
		return Idle, true
	}
	next := m.ChooseNext(rng)
	m.Enter(next, now)
	return next, true
}

// UpdatePhase raises the phase to match hpFraction. The phase never
// decreases, so restoring hp cannot undo a transition.
func (m *Machine) UpdatePhase(hpFraction float64) (from, to int, changed bool) {
	target := 1
	for _, t := range m.thresholds {
		if hpFraction <= t {
			target++
		}
	}
	if target <= m.phase {
		return m.phase, m.phase, false
	}
	from = m.phase
	m.phase = target
	return from, target, true
}

func (m *Machine) behavior(s State) (Behavior, bool) {
	for _, b := range m.behaviors {
		if b.State == s {
			return b, true
		}
	}
	return Behavior{}, false
}
