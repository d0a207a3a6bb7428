package game

import (
	"time"

	"nightfall/internal/enemy"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
	"nightfall/internal/weapons"
)

// EventType names a discrete simulation event.
type EventType string

const (
	EventLevelUp         EventType = "level_up"
	EventEnemyDeath      EventType = "enemy_death"
	EventBossSpawned     EventType = "boss_spawned"
	EventBossPhaseChange EventType = "boss_phase_change"
	EventUltimateEnded   EventType = "ultimate_ended"
	EventGameOver        EventType = "game_over"
)

// Event is delivered to listeners after the tick that produced it.
type Event struct {
	Type EventType
	At   time.Duration
	Data any
}

// Event payloads.
type (
	LevelUpData struct {
		Level   int
		Choices []Choice
	}
	EnemyDeathData struct {
		ID      registry.ID
		Kind    enemy.Kind
		Pos     mathutil.Vec2
		Palette [3]int
		Boss    bool
	}
	BossSpawnedData struct {
		ID   registry.ID
		Kind enemy.Kind
	}
	BossPhaseChangeData struct {
		ID       registry.ID
		Kind     enemy.Kind
		From, To int
	}
	UltimateEndedData struct {
		Type weapons.UltimateType
	}
	GameOverData struct {
		Elapsed time.Duration
		Level   int
		Kills   int
	}
)

// Listener receives dispatched events. Listeners must not call back into
// the simulation's mutating methods.
type Listener interface {
	OnEvent(event Event)
}

// ListenerFunc adapts a plain function.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }

// Subscription identifies one registration for Unsubscribe.
type Subscription uint64

type registration struct {
	token    Subscription
	listener Listener
}

// Dispatcher fans events out to subscribers by type.
type Dispatcher struct {
	listeners map[EventType][]registration
	next      Subscription
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[EventType][]registration)}
}

// Subscribe registers listener and returns the token that removes it.
func (d *Dispatcher) Subscribe(eventType EventType, listener Listener) Subscription {
	d.next++
	d.listeners[eventType] = append(d.listeners[eventType], registration{token: d.next, listener: listener})
	return d.next
}

// Unsubscribe removes the registration sub. Unknown tokens are ignored.
func (d *Dispatcher) Unsubscribe(eventType EventType, sub Subscription) {
	regs := d.listeners[eventType]
	for i, r := range regs {
		if r.token == sub {
			d.listeners[eventType] = append(regs[:i:i], regs[i+1:]...)
			return
		}
	}
}

func (d *Dispatcher) Dispatch(event Event) {
	for _, r := range d.listeners[event.Type] {
		r.listener.OnEvent(event)
	}
}
