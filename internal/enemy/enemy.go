// Package enemy implements the enemy variants, their status effects and the
// two bosses.
package enemy

import (
	"math/rand"
	"time"

	"nightfall/internal/config"
	"nightfall/internal/difficulty"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

type Kind string

const (
	KindStandard   Kind = "standard"
	KindCharger    Kind = "charger"
	KindSwarm      Kind = "swarm"
	KindSplitter   Kind = "splitter"
	KindRanged     Kind = "ranged"
	KindTank       Kind = "tank"
	KindTeleporter Kind = "teleporter"
	KindHealer     Kind = "healer"
	KindColossus   Kind = "colossus"
	KindVoidLord   Kind = "void_lord"
)

// IsBoss reports whether k names one of the bosses.
func (k Kind) IsBoss() bool {
	return k == KindColossus || k == KindVoidLord
}

// World is the simulation surface enemies act on.
type World interface {
	Now() time.Duration
	Rand() *rand.Rand
	PlayerPos() mathutil.Vec2
	PlayerRadius() float64
	Bounds() mathutil.Rect
	DamagePlayer(amount float64)
	KnockbackPlayer(from mathutil.Vec2, distance float64)
	SpawnEnemy(kind Kind, pos mathutil.Vec2, tier difficulty.Tier) (*Enemy, bool)
	EnemyAlive(id registry.ID) bool
	EnemiesWithin(center mathutil.Vec2, radius float64) []*Enemy
	AddHazard(h *Hazard)
	BossPhaseChanged(e *Enemy, from, to int)
}

type subState int

const (
	subIdle subState = iota
	subCharge
	subRest
	subPrepare
	subAttack
)

// Enemy is one live enemy. Stats derived from the difficulty tier are set
// at construction and never re-sampled.
type Enemy struct {
	registry.Base
	Kind       Kind
	Pos        mathutil.Vec2
	Size       float64
	HP         float64
	MaxHP      float64
	Speed      float64
	Damage     float64
	XP         int
	Palette    [3]int
	Tier       difficulty.Tier
	Generation int
	ArmorFrac  float64
	Shields    []float64

	// Status effects
	slowFactor float64
	slowUntil  time.Duration
	stunUntil  time.Duration

	// AI state
	state       subState
	stateAt     time.Duration
	heading     mathutil.Vec2
	wobble      float64
	nextShot    time.Duration
	nextHeal    time.Duration
	nextContact time.Duration

	Boss *Boss

	cfg *config.EnemiesConfig
}

func (e *Enemy) Position() mathutil.Vec2 { return e.Pos }
func (e *Enemy) Radius() float64         { return e.Size }
func (e *Enemy) Armor() float64          { return e.ArmorFrac }
func (e *Enemy) Health() float64         { return e.HP }

func (e *Enemy) HPFraction() float64 {
	if e.MaxHP <= 0 {
		return 0
	}
	return e.HP / e.MaxHP
}

// DrawPosition is where a renderer should draw the enemy. It differs from
// Pos only mid teleport strike.
func (e *Enemy) DrawPosition() mathutil.Vec2 {
	if e.Boss != nil {
		return e.Boss.drawPosition(e)
	}
	return e.Pos
}

// TakeDamage consumes exactly amount: the first shield with value left
// absorbs all of it (excess is lost), otherwise hp drops. Hp is not clamped.
func (e *Enemy) TakeDamage(amount float64) {
	for i := range e.Shields {
		if e.Shields[i] > 0 {
			e.Shields[i] -= amount
			if e.Shields[i] < 0 {
				e.Shields[i] = 0
			}
			return
		}
	}
	e.HP -= amount
}

// ShieldTotal sums the remaining shield layers.
func (e *Enemy) ShieldTotal() float64 {
	total := 0.0
	for _, s := range e.Shields {
		total += s
	}
	return total
}

// ActiveShield returns the index of the layer currently absorbing, or -1.
func (e *Enemy) ActiveShield() int {
	for i, s := range e.Shields {
		if s > 0 {
			return i
		}
	}
	return -1
}

// Heal restores hp up to MaxHP.
func (e *Enemy) Heal(amount float64) {
	if amount <= 0 || e.Dead() {
		return
	}
	e.HP = mathutil.Clamp(e.HP+amount, e.HP, e.MaxHP)
}

// ApplySlow multiplies speed by factor until the given time. A stronger or
// longer slow replaces a weaker one.
func (e *Enemy) ApplySlow(factor float64, until time.Duration) {
	factor = mathutil.Clamp01(factor)
	if e.slowUntil == 0 || factor < e.slowFactor {
		e.slowFactor = factor
	}
	if until > e.slowUntil {
		e.slowUntil = until
	}
}

// ApplyStun freezes movement and attacks until the given time. Bosses ignore stuns.
func (e *Enemy) ApplyStun(until time.Duration) {
	if e.Kind.IsBoss() {
		return
	}
	if until > e.stunUntil {
		e.stunUntil = until
	}
}

func (e *Enemy) Slowed() bool  { return e.slowUntil > 0 }
func (e *Enemy) Stunned() bool { return e.stunUntil > 0 }

// expireStatus reverts status effects whose expiry has passed.
func (e *Enemy) expireStatus(now time.Duration) {
	if e.slowUntil > 0 && now >= e.slowUntil {
		e.slowUntil = 0
		e.slowFactor = 1
	}
	if e.stunUntil > 0 && now >= e.stunUntil {
		e.stunUntil = 0
	}
}

// EffectiveSpeed is Speed with any active slow applied.
func (e *Enemy) EffectiveSpeed() float64 {
	if e.slowUntil > 0 {
		return e.Speed * e.slowFactor
	}
	return e.Speed
}

func (e *Enemy) enter(s subState, now time.Duration) {
	e.state = s
	e.stateAt = now
}

func (e *Enemy) inStateFor(now time.Duration) time.Duration {
	return now - e.stateAt
}

// keepInside clamps the enemy to the arena after it moves.
func (e *Enemy) keepInside(w World) {
	e.Pos = w.Bounds().ClampPoint(e.Pos)
}

// moveToward steps toward target at speed without overshooting.
func (e *Enemy) moveToward(target mathutil.Vec2, speed float64) {
	delta := target.Sub(e.Pos)
	dist := delta.Len()
	if dist <= speed {
		e.Pos = target
		return
	}
	e.Pos = e.Pos.Add(delta.Scale(speed / dist))
}
