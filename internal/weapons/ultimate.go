package weapons

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"nightfall/internal/collision"
	"nightfall/internal/config"
	"nightfall/internal/mathutil"
)

type UltimateType string

const (
	MeteorStorm  UltimateType = "meteor_storm"
	TimeFreeze   UltimateType = "time_freeze"
	DivineShield UltimateType = "divine_shield"
)

// Ultimate is the player's single ultimate slot. Completion is driven by
// scheduled events, never by the slot itself.
type Ultimate struct {
	Type        UltimateType
	Active      bool
	ActiveUntil time.Duration
	readyAt     time.Duration
	cfg         config.UltimateConfig
}

func NewUltimate(cfg config.UltimateConfig) (*Ultimate, error) {
	t := UltimateType(cfg.Type)
	switch t {
	case MeteorStorm, TimeFreeze, DivineShield:
	default:
		return nil, fmt.Errorf("unknown ultimate %q", cfg.Type)
	}
	return &Ultimate{Type: t, cfg: cfg}, nil
}

// Cooldown is the full recharge time, counted from activation.
func (u *Ultimate) Cooldown() time.Duration {
	switch u.Type {
	case MeteorStorm:
		return u.cfg.MeteorStorm.Cooldown.Duration()
	case TimeFreeze:
		return u.cfg.TimeFreeze.Cooldown.Duration()
	default:
		return u.cfg.DivineShield.Cooldown.Duration()
	}
}

// ActiveFor is how long the ultimate stays active once started.
func (u *Ultimate) ActiveFor() time.Duration {
	switch u.Type {
	case MeteorStorm:
		m := u.cfg.MeteorStorm
		return time.Duration(m.Count) * m.Interval.Duration()
	case TimeFreeze:
		return u.cfg.TimeFreeze.Duration.Duration()
	default:
		return u.cfg.DivineShield.Duration.Duration()
	}
}

func (u *Ultimate) Ready(now time.Duration) bool {
	return !u.Active && now >= u.readyAt
}

func (u *Ultimate) CooldownRemaining(now time.Duration) time.Duration {
	return mathutil.ClampDuration(u.readyAt - now)
}

// Start activates the slot and returns when it ends.
func (u *Ultimate) Start(now time.Duration) time.Duration {
	u.Active = true
	u.readyAt = now + u.Cooldown()
	u.ActiveUntil = now + u.ActiveFor()
	return u.ActiveUntil
}

// Finish ends an active ultimate.
func (u *Ultimate) Finish() {
	u.Active = false
}

// Meteor is one planned impact.
type Meteor struct {
	At  time.Duration
	Pos mathutil.Vec2
}

// MeteorPlan spreads Count impacts over the storm around center.
func (u *Ultimate) MeteorPlan(now time.Duration, rng *rand.Rand, center mathutil.Vec2, spread float64) []Meteor {
	m := u.cfg.MeteorStorm
	plan := make([]Meteor, 0, m.Count)
	for i := 0; i < m.Count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		dist := math.Sqrt(rng.Float64()) * spread
		plan = append(plan, Meteor{
			At:  now + time.Duration(i+1)*m.Interval.Duration(),
			Pos: center.Add(mathutil.FromAngle(angle, dist)),
		})
	}
	return plan
}

// MeteorDamage and MeteorRadius are the per-impact values.
func (u *Ultimate) MeteorDamage() float64 { return u.cfg.MeteorStorm.Damage }
func (u *Ultimate) MeteorRadius() float64 { return u.cfg.MeteorStorm.Radius }

// Impact hits every enemy whose center lies inside radius and returns how many were hit.
func Impact(w World, pos mathutil.Vec2, radius, damage float64) int {
	n := 0
	for _, e := range w.EnemiesWithin(pos, radius) {
		if e.Dead() || !collision.Within(pos, radius, e) {
			continue
		}
		w.Hit(e, damage)
		n++
	}
	return n
}
