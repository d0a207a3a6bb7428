package weapons

import (
	"time"

	"nightfall/internal/collision"
	"nightfall/internal/enemy"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

// Area is a persistent zone. Every TickEvery it damages whatever overlaps
// it; a black hole also pulls non-boss enemies toward its center every tick.
// Membership is re-evaluated each tick.
type Area struct {
	effectBase
	Damage    float64
	TickEvery time.Duration
	Pull      float64
	Expires   time.Duration
	nextTick  time.Duration
}

func newArea(w World, weapon *Weapon, pos mathutil.Vec2) *Area {
	s := weapon.stats
	return &Area{
		effectBase: newBase(w, weapon.Type, pos, weapon.AreaRadius),
		Damage:     weapon.Damage,
		TickEvery:  s.TickInterval.Duration(),
		Pull:       s.PullStrength,
		Expires:    w.Now() + s.Lifetime.Duration(),
		nextTick:   w.Now(),
	}
}

func (a *Area) Update(w World) bool {
	now := w.Now()
	if now >= a.Expires {
		return true
	}
	members := a.members(w)
	if a.Pull > 0 {
		for _, e := range members {
			if e.Kind.IsBoss() {
				continue
			}
			toCenter := a.pos.Sub(e.Pos)
			step := a.Pull
			if d := toCenter.Len(); d < step {
				step = d
			}
			e.Pos = e.Pos.Add(toCenter.Normalize().Scale(step))
		}
	}
	if now >= a.nextTick {
		a.nextTick = now + a.TickEvery
		for _, e := range members {
			w.Hit(e, a.Damage)
		}
	}
	return false
}

func (a *Area) members(w World) []*enemy.Enemy {
	var out []*enemy.Enemy
	for _, e := range w.EnemiesWithin(a.pos, a.size) {
		if !e.Dead() && collision.OverlapsAt(a.pos, a.size, e) {
			out = append(out, e)
		}
	}
	return out
}

// Nova expands from radius zero once. An enemy whose center falls inside
// the current radius is hit exactly once and receives the status effect.
type Nova struct {
	effectBase
	Growth    float64
	MaxRadius float64
	Damage    float64
	Status    time.Duration
	Slow      float64 // zero means stun
	hit       map[registry.ID]bool
}

func newNova(w World, weapon *Weapon, center mathutil.Vec2) *Nova {
	s := weapon.stats
	n := &Nova{
		effectBase: newBase(w, weapon.Type, center, 0),
		Growth:     s.Speed,
		MaxRadius:  weapon.Range,
		Damage:     weapon.Damage,
		Status:     s.StatusDuration.Duration(),
		hit:        make(map[registry.ID]bool),
	}
	if weapon.Type == FrostNova {
		n.Slow = s.SlowFactor
	}
	return n
}

func (n *Nova) Update(w World) bool {
	n.size += n.Growth
	if n.size > n.MaxRadius {
		n.size = n.MaxRadius
	}
	until := w.Now() + n.Status
	for _, e := range w.EnemiesWithin(n.pos, n.size) {
		if n.hit[e.ID] || e.Dead() || !collision.Within(n.pos, n.size, e) {
			continue
		}
		n.hit[e.ID] = true
		if res := w.Hit(e, n.Damage); res.Died {
			continue
		}
		if n.Slow > 0 {
			e.ApplySlow(n.Slow, until)
		} else {
			e.ApplyStun(until)
		}
	}
	return n.size >= n.MaxRadius
}
