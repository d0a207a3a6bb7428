package weapons

import (
	"math"
	"time"

	"nightfall/internal/collision"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

const playerCatchRadius = 16

// hitClock remembers when each enemy was last hit so a piercing effect can
// hit it again only after cooldown.
type hitClock struct {
	cooldown time.Duration
	last     map[registry.ID]time.Duration
}

func newHitClock(cooldown time.Duration) hitClock {
	return hitClock{cooldown: cooldown, last: make(map[registry.ID]time.Duration)}
}

func (c *hitClock) ready(id registry.ID, now time.Duration) bool {
	at, ok := c.last[id]
	return !ok || now-at >= c.cooldown
}

func (c *hitClock) record(id registry.ID, now time.Duration) {
	c.last[id] = now
	if len(c.last) > 64 {
		for k, at := range c.last {
			if now-at >= c.cooldown {
				delete(c.last, k)
			}
		}
	}
}

// Orb circles the player. Orbs are rebuilt when an upgrade changes the
// weapon's count or range; stale orbs remove themselves.
type Orb struct {
	effectBase
	weapon *Weapon
	gen    int
	index  int
	angle  float64
	clock  hitClock
}

// syncOrbs spawns one orb per projectile count when the weapon has none for
// its current generation.
func syncOrbs(weapon *Weapon, w World) bool {
	if weapon.orbGen == weapon.gen {
		return false
	}
	weapon.orbGen = weapon.gen
	for i := 0; i < weapon.ProjectileCount; i++ {
		o := &Orb{
			effectBase: newBase(w, ArcaneOrb, w.PlayerPos(), weapon.AreaRadius),
			weapon:     weapon,
			gen:        weapon.gen,
			index:      i,
			clock:      newHitClock(weapon.stats.HitCooldown.Duration()),
		}
		o.place(w.PlayerPos())
		w.AddEffect(o)
	}
	return true
}

func (o *Orb) place(center mathutil.Vec2) {
	n := o.weapon.ProjectileCount
	offset := 2 * math.Pi * float64(o.index) / float64(n)
	o.pos = center.Add(mathutil.FromAngle(o.angle+offset, o.weapon.Range))
}

func (o *Orb) Update(w World) bool {
	if o.gen != o.weapon.gen {
		return true
	}
	o.angle += o.weapon.stats.AngularSpeed
	o.place(w.PlayerPos())
	now := w.Now()
	for _, e := range w.EnemiesWithin(o.pos, o.size) {
		if e.Dead() || !collision.OverlapsAt(o.pos, o.size, e) || !o.clock.ready(e.ID, now) {
			continue
		}
		o.clock.record(e.ID, now)
		w.Hit(e, o.weapon.Damage)
	}
	return false
}

// BoomerangShot flies out to its range then returns to the player, piercing
// everything it crosses. It is removed when it reaches the player.
type BoomerangShot struct {
	effectBase
	Vel       mathutil.Vec2
	Speed     float64
	Range     float64
	Traveled  float64
	Returning bool
	Damage    float64
	clock     hitClock
}

func newBoomerang(w World, weapon *Weapon, origin mathutil.Vec2, angle float64) *BoomerangShot {
	s := weapon.stats
	return &BoomerangShot{
		effectBase: newBase(w, Boomerang, origin, s.Radius),
		Vel:        mathutil.FromAngle(angle, s.Speed),
		Speed:      s.Speed,
		Range:      weapon.Range,
		Damage:     weapon.Damage,
		clock:      newHitClock(s.HitCooldown.Duration()),
	}
}

func (b *BoomerangShot) Update(w World) bool {
	if !b.Returning {
		b.pos = b.pos.Add(b.Vel)
		b.Traveled += b.Speed
		if b.Traveled >= b.Range {
			b.Returning = true
		}
	} else {
		toPlayer := w.PlayerPos().Sub(b.pos)
		if toPlayer.Len() <= b.Speed+playerCatchRadius {
			return true
		}
		b.pos = b.pos.Add(toPlayer.Normalize().Scale(b.Speed * 1.2))
	}
	if !w.Bounds().Contains(b.pos) {
		return true
	}
	now := w.Now()
	for _, e := range w.EnemiesWithin(b.pos, b.size) {
		if e.Dead() || !collision.OverlapsAt(b.pos, b.size, e) || !b.clock.ready(e.ID, now) {
			continue
		}
		b.clock.record(e.ID, now)
		w.Hit(e, b.Damage)
	}
	return false
}
