package weapons

import (
	"time"

	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

const (
	meleeReach   = 6
	followRadius = 60
)

// Companion is a summoned helper with its own micro-AI. Wolves seek and
// bite; clones shadow the player and shoot bolts.
type Companion struct {
	effectBase
	weapon     *Weapon
	Target     registry.ID
	Expires    time.Duration
	nextAttack time.Duration
	offset     mathutil.Vec2
}

func newCompanion(w World, weapon *Weapon, pos mathutil.Vec2) *Companion {
	return &Companion{
		effectBase: newBase(w, weapon.Type, pos, weapon.stats.Radius),
		weapon:     weapon,
		Expires:    w.Now() + weapon.stats.Lifetime.Duration(),
		offset:     pos.Sub(w.PlayerPos()),
	}
}

func (c *Companion) Update(w World) bool {
	now := w.Now()
	if now >= c.Expires {
		c.weapon.live--
		return true
	}
	if c.kind == ShadowClone {
		c.updateClone(w, now)
	} else {
		c.updateWolf(w, now)
	}
	return false
}

func (c *Companion) updateWolf(w World, now time.Duration) {
	speed := c.weapon.stats.Speed
	target, ok := w.Enemy(c.Target)
	if !ok {
		target, ok = w.NearestEnemy(c.pos, c.weapon.Range, nil)
		if ok {
			c.Target = target.ID
		}
	}
	if !ok {
		if mathutil.Dist(c.pos, w.PlayerPos()) > followRadius {
			c.pos = c.pos.Add(w.PlayerPos().Sub(c.pos).Normalize().Scale(speed))
		}
		return
	}
	reach := c.size + target.Radius() + meleeReach
	if mathutil.Dist(c.pos, target.Position()) > reach {
		c.pos = c.pos.Add(target.Position().Sub(c.pos).Normalize().Scale(speed))
		return
	}
	if now >= c.nextAttack {
		c.nextAttack = now + c.weapon.stats.AttackCooldown.Duration()
		w.Hit(target, c.weapon.Damage)
	}
}

func (c *Companion) updateClone(w World, now time.Duration) {
	c.pos = w.PlayerPos().Add(c.offset)
	if now < c.nextAttack {
		return
	}
	target, ok := w.NearestEnemy(c.pos, c.weapon.Range, nil)
	if !ok {
		return
	}
	c.nextAttack = now + c.weapon.stats.AttackCooldown.Duration()
	angle := target.Position().Sub(c.pos).Angle()
	w.AddEffect(newProjectile(w, MagicBolt, c.pos, angle, c.weapon))
}
