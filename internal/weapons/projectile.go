package weapons

import (
	"time"

	"nightfall/internal/collision"
	"nightfall/internal/enemy"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

const splashFactor = 0.5

// Projectile flies straight and is removed on its first hit or once it has
// travelled past its range.
type Projectile struct {
	effectBase
	Vel       mathutil.Vec2
	Damage    float64
	Range     float64
	Traveled  float64
	Explosion float64
}

func newProjectile(w World, kind Type, origin mathutil.Vec2, angle float64, weapon *Weapon) *Projectile {
	s := weapon.stats
	return &Projectile{
		effectBase: newBase(w, kind, origin, s.Radius),
		Vel:        mathutil.FromAngle(angle, s.Speed),
		Damage:     weapon.Damage,
		Range:      weapon.Range,
		Explosion:  weapon.ExplosionRadius,
	}
}

func (p *Projectile) Update(w World) bool {
	p.pos = p.pos.Add(p.Vel)
	p.Traveled += p.Vel.Len()
	if p.Traveled > p.Range || !w.Bounds().Contains(p.pos) {
		return true
	}
	target, ok := firstOverlap(w, p.pos, p.size)
	if !ok {
		return false
	}
	w.Hit(target, p.Damage)
	if p.Explosion > 0 {
		p.explode(w, target)
	}
	return true
}

// explode splashes every other enemy whose center is inside the blast.
func (p *Projectile) explode(w World, primary *enemy.Enemy) {
	for _, e := range w.EnemiesWithin(p.pos, p.Explosion) {
		if e == primary || e.Dead() || !collision.Within(p.pos, p.Explosion, e) {
			continue
		}
		w.Hit(e, p.Damage*splashFactor)
	}
}

// Homing steers toward its target at a fixed turn rate and re-acquires the
// nearest enemy when the target dies.
type Homing struct {
	effectBase
	Vel      mathutil.Vec2
	Speed    float64
	TurnRate float64
	Target   registry.ID
	Damage   float64
	Seek     float64
	Expires  time.Duration
}

func newHoming(w World, origin mathutil.Vec2, angle float64, target registry.ID, weapon *Weapon) *Homing {
	s := weapon.stats
	return &Homing{
		effectBase: newBase(w, HomingMissile, origin, s.Radius),
		Vel:        mathutil.FromAngle(angle, s.Speed),
		Speed:      s.Speed,
		TurnRate:   s.TurnRate,
		Target:     target,
		Damage:     weapon.Damage,
		Seek:       weapon.Range * 2,
		Expires:    w.Now() + s.Lifetime.Duration(),
	}
}

func (h *Homing) Update(w World) bool {
	if w.Now() >= h.Expires {
		return true
	}
	target, ok := w.Enemy(h.Target)
	if !ok {
		target, ok = w.NearestEnemy(h.pos, h.Seek, nil)
		if ok {
			h.Target = target.ID
		}
	}
	if ok {
		desired := target.Position().Sub(h.pos).Normalize().Scale(h.Speed)
		blended := h.Vel.Scale(1 - h.TurnRate).Add(desired.Scale(h.TurnRate))
		if blended.LenSq() > 0 {
			h.Vel = blended.Normalize().Scale(h.Speed)
		}
	}
	h.pos = h.pos.Add(h.Vel)
	if !w.Bounds().Contains(h.pos) {
		return true
	}
	if hit, ok := firstOverlap(w, h.pos, h.size); ok {
		w.Hit(hit, h.Damage)
		return true
	}
	return false
}
