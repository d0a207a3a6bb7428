package enemy

import (
	"math"
	"time"

	"nightfall/internal/mathutil"
)

// Update runs one tick of the enemy's AI followed by contact with the player.
func (e *Enemy) Update(w World) {
	if e.Dead() {
		return
	}
	now := w.Now()
	e.expireStatus(now)

	if e.Boss != nil {
		e.Boss.update(e, w)
		e.keepInside(w)
		e.bossContact(w)
		return
	}

	if !e.Stunned() {
		switch e.Kind {
		case KindCharger:
			e.updateCharger(w)
		case KindSwarm:
			e.updateSwarm(w)
		case KindRanged:
			e.updateRanged(w)
		case KindTeleporter:
			e.updateTeleporter(w)
		case KindHealer:
			e.updateHealer(w)
		default:
			e.moveToward(w.PlayerPos(), e.EffectiveSpeed())
		}
	}
	e.keepInside(w)
	e.contact(w)
}

// UpdateFrozen is the part of a tick that keeps running while time is
// frozen: boss phase thresholds.
func (e *Enemy) UpdateFrozen(w World) {
	if e.Dead() || e.Boss == nil {
		return
	}
	e.Boss.checkPhase(e, w)
}

// contact deals damage on body overlap, at most once per contact interval.
func (e *Enemy) contact(w World) {
	now := w.Now()
	if now < e.nextContact || !e.touchingPlayer(e.Pos, w) {
		return
	}
	e.nextContact = now + e.cfg.ContactInterval.Duration()
	w.DamagePlayer(e.Damage)
	if e.Kind == KindTank {
		w.KnockbackPlayer(e.Pos, e.cfg.Tank.Knockback)
	}
}

func (e *Enemy) touchingPlayer(at mathutil.Vec2, w World) bool {
	r := e.Size + w.PlayerRadius()
	return mathutil.DistSq(at, w.PlayerPos()) < r*r
}

// updateCharger: approach, then lock a heading and dash, then rest.
func (e *Enemy) updateCharger(w World) {
	now := w.Now()
	c := e.cfg.Charger
	switch e.state {
	case subIdle:
		e.moveToward(w.PlayerPos(), e.EffectiveSpeed())
		if e.inStateFor(now) >= c.Idle.Duration() && mathutil.Dist(e.Pos, w.PlayerPos()) <= c.TriggerRange {
			e.heading = w.PlayerPos().Sub(e.Pos).Normalize()
			e.enter(subCharge, now)
		}
	case subCharge:
		e.Pos = e.Pos.Add(e.heading.Scale(e.EffectiveSpeed() * c.ChargeSpeedMult))
		if e.inStateFor(now) >= c.Charge.Duration() {
			e.enter(subRest, now)
		}
	case subRest:
		if e.inStateFor(now) >= c.Rest.Duration() {
			e.enter(subIdle, now)
		}
	}
}

// updateSwarm zig-zags across the line to the player.
func (e *Enemy) updateSwarm(w World) {
	s := e.cfg.Swarm
	dir := w.PlayerPos().Sub(e.Pos).Normalize()
	period := float64(s.ZigzagPeriod.Duration())
	if period <= 0 {
		period = float64(600 * time.Millisecond)
	}
	phase := 2*math.Pi*float64(w.Now())/period + e.wobble
	step := dir.Scale(e.EffectiveSpeed()).Add(dir.Perp().Scale(math.Sin(phase) * s.ZigzagAmplitude))
	e.Pos = e.Pos.Add(step)
}

// updateRanged holds a preferred distance and fires on a cooldown.
func (e *Enemy) updateRanged(w World) {
	r := e.cfg.Ranged
	now := w.Now()
	toPlayer := w.PlayerPos().Sub(e.Pos)
	dist := toPlayer.Len()
	dir := toPlayer.Normalize()
	speed := e.EffectiveSpeed()
	switch {
	case dist > r.PreferredRange+30:
		e.Pos = e.Pos.Add(dir.Scale(speed))
	case dist < r.PreferredRange-30:
		e.Pos = e.Pos.Sub(dir.Scale(speed))
	default:
		e.Pos = e.Pos.Add(dir.Perp().Scale(speed * 0.5))
	}
	if now >= e.nextShot {
		e.nextShot = now + r.ShotCooldown.Duration()
		w.AddHazard(NewBolt(e.Pos, dir.Scale(r.ShotSpeed), e.cfg.ShotRadius, e.Damage, now+r.ShotLifetime.Duration()))
	}
}

// updateTeleporter: idle -> prepare -> teleport -> attack -> idle.
func (e *Enemy) updateTeleporter(w World) {
	t := e.cfg.Teleporter
	now := w.Now()
	switch e.state {
	case subIdle:
		e.moveToward(w.PlayerPos(), e.EffectiveSpeed())
		if e.inStateFor(now) >= t.Idle.Duration() {
			e.enter(subPrepare, now)
		}
	case subPrepare:
		if e.inStateFor(now) >= t.Prepare.Duration() {
			angle := w.Rand().Float64() * 2 * math.Pi
			e.Pos = w.PlayerPos().Add(mathutil.FromAngle(angle, t.Range))
			e.keepInside(w)
			e.enter(subAttack, now)
			e.fireSpread(w, t.BoltCount, t.BoltSpeed, 0.25)
		}
	case subAttack:
		if e.inStateFor(now) >= t.Attack.Duration() {
			e.enter(subIdle, now)
		}
	}
}

// fireSpread fires count bolts fanned around the direction to the player.
func (e *Enemy) fireSpread(w World, count int, speed, spread float64) {
	if count <= 0 {
		return
	}
	base := w.PlayerPos().Sub(e.Pos).Angle()
	life := w.Now() + e.cfg.Ranged.ShotLifetime.Duration()
	for i := 0; i < count; i++ {
		offset := (float64(i) - float64(count-1)/2) * spread
		vel := mathutil.FromAngle(base+offset, speed)
		w.AddHazard(NewBolt(e.Pos, vel, e.cfg.ShotRadius, e.Damage, life))
	}
}

// updateHealer follows the player at a distance and periodically heals
// nearby non-boss enemies.
func (e *Enemy) updateHealer(w World) {
	h := e.cfg.Healer
	now := w.Now()
	if mathutil.Dist(e.Pos, w.PlayerPos()) > h.Radius {
		e.moveToward(w.PlayerPos(), e.EffectiveSpeed())
	}
	if now < e.nextHeal {
		return
	}
	e.nextHeal = now + h.Interval.Duration()
	for _, other := range w.EnemiesWithin(e.Pos, h.Radius) {
		if other == e || other.Dead() || other.Kind.IsBoss() {
			continue
		}
		other.Heal(other.MaxHP * h.HealFraction)
	}
}

// OnDeath runs death-time behavior; the splitter divides into two weaker copies.
func (e *Enemy) OnDeath(w World) {
	if e.Kind != KindSplitter {
		return
	}
	s := e.cfg.Splitter
	if e.Generation >= s.MaxGeneration {
		return
	}
	side := w.PlayerPos().Sub(e.Pos).Normalize().Perp().Scale(e.Size)
	for _, offset := range []mathutil.Vec2{side, side.Scale(-1)} {
		child, ok := w.SpawnEnemy(KindSplitter, e.Pos.Add(offset), e.Tier)
		if !ok {
			continue
		}
		child.Generation = e.Generation + 1
		child.MaxHP = e.MaxHP * s.ChildHPFactor
		child.HP = child.MaxHP
		child.Size = e.Size * s.ChildSizeFactor
		child.XP = mathutil.IntMax(1, e.XP/2)
	}
}
