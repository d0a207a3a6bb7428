package enemy

import (
	"math"

	"nightfall/internal/config"
	"nightfall/internal/fsm"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

// Boss states. Idle is fsm.Idle.
const (
	StateSlam           fsm.State = "slam"
	StateCharge         fsm.State = "charge"
	StateSummon         fsm.State = "summon"
	StateShockwave      fsm.State = "shockwave"
	StateBarrage        fsm.State = "barrage"
	StateTeleportStrike fsm.State = "teleport_strike"
	StateVoidRift       fsm.State = "void_rift"
	StateNova           fsm.State = "nova"
)

// Boss is the state carried by colossus and void lord enemies.
type Boss struct {
	*fsm.Machine

	// Summons holds ids of minions this boss created. Entries may be stale
	// and are filtered before use.
	Summons []registry.ID

	common   *config.BossCommon
	colossus *config.ColossusConfig
	voidLord *config.VoidLordConfig

	// Per-state scratch, reset on entry.
	heading mathutil.Vec2
	acted   bool
	fired   int
	strike  teleportStrike
	orbit   float64
}

// teleportStrike interpolates the drawn position only. The enemy's Pos stays
// settled at from until the strike resolves.
type teleportStrike struct {
	active bool
	from   mathutil.Vec2
	to     mathutil.Vec2
	tick   int
	ticks  int
}

// DamageMultiplier grows with phase.
func (b *Boss) DamageMultiplier() float64 {
	return 1 + float64(b.Phase()-1)*b.common.PhaseDamageStep
}

// Teleporting reports whether a teleport strike is mid-flight.
func (b *Boss) Teleporting() bool { return b.strike.active }

func (b *Boss) drawPosition(e *Enemy) mathutil.Vec2 {
	if !b.strike.active || b.strike.ticks <= 0 {
		return e.Pos
	}
	return mathutil.Lerp(b.strike.from, b.strike.to, float64(b.strike.tick)/float64(b.strike.ticks))
}

func (b *Boss) checkPhase(e *Enemy, w World) {
	if from, to, changed := b.UpdatePhase(e.HPFraction()); changed {
		w.BossPhaseChanged(e, from, to)
	}
}

func (b *Boss) update(e *Enemy, w World) {
	now := w.Now()
	b.checkPhase(e, w)

	if b.State() == StateTeleportStrike && b.strike.active && b.Expired(now) {
		b.resolveStrike(e, w)
	}
	if state, entered := b.Step(now, w.Rand()); entered {
		b.onEnter(e, w, state)
	}

	if b.colossus != nil {
		b.updateColossus(e, w)
	} else {
		b.updateVoidLord(e, w)
	}
}

func (b *Boss) onEnter(e *Enemy, w World, state fsm.State) {
	b.acted = false
	b.fired = 0
	mult := b.DamageMultiplier()
	switch state {
	case StateCharge:
		b.heading = w.PlayerPos().Sub(e.Pos).Normalize()
	case StateSummon:
		b.summon(e, w)
	case StateShockwave:
		c := b.colossus
		w.AddHazard(NewRing(e.Pos, c.ShockwaveSpeed, c.ShockwaveMaxRadius, e.Damage*0.8*mult))
	case StateTeleportStrike:
		v := b.voidLord
		angle := w.Rand().Float64() * 2 * math.Pi
		dist := w.Rand().Float64() * v.TeleportStrikeRange
		b.strike = teleportStrike{
			active: true,
			from:   e.Pos,
			to:     w.Bounds().ClampPoint(w.PlayerPos().Add(mathutil.FromAngle(angle, dist))),
			ticks:  mathutil.IntMax(1, v.TeleportTicks),
		}
	case StateVoidRift:
		v := b.voidLord
		w.AddHazard(NewRift(w.PlayerPos(), v.RiftRadius, e.Damage*0.3*mult, v.RiftTick.Duration(), w.Now()+v.RiftLifetime.Duration()))
	}
}

func (b *Boss) updateColossus(e *Enemy, w World) {
	c := b.colossus
	now := w.Now()
	switch b.State() {
	case fsm.Idle:
		e.moveToward(w.PlayerPos(), e.EffectiveSpeed())
	case StateSlam:
		if !b.acted && b.Progress(now) >= 0.5 {
			b.acted = true
			if mathutil.Dist(e.Pos, w.PlayerPos()) <= c.SlamRadius+w.PlayerRadius() {
				w.DamagePlayer(e.Damage * c.SlamDamageMult * b.DamageMultiplier())
			}
		}
	case StateCharge:
		e.Pos = e.Pos.Add(b.heading.Scale(e.EffectiveSpeed() * c.ChargeSpeedMult))
	case StateBarrage:
		// two volleys, the second offset by half a step
		if b.fired == 0 {
			b.ring(e, w, c.BarrageCount, c.BarrageSpeed, 0)
			b.fired = 1
		} else if b.fired == 1 && b.Progress(now) >= 0.5 {
			b.ring(e, w, c.BarrageCount, c.BarrageSpeed, math.Pi/float64(mathutil.IntMax(1, c.BarrageCount)))
			b.fired = 2
		}
	}
}

func (b *Boss) updateVoidLord(e *Enemy, w World) {
	v := b.voidLord
	now := w.Now()
	switch b.State() {
	case fsm.Idle:
		b.orbit += e.EffectiveSpeed() / math.Max(v.OrbitDistance, 1)
		target := w.PlayerPos().Add(mathutil.FromAngle(b.orbit, v.OrbitDistance))
		e.moveToward(target, e.EffectiveSpeed()*1.5)
	case StateBarrage:
		// spiral: release shots evenly across the state's duration
		due := int(b.Progress(now) * float64(v.BarrageCount))
		base := w.PlayerPos().Sub(e.Pos).Angle()
		for b.fired < due {
			angle := base + float64(b.fired)*2.39996
			w.AddHazard(NewBolt(e.Pos, mathutil.FromAngle(angle, v.BarrageSpeed), e.cfg.ShotRadius*1.5,
				e.Damage*0.5*b.DamageMultiplier(), now+e.cfg.Ranged.ShotLifetime.Duration()))
			b.fired++
		}
	case StateTeleportStrike:
		if b.strike.active {
			b.strike.tick++
			if b.strike.tick >= b.strike.ticks {
				b.resolveStrike(e, w)
			}
		}
	case StateNova:
		if b.fired == 0 {
			b.ring(e, w, v.NovaCount, v.BarrageSpeed, 0)
			b.fired = 1
		} else if b.fired == 1 && b.Progress(now) >= 0.5 {
			b.ring(e, w, v.NovaCount, v.BarrageSpeed, math.Pi/float64(mathutil.IntMax(1, v.NovaCount)))
			b.fired = 2
		}
	}
}

// resolveStrike settles the boss at the destination and applies the one-shot area hit.
func (b *Boss) resolveStrike(e *Enemy, w World) {
	v := b.voidLord
	b.strike.active = false
	e.Pos = b.strike.to
	if mathutil.Dist(e.Pos, w.PlayerPos()) <= v.StrikeRadius+w.PlayerRadius() {
		w.DamagePlayer(e.Damage * v.StrikeDamageMult * b.DamageMultiplier())
	}
}

// ring fires count bolts evenly around the boss.
func (b *Boss) ring(e *Enemy, w World, count int, speed, offset float64) {
	if count <= 0 {
		return
	}
	now := w.Now()
	step := 2 * math.Pi / float64(count)
	for i := 0; i < count; i++ {
		vel := mathutil.FromAngle(offset+float64(i)*step, speed)
		w.AddHazard(NewBolt(e.Pos, vel, e.cfg.ShotRadius*1.5, e.Damage*0.5*b.DamageMultiplier(),
			now+e.cfg.Ranged.ShotLifetime.Duration()))
	}
}

// summon tops up minions. Stale ids are dropped first.
func (b *Boss) summon(e *Enemy, w World) {
	live := b.Summons[:0]
	for _, id := range b.Summons {
		if w.EnemyAlive(id) {
			live = append(live, id)
		}
	}
	b.Summons = live
	count := b.common.SummonCount
	if len(b.Summons)+count > 2*count {
		count = 2*count - len(b.Summons)
	}
	if count <= 0 {
		return
	}
	step := 2 * math.Pi / float64(count)
	for i := 0; i < count; i++ {
		pos := e.Pos.Add(mathutil.FromAngle(float64(i)*step, e.Size+30))
		if minion, ok := w.SpawnEnemy(Kind(b.common.SummonKind), pos, e.Tier); ok {
			b.Summons = append(b.Summons, minion.ID)
		}
	}
}

// LiveSummons counts tracked minions that are still alive.
func (b *Boss) LiveSummons(alive func(registry.ID) bool) int {
	n := 0
	for _, id := range b.Summons {
		if alive(id) {
			n++
		}
	}
	return n
}

// bossContact deals a per-tick fraction of Damage while the player overlaps
// the boss's settled position, whatever state the boss is in.
func (e *Enemy) bossContact(w World) {
	if !e.touchingPlayer(e.Pos, w) {
		return
	}
	w.DamagePlayer(e.Damage * e.Boss.common.ContactFraction * e.Boss.DamageMultiplier())
}
