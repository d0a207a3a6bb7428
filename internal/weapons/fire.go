package weapons

import (
	"math"

	"nightfall/internal/mathutil"
)

const spreadStep = 0.12 // radians between parallel shots

// Fire activates w's weapon if its cooldown allows and reports whether it
// fired. Weapons that need a target hold their cooldown while none is in range.
func Fire(weapon *Weapon, w World) bool {
	now := w.Now()
	if !weapon.Ready(now) {
		return false
	}
	var fired bool
	switch weapon.Type.Category() {
	case CategoryAimed:
		fired = fireAimed(weapon, w)
	case CategoryHoming:
		fired = fireHoming(weapon, w)
	case CategoryChain:
		fired = fireChain(weapon, w)
	case CategoryArea:
		fired = fireArea(weapon, w)
	case CategoryBurst:
		fired = fireNova(weapon, w)
	case CategoryOrbit:
		fired = syncOrbs(weapon, w)
	case CategoryCompanion:
		fired = fireCompanion(weapon, w)
	case CategoryReturning:
		fired = fireBoomerang(weapon, w)
	}
	if fired {
		weapon.markFired(now)
	}
	return fired
}

// spreadAngles fans count directions around base.
func spreadAngles(base float64, count int) []float64 {
	out := make([]float64, count)
	for i := range out {
		out[i] = base + (float64(i)-float64(count-1)/2)*spreadStep
	}
	return out
}

func fireAimed(weapon *Weapon, w World) bool {
	origin := w.PlayerPos()
	target, ok := w.NearestEnemy(origin, weapon.Range, nil)
	if !ok {
		return false
	}
	base := target.Position().Sub(origin).Angle()
	for _, a := range spreadAngles(base, weapon.ProjectileCount) {
		w.AddEffect(newProjectile(w, weapon.Type, origin, a, weapon))
	}
	return true
}

func fireHoming(weapon *Weapon, w World) bool {
	origin := w.PlayerPos()
	target, ok := w.NearestEnemy(origin, weapon.Range, nil)
	if !ok {
		return false
	}
	base := target.Position().Sub(origin).Angle()
	// launch wide so the turn is visible
	for i, a := range spreadAngles(base, weapon.ProjectileCount) {
		swing := (float64(i) - float64(weapon.ProjectileCount-1)/2) * 0.5
		w.AddEffect(newHoming(w, origin, a+swing, target.ID, weapon))
	}
	return true
}

func fireArea(weapon *Weapon, w World) bool {
	origin := w.PlayerPos()
	target, ok := w.NearestEnemy(origin, weapon.Range, nil)
	if !ok {
		return false
	}
	for i := 0; i < weapon.ProjectileCount; i++ {
		pos := target.Position()
		if i > 0 {
			pos = pos.Add(mathutil.FromAngle(w.Rand().Float64()*2*math.Pi, weapon.AreaRadius))
		}
		w.AddEffect(newArea(w, weapon, pos))
	}
	return true
}

func fireNova(weapon *Weapon, w World) bool {
	if _, ok := w.NearestEnemy(w.PlayerPos(), weapon.Range, nil); !ok {
		return false
	}
	w.AddEffect(newNova(w, weapon, w.PlayerPos()))
	return true
}

func fireCompanion(weapon *Weapon, w World) bool {
	if weapon.live >= weapon.ProjectileCount {
		return false
	}
	offset := mathutil.FromAngle(w.Rand().Float64()*2*math.Pi, 40)
	w.AddEffect(newCompanion(w, weapon, w.PlayerPos().Add(offset)))
	weapon.live++
	return true
}

func fireBoomerang(weapon *Weapon, w World) bool {
	origin := w.PlayerPos()
	target, ok := w.NearestEnemy(origin, weapon.Range, nil)
	if !ok {
		return false
	}
	base := target.Position().Sub(origin).Angle()
	for _, a := range spreadAngles(base, weapon.ProjectileCount) {
		w.AddEffect(newBoomerang(w, weapon, origin, a))
	}
	return true
}
