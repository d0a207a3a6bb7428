package weapons

import (
	"time"

	"nightfall/internal/enemy"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

const chainVisible = 200 * time.Millisecond

// Hop is one resolved jump of a chain.
type Hop struct {
	Target registry.ID
	Pos    mathutil.Vec2
	Damage float64
}

// Chain is the drawable record of one chain activation. Damage is applied
// when the chain is resolved; the effect only lingers for drawing.
type Chain struct {
	effectBase
	Origin  mathutil.Vec2
	Hops    []Hop
	Expires time.Duration
}

func (c *Chain) Update(w World) bool {
	return w.Now() >= c.Expires
}

// Points returns the origin followed by every hop position.
func (c *Chain) Points() []mathutil.Vec2 {
	pts := make([]mathutil.Vec2, 0, len(c.Hops)+1)
	pts = append(pts, c.Origin)
	for _, h := range c.Hops {
		pts = append(pts, h.Pos)
	}
	return pts
}

func fireChain(weapon *Weapon, w World) bool {
	s := weapon.stats
	jumps := s.MaxJumps + weapon.ProjectileCount - 1
	hops := ResolveChain(w, w.PlayerPos(), weapon.Range, s.JumpRange, jumps, weapon.Damage, s.DecayRatio)
	if len(hops) == 0 {
		return false
	}
	life := s.Lifetime.Duration()
	if life <= 0 {
		life = chainVisible
	}
	w.AddEffect(&Chain{
		effectBase: newBase(w, ChainLightning, w.PlayerPos(), 0),
		Origin:     w.PlayerPos(),
		Hops:       hops,
		Expires:    w.Now() + life,
	})
	return true
}

// ResolveChain hits up to maxJumps enemies. The first is the nearest within
// firstRange of origin; each later one is the nearest not-yet-hit enemy
// within jumpRange of the previous target. Damage is multiplied by decay
// after every hop. The loop stops early when no eligible enemy remains.
func ResolveChain(w World, origin mathutil.Vec2, firstRange, jumpRange float64, maxJumps int, damage, decay float64) []Hop {
	visited := make(map[registry.ID]bool, maxJumps)
	skip := func(e *enemy.Enemy) bool { return visited[e.ID] }

	var hops []Hop
	from, reach := origin, firstRange
	for jump := 0; jump < maxJumps; jump++ {
		next, ok := w.NearestEnemy(from, reach, skip)
		if !ok {
			break
		}
		visited[next.ID] = true
		pos := next.Position()
		w.Hit(next, damage)
		hops = append(hops, Hop{Target: next.ID, Pos: pos, Damage: damage})
		from, reach = pos, jumpRange
		damage *= decay
	}
	return hops
}
