// Package reward creates the drops left by dead enemies and rolls loot.
package reward

import (
	"math/rand"

	"nightfall/internal/config"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

type Kind string

const (
	KindXPOrb      Kind = "xp_orb"
	KindChest      Kind = "chest"
	KindMysteryBox Kind = "mystery_box"
)

// Box outcomes.
const (
	BoxHeal    = "heal"
	BoxXP      = "xp"
	BoxUpgrade = "upgrade"
)

// Drop is a collectible on the ground.
type Drop struct {
	registry.Base
	Kind  Kind
	Pos   mathutil.Vec2
	Value int
}

func (d *Drop) Position() mathutil.Vec2 { return d.Pos }

func (d *Drop) Radius() float64 {
	switch d.Kind {
	case KindChest, KindMysteryBox:
		return 14
	default:
		return 6
	}
}

// Attract pulls an xp orb toward the player when inside the magnet radius.
// Chests and boxes stay put.
func (d *Drop) Attract(player mathutil.Vec2, magnetRadius, speed float64) {
	if d.Kind != KindXPOrb {
		return
	}
	delta := player.Sub(d.Pos)
	dist := delta.Len()
	if dist > magnetRadius || dist == 0 {
		return
	}
	if dist <= speed {
		d.Pos = player
		return
	}
	d.Pos = d.Pos.Add(delta.Scale(speed / dist))
}

// Roller decides what an enemy leaves behind.
type Roller struct {
	cfg config.RewardsConfig
}

func NewRoller(cfg config.RewardsConfig) *Roller {
	return &Roller{cfg: cfg}
}

// ForEnemy rolls the drops for a normal enemy. Each kind is rolled independently.
func (r *Roller) ForEnemy(rng *rand.Rand, next func() registry.ID, pos mathutil.Vec2, xp int) []*Drop {
	var drops []*Drop
	if rng.Float64() < r.cfg.XPOrbChance {
		drops = append(drops, &Drop{Base: registry.Base{ID: next()}, Kind: KindXPOrb, Pos: pos, Value: xp})
	}
	if rng.Float64() < r.cfg.ChestChance {
		drops = append(drops, &Drop{Base: registry.Base{ID: next()}, Kind: KindChest, Pos: pos.Add(mathutil.V(10, 0))})
	}
	if rng.Float64() < r.cfg.BoxChance {
		drops = append(drops, &Drop{Base: registry.Base{ID: next()}, Kind: KindMysteryBox, Pos: pos.Add(mathutil.V(-10, 0))})
	}
	return drops
}

// ForBoss always yields one chest and an xp orb worth the boss's xp.
func (r *Roller) ForBoss(next func() registry.ID, pos mathutil.Vec2, xp int) []*Drop {
	return []*Drop{
		{Base: registry.Base{ID: next()}, Kind: KindChest, Pos: pos},
		{Base: registry.Base{ID: next()}, Kind: KindXPOrb, Pos: pos.Add(mathutil.V(0, 24)), Value: xp},
	}
}

// BoxOutcome rolls a mystery box result by weight.
func (r *Roller) BoxOutcome(rng *rand.Rand) string {
	total := 0.0
	for _, o := range r.cfg.BoxOutcomes {
		total += o.Weight
	}
	if total <= 0 {
		return BoxXP
	}
	roll := rng.Float64() * total
	for _, o := range r.cfg.BoxOutcomes {
		roll -= o.Weight
		if roll < 0 {
			return o.Name
		}
	}
	return r.cfg.BoxOutcomes[len(r.cfg.BoxOutcomes)-1].Name
}

// RollRarity picks a rarity by weight, never below the named minimum.
// An empty minimum allows every rarity.
func RollRarity(rng *rand.Rand, rarities []config.Rarity, minimum string) config.Rarity {
	start := 0
	if minimum != "" {
		for i, r := range rarities {
			if r.Name == minimum {
				start = i
				break
			}
		}
	}
	pool := rarities[start:]
	if len(pool) == 0 {
		return config.Rarity{Name: "common", Weight: 1, Multiplier: 1}
	}
	total := 0.0
	for _, r := range pool {
		total += r.Weight
	}
	roll := rng.Float64() * total
	for _, r := range pool {
		roll -= r.Weight
		if roll < 0 {
			return r
		}
	}
	return pool[len(pool)-1]
}

// Nearest returns the closest drop of kind within maxDist of pos.
func Nearest(drops []*Drop, pos mathutil.Vec2, maxDist float64, kind Kind) (*Drop, bool) {
	var best *Drop
	bestSq := maxDist * maxDist
	for _, d := range drops {
		if d.Dead() || d.Kind != kind {
			continue
		}
		if sq := mathutil.DistSq(pos, d.Pos); sq <= bestSq {
			best, bestSq = d, sq
		}
	}
	return best, best != nil
}
