// Package weapons is the catalog of player weapons and the effects they fire.
package weapons

import (
	"fmt"
	"time"

	"nightfall/internal/config"
	"nightfall/internal/mathutil"
)

// Type tags a weapon and the effects it spawns.
type Type string

const (
	MagicBolt      Type = "magic_bolt"
	Fireball       Type = "fireball"
	HomingMissile  Type = "homing_missile"
	ChainLightning Type = "chain_lightning"
	PoisonCloud    Type = "poison_cloud"
	BlackHole      Type = "black_hole"
	FrostNova      Type = "frost_nova"
	ShockNova      Type = "shock_nova"
	ArcaneOrb      Type = "arcane_orb"
	SpiritWolf     Type = "spirit_wolf"
	ShadowClone    Type = "shadow_clone"
	Boomerang      Type = "boomerang"
)

// AllTypes lists every weapon in a fixed order. Effect collections are
// updated in this order.
var AllTypes = []Type{
	MagicBolt, Fireball, HomingMissile, ChainLightning, PoisonCloud, BlackHole,
	FrostNova, ShockNova, ArcaneOrb, SpiritWolf, ShadowClone, Boomerang,
}

// Category groups weapons by effect life cycle.
type Category int

const (
	CategoryAimed Category = iota
	CategoryHoming
	CategoryChain
	CategoryArea
	CategoryBurst
	CategoryOrbit
	CategoryCompanion
	CategoryReturning
)

// Category returns the life cycle the weapon's effects follow
func (t Type) Category() Category {
	switch t {
	case HomingMissile:
		return CategoryHoming
	case ChainLightning:
		return CategoryChain
	case PoisonCloud, BlackHole:
		return CategoryArea
	case FrostNova, ShockNova:
		return CategoryBurst
	case ArcaneOrb:
		return CategoryOrbit
	case SpiritWolf, ShadowClone:
		return CategoryCompanion
	case Boomerang:
		return CategoryReturning
	default:
		return CategoryAimed
	}
}

// DisplayName returns the name shown on level-up cards
func (t Type) DisplayName() string {
	switch t {
	case MagicBolt:
		return "Magic Bolt"
	case Fireball:
		return "Fireball"
	case HomingMissile:
		return "Homing Missile"
	case ChainLightning:
		return "Chain Lightning"
	case PoisonCloud:
		return "Poison Cloud"
	case BlackHole:
		return "Black Hole"
	case FrostNova:
		return "Frost Nova"
	case ShockNova:
		return "Shock Nova"
	case ArcaneOrb:
		return "Arcane Orb"
	case SpiritWolf:
		return "Spirit Wolf"
	case ShadowClone:
		return "Shadow Clone"
	case Boomerang:
		return "Boomerang"
	default:
		return "Unknown"
	}
}

// Color is the effect tint used by renderers.
func (t Type) Color() [3]int {
	switch t {
	case Fireball:
		return [3]int{255, 120, 30}
	case HomingMissile:
		return [3]int{230, 230, 230}
	case ChainLightning:
		return [3]int{140, 200, 255}
	case PoisonCloud:
		return [3]int{110, 200, 60}
	case BlackHole:
		return [3]int{90, 40, 140}
	case FrostNova:
		return [3]int{160, 230, 255}
	case ShockNova:
		return [3]int{255, 240, 90}
	case ArcaneOrb:
		return [3]int{200, 110, 255}
	case SpiritWolf:
		return [3]int{180, 220, 255}
	case ShadowClone:
		return [3]int{70, 70, 90}
	case Boomerang:
		return [3]int{210, 170, 90}
	default:
		return [3]int{120, 160, 255}
	}
}

const minCooldown = 100 * time.Millisecond

// Weapon is a player-equipped weapon. Upgrades mutate it in place.
type Weapon struct {
	Type            Type
	Level           int
	Damage          float64
	Cooldown        time.Duration
	Range           float64
	ProjectileCount int
	ExplosionRadius float64
	AreaRadius      float64
	LastFired       time.Duration

	stats  config.WeaponStats
	fired  bool
	gen    int // bumped by upgrades that reshape persistent effects
	orbGen int
	live   int // companions currently alive
}

// NewWeapon creates a level 1 weapon from base stats
func NewWeapon(t Type, stats config.WeaponStats) *Weapon {
	count := stats.ProjectileCount
	if count <= 0 {
		count = 1
	}
	return &Weapon{
		Type:            t,
		Level:           1,
		Damage:          stats.Damage,
		Cooldown:        stats.Cooldown.Duration(),
		Range:           stats.Range,
		ProjectileCount: count,
		ExplosionRadius: stats.ExplosionRadius,
		AreaRadius:      stats.Radius,
		stats:           stats,
		gen:             1,
		orbGen:          0,
	}
}

// Ready reports whether now - LastFired >= Cooldown. A weapon that never
// fired is ready.
func (w *Weapon) Ready(now time.Duration) bool {
	return !w.fired || now-w.LastFired >= w.Cooldown
}

// CooldownRemaining is clamped at zero.
func (w *Weapon) CooldownRemaining(now time.Duration) time.Duration {
	if !w.fired {
		return 0
	}
	return mathutil.ClampDuration(w.Cooldown - (now - w.LastFired))
}

func (w *Weapon) markFired(now time.Duration) {
	w.fired = true
	w.LastFired = now
}

// LiveCompanions is the number of summoned companions still active.
func (w *Weapon) LiveCompanions() int { return w.live }

// Upgrade applies a stat increase. Stats: damage, cooldown, projectile, range.
func (w *Weapon) Upgrade(stat string, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("upgrade %s: amount must be positive, got %v", stat, amount)
	}
	switch stat {
	case "damage":
		w.Damage *= 1 + amount
	case "cooldown":
		w.Cooldown = time.Duration(float64(w.Cooldown) * (1 - amount))
		if w.Cooldown < minCooldown {
			w.Cooldown = minCooldown
		}
	case "projectile":
		n := int(amount)
		if n < 1 {
			n = 1
		}
		w.ProjectileCount += n
		w.gen++
	case "range":
		w.Range *= 1 + amount
		w.ExplosionRadius *= 1 + amount
		w.AreaRadius *= 1 + amount
		w.gen++
	default:
		return fmt.Errorf("upgrade: unknown weapon stat %q", stat)
	}
	w.Level++
	return nil
}

// Catalog resolves weapon types to their base stats.
type Catalog struct {
	stats map[string]config.WeaponStats
}

func NewCatalog(stats map[string]config.WeaponStats) *Catalog {
	return &Catalog{stats: stats}
}

// New creates a weapon of type t.
func (c *Catalog) New(t Type) (*Weapon, error) {
	s, ok := c.stats[string(t)]
	if !ok {
		return nil, fmt.Errorf("unknown weapon type %q", t)
	}
	return NewWeapon(t, s), nil
}

// Available lists configured types in AllTypes order, skipping those for
// which owned returns true.
func (c *Catalog) Available(owned func(Type) bool) []Type {
	var out []Type
	for _, t := range AllTypes {
		if _, ok := c.stats[string(t)]; !ok {
			continue
		}
		if owned != nil && owned(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}
