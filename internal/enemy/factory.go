package enemy

import (
	"fmt"
	"time"

	"nightfall/internal/config"
	"nightfall/internal/difficulty"
	"nightfall/internal/fsm"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

// Factory builds enemies from configuration.
type Factory struct {
	cfg *config.Config
}

func NewFactory(cfg *config.Config) *Factory {
	return &Factory{cfg: cfg}
}

// Create builds an enemy of kind at pos with tier frozen onto its stats.
func (f *Factory) Create(id registry.ID, kind Kind, pos mathutil.Vec2, tier difficulty.Tier, now time.Duration) (*Enemy, error) {
	var stats config.EnemyStats
	switch kind {
	case KindColossus:
		stats = f.cfg.Bosses.Colossus.Stats
	case KindVoidLord:
		stats = f.cfg.Bosses.VoidLord.Stats
	default:
		s, ok := f.cfg.EnemyStats(string(kind))
		if !ok {
			return nil, fmt.Errorf("unknown enemy kind %q", kind)
		}
		stats = s
	}

	hp := stats.HP * tier.HP
	e := &Enemy{
		Base:       registry.Base{ID: id},
		Kind:       kind,
		Pos:        pos,
		Size:       stats.Radius,
		HP:         hp,
		MaxHP:      hp,
		Speed:      stats.Speed * tier.Speed,
		Damage:     stats.Damage * tier.Damage,
		XP:         stats.XP,
		Palette:    stats.Palette,
		Tier:       tier,
		Generation: 1,
		slowFactor: 1,
		stateAt:    now,
		cfg:        &f.cfg.Enemies,
	}

	switch kind {
	case KindTank:
		e.ArmorFrac = f.cfg.Enemies.Tank.Armor
	case KindRanged:
		e.nextShot = now + f.cfg.Enemies.Ranged.ShotCooldown.Duration()
	case KindHealer:
		e.nextHeal = now + f.cfg.Enemies.Healer.Interval.Duration()
	case KindSwarm:
		e.wobble = float64(id) * 1.7
	case KindColossus:
		c := &f.cfg.Bosses.Colossus
		e.Shields = append([]float64(nil), c.Shields...)
		e.Boss = newBoss(&c.BossCommon, now)
		e.Boss.colossus = c
	case KindVoidLord:
		v := &f.cfg.Bosses.VoidLord
		e.Shields = append([]float64(nil), v.Shields...)
		e.Boss = newBoss(&v.BossCommon, now)
		e.Boss.voidLord = v
	}
	return e, nil
}

func newBoss(common *config.BossCommon, now time.Duration) *Boss {
	behaviors := make([]fsm.Behavior, 0, len(common.Behaviors))
	for _, b := range common.Behaviors {
		behaviors = append(behaviors, fsm.Behavior{
			State:    fsm.State(b.State),
			Duration: b.Duration.Duration(),
			Weight:   b.Weight,
			MinPhase: b.MinPhase,
		})
	}
	return &Boss{
		common:  common,
		Machine: fsm.NewMachine(common.Idle.Duration(), behaviors, common.PhaseThresholds, now),
	}
}
