package game

import (
	"fmt"

	"nightfall/internal/registry"
	"nightfall/internal/reward"
)

// Loot describes what opening a chest or box gave the player.
type Loot struct {
	Source  reward.Kind
	Outcome string
	Upgrade *Choice
	Healed  float64
	XP      int
}

// OpenChest opens the chest id when the player stands close enough.
func (s *Simulation) OpenChest(id registry.ID) (Loot, error) {
	return s.open(id, reward.KindChest)
}

// OpenBox opens the mystery box id when the player stands close enough.
func (s *Simulation) OpenBox(id registry.ID) (Loot, error) {
	return s.open(id, reward.KindMysteryBox)
}

// InteractNearest opens the closest chest or box inside the interaction radius.
func (s *Simulation) InteractNearest() (Loot, error) {
	if err := s.acceptingInput(); err != nil {
		return Loot{}, err
	}
	radius := s.cfg.Simulation.InteractionRadius
	drops := s.drops.Alive()
	var best *reward.Drop
	for _, kind := range []reward.Kind{reward.KindChest, reward.KindMysteryBox} {
		d, ok := reward.Nearest(drops, s.player.Pos, radius, kind)
		if !ok {
			continue
		}
		if best == nil || d.Pos.Sub(s.player.Pos).LenSq() < best.Pos.Sub(s.player.Pos).LenSq() {
			best = d
		}
	}
	if best == nil {
		return Loot{}, fmt.Errorf("interact: %w", ErrNotFound)
	}
	return s.open(best.ID, best.Kind)
}

func (s *Simulation) open(id registry.ID, kind reward.Kind) (Loot, error) {
	if err := s.acceptingInput(); err != nil {
		return Loot{}, err
	}
	d, ok := s.drops.Get(id)
	if !ok || d.Kind != kind {
		return Loot{}, fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	radius := s.cfg.Simulation.InteractionRadius
	if d.Pos.Sub(s.player.Pos).LenSq() > radius*radius {
		return Loot{}, fmt.Errorf("%s %d: %w", kind, id, ErrOutOfRange)
	}
	d.MarkDead()

	loot := Loot{Source: kind}
	if kind == reward.KindChest {
		loot.Outcome = reward.BoxUpgrade
		s.grantUpgrade(&loot, s.cfg.Rewards.ChestMinRarity)
	} else {
		loot.Outcome = s.rewards.BoxOutcome(s.rng)
		switch loot.Outcome {
		case reward.BoxHeal:
			before := s.player.HP
			s.player.Heal(s.player.MaxHP * s.cfg.Rewards.BoxHealFraction)
			loot.Healed = s.player.HP - before
		case reward.BoxXP:
			loot.XP = s.cfg.Rewards.BoxXP
			if gained := s.player.AddXP(loot.XP); gained > 0 {
				s.queueLevelUps(gained)
			}
		default:
			s.grantUpgrade(&loot, "")
		}
	}
	s.log.Info("loot opened", "source", kind, "id", id, "outcome", loot.Outcome)
	s.flushEvents()
	return loot, nil
}

func (s *Simulation) grantUpgrade(loot *Loot, minRarity string) {
	c, ok := s.rollWeaponUpgrade(minRarity)
	if !ok {
		return
	}
	if err := s.applyChoice(c); err != nil {
		s.log.Warn("loot upgrade failed", "id", c.ID, "error", err)
		return
	}
	loot.Upgrade = &c
}
