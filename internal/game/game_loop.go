package game

import (
	"nightfall/internal/enemy"
	"nightfall/internal/reward"
	"nightfall/internal/weapons"
)

// Tick advances the simulation by one fixed step. It does nothing while
// paused, while a level-up choice is pending, or after game over, apart
// from delivering events raised by commands.
func (s *Simulation) Tick() {
	if s.paused || s.over || len(s.levelUps) > 0 {
		s.flushEvents()
		return
	}
	timer := s.monitor.StartTick()
	defer timer.End()

	s.now += s.step
	for _, stage := range []func(){
		s.drainDelayed,
		s.updatePlayer,
		s.fireWeapons,
		s.updateEffects,
		s.updateEnemies,
		s.updateHazards,
		s.updateDrops,
		s.updateSpawns,
	} {
		if s.over {
			break
		}
		stage()
	}
	s.compact()
	s.flushEvents()
}

// drainDelayed consumes every scheduled event that has come due.
func (s *Simulation) drainDelayed() {
	for {
		ev, ok := s.delayed.popDue(s.now)
		if !ok {
			return
		}
		switch ev.Kind {
		case delayedMeteor:
			s.rebuildGrid()
			weapons.Impact(s, ev.Pos, s.player.Ultimate.MeteorRadius(), s.player.Ultimate.MeteorDamage())
		case delayedUltimateEnd:
			u := s.player.Ultimate
			if u.Active {
				u.Finish()
				s.emit(EventUltimateEnded, UltimateEndedData{Type: u.Type})
			}
		}
	}
}

func (s *Simulation) updatePlayer() {
	s.player.move(s.now, s.bounds)
}

func (s *Simulation) fireWeapons() {
	s.rebuildGrid()
	for _, w := range s.player.Weapons {
		weapons.Fire(w, s)
	}
}

// updateEffects runs every effect list in catalog order. Each list is walked
// in reverse so removals never skip a neighbor.
func (s *Simulation) updateEffects() {
	for _, t := range weapons.AllTypes {
		s.effects[t].ForEachAlive(func(fx weapons.Effect) {
			if fx.Update(s) {
				fx.MarkDead()
			}
		})
	}
}

func (s *Simulation) updateEnemies() {
	if s.timeFrozen() {
		s.enemies.ForEachAlive(func(e *enemy.Enemy) { e.UpdateFrozen(s) })
		return
	}
	s.rebuildGrid()
	s.enemies.ForEachAlive(func(e *enemy.Enemy) {
		if s.over {
			return
		}
		e.Update(s)
	})
}

func (s *Simulation) updateHazards() {
	if s.timeFrozen() {
		return
	}
	s.hazards.ForEachAlive(func(h *enemy.Hazard) {
		if s.over {
			return
		}
		if h.Update(s) {
			h.MarkDead()
		}
	})
}

// updateDrops pulls xp orbs toward the player and collects those in reach.
func (s *Simulation) updateDrops() {
	p := s.player
	sim := s.cfg.Simulation
	magnet := sim.MagnetRadius + p.MagnetBonus
	reach := sim.PickupRadius + p.Radius
	gained := 0
	s.drops.ForEachAlive(func(d *reward.Drop) {
		if d.Kind != reward.KindXPOrb {
			return
		}
		d.Attract(p.Pos, magnet, sim.MagnetSpeed)
		if d.Pos.Sub(p.Pos).LenSq() <= reach*reach && d.MarkDead() {
			gained += p.AddXP(d.Value)
		}
	})
	if gained > 0 {
		s.queueLevelUps(gained)
	}
}

func (s *Simulation) updateSpawns() {
	s.spawner.Update(s)
}

func (s *Simulation) rebuildGrid() {
	s.grid.Rebuild(s.enemies.Alive())
}

// compact purges everything flagged dead this tick.
func (s *Simulation) compact() {
	s.enemies.Compact()
	for _, t := range weapons.AllTypes {
		s.effects[t].Compact()
	}
	s.hazards.Compact()
	s.drops.Compact()

	effects := 0
	for _, c := range s.effects {
		effects += c.Len()
	}
	s.monitor.UpdateCounts(s.enemies.Len(), effects, s.hazards.Len(), s.drops.Len())
}
