package game

import (
	"fmt"

	"nightfall/internal/mathutil"
	"nightfall/internal/weapons"
)

// acceptingInput reports why a state-changing command cannot run now.
func (s *Simulation) acceptingInput() error {
	switch {
	case s.over:
		return ErrGameOver
	case s.paused:
		return ErrPaused
	case len(s.levelUps) > 0:
		return fmt.Errorf("%w: level-up choice pending", ErrPaused)
	}
	return nil
}

// SetMovement records the movement intent applied on following ticks.
func (s *Simulation) SetMovement(dir mathutil.Vec2) error {
	if s.over {
		return ErrGameOver
	}
	s.player.intent = dir.Normalize()
	return nil
}

// Dash starts a dash along dir. A zero dir dashes along the movement intent.
func (s *Simulation) Dash(dir mathutil.Vec2) error {
	if err := s.acceptingInput(); err != nil {
		s.log.Debug("dash rejected", "error", err)
		return err
	}
	if err := s.player.startDash(dir, s.now); err != nil {
		s.log.Debug("dash rejected", "error", err)
		return err
	}
	return nil
}

// ActivateUltimate fires the ultimate slot. Its effects and its end are
// scheduled on the delayed queue.
func (s *Simulation) ActivateUltimate() error {
	if err := s.acceptingInput(); err != nil {
		return err
	}
	u := s.player.Ultimate
	if !u.Ready(s.now) {
		err := fmt.Errorf("ultimate %s: %w (%v left)", u.Type, ErrOnCooldown, u.CooldownRemaining(s.now))
		s.log.Debug("ultimate rejected", "error", err)
		return err
	}
	ends := u.Start(s.now)
	if u.Type == weapons.MeteorStorm {
		for _, m := range u.MeteorPlan(s.now, s.rng, s.player.Pos, meteorSpread) {
			s.delayed.push(delayedEvent{At: m.At, Kind: delayedMeteor, Pos: m.Pos})
		}
	}
	s.delayed.push(delayedEvent{At: ends, Kind: delayedUltimateEnd})
	s.log.Info("ultimate activated", "type", u.Type, "until", ends)
	return nil
}

// PendingChoices returns the choices of the oldest pending level-up.
func (s *Simulation) PendingChoices() []Choice {
	req := s.currentLevelUp()
	if req == nil {
		return nil
	}
	return append([]Choice(nil), req.choices...)
}

// ChooseUpgrade applies one of the offered choices and resolves that level-up.
func (s *Simulation) ChooseUpgrade(index int) error {
	if s.over {
		return ErrGameOver
	}
	if s.paused {
		return ErrPaused
	}
	req := s.currentLevelUp()
	if req == nil {
		return ErrNoPendingLevelUp
	}
	if index < 0 || index >= len(req.choices) {
		return fmt.Errorf("%w: index %d of %d", ErrInvalidChoice, index, len(req.choices))
	}
	if err := s.applyChoice(req.choices[index]); err != nil {
		return fmt.Errorf("level %d: %w", req.level, err)
	}
	s.levelUps = s.levelUps[1:]
	s.offerLevelUp()
	s.flushEvents()
	return nil
}

// SetPaused suspends or resumes ticking.
func (s *Simulation) SetPaused(paused bool) error {
	if s.over {
		return ErrGameOver
	}
	if s.paused != paused {
		s.log.Debug("pause toggled", "paused", paused)
	}
	s.paused = paused
	return nil
}

func (s *Simulation) TogglePause() error {
	return s.SetPaused(!s.paused)
}
