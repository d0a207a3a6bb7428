// Package difficulty maps elapsed simulated time to enemy scaling multipliers.
package difficulty

import (
	"math"
	"time"

	"nightfall/internal/config"
)

// Tier is the set of multipliers frozen onto an enemy when it spawns.
type Tier struct {
	Interval int
	Speed    float64
	HP       float64
	Damage   float64
}

// Model evaluates the difficulty curve.
type Model struct {
	cfg config.DifficultyConfig
}

func NewModel(cfg config.DifficultyConfig) *Model {
	return &Model{cfg: cfg}
}

// Interval is floor(elapsed / interval length).
func (m *Model) Interval(elapsed time.Duration) int {
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / (time.Duration(m.cfg.IntervalSeconds) * time.Second))
}

// Sample returns the tier for elapsed time.
func (m *Model) Sample(elapsed time.Duration) Tier {
	n := m.Interval(elapsed)
	return Tier{
		Interval: n,
		Speed:    capped(n, m.cfg.SpeedRate, m.cfg.SpeedCap),
		HP:       capped(n, m.cfg.HPRate, m.cfg.HPCap),
		Damage:   capped(n, m.cfg.DamageRate, m.cfg.DamageCap),
	}
}

// SpawnInterval is max(base * decay^interval, floor).
func (m *Model) SpawnInterval(elapsed time.Duration) time.Duration {
	n := m.Interval(elapsed)
	base := float64(m.cfg.SpawnBase.Duration())
	floor := m.cfg.SpawnFloor.Duration()
	d := time.Duration(base * math.Pow(m.cfg.SpawnDecay, float64(n)))
	if d < floor {
		return floor
	}
	return d
}

// MaxEnemies is min(base + interval*increment, cap).
func (m *Model) MaxEnemies(elapsed time.Duration) int {
	n := m.Interval(elapsed)
	limit := m.cfg.MaxEnemiesBase + n*m.cfg.MaxEnemiesIncrement
	if limit > m.cfg.MaxEnemiesCap {
		return m.cfg.MaxEnemiesCap
	}
	return limit
}

// Baseline is the unscaled tier, the same as Sample(0) on any model.
func Baseline() Tier {
	return Tier{Speed: 1, HP: 1, Damage: 1}
}

func capped(interval int, rate, cap float64) float64 {
	return math.Min(1+float64(interval)*rate, cap)
}
