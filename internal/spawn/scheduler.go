// Package spawn decides when and what enemies enter the arena.
package spawn

import (
	"math"
	"math/rand"
	"time"

	"nightfall/internal/config"
	"nightfall/internal/difficulty"
	"nightfall/internal/enemy"
	"nightfall/internal/mathutil"
)

// World is what the scheduler needs from the simulation.
type World interface {
	Now() time.Duration
	Rand() *rand.Rand
	PlayerPos() mathutil.Vec2
	Bounds() mathutil.Rect
	EnemyCount() int
	KindAlive(kind enemy.Kind) bool
	SpawnEnemy(kind enemy.Kind, pos mathutil.Vec2, tier difficulty.Tier) (*enemy.Enemy, bool)
}

type bossTrack struct {
	rule      config.BossSpawnRule
	spawned   bool
	lastSpawn time.Duration
}

// Scheduler runs the regular spawn timer and the two boss timers.
type Scheduler struct {
	cfg       config.SpawnConfig
	model     *difficulty.Model
	lastSpawn time.Duration
	bosses    [2]bossTrack
}

func NewScheduler(cfg config.SpawnConfig, model *difficulty.Model) *Scheduler {
	return &Scheduler{
		cfg:   cfg,
		model: model,
		bosses: [2]bossTrack{
			{rule: cfg.MinorBoss},
			{rule: cfg.MajorBoss},
		},
	}
}

// Reset forgets every timer, as at session start.
func (s *Scheduler) Reset() {
	s.lastSpawn = 0
	for i := range s.bosses {
		s.bosses[i].spawned = false
		s.bosses[i].lastSpawn = 0
	}
}

// Update runs one tick of spawning and returns the enemies it created.
func (s *Scheduler) Update(w World) []*enemy.Enemy {
	now := w.Now()
	var out []*enemy.Enemy
	for i := range s.bosses {
		if e := s.checkBoss(w, &s.bosses[i], now); e != nil {
			out = append(out, e)
		}
	}

	if now-s.lastSpawn < s.model.SpawnInterval(now) {
		return out
	}
	s.lastSpawn = now

	room := s.model.MaxEnemies(now) - w.EnemyCount()
	if room <= 0 {
		return out
	}
	rng := w.Rand()
	kind := s.Roll(rng, now)
	tier := s.model.Sample(now)
	center := s.RingPoint(rng, w.PlayerPos(), w.Bounds())

	count := 1
	if kind == enemy.KindSwarm {
		count = mathutil.IntMin(s.cfg.SwarmClusterSize, room)
	}
	for i := 0; i < count; i++ {
		pos := center
		if i > 0 {
			pos = w.Bounds().ClampPoint(center.Add(mathutil.FromAngle(rng.Float64()*2*math.Pi, rng.Float64()*s.cfg.SwarmClusterSpread)))
		}
		if e, ok := w.SpawnEnemy(kind, pos, tier); ok {
			out = append(out, e)
		}
	}
	return out
}

func (s *Scheduler) checkBoss(w World, b *bossTrack, now time.Duration) *enemy.Enemy {
	if b.rule.Kind == "" || now < time.Duration(b.rule.ThresholdSeconds)*time.Second {
		return nil
	}
	if b.spawned && now-b.lastSpawn < time.Duration(b.rule.IntervalSeconds)*time.Second {
		return nil
	}
	kind := enemy.Kind(b.rule.Kind)
	if w.KindAlive(kind) {
		return nil
	}
	pos := s.RingPoint(w.Rand(), w.PlayerPos(), w.Bounds())
	e, ok := w.SpawnEnemy(kind, pos, s.model.Sample(now))
	if !ok {
		return nil
	}
	b.spawned = true
	b.lastSpawn = now
	return e
}

// Phase returns the roll table in effect at elapsed.
func (s *Scheduler) Phase(elapsed time.Duration) []config.RollEntry {
	var table []config.RollEntry
	for _, p := range s.cfg.Phases {
		if elapsed >= time.Duration(p.FromSeconds)*time.Second {
			table = p.Table
		}
	}
	return table
}

// Roll picks an enemy kind from the current phase by cumulative weight.
func (s *Scheduler) Roll(rng *rand.Rand, elapsed time.Duration) enemy.Kind {
	table := s.Phase(elapsed)
	if len(table) == 0 {
		return enemy.KindStandard
	}
	total := 0.0
	for _, entry := range table {
		total += entry.Weight
	}
	roll := rng.Float64() * total
	cumulative := 0.0
	for _, entry := range table {
		cumulative += entry.Weight
		if roll < cumulative {
			return enemy.Kind(entry.Kind)
		}
	}
	return enemy.Kind(table[len(table)-1].Kind)
}

// RingPoint picks a spot on the spawn ring around the player, kept inside bounds.
func (s *Scheduler) RingPoint(rng *rand.Rand, player mathutil.Vec2, bounds mathutil.Rect) mathutil.Vec2 {
	angle := rng.Float64() * 2 * math.Pi
	dist := s.cfg.RingMin + rng.Float64()*(s.cfg.RingMax-s.cfg.RingMin)
	return bounds.ClampPoint(player.Add(mathutil.FromAngle(angle, dist)))
}
