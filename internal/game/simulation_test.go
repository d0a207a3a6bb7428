package game

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightfall/internal/config"
	"nightfall/internal/difficulty"
	"nightfall/internal/enemy"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
	"nightfall/internal/reward"
	"nightfall/internal/weapons"
)

// quietConfig never spawns regular enemies during a short test.
func quietConfig() *config.Config {
	cfg := config.Default()
	cfg.Simulation.Seed = 7
	cfg.Difficulty.SpawnBase = config.Millis(time.Hour / time.Millisecond)
	return cfg
}

func newTestSim(t *testing.T, cfg *config.Config) *Simulation {
	t.Helper()
	if cfg == nil {
		cfg = quietConfig()
	}
	s, err := New(cfg, nil)
	require.NoError(t, err)
	return s
}

func (s *Simulation) spawnAt(t *testing.T, kind enemy.Kind, offset mathutil.Vec2, hp float64) *enemy.Enemy {
	t.Helper()
	e, ok := s.SpawnEnemy(kind, s.player.Pos.Add(offset), difficulty.Baseline())
	require.True(t, ok)
	if hp > 0 {
		e.HP, e.MaxHP = hp, hp
	}
	return e
}

func ticks(s *Simulation, n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

func eventsOf(events []Event, t EventType) []Event {
	var out []Event
	for _, e := range events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func TestNewStartsSession(t *testing.T) {
	s := newTestSim(t, nil)
	_, err := uuid.Parse(s.Session())
	require.NoError(t, err)
	assert.Equal(t, s.bounds.Center(), s.player.Pos)
	require.Len(t, s.player.Weapons, 1)
	assert.Equal(t, weapons.MagicBolt, s.player.Weapons[0].Type)
	assert.Equal(t, 1, s.player.Level)
	assert.Equal(t, 10, s.player.XPToLevel)

	old := s.Session()
	require.NoError(t, s.Reset())
	assert.NotEqual(t, old, s.Session())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.TickRate = 0
	_, err := New(cfg, nil)
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestTickAdvancesSimulatedClock(t *testing.T) {
	s := newTestSim(t, nil)
	ticks(s, 120)
	assert.Equal(t, 120*s.cfg.TickDuration(), s.Elapsed())
	assert.Equal(t, uint64(120), s.Monitor().GetCurrentMetrics(false).Ticks)
}

func TestKillIsProcessedOnce(t *testing.T) {
	cfg := quietConfig()
	cfg.Rewards.XPOrbChance = 1
	cfg.Rewards.ChestChance = 0
	cfg.Rewards.BoxChance = 0
	s := newTestSim(t, cfg)
	e := s.spawnAt(t, enemy.KindStandard, mathutil.V(900, 0), 0)

	first := s.Hit(e, 1000)
	second := s.Hit(e, 1000)
	assert.True(t, first.Died)
	assert.Zero(t, second.Damage)
	assert.Equal(t, 1, s.Kills())
	assert.Equal(t, 1, s.drops.CountAlive())

	s.Tick()
	deaths := eventsOf(s.DrainEvents(), EventEnemyDeath)
	require.Len(t, deaths, 1)
	data := deaths[0].Data.(EnemyDeathData)
	assert.Equal(t, e.ID, data.ID)
	assert.Equal(t, e.Palette, data.Palette)
	_, ok := s.Enemy(e.ID)
	assert.False(t, ok)
	assert.Zero(t, s.enemies.Len())
}

func TestSplitterDividesOnKill(t *testing.T) {
	s := newTestSim(t, nil)
	e := s.spawnAt(t, enemy.KindSplitter, mathutil.V(900, 0), 0)
	s.Hit(e, 1e6)
	children := s.enemies.Alive()
	require.Len(t, children, 2)
	for _, c := range children {
		assert.Equal(t, 2, c.Generation)
		assert.InDelta(t, e.MaxHP/2, c.MaxHP, 1e-9)
	}
}

func TestBossDeathDropsChestAndOrb(t *testing.T) {
	s := newTestSim(t, nil)
	boss := s.spawnAt(t, enemy.KindColossus, mathutil.V(900, 0), 0)
	for i := range boss.Shields {
		boss.Shields[i] = 0
	}
	s.Hit(boss, boss.HP+1)
	var kinds []reward.Kind
	for _, d := range s.drops.Alive() {
		kinds = append(kinds, d.Kind)
	}
	assert.ElementsMatch(t, []reward.Kind{reward.KindChest, reward.KindXPOrb}, kinds)

	s.Tick()
	events := s.DrainEvents()
	assert.Len(t, eventsOf(events, EventBossSpawned), 1)
	require.Len(t, eventsOf(events, EventEnemyDeath), 1)
	assert.True(t, eventsOf(events, EventEnemyDeath)[0].Data.(EnemyDeathData).Boss)
}

// killer is an effect that kills its lower neighbor and its own enemy.
type killer struct {
	registry.Base
	visits   map[registry.ID]int
	neighbor weapons.Effect
	target   *enemy.Enemy
	spawned  bool
}

func (p *killer) Kind() weapons.Type      { return weapons.MagicBolt }
func (p *killer) Position() mathutil.Vec2 { return mathutil.Vec2{} }
func (p *killer) Radius() float64         { return 0 }
func (p *killer) Update(w weapons.World) bool {
	p.visits[p.ID]++
	if p.neighbor != nil {
		p.neighbor.MarkDead()
	}
	w.Hit(p.target, 1e9)
	if !p.spawned {
		p.spawned = true
		w.AddEffect(&killer{Base: registry.Base{ID: w.NextID()}, visits: p.visits, target: p.target})
	}
	return false
}

func TestRemovalDuringPassNeverSkipsOrRevisits(t *testing.T) {
	s := newTestSim(t, nil)
	s.player.Weapons = nil
	visits := map[registry.ID]int{}
	var killers []*killer
	for i := 0; i < 6; i++ {
		e := s.spawnAt(t, enemy.KindStandard, mathutil.V(900, float64(i*40)), 0)
		p := &killer{Base: registry.Base{ID: s.NextID()}, visits: visits, target: e}
		if i%2 == 1 {
			p.neighbor = killers[i-1]
		}
		killers = append(killers, p)
		s.AddEffect(p)
	}

	s.Tick()
	for i, p := range killers {
		if i%2 == 1 {
			assert.Equal(t, 1, visits[p.ID], "effect %d", i)
		} else {
			assert.Zero(t, visits[p.ID], "effect %d", i)
		}
	}
	// three kills from the surviving effects; added effects wait for the next tick
	assert.Equal(t, 3, s.Kills())
	assert.Equal(t, 3+3, s.effects[weapons.MagicBolt].Len())
}

func TestPauseSuspendsMutation(t *testing.T) {
	s := newTestSim(t, nil)
	require.NoError(t, s.SetPaused(true))
	s.Tick()
	assert.Zero(t, s.Elapsed())
	assert.ErrorIs(t, s.Dash(mathutil.V(1, 0)), ErrPaused)
	assert.ErrorIs(t, s.ActivateUltimate(), ErrPaused)

	require.NoError(t, s.TogglePause())
	s.Tick()
	assert.Equal(t, s.step, s.Elapsed())
}

func TestGameOverIsTerminal(t *testing.T) {
	s := newTestSim(t, nil)
	s.DamagePlayer(s.player.MaxHP + 1)
	assert.True(t, s.GameOver())

	s.Tick()
	assert.Zero(t, s.Elapsed())
	over := eventsOf(s.DrainEvents(), EventGameOver)
	require.Len(t, over, 1)

	assert.ErrorIs(t, s.Dash(mathutil.V(1, 0)), ErrGameOver)
	assert.ErrorIs(t, s.SetMovement(mathutil.V(1, 0)), ErrGameOver)
	assert.ErrorIs(t, s.ChooseUpgrade(0), ErrGameOver)
	_, err := s.InteractNearest()
	assert.ErrorIs(t, err, ErrGameOver)

	s.DamagePlayer(10)
	s.Tick()
	assert.Empty(t, eventsOf(s.DrainEvents(), EventGameOver))
}

func TestContactDamageEndsGame(t *testing.T) {
	s := newTestSim(t, nil)
	s.player.Weapons = nil
	s.player.HP = 1
	s.spawnAt(t, enemy.KindStandard, mathutil.V(5, 0), 0)
	s.Tick()
	assert.True(t, s.GameOver())
	assert.True(t, s.Snapshot(false).GameOver)
}

func TestMovementClampedToBounds(t *testing.T) {
	s := newTestSim(t, nil)
	s.player.Pos = mathutil.V(2, 2)
	require.NoError(t, s.SetMovement(mathutil.V(-5, -5)))
	s.Tick()
	assert.Equal(t, mathutil.V(0, 0), s.player.Pos)

	require.NoError(t, s.SetMovement(mathutil.V(10, 0)))
	s.Tick()
	assert.InDelta(t, s.player.Speed, s.player.Pos.X, 1e-9)
}

func TestDashIsInvulnerableAndCoolsDown(t *testing.T) {
	s := newTestSim(t, nil)
	start := s.player.Pos
	require.NoError(t, s.Dash(mathutil.V(0, 1)))
	s.DamagePlayer(50)
	assert.Equal(t, s.player.MaxHP, s.player.HP)
	assert.ErrorIs(t, s.Dash(mathutil.V(0, 1)), ErrOnCooldown)

	ticks(s, 6)
	moved := s.player.Pos.Y - start.Y
	assert.InDelta(t, 6*s.player.Speed*s.cfg.Player.Dash.SpeedMultiplier, moved, 1e-9)

	ticks(s, 60)
	assert.False(t, s.player.Dashing(s.now))
	s.DamagePlayer(50)
	assert.Equal(t, s.player.MaxHP-50, s.player.HP)

	ticks(s, 120)
	assert.NoError(t, s.Dash(mathutil.V(1, 0)))
}

func TestTimeFreezeStopsEnemiesUntilQueuedEnd(t *testing.T) {
	cfg := quietConfig()
	cfg.Player.Ultimate.Type = string(weapons.TimeFreeze)
	s := newTestSim(t, cfg)
	e := s.spawnAt(t, enemy.KindStandard, mathutil.V(300, 0), 1e12)

	require.NoError(t, s.ActivateUltimate())
	assert.ErrorIs(t, s.ActivateUltimate(), ErrOnCooldown)
	frozenAt := e.Pos
	ticks(s, 60)
	assert.Equal(t, frozenAt, e.Pos)
	assert.True(t, s.player.Ultimate.Active)

	duration := cfg.Player.Ultimate.TimeFreeze.Duration.Duration()
	for s.Elapsed() < duration {
		s.Tick()
	}
	assert.False(t, s.player.Ultimate.Active)
	ended := eventsOf(s.DrainEvents(), EventUltimateEnded)
	require.Len(t, ended, 1)
	assert.Equal(t, weapons.TimeFreeze, ended[0].Data.(UltimateEndedData).Type)

	s.Tick()
	assert.Less(t, mathutil.Dist(e.Pos, s.player.Pos), mathutil.Dist(frozenAt, s.player.Pos))
}

func TestBossPhaseAdvancesDuringTimeFreeze(t *testing.T) {
	cfg := quietConfig()
	cfg.Player.Ultimate.Type = string(weapons.TimeFreeze)
	s := newTestSim(t, cfg)
	s.player.Weapons = nil
	boss := s.spawnAt(t, enemy.KindColossus, mathutil.V(900, 0), 0)
	s.DrainEvents()

	require.NoError(t, s.ActivateUltimate())
	frozenAt := boss.Pos
	boss.HP = boss.MaxHP * 0.5
	s.Tick()

	assert.Equal(t, 2, boss.Boss.Phase())
	assert.Equal(t, frozenAt, boss.Pos)
	changes := eventsOf(s.DrainEvents(), EventBossPhaseChange)
	require.Len(t, changes, 1)
	data := changes[0].Data.(BossPhaseChangeData)
	assert.Equal(t, 1, data.From)
	assert.Equal(t, 2, data.To)
	assert.True(t, s.player.Ultimate.Active)
}

func TestMeteorStormRunsFromDelayedQueue(t *testing.T) {
	s := newTestSim(t, nil)
	s.player.Weapons = nil
	target := s.spawnAt(t, enemy.KindStandard, mathutil.V(300, 0), 1e12)

	require.NoError(t, s.ActivateUltimate())
	storm := s.cfg.Player.Ultimate.MeteorStorm
	assert.Equal(t, storm.Count+1, s.delayed.Len())
	assert.Equal(t, 1e12, target.HP)

	for i := 0; i < 1000 && s.player.Ultimate.Active; i++ {
		s.Tick()
	}
	require.False(t, s.player.Ultimate.Active)
	assert.Zero(t, s.delayed.Len())
	assert.Len(t, eventsOf(s.DrainEvents(), EventUltimateEnded), 1)
	assert.ErrorIs(t, s.ActivateUltimate(), ErrOnCooldown)
}

func TestDivineShieldBlocksDamage(t *testing.T) {
	cfg := quietConfig()
	cfg.Player.Ultimate.Type = string(weapons.DivineShield)
	s := newTestSim(t, cfg)
	require.NoError(t, s.ActivateUltimate())
	s.DamagePlayer(500)
	assert.False(t, s.GameOver())
	assert.True(t, s.Snapshot(false).Player.Invulnerable)
}

func TestXPOrbLevelUpPausesUntilChoice(t *testing.T) {
	s := newTestSim(t, nil)
	s.drops.Add(&reward.Drop{Base: registry.Base{ID: s.NextID()}, Kind: reward.KindXPOrb, Pos: s.player.Pos, Value: 10})
	s.Tick()
	assert.Equal(t, 2, s.player.Level)
	assert.Zero(t, s.player.XP)
	assert.Equal(t, 18, s.player.XPToLevel)

	levelUps := eventsOf(s.DrainEvents(), EventLevelUp)
	require.Len(t, levelUps, 1)
	data := levelUps[0].Data.(LevelUpData)
	assert.Equal(t, 2, data.Level)
	assert.Len(t, data.Choices, 3)
	assert.Equal(t, data.Choices, s.PendingChoices())

	at := s.Elapsed()
	s.Tick()
	assert.Equal(t, at, s.Elapsed())
	assert.ErrorIs(t, s.Dash(mathutil.V(1, 0)), ErrPaused)

	assert.ErrorIs(t, s.ChooseUpgrade(3), ErrInvalidChoice)
	require.NoError(t, s.ChooseUpgrade(0))
	assert.ErrorIs(t, s.ChooseUpgrade(0), ErrNoPendingLevelUp)
	s.Tick()
	assert.Greater(t, s.Elapsed(), at)
}

func TestOverflowXPQueuesSeveralLevelUps(t *testing.T) {
	s := newTestSim(t, nil)
	// 10 to reach 2, 18 to reach 3, 5 left over
	s.drops.Add(&reward.Drop{Base: registry.Base{ID: s.NextID()}, Kind: reward.KindXPOrb, Pos: s.player.Pos, Value: 33})
	s.Tick()
	assert.Equal(t, 3, s.player.Level)
	assert.Equal(t, 5, s.player.XP)
	assert.Equal(t, 2, s.Snapshot(false).PendingLevelUps)
	assert.Len(t, eventsOf(s.DrainEvents(), EventLevelUp), 1)

	require.NoError(t, s.ChooseUpgrade(1))
	next := eventsOf(s.DrainEvents(), EventLevelUp)
	require.Len(t, next, 1)
	assert.Equal(t, 3, next[0].Data.(LevelUpData).Level)
	require.NoError(t, s.ChooseUpgrade(2))
	assert.False(t, s.LevelUpPending())
}

func TestMagnetPullsOrbs(t *testing.T) {
	s := newTestSim(t, nil)
	orb := &reward.Drop{Base: registry.Base{ID: s.NextID()}, Kind: reward.KindXPOrb, Pos: s.player.Pos.Add(mathutil.V(100, 0)), Value: 1}
	far := &reward.Drop{Base: registry.Base{ID: s.NextID()}, Kind: reward.KindXPOrb, Pos: s.player.Pos.Add(mathutil.V(500, 0)), Value: 1}
	s.drops.Add(orb)
	s.drops.Add(far)
	s.Tick()
	assert.InDelta(t, 100-s.cfg.Simulation.MagnetSpeed, orb.Pos.Sub(s.player.Pos).Len(), 1e-9)
	assert.Equal(t, s.player.Pos.Add(mathutil.V(500, 0)), far.Pos)

	ticks(s, 20)
	assert.True(t, orb.Dead())
	assert.Equal(t, 1, s.player.XP)
}
