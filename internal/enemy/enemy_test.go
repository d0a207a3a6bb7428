package enemy

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightfall/internal/config"
	"nightfall/internal/difficulty"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

// mockWorld implements World and HazardWorld for tests.
type mockWorld struct {
	now          time.Duration
	rng          *rand.Rand
	bounds       mathutil.Rect
	player       mathutil.Vec2
	playerRadius float64
	damageTaken  float64
	knockbacks   int
	factory      *Factory
	seq          registry.Sequence
	enemies      *registry.Collection[*Enemy]
	hazards      []*Hazard
	phaseChanges [][2]int
	spawned      []*Enemy
}

func newMockWorld(cfg *config.Config) *mockWorld {
	return &mockWorld{
		rng:          rand.New(rand.NewSource(42)),
		bounds:       mathutil.Rect{MinX: -5000, MinY: -5000, MaxX: 5000, MaxY: 5000},
		playerRadius: 14,
		factory:      NewFactory(cfg),
		enemies:      registry.NewCollection[*Enemy](),
	}
}

func (m *mockWorld) Now() time.Duration       { return m.now }
func (m *mockWorld) Rand() *rand.Rand         { return m.rng }
func (m *mockWorld) PlayerPos() mathutil.Vec2 { return m.player }
func (m *mockWorld) PlayerRadius() float64    { return m.playerRadius }
func (m *mockWorld) DamagePlayer(a float64)   { m.damageTaken += a }
func (m *mockWorld) AddHazard(h *Hazard)      { h.ID = m.seq.Next(); m.hazards = append(m.hazards, h) }
func (m *mockWorld) EnemyAlive(id registry.ID) bool {
	_, ok := m.enemies.Get(id)
	return ok
}
func (m *mockWorld) Bounds() mathutil.Rect                                { return m.bounds }
func (m *mockWorld) KnockbackPlayer(from mathutil.Vec2, distance float64) { m.knockbacks++ }
func (m *mockWorld) BossPhaseChanged(e *Enemy, from, to int) {
	m.phaseChanges = append(m.phaseChanges, [2]int{from, to})
}

func (m *mockWorld) SpawnEnemy(kind Kind, pos mathutil.Vec2, tier difficulty.Tier) (*Enemy, bool) {
	e, err := m.factory.Create(m.seq.Next(), kind, pos, tier, m.now)
	if err != nil {
		return nil, false
	}
	m.enemies.Add(e)
	m.spawned = append(m.spawned, e)
	return e, true
}

func (m *mockWorld) EnemiesWithin(center mathutil.Vec2, radius float64) []*Enemy {
	var out []*Enemy
	m.enemies.ForEachAlive(func(e *Enemy) {
		if mathutil.Dist(center, e.Pos) <= radius+e.Size {
			out = append(out, e)
		}
	})
	return out
}

func (m *mockWorld) tick(step time.Duration) {
	m.now += step
	m.enemies.ForEachAlive(func(e *Enemy) { e.Update(m) })
}

const tickStep = time.Second / 60

func TestTierFrozenAtSpawn(t *testing.T) {
	w := newMockWorld(config.Default())
	e, ok := w.SpawnEnemy(KindStandard, mathutil.V(100, 0), difficulty.Tier{Speed: 1.5, HP: 2, Damage: 1.25})
	require.True(t, ok)
	assert.Equal(t, 30.0, e.MaxHP)
	assert.Equal(t, 30.0, e.HP)
	assert.InDelta(t, 1.8, e.Speed, 1e-9)
	assert.Equal(t, 10.0, e.Damage)

	e.TakeDamage(35)
	assert.LessOrEqual(t, e.HP, 0.0)
}

func TestSequentialShieldsAbsorbFirst(t *testing.T) {
	w := newMockWorld(config.Default())
	boss, ok := w.SpawnEnemy(KindColossus, mathutil.V(0, 0), difficulty.Baseline())
	require.True(t, ok)
	require.Equal(t, []float64{300, 300, 300}, boss.Shields)

	boss.TakeDamage(100)
	assert.Equal(t, []float64{200, 300, 300}, boss.Shields)
	assert.Equal(t, boss.MaxHP, boss.HP)

	// excess past the active layer is lost, the next layer stays intact
	boss.TakeDamage(250)
	assert.Equal(t, []float64{0, 300, 300}, boss.Shields)
	assert.Equal(t, 1, boss.ActiveShield())

	boss.TakeDamage(300)
	boss.TakeDamage(300)
	assert.Equal(t, -1, boss.ActiveShield())
	assert.Equal(t, boss.MaxHP, boss.HP)

	boss.TakeDamage(40)
	assert.Equal(t, boss.MaxHP-40, boss.HP)
}

func TestStatusEffectsRevertOnExpiry(t *testing.T) {
	w := newMockWorld(config.Default())
	w.player = mathutil.V(1000, 0)
	e, _ := w.SpawnEnemy(KindStandard, mathutil.V(0, 0), difficulty.Baseline())

	e.ApplySlow(0.5, 100*time.Millisecond)
	assert.InDelta(t, e.Speed*0.5, e.EffectiveSpeed(), 1e-9)
	for w.now < 100*time.Millisecond {
		w.tick(tickStep)
	}
	assert.False(t, e.Slowed())
	assert.Equal(t, e.Speed, e.EffectiveSpeed())

	e.ApplyStun(w.now + 50*time.Millisecond)
	start := e.Pos
	w.tick(tickStep)
	assert.Equal(t, start, e.Pos, "stunned enemies do not move")
	for i := 0; i < 4; i++ {
		w.tick(tickStep)
	}
	assert.False(t, e.Stunned())
	w.tick(tickStep)
	assert.NotEqual(t, start, e.Pos)
}

func TestContactDamageRespectsInterval(t *testing.T) {
	cfg := config.Default()
	w := newMockWorld(cfg)
	tank, _ := w.SpawnEnemy(KindTank, mathutil.V(5, 0), difficulty.Baseline())
	for i := 0; i < 30; i++ { // half a second
		w.tick(tickStep)
	}
	assert.Equal(t, tank.Damage, w.damageTaken)
	assert.Equal(t, 1, w.knockbacks)
	w.tick(tickStep)
	w.tick(tickStep)
	assert.Equal(t, 2*tank.Damage, w.damageTaken)
}

func TestHealerSkipsBossesAndCapsAtMax(t *testing.T) {
	w := newMockWorld(config.Default())
	w.player = mathutil.V(2000, 2000)
	healer, _ := w.SpawnEnemy(KindHealer, mathutil.V(0, 0), difficulty.Baseline())
	hurt, _ := w.SpawnEnemy(KindStandard, mathutil.V(20, 0), difficulty.Baseline())
	boss, _ := w.SpawnEnemy(KindColossus, mathutil.V(0, 40), difficulty.Baseline())
	hurt.HP = 1
	boss.HP = 10

	w.now = healer.nextHeal
	healer.Update(w)
	assert.InDelta(t, 1+hurt.MaxHP*0.1, hurt.HP, 1e-9)
	assert.Equal(t, 10.0, boss.HP)

	hurt.HP = hurt.MaxHP - 0.1
	w.now = healer.nextHeal
	healer.Update(w)
	assert.Equal(t, hurt.MaxHP, hurt.HP)
}

func TestSplitterGenerations(t *testing.T) {
	w := newMockWorld(config.Default())
	root, _ := w.SpawnEnemy(KindSplitter, mathutil.V(0, 0), difficulty.Tier{Speed: 1, HP: 2, Damage: 1})
	assert.Equal(t, 80.0, root.MaxHP)

	// generation 1 -> two of generation 2 -> four of generation 3, which do not split
	queue := []*Enemy{root}
	killed := 0
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		before := len(w.spawned)
		require.True(t, e.MarkDead())
		e.OnDeath(w)
		killed++
		for _, child := range w.spawned[before:] {
			assert.Equal(t, e.Generation+1, child.Generation)
			assert.Equal(t, e.MaxHP/2, child.MaxHP)
			assert.Equal(t, e.Tier, child.Tier)
			queue = append(queue, child)
		}
	}
	assert.Equal(t, 7, killed)
	assert.Empty(t, w.enemies.Alive())
}

func TestTeleporterCycle(t *testing.T) {
	cfg := config.Default()
	w := newMockWorld(cfg)
	w.player = mathutil.V(1000, 1000)
	e, _ := w.SpawnEnemy(KindTeleporter, mathutil.V(0, 0), difficulty.Baseline())

	total := cfg.Enemies.Teleporter.Idle.Duration() + cfg.Enemies.Teleporter.Prepare.Duration() + 2*tickStep
	for w.now < total {
		w.tick(tickStep)
	}
	assert.Equal(t, subAttack, e.state)
	assert.InDelta(t, cfg.Enemies.Teleporter.Range, mathutil.Dist(e.Pos, w.player), 1e-6)
	assert.Len(t, w.hazards, cfg.Enemies.Teleporter.BoltCount)
}

func TestRangedEnemyBacksOffOnlyToTheWall(t *testing.T) {
	w := newMockWorld(config.Default())
	w.bounds = mathutil.Rect{MaxX: 2000, MaxY: 2000}
	w.player = mathutil.V(60, 1000)
	e, ok := w.SpawnEnemy(KindRanged, mathutil.V(20, 1000), difficulty.Baseline())
	require.True(t, ok)

	for i := 0; i < 600; i++ {
		w.tick(tickStep)
		require.True(t, w.bounds.Contains(e.Pos), "tick %d: enemy at %v", i, e.Pos)
	}
	require.NotEmpty(t, w.hazards)
	for _, h := range w.hazards {
		assert.True(t, w.bounds.Contains(h.Pos), "bolt fired from %v", h.Pos)
	}
}

func TestTeleporterLandsInsideBounds(t *testing.T) {
	w := newMockWorld(config.Default())
	w.bounds = mathutil.Rect{MaxX: 2000, MaxY: 2000}
	w.player = mathutil.V(20, 20)
	e, ok := w.SpawnEnemy(KindTeleporter, mathutil.V(400, 400), difficulty.Baseline())
	require.True(t, ok)

	teleports := 0
	for i := 0; i < 3000; i++ {
		before := e.state
		w.tick(tickStep)
		if before == subPrepare && e.state == subAttack {
			teleports++
		}
		require.True(t, w.bounds.Contains(e.Pos), "tick %d: teleporter at %v", i, e.Pos)
	}
	assert.Positive(t, teleports)
}

func TestHazardBoltHitsPlayerOnce(t *testing.T) {
	w := newMockWorld(config.Default())
	bolt := NewBolt(mathutil.V(-30, 0), mathutil.V(5, 0), 6, 7, time.Second)
	removed := false
	for i := 0; i < 10 && !removed; i++ {
		w.now += tickStep
		removed = bolt.Update(w)
	}
	assert.True(t, removed)
	assert.Equal(t, 7.0, w.damageTaken)
}

func TestHazardRingHitsOnceThenExpires(t *testing.T) {
	w := newMockWorld(config.Default())
	w.player = mathutil.V(100, 0)
	ring := NewRing(mathutil.V(0, 0), 8, 400, 20)
	ticks := 0
	for !ring.Update(w) {
		ticks++
	}
	assert.Equal(t, 20.0, w.damageTaken)
	assert.Equal(t, 49, ticks)
}

func TestHazardRiftTicks(t *testing.T) {
	w := newMockWorld(config.Default())
	rift := NewRift(mathutil.V(0, 0), 120, 3, 500*time.Millisecond, time.Second)
	for w.now = 0; w.now < 2*time.Second; w.now += tickStep {
		if rift.Update(w) {
			break
		}
	}
	assert.Equal(t, 6.0, w.damageTaken, "ticks at 0ms and 500ms")
}
