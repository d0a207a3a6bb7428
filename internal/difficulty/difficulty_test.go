package difficulty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nightfall/internal/config"
)

func newTestModel() *Model {
	return NewModel(config.Default().Difficulty)
}

func TestIntervalFloors(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, 0, m.Interval(0))
	assert.Equal(t, 0, m.Interval(59*time.Second))
	assert.Equal(t, 1, m.Interval(60*time.Second))
	assert.Equal(t, 5, m.Interval(5*time.Minute+59*time.Second))
}

func TestSpawnIntervalDecaysToFloor(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, time.Second, m.SpawnInterval(0))
	// 1000ms * 0.96^5 = 815.37ms
	assert.InDelta(t, 815.37, float64(m.SpawnInterval(5*time.Minute))/float64(time.Millisecond), 0.01)
	assert.Equal(t, 250*time.Millisecond, m.SpawnInterval(90*time.Minute))
}

func TestMaxEnemiesCapped(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, 30, m.MaxEnemies(0))
	assert.Equal(t, 80, m.MaxEnemies(5*time.Minute))
	assert.Equal(t, 150, m.MaxEnemies(12*time.Minute))
	assert.Equal(t, 150, m.MaxEnemies(3*time.Hour))
}

func TestSampleMonotonicAndCapped(t *testing.T) {
	m := newTestModel()
	cfg := config.Default().Difficulty
	prev := m.Sample(0)
	assert.Equal(t, Tier{Speed: 1, HP: 1, Damage: 1}, prev)
	prevSpawn := m.SpawnInterval(0)
	prevMax := m.MaxEnemies(0)
	for s := 1; s <= 3*60*60; s += 7 {
		elapsed := time.Duration(s) * time.Second
		cur := m.Sample(elapsed)
		assert.GreaterOrEqual(t, cur.Speed, prev.Speed)
		assert.GreaterOrEqual(t, cur.HP, prev.HP)
		assert.GreaterOrEqual(t, cur.Damage, prev.Damage)
		assert.LessOrEqual(t, cur.Speed, cfg.SpeedCap)
		assert.LessOrEqual(t, cur.HP, cfg.HPCap)
		assert.LessOrEqual(t, cur.Damage, cfg.DamageCap)

		spawn := m.SpawnInterval(elapsed)
		assert.LessOrEqual(t, spawn, prevSpawn)
		assert.GreaterOrEqual(t, spawn, cfg.SpawnFloor.Duration())
		limit := m.MaxEnemies(elapsed)
		assert.GreaterOrEqual(t, limit, prevMax)

		prev, prevSpawn, prevMax = cur, spawn, limit
	}
	assert.Equal(t, cfg.SpeedCap, prev.Speed)
	assert.Equal(t, cfg.HPCap, prev.HP)
	assert.Equal(t, cfg.DamageCap, prev.Damage)
}

func TestHPScalingScenario(t *testing.T) {
	m := newTestModel()
	// hp_rate 0.1: ten minutes doubles hp
	tier := m.Sample(10 * time.Minute)
	assert.InDelta(t, 2.0, tier.HP, 1e-9)
	assert.InDelta(t, 30.0, 15*tier.HP, 1e-9)
}

func TestBaselineIsTierZero(t *testing.T) {
	m := newTestModel()
	assert.Equal(t, Baseline(), m.Sample(0))
	assert.Equal(t, Baseline(), m.Sample(59*time.Second))
}
