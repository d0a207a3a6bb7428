package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"nightfall/internal/enemy"
	"nightfall/internal/game"
	"nightfall/internal/mathutil"
	"nightfall/internal/monitoring"
)

func TestHeldKeysExpire(t *testing.T) {
	start := time.Unix(100, 0)
	k := newHeldKeys(100 * time.Millisecond)
	k.press('w', start)
	k.press('d', start.Add(50*time.Millisecond))

	assert.Equal(t, mathutil.V(1, -1), k.direction(start.Add(60*time.Millisecond)))
	assert.Equal(t, mathutil.V(1, 0), k.direction(start.Add(120*time.Millisecond)))
	assert.Equal(t, mathutil.Vec2{}, k.direction(start.Add(time.Second)))

	k.press('a', start)
	k.reset()
	assert.Equal(t, mathutil.Vec2{}, k.direction(start))
}

func TestViewportCell(t *testing.T) {
	v := viewport{center: mathutil.V(500, 500), w: 80, h: 24}

	x, y, ok := v.cell(mathutil.V(500, 500))
	assert.True(t, ok)
	assert.Equal(t, 40, x)
	assert.Equal(t, 12, y)

	x, y, ok = v.cell(mathutil.V(500+3*cellW, 500-2*cellH))
	assert.True(t, ok)
	assert.Equal(t, 43, x)
	assert.Equal(t, 10, y)

	_, _, ok = v.cell(mathutil.V(500, 500-12*cellH))
	assert.False(t, ok, "row 0 belongs to the hud")
}

func TestLootMessage(t *testing.T) {
	assert.Equal(t, "healed 20", lootMessage(game.Loot{Healed: 20}))
	assert.Equal(t, "gained 15 xp", lootMessage(game.Loot{XP: 15}))
	assert.Equal(t, "found: Damage +10%", lootMessage(game.Loot{Upgrade: &game.Choice{Description: "Damage +10%"}}))
}

func TestFooterPrefersPromptsOverAlerts(t *testing.T) {
	tm := &term{}
	s := game.Snapshot{
		Uptime: 90 * time.Second,
		Alerts: []monitoring.Alert{{Type: "slow_tick", Value: 40, Threshold: 16.7}},
	}
	line, _ := tm.footer(s)
	assert.Equal(t, "up 1m30s  slow_tick (40.0 > 16.7)", line)

	s.GameOver = true
	line, _ = tm.footer(s)
	assert.Contains(t, line, "You have fallen")
}

func TestHUDLineShowsBosses(t *testing.T) {
	s := game.Snapshot{Enemies: []game.EnemyView{
		{Kind: enemy.KindColossus, Boss: true, Phase: 2, HP: 50, MaxHP: 200, Summons: 3},
		{Kind: enemy.KindStandard, HP: 1, MaxHP: 1},
	}}
	assert.Contains(t, hudLine(s), "colossus p2 25% +3")
}
