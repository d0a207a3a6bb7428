package view

import (
	"image/color"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightfall/internal/config"
	"nightfall/internal/enemy"
	"nightfall/internal/game"
	"nightfall/internal/mathutil"
	"nightfall/internal/monitoring"
)

func TestMovementIntent(t *testing.T) {
	held := map[ebiten.Key]bool{ebiten.KeyW: true, ebiten.KeyArrowRight: true}
	dir := movementIntent(func(k ebiten.Key) bool { return held[k] })
	assert.Equal(t, mathutil.V(1, -1), dir)

	held = map[ebiten.Key]bool{ebiten.KeyA: true, ebiten.KeyD: true}
	dir = movementIntent(func(k ebiten.Key) bool { return held[k] })
	assert.Equal(t, mathutil.Vec2{}, dir, "opposite keys cancel")
}

func TestCameraCentersOnPlayer(t *testing.T) {
	cam := newCamera(mathutil.V(1000, 500), 800, 600)
	x, y := cam.toScreen(mathutil.V(1000, 500))
	assert.Equal(t, float32(400), x)
	assert.Equal(t, float32(300), y)

	x, y = cam.toScreen(mathutil.V(1010, 480))
	assert.Equal(t, float32(410), x)
	assert.Equal(t, float32(280), y)
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, color.RGBA{10, 20, 30, 255}, paletteColor([3]int{10, 20, 30}))
	assert.Equal(t, "02:05", formatClock(125*time.Second))
	assert.Equal(t, "00:00", formatClock(0))
	assert.Equal(t, "Heal (rare)", choiceLabel(game.Choice{Description: "Heal", Rarity: "rare"}))
	assert.Equal(t, "Learn a new weapon", choiceLabel(game.Choice{Description: "Learn a new weapon"}))
}

func TestCloseDetachesFromEvents(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Seed = 3
	sim, err := game.New(cfg, nil)
	require.NoError(t, err)
	g := New(sim, nil)

	sim.DamagePlayer(1e6)
	sim.Tick()
	assert.Equal(t, "You have fallen", g.banner)

	g.banner = ""
	g.Close()
	require.NoError(t, sim.Reset())
	sim.DamagePlayer(1e6)
	sim.Tick()
	assert.True(t, sim.GameOver())
	assert.Empty(t, g.banner)
}

func TestTelemetryLines(t *testing.T) {
	boss := game.EnemyView{Kind: enemy.KindVoidLord, Boss: true, Phase: 3, Summons: 2}
	assert.Equal(t, "The Void Lord  phase 3  minions 2", bossLine(boss))
	boss.Summons = 0
	assert.Equal(t, "The Void Lord  phase 3", bossLine(boss))

	a := monitoring.Alert{Message: "Tick ran past its time budget", Value: 40, Threshold: 16.7}
	assert.Equal(t, "Tick ran past its time budget: 40.0 > 16.7", alertLine(a))
}
