package view

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"nightfall/internal/game"
	"nightfall/internal/mathutil"
)

var choiceKeys = []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3}

// handleInput maps keys to commands. Rejected commands are shown briefly.
func (g *Game) handleInput() {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.showDebug = !g.showDebug
	}
	if g.sim.GameOver() {
		if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
			g.report(g.sim.Reset())
			g.flashes = nil
		}
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.report(g.sim.TogglePause())
	}
	if g.sim.Paused() {
		return
	}
	if g.sim.LevelUpPending() {
		for i, k := range choiceKeys {
			if inpututil.IsKeyJustPressed(k) {
				g.report(g.sim.ChooseUpgrade(i))
			}
		}
		return
	}

	dir := movementIntent(ebiten.IsKeyPressed)
	g.report(g.sim.SetMovement(dir))
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft) {
		g.report(g.sim.Dash(dir))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.report(g.sim.ActivateUltimate())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		_, err := g.sim.InteractNearest()
		g.report(err)
	}
}

// movementIntent reads WASD and arrow keys into a direction.
func movementIntent(pressed func(ebiten.Key) bool) mathutil.Vec2 {
	var dir mathutil.Vec2
	if pressed(ebiten.KeyW) || pressed(ebiten.KeyArrowUp) {
		dir.Y--
	}
	if pressed(ebiten.KeyS) || pressed(ebiten.KeyArrowDown) {
		dir.Y++
	}
	if pressed(ebiten.KeyA) || pressed(ebiten.KeyArrowLeft) {
		dir.X--
	}
	if pressed(ebiten.KeyD) || pressed(ebiten.KeyArrowRight) {
		dir.X++
	}
	return dir
}

func (g *Game) report(err error) {
	if err == nil {
		return
	}
	g.log.Debug("command rejected", "error", err)
	switch {
	case errors.Is(err, game.ErrOnCooldown):
		g.lastError = "Not ready"
	case errors.Is(err, game.ErrOutOfRange):
		g.lastError = "Too far away"
	case errors.Is(err, game.ErrNotFound):
		g.lastError = "Nothing to open"
	default:
		return
	}
	g.errorTTL = 60
}
