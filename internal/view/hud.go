package view

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"nightfall/internal/game"
	"nightfall/internal/monitoring"
)

var (
	colorText     = color.RGBA{230, 230, 230, 255}
	colorDim      = color.RGBA{150, 150, 160, 255}
	colorXPBar    = color.RGBA{80, 200, 255, 255}
	colorPanel    = color.RGBA{0, 0, 0, 170}
	colorBanner   = color.RGBA{255, 200, 80, 255}
	colorError    = color.RGBA{255, 90, 90, 255}
	colorReady    = color.RGBA{120, 230, 120, 255}
	colorRarities = map[string]color.RGBA{
		"common":    {210, 210, 210, 255},
		"rare":      {90, 160, 255, 255},
		"epic":      {190, 90, 230, 255},
		"legendary": {255, 170, 40, 255},
	}
)

const (
	hudPad     = 10
	lineHeight = 16
)

func drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	ebitext.Draw(screen, s, basicfont.Face7x13, x, y, c)
}

// textWidth is exact for the fixed-width face.
func textWidth(s string) int { return len(s) * 7 }

func drawCentered(screen *ebiten.Image, s string, y int, c color.Color) {
	w := screen.Bounds().Dx()
	drawText(screen, s, (w-textWidth(s))/2, y, c)
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	s := &g.snap
	w := screen.Bounds().Dx()
	p := s.Player

	barW := float32(240)
	drawBar(screen, hudPad, hudPad, barW, p.HP/p.MaxHP, colorHPFront)
	drawText(screen, fmt.Sprintf("HP %.0f/%.0f", p.HP, p.MaxHP), hudPad+int(barW)+8, hudPad+6, colorText)

	xpFrac := 0.0
	if p.XPToLevel > 0 {
		xpFrac = float64(p.XP) / float64(p.XPToLevel)
	}
	drawBar(screen, hudPad, hudPad+10, barW, xpFrac, colorXPBar)
	drawText(screen, fmt.Sprintf("Lv %d  XP %d/%d", p.Level, p.XP, p.XPToLevel), hudPad+int(barW)+8, hudPad+20, colorText)

	clock := formatClock(s.Elapsed)
	drawText(screen, clock, (w-textWidth(clock))/2, hudPad+12, colorText)
	kills := "Kills " + itoa(s.Kills)
	drawText(screen, kills, w-textWidth(kills)-hudPad, hudPad+12, colorText)

	y := hudPad + 48
	for _, wv := range s.Weapons {
		c := colorDim
		if wv.CooldownRemaining == 0 {
			c = paletteColor(wv.Color)
		}
		drawText(screen, fmt.Sprintf("%s Lv%d", wv.Name, wv.Level), hudPad, y, c)
		y += lineHeight
	}

	y += 4
	dash := "Dash ready"
	dashColor := colorReady
	if p.DashCooldown > 0 {
		dash = fmt.Sprintf("Dash %.1fs", p.DashCooldown.Seconds())
		dashColor = colorDim
	}
	drawText(screen, dash, hudPad, y, dashColor)
	y += lineHeight

	if s.Ultimate.Type != "" {
		ult := string(s.Ultimate.Type)
		ultColor := colorReady
		switch {
		case s.Ultimate.Active:
			ult += " active"
			ultColor = colorBanner
		case s.Ultimate.CooldownRemaining > 0:
			ult += fmt.Sprintf(" %.0fs", s.Ultimate.CooldownRemaining.Seconds())
			ultColor = colorDim
		default:
			ult += " ready (R)"
		}
		drawText(screen, ult, hudPad, y, ultColor)
	}

	g.drawBossBars(screen)

	if g.bannerTTL > 0 {
		drawCentered(screen, g.banner, 120, colorBanner)
	}
	if g.errorTTL > 0 {
		drawCentered(screen, g.lastError, screen.Bounds().Dy()-40, colorError)
	}

	switch {
	case s.GameOver:
		g.drawGameOver(screen)
	case len(s.PendingChoices) > 0:
		g.drawChoices(screen)
	case s.Paused:
		g.drawOverlay(screen, []string{"Paused", "", "P or Esc to resume"})
	}

	if g.showDebug {
		g.drawDebug(screen)
	}
}

func (g *Game) drawOverlay(screen *ebiten.Image, lines []string) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	boxH := len(lines)*lineHeight + 2*hudPad
	top := (h - boxH) / 2
	vector.DrawFilledRect(screen, float32(w/4), float32(top), float32(w/2), float32(boxH), colorPanel, false)
	for i, l := range lines {
		drawCentered(screen, l, top+hudPad+12+i*lineHeight, colorText)
	}
}

func (g *Game) drawChoices(screen *ebiten.Image) {
	s := &g.snap
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	boxH := (len(s.PendingChoices)+3)*lineHeight*2 + hudPad
	top := (h - boxH) / 2
	vector.DrawFilledRect(screen, float32(w/5), float32(top), float32(3*w/5), float32(boxH), colorPanel, false)

	title := fmt.Sprintf("Level %d", s.Player.Level-s.PendingLevelUps+1)
	if s.PendingLevelUps > 1 {
		title += fmt.Sprintf("  (%d more)", s.PendingLevelUps-1)
	}
	drawCentered(screen, title, top+2*lineHeight, colorBanner)

	y := top + 4*lineHeight
	for i, c := range s.PendingChoices {
		rc, ok := colorRarities[c.Rarity]
		if !ok {
			rc = color.RGBA{210, 210, 210, 255}
		}
		line := fmt.Sprintf("[%d] %s", i+1, choiceLabel(c))
		drawText(screen, line, w/5+2*hudPad, y, rc)
		y += 2 * lineHeight
	}
}

func choiceLabel(c game.Choice) string {
	if c.Rarity == "" {
		return c.Description
	}
	return c.Description + " (" + c.Rarity + ")"
}

func (g *Game) drawGameOver(screen *ebiten.Image) {
	s := &g.snap
	g.drawOverlay(screen, []string{
		"Game Over",
		"",
		"Survived " + formatClock(s.Elapsed),
		fmt.Sprintf("Level %d  Kills %d", s.Player.Level, s.Kills),
		"",
		"Enter to try again",
	})
}

func (g *Game) drawDebug(screen *ebiten.Image) {
	t := g.snap.Telemetry
	d := g.snap.Difficulty
	msg := fmt.Sprintf("up %v  tick avg %v peak %v\nenemies %d effects %d hazards %d drops %d\nhits %d kills %d mem %dMB\ntier %d spd x%.2f hp x%.2f dmg x%.2f\nfps %.0f tps %.0f",
		g.snap.Uptime.Round(time.Second), t.AverageTick.Round(time.Microsecond), t.PeakTick.Round(time.Microsecond),
		t.Enemies, t.Effects, t.Hazards, t.Drops,
		t.HitsResolved, t.EnemiesKilled, t.MemoryUsageMB,
		d.Interval, d.Speed, d.HP, d.Damage,
		ebiten.ActualFPS(), ebiten.ActualTPS())
	top := screen.Bounds().Dy() - 100
	ebitenutil.DebugPrintAt(screen, msg, hudPad, top)
	for i, a := range g.snap.Alerts {
		drawText(screen, alertLine(a), hudPad, top-8-i*lineHeight, colorError)
	}
}

func alertLine(a monitoring.Alert) string {
	return fmt.Sprintf("%s: %.1f > %.1f", a.Message, a.Value, a.Threshold)
}

// drawBossBars shows each live boss under the clock.
func (g *Game) drawBossBars(screen *ebiten.Image) {
	w := screen.Bounds().Dx()
	barW := float32(w / 3)
	y := hudPad + 34
	for _, e := range g.snap.Enemies {
		if !e.Boss {
			continue
		}
		x := (float32(w) - barW) / 2
		drawBar(screen, x, float32(y), barW, e.HP/e.MaxHP, colorHPFront)
		drawCentered(screen, bossLine(e), y+18, colorBanner)
		y += 2 * lineHeight
	}
}

func bossLine(e game.EnemyView) string {
	line := fmt.Sprintf("%s  phase %d", bossName(e.Kind), e.Phase)
	if e.Summons > 0 {
		line += fmt.Sprintf("  minions %d", e.Summons)
	}
	return line
}

func formatClock(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
