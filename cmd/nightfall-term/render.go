package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"nightfall/internal/enemy"
	"nightfall/internal/game"
	"nightfall/internal/mathutil"
	"nightfall/internal/reward"
	"nightfall/internal/weapons"
)

// World units per terminal cell. Cells are about twice as tall as wide.
const (
	cellW = 16.0
	cellH = 32.0
)

var (
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleWarn   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHazard = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleWall   = tcell.StyleDefault.Foreground(tcell.ColorMaroon)
)

// viewport maps world positions onto a grid of cells centered on the player.
type viewport struct {
	center mathutil.Vec2
	w, h   int
}

func (v viewport) cell(p mathutil.Vec2) (int, int, bool) {
	x := v.w/2 + int((p.X-v.center.X)/cellW)
	y := v.h/2 + int((p.Y-v.center.Y)/cellH)
	return x, y, x >= 0 && x < v.w && y >= 1 && y < v.h-1
}

func (v viewport) world(x, y int) mathutil.Vec2 {
	return mathutil.V(v.center.X+float64(x-v.w/2)*cellW, v.center.Y+float64(y-v.h/2)*cellH)
}

func enemyGlyph(k enemy.Kind) rune {
	switch k {
	case enemy.KindCharger:
		return 'c'
	case enemy.KindSwarm:
		return '.'
	case enemy.KindSplitter:
		return 'o'
	case enemy.KindRanged:
		return 'r'
	case enemy.KindTank:
		return 'T'
	case enemy.KindTeleporter:
		return 't'
	case enemy.KindHealer:
		return '+'
	case enemy.KindColossus:
		return 'C'
	case enemy.KindVoidLord:
		return 'V'
	default:
		return 'z'
	}
}

func dropGlyph(k reward.Kind) rune {
	switch k {
	case reward.KindChest:
		return '$'
	case reward.KindMysteryBox:
		return '?'
	default:
		return '*'
	}
}

func rgb(c [3]int) tcell.Color {
	return tcell.NewRGBColor(int32(c[0]), int32(c[1]), int32(c[2]))
}

func (t *term) put(x, y int, r rune, style tcell.Style) {
	t.screen.SetContent(x, y, r, nil, style)
}

func (t *term) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.put(x+i, y, r, style)
	}
}

func (t *term) draw(s game.Snapshot) {
	t.screen.Clear()
	w, h := t.screen.Size()
	v := viewport{center: s.Player.Pos, w: w, h: h}

	for y := 1; y < h-1; y++ {
		for x := 0; x < w; x++ {
			if !s.Bounds.Contains(v.world(x, y)) {
				t.put(x, y, '#', styleWall)
			}
		}
	}

	for _, d := range s.Drops {
		if x, y, ok := v.cell(d.Pos); ok {
			t.put(x, y, dropGlyph(d.Kind), styleWarn)
		}
	}
	for _, hz := range s.Hazards {
		if x, y, ok := v.cell(hz.Pos); ok {
			t.put(x, y, 'x', styleHazard)
		}
	}
	for _, typ := range weapons.AllTypes {
		style := tcell.StyleDefault.Foreground(rgb(typ.Color()))
		for _, fx := range s.Effects[typ] {
			if x, y, ok := v.cell(fx.Pos); ok {
				t.put(x, y, '~', style)
			}
		}
	}
	for _, e := range s.Enemies {
		if x, y, ok := v.cell(e.Pos); ok {
			style := tcell.StyleDefault.Foreground(rgb(e.Palette))
			if e.Boss {
				style = style.Bold(true).Reverse(true)
			}
			t.put(x, y, enemyGlyph(e.Kind), style)
		}
	}
	if x, y, ok := v.cell(s.Player.Pos); ok {
		t.put(x, y, '@', stylePlayer)
	}

	t.text(0, 0, hudLine(s), styleHUD)
	footer, style := t.footer(s)
	t.text(0, h-1, footer, style)
	t.screen.Show()
}

func hudLine(s game.Snapshot) string {
	p := s.Player
	total := int(s.Elapsed / time.Second)
	line := fmt.Sprintf("%02d:%02d  HP %.0f/%.0f  Lv %d (%d/%d)  Kills %d  Enemies %d",
		total/60, total%60, p.HP, p.MaxHP, p.Level, p.XP, p.XPToLevel, s.Kills, len(s.Enemies))
	if p.DashCooldown > 0 {
		line += fmt.Sprintf("  dash %.1fs", p.DashCooldown.Seconds())
	}
	for _, e := range s.Enemies {
		if e.Boss {
			line += fmt.Sprintf("  %s p%d %.0f%%", e.Kind, e.Phase, 100*e.HP/e.MaxHP)
			if e.Summons > 0 {
				line += fmt.Sprintf(" +%d", e.Summons)
			}
		}
	}
	if s.Ultimate.Active {
		line += "  " + string(s.Ultimate.Type) + "!"
	} else if s.Ultimate.Type != "" && s.Ultimate.CooldownRemaining == 0 {
		line += "  [r] " + string(s.Ultimate.Type)
	}
	return line
}

// alertText reports telemetry warnings with the process uptime.
func alertText(s game.Snapshot) string {
	line := fmt.Sprintf("up %v", s.Uptime.Round(time.Second))
	for _, a := range s.Alerts {
		line += fmt.Sprintf("  %s (%.1f > %.1f)", a.Type, a.Value, a.Threshold)
	}
	return line
}

func (t *term) footer(s game.Snapshot) (string, tcell.Style) {
	switch {
	case s.GameOver:
		return "You have fallen. [enter] again  [q] quit", styleWarn
	case len(s.PendingChoices) > 0:
		line := "Level up:"
		for i, c := range s.PendingChoices {
			line += fmt.Sprintf("  [%d] %s", i+1, c.Description)
		}
		return line, styleHUD
	case s.Paused:
		return "Paused. [esc/p] resume  [q] quit", styleDim
	case len(s.Alerts) > 0:
		return alertText(s), styleWarn
	case t.status != "":
		return t.status, styleDim
	}
	return "[wasd] move  [space] dash  [r] ultimate  [e] open  [p] pause  [q] quit", styleDim
}

func lootMessage(l game.Loot) string {
	switch {
	case l.Upgrade != nil:
		return "found: " + l.Upgrade.Description
	case l.Healed > 0:
		return fmt.Sprintf("healed %.0f", l.Healed)
	case l.XP > 0:
		return fmt.Sprintf("gained %d xp", l.XP)
	}
	return "empty"
}
