package view

import (
	"image/color"
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"nightfall/internal/enemy"
	"nightfall/internal/mathutil"
	"nightfall/internal/reward"
	"nightfall/internal/weapons"
)

var (
	colorBackground = color.RGBA{18, 16, 24, 255}
	colorGrid       = color.RGBA{34, 30, 44, 255}
	colorBorder     = color.RGBA{120, 40, 40, 255}
	colorPlayer     = color.RGBA{235, 235, 245, 255}
	colorDashing    = color.RGBA{140, 200, 255, 255}
	colorShield     = color.RGBA{255, 220, 120, 255}
	colorHazard     = color.RGBA{255, 70, 120, 255}
	colorXPOrb      = color.RGBA{80, 200, 255, 255}
	colorChest      = color.RGBA{220, 170, 40, 255}
	colorBox        = color.RGBA{190, 90, 230, 255}
	colorHPBack     = color.RGBA{60, 10, 10, 220}
	colorHPFront    = color.RGBA{220, 40, 40, 255}
	colorShieldBar  = color.RGBA{90, 160, 255, 255}
)

const gridSpacing = 128

// camera maps world coordinates to the screen, centered on the player.
type camera struct {
	origin mathutil.Vec2
}

func newCamera(center mathutil.Vec2, w, h int) camera {
	return camera{origin: center.Sub(mathutil.V(float64(w)/2, float64(h)/2))}
}

func (c camera) toScreen(p mathutil.Vec2) (float32, float32) {
	return float32(p.X - c.origin.X), float32(p.Y - c.origin.Y)
}

func (g *Game) drawWorld(screen *ebiten.Image, cam camera) {
	g.drawGrid(screen, cam)
	s := &g.snap

	for _, d := range s.Drops {
		x, y := cam.toScreen(d.Pos)
		switch d.Kind {
		case reward.KindXPOrb:
			vector.DrawFilledCircle(screen, x, y, 4, colorXPOrb, true)
		case reward.KindChest:
			vector.DrawFilledRect(screen, x-10, y-8, 20, 16, colorChest, false)
		case reward.KindMysteryBox:
			vector.DrawFilledRect(screen, x-8, y-8, 16, 16, colorBox, false)
		}
	}

	for _, h := range s.Hazards {
		x, y := cam.toScreen(h.Pos)
		if h.Kind == enemy.HazardBolt {
			vector.DrawFilledCircle(screen, x, y, float32(h.Radius), colorHazard, true)
		} else {
			vector.StrokeCircle(screen, x, y, float32(h.Radius), 2, colorHazard, true)
		}
	}

	for _, e := range s.Enemies {
		x, y := cam.toScreen(e.Pos)
		c := paletteColor(e.Palette)
		if e.Stunned {
			c = color.RGBA{200, 200, 200, 255}
		}
		vector.DrawFilledCircle(screen, x, y, float32(e.Radius), c, true)
		if e.Slowed {
			vector.StrokeCircle(screen, x, y, float32(e.Radius)+2, 1, colorXPOrb, true)
		}
		if e.Boss || e.HP < e.MaxHP {
			drawBar(screen, x-float32(e.Radius), y-float32(e.Radius)-8, float32(2*e.Radius), e.HP/e.MaxHP, colorHPFront)
		}
		if e.Shield > 0 {
			vector.StrokeCircle(screen, x, y, float32(e.Radius)+4, 2, colorShieldBar, true)
		}
	}

	for _, t := range weapons.AllTypes {
		c := weaponColor(t)
		for _, fx := range s.Effects[t] {
			x, y := cam.toScreen(fx.Pos)
			switch t.Category() {
			case weapons.CategoryChain:
				for i := 1; i < len(fx.Points); i++ {
					x0, y0 := cam.toScreen(fx.Points[i-1])
					x1, y1 := cam.toScreen(fx.Points[i])
					vector.StrokeLine(screen, x0, y0, x1, y1, 2, c, true)
				}
			case weapons.CategoryArea, weapons.CategoryBurst:
				vector.StrokeCircle(screen, x, y, float32(fx.Radius), 2, c, true)
			default:
				vector.DrawFilledCircle(screen, x, y, float32(fx.Radius), c, true)
			}
		}
	}

	p := s.Player
	px, py := cam.toScreen(p.Pos)
	pc := colorPlayer
	if p.Dashing {
		pc = colorDashing
	}
	vector.DrawFilledCircle(screen, px, py, float32(p.Radius), pc, true)
	if p.Invulnerable && !p.Dashing {
		vector.StrokeCircle(screen, px, py, float32(p.Radius)+5, 2, colorShield, true)
	}

	for _, f := range g.flashes {
		x, y := cam.toScreen(f.pos)
		c := f.color
		c.A = uint8(min(255, f.ttl*12))
		vector.StrokeCircle(screen, x, y, float32(f.life-f.ttl)+6, 2, c, true)
	}
}

func (g *Game) drawGrid(screen *ebiten.Image, cam camera) {
	b := g.snap.Bounds
	w, h := float32(screen.Bounds().Dx()), float32(screen.Bounds().Dy())
	startX := float64(int(cam.origin.X/gridSpacing)) * gridSpacing
	for x := startX; x < cam.origin.X+float64(w); x += gridSpacing {
		sx, _ := cam.toScreen(mathutil.V(x, 0))
		vector.StrokeLine(screen, sx, 0, sx, h, 1, colorGrid, false)
	}
	startY := float64(int(cam.origin.Y/gridSpacing)) * gridSpacing
	for y := startY; y < cam.origin.Y+float64(h); y += gridSpacing {
		_, sy := cam.toScreen(mathutil.V(0, y))
		vector.StrokeLine(screen, 0, sy, w, sy, 1, colorGrid, false)
	}
	x0, y0 := cam.toScreen(mathutil.V(b.MinX, b.MinY))
	x1, y1 := cam.toScreen(mathutil.V(b.MaxX, b.MaxY))
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 3, colorBorder, false)
}

func drawBar(screen *ebiten.Image, x, y, w float32, frac float64, front color.Color) {
	frac = mathutil.Clamp01(frac)
	vector.DrawFilledRect(screen, x, y, w, 4, colorHPBack, false)
	vector.DrawFilledRect(screen, x, y, w*float32(frac), 4, front, false)
}

func paletteColor(p [3]int) color.RGBA {
	return color.RGBA{uint8(p[0]), uint8(p[1]), uint8(p[2]), 255}
}

func weaponColor(t weapons.Type) color.RGBA {
	return paletteColor(t.Color())
}

func bossName(k enemy.Kind) string {
	switch k {
	case enemy.KindColossus:
		return "The Colossus"
	case enemy.KindVoidLord:
		return "The Void Lord"
	default:
		return string(k)
	}
}

func itoa(n int) string { return strconv.Itoa(n) }
