package game

import (
	"fmt"
	"time"

	"nightfall/internal/config"
	"nightfall/internal/mathutil"
	"nightfall/internal/weapons"
)

// Player is the single controlled character.
type Player struct {
	Pos         mathutil.Vec2
	HP          float64
	MaxHP       float64
	Speed       float64
	Radius      float64
	Level       int
	XP          int
	XPToLevel   int
	MagnetBonus float64
	Weapons     []*weapons.Weapon
	Ultimate    *weapons.Ultimate

	intent      mathutil.Vec2
	dashDir     mathutil.Vec2
	dashUntil   time.Duration
	dashReadyAt time.Duration

	cfg *config.PlayerConfig
}

func newPlayer(cfg *config.PlayerConfig, pos mathutil.Vec2) (*Player, error) {
	ult, err := weapons.NewUltimate(cfg.Ultimate)
	if err != nil {
		return nil, err
	}
	p := &Player{
		Pos:      pos,
		HP:       cfg.MaxHP,
		MaxHP:    cfg.MaxHP,
		Speed:    cfg.Speed,
		Radius:   cfg.Radius,
		Level:    1,
		Ultimate: ult,
		cfg:      cfg,
	}
	p.XPToLevel = p.xpFor(1)
	return p, nil
}

// xpFor is the xp needed to leave level.
func (p *Player) xpFor(level int) int {
	return p.cfg.XPBase + (level-1)*p.cfg.XPGrowth
}

// AddXP adds xp, carrying overflow, and returns the levels gained.
func (p *Player) AddXP(amount int) int {
	if amount <= 0 {
		return 0
	}
	p.XP += amount
	gained := 0
	for p.XP >= p.XPToLevel {
		p.XP -= p.XPToLevel
		p.Level++
		p.XPToLevel = p.xpFor(p.Level)
		gained++
	}
	return gained
}

func (p *Player) Heal(amount float64) {
	p.HP += amount
	if p.HP > p.MaxHP {
		p.HP = p.MaxHP
	}
}

func (p *Player) Dashing(now time.Duration) bool { return now < p.dashUntil }

func (p *Player) DashCooldownRemaining(now time.Duration) time.Duration {
	return mathutil.ClampDuration(p.dashReadyAt - now)
}

// Invulnerable while dashing or under divine shield.
func (p *Player) Invulnerable(now time.Duration) bool {
	if p.Dashing(now) {
		return true
	}
	return p.Ultimate.Active && p.Ultimate.Type == weapons.DivineShield
}

// startDash begins a dash along dir. A zero dir falls back to the current
// movement intent.
func (p *Player) startDash(dir mathutil.Vec2, now time.Duration) error {
	if now < p.dashReadyAt {
		return fmt.Errorf("dash: %w (%v left)", ErrOnCooldown, p.DashCooldownRemaining(now))
	}
	if dir.LenSq() == 0 {
		dir = p.intent
	}
	if dir.LenSq() == 0 {
		dir = mathutil.V(1, 0)
	}
	p.dashDir = dir.Normalize()
	p.dashUntil = now + p.cfg.Dash.Duration.Duration()
	p.dashReadyAt = now + p.cfg.Dash.Cooldown.Duration()
	return nil
}

// move advances one tick of movement inside bounds.
func (p *Player) move(now time.Duration, bounds mathutil.Rect) {
	var step mathutil.Vec2
	if p.Dashing(now) {
		step = p.dashDir.Scale(p.Speed * p.cfg.Dash.SpeedMultiplier)
	} else if p.intent.LenSq() > 0 {
		step = p.intent.Scale(p.Speed)
	}
	p.Pos = bounds.ClampPoint(p.Pos.Add(step))
}

func (p *Player) HasWeapon(t weapons.Type) bool {
	for _, w := range p.Weapons {
		if w.Type == t {
			return true
		}
	}
	return false
}

func (p *Player) weapon(t weapons.Type) (*weapons.Weapon, bool) {
	for _, w := range p.Weapons {
		if w.Type == t {
			return w, true
		}
	}
	return nil, false
}

func (p *Player) addWeapon(w *weapons.Weapon) error {
	if p.HasWeapon(w.Type) {
		return fmt.Errorf("weapon %s already equipped", w.Type)
	}
	if len(p.Weapons) >= p.cfg.MaxWeapons {
		return fmt.Errorf("weapon slots full (%d)", p.cfg.MaxWeapons)
	}
	p.Weapons = append(p.Weapons, w)
	return nil
}
