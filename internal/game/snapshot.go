package game

import (
	"time"

	"nightfall/internal/difficulty"
	"nightfall/internal/enemy"
	"nightfall/internal/mathutil"
	"nightfall/internal/monitoring"
	"nightfall/internal/registry"
	"nightfall/internal/reward"
	"nightfall/internal/weapons"
)

// Snapshot is a read-only copy of the simulation for renderers. Nothing in
// it aliases simulation state.
type Snapshot struct {
	Session    string
	Elapsed    time.Duration
	Kills      int
	Difficulty difficulty.Tier
	Bounds     mathutil.Rect

	Player   PlayerView
	Weapons  []WeaponView
	Ultimate UltimateView

	Enemies []EnemyView
	Effects map[weapons.Type][]EffectView
	Hazards []HazardView
	Drops   []DropView

	PendingChoices  []Choice
	PendingLevelUps int
	Paused          bool
	GameOver        bool

	Telemetry monitoring.Metrics
	Uptime    time.Duration
	Alerts    []monitoring.Alert
}

type PlayerView struct {
	Pos           mathutil.Vec2
	Radius        float64
	HP, MaxHP     float64
	Speed         float64
	Level         int
	XP, XPToLevel int
	Dashing       bool
	DashCooldown  time.Duration
	Invulnerable  bool
}

type WeaponView struct {
	Type              weapons.Type
	Name              string
	Level             int
	Damage            float64
	Cooldown          time.Duration
	CooldownRemaining time.Duration
	Range             float64
	ProjectileCount   int
	Color             [3]int
}

type UltimateView struct {
	Type              weapons.UltimateType
	Active            bool
	CooldownRemaining time.Duration
}

type EnemyView struct {
	ID      registry.ID
	Kind    enemy.Kind
	Pos     mathutil.Vec2
	Radius  float64
	HP      float64
	MaxHP   float64
	Shield  float64
	Palette [3]int
	Boss    bool
	Phase   int
	State   string
	Summons int
	Slowed  bool
	Stunned bool
}

type EffectView struct {
	ID     registry.ID
	Kind   weapons.Type
	Pos    mathutil.Vec2
	Radius float64
	Points []mathutil.Vec2
}

type HazardView struct {
	ID     registry.ID
	Kind   enemy.HazardKind
	Pos    mathutil.Vec2
	Radius float64
}

type DropView struct {
	ID    registry.ID
	Kind  reward.Kind
	Pos   mathutil.Vec2
	Value int
}

// Snapshot copies the current state. withMemory adds runtime memory stats
// to the telemetry.
func (s *Simulation) Snapshot(withMemory bool) Snapshot {
	p := s.player
	snap := Snapshot{
		Session:    s.session,
		Elapsed:    s.now,
		Kills:      s.kills,
		Difficulty: s.model.Sample(s.now),
		Bounds:     s.bounds,
		Player: PlayerView{
			Pos:          p.Pos,
			Radius:       p.Radius,
			HP:           p.HP,
			MaxHP:        p.MaxHP,
			Speed:        p.Speed,
			Level:        p.Level,
			XP:           p.XP,
			XPToLevel:    p.XPToLevel,
			Dashing:      p.Dashing(s.now),
			DashCooldown: p.DashCooldownRemaining(s.now),
			Invulnerable: p.Invulnerable(s.now),
		},
		Ultimate: UltimateView{
			Type:              p.Ultimate.Type,
			Active:            p.Ultimate.Active,
			CooldownRemaining: p.Ultimate.CooldownRemaining(s.now),
		},
		Effects:         make(map[weapons.Type][]EffectView, len(s.effects)),
		PendingChoices:  s.PendingChoices(),
		PendingLevelUps: len(s.levelUps),
		Paused:          s.paused,
		GameOver:        s.over,
		Telemetry:       s.monitor.GetCurrentMetrics(withMemory),
		Uptime:          s.monitor.Uptime(),
		Alerts:          s.monitor.CheckAlerts(s.step, s.cfg.Simulation.AlertEntityLimit),
	}
	for _, w := range p.Weapons {
		snap.Weapons = append(snap.Weapons, WeaponView{
			Type:              w.Type,
			Name:              w.Type.DisplayName(),
			Level:             w.Level,
			Damage:            w.Damage,
			Cooldown:          w.Cooldown,
			CooldownRemaining: w.CooldownRemaining(s.now),
			Range:             w.Range,
			ProjectileCount:   w.ProjectileCount,
			Color:             w.Type.Color(),
		})
	}
	for _, e := range s.enemies.Alive() {
		v := EnemyView{
			ID:      e.ID,
			Kind:    e.Kind,
			Pos:     e.DrawPosition(),
			Radius:  e.Size,
			HP:      e.HP,
			MaxHP:   e.MaxHP,
			Shield:  e.ShieldTotal(),
			Palette: e.Palette,
			Slowed:  e.Slowed(),
			Stunned: e.Stunned(),
		}
		if e.Boss != nil {
			v.Boss = true
			v.Phase = e.Boss.Phase()
			v.State = string(e.Boss.State())
			v.Summons = e.Boss.LiveSummons(s.EnemyAlive)
		}
		snap.Enemies = append(snap.Enemies, v)
	}
	for _, t := range weapons.AllTypes {
		for _, fx := range s.effects[t].Alive() {
			v := EffectView{ID: fx.EntityID(), Kind: fx.Kind(), Pos: fx.Position(), Radius: fx.Radius()}
			if seg, ok := fx.(weapons.Segmented); ok {
				v.Points = append([]mathutil.Vec2(nil), seg.Points()...)
			}
			snap.Effects[t] = append(snap.Effects[t], v)
		}
	}
	for _, h := range s.hazards.Alive() {
		snap.Hazards = append(snap.Hazards, HazardView{ID: h.ID, Kind: h.Kind, Pos: h.Pos, Radius: h.Size})
	}
	for _, d := range s.drops.Alive() {
		snap.Drops = append(snap.Drops, DropView{ID: d.ID, Kind: d.Kind, Pos: d.Pos, Value: d.Value})
	}
	return snap
}
