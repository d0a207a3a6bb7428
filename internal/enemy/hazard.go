package enemy

import (
	"math"
	"time"

	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

type HazardKind string

const (
	HazardBolt HazardKind = "bolt" // moving shot, removed on hit
	HazardRing HazardKind = "ring" // expanding shockwave, hits once
	HazardRift HazardKind = "rift" // static zone with periodic damage
)

// HazardWorld is what hostile effects need from the simulation.
type HazardWorld interface {
	Now() time.Duration
	PlayerPos() mathutil.Vec2
	PlayerRadius() float64
	DamagePlayer(amount float64)
	Bounds() mathutil.Rect
}

// Hazard is an enemy-owned effect that damages the player.
type Hazard struct {
	registry.Base
	Kind    HazardKind
	Pos     mathutil.Vec2
	Vel     mathutil.Vec2
	Size    float64
	Damage  float64
	Expires time.Duration

	// ring
	MaxRadius float64
	Growth    float64
	hit       bool

	// rift
	TickEvery time.Duration
	nextTick  time.Duration
}

func NewBolt(pos, vel mathutil.Vec2, radius, damage float64, expires time.Duration) *Hazard {
	return &Hazard{Kind: HazardBolt, Pos: pos, Vel: vel, Size: radius, Damage: damage, Expires: expires}
}

func NewRing(center mathutil.Vec2, growth, maxRadius, damage float64) *Hazard {
	return &Hazard{Kind: HazardRing, Pos: center, Growth: growth, MaxRadius: maxRadius, Damage: damage}
}

func NewRift(center mathutil.Vec2, radius, damage float64, every, expires time.Duration) *Hazard {
	return &Hazard{Kind: HazardRift, Pos: center, Size: radius, Damage: damage, TickEvery: every, Expires: expires}
}

func (h *Hazard) Position() mathutil.Vec2 { return h.Pos }
func (h *Hazard) Radius() float64         { return h.Size }

// Update advances the hazard and reports whether it should be removed.
func (h *Hazard) Update(w HazardWorld) bool {
	now := w.Now()
	switch h.Kind {
	case HazardBolt:
		h.Pos = h.Pos.Add(h.Vel)
		if now >= h.Expires || !w.Bounds().Contains(h.Pos) {
			return true
		}
		r := h.Size + w.PlayerRadius()
		if mathutil.DistSq(h.Pos, w.PlayerPos()) < r*r {
			w.DamagePlayer(h.Damage)
			return true
		}
	case HazardRing:
		h.Size += h.Growth
		if !h.hit {
			d := mathutil.Dist(h.Pos, w.PlayerPos())
			if math.Abs(d-h.Size) <= w.PlayerRadius()+h.Growth/2 {
				h.hit = true
				w.DamagePlayer(h.Damage)
			}
		}
		return h.Size >= h.MaxRadius
	case HazardRift:
		if now >= h.Expires {
			return true
		}
		if now >= h.nextTick {
			h.nextTick = now + h.TickEvery
			r := h.Size + w.PlayerRadius()
			if mathutil.DistSq(h.Pos, w.PlayerPos()) < r*r {
				w.DamagePlayer(h.Damage)
			}
		}
	}
	return false
}
