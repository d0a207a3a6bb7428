// Package collision resolves circle overlaps and applies damage to targets.
package collision

import (
	"nightfall/internal/mathutil"
)

// Body is anything with a circular footprint.
type Body interface {
	Position() mathutil.Vec2
	Radius() float64
}

// Target is a body that takes damage. TakeDamage consumes exactly the amount
// passed: shields absorb front to back and hp takes the rest.
type Target interface {
	Body
	Dead() bool
	Armor() float64
	TakeDamage(amount float64)
	Health() float64
}

// Result of one damage application. Died is the authoritative death signal.
type Result struct {
	Damage float64
	Died   bool
}

// Overlaps uses a strict inequality: touching circles do not collide.
func Overlaps(a, b Body) bool {
	return OverlapsAt(a.Position(), a.Radius(), b)
}

func OverlapsAt(center mathutil.Vec2, radius float64, b Body) bool {
	r := radius + b.Radius()
	return mathutil.DistSq(center, b.Position()) < r*r
}

// Within reports whether b's center lies inside radius of center.
func Within(center mathutil.Vec2, radius float64, b Body) bool {
	return mathutil.DistSq(center, b.Position()) <= radius*radius
}

// Apply runs mitigation then TakeDamage with no geometry test. Dead targets
// take nothing.
func Apply(target Target, damage float64) Result {
	if target.Dead() || damage <= 0 {
		return Result{}
	}
	dealt := Mitigate(damage, target.Armor())
	target.TakeDamage(dealt)
	return Result{Damage: dealt, Died: target.Health() <= 0}
}

// Mitigate reduces damage by an armor fraction clamped to [0, 1].
func Mitigate(damage, armor float64) float64 {
	return damage * (1 - mathutil.Clamp01(armor))
}

// Nearest returns the live item closest to from within maxRange. skip may be nil.
func Nearest[T Target](items []T, from mathutil.Vec2, maxRange float64, skip func(T) bool) (T, bool) {
	var best T
	found := false
	bestSq := maxRange * maxRange
	for _, it := range items {
		if it.Dead() || (skip != nil && skip(it)) {
			continue
		}
		d := mathutil.DistSq(from, it.Position())
		if d <= bestSq {
			best, bestSq, found = it, d, true
		}
	}
	return best, found
}
