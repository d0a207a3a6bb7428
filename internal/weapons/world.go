package weapons

import (
	"math/rand"
	"time"

	"nightfall/internal/collision"
	"nightfall/internal/enemy"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
)

// World is the simulation surface weapon effects act on.
type World interface {
	Now() time.Duration
	Rand() *rand.Rand
	PlayerPos() mathutil.Vec2
	Bounds() mathutil.Rect
	NextID() registry.ID
	AddEffect(e Effect)
	// Hit applies damage through the resolver and handles a kill exactly once.
	Hit(e *enemy.Enemy, damage float64) collision.Result
	Enemy(id registry.ID) (*enemy.Enemy, bool)
	EnemiesWithin(center mathutil.Vec2, radius float64) []*enemy.Enemy
	NearestEnemy(from mathutil.Vec2, maxRange float64, skip func(*enemy.Enemy) bool) (*enemy.Enemy, bool)
}

// Effect is one live weapon effect. Update reports true when the effect is done.
type Effect interface {
	registry.Entity
	Kind() Type
	Position() mathutil.Vec2
	Radius() float64
	Update(w World) bool
}

// Segmented effects expose line segments for drawing (chain arcs).
type Segmented interface {
	Points() []mathutil.Vec2
}

// effectBase carries the fields every effect shares.
type effectBase struct {
	registry.Base
	kind Type
	pos  mathutil.Vec2
	size float64
}

func (b *effectBase) Kind() Type              { return b.kind }
func (b *effectBase) Position() mathutil.Vec2 { return b.pos }
func (b *effectBase) Radius() float64         { return b.size }

func newBase(w World, kind Type, pos mathutil.Vec2, size float64) effectBase {
	return effectBase{Base: registry.Base{ID: w.NextID()}, kind: kind, pos: pos, size: size}
}

// firstOverlap returns the first live enemy whose body overlaps the circle.
func firstOverlap(w World, pos mathutil.Vec2, radius float64) (*enemy.Enemy, bool) {
	for _, e := range w.EnemiesWithin(pos, radius) {
		if !e.Dead() && collision.OverlapsAt(pos, radius, e) {
			return e, true
		}
	}
	return nil, false
}
