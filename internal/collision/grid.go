package collision

import (
	"math"

	"nightfall/internal/mathutil"
)

// Grid is a uniform spatial hash rebuilt once per tick after movement.
// Queries return candidates in insertion order.
type Grid[T Body] struct {
	cellSize float64
	cells    map[cellKey][]int
	items    []T
	seen     []uint32
	stamp    uint32
}

type cellKey struct {
	X, Y int
}

// NewGrid creates a grid with the given cell size
func NewGrid[T Body](cellSize int) *Grid[T] {
	if cellSize <= 0 {
		cellSize = 128
	}
	return &Grid[T]{
		cellSize: float64(cellSize),
		cells:    make(map[cellKey][]int),
	}
}

// Rebuild replaces the grid contents.
func (g *Grid[T]) Rebuild(items []T) {
	for k, v := range g.cells {
		g.cells[k] = v[:0]
	}
	g.items = items
	if cap(g.seen) < len(items) {
		g.seen = make([]uint32, len(items))
	}
	g.seen = g.seen[:len(items)]
	for i := range g.seen {
		g.seen[i] = 0
	}
	g.stamp = 0
	for i, it := range items {
		g.addToCells(i, it)
	}
}

// Query returns items whose circle reaches within radius of center
// (distance <= radius + item radius).
func (g *Grid[T]) Query(center mathutil.Vec2, radius float64) []T {
	var out []T
	g.stamp++
	minX, minY := g.cellOf(center.X-radius, center.Y-radius)
	maxX, maxY := g.cellOf(center.X+radius, center.Y+radius)
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for _, idx := range g.cells[cellKey{X: cx, Y: cy}] {
				if g.seen[idx] == g.stamp {
					continue
				}
				g.seen[idx] = g.stamp
				it := g.items[idx]
				reach := radius + it.Radius()
				if mathutil.DistSq(center, it.Position()) <= reach*reach {
					out = append(out, it)
				}
			}
		}
	}
	return out
}

func (g *Grid[T]) addToCells(idx int, it T) {
	p, r := it.Position(), it.Radius()
	minX, minY := g.cellOf(p.X-r, p.Y-r)
	maxX, maxY := g.cellOf(p.X+r, p.Y+r)
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			key := cellKey{X: cx, Y: cy}
			g.cells[key] = append(g.cells[key], idx)
		}
	}
}

func (g *Grid[T]) cellOf(x, y float64) (int, int) {
	return int(math.Floor(x / g.cellSize)), int(math.Floor(y / g.cellSize))
}
