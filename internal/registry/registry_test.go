package registry

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thing struct {
	Base
	visits int
}

func newThings(seq *Sequence, n int) (*Collection[*thing], []*thing) {
	c := NewCollection[*thing]()
	all := make([]*thing, n)
	for i := range all {
		all[i] = &thing{Base: Base{ID: seq.Next()}}
		c.Add(all[i])
	}
	return c, all
}

func TestMarkDeadOnlyOnce(t *testing.T) {
	var seq Sequence
	c, all := newThings(&seq, 1)
	assert.True(t, c.MarkDead(all[0].ID))
	assert.False(t, c.MarkDead(all[0].ID))
	assert.False(t, all[0].MarkDead())
	assert.False(t, c.MarkDead(999))
}

func TestRemovalDuringPassVisitsEachOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		var seq Sequence
		c, all := newThings(&seq, 40)
		c.ForEachAlive(func(th *thing) {
			th.visits++
			// kill the current entity or a neighbor that was already visited
			switch rng.Intn(3) {
			case 0:
				th.MarkDead()
			case 1:
				idx := int(th.ID) // IDs start at 1, so this is the next index
				if idx < len(all) {
					all[idx].MarkDead()
				}
			}
			c.Add(&thing{Base: Base{ID: seq.Next()}})
		})
		for _, th := range all {
			assert.Equal(t, 1, th.visits, "entity %d", th.ID)
		}
	}
}

func TestFlaggedAheadIsSkipped(t *testing.T) {
	var seq Sequence
	c, all := newThings(&seq, 5)
	var order []ID
	c.ForEachAlive(func(th *thing) {
		order = append(order, th.ID)
		if th.ID == 4 {
			all[1].MarkDead() // id 2, not yet visited
		}
	})
	assert.Equal(t, []ID{5, 4, 3, 1}, order)
}

func TestAddDuringPassNotVisited(t *testing.T) {
	var seq Sequence
	c, _ := newThings(&seq, 3)
	visited := 0
	c.ForEachAlive(func(th *thing) {
		visited++
		c.Add(&thing{Base: Base{ID: seq.Next()}})
	})
	assert.Equal(t, 3, visited)
	assert.Equal(t, 6, c.Len())
}

func TestCompactAndStaleLookup(t *testing.T) {
	var seq Sequence
	c, all := newThings(&seq, 4)
	all[1].MarkDead()
	all[3].MarkDead()

	_, ok := c.Get(all[1].ID)
	assert.False(t, ok, "dead entity must not resolve")
	assert.Equal(t, 2, c.CountAlive())

	require.Equal(t, 2, c.Compact())
	assert.Equal(t, 2, c.Len())
	got, ok := c.Get(all[2].ID)
	require.True(t, ok)
	assert.Same(t, all[2], got)
	_, ok = c.Get(all[3].ID)
	assert.False(t, ok)

	alive := c.Alive()
	require.Len(t, alive, 2)
	assert.Equal(t, ID(1), alive[0].ID)
	assert.Equal(t, ID(3), alive[1].ID)
}

func TestFind(t *testing.T) {
	var seq Sequence
	c, all := newThings(&seq, 3)
	all[2].MarkDead()
	found, ok := c.Find(func(th *thing) bool { return th.ID >= 2 })
	require.True(t, ok)
	assert.Equal(t, ID(2), found.ID)
	c.Clear()
	assert.Equal(t, 0, c.Len())
}
