// Package registry holds the ordered per-category collections the simulation
// mutates during a tick.
//
// Removal is two-phase: MarkDead flags an entity, iteration skips flagged
// entities, and Compact drops them once the tick's passes are over. Passes
// walk each collection in reverse index order and only see the members that
// existed when the pass began, so appending or flagging during a pass never
// skips or repeats a neighbor.
package registry

// ID identifies an entity for the lifetime of a session. IDs are never reused.
type ID uint64

// Entity is the capability every registered object carries.
type Entity interface {
	EntityID() ID
	Dead() bool
	// MarkDead flags the entity for removal and reports whether this call
	// was the one that flagged it.
	MarkDead() bool
}

// Base implements Entity for embedding.
type Base struct {
	ID   ID
	dead bool
}

func (b *Base) EntityID() ID { return b.ID }
func (b *Base) Dead() bool   { return b.dead }

func (b *Base) MarkDead() bool {
	if b.dead {
		return false
	}
	b.dead = true
	return true
}

// Sequence hands out IDs. The zero value starts at 1.
type Sequence struct {
	last ID
}

func (s *Sequence) Next() ID {
	s.last++
	return s.last
}

// Collection is an ordered list of one entity category.
type Collection[T Entity] struct {
	items []T
	byID  map[ID]T
}

func NewCollection[T Entity]() *Collection[T] {
	return &Collection[T]{byID: make(map[ID]T)}
}

// Add appends e. An Add during ForEachAlive is not visited by that pass.
func (c *Collection[T]) Add(e T) {
	c.items = append(c.items, e)
	c.byID[e.EntityID()] = e
}

// ForEachAlive visits live members in reverse index order.
func (c *Collection[T]) ForEachAlive(fn func(T)) {
	for i := len(c.items) - 1; i >= 0; i-- {
		e := c.items[i]
		if e.Dead() {
			continue
		}
		fn(e)
	}
}

// Find returns the first live member, in reverse index order, matching pred.
func (c *Collection[T]) Find(pred func(T) bool) (T, bool) {
	for i := len(c.items) - 1; i >= 0; i-- {
		e := c.items[i]
		if !e.Dead() && pred(e) {
			return e, true
		}
	}
	var zero T
	return zero, false
}

// Get resolves id to a live member. Dead or removed ids report false, so a
// stale reference is never dereferenced.
func (c *Collection[T]) Get(id ID) (T, bool) {
	e, ok := c.byID[id]
	if !ok || e.Dead() {
		var zero T
		return zero, false
	}
	return e, true
}

// MarkDead flags id for removal; it reports false when id is unknown or
// already dead.
func (c *Collection[T]) MarkDead(id ID) bool {
	e, ok := c.byID[id]
	if !ok {
		return false
	}
	return e.MarkDead()
}

// Compact drops dead members, preserving order, and returns how many were removed.
func (c *Collection[T]) Compact() int {
	kept := c.items[:0]
	for _, e := range c.items {
		if e.Dead() {
			delete(c.byID, e.EntityID())
			continue
		}
		kept = append(kept, e)
	}
	removed := len(c.items) - len(kept)
	var zero T
	for i := len(kept); i < len(c.items); i++ {
		c.items[i] = zero
	}
	c.items = kept
	return removed
}

// Len counts members including ones flagged but not yet compacted.
func (c *Collection[T]) Len() int { return len(c.items) }

// CountAlive counts live members.
func (c *Collection[T]) CountAlive() int {
	n := 0
	for _, e := range c.items {
		if !e.Dead() {
			n++
		}
	}
	return n
}

// Alive returns live members in index order. The slice is a fresh copy.
func (c *Collection[T]) Alive() []T {
	out := make([]T, 0, len(c.items))
	for _, e := range c.items {
		if !e.Dead() {
			out = append(out, e)
		}
	}
	return out
}

// Clear removes everything.
func (c *Collection[T]) Clear() {
	c.items = nil
	c.byID = make(map[ID]T)
}
