package game

import (
	"time"

	"nightfall/internal/mathutil"
)

type delayedKind int

const (
	delayedMeteor delayedKind = iota
	delayedUltimateEnd
)

// delayedEvent is work scheduled for a later tick. It is consumed at the
// start of the first tick whose clock has reached At.
type delayedEvent struct {
	At   time.Duration
	Kind delayedKind
	Pos  mathutil.Vec2
	seq  uint64
}

func (e delayedEvent) before(o delayedEvent) bool {
	if e.At != o.At {
		return e.At < o.At
	}
	return e.seq < o.seq
}

// delayQueue is a binary min-heap on (At, insertion order).
type delayQueue struct {
	items []delayedEvent
	seq   uint64
}

func (q *delayQueue) reset() {
	q.items = q.items[:0]
}

func (q *delayQueue) Len() int { return len(q.items) }

func (q *delayQueue) push(e delayedEvent) {
	q.seq++
	e.seq = q.seq
	q.items = append(q.items, e)
	i := len(q.items) - 1
	for i > 0 {
		p := (i - 1) / 2
		if !e.before(q.items[p]) {
			break
		}
		q.items[i] = q.items[p]
		i = p
	}
	q.items[i] = e
}

// popDue removes and returns the earliest event if it is due at now.
func (q *delayQueue) popDue(now time.Duration) (delayedEvent, bool) {
	if len(q.items) == 0 || q.items[0].At > now {
		return delayedEvent{}, false
	}
	top := q.items[0]
	last := q.items[len(q.items)-1]
	q.items = q.items[:len(q.items)-1]
	if len(q.items) == 0 {
		return top, true
	}
	i := 0
	for {
		left := 2*i + 1
		if left >= len(q.items) {
			break
		}
		child := left
		if right := left + 1; right < len(q.items) && q.items[right].before(q.items[left]) {
			child = right
		}
		if !q.items[child].before(last) {
			break
		}
		q.items[i] = q.items[child]
		i = child
	}
	q.items[i] = last
	return top, true
}
