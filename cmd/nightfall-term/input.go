package main

import (
	"errors"
	"time"

	"github.com/gdamore/tcell/v2"

	"nightfall/internal/game"
	"nightfall/internal/mathutil"
)

// Terminals report presses but not releases, so a direction stays held
// for keyHold after its last repeat.
const keyHold = 180 * time.Millisecond

type heldKeys struct {
	hold time.Duration
	last map[rune]time.Time
}

func newHeldKeys(hold time.Duration) *heldKeys {
	return &heldKeys{hold: hold, last: make(map[rune]time.Time)}
}

func (h *heldKeys) press(r rune, now time.Time) { h.last[r] = now }

func (h *heldKeys) held(r rune, now time.Time) bool {
	at, ok := h.last[r]
	return ok && now.Sub(at) <= h.hold
}

func (h *heldKeys) direction(now time.Time) mathutil.Vec2 {
	var dir mathutil.Vec2
	if h.held('w', now) {
		dir.Y--
	}
	if h.held('s', now) {
		dir.Y++
	}
	if h.held('a', now) {
		dir.X--
	}
	if h.held('d', now) {
		dir.X++
	}
	return dir
}

func (h *heldKeys) reset() { clear(h.last) }

// arrowRune folds arrow keys onto wasd.
func arrowRune(k tcell.Key) (rune, bool) {
	switch k {
	case tcell.KeyUp:
		return 'w', true
	case tcell.KeyDown:
		return 's', true
	case tcell.KeyLeft:
		return 'a', true
	case tcell.KeyRight:
		return 'd', true
	}
	return 0, false
}

// handle applies one terminal event and reports whether to keep running.
func (t *term) handle(ev tcell.Event, now time.Time) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC || (ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if r, ok := arrowRune(ev.Key()); ok {
			t.keys.press(r, now)
			return true
		}
		switch ev.Key() {
		case tcell.KeyEscape:
			t.report(t.sim.TogglePause())
			return true
		case tcell.KeyEnter:
			if t.sim.GameOver() {
				t.keys.reset()
				t.report(t.sim.Reset())
			}
			return true
		case tcell.KeyRune:
		default:
			return true
		}
		t.onRune(ev.Rune(), now)
	}
	return true
}

func (t *term) onRune(r rune, now time.Time) {
	switch r {
	case 'w', 'a', 's', 'd':
		t.keys.press(r, now)
	case 'W', 'A', 'S', 'D':
		t.keys.press(r+'a'-'A', now)
	case 'p':
		t.report(t.sim.TogglePause())
	case '1', '2', '3', '4', '5':
		t.report(t.sim.ChooseUpgrade(int(r - '1')))
	case ' ':
		t.report(t.sim.Dash(t.keys.direction(now)))
	case 'r':
		t.report(t.sim.ActivateUltimate())
	case 'e':
		loot, err := t.sim.InteractNearest()
		if err == nil {
			t.status = lootMessage(loot)
		}
		t.report(err)
	}
}

func (t *term) report(err error) {
	if err == nil {
		return
	}
	t.log.Debug("command rejected", "error", err)
	switch {
	case errors.Is(err, game.ErrOnCooldown):
		t.status = "not ready"
	case errors.Is(err, game.ErrOutOfRange):
		t.status = "too far away"
	case errors.Is(err, game.ErrNotFound):
		t.status = "nothing to open"
	case errors.Is(err, game.ErrInvalidChoice):
		t.status = "no such choice"
	}
}
