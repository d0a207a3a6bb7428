// Package view is the ebiten window collaborator: it turns keyboard state
// into simulation commands and draws snapshots.
package view

import (
	"image/color"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"nightfall/internal/config"
	"nightfall/internal/game"
	"nightfall/internal/logging"
	"nightfall/internal/mathutil"
)

const memorySampleEvery = time.Second

// Game implements ebiten.Game on top of a Simulation.
type Game struct {
	sim *game.Simulation
	cfg *config.Config
	log *slog.Logger

	snap      game.Snapshot
	flashes   []flash
	banner    string
	bannerTTL int
	lastError string
	errorTTL  int
	showDebug bool
	lastMem   time.Time

	subs map[game.EventType]game.Subscription
}

// flash is a short-lived death marker.
type flash struct {
	pos   mathutil.Vec2
	color color.RGBA
	ttl   int
	life  int
}

func New(sim *game.Simulation, log *slog.Logger) *Game {
	if log == nil {
		log = logging.Discard()
	}
	g := &Game{sim: sim, cfg: sim.Config(), log: log, subs: make(map[game.EventType]game.Subscription)}
	for t, fn := range map[game.EventType]func(game.Event){
		game.EventEnemyDeath:      g.onEnemyDeath,
		game.EventBossSpawned:     g.onBossSpawned,
		game.EventBossPhaseChange: g.onBossPhase,
		game.EventGameOver:        g.onGameOver,
	} {
		g.subs[t] = sim.Subscribe(t, game.ListenerFunc(fn))
	}
	g.snap = sim.Snapshot(false)
	return g
}

// Close detaches the view from the simulation's events.
func (g *Game) Close() {
	for t, sub := range g.subs {
		g.sim.Unsubscribe(t, sub)
	}
	clear(g.subs)
}

// Update runs once per ebiten tick: input, one simulation step, then a fresh snapshot.
func (g *Game) Update() error {
	g.handleInput()
	g.sim.Tick()

	withMem := g.showDebug && time.Since(g.lastMem) >= memorySampleEvery
	if withMem {
		g.lastMem = time.Now()
	}
	mem := g.snap.Telemetry.MemoryUsageMB
	g.snap = g.sim.Snapshot(withMem)
	if !withMem {
		g.snap.Telemetry.MemoryUsageMB = mem
	}
	g.age()
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	cam := newCamera(g.snap.Player.Pos, screen.Bounds().Dx(), screen.Bounds().Dy())
	g.drawWorld(screen, cam)
	g.drawHUD(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.GetScreenWidth(), g.cfg.GetScreenHeight()
}

func (g *Game) age() {
	kept := g.flashes[:0]
	for _, f := range g.flashes {
		f.ttl--
		if f.ttl > 0 {
			kept = append(kept, f)
		}
	}
	g.flashes = kept
	if g.bannerTTL > 0 {
		g.bannerTTL--
	}
	if g.errorTTL > 0 {
		g.errorTTL--
	}
}

func (g *Game) onEnemyDeath(e game.Event) {
	d := e.Data.(game.EnemyDeathData)
	ttl := 20
	if d.Boss {
		ttl = 90
	}
	g.flashes = append(g.flashes, flash{pos: d.Pos, color: paletteColor(d.Palette), ttl: ttl, life: ttl})
}

func (g *Game) onBossSpawned(e game.Event) {
	d := e.Data.(game.BossSpawnedData)
	g.setBanner(bossName(d.Kind) + " approaches")
}

func (g *Game) onBossPhase(e game.Event) {
	d := e.Data.(game.BossPhaseChangeData)
	g.setBanner(bossName(d.Kind) + " enters phase " + itoa(d.To))
}

func (g *Game) onGameOver(game.Event) {
	g.setBanner("You have fallen")
}

func (g *Game) setBanner(s string) {
	g.banner = s
	g.bannerTTL = 180
}
