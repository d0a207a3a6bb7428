// Package game owns the simulation state and runs the per-tick pipeline.
package game

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"nightfall/internal/collision"
	"nightfall/internal/config"
	"nightfall/internal/difficulty"
	"nightfall/internal/enemy"
	"nightfall/internal/logging"
	"nightfall/internal/mathutil"
	"nightfall/internal/monitoring"
	"nightfall/internal/registry"
	"nightfall/internal/reward"
	"nightfall/internal/spawn"
	"nightfall/internal/weapons"
)

var (
	ErrGameOver         = errors.New("game over")
	ErrNoPendingLevelUp = errors.New("no pending level-up")
	ErrInvalidChoice    = errors.New("invalid choice")
	ErrOutOfRange       = errors.New("out of range")
	ErrOnCooldown       = errors.New("on cooldown")
	ErrNotFound         = errors.New("not found")
	ErrPaused           = errors.New("simulation paused")
)

const (
	maxBufferedEvents = 1024
	meteorSpread      = 320
	queryPadding      = 16 // covers movement since the last grid rebuild
)

// Simulation is the whole mutable state of one session. All mutation happens
// inside Tick or a command method, on the caller's goroutine.
type Simulation struct {
	cfg     *config.Config
	baseLog *slog.Logger
	log     *slog.Logger
	session string

	rng    *rand.Rand
	seq    registry.Sequence
	now    time.Duration
	step   time.Duration
	bounds mathutil.Rect

	model   *difficulty.Model
	factory *enemy.Factory
	catalog *weapons.Catalog
	spawner *spawn.Scheduler
	rewards *reward.Roller
	monitor *monitoring.Monitor

	player  *Player
	enemies *registry.Collection[*enemy.Enemy]
	effects map[weapons.Type]*registry.Collection[weapons.Effect]
	hazards *registry.Collection[*enemy.Hazard]
	drops   *registry.Collection[*reward.Drop]
	grid    *collision.Grid[*enemy.Enemy]

	delayed    delayQueue
	pending    []Event
	outbox     []Event
	dispatcher *Dispatcher

	levelUps []levelUpRequest
	kills    int
	paused   bool
	over     bool
}

// New creates a simulation and starts its first session. A nil logger
// discards output.
func New(cfg *config.Config, log *slog.Logger) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logging.Discard()
	}
	s := &Simulation{
		cfg:        cfg,
		baseLog:    log,
		step:       cfg.TickDuration(),
		bounds:     mathutil.Rect{MaxX: cfg.Simulation.WorldWidth, MaxY: cfg.Simulation.WorldHeight},
		model:      difficulty.NewModel(cfg.Difficulty),
		factory:    enemy.NewFactory(cfg),
		catalog:    weapons.NewCatalog(cfg.Weapons),
		rewards:    reward.NewRoller(cfg.Rewards),
		monitor:    monitoring.NewMonitor(),
		dispatcher: NewDispatcher(),
	}
	s.spawner = spawn.NewScheduler(cfg.Spawn, s.model)
	if err := s.Reset(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reset starts a fresh session with a new session id.
func (s *Simulation) Reset() error {
	seed := s.cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewSource(seed))
	s.seq = registry.Sequence{}
	s.now = 0
	s.session = logging.NewSessionID()

	player, err := newPlayer(&s.cfg.Player, s.bounds.Center())
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	start, err := s.catalog.New(weapons.Type(s.cfg.Player.StartingWeapon))
	if err != nil {
		return fmt.Errorf("reset: starting weapon: %w", err)
	}
	if err := player.addWeapon(start); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	s.player = player

	s.enemies = registry.NewCollection[*enemy.Enemy]()
	s.hazards = registry.NewCollection[*enemy.Hazard]()
	s.drops = registry.NewCollection[*reward.Drop]()
	s.effects = make(map[weapons.Type]*registry.Collection[weapons.Effect], len(weapons.AllTypes))
	for _, t := range weapons.AllTypes {
		s.effects[t] = registry.NewCollection[weapons.Effect]()
	}
	s.grid = collision.NewGrid[*enemy.Enemy](s.cfg.Simulation.BroadphaseCell)
	s.delayed.reset()
	s.pending = nil
	s.outbox = nil
	s.levelUps = nil
	s.kills = 0
	s.paused = false
	s.over = false
	s.spawner.Reset()
	s.monitor.Reset()

	s.log = s.baseLog.With("session", s.session)
	s.log.Info("session started", "seed", seed, "weapon", start.Type, "ultimate", player.Ultimate.Type)
	return nil
}

// Subscribe registers a listener for events of one type.
func (s *Simulation) Subscribe(t EventType, l Listener) Subscription {
	return s.dispatcher.Subscribe(t, l)
}

// Unsubscribe removes a registration returned by Subscribe.
func (s *Simulation) Unsubscribe(t EventType, sub Subscription) { s.dispatcher.Unsubscribe(t, sub) }

// DrainEvents returns the events dispatched since the last call.
func (s *Simulation) DrainEvents() []Event {
	out := s.outbox
	s.outbox = nil
	return out
}

func (s *Simulation) Session() string              { return s.session }
func (s *Simulation) Elapsed() time.Duration       { return s.now }
func (s *Simulation) Kills() int                   { return s.kills }
func (s *Simulation) GameOver() bool               { return s.over }
func (s *Simulation) Paused() bool                 { return s.paused }
func (s *Simulation) Monitor() *monitoring.Monitor { return s.monitor }
func (s *Simulation) Config() *config.Config       { return s.cfg }
func (s *Simulation) LevelUpPending() bool         { return len(s.levelUps) > 0 }
func (s *Simulation) Difficulty() difficulty.Tier  { return s.model.Sample(s.now) }
func (s *Simulation) timeFrozen() bool {
	u := s.player.Ultimate
	return u.Active && u.Type == weapons.TimeFreeze
}

func (s *Simulation) emit(t EventType, data any) {
	s.pending = append(s.pending, Event{Type: t, At: s.now, Data: data})
}

// flushEvents dispatches buffered events and keeps them for DrainEvents.
func (s *Simulation) flushEvents() {
	if len(s.pending) == 0 {
		return
	}
	events := s.pending
	s.pending = nil
	for _, e := range events {
		s.dispatcher.Dispatch(e)
	}
	s.outbox = append(s.outbox, events...)
	if over := len(s.outbox) - maxBufferedEvents; over > 0 {
		s.outbox = append(s.outbox[:0:0], s.outbox[over:]...)
	}
}

// Now and the methods below implement the enemy, hazard, weapon and spawn
// world interfaces.
func (s *Simulation) Now() time.Duration       { return s.now }
func (s *Simulation) Rand() *rand.Rand         { return s.rng }
func (s *Simulation) PlayerPos() mathutil.Vec2 { return s.player.Pos }
func (s *Simulation) PlayerRadius() float64    { return s.player.Radius }
func (s *Simulation) Bounds() mathutil.Rect    { return s.bounds }
func (s *Simulation) NextID() registry.ID      { return s.seq.Next() }
func (s *Simulation) EnemyCount() int          { return s.enemies.CountAlive() }

func (s *Simulation) DamagePlayer(amount float64) {
	if s.over || amount <= 0 || s.player.Invulnerable(s.now) {
		return
	}
	s.player.HP -= amount
	if s.player.HP <= 0 {
		s.endGame()
	}
}

func (s *Simulation) KnockbackPlayer(from mathutil.Vec2, distance float64) {
	if s.player.Dashing(s.now) {
		return
	}
	dir := s.player.Pos.Sub(from).Normalize()
	s.player.Pos = s.bounds.ClampPoint(s.player.Pos.Add(dir.Scale(distance)))
}

func (s *Simulation) SpawnEnemy(kind enemy.Kind, pos mathutil.Vec2, tier difficulty.Tier) (*enemy.Enemy, bool) {
	e, err := s.factory.Create(s.seq.Next(), kind, s.bounds.ClampPoint(pos), tier, s.now)
	if err != nil {
		s.log.Debug("spawn rejected", "kind", kind, "error", err)
		return nil, false
	}
	s.enemies.Add(e)
	if kind.IsBoss() {
		s.log.Info("boss spawned", "kind", kind, "id", e.ID, "hp", e.MaxHP, "interval", tier.Interval)
		s.emit(EventBossSpawned, BossSpawnedData{ID: e.ID, Kind: kind})
	}
	return e, true
}

func (s *Simulation) EnemyAlive(id registry.ID) bool {
	_, ok := s.enemies.Get(id)
	return ok
}

func (s *Simulation) Enemy(id registry.ID) (*enemy.Enemy, bool) { return s.enemies.Get(id) }

// KindAlive re-scans live enemies for one of kind.
func (s *Simulation) KindAlive(kind enemy.Kind) bool {
	_, ok := s.enemies.Find(func(e *enemy.Enemy) bool { return e.Kind == kind })
	return ok
}

// EnemiesWithin returns live enemies whose body reaches within radius of center.
func (s *Simulation) EnemiesWithin(center mathutil.Vec2, radius float64) []*enemy.Enemy {
	candidates := s.grid.Query(center, radius+queryPadding)
	out := candidates[:0]
	for _, e := range candidates {
		if e.Dead() {
			continue
		}
		reach := radius + e.Size
		if mathutil.DistSq(center, e.Pos) <= reach*reach {
			out = append(out, e)
		}
	}
	return out
}

func (s *Simulation) NearestEnemy(from mathutil.Vec2, maxRange float64, skip func(*enemy.Enemy) bool) (*enemy.Enemy, bool) {
	return collision.Nearest(s.grid.Query(from, maxRange+queryPadding), from, maxRange, skip)
}

func (s *Simulation) AddEffect(e weapons.Effect) {
	if c, ok := s.effects[e.Kind()]; ok {
		c.Add(e)
	}
}

func (s *Simulation) AddHazard(h *enemy.Hazard) {
	h.ID = s.seq.Next()
	s.hazards.Add(h)
}

func (s *Simulation) BossPhaseChanged(e *enemy.Enemy, from, to int) {
	s.log.Info("boss phase change", "kind", e.Kind, "id", e.ID, "from", from, "to", to)
	s.emit(EventBossPhaseChange, BossPhaseChangeData{ID: e.ID, Kind: e.Kind, From: from, To: to})
}

// Hit resolves damage against e. A kill is processed exactly once: the
// first MarkDead wins and creates the drops.
func (s *Simulation) Hit(e *enemy.Enemy, damage float64) collision.Result {
	res := collision.Apply(e, damage)
	if res.Damage > 0 {
		s.monitor.AddHit()
	}
	if res.Died {
		s.kill(e)
	}
	return res
}

func (s *Simulation) kill(e *enemy.Enemy) {
	if !s.enemies.MarkDead(e.ID) {
		return
	}
	s.kills++
	s.monitor.AddKill()
	e.OnDeath(s)

	var drops []*reward.Drop
	if e.Kind.IsBoss() {
		drops = s.rewards.ForBoss(s.seq.Next, e.Pos, e.XP)
		s.log.Info("boss defeated", "kind", e.Kind, "id", e.ID, "elapsed", s.now)
	} else {
		drops = s.rewards.ForEnemy(s.rng, s.seq.Next, e.Pos, e.XP)
	}
	for _, d := range drops {
		d.Pos = s.bounds.ClampPoint(d.Pos)
		s.drops.Add(d)
	}
	s.emit(EventEnemyDeath, EnemyDeathData{ID: e.ID, Kind: e.Kind, Pos: e.Pos, Palette: e.Palette, Boss: e.Kind.IsBoss()})
}

func (s *Simulation) endGame() {
	if s.over {
		return
	}
	s.over = true
	s.log.Info("game over", "elapsed", s.now, "level", s.player.Level, "kills", s.kills)
	s.emit(EventGameOver, GameOverData{Elapsed: s.now, Level: s.player.Level, Kills: s.kills})
}
