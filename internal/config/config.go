package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Millis is a simulated-time span written in yaml as integer milliseconds.
type Millis int

func (m Millis) Duration() time.Duration {
	return time.Duration(m) * time.Millisecond
}

// Config holds all simulation tuning values
type Config struct {
	Display    DisplayConfig          `yaml:"display"`
	Simulation SimulationConfig       `yaml:"simulation"`
	Player     PlayerConfig           `yaml:"player"`
	Difficulty DifficultyConfig       `yaml:"difficulty"`
	Spawn      SpawnConfig            `yaml:"spawn"`
	Enemies    EnemiesConfig          `yaml:"enemies"`
	Bosses     BossesConfig           `yaml:"bosses"`
	Weapons    map[string]WeaponStats `yaml:"weapons"`
	Rewards    RewardsConfig          `yaml:"rewards"`
	Upgrades   UpgradeTable           `yaml:"upgrades"`
	Logging    LoggingConfig          `yaml:"logging"`
}

type DisplayConfig struct {
	ScreenWidth  int    `yaml:"screen_width"`
	ScreenHeight int    `yaml:"screen_height"`
	WindowTitle  string `yaml:"window_title"`
	Resizable    bool   `yaml:"resizable"`
}

type SimulationConfig struct {
	TickRate          int     `yaml:"tick_rate"` // ticks per simulated second
	WorldWidth        float64 `yaml:"world_width"`
	WorldHeight       float64 `yaml:"world_height"`
	InteractionRadius float64 `yaml:"interaction_radius"`
	PickupRadius      float64 `yaml:"pickup_radius"`
	MagnetRadius      float64 `yaml:"magnet_radius"`
	MagnetSpeed       float64 `yaml:"magnet_speed"`
	BroadphaseCell    int     `yaml:"broadphase_cell"`
	AlertEntityLimit  int     `yaml:"alert_entity_limit"` // live enemies+effects+hazards before telemetry warns; 0 disables
	Seed              int64   `yaml:"seed"`               // 0 picks a time-based seed
}

type PlayerConfig struct {
	MaxHP          float64        `yaml:"max_hp"`
	Speed          float64        `yaml:"speed"` // units per tick
	Radius         float64        `yaml:"radius"`
	MaxWeapons     int            `yaml:"max_weapons"`
	StartingWeapon string         `yaml:"starting_weapon"`
	XPBase         int            `yaml:"xp_base"`
	XPGrowth       int            `yaml:"xp_growth"`
	Dash           DashConfig     `yaml:"dash"`
	Ultimate       UltimateConfig `yaml:"ultimate"`
}

type DashConfig struct {
	Duration        Millis  `yaml:"duration_ms"`
	Cooldown        Millis  `yaml:"cooldown_ms"`
	SpeedMultiplier float64 `yaml:"speed_multiplier"`
}

type UltimateConfig struct {
	Type         string            `yaml:"type"` // meteor_storm, time_freeze, divine_shield
	MeteorStorm  MeteorStormConfig `yaml:"meteor_storm"`
	TimeFreeze   TimedUltimate     `yaml:"time_freeze"`
	DivineShield TimedUltimate     `yaml:"divine_shield"`
}

type MeteorStormConfig struct {
	Cooldown Millis  `yaml:"cooldown_ms"`
	Count    int     `yaml:"count"`
	Interval Millis  `yaml:"interval_ms"`
	Damage   float64 `yaml:"damage"`
	Radius   float64 `yaml:"radius"`
}

type TimedUltimate struct {
	Cooldown Millis `yaml:"cooldown_ms"`
	Duration Millis `yaml:"duration_ms"`
}

type DifficultyConfig struct {
	IntervalSeconds     int     `yaml:"interval_seconds"`
	SpeedRate           float64 `yaml:"speed_rate"`
	SpeedCap            float64 `yaml:"speed_cap"`
	HPRate              float64 `yaml:"hp_rate"`
	HPCap               float64 `yaml:"hp_cap"`
	DamageRate          float64 `yaml:"damage_rate"`
	DamageCap           float64 `yaml:"damage_cap"`
	SpawnBase           Millis  `yaml:"spawn_base_ms"`
	SpawnDecay          float64 `yaml:"spawn_decay"`
	SpawnFloor          Millis  `yaml:"spawn_floor_ms"`
	MaxEnemiesBase      int     `yaml:"max_enemies_base"`
	MaxEnemiesIncrement int     `yaml:"max_enemies_increment"`
	MaxEnemiesCap       int     `yaml:"max_enemies_cap"`
}

type SpawnConfig struct {
	RingMin            float64       `yaml:"ring_min"`
	RingMax            float64       `yaml:"ring_max"`
	SwarmClusterSize   int           `yaml:"swarm_cluster_size"`
	SwarmClusterSpread float64       `yaml:"swarm_cluster_spread"`
	Phases             []RollPhase   `yaml:"phases"`
	MinorBoss          BossSpawnRule `yaml:"minor_boss"`
	MajorBoss          BossSpawnRule `yaml:"major_boss"`
}

// RollPhase is a cumulative-weight table active from FromSeconds of elapsed time.
type RollPhase struct {
	FromSeconds int         `yaml:"from_seconds"`
	Table       []RollEntry `yaml:"table"`
}

type RollEntry struct {
	Kind   string  `yaml:"kind"`
	Weight float64 `yaml:"weight"`
}

type BossSpawnRule struct {
	Kind             string `yaml:"kind"`
	ThresholdSeconds int    `yaml:"threshold_seconds"`
	IntervalSeconds  int    `yaml:"interval_seconds"`
}

type EnemyStats struct {
	HP      float64 `yaml:"hp"`
	Speed   float64 `yaml:"speed"`
	Damage  float64 `yaml:"damage"`
	Radius  float64 `yaml:"radius"`
	XP      int     `yaml:"xp"`
	Palette [3]int  `yaml:"palette"`
}

type EnemiesConfig struct {
	Stats           map[string]EnemyStats `yaml:"stats"`
	ContactInterval Millis                `yaml:"contact_interval_ms"`
	ShotRadius      float64               `yaml:"shot_radius"`
	Charger         ChargerConfig         `yaml:"charger"`
	Swarm           SwarmConfig           `yaml:"swarm"`
	Splitter        SplitterConfig        `yaml:"splitter"`
	Ranged          RangedConfig          `yaml:"ranged"`
	Tank            TankConfig            `yaml:"tank"`
	Teleporter      TeleporterConfig      `yaml:"teleporter"`
	Healer          HealerConfig          `yaml:"healer"`
}

type ChargerConfig struct {
	TriggerRange    float64 `yaml:"trigger_range"`
	ChargeSpeedMult float64 `yaml:"charge_speed_mult"`
	Idle            Millis  `yaml:"idle_ms"`
	Charge          Millis  `yaml:"charge_ms"`
	Rest            Millis  `yaml:"rest_ms"`
}

type SwarmConfig struct {
	ZigzagAmplitude float64 `yaml:"zigzag_amplitude"`
	ZigzagPeriod    Millis  `yaml:"zigzag_period_ms"`
}

type SplitterConfig struct {
	MaxGeneration   int     `yaml:"max_generation"`
	ChildHPFactor   float64 `yaml:"child_hp_factor"`
	ChildSizeFactor float64 `yaml:"child_size_factor"`
}

type RangedConfig struct {
	PreferredRange float64 `yaml:"preferred_range"`
	ShotCooldown   Millis  `yaml:"shot_cooldown_ms"`
	ShotSpeed      float64 `yaml:"shot_speed"`
	ShotLifetime   Millis  `yaml:"shot_lifetime_ms"`
}

type TankConfig struct {
	Armor     float64 `yaml:"armor"` // fraction of incoming damage absorbed
	Knockback float64 `yaml:"knockback"`
}

type TeleporterConfig struct {
	Idle      Millis  `yaml:"idle_ms"`
	Prepare   Millis  `yaml:"prepare_ms"`
	Attack    Millis  `yaml:"attack_ms"`
	Range     float64 `yaml:"range"`
	BoltCount int     `yaml:"bolt_count"`
	BoltSpeed float64 `yaml:"bolt_speed"`
}

type HealerConfig struct {
	Interval     Millis  `yaml:"interval_ms"`
	Radius       float64 `yaml:"radius"`
	HealFraction float64 `yaml:"heal_fraction"`
}

type BossesConfig struct {
	Colossus ColossusConfig `yaml:"colossus"`
	VoidLord VoidLordConfig `yaml:"void_lord"`
}

// BossCommon is shared by both bosses.
type BossCommon struct {
	Stats           EnemyStats     `yaml:"stats"`
	ContactFraction float64        `yaml:"contact_fraction"` // of Damage, applied per tick of overlap
	Shields         []float64      `yaml:"shields"`
	PhaseThresholds []float64      `yaml:"phase_thresholds"` // hp fractions, descending
	Idle            Millis         `yaml:"idle_ms"`
	Behaviors       []BossBehavior `yaml:"behaviors"`
	SummonKind      string         `yaml:"summon_kind"`
	SummonCount     int            `yaml:"summon_count"`
	PhaseDamageStep float64        `yaml:"phase_damage_step"`
}

type BossBehavior struct {
	State    string  `yaml:"state"`
	Duration Millis  `yaml:"duration_ms"`
	Weight   float64 `yaml:"weight"`
	MinPhase int     `yaml:"min_phase"`
}

type ColossusConfig struct {
	BossCommon         `yaml:",inline"`
	SlamRadius         float64 `yaml:"slam_radius"`
	SlamDamageMult     float64 `yaml:"slam_damage_mult"`
	ChargeSpeedMult    float64 `yaml:"charge_speed_mult"`
	ShockwaveSpeed     float64 `yaml:"shockwave_speed"`
	ShockwaveMaxRadius float64 `yaml:"shockwave_max_radius"`
	BarrageCount       int     `yaml:"barrage_count"`
	BarrageSpeed       float64 `yaml:"barrage_speed"`
}

type VoidLordConfig struct {
	BossCommon          `yaml:",inline"`
	OrbitDistance       float64 `yaml:"orbit_distance"`
	BarrageCount        int     `yaml:"barrage_count"`
	BarrageSpeed        float64 `yaml:"barrage_speed"`
	TeleportTicks       int     `yaml:"teleport_ticks"`
	TeleportStrikeRange float64 `yaml:"teleport_strike_range"`
	StrikeRadius        float64 `yaml:"strike_radius"`
	StrikeDamageMult    float64 `yaml:"strike_damage_mult"`
	RiftRadius          float64 `yaml:"rift_radius"`
	RiftLifetime        Millis  `yaml:"rift_lifetime_ms"`
	RiftTick            Millis  `yaml:"rift_tick_ms"`
	NovaCount           int     `yaml:"nova_count"`
}

// WeaponStats carries every per-type field; types read only the fields they use.
type WeaponStats struct {
	Damage          float64 `yaml:"damage"`
	Cooldown        Millis  `yaml:"cooldown_ms"`
	Range           float64 `yaml:"range"`
	Speed           float64 `yaml:"speed"`
	Radius          float64 `yaml:"radius"`
	ProjectileCount int     `yaml:"projectile_count"`
	ExplosionRadius float64 `yaml:"explosion_radius,omitempty"`
	Lifetime        Millis  `yaml:"lifetime_ms,omitempty"`
	TurnRate        float64 `yaml:"turn_rate,omitempty"`
	JumpRange       float64 `yaml:"jump_range,omitempty"`
	MaxJumps        int     `yaml:"max_jumps,omitempty"`
	DecayRatio      float64 `yaml:"decay_ratio,omitempty"`
	TickInterval    Millis  `yaml:"tick_interval_ms,omitempty"`
	PullStrength    float64 `yaml:"pull_strength,omitempty"`
	StatusDuration  Millis  `yaml:"status_ms,omitempty"`
	SlowFactor      float64 `yaml:"slow_factor,omitempty"`
	AngularSpeed    float64 `yaml:"angular_speed,omitempty"` // radians per tick
	HitCooldown     Millis  `yaml:"hit_cooldown_ms,omitempty"`
	AttackCooldown  Millis  `yaml:"attack_cooldown_ms,omitempty"`
}

type RewardsConfig struct {
	XPOrbChance     float64          `yaml:"xp_orb_chance"`
	ChestChance     float64          `yaml:"chest_chance"`
	BoxChance       float64          `yaml:"box_chance"`
	BoxOutcomes     []WeightedChoice `yaml:"box_outcomes"`
	BoxHealFraction float64          `yaml:"box_heal_fraction"`
	BoxXP           int              `yaml:"box_xp"`
	ChestMinRarity  string           `yaml:"chest_min_rarity"`
}

type WeightedChoice struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// LoadConfig loads the configuration from a yaml file over the built-in defaults
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes yaml over Default() and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoadConfig loads the configuration and panics on error
func MustLoadConfig(filename string) *Config {
	cfg, err := LoadConfig(filename)
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}
	return cfg
}

// Validate checks the invariants the simulation relies on.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}
	if c.Simulation.TickRate <= 0 {
		return invalid("simulation.tick_rate must be positive, got %d", c.Simulation.TickRate)
	}
	if c.Simulation.WorldWidth <= 0 || c.Simulation.WorldHeight <= 0 {
		return invalid("world size must be positive")
	}
	d := c.Difficulty
	if d.IntervalSeconds <= 0 {
		return invalid("difficulty.interval_seconds must be positive")
	}
	if d.SpeedCap < 1 || d.HPCap < 1 || d.DamageCap < 1 {
		return invalid("difficulty caps must be >= 1")
	}
	if d.SpawnDecay <= 0 || d.SpawnDecay > 1 {
		return invalid("difficulty.spawn_decay must be in (0, 1], got %v", d.SpawnDecay)
	}
	if d.SpawnFloor <= 0 || d.SpawnFloor > d.SpawnBase {
		return invalid("difficulty.spawn_floor_ms must be in (0, spawn_base_ms]")
	}
	if d.MaxEnemiesCap < d.MaxEnemiesBase {
		return invalid("difficulty.max_enemies_cap below base")
	}
	if len(c.Spawn.Phases) == 0 {
		return invalid("spawn.phases is empty")
	}
	for i, p := range c.Spawn.Phases {
		if len(p.Table) == 0 {
			return invalid("spawn.phases[%d] has an empty table", i)
		}
		if i > 0 && p.FromSeconds <= c.Spawn.Phases[i-1].FromSeconds {
			return invalid("spawn.phases must be ordered by from_seconds")
		}
		for _, e := range p.Table {
			if e.Weight <= 0 {
				return invalid("spawn.phases[%d] %s weight must be positive", i, e.Kind)
			}
			if _, ok := c.Enemies.Stats[e.Kind]; !ok {
				return invalid("spawn.phases[%d] references unknown enemy %q", i, e.Kind)
			}
		}
	}
	for _, rule := range []BossSpawnRule{c.Spawn.MinorBoss, c.Spawn.MajorBoss} {
		if rule.IntervalSeconds <= 0 {
			return invalid("boss %s interval must be positive", rule.Kind)
		}
	}
	if _, ok := c.Weapons[c.Player.StartingWeapon]; !ok {
		return invalid("player.starting_weapon %q has no weapon stats", c.Player.StartingWeapon)
	}
	if c.Player.MaxWeapons <= 0 {
		return invalid("player.max_weapons must be positive")
	}
	return c.Upgrades.validate()
}

func (c *Config) GetScreenWidth() int {
	return c.Display.ScreenWidth
}

func (c *Config) GetScreenHeight() int {
	return c.Display.ScreenHeight
}

// TickDuration is the fixed simulated step.
func (c *Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.Simulation.TickRate)
}

// EnemyStats returns base stats for a kind, with a zero value and false when unknown.
func (c *Config) EnemyStats(kind string) (EnemyStats, bool) {
	s, ok := c.Enemies.Stats[kind]
	return s, ok
}

// WeaponStats returns the base stats for a weapon type.
func (c *Config) WeaponStats(kind string) (WeaponStats, bool) {
	s, ok := c.Weapons[kind]
	return s, ok
}
