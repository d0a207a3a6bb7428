package config

// Default returns the built-in tuning. LoadConfig decodes over it so a
// partial yaml file only overrides the keys it names.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  1280,
			ScreenHeight: 720,
			WindowTitle:  "Nightfall",
			Resizable:    true,
		},
		Simulation: SimulationConfig{
			TickRate:          60,
			WorldWidth:        4000,
			WorldHeight:       4000,
			InteractionRadius: 60,
			PickupRadius:      24,
			MagnetRadius:      120,
			MagnetSpeed:       7,
			BroadphaseCell:    128,
			AlertEntityLimit:  1500,
		},
		Player: PlayerConfig{
			MaxHP:          100,
			Speed:          3,
			Radius:         14,
			MaxWeapons:     6,
			StartingWeapon: "magic_bolt",
			XPBase:         10,
			XPGrowth:       8,
			Dash: DashConfig{
				Duration:        200,
				Cooldown:        2000,
				SpeedMultiplier: 3.5,
			},
			Ultimate: UltimateConfig{
				Type: "meteor_storm",
				MeteorStorm: MeteorStormConfig{
					Cooldown: 60000,
					Count:    12,
					Interval: 150,
					Damage:   80,
					Radius:   90,
				},
				TimeFreeze:   TimedUltimate{Cooldown: 75000, Duration: 5000},
				DivineShield: TimedUltimate{Cooldown: 50000, Duration: 6000},
			},
		},
		Difficulty: DifficultyConfig{
			IntervalSeconds:     60,
			SpeedRate:           0.05,
			SpeedCap:            1.5,
			HPRate:              0.1,
			HPCap:               3.0,
			DamageRate:          0.08,
			DamageCap:           2.0,
			SpawnBase:           1000,
			SpawnDecay:          0.96,
			SpawnFloor:          250,
			MaxEnemiesBase:      30,
			MaxEnemiesIncrement: 10,
			MaxEnemiesCap:       150,
		},
		Spawn: SpawnConfig{
			RingMin:            550,
			RingMax:            750,
			SwarmClusterSize:   6,
			SwarmClusterSpread: 40,
			Phases: []RollPhase{
				{FromSeconds: 0, Table: []RollEntry{
					{Kind: "standard", Weight: 80},
					{Kind: "charger", Weight: 20},
				}},
				{FromSeconds: 60, Table: []RollEntry{
					{Kind: "standard", Weight: 45},
					{Kind: "charger", Weight: 20},
					{Kind: "swarm", Weight: 20},
					{Kind: "teleporter", Weight: 15},
				}},
				{FromSeconds: 120, Table: []RollEntry{
					{Kind: "standard", Weight: 30},
					{Kind: "charger", Weight: 15},
					{Kind: "swarm", Weight: 20},
					{Kind: "teleporter", Weight: 10},
					{Kind: "splitter", Weight: 15},
					{Kind: "ranged", Weight: 10},
				}},
				{FromSeconds: 240, Table: []RollEntry{
					{Kind: "standard", Weight: 20},
					{Kind: "charger", Weight: 10},
					{Kind: "swarm", Weight: 15},
					{Kind: "teleporter", Weight: 10},
					{Kind: "splitter", Weight: 12},
					{Kind: "ranged", Weight: 13},
					{Kind: "tank", Weight: 10},
					{Kind: "healer", Weight: 10},
				}},
			},
			MinorBoss: BossSpawnRule{Kind: "colossus", ThresholdSeconds: 300, IntervalSeconds: 180},
			MajorBoss: BossSpawnRule{Kind: "void_lord", ThresholdSeconds: 600, IntervalSeconds: 300},
		},
		Enemies: EnemiesConfig{
			Stats: map[string]EnemyStats{
				"standard":   {HP: 15, Speed: 1.2, Damage: 8, Radius: 12, XP: 2, Palette: [3]int{200, 60, 60}},
				"charger":    {HP: 25, Speed: 1.0, Damage: 12, Radius: 13, XP: 4, Palette: [3]int{230, 140, 40}},
				"swarm":      {HP: 6, Speed: 1.8, Damage: 4, Radius: 7, XP: 1, Palette: [3]int{160, 200, 60}},
				"teleporter": {HP: 20, Speed: 0.9, Damage: 8, Radius: 11, XP: 5, Palette: [3]int{150, 80, 220}},
				"splitter":   {HP: 40, Speed: 0.9, Damage: 10, Radius: 16, XP: 4, Palette: [3]int{60, 190, 170}},
				"ranged":     {HP: 18, Speed: 1.0, Damage: 7, Radius: 11, XP: 4, Palette: [3]int{220, 210, 80}},
				"tank":       {HP: 120, Speed: 0.6, Damage: 16, Radius: 20, XP: 10, Palette: [3]int{110, 110, 130}},
				"healer":     {HP: 25, Speed: 0.9, Damage: 5, Radius: 12, XP: 6, Palette: [3]int{90, 230, 120}},
			},
			ContactInterval: 500,
			ShotRadius:      6,
			Charger:         ChargerConfig{TriggerRange: 320, ChargeSpeedMult: 4, Idle: 1200, Charge: 700, Rest: 900},
			Swarm:           SwarmConfig{ZigzagAmplitude: 1.5, ZigzagPeriod: 600},
			Splitter:        SplitterConfig{MaxGeneration: 3, ChildHPFactor: 0.5, ChildSizeFactor: 0.7},
			Ranged:          RangedConfig{PreferredRange: 260, ShotCooldown: 2200, ShotSpeed: 5, ShotLifetime: 4000},
			Tank:            TankConfig{Armor: 0.4, Knockback: 60},
			Teleporter:      TeleporterConfig{Idle: 2000, Prepare: 800, Attack: 500, Range: 180, BoltCount: 3, BoltSpeed: 5},
			Healer:          HealerConfig{Interval: 3000, Radius: 160, HealFraction: 0.1},
		},
		Bosses: BossesConfig{
			Colossus: ColossusConfig{
				BossCommon: BossCommon{
					Stats:           EnemyStats{HP: 3000, Speed: 0.9, Damage: 25, Radius: 48, XP: 150, Palette: [3]int{180, 90, 40}},
					ContactFraction: 0.05,
					Shields:         []float64{300, 300, 300},
					PhaseThresholds: []float64{0.66, 0.33},
					Idle:            1500,
					Behaviors: []BossBehavior{
						{State: "slam", Duration: 1200, Weight: 3, MinPhase: 1},
						{State: "charge", Duration: 1500, Weight: 3, MinPhase: 1},
						{State: "summon", Duration: 1000, Weight: 2, MinPhase: 1},
						{State: "shockwave", Duration: 1500, Weight: 3, MinPhase: 2},
						{State: "barrage", Duration: 1800, Weight: 3, MinPhase: 3},
					},
					SummonKind:      "standard",
					SummonCount:     4,
					PhaseDamageStep: 0.25,
				},
				SlamRadius:         150,
				SlamDamageMult:     1.5,
				ChargeSpeedMult:    3.5,
				ShockwaveSpeed:     8,
				ShockwaveMaxRadius: 400,
				BarrageCount:       12,
				BarrageSpeed:       5,
			},
			VoidLord: VoidLordConfig{
				BossCommon: BossCommon{
					Stats:           EnemyStats{HP: 6000, Speed: 1.4, Damage: 30, Radius: 40, XP: 300, Palette: [3]int{90, 30, 140}},
					ContactFraction: 0.05,
					Shields:         []float64{1000},
					PhaseThresholds: []float64{0.70, 0.40, 0.15},
					Idle:            2000,
					Behaviors: []BossBehavior{
						{State: "barrage", Duration: 2000, Weight: 3, MinPhase: 1},
						{State: "teleport_strike", Duration: 1500, Weight: 3, MinPhase: 1},
						{State: "summon", Duration: 1000, Weight: 2, MinPhase: 1},
						{State: "void_rift", Duration: 2000, Weight: 3, MinPhase: 2},
						{State: "nova", Duration: 1500, Weight: 3, MinPhase: 3},
					},
					SummonKind:      "teleporter",
					SummonCount:     3,
					PhaseDamageStep: 0.2,
				},
				OrbitDistance:       220,
				BarrageCount:        16,
				BarrageSpeed:        5.5,
				TeleportTicks:       20,
				TeleportStrikeRange: 120,
				StrikeRadius:        140,
				StrikeDamageMult:    1.4,
				RiftRadius:          120,
				RiftLifetime:        5000,
				RiftTick:            500,
				NovaCount:           24,
			},
		},
		Weapons: map[string]WeaponStats{
			"magic_bolt":      {Damage: 12, Cooldown: 800, Range: 450, Speed: 8, Radius: 6, ProjectileCount: 1, Lifetime: 2000},
			"fireball":        {Damage: 20, Cooldown: 1600, Range: 400, Speed: 6, Radius: 9, ProjectileCount: 1, ExplosionRadius: 70, Lifetime: 2500},
			"homing_missile":  {Damage: 16, Cooldown: 1400, Range: 500, Speed: 5, Radius: 6, ProjectileCount: 2, TurnRate: 0.12, Lifetime: 3000},
			"chain_lightning": {Damage: 18, Cooldown: 1800, Range: 350, ProjectileCount: 1, JumpRange: 150, MaxJumps: 4, DecayRatio: 0.8, Lifetime: 200},
			"poison_cloud":    {Damage: 4, Cooldown: 4000, Range: 300, Radius: 80, ProjectileCount: 1, Lifetime: 4000, TickInterval: 500},
			"black_hole":      {Damage: 3, Cooldown: 8000, Range: 350, Radius: 140, ProjectileCount: 1, Lifetime: 3000, TickInterval: 250, PullStrength: 2.5},
			"frost_nova":      {Damage: 8, Cooldown: 3500, Range: 200, Speed: 15, ProjectileCount: 1, StatusDuration: 2000, SlowFactor: 0.5},
			"shock_nova":      {Damage: 10, Cooldown: 4500, Range: 200, Speed: 15, ProjectileCount: 1, StatusDuration: 1000},
			"arcane_orb":      {Damage: 10, Cooldown: 1000, Range: 90, Radius: 10, ProjectileCount: 3, AngularSpeed: 0.06, HitCooldown: 500},
			"spirit_wolf":     {Damage: 14, Cooldown: 6000, Range: 300, Speed: 4, Radius: 12, ProjectileCount: 1, Lifetime: 15000, AttackCooldown: 700},
			"shadow_clone":    {Damage: 10, Cooldown: 10000, Range: 350, Speed: 8, Radius: 6, ProjectileCount: 1, Lifetime: 8000, AttackCooldown: 900},
			"boomerang":       {Damage: 14, Cooldown: 1500, Range: 250, Speed: 7, Radius: 10, ProjectileCount: 1, HitCooldown: 300},
		},
		Rewards: RewardsConfig{
			XPOrbChance: 0.9,
			ChestChance: 0.003,
			BoxChance:   0.01,
			BoxOutcomes: []WeightedChoice{
				{Name: "heal", Weight: 40},
				{Name: "xp", Weight: 35},
				{Name: "upgrade", Weight: 25},
			},
			BoxHealFraction: 0.3,
			BoxXP:           40,
			ChestMinRarity:  "rare",
		},
		Upgrades: DefaultUpgrades(),
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultUpgrades is the built-in level-up pool.
func DefaultUpgrades() UpgradeTable {
	return UpgradeTable{
		Choices: 3,
		Rarities: []Rarity{
			{Name: "common", Weight: 60, Multiplier: 1},
			{Name: "rare", Weight: 28, Multiplier: 1.5},
			{Name: "epic", Weight: 10, Multiplier: 2},
			{Name: "legendary", Weight: 2, Multiplier: 3},
		},
		Pool: []UpgradeDef{
			{ID: "new_weapon", Kind: UpgradeNewWeapon, Weight: 3, Description: "Learn a new weapon"},
			{ID: "weapon_damage", Kind: UpgradeWeaponStat, Stat: "damage", Amount: 0.15, Weight: 4, Description: "Weapon damage +%.0f%%"},
			{ID: "weapon_cooldown", Kind: UpgradeWeaponStat, Stat: "cooldown", Amount: 0.08, Weight: 3, Description: "Weapon cooldown -%.0f%%"},
			{ID: "weapon_projectile", Kind: UpgradeWeaponStat, Stat: "projectile", Amount: 1, Weight: 1, Description: "Weapon projectiles +%.0f"},
			{ID: "weapon_range", Kind: UpgradeWeaponStat, Stat: "range", Amount: 0.15, Weight: 2, Description: "Weapon range +%.0f%%"},
			{ID: "max_hp", Kind: UpgradePlayerStat, Stat: "max_hp", Amount: 15, Weight: 2, Description: "Max HP +%.0f"},
			{ID: "move_speed", Kind: UpgradePlayerStat, Stat: "speed", Amount: 0.06, Weight: 2, Description: "Move speed +%.0f%%"},
			{ID: "heal", Kind: UpgradePlayerStat, Stat: "heal", Amount: 0.25, Weight: 2, Description: "Heal %.0f%% of max HP"},
			{ID: "magnet", Kind: UpgradePlayerStat, Stat: "magnet", Amount: 20, Weight: 1, Description: "Pickup magnet +%.0f"},
		},
	}
}
