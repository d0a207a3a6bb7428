package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nightfall/internal/config"
	"nightfall/internal/enemy"
	"nightfall/internal/mathutil"
	"nightfall/internal/registry"
	"nightfall/internal/reward"
	"nightfall/internal/weapons"
)

func (s *Simulation) dropAt(kind reward.Kind, offset mathutil.Vec2) *reward.Drop {
	d := &reward.Drop{Base: registry.Base{ID: s.NextID()}, Kind: kind, Pos: s.player.Pos.Add(offset)}
	s.drops.Add(d)
	return d
}

func TestChestNeedsInteractionRange(t *testing.T) {
	s := newTestSim(t, nil)
	far := s.dropAt(reward.KindChest, mathutil.V(s.cfg.Simulation.InteractionRadius+1, 0))
	_, err := s.OpenChest(far.ID)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.False(t, far.Dead())

	near := s.dropAt(reward.KindChest, mathutil.V(10, 0))
	loot, err := s.OpenChest(near.ID)
	require.NoError(t, err)
	require.NotNil(t, loot.Upgrade)
	assert.NotEqual(t, "common", loot.Upgrade.Rarity)
	assert.Equal(t, weapons.MagicBolt, loot.Upgrade.Weapon)
	assert.Equal(t, 2, s.player.Weapons[0].Level)

	_, err = s.OpenChest(near.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.OpenBox(far.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMysteryBoxHeal(t *testing.T) {
	cfg := quietConfig()
	cfg.Rewards.BoxOutcomes = []config.WeightedChoice{{Name: reward.BoxHeal, Weight: 1}}
	s := newTestSim(t, cfg)
	s.player.HP = 50
	box := s.dropAt(reward.KindMysteryBox, mathutil.V(0, 20))
	loot, err := s.OpenBox(box.ID)
	require.NoError(t, err)
	assert.Equal(t, reward.BoxHeal, loot.Outcome)
	assert.InDelta(t, 30, loot.Healed, 1e-9)
	assert.InDelta(t, 80, s.player.HP, 1e-9)
}

func TestMysteryBoxXPCanLevelUp(t *testing.T) {
	cfg := quietConfig()
	cfg.Rewards.BoxOutcomes = []config.WeightedChoice{{Name: reward.BoxXP, Weight: 1}}
	s := newTestSim(t, cfg)
	box := s.dropAt(reward.KindMysteryBox, mathutil.V(0, 20))
	loot, err := s.OpenBox(box.ID)
	require.NoError(t, err)
	assert.Equal(t, cfg.Rewards.BoxXP, loot.XP)
	assert.True(t, s.LevelUpPending())
	assert.Len(t, eventsOf(s.DrainEvents(), EventLevelUp), 1)
}

func TestInteractNearestPicksClosest(t *testing.T) {
	cfg := quietConfig()
	cfg.Rewards.BoxOutcomes = []config.WeightedChoice{{Name: reward.BoxHeal, Weight: 1}}
	s := newTestSim(t, cfg)
	s.dropAt(reward.KindChest, mathutil.V(40, 0))
	box := s.dropAt(reward.KindMysteryBox, mathutil.V(0, 15))
	loot, err := s.InteractNearest()
	require.NoError(t, err)
	assert.Equal(t, reward.KindMysteryBox, loot.Source)
	assert.True(t, box.Dead())

	loot, err = s.InteractNearest()
	require.NoError(t, err)
	assert.Equal(t, reward.KindChest, loot.Source)

	_, err = s.InteractNearest()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChooseUpgradeWithoutPending(t *testing.T) {
	s := newTestSim(t, nil)
	assert.ErrorIs(t, s.ChooseUpgrade(0), ErrNoPendingLevelUp)
	assert.Nil(t, s.PendingChoices())
}

func TestApplyPlayerStatChoices(t *testing.T) {
	s := newTestSim(t, nil)
	p := s.player
	require.NoError(t, s.applyChoice(Choice{Kind: config.UpgradePlayerStat, Stat: "max_hp", Amount: 20}))
	assert.Equal(t, 120.0, p.MaxHP)
	assert.Equal(t, 120.0, p.HP)

	p.HP = 20
	require.NoError(t, s.applyChoice(Choice{Kind: config.UpgradePlayerStat, Stat: "heal", Amount: 0.25}))
	assert.Equal(t, 50.0, p.HP)

	speed := p.Speed
	require.NoError(t, s.applyChoice(Choice{Kind: config.UpgradePlayerStat, Stat: "speed", Amount: 0.1}))
	assert.InDelta(t, speed*1.1, p.Speed, 1e-9)

	require.NoError(t, s.applyChoice(Choice{Kind: config.UpgradePlayerStat, Stat: "magnet", Amount: 20}))
	assert.Equal(t, 20.0, p.MagnetBonus)

	err := s.applyChoice(Choice{Kind: config.UpgradePlayerStat, Stat: "luck", Amount: 1})
	assert.ErrorIs(t, err, ErrInvalidChoice)
	err = s.applyChoice(Choice{Kind: config.UpgradeWeaponStat, Stat: "damage", Weapon: weapons.Fireball, Amount: 0.1})
	assert.ErrorIs(t, err, ErrInvalidChoice)
}

func TestWeaponCapRemovesNewWeaponChoice(t *testing.T) {
	s := newTestSim(t, nil)
	for _, typ := range s.catalog.Available(s.player.HasWeapon) {
		if len(s.player.Weapons) == s.cfg.Player.MaxWeapons {
			break
		}
		require.NoError(t, s.applyChoice(Choice{Kind: config.UpgradeNewWeapon, Weapon: typ}))
	}
	require.Len(t, s.player.Weapons, 6)
	for i := 0; i < 50; i++ {
		for _, c := range s.rollChoices() {
			assert.NotEqual(t, config.UpgradeNewWeapon, c.Kind)
		}
	}
	w, err := s.catalog.New(s.catalog.Available(s.player.HasWeapon)[0])
	require.NoError(t, err)
	assert.Error(t, s.player.addWeapon(w))
}

func TestChoicesAreDistinctAndScaled(t *testing.T) {
	s := newTestSim(t, nil)
	for i := 0; i < 50; i++ {
		choices := s.rollChoices()
		require.Len(t, choices, 3)
		seen := map[string]bool{}
		for _, c := range choices {
			assert.False(t, seen[c.ID], "duplicate %s", c.ID)
			seen[c.ID] = true
			assert.NotEmpty(t, c.Description)
			if c.ID == "weapon_damage" {
				r := s.cfg.Upgrades.RarityByName(c.Rarity)
				assert.InDelta(t, 0.15*r.Multiplier, c.Amount, 1e-9)
			}
		}
	}
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "Weapon damage +15%", describe("Weapon damage +%.0f%%", 0.15))
	assert.Equal(t, "Max HP +30", describe("Max HP +%.0f", 30))
	assert.Equal(t, "Learn a new weapon", describe("Learn a new weapon", 0))
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestSim(t, nil)
	s.spawnAt(t, enemy.KindStandard, mathutil.V(200, 0), 1e9)
	s.dropAt(reward.KindChest, mathutil.V(300, 0))
	ticks(s, 5)

	snap := s.Snapshot(false)
	require.Len(t, snap.Enemies, 1)
	require.Len(t, snap.Weapons, 1)
	require.NotEmpty(t, snap.Effects[weapons.MagicBolt])
	snap.Enemies[0].HP = -1
	snap.Weapons[0].Damage = 0
	snap.Effects[weapons.MagicBolt][0].Pos = mathutil.V(-1, -1)

	again := s.Snapshot(false)
	assert.NotEqual(t, -1.0, again.Enemies[0].HP)
	assert.NotZero(t, again.Weapons[0].Damage)
	assert.NotEqual(t, mathutil.V(-1, -1), again.Effects[weapons.MagicBolt][0].Pos)
	assert.Equal(t, "Magic Bolt", again.Weapons[0].Name)
	assert.Len(t, again.Drops, 1)
	assert.Equal(t, s.Session(), again.Session)
}
