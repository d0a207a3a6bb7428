package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Upgrade kinds offered on level-up.
const (
	UpgradeNewWeapon  = "new_weapon"
	UpgradeWeaponStat = "weapon_stat"
	UpgradePlayerStat = "player_stat"
)

// UpgradeTable is the pool level-up choices are drawn from.
type UpgradeTable struct {
	Choices  int          `yaml:"choices"`
	Rarities []Rarity     `yaml:"rarities"`
	Pool     []UpgradeDef `yaml:"pool"`
}

// Rarity scales an upgrade's Amount by Multiplier.
type Rarity struct {
	Name       string  `yaml:"name"`
	Weight     float64 `yaml:"weight"`
	Multiplier float64 `yaml:"multiplier"`
}

// UpgradeDef is one entry of the pool. Stat names:
//
//	weapon_stat: damage, cooldown, projectile, range
//	player_stat: max_hp, speed, heal, magnet
type UpgradeDef struct {
	ID          string  `yaml:"id"`
	Kind        string  `yaml:"kind"`
	Stat        string  `yaml:"stat,omitempty"`
	Amount      float64 `yaml:"amount"`
	Weight      float64 `yaml:"weight"`
	Description string  `yaml:"description"`
}

// LoadUpgradeTable reads a standalone upgrade pool file.
func LoadUpgradeTable(filename string) (UpgradeTable, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return UpgradeTable{}, fmt.Errorf("failed to read upgrades: %w", err)
	}
	var t UpgradeTable
	if err := yaml.Unmarshal(data, &t); err != nil {
		return UpgradeTable{}, fmt.Errorf("failed to parse upgrades: %w", err)
	}
	if err := t.validate(); err != nil {
		return UpgradeTable{}, err
	}
	return t, nil
}

// RarityByName returns the named rarity, or the first one when missing.
func (t UpgradeTable) RarityByName(name string) Rarity {
	for _, r := range t.Rarities {
		if r.Name == name {
			return r
		}
	}
	if len(t.Rarities) == 0 {
		return Rarity{Name: "common", Weight: 1, Multiplier: 1}
	}
	return t.Rarities[0]
}

func (t UpgradeTable) validate() error {
	if t.Choices <= 0 {
		return fmt.Errorf("%w: upgrades.choices must be positive", ErrInvalidConfig)
	}
	if len(t.Rarities) == 0 {
		return fmt.Errorf("%w: upgrades.rarities is empty", ErrInvalidConfig)
	}
	for _, r := range t.Rarities {
		if r.Weight <= 0 || r.Multiplier <= 0 {
			return fmt.Errorf("%w: rarity %q needs positive weight and multiplier", ErrInvalidConfig, r.Name)
		}
	}
	if len(t.Pool) == 0 {
		return fmt.Errorf("%w: upgrades.pool is empty", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(t.Pool))
	for _, u := range t.Pool {
		if seen[u.ID] {
			return fmt.Errorf("%w: duplicate upgrade id %q", ErrInvalidConfig, u.ID)
		}
		seen[u.ID] = true
		switch u.Kind {
		case UpgradeNewWeapon, UpgradeWeaponStat, UpgradePlayerStat:
		default:
			return fmt.Errorf("%w: upgrade %q has unknown kind %q", ErrInvalidConfig, u.ID, u.Kind)
		}
		if u.Weight <= 0 {
			return fmt.Errorf("%w: upgrade %q weight must be positive", ErrInvalidConfig, u.ID)
		}
	}
	return nil
}
