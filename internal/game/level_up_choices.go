package game

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"nightfall/internal/config"
	"nightfall/internal/reward"
	"nightfall/internal/weapons"
)

// Choice is one offered upgrade. Amount is already scaled by rarity.
type Choice struct {
	ID          string
	Kind        string
	Stat        string
	Weapon      weapons.Type
	Amount      float64
	Rarity      string
	Description string
}

type levelUpRequest struct {
	level   int
	choices []Choice
}

// queueLevelUps adds one pending request per level gained. Choices are
// rolled when a request reaches the front, so they reflect earlier picks.
func (s *Simulation) queueLevelUps(gained int) {
	first := s.player.Level - gained + 1
	for i := 0; i < gained; i++ {
		s.levelUps = append(s.levelUps, levelUpRequest{level: first + i})
	}
	s.offerLevelUp()
}

// offerLevelUp rolls and announces the front request's choices.
func (s *Simulation) offerLevelUp() {
	req := s.currentLevelUp()
	if req == nil || req.choices != nil {
		return
	}
	req.choices = s.rollChoices()
	s.log.Info("level up", "level", req.level, "choices", len(req.choices))
	s.emit(EventLevelUp, LevelUpData{Level: req.level, Choices: append([]Choice(nil), req.choices...)})
}

func (s *Simulation) currentLevelUp() *levelUpRequest {
	if len(s.levelUps) == 0 {
		return nil
	}
	return &s.levelUps[0]
}

// rollChoices draws distinct pool entries by weight and rolls a rarity for each.
func (s *Simulation) rollChoices() []Choice {
	table := s.cfg.Upgrades
	candidates := make([]config.UpgradeDef, 0, len(table.Pool))
	for _, def := range table.Pool {
		if s.eligible(def) {
			candidates = append(candidates, def)
		}
	}
	out := make([]Choice, 0, table.Choices)
	for len(out) < table.Choices && len(candidates) > 0 {
		i := pickDef(s.rng, candidates)
		def := candidates[i]
		candidates = append(candidates[:i], candidates[i+1:]...)
		rarity := reward.RollRarity(s.rng, table.Rarities, "")
		if c, ok := s.buildChoice(def, rarity); ok {
			out = append(out, c)
		}
	}
	return out
}

func (s *Simulation) eligible(def config.UpgradeDef) bool {
	switch def.Kind {
	case config.UpgradeNewWeapon:
		return len(s.player.Weapons) < s.cfg.Player.MaxWeapons && len(s.catalog.Available(s.player.HasWeapon)) > 0
	case config.UpgradeWeaponStat:
		return len(s.player.Weapons) > 0
	default:
		return true
	}
}

func (s *Simulation) buildChoice(def config.UpgradeDef, rarity config.Rarity) (Choice, bool) {
	c := Choice{
		ID:     def.ID,
		Kind:   def.Kind,
		Stat:   def.Stat,
		Amount: def.Amount * rarity.Multiplier,
		Rarity: rarity.Name,
	}
	switch def.Kind {
	case config.UpgradeNewWeapon:
		available := s.catalog.Available(s.player.HasWeapon)
		if len(available) == 0 {
			return Choice{}, false
		}
		c.Weapon = available[s.rng.Intn(len(available))]
		c.Amount = 0
		c.Description = "New weapon: " + c.Weapon.DisplayName()
	case config.UpgradeWeaponStat:
		if len(s.player.Weapons) == 0 {
			return Choice{}, false
		}
		c.Weapon = s.player.Weapons[s.rng.Intn(len(s.player.Weapons))].Type
		if def.Stat == "projectile" {
			c.Amount = math.Max(1, math.Floor(c.Amount))
		}
		c.Description = c.Weapon.DisplayName() + ": " + describe(def.Description, c.Amount)
	default:
		c.Description = describe(def.Description, c.Amount)
	}
	return c, true
}

// describe fills the amount into a description. Percent formats show
// fractions as percentages.
func describe(format string, amount float64) string {
	if !strings.Contains(format, "%") {
		return format
	}
	if strings.Contains(format, "%%") {
		amount *= 100
	}
	return fmt.Sprintf(format, amount)
}

func pickDef(rng *rand.Rand, defs []config.UpgradeDef) int {
	total := 0.0
	for _, d := range defs {
		total += d.Weight
	}
	roll := rng.Float64() * total
	for i, d := range defs {
		roll -= d.Weight
		if roll < 0 {
			return i
		}
	}
	return len(defs) - 1
}

// applyChoice mutates the player or one of its weapons.
func (s *Simulation) applyChoice(c Choice) error {
	p := s.player
	switch c.Kind {
	case config.UpgradeNewWeapon:
		w, err := s.catalog.New(c.Weapon)
		if err != nil {
			return err
		}
		if err := p.addWeapon(w); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidChoice, err)
		}
	case config.UpgradeWeaponStat:
		w, ok := p.weapon(c.Weapon)
		if !ok {
			return fmt.Errorf("%w: %s not equipped", ErrInvalidChoice, c.Weapon)
		}
		if err := w.Upgrade(c.Stat, c.Amount); err != nil {
			return err
		}
	case config.UpgradePlayerStat:
		switch c.Stat {
		case "max_hp":
			p.MaxHP += c.Amount
			p.Heal(c.Amount)
		case "speed":
			p.Speed *= 1 + c.Amount
		case "heal":
			p.Heal(p.MaxHP * c.Amount)
		case "magnet":
			p.MagnetBonus += c.Amount
		default:
			return fmt.Errorf("%w: unknown player stat %q", ErrInvalidChoice, c.Stat)
		}
	default:
		return fmt.Errorf("%w: unknown upgrade kind %q", ErrInvalidChoice, c.Kind)
	}
	s.log.Info("upgrade applied", "id", c.ID, "weapon", c.Weapon, "rarity", c.Rarity, "amount", c.Amount)
	return nil
}

// rollWeaponUpgrade picks a weapon stat upgrade for a random owned weapon
// with rarity at least minRarity.
func (s *Simulation) rollWeaponUpgrade(minRarity string) (Choice, bool) {
	var defs []config.UpgradeDef
	for _, def := range s.cfg.Upgrades.Pool {
		if def.Kind == config.UpgradeWeaponStat {
			defs = append(defs, def)
		}
	}
	if len(defs) == 0 || len(s.player.Weapons) == 0 {
		return Choice{}, false
	}
	def := defs[pickDef(s.rng, defs)]
	return s.buildChoice(def, reward.RollRarity(s.rng, s.cfg.Upgrades.Rarities, minRarity))
}
