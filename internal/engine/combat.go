package engine

import (
	"fmt"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
)

const (
	// SelfDamage is the health every recognized attack costs
	SelfDamage = 5

	heavyAttackBonus = 3
	magicAttackBonus = 5

	// unrecognizedDamage is reported for styles outside quick/heavy/magic
	unrecognizedDamage = 1
)

// BaseDamage is the weapon damage plus the armor bonus of the character
func BaseDamage(c *game.Character) int {
	return game.WeaponDamage(c.Weapon) + game.ArmorBonus(c.Armor)
}

// AttackDamage returns the damage a style deals on top of base and whether
// the style is recognized
func AttackDamage(base int, style game.AttackStyle) (int, bool) {
	switch style {
	case game.AttackStyleQuick:
		return base, true
	case game.AttackStyleHeavy:
		return base + heavyAttackBonus, true
	case game.AttackStyleMagic:
		return base + magicAttackBonus, true
	default:
		return unrecognizedDamage, false
	}
}

// Attack resolves one attack. Damage is narrative only; there is no opponent.
// Self-damage and the defeat check happen before loot, so a lethal attack
// never grants a trophy.
func (s *Session) Attack(style game.AttackStyle) (*game.Event, error) {
	if err := s.requireActive("attack"); err != nil {
		return nil, err
	}

	damage, recognized := AttackDamage(BaseDamage(s.character), style)
	if !recognized {
		return &game.Event{
			Kind:         game.EventKindUnrecognizedAttack,
			Message:      "❓ Unknown attack type...",
			Style:        style,
			DamageDealt:  damage,
			Unrecognized: true,
		}, nil
	}

	before := s.character.Health
	defeated := s.character.ApplyDamage(SelfDamage)
	lost := before - s.character.Health

	if defeated {
		s.status = game.SessionStatusDefeated
		return &game.Event{
			Kind:        game.EventKindDefeated,
			Message:     "💀 You have fallen in battle...",
			Style:       style,
			DamageDealt: damage,
			HealthLost:  lost,
		}, nil
	}

	s.character.AddItem(game.ItemGoblinEar)

	return &game.Event{
		Kind:        game.EventKindAttack,
		Message:     fmt.Sprintf("%s\n🧠 You looted a %s as a trophy!", attackNarration(style, damage), game.ItemGoblinEar),
		Style:       style,
		DamageDealt: damage,
		HealthLost:  lost,
		ItemGained:  game.ItemGoblinEar,
	}, nil
}

func attackNarration(style game.AttackStyle, damage int) string {
	switch style {
	case game.AttackStyleHeavy:
		return fmt.Sprintf("💥 You performed a Heavy Attack dealing %d damage!", damage)
	case game.AttackStyleMagic:
		return fmt.Sprintf("🔮 You unleashed a Magic Attack dealing %d damage!", damage)
	default:
		return fmt.Sprintf("⚡ You performed a Quick Attack dealing %d damage!", damage)
	}
}
