package engine

import (
	"fmt"

	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/errors"
)

// Explore draws one reward uniformly from the reward table and applies it.
// Exploration only ever adds gold or items.
func (s *Session) Explore() (*game.Event, error) {
	if err := s.requireActive("explore"); err != nil {
		return nil, err
	}

	reward, err := s.drawReward()
	if err != nil {
		return nil, err
	}

	switch reward.Kind {
	case RewardKindGold:
		amount, err := s.drawGold()
		if err != nil {
			return nil, err
		}
		s.character.AddGold(amount)
		return &game.Event{
			Kind:       game.EventKindGoldFound,
			Message:    fmt.Sprintf("🌄 You explored a glowing meadow and found ✨ %d gold!", amount),
			GoldGained: amount,
		}, nil

	case RewardKindNothing:
		return &game.Event{
			Kind:    game.EventKindNothingFound,
			Message: "🌫️ You wandered aimlessly and found nothing of interest...",
		}, nil
	}

	// Auto-equip is unconditional, even when the find is weaker
	s.character.AddItem(reward.ItemID)
	switch reward.ItemKind {
	case game.ItemKindWeapon:
		s.character.EquipWeapon(reward.ItemID)
		return &game.Event{
			Kind:       game.EventKindWeaponEquipped,
			Message:    fmt.Sprintf("🗡️ You equipped a new weapon: %s!", reward.ItemID),
			ItemGained: reward.ItemID,
		}, nil
	case game.ItemKindArmor:
		s.character.EquipArmor(reward.ItemID)
		return &game.Event{
			Kind:       game.EventKindArmorEquipped,
			Message:    fmt.Sprintf("🛡️ You equipped new armor: %s!", reward.ItemID),
			ItemGained: reward.ItemID,
		}, nil
	default:
		return &game.Event{
			Kind:       game.EventKindItemFound,
			Message:    fmt.Sprintf("🌟 You discovered a %s and added it to your inventory!", reward.ItemID),
			ItemGained: reward.ItemID,
		}, nil
	}
}

func (s *Session) drawReward() (Reward, error) {
	roll, err := s.roller.Roll(len(rewardTable))
	if err != nil {
		return Reward{}, errors.Wrap(err, "failed to draw exploration reward")
	}
	if roll < 1 || roll > len(rewardTable) {
		return Reward{}, errors.Internalf("reward roll %d outside 1..%d", roll, len(rewardTable))
	}
	return rewardTable[roll-1], nil
}

func (s *Session) drawGold() (int, error) {
	size := MaxGoldFind - MinGoldFind + 1
	roll, err := s.roller.Roll(size)
	if err != nil {
		return 0, errors.Wrap(err, "failed to draw gold amount")
	}
	if roll < 1 || roll > size {
		return 0, errors.Internalf("gold roll %d outside 1..%d", roll, size)
	}
	return MinGoldFind - 1 + roll, nil
}
