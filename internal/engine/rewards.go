package engine

import (
	"github.com/RevenantSoul/Text-base-RPG-Game/internal/entities/game"
)

const (
	// MinGoldFind and MaxGoldFind bound the gold outcome, inclusive
	MinGoldFind = 5
	MaxGoldFind = 20
)

// RewardKind tags the Reward variant
type RewardKind string

const (
	RewardKindGold    RewardKind = "gold"
	RewardKindItem    RewardKind = "item"
	RewardKindNothing RewardKind = "nothing"
)

// Reward is one entry of the exploration table:
// Gold(amount) | Item(id, kind) | Nothing.
// The gold amount is drawn after the entry is selected, so table entries
// carry no amount.
type Reward struct {
	Kind     RewardKind
	ItemID   string
	ItemKind game.ItemKind
}

func goldReward() Reward {
	return Reward{Kind: RewardKindGold}
}

func nothingReward() Reward {
	return Reward{Kind: RewardKindNothing}
}

func itemReward(itemID string) Reward {
	return Reward{
		Kind:     RewardKindItem,
		ItemID:   itemID,
		ItemKind: game.ClassifyItem(itemID),
	}
}

var rewardTable = buildRewardTable()

func buildRewardTable() []Reward {
	table := []Reward{goldReward(), itemReward(game.ItemPotion)}
	for _, weapon := range game.Weapons() {
		table = append(table, itemReward(weapon))
	}
	for _, armor := range game.Armors() {
		table = append(table, itemReward(armor))
	}
	return append(table, nothingReward())
}

// RewardTable returns the equally likely exploration outcomes in draw order
func RewardTable() []Reward {
	return append([]Reward(nil), rewardTable...)
}
