// Package game holds the adventure's data model: the character sheet, the
// equipment tables and the events actions produce.
package game

const (
	DefaultPlayerName = "Hero"
	MaxHealth         = 100
	StartingHealth    = 100
	StartingGold      = 50
	StartingWeapon    = WeaponWoodenSword
)

// Character is the mutable state of the one player in a session.
// Health stays within [0, MaxHealth]; zero health means defeated.
type Character struct {
	Name      string   `json:"name"`
	Health    int      `json:"health"`
	MaxHealth int      `json:"max_health"`
	Gold      int      `json:"gold"`
	Weapon    string   `json:"weapon"`
	Armor     string   `json:"armor,omitempty"` // empty when no armor is worn
	Inventory []string `json:"inventory"`
}

// NewCharacter returns a character with the starting loadout
func NewCharacter(name string) *Character {
	if name == "" {
		name = DefaultPlayerName
	}
	return &Character{
		Name:      name,
		Health:    StartingHealth,
		MaxHealth: MaxHealth,
		Gold:      StartingGold,
		Weapon:    StartingWeapon,
		Inventory: []string{ItemPotion, StartingWeapon},
	}
}

// ApplyDamage lowers health by n, clamped at zero, and reports whether the
// character is now defeated
func (c *Character) ApplyDamage(n int) bool {
	c.Health -= n
	if c.Health < 0 {
		c.Health = 0
	}
	if c.MaxHealth > 0 && c.Health > c.MaxHealth {
		c.Health = c.MaxHealth
	}
	return c.IsDefeated()
}

// AddGold adds n gold
func (c *Character) AddGold(n int) {
	c.Gold += n
}

// AddItem appends an item to the inventory; duplicates are kept
func (c *Character) AddItem(itemID string) {
	c.Inventory = append(c.Inventory, itemID)
}

// EquipWeapon replaces the equipped weapon. The previous weapon stays in the inventory.
func (c *Character) EquipWeapon(itemID string) {
	c.Weapon = itemID
}

// EquipArmor replaces the worn armor. The previous armor stays in the inventory.
func (c *Character) EquipArmor(itemID string) {
	c.Armor = itemID
}

// IsDefeated reports whether health has reached zero
func (c *Character) IsDefeated() bool {
	return c.Health <= 0
}

// HasArmor reports whether any armor is worn
func (c *Character) HasArmor() bool {
	return c.Armor != ""
}

// Clone returns a deep copy
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Inventory = append([]string(nil), c.Inventory...)
	return &clone
}
