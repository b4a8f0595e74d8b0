package game

// Weapon identifiers
const (
	WeaponWoodenSword = "Wooden Sword"
	WeaponStoneSword  = "Stone Sword"
	WeaponAlloySword  = "Alloy Sword"
	WeaponMagicSword  = "Magic Sword"
	WeaponHeroSword   = "Hero Sword"
)

// Armor identifiers
const (
	ArmorWooden = "Wooden Armor"
	ArmorStone  = "Stone Armor"
	ArmorAlloy  = "Alloy Armor"
	ArmorMagic  = "Magic Armor"
	ArmorHero   = "Hero Armor"
)

// Plain item identifiers
const (
	ItemPotion    = "Potion"
	ItemGoblinEar = "Goblin Ear"
)

const (
	// DefaultWeaponDamage applies to unknown or unequipped weapons
	DefaultWeaponDamage = 1
	// DefaultArmorBonus applies to absent or unknown armor
	DefaultArmorBonus = 0
)

// ItemKind classifies an item identifier against the equipment tables
type ItemKind string

const (
	ItemKindWeapon ItemKind = "weapon"
	ItemKindArmor  ItemKind = "armor"
	ItemKindPlain  ItemKind = "plain"
)

// String returns the string representation of the item kind
func (k ItemKind) String() string {
	return string(k)
}

type tableEntry struct {
	id    string
	value int
}

// Table order is weakest first and drives Weapons/Armors and the reward table.
var (
	weaponTable = []tableEntry{
		{WeaponWoodenSword, 3},
		{WeaponStoneSword, 5},
		{WeaponAlloySword, 7},
		{WeaponMagicSword, 10},
		{WeaponHeroSword, 12},
	}

	armorTable = []tableEntry{
		{ArmorWooden, 1},
		{ArmorStone, 2},
		{ArmorAlloy, 3},
		{ArmorMagic, 4},
		{ArmorHero, 5},
	}

	weaponDamage = indexTable(weaponTable)
	armorBonus   = indexTable(armorTable)
)

func indexTable(entries []tableEntry) map[string]int {
	m := make(map[string]int, len(entries))
	for _, e := range entries {
		m[e.id] = e.value
	}
	return m
}

func tableKeys(entries []tableEntry) []string {
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.id
	}
	return keys
}

// WeaponDamage returns the base damage of a weapon, DefaultWeaponDamage when unknown
func WeaponDamage(weaponID string) int {
	if dmg, ok := weaponDamage[weaponID]; ok {
		return dmg
	}
	return DefaultWeaponDamage
}

// ArmorBonus returns the damage bonus of an armor piece, DefaultArmorBonus when
// absent ("") or unknown
func ArmorBonus(armorID string) int {
	if bonus, ok := armorBonus[armorID]; ok {
		return bonus
	}
	return DefaultArmorBonus
}

// IsWeapon reports whether the identifier is a key of the weapon table
func IsWeapon(itemID string) bool {
	_, ok := weaponDamage[itemID]
	return ok
}

// IsArmor reports whether the identifier is a key of the armor table
func IsArmor(itemID string) bool {
	_, ok := armorBonus[itemID]
	return ok
}

// ClassifyItem resolves an item identifier by table membership, never by name
func ClassifyItem(itemID string) ItemKind {
	switch {
	case IsWeapon(itemID):
		return ItemKindWeapon
	case IsArmor(itemID):
		return ItemKindArmor
	default:
		return ItemKindPlain
	}
}

// Weapons returns the known weapon identifiers, weakest first
func Weapons() []string {
	return tableKeys(weaponTable)
}

// Armors returns the known armor identifiers, weakest first
func Armors() []string {
	return tableKeys(armorTable)
}
