package game

// AttackStyle is the style an attack is made with. Any value is accepted;
// only the three constants below are recognized.
type AttackStyle string

const (
	AttackStyleQuick AttackStyle = "quick"
	AttackStyleHeavy AttackStyle = "heavy"
	AttackStyleMagic AttackStyle = "magic"
)

// String returns the string representation of the attack style
func (s AttackStyle) String() string {
	return string(s)
}

// IsRecognized reports whether the style is quick, heavy or magic
func (s AttackStyle) IsRecognized() bool {
	switch s {
	case AttackStyleQuick, AttackStyleHeavy, AttackStyleMagic:
		return true
	default:
		return false
	}
}

// RecognizedAttackStyles returns the styles that deal style damage
func RecognizedAttackStyles() []AttackStyle {
	return []AttackStyle{AttackStyleQuick, AttackStyleHeavy, AttackStyleMagic}
}

// EventKind identifies what an Event narrates
type EventKind string

const (
	EventKindWelcome            EventKind = "welcome"
	EventKindAttack             EventKind = "attack"
	EventKindUnrecognizedAttack EventKind = "unrecognized_attack"
	EventKindDefeated           EventKind = "defeated"
	EventKindGoldFound          EventKind = "gold_found"
	EventKindNothingFound       EventKind = "nothing_found"
	EventKindItemFound          EventKind = "item_found"
	EventKindWeaponEquipped     EventKind = "weapon_equipped"
	EventKindArmorEquipped      EventKind = "armor_equipped"
	EventKindFarewell           EventKind = "farewell"
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	return string(k)
}

// EventKinds returns every kind an action can produce
func EventKinds() []EventKind {
	return []EventKind{
		EventKindWelcome,
		EventKindAttack,
		EventKindUnrecognizedAttack,
		EventKindDefeated,
		EventKindGoldFound,
		EventKindNothingFound,
		EventKindItemFound,
		EventKindWeaponEquipped,
		EventKindArmorEquipped,
		EventKindFarewell,
	}
}

// Event is one narrated outcome of an action. Message is display text; the
// remaining fields carry the structured result.
type Event struct {
	Kind         EventKind   `json:"kind"`
	Message      string      `json:"message"`
	Style        AttackStyle `json:"style,omitempty"`
	DamageDealt  int         `json:"damage_dealt,omitempty"`
	HealthLost   int         `json:"health_lost,omitempty"`
	GoldGained   int         `json:"gold_gained,omitempty"`
	ItemGained   string      `json:"item_gained,omitempty"`
	Unrecognized bool        `json:"unrecognized,omitempty"`
}

// SessionStatus is the lifecycle state of a session
type SessionStatus string

const (
	SessionStatusActive   SessionStatus = "active"
	SessionStatusDefeated SessionStatus = "defeated"
	SessionStatusQuit     SessionStatus = "quit"
)

// String returns the string representation of the status
func (s SessionStatus) String() string {
	return string(s)
}

// IsValid checks if the status is a known lifecycle state
func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusActive, SessionStatusDefeated, SessionStatusQuit:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further actions are accepted
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusDefeated || s == SessionStatusQuit
}

// Snapshot is a read-only copy of the character and session status taken
// after an action
type Snapshot struct {
	Name      string        `json:"name"`
	Health    int           `json:"health"`
	MaxHealth int           `json:"max_health"`
	Gold      int           `json:"gold"`
	Weapon    string        `json:"weapon"`
	Armor     string        `json:"armor,omitempty"`
	Inventory []string      `json:"inventory"`
	Status    SessionStatus `json:"status"`
}

// NewSnapshot copies the character so later mutation does not leak into it
func NewSnapshot(c *Character, status SessionStatus) Snapshot {
	return Snapshot{
		Name:      c.Name,
		Health:    c.Health,
		MaxHealth: c.MaxHealth,
		Gold:      c.Gold,
		Weapon:    c.Weapon,
		Armor:     c.Armor,
		Inventory: append([]string(nil), c.Inventory...),
		Status:    status,
	}
}
