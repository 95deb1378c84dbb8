package models

// ========================= Domain Models =========================
// Immutable shapes shared by the catalog, the engine and the API.

// Weapon is one entry of the equipment catalog.
type Weapon struct {
	ID            int     `json:"id" validate:"gte=0"`
	Name          string  `json:"name" validate:"required"`
	MinDamage     float64 `json:"min_damage" validate:"gte=0"`
	MaxDamage     float64 `json:"max_damage" validate:"gtefield=MinDamage"`
	StaminaPerHit float64 `json:"stamina_per_hit" validate:"gte=0"`
}

// Armor is one entry of the equipment catalog.
type Armor struct {
	ID             int     `json:"id" validate:"gte=0"`
	Name           string  `json:"name" validate:"required"`
	Defence        float64 `json:"defence" validate:"gte=0"`
	StaminaPerTurn float64 `json:"stamina_per_turn" validate:"gte=0"`
}

// Skill is a single-use special attack. Its damage ignores armor.
type Skill struct {
	Name        string  `json:"name"`
	StaminaCost float64 `json:"stamina_cost"`
	Damage      float64 `json:"damage"`
}

// UnitClass is an archetype shared by reference between matches.
type UnitClass struct {
	Name       string  `json:"name"`
	MaxHealth  float64 `json:"max_health"`
	MaxStamina float64 `json:"max_stamina"`
	AttackMod  float64 `json:"attack_mod"`
	StaminaMod float64 `json:"stamina_mod"`
	ArmorMod   float64 `json:"armor_mod"`
	Skill      Skill   `json:"skill"`
}

// Loadout is what a player picks before the fight.
type Loadout struct {
	Name   string `json:"name" validate:"required,min=1,max=32"`
	Class  string `json:"unit_class" validate:"required"`
	Weapon string `json:"weapon" validate:"required"`
	Armor  string `json:"armor" validate:"required"`
}

// WebSocket message structure
type WsMsg struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}
