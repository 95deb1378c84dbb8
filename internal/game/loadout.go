package game

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/pefman/arena-duel/internal/catalog"
	"github.com/pefman/arena-duel/internal/models"
)

var (
	ErrUnknownClass   = errors.New("unknown unit class")
	ErrInvalidLoadout = errors.New("invalid loadout")
)

// Equipment is the lookup side of the catalog.
type Equipment interface {
	FindWeapon(name string) (models.Weapon, bool)
	FindArmor(name string) (models.Armor, bool)
}

var validate = validator.New()

// NewFromLoadout resolves a player's picks into a combatant. Every lookup
// miss is an error; nothing here ever reaches a running match.
func NewFromLoadout(eq Equipment, l models.Loadout, policy Policy) (*Combatant, error) {
	if err := validate.Struct(l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLoadout, err)
	}
	class, ok := models.FindClass(l.Class)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownClass, l.Class)
	}
	weapon, ok := eq.FindWeapon(l.Weapon)
	if !ok {
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownWeapon, l.Weapon)
	}
	armor, ok := eq.FindArmor(l.Armor)
	if !ok {
		return nil, fmt.Errorf("%w: %q", catalog.ErrUnknownArmor, l.Armor)
	}
	return NewCombatant(l.Name, class, weapon, armor, policy), nil
}
