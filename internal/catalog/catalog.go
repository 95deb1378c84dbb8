// Package catalog loads the equipment document and answers weapon and armor
// lookups. A catalog is immutable once loaded.
package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"

	"github.com/pefman/arena-duel/internal/models"
)

var (
	ErrUnknownWeapon = errors.New("unknown weapon")
	ErrUnknownArmor  = errors.New("unknown armor")
	ErrInvalid       = errors.New("invalid equipment catalog")
)

// document is the on-disk shape of the equipment file.
type document struct {
	Weapons []models.Weapon `json:"weapons" validate:"required,min=1,dive"`
	Armors  []models.Armor  `json:"armors" validate:"required,min=1,dive"`
}

type Catalog struct {
	weapons  []models.Weapon
	armors   []models.Armor
	byWeapon map[string]models.Weapon
	byArmor  map[string]models.Armor
}

var validate = validator.New()

// Load reads and validates the catalog at path. Any failure is fatal for the
// caller: no partial catalog is ever returned.
func Load(fs afero.Fs, path string) (*Catalog, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read equipment catalog %s: %w", path, err)
	}
	c, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a catalog document from r.
func Parse(r io.Reader) (*Catalog, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := validate.Struct(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return New(doc.Weapons, doc.Armors)
}

// New builds a catalog from already decoded entries. Names must be unique
// within their kind.
func New(weapons []models.Weapon, armors []models.Armor) (*Catalog, error) {
	c := &Catalog{
		weapons:  make([]models.Weapon, 0, len(weapons)),
		armors:   make([]models.Armor, 0, len(armors)),
		byWeapon: make(map[string]models.Weapon, len(weapons)),
		byArmor:  make(map[string]models.Armor, len(armors)),
	}
	for _, w := range weapons {
		if err := validate.Struct(w); err != nil {
			return nil, fmt.Errorf("%w: weapon %q: %v", ErrInvalid, w.Name, err)
		}
		if _, dup := c.byWeapon[w.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate weapon %q", ErrInvalid, w.Name)
		}
		c.byWeapon[w.Name] = w
		c.weapons = append(c.weapons, w)
	}
	for _, a := range armors {
		if err := validate.Struct(a); err != nil {
			return nil, fmt.Errorf("%w: armor %q: %v", ErrInvalid, a.Name, err)
		}
		if _, dup := c.byArmor[a.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate armor %q", ErrInvalid, a.Name)
		}
		c.byArmor[a.Name] = a
		c.armors = append(c.armors, a)
	}
	return c, nil
}

// FindWeapon is an exact, case-sensitive lookup.
func (c *Catalog) FindWeapon(name string) (models.Weapon, bool) {
	w, ok := c.byWeapon[name]
	return w, ok
}

// FindArmor is an exact, case-sensitive lookup.
func (c *Catalog) FindArmor(name string) (models.Armor, bool) {
	a, ok := c.byArmor[name]
	return a, ok
}

// Weapons returns the weapons in file order.
func (c *Catalog) Weapons() []models.Weapon {
	out := make([]models.Weapon, len(c.weapons))
	copy(out, c.weapons)
	return out
}

// Armors returns the armors in file order.
func (c *Catalog) Armors() []models.Armor {
	out := make([]models.Armor, len(c.armors))
	copy(out, c.armors)
	return out
}
