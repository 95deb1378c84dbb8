package models

var (
	FuryPunch = Skill{Name: "Fury Punch", StaminaCost: 6, Damage: 12}
	HardShot  = Skill{Name: "Hard Shot", StaminaCost: 5, Damage: 12}
)

var (
	Warrior = &UnitClass{
		Name:       "Warrior",
		MaxHealth:  60,
		MaxStamina: 30,
		AttackMod:  0.8,
		StaminaMod: 0.9,
		ArmorMod:   1.2,
		Skill:      FuryPunch,
	}
	Thief = &UnitClass{
		Name:       "Thief",
		MaxHealth:  50,
		MaxStamina: 25,
		AttackMod:  1.5,
		StaminaMod: 1.2,
		ArmorMod:   1.0,
		Skill:      HardShot,
	}
)

var classOrder = []*UnitClass{Warrior, Thief}

// Classes returns the selectable unit classes in display order.
func Classes() []*UnitClass {
	out := make([]*UnitClass, len(classOrder))
	copy(out, classOrder)
	return out
}

// FindClass looks a class up by its exact display name.
func FindClass(name string) (*UnitClass, bool) {
	for _, c := range classOrder {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}
