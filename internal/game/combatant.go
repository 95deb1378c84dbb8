package game

import (
	"math"

	"github.com/pefman/arena-duel/internal/engine"
	"github.com/pefman/arena-duel/internal/models"
)

// Policy selects how a combatant takes its turn.
type Policy int

const (
	// Human acts only on explicit player commands.
	Human Policy = iota
	// Auto is the computer opponent: one chance in autoSkillOutcomes per turn
	// to spend its skill instead of a weapon hit.
	Auto
)

const autoSkillOutcomes = 10

// Combatant is a unit inside one match. It is not safe for concurrent use;
// the owning arena serializes access.
type Combatant struct {
	Name   string
	Class  *models.UnitClass
	Weapon models.Weapon
	Armor  models.Armor
	Policy Policy

	health    float64
	stamina   float64
	skillUsed bool
}

// NewCombatant returns a unit at full health and stamina.
func NewCombatant(name string, class *models.UnitClass, weapon models.Weapon, armor models.Armor, policy Policy) *Combatant {
	return &Combatant{
		Name:    name,
		Class:   class,
		Weapon:  weapon,
		Armor:   armor,
		Policy:  policy,
		health:  class.MaxHealth,
		stamina: class.MaxStamina,
	}
}

func (c *Combatant) Health() float64  { return engine.Round1(c.health) }
func (c *Combatant) Stamina() float64 { return engine.Round1(c.stamina) }
func (c *Combatant) SkillUsed() bool  { return c.skillUsed }
func (c *Combatant) Alive() bool      { return c.Health() > 0 }

func (c *Combatant) CanAffordHit() bool   { return c.stamina >= c.Weapon.StaminaPerHit }
func (c *Combatant) CanAffordArmor() bool { return c.stamina >= c.Armor.StaminaPerTurn }

func (c *Combatant) spend(cost float64) {
	c.stamina = math.Max(0, c.stamina-cost)
}

// takeDamage keeps health on the one-decimal grid it is displayed on.
func (c *Combatant) takeDamage(dmg float64) {
	c.health = engine.Round1(math.Max(0, c.health-dmg))
}

func (c *Combatant) regenerate(base float64) {
	c.stamina = math.Min(c.Class.MaxStamina, c.stamina+base*c.Class.StaminaMod)
}

// computeDamage resolves one weapon swing. The caller has already checked
// that the attacker can afford it.
func (c *Combatant) computeDamage(target *Combatant, dice engine.Dice) float64 {
	raw := engine.Round1(dice.Uniform(c.Weapon.MinDamage, c.Weapon.MaxDamage)) * c.Class.AttackMod
	c.spend(c.Weapon.StaminaPerHit)

	armor := 0.0
	if target.CanAffordArmor() {
		target.spend(target.Armor.StaminaPerTurn)
		armor = target.Armor.Defence * target.Class.ArmorMod
	}

	dmg := engine.Round1(math.Max(0, raw-armor))
	if dmg <= 0 {
		return 0
	}
	target.takeDamage(dmg)
	return dmg
}

func (c *Combatant) event(kind EventKind, target *Combatant) Event {
	return Event{
		Kind:   kind,
		Actor:  c.Name,
		Target: target.Name,
		Weapon: c.Weapon.Name,
		Armor:  target.Armor.Name,
		Skill:  c.Class.Skill.Name,
		Auto:   c.Policy == Auto,
	}
}

// attack is a plain weapon hit with no policy involved.
func (c *Combatant) attack(target *Combatant, dice engine.Dice) Event {
	if !c.CanAffordHit() {
		return c.event(EventNoStamina, target)
	}
	dmg := c.computeDamage(target, dice)
	if dmg == 0 {
		return c.event(EventBlocked, target)
	}
	ev := c.event(EventHit, target)
	ev.Damage = dmg
	return ev
}

// Hit takes the combatant's turn against target. An Auto combatant that can
// afford a swing and still holds its skill may use the skill instead.
func (c *Combatant) Hit(target *Combatant, dice engine.Dice) Event {
	if c.Policy == Auto && c.CanAffordHit() && !c.skillUsed {
		if dice.Intn(autoSkillOutcomes) == 0 {
			ev, _ := c.UseSkill(target)
			return ev
		}
	}
	return c.attack(target, dice)
}

// UseSkill spends the single-use skill. ok is false when it was already
// spent, in which case nothing changes. The skill is marked used even when
// the combatant cannot pay for it.
func (c *Combatant) UseSkill(target *Combatant) (ev Event, ok bool) {
	if c.skillUsed {
		return Event{}, false
	}
	c.skillUsed = true
	skill := c.Class.Skill
	if c.stamina < skill.StaminaCost {
		return c.event(EventSkillNoStamina, target), true
	}
	c.spend(skill.StaminaCost)
	target.takeDamage(skill.Damage)
	ev = c.event(EventSkill, target)
	ev.Damage = skill.Damage
	return ev, true
}

func (c *Combatant) state() *CombatantState {
	return &CombatantState{
		Name:       c.Name,
		Class:      c.Class.Name,
		Weapon:     c.Weapon.Name,
		Armor:      c.Armor.Name,
		Health:     c.Health(),
		MaxHealth:  c.Class.MaxHealth,
		Stamina:    c.Stamina(),
		MaxStamina: c.Class.MaxStamina,
		Skill:      c.Class.Skill.Name,
		SkillUsed:  c.skillUsed,
	}
}
