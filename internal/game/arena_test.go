package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pefman/arena-duel/internal/engine"
	"github.com/pefman/arena-duel/internal/models"
)

// noSkill keeps the computer on weapon hits: Intn never lands on 0.
var noSkill = engine.Fixed{Frac: 0.5, Int: 5}

func newTestArena(t *testing.T, player, enemy *Combatant, opts ...Option) *Arena {
	t.Helper()
	a := NewArena(append([]Option{WithDice(noSkill)}, opts...)...)
	require.NoError(t, a.StartGame(player, enemy))
	return a
}

func TestStartGame(t *testing.T) {
	a := NewArena()
	assert.Equal(t, StatusNotStarted, a.Status())
	assert.NotEmpty(t, a.ID)

	hero := NewCombatant("hero", models.Warrior, club, rags, Human)
	bot := NewCombatant("bot", models.Thief, club, rags, Auto)

	assert.ErrorIs(t, a.StartGame(nil, bot), ErrBadLineup)
	assert.ErrorIs(t, a.StartGame(hero, hero), ErrBadLineup)

	require.NoError(t, a.StartGame(hero, bot))
	assert.Equal(t, OutcomeNone, a.CheckOutcome())
	assert.Equal(t, StatusPlayerTurn, a.Status())
	assert.Equal(t, "Your move!", a.BattleResult())
}

func TestActionsRequireRunningMatch(t *testing.T) {
	a := NewArena()
	_, err := a.PlayerAttack()
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = a.PlayerUseSkill()
	assert.ErrorIs(t, err, ErrNotStarted)
	_, err = a.PassTurn()
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestPlayerAttackKillsEnemy(t *testing.T) {
	hero := NewCombatant("hero", testClass(50, 30), club, rags, Human)
	bot := NewCombatant("bot", testClass(10, 30), club, rags, Auto)
	a := newTestArena(t, hero, bot)

	r, err := a.PlayerAttack()
	require.NoError(t, err)

	require.Len(t, r.Events, 1, "enemy does not act after losing")
	assert.Equal(t, EventHit, r.Events[0].Kind)
	assert.Equal(t, 10.0, r.Events[0].Damage)
	assert.Len(t, r.Lines, 1)
	assert.Contains(t, r.Text, "HERO")
	assert.NotContains(t, r.Text, "Opponent")

	assert.Equal(t, 0.0, bot.Health())
	assert.Equal(t, StatusFinished, a.Status())
	assert.Equal(t, OutcomePlayerWins, a.Outcome())
	assert.Equal(t, StatusFinished, r.Status)
	assert.Equal(t, OutcomePlayerWins, r.Outcome)
	assert.Equal(t, "You won!", r.BattleResult)
	assert.Equal(t, 28.0, hero.Stamina(), "no regeneration after the final blow")

	t.Run("finished match rejects actions", func(t *testing.T) {
		_, err := a.PlayerAttack()
		assert.ErrorIs(t, err, ErrFinished)
		_, err = a.PlayerUseSkill()
		assert.ErrorIs(t, err, ErrFinished)
		_, err = a.PassTurn()
		assert.ErrorIs(t, err, ErrFinished)
		assert.Equal(t, 0.0, bot.Health())
	})

	t.Run("new start reopens the arena", func(t *testing.T) {
		h := NewCombatant("hero", testClass(50, 30), club, rags, Human)
		b := NewCombatant("bot", testClass(50, 30), club, rags, Auto)
		require.NoError(t, a.StartGame(h, b))
		assert.Equal(t, StatusPlayerTurn, a.Status())
		assert.Equal(t, OutcomeNone, a.Outcome())
		assert.Zero(t, a.Round())
	})
}

func TestFullRound(t *testing.T) {
	cls := testClass(50, 25)
	cls.StaminaMod = 2
	free := models.Weapon{Name: "stick", MinDamage: 3, MaxDamage: 3}
	hero := NewCombatant("hero", cls, free, rags, Human)
	hero.stamina = 20
	bot := NewCombatant("bot", testClass(50, 30), free, rags, Auto)

	a := newTestArena(t, hero, bot)
	r, err := a.PlayerAttack()
	require.NoError(t, err)

	require.Len(t, r.Events, 2)
	assert.False(t, r.Events[0].Auto)
	assert.True(t, r.Events[1].Auto)
	assert.Len(t, r.Lines, 2)
	assert.Contains(t, r.Lines[1], "Opponent BOT")

	assert.Equal(t, 47.0, hero.Health())
	assert.Equal(t, 47.0, bot.Health())
	assert.Equal(t, 22.0, hero.Stamina(), "20 + 1*2")
	assert.Equal(t, 30.0, bot.Stamina(), "capped at max")
	assert.Equal(t, StatusPlayerTurn, a.Status())
	assert.Equal(t, 1, a.Round())
	assert.Equal(t, "Your move!", r.BattleResult)
}

func TestEnemyCounterWins(t *testing.T) {
	hero := NewCombatant("hero", testClass(5, 30), club, rags, Human)
	bot := NewCombatant("bot", testClass(100, 30), club, rags, Auto)
	a := newTestArena(t, hero, bot)

	r, err := a.PlayerAttack()
	require.NoError(t, err)
	require.Len(t, r.Events, 2)
	assert.Equal(t, OutcomeEnemyWins, a.Outcome())
	assert.Equal(t, StatusFinished, a.Status())
	assert.Equal(t, "You lost :(", r.BattleResult)
	assert.Equal(t, 28.0, hero.Stamina(), "no regeneration once decided")
	assert.Equal(t, 28.0, bot.Stamina())
}

func TestCheckOutcomeDrawWins(t *testing.T) {
	hero := NewCombatant("hero", testClass(50, 30), club, rags, Human)
	bot := NewCombatant("bot", testClass(50, 30), club, rags, Auto)
	a := newTestArena(t, hero, bot)

	hero.health, bot.health = 0, 0
	assert.Equal(t, OutcomeDraw, a.CheckOutcome())

	hero.health = 10
	a.outcome = OutcomeNone
	assert.Equal(t, OutcomePlayerWins, a.CheckOutcome())

	hero.health, bot.health = 0, 10
	a.outcome = OutcomeNone
	assert.Equal(t, OutcomeEnemyWins, a.CheckOutcome())
}

func TestPlayerUseSkill(t *testing.T) {
	hero := NewCombatant("hero", testClass(50, 30), club, rags, Human)
	bot := NewCombatant("bot", testClass(50, 30), club, plate, Auto)
	a := newTestArena(t, hero, bot)

	r, err := a.PlayerUseSkill()
	require.NoError(t, err)
	require.Len(t, r.Events, 2)
	assert.Equal(t, EventSkill, r.Events[0].Kind)
	assert.False(t, r.SkillUnavailable)
	assert.Equal(t, 1, a.Round())
	assert.Equal(t, 38.0, bot.Health())

	healthBefore, staminaBefore := hero.Health(), hero.Stamina()
	enemyBefore := bot.Health()

	r, err = a.PlayerUseSkill()
	require.NoError(t, err)
	assert.True(t, r.SkillUnavailable)
	assert.Empty(t, r.Events)
	assert.Equal(t, "Skill already used. Try another option.", r.Text)
	assert.Equal(t, StatusPlayerTurn, r.Status)
	assert.Equal(t, 1, a.Round(), "turn does not advance")
	assert.Equal(t, healthBefore, hero.Health())
	assert.Equal(t, staminaBefore, hero.Stamina())
	assert.Equal(t, enemyBefore, bot.Health())
}

func TestPassTurn(t *testing.T) {
	hero := NewCombatant("hero", testClass(50, 30), club, rags, Human)
	hero.stamina = 1
	bot := NewCombatant("bot", testClass(50, 30), club, rags, Auto)
	a := newTestArena(t, hero, bot)

	r, err := a.PassTurn()
	require.NoError(t, err)
	require.Len(t, r.Events, 1)
	assert.True(t, r.Events[0].Auto)
	assert.Equal(t, 40.0, hero.Health())
	assert.Equal(t, 1.0, hero.Stamina(), "passing does not regenerate")
	assert.Equal(t, 28.0, bot.Stamina())
	assert.Equal(t, 1, a.Round())

	t.Run("enemy can finish the match", func(t *testing.T) {
		hero.health = 3
		r, err := a.PassTurn()
		require.NoError(t, err)
		assert.Equal(t, OutcomeEnemyWins, r.Outcome)
		assert.Equal(t, StatusFinished, a.Status())
	})
}

func TestEnd(t *testing.T) {
	hero := NewCombatant("hero", testClass(50, 30), club, rags, Human)
	bot := NewCombatant("bot", testClass(50, 30), club, rags, Auto)
	a := newTestArena(t, hero, bot)
	_, err := a.PlayerAttack()
	require.NoError(t, err)

	a.End()
	assert.Equal(t, StatusNotStarted, a.Status())
	assert.Equal(t, OutcomeNone, a.Outcome())
	s := a.Snapshot()
	assert.Nil(t, s.Player)
	assert.Nil(t, s.Enemy)
	assert.Empty(t, s.BattleResult)

	_, err = a.PlayerAttack()
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestSnapshot(t *testing.T) {
	hero := NewCombatant("hero", models.Warrior, club, rags, Human)
	bot := NewCombatant("bot", models.Thief, club, plate, Auto)
	a := newTestArena(t, hero, bot)

	s := a.Snapshot()
	assert.Equal(t, a.ID, s.ID)
	assert.Equal(t, StatusPlayerTurn, s.Status)
	require.NotNil(t, s.Player)
	require.NotNil(t, s.Enemy)
	assert.Equal(t, "Warrior", s.Player.Class)
	assert.Equal(t, 60.0, s.Player.MaxHealth)
	assert.Equal(t, "Hard Shot", s.Enemy.Skill)
	assert.Equal(t, "plate", s.Enemy.Armor)
	assert.False(t, s.Enemy.SkillUsed)
}

func TestStaminaPerRoundOption(t *testing.T) {
	free := models.Weapon{Name: "stick", MinDamage: 1, MaxDamage: 1}
	hero := NewCombatant("hero", testClass(50, 30), free, rags, Human)
	hero.stamina = 10
	bot := NewCombatant("bot", testClass(50, 30), free, rags, Auto)
	a := newTestArena(t, hero, bot, WithStaminaPerRound(3))

	_, err := a.PlayerAttack()
	require.NoError(t, err)
	assert.Equal(t, 13.0, hero.Stamina())
}

// Random matches with the real classes and catalog-like gear must keep every
// resource inside [0, max] after each action and always terminate.
func TestResourcesStayInBounds(t *testing.T) {
	weapons := []models.Weapon{
		{Name: "knife", MinDamage: 1, MaxDamage: 2, StaminaPerHit: 2.5},
		{Name: "hatchet", MinDamage: 3, MaxDamage: 5, StaminaPerHit: 5},
	}
	armors := []models.Armor{
		{Name: "t-shirt", Defence: 0.5, StaminaPerTurn: 0.5},
		{Name: "carapace", Defence: 3, StaminaPerTurn: 3},
	}
	inBounds := func(c *Combatant) {
		assert.GreaterOrEqual(t, c.Health(), 0.0)
		assert.LessOrEqual(t, c.Health(), c.Class.MaxHealth)
		assert.GreaterOrEqual(t, c.Stamina(), 0.0)
		assert.LessOrEqual(t, c.Stamina(), c.Class.MaxStamina)
	}

	for seed := int64(1); seed <= 40; seed++ {
		dice := engine.NewDice(seed)
		hero := NewCombatant("hero", models.Warrior, weapons[seed%2], armors[seed%2], Human)
		bot := NewCombatant("bot", models.Thief, weapons[(seed+1)%2], armors[(seed/2)%2], Auto)
		a := NewArena(WithDice(dice))
		require.NoError(t, a.StartGame(hero, bot))

		for step := 0; step < 1000 && a.Status() == StatusPlayerTurn; step++ {
			var err error
			switch dice.Intn(6) {
			case 0:
				_, err = a.PlayerUseSkill()
			case 1:
				_, err = a.PassTurn()
			default:
				_, err = a.PlayerAttack()
			}
			require.NoError(t, err)
			inBounds(hero)
			inBounds(bot)
		}
		if a.Status() == StatusFinished {
			assert.NotEqual(t, OutcomeNone, a.Outcome())
		}
	}
}

func TestKnockOutAfterFractionalHits(t *testing.T) {
	dagger := models.Weapon{ID: 9, Name: "dagger", MinDamage: 1.3, MaxDamage: 1.3}
	hero := NewCombatant("hero", testClass(60, 30), dagger, rags, Human)
	bot := NewCombatant("bot", testClass(50, 30), club, rags, Auto)
	a := newTestArena(t, hero, bot)

	for _, dmg := range []float64{1.6, 9.2, 10.9, 13.8, 13.2} {
		bot.takeDamage(dmg)
	}
	require.Equal(t, OutcomeNone, a.CheckOutcome())
	assert.Equal(t, 1.3, bot.Health())

	r, err := a.PlayerAttack()
	require.NoError(t, err)
	require.Len(t, r.Events, 1)
	assert.Equal(t, 1.3, r.Events[0].Damage)
	assert.Equal(t, 0.0, bot.Health())
	assert.Equal(t, OutcomePlayerWins, a.Outcome())
	assert.Equal(t, StatusFinished, a.Status())
}
