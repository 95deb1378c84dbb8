package game

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pefman/arena-duel/internal/engine"
)

// StaminaPerRound is the base regeneration after each completed round,
// scaled by every unit's own stamina modifier.
const StaminaPerRound = 1.0

var (
	ErrNotStarted = errors.New("no match in progress")
	ErrFinished   = errors.New("match is over")
	ErrBadLineup  = errors.New("player and enemy must be two distinct combatants")
)

// Arena runs one match between a human-driven player and a computer enemy.
// It holds no locks: callers serialize access to a given arena.
type Arena struct {
	ID string

	player  *Combatant
	enemy   *Combatant
	status  Status
	outcome Outcome
	round   int

	regen    float64
	dice     engine.Dice
	narrator *Narrator
	log      zerolog.Logger
}

type Option func(*Arena)

func WithDice(d engine.Dice) Option { return func(a *Arena) { a.dice = d } }

func WithNarrator(n *Narrator) Option { return func(a *Arena) { a.narrator = n } }

func WithStaminaPerRound(v float64) Option { return func(a *Arena) { a.regen = v } }

func WithLogger(l zerolog.Logger) Option { return func(a *Arena) { a.log = l } }

func NewArena(opts ...Option) *Arena {
	a := &Arena{
		ID:    uuid.New().String(),
		regen: StaminaPerRound,
		log:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(a)
	}
	if a.dice == nil {
		a.dice = engine.NewDice(0)
	}
	if a.narrator == nil {
		a.narrator = NewNarrator("en")
	}
	a.log = a.log.With().Str("arena", a.ID).Logger()
	return a
}

func (a *Arena) Status() Status      { return a.status }
func (a *Arena) Outcome() Outcome    { return a.outcome }
func (a *Arena) Round() int          { return a.round }
func (a *Arena) Player() *Combatant  { return a.player }
func (a *Arena) Enemy() *Combatant   { return a.enemy }
func (a *Arena) Narrator() *Narrator { return a.narrator }

// BattleResult is the line shown under the log: the pending "your move"
// prompt while running, the outcome once finished.
func (a *Arena) BattleResult() string {
	switch a.status {
	case StatusPlayerTurn:
		return a.narrator.Prompt(PromptYourMove)
	case StatusFinished:
		return a.narrator.Prompt(outcomePrompt(a.outcome))
	default:
		return ""
	}
}

// StartGame binds both combatants and hands the first move to the player.
// It may be called again after a match finished.
func (a *Arena) StartGame(player, enemy *Combatant) error {
	if player == nil || enemy == nil || player == enemy {
		return ErrBadLineup
	}
	a.player, a.enemy = player, enemy
	a.status = StatusPlayerTurn
	a.outcome = OutcomeNone
	a.round = 0
	a.log.Info().
		Str("player", player.Name).Str("player_class", player.Class.Name).
		Str("enemy", enemy.Name).Str("enemy_class", enemy.Class.Name).
		Msg("match started")
	return nil
}

// CheckOutcome evaluates both health pools. A double knock-out is a draw and
// takes precedence over either single loss.
func (a *Arena) CheckOutcome() Outcome {
	if a.player == nil || a.enemy == nil {
		return a.outcome
	}
	switch {
	case !a.player.Alive() && !a.enemy.Alive():
		a.outcome = OutcomeDraw
	case !a.player.Alive():
		a.outcome = OutcomeEnemyWins
	case !a.enemy.Alive():
		a.outcome = OutcomePlayerWins
	}
	return a.outcome
}

func (a *Arena) ready() error {
	switch a.status {
	case StatusPlayerTurn:
		return nil
	case StatusFinished:
		return ErrFinished
	default:
		return ErrNotStarted
	}
}

// PlayerAttack runs a weapon hit for the player and, if nobody fell, the
// enemy's counter-turn and stamina regeneration.
func (a *Arena) PlayerAttack() (Report, error) {
	if err := a.ready(); err != nil {
		return Report{}, err
	}
	return a.resolveRound(a.player.Hit(a.enemy, a.dice)), nil
}

// PlayerUseSkill is PlayerAttack with the skill. A spent skill yields a
// report with SkillUnavailable set and leaves the turn with the player.
func (a *Arena) PlayerUseSkill() (Report, error) {
	if err := a.ready(); err != nil {
		return Report{}, err
	}
	ev, ok := a.player.UseSkill(a.enemy)
	if !ok {
		r := a.report(nil)
		r.SkillUnavailable = true
		r.Text = a.narrator.Prompt(PromptSkillUsed)
		r.Lines = []string{r.Text}
		return r, nil
	}
	return a.resolveRound(ev), nil
}

// PassTurn lets the enemy act without a player action. Stamina does not
// regenerate on a pass.
func (a *Arena) PassTurn() (Report, error) {
	if err := a.ready(); err != nil {
		return Report{}, err
	}
	a.round++
	ev := a.enemyAutoTurn()
	a.settle()
	return a.report([]Event{ev}), nil
}

// End tears the match down and returns the arena to NotStarted.
func (a *Arena) End() {
	if a.status != StatusNotStarted {
		a.log.Info().Str("outcome", a.outcome.String()).Int("round", a.round).Msg("match ended")
	}
	a.player, a.enemy = nil, nil
	a.status = StatusNotStarted
	a.outcome = OutcomeNone
	a.round = 0
}

func (a *Arena) resolveRound(first Event) Report {
	a.round++
	events := []Event{first}
	if a.CheckOutcome() == OutcomeNone {
		events = append(events, a.enemyAutoTurn())
		if a.outcome == OutcomeNone {
			a.regenerateStamina()
		}
	}
	a.settle()
	return a.report(events)
}

func (a *Arena) enemyAutoTurn() Event {
	ev := a.enemy.Hit(a.player, a.dice)
	a.CheckOutcome()
	return ev
}

func (a *Arena) regenerateStamina() {
	a.player.regenerate(a.regen)
	a.enemy.regenerate(a.regen)
}

// settle moves the arena to Finished once an outcome is known.
func (a *Arena) settle() {
	if a.outcome == OutcomeNone {
		return
	}
	a.status = StatusFinished
	a.log.Info().Str("outcome", a.outcome.String()).Int("round", a.round).Msg("match finished")
}

func (a *Arena) report(events []Event) Report {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		a.log.Debug().Int("kind", int(ev.Kind)).Str("actor", ev.Actor).Float64("damage", ev.Damage).Msg("action")
		lines = append(lines, a.narrator.Event(ev))
	}
	return Report{
		Events:       events,
		Lines:        lines,
		Text:         strings.Join(lines, "\n"),
		Status:       a.status,
		Outcome:      a.outcome,
		BattleResult: a.BattleResult(),
	}
}

// Snapshot returns a render-ready copy of the arena.
func (a *Arena) Snapshot() State {
	s := State{
		ID:           a.ID,
		Status:       a.status,
		Outcome:      a.outcome,
		Round:        a.round,
		BattleResult: a.BattleResult(),
	}
	if a.player != nil {
		s.Player = a.player.state()
	}
	if a.enemy != nil {
		s.Enemy = a.enemy.state()
	}
	return s
}
