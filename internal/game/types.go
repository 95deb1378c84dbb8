package game

import "fmt"

// Status is the arena lifecycle: NotStarted -> PlayerTurn -> Finished.
type Status int

const (
	StatusNotStarted Status = iota
	StatusPlayerTurn
	StatusFinished
)

var statusNames = [...]string{"not_started", "player_turn", "finished"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(b []byte) error {
	for i, n := range statusNames {
		if n == string(b) {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// Outcome classifies a finished match.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomePlayerWins
	OutcomeEnemyWins
	OutcomeDraw
)

var outcomeNames = [...]string{"none", "player_wins", "enemy_wins", "draw"}

func (o Outcome) String() string {
	if int(o) < len(outcomeNames) {
		return outcomeNames[o]
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *Outcome) UnmarshalText(b []byte) error {
	for i, n := range outcomeNames {
		if n == string(b) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", b)
}

// EventKind tells what a single action did.
type EventKind int

const (
	EventNoStamina      EventKind = iota // weapon not affordable, nothing happened
	EventHit                             // damage landed
	EventBlocked                         // armor absorbed the whole hit
	EventSkill                           // skill landed
	EventSkillNoStamina                  // skill consumed without effect
)

// Event is the structured result of one action.
type Event struct {
	Kind   EventKind `json:"kind"`
	Actor  string    `json:"actor"`
	Target string    `json:"target"`
	Weapon string    `json:"weapon,omitempty"`
	Armor  string    `json:"armor,omitempty"`
	Skill  string    `json:"skill,omitempty"`
	Damage float64   `json:"damage"`
	Auto   bool      `json:"auto,omitempty"`
}

// Report is what every player-facing arena action returns.
type Report struct {
	Events []Event  `json:"events"`
	Lines  []string `json:"lines"`
	Text   string   `json:"text"`
	// SkillUnavailable is set when the skill was already spent; the turn did
	// not advance and the caller should ask for another action.
	SkillUnavailable bool    `json:"skill_unavailable,omitempty"`
	Status           Status  `json:"status"`
	Outcome          Outcome `json:"outcome"`
	BattleResult     string  `json:"battle_result"`
}

// CombatantState is a read-only view for rendering.
type CombatantState struct {
	Name       string  `json:"name"`
	Class      string  `json:"unit_class"`
	Weapon     string  `json:"weapon"`
	Armor      string  `json:"armor"`
	Health     float64 `json:"health"`
	MaxHealth  float64 `json:"max_health"`
	Stamina    float64 `json:"stamina"`
	MaxStamina float64 `json:"max_stamina"`
	Skill      string  `json:"skill"`
	SkillUsed  bool    `json:"skill_used"`
}

// State is a snapshot of the whole arena.
type State struct {
	ID           string          `json:"id"`
	Status       Status          `json:"status"`
	Outcome      Outcome         `json:"outcome"`
	Round        int             `json:"round"`
	BattleResult string          `json:"battle_result"`
	Player       *CombatantState `json:"player,omitempty"`
	Enemy        *CombatantState `json:"enemy,omitempty"`
}
