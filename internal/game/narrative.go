package game

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Prompt is a lifecycle line shown next to the action narrative.
type Prompt int

const (
	PromptYourMove Prompt = iota
	PromptFightStarted
	PromptPlayerWins
	PromptEnemyWins
	PromptDraw
	PromptGameOver
	PromptSkillUsed
)

// Message keys double as the English text.
const (
	msgYourMove     = "Your move!"
	msgFightStarted = "The fight has begun!"
	msgPlayerWins   = "You won!"
	msgEnemyWins    = "You lost :("
	msgDraw         = "Draw."
	msgGameOver     = "Game over."
	msgSkillUsed    = "Skill already used. Try another option."

	msgHeroNoStamina  = "Your hero %[1]s tried to use %[2]s but did not have enough stamina."
	msgHeroLanded     = "Your hero %[1]s, using %[2]s, pierces the opponent's %[3]s and deals %[4]v damage."
	msgHeroBlocked    = "Your hero %[1]s, using %[2]s, strikes, but the opponent's %[3]s stops the blow."
	msgEnemyNoStamina = "Opponent %[1]s tried to use %[2]s but did not have enough stamina."
	msgEnemyLanded    = "Opponent %[1]s, using %[2]s, pierces your %[3]s and deals %[4]v damage."
	msgEnemyBlocked   = "Opponent %[1]s, using %[2]s, strikes, but your %[3]s stops the blow."
	msgSkillLanded    = "%[1]s uses %[2]s and deals %[3]v damage to %[4]s."
	msgSkillNoStamina = "%[1]s tried to use %[2]s but did not have enough stamina."
)

var russian = map[string]string{
	msgYourMove:     "Ваш ход!",
	msgFightStarted: "Бой начался!",
	msgPlayerWins:   "Вы выиграли!",
	msgEnemyWins:    "Вы проиграли:(",
	msgDraw:         "Ничья.",
	msgGameOver:     "Игра окончена.",
	msgSkillUsed:    "Навык уже использован. Попробуйте другой вариант.",

	msgHeroNoStamina:  "Ваш герой %[1]s попытался использовать %[2]s, но у него не хватило выносливости.",
	msgHeroLanded:     "Ваш герой %[1]s, используя %[2]s, пробивает защиту %[3]s соперника и наносит %[4]v урона.",
	msgHeroBlocked:    "Ваш герой %[1]s, используя %[2]s, наносит удар, но защита %[3]s соперника его останавливает.",
	msgEnemyNoStamina: "Соперник %[1]s попытался использовать %[2]s, но у него не хватило выносливости.",
	msgEnemyLanded:    "Соперник %[1]s, используя %[2]s, пробивает Вашу защиту %[3]s и наносит %[4]v урона.",
	msgEnemyBlocked:   "Соперник %[1]s, используя %[2]s, наносит удар, но Ваша защита %[3]s его останавливает.",
	msgSkillLanded:    "%[1]s использует %[2]s и наносит %[3]v очков урона сопернику %[4]s.",
	msgSkillNoStamina: "%[1]s попытался использовать %[2]s, но у него не хватило выносливости.",
}

var (
	supported = []language.Tag{language.English, language.Russian}
	matcher   = language.NewMatcher(supported)
	messages  = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, ru := range russian {
		_ = b.SetString(language.English, key, key)
		_ = b.SetString(language.Russian, key, ru)
	}
	return b
}

// Narrator turns engine events into localized text. Printers and casers are
// stateful, so a fresh pair is made per call and a Narrator can be shared.
type Narrator struct {
	tag language.Tag
}

// NewNarrator picks the closest supported language for lang. Unknown or
// malformed tags fall back to English.
func NewNarrator(lang string) *Narrator {
	tag := language.English
	if t, err := language.Parse(lang); err == nil {
		_, idx, conf := matcher.Match(t)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Narrator{tag: tag}
}

func (n *Narrator) printer() *message.Printer {
	return message.NewPrinter(n.tag, message.Catalog(messages))
}

// Language reports the tag actually used.
func (n *Narrator) Language() language.Tag { return n.tag }

func (n *Narrator) Prompt(p Prompt) string {
	pr := n.printer()
	switch p {
	case PromptFightStarted:
		return pr.Sprintf(msgFightStarted)
	case PromptPlayerWins:
		return pr.Sprintf(msgPlayerWins)
	case PromptEnemyWins:
		return pr.Sprintf(msgEnemyWins)
	case PromptDraw:
		return pr.Sprintf(msgDraw)
	case PromptGameOver:
		return pr.Sprintf(msgGameOver)
	case PromptSkillUsed:
		return pr.Sprintf(msgSkillUsed)
	default:
		return pr.Sprintf(msgYourMove)
	}
}

// Event renders one action. Names of units and equipment are upper-cased.
func (n *Narrator) Event(e Event) string {
	pr, upper := n.printer(), cases.Upper(n.tag)
	actor, target := upper.String(e.Actor), upper.String(e.Target)
	weapon, armor, skill := upper.String(e.Weapon), upper.String(e.Armor), upper.String(e.Skill)
	switch e.Kind {
	case EventSkill:
		return pr.Sprintf(msgSkillLanded, actor, skill, e.Damage, target)
	case EventSkillNoStamina:
		return pr.Sprintf(msgSkillNoStamina, actor, skill)
	}
	if e.Auto {
		switch e.Kind {
		case EventNoStamina:
			return pr.Sprintf(msgEnemyNoStamina, actor, weapon)
		case EventHit:
			return pr.Sprintf(msgEnemyLanded, actor, weapon, armor, e.Damage)
		default:
			return pr.Sprintf(msgEnemyBlocked, actor, weapon, armor)
		}
	}
	switch e.Kind {
	case EventNoStamina:
		return pr.Sprintf(msgHeroNoStamina, actor, weapon)
	case EventHit:
		return pr.Sprintf(msgHeroLanded, actor, weapon, armor, e.Damage)
	default:
		return pr.Sprintf(msgHeroBlocked, actor, weapon, armor)
	}
}

// outcomePrompt maps a match result to the line shown under the log.
func outcomePrompt(o Outcome) Prompt {
	switch o {
	case OutcomePlayerWins:
		return PromptPlayerWins
	case OutcomeEnemyWins:
		return PromptEnemyWins
	case OutcomeDraw:
		return PromptDraw
	default:
		return PromptYourMove
	}
}
