package cmd

import (
	"context"
	"errors"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pefman/arena-duel/internal/catalog"
	"github.com/pefman/arena-duel/internal/engine"
	"github.com/pefman/arena-duel/internal/game"
	"github.com/pefman/arena-duel/internal/logging"
	"github.com/pefman/arena-duel/internal/models"
	"github.com/pefman/arena-duel/internal/server"
)

var duelCmd = &cobra.Command{
	Use:   "duel",
	Short: "Fight a local duel in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(afero.NewOsFs(), cfg.Catalog)
		if err != nil {
			return err
		}
		dice := engine.NewDice(cfg.Seed)
		arena := arenaFactory(cfg, dice)()
		err = runDuel(cmd.Context(), newTerminal(cmd.InOrStdin(), cmd.OutOrStdout()), cat, arena, dice)
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		return err
	},
}

func init() {
	duelCmd.Flags().Int64("seed", 0, "random seed, 0 for time-seeded")
	rootCmd.AddCommand(duelCmd)
}

// localMatch drives an in-process arena.
type localMatch struct {
	arena *game.Arena
}

func (m localMatch) Act(_ context.Context, action string) (server.ActionResponse, error) {
	resp, _, err := server.Act(m.arena, action)
	if errors.Is(err, game.ErrNotStarted) || errors.Is(err, game.ErrFinished) {
		return resp, nil
	}
	return resp, err
}

func classNames() []string {
	var names []string
	for _, c := range models.Classes() {
		names = append(names, c.Name)
	}
	return names
}

func weaponNames(ws []models.Weapon) []string {
	names := make([]string, len(ws))
	for i, w := range ws {
		names[i] = w.Name
	}
	return names
}

func armorNames(as []models.Armor) []string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = a.Name
	}
	return names
}

// pickLoadout asks the player for a full loadout.
func pickLoadout(t *terminal, who, defName string, classes, weapons, armors []string) (models.Loadout, error) {
	var (
		l   models.Loadout
		err error
	)
	if l.Name, err = t.ask(who+" name", defName); err != nil {
		return l, err
	}
	if l.Class, err = t.choose("Class:", classes); err != nil {
		return l, err
	}
	if l.Weapon, err = t.choose("Weapon:", weapons); err != nil {
		return l, err
	}
	if l.Armor, err = t.choose("Armor:", armors); err != nil {
		return l, err
	}
	return l, nil
}

// randomLoadout rolls an opponent from the catalog.
func randomLoadout(dice engine.Dice, classes, weapons, armors []string) models.Loadout {
	return models.Loadout{
		Name:   "Opponent",
		Class:  classes[dice.Intn(len(classes))],
		Weapon: weapons[dice.Intn(len(weapons))],
		Armor:  armors[dice.Intn(len(armors))],
	}
}

func runDuel(ctx context.Context, t *terminal, cat *catalog.Catalog, arena *game.Arena, dice engine.Dice) error {
	classes, weapons, armors := classNames(), weaponNames(cat.Weapons()), armorNames(cat.Armors())

	heroPick, err := pickLoadout(t, "Hero", "Hero", classes, weapons, armors)
	if err != nil {
		return err
	}
	hero, err := game.NewFromLoadout(cat, heroPick, game.Human)
	if err != nil {
		return err
	}
	enemyPick := randomLoadout(dice, classes, weapons, armors)
	enemy, err := game.NewFromLoadout(cat, enemyPick, game.Auto)
	if err != nil {
		return err
	}
	t.printf("Your opponent: %s the %s with %s and %s.\n", enemy.Name, enemy.Class.Name, enemy.Weapon.Name, enemy.Armor.Name)

	if err := arena.StartGame(hero, enemy); err != nil {
		return err
	}
	st := arena.Snapshot()
	start := server.ActionResponse{
		Result:       arena.Narrator().Prompt(game.PromptFightStarted),
		BattleResult: st.BattleResult,
		State:        &st,
	}
	last, err := t.fight(ctx, localMatch{arena: arena}, start)
	if err != nil {
		return err
	}
	logging.Logger.Debug().Str("outcome", last.State.Outcome.String()).Int("round", last.State.Round).Msg("duel over")
	return nil
}
