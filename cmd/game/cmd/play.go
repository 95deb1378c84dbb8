package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pefman/arena-duel/internal/api"
	"github.com/pefman/arena-duel/internal/engine"
	"github.com/pefman/arena-duel/internal/server"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Fight through a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := api.NewClient(cfg.Server)
		err := runPlay(cmd.Context(), newTerminal(cmd.InOrStdin(), cmd.OutOrStdout()), client, engine.NewDice(cfg.Seed))
		if errors.Is(err, errQuit) || errors.Is(err, io.EOF) {
			return nil
		}
		return err
	},
}

func init() {
	playCmd.Flags().String("server", "", "server base URL (default http://localhost:8081)")
	rootCmd.AddCommand(playCmd)
}

// remoteMatch drives the session held by client.
type remoteMatch struct {
	client *api.Client
}

func (m remoteMatch) Act(ctx context.Context, action string) (server.ActionResponse, error) {
	var (
		resp server.ActionResponse
		err  error
	)
	switch action {
	case server.ActionHit:
		resp, err = m.client.Hit(ctx)
	case server.ActionSkill:
		resp, err = m.client.UseSkill(ctx)
	case server.ActionPass:
		resp, err = m.client.PassTurn(ctx)
	default:
		return resp, fmt.Errorf("%w %q", server.ErrUnknownAction, action)
	}
	if errors.Is(err, api.ErrGameOver) {
		return resp, nil
	}
	return resp, err
}

func runPlay(ctx context.Context, t *terminal, client *api.Client, dice engine.Dice) error {
	classes, err := client.Classes(ctx)
	if err != nil {
		return fmt.Errorf("fetch classes: %w", err)
	}
	weapons, err := client.Weapons(ctx)
	if err != nil {
		return fmt.Errorf("fetch weapons: %w", err)
	}
	armors, err := client.Armors(ctx)
	if err != nil {
		return fmt.Errorf("fetch armors: %w", err)
	}
	classList := make([]string, len(classes))
	for i, c := range classes {
		classList[i] = c.Name
	}
	weaponList, armorList := weaponNames(weapons), armorNames(armors)

	hero, err := pickLoadout(t, "Hero", "Hero", classList, weaponList, armorList)
	if err != nil {
		return err
	}
	if err := client.ChooseHero(ctx, hero); err != nil {
		return err
	}
	enemy := randomLoadout(dice, classList, weaponList, armorList)
	if err := client.ChooseEnemy(ctx, enemy); err != nil {
		return err
	}
	t.printf("Your opponent: %s the %s with %s and %s.\n", enemy.Name, enemy.Class, enemy.Weapon, enemy.Armor)

	start, err := client.StartFight(ctx)
	if err != nil {
		return err
	}
	if _, err := t.fight(ctx, remoteMatch{client: client}, start); err != nil {
		return err
	}
	if st, err := client.Stats(ctx); err == nil && st.Record != nil {
		t.printf("%s: %d won, %d lost, %d drawn.\n", st.Hero, st.Record.Wins, st.Record.Losses, st.Record.Draws)
	}
	return nil
}
