package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pefman/arena-duel/internal/catalog"
	"github.com/pefman/arena-duel/internal/config"
	"github.com/pefman/arena-duel/internal/engine"
	"github.com/pefman/arena-duel/internal/game"
	"github.com/pefman/arena-duel/internal/logging"
	"github.com/pefman/arena-duel/internal/server"
	"github.com/pefman/arena-duel/internal/session"
	"github.com/pefman/arena-duel/internal/stats"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and WebSocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg, afero.NewOsFs())
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default :8081, or :$PORT)")
	serveCmd.Flags().Int64("seed", 0, "random seed, 0 for time-seeded")
	rootCmd.AddCommand(serveCmd)
}

// arenaFactory builds arenas that share one dice stream.
func arenaFactory(c *config.Config, dice engine.Dice) func() *game.Arena {
	narrator := game.NewNarrator(c.Lang)
	return func() *game.Arena {
		return game.NewArena(
			game.WithDice(dice),
			game.WithNarrator(narrator),
			game.WithStaminaPerRound(c.StaminaPerRound),
			game.WithLogger(logging.Logger),
		)
	}
}

func runServe(ctx context.Context, c *config.Config, fs afero.Fs) error {
	log := logging.Logger
	cat, err := catalog.Load(fs, c.Catalog)
	if err != nil {
		return err
	}

	key := []byte(c.Session.Secret)
	if len(key) == 0 {
		log.Warn().Msg("session.secret not set, sessions will not survive a restart")
		key = securecookie.GenerateRandomKey(32)
	}

	store := session.NewStore(c.Session.TTL,
		session.WithArenaFactory(arenaFactory(c, engine.NewDice(c.Seed))),
		session.WithLogger(log),
	)
	go store.Run(ctx, time.Minute)

	srv := server.New(server.Options{
		Equipment:    cat,
		Sessions:     store,
		Stats:        stats.NewTracker(),
		SessionKey:   key,
		CookieMaxAge: int(c.Session.TTL / time.Second),
		Version:      buildVersion,
		BuildTime:    buildTime,
		Logger:       log,
	})
	log.Info().
		Str("catalog", c.Catalog).
		Int("weapons", len(cat.Weapons())).
		Int("armors", len(cat.Armors())).
		Str("lang", c.Lang).
		Msg("catalog loaded")
	return srv.Run(ctx, c.Addr)
}
