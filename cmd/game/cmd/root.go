package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pefman/arena-duel/internal/config"
	"github.com/pefman/arena-duel/internal/logging"
)

// Build metadata injected via -ldflags at build time
var (
	buildVersion = "dev"
	buildTime    = ""
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "arena-duel",
	Short: "Turn-based arena duels",
	Long: `arena-duel pits a hero against a computer opponent in a turn-based fight.

Available commands:
  serve      Run the HTTP and WebSocket server
  duel       Fight a local duel in the terminal
  play       Fight through a running server
  catalog    List unit classes and equipment

Use "arena-duel [command] --help" for more information about a specific command.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		logging.Setup(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (json, yaml or toml)")
	pf.String("catalog", "", "equipment catalog file")
	pf.String("lang", "", "narrative language (en, ru)")
	pf.String("log-level", "", "trace, debug, info, warn or error")
	pf.String("log-format", "", "console or json")
}
