package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pefman/arena-duel/internal/api"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of arena-duel",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "arena-duel %s", buildVersion)
		if buildTime != "" {
			fmt.Fprintf(out, " (built %s)", buildTime)
		}
		fmt.Fprintln(out)

		if remote, _ := cmd.Flags().GetBool("remote"); remote {
			v, bt, err := api.NewClient(cfg.Server).Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "server %s %s (built %s)\n", cfg.Server, v, bt)
		}
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("remote", false, "also ask the server for its version")
	versionCmd.Flags().String("server", "", "server base URL")
	rootCmd.AddCommand(versionCmd)
}
