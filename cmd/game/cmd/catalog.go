package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/pefman/arena-duel/internal/catalog"
	"github.com/pefman/arena-duel/internal/models"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List unit classes and equipment",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := catalog.Load(afero.NewOsFs(), cfg.Catalog)
		if err != nil {
			return err
		}
		return printCatalog(cmd.OutOrStdout(), cat)
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
}

func printCatalog(out io.Writer, cat *catalog.Catalog) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(w, "CLASS\tHEALTH\tSTAMINA\tATTACK\tREGEN\tARMOR\tSKILL")
	for _, c := range models.Classes() {
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%s (%g stamina, %g damage)\n",
			c.Name, c.MaxHealth, c.MaxStamina, c.AttackMod, c.StaminaMod, c.ArmorMod,
			c.Skill.Name, c.Skill.StaminaCost, c.Skill.Damage)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "WEAPON\tDAMAGE\tSTAMINA/HIT")
	for _, wp := range cat.Weapons() {
		fmt.Fprintf(w, "%s\t%g-%g\t%g\n", wp.Name, wp.MinDamage, wp.MaxDamage, wp.StaminaPerHit)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "ARMOR\tDEFENCE\tSTAMINA/TURN")
	for _, a := range cat.Armors() {
		fmt.Fprintf(w, "%s\t%g\t%g\n", a.Name, a.Defence, a.StaminaPerTurn)
	}
	return w.Flush()
}
