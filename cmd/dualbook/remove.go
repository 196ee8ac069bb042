package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:     "remove [name|id]",
	Aliases: []string{"rm"},
	Short:   "Remove a book pair from your library",
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ref := strings.Join(args, " ")

		deps, err := newDeps(cmd, true)
		cobra.CheckErr(err)
		defer deps.Close()

		cobra.CheckErr(deps.controller.RemovePair(ref))
		fmt.Printf("🗑️  Removed '%s'\n", ref)
	},
}

func init() {
	rootCmd.AddCommand(removeCmd)
}
