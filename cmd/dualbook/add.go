package cmd

import (
	"fmt"
	"strings"

	"github.com/kerbaras/dualbook/pkg/services"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Register a book pair in your library",
	Long:  "Save the --original and --translated locations and offsets under a name, to open later with --pair.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.Join(args, " ")

		deps, err := newDeps(cmd, true)
		cobra.CheckErr(err)
		defer deps.Close()

		pair, err := deps.controller.AddPair(name, services.Request{
			Original:   services.SourceSpec{Location: cfg.Original.Location, Offset: cfg.Original.Offset},
			Translated: services.SourceSpec{Location: cfg.Translated.Location, Offset: cfg.Translated.Offset},
		})
		if err != nil {
			cobra.CheckErr(fmt.Errorf("failed to add pair: %w", err))
		}

		fmt.Printf("✅ Added '%s' (ID: %s)\n", pair.Name, pair.ID)
		fmt.Printf("💡 To read it, use: dualbook --pair \"%s\"\n", pair.Name)
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
