package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the book pairs in your library",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := newDeps(cmd, true)
		cobra.CheckErr(err)
		defer deps.Close()

		pairs, err := deps.controller.ListPairs()
		cobra.CheckErr(err)

		if len(pairs) == 0 {
			fmt.Println("📚 No book pairs in library. Use 'dualbook add' to register one.")
			return
		}

		rows := []table.Row{}
		for _, pair := range pairs {
			rows = append(rows, table.Row{
				truncateString(pair.Name, 20),
				truncateString(pair.OriginalLocation, 40),
				strconv.Itoa(pair.OriginalOffset),
				truncateString(pair.TranslatedLocation, 40),
				strconv.Itoa(pair.TranslatedOffset),
				pair.ID[:8],
			})
		}

		fmt.Printf("\n📚 Library (%d pairs)\n\n", len(pairs))
		fmt.Println(renderTable([]table.Column{
			{Title: "Name", Width: 22},
			{Title: "Original", Width: 42},
			{Title: "From", Width: 5},
			{Title: "Translated", Width: 42},
			{Title: "From", Width: 5},
			{Title: "ID", Width: 9},
		}, rows))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
