package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the parallel text as a bilingual EPUB",
	Long:  "Load the book pair and write every aligned chapter, original and translation interleaved, into a single EPUB file.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := newDeps(cmd, flagChanged(cmd, "pair"))
		cobra.CheckErr(err)
		defer deps.Close()

		title, req, err := deps.request(cmd)
		cobra.CheckErr(err)

		fmt.Printf("📚 Aligning %s...\n", title)
		path, err := deps.controller.Export(context.Background(), req)
		if err != nil {
			cobra.CheckErr(fmt.Errorf("export failed: %w", err))
		}

		fmt.Printf("✅ Wrote %s\n", path)
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", ".", "Directory to write the EPUB to")

	rootCmd.AddCommand(exportCmd)
}
