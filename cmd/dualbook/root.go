package cmd

import (
	"os"

	"github.com/kerbaras/dualbook/pkg/app"
	"github.com/kerbaras/dualbook/pkg/config"
	"github.com/spf13/cobra"
)

var (
	cfg      *config.Config
	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "dualbook",
	Short: "Read a book and its translation side by side",
	Long: `Read a book and its translation side by side in the terminal.

dualbook loads two EPUB editions of the same book, pairs their chapters
starting at the given offsets and interleaves them paragraph by paragraph.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
	Run: func(cmd *cobra.Command, args []string) {
		browse, _ := cmd.Flags().GetBool("browse")

		deps, err := newDeps(cmd, browse || flagChanged(cmd, "pair"))
		cobra.CheckErr(err)
		defer deps.Close()

		a := app.NewApp(deps.controller)
		if browse {
			cobra.CheckErr(a.Browse())
			return
		}

		title, req, err := deps.request(cmd)
		cobra.CheckErr(err)
		cobra.CheckErr(a.Read(title, req))
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", config.DefaultPath(), "Path to the config file")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.String("log-file", "", "Log file path; empty logs to stdout")
	flags.String("library", "", "Path to the library database")
	flags.String("original", "", "Location (URL or path) of the original edition")
	flags.String("translated", "", "Location (URL or path) of the translated edition")
	flags.Int("original-offset", 0, "Spine index of the first original chapter to read")
	flags.Int("translated-offset", 0, "Spine index of the first translated chapter to read")
	flags.String("pair", "", "Name or ID of a book pair from the library")
	flags.Int("concurrency", 0, "Chapters loaded in parallel per book")

	rootCmd.Flags().BoolP("browse", "b", false, "Pick a book pair from the library")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
