package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/kerbaras/dualbook/pkg/align"
	"github.com/kerbaras/dualbook/pkg/book"
	"github.com/kerbaras/dualbook/pkg/sources"
	"github.com/spf13/cobra"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters [location]",
	Short: "List the spine of an EPUB to help pick an offset",
	Long:  "Print every spine item of a book with its index, title and paragraph count. The index of the first real chapter is the offset to use.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		fetcher := sources.NewAuto(&http.Client{Timeout: cfg.Loader.FetchTimeout})
		raw, err := fetcher.Fetch(context.Background(), args[0])
		cobra.CheckErr(err)

		b, err := book.Open(raw)
		cobra.CheckErr(err)

		rows := []table.Row{}
		for _, ch := range b.Chapters() {
			paragraphs := "-"
			if doc, err := b.Document(ch); err == nil {
				paragraphs = strconv.Itoa(len(align.ExtractParagraphs(doc)))
			}
			title := ch.Title
			if title == "" {
				title = "(untitled)"
			}
			rows = append(rows, table.Row{
				strconv.Itoa(ch.Index),
				truncateString(title, 38),
				paragraphs,
				truncateString(ch.Href, 38),
			})
		}

		if len(rows) == 0 {
			fmt.Println("❌ No chapters found.")
			return
		}

		fmt.Printf("\n📖 %s (%d spine items)\n\n", b.Title(), len(rows))
		fmt.Println(renderTable([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Title", Width: 40},
			{Title: "Paragraphs", Width: 10},
			{Title: "File", Width: 40},
		}, rows))
	},
}

func init() {
	rootCmd.AddCommand(chaptersCmd)
}
