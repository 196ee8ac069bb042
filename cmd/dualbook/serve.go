package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/kerbaras/dualbook/pkg/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the parallel reader over HTTP",
	Long:  "Serve the configured book pair, and every pair in the library under /pairs/{name}, as HTML pages and JSON.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		if !flagChanged(cmd, "addr") {
			addr = cfg.Server.Addr
		}

		deps, err := newDeps(cmd, true)
		cobra.CheckErr(err)
		defer deps.Close()

		title, req, err := deps.request(cmd)
		cobra.CheckErr(err)

		srv, err := server.New(deps.controller, server.Options{
			Title:     title,
			Request:   req,
			Pairs:     deps.controller,
			RateLimit: cfg.Server.RateLimit,
			CacheTTL:  cfg.Server.CacheTTL,
		})
		cobra.CheckErr(err)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("📖 Serving %s on http://%s\n", title, addr)
		if err := srv.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Address to listen on")

	rootCmd.AddCommand(serveCmd)
}
