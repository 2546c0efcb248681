package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/philipparndt/mapmeasure/internal/feed"
	"github.com/philipparndt/mapmeasure/internal/script"
	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	serveScript string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a live measurement session over a websocket",
	Long: `Run a measurement session that remote clients drive over a websocket.

Clients connect to /ws, receive the overlay as GeoJSON and the drawing log
after every change, and send events as JSON messages, for example
{"seq": 1, "action": "add_vertex", "point": [0, 0]}. The current state is
also available from /overlay and /log.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config feed.addr)")
	serveCmd.Flags().StringVar(&serveScript, "script", "", "replay a script before serving")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := cfg.Feed.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts, err := cfg.Measure.SessionOptions()
	if err != nil {
		return err
	}

	var sc *script.Script
	if serveScript != "" {
		if sc, err = script.LoadFile(serveScript); err != nil {
			return err
		}
		if opts, err = sc.Options(cfg.Measure); err != nil {
			return err
		}
	}

	s := newSession(opts)
	if sc != nil {
		if err := sc.Run(ctx, s); err != nil {
			return err
		}
	}

	fmt.Printf("Serving measurement feed on ws://%s/ws\n", addr)
	return feed.NewServer(addr, feed.NewHub(s)).ListenAndServe(ctx)
}
