package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/philipparndt/mapmeasure/internal/log"
	"github.com/philipparndt/mapmeasure/internal/script"
	"github.com/philipparndt/mapmeasure/pkg/watcher"
	"github.com/spf13/cobra"
)

var (
	replayWatch  bool
	replayOutput string
)

var replayCmd = &cobra.Command{
	Use:   "replay <script.yaml>",
	Short: "Replay a recorded interaction script",
	Long: `Replay a YAML interaction script through the measurement engine and
print the resulting drawing log.

Steps name session events: draw_start, add_vertex, add_coordinate,
draw_end, draw_abort, modify_start, move_vertex, insert_vertex,
remove_vertex, modify_end, modify_abort, set_modifiers, clear_log and
clear_map. With --watch the script is replayed again whenever it changes.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().BoolVarP(&replayWatch, "watch", "w", false, "replay again when the script changes")
	replayCmd.Flags().StringVarP(&replayOutput, "output", "o", "", "write the final overlay as GeoJSON")
}

func runReplay(cmd *cobra.Command, args []string) error {
	path := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := replay(ctx, path); err != nil {
		if !replayWatch {
			return err
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if !replayWatch {
		return nil
	}

	logger := log.WithComponent("replay")
	fw, err := watcher.NewFileWatcher(200*time.Millisecond, logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	err = fw.Watch([]string{path}, func(string) {
		fmt.Println("\n--- script changed, replaying ---")
		if err := replay(ctx, path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	fw.Start()

	logger.Info("watching script", slog.String("path", path))
	<-ctx.Done()
	return nil
}

func replay(ctx context.Context, path string) error {
	sc, err := script.LoadFile(path)
	if err != nil {
		return err
	}
	opts, err := sc.Options(cfg.Measure)
	if err != nil {
		return err
	}

	s := newSession(opts)
	runErr := sc.Run(ctx, s)
	printLog(s.Log())
	if runErr != nil {
		return runErr
	}

	if replayOutput != "" {
		return writeOverlay(s, replayOutput)
	}
	return nil
}
