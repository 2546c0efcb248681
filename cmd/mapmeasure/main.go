package main

import (
	"fmt"
	"os"

	"github.com/philipparndt/mapmeasure/internal/config"
	"github.com/philipparndt/mapmeasure/internal/drawlog"
	"github.com/philipparndt/mapmeasure/internal/log"
	"github.com/philipparndt/mapmeasure/internal/overlay"
	"github.com/philipparndt/mapmeasure/internal/session"
	"github.com/philipparndt/mapmeasure/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	modeFlag   string
	unitFlag   string
	angleFlag  string
	scopeFlag  string

	cfg config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "mapmeasure",
	Short: "Measure lines and polygons on a web mercator map",
	Long: `mapmeasure measures lines and polygons drawn on a web mercator map.
It reports segment lengths, total length, enclosed area and the interior
angle at every vertex, and keeps a log of finished and edited drawings.

Measurements can be taken from GeoJSON files or inline coordinates, replayed
from recorded interaction scripts, or driven live over a websocket feed.`,
	Version:           version.GetFullVersion(),
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default is the user config directory)")
	flags.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&modeFlag, "mode", "", "measure mode: geodesic or planar")
	flags.StringVar(&unitFlag, "unit", "", "unit system: metric or imperial")
	flags.StringVar(&angleFlag, "angle-unit", "", "angle unit: degrees or radians")
	flags.StringVar(&scopeFlag, "scope", "", "angle marker scope: global or geometry")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and applies the global flags
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if modeFlag != "" {
		cfg.Measure.Mode = modeFlag
	}
	if unitFlag != "" {
		cfg.Measure.Unit = unitFlag
	}
	if angleFlag != "" {
		cfg.Measure.AngleUnit = angleFlag
	}
	if scopeFlag != "" {
		cfg.Measure.AnnotationScope = scopeFlag
	}

	log.Init(cfg.Logging.LogOptions())
	return nil
}

// newSession creates a session with an in-memory overlay and a fresh log
func newSession(opts session.Options) *session.Session {
	return session.New(overlay.NewMemory(), drawlog.New(), opts)
}

func printLog(l *drawlog.Log) {
	for i, text := range l.Texts() {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(text)
	}
}
