// Package cli implements the pedviz command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/populationgenomics/pedviz/pkg/buildinfo"
	"github.com/populationgenomics/pedviz/pkg/cache"
	"github.com/populationgenomics/pedviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "pedviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          appName,
		Short:        "Pedviz lays out and renders family pedigrees",
		Long:         `Pedviz is a CLI tool for computing tangled-tree layouts of family pedigrees from PLINK PED or JSON input and rendering them as SVG, PNG, PDF, or DOT diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.config/pedviz/config.toml)")

	root.AddCommand(c.parseCommand())
	root.AddCommand(c.familiesCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/pedviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds pipeline options from config defaults.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		NodeSpacing:  c.Config.Layout.NodeSpacing,
		LevelSpacing: c.Config.Layout.LevelSpacing,
		MarginX:      c.Config.Layout.MarginX,
		MarginY:      c.Config.Layout.MarginY,
		Style:        c.Config.Render.Style,
		Labels:       c.Config.Render.Labels,
		Legend:       c.Config.Render.Legend,
		Scale:        c.Config.Render.Scale,
		Logger:       c.Logger,
	}
}

// applyFlagOverrides copies explicitly set flag values on top of base, which
// carries the config-file defaults. Flags the command does not define are
// reported as unchanged and left alone.
func applyFlagOverrides(cmd *cobra.Command, base *pipeline.Options, flags pipeline.Options) {
	set := cmd.Flags().Changed
	if set("node-spacing") {
		base.NodeSpacing = flags.NodeSpacing
	}
	if set("level-spacing") {
		base.LevelSpacing = flags.LevelSpacing
	}
	if set("margin-x") {
		base.MarginX = flags.MarginX
	}
	if set("margin-y") {
		base.MarginY = flags.MarginY
	}
	if set("max-iterations") {
		base.MaxIterations = flags.MaxIterations
	}
	if set("style") {
		base.Style = flags.Style
	}
	if set("labels") {
		base.Labels = flags.Labels
	}
	if set("legend") {
		base.Legend = flags.Legend
	}
	if set("unplaced") {
		base.ShowUnplaced = flags.ShowUnplaced
	}
	if set("scale") {
		base.Scale = flags.Scale
	}
	base.FamilyID = flags.FamilyID
	base.Refresh = flags.Refresh
	base.Formats = flags.Formats
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
