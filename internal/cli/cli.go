// Package cli implements the resumepdf command-line interface.
//
// # Commands
//
//   - generate: build one PDF from a profile file
//   - batch: build a PDF for every profile in a directory
//   - blocks, fonts, themes, layouts: list what is available
//   - serve: run the HTTP API
//   - mcp: run the tool server on stdio
//   - profiles: manage stored profiles
//
// All commands read the TOML config selected by --config or
// RESUMEPDF_CONFIG, and log to stderr through charmbracelet/log.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lvillar/resumepdf"
	"github.com/lvillar/resumepdf/assets"
	"github.com/lvillar/resumepdf/fonts"
	"github.com/lvillar/resumepdf/internal/config"
	"github.com/lvillar/resumepdf/internal/store"
)

const appName = "resumepdf"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        config.Config
	stdin      io.Reader
}

// New creates a CLI that logs to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
		stdin:  os.Stdin,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Generate resume PDFs from profiles, layouts and themes",
		Long:         `resumepdf turns a profile (JSON or YAML) into a PDF resume. A layout places content blocks into page columns and a theme sets colours, fonts and spacing.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvVar+" or ~/.config/resumepdf/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.batchCommand())
	root.AddCommand(c.blocksCommand())
	root.AddCommand(c.fontsCommand())
	root.AddCommand(c.themesCommand())
	root.AddCommand(c.layoutsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.mcpCommand())
	root.AddCommand(c.profilesCommand())

	return root
}

// generator builds a Generator from the loaded config.
func (c *CLI) generator() (*resumepdf.Generator, error) {
	cat, err := fonts.Load(c.cfg.Fonts.Dir)
	if err != nil {
		c.Logger.Warn("font directory not fully read", "dir", c.cfg.Fonts.Dir, "err", err)
	}
	if c.cfg.Fonts.Fallback != "" {
		cat = cat.WithFallback(c.cfg.Fonts.Fallback)
	}
	res, err := assets.NewResolver(c.cfg.Assets.Dirs...)
	if err != nil {
		return nil, fmt.Errorf("asset dirs: %w", err)
	}
	opts := []resumepdf.Option{
		resumepdf.WithLogger(c.Logger),
		resumepdf.WithFonts(cat),
		resumepdf.WithAssets(res),
	}
	if c.cfg.Assets.DefaultTheme != "" {
		opts = append(opts, resumepdf.WithDefaultTheme(c.cfg.Assets.DefaultTheme))
	}
	return resumepdf.New(opts...), nil
}

func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, c.cfg)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("profile store", "backend", c.cfg.Store.Backend)
	return st, nil
}
