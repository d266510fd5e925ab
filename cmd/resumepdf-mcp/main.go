// Command resumepdf-mcp is an MCP (Model Context Protocol) server that
// exposes resume generation to AI assistants over stdio.
//
// # Installation
//
//	go install github.com/lvillar/resumepdf/cmd/resumepdf-mcp@latest
//
// # Configuration for Claude Desktop
//
// Add to ~/.config/claude/claude_desktop_config.json:
//
//	{
//	  "mcpServers": {
//	    "resumepdf": {
//	      "command": "resumepdf-mcp"
//	    }
//	  }
//	}
//
// # Available Tools
//
//   - generate_resume: build a PDF from a profile, theme and layout
//   - map_profile: show the block data a profile maps to
//   - list_blocks: list the registered content blocks
//
// # Available Resources
//
//   - resume://themes, resume://layouts, resume://blocks
//   - resume://theme?name=... : one theme document
//   - resume://layout?name=... : one layout document
//
// The config file (RESUMEPDF_CONFIG) supplies font and asset directories.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lvillar/resumepdf"
	"github.com/lvillar/resumepdf/assets"
	"github.com/lvillar/resumepdf/fonts"
	"github.com/lvillar/resumepdf/internal/config"
	"github.com/lvillar/resumepdf/mcp"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "resumepdf-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// stdout carries the protocol; logs go to stderr.
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           log.WarnLevel,
	})

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	cat, err := fonts.Load(cfg.Fonts.Dir)
	if err != nil {
		logger.Warn("font directory not fully read", "dir", cfg.Fonts.Dir, "err", err)
	}
	if cfg.Fonts.Fallback != "" {
		cat = cat.WithFallback(cfg.Fonts.Fallback)
	}
	res, err := assets.NewResolver(cfg.Assets.Dirs...)
	if err != nil {
		return err
	}

	opts := []resumepdf.Option{
		resumepdf.WithLogger(logger),
		resumepdf.WithFonts(cat),
		resumepdf.WithAssets(res),
	}
	if cfg.Assets.DefaultTheme != "" {
		opts = append(opts, resumepdf.WithDefaultTheme(cfg.Assets.DefaultTheme))
	}
	gen := resumepdf.New(opts...)

	server := mcp.NewServer(mcp.WithLogger(logger), mcp.WithVersion(version))
	mcp.RegisterDefaultTools(server, gen)
	mcp.RegisterDefaultResources(server, gen)

	return server.Run(ctx)
}
