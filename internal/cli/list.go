package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lvillar/resumepdf/assets"
	"github.com/lvillar/resumepdf/fonts"
)

func (c *CLI) blocksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "blocks",
		Short: "List the registered content blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, err := c.generator()
			if err != nil {
				return err
			}
			names := gen.Registry().List()
			rows := make([][]string, len(names))
			for i, n := range names {
				rows[i] = []string{fmt.Sprint(i + 1), n}
			}
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, StyleTitle.Render("Blocks"))
			printTable(w, []string{"#", "Block"}, rows)
			return nil
		},
	}
}

func (c *CLI) fontsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fonts",
		Short: "List the font families found in the configured font directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := fonts.Load(c.cfg.Fonts.Dir)
			if err != nil {
				c.Logger.Warn("font directory not fully read", "dir", c.cfg.Fonts.Dir, "err", err)
			}
			if c.cfg.Fonts.Fallback != "" {
				cat = cat.WithFallback(c.cfg.Fonts.Fallback)
			}
			printFonts(cmd.OutOrStdout(), cat)
			return nil
		},
	}
}

func printFonts(w io.Writer, cat *fonts.Catalog) {
	mark := func(b []byte) string {
		if len(b) > 0 {
			return iconSuccess
		}
		return ""
	}
	var rows [][]string
	for _, f := range cat.Families() {
		rows = append(rows, []string{f.Name, mark(f.Regular), mark(f.Bold)})
	}
	fmt.Fprintln(w, StyleTitle.Render("Fonts"))
	printTable(w, []string{"Family", "Regular", "Bold"}, rows)
	printInfo(w, "Fallback: %s", cat.Fallback())
}

func (c *CLI) themesCommand() *cobra.Command {
	return c.assetListCommand("themes", "List the available themes", assets.KindTheme)
}

func (c *CLI) layoutsCommand() *cobra.Command {
	return c.assetListCommand("layouts", "List the available layouts", assets.KindLayout)
}

func (c *CLI) assetListCommand(use, short string, kind assets.Kind) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := assets.NewResolver(c.cfg.Assets.Dirs...)
			if err != nil {
				return fmt.Errorf("asset dirs: %w", err)
			}
			names, err := res.List(kind)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, n := range names {
				fmt.Fprintln(w, n)
			}
			return nil
		},
	}
}
