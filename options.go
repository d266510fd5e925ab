package resumepdf

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/lvillar/resumepdf/assets"
	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/fonts"
	"github.com/lvillar/resumepdf/rtl"
)

// Option is a functional option for configuring a Generator via New.
type Option func(*generatorConfig)

type generatorConfig struct {
	registry     *block.Registry
	logger       *log.Logger
	fonts        *fonts.Catalog
	assets       *assets.Resolver
	shaper       rtl.Shaper
	compress     bool
	defaultTheme string
}

// WithRegistry sets the block registry. The default registry holds every
// built-in block.
func WithRegistry(reg *block.Registry) Option {
	return func(c *generatorConfig) {
		c.registry = reg
	}
}

// WithLogger sets the logger for warnings and debug output. Generators
// log nothing by default.
func WithLogger(l *log.Logger) Option {
	return func(c *generatorConfig) {
		c.logger = l
	}
}

// WithFonts sets the font catalog. Defaults to fonts.Default().
func WithFonts(cat *fonts.Catalog) Option {
	return func(c *generatorConfig) {
		c.fonts = cat
	}
}

// WithAssets sets where themes and layouts are looked up by name.
// Defaults to the embedded documents.
func WithAssets(r *assets.Resolver) Option {
	return func(c *generatorConfig) {
		c.assets = r
	}
}

// WithShaper sets the RTL shaping transform. Defaults to rtl.Visual.
func WithShaper(sh rtl.Shaper) Option {
	return func(c *generatorConfig) {
		c.shaper = sh
	}
}

// WithCompression toggles stream compression in the output PDF.
func WithCompression(on bool) Option {
	return func(c *generatorConfig) {
		c.compress = on
	}
}

// WithDefaultTheme sets the theme used when a request names none.
func WithDefaultTheme(name string) Option {
	return func(c *generatorConfig) {
		c.defaultTheme = name
	}
}

func newConfig(opts []Option) *generatorConfig {
	cfg := &generatorConfig{
		compress:     true,
		defaultTheme: "default",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = log.New(io.Discard)
	}
	if cfg.fonts == nil {
		cfg.fonts = fonts.Default()
	}
	if cfg.assets == nil {
		cfg.assets = assets.Default()
	}
	if cfg.shaper == nil {
		cfg.shaper = rtl.Visual
	}
	return cfg
}
