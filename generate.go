package resumepdf

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lvillar/resumepdf/assets"
	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/blocks"
	"github.com/lvillar/resumepdf/geometry"
	"github.com/lvillar/resumepdf/layout"
	"github.com/lvillar/resumepdf/mapper"
	"github.com/lvillar/resumepdf/profile"
	"github.com/lvillar/resumepdf/rtl"
	"github.com/lvillar/resumepdf/style"
	"github.com/lvillar/resumepdf/surface"
)

// Request is one generation request.
type Request struct {
	// Profile is the raw profile, usually decoded JSON.
	Profile map[string]any
	// UILang selects heading labels ("en", "de", "ar"). Defaults to the
	// profile's ui_lang, then "en".
	UILang string
	// RTLMode forces right-to-left alignment. When nil the profile's
	// rtl_mode is used, then the script of UILang.
	RTLMode *bool
	// ThemeName names a theme document; Theme, when set, is used instead.
	ThemeName string
	Theme     map[string]any
	// LayoutName names a layout document; Layout, when set, is used
	// instead. Either is merged over the layout embedded in the theme.
	LayoutName string
	Layout     *layout.Document
	// MapRules replace the default mapper rules by block name.
	MapRules mapper.Rules
}

// Result is a generated document.
type Result struct {
	PDF      []byte
	Pages    int
	Warnings []string
}

// Generator builds resume PDFs. It is safe for concurrent use.
type Generator struct {
	cfg *generatorConfig
	reg *block.Registry
}

// New returns a Generator configured by opts.
func New(opts ...Option) *Generator {
	cfg := newConfig(opts)
	reg := cfg.registry
	if reg == nil {
		reg = blocks.NewRegistry()
	}
	return &Generator{cfg: cfg, reg: reg}
}

// Registry returns the registry blocks are resolved through.
func (g *Generator) Registry() *block.Registry { return g.reg }

// Assets returns the theme and layout resolver.
func (g *Generator) Assets() *assets.Resolver { return g.cfg.assets }

// Generate builds a PDF for req. ctx is checked before the build starts;
// a started build runs to completion.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	plan, err := g.Prepare(req)
	if err != nil {
		return nil, err
	}
	return g.build(plan)
}

// Plan is a prepared request: everything resolved, nothing drawn yet.
type Plan struct {
	Profile  *profile.Profile
	Doc      *layout.Document
	Ready    mapper.Ready
	Style    *style.Style
	Geometry *geometry.Geometry
	UILang   string
	RTL      bool
	Warnings []string
}

// Prepare resolves the theme, layout, data and style of req.
func (g *Generator) Prepare(req Request) (*Plan, error) {
	p := profile.Normalize(req.Profile)
	plan := &Plan{Profile: p}

	plan.UILang = firstNonEmpty(req.UILang, p.UILang, "en")
	switch {
	case req.RTLMode != nil:
		plan.RTL = *req.RTLMode
	case p.RTLMode != nil:
		plan.RTL = *p.RTLMode
	default:
		plan.RTL = rtl.IsRTLLanguage(plan.UILang)
	}

	theme, err := g.theme(req)
	if err != nil {
		return nil, err
	}
	doc, err := g.layout(req, theme)
	if err != nil {
		return nil, err
	}

	specRules, warns := mapper.RulesFromSpecs(doc.MapRules)
	plan.Warnings = append(plan.Warnings, warns...)
	skip := map[string]bool{}
	for name := range specRules {
		skip[name] = true
	}
	for name := range req.MapRules {
		skip[name] = true
	}
	plan.Doc = doc.WithOverrides(mapper.Overrides(p, skip))

	rules := mapper.Merge(mapper.Merge(mapper.DefaultRules(), specRules), req.MapRules)
	ready, warns := mapper.MapProfileToReady(p, rules)
	plan.Ready = ready
	plan.Warnings = append(plan.Warnings, warns...)

	plan.Style = style.Resolve(style.Defaults(), theme, doc.Style, g.cfg.fonts)
	for _, fb := range plan.Style.Fallbacks {
		g.cfg.logger.Debug("font fallback", "detail", fb)
	}
	plan.Geometry = geometry.ComputeColumns(doc.Page, doc.Columns)

	for _, id := range doc.BlockIDs() {
		if !g.reg.Has(id) {
			g.cfg.logger.Debug("layout references an unregistered block", "block", id)
		}
	}
	return plan, nil
}

func (g *Generator) theme(req Request) (map[string]any, error) {
	if req.Theme != nil {
		return req.Theme, nil
	}
	name := firstNonEmpty(req.ThemeName, g.cfg.defaultTheme)
	theme, err := g.cfg.assets.Theme(name)
	if err != nil {
		return nil, newError("theme", assetErr(err))
	}
	return theme, nil
}

func (g *Generator) layout(req Request, theme map[string]any) (*layout.Document, error) {
	base, err := layout.FromTheme(theme)
	if err != nil {
		return nil, newError("theme", fmt.Errorf("%w: embedded layout: %v", ErrInvalidInput, err))
	}
	over := req.Layout
	if over == nil && strings.TrimSpace(req.LayoutName) != "" {
		over, err = g.cfg.assets.Layout(req.LayoutName)
		if err != nil {
			return nil, newError("layout", assetErr(err))
		}
	}
	return layout.Merge(base, over), nil
}

// assetErr maps asset failures onto the root taxonomy.
func assetErr(err error) error {
	switch {
	case errors.Is(err, assets.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, assets.ErrInvalidName), errors.Is(err, assets.ErrInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return err
}

func (g *Generator) build(plan *Plan) (*Result, error) {
	geo := plan.Geometry
	opts := []surface.CanvasOption{
		surface.WithFontFaces(g.cfg.fonts.Faces()...),
		surface.WithUnicodeFallback(g.cfg.fonts.Fallback()),
		surface.WithCompression(g.cfg.compress),
		surface.WithMetadata(title(plan.Profile), plan.Profile.Header.Name),
	}
	warnings := append([]string(nil), plan.Warnings...)
	if name := strings.TrimSpace(plan.Doc.Page.Letterhead); name != "" {
		data, err := g.cfg.assets.Letterhead(name)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("letterhead '%s' ignored: %v", name, err))
		} else {
			opts = append(opts, surface.WithLetterhead(data))
		}
	}
	canvas := surface.NewCanvas(geo.PageW, geo.PageH, opts...)

	eng := layout.NewEngine(g.reg, layout.WithLogger(g.cfg.logger), layout.WithShaper(g.cfg.shaper))
	rep, err := eng.Run(canvas, layout.Input{
		Doc:      plan.Doc,
		Geometry: geo,
		Ready:    plan.Ready,
		Style:    plan.Style,
		UILang:   plan.UILang,
		RTL:      plan.RTL,
	})
	if err != nil {
		return nil, newError("build", err)
	}
	warnings = append(warnings, rep.Warnings...)
	if err := canvas.LetterheadErr(); err != nil {
		warnings = append(warnings, fmt.Sprintf("letterhead ignored: %v", err))
	}
	pdf, err := canvas.Bytes()
	if err != nil {
		return nil, newError("build", fmt.Errorf("%w: %v", ErrBuildFailed, err))
	}
	return &Result{PDF: pdf, Pages: rep.Pages, Warnings: warnings}, nil
}

func title(p *profile.Profile) string {
	if p.Header.Name == "" {
		return "Resume"
	}
	return p.Header.Name + " - Resume"
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
