// Package style resolves the effective style of a document from built-in
// defaults, a theme document and layout-level overrides.
package style

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/lvillar/resumepdf/fonts"
	"github.com/lvillar/resumepdf/surface"
)

type Colors struct {
	Primary    surface.Color
	Text       surface.Color
	Accent     surface.Color
	Background surface.Color
}

type Fonts struct {
	Base    surface.Font
	Bold    surface.Font
	Heading surface.Font
}

// Sizes are font sizes and line leadings in points.
type Sizes struct {
	H1, H2, H3             float64
	LeadH1, LeadH2, LeadH3 float64
	Body, LeadBody         float64
}

type Spacing struct {
	AfterHeader float64
	AfterPar    float64
	AfterList   float64
	SectionGap  float64
}

// Style is the effective, typed style handed to renderers.
type Style struct {
	Colors  Colors
	Fonts   Fonts
	Sizes   Sizes
	Spacing Spacing

	// Doc is the merged style document the typed fields were read from.
	Doc map[string]any
	// Fallbacks describes every font that could not be used as named.
	Fallbacks []string
}

// FontResolver maps font names to surface fonts. *fonts.Catalog
// implements it.
type FontResolver interface {
	Resolve(name string, bold bool) (surface.Font, bool)
}

// Defaults returns the built-in base style document.
func Defaults() map[string]any {
	return map[string]any{
		"colors": map[string]any{
			"primary":    "#0F172A",
			"text":       "#000",
			"accent":     "#2563EB",
			"background": "#FFF",
		},
		"fonts": map[string]any{
			"base":    "Helvetica",
			"bold":    "Helvetica-Bold",
			"heading": "Helvetica-Bold",
		},
		"sizes": map[string]any{
			"h1": 18.0, "h2": 12.0, "h3": 11.0,
			"lead_h1": 22.0, "lead_h2": 18.0, "lead_h3": 16.0,
			"body": 10.0, "lead_body": 14.0,
		},
		"spacing": map[string]any{
			"after_header": 6.0,
			"after_par":    6.0,
			"after_list":   6.0,
			"section_gap":  6.0,
		},
	}
}

// Default returns the resolved default style.
func Default() *Style {
	return Resolve(Defaults(), nil, nil, nil)
}

// Resolve merges defaults, then theme, then overrides, and decodes the
// result. Values that cannot be decoded keep the value of the previous
// layer; unknown fonts go through the resolver's fallback chain. Resolve
// never fails.
func Resolve(defaults, theme, overrides map[string]any, fr FontResolver) *Style {
	if fr == nil {
		fr = fonts.Default()
	}
	layers := []map[string]any{Defaults(), defaults, legacy(theme), legacy(overrides)}

	s := &Style{}
	doc := map[string]any{}
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		doc = Merge(doc, layer)
		s.apply(layer)
	}
	s.Doc = doc

	names := section(doc, "fonts")
	base := str(names["base"], "Helvetica")
	bold := str(names["bold"], "Helvetica-Bold")
	heading := str(names["heading"], bold)
	s.Fonts.Base = s.font(fr, "base", base, false)
	s.Fonts.Bold = s.font(fr, "bold", bold, true)
	s.Fonts.Heading = s.font(fr, "heading", heading, true)
	return s
}

func (s *Style) font(fr FontResolver, role, name string, bold bool) surface.Font {
	f, exact := fr.Resolve(name, bold)
	if !exact {
		s.Fallbacks = append(s.Fallbacks, fmt.Sprintf("font %s %q unavailable, using %s", role, name, f.Family))
	}
	return f
}

// apply decodes one layer on top of the current values.
func (s *Style) apply(layer map[string]any) {
	c := section(layer, "colors")
	s.Colors.Primary = ParseColor(c["primary"], s.Colors.Primary)
	s.Colors.Text = ParseColor(c["text"], s.Colors.Text)
	s.Colors.Accent = ParseColor(c["accent"], s.Colors.Accent)
	s.Colors.Background = ParseColor(c["background"], s.Colors.Background)
	s.Colors.Background = ParseColor(c["bg"], s.Colors.Background)

	z := section(layer, "sizes")
	num(z, "h1", &s.Sizes.H1)
	num(z, "h2", &s.Sizes.H2)
	num(z, "h3", &s.Sizes.H3)
	num(z, "lead_h1", &s.Sizes.LeadH1)
	num(z, "lead_h2", &s.Sizes.LeadH2)
	num(z, "lead_h3", &s.Sizes.LeadH3)
	num(z, "body", &s.Sizes.Body)
	num(z, "lead_body", &s.Sizes.LeadBody)

	sp := section(layer, "spacing")
	gap(sp, "after_header", &s.Spacing.AfterHeader)
	gap(sp, "after_par", &s.Spacing.AfterPar)
	gap(sp, "after_list", &s.Spacing.AfterList)
	gap(sp, "section_gap", &s.Spacing.SectionGap)
}

// legacy lifts the flat sp_after_* keys into the spacing section.
func legacy(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	var sp map[string]any
	for _, k := range []string{"sp_after_header", "sp_after_par", "sp_after_list"} {
		if v, ok := m[k]; ok {
			if sp == nil {
				sp = map[string]any{}
			}
			sp[strings.TrimPrefix(k, "sp_")] = v
		}
	}
	if sp == nil {
		return m
	}
	out := Clone(m)
	out["spacing"] = Merge(sp, section(m, "spacing"))
	return out
}

func section(m map[string]any, key string) map[string]any {
	if s, ok := m[key].(map[string]any); ok {
		return s
	}
	return nil
}

func str(v any, def string) string {
	if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return def
}

func num(m map[string]any, key string, dst *float64) {
	if f, ok := Number(m[key]); ok && f > 0 {
		*dst = f
	}
}

func gap(m map[string]any, key string, dst *float64) {
	if f, ok := Number(m[key]); ok && f >= 0 {
		*dst = f
	}
}

// Number converts JSON, YAML and string numbers to float64.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	}
	return 0, false
}

// ParseColor parses a hex colour such as "#2563EB", "2563EB" or "#FFF".
// Anything else returns fallback.
func ParseColor(v any, fallback surface.Color) surface.Color {
	s, ok := v.(string)
	if !ok {
		return fallback
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	r, g, b := c.RGB255()
	return surface.Color{R: int(r), G: int(g), B: int(b)}
}

// IsWhite reports whether c is pure white.
func IsWhite(c surface.Color) bool { return c == surface.White }
