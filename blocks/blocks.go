// Package blocks provides the built-in block renderers.
//
// Every renderer draws top-down from the frame's y and returns the y below
// its content. A renderer with nothing to draw returns the frame's y
// unchanged.
package blocks

import (
	"strings"

	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/rtl"
	"github.com/lvillar/resumepdf/style"
	"github.com/lvillar/resumepdf/surface"
	"github.com/lvillar/resumepdf/typeset"
)

// MM is one millimetre in points.
const MM = 72 / 25.4

// Builtins maps block names to the built-in renderers.
var Builtins = map[string]block.Renderer{
	"header_name":   block.RendererFunc(HeaderName),
	"contact_info":  block.RendererFunc(ContactInfo),
	"social_links":  block.RendererFunc(SocialLinks),
	"links_inline":  block.RendererFunc(LinksInline),
	"key_skills":    listBlock("skills", "skills"),
	"languages":     listBlock("languages", "languages"),
	"education":     listBlock("education", "education"),
	"projects":      block.RendererFunc(Projects),
	"text_section":  block.RendererFunc(TextSection),
	"avatar_circle": block.RendererFunc(AvatarCircle),
	"left_panel_bg": block.RendererFunc(LeftPanelBG),
	"decor_curve":   block.RendererFunc(DecorCurve),
	"header_bar":    block.RendererFunc(HeaderBar),
	"skills_grid":   block.RendererFunc(SkillsGrid),
	"qr_code":       block.RendererFunc(QRCode),
}

// RegisterDefaults registers every built-in renderer with reg. Names that
// are already registered are replaced.
func RegisterDefaults(reg *block.Registry) error {
	for name, r := range Builtins {
		if err := reg.RegisterOrReplace(name, r); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry holding the built-in renderers.
func NewRegistry() *block.Registry {
	reg := block.NewRegistry(nil)
	for name, r := range Builtins {
		// names are unique and non-empty
		_ = reg.Register(name, r)
	}
	return reg
}

var labels = map[string]map[string]string{
	"en": {
		"contact":   "Contact",
		"social":    "Social",
		"skills":    "Key Skills",
		"languages": "Languages",
		"projects":  "Projects",
		"education": "Education",
		"summary":   "Professional Summary",
		"about":     "About Me",
		"objective": "Career Objective",
	},
	"de": {
		"contact":   "Kontakt",
		"social":    "Profile",
		"skills":    "Kernkompetenzen",
		"languages": "Sprachen",
		"projects":  "Projekte",
		"education": "Ausbildung",
		"summary":   "Berufliches Profil",
		"about":     "Über mich",
		"objective": "Berufsziel",
	},
	"ar": {
		"contact":   "معلومات الاتصال",
		"social":    "الروابط",
		"skills":    "المهارات",
		"languages": "اللغات",
		"projects":  "المشاريع",
		"education": "التعليم",
		"summary":   "الملخص المهني",
		"about":     "نبذة عني",
		"objective": "الهدف المهني",
	},
}

// Label returns the heading for key in the given ui language. Unknown
// languages use English; unknown keys are title-cased.
func Label(lang, key string) string {
	lang = strings.ToLower(lang)
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if l, ok := labels[lang][key]; ok {
		return l
	}
	if l, ok := labels["en"][key]; ok {
		return l
	}
	return titleCase(key)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ReplaceAll(s, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func styleOf(ctx *block.Context) *style.Style {
	if ctx != nil && ctx.Style != nil {
		return ctx.Style
	}
	return style.Default()
}

func align(ctx *block.Context) typeset.Align {
	if ctx != nil && ctx.RTL {
		return typeset.Right
	}
	return typeset.Left
}

func lang(ctx *block.Context) string {
	if ctx == nil {
		return ""
	}
	return ctx.UILang
}

func shaper(ctx *block.Context) rtl.Shaper {
	if ctx == nil {
		return nil
	}
	return ctx.Shaper
}

// heading draws a section title and returns the y below it. With rule set
// an underline spans the frame.
func heading(s surface.Surface, f block.Frame, ctx *block.Context, title string, rule bool) float64 {
	st := styleOf(ctx)
	s.SetFont(st.Fonts.Heading, st.Sizes.H3)
	s.SetTextColor(st.Colors.Primary)
	typeset.Line(s, shaper(ctx), f.X, f.Y, f.W, title, align(ctx))
	y := f.Y + st.Sizes.LeadH3
	if rule {
		s.SetDrawColor(st.Colors.Accent)
		s.SetLineWidth(0.8)
		ry := y - st.Sizes.LeadH3 + st.Sizes.H3*1.1
		s.Line(f.X, ry, f.X+f.W, ry)
	}
	return y
}

// body selects the body font and text colour.
func body(s surface.Surface, ctx *block.Context) *style.Style {
	st := styleOf(ctx)
	s.SetFont(st.Fonts.Base, st.Sizes.Body)
	s.SetTextColor(st.Colors.Text)
	return st
}

// bulletSection draws a heading and one bullet per item. It is a no-op
// for an empty list.
func bulletSection(s surface.Surface, f block.Frame, ctx *block.Context, title string, items []string) float64 {
	if len(items) == 0 {
		return f.Y
	}
	y := heading(s, f, ctx, title, false)
	st := body(s, ctx)
	y = typeset.Bullets(s, shaper(ctx), f.X, y, f.W, items, st.Sizes.LeadBody, align(ctx))
	return y + st.Spacing.AfterList
}

func color(d block.Data, key string, def string) surface.Color {
	return style.ParseColor(d[key], style.ParseColor(def, surface.Black))
}
