package blocks

import (
	"strings"

	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/surface"
	"github.com/lvillar/resumepdf/typeset"
)

// HeaderName draws the name in the heading font and the title below it.
//
// Data: name, title. A plain text value is taken as the name.
func HeaderName(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	name := d.First("name", "text")
	title := d.String("title")
	if name == "" && title == "" {
		return f.Y, nil
	}
	st := styleOf(ctx)
	y := f.Y
	if name != "" {
		s.SetFont(st.Fonts.Heading, st.Sizes.H1)
		s.SetTextColor(st.Colors.Primary)
		typeset.Line(s, shaper(ctx), f.X, y, f.W, name, align(ctx))
		y += st.Sizes.LeadH1
	}
	if title != "" {
		s.SetFont(st.Fonts.Base, st.Sizes.H2)
		s.SetTextColor(st.Colors.Text)
		typeset.Line(s, shaper(ctx), f.X, y, f.W, title, align(ctx))
		y += st.Sizes.LeadH2
	}
	return y + st.Spacing.AfterHeader, nil
}

// listBlock renders a bulleted section headed by the label of labelKey.
// Items are read from "items", then key, then "text" split by line.
func listBlock(key, labelKey string) block.Renderer {
	return block.RendererFunc(func(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
		items := d.Strings("items")
		if len(items) == 0 {
			items = d.Strings(key)
		}
		if len(items) == 0 {
			items = d.Strings("text")
		}
		title := d.String("title")
		if title == "" {
			title = Label(lang(ctx), labelKey)
		}
		return bulletSection(s, f, ctx, title, items), nil
	})
}

// ProjectLine formats a project as "title — description (url)", omitting
// absent parts.
func ProjectLine(title, desc, url string) string {
	var b strings.Builder
	b.WriteString(title)
	if desc != "" {
		if b.Len() > 0 {
			b.WriteString(" — ")
		}
		b.WriteString(desc)
	}
	if url != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("(" + url + ")")
	}
	return b.String()
}

// Projects draws one bullet per project entry.
//
// Data: items as [name, description, url] triples, objects or strings.
func Projects(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	rows := d.Rows("items", 3, []string{"name", "title"}, []string{"desc", "description"}, []string{"url", "link"})
	if len(rows) == 0 {
		rows = d.Rows("projects", 3, []string{"name", "title"}, []string{"desc", "description"}, []string{"url", "link"})
	}
	var items []string
	for _, r := range rows {
		if ln := ProjectLine(r[0], r[1], r[2]); ln != "" {
			items = append(items, ln)
		}
	}
	if len(items) == 0 {
		items = d.Strings("text")
	}
	title := d.String("title")
	if title == "" {
		title = Label(lang(ctx), "projects")
	}
	return bulletSection(s, f, ctx, title, items), nil
}

// TextSection draws a titled paragraph for one free-text section. The
// section key comes from the block variant, then data "section", and
// defaults to "summary".
//
// Data: <section>, lines, text or value; optional title.
func TextSection(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	section := d.First("section", "key")
	if ctx != nil && ctx.Section != "" {
		section = ctx.Section
	}
	if section == "" {
		section = "summary"
	}
	var text string
	for _, key := range []string{section, "lines", "text", "value"} {
		if lines := d.Strings(key); len(lines) > 0 {
			if _, isText := d[key].(string); isText {
				text = d.String(key)
			} else {
				text = strings.Join(lines, "\n")
			}
			break
		}
	}
	if text == "" {
		return f.Y, nil
	}
	title := d.String("title")
	if title == "" {
		title = Label(lang(ctx), section)
	}
	y := heading(s, f, ctx, title, true)
	st := body(s, ctx)
	y += st.Spacing.AfterPar / 2
	y = typeset.Paragraph(s, shaper(ctx), f.X, y, f.W, text, st.Sizes.LeadBody, align(ctx))
	return y + st.Spacing.SectionGap, nil
}
