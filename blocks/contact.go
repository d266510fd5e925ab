package blocks

import (
	"sort"
	"strings"

	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/profile"
	"github.com/lvillar/resumepdf/surface"
	"github.com/lvillar/resumepdf/table"
	"github.com/lvillar/resumepdf/typeset"
)

var contactOrder = []string{"email", "phone", "website", "github", "linkedin", "twitter", "x", "location"}

var socialKeys = map[string]bool{
	"website": true, "site": true, "url": true, "github": true, "linkedin": true,
	"twitter": true, "x": true, "youtube": true, "facebook": true, "instagram": true,
}

// links reads contact channels from "items" (a mapping, a list of
// {label, value, url} objects or a list of strings) or, failing that,
// from the top-level keys of d. With only set, mapping keys outside it are
// skipped.
func links(d block.Data, only map[string]bool) []profile.Link {
	switch items := d["items"].(type) {
	case []any:
		var out []profile.Link
		for _, it := range items {
			switch v := it.(type) {
			case map[string]any:
				l := profile.Link{Label: profile.Text(v["label"]), Value: profile.Text(v["value"]), URL: profile.Text(v["url"])}
				if l.Value == "" {
					continue
				}
				if l.URL == "" {
					l.URL = profile.LinkURL(l.Label, l.Value)
				}
				out = append(out, l)
			default:
				if s := profile.Text(v); s != "" {
					out = append(out, profile.Link{Value: s, URL: guessURL(s)})
				}
			}
		}
		return out
	case []string:
		var out []profile.Link
		for _, s := range items {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, profile.Link{Value: s, URL: guessURL(s)})
			}
		}
		return out
	}
	m := d.Map("items")
	if m == nil {
		m = map[string]any(d)
	}
	return mapLinks(m, only)
}

func mapLinks(m map[string]any, only map[string]bool) []profile.Link {
	seen := map[string]bool{}
	var keys []string
	for _, k := range contactOrder {
		if _, ok := m[k]; ok {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	keys = append(keys, rest...)

	var out []profile.Link
	for _, k := range keys {
		if k == "title" || k == "text" || (only != nil && !only[strings.ToLower(k)]) {
			continue
		}
		v := profile.Text(m[k])
		if v == "" {
			continue
		}
		out = append(out, profile.Link{Label: profile.Label(k), Value: v, URL: profile.LinkURL(k, v)})
	}
	return out
}

// guessURL derives a link for an unlabelled value.
func guessURL(v string) string {
	switch {
	case strings.HasPrefix(v, "http://"), strings.HasPrefix(v, "https://"):
		return v
	case strings.Contains(v, "@") && !strings.ContainsAny(v, " /"):
		return "mailto:" + v
	}
	return ""
}

// ContactInfo draws the contact channels as a label/value grid with
// clickable values.
func ContactInfo(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	items := links(d, nil)
	if len(items) == 0 {
		if t := d.Strings("text"); len(t) > 0 {
			return bulletSection(s, f, ctx, Label(lang(ctx), "contact"), t), nil
		}
		return f.Y, nil
	}
	title := d.String("title")
	if title == "" {
		title = Label(lang(ctx), "contact")
	}
	y := heading(s, f, ctx, title, false)
	st := body(s, ctx)

	labelW := 0.0
	for _, l := range items {
		if l.Label != "" {
			labelW = max(labelW, s.StringWidth(l.Label))
		}
	}
	if labelW > 0 {
		labelW = min(labelW+6, f.W/2)
	}

	tb := table.New(s).SetPosition(f.X, y).SetWidth(f.W).SetShaper(shaper(ctx))
	tb.SetStyle(table.TableStyle{
		CellFont:   &table.FontSpec{Font: st.Fonts.Base, Size: st.Sizes.Body},
		TextColor:  st.Colors.Text,
		LineHeight: st.Sizes.LeadBody / st.Sizes.Body,
	})
	bold := &table.FontSpec{Font: st.Fonts.Bold, Size: st.Sizes.Body}
	if labelW > 0 {
		a := align(ctx)
		tb.SetColumns(table.ColumnDef{Width: labelW, Align: a}, table.ColumnDef{Align: a})
	} else {
		tb.SetColumns(table.ColumnDef{Align: align(ctx)})
	}
	for _, l := range items {
		row := tb.AddRow()
		if labelW > 0 {
			row.AddCell(l.Label).SetStyle(table.CellStyle{Font: bold})
		}
		row.AddCell(l.Value).SetLink(l.URL)
	}
	y, err := tb.Render()
	if err != nil {
		return f.Y, err
	}
	return y + st.Spacing.AfterList, nil
}

// SocialLinks draws "Label: value" lines for social profiles with the
// value clickable.
//
// Data: items as {label, value, url} objects, or platform keys such as
// github and linkedin; optional title.
func SocialLinks(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	items := links(d, socialKeys)
	if len(items) == 0 {
		return f.Y, nil
	}
	title := d.String("title")
	if title == "" {
		title = Label(lang(ctx), "social")
	}
	y := heading(s, f, ctx, title, false)
	st := body(s, ctx)
	sh := shaper(ctx)
	for _, l := range items {
		prefix := ""
		if l.Label != "" {
			prefix = l.Label + ": "
		}
		x, w := typeset.Line(s, sh, f.X, y, f.W, prefix+l.Value, align(ctx))
		if l.URL != "" {
			px := s.StringWidth(prefix)
			s.Link(x+px, y, w-px, st.Sizes.LeadBody, l.URL)
		}
		y += st.Sizes.LeadBody
	}
	return y + st.Spacing.AfterList, nil
}

// LinksInline draws links on one line joined by bullets, wrapping when the
// line is wider than the frame.
//
// Data: links (list of strings); color (default #004D40); size (default 9).
func LinksInline(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	items := d.Strings("links")
	if len(items) == 0 {
		items = d.Strings("items")
	}
	if len(items) == 0 {
		items = d.Strings("text")
	}
	if len(items) == 0 {
		return f.Y, nil
	}
	st := styleOf(ctx)
	size := d.Float("size", 9)
	s.SetFont(st.Fonts.Base, size)
	s.SetTextColor(color(d, "color", "#004D40"))
	lead := size * 1.5
	sh := shaper(ctx)

	const sep = "  •  "
	line := strings.Join(items, sep)
	y := f.Y
	if typeset.Measure(s, sh, line) <= f.W && align(ctx) == typeset.Left {
		x := f.X
		base := y + size*surface.Ascent
		for i, it := range items {
			if i > 0 {
				s.Text(x, base, sep)
				x += s.StringWidth(sep)
			}
			restore := typeset.LineFont(s, it)
			w := s.StringWidth(it)
			s.Text(x, base, it)
			restore()
			if u := guessURL(it); u != "" {
				s.Link(x, y, w, lead, u)
			}
			x += w
		}
		y += lead
	} else {
		y = typeset.Paragraph(s, sh, f.X, y, f.W, line, lead, align(ctx))
	}
	s.SetTextColor(st.Colors.Text)
	return y + st.Spacing.AfterList, nil
}

// QRCode draws a QR or PDF417 code for a URL, optionally captioned.
//
// Data: value, url or text (content); symbology "qr" (default) or
// "pdf417"; size_mm (default 24); caption; align "left" or "right".
func QRCode(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	content := d.First("value", "url", "text")
	if content == "" {
		return f.Y, nil
	}
	kind := surface.CodeQR
	if strings.EqualFold(d.String("symbology"), surface.CodePDF417) {
		kind = surface.CodePDF417
	}
	w := min(d.Float("size_mm", 24)*MM, f.W)
	if kind == surface.CodePDF417 {
		w = f.W
	}
	x := f.X
	if d.String("align") == "right" || (ctx != nil && ctx.RTL && d.String("align") == "") {
		x = f.X + f.W - w
	}
	h, err := s.Code(kind, content, x, f.Y, w)
	if err != nil {
		if ctx != nil && ctx.Logger != nil {
			ctx.Logger.Warn("barcode skipped", "symbology", kind, "err", err)
		}
		return f.Y, nil
	}
	y := f.Y + h
	if c := d.String("caption"); c != "" {
		st := body(s, ctx)
		s.SetFont(st.Fonts.Base, st.Sizes.Body-1)
		y += 2
		typeset.Line(s, shaper(ctx), x, y, w, c, typeset.Center)
		y += st.Sizes.LeadBody
	}
	return y + 2*MM, nil
}
