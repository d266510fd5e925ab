package blocks

import (
	"fmt"

	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/surface"
	"github.com/lvillar/resumepdf/table"
	"github.com/lvillar/resumepdf/typeset"
)

// LeftPanelBG paints a rounded background panel over the full height of
// the frame's column. It never moves the cursor.
//
// Data: pad_mm (default 4); bg (default #F7F8FA); border (optional colour
// of a rule along the panel's left edge).
func LeftPanelBG(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	pad := d.Float("pad_mm", 4) * MM
	_, pageH := s.PageSize()
	if ctx != nil && ctx.PageH > 0 {
		pageH = ctx.PageH
	}
	h := max(0, pageH-2*pad)
	s.SetFillColor(color(d, "bg", "#F7F8FA"))
	s.RoundedRect(f.X, pad, f.W, h, 6, surface.StyleFill)
	if d.Has("border") {
		s.SetDrawColor(color(d, "border", "#E3E6EA"))
		s.SetLineWidth(0.6)
		s.Line(f.X, pad, f.X, pad+h)
	}
	return f.Y, nil
}

// DecorCurve draws a rounded accent bar across the frame.
//
// Data: height_mm (default 15); color (default #E3F2FD); radius_mm
// (default 6).
func DecorCurve(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	h := d.Float("height_mm", 15) * MM
	if h <= 0 {
		return f.Y, nil
	}
	s.SetFillColor(color(d, "color", "#E3F2FD"))
	s.RoundedRect(f.X, f.Y, f.W, h, d.Float("radius_mm", 6)*MM, surface.StyleFill)
	return f.Y + h + 2*MM, nil
}

// HeaderBar draws a coloured banner with a centred title.
//
// Data: title (default "My Resume"); bg (default #E0F7FA); fg (default
// #004D40); height_mm (default 12); pad_mm, the gap below the bar
// (default 4).
func HeaderBar(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	title := d.First("title", "text")
	if title == "" {
		title = "My Resume"
	}
	h := d.Float("height_mm", 12) * MM
	st := styleOf(ctx)

	s.SetFillColor(color(d, "bg", "#E0F7FA"))
	s.Rect(f.X, f.Y, f.W, h, surface.StyleFill)

	const size = 12
	s.SetFont(st.Fonts.Bold, size)
	s.SetTextColor(color(d, "fg", "#004D40"))
	typeset.Line(s, shaper(ctx), f.X, f.Y+(h-size)/2, f.W, title, typeset.Center)
	s.SetTextColor(st.Colors.Text)
	return f.Y + h + d.Float("pad_mm", 4)*MM, nil
}

// SkillsGrid lays out skills as a bulleted grid.
//
// Data: items or skills; columns (default 2); title (optional); row_h_mm
// (default 6).
func SkillsGrid(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	items := d.Strings("items")
	if len(items) == 0 {
		items = d.Strings("skills")
	}
	if len(items) == 0 {
		items = d.Strings("text")
	}
	cols := max(1, d.Int("columns", 2))
	rowH := d.Float("row_h_mm", 6) * MM
	st := styleOf(ctx)
	y := f.Y

	if title := d.String("title"); title != "" {
		s.SetFont(st.Fonts.Bold, 11)
		s.SetTextColor(st.Colors.Text)
		typeset.Line(s, shaper(ctx), f.X, y+5*MM-11*surface.Ascent, f.W, title, align(ctx))
		y += 10 * MM
	}
	if len(items) == 0 {
		return y, nil
	}

	tb := table.New(s).SetPosition(f.X, y).SetWidth(f.W).SetShaper(shaper(ctx))
	tb.SetStyle(table.TableStyle{
		CellFont:  &table.FontSpec{Font: st.Fonts.Base, Size: 9},
		TextColor: st.Colors.Text,
	})
	defs := make([]table.ColumnDef, cols)
	for i := range defs {
		defs[i].Align = align(ctx)
	}
	tb.SetColumns(defs...)
	var row *table.Row
	for i, it := range items {
		if i%cols == 0 {
			row = tb.AddRow().SetMinHeight(rowH)
		}
		row.AddCell(fmt.Sprintf("• %s", it))
	}
	y, err := tb.Render()
	if err != nil {
		return f.Y, err
	}
	return y + 4*MM, nil
}
