package table

import (
	"errors"

	"github.com/lvillar/resumepdf/rtl"
	"github.com/lvillar/resumepdf/surface"
	"github.com/lvillar/resumepdf/typeset"
)

// ErrNoWidth is returned by Render when the table has no width to lay out in.
var ErrNoWidth = errors.New("table: zero width")

// ColumnDef defines the properties of a table column.
type ColumnDef struct {
	Width    float64 // Fixed width. 0 means auto/fill.
	MinWidth float64 // Minimum width for auto columns.
	MaxWidth float64 // Maximum width for auto columns. 0 means unlimited.
	Align    typeset.Align
}

// Table is a grid builder drawing onto a surface.
type Table struct {
	s          surface.Surface
	shaper     rtl.Shaper
	columns    []ColumnDef
	rows       []*Row
	style      TableStyle
	x, y       float64
	tableWidth float64
}

// New creates a new Table drawing on s.
func New(s surface.Surface) *Table {
	return &Table{s: s}
}

// SetColumns sets column definitions for the table.
func (t *Table) SetColumns(cols ...ColumnDef) *Table {
	t.columns = cols
	return t
}

// SetColumnWidths is a convenience method to set column widths directly.
// A width of 0 means the column will auto-fill remaining space.
func (t *Table) SetColumnWidths(widths ...float64) *Table {
	t.columns = make([]ColumnDef, len(widths))
	for i, w := range widths {
		t.columns[i] = ColumnDef{Width: w}
	}
	return t
}

// SetStyle sets the table-wide style.
func (t *Table) SetStyle(s TableStyle) *Table {
	t.style = s
	return t
}

// SetShaper sets the shaper applied to right-to-left cell text.
func (t *Table) SetShaper(sh rtl.Shaper) *Table {
	t.shaper = sh
	return t
}

// SetPosition sets the top-left corner of the table.
func (t *Table) SetPosition(x, y float64) *Table {
	t.x = x
	t.y = y
	return t
}

// SetWidth sets the total table width.
func (t *Table) SetWidth(w float64) *Table {
	t.tableWidth = w
	return t
}

// AddRow adds a new data row to the table and returns it for chaining.
func (t *Table) AddRow() *Row {
	r := &Row{}
	t.rows = append(t.rows, r)
	return r
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// Render draws the table and returns the y below its last row.
func (t *Table) Render() (float64, error) {
	if t.tableWidth <= 0 {
		return t.y, ErrNoWidth
	}
	widths := t.calculateWidths()
	y := t.y
	for i, r := range t.rows {
		y = t.renderRow(r, widths, y, i)
	}
	return y, nil
}

// Height returns the total height the rows would occupy.
func (t *Table) Height() float64 {
	widths := t.calculateWidths()
	h := 0.0
	for i, r := range t.rows {
		h += t.calculateRowHeight(r, widths, i)
	}
	return h
}

// calculateWidths computes final column widths based on definitions and available space.
func (t *Table) calculateWidths() []float64 {
	numCols := len(t.columns)
	if numCols == 0 {
		for _, r := range t.rows {
			numCols = max(numCols, len(r.cells))
		}
		if numCols == 0 {
			return nil
		}
		t.columns = make([]ColumnDef, numCols)
	}

	widths := make([]float64, numCols)
	fixedTotal := 0.0
	autoCount := 0

	for i, col := range t.columns {
		if col.Width > 0 {
			widths[i] = col.Width
			fixedTotal += col.Width
		} else {
			autoCount++
		}
	}

	if autoCount > 0 {
		remaining := max(0, t.tableWidth-fixedTotal)
		autoWidth := remaining / float64(autoCount)
		for i, col := range t.columns {
			if col.Width == 0 {
				w := autoWidth
				if col.MinWidth > 0 && w < col.MinWidth {
					w = col.MinWidth
				}
				if col.MaxWidth > 0 && w > col.MaxWidth {
					w = col.MaxWidth
				}
				widths[i] = w
			}
		}
	}
	return widths
}

func spanWidth(widths []float64, i, colspan int) float64 {
	w := widths[i]
	for j := 1; j < colspan && i+j < len(widths); j++ {
		w += widths[i+j]
	}
	return w
}

func (t *Table) lineHeight(size float64) float64 {
	lh := t.style.LineHeight
	if lh <= 0 {
		lh = 1.4
	}
	return size * lh
}

// cellLines wraps the text of cell at its resolved font.
func (t *Table) cellLines(cell *Cell, st CellStyle, w float64) ([]string, float64) {
	t.applyFont(st)
	p := t.style.CellPadding
	contentW := max(1, w-p.Left-p.Right)
	return typeset.Wrap(t.s, t.shaper, cell.text, contentW), t.s.FontSize()
}

func (t *Table) applyFont(st CellStyle) {
	if st.Font != nil {
		t.s.SetFont(st.Font.Font, st.Font.Size)
	}
}

// calculateRowHeight computes the height needed for a row based on cell content.
func (t *Table) calculateRowHeight(r *Row, widths []float64, idx int) float64 {
	h := r.minH
	p := t.style.CellPadding
	col := 0
	for _, cell := range r.cells {
		if col >= len(widths) {
			break
		}
		st := t.resolveCellStyle(cell, r, idx)
		lines, size := t.cellLines(cell, st, spanWidth(widths, col, cell.colspan))
		h = max(h, float64(len(lines))*t.lineHeight(size)+p.Top+p.Bottom)
		col += cell.colspan
	}
	return h
}

// renderRow draws a single row with its top at y and returns the y below it.
func (t *Table) renderRow(r *Row, widths []float64, y float64, idx int) float64 {
	rowH := t.calculateRowHeight(r, widths, idx)
	p := t.style.CellPadding
	x := t.x
	col := 0
	for _, cell := range r.cells {
		if col >= len(widths) {
			break
		}
		cellW := spanWidth(widths, col, cell.colspan)
		st := t.resolveCellStyle(cell, r, idx)

		if st.FillColor != nil {
			t.s.SetFillColor(*st.FillColor)
			t.s.Rect(x, y, cellW, rowH, surface.StyleFill)
		}
		if b := t.style.Border; b != nil {
			t.s.SetDrawColor(b.Color)
			t.s.SetLineWidth(b.Width)
			t.s.Rect(x, y, cellW, rowH, surface.StyleDraw)
		}

		color := t.style.TextColor
		if st.TextColor != nil {
			color = *st.TextColor
		}
		t.s.SetTextColor(color)

		align := typeset.Left
		if col < len(t.columns) {
			align = t.columns[col].Align
		}
		if st.Align != nil {
			align = *st.Align
		}

		lines, size := t.cellLines(cell, st, cellW)
		lh := t.lineHeight(size)
		ly := y + p.Top
		contentW := cellW - p.Left - p.Right
		for _, ln := range lines {
			lx, lw := typeset.Line(t.s, t.shaper, x+p.Left, ly, contentW, ln, align)
			if cell.link != "" {
				t.s.Link(lx, ly, lw, lh, cell.link)
			}
			ly += lh
		}
		x += cellW
		col += cell.colspan
	}
	t.s.SetTextColor(t.style.TextColor)
	return y + rowH
}

// resolveCellStyle determines the effective style for a cell by merging
// table, alternate row, row, and cell-level styles.
func (t *Table) resolveCellStyle(cell *Cell, row *Row, idx int) CellStyle {
	var result CellStyle
	if t.style.CellFont != nil {
		result.Font = t.style.CellFont
	}
	if t.style.AlternateRows != nil {
		if idx%2 == 0 {
			mergeStyle(&result, &t.style.AlternateRows.Even)
		} else {
			mergeStyle(&result, &t.style.AlternateRows.Odd)
		}
	}
	if row.style != nil {
		mergeStyle(&result, row.style)
	}
	if cell.style != nil {
		mergeStyle(&result, cell.style)
	}
	return result
}

// mergeStyle copies non-nil fields from src to dst.
func mergeStyle(dst, src *CellStyle) {
	if src.FillColor != nil {
		dst.FillColor = src.FillColor
	}
	if src.TextColor != nil {
		dst.TextColor = src.TextColor
	}
	if src.Font != nil {
		dst.Font = src.Font
	}
	if src.Align != nil {
		dst.Align = src.Align
	}
}
