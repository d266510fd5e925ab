// Package geometry converts a page specification into absolute page and
// column coordinates in points.
package geometry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// MM is the number of points in one millimetre.
const MM = 72.0 / 25.4

// Page sizes in points, portrait.
var Sizes = map[string][2]float64{
	"A4":     {595.28, 841.89},
	"A5":     {419.53, 595.28},
	"LETTER": {612, 792},
	"LEGAL":  {612, 1008},
}

// Default margins and gutter in millimetres.
const (
	DefaultMarginTop    = 15.0
	DefaultMarginRight  = 12.0
	DefaultMarginBottom = 15.0
	DefaultMarginLeft   = 12.0
	DefaultGutter       = 6.0
)

// Margins are page margins in millimetres. Nil sides use the defaults.
type Margins struct {
	Top    *float64 `json:"top,omitempty"`
	Right  *float64 `json:"right,omitempty"`
	Bottom *float64 `json:"bottom,omitempty"`
	Left   *float64 `json:"left,omitempty"`
}

// UnmarshalJSON accepts an object with per-side values or a single number
// for all sides.
func (m *Margins) UnmarshalJSON(b []byte) error {
	var all float64
	if err := json.Unmarshal(b, &all); err == nil {
		*m = Margins{Top: &all, Right: &all, Bottom: &all, Left: &all}
		return nil
	}
	type plain Margins
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("margin_mm: %w", err)
	}
	*m = Margins(p)
	return nil
}

// Page is the page part of a layout document.
type Page struct {
	Size        string   `json:"size,omitempty"`
	Orientation string   `json:"orientation,omitempty"`
	MarginMM    Margins  `json:"margin_mm,omitempty"`
	GutterMM    *float64 `json:"gutter_mm,omitempty"`
	// Letterhead names a PDF whose first page is drawn under every page.
	Letterhead string `json:"letterhead,omitempty"`
}

// Width is a column width: a percentage, millimetres or points.
type Width struct {
	Value float64
	Unit  string // "%", "mm", "pt", or "" when unset
}

// ParseWidth parses "35%", "60mm", "170pt" or a bare number of points.
func ParseWidth(s string) (Width, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	unit := "pt"
	switch {
	case strings.HasSuffix(s, "%"):
		unit, s = "%", strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "mm"):
		unit, s = "mm", strings.TrimSuffix(s, "mm")
	case strings.HasSuffix(s, "pt"):
		s = strings.TrimSuffix(s, "pt")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return Width{}, false
	}
	return Width{Value: v, Unit: unit}, true
}

func (w Width) IsSet() bool { return w.Unit != "" }

func (w Width) String() string {
	if !w.IsSet() {
		return ""
	}
	v := strconv.FormatFloat(w.Value, 'f', -1, 64)
	if w.Unit == "pt" {
		return v
	}
	return v + w.Unit
}

func (w *Width) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*w = Width{Value: n, Unit: "pt"}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	// unparseable widths are treated as unset
	*w, _ = ParseWidth(s)
	return nil
}

func (w Width) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.String())
}

// ColumnSpec is one entry of a layout's columns list.
type ColumnSpec struct {
	ID    string `json:"id"`
	Width Width  `json:"width,omitempty"`
}

// Column is a resolved column.
type Column struct {
	ID string
	X  float64
	W  float64
}

// Geometry is the resolved page.
type Geometry struct {
	Size     string
	PageW    float64
	PageH    float64
	Top      float64 // top margin
	Right    float64
	Bottom   float64 // bottom margin
	Left     float64
	Gutter   float64
	ContentW float64
	ContentH float64
	Columns  []Column
}

// Column returns the column with the given id.
func (g *Geometry) Column(id string) (Column, bool) {
	for _, c := range g.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// Limit is the lowest y a line may reach before it crosses the bottom
// margin.
func (g *Geometry) Limit() float64 { return g.PageH - g.Bottom }

func or(p *float64, def float64) float64 {
	if p == nil || *p < 0 {
		return def
	}
	return *p
}

// PageSize returns the page size in points for a size name and
// orientation. Unknown names use A4.
func PageSize(size, orientation string) (name string, w, h float64) {
	name = strings.ToUpper(strings.TrimSpace(size))
	wh, ok := Sizes[name]
	if !ok {
		name = "A4"
		wh = Sizes[name]
	}
	w, h = wh[0], wh[1]
	if strings.EqualFold(strings.TrimSpace(orientation), "landscape") {
		w, h = h, w
	}
	return name, w, h
}

// ComputeColumns resolves page size, margins and column positions. Fixed
// columns are subtracted first; percentage columns share what remains in
// proportion to their percentages, so they always fill it exactly.
func ComputeColumns(page Page, cols []ColumnSpec) *Geometry {
	g := &Geometry{}
	g.Size, g.PageW, g.PageH = PageSize(page.Size, page.Orientation)
	g.Top = or(page.MarginMM.Top, DefaultMarginTop) * MM
	g.Right = or(page.MarginMM.Right, DefaultMarginRight) * MM
	g.Bottom = or(page.MarginMM.Bottom, DefaultMarginBottom) * MM
	g.Left = or(page.MarginMM.Left, DefaultMarginLeft) * MM
	g.Gutter = or(page.GutterMM, DefaultGutter) * MM
	g.ContentW = max(0, g.PageW-g.Left-g.Right)
	g.ContentH = max(0, g.PageH-g.Top-g.Bottom)

	if len(cols) == 0 {
		cols = []ColumnSpec{{ID: "main", Width: Width{Value: 100, Unit: "%"}}}
	}
	n := len(cols)
	widths := make([]float64, n)
	fixed := 0.0
	var pct []int
	for i, c := range cols {
		w := c.Width
		if !w.IsSet() {
			w = Width{Value: 100 / float64(n), Unit: "%"}
		}
		switch w.Unit {
		case "%":
			widths[i] = w.Value
			pct = append(pct, i)
		case "mm":
			widths[i] = w.Value * MM
			fixed += widths[i]
		default:
			widths[i] = w.Value
			fixed += widths[i]
		}
	}

	remaining := max(0, g.ContentW-fixed-g.Gutter*float64(n-1))
	if len(pct) > 0 {
		sum := 0.0
		for _, i := range pct {
			sum += widths[i]
		}
		for _, i := range pct {
			if sum > 0 {
				widths[i] = widths[i] / sum * remaining
			} else {
				widths[i] = remaining / float64(len(pct))
			}
		}
	}

	x := g.Left
	for i, c := range cols {
		id := c.ID
		if id == "" {
			id = fmt.Sprintf("col%d", i)
		}
		g.Columns = append(g.Columns, Column{ID: id, X: x, W: widths[i]})
		x += widths[i] + g.Gutter
	}
	return g
}
