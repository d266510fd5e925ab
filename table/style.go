// Package table lays out rows of text cells in a grid inside a frame.
//
// Column widths are resolved from fixed and auto columns, cell text is
// wrapped to the column width and every row is as tall as its tallest
// cell. Rendering draws on a surface.Surface and reports the y below the
// last row, so a table can serve as the body of a block renderer.
package table

import (
	"github.com/lvillar/resumepdf/surface"
	"github.com/lvillar/resumepdf/typeset"
)

// FontSpec defines font properties for text rendering.
type FontSpec struct {
	Font surface.Font
	Size float64 // in points
}

// Padding defines spacing inside a cell.
type Padding struct {
	Top, Right, Bottom, Left float64
}

// UniformPadding creates a Padding with the same value on all sides.
func UniformPadding(v float64) Padding {
	return Padding{Top: v, Right: v, Bottom: v, Left: v}
}

// BorderStyle defines the appearance of cell borders.
type BorderStyle struct {
	Width float64
	Color surface.Color
}

// CellStyle defines the visual appearance of a cell. Nil fields inherit.
type CellStyle struct {
	FillColor *surface.Color
	TextColor *surface.Color
	Font      *FontSpec
	Align     *typeset.Align
}

// AlternateStyle defines alternating row colors.
type AlternateStyle struct {
	Even CellStyle
	Odd  CellStyle
}

// TableStyle defines the overall appearance of a table.
type TableStyle struct {
	Border        *BorderStyle
	AlternateRows *AlternateStyle
	CellPadding   Padding
	CellFont      *FontSpec
	TextColor     surface.Color
	// LineHeight is the distance between wrapped lines as a multiple of
	// the font size. Zero means 1.4.
	LineHeight float64
}
