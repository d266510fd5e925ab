// Package surface defines the drawing surface the layout engine and the
// block renderers draw on.
//
// All coordinates are in points with the origin at the top-left corner of
// the page; y grows downward. Text is positioned by its baseline.
//
// Three implementations are provided: Canvas writes a real PDF through
// go-pdf/fpdf, Recorder keeps every drawing operation in memory for
// inspection, and Dry wraps another surface so that content can be measured
// without leaving marks on the page.
package surface

import (
	"fmt"
	"strings"
)

// Color is an RGB colour with components in the range 0-255.
type Color struct {
	R, G, B int
}

// Common colours.
var (
	Black = Color{0, 0, 0}
	White = Color{255, 255, 255}
)

func (c Color) String() string {
	return fmt.Sprintf("#%02X%02X%02X", clamp(c.R), clamp(c.G), clamp(c.B))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

// Font selects a typeface. Style is "" for regular and "B" for bold.
type Font struct {
	Family string
	Style  string
}

// Bold reports whether the font selects a bold face.
func (f Font) Bold() bool { return f.Style == "B" }

// FontFace is a TrueType face that can be embedded into a document.
type FontFace struct {
	Family string
	Style  string // "" or "B"
	Data   []byte
}

// Rect style strings accepted by Rect and RoundedRect.
const (
	StyleFill     = "F"
	StyleDraw     = "D"
	StyleFillDraw = "FD"
)

// Barcode symbologies accepted by Code.
const (
	CodeQR     = "qr"
	CodePDF417 = "pdf417"
)

// Ascent is the baseline offset below the top of a line, as a fraction of
// the font size.
const Ascent = 0.8

// Surface is the drawing API used by block renderers.
type Surface interface {
	// AddPage starts a new page. Colour, font and line state persist.
	AddPage()
	// PageNo returns the current page number, starting at 1. It is 0
	// before the first AddPage.
	PageNo() int
	// PageSize returns the page width and height in points.
	PageSize() (w, h float64)

	SetFont(f Font, size float64)
	// FontSize returns the current font size in points.
	FontSize() float64
	// StringWidth measures s in the current font.
	StringWidth(s string) float64

	// Text draws s with its baseline at y, starting at x.
	Text(x, y float64, s string)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)
	SetLineWidth(w float64)
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64, style string)
	RoundedRect(x, y, w, h, r float64, style string)
	// Link makes the rectangle a clickable link to url.
	Link(x, y, w, h float64, url string)
	// Image draws an encoded PNG, JPEG or GIF image. name identifies the
	// image within the document so repeated draws share one copy.
	Image(name string, data []byte, x, y, w, h float64) error
	ClipCircle(x, y, r float64)
	ClipEnd()
	// Code draws a two-dimensional barcode (CodeQR or CodePDF417) whose
	// bounding box starts at x, y and is w points wide.
	Code(kind, content string, x, y, w float64) (h float64, err error)
}

// UnicodeFonter is implemented by surfaces that know a Unicode-capable
// family to use in place of a core font.
type UnicodeFonter interface {
	CurrentFont() Font
	// UnicodeFallback returns "" when no such family is available.
	UnicodeFallback() string
}

// IsCore reports whether f is one of the standard PDF fonts, which only
// encode cp1252 text.
func IsCore(f Font) bool { return coreFamilies[strings.ToLower(f.Family)] }

// CodeSizer is implemented by surfaces that can measure a barcode without
// drawing it.
type CodeSizer interface {
	CodeHeight(kind, content string, w float64) (float64, error)
}
