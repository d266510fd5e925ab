// Package block defines the renderer contract shared by the layout engine
// and the content blocks, plus the registry that maps block names to
// renderers.
package block

import (
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lvillar/resumepdf/geometry"
	"github.com/lvillar/resumepdf/rtl"
	"github.com/lvillar/resumepdf/style"
	"github.com/lvillar/resumepdf/surface"
)

// Frame is where a renderer draws: x and width of the column and the
// current cursor y. y grows downward.
type Frame struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
}

// Context carries read-only document state to every renderer.
type Context struct {
	UILang string
	RTL    bool

	PageW float64
	PageH float64
	// PageTop is the cursor y at the top of every page.
	PageTop float64
	// PageBottom is the lowest y content may reach.
	PageBottom float64
	Columns    []geometry.Column

	Style  *style.Style
	Shaper rtl.Shaper
	// Section is the variant of the block reference, e.g. "summary" for
	// "text_section:summary".
	Section string
	Logger  *log.Logger
}

// Renderer draws a block into a frame and returns the cursor y after its
// content. A renderer with nothing to draw returns f.Y.
type Renderer interface {
	Render(s surface.Surface, f Frame, d Data, ctx *Context) (float64, error)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(s surface.Surface, f Frame, d Data, ctx *Context) (float64, error)

func (fn RendererFunc) Render(s surface.Surface, f Frame, d Data, ctx *Context) (float64, error) {
	return fn(s, f, d, ctx)
}

// SplitID splits "name:variant" into its parts.
func SplitID(id string) (name, variant string) {
	id = strings.TrimSpace(id)
	name, variant, _ = strings.Cut(id, ":")
	return strings.TrimSpace(name), strings.TrimSpace(variant)
}
