package surface

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var errEmptyImage = errors.New("surface: empty image data")

// Op is one drawing operation captured by a Recorder.
type Op struct {
	Page int
	Kind string // "text", "line", "rect", "image", "link", "code", "clip"
	X, Y float64
	W, H float64
	Text string
	Font Font
	Size float64
	Fill Color
}

func (o Op) String() string {
	return fmt.Sprintf("p%d %s (%.1f,%.1f %.1fx%.1f) %q", o.Page, o.Kind, o.X, o.Y, o.W, o.H, o.Text)
}

// Recorder is an in-memory Surface. It keeps every drawing operation with
// the page it was drawn on and measures text with a fixed advance of half
// the font size per rune.
type Recorder struct {
	Ops []Op

	w, h  float64
	page  int
	font  Font
	size  float64
	fill  Color
	text  Color
	line  float64
	fonts map[string]bool
	uni   string
}

// NewRecorder returns a Recorder with pages of the given size in points.
// When families is not empty only those families and the core fonts are
// accepted by SetFont; anything else falls back to Helvetica.
func NewRecorder(width, height float64, families ...string) *Recorder {
	r := &Recorder{w: width, h: height, size: 10, font: Font{Family: "helvetica"}}
	if len(families) > 0 {
		r.fonts = make(map[string]bool, len(families))
		for _, f := range families {
			r.fonts[strings.ToLower(f)] = true
		}
	}
	return r
}

func (r *Recorder) AddPage()                     { r.page++ }
func (r *Recorder) PageNo() int                  { return r.page }
func (r *Recorder) PageSize() (float64, float64) { return r.w, r.h }

// PageCount returns the number of pages started so far.
func (r *Recorder) PageCount() int { return r.page }

func (r *Recorder) SetFont(f Font, size float64) {
	fam := strings.ToLower(f.Family)
	if r.fonts != nil && !coreFamilies[fam] && !r.fonts[fam] {
		fam = "helvetica"
	}
	if size <= 0 {
		size = 10
	}
	r.font = Font{Family: fam, Style: f.Style}
	r.size = size
}

func (r *Recorder) FontSize() float64 { return r.size }

// CurrentFont returns the font selected by the last SetFont call.
func (r *Recorder) CurrentFont() Font { return r.font }

// SetUnicodeFallback sets the family reported by UnicodeFallback.
func (r *Recorder) SetUnicodeFallback(family string) { r.uni = family }

func (r *Recorder) UnicodeFallback() string { return r.uni }

func (r *Recorder) StringWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * r.size * 0.5
}

func (r *Recorder) add(op Op) {
	op.Page = r.page
	r.Ops = append(r.Ops, op)
}

func (r *Recorder) Text(x, y float64, s string) {
	if s == "" {
		return
	}
	r.add(Op{Kind: "text", X: x, Y: y, W: r.StringWidth(s), H: r.size, Text: s, Font: r.font, Size: r.size, Fill: r.text})
}

func (r *Recorder) SetTextColor(c Color)   { r.text = c }
func (r *Recorder) SetFillColor(c Color)   { r.fill = c }
func (r *Recorder) SetDrawColor(Color)     {}
func (r *Recorder) SetLineWidth(w float64) { r.line = w }

func (r *Recorder) Line(x1, y1, x2, y2 float64) {
	r.add(Op{Kind: "line", X: x1, Y: y1, W: x2 - x1, H: y2 - y1})
}

func (r *Recorder) Rect(x, y, w, h float64, style string) {
	r.add(Op{Kind: "rect", X: x, Y: y, W: w, H: h, Text: style, Fill: r.fill})
}

func (r *Recorder) RoundedRect(x, y, w, h, rad float64, style string) {
	r.add(Op{Kind: "rect", X: x, Y: y, W: w, H: h, Text: style, Fill: r.fill})
}

func (r *Recorder) Link(x, y, w, h float64, url string) {
	r.add(Op{Kind: "link", X: x, Y: y, W: w, H: h, Text: url})
}

func (r *Recorder) Image(name string, data []byte, x, y, w, h float64) error {
	if len(data) == 0 {
		return errEmptyImage
	}
	r.add(Op{Kind: "image", X: x, Y: y, W: w, H: h, Text: name})
	return nil
}

func (r *Recorder) ClipCircle(x, y, rad float64) {
	r.add(Op{Kind: "clip", X: x - rad, Y: y - rad, W: 2 * rad, H: 2 * rad})
}

func (r *Recorder) ClipEnd() {}

func (r *Recorder) Code(kind, content string, x, y, w float64) (float64, error) {
	h, err := r.CodeHeight(kind, content, w)
	if err != nil {
		return 0, err
	}
	r.add(Op{Kind: "code", X: x, Y: y, W: w, H: h, Text: content})
	return h, nil
}

// CodeHeight returns w for QR codes and w/3 for PDF417.
func (r *Recorder) CodeHeight(kind, content string, w float64) (float64, error) {
	if content == "" {
		return 0, errors.New("surface: empty barcode content")
	}
	if kind == CodePDF417 {
		return w / 3, nil
	}
	return w, nil
}

// Texts returns the text operations in drawing order.
func (r *Recorder) Texts() []Op {
	var out []Op
	for _, op := range r.Ops {
		if op.Kind == "text" {
			out = append(out, op)
		}
	}
	return out
}

// Find returns the first text operation whose text equals s.
func (r *Recorder) Find(s string) (Op, bool) {
	for _, op := range r.Ops {
		if op.Kind == "text" && op.Text == s {
			return op, true
		}
	}
	return Op{}, false
}

var (
	_ Surface   = (*Recorder)(nil)
	_ CodeSizer = (*Recorder)(nil)
	_ CodeSizer = (*Canvas)(nil)

	_ UnicodeFonter = (*Recorder)(nil)
	_ UnicodeFonter = (*Canvas)(nil)
	_ UnicodeFonter = (*dry)(nil)
)
