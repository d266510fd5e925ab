// Package typeset wraps and draws text on a surface.
//
// Lines are laid out top-down: y is the top of the line box and the
// baseline sits Ascent times the font size below it. Lines that contain
// right-to-left script are shaped run by run and aligned to the right edge
// of the box.
package typeset

import (
	"strings"

	"github.com/lvillar/resumepdf/rtl"
	"github.com/lvillar/resumepdf/surface"
)

// Align is a horizontal alignment inside a box.
type Align int

const (
	Left Align = iota
	Center
	Right
)

// Measure returns the width of line after shaping.
func Measure(s surface.Surface, sh rtl.Shaper, line string) float64 {
	defer LineFont(s, line)()
	shaped, _ := rtl.ShapeLine(sh, line)
	return s.StringWidth(shaped)
}

// LineFont switches s to its Unicode fallback family when line holds
// right-to-left script and the current font is a core font. The returned
// func restores the previous font.
func LineFont(s surface.Surface, line string) func() {
	u, ok := s.(surface.UnicodeFonter)
	if !ok || !rtl.IsRTL(line) {
		return func() {}
	}
	cur, fb := u.CurrentFont(), u.UnicodeFallback()
	if fb == "" || !surface.IsCore(cur) {
		return func() {}
	}
	size := s.FontSize()
	s.SetFont(surface.Font{Family: fb, Style: cur.Style}, size)
	return func() { s.SetFont(cur, size) }
}

// Wrap breaks text into lines no wider than width in the current font.
// Words are accumulated greedily; a word wider than width is placed alone
// on its own line and never split. Explicit newlines always break.
func Wrap(s surface.Surface, sh rtl.Shaper, text string, width float64) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			continue
		}
		cur := words[0]
		for _, w := range words[1:] {
			next := cur + " " + w
			if Measure(s, sh, next) <= width {
				cur = next
				continue
			}
			out = append(out, cur)
			cur = w
		}
		out = append(out, cur)
	}
	return out
}

// Line draws one line whose box starts at (x, y) and is w wide. RTL lines
// are right-aligned regardless of align. It returns the drawn x and width.
func Line(s surface.Surface, sh rtl.Shaper, x, y, w float64, line string, align Align) (float64, float64) {
	defer LineFont(s, line)()
	shaped, isRTL := rtl.ShapeLine(sh, line)
	tw := s.StringWidth(shaped)
	if isRTL {
		align = Right
	}
	switch align {
	case Right:
		x += w - tw
	case Center:
		x += (w - tw) / 2
	}
	s.Text(x, y+s.FontSize()*surface.Ascent, shaped)
	return x, tw
}

// Paragraph wraps text to w and draws it line by line with the given
// leading. It returns the y below the last line.
func Paragraph(s surface.Surface, sh rtl.Shaper, x, y, w float64, text string, leading float64, align Align) float64 {
	if leading <= 0 {
		leading = s.FontSize() * 1.4
	}
	for _, ln := range Wrap(s, sh, text, w) {
		Line(s, sh, x, y, w, ln, align)
		y += leading
	}
	return y
}

// Bullets draws each item as a bulleted, wrapped entry. Continuation lines
// are indented past the bullet. Lines containing right-to-left script, or
// every line when align is Right, put the bullet on the right edge. It
// returns the y below the last line.
func Bullets(s surface.Surface, sh rtl.Shaper, x, y, w float64, items []string, leading float64, align Align) float64 {
	if leading <= 0 {
		leading = s.FontSize() * 1.4
	}
	const bullet = "•"
	indent := s.StringWidth(bullet + " ")
	for _, it := range items {
		lines := Wrap(s, sh, it, w-indent)
		for i, ln := range lines {
			shaped, isRTL := rtl.ShapeLine(sh, ln)
			base := y + s.FontSize()*surface.Ascent
			if isRTL || align == Right {
				if i == 0 {
					s.Text(x+w-s.StringWidth(bullet), base, bullet)
				}
				restore := LineFont(s, ln)
				s.Text(x+w-indent-s.StringWidth(shaped), base, shaped)
				restore()
			} else {
				if i == 0 {
					s.Text(x, base, bullet)
				}
				restore := LineFont(s, ln)
				s.Text(x+indent, base, shaped)
				restore()
			}
			y += leading
		}
	}
	return y
}
