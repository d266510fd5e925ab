// Package rtl detects right-to-left text and applies a shaping transform to
// it before measurement and drawing.
package rtl

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// Shaper turns a logical-order right-to-left run into the form that should
// be handed to the drawing surface.
type Shaper interface {
	Shape(run string) string
}

// ShaperFunc adapts a function to the Shaper interface.
type ShaperFunc func(string) string

func (f ShaperFunc) Shape(run string) string { return f(run) }

// Identity leaves text unchanged. It is the shaper used when no real
// shaping engine is configured.
var Identity Shaper = ShaperFunc(func(s string) string { return s })

// Visual reverses right-to-left runs into visual order for surfaces that
// only lay glyphs out left to right.
var Visual Shaper = ShaperFunc(reverse)

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

// IsRTLRune reports whether r belongs to a right-to-left script.
func IsRTLRune(r rune) bool {
	p, _ := bidi.LookupRune(r)
	c := p.Class()
	return c == bidi.R || c == bidi.AL
}

// IsRTL reports whether s contains any right-to-left character.
func IsRTL(s string) bool {
	for _, r := range s {
		if IsRTLRune(r) {
			return true
		}
	}
	return false
}

// ShapeLine splits line on whitespace and shapes every run that contains
// right-to-left characters. Runs keep their original left-to-right order
// and separators are preserved. The boolean reports whether any run was
// right-to-left, in which case the caller aligns the line to the right.
func ShapeLine(sh Shaper, line string) (string, bool) {
	if sh == nil {
		sh = Identity
	}
	var b strings.Builder
	found := false
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		run := line[start:end]
		if IsRTL(run) {
			found = true
			run = sh.Shape(run)
		}
		b.WriteString(run)
		start = -1
	}
	for i, r := range line {
		if unicode.IsSpace(r) {
			flush(i)
			b.WriteRune(r)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(line))
	return b.String(), found
}

var rtlScripts = map[string]bool{
	"Arab": true,
	"Hebr": true,
	"Thaa": true,
	"Syrc": true,
	"Nkoo": true,
	"Adlm": true,
}

// IsRTLLanguage reports whether the BCP 47 tag names a language usually
// written right to left. Unknown tags are left-to-right.
func IsRTLLanguage(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return false
	}
	t, err := language.Parse(tag)
	if err != nil {
		return false
	}
	s, conf := t.Script()
	if conf == language.No {
		return false
	}
	return rtlScripts[s.String()]
}
