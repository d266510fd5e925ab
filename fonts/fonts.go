// Package fonts discovers TrueType fonts on disk and resolves font names to
// faces that a drawing surface can use.
//
// A Catalog is built once and treated as immutable afterwards, so it can be
// shared by concurrent document builds.
package fonts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/lvillar/resumepdf/surface"
)

// DefaultFont is the universally available last resort.
const DefaultFont = "Helvetica"

// GoFamily names the embedded Go fonts, used as the Unicode fallback when
// no preferred fallback was discovered.
const GoFamily = "Go"

// FallbackCandidates are the preferred Unicode-capable families, in order.
var FallbackCandidates = []string{"NotoNaskhArabic", "DejaVuSans", "NotoSans"}

var styleSuffix = regexp.MustCompile(`(?i)[-_](Regular|Bold|Medium|SemiBold|Semi-Bold|ExtraBold|Light|Black|Book|Roman)$`)

// core fonts understood by every PDF reader, by lower-cased name.
var core = map[string]surface.Font{
	"helvetica":             {Family: "Helvetica"},
	"helvetica-bold":        {Family: "Helvetica", Style: "B"},
	"times":                 {Family: "Times"},
	"times-roman":           {Family: "Times"},
	"times-bold":            {Family: "Times", Style: "B"},
	"courier":               {Family: "Courier"},
	"courier-bold":          {Family: "Courier", Style: "B"},
	"arial":                 {Family: "Helvetica"},
	"arial-bold":            {Family: "Helvetica", Style: "B"},
	"helvetica-boldoblique": {Family: "Helvetica", Style: "B"},
}

// Family is one font family with up to two faces.
type Family struct {
	Name        string
	Regular     []byte
	Bold        []byte
	RegularPath string
	BoldPath    string
}

// Catalog is a set of font families keyed by name.
type Catalog struct {
	families map[string]*Family // lower-cased name
	fallback string
}

// FamilyName strips a known style suffix from a file stem, so
// "NotoNaskhArabic-Regular" becomes "NotoNaskhArabic".
func FamilyName(stem string) string {
	return styleSuffix.ReplaceAllString(stem, "")
}

// IsBoldName reports whether a file stem names a bold face.
func IsBoldName(stem string) bool {
	l := strings.ToLower(stem)
	return strings.Contains(l, "bold") || strings.Contains(l, "black") || strings.Contains(l, "semibold")
}

// New returns a catalog holding the given families plus the embedded Go
// fonts.
func New(families ...*Family) *Catalog {
	c := &Catalog{families: make(map[string]*Family)}
	c.add(&Family{Name: GoFamily, Regular: goregular.TTF, Bold: gobold.TTF})
	for _, f := range families {
		c.add(f)
	}
	c.pickFallback()
	return c
}

func (c *Catalog) add(f *Family) {
	if f == nil || f.Name == "" || (len(f.Regular) == 0 && len(f.Bold) == 0) {
		return
	}
	key := strings.ToLower(f.Name)
	if cur, ok := c.families[key]; ok {
		if len(f.Regular) > 0 {
			cur.Regular, cur.RegularPath = f.Regular, f.RegularPath
		}
		if len(f.Bold) > 0 {
			cur.Bold, cur.BoldPath = f.Bold, f.BoldPath
		}
		return
	}
	cp := *f
	c.families[key] = &cp
}

func (c *Catalog) pickFallback() {
	c.fallback = GoFamily
	for _, name := range FallbackCandidates {
		if f, ok := c.families[strings.ToLower(name)]; ok && len(f.Regular) > 0 {
			c.fallback = f.Name
			return
		}
	}
}

// Discover scans dir for .ttf files and returns a catalog of the families
// found there. Files that cannot be read are skipped and reported in the
// joined error; the catalog is usable either way.
func Discover(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return New(), fmt.Errorf("fonts: reading %s: %w", dir, err)
	}

	byName := make(map[string]*Family)
	var names []string
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".ttf") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		stem := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		name := FamilyName(stem)
		f, ok := byName[name]
		if !ok {
			f = &Family{Name: name}
			byName[name] = f
			names = append(names, name)
		}
		if IsBoldName(stem) {
			f.Bold, f.BoldPath = data, path
		} else {
			f.Regular, f.RegularPath = data, path
		}
	}

	fams := make([]*Family, 0, len(names))
	for _, n := range names {
		fams = append(fams, byName[n])
	}
	return New(fams...), errors.Join(errs...)
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog

	loadMu sync.Mutex
	loaded = map[string]*Catalog{}
)

// Default returns the process-wide catalog holding only the embedded fonts.
func Default() *Catalog {
	defaultOnce.Do(func() { defaultCatalog = New() })
	return defaultCatalog
}

// Load discovers dir once per process and returns the cached catalog on
// later calls. An empty dir returns Default.
func Load(dir string) (*Catalog, error) {
	if dir == "" {
		return Default(), nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	loadMu.Lock()
	defer loadMu.Unlock()
	if c, ok := loaded[abs]; ok {
		return c, nil
	}
	c, err := Discover(abs)
	if errors.Is(err, fs.ErrNotExist) {
		return c, err
	}
	loaded[abs] = c
	return c, err
}

// Fallback returns the Unicode-capable family used when a requested font
// is unavailable.
func (c *Catalog) Fallback() string { return c.fallback }

// Families returns the families sorted by name.
func (c *Catalog) Families() []*Family {
	out := make([]*Family, 0, len(c.families))
	for _, f := range c.families {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns every registered font name: each core font, each family
// with a regular face, and "<family>-Bold" for each bold face.
func (c *Catalog) Names() []string {
	out := []string{"Helvetica", "Helvetica-Bold", "Times-Roman", "Times-Bold", "Courier", "Courier-Bold"}
	for _, f := range c.Families() {
		if len(f.Regular) > 0 {
			out = append(out, f.Name)
		}
		if len(f.Bold) > 0 {
			out = append(out, f.Name+"-Bold")
		}
	}
	sort.Strings(out)
	return out
}

// Has reports whether name is a registered font name.
func (c *Catalog) Has(name string) bool {
	_, ok := c.lookup(name)
	return ok
}

func (c *Catalog) lookup(name string) (surface.Font, bool) {
	l := strings.ToLower(strings.TrimSpace(name))
	if l == "" {
		return surface.Font{}, false
	}
	if f, ok := core[l]; ok {
		return f, true
	}
	if f, ok := c.families[l]; ok && len(f.Regular) > 0 {
		return surface.Font{Family: f.Name}, true
	}
	if base, ok := strings.CutSuffix(l, "-bold"); ok {
		if f, ok := c.families[base]; ok && len(f.Bold) > 0 {
			return surface.Font{Family: f.Name, Style: "B"}, true
		}
	}
	return surface.Font{}, false
}

func (c *Catalog) hasBold(family string) bool {
	l := strings.ToLower(family)
	if _, ok := core[l+"-bold"]; ok {
		return true
	}
	f, ok := c.families[l]
	return ok && len(f.Bold) > 0
}

// Resolve maps a font name to a surface font. An unregistered name falls
// back to its bold sibling when bold is requested, then to the Unicode
// fallback family, then to Helvetica. The boolean is false when a fallback
// was used. Resolve never fails.
func (c *Catalog) Resolve(name string, bold bool) (surface.Font, bool) {
	if f, ok := c.lookup(name); ok {
		if bold && f.Style == "" && c.hasBold(f.Family) {
			f.Style = "B"
		}
		return f, true
	}
	if bold && name != "" {
		if f, ok := c.lookup(name + "-Bold"); ok {
			return f, true
		}
	}
	if f, ok := c.lookup(c.fallback); ok {
		if bold && c.hasBold(f.Family) {
			f.Style = "B"
		}
		return f, false
	}
	f := surface.Font{Family: DefaultFont}
	if bold {
		f.Style = "B"
	}
	return f, false
}

// Faces returns every embeddable face for a surface.
func (c *Catalog) Faces() []surface.FontFace {
	var out []surface.FontFace
	for _, f := range c.Families() {
		if len(f.Regular) > 0 {
			out = append(out, surface.FontFace{Family: f.Name, Data: f.Regular})
		}
		if len(f.Bold) > 0 {
			out = append(out, surface.FontFace{Family: f.Name, Style: "B", Data: f.Bold})
		}
	}
	return out
}

// WithFallback returns a catalog that shares c's families but falls back
// to name. When name has no regular face c is returned unchanged.
func (c *Catalog) WithFallback(name string) *Catalog {
	f, ok := c.families[strings.ToLower(name)]
	if !ok || len(f.Regular) == 0 {
		return c
	}
	return &Catalog{families: c.families, fallback: f.Name}
}
