package surface

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"

	"github.com/boombuler/barcode/qr"
	"github.com/go-pdf/fpdf"
	"github.com/go-pdf/fpdf/contrib/barcode"
	"github.com/go-pdf/fpdf/contrib/gofpdi"
	"github.com/ruudk/golang-pdf417"
)

// ErrLetterhead is returned when a letterhead template cannot be imported.
var ErrLetterhead = errors.New("surface: invalid letterhead PDF")

var coreFamilies = map[string]bool{
	"courier":      true,
	"helvetica":    true,
	"arial":        true,
	"times":        true,
	"symbol":       true,
	"zapfdingbats": true,
}

// CanvasOption configures a Canvas.
type CanvasOption func(*canvasConfig)

type canvasConfig struct {
	faces       []FontFace
	compress    bool
	title       string
	author      string
	letterhead  []byte
	creator     string
	defaultFont Font
	unicode     string
}

// WithFontFaces embeds TrueType faces so they can be selected with SetFont.
func WithFontFaces(faces ...FontFace) CanvasOption {
	return func(c *canvasConfig) {
		c.faces = append(c.faces, faces...)
	}
}

// WithCompression enables or disables page stream compression.
func WithCompression(on bool) CanvasOption {
	return func(c *canvasConfig) {
		c.compress = on
	}
}

// WithMetadata sets the document title and author.
func WithMetadata(title, author string) CanvasOption {
	return func(c *canvasConfig) {
		c.title = title
		c.author = author
	}
}

// WithLetterhead draws the first page of the given PDF underneath every page.
func WithLetterhead(pdf []byte) CanvasOption {
	return func(c *canvasConfig) {
		c.letterhead = pdf
	}
}

// WithUnicodeFallback names the embedded family used for lines a core font
// cannot encode. It is ignored when no face of that family is embedded.
func WithUnicodeFallback(family string) CanvasOption {
	return func(c *canvasConfig) {
		c.unicode = family
	}
}

// Canvas is a Surface that produces a PDF document through go-pdf/fpdf.
type Canvas struct {
	pdf      *fpdf.Fpdf
	w, h     float64
	tr       func(string) string
	faces    map[string]bool // "family|style" for embedded faces
	font     Font
	size     float64
	core     bool
	unicode  string
	lhData   []byte
	lhTpl    int
	lhLoaded bool
	lhErr    error
}

// NewCanvas creates a document with pages of the given size in points.
func NewCanvas(width, height float64, opts ...CanvasOption) *Canvas {
	cfg := &canvasConfig{
		compress:    true,
		creator:     "resumepdf",
		defaultFont: Font{Family: "Helvetica"},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(cfg.compress)
	pdf.SetCreator(cfg.creator, true)
	if cfg.title != "" {
		pdf.SetTitle(cfg.title, true)
	}
	if cfg.author != "" {
		pdf.SetAuthor(cfg.author, true)
	}

	c := &Canvas{
		pdf:    pdf,
		w:      width,
		h:      height,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		faces:  make(map[string]bool),
		lhData: cfg.letterhead,
	}
	for _, f := range cfg.faces {
		if len(f.Data) == 0 || f.Family == "" {
			continue
		}
		key := faceKey(f.Family, f.Style)
		if c.faces[key] {
			continue
		}
		pdf.AddUTF8FontFromBytes(f.Family, f.Style, f.Data)
		c.faces[key] = true
	}
	if c.faces[faceKey(cfg.unicode, "")] {
		c.unicode = strings.ToLower(cfg.unicode)
	}
	c.SetFont(cfg.defaultFont, 10)
	return c
}

func faceKey(family, style string) string {
	return strings.ToLower(family) + "|" + style
}

// HasFont reports whether family is a core font or an embedded face.
func (c *Canvas) HasFont(family string) bool {
	fam := strings.ToLower(family)
	return coreFamilies[fam] || c.faces[faceKey(fam, "")] || c.faces[faceKey(fam, "B")]
}

func (c *Canvas) AddPage() {
	c.pdf.AddPage()
	c.drawLetterhead()
	// the imported template leaves its own font state behind
	c.SetFont(c.font, c.size)
}

func (c *Canvas) drawLetterhead() {
	if len(c.lhData) == 0 || c.lhErr != nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			c.lhErr = fmt.Errorf("%w: %v", ErrLetterhead, r)
		}
	}()
	if !c.lhLoaded {
		if !bytes.HasPrefix(c.lhData, []byte("%PDF")) {
			c.lhErr = ErrLetterhead
			return
		}
		rs := io.ReadSeeker(bytes.NewReader(c.lhData))
		c.lhTpl = gofpdi.ImportPageFromStream(c.pdf, &rs, 1, "/MediaBox")
		c.lhLoaded = true
	}
	gofpdi.UseImportedTemplate(c.pdf, c.lhTpl, 0, 0, c.w, c.h)
}

// LetterheadErr returns the error that disabled the letterhead, if any.
func (c *Canvas) LetterheadErr() error { return c.lhErr }

func (c *Canvas) PageNo() int { return c.pdf.PageNo() }

// PageCount returns the number of pages added so far.
func (c *Canvas) PageCount() int { return c.pdf.PageCount() }

func (c *Canvas) PageSize() (float64, float64) { return c.w, c.h }

// SetFont selects f at size points. Unknown families fall back to
// Helvetica and a missing bold face falls back to the regular one.
func (c *Canvas) SetFont(f Font, size float64) {
	fam := strings.ToLower(f.Family)
	style := f.Style
	switch {
	case coreFamilies[fam]:
		c.core = true
	case c.faces[faceKey(fam, style)]:
		c.core = false
	case c.faces[faceKey(fam, "")]:
		style = ""
		c.core = false
	default:
		fam = "helvetica"
		c.core = true
	}
	if size <= 0 {
		size = 10
	}
	c.font = Font{Family: fam, Style: style}
	c.size = size
	c.pdf.SetFont(fam, style, size)
}

func (c *Canvas) FontSize() float64 { return c.size }

// CurrentFont returns the font in effect after SetFont fallbacks.
func (c *Canvas) CurrentFont() Font { return c.font }

func (c *Canvas) UnicodeFallback() string { return c.unicode }

func (c *Canvas) encode(s string) string {
	if c.core {
		return c.tr(s)
	}
	return s
}

func (c *Canvas) StringWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.encode(s))
}

func (c *Canvas) Text(x, y float64, s string) {
	if s == "" {
		return
	}
	c.pdf.Text(x, y, c.encode(s))
}

func (c *Canvas) SetTextColor(col Color) { c.pdf.SetTextColor(col.R, col.G, col.B) }
func (c *Canvas) SetFillColor(col Color) { c.pdf.SetFillColor(col.R, col.G, col.B) }
func (c *Canvas) SetDrawColor(col Color) { c.pdf.SetDrawColor(col.R, col.G, col.B) }
func (c *Canvas) SetLineWidth(w float64) { c.pdf.SetLineWidth(w) }

func (c *Canvas) Line(x1, y1, x2, y2 float64) { c.pdf.Line(x1, y1, x2, y2) }

func (c *Canvas) Rect(x, y, w, h float64, style string) {
	if w <= 0 || h <= 0 {
		return
	}
	c.pdf.Rect(x, y, w, h, style)
}

func (c *Canvas) RoundedRect(x, y, w, h, r float64, style string) {
	if w <= 0 || h <= 0 {
		return
	}
	if limit := min(w, h) / 2; r > limit {
		r = limit
	}
	c.pdf.RoundedRect(x, y, w, h, r, "1234", style)
}

func (c *Canvas) Link(x, y, w, h float64, url string) {
	if url == "" || w <= 0 || h <= 0 {
		return
	}
	c.pdf.LinkString(x, y, w, h, url)
}

// Image registers data under name on first use and draws it.
func (c *Canvas) Image(name string, data []byte, x, y, w, h float64) error {
	if c.pdf.Err() {
		return c.pdf.Error()
	}
	var typ string
	switch http.DetectContentType(data) {
	case "image/png":
		typ = "PNG"
	case "image/jpeg":
		typ = "JPG"
	case "image/gif":
		typ = "GIF"
	default:
		return fmt.Errorf("surface: unsupported image data for %q", name)
	}
	opts := fpdf.ImageOptions{ImageType: typ}
	c.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if c.pdf.Err() {
		err := c.pdf.Error()
		c.pdf.ClearError()
		return fmt.Errorf("surface: registering image %q: %w", name, err)
	}
	c.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
	return nil
}

func (c *Canvas) ClipCircle(x, y, r float64) { c.pdf.ClipCircle(x, y, r, false) }
func (c *Canvas) ClipEnd()                   { c.pdf.ClipEnd() }

// Code draws a QR or PDF417 barcode scaled to width w and returns its height.
func (c *Canvas) Code(kind, content string, x, y, w float64) (float64, error) {
	key, h, err := c.registerCode(kind, content, w)
	if err != nil {
		return 0, err
	}
	barcode.Barcode(c.pdf, key, x, y, w, h, false)
	return h, nil
}

// PDF417 symbol shape used by Code.
const (
	pdf417Columns  = 8
	pdf417Security = 2
)

// CodeHeight returns the height Code would use for the same arguments. It
// encodes the symbol without registering it with the document.
func (c *Canvas) CodeHeight(kind, content string, w float64) (h float64, err error) {
	if content == "" {
		return 0, errors.New("surface: empty barcode content")
	}
	defer func() {
		if r := recover(); r != nil {
			h, err = 0, fmt.Errorf("surface: encoding %s barcode: %v", kind, r)
		}
	}()
	var b image.Rectangle
	switch kind {
	case CodePDF417:
		b = pdf417.Encode(content, pdf417Columns, pdf417Security).Bounds()
	default:
		bc, err := qr.Encode(content, qr.M, qr.Auto)
		if err != nil {
			return 0, fmt.Errorf("surface: encoding qr barcode: %w", err)
		}
		b = bc.Bounds()
	}
	if b.Dx() > 0 {
		return w * float64(b.Dy()) / float64(b.Dx()), nil
	}
	return w, nil
}

func (c *Canvas) registerCode(kind, content string, w float64) (key string, h float64, err error) {
	if content == "" {
		return "", 0, errors.New("surface: empty barcode content")
	}
	if c.pdf.Err() {
		return "", 0, c.pdf.Error()
	}
	defer func() {
		if r := recover(); r != nil {
			key, h, err = "", 0, fmt.Errorf("surface: encoding %s barcode: %v", kind, r)
		}
	}()

	switch kind {
	case CodePDF417:
		key = barcode.RegisterPdf417(c.pdf, content, pdf417Columns, pdf417Security)
	default:
		if _, err := qr.Encode(content, qr.M, qr.Auto); err != nil {
			return "", 0, fmt.Errorf("surface: encoding qr barcode: %w", err)
		}
		key = barcode.RegisterQR(c.pdf, content, qr.M, qr.Auto)
	}
	if c.pdf.Err() {
		err := c.pdf.Error()
		c.pdf.ClearError()
		return "", 0, fmt.Errorf("surface: encoding %s barcode: %w", kind, err)
	}

	uw, uh := barcode.GetUnscaledBarcodeDimensions(c.pdf, key)
	h = w
	if uw > 0 {
		h = w * uh / uw
	}
	return key, h, nil
}

// Err returns the first error recorded by the underlying document.
func (c *Canvas) Err() error {
	if c.pdf.Err() {
		return c.pdf.Error()
	}
	return nil
}

// Output closes the document and writes it to w.
func (c *Canvas) Output(w io.Writer) error {
	if c.pdf.PageNo() == 0 {
		c.AddPage()
	}
	return c.pdf.Output(w)
}

// Bytes closes the document and returns the encoded PDF.
func (c *Canvas) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var _ Surface = (*Canvas)(nil)
