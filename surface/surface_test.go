package surface

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/go-pdf/fpdf/contrib/barcode"
	"golang.org/x/image/font/gofont/goregular"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCanvasBytes(t *testing.T) {
	c := NewCanvas(595.28, 841.89, WithMetadata("Resume", "A"))
	c.AddPage()
	c.SetFont(Font{Family: "Helvetica", Style: "B"}, 18)
	c.Text(40, 60, "Zoë Müller")
	c.SetFillColor(Color{37, 99, 235})
	c.RoundedRect(40, 80, 200, 12, 6, StyleFill)
	c.Link(40, 80, 200, 12, "https://example.com")
	if err := c.Image("avatar", pngBytes(t), 300, 40, 48, 48); err != nil {
		t.Fatalf("Image: %v", err)
	}
	h, err := c.Code(CodeQR, "https://example.com", 40, 100, 60)
	if err != nil {
		t.Fatalf("Code: %v", err)
	}
	if h <= 0 {
		t.Errorf("Code height = %v, want > 0", h)
	}
	c.AddPage()

	out, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
	if c.PageCount() != 2 {
		t.Errorf("PageCount = %d, want 2", c.PageCount())
	}
}

func TestCanvasEmptyDocumentGetsOnePage(t *testing.T) {
	c := NewCanvas(300, 400)
	out, err := c.Bytes()
	if err != nil {
		t.Fatalf("Bytes: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
	if c.PageCount() != 1 {
		t.Errorf("PageCount = %d, want 1", c.PageCount())
	}
}

func TestCanvasRejectsBadImage(t *testing.T) {
	c := NewCanvas(300, 400)
	c.AddPage()
	if err := c.Image("x", []byte("not an image"), 0, 0, 10, 10); err == nil {
		t.Error("expected error for non-image data")
	}
	if err := c.Err(); err != nil {
		t.Errorf("document error after rejected image: %v", err)
	}
}

func TestCanvasUnknownFontFallsBack(t *testing.T) {
	c := NewCanvas(300, 400)
	c.AddPage()
	c.SetFont(Font{Family: "NoSuchFamily"}, 12)
	if c.HasFont("NoSuchFamily") {
		t.Error("HasFont reported an unregistered family")
	}
	if w := c.StringWidth("abc"); w <= 0 {
		t.Errorf("StringWidth = %v, want > 0", w)
	}
	if err := c.Err(); err != nil {
		t.Errorf("unexpected document error: %v", err)
	}
}

func TestCanvasBadLetterheadIsDisabled(t *testing.T) {
	c := NewCanvas(300, 400, WithLetterhead([]byte("garbage")))
	c.AddPage()
	c.AddPage()
	if c.LetterheadErr() == nil {
		t.Error("expected letterhead error")
	}
	if _, err := c.Bytes(); err != nil {
		t.Errorf("Bytes: %v", err)
	}
}

func TestDryDrawsNothing(t *testing.T) {
	r := NewRecorder(300, 400)
	r.AddPage()
	d := Dry(r)
	d.SetFont(Font{Family: "Helvetica"}, 20)
	d.Text(10, 10, "hello")
	d.Rect(0, 0, 10, 10, StyleFill)
	d.AddPage()
	if len(r.Ops) != 0 {
		t.Errorf("dry surface recorded %d ops", len(r.Ops))
	}
	if r.PageNo() != 1 {
		t.Errorf("dry AddPage changed page to %d", r.PageNo())
	}
	if got, want := d.StringWidth("hello"), 50.0; got != want {
		t.Errorf("StringWidth = %v, want %v", got, want)
	}
	if !IsDry(d) || IsDry(r) {
		t.Error("IsDry misreports")
	}
	if dd := Dry(d); !IsDry(dd) {
		t.Error("Dry of a dry surface is not dry")
	}
	h, err := d.Code(CodePDF417, "x", 0, 0, 90)
	if err != nil || h != 30 {
		t.Errorf("dry Code = %v, %v; want 30, nil", h, err)
	}
}

func TestRecorderFontFilter(t *testing.T) {
	r := NewRecorder(300, 400, "DejaVuSans")
	r.SetFont(Font{Family: "DejaVuSans", Style: "B"}, 12)
	if got := r.CurrentFont(); got.Family != "dejavusans" || !got.Bold() {
		t.Errorf("CurrentFont = %+v", got)
	}
	r.SetFont(Font{Family: "Missing"}, 12)
	if got := r.CurrentFont().Family; got != "helvetica" {
		t.Errorf("fallback family = %q, want helvetica", got)
	}
}

func TestColorString(t *testing.T) {
	tests := []struct {
		c    Color
		want string
	}{
		{Black, "#000000"},
		{White, "#FFFFFF"},
		{Color{37, 99, 235}, "#2563EB"},
		{Color{-4, 300, 15}, "#00FF0F"},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", tt.c, got, tt.want)
		}
	}
}

func TestCanvasUnicodeFallback(t *testing.T) {
	c := NewCanvas(300, 400, WithUnicodeFallback("Missing"))
	if got := c.UnicodeFallback(); got != "" {
		t.Errorf("UnicodeFallback without face = %q, want empty", got)
	}
	c = NewCanvas(300, 400,
		WithFontFaces(FontFace{Family: "Go", Data: goregular.TTF}),
		WithUnicodeFallback("Go"))
	if got := c.UnicodeFallback(); got != "go" {
		t.Errorf("UnicodeFallback = %q, want go", got)
	}
	if !IsCore(c.CurrentFont()) {
		t.Errorf("default font %+v is not a core font", c.CurrentFont())
	}
	d := Dry(c).(UnicodeFonter)
	if d.UnicodeFallback() != "go" || d.CurrentFont() != c.CurrentFont() {
		t.Error("dry surface does not forward font state")
	}
}

func TestDryContentBottom(t *testing.T) {
	r := NewRecorder(300, 400)
	r.AddPage()
	d := Dry(r)
	if _, ok := ContentBottom(d); ok {
		t.Error("ContentBottom reported content before any drawing")
	}
	d.SetFont(Font{Family: "Helvetica"}, 10)
	d.Text(0, 48, "x")
	d.Rect(0, 20, 10, 10, StyleFill)
	d.Link(0, 0, 10, 200, "https://example.com")
	got, ok := ContentBottom(d)
	if !ok || math.Abs(got-50) > 1e-9 {
		t.Errorf("ContentBottom = %v, %v; want 50", got, ok)
	}
	if _, ok := ContentBottom(Dry(d)); ok {
		t.Error("a re-wrapped dry surface kept the previous bottom")
	}
	if _, ok := ContentBottom(r); ok {
		t.Error("ContentBottom of a drawing surface")
	}
}

func TestCanvasCodeHeightDoesNotRegister(t *testing.T) {
	c := NewCanvas(300, 400)
	c.AddPage()
	for _, kind := range []string{CodeQR, CodePDF417} {
		content := "measure-only-" + kind
		h, err := c.CodeHeight(kind, content, 90)
		if err != nil || h <= 0 {
			t.Fatalf("%s CodeHeight = %v, %v", kind, h, err)
		}
		drawn, err := c.Code(kind, content+"-drawn", 0, 0, 90)
		if err != nil {
			t.Fatalf("%s Code: %v", kind, err)
		}
		if want, _ := c.CodeHeight(kind, content+"-drawn", 90); drawn != want {
			t.Errorf("%s drawn height %v, measured %v", kind, drawn, want)
		}
	}
	barcode.GetUnscaledBarcodeDimensions(c.pdf, "QR Code"+"measure-only-"+CodeQR)
	if !c.pdf.Err() {
		t.Error("measured QR code was registered")
	}
	c.pdf.ClearError()
}
