package surface

// Dry returns a surface that measures with s but never draws on it.
// Font selection is forwarded so width measurements stay accurate. A dry
// surface remembers the lowest point its discarded drawing would have
// reached; see ContentBottom.
func Dry(s Surface) Surface {
	if d, ok := s.(*dry); ok {
		return &dry{inner: d.inner}
	}
	return &dry{inner: s}
}

// ContentBottom returns the lowest y reached by drawing on a dry surface.
// The boolean is false when s is not dry or nothing was drawn on it.
func ContentBottom(s Surface) (float64, bool) {
	d, ok := s.(*dry)
	if !ok || !d.drawn {
		return 0, false
	}
	return d.bottom, true
}

// IsDry reports whether s discards drawing operations.
func IsDry(s Surface) bool {
	_, ok := s.(*dry)
	return ok
}

type dry struct {
	inner  Surface
	bottom float64
	drawn  bool
}

func (d *dry) reach(y float64) {
	if !d.drawn || y > d.bottom {
		d.bottom = y
	}
	d.drawn = true
}

func (d *dry) AddPage()                     {}
func (d *dry) PageNo() int                  { return d.inner.PageNo() }
func (d *dry) PageSize() (float64, float64) { return d.inner.PageSize() }

func (d *dry) SetFont(f Font, size float64) { d.inner.SetFont(f, size) }
func (d *dry) FontSize() float64            { return d.inner.FontSize() }
func (d *dry) StringWidth(s string) float64 { return d.inner.StringWidth(s) }
func (d *dry) SetTextColor(Color)           {}
func (d *dry) SetFillColor(Color)           {}
func (d *dry) SetDrawColor(Color)           {}
func (d *dry) SetLineWidth(float64)         {}

// Text reaches the descender below the baseline.
func (d *dry) Text(x, y float64, s string) {
	if s != "" {
		d.reach(y + d.FontSize()*(1-Ascent))
	}
}

func (d *dry) Line(x1, y1, x2, y2 float64)                 { d.reach(max(y1, y2)) }
func (d *dry) Rect(x, y, w, h float64, _ string)           { d.reach(y + h) }
func (d *dry) RoundedRect(x, y, w, h, r float64, _ string) { d.reach(y + h) }
func (d *dry) Link(x, y, w, h float64, url string)         {}

func (d *dry) Image(name string, data []byte, x, y, w, h float64) error {
	if len(data) == 0 {
		return errEmptyImage
	}
	d.reach(y + h)
	return nil
}

func (d *dry) ClipCircle(x, y, r float64) {}
func (d *dry) ClipEnd()                   {}

func (d *dry) Code(kind, content string, x, y, w float64) (float64, error) {
	h := w
	if cs, ok := d.inner.(CodeSizer); ok {
		var err error
		if h, err = cs.CodeHeight(kind, content, w); err != nil {
			return 0, err
		}
	}
	d.reach(y + h)
	return h, nil
}

func (d *dry) CurrentFont() Font {
	if u, ok := d.inner.(UnicodeFonter); ok {
		return u.CurrentFont()
	}
	return Font{}
}

func (d *dry) UnicodeFallback() string {
	if u, ok := d.inner.(UnicodeFonter); ok {
		return u.UnicodeFallback()
	}
	return ""
}
