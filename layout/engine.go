package layout

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/geometry"
	"github.com/lvillar/resumepdf/rtl"
	"github.com/lvillar/resumepdf/style"
	"github.com/lvillar/resumepdf/surface"
)

// ErrBuildFailed wraps renderer errors and renderer panics. A failed build
// produces no document.
var ErrBuildFailed = errors.New("layout: build failed")

// PanelBlock is the block painted behind its column on every page. It is
// taken out of the flow and never moves the cursor.
const PanelBlock = "left_panel_bg"

// Engine places blocks from a layout document onto pages, one cursor per
// column. Blocks are atomic: a block that would cross the bottom margin
// is moved to a new page, unless it already starts at the top of one.
type Engine struct {
	reg    *block.Registry
	logger *log.Logger
	shaper rtl.Shaper
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for skipped blocks and page breaks.
func WithLogger(l *log.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithShaper sets the RTL shaper handed to renderers.
func WithShaper(sh rtl.Shaper) EngineOption {
	return func(e *Engine) {
		if sh != nil {
			e.shaper = sh
		}
	}
}

// NewEngine returns an engine resolving blocks through reg.
func NewEngine(reg *block.Registry, opts ...EngineOption) *Engine {
	e := &Engine{reg: reg, logger: log.New(io.Discard), shaper: rtl.Visual}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Input is everything one run needs.
type Input struct {
	Doc *Document
	// Geometry defaults to the geometry computed from Doc.
	Geometry *geometry.Geometry
	// Ready is the mapped profile data keyed by block id or base name.
	Ready map[string]any
	// Style defaults to style.Default().
	Style  *style.Style
	UILang string
	RTL    bool
}

// Report describes a finished run.
type Report struct {
	Pages    int
	Warnings []string
	// Cursors holds the final cursor of every column.
	Cursors map[string]float64
}

type panel struct {
	id    string
	col   geometry.Column
	data  block.Data
	patch *FramePatch
}

type run struct {
	e       *Engine
	s       surface.Surface
	g       *geometry.Geometry
	doc     *Document
	ready   map[string]any
	ctx     block.Context
	panels  []panel
	cursors map[string]float64
	report  *Report
}

// Run lays in.Doc out on s. The first page is added by Run.
func (e *Engine) Run(s surface.Surface, in Input) (*Report, error) {
	doc := in.Doc
	if doc == nil {
		doc = &Document{}
	}
	g := in.Geometry
	if g == nil {
		g = geometry.ComputeColumns(doc.Page, doc.Columns)
	}
	st := in.Style
	if st == nil {
		st = style.Default()
	}
	r := &run{
		e:       e,
		s:       s,
		g:       g,
		doc:     doc,
		ready:   in.Ready,
		cursors: make(map[string]float64, len(g.Columns)),
		report:  &Report{},
		ctx: block.Context{
			UILang:     in.UILang,
			RTL:        in.RTL,
			PageW:      g.PageW,
			PageH:      g.PageH,
			PageTop:    g.Top,
			PageBottom: g.Limit(),
			Columns:    g.Columns,
			Style:      st,
			Shaper:     e.shaper,
			Logger:     e.logger,
		},
	}

	groups := doc.Groups()
	cols := make([]geometry.Column, len(groups))
	for i, grp := range groups {
		cols[i] = r.column(grp.Column)
		for _, ref := range grp.Blocks {
			if name, _ := block.SplitID(ref.ID); name == PanelBlock {
				if !e.reg.Has(ref.ID) {
					r.warn(fmt.Sprintf("block '%s' not registered", ref.ID), "block", ref.ID)
					continue
				}
				r.panels = append(r.panels, panel{
					id:    ref.ID,
					col:   cols[i],
					data:  r.data(ref),
					patch: r.patch(ref),
				})
			}
		}
	}

	if err := r.newPage(); err != nil {
		return nil, err
	}
	for i, grp := range groups {
		for _, ref := range grp.Blocks {
			if err := r.place(cols[i], ref); err != nil {
				return nil, err
			}
		}
	}
	r.report.Cursors = r.cursors
	return r.report, nil
}

func (r *run) warn(msg string, keyvals ...any) {
	r.report.Warnings = append(r.report.Warnings, msg)
	r.e.logger.Warn(msg, keyvals...)
}

// column resolves a flow group's column. An empty id means the first
// column; an unknown id falls back to it with a warning.
func (r *run) column(id string) geometry.Column {
	first := r.g.Columns[0]
	if id == "" {
		return first
	}
	if c, ok := r.g.Column(id); ok {
		return c
	}
	r.warn(fmt.Sprintf("column '%s' not defined, using '%s'", id, first.ID), "column", id)
	return first
}

// newPage starts a page, paints the page background and every panel, and
// resets all cursors to the top margin.
func (r *run) newPage() error {
	r.s.AddPage()
	r.report.Pages++
	if bg := r.ctx.Style.Colors.Background; !style.IsWhite(bg) {
		r.s.SetFillColor(bg)
		r.s.Rect(0, 0, r.g.PageW, r.g.PageH, surface.StyleFill)
	}
	for _, c := range r.g.Columns {
		r.cursors[c.ID] = r.g.Top
	}
	for _, p := range r.panels {
		rd, err := r.e.reg.Resolve(p.id)
		if err != nil {
			return err
		}
		f := frame(p.col, r.g.Top, p.patch)
		if _, err := r.render(rd, r.s, p.id, f, p.data); err != nil {
			return err
		}
	}
	if r.report.Pages > 1 {
		r.e.logger.Debug("page break", "page", r.report.Pages)
	}
	return nil
}

// place renders one block reference into col. It measures on a dry
// surface first and moves the block to a fresh page when its drawn
// content would cross the bottom margin.
func (r *run) place(col geometry.Column, ref BlockRef) error {
	id := strings.TrimSpace(ref.ID)
	if id == "" {
		r.warn("invalid block reference skipped")
		return nil
	}
	name, _ := block.SplitID(id)
	if name == PanelBlock {
		return nil
	}
	rd, err := r.e.reg.Resolve(id)
	if err != nil {
		r.warn(fmt.Sprintf("block '%s' not registered", id), "block", id)
		return nil
	}

	data := r.data(ref)
	patch := r.patch(ref)
	f := frame(col, r.cursors[col.ID], patch)
	if patch.Y != nil {
		// Absolutely positioned blocks stay on the current page.
		y, err := r.render(rd, r.s, id, f, data)
		if err != nil {
			return err
		}
		r.cursors[col.ID] = max(r.cursors[col.ID], y)
		return nil
	}

	dry := surface.Dry(r.s)
	y, err := r.render(rd, dry, id, f, data)
	if err != nil {
		return err
	}
	// trailing spacing may run into the bottom margin
	if b, ok := surface.ContentBottom(dry); ok {
		y = b
	}
	if y > r.g.Limit() && f.Y > r.g.Top {
		if err := r.newPage(); err != nil {
			return err
		}
		f.Y = r.g.Top
	}
	y, err = r.render(rd, r.s, id, f, data)
	if err != nil {
		return err
	}
	r.cursors[col.ID] = y
	return nil
}

// render calls a renderer, turning errors and panics into ErrBuildFailed.
func (r *run) render(rd block.Renderer, s surface.Surface, id string, f block.Frame, d block.Data) (y float64, err error) {
	ctx := r.ctx
	_, ctx.Section = block.SplitID(id)
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: block %q: panic: %v", ErrBuildFailed, id, p)
		}
	}()
	y, err = rd.Render(s, f, d, &ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: block %q: %w", ErrBuildFailed, id, err)
	}
	return y, nil
}

// data resolves a block's data: the ready value for the exact id or the
// base name (descending into the variant key when present), then inline
// data, then the base-name override, then the exact-id override.
func (r *run) data(ref BlockRef) block.Data {
	id := strings.TrimSpace(ref.ID)
	name, variant := block.SplitID(id)
	v, ok := r.ready[id]
	if !ok {
		v = r.ready[name]
	}
	d := toData(v)
	if variant != "" {
		if sub, ok := d[variant]; ok {
			d = toData(sub)
			if _, isMap := sub.(map[string]any); !isMap {
				d[variant] = sub
			}
		}
	}
	d = d.Merge(ref.Data)
	if ov, ok := r.doc.Overrides[name]; ok {
		d = d.Merge(ov.Data)
	}
	if id != name {
		if ov, ok := r.doc.Overrides[id]; ok {
			d = d.Merge(ov.Data)
		}
	}
	return d
}

// patch combines inline and override frame patches; exact-id overrides
// win.
func (r *run) patch(ref BlockRef) *FramePatch {
	id := strings.TrimSpace(ref.ID)
	name, _ := block.SplitID(id)
	p := ref.Frame.Merge(r.doc.Overrides[name].Frame)
	if id != name {
		p = p.Merge(r.doc.Overrides[id].Frame)
	}
	return p
}

func frame(col geometry.Column, y float64, p *FramePatch) block.Frame {
	f := block.Frame{X: col.X, Y: y, W: col.W}
	if p == nil {
		return f
	}
	if p.X != nil {
		f.X = *p.X
	}
	if p.Y != nil {
		f.Y = *p.Y
	}
	if p.W != nil {
		f.W = *p.W
	}
	return f
}

// toData turns a ready value into renderer data. Lists are joined into
// one newline-separated text; scalars become {"text": ...}.
func toData(v any) block.Data {
	switch x := v.(type) {
	case nil:
		return block.Data{}
	case map[string]any:
		return block.Data(x).Merge(nil)
	case block.Data:
		return x.Merge(nil)
	case string:
		return block.Text(x)
	case []string:
		return block.Text(strings.Join(x, "\n"))
	case []any:
		lines := make([]string, 0, len(x))
		for _, it := range x {
			lines = append(lines, fmt.Sprint(it))
		}
		return block.Text(strings.Join(lines, "\n"))
	default:
		return block.Data{"value": x}
	}
}
