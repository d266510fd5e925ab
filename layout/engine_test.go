package layout

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/geometry"
	"github.com/lvillar/resumepdf/surface"
)

const lineH = 14.0

// lines draws n text lines and returns the cursor below them.
func lines(n int) block.Renderer {
	return block.RendererFunc(func(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
		for i := 0; i < n; i++ {
			s.Text(f.X, f.Y+float64(i)*lineH+lineH*surface.Ascent, "line")
		}
		return f.Y + float64(n)*lineH, nil
	})
}

// capture records the data and frame of every real (non-dry) call.
type capture struct {
	data   []block.Data
	frames []block.Frame
	ctx    []block.Context
}

func (c *capture) Render(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
	if !surface.IsDry(s) {
		c.data = append(c.data, d)
		c.frames = append(c.frames, f)
		c.ctx = append(c.ctx, *ctx)
	}
	return f.Y + 10, nil
}

func newRegistry(t *testing.T, renderers map[string]block.Renderer) *block.Registry {
	t.Helper()
	reg := block.NewRegistry(nil)
	for name, r := range renderers {
		if err := reg.Register(name, r); err != nil {
			t.Fatal(err)
		}
	}
	return reg
}

func runDoc(t *testing.T, reg *block.Registry, doc *Document, ready map[string]any) (*surface.Recorder, *geometry.Geometry, *Report) {
	t.Helper()
	g := geometry.ComputeColumns(doc.Page, doc.Columns)
	rec := surface.NewRecorder(g.PageW, g.PageH)
	rep, err := NewEngine(reg).Run(rec, Input{Doc: doc, Geometry: g, Ready: ready})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	return rec, g, rep
}

func refs(ids ...string) []BlockRef {
	out := make([]BlockRef, len(ids))
	for i, id := range ids {
		out[i] = Ref(id)
	}
	return out
}

func TestPaginationStaysInsideMargins(t *testing.T) {
	reg := newRegistry(t, map[string]block.Renderer{"para": lines(5)})
	var ids []string
	for i := 0; i < 40; i++ {
		ids = append(ids, "para")
	}
	rec, g, rep := runDoc(t, reg, &Document{Layout: refs(ids...)}, nil)

	if rep.Pages < 2 {
		t.Fatalf("Pages = %d, want more than one", rep.Pages)
	}
	if rec.PageCount() != rep.Pages {
		t.Errorf("surface has %d pages, report says %d", rec.PageCount(), rep.Pages)
	}
	texts := rec.Texts()
	if len(texts) != 200 {
		t.Fatalf("drew %d lines, want 200", len(texts))
	}
	for _, op := range texts {
		top := op.Y - lineH*surface.Ascent
		if top < g.Top-1e-9 || op.Y+op.Size*(1-surface.Ascent) > g.Limit()+1e-9 {
			t.Fatalf("line outside margins on page %d: top=%.2f limit=%.2f", op.Page, top, g.Limit())
		}
	}
	// Blocks are atomic: all five lines of a block share a page.
	for i := 0; i < len(texts); i += 5 {
		if texts[i].Page != texts[i+4].Page {
			t.Fatalf("block %d split across pages %d and %d", i/5, texts[i].Page, texts[i+4].Page)
		}
	}
}

// bar draws a filled box of height h and returns the cursor gap points
// below it.
func bar(h, gap float64) block.Renderer {
	return block.RendererFunc(func(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
		s.Rect(f.X, f.Y, f.W, h, surface.StyleFill)
		return f.Y + h + gap, nil
	})
}

func TestTrailingSpacingDoesNotBreakPage(t *testing.T) {
	g := geometry.ComputeColumns(geometry.Page{}, nil)
	room := g.Limit() - g.Top
	tests := []struct {
		name      string
		h         float64
		wantPages int
	}{
		{"content fits, spacing overflows", 20, 1},
		{"content overflows", 40, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newRegistry(t, map[string]block.Renderer{
				"fill": bar(room-30, 0),
				"last": bar(tt.h, 20),
			})
			rec, _, rep := runDoc(t, reg, &Document{Layout: refs("fill", "last")}, nil)
			if rep.Pages != tt.wantPages {
				t.Errorf("Pages = %d, want %d", rep.Pages, tt.wantPages)
			}
			last := rec.Ops[len(rec.Ops)-1]
			if last.Kind != "rect" || last.Page != tt.wantPages {
				t.Errorf("last op = %v, want rect on page %d", last, tt.wantPages)
			}
		})
	}
}

func TestOversizedBlockAtPageTopIsAccepted(t *testing.T) {
	reg := newRegistry(t, map[string]block.Renderer{"huge": lines(80)})
	rec, _, rep := runDoc(t, reg, &Document{Layout: refs("huge")}, nil)
	if rep.Pages != 1 {
		t.Errorf("Pages = %d, want 1", rep.Pages)
	}
	if n := len(rec.Texts()); n != 80 {
		t.Errorf("drew %d lines, want 80", n)
	}
}

func TestUnregisteredBlockIsSkipped(t *testing.T) {
	reg := newRegistry(t, map[string]block.Renderer{"header_name": lines(1)})
	rec, g, rep := runDoc(t, reg, &Document{Layout: refs("header_name", "unknown_block", "header_name")}, nil)

	if !slices.Contains(rep.Warnings, "block 'unknown_block' not registered") {
		t.Errorf("Warnings = %q", rep.Warnings)
	}
	if rep.Pages != 1 {
		t.Errorf("Pages = %d, want 1", rep.Pages)
	}
	if n := len(rec.Texts()); n != 2 {
		t.Errorf("drew %d lines, want 2", n)
	}
	if got, want := rep.Cursors["main"], g.Top+2*lineH; got != want {
		t.Errorf("cursor = %v, want %v", got, want)
	}
}

func TestPanelDoesNotMoveCursor(t *testing.T) {
	panel := block.RendererFunc(func(s surface.Surface, f block.Frame, d block.Data, ctx *block.Context) (float64, error) {
		s.SetFillColor(surface.Color{R: 240, G: 240, B: 240})
		s.Rect(f.X, 0, f.W, ctx.PageH, surface.StyleFill)
		return f.Y + 500, nil
	})
	reg := newRegistry(t, map[string]block.Renderer{
		"left_panel_bg": panel,
		"box":           lines(2),
		"para":          lines(20),
	})
	main := refs("para", "para", "para", "para")
	doc := &Document{
		Columns: []geometry.ColumnSpec{
			{ID: "side", Width: geometry.Width{Value: 30, Unit: "%"}},
			{ID: "main", Width: geometry.Width{Value: 70, Unit: "%"}},
		},
		Flow: []FlowGroup{
			{Column: "side", Blocks: refs("box", "left_panel_bg")},
			{Column: "main", Blocks: main},
		},
	}
	rec, g, rep := runDoc(t, reg, doc, nil)

	if rep.Pages < 2 {
		t.Fatalf("Pages = %d, want a page break", rep.Pages)
	}
	side, _ := g.Column("side")
	var panels []int
	for _, op := range rec.Ops {
		if op.Kind == "rect" && op.X == side.X && op.W == side.W {
			panels = append(panels, op.Page)
		}
	}
	want := make([]int, rep.Pages)
	for i := range want {
		want[i] = i + 1
	}
	if diff := cmp.Diff(want, panels); diff != "" {
		t.Errorf("panel pages (-want +got):\n%s", diff)
	}
	// The panel is painted before the side column's content.
	box := rec.Texts()[0]
	for i, op := range rec.Ops {
		if op.Kind == "text" && op == box {
			if i == 0 || rec.Ops[i-1].Kind != "rect" {
				t.Errorf("first text drawn before the panel")
			}
			break
		}
	}
	if got, want := box.Y, g.Top+lineH*surface.Ascent; got != want {
		t.Errorf("side content top = %v, want %v", got, want)
	}
}

func TestPageBackgroundOnEveryPage(t *testing.T) {
	reg := newRegistry(t, map[string]block.Renderer{"para": lines(30)})
	doc := &Document{Layout: refs("para", "para", "para")}
	g := geometry.ComputeColumns(doc.Page, doc.Columns)
	rec := surface.NewRecorder(g.PageW, g.PageH)
	st := defaultStyle()
	st.Colors.Background = surface.Color{R: 250, G: 250, B: 240}
	rep, err := NewEngine(reg).Run(rec, Input{Doc: doc, Geometry: g, Style: st})
	if err != nil {
		t.Fatal(err)
	}
	n := 0
	for _, op := range rec.Ops {
		if op.Kind == "rect" && op.W == g.PageW && op.H == g.PageH {
			n++
			if op.Fill != st.Colors.Background {
				t.Errorf("background fill = %v", op.Fill)
			}
		}
	}
	if n != rep.Pages {
		t.Errorf("painted %d backgrounds on %d pages", n, rep.Pages)
	}
}

func TestDataResolution(t *testing.T) {
	c := &capture{}
	reg := newRegistry(t, map[string]block.Renderer{"text_section": c, "key_skills": c, "decor_curve": c})
	x := 12.0
	doc := &Document{
		Layout: []BlockRef{
			Ref("text_section:summary"),
			Ref("key_skills"),
			{ID: "decor_curve", Data: map[string]any{"color": "#111111", "height_mm": 3.0}},
		},
		Overrides: map[string]Override{
			"text_section":         {Data: map[string]any{"rule": true}},
			"text_section:summary": {Data: map[string]any{"title": "Profile"}},
			"decor_curve":          {Data: map[string]any{"color": "#222222"}, Frame: &FramePatch{X: &x}},
		},
	}
	ready := map[string]any{
		"text_section": map[string]any{"summary": "Builds things.", "about": "Other."},
		"key_skills":   []any{"Go", "SQL"},
	}
	_, g, _ := runDoc(t, reg, doc, ready)

	want := []block.Data{
		{"text": "Builds things.", "summary": "Builds things.", "rule": true, "title": "Profile"},
		{"text": "Go\nSQL"},
		{"color": "#222222", "height_mm": 3.0},
	}
	if diff := cmp.Diff(want, c.data); diff != "" {
		t.Errorf("data (-want +got):\n%s", diff)
	}
	if c.ctx[0].Section != "summary" || c.ctx[1].Section != "" {
		t.Errorf("sections = %q, %q", c.ctx[0].Section, c.ctx[1].Section)
	}
	main, _ := g.Column("main")
	if f := c.frames[2]; f.X != 12 || f.W != main.W || f.Y != g.Top+20 {
		t.Errorf("decor frame = %+v", f)
	}
}

func TestAbsoluteFrameKeepsFlowCursor(t *testing.T) {
	c := &capture{}
	reg := newRegistry(t, map[string]block.Renderer{"decor_curve": c, "para": lines(1)})
	y := 5.0
	doc := &Document{Layout: []BlockRef{{ID: "decor_curve", Frame: &FramePatch{Y: &y}}, Ref("para")}}
	_, g, rep := runDoc(t, reg, doc, nil)
	if c.frames[0].Y != 5 {
		t.Errorf("frame y = %v, want 5", c.frames[0].Y)
	}
	if got, want := rep.Cursors["main"], g.Top+lineH; got != want {
		t.Errorf("cursor = %v, want %v", got, want)
	}
}

func TestUnknownColumnFallsBack(t *testing.T) {
	reg := newRegistry(t, map[string]block.Renderer{"para": lines(1)})
	doc := &Document{Flow: []FlowGroup{{Column: "nowhere", Blocks: refs("para")}}}
	_, g, rep := runDoc(t, reg, doc, nil)
	if len(rep.Warnings) != 1 || !strings.Contains(rep.Warnings[0], "nowhere") {
		t.Errorf("Warnings = %q", rep.Warnings)
	}
	if rep.Cursors["main"] != g.Top+lineH {
		t.Errorf("cursor = %v", rep.Cursors["main"])
	}
}

func TestRendererFailureAbortsBuild(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name string
		r    block.Renderer
	}{
		{"error", block.RendererFunc(func(surface.Surface, block.Frame, block.Data, *block.Context) (float64, error) {
			return 0, boom
		})},
		{"panic", block.RendererFunc(func(surface.Surface, block.Frame, block.Data, *block.Context) (float64, error) {
			panic("index out of range")
		})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := newRegistry(t, map[string]block.Renderer{"bad": tt.r})
			rec := surface.NewRecorder(595, 842)
			_, err := NewEngine(reg).Run(rec, Input{Doc: &Document{Layout: refs("bad")}})
			if !errors.Is(err, ErrBuildFailed) {
				t.Fatalf("err = %v, want ErrBuildFailed", err)
			}
			if tt.name == "error" && !errors.Is(err, boom) {
				t.Errorf("cause not wrapped: %v", err)
			}
			if !strings.Contains(err.Error(), `"bad"`) {
				t.Errorf("block id missing from %q", err)
			}
		})
	}
}

func TestDefaultFlow(t *testing.T) {
	c := &capture{}
	reg := newRegistry(t, map[string]block.Renderer{"header_name": c, "text_section": c, "projects": c, "education": c})
	runDoc(t, reg, &Document{}, nil)
	if len(c.frames) != len(DefaultFlow) {
		t.Errorf("rendered %d blocks, want %d", len(c.frames), len(DefaultFlow))
	}
}
