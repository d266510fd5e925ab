package geometry

import (
	"encoding/json"
	"math"
	"testing"
)

const eps = 1e-9

func f(v float64) *float64 { return &v }

func TestPercentColumnsFillContent(t *testing.T) {
	sets := [][]float64{
		{100},
		{30, 70},
		{35, 65, 50},
		{1, 1},
		{10, 20, 30, 40, 250},
		{0.5, 0.25},
	}
	for _, set := range sets {
		cols := make([]ColumnSpec, len(set))
		for i, p := range set {
			cols[i] = ColumnSpec{ID: string(rune('a' + i)), Width: Width{Value: p, Unit: "%"}}
		}
		g := ComputeColumns(Page{}, cols)
		sum := 0.0
		for _, c := range g.Columns {
			sum += c.W
		}
		want := g.ContentW - g.Gutter*float64(len(set)-1)
		if math.Abs(sum-want) > 1e-6 {
			t.Errorf("%v: widths sum to %v, want %v", set, sum, want)
		}
		last := g.Columns[len(g.Columns)-1]
		if right := last.X + last.W; math.Abs(right-(g.PageW-g.Right)) > 1e-6 {
			t.Errorf("%v: last column ends at %v, want %v", set, right, g.PageW-g.Right)
		}
	}
}

func TestFixedColumnsFirst(t *testing.T) {
	page := Page{
		Size:     "letter",
		MarginMM: Margins{Top: f(10), Right: f(10), Bottom: f(10), Left: f(10)},
		GutterMM: f(0),
	}
	g := ComputeColumns(page, []ColumnSpec{
		{ID: "side", Width: Width{Value: 150, Unit: "pt"}},
		{ID: "main", Width: Width{Value: 60, Unit: "%"}},
	})
	if g.Size != "LETTER" || g.PageW != 612 {
		t.Fatalf("page = %s %vx%v", g.Size, g.PageW, g.PageH)
	}
	side, _ := g.Column("side")
	main, _ := g.Column("main")
	if side.W != 150 {
		t.Errorf("side.W = %v, want 150", side.W)
	}
	if want := g.ContentW - 150; math.Abs(main.W-want) > eps {
		t.Errorf("main.W = %v, want %v", main.W, want)
	}
	if math.Abs(side.X-10*MM) > eps || math.Abs(main.X-(10*MM+150)) > eps {
		t.Errorf("x positions = %v, %v", side.X, main.X)
	}
}

func TestLandscapeSwapsBeforeMargins(t *testing.T) {
	g := ComputeColumns(Page{Size: "A4", Orientation: "Landscape"}, nil)
	if g.PageW <= g.PageH {
		t.Errorf("landscape page %vx%v is not wider than tall", g.PageW, g.PageH)
	}
	if len(g.Columns) != 1 || g.Columns[0].ID != "main" {
		t.Fatalf("default columns = %+v", g.Columns)
	}
	if want := g.PageW - (DefaultMarginLeft+DefaultMarginRight)*MM; math.Abs(g.Columns[0].W-want) > eps {
		t.Errorf("main.W = %v, want %v", g.Columns[0].W, want)
	}
}

func TestMissingAndZeroWidths(t *testing.T) {
	g := ComputeColumns(Page{GutterMM: f(0)}, []ColumnSpec{{ID: "a"}, {ID: "b"}})
	if math.Abs(g.Columns[0].W-g.Columns[1].W) > eps {
		t.Errorf("missing widths not shared equally: %+v", g.Columns)
	}
	g = ComputeColumns(Page{GutterMM: f(0)}, []ColumnSpec{
		{ID: "a", Width: Width{Value: 0, Unit: "%"}},
		{ID: "b", Width: Width{Value: 0, Unit: "%"}},
	})
	if math.Abs(g.Columns[0].W-g.ContentW/2) > eps {
		t.Errorf("zero percentages not shared equally: %+v", g.Columns)
	}
}

func TestOverfullFixedColumnsClamp(t *testing.T) {
	g := ComputeColumns(Page{}, []ColumnSpec{
		{ID: "a", Width: Width{Value: 900, Unit: "pt"}},
		{ID: "b", Width: Width{Value: 50, Unit: "%"}},
	})
	if b, _ := g.Column("b"); b.W != 0 {
		t.Errorf("b.W = %v, want 0", b.W)
	}
}

func TestParseWidth(t *testing.T) {
	tests := []struct {
		in   string
		want Width
		ok   bool
	}{
		{"35%", Width{35, "%"}, true},
		{" 60mm ", Width{60, "mm"}, true},
		{"170pt", Width{170, "pt"}, true},
		{"120", Width{120, "pt"}, true},
		{"wide", Width{}, false},
		{"-5%", Width{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseWidth(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseWidth(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPageJSON(t *testing.T) {
	var doc struct {
		Page    Page         `json:"page"`
		Columns []ColumnSpec `json:"columns"`
	}
	in := `{"page":{"size":"A5","margin_mm":8,"gutter_mm":4},
		"columns":[{"id":"left","width":"30%"},{"id":"right","width":200},{"id":"x","width":"??"}]}`
	if err := json.Unmarshal([]byte(in), &doc); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if *doc.Page.MarginMM.Left != 8 || *doc.Page.GutterMM != 4 {
		t.Errorf("page = %+v", doc.Page)
	}
	if doc.Columns[0].Width != (Width{30, "%"}) || doc.Columns[1].Width != (Width{200, "pt"}) || doc.Columns[2].Width.IsSet() {
		t.Errorf("columns = %+v", doc.Columns)
	}
	out, err := json.Marshal(doc.Columns[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"id":"left","width":"30%"}` {
		t.Errorf("Marshal = %s", out)
	}
}
