package layout

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/lvillar/resumepdf/geometry"
	"github.com/lvillar/resumepdf/style"
)

func defaultStyle() *style.Style { return style.Default() }

func TestBlockRefForms(t *testing.T) {
	in := `["header_name", "text_section:summary",
		{"block_id": "text_section", "arg": "about", "data": {"title": "About"}},
		{"name": "decor_curve", "frame": {"x": 10}},
		42, {"foo": 1}]`
	var got []BlockRef
	if err := json.Unmarshal([]byte(in), &got); err != nil {
		t.Fatal(err)
	}
	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.ID
	}
	want := []string{"header_name", "text_section:summary", "text_section:about", "decor_curve", "", ""}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
	if got[2].Data["title"] != "About" {
		t.Errorf("inline data = %v", got[2].Data)
	}
	if got[3].Frame == nil || got[3].Frame.X == nil || *got[3].Frame.X != 10 {
		t.Errorf("frame = %+v", got[3].Frame)
	}

	out, err := json.Marshal([]BlockRef{Ref("projects"), got[2]})
	if err != nil {
		t.Fatal(err)
	}
	if want := `["projects",{"block_id":"text_section:about","data":{"title":"About"}}]`; string(out) != want {
		t.Errorf("Marshal = %s, want %s", out, want)
	}
}

func TestParseYAML(t *testing.T) {
	doc, err := Parse([]byte(`
page:
  size: Letter
  margin_mm: {top: 10, bottom: 12}
columns:
  - {id: side, width: "35%"}
  - {id: main, width: "65%"}
flow:
  - column: side
    blocks: [left_panel_bg, avatar_circle, contact_info]
  - column: main
    blocks:
      - header_name
      - block_id: text_section
        arg: summary
overrides:
  decor_curve:
    data: {color: "#DDEEFF"}
`))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Page.Size != "Letter" || *doc.Page.MarginMM.Top != 10 {
		t.Errorf("page = %+v", doc.Page)
	}
	if len(doc.Columns) != 2 || doc.Columns[0].Width.String() != "35%" {
		t.Errorf("columns = %+v", doc.Columns)
	}
	want := []string{"left_panel_bg", "avatar_circle", "contact_info", "header_name", "text_section:summary"}
	if diff := cmp.Diff(want, doc.BlockIDs()); diff != "" {
		t.Errorf("BlockIDs (-want +got):\n%s", diff)
	}
	if doc.Overrides["decor_curve"].Data["color"] != "#DDEEFF" {
		t.Errorf("overrides = %+v", doc.Overrides)
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "{", "page: [unclosed"} {
		if _, err := Parse([]byte(in)); !errors.Is(err, ErrInvalid) {
			t.Errorf("Parse(%q) err = %v, want ErrInvalid", in, err)
		}
	}
}

func TestMerge(t *testing.T) {
	theme := &Document{
		Columns:   []geometry.ColumnSpec{{ID: "side"}, {ID: "main"}},
		Flow:      []FlowGroup{{Column: "main", Blocks: refs("header_name")}},
		Overrides: map[string]Override{"decor_curve": {Data: map[string]any{"color": "#000"}}},
	}
	got := Merge(theme, &Document{Layout: refs("projects")})
	if len(got.Flow) != 1 || got.Layout != nil {
		t.Errorf("flow should win over a flat layout: %+v", got)
	}
	if len(got.Columns) != 2 || got.Overrides["decor_curve"].Data["color"] != "#000" {
		t.Errorf("theme keys lost: %+v", got)
	}

	got = Merge(theme, &Document{Flow: []FlowGroup{{Blocks: refs("education")}}})
	if diff := cmp.Diff([]string{"education"}, got.BlockIDs()); diff != "" {
		t.Errorf("layout flow should replace theme flow (-want +got):\n%s", diff)
	}

	got = Merge(nil, &Document{Layout: refs("projects")})
	if diff := cmp.Diff([]string{"projects"}, got.BlockIDs()); diff != "" {
		t.Errorf("flat layout (-want +got):\n%s", diff)
	}
}

func TestWithOverrides(t *testing.T) {
	doc := &Document{Overrides: map[string]Override{
		"header_name": {Data: map[string]any{"name": "Layout Name"}},
	}}
	got := doc.WithOverrides(map[string]map[string]any{
		"header_name":  {"name": "Profile Name", "title": "Engineer"},
		"contact_info": {"items": map[string]any{"email": "a@b.c"}},
	})
	want := map[string]any{"name": "Layout Name", "title": "Engineer"}
	if diff := cmp.Diff(want, got.Overrides["header_name"].Data); diff != "" {
		t.Errorf("header_name (-want +got):\n%s", diff)
	}
	if _, ok := got.Overrides["contact_info"]; !ok {
		t.Error("contact_info override missing")
	}
	if len(doc.Overrides) != 1 {
		t.Error("WithOverrides mutated the receiver")
	}
}

func TestFromTheme(t *testing.T) {
	theme := map[string]any{
		"colors": map[string]any{"primary": "#123456"},
		"page":   map[string]any{"size": "A5"},
		"layout": map[string]any{
			"page": map[string]any{"size": "Letter", "orientation": "landscape"},
			"flow": []any{map[string]any{"column": "main", "blocks": []any{"header_name"}}},
		},
	}
	doc, err := FromTheme(theme)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Page.Size != "A5" || doc.Page.Orientation != "" {
		t.Errorf("page = %+v, want the theme's page", doc.Page)
	}
	if diff := cmp.Diff([]string{"header_name"}, doc.BlockIDs()); diff != "" {
		t.Errorf("BlockIDs (-want +got):\n%s", diff)
	}

	empty, err := FromTheme(map[string]any{"colors": map[string]any{}})
	if err != nil || len(empty.Flow) != 0 {
		t.Errorf("theme without layout = %+v, %v", empty, err)
	}
}
