package block

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"github.com/lvillar/resumepdf/surface"
)

func noop(y float64) Renderer {
	return RendererFunc(func(_ surface.Surface, f Frame, _ Data, _ *Context) (float64, error) {
		return f.Y + y, nil
	})
}

func TestRegistryRegister(t *testing.T) {
	reg := NewRegistry(nil)
	if err := reg.Register("header_name", noop(1)); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := reg.Register("header_name", noop(2)); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second Register err = %v, want ErrDuplicate", err)
	}
	if err := reg.Register("", noop(1)); !errors.Is(err, ErrInvalid) {
		t.Errorf("empty name err = %v, want ErrInvalid", err)
	}
	if err := reg.Register("x", nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("nil renderer err = %v, want ErrInvalid", err)
	}

	rd, err := reg.Resolve("header_name")
	if err != nil {
		t.Fatal(err)
	}
	if y, _ := rd.Render(nil, Frame{Y: 10}, nil, nil); y != 11 {
		t.Errorf("first registration was replaced (y = %v)", y)
	}
}

func TestRegistryReplaceWarns(t *testing.T) {
	var buf bytes.Buffer
	reg := NewRegistry(log.New(&buf))
	_ = reg.RegisterOrReplace("projects", noop(1))
	if buf.Len() != 0 {
		t.Errorf("first registration logged %q", buf.String())
	}
	_ = reg.RegisterOrReplace("projects", noop(5))
	if !strings.Contains(buf.String(), "projects") {
		t.Errorf("replacement did not log a warning: %q", buf.String())
	}
	rd, _ := reg.Resolve("projects")
	if y, _ := rd.Render(nil, Frame{}, nil, nil); y != 5 {
		t.Errorf("y = %v, want replaced renderer", y)
	}
}

func TestRegistryResolveVariant(t *testing.T) {
	reg := NewRegistry(nil)
	_ = reg.Register("text_section", noop(0))

	if _, err := reg.Resolve("text_section:summary"); err != nil {
		t.Errorf("Resolve with variant: %v", err)
	}
	_, err := reg.Resolve("not_a_block:x")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "not_a_block") || strings.Contains(err.Error(), ":x") {
		t.Errorf("error should name the base block: %v", err)
	}
	if reg.Has("missing") || !reg.Has("text_section:about") {
		t.Error("Has misreports")
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry(nil)
	for _, n := range []string{"projects", "avatar_circle", "header_name"} {
		_ = reg.Register(n, noop(0))
	}
	want := []string{"avatar_circle", "header_name", "projects"}
	if diff := cmp.Diff(want, reg.List()); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitID(t *testing.T) {
	tests := []struct{ in, name, variant string }{
		{"header_name", "header_name", ""},
		{"text_section:summary", "text_section", "summary"},
		{" a : b ", "a", "b"},
		{"a:b:c", "a", "b:c"},
	}
	for _, tt := range tests {
		n, v := SplitID(tt.in)
		if n != tt.name || v != tt.variant {
			t.Errorf("SplitID(%q) = %q, %q", tt.in, n, v)
		}
	}
}

func TestDataAccessors(t *testing.T) {
	d := Data{
		"name":   " Ada ",
		"size":   "12.5",
		"cols":   3.0,
		"flag":   true,
		"lines":  "one\n\n two ",
		"items":  []any{"a", "", 1.0},
		"nested": map[string]any{"k": "v"},
		"rows": []any{
			[]any{"t1", "d1"},
			map[string]any{"name": "t2", "desc": "d2", "url": "u2"},
			"t3",
			[]any{"", ""},
		},
		"img": "aGVsbG8=",
	}
	if d.String("name") != "Ada" || d.First("missing", "name") != "Ada" {
		t.Error("String/First")
	}
	if d.Float("size", 0) != 12.5 || d.Int("cols", 0) != 3 || d.Float("nope", 7) != 7 {
		t.Error("Float/Int")
	}
	if !d.Bool("flag", false) || !d.Bool("name", true) {
		t.Error("Bool")
	}
	if diff := cmp.Diff([]string{"one", "two"}, d.Strings("lines")); diff != "" {
		t.Errorf("Strings(lines): %s", diff)
	}
	if diff := cmp.Diff([]string{"a", "1"}, d.Strings("items")); diff != "" {
		t.Errorf("Strings(items): %s", diff)
	}
	if d.Map("nested")["k"] != "v" || d.Map("name") != nil {
		t.Error("Map")
	}
	rows := d.Rows("rows", 3, []string{"title", "name"}, []string{"description", "desc"}, []string{"url"})
	want := [][]string{{"t1", "d1", ""}, {"t2", "d2", "u2"}, {"t3", "", ""}}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
	if b, ok := d.Bytes("img"); !ok || string(b) != "hello" {
		t.Errorf("Bytes = %q, %v", b, ok)
	}
}

func TestDataMergeDoesNotAlias(t *testing.T) {
	base := Data{"style": map[string]any{"color": "#000", "size": 9.0}}
	got := base.Merge(map[string]any{"style": map[string]any{"color": "#FFF"}, "title": "T"})
	want := Data{"style": map[string]any{"color": "#FFF", "size": 9.0}, "title": "T"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
	if base.Map("style")["color"] != "#000" {
		t.Error("Merge modified the receiver")
	}
}
