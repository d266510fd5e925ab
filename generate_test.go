package resumepdf

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/blocks"
	"github.com/lvillar/resumepdf/layout"
	"github.com/lvillar/resumepdf/mapper"
	"github.com/lvillar/resumepdf/profile"
	"github.com/lvillar/resumepdf/surface"
)

func flow(column string, ids ...string) *layout.Document {
	refs := make([]layout.BlockRef, len(ids))
	for i, id := range ids {
		refs[i] = layout.Ref(id)
	}
	return &layout.Document{Flow: []layout.FlowGroup{{Column: column, Blocks: refs}}}
}

func TestGenerateMinimalProfile(t *testing.T) {
	res, err := New().Generate(context.Background(), Request{
		Profile: map[string]any{
			"header": map[string]any{"name": "A", "title": "B"},
			"skills": []any{"X", "Y"},
		},
		Layout: flow("main", "header_name", "key_skills"),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.HasPrefix(res.PDF, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
	if res.Pages < 1 {
		t.Errorf("Pages = %d", res.Pages)
	}
}

func TestPrepareCoercesListLikeSummary(t *testing.T) {
	plan, err := New().Prepare(Request{Profile: map[string]any{"summary": "['One','Two']"}})
	if err != nil {
		t.Fatal(err)
	}
	if plan.Profile.Summary != "One Two" {
		t.Errorf("Summary = %q, want %q", plan.Profile.Summary, "One Two")
	}
	if got := plan.Ready["text_section"].(map[string]any)["summary"]; got != "One Two" {
		t.Errorf("ready summary = %v", got)
	}
}

func TestUnregisteredBlockIsWarned(t *testing.T) {
	res, err := New().Generate(context.Background(), Request{
		Profile: map[string]any{"header": map[string]any{"name": "A"}},
		Layout:  flow("main", "header_name", "not_a_block"),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !slices.Contains(res.Warnings, "block 'not_a_block' not registered") {
		t.Errorf("Warnings = %q", res.Warnings)
	}
	if !bytes.HasPrefix(res.PDF, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestEmbeddedThemesAndLayouts(t *testing.T) {
	g := New()
	prof := map[string]any{
		"header":    map[string]any{"name": "Ada Lovelace", "title": "Analyst"},
		"contact":   map[string]any{"email": "ada@example.com", "github": "ada", "linkedin": "ada-l"},
		"summary":   "Writes the first published algorithm intended for a machine.",
		"skills":    "Mathematics, Poetry, Engines",
		"languages": []any{"English", "French"},
		"projects":  []any{[]any{"Notes", "Translation of Menabrea", "https://example.com"}},
		"education": []any{map[string]any{"degree": "Private tutoring", "school": "London"}},
	}
	themes, err := g.Assets().List("theme")
	if err != nil {
		t.Fatal(err)
	}
	layouts, err := g.Assets().List("layout")
	if err != nil {
		t.Fatal(err)
	}
	for _, theme := range themes {
		for _, lay := range append([]string{""}, layouts...) {
			res, err := g.Generate(context.Background(), Request{Profile: prof, ThemeName: theme, LayoutName: lay})
			if err != nil {
				t.Errorf("theme %q layout %q: %v", theme, lay, err)
				continue
			}
			if !bytes.HasPrefix(res.PDF, []byte("%PDF")) || res.Pages < 1 {
				t.Errorf("theme %q layout %q: bad output", theme, lay)
			}
		}
	}
}

func TestAssetErrors(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want error
	}{
		{"missing theme", Request{ThemeName: "no-such-theme"}, ErrNotFound},
		{"missing layout", Request{LayoutName: "no-such-layout"}, ErrNotFound},
		{"unsafe name", Request{LayoutName: "../secrets"}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Generate(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			var e *Error
			if !errors.As(err, &e) || e.Op == "" {
				t.Errorf("err %v is not an *Error with an operation", err)
			}
		})
	}
}

func TestRendererFailureAbortsBuild(t *testing.T) {
	reg := blocks.NewRegistry()
	err := reg.RegisterOrReplace("header_name", block.RendererFunc(
		func(surface.Surface, block.Frame, block.Data, *block.Context) (float64, error) {
			panic("renderer bug")
		}))
	if err != nil {
		t.Fatal(err)
	}
	res, err := New(WithRegistry(reg)).Generate(context.Background(), Request{
		Profile: map[string]any{"header": map[string]any{"name": "A"}},
		Layout:  flow("main", "header_name"),
	})
	if !errors.Is(err, ErrBuildFailed) {
		t.Fatalf("err = %v, want ErrBuildFailed", err)
	}
	if res != nil {
		t.Error("a failed build returned a document")
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRTLDefaults(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name string
		req  Request
		want bool
	}{
		{"english", Request{UILang: "en"}, false},
		{"arabic ui", Request{UILang: "ar"}, true},
		{"explicit off", Request{UILang: "ar", RTLMode: &no}, false},
		{"explicit on", Request{UILang: "en", RTLMode: &yes}, true},
		{"profile language", Request{Profile: map[string]any{"ui_lang": "he"}}, true},
		{"profile flag", Request{Profile: map[string]any{"rtl_mode": "true"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := New().Prepare(tt.req)
			if err != nil {
				t.Fatal(err)
			}
			if plan.RTL != tt.want {
				t.Errorf("RTL = %v, want %v", plan.RTL, tt.want)
			}
		})
	}
}

func TestArabicTextIsNotDowncoded(t *testing.T) {
	res, err := New(WithCompression(false)).Generate(context.Background(), Request{
		Profile: map[string]any{
			"header": map[string]any{"name": "أحمد"},
			"skills": []any{"برمجة"},
		},
		Layout: flow("main", "header_name", "key_skills"),
		UILang: "ar",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, dots := range []string{"(....) Tj", "(.....) Tj"} {
		if bytes.Contains(res.PDF, []byte(dots)) {
			t.Errorf("PDF contains %q: Arabic text went through a core font", dots)
		}
	}
}

func TestProfileOverridesFillOnlyMissing(t *testing.T) {
	doc := flow("main", "header_name")
	doc.Overrides = map[string]layout.Override{
		"header_name": {Data: map[string]any{"title": "From Layout"}},
	}
	plan, err := New().Prepare(Request{
		Profile: map[string]any{"header": map[string]any{"name": "Ada", "title": "From Profile"}},
		Layout:  doc,
	})
	if err != nil {
		t.Fatal(err)
	}
	got := plan.Doc.Overrides["header_name"].Data
	if got["title"] != "From Layout" || got["name"] != "Ada" {
		t.Errorf("header_name override = %v", got)
	}
}

func TestCallerRulesReplaceDefaults(t *testing.T) {
	rules := mapper.Rules{
		"key_skills": func(p *profile.Profile) (any, error) {
			return map[string]any{"items": []any{strings.ToUpper(p.Skills[0])}}, nil
		},
	}
	plan, err := New().Prepare(Request{
		Profile:  map[string]any{"skills": []any{"go"}},
		Layout:   flow("main", "key_skills"),
		MapRules: rules,
	})
	if err != nil {
		t.Fatal(err)
	}
	items := plan.Ready["key_skills"].(map[string]any)["items"]
	if !slices.Equal(items.([]any), []any{"GO"}) {
		t.Errorf("items = %v", items)
	}
	if _, ok := plan.Doc.Overrides["key_skills"]; ok {
		t.Error("profile override added for a block with a caller rule")
	}
}

func TestValidationError(t *testing.T) {
	var v ValidationError
	if v.Err() != nil {
		t.Error("empty ValidationError should be nil")
	}
	v.Add("profile.header", "expected an object, got %s", "list")
	err := v.Err()
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("%v does not wrap ErrInvalidInput", err)
	}
	if !strings.Contains(err.Error(), "profile.header: expected an object, got list") {
		t.Errorf("Error() = %q", err)
	}
}
