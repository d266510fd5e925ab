package profile

import (
	"encoding/base64"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestStringListShapes(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want []string
	}{
		{"nil", nil, []string{}},
		{"comma string", "Go, Rust ,, SQL", []string{"Go", "Rust", "SQL"}},
		{"scalar string", "Go", []string{"Go"}},
		{"number", 42.0, []string{"42"}},
		{"bool", true, []string{"true"}},
		{"list", []any{"Go", " ", 3.5, nil}, []string{"Go", "3.5"}},
		{"string slice", []string{"a", ""}, []string{"a"}},
		{"map", map[string]any{"a": 1}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, StringList(tt.in)); diff != "" {
				t.Errorf("StringList mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeListFieldsAreIdempotent(t *testing.T) {
	inputs := []map[string]any{
		nil,
		{"skills": "Go, Rust", "languages": "English"},
		{"skills": 7.0, "languages": []any{"Arabic", "German"}},
		{"skills": []any{"a, b", "c"}, "languages": nil},
		{
			"header":    map[string]any{"name": "Zoë", "title": "Engineer"},
			"contact":   map[string]any{"email": "z@example.com", "x": "@zoe", "site": "zoe.dev"},
			"summary":   []any{"Line one", "Line two"},
			"projects":  []any{[]any{"P1", "D1"}, map[string]any{"name": "P2", "url": "u"}, "P3", 12.0},
			"education": map[string]any{"title": "BSc", "school": "TU", "start": "2010"},
			"about":     "  Free text  ",
			"rtl_mode":  "true",
			"avatar":    base64.StdEncoding.EncodeToString([]byte("img")),
		},
	}
	for i, in := range inputs {
		once := Normalize(in)
		if once.Skills == nil || once.Languages == nil {
			t.Errorf("input %d: list fields must never be nil", i)
		}
		twice := Normalize(once.Map())
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("input %d: Normalize not idempotent (-once +twice):\n%s", i, diff)
		}
	}
}

func TestNormalizeSummaryLiteralList(t *testing.T) {
	p := Normalize(map[string]any{"summary": "['One','Two']"})
	if p.Summary != "One Two" {
		t.Errorf("Summary = %q, want %q", p.Summary, "One Two")
	}
	if again := Normalize(p.Map()).Summary; again != "One Two" {
		t.Errorf("second pass Summary = %q", again)
	}
}

func TestNormalizeFields(t *testing.T) {
	p := Normalize(map[string]any{
		"header":    "Solo Name",
		"contact":   "me@example.com",
		"summary":   []any{"a", "b"},
		"projects":  map[string]any{"title": "Only", "desc": "one"},
		"education": []any{[]any{"MSc", "Uni", "2018", "2020"}, map[string]any{}},
		"objective": "Ship things",
		"extra":     map[string]any{"hobbies": []any{"chess", "running"}},
	})
	if p.Header.Name != "Solo Name" {
		t.Errorf("Header = %+v", p.Header)
	}
	if p.Contact.Email != "me@example.com" {
		t.Errorf("Contact = %+v", p.Contact)
	}
	if p.Summary != "a\nb" {
		t.Errorf("Summary = %q", p.Summary)
	}
	if want := []Project{{Title: "Only", Description: "one"}}; !cmp.Equal(want, p.Projects) {
		t.Errorf("Projects = %+v", p.Projects)
	}
	if want := []Education{{Title: "MSc", School: "Uni", Start: "2018", End: "2020"}}; !cmp.Equal(want, p.Education) {
		t.Errorf("Education = %+v", p.Education)
	}
	wantExtra := map[string]string{"objective": "Ship things", "hobbies": "chess\nrunning"}
	if diff := cmp.Diff(wantExtra, p.Extra); diff != "" {
		t.Errorf("Extra mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"summary", "hobbies", "objective"}, p.Sections()); diff != "" {
		t.Errorf("Sections mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeNFC(t *testing.T) {
	decomposed := "Zoe\u0308"
	p := Normalize(map[string]any{"header": map[string]any{"name": decomposed}})
	if p.Header.Name != "Zo\u00eb" {
		t.Errorf("Name = %q, want NFC form", p.Header.Name)
	}
}

func TestDecodeImage(t *testing.T) {
	raw := []byte("\x89PNG fake")
	b64 := base64.StdEncoding.EncodeToString(raw)
	tests := []struct {
		name string
		in   any
		ok   bool
	}{
		{"bytes", raw, true},
		{"base64", b64, true},
		{"data uri", "data:image/png;base64," + b64, true},
		{"wrapped", b64[:4] + "\n" + b64[4:], true},
		{"photo map", map[string]any{"photo_b64": b64}, true},
		{"garbage", "%%%not base64%%%", false},
		{"empty", "", false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		got, ok := DecodeImage(tt.in)
		if ok != tt.ok {
			t.Errorf("%s: ok = %v, want %v", tt.name, ok, tt.ok)
			continue
		}
		if ok && string(got) != string(raw) {
			t.Errorf("%s: decoded %q", tt.name, got)
		}
	}
}

func TestGet(t *testing.T) {
	p := Normalize(map[string]any{"summary": "Hi", "about": "Me", "skills": "Go"})
	if got := p.Get("summary"); got != "Hi" {
		t.Errorf("Get(summary) = %v", got)
	}
	if got := p.Get("about"); got != "Me" {
		t.Errorf("Get(about) = %v", got)
	}
	if got := p.Get("header"); got != nil {
		t.Errorf("Get(header) = %v, want nil", got)
	}
	if got := p.Get("nope"); got != nil {
		t.Errorf("Get(nope) = %v, want nil", got)
	}
}
