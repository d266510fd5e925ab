package resumepdf

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecodeRequest(t *testing.T) {
	req, err := DecodeRequest(map[string]any{
		"profile":     map[string]any{"summary": "Hi"},
		"theme":       "legacy",
		"theme_name":  "aqua-card",
		"layout_name": "two-column",
		"layout_inline": map[string]any{
			"flow": []any{map[string]any{"column": "main", "blocks": []any{"header_name"}}},
		},
		"ui_lang":  " ar ",
		"rtl_mode": true,
		"filename": "ignored.pdf",
	})
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if req.ThemeName != "aqua-card" || req.LayoutName != "two-column" || req.UILang != "ar" {
		t.Errorf("names = %q %q %q", req.ThemeName, req.LayoutName, req.UILang)
	}
	if req.RTLMode == nil || !*req.RTLMode {
		t.Errorf("RTLMode = %v", req.RTLMode)
	}
	if req.Layout == nil || len(req.Layout.Flow) != 1 || req.Layout.Flow[0].Blocks[0].ID != "header_name" {
		t.Errorf("Layout = %+v", req.Layout)
	}
}

func TestDecodeRequestAliases(t *testing.T) {
	req, err := DecodeRequest(map[string]any{
		"theme":  map[string]any{"colors": map[string]any{"primary": "#112233"}},
		"layout": "one-column",
	})
	if err != nil {
		t.Fatalf("DecodeRequest: %v", err)
	}
	if req.Theme == nil || req.ThemeName != "" {
		t.Errorf("inline theme not kept: %+v", req)
	}
	if req.LayoutName != "one-column" {
		t.Errorf("LayoutName = %q", req.LayoutName)
	}
	if req.Profile == nil || req.RTLMode != nil {
		t.Errorf("defaults: profile %v, rtl %v", req.Profile, req.RTLMode)
	}
}

func TestDecodeRequestItemisesErrors(t *testing.T) {
	_, err := DecodeRequest(map[string]any{
		"profile":       []any{"x"},
		"theme_name":    3.0,
		"layout_inline": "two-column",
		"rtl_mode":      "yes",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("validation error does not wrap ErrInvalidInput")
	}
	want := []FieldError{
		{Path: "profile", Message: "expected an object, got list"},
		{Path: "theme_name", Message: "expected a string, got number"},
		{Path: "layout_inline", Message: "expected an object, got string"},
		{Path: "rtl_mode", Message: "expected a boolean, got string"},
	}
	if diff := cmp.Diff(want, verr.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
}
