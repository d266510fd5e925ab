package resumepdf

import (
	"fmt"
	"strings"

	"github.com/lvillar/resumepdf/layout"
)

// DecodeRequest builds a Request from a decoded JSON payload as sent by the
// HTTP and tool front ends:
//
//	{
//	  "profile":       {...},
//	  "theme_name":    "aqua-card",        // or "theme": name | {inline theme}
//	  "layout_name":   "two-column",
//	  "layout_inline": {...},              // or "layout": name | {inline layout}
//	  "ui_lang":       "en",
//	  "rtl_mode":      false
//	}
//
// Unknown keys are ignored. Every field of the wrong type is reported in
// the returned *ValidationError.
func DecodeRequest(payload map[string]any) (Request, error) {
	var (
		req  Request
		verr ValidationError
	)

	switch v := payload["profile"].(type) {
	case nil:
		req.Profile = map[string]any{}
	case map[string]any:
		req.Profile = v
	default:
		verr.Add("profile", "expected an object, got %s", kindOf(v))
	}

	req.ThemeName = stringField(&verr, payload, "theme_name")
	switch v := payload["theme"].(type) {
	case nil:
	case string:
		if req.ThemeName == "" {
			req.ThemeName = v
		}
	case map[string]any:
		req.Theme = v
	default:
		verr.Add("theme", "expected a name or an object, got %s", kindOf(v))
	}

	req.LayoutName = stringField(&verr, payload, "layout_name")
	for _, key := range []string{"layout_inline", "layout"} {
		switch v := payload[key].(type) {
		case nil:
		case string:
			if key == "layout" && req.LayoutName == "" {
				req.LayoutName = v
				continue
			}
			verr.Add(key, "expected an object, got string")
		case map[string]any:
			if req.Layout != nil {
				continue
			}
			doc, err := layout.FromMap(v)
			if err != nil {
				verr.Add(key, "%v", err)
				continue
			}
			req.Layout = doc
		default:
			verr.Add(key, "expected an object, got %s", kindOf(v))
		}
	}

	req.UILang = strings.TrimSpace(stringField(&verr, payload, "ui_lang"))
	switch v := payload["rtl_mode"].(type) {
	case nil:
	case bool:
		req.RTLMode = &v
	default:
		verr.Add("rtl_mode", "expected a boolean, got %s", kindOf(v))
	}

	if err := verr.Err(); err != nil {
		return Request{}, err
	}
	return req, nil
}

func stringField(verr *ValidationError, payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		verr.Add(key, "expected a string, got %s", kindOf(v))
		return ""
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
