// Package layout describes resume layouts and lays blocks out on pages.
//
// A layout document is JSON (or YAML) of the form:
//
//	{
//	  "page": {"size": "A4", "margin_mm": {"top": 15}, "gutter_mm": 6},
//	  "columns": [{"id": "side", "width": "32%"}, {"id": "main", "width": "68%"}],
//	  "flow": [
//	    {"column": "side", "blocks": ["left_panel_bg", "avatar_circle", "contact_info"]},
//	    {"column": "main", "blocks": ["header_name", "text_section:summary", "projects"]}
//	  ],
//	  "overrides": {"decor_curve": {"data": {"color": "#DDEEFF"}}}
//	}
//
// Optional keys may be absent; everything degrades to empty defaults.
package layout

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lvillar/resumepdf/geometry"
	"github.com/lvillar/resumepdf/internal/yamlutil"
)

// ErrInvalid is returned when a layout document cannot be decoded.
var ErrInvalid = errors.New("layout: invalid document")

// Document is a layout document.
type Document struct {
	Page    geometry.Page         `json:"page"`
	Columns []geometry.ColumnSpec `json:"columns,omitempty"`
	Flow    []FlowGroup           `json:"flow,omitempty"`
	// Layout is a flat block list placed in the first column. It is only
	// used when Flow is empty.
	Layout    []BlockRef          `json:"layout,omitempty"`
	Overrides map[string]Override `json:"overrides,omitempty"`
	// MapRules holds declarative data-mapper rules keyed by block name.
	MapRules map[string]any `json:"map_rules,omitempty"`
	// Style holds layout-level style overrides.
	Style map[string]any `json:"style,omitempty"`
}

// FlowGroup is an ordered list of blocks rendered into one column.
type FlowGroup struct {
	Column string     `json:"column"`
	Blocks []BlockRef `json:"blocks"`
}

// FramePatch overrides parts of a block's frame. Values are in points.
type FramePatch struct {
	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	W *float64 `json:"w,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p *FramePatch) IsZero() bool {
	return p == nil || (p.X == nil && p.Y == nil && p.W == nil)
}

// Merge returns p with the fields set in over applied on top.
func (p *FramePatch) Merge(over *FramePatch) *FramePatch {
	out := &FramePatch{}
	for _, src := range []*FramePatch{p, over} {
		if src == nil {
			continue
		}
		if src.X != nil {
			out.X = src.X
		}
		if src.Y != nil {
			out.Y = src.Y
		}
		if src.W != nil {
			out.W = src.W
		}
	}
	return out
}

// Override patches the data and frame of a block.
type Override struct {
	Data  map[string]any `json:"data,omitempty"`
	Frame *FramePatch    `json:"frame,omitempty"`
}

// BlockRef references a block from a flow. In JSON it is either a string
// ("name" or "name:variant") or an object with "block_id" (or "name"),
// an optional "arg" variant, inline "data" and "frame".
type BlockRef struct {
	ID    string
	Data  map[string]any
	Frame *FramePatch
}

// Ref returns a reference to the block id.
func Ref(id string) BlockRef { return BlockRef{ID: id} }

type blockRefObject struct {
	BlockID string         `json:"block_id,omitempty"`
	Name    string         `json:"name,omitempty"`
	ID      string         `json:"id,omitempty"`
	Arg     string         `json:"arg,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Frame   *FramePatch    `json:"frame,omitempty"`
}

// UnmarshalJSON accepts a string or an object. Entries of any other shape
// decode to an empty reference, which the engine skips with a warning.
func (b *BlockRef) UnmarshalJSON(data []byte) error {
	*b = BlockRef{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b.ID = strings.TrimSpace(s)
	case '{':
		var o blockRefObject
		if err := json.Unmarshal(data, &o); err != nil {
			return nil
		}
		id := o.BlockID
		if id == "" {
			id = o.Name
		}
		if id == "" {
			id = o.ID
		}
		id = strings.TrimSpace(id)
		if arg := strings.TrimSpace(o.Arg); arg != "" && id != "" && !strings.Contains(id, ":") {
			id += ":" + arg
		}
		b.ID, b.Data, b.Frame = id, o.Data, o.Frame
	}
	return nil
}

func (b BlockRef) MarshalJSON() ([]byte, error) {
	if len(b.Data) == 0 && b.Frame.IsZero() {
		return json.Marshal(b.ID)
	}
	return json.Marshal(blockRefObject{BlockID: b.ID, Data: b.Data, Frame: b.Frame})
}

// Parse decodes a layout document from JSON or YAML.
func Parse(data []byte) (*Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}
	if data[0] != '{' {
		js, err := yamlutil.ToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		data = js
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return &doc, nil
}

// FromMap decodes a layout document from an already parsed mapping, such
// as the "layout" section of a theme.
func FromMap(m map[string]any) (*Document, error) {
	if len(m) == 0 {
		return &Document{}, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return Parse(data)
}

// Merge combines a base document (usually embedded in a theme) with an
// explicit layout. Every top-level key set in over replaces the base
// value; a document with a flow drops the flat layout list.
func Merge(base, over *Document) *Document {
	out := &Document{}
	if base != nil {
		*out = *base
	}
	if over != nil {
		if over.Page != (geometry.Page{}) {
			out.Page = over.Page
		}
		if len(over.Columns) > 0 {
			out.Columns = over.Columns
		}
		if len(over.Flow) > 0 {
			out.Flow = over.Flow
		}
		if len(over.Layout) > 0 {
			out.Layout = over.Layout
		}
		if len(over.Overrides) > 0 {
			out.Overrides = over.Overrides
		}
		if len(over.MapRules) > 0 {
			out.MapRules = over.MapRules
		}
		if len(over.Style) > 0 {
			out.Style = over.Style
		}
	}
	if len(out.Flow) > 0 {
		out.Layout = nil
	}
	return out
}

// DefaultFlow is used when a document has neither a flow nor a flat list.
var DefaultFlow = []string{"header_name", "text_section:summary", "projects", "education"}

// Groups returns the flow groups to render. A flat layout list becomes one
// group for the first column and an empty document gets DefaultFlow.
func (d *Document) Groups() []FlowGroup {
	if len(d.Flow) > 0 {
		return d.Flow
	}
	refs := d.Layout
	if len(refs) == 0 {
		for _, id := range DefaultFlow {
			refs = append(refs, Ref(id))
		}
	}
	return []FlowGroup{{Blocks: refs}}
}

// BlockIDs returns every block id referenced by the document's groups in
// flow order.
func (d *Document) BlockIDs() []string {
	var out []string
	for _, g := range d.Groups() {
		for _, b := range g.Blocks {
			if b.ID != "" {
				out = append(out, b.ID)
			}
		}
	}
	return out
}

// WithOverrides returns a copy of d whose overrides gain the entries of
// extra for block ids that have none. Existing data keys win.
func (d *Document) WithOverrides(extra map[string]map[string]any) *Document {
	out := *d
	out.Overrides = make(map[string]Override, len(d.Overrides)+len(extra))
	for k, v := range d.Overrides {
		out.Overrides[k] = v
	}
	for id, data := range extra {
		ov := out.Overrides[id]
		merged := make(map[string]any, len(data)+len(ov.Data))
		for k, v := range data {
			merged[k] = v
		}
		for k, v := range ov.Data {
			merged[k] = v
		}
		ov.Data = merged
		out.Overrides[id] = ov
	}
	return &out
}

// FromTheme extracts the layout embedded in a theme document: its
// "layout" section, with the theme's top-level "page" taking precedence
// over the layout's own.
func FromTheme(theme map[string]any) (*Document, error) {
	lay, _ := theme["layout"].(map[string]any)
	doc, err := FromMap(lay)
	if err != nil {
		return nil, err
	}
	if page, ok := theme["page"].(map[string]any); ok && len(page) > 0 {
		pd, err := FromMap(map[string]any{"page": page})
		if err != nil {
			return nil, err
		}
		doc.Page = pd.Page
	}
	return doc, nil
}
