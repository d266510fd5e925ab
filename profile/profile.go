// Package profile holds the resume data model and its normalisation.
//
// Normalize accepts loosely shaped input (JSON decoded into map[string]any)
// and never fails: fields of the wrong shape are coerced to the nearest
// valid shape or dropped.
package profile

import (
	"encoding/base64"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/lvillar/resumepdf/internal/yamlutil"
)

type Header struct {
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
}

type Contact struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Website  string `json:"website,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
	Location string `json:"location,omitempty"`
}

// IsZero reports whether no contact channel is set.
func (c Contact) IsZero() bool { return c == Contact{} }

// Map returns the non-empty channels keyed by their JSON names.
func (c Contact) Map() map[string]any {
	m := map[string]any{}
	for _, kv := range c.Fields() {
		m[kv[0]] = kv[1]
	}
	return m
}

// Fields returns the non-empty channels as key/value pairs in display order.
func (c Contact) Fields() [][2]string {
	var out [][2]string
	add := func(k, v string) {
		if v != "" {
			out = append(out, [2]string{k, v})
		}
	}
	add("email", c.Email)
	add("phone", c.Phone)
	add("website", c.Website)
	add("github", c.GitHub)
	add("linkedin", c.LinkedIn)
	add("twitter", c.Twitter)
	add("location", c.Location)
	return out
}

type Project struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

type Education struct {
	Title   string `json:"title,omitempty"`
	School  string `json:"school,omitempty"`
	Start   string `json:"start,omitempty"`
	End     string `json:"end,omitempty"`
	Details string `json:"details,omitempty"`
	URL     string `json:"url,omitempty"`
}

// Profile is a normalised resume.
type Profile struct {
	Header    Header      `json:"header"`
	Contact   Contact     `json:"contact"`
	Summary   string      `json:"summary,omitempty"`
	Skills    []string    `json:"skills"`
	Languages []string    `json:"languages"`
	Projects  []Project   `json:"projects"`
	Education []Education `json:"education"`
	// Avatar is the decoded image payload.
	Avatar  []byte `json:"avatar,omitempty"`
	UILang  string `json:"ui_lang,omitempty"`
	RTLMode *bool  `json:"rtl_mode,omitempty"`
	// Extra holds additional free-text sections such as "about" or
	// "objective".
	Extra map[string]string `json:"extra,omitempty"`
}

var known = map[string]bool{
	"header": true, "contact": true, "summary": true, "skills": true,
	"languages": true, "projects": true, "education": true, "avatar": true,
	"avatar_b64": true, "ui_lang": true, "rtl_mode": true, "extra": true,
}

// Normalize builds a Profile from loosely typed input.
func Normalize(raw map[string]any) *Profile {
	p := &Profile{
		Skills:    []string{},
		Languages: []string{},
		Projects:  []Project{},
		Education: []Education{},
	}
	if raw == nil {
		return p
	}

	p.Header = header(raw["header"])
	p.Contact = contact(raw["contact"])
	p.Summary = summary(raw["summary"])
	p.Skills = StringList(raw["skills"])
	p.Languages = StringList(raw["languages"])
	p.Projects = projects(raw["projects"])
	p.Education = education(raw["education"])
	p.UILang = Text(raw["ui_lang"])
	if b, ok := boolean(raw["rtl_mode"]); ok {
		p.RTLMode = &b
	}

	if img, ok := DecodeImage(raw["avatar"]); ok {
		p.Avatar = img
	} else if img, ok := DecodeImage(raw["avatar_b64"]); ok {
		p.Avatar = img
	}

	extra := map[string]string{}
	if m, ok := raw["extra"].(map[string]any); ok {
		for k, v := range m {
			if s := section(v); s != "" {
				extra[k] = s
			}
		}
	}
	for k, v := range raw {
		if known[k] {
			continue
		}
		if s, ok := v.(string); ok {
			if s = clean(s); s != "" {
				extra[k] = s
			}
		}
	}
	if len(extra) > 0 {
		p.Extra = extra
	}
	return p
}

// Map converts p back into the loosely typed form accepted by Normalize.
// Normalize(p.Map()) equals p.
func (p *Profile) Map() map[string]any {
	m := map[string]any{}
	if p.Header.Name != "" || p.Header.Title != "" {
		m["header"] = map[string]any{"name": p.Header.Name, "title": p.Header.Title}
	}
	if !p.Contact.IsZero() {
		m["contact"] = p.Contact.Map()
	}
	if p.Summary != "" {
		m["summary"] = p.Summary
	}
	m["skills"] = toAny(p.Skills)
	m["languages"] = toAny(p.Languages)
	projs := make([]any, 0, len(p.Projects))
	for _, pr := range p.Projects {
		projs = append(projs, map[string]any{"title": pr.Title, "description": pr.Description, "url": pr.URL})
	}
	m["projects"] = projs
	edu := make([]any, 0, len(p.Education))
	for _, e := range p.Education {
		edu = append(edu, map[string]any{
			"title": e.Title, "school": e.School, "start": e.Start,
			"end": e.End, "details": e.Details, "url": e.URL,
		})
	}
	m["education"] = edu
	if len(p.Avatar) > 0 {
		m["avatar"] = p.Avatar
	}
	if p.UILang != "" {
		m["ui_lang"] = p.UILang
	}
	if p.RTLMode != nil {
		m["rtl_mode"] = *p.RTLMode
	}
	if len(p.Extra) > 0 {
		ex := map[string]any{}
		for k, v := range p.Extra {
			ex[k] = v
		}
		m["extra"] = ex
	}
	return m
}

// Get returns the profile field stored under a JSON key, or a free-text
// section from Extra. It returns nil for unknown or empty keys.
func (p *Profile) Get(key string) any {
	switch key {
	case "header":
		if p.Header == (Header{}) {
			return nil
		}
		return p.Header
	case "contact":
		if p.Contact.IsZero() {
			return nil
		}
		return p.Contact
	case "summary":
		if p.Summary == "" {
			return nil
		}
		return p.Summary
	case "skills":
		return p.Skills
	case "languages":
		return p.Languages
	case "projects":
		return p.Projects
	case "education":
		return p.Education
	case "avatar":
		if len(p.Avatar) == 0 {
			return nil
		}
		return p.Avatar
	case "ui_lang":
		if p.UILang == "" {
			return nil
		}
		return p.UILang
	}
	if s, ok := p.Extra[key]; ok {
		return s
	}
	return nil
}

// Sections returns the names of the free-text sections, summary first.
func (p *Profile) Sections() []string {
	var out []string
	if p.Summary != "" {
		out = append(out, "summary")
	}
	keys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return append(out, keys...)
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Text converts a scalar to a trimmed NFC string. Lists and maps give "".
func Text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return clean(x)
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case int, int64, int32, uint64, uint32, uint:
		return fmt.Sprint(x)
	case fmt.Stringer:
		return clean(x.String())
	}
	return ""
}

// StringList coerces v to a list of non-empty strings. A string is split
// on commas; a scalar becomes a one-element list.
func StringList(v any) []string {
	out := []string{}
	switch x := v.(type) {
	case nil:
	case string:
		for _, part := range strings.Split(x, ",") {
			if s := clean(part); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, it := range x {
			if s := clean(it); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, it := range x {
			if s := Text(it); s != "" {
				out = append(out, s)
			}
		}
	default:
		if s := Text(x); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func header(v any) Header {
	switch x := v.(type) {
	case map[string]any:
		return Header{Name: Text(x["name"]), Title: Text(x["title"])}
	case Header:
		return Header{Name: clean(x.Name), Title: clean(x.Title)}
	}
	return Header{Name: Text(v)}
}

func contact(v any) Contact {
	switch x := v.(type) {
	case map[string]any:
		c := Contact{
			Email:    Text(x["email"]),
			Phone:    Text(x["phone"]),
			Website:  Text(x["website"]),
			GitHub:   Text(x["github"]),
			LinkedIn: Text(x["linkedin"]),
			Twitter:  Text(x["twitter"]),
			Location: Text(x["location"]),
		}
		if c.Website == "" {
			c.Website = Text(x["site"])
		}
		if c.Twitter == "" {
			c.Twitter = Text(x["x"])
		}
		return c
	case Contact:
		return x
	}
	// a bare scalar is taken as an email address
	return Contact{Email: Text(v)}
}

func summary(v any) string {
	if x, ok := v.(string); ok {
		s := clean(x)
		if items, ok := yamlutil.FlowList(s); ok {
			var parts []string
			for _, it := range items {
				if t := Text(it); t != "" {
					parts = append(parts, t)
				}
			}
			return strings.Join(parts, " ")
		}
		return s
	}
	return section(v)
}

// section converts a free-text value to text, joining lists by line.
func section(v any) string {
	switch x := v.(type) {
	case []any, []string:
		return strings.Join(StringList(x), "\n")
	}
	return Text(v)
}

func boolean(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		return b, err == nil
	}
	return false, false
}

func listOf(v any) []any {
	switch x := v.(type) {
	case nil:
		return nil
	case []any:
		return x
	case []string:
		return toAny(x)
	case map[string]any, string:
		return []any{x}
	}
	return nil
}

func projects(v any) []Project {
	out := []Project{}
	if ps, ok := v.([]Project); ok {
		v = projectsToAny(ps)
	}
	for _, it := range listOf(v) {
		var p Project
		switch x := it.(type) {
		case map[string]any:
			p.Title = first(x, "title", "name")
			p.Description = first(x, "description", "desc")
			p.URL = Text(x["url"])
		case []any:
			vals := padded(x, 3)
			p = Project{Title: vals[0], Description: vals[1], URL: vals[2]}
		case []string:
			vals := padded(toAny(x), 3)
			p = Project{Title: vals[0], Description: vals[1], URL: vals[2]}
		default:
			p.Title = Text(x)
		}
		if p != (Project{}) {
			out = append(out, p)
		}
	}
	return out
}

func projectsToAny(ps []Project) []any {
	out := make([]any, len(ps))
	for i, p := range ps {
		out[i] = map[string]any{"title": p.Title, "description": p.Description, "url": p.URL}
	}
	return out
}

func education(v any) []Education {
	out := []Education{}
	for _, it := range listOf(v) {
		var e Education
		switch x := it.(type) {
		case map[string]any:
			e = Education{
				Title:   Text(x["title"]),
				School:  Text(x["school"]),
				Start:   Text(x["start"]),
				End:     Text(x["end"]),
				Details: Text(x["details"]),
				URL:     Text(x["url"]),
			}
		case []any:
			e = educationRow(padded(x, 6))
		case []string:
			e = educationRow(padded(toAny(x), 6))
		default:
			e.Title = Text(x)
		}
		if e != (Education{}) {
			out = append(out, e)
		}
	}
	return out
}

func educationRow(v []string) Education {
	return Education{Title: v[0], School: v[1], Start: v[2], End: v[3], Details: v[4], URL: v[5]}
}

func first(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := Text(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func padded(vals []any, n int) []string {
	out := make([]string, n)
	for i := 0; i < n && i < len(vals); i++ {
		out[i] = Text(vals[i])
	}
	return out
}

// DecodeImage accepts raw bytes, base64 text or a data: URI and returns
// the decoded payload. It reports false when nothing usable is found.
func DecodeImage(v any) ([]byte, bool) {
	switch x := v.(type) {
	case []byte:
		return x, len(x) > 0
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return nil, false
		}
		if strings.HasPrefix(s, "data:") {
			i := strings.Index(s, ",")
			if i < 0 {
				return nil, false
			}
			s = s[i+1:]
		}
		s = strings.Map(func(r rune) rune {
			if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
				return -1
			}
			return r
		}, s)
		for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding} {
			if b, err := enc.DecodeString(s); err == nil && len(b) > 0 {
				return b, true
			}
		}
	case map[string]any:
		for _, k := range []string{"photo_bytes", "photo_b64", "data", "b64"} {
			if b, ok := DecodeImage(x[k]); ok {
				return b, true
			}
		}
	}
	return nil, false
}
