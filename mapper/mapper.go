// Package mapper turns a normalised profile into per-block render data.
package mapper

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lvillar/resumepdf/block"
	"github.com/lvillar/resumepdf/profile"
)

// EnDash joins the start and end of a date range.
const EnDash = "–"

// Rule extracts the render data of one block from a profile.
type Rule func(p *profile.Profile) (any, error)

// Rules maps block names to extraction rules. A nil rule disables the
// block.
type Rules map[string]Rule

// Ready maps block names to their render data.
type Ready map[string]any

// ErrRule is wrapped by RuleFromSpec errors.
var ErrRule = errors.New("mapper: invalid rule")

// DefaultRules returns the built-in rule set covering every standard block.
func DefaultRules() Rules {
	return Rules{
		"header_name":   headerRule,
		"contact_info":  contactRule,
		"key_skills":    listRule(func(p *profile.Profile) []string { return p.Skills }),
		"skills_grid":   listRule(func(p *profile.Profile) []string { return p.Skills }),
		"languages":     listRule(func(p *profile.Profile) []string { return p.Languages }),
		"projects":      projectsRule,
		"education":     educationRule,
		"text_section":  textRule,
		"social_links":  socialRule,
		"links_inline":  linksRule,
		"avatar_circle": avatarRule,
		"qr_code":       qrRule,
	}
}

// Merge returns defaults with caller rules replacing entries by name.
func Merge(base, over Rules) Rules {
	out := make(Rules, len(base)+len(over))
	for k, r := range base {
		out[k] = r
	}
	for k, r := range over {
		out[k] = r
	}
	return out
}

// MapProfileToReady evaluates every rule against p. A rule that fails or
// panics is recorded as a warning and its block omitted; empty results
// are omitted as well.
func MapProfileToReady(p *profile.Profile, rules Rules) (Ready, []string) {
	if p == nil {
		p = profile.Normalize(nil)
	}
	merged := Merge(DefaultRules(), rules)
	names := make([]string, 0, len(merged))
	for n := range merged {
		names = append(names, n)
	}
	sort.Strings(names)

	ready := Ready{}
	var warnings []string
	for _, name := range names {
		rule := merged[name]
		if rule == nil {
			continue
		}
		v, err := run(rule, p)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("mapper for '%s' failed: %v", name, err))
			continue
		}
		if m, ok := v.(map[string]any); ok {
			v = trimmed(m)
		}
		if block.IsEmpty(v) {
			continue
		}
		ready[name] = v
	}
	return ready, warnings
}

func run(rule Rule, p *profile.Profile) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return rule(p)
}

func trimmed(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if !block.IsEmpty(v) {
			out[k] = v
		}
	}
	return out
}

func headerRule(p *profile.Profile) (any, error) {
	return map[string]any{"name": p.Header.Name, "title": p.Header.Title}, nil
}

func contactRule(p *profile.Profile) (any, error) {
	if p.Contact.IsZero() {
		return nil, nil
	}
	return map[string]any{"items": p.Contact.Map()}, nil
}

func listRule(get func(*profile.Profile) []string) Rule {
	return func(p *profile.Profile) (any, error) {
		return map[string]any{"items": AsList(get(p))}, nil
	}
}

func projectsRule(p *profile.Profile) (any, error) {
	return map[string]any{"items": AsProjects(p.Projects)}, nil
}

func educationRule(p *profile.Profile) (any, error) {
	return map[string]any{"items": EducationItems(p.Education)}, nil
}

func textRule(p *profile.Profile) (any, error) {
	out := map[string]any{}
	for _, key := range p.Sections() {
		if s, ok := p.Get(key).(string); ok {
			out[key] = s
		}
	}
	return out, nil
}

func socialRule(p *profile.Profile) (any, error) {
	var items []any
	for _, l := range p.Contact.Links() {
		switch l.Label {
		case "GitHub", "LinkedIn", "Twitter", "Website":
			items = append(items, map[string]any{"label": l.Label, "value": l.Value, "url": l.URL})
		}
	}
	return map[string]any{"items": items}, nil
}

func linksRule(p *profile.Profile) (any, error) {
	return map[string]any{"links": Linkify(p.Contact)}, nil
}

func avatarRule(p *profile.Profile) (any, error) {
	if len(p.Avatar) == 0 {
		return nil, nil
	}
	return map[string]any{"photo": p.Avatar, "max_d_mm": 42.0}, nil
}

func qrRule(p *profile.Profile) (any, error) {
	for _, kv := range [][2]string{{"website", p.Contact.Website}, {"linkedin", p.Contact.LinkedIn}, {"github", p.Contact.GitHub}} {
		if u := profile.LinkURL(kv[0], kv[1]); u != "" {
			return map[string]any{"value": u}, nil
		}
	}
	return nil, nil
}

// Linkify returns the email address and the expanded website, GitHub and
// LinkedIn URLs of c.
func Linkify(c profile.Contact) []string {
	var out []string
	if c.Email != "" {
		out = append(out, c.Email)
	}
	for _, kv := range [][2]string{{"website", c.Website}, {"github", c.GitHub}, {"linkedin", c.LinkedIn}} {
		if kv[1] == "" {
			continue
		}
		out = append(out, profile.LinkURL(kv[0], kv[1]))
	}
	return out
}

// AsList coerces v to a list of non-empty strings.
func AsList(v any) []string {
	return profile.StringList(v)
}

// AsText coerces v to text, joining lists by line.
func AsText(v any) string {
	switch x := v.(type) {
	case []string, []any:
		return strings.Join(profile.StringList(x), "\n")
	}
	return profile.Text(v)
}

// AsProjects normalises project entries to [name, description, url]
// triples. Entries may be objects, ordered lists or bare strings; missing
// parts become "" and entries with no content are dropped.
func AsProjects(v any) [][]string {
	out := [][]string{}
	add := func(t, d, u string) {
		t, d, u = strings.TrimSpace(t), strings.TrimSpace(d), strings.TrimSpace(u)
		if t != "" || d != "" || u != "" {
			out = append(out, []string{t, d, u})
		}
	}
	var items []any
	switch x := v.(type) {
	case nil:
		return out
	case []profile.Project:
		for _, p := range x {
			add(p.Title, p.Description, p.URL)
		}
		return out
	case [][]string:
		for _, r := range x {
			items = append(items, r)
		}
	case []any:
		items = x
	case []string:
		for _, s := range x {
			items = append(items, s)
		}
	default:
		items = []any{x}
	}
	for _, it := range items {
		switch e := it.(type) {
		case []string:
			r := append(append([]string{}, e...), "", "", "")
			add(r[0], r[1], r[2])
		case []any:
			r := make([]string, 3)
			for i := 0; i < 3 && i < len(e); i++ {
				r[i] = profile.Text(e[i])
			}
			add(r[0], r[1], r[2])
		case map[string]any:
			add(first(e, "name", "title"), first(e, "desc", "description"), profile.Text(e["url"]))
		case profile.Project:
			add(e.Title, e.Description, e.URL)
		default:
			add(profile.Text(e), "", "")
		}
	}
	return out
}

func first(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := profile.Text(m[k]); s != "" {
			return s
		}
	}
	return ""
}

// Period joins a start and end date with an en dash. With one side only
// that side is returned alone.
func Period(start, end string) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if start != "" && end != "" {
		return start + " " + EnDash + " " + end
	}
	if start != "" {
		return start
	}
	return end
}

// EducationItems flattens each entry into one multi-line text: title,
// school, period, details and url. Blank lines are dropped and entries
// with no lines are omitted.
func EducationItems(entries []profile.Education) []string {
	out := []string{}
	for _, e := range entries {
		var lines []string
		for _, ln := range []string{e.Title, e.School, Period(e.Start, e.End), e.Details, e.URL} {
			if ln = strings.TrimSpace(ln); ln != "" {
				lines = append(lines, ln)
			}
		}
		if len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return out
}

// RuleFromSpec builds a rule from its declarative form. A string names a
// profile key whose value is returned under "value". A mapping names the
// source key with "from" and a conversion with "fn": "text", "list" or
// "projects"; any other fn passes the raw value through.
func RuleFromSpec(spec any) (Rule, error) {
	switch s := spec.(type) {
	case nil:
		return nil, nil
	case string:
		key := strings.TrimSpace(s)
		if key == "" {
			return nil, fmt.Errorf("%w: empty key", ErrRule)
		}
		return func(p *profile.Profile) (any, error) {
			return map[string]any{"value": value(p, key)}, nil
		}, nil
	case map[string]any:
		from := strings.TrimSpace(profile.Text(s["from"]))
		if from == "" {
			return nil, fmt.Errorf("%w: missing \"from\"", ErrRule)
		}
		switch fn := profile.Text(s["fn"]); fn {
		case "text":
			return func(p *profile.Profile) (any, error) {
				return map[string]any{"value": AsText(value(p, from))}, nil
			}, nil
		case "list":
			return func(p *profile.Profile) (any, error) {
				v := value(p, from)
				if ed, ok := v.([]profile.Education); ok {
					return map[string]any{"items": EducationItems(ed)}, nil
				}
				return map[string]any{"items": AsList(v)}, nil
			}, nil
		case "projects":
			return func(p *profile.Profile) (any, error) {
				return map[string]any{"items": AsProjects(value(p, from))}, nil
			}, nil
		default:
			return func(p *profile.Profile) (any, error) {
				return map[string]any{"value": value(p, from)}, nil
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported spec type %T", ErrRule, spec)
}

// RulesFromSpecs converts a map of declarative specs. Invalid specs are
// skipped and reported as warnings.
func RulesFromSpecs(specs map[string]any) (Rules, []string) {
	if len(specs) == 0 {
		return nil, nil
	}
	rules := make(Rules, len(specs))
	var warnings []string
	names := make([]string, 0, len(specs))
	for n := range specs {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, name := range names {
		r, err := RuleFromSpec(specs[name])
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("map rule for '%s' ignored: %v", name, err))
			continue
		}
		rules[name] = r
	}
	return rules, warnings
}

func value(p *profile.Profile, key string) any {
	if v := p.Get(key); v != nil {
		return v
	}
	if v, ok := p.Map()[key]; ok {
		return v
	}
	return nil
}

// Overrides returns render-time data derived from the profile, keyed by
// block id. Blocks named in skip are left out.
func Overrides(p *profile.Profile, skip map[string]bool) map[string]map[string]any {
	ov := map[string]map[string]any{}
	put := func(id string, data map[string]any) {
		base, _ := block.SplitID(id)
		if skip[id] || skip[base] {
			return
		}
		if data = trimmed(data); len(data) > 0 {
			ov[id] = data
		}
	}
	if p == nil {
		return ov
	}
	put("header_name", map[string]any{"name": p.Header.Name, "title": p.Header.Title})
	if !p.Contact.IsZero() {
		put("contact_info", map[string]any{"items": p.Contact.Map()})
	}
	put("key_skills", map[string]any{"items": AsList(p.Skills)})
	put("languages", map[string]any{"items": AsList(p.Languages)})
	put("projects", map[string]any{"items": AsProjects(p.Projects)})
	put("education", map[string]any{"items": EducationItems(p.Education)})
	for _, key := range p.Sections() {
		if s, ok := p.Get(key).(string); ok {
			put("text_section:"+key, map[string]any{"section": key, "text": s})
		}
	}
	if len(p.Avatar) > 0 {
		put("avatar_circle", map[string]any{"photo": p.Avatar, "max_d_mm": 42.0})
	}
	return ov
}
