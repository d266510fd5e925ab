package profile

import "strings"

// Link is a contact channel with a display value and, when one can be
// derived, a URL.
type Link struct {
	Label string
	Value string
	URL   string
}

var labels = map[string]string{
	"email":     "Email",
	"phone":     "Phone",
	"website":   "Website",
	"github":    "GitHub",
	"linkedin":  "LinkedIn",
	"twitter":   "Twitter",
	"x":         "X",
	"location":  "Location",
	"youtube":   "YouTube",
	"facebook":  "Facebook",
	"instagram": "Instagram",
}

// Label returns the display label of a contact key.
func Label(key string) string {
	if l, ok := labels[strings.ToLower(key)]; ok {
		return l
	}
	if key == "" {
		return ""
	}
	return strings.ToUpper(key[:1]) + key[1:]
}

func hasScheme(v string) bool {
	l := strings.ToLower(v)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// LinkURL derives a URL for a contact value. Full URLs pass through;
// GitHub, LinkedIn and Twitter/X handles are expanded; bare websites get
// an https:// prefix. It returns "" when no URL applies.
func LinkURL(label, value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return ""
	}
	if hasScheme(v) {
		return v
	}
	switch strings.ToLower(label) {
	case "github":
		return "https://github.com/" + strings.TrimPrefix(v, "@")
	case "linkedin":
		if strings.HasPrefix(v, "in/") || strings.HasPrefix(v, "company/") {
			return "https://www.linkedin.com/" + v
		}
		return "https://www.linkedin.com/in/" + v
	case "twitter", "x":
		return "https://twitter.com/" + strings.TrimPrefix(v, "@")
	case "website", "site", "url":
		return "https://" + v
	case "email":
		if strings.Contains(v, "@") {
			return "mailto:" + v
		}
	case "phone":
		return "tel:" + strings.Map(func(r rune) rune {
			if r == ' ' || r == '-' || r == '(' || r == ')' {
				return -1
			}
			return r
		}, v)
	}
	return ""
}

// Links returns the contact channels in display order with derived URLs.
func (c Contact) Links() []Link {
	var out []Link
	for _, kv := range c.Fields() {
		out = append(out, Link{Label: Label(kv[0]), Value: kv[1], URL: LinkURL(kv[0], kv[1])})
	}
	return out
}
