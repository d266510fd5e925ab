package profile

import "testing"

func TestLinkURL(t *testing.T) {
	tests := []struct {
		label, value, want string
	}{
		{"github", "octocat", "https://github.com/octocat"},
		{"GitHub", "https://github.com/x", "https://github.com/x"},
		{"linkedin", "jane", "https://www.linkedin.com/in/jane"},
		{"linkedin", "in/jane", "https://www.linkedin.com/in/jane"},
		{"linkedin", "company/acme", "https://www.linkedin.com/company/acme"},
		{"twitter", "@jane", "https://twitter.com/jane"},
		{"x", "jane", "https://twitter.com/jane"},
		{"website", "jane.dev", "https://jane.dev"},
		{"website", "http://jane.dev", "http://jane.dev"},
		{"email", "j@x.io", "mailto:j@x.io"},
		{"phone", "+49 (30) 123-45", "tel:+493012345"},
		{"location", "Berlin", ""},
		{"github", "  ", ""},
	}
	for _, tt := range tests {
		if got := LinkURL(tt.label, tt.value); got != tt.want {
			t.Errorf("LinkURL(%q, %q) = %q, want %q", tt.label, tt.value, got, tt.want)
		}
	}
}

func TestContactLinks(t *testing.T) {
	c := Contact{Email: "a@b.c", GitHub: "gh", Location: "Berlin"}
	links := c.Links()
	if len(links) != 3 {
		t.Fatalf("Links = %+v", links)
	}
	if links[0].Label != "Email" || links[1].URL != "https://github.com/gh" || links[2].URL != "" {
		t.Errorf("Links = %+v", links)
	}
}
