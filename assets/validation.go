package assets

import (
	"fmt"
	"strings"
)

// Kind is the kind of a document: theme or layout.
type Kind string

const (
	KindTheme  Kind = "theme"
	KindLayout Kind = "layout"
	// KindLetterhead is a PDF whose first page is drawn under every page.
	KindLetterhead Kind = "letterhead"
)

func (k Kind) dir() string { return string(k) + "s" }

// extensions lists the file suffixes tried for a kind, in order.
func (k Kind) extensions() []string {
	if k == KindLetterhead {
		return []string{".pdf"}
	}
	return []string{"." + string(k) + ".json", "." + string(k) + ".yaml", "." + string(k) + ".yml"}
}

// NormalizeName strips a trailing ".theme.json", ".layout.yaml" or bare
// ".json"/".yaml" from name, so file names and bare names are accepted
// alike.
func NormalizeName(k Kind, name string) string {
	name = strings.TrimSpace(name)
	for _, ext := range append(k.extensions(), ".json", ".yaml", ".yml") {
		if strings.HasSuffix(strings.ToLower(name), ext) {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// ValidateName checks that a normalized name is safe for use as a file
// name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidName)
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") || strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
