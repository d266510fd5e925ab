package assets

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lvillar/resumepdf/internal/yamlutil"
	"github.com/lvillar/resumepdf/layout"
)

// Loader reads raw theme and layout documents.
type Loader interface {
	// Load returns the document called name. It fails with ErrNotFound
	// when no such document exists and ErrInvalidName for unsafe names.
	Load(kind Kind, name string) ([]byte, error)
	// List returns the names of the documents of a kind, sorted.
	List(kind Kind) ([]string, error)
}

// Resolver looks documents up in a chain of loaders. The first loader
// that has a document wins.
type Resolver struct {
	loaders []Loader
}

// NewResolver returns a resolver over the given directories followed by
// the embedded documents. Empty directory names are ignored.
func NewResolver(dirs ...string) (*Resolver, error) {
	r := &Resolver{}
	for _, d := range dirs {
		if strings.TrimSpace(d) == "" {
			continue
		}
		l, err := NewFilesystemLoader(d)
		if err != nil {
			return nil, err
		}
		r.loaders = append(r.loaders, l)
	}
	r.loaders = append(r.loaders, NewEmbeddedLoader())
	return r, nil
}

// Default returns a resolver over the embedded documents only.
func Default() *Resolver {
	return &Resolver{loaders: []Loader{NewEmbeddedLoader()}}
}

func (r *Resolver) Load(kind Kind, name string) ([]byte, error) {
	name = NormalizeName(kind, name)
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	for _, l := range r.loaders {
		data, err := l.Load(kind, name)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return data, err
	}
	return nil, fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
}

// List merges the names of every loader.
func (r *Resolver) List(kind Kind) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, l := range r.loaders {
		names, err := l.List(kind)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

// Theme loads and decodes a theme document.
func (r *Resolver) Theme(name string) (map[string]any, error) {
	data, err := r.Load(KindTheme, name)
	if err != nil {
		return nil, err
	}
	return DecodeMap(data)
}

// Layout loads and decodes a layout document.
func (r *Resolver) Layout(name string) (*layout.Document, error) {
	data, err := r.Load(KindLayout, name)
	if err != nil {
		return nil, err
	}
	doc, err := layout.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: layout %q: %v", ErrInvalid, NormalizeName(KindLayout, name), err)
	}
	return doc, nil
}

// Letterhead loads a letterhead PDF by name.
func (r *Resolver) Letterhead(name string) ([]byte, error) {
	return r.Load(KindLetterhead, name)
}

// DecodeMap decodes a JSON or YAML mapping. Numbers decode as float64
// either way.
func DecodeMap(data []byte) (map[string]any, error) {
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
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if m == nil {
		return nil, fmt.Errorf("%w: not a mapping", ErrInvalid)
	}
	return m, nil
}

func listNames(kind Kind, files []string) []string {
	var out []string
	for _, f := range files {
		for _, ext := range kind.extensions() {
			if strings.HasSuffix(f, ext) {
				out = append(out, strings.TrimSuffix(f, ext))
				break
			}
		}
	}
	sort.Strings(out)
	return out
}
