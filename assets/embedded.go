package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed themes/* layouts/*
var embedded embed.FS

// EmbeddedLoader loads the documents compiled into the binary.
type EmbeddedLoader struct{}

func NewEmbeddedLoader() *EmbeddedLoader {
	return &EmbeddedLoader{}
}

func (e *EmbeddedLoader) Load(kind Kind, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	for _, ext := range kind.extensions() {
		data, err := embedded.ReadFile(kind.dir() + "/" + name + ext)
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
}

func (e *EmbeddedLoader) List(kind Kind) ([]string, error) {
	entries, err := fs.ReadDir(embedded, kind.dir())
	if err != nil {
		return nil, nil
	}
	files := make([]string, 0, len(entries))
	for _, en := range entries {
		files = append(files, en.Name())
	}
	return listNames(kind, files), nil
}

// Compile-time interface check.
var _ Loader = (*EmbeddedLoader)(nil)
