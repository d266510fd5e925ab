package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads documents from a directory holding themes/ and
// layouts/ subdirectories.
type FilesystemLoader struct {
	basePath string
}

// NewFilesystemLoader creates a FilesystemLoader for the given base path.
// Returns ErrInvalidBasePath if the path is not a readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	absPath, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if real, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = real
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidBasePath, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidBasePath, absPath)
	}
	return &FilesystemLoader{basePath: absPath}, nil
}

// Load looks for {basePath}/{kind}s/{name}.{kind}.{json,yaml,yml}.
func (f *FilesystemLoader) Load(kind Kind, name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	for _, ext := range kind.extensions() {
		path := filepath.Join(f.basePath, kind.dir(), name+ext)
		if err := f.verifyPathContainment(path); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path) // #nosec G304 -- path validated above
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrRead, err)
		}
	}
	return nil, fmt.Errorf("%w: %s %q", ErrNotFound, kind, name)
}

func (f *FilesystemLoader) List(kind Kind) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(f.basePath, kind.dir()))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRead, err)
	}
	var files []string
	for _, en := range entries {
		if !en.IsDir() {
			files = append(files, en.Name())
		}
	}
	return listNames(kind, files), nil
}

// verifyPathContainment ensures the resolved path stays inside basePath,
// following symlinks.
func (f *FilesystemLoader) verifyPathContainment(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		abs = real
	}
	if !strings.HasPrefix(abs, f.basePath+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes base directory", ErrPathTraversal)
	}
	return nil
}

// Compile-time interface check.
var _ Loader = (*FilesystemLoader)(nil)
