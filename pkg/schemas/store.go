package schemas

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"unicode/utf8"

	"github.com/devicetree-org/dtschema/pkg/dtyaml"
)

//go:embed meta-schemas/*.yaml schemas/*.yaml
var bundle embed.FS

var (
	// ErrNotFound reports a schema name missing from the bundle
	ErrNotFound = errors.New("schema resource not found")
	// ErrInvalidUTF8 reports a bundled resource that is not UTF-8 text
	ErrInvalidUTF8 = errors.New("schema resource is not valid UTF-8")
)

// Store serves schema documents addressed by bundle-relative names such as
// "meta-schemas/core.yaml".
type Store struct {
	fsys fs.FS
}

// NewStore returns a store reading from fsys
func NewStore(fsys fs.FS) *Store {
	return &Store{fsys: fsys}
}

// Bundled returns the store for the schema set compiled into this package
func Bundled() *Store {
	return NewStore(bundle)
}

// ReadFile returns the raw bytes of a bundled resource
func (s *Store) ReadFile(name string) ([]byte, error) {
	name = path.Clean(name)
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("failed to read schema %s: %w", name, err)
	}
	return data, nil
}

// LoadSchema loads and parses a bundled schema
func (s *Store) LoadSchema(name string) (*dtyaml.Node, error) {
	data, err := s.ReadFile(name)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidUTF8, name)
	}
	tree, err := dtyaml.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}
	return tree, nil
}

// Names lists every YAML resource in the store
func (s *Store) Names() ([]string, error) {
	var names []string
	err := fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && path.Ext(p) == ".yaml" {
			names = append(names, p)
		}
		return nil
	})
	return names, err
}

// Load parses a caller supplied schema or data document
func Load(r io.Reader) (*dtyaml.Node, error) {
	return dtyaml.Load(r)
}
