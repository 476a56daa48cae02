// Package catalog finds and loads template sets. A catalog root holds one
// directory per set:
//
//	wxGUI/
//	  template.yaml        optional manifest
//	  .template/pre.sh     optional hooks, not rendered
//	  $(ProjectName).cpp
package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"shireesh.com/framegen/internal/render"
)

const (
	ManifestFile = "template.yaml"
	HookDir      = ".template"
)

var ErrNotFound = errors.New("template set not found")

// Manifest describes a template set.
type Manifest struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Toolkit     string            `yaml:"toolkit"`
	Variables   map[string]string `yaml:"variables"`
	// Dir is the set's directory in its catalog layer.
	Dir string `yaml:"-"`
}

// Set is a loaded template set: its manifest, templates and hook scripts.
type Set struct {
	Manifest  Manifest
	Templates render.Set
	// Hooks maps a script name such as "pre.sh" to its contents.
	Hooks map[string][]byte
}

// Catalog looks sets up across layered file systems. Earlier layers shadow
// later ones, so a user template directory can override embedded sets.
type Catalog struct {
	layers []fs.FS
}

func New(layers ...fs.FS) *Catalog {
	return &Catalog{layers: layers}
}

// List returns the manifests of every set, sorted by directory name.
func (c *Catalog) List() ([]Manifest, error) {
	byDir := map[string]Manifest{}
	for _, layer := range c.layers {
		entries, err := fs.ReadDir(layer, ".")
		if err != nil {
			return nil, fmt.Errorf("failed to read template catalog: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() || strings.HasPrefix(e.Name(), ".") {
				continue
			}
			if _, ok := byDir[e.Name()]; ok {
				continue
			}
			m, err := readManifest(layer, e.Name())
			if err != nil {
				return nil, err
			}
			byDir[e.Name()] = m
		}
	}

	dirs := make([]string, 0, len(byDir))
	for d := range byDir {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	out := make([]Manifest, 0, len(dirs))
	for _, d := range dirs {
		out = append(out, byDir[d])
	}
	return out, nil
}

// Load returns the set stored in directory name of the first layer that has it.
func (c *Catalog) Load(name string) (*Set, error) {
	if !fs.ValidPath(name) || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	for _, layer := range c.layers {
		info, err := fs.Stat(layer, name)
		if err != nil || !info.IsDir() {
			continue
		}
		return LoadFS(layer, name)
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// LoadFS loads the set rooted at dir inside fsys. Files are returned in
// lexical path order.
func LoadFS(fsys fs.FS, dir string) (*Set, error) {
	m, err := readManifest(fsys, dir)
	if err != nil {
		return nil, err
	}

	set := &Set{
		Manifest:  m,
		Templates: render.Set{Name: m.Name},
		Hooks:     map[string][]byte{},
	}

	err = fs.WalkDir(fsys, dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := relPath(dir, p)
		if d.IsDir() {
			if rel == HookDir {
				return loadHooks(fsys, p, set.Hooks)
			}
			return nil
		}
		if rel == ManifestFile {
			return nil
		}

		body, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		set.Templates.Files = append(set.Templates.Files, render.File{
			Path: rel,
			Body: body,
			Mode: fileMode(info.Mode()),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load template set %q: %w", m.Name, err)
	}
	return set, nil
}

func loadHooks(fsys fs.FS, dir string, hooks map[string][]byte) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		b, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return err
		}
		hooks[e.Name()] = b
	}
	return fs.SkipDir
}

func readManifest(fsys fs.FS, dir string) (Manifest, error) {
	var m Manifest
	b, err := fs.ReadFile(fsys, path.Join(dir, ManifestFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return m, fmt.Errorf("failed to read manifest of %q: %w", dir, err)
	default:
		if err := yaml.Unmarshal(b, &m); err != nil {
			return m, fmt.Errorf("failed to parse manifest of %q: %w", dir, err)
		}
	}
	m.Dir = dir
	if m.Name == "" {
		m.Name = path.Base(dir)
	}
	return m, nil
}

func relPath(root, p string) string {
	if root == "." {
		return p
	}
	return strings.TrimPrefix(p, root+"/")
}

// fileMode keeps only the executable bit of the template.
func fileMode(m fs.FileMode) fs.FileMode {
	if m&0o111 != 0 {
		return 0o755
	}
	return 0o644
}
