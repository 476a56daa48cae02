package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"shireesh.com/framegen/internal/compressor"
)

// LoadDir loads a single set from a directory on disk.
func LoadDir(dir string) (*Set, error) {
	set, err := LoadFS(os.DirFS(dir), ".")
	if err != nil {
		return nil, err
	}
	nameFromPath(set, filepath.Base(filepath.Clean(dir)))
	return set, nil
}

// LoadZip loads a single set from an archive produced by compressor.ZipDir.
func LoadZip(zipPath string) (*Set, error) {
	if err := compressor.ZipExists(zipPath); err != nil {
		return nil, err
	}
	zr, err := compressor.OpenFS(zipPath)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	set, err := LoadFS(zr, ".")
	if err != nil {
		return nil, err
	}
	nameFromPath(set, strings.TrimSuffix(filepath.Base(zipPath), filepath.Ext(zipPath)))
	return set, nil
}

// Resolve loads ref as a zip archive or directory when it names one on disk,
// and otherwise as a set name in c.
func (c *Catalog) Resolve(ref string) (*Set, error) {
	if info, err := os.Stat(ref); err == nil {
		if info.IsDir() {
			return LoadDir(ref)
		}
		return LoadZip(ref)
	}
	return c.Load(ref)
}

func nameFromPath(set *Set, name string) {
	if set.Manifest.Name == "." {
		set.Manifest.Name = name
		set.Templates.Name = name
	}
}
