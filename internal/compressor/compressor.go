// Package compressor packs template set directories into zip archives and
// opens those archives as read-only file systems.
package compressor

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
)

func MkdirAll(path string) error {
	return os.MkdirAll(path, os.ModePerm)
}

// ZipDir zips the contents of srcDir into destZip (including all subdirectories).
// Entries are stored relative to srcDir with forward slashes, so the archive
// root is the set root.
// example usage:
// err := ZipDir("templates/wxGUI", "dist/wxGUI.zip")
func ZipDir(srcDir, destZip string) error {
	if _, err := os.Stat(srcDir); os.IsNotExist(err) {
		return os.ErrNotExist
	}
	if err := MkdirAll(filepath.Dir(destZip)); err != nil {
		return err
	}
	zipfile, err := os.Create(destZip)
	if err != nil {
		return err
	}
	defer zipfile.Close()

	archive := zip.NewWriter(zipfile)

	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(relPath)
		if info.IsDir() {
			if relPath == "." {
				return nil
			}
			_, err := archive.Create(name + "/")
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = name
		header.Method = zip.Deflate

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		f, err := archive.CreateHeader(header)
		if err != nil {
			return err
		}
		_, err = io.Copy(f, file)
		return err
	})
	if err != nil {
		archive.Close()
		return err
	}
	return archive.Close()
}

// OpenFS opens a zip archive for reading. The returned reader implements
// fs.FS; close it when done.
// example usage:
// zr, err := OpenFS("dist/wxGUI.zip")
func OpenFS(srcZip string) (*zip.ReadCloser, error) {
	return zip.OpenReader(srcZip)
}

func ZipExists(zipLoc string) error {
	// Check if the zip file exists
	if _, err := os.Stat(zipLoc); os.IsNotExist(err) {
		return os.ErrNotExist
	}
	file, err := os.Open(zipLoc)
	if err != nil {
		return err
	}
	defer file.Close()

	// Try to read the first few bytes to check if it's a zip file
	header := make([]byte, 2)
	if _, err := io.ReadFull(file, header); err != nil {
		return os.ErrInvalid
	}
	if header[0] != 'P' || header[1] != 'K' {
		return os.ErrInvalid
	}
	return nil
}
