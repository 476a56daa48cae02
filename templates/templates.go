// Package templates embeds the template sets shipped with framegen.
package templates

import (
	"embed"
	"io/fs"
)

//go:embed all:sets
var sets embed.FS

// FS returns the built-in catalog root, one directory per template set.
func FS() fs.FS {
	sub, err := fs.Sub(sets, "sets")
	if err != nil {
		panic(err)
	}
	return sub
}
