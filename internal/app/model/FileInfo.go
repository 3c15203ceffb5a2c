package model

import (
	"path/filepath"
	"strings"
)

// AudioFileRef points at one audio file found under a discovery root.
type AudioFileRef struct {
	// Path is the file path as discovered (root joined with RelPath).
	Path string
	// RelPath is Path relative to the discovery root.
	RelPath string
	// Ext is the lowercase extension including the leading dot.
	Ext string
	// Name is the base name without extension.
	Name string
}

// NewAudioFileRef builds a ref for path discovered under root.
func NewAudioFileRef(root, path string) AudioFileRef {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	return AudioFileRef{
		Path:    path,
		RelPath: rel,
		Ext:     strings.ToLower(ext),
		Name:    strings.TrimSuffix(base, ext),
	}
}
