// Package ebook stages rendered pages into an EPUB tree, archives it and
// drives the external Mobi converter.
package ebook

import (
	"path/filepath"
	"strings"
)

// ManifestItem is one resource listed in package.opf.
type ManifestItem struct {
	ID         string
	Href       string
	MediaType  string
	Properties string
}

// File is a rendered document stored under OEBPS.
type File struct {
	Name    string
	Content []byte
}

// Book is the OEBPS content of a paginated build.
type Book struct {
	Files    []File
	Manifest []ManifestItem
	Spine    []string
	// CoverHref names the cover image inside OEBPS. The stager copies it
	// from the source directory or writes the embedded default.
	CoverHref string
}

// MediaType guesses the manifest media type of name.
func MediaType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xhtml", ".html":
		return "application/xhtml+xml"
	case ".css":
		return "text/css"
	case ".ncx":
		return "application/x-dtbncx+xml"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	default:
		return "image/jpeg"
	}
}
