package ebook

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
)

// opfPackage is the part of package.opf the build checks.
type opfPackage struct {
	XMLName  xml.Name    `xml:"package"`
	Metadata opfMetadata `xml:"metadata"`
	Manifest opfManifest `xml:"manifest"`
	Spine    opfSpine    `xml:"spine"`
}

type opfMetadata struct {
	Title   string     `xml:"title"`
	Creator opfCreator `xml:"creator"`
}

type opfCreator struct {
	Value string `xml:",chardata"`
}

type opfManifest struct {
	Items []opfItem `xml:"item"`
}

type opfItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type opfSpine struct {
	ItemRefs []opfItemRef `xml:"itemref"`
}

type opfItemRef struct {
	IDRef string `xml:"idref,attr"`
}

func parseOPF(opfPath string) (*opfPackage, error) {
	data, err := os.ReadFile(opfPath)
	if err != nil {
		return nil, fmt.Errorf("read package.opf: %w", err)
	}

	var pkg opfPackage
	if err := xml.Unmarshal(data, &pkg); err != nil {
		return nil, fmt.Errorf("unmarshal package.opf: %w", err)
	}
	return &pkg, nil
}

// VerifyManifest checks that every manifest href of the package.opf in
// oebpsDir exists and that the spine only refers to manifest items.
func VerifyManifest(oebpsDir string) error {
	pkg, err := parseOPF(filepath.Join(oebpsDir, "package.opf"))
	if err != nil {
		return err
	}

	ids := make(map[string]bool, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		ids[item.ID] = true
		path := filepath.Join(oebpsDir, filepath.FromSlash(item.Href))
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: manifest item %s > %s", ErrMissingResource, item.ID, item.Href)
		}
	}
	for _, ref := range pkg.Spine.ItemRefs {
		if !ids[ref.IDRef] {
			return fmt.Errorf("%w: spine item %s is not in the manifest", ErrMissingResource, ref.IDRef)
		}
	}
	return nil
}

// VerifyNav checks that the links of the navigation page resolve to
// staged files.
func VerifyNav(oebpsDir, navName string) error {
	file, err := os.Open(filepath.Join(oebpsDir, navName))
	if err != nil {
		return fmt.Errorf("open %s: %w", navName, err)
	}
	defer func() { _ = file.Close() }()

	doc, err := html.Parse(file)
	if err != nil {
		return fmt.Errorf("parse %s: %w", navName, err)
	}

	nav := findTocNav(doc)
	if nav == nil {
		return fmt.Errorf("%w: %s has no toc nav", ErrMissingResource, navName)
	}
	for _, href := range navLinks(nav) {
		if _, err := os.Stat(filepath.Join(oebpsDir, filepath.FromSlash(href))); err != nil {
			return fmt.Errorf("%w: %s links to %s", ErrMissingResource, navName, href)
		}
	}
	return nil
}

func findTocNav(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "nav" {
		for _, attr := range n.Attr {
			if attr.Key == "id" && attr.Val == "toc" {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if nav := findTocNav(c); nav != nil {
			return nav
		}
	}
	return nil
}

// navLinks returns the file part of every href below n.
func navLinks(n *html.Node) []string {
	var hrefs []string
	if n.Type == html.ElementNode && n.Data == "a" {
		for _, attr := range n.Attr {
			if attr.Key != "href" {
				continue
			}
			href := attr.Val
			if idx := strings.Index(href, "#"); idx != -1 {
				href = href[:idx]
			}
			if href != "" {
				hrefs = append(hrefs, href)
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		hrefs = append(hrefs, navLinks(c)...)
	}
	return hrefs
}

// BookTitle returns the title and creator recorded in a staged package.opf.
func BookTitle(opfPath string) (title, creator string, err error) {
	pkg, err := parseOPF(opfPath)
	if err != nil {
		return "", "", err
	}
	return pkg.Metadata.Title, strings.TrimSpace(pkg.Metadata.Creator.Value), nil
}
