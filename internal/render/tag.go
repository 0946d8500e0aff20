package render

import (
	"fmt"
	"strings"
)

// Tag selects the output format of a build.
type Tag int

const (
	Epub Tag = iota
	Mobi
	BabylonGls
	StardictXMLPlain
	StardictXMLHTML
	LaTeXPlain
	C5Plain
	C5HTML
	TEIPlain
	TEIFormatted
)

var tagNames = [...]string{
	Epub:             "epub",
	Mobi:             "mobi",
	BabylonGls:       "babylon_gls",
	StardictXMLPlain: "stardict_xml_plain",
	StardictXMLHTML:  "stardict_xml_html",
	LaTeXPlain:       "latex_plain",
	C5Plain:          "c5_plain",
	C5HTML:           "c5_html",
	TEIPlain:         "tei_plain",
	TEIFormatted:     "tei_formatted",
}

func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return fmt.Sprintf("Tag(%d)", int(t))
	}
	return tagNames[t]
}

// Tags returns every tag in declaration order.
func Tags() []Tag {
	tags := make([]Tag, len(tagNames))
	for i := range tagNames {
		tags[i] = Tag(i)
	}
	return tags
}

// TagNames returns the accepted names, e.g. for flag help and validation.
func TagNames() []string {
	return append([]string(nil), tagNames[:]...)
}

// ParseTag accepts "stardict_xml_html", "stardict-xml-html" and
// "StardictXmlHtml" alike.
func ParseTag(s string) (Tag, error) {
	key := squash(s)
	for i, name := range tagNames {
		if squash(name) == key {
			return Tag(i), nil
		}
	}
	return 0, fmt.Errorf("unknown output format %q, expected one of %s", s, strings.Join(tagNames[:], ", "))
}

func squash(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(s)
}
