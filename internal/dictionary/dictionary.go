package dictionary

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/at-ishikawa/dictforge/internal/alphabet"
)

// RootMarker prefixes verbal roots such as "√gam".
const RootMarker = "√"

var (
	trailingNumberPattern = regexp.MustCompile(`^(.*?)\s*([0-9]+)$`)
	urlIDInvalidPattern   = regexp.MustCompile(`[^a-z0-9-]+`)
	urlIDDashesPattern    = regexp.MustCompile(`-{2,}`)
)

// Dictionary owns the entries and metadata of one build. Entries keep
// insertion order.
type Dictionary struct {
	Metadata Metadata

	entries   []*Entry
	byURLID   map[string]*Entry
	headwords map[string]*Entry
	logger    *slog.Logger
}

func New(metadata Metadata, logger *slog.Logger) *Dictionary {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dictionary{
		Metadata:  metadata,
		byURLID:   make(map[string]*Entry),
		headwords: make(map[string]*Entry),
		logger:    logger,
	}
}

// Add inserts raw and returns the stored entry with its url_id assigned.
func (d *Dictionary) Add(raw Entry) *Entry {
	entry := raw
	entry.Inflections = append([]string(nil), raw.Inflections...)
	entry.Word = strings.TrimSpace(entry.Word)
	numberedForm := entry.Word

	if strings.Contains(entry.Word, RootMarker) {
		entry.Inflections = append(entry.Inflections, entry.Word)
		entry.Word = strings.TrimSpace(strings.ReplaceAll(entry.Word, RootMarker, ""))
		numberedForm = entry.Word
		roots := make([]string, 0, len(raw.Grammar.Roots))
		for _, root := range raw.Grammar.Roots {
			roots = append(roots, strings.TrimSpace(strings.ReplaceAll(root, RootMarker, "")))
		}
		entry.Grammar.Roots = roots
	}

	if m := trailingNumberPattern.FindStringSubmatch(entry.Word); m != nil && m[1] != "" {
		if n, err := strconv.Atoi(m[2]); err == nil && n > 0 {
			entry.Word = m[1]
			entry.MeaningOrder = n
		}
	}
	if entry.MeaningOrder < 1 {
		entry.MeaningOrder = 1
	}

	entry.URLID = URLID(entry.Word, entry.DictLabel, entry.MeaningOrder)
	for {
		if _, ok := d.byURLID[entry.URLID]; !ok {
			break
		}
		entry.MeaningOrder++
		entry.URLID = URLID(entry.Word, entry.DictLabel, entry.MeaningOrder)
	}

	if d.Metadata.AddASCII {
		if ascii := alphabet.ASCII(entry.Word); ascii != "" && ascii != entry.Word {
			entry.Inflections = appendUnique(entry.Inflections, ascii)
		}
	}
	if d.Metadata.AddVelthuis {
		if v := alphabet.ToVelthuis(entry.Word); v != entry.Word {
			entry.Inflections = appendUnique(entry.Inflections, v)
		}
	}

	stored := &entry
	if prev, ok := d.byURLID[entry.URLID]; ok {
		d.logger.Warn("duplicate url_id, replacing the previous entry",
			slog.String("urlID", entry.URLID),
			slog.String("word", prev.Word),
		)
		*prev = entry
		return prev
	}
	d.byURLID[entry.URLID] = stored
	d.entries = append(d.entries, stored)

	d.registerHeadword(stored.Word, stored)
	d.registerHeadword(numberedForm, stored)
	if stored.MeaningOrder > 1 {
		d.registerHeadword(stored.Word+strconv.Itoa(stored.MeaningOrder), stored)
	}
	return stored
}

// registerHeadword keeps the first entry seen for each form.
func (d *Dictionary) registerHeadword(form string, entry *Entry) {
	if _, ok := d.headwords[form]; ok {
		return
	}
	d.headwords[form] = entry
}

// Entries returns the stored entries in insertion order. Callers may mutate
// the entries in place but not re-key them.
func (d *Dictionary) Entries() []*Entry {
	return d.entries
}

func (d *Dictionary) Len() int {
	return len(d.entries)
}

// Lookup finds an entry by url_id.
func (d *Dictionary) Lookup(urlID string) (*Entry, bool) {
	e, ok := d.byURLID[urlID]
	return e, ok
}

// IsHeadword reports whether word was inserted as a headword, either in its
// plain or its numbered form ("dhamma2").
func (d *Dictionary) IsHeadword(word string) bool {
	_, ok := d.headwords[strings.TrimSpace(word)]
	return ok
}

// Headword returns the first entry registered under form.
func (d *Dictionary) Headword(form string) (*Entry, bool) {
	e, ok := d.headwords[strings.TrimSpace(form)]
	return e, ok
}

// URLID composes the anchor identifier of an entry. It doubles as the TEI
// xml:id, so it always starts with a letter: "2nd" becomes "entry-2nd-1".
func URLID(word, label string, order int) string {
	w := slug(word)
	switch {
	case w == "":
		w = "entry"
	case w[0] >= '0' && w[0] <= '9':
		w = "entry-" + w
	}
	parts := []string{w}
	if l := slug(label); l != "" {
		parts = append(parts, l)
	}
	parts = append(parts, strconv.Itoa(order))
	return strings.Join(parts, "-")
}

func slug(s string) string {
	s = alphabet.ASCII(strings.ToLower(strings.TrimSpace(s)))
	s = strings.ReplaceAll(s, " ", "-")
	s = urlIDInvalidPattern.ReplaceAllString(s, "")
	s = urlIDDashesPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}

// String is used in log lines.
func (e *Entry) String() string {
	return fmt.Sprintf("%s (%s)", e.Word, e.URLID)
}
