package markup

import (
	"strconv"
	"strings"
	"unicode"
)

// HeadingRecord describes a heading found during translation.
type HeadingRecord struct {
	Level int    // 1-6
	ID    string // unique anchor within the document
	Text  string // plain text, no markup
}

// FootnoteEntry describes a footnote label seen during translation.
type FootnoteEntry struct {
	Label   string
	Ordinal int  // 1-based, order of first sighting
	Defined bool // a definition was found for the label
}

// Registry assigns heading identifiers and footnote ordinals for one document.
// It is not safe for concurrent use; create one per translation.
type Registry struct {
	headings  []HeadingRecord
	slugs     map[string]struct{}
	footnotes map[string]*FootnoteEntry
	order     []*FootnoteEntry
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		slugs:     make(map[string]struct{}),
		footnotes: make(map[string]*FootnoteEntry),
	}
}

// RegisterHeading records a heading and returns it with a unique identifier.
// Colliding slugs get a numeric suffix (-1, -2, ...).
func (r *Registry) RegisterHeading(text string, level int) HeadingRecord {
	level = min(max(level, 1), 6)
	rec := HeadingRecord{
		Level: level,
		ID:    r.uniqueSlug(Slugify(text)),
		Text:  text,
	}
	r.headings = append(r.headings, rec)
	return rec
}

func (r *Registry) uniqueSlug(base string) string {
	slug := base
	for n := 1; ; n++ {
		if _, taken := r.slugs[slug]; !taken {
			break
		}
		slug = base + "-" + strconv.Itoa(n)
	}
	r.slugs[slug] = struct{}{}
	return slug
}

// FootnoteOrdinal returns the ordinal of label, assigning the next one on
// first sighting.
func (r *Registry) FootnoteOrdinal(label string) int {
	return r.footnote(label).Ordinal
}

// markDefined records that a definition exists for label.
func (r *Registry) markDefined(label string) {
	r.footnote(label).Defined = true
}

func (r *Registry) footnote(label string) *FootnoteEntry {
	if e, ok := r.footnotes[label]; ok {
		return e
	}
	e := &FootnoteEntry{Label: label, Ordinal: len(r.order) + 1}
	r.footnotes[label] = e
	r.order = append(r.order, e)
	return e
}

// Headings returns the registered headings in document order.
func (r *Registry) Headings() []HeadingRecord {
	out := make([]HeadingRecord, len(r.headings))
	copy(out, r.headings)
	return out
}

// Footnotes returns the footnote labels in ordinal order.
func (r *Registry) Footnotes() []FootnoteEntry {
	out := make([]FootnoteEntry, len(r.order))
	for i, e := range r.order {
		out[i] = *e
	}
	return out
}

// defaultSlug replaces headings whose text has no letters or digits.
const defaultSlug = "section"

// Slugify lowercases s and collapses every run of characters that are not
// letters or digits into a single '-'. Non-Latin letters are kept as is.
func Slugify(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	if b.Len() == 0 {
		return defaultSlug
	}
	return b.String()
}
