package markup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSlugify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple word", input: "Title", want: "title"},
		{name: "spaces become dashes", input: "Getting Started", want: "getting-started"},
		{name: "punctuation collapsed", input: "What's new?! (v2.0)", want: "what-s-new-v2-0"},
		{name: "leading and trailing separators trimmed", input: "  --Intro--  ", want: "intro"},
		{name: "japanese kept", input: "はじめに 概要", want: "はじめに-概要"},
		{name: "only punctuation", input: "!!!", want: defaultSlug},
		{name: "empty", input: "", want: defaultSlug},
		{name: "mixed case and digits", input: "Step 1 of 3", want: "step-1-of-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Slugify(tt.input); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRegistry_RegisterHeading(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.RegisterHeading("Intro", 1)
	reg.RegisterHeading("Intro", 2)
	reg.RegisterHeading("Intro-1", 3)
	reg.RegisterHeading("Intro", 9)
	reg.RegisterHeading("", 0)

	want := []HeadingRecord{
		{Level: 1, ID: "intro", Text: "Intro"},
		{Level: 2, ID: "intro-1", Text: "Intro"},
		{Level: 3, ID: "intro-1-1", Text: "Intro-1"},
		{Level: 6, ID: "intro-2", Text: "Intro"},
		{Level: 1, ID: "section", Text: ""},
	}
	if diff := cmp.Diff(want, reg.Headings()); diff != "" {
		t.Errorf("Headings() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_HeadingsReturnsCopy(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.RegisterHeading("A", 1)

	got := reg.Headings()
	got[0].ID = "mutated"

	if reg.Headings()[0].ID != "a" {
		t.Error("Headings() exposed internal state")
	}
}

func TestRegistry_FootnoteOrdinal(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	steps := []struct {
		label string
		want  int
	}{
		{"b", 1},
		{"a", 2},
		{"b", 1},
		{"c", 3},
		{"a", 2},
	}
	for _, s := range steps {
		if got := reg.FootnoteOrdinal(s.label); got != s.want {
			t.Errorf("FootnoteOrdinal(%q) = %d, want %d", s.label, got, s.want)
		}
	}

	reg.markDefined("a")
	want := []FootnoteEntry{
		{Label: "b", Ordinal: 1},
		{Label: "a", Ordinal: 2, Defined: true},
		{Label: "c", Ordinal: 3},
	}
	if diff := cmp.Diff(want, reg.Footnotes()); diff != "" {
		t.Errorf("Footnotes() mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Independent(t *testing.T) {
	t.Parallel()

	first := NewRegistry()
	first.FootnoteOrdinal("x")
	first.FootnoteOrdinal("y")
	first.RegisterHeading("Title", 1)

	second := NewRegistry()
	if got := second.FootnoteOrdinal("y"); got != 1 {
		t.Errorf("fresh registry ordinal = %d, want 1", got)
	}
	if got := second.RegisterHeading("Title", 1).ID; got != "title" {
		t.Errorf("fresh registry slug = %q, want %q", got, "title")
	}
}
