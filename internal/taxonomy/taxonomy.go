// Package taxonomy holds the static audit reference data: sections, their
// weights, and the scorable items each section owns. It is loaded once per
// run and read-only afterwards.
package taxonomy

import (
	"sort"

	dErrors "storepulse/pkg/domain-errors"
)

// Item is one checklist question with a stable numeric code.
// Excluded items are tracked but never counted toward a section score.
type Item struct {
	Code     int
	Label    string
	Excluded bool
}

// Section groups related scorable items under a stable letter identifier.
type Section struct {
	Letter string // "A".."K"
	Name   string // full label, e.g. "A. Tampilan Tampak Depan Outlet"
	Weight int
	Items  []Item
}

// ScorableItems returns the section's items with exclusions filtered out,
// in taxonomy order.
func (s Section) ScorableItems() []Item {
	items := make([]Item, 0, len(s.Items))
	for _, item := range s.Items {
		if item.Excluded {
			continue
		}
		items = append(items, item)
	}
	return items
}

// Taxonomy is the full section/item reference set for one audit program.
type Taxonomy struct {
	sections []Section
	byLetter map[string]int
}

// New assembles a taxonomy from sections, ordering them by letter and
// verifying the invariants the engine relies on: at least one section,
// positive weights, and globally unique item codes.
func New(sections []Section) (*Taxonomy, error) {
	if len(sections) == 0 {
		return nil, dErrors.New(dErrors.CodeConfigurationDefect, "taxonomy has no sections")
	}

	sorted := make([]Section, len(sections))
	copy(sorted, sections)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Letter < sorted[j].Letter })

	byLetter := make(map[string]int, len(sorted))
	seenCodes := make(map[int]string)
	for i, sec := range sorted {
		if sec.Letter == "" {
			return nil, dErrors.New(dErrors.CodeConfigurationDefect, "section with empty letter")
		}
		if sec.Weight <= 0 {
			return nil, dErrors.New(dErrors.CodeConfigurationDefect, "section "+sec.Letter+" has non-positive weight")
		}
		if _, dup := byLetter[sec.Letter]; dup {
			return nil, dErrors.New(dErrors.CodeConfigurationDefect, "duplicate section "+sec.Letter)
		}
		byLetter[sec.Letter] = i
		for _, item := range sec.Items {
			if owner, dup := seenCodes[item.Code]; dup && owner != sec.Letter {
				return nil, dErrors.New(dErrors.CodeConfigurationDefect, "item code owned by two sections")
			}
			seenCodes[item.Code] = sec.Letter
		}
	}

	return &Taxonomy{sections: sorted, byLetter: byLetter}, nil
}

// Sections returns the sections in letter order.
func (t *Taxonomy) Sections() []Section {
	return t.sections
}

// Section looks up a section by letter.
func (t *Taxonomy) Section(letter string) (Section, bool) {
	i, ok := t.byLetter[letter]
	if !ok {
		return Section{}, false
	}
	return t.sections[i], true
}

// Weights returns the section weight table keyed by letter.
func (t *Taxonomy) Weights() map[string]int {
	weights := make(map[string]int, len(t.sections))
	for _, sec := range t.sections {
		weights[sec.Letter] = sec.Weight
	}
	return weights
}

// SectionName returns the full display label for a section letter, falling
// back to the letter itself when unknown.
func (t *Taxonomy) SectionName(letter string) string {
	if sec, ok := t.Section(letter); ok {
		return sec.Name
	}
	return letter
}
