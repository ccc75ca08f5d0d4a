package catalog

import "sort"

// Selection is a set of selected feature ids. The zero value is not usable;
// build one with NewSelection.
type Selection map[string]struct{}

// NewSelection returns a selection holding ids.
func NewSelection(ids ...string) Selection {
	s := make(Selection, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has reports whether id is selected. Safe on a nil selection.
func (s Selection) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add selects id. Blank ids are ignored.
func (s Selection) Add(id string) {
	if id == "" {
		return
	}
	s[id] = struct{}{}
}

// Remove deselects id.
func (s Selection) Remove(id string) {
	delete(s, id)
}

// Toggle flips id and returns whether it is now selected.
func (s Selection) Toggle(id string) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return s.Has(id)
}

// Clear deselects everything.
func (s Selection) Clear() {
	for id := range s {
		delete(s, id)
	}
}

// Len returns the number of selected ids.
func (s Selection) Len() int { return len(s) }

// IDs returns the selected ids sorted ascending.
func (s Selection) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s Selection) Clone() Selection {
	return NewSelection(s.IDs()...)
}
