package report

import "github.com/google/uuid"

// index maps ids to their owners. It is rebuilt whenever a lookup misses, so
// sections and elements appended directly to the slices are still found.
type index struct {
	sections map[uuid.UUID]*Section
	elements map[uuid.UUID]*Section // element id to owning section
}

func (t *Template) reindex() *index {
	ix := &index{
		sections: make(map[uuid.UUID]*Section, len(t.Sections)),
		elements: make(map[uuid.UUID]*Section),
	}

	for _, s := range t.Sections {
		ix.sections[s.ID] = s

		for _, e := range s.Elements {
			ix.elements[e.ID] = s
		}
	}

	t.index = ix

	return ix
}

func (t *Template) lookupSection(id uuid.UUID) *Section {
	if t.index != nil {
		if s, ok := t.index.sections[id]; ok && t.owns(s) {
			return s
		}
	}

	return t.reindex().sections[id]
}

// lookupElement returns the element with id, its owning section, and its
// position in the section.
func (t *Template) lookupElement(id uuid.UUID) (*Element, *Section, int) {
	find := func(s *Section) (*Element, int) {
		for i, e := range s.Elements {
			if e.ID == id {
				return e, i
			}
		}

		return nil, -1
	}

	if t.index != nil {
		if s, ok := t.index.elements[id]; ok && t.owns(s) {
			if e, i := find(s); e != nil {
				return e, s, i
			}
		}
	}

	if s, ok := t.reindex().elements[id]; ok {
		if e, i := find(s); e != nil {
			return e, s, i
		}
	}

	return nil, nil, -1
}

// owns reports whether s is still one of t's sections.
func (t *Template) owns(s *Section) bool {
	for _, x := range t.Sections {
		if x == s {
			return true
		}
	}

	return false
}

func (t *Template) invalidate() { t.index = nil }
