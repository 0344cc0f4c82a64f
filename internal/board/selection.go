package board

// Selection is the multi-select machine. While active, picking a task toggles
// it in the set instead of opening it.
type Selection struct {
	active bool
	ids    []string
}

// ToggleMode switches multi-select on or off. Switching off clears the set.
func (s *Selection) ToggleMode() bool {
	s.active = !s.active
	if !s.active {
		s.ids = nil
	}
	return s.active
}

// Active reports whether multi-select is on
func (s *Selection) Active() bool {
	return s.active
}

// Toggle adds or removes id and reports whether it is now selected
func (s *Selection) Toggle(id string) bool {
	if !s.active {
		return false
	}
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return false
		}
	}
	s.ids = append(s.ids, id)
	return true
}

// Has reports whether id is selected
func (s *Selection) Has(id string) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// IDs returns the selected ids in the order they were picked
func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Len returns the number of selected tasks
func (s *Selection) Len() int {
	return len(s.ids)
}

// Clear empties the set and leaves the mode as is
func (s *Selection) Clear() {
	s.ids = nil
}
