package services

import "github.com/oneair/oneair-store-api/models"

// Selection is the set of order ids checked for a bulk action. It keeps the order in
// which ids were first added. The zero value is an empty selection.
type Selection struct {
	ids   []string
	index map[string]struct{}
}

func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s *Selection) Add(id string) {
	if id == "" || s.Contains(id) {
		return
	}
	if s.index == nil {
		s.index = make(map[string]struct{})
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

func (s *Selection) Remove(id string) {
	if !s.Contains(id) {
		return
	}
	delete(s.index, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
}

func (s *Selection) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Toggle checks id if unchecked and unchecks it otherwise
func (s *Selection) Toggle(id string) {
	if s.Contains(id) {
		s.Remove(id)
		return
	}
	s.Add(id)
}

// ToggleAll clears the selection when every visible order is already checked,
// otherwise it replaces the selection with the visible orders.
func (s *Selection) ToggleAll(visible []models.Order) {
	if len(s.ids) == len(visible) {
		s.Clear()
		return
	}
	s.Clear()
	for _, order := range visible {
		s.Add(order.ID)
	}
}

func (s *Selection) Clear() {
	s.ids = nil
	s.index = nil
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the selected ids
func (s *Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}
