package neo

import (
	"slices"

	"github.com/lysyi3m/neo-comb/app/validate"
)

// MinCompare is the smallest selection the comparison view accepts.
const MinCompare = 2

const notEnoughSelectedMessage = "Please select at least 2 NEOs to compare"

// Selection is an ordered, id-keyed set of user-marked objects. It holds the
// snapshot taken at selection time and is independent of the current view.
// Methods return new values and never modify the receiver's backing array.
type Selection struct {
	items []Summary
}

func NewSelection(items ...Summary) Selection {
	var s Selection
	for _, item := range items {
		if !s.Contains(item.ID) {
			s.items = append(s.items, item)
		}
	}
	return s
}

// Toggle removes the entry with neo's id when present, otherwise appends neo.
func (s Selection) Toggle(neo Summary) Selection {
	if s.Contains(neo.ID) {
		return s.Remove(neo.ID)
	}
	items := make([]Summary, len(s.items), len(s.items)+1)
	copy(items, s.items)
	return Selection{items: append(items, neo)}
}

func (s Selection) Remove(id string) Selection {
	items := make([]Summary, 0, len(s.items))
	for _, item := range s.items {
		if item.ID != id {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return Selection{}
	}
	return Selection{items: items}
}

func (s Selection) Clear() Selection {
	return Selection{}
}

func (s Selection) Contains(id string) bool {
	return slices.ContainsFunc(s.items, func(item Summary) bool { return item.ID == id })
}

func (s Selection) Len() int {
	return len(s.items)
}

func (s Selection) Items() []Summary {
	return slices.Clone(s.items)
}

func (s Selection) IDs() []string {
	ids := make([]string, 0, len(s.items))
	for _, item := range s.items {
		ids = append(ids, item.ID)
	}
	return ids
}

// ValidateCompare rejects comparison of fewer than MinCompare objects.
func (s Selection) ValidateCompare() error {
	if s.Len() < MinCompare {
		return validate.Field("selection", notEnoughSelectedMessage)
	}
	return nil
}
