// Package selection tracks which extracted images are marked for download.
package selection

import "fmt"

// Store holds one selected flag per image index. A fresh store has every
// index selected. Indices outside [0, Len()) are programming errors and panic.
type Store struct {
	selected []bool
}

// New returns a store of n entries, all selected
func New(n int) *Store {
	s := &Store{}
	s.Reset(n)
	return s
}

// Reset replaces the store with n entries, all selected
func (s *Store) Reset(n int) {
	if n < 0 {
		panic(fmt.Sprintf("selection: negative size %d", n))
	}
	s.selected = make([]bool, n)
	for i := range s.selected {
		s.selected[i] = true
	}
}

// Len returns the number of images the store covers
func (s *Store) Len() int {
	return len(s.selected)
}

// SetAll marks every index as selected or not
func (s *Store) SetAll(selected bool) {
	for i := range s.selected {
		s.selected[i] = selected
	}
}

// SetOne marks a single index
func (s *Store) SetOne(index int, selected bool) {
	s.check(index)
	s.selected[index] = selected
}

// Toggle flips a single index and returns its new state
func (s *Store) Toggle(index int) bool {
	s.check(index)
	s.selected[index] = !s.selected[index]
	return s.selected[index]
}

// Get reports whether index is selected
func (s *Store) Get(index int) bool {
	s.check(index)
	return s.selected[index]
}

// SelectedCount returns how many indices are selected
func (s *Store) SelectedCount() int {
	n := 0
	for _, sel := range s.selected {
		if sel {
			n++
		}
	}
	return n
}

// SelectedIndices returns the selected indices in ascending order
func (s *Store) SelectedIndices() []int {
	indices := make([]int, 0, len(s.selected))
	for i, sel := range s.selected {
		if sel {
			indices = append(indices, i)
		}
	}
	return indices
}

func (s *Store) check(index int) {
	if index < 0 || index >= len(s.selected) {
		panic(fmt.Sprintf("selection: index %d out of range [0, %d)", index, len(s.selected)))
	}
}
