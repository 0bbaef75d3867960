package plot

import (
	"fmt"
	"sort"
	"strings"
)

// IndexSet is a set of point indices, e.g. selected points.
type IndexSet map[int]struct{}

// NewIndexSet returns a set containing idx.
func NewIndexSet(idx ...int) IndexSet {
	s := make(IndexSet, len(idx))
	for _, i := range idx {
		s.Add(i)
	}
	return s
}

func (s IndexSet) String() string {
	var b strings.Builder
	b.WriteString("[ ")
	for _, i := range s.Elements() {
		fmt.Fprintf(&b, "%d ", i)
	}
	return b.String() + "]"
}

// Add adds i to s.
func (s IndexSet) Add(i int) {
	s[i] = struct{}{}
}

// Del removes i from s.
func (s IndexSet) Del(i int) {
	delete(s, i)
}

// Contains reports membership of i in s.
func (s IndexSet) Contains(i int) bool {
	_, ok := s[i]
	return ok
}

// Join adds all elements of t to s.
func (s IndexSet) Join(t IndexSet) {
	for i := range t {
		s[i] = struct{}{}
	}
}

// Intersect returns the intersection of s and t.
func (s IndexSet) Intersect(t IndexSet) IndexSet {
	intersection := NewIndexSet()
	for i := range s {
		if t.Contains(i) {
			intersection.Add(i)
		}
	}
	return intersection
}

// Remove removes all elements of t from s. (Set difference)
func (s IndexSet) Remove(t IndexSet) {
	for i := range t {
		delete(s, i)
	}
}

// Equals compares s to a slice t.
func (s IndexSet) Equals(t []int) bool {
	if len(s) != len(t) {
		return false
	}
	for _, i := range t {
		if _, ok := s[i]; !ok {
			return false
		}
	}
	return true
}

// Elements returns the sorted elements of s.
func (s IndexSet) Elements() []int {
	elems := make([]int, 0, len(s))
	for i := range s {
		elems = append(elems, i)
	}
	sort.Ints(elems)
	return elems
}
