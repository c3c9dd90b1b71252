package svg

import "github.com/beevik/etree"

// ElementSet is a set of elements compared by identity.
type ElementSet map[*etree.Element]struct{}

// NewElementSet returns a set holding elems.
func NewElementSet(elems ...*etree.Element) ElementSet {
	s := make(ElementSet, len(elems))
	for _, e := range elems {
		s[e] = struct{}{}
	}
	return s
}

// Add inserts e into the set.
func (s ElementSet) Add(e *etree.Element) {
	s[e] = struct{}{}
}

// Has reports whether e is in the set.
func (s ElementSet) Has(e *etree.Element) bool {
	_, ok := s[e]
	return ok
}

// Union returns a new set holding the members of s and every other set.
func (s ElementSet) Union(others ...ElementSet) ElementSet {
	n := len(s)
	for _, o := range others {
		n += len(o)
	}
	out := make(ElementSet, n)
	for e := range s {
		out[e] = struct{}{}
	}
	for _, o := range others {
		for e := range o {
			out[e] = struct{}{}
		}
	}
	return out
}

// Covers reports whether e or one of its ancestors is in the set.
func (s ElementSet) Covers(e *etree.Element) bool {
	for ; e != nil; e = e.Parent() {
		if s.Has(e) {
			return true
		}
	}
	return false
}
