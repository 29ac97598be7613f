package collector

// PendingSet is the work list of target names awaiting emission. It
// preserves first-discovery order and supports the read-compute-swap
// update the resolver performs between rounds, so the set is never
// mutated while being traversed.
type PendingSet struct {
	names []string
	index map[string]bool
}

// NewPendingSet creates an empty pending set
func NewPendingSet() *PendingSet {
	return &PendingSet{index: make(map[string]bool)}
}

// Union adds every name not already present, preserving insertion order
func (s *PendingSet) Union(names []string) {
	for _, name := range names {
		if s.index[name] {
			continue
		}
		s.index[name] = true
		s.names = append(s.names, name)
	}
}

// Names returns a snapshot of the pending names in discovery order
func (s *PendingSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Contains reports whether a name is still pending
func (s *PendingSet) Contains(name string) bool {
	return s.index[name]
}

// Len returns the number of pending names
func (s *PendingSet) Len() int {
	return len(s.names)
}

// Swap replaces the set contents with the given still-pending names
func (s *PendingSet) Swap(remaining []string) {
	s.names = make([]string, 0, len(remaining))
	s.index = make(map[string]bool, len(remaining))
	s.Union(remaining)
}
