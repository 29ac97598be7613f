package collector

import (
	"reflect"
	"testing"
)

func TestPendingSetUnionPreservesOrder(t *testing.T) {
	s := NewPendingSet()
	s.Union([]string{"a", "b"})
	s.Union([]string{"b", "c", "a"})

	want := []string{"a", "b", "c"}
	if got := s.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestPendingSetContains(t *testing.T) {
	s := NewPendingSet()
	s.Union([]string{"a"})

	if !s.Contains("a") {
		t.Error("Contains(a) = false")
	}
	if s.Contains("b") {
		t.Error("Contains(b) = true")
	}
}

func TestPendingSetSwap(t *testing.T) {
	s := NewPendingSet()
	s.Union([]string{"a", "b", "c"})
	s.Swap([]string{"b"})

	if got := s.Names(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Names() = %v, want [b]", got)
	}
	if s.Contains("a") {
		t.Error("Contains(a) = true after swap")
	}

	// Dropped names may be re-added by a later union.
	s.Union([]string{"a"})
	if got := s.Names(); !reflect.DeepEqual(got, []string{"b", "a"}) {
		t.Errorf("Names() = %v, want [b a]", got)
	}
}

func TestPendingSetNamesIsASnapshot(t *testing.T) {
	s := NewPendingSet()
	s.Union([]string{"a", "b"})

	snapshot := s.Names()
	s.Swap(nil)

	if !reflect.DeepEqual(snapshot, []string{"a", "b"}) {
		t.Errorf("snapshot mutated: %v", snapshot)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Swap(nil), want 0", s.Len())
	}
}
