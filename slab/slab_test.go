package slab_test

import (
	"testing"

	"github.com/kurokoma/eosd/slab"
)

func TestInsertGetRemove(t *testing.T) {
	var a slab.Arena[int]

	h1 := a.Insert(10)
	h2 := a.Insert(20)

	if v, ok := a.Get(h1); !ok || *v != 10 {
		t.Fatalf("h1: got %v, %v", v, ok)
	}
	if v, ok := a.Get(h2); !ok || *v != 20 {
		t.Fatalf("h2: got %v, %v", v, ok)
	}

	a.Remove(h1)
	if _, ok := a.Get(h1); ok {
		t.Fatalf("h1 should be gone after Remove")
	}
	if v, ok := a.Get(h2); !ok || *v != 20 {
		t.Fatalf("h2 should survive removing h1: got %v, %v", v, ok)
	}
}

func TestHandleStaleAfterSlotReuse(t *testing.T) {
	var a slab.Arena[int]

	h1 := a.Insert(10)
	a.Remove(h1)
	h2 := a.Insert(20) // reuses h1's freed slot with a bumped generation

	if h1.Index() != h2.Index() {
		t.Fatalf("expected slot reuse: h1.Index()=%d h2.Index()=%d", h1.Index(), h2.Index())
	}
	if _, ok := a.Get(h1); ok {
		t.Fatalf("stale handle h1 must not resolve after its slot was reused")
	}
	if v, ok := a.Get(h2); !ok || *v != 20 {
		t.Fatalf("h2: got %v, %v", v, ok)
	}
}

func TestEachExcludesSliceGrowingInsert(t *testing.T) {
	var a slab.Arena[int]
	a.Insert(1)
	a.Insert(2)

	visited := 0
	a.Each(func(_ slab.Handle, v *int) {
		visited++
		// Insert during Each with no freed slot available must append,
		// growing the backing slice. Each ranges over a length captured
		// at loop start, so the new slot must not be visited this pass.
		a.Insert(99)
	})
	if visited != 2 {
		t.Fatalf("expected exactly the original 2 slots visited, got %d", visited)
	}
	if a.Len() != 4 {
		t.Fatalf("expected 4 occupied slots after the grow-inserts, got %d", a.Len())
	}
}

func TestLen(t *testing.T) {
	var a slab.Arena[string]
	if a.Len() != 0 {
		t.Fatalf("empty arena should have Len 0")
	}
	h := a.Insert("x")
	a.Insert("y")
	if a.Len() != 2 {
		t.Fatalf("expected Len 2, got %d", a.Len())
	}
	a.Remove(h)
	if a.Len() != 1 {
		t.Fatalf("expected Len 1 after Remove, got %d", a.Len())
	}
}
