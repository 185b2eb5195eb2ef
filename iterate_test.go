package splay

import (
	"cmp"
	"testing"
)

func rangeTestMap(t *testing.T) *Map[int, string] {
	t.Helper()
	m, err := NewMap[int, string](cmp.Compare[int])
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []int{9, 3, 7, 1, 5} {
		m.Insert(key, "")
	}
	return m
}

func collectKeys(m *Map[int, string], lo, hi int) []int {
	var keys []int
	for k := range m.Range(lo, hi) {
		keys = append(keys, k)
	}
	return keys
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestMapNextPrev(t *testing.T) {
	m := rangeTestMap(t)
	want := []int{1, 3, 5, 7, 9}
	i := 0
	for n := m.First(); n != nil; n = n.Next() {
		if i >= len(want) || n.Key() != want[i] {
			t.Fatalf("forward walk position %d holds key %d", i, n.Key())
		}
		i++
	}
	if i != len(want) {
		t.Errorf("forward walk visited %d nodes, expected %d", i, len(want))
	}
	i = len(want) - 1
	for n := m.Last(); n != nil; n = n.Prev() {
		if i < 0 || n.Key() != want[i] {
			t.Fatalf("backward walk position %d holds key %d", i, n.Key())
		}
		i--
	}
	if i != -1 {
		t.Errorf("backward walk stopped early at position %d", i+1)
	}
}

func TestMapBounds(t *testing.T) {
	m := rangeTestMap(t)
	if n := m.LowerBound(3); n == nil || n.Key() != 3 {
		t.Errorf("LowerBound(3) = %v, expected node 3", n)
	}
	if n := m.LowerBound(4); n == nil || n.Key() != 5 {
		t.Errorf("LowerBound(4) = %v, expected node 5", n)
	}
	if n := m.UpperBound(3); n == nil || n.Key() != 5 {
		t.Errorf("UpperBound(3) = %v, expected node 5", n)
	}
	if n := m.UpperBound(9); n != nil {
		t.Errorf("UpperBound(9) = node %d, expected nil", n.Key())
	}
	if n := m.LowerBound(10); n != nil {
		t.Errorf("LowerBound(10) = node %d, expected nil", n.Key())
	}
	if n := m.LowerBound(-1); n == nil || n.Key() != 1 {
		t.Errorf("LowerBound(-1) should find node 1")
	}
}

func TestMapEqualRange(t *testing.T) {
	m := rangeTestMap(t)
	first, last := m.EqualRange(3, 7)
	if first == nil || last == nil || first.Key() != 3 || last.Key() != 7 {
		t.Fatalf("EqualRange(3, 7) returned wrong boundaries")
	}
	// Non-member bounds must be adjusted inward, not absorb neighbors.
	first, last = m.EqualRange(2, 8)
	if first == nil || last == nil || first.Key() != 3 || last.Key() != 7 {
		t.Fatalf("EqualRange(2, 8) returned wrong boundaries")
	}
	first, last = m.EqualRange(4, 4)
	if first != nil || last != nil {
		t.Errorf("EqualRange(4, 4) should be empty")
	}
	first, last = m.EqualRange(7, 3)
	if first != nil || last != nil {
		t.Errorf("EqualRange(7, 3) should be empty")
	}
	first, last = m.EqualRange(10, 20)
	if first != nil || last != nil {
		t.Errorf("EqualRange(10, 20) should be empty")
	}
	if err := m.Check(); err != nil {
		t.Error(err)
	}
}

func TestMapRangeIteration(t *testing.T) {
	m := rangeTestMap(t)
	if got := collectKeys(m, 3, 7); !equalInts(got, []int{3, 5, 7}) {
		t.Errorf("Range(3, 7) = %v, expected [3 5 7]", got)
	}
	if got := collectKeys(m, 2, 8); !equalInts(got, []int{3, 5, 7}) {
		t.Errorf("Range(2, 8) = %v, expected [3 5 7]", got)
	}
	if got := collectKeys(m, 1, 9); !equalInts(got, []int{1, 3, 5, 7, 9}) {
		t.Errorf("Range(1, 9) = %v, expected all keys", got)
	}
	if got := collectKeys(m, 4, 4); got != nil {
		t.Errorf("Range(4, 4) = %v, expected empty", got)
	}
}

func TestMapAllBackward(t *testing.T) {
	m := rangeTestMap(t)
	var fwd, bwd []int
	for k := range m.All() {
		fwd = append(fwd, k)
	}
	for k := range m.Backward() {
		bwd = append(bwd, k)
	}
	if !equalInts(fwd, []int{1, 3, 5, 7, 9}) {
		t.Errorf("All() = %v", fwd)
	}
	if !equalInts(bwd, []int{9, 7, 5, 3, 1}) {
		t.Errorf("Backward() = %v", bwd)
	}
	// Early exit must not touch the remaining records.
	count := 0
	for range m.All() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Errorf("early exit iterated %d records", count)
	}
}
