package splay

import (
	"cmp"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/require"
)

// brokenAlloc fails after budget successful allocations.
type brokenAlloc[T any] struct {
	budget *int
}

func (a brokenAlloc[T]) Alloc(n int) []T {
	if *a.budget <= 0 {
		return nil
	}
	*a.budget--
	return make([]T, n)
}

func (a brokenAlloc[T]) Free(s []T) {}

func TestHandleMapInsertFind(t *testing.T) {
	m, err := NewHandleMap[int, string](cmp.Compare[int], 4)
	require.NoError(t, err)
	defer m.Close()
	h, inserted, err := m.Insert(42, "answer")
	require.NoError(t, err)
	require.True(t, inserted)
	require.NotEqual(t, Handle(0), h)
	require.Equal(t, h, m.Find(42))
	v, ok := m.Get(42)
	require.True(t, ok)
	require.Equal(t, "answer", v)
	require.Equal(t, Handle(0), m.Find(7))
	require.NoError(t, m.Check())
}

func TestHandleMapDuplicateInsert(t *testing.T) {
	m, err := NewHandleMap[int, string](cmp.Compare[int], 4)
	require.NoError(t, err)
	defer m.Close()
	h1, _, err := m.Insert(1, "old")
	require.NoError(t, err)
	h2, inserted, err := m.Insert(1, "new")
	require.NoError(t, err)
	require.False(t, inserted)
	require.Equal(t, h1, h2)
	v, _ := m.Get(1)
	require.Equal(t, "old", v, "occupied insert must leave the record unchanged")
	require.Equal(t, 1, m.Len())
}

func TestHandleMapHandleStability(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	m, err := NewHandleMap[int, int](cmp.Compare[int], 2)
	require.NoError(t, err)
	defer m.Close()
	handles := make(map[int]Handle)
	for i := 0; i < 200; i++ {
		h, inserted, err := m.Insert(i, i*i)
		require.NoError(t, err)
		require.True(t, inserted)
		handles[i] = h
	}
	// Growth and heavy splaying must not move any record to another handle.
	for i := 0; i < 200; i += 7 {
		m.Find(i)
	}
	for i, h := range handles {
		s, ok := m.Slot(h)
		require.True(t, ok, "handle for key %d went stale", i)
		require.Equal(t, i, s.Key)
		require.Equal(t, i*i, s.Value)
	}
	require.NoError(t, m.Check())
}

func TestHandleMapFixedCapacity(t *testing.T) {
	m, err := NewFixedHandleMap[int, int](cmp.Compare[int], 3)
	require.NoError(t, err)
	defer m.Close()
	for i := 1; i <= 3; i++ {
		_, _, err := m.Insert(i, i)
		require.NoError(t, err)
	}
	_, _, err = m.Insert(4, 4)
	require.ErrorIs(t, err, ErrCapacity)
	require.Equal(t, 3, m.Len(), "failed insert must leave the map unchanged")
	require.True(t, m.Contains(2))
	require.NoError(t, m.Check())
	// Freeing a slot makes room again.
	_, ok := m.Delete(2)
	require.True(t, ok)
	_, _, err = m.Insert(4, 4)
	require.NoError(t, err)
}

func TestHandleMapAllocFailure(t *testing.T) {
	budget := 1 // enough for the initial record array only
	m, err := NewHandleMap[int, int](cmp.Compare[int], 2,
		WithAllocator[int, int](brokenAlloc[Slot[int, int]]{budget: &budget}))
	require.NoError(t, err)
	defer m.Close()
	_, _, err = m.Insert(1, 1)
	require.NoError(t, err)
	_, _, err = m.Insert(2, 2)
	require.NoError(t, err)
	_, _, err = m.Insert(3, 3)
	require.ErrorIs(t, err, ErrAllocFailed)
	require.Equal(t, 2, m.Len())
	require.True(t, m.Contains(1))
	require.True(t, m.Contains(2))
	require.NoError(t, m.Check())
}

func TestHandleMapDeleteHandle(t *testing.T) {
	m, err := NewHandleMap[int, string](cmp.Compare[int], 4)
	require.NoError(t, err)
	defer m.Close()
	h, _, err := m.Insert(5, "five")
	require.NoError(t, err)
	m.Insert(3, "three")
	require.NoError(t, m.DeleteHandle(h))
	require.False(t, m.Contains(5))
	require.Equal(t, 1, m.Len())
	require.ErrorIs(t, m.DeleteHandle(h), ErrInvalidHandle)
	require.ErrorIs(t, m.DeleteHandle(0), ErrInvalidHandle)
	require.ErrorIs(t, m.DeleteHandle(999), ErrInvalidHandle)
	require.NoError(t, m.Check())
}

func TestHandleMapSetValue(t *testing.T) {
	m, err := NewHandleMap[int, string](cmp.Compare[int], 4)
	require.NoError(t, err)
	defer m.Close()
	h, _, err := m.Insert(1, "old")
	require.NoError(t, err)
	require.NoError(t, m.SetValue(h, "new"))
	v, _ := m.Get(1)
	require.Equal(t, "new", v)
	require.ErrorIs(t, m.SetValue(0, "x"), ErrInvalidHandle)
	require.ErrorIs(t, m.SetValue(99, "x"), ErrInvalidHandle)
}

func TestHandleMapSlotReuse(t *testing.T) {
	m, err := NewFixedHandleMap[int, int](cmp.Compare[int], 2)
	require.NoError(t, err)
	defer m.Close()
	h1, _, _ := m.Insert(1, 1)
	_, ok := m.Delete(1)
	require.True(t, ok)
	_, ok = m.Slot(h1)
	require.False(t, ok, "slot of a removed record must read as unoccupied")
	h2, _, _ := m.Insert(2, 2)
	require.Equal(t, h1, h2, "freed slot should be reused first")
	require.NoError(t, m.Check())
}

func TestHandleMapTraversal(t *testing.T) {
	m, err := NewHandleMap[int, string](cmp.Compare[int], 8)
	require.NoError(t, err)
	defer m.Close()
	for _, k := range []int{5, 1, 9, 3, 7} {
		_, _, err := m.Insert(k, "")
		require.NoError(t, err)
	}
	var keys []int
	for h := m.First(); h != 0; h = m.Next(h) {
		s, ok := m.Slot(h)
		require.True(t, ok)
		keys = append(keys, s.Key)
	}
	require.Equal(t, []int{1, 3, 5, 7, 9}, keys)
	keys = keys[:0]
	for h := m.Last(); h != 0; h = m.Prev(h) {
		s, _ := m.Slot(h)
		keys = append(keys, s.Key)
	}
	require.Equal(t, []int{9, 7, 5, 3, 1}, keys)
	keys = keys[:0]
	for k := range m.All() {
		keys = append(keys, k)
	}
	require.Equal(t, []int{1, 3, 5, 7, 9}, keys)
	var hs []Handle
	for h := range m.Handles() {
		hs = append(hs, h)
	}
	require.Len(t, hs, 5)
}

func TestHandleMapBoundsAndRange(t *testing.T) {
	m, err := NewHandleMap[int, string](cmp.Compare[int], 8)
	require.NoError(t, err)
	defer m.Close()
	for _, k := range []int{9, 3, 7, 1, 5} {
		_, _, err := m.Insert(k, "")
		require.NoError(t, err)
	}
	h := m.LowerBound(3)
	require.NotEqual(t, Handle(0), h)
	s, _ := m.Slot(h)
	require.Equal(t, 3, s.Key)
	h = m.LowerBound(4)
	s, _ = m.Slot(h)
	require.Equal(t, 5, s.Key)
	h = m.UpperBound(3)
	s, _ = m.Slot(h)
	require.Equal(t, 5, s.Key)
	require.Equal(t, Handle(0), m.UpperBound(9))
	require.Equal(t, Handle(0), m.LowerBound(10))

	first, last := m.EqualRange(3, 7)
	sf, _ := m.Slot(first)
	sl, _ := m.Slot(last)
	require.Equal(t, 3, sf.Key)
	require.Equal(t, 7, sl.Key)
	// Non-member bounds must be adjusted inward, not absorb neighbors.
	collect := func(lo, hi int) []int {
		var keys []int
		for k := range m.Range(lo, hi) {
			keys = append(keys, k)
		}
		return keys
	}
	require.Equal(t, []int{3, 5, 7}, collect(3, 7))
	require.Equal(t, []int{3, 5, 7}, collect(2, 8))
	require.Equal(t, []int{1, 3, 5, 7, 9}, collect(1, 9))
	require.Nil(t, collect(4, 4))
	first, last = m.EqualRange(7, 3)
	require.Equal(t, Handle(0), first)
	require.Equal(t, Handle(0), last)
	require.NoError(t, m.Check())
}

func TestHandleMapCopyFrom(t *testing.T) {
	src, err := NewHandleMap[int, string](cmp.Compare[int], 8)
	require.NoError(t, err)
	defer src.Close()
	handles := make(map[int]Handle)
	for _, k := range []int{4, 2, 6, 1, 3} {
		h, _, err := src.Insert(k, "v")
		require.NoError(t, err)
		handles[k] = h
	}
	dst, err := NewHandleMap[int, string](cmp.Compare[int], 2)
	require.NoError(t, err)
	defer dst.Close()
	require.NoError(t, dst.CopyFrom(src))
	require.Equal(t, src.Len(), dst.Len())
	for k, h := range handles {
		require.Equal(t, h, dst.Find(k), "copied record for key %d changed handles", k)
	}
	require.NoError(t, dst.Check())
	// The copy is independent of its source.
	dst.Delete(4)
	require.True(t, src.Contains(4))
	require.NoError(t, src.Check())
}

func TestHandleMapClear(t *testing.T) {
	gtrace.CoreTracer = gotestingadapter.New(t)
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	m, err := NewHandleMap[int, int](cmp.Compare[int], 4)
	require.NoError(t, err)
	defer m.Close()
	for i := 0; i < 10; i++ {
		m.Insert(i, i)
	}
	capBefore := m.Cap()
	seen := 0
	m.ClearFunc(func(key, value int) { seen++ })
	require.Equal(t, 10, seen)
	require.Equal(t, 0, m.Len())
	require.Equal(t, capBefore, m.Cap(), "Clear must retain capacity")
	require.NoError(t, m.Check())
	_, _, err = m.Insert(1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, m.Len())
}
