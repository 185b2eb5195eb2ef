package splay

import "iter"

// LowerBound returns the leftmost node whose key is greater than or equal
// to key, or nil if no such node exists. The boundary's search path is
// splayed, so repeated range queries over nearby keys stay cheap.
func (m *Map[K, V]) LowerBound(key K) *Node[K, V] {
	r := m.splay(key)
	if r == nil {
		return nil
	}
	if m.cmp(key, r.key) > 0 {
		// Splaying an absent key lands on its nearest neighbor, which here
		// is below the bound; step inward once.
		return r.Next()
	}
	return r
}

// UpperBound returns the leftmost node whose key is strictly greater than
// key, or nil if no such node exists.
func (m *Map[K, V]) UpperBound(key K) *Node[K, V] {
	r := m.splay(key)
	if r == nil {
		return nil
	}
	if m.cmp(key, r.key) >= 0 {
		return r.Next()
	}
	return r
}

// EqualRange returns the first and the last node whose keys lie in the
// closed interval [lo, hi]. Both are nil if the interval is empty. The
// bounds need not be member keys.
func (m *Map[K, V]) EqualRange(lo, hi K) (first, last *Node[K, V]) {
	first = m.LowerBound(lo)
	if first == nil {
		return nil, nil
	}
	r := m.splay(hi)
	last = r
	if m.cmp(hi, r.key) < 0 {
		last = r.Prev()
	}
	if last == nil || m.cmp(first.key, last.key) > 0 {
		return nil, nil
	}
	return first, last
}

// All returns an in-order iterator over all records. The walk itself does
// not splay, but any map operation performed while iterating does; mutating
// or even reading the map mid-iteration invalidates the sequence.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := m.First(); n != nil; n = n.Next() {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// Backward returns a reverse-order iterator over all records.
func (m *Map[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := m.Last(); n != nil; n = n.Prev() {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// Range returns an ascending iterator over all records with keys in the
// closed interval [lo, hi].
func (m *Map[K, V]) Range(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		first, last := m.EqualRange(lo, hi)
		for n := first; n != nil; n = n.Next() {
			if !yield(n.key, n.value) {
				return
			}
			if n == last {
				return
			}
		}
	}
}
